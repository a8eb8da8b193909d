package services

import (
	"math"
	"testing"
	"time"

	"nurture/internal/models"
	"nurture/internal/testutil"
)

func newShoppingService(t *testing.T) (*shoppingService, string, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)
	return NewShoppingService(db).(*shoppingService), user.ID, pregnancy.ID
}

func TestCreateShoppingItem(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc, userID, pregnancyID := newShoppingService(t)

		item, err := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Name: "Car seat", Category: "travel"})
		testutil.AssertNoError(t, err)
		if item.Priority != models.PriorityMedium {
			t.Errorf("expected medium priority, got %q", item.Priority)
		}
		if item.PurchaseDate != nil {
			t.Error("unpurchased item must not have a purchase date")
		}
	})

	t.Run("created_purchased_is_stamped", func(t *testing.T) {
		svc, userID, pregnancyID := newShoppingService(t)

		item, err := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Name: "Bottles", Category: "feeding", Purchased: true})
		testutil.AssertNoError(t, err)
		if item.PurchaseDate == nil {
			t.Error("expected purchase date to be set")
		}
	})

	t.Run("validation", func(t *testing.T) {
		svc, userID, pregnancyID := newShoppingService(t)

		price := -3.0
		_, err := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Priority: "urgent", Price: &price})
		for _, field := range []string{"name", "category", "priority", "price"} {
			testutil.AssertFieldError(t, err, field)
		}
	})

	t.Run("price_must_fit_the_column", func(t *testing.T) {
		svc, userID, pregnancyID := newShoppingService(t)

		for _, price := range []float64{math.NaN(), math.Inf(1), 5e8, MaxPrice + 0.01} {
			p := price
			_, err := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Name: "Crib", Category: "nursery", Price: &p})
			testutil.AssertFieldError(t, err, "price")
		}

		top := MaxPrice
		item, err := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Name: "Crib", Category: "nursery", Price: &top})
		testutil.AssertNoError(t, err)
		if item.Price == nil || *item.Price != MaxPrice {
			t.Errorf("expected price %v, got %v", MaxPrice, item.Price)
		}
	})

	t.Run("price_is_rounded_to_cents", func(t *testing.T) {
		svc, userID, pregnancyID := newShoppingService(t)

		price := 49.999
		item, err := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Name: "Monitor", Category: "gear", Price: &price})
		testutil.AssertNoError(t, err)
		if item.Price == nil || *item.Price != 50 {
			t.Errorf("expected price 50, got %v", item.Price)
		}

		updated := 12.346
		item, err = svc.UpdateShoppingItem(userID, item.ID, ShoppingItemUpdate{Price: SetTo(&updated)})
		testutil.AssertNoError(t, err)
		if item.Price == nil || *item.Price != 12.35 {
			t.Errorf("expected updated price 12.35, got %v", item.Price)
		}
	})
}

func TestShoppingItemPurchaseDate(t *testing.T) {
	svc, userID, pregnancyID := newShoppingService(t)
	first := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	item, err := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Name: "Stroller", Category: "travel"})
	testutil.AssertNoError(t, err)

	purchased := true
	updated, err := svc.UpdateShoppingItem(userID, item.ID, ShoppingItemUpdate{Purchased: &purchased})
	testutil.AssertNoError(t, err)
	if updated.PurchaseDate == nil || !updated.PurchaseDate.Equal(first) {
		t.Fatalf("expected purchase date %v, got %v", first, updated.PurchaseDate)
	}

	svc.now = func() time.Time { return first.AddDate(0, 0, 3) }
	again, err := svc.UpdateShoppingItem(userID, item.ID, ShoppingItemUpdate{Purchased: &purchased})
	testutil.AssertNoError(t, err)
	if again.PurchaseDate == nil || !again.PurchaseDate.Equal(first) {
		t.Errorf("re-marking purchased must keep the original date, got %v", again.PurchaseDate)
	}

	notPurchased := false
	cleared, err := svc.UpdateShoppingItem(userID, item.ID, ShoppingItemUpdate{Purchased: &notPurchased})
	testutil.AssertNoError(t, err)
	if cleared.PurchaseDate != nil {
		t.Errorf("expected purchase date cleared, got %v", cleared.PurchaseDate)
	}
}

func TestGetShoppingItemsOrder(t *testing.T) {
	svc, userID, pregnancyID := newShoppingService(t)

	create := func(name string, p models.ShoppingPriority, purchased bool) {
		t.Helper()
		_, err := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Name: name, Category: "misc", Priority: p, Purchased: purchased})
		testutil.AssertNoError(t, err)
	}
	create("bought-high", models.PriorityHigh, true)
	create("low", models.PriorityLow, false)
	create("medium", models.PriorityMedium, false)
	create("high", models.PriorityHigh, false)

	items, err := svc.GetShoppingItems(userID, pregnancyID)
	testutil.AssertNoError(t, err)

	want := []string{"high", "medium", "low", "bought-high"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, items[i].Name)
		}
	}
}

func TestUpdateShoppingItemOwnership(t *testing.T) {
	svc, userID, pregnancyID := newShoppingService(t)
	item, _ := svc.CreateShoppingItem(userID, pregnancyID, ShoppingItemInput{Name: "Crib", Category: "nursery"})
	stranger := testutil.CreateTestUser(t, svc.db)

	name := "Mine now"
	_, err := svc.UpdateShoppingItem(stranger.ID, item.ID, ShoppingItemUpdate{Name: &name})
	testutil.AssertAppError(t, err, "SHOPPING_ITEM_NOT_FOUND")

	price := 199.0
	updated, err := svc.UpdateShoppingItem(userID, item.ID, ShoppingItemUpdate{Price: SetTo(&price)})
	testutil.AssertNoError(t, err)
	if updated.Price == nil || *updated.Price != price {
		t.Errorf("expected price %v, got %v", price, updated.Price)
	}

	testutil.AssertAppError(t, svc.DeleteShoppingItem(stranger.ID, item.ID), "SHOPPING_ITEM_NOT_FOUND")
	testutil.AssertNoError(t, svc.DeleteShoppingItem(userID, item.ID))
}
