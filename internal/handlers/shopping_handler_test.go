package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"nurture/internal/models"
	"nurture/internal/services"
)

type mockShoppingService struct {
	createFn func(userID, pregnancyID string, in services.ShoppingItemInput) (*models.ShoppingItem, error)
	updateFn func(userID, itemID string, in services.ShoppingItemUpdate) (*models.ShoppingItem, error)
}

var _ services.ShoppingServicer = (*mockShoppingService)(nil)

func (m *mockShoppingService) CreateShoppingItem(userID, pregnancyID string, in services.ShoppingItemInput) (*models.ShoppingItem, error) {
	if m.createFn != nil {
		return m.createFn(userID, pregnancyID, in)
	}
	return &models.ShoppingItem{PregnancyID: pregnancyID}, nil
}

func (m *mockShoppingService) GetShoppingItems(_, _ string) ([]models.ShoppingItem, error) {
	return []models.ShoppingItem{}, nil
}

func (m *mockShoppingService) UpdateShoppingItem(userID, itemID string, in services.ShoppingItemUpdate) (*models.ShoppingItem, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, itemID, in)
	}
	return &models.ShoppingItem{Base: models.Base{ID: itemID}}, nil
}

func (m *mockShoppingService) DeleteShoppingItem(_, _ string) error {
	return nil
}

func setupShoppingRouter(svc *mockShoppingService) *gin.Engine {
	handler := NewShoppingHandler(svc)
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.POST("/pregnancies/:id/shopping-items", handler.CreateShoppingItem)
	r.GET("/pregnancies/:id/shopping-items", handler.GetShoppingItems)
	r.PUT("/shopping-items/:id", handler.UpdateShoppingItem)
	r.DELETE("/shopping-items/:id", handler.DeleteShoppingItem)
	return r
}

func TestShoppingHandler_CreateShoppingItem(t *testing.T) {
	t.Run("returns 201 with a string price", func(t *testing.T) {
		var got services.ShoppingItemInput
		svc := &mockShoppingService{
			createFn: func(_, pregnancyID string, in services.ShoppingItemInput) (*models.ShoppingItem, error) {
				got = in
				return &models.ShoppingItem{PregnancyID: pregnancyID}, nil
			},
		}

		rec := doRequest(setupShoppingRouter(svc), "POST", "/pregnancies/"+testPregnancyID+"/shopping-items",
			`{"name":"Car seat","category":"travel","price":"129.99","essential":true}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Price == nil || *got.Price != 129.99 {
			t.Errorf("expected price 129.99, got %v", got.Price)
		}
		if got.Priority != "" {
			t.Errorf("expected empty priority for the service to default, got %q", got.Priority)
		}
		if !got.Essential {
			t.Error("expected essential true")
		}
	})

	t.Run("returns 400 for unknown priority and negative price", func(t *testing.T) {
		rec := doRequest(setupShoppingRouter(&mockShoppingService{}), "POST",
			"/pregnancies/"+testPregnancyID+"/shopping-items",
			`{"name":"Cot","category":"nursery","priority":"urgent","price":-5}`)

		assertFieldError(t, rec, "priority")
		fields := parseJSON(t, rec)["error"].(map[string]interface{})["fields"].(map[string]interface{})
		if _, ok := fields["price"]; !ok {
			t.Errorf("expected field error for price, got %v", fields)
		}
	})

	t.Run("returns 400 for NaN and prices the column cannot hold", func(t *testing.T) {
		for _, price := range []string{`"NaN"`, `"Infinity"`, `500000000`, `100000000`} {
			rec := doRequest(setupShoppingRouter(&mockShoppingService{}), "POST",
				"/pregnancies/"+testPregnancyID+"/shopping-items",
				`{"name":"Cot","category":"nursery","price":`+price+`}`)
			assertFieldError(t, rec, "price")
		}
	})
}

func TestShoppingHandler_UpdateShoppingItem(t *testing.T) {
	var got services.ShoppingItemUpdate
	svc := &mockShoppingService{
		updateFn: func(_, itemID string, in services.ShoppingItemUpdate) (*models.ShoppingItem, error) {
			got = in
			return &models.ShoppingItem{Base: models.Base{ID: itemID}}, nil
		},
	}

	rec := doRequest(setupShoppingRouter(svc), "PUT", "/shopping-items/s1",
		`{"purchased":true,"priority":"high","price":null}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Purchased == nil || !*got.Purchased {
		t.Error("expected purchased true")
	}
	if got.Priority == nil || *got.Priority != models.PriorityHigh {
		t.Errorf("expected high priority, got %v", got.Priority)
	}
	if !got.Price.Set || got.Price.Value != nil {
		t.Errorf("expected price cleared, got %+v", got.Price)
	}
	if got.Name != nil || got.Notes.Set {
		t.Errorf("expected untouched fields, got %+v", got)
	}
}
