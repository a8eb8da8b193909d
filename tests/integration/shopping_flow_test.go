package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestShoppingFlow_ListOrderAndPurchase(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "shopper@test.com", "password123")
	pregnancyID := app.createPregnancy(t, token)
	base := "/api/v1/pregnancies/" + pregnancyID + "/shopping-items"

	ids := map[string]string{}
	for _, item := range []struct{ name, priority string }{
		{"Bibs", "low"},
		{"Car seat", "high"},
		{"Stroller", ""},
	} {
		body := fmt.Sprintf(`{"name":%q,"category":"gear","price":"49.90"}`, item.name)
		if item.priority != "" {
			body = fmt.Sprintf(`{"name":%q,"category":"gear","priority":%q}`, item.name, item.priority)
		}
		rec := app.request("POST", base, body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s failed: %d %s", item.name, rec.Code, rec.Body.String())
		}
		created := parseJSON(t, rec)["shopping_item"].(map[string]interface{})
		ids[item.name] = created["id"].(string)
		if item.priority == "" && created["priority"] != "medium" {
			t.Errorf("expected default priority medium, got %v", created["priority"])
		}
	}

	names := func() []string {
		rec := app.request("GET", base, "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d", rec.Code)
		}
		var out []string
		for _, raw := range parseJSON(t, rec)["shopping_items"].([]interface{}) {
			out = append(out, raw.(map[string]interface{})["name"].(string))
		}
		return out
	}

	assertOrder(t, names(), "Car seat", "Stroller", "Bibs")

	rec := app.request("PUT", "/api/v1/shopping-items/"+ids["Car seat"], `{"purchased":true}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["shopping_item"].(map[string]interface{})["purchase_date"] == nil {
		t.Error("expected purchase_date to be stamped")
	}

	assertOrder(t, names(), "Stroller", "Bibs", "Car seat")

	rec = app.request("DELETE", "/api/v1/shopping-items/"+ids["Bibs"], "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", rec.Code)
	}
	assertOrder(t, names(), "Stroller", "Car seat")
}

func assertOrder(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
