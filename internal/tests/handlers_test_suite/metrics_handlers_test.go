package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/coffee-storefront/internal/http"
	"github.com/rogerio-castellano/coffee-storefront/internal/models"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

func TestGetDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	idA, err := createCoffee(r, "Huila Reserve", 1000, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := createCoffee(r, "Yirgacheffe", 1500, 0); err != nil {
		t.Fatal(err)
	}

	// Hold 3 units and confirm one order so every aggregate has data.
	addCartItem(r, idA, 4)
	if w := doRequest(r, http.MethodPost, "/checkout", customerToken, nil); w.Code != http.StatusCreated {
		t.Fatalf("checkout: %d", w.Code)
	}
	addCartItem(r, idA, 3)

	w := doRequest(r, http.MethodGet, "/admin/metrics", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var m repo.Metrics
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if m.TotalProducts != 2 {
		t.Errorf("expected 2 products, got %d", m.TotalProducts)
	}
	// 10 - 4 sold, plus the empty product.
	if m.UnitsOnHand != 6 {
		t.Errorf("expected 6 units on hand, got %d", m.UnitsOnHand)
	}
	if m.UnitsReserved != 3 {
		t.Errorf("expected 3 units reserved, got %d", m.UnitsReserved)
	}
	if len(m.OutOfStock) != 1 {
		t.Errorf("expected 1 out-of-stock product, got %d", len(m.OutOfStock))
	}
	if m.OrdersByState[models.OrderConfirmed] != 1 {
		t.Errorf("expected 1 confirmed order, got %d", m.OrdersByState[models.OrderConfirmed])
	}
}

func TestGetDashboardMetricsHandler_RequiresAdmin(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := doRequest(r, http.MethodGet, "/admin/metrics", customerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
