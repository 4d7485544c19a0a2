package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/coffee-storefront/internal/http"
	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

func TestCheckoutHandler_HappyPath(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	idA, err := createCoffee(r, "Huila Reserve", 1000, 10)
	if err != nil {
		t.Fatal(err)
	}
	idB, err := createCoffee(r, "Yirgacheffe", 1500, 5)
	if err != nil {
		t.Fatal(err)
	}

	addCartItem(r, idA, 2)
	addCartItem(r, idB, 1)

	w := doRequest(r, http.MethodPost, "/checkout", customerToken, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var order models.Order
	if err := json.NewDecoder(w.Body).Decode(&order); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if order.Status != models.OrderConfirmed {
		t.Errorf("expected confirmed, got %s", order.Status)
	}
	if order.SubtotalCents != 3500 {
		t.Errorf("expected subtotal 3500, got %d", order.SubtotalCents)
	}
	if order.ShippingCents != 599 {
		t.Errorf("expected shipping 599, got %d", order.ShippingCents)
	}
	if order.TaxCents != 306 {
		t.Errorf("expected tax 306, got %d", order.TaxCents)
	}
	if order.TotalCents != 4405 {
		t.Errorf("expected total 4405, got %d", order.TotalCents)
	}

	// Holds became deductions.
	recA, _ := stockRecord(idA)
	if recA.CurrentStock != 8 || recA.ReservedStock != 0 {
		t.Errorf("product A: expected current=8 reserved=0, got %+v", recA)
	}
	recB, _ := stockRecord(idB)
	if recB.CurrentStock != 4 || recB.ReservedStock != 0 {
		t.Errorf("product B: expected current=4 reserved=0, got %+v", recB)
	}

	// The cart is gone.
	cart, err := decodeCart(doRequest(r, http.MethodGet, "/cart", customerToken, nil))
	if err != nil {
		t.Fatalf("error decoding cart: %v", err)
	}
	if cart.TotalItems != 0 {
		t.Errorf("expected empty cart after checkout, got %d items", cart.TotalItems)
	}
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := doRequest(r, http.MethodPost, "/checkout", customerToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty cart, got %d", w.Code)
	}
}

func TestGetOrdersHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	id, err := createCoffee(r, "Huila Reserve", 1000, 10)
	if err != nil {
		t.Fatal(err)
	}
	addCartItem(r, id, 1)
	if w := doRequest(r, http.MethodPost, "/checkout", customerToken, nil); w.Code != http.StatusCreated {
		t.Fatalf("checkout: %d", w.Code)
	}

	w := doRequest(r, http.MethodGet, "/orders", customerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var orders []models.Order
	if err := json.NewDecoder(w.Body).Decode(&orders); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].Customer != customerEmail {
		t.Errorf("unexpected customer %q", orders[0].Customer)
	}
}

func TestGetOrderByNumberHandler_OwnershipEnforced(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	id, err := createCoffee(r, "Huila Reserve", 1000, 10)
	if err != nil {
		t.Fatal(err)
	}
	addCartItem(r, id, 1)

	w := doRequest(r, http.MethodPost, "/checkout", customerToken, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout: %d", w.Code)
	}
	var order models.Order
	if err := json.NewDecoder(w.Body).Decode(&order); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	// The owner can fetch it.
	w = doRequest(r, http.MethodGet, "/orders/"+order.Number, customerToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 OK for owner, got %d", w.Code)
	}

	// Another account sees 404, not 403: order numbers are not probeable.
	w = doRequest(r, http.MethodGet, "/orders/"+order.Number, adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another account, got %d", w.Code)
	}
}
