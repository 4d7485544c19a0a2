package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/coffee-storefront/internal/http"
	handler "github.com/rogerio-castellano/coffee-storefront/internal/http/handlers"
	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

func TestGetPlansHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := doRequest(r, http.MethodGet, "/plans", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var plans []models.Plan
	if err := json.NewDecoder(w.Body).Decode(&plans); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(plans) == 0 {
		t.Fatal("expected seeded plans")
	}
}

func TestSubscribeHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	id, err := createCoffee(r, "Huila Reserve", 1000, 10)
	if err != nil {
		t.Fatal(err)
	}

	w := doRequest(r, http.MethodPost, "/subscriptions", customerToken, handler.SubscribeRequest{
		PlanId:    1,
		ProductId: id,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var sub models.Subscription
	if err := json.NewDecoder(w.Body).Decode(&sub); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if sub.Customer != customerEmail {
		t.Errorf("unexpected customer %q", sub.Customer)
	}
	if sub.Status != models.SubscriptionActive {
		t.Errorf("expected active subscription, got %s", sub.Status)
	}
}

func TestSubscribeHandler_UnknownPlanOrProduct(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	id, err := createCoffee(r, "Huila Reserve", 1000, 10)
	if err != nil {
		t.Fatal(err)
	}

	w := doRequest(r, http.MethodPost, "/subscriptions", customerToken, handler.SubscribeRequest{PlanId: 999, ProductId: id})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown plan, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/subscriptions", customerToken, handler.SubscribeRequest{PlanId: 1, ProductId: 999})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", w.Code)
	}
}

func TestSetSubscriptionStatusHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	id, err := createCoffee(r, "Huila Reserve", 1000, 10)
	if err != nil {
		t.Fatal(err)
	}

	w := doRequest(r, http.MethodPost, "/subscriptions", customerToken, handler.SubscribeRequest{PlanId: 1, ProductId: id})
	if w.Code != http.StatusCreated {
		t.Fatalf("subscribe: %d", w.Code)
	}
	var sub models.Subscription
	if err := json.NewDecoder(w.Body).Decode(&sub); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	w = doRequest(r, http.MethodPut, fmt.Sprintf("/subscriptions/%d/status", sub.ID), customerToken, handler.SubscriptionStatusRequest{Status: "paused"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPut, fmt.Sprintf("/subscriptions/%d/status", sub.ID), customerToken, handler.SubscriptionStatusRequest{Status: "frozen"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", w.Code)
	}

	// Another customer cannot touch it.
	w = doRequest(r, http.MethodPut, fmt.Sprintf("/subscriptions/%d/status", sub.ID), adminToken, handler.SubscriptionStatusRequest{Status: "cancelled"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another account, got %d", w.Code)
	}
}

func TestGetSubscriptionsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := doRequest(r, http.MethodGet, "/subscriptions", customerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var subs []models.Subscription
	if err := json.NewDecoder(w.Body).Decode(&subs); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("expected no subscriptions yet, got %d", len(subs))
	}
}
