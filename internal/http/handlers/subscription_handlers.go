package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

// GetPlansHandler godoc
// @Summary List subscription plans
// @Tags subscriptions
// @Produce json
// @Success 200 {array} models.Plan
// @Router /plans [get]
func GetPlansHandler(w http.ResponseWriter, r *http.Request) {
	plans, err := subscriptionRepo.Plans()
	if err != nil {
		http.Error(w, "could not fetch plans", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

// SubscribeHandler godoc
// @Summary Sign the customer up for a plan
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param signup body SubscribeRequest true "Plan and preferred coffee"
// @Success 201 {object} models.Subscription
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Unknown plan or product"
// @Router /subscriptions [post]
func SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SubscribeRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if _, err := subscriptionRepo.GetPlan(req.PlanId); err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	if _, err := productRepo.GetByID(req.ProductId); err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	sub, err := subscriptionRepo.Subscribe(models.Subscription{
		Customer:  customer,
		PlanID:    req.PlanId,
		ProductID: req.ProductId,
		Status:    models.SubscriptionActive,
		CreatedAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		http.Error(w, "could not create subscription", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sub)
}

// GetSubscriptionsHandler godoc
// @Summary Subscriptions for the signed-in customer
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Router /subscriptions [get]
func GetSubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	subs, err := subscriptionRepo.GetByCustomer(customer)
	if err != nil {
		http.Error(w, "could not fetch subscriptions", http.StatusInternalServerError)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(subs)
}

// SetSubscriptionStatusHandler godoc
// @Summary Pause, resume, or cancel a subscription
// @Tags subscriptions
// @Accept json
// @Security BearerAuth
// @Param id path int true "Subscription ID"
// @Param status body SubscriptionStatusRequest true "New status"
// @Success 204 "Updated"
// @Failure 400 {string} string "Invalid status"
// @Failure 404 {string} string "Not found"
// @Router /subscriptions/{id}/status [put]
func SetSubscriptionStatusHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid subscription ID", http.StatusBadRequest)
		return
	}

	var req SubscriptionStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	status := models.SubscriptionStatus(req.Status)
	switch status {
	case models.SubscriptionActive, models.SubscriptionPaused, models.SubscriptionCancelled:
	default:
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := subscriptionRepo.SetStatus(id, customer, status); err != nil {
		if errors.Is(err, repo.ErrSubscriptionNotFound) {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update subscription", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
