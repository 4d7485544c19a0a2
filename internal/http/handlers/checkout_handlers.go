package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/coffee-storefront/internal/checkout"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

// CheckoutHandler godoc
// @Summary Convert the held cart into a confirmed order
// @Description Writes the order as pending, converts every hold into a permanent deduction, and confirms once all lines committed
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Order
// @Failure 400 {string} string "Empty cart"
// @Failure 409 {string} string "Commit failed"
// @Failure 500 {string} string "Internal error"
// @Router /checkout [post]
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := finalizer.Finalize(r.Context(), customer, customer)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			http.Error(w, "cart is empty", http.StatusBadRequest)
		case errors.Is(err, checkout.ErrCheckoutFailed):
			log.Printf("checkout for %s failed: %v", customer, err)
			http.Error(w, "checkout failed, cart holds kept", http.StatusConflict)
		default:
			log.Printf("checkout for %s errored: %v", customer, err)
			http.Error(w, "could not complete checkout", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// GetOrdersHandler godoc
// @Summary Orders for the signed-in customer
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Order
// @Failure 500 {string} string "Internal error"
// @Router /orders [get]
func GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := orderRepo.GetByCustomer(customer)
	if err != nil {
		http.Error(w, "could not fetch orders", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// GetOrderByNumberHandler godoc
// @Summary One order by number
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param number path string true "Order number"
// @Success 200 {object} models.Order
// @Failure 404 {string} string "Not found"
// @Router /orders/{number} [get]
func GetOrderByNumberHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	number := chi.URLParam(r, "number")
	order, err := orderRepo.GetByNumber(number)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch order", http.StatusInternalServerError)
		return
	}
	// Customers see only their own orders.
	if order.Customer != customer {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}
