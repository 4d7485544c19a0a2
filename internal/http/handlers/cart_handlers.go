package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rogerio-castellano/coffee-storefront/internal/cart"
	"github.com/rogerio-castellano/coffee-storefront/internal/models"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

// GetCartHandler godoc
// @Summary Current cart contents and totals
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /cart [get]
func GetCartHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeCart(w, customer)
}

// AddCartItemHandler godoc
// @Summary Add a coffee to the cart
// @Description Reserves stock for the requested quantity; merging with an existing line reserves only the added units
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body CartItemRequest true "Product and quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 409 {string} string "Insufficient stock"
// @Router /cart/items [post]
func AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CartItemRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if _, err := cartService.AddItem(r.Context(), customer, req.ProductId, req.Quantity); err != nil {
		cartError(w, err)
		return
	}
	writeCart(w, customer)
}

// UpdateCartItemHandler godoc
// @Summary Change a line's quantity
// @Description Quantity zero or below removes the line. The hold is re-issued and its expiry restarts.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path int true "Product ID"
// @Param quantity body QuantityRequest true "New quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "No such line"
// @Failure 409 {string} string "Insufficient stock"
// @Router /cart/items/{productId} [put]
func UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := pathID(r, "productId")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req QuantityRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if _, err := cartService.UpdateQuantity(r.Context(), customer, productID, req.Quantity); err != nil {
		cartError(w, err)
		return
	}
	writeCart(w, customer)
}

// RemoveCartItemHandler godoc
// @Summary Remove a line and release its hold
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param productId path int true "Product ID"
// @Success 200 {object} CartResponse
// @Failure 404 {string} string "No such line"
// @Router /cart/items/{productId} [delete]
func RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := pathID(r, "productId")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if err := cartService.RemoveItem(r.Context(), customer, productID); err != nil {
		cartError(w, err)
		return
	}
	writeCart(w, customer)
}

// ClearCartHandler godoc
// @Summary Empty the cart, releasing every hold
// @Tags cart
// @Security BearerAuth
// @Success 204 "Cleared"
// @Router /cart [delete]
func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cartService.Clear(r.Context(), customer)
	w.WriteHeader(http.StatusNoContent)
}

// RefreshCartHandler godoc
// @Summary Reconcile expired reservations
// @Description Releases lines whose holds outlived the TTL, e.g. after a reload
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Router /cart/refresh [post]
func RefreshCartHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cartService.Refresh(r.Context(), customer)
	writeCart(w, customer)
}

// RestoreCartHandler godoc
// @Summary Rebuild a cart from persisted client state
// @Description Re-reserves each line; lines that can no longer be reserved are dropped. Old tokens are never trusted.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cart body RestoreCartRequest true "Persisted lines"
// @Success 200 {object} CartResponse
// @Failure 400 {string} string "Invalid input"
// @Router /cart/restore [post]
func RestoreCartHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := GetCustomerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req RestoreCartRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	cartService.Restore(r.Context(), customer, models.CartSnapshot{Lines: req.Lines})
	writeCart(w, customer)
}

func writeCart(w http.ResponseWriter, customer string) {
	resp := CartResponse{
		Lines:           cartService.Lines(customer),
		TotalItems:      cartService.TotalItems(customer),
		TotalPriceCents: cartService.TotalPrice(customer),
	}
	if resp.Lines == nil {
		resp.Lines = []models.CartLine{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func cartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	case errors.Is(err, cart.ErrLineNotFound):
		http.Error(w, "cart line not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrInsufficientStock):
		http.Error(w, "insufficient stock", http.StatusConflict)
	case errors.Is(err, cart.ErrInvalidQuantity):
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
	case errors.Is(err, cart.ErrProductUnavailable):
		http.Error(w, "product not available", http.StatusConflict)
	case errors.Is(err, cart.ErrCheckoutInProgress):
		http.Error(w, "checkout in progress", http.StatusConflict)
	default:
		http.Error(w, "could not update cart", http.StatusInternalServerError)
	}
}
