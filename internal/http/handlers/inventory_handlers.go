package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

// RestockHandler godoc
// @Summary Add physical units for a coffee
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param restock body RestockRequest true "Units to add (negative to correct)"
// @Success 200 {object} AdminStockResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Would violate stock invariant"
// @Router /products/{id}/restock [post]
func RestockHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req RestockRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Units == 0 {
		http.Error(w, "units must be non-zero", http.StatusBadRequest)
		return
	}

	rec, err := inventoryRepo.Restock(id, req.Units)
	if err != nil {
		inventoryError(w, err)
		return
	}
	if ledgerRepo != nil {
		_ = ledgerRepo.Log(models.LedgerEntry{ProductID: id, Kind: models.LedgerRestock, Quantity: req.Units})
	}

	if rec.Status() != models.StockInStock {
		log.Printf("ALERT: product %d is %s after restock: available=%d reorder_level=%d",
			rec.ProductID, rec.Status(), rec.AvailableStock(), rec.ReorderLevel)
	}

	writeAdminStock(w, rec)
}

// SetReorderLevelHandler godoc
// @Summary Set the low-stock alert threshold
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param level body ReorderLevelRequest true "New reorder level"
// @Success 200 {object} AdminStockResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/reorder-level [put]
func SetReorderLevelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req ReorderLevelRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Level < 0 {
		http.Error(w, "level cannot be negative", http.StatusBadRequest)
		return
	}

	rec, err := inventoryRepo.SetReorderLevel(id, req.Level)
	if err != nil {
		inventoryError(w, err)
		return
	}
	writeAdminStock(w, rec)
}

// GetLedgerHandler godoc
// @Summary Stock movement ledger for a coffee
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param limit query int false "Max entries, most recent first"
// @Success 200 {object} LedgerSearchResult
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/ledger [get]
func GetLedgerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if _, err := productRepo.GetByID(id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}

	limit := parseIntPtr(r.URL.Query().Get("limit"))
	entries, total, err := ledgerRepo.ByProduct(id, limit)
	if err != nil {
		http.Error(w, "could not fetch ledger", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	resp := LedgerSearchResult{Data: entries, Meta: Meta{TotalCount: total}}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeAdminStock(w http.ResponseWriter, rec models.InventoryRecord) {
	resp := AdminStockResponse{
		ProductId:      rec.ProductID,
		CurrentStock:   rec.CurrentStock,
		ReservedStock:  rec.ReservedStock,
		AvailableStock: rec.AvailableStock(),
		ReorderLevel:   rec.ReorderLevel,
		StockStatus:    string(rec.Status()),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func inventoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrInvariantViolation):
		http.Error(w, "stock cannot go below reserved units", http.StatusConflict)
	case errors.Is(err, repo.ErrInsufficientStock):
		http.Error(w, "insufficient stock", http.StatusConflict)
	default:
		http.Error(w, "could not update inventory", http.StatusInternalServerError)
	}
}
