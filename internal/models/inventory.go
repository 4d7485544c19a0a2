package models

// StockStatus is derived from available stock vs. the reorder level.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLow        StockStatus = "low_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

// InventoryRecord tracks physical and reserved units for one product.
// reserved_stock <= current_stock must hold after every write.
type InventoryRecord struct {
	ProductID     int    `json:"product_id"`
	CurrentStock  int    `json:"current_stock"`
	ReservedStock int    `json:"reserved_stock"`
	ReorderLevel  int    `json:"reorder_level"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// AvailableStock is the number of units a new reservation can claim.
func (r InventoryRecord) AvailableStock() int {
	if r.CurrentStock < r.ReservedStock {
		return 0
	}
	return r.CurrentStock - r.ReservedStock
}

// Status derives the stock status from availability and the reorder level.
func (r InventoryRecord) Status() StockStatus {
	available := r.AvailableStock()
	switch {
	case available == 0:
		return StockOutOfStock
	case available <= r.ReorderLevel:
		return StockLow
	default:
		return StockInStock
	}
}
