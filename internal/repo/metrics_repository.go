package repo

import "github.com/rogerio-castellano/coffee-storefront/internal/models"

// StockView pairs a product with its derived stock status for the dashboard.
type StockView struct {
	ProductID int                `json:"product_id"`
	Name      string             `json:"name"`
	Available int                `json:"available"`
	Reserved  int                `json:"reserved"`
	Status    models.StockStatus `json:"status"`
}

// Metrics is the admin dashboard summary.
type Metrics struct {
	TotalProducts int                        `json:"total_products"`
	UnitsOnHand   int                        `json:"units_on_hand"`
	UnitsReserved int                        `json:"units_reserved"`
	LowStock      []StockView                `json:"low_stock"`
	OutOfStock    []StockView                `json:"out_of_stock"`
	OrdersByState map[models.OrderStatus]int `json:"orders_by_state"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}
