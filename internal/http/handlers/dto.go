package handlers

import "github.com/rogerio-castellano/coffee-storefront/internal/models"

type ProductRequest struct {
	Id         int    `json:"id,omitempty"`
	Name       string `json:"name"`
	Origin     string `json:"origin"`
	Roast      string `json:"roast"`
	Intensity  int    `json:"intensity"`
	PriceCents int64  `json:"price_cents"`
	Processing string `json:"processing"`
	Status     string `json:"status"`
	// Initial inventory, applied on create only.
	InitialStock int `json:"initial_stock"`
	ReorderLevel int `json:"reorder_level"`
}

type ProductResponse struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	Origin     string `json:"origin"`
	Roast      string `json:"roast"`
	Intensity  int    `json:"intensity"`
	PriceCents int64  `json:"price_cents"`
	Processing string `json:"processing"`
	Status     string `json:"status"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type StockResponse struct {
	ProductId      int    `json:"product_id"`
	AvailableStock int    `json:"available_stock"`
	StockStatus    string `json:"stock_status"`
}

// AdminStockResponse additionally exposes the raw counters.
type AdminStockResponse struct {
	ProductId      int    `json:"product_id"`
	CurrentStock   int    `json:"current_stock"`
	ReservedStock  int    `json:"reserved_stock"`
	AvailableStock int    `json:"available_stock"`
	ReorderLevel   int    `json:"reorder_level"`
	StockStatus    string `json:"stock_status"`
}

type CartItemRequest struct {
	ProductId int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Lines           []models.CartLine `json:"lines"`
	TotalItems      int               `json:"total_items"`
	TotalPriceCents int64             `json:"total_price_cents"`
}

type RestoreCartRequest struct {
	Lines []models.SnapshotLine `json:"lines"`
}

type RestockRequest struct {
	Units int `json:"units"`
}

type ReorderLevelRequest struct {
	Level int `json:"level"`
}

type LedgerSearchResult struct {
	Data []models.LedgerEntry `json:"data"`
	Meta Meta                 `json:"meta,omitempty"`
}

type SendOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SubscribeRequest struct {
	PlanId    int `json:"plan_id"`
	ProductId int `json:"product_id"`
}

type SubscriptionStatusRequest struct {
	Status string `json:"status"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}
