package models

// OrderStatus tracks an order through the checkout commit protocol.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderFailed    OrderStatus = "failed"
)

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID      int    `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// Order is a committed (or attempted) purchase. All amounts are integer cents.
type Order struct {
	ID            int         `json:"id"`
	Number        string      `json:"number"`
	Customer      string      `json:"customer"`
	Items         []OrderItem `json:"items"`
	SubtotalCents int64       `json:"subtotal_cents"`
	ShippingCents int64       `json:"shipping_cents"`
	TaxCents      int64       `json:"tax_cents"`
	TotalCents    int64       `json:"total_cents"`
	Status        OrderStatus `json:"status"`
	CreatedAt     string      `json:"created_at,omitempty"`
}
