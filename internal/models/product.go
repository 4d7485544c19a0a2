package models

// RoastLevel classifies how dark a coffee is roasted.
type RoastLevel string

const (
	RoastLight      RoastLevel = "light"
	RoastMedium     RoastLevel = "medium"
	RoastMediumDark RoastLevel = "medium-dark"
	RoastDark       RoastLevel = "dark"
	RoastExtraDark  RoastLevel = "extra-dark"
)

// ProductStatus is the lifecycle state of a catalog entry.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
	ProductSeasonal ProductStatus = "seasonal"
)

// Product represents a coffee in the catalog. Prices are integer cents.
type Product struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Origin     string        `json:"origin"`
	Roast      RoastLevel    `json:"roast"`
	Intensity  int           `json:"intensity"` // 1..10
	PriceCents int64         `json:"price_cents"`
	Processing string        `json:"processing"`
	Status     ProductStatus `json:"status"`
	CreatedAt  string        `json:"created_at,omitempty"`
	UpdatedAt  string        `json:"updated_at,omitempty"`
}

// ValidRoast reports whether r is one of the known roast levels.
func ValidRoast(r RoastLevel) bool {
	switch r {
	case RoastLight, RoastMedium, RoastMediumDark, RoastDark, RoastExtraDark:
		return true
	}
	return false
}
