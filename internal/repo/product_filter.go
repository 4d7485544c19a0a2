package repo

import "github.com/rogerio-castellano/coffee-storefront/internal/models"

// ProductFilter narrows catalog queries. Nil pointer fields are unset.
type ProductFilter struct {
	Name     string
	Origin   string
	Roast    models.RoastLevel
	MinPrice *int64
	MaxPrice *int64
	Status   models.ProductStatus
	Offset   *int
	Limit    *int
}
