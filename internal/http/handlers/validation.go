package handlers

import (
	"strings"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	if p.PriceCents <= 0 {
		errs = append(errs, ProductValidationError{Field: "PriceCents", Description: "Price must be greater than zero"})
	}
	if p.Roast != "" && !models.ValidRoast(models.RoastLevel(p.Roast)) {
		errs = append(errs, ProductValidationError{Field: "Roast", Description: "Unknown roast level"})
	}
	if p.Intensity < 1 || p.Intensity > 10 {
		errs = append(errs, ProductValidationError{Field: "Intensity", Description: "Intensity must be between 1 and 10"})
	}
	if p.InitialStock < 0 {
		errs = append(errs, ProductValidationError{Field: "InitialStock", Description: "Initial stock cannot be negative"})
	}
	if p.ReorderLevel < 0 {
		errs = append(errs, ProductValidationError{Field: "ReorderLevel", Description: "Reorder level cannot be negative"})
	}
	return errs
}

func productStatus(s string) models.ProductStatus {
	switch models.ProductStatus(s) {
	case models.ProductInactive:
		return models.ProductInactive
	case models.ProductSeasonal:
		return models.ProductSeasonal
	default:
		return models.ProductActive
	}
}
