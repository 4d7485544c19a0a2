package repo

import "github.com/rogerio-castellano/coffee-storefront/internal/models"

// OrderRepository persists checkout results.
type OrderRepository interface {
	Create(order models.Order) (models.Order, error)
	GetByNumber(number string) (models.Order, error)
	GetByCustomer(customer string) ([]models.Order, error)
	UpdateStatus(number string, status models.OrderStatus) error
	CountByStatus() (map[models.OrderStatus]int, error)
}
