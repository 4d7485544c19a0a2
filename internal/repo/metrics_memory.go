package repo

import "github.com/rogerio-castellano/coffee-storefront/internal/models"

// InMemoryMetricsRepository computes dashboard aggregates over the other
// repositories rather than keeping state of its own.
type InMemoryMetricsRepository struct {
	productRepo   ProductRepository
	inventoryRepo InventoryRepository
	orderRepo     OrderRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo ProductRepository,
	inventoryRepo InventoryRepository,
	orderRepo OrderRepository,
) {
	i.productRepo = productRepo
	i.inventoryRepo = inventoryRepo
	i.orderRepo = orderRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	names := make(map[int]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	records, err := i.inventoryRepo.GetAll()
	if err != nil {
		return m, err
	}
	for _, rec := range records {
		m.UnitsOnHand += rec.CurrentStock
		m.UnitsReserved += rec.ReservedStock

		view := StockView{
			ProductID: rec.ProductID,
			Name:      names[rec.ProductID],
			Available: rec.AvailableStock(),
			Reserved:  rec.ReservedStock,
			Status:    rec.Status(),
		}
		switch view.Status {
		case models.StockLow:
			m.LowStock = append(m.LowStock, view)
		case models.StockOutOfStock:
			m.OutOfStock = append(m.OutOfStock, view)
		}
	}

	m.OrdersByState, err = i.orderRepo.CountByStatus()
	return m, err
}
