package repo

import (
	"sync"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

// InMemoryInventoryRepository keeps stock counters in a map. A mutex stands
// in for the conditional updates the Postgres implementation gets from
// single-statement writes: expiry timers fire on their own goroutines, so
// every counter change happens under the lock, guard included.
type InMemoryInventoryRepository struct {
	mu      sync.Mutex
	records map[int]models.InventoryRecord
}

func NewInMemoryInventoryRepository() *InMemoryInventoryRepository {
	return &InMemoryInventoryRepository{records: make(map[int]models.InventoryRecord)}
}

func (r *InMemoryInventoryRepository) Get(productID int) (models.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[productID]
	if !ok {
		return models.InventoryRecord{}, ErrProductNotFound
	}
	return rec, nil
}

func (r *InMemoryInventoryRepository) GetAll() ([]models.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]models.InventoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}
	return records, nil
}

func (r *InMemoryInventoryRepository) Reserve(productID, qty int) (models.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[productID]
	if !ok {
		return models.InventoryRecord{}, ErrProductNotFound
	}
	if qty > rec.CurrentStock-rec.ReservedStock {
		return models.InventoryRecord{}, ErrInsufficientStock
	}
	rec.ReservedStock += qty
	r.records[productID] = rec
	return rec, nil
}

func (r *InMemoryInventoryRepository) Release(productID, qty int) (models.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[productID]
	if !ok {
		return models.InventoryRecord{}, ErrProductNotFound
	}
	rec.ReservedStock -= qty
	if rec.ReservedStock < 0 {
		rec.ReservedStock = 0
	}
	r.records[productID] = rec
	return rec, nil
}

func (r *InMemoryInventoryRepository) Commit(productID, qty int) (models.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[productID]
	if !ok {
		return models.InventoryRecord{}, ErrProductNotFound
	}
	if rec.CurrentStock < qty || rec.ReservedStock < qty {
		return models.InventoryRecord{}, ErrInvariantViolation
	}
	rec.CurrentStock -= qty
	rec.ReservedStock -= qty
	r.records[productID] = rec
	return rec, nil
}

func (r *InMemoryInventoryRepository) Uncommit(productID, qty int) (models.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[productID]
	if !ok {
		return models.InventoryRecord{}, ErrProductNotFound
	}
	rec.CurrentStock += qty
	rec.ReservedStock += qty
	r.records[productID] = rec
	return rec, nil
}

func (r *InMemoryInventoryRepository) Restock(productID, units int) (models.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[productID]
	if !ok {
		return models.InventoryRecord{}, ErrProductNotFound
	}
	if units < 0 && rec.CurrentStock+units < rec.ReservedStock {
		return models.InventoryRecord{}, ErrInvariantViolation
	}
	rec.CurrentStock += units
	if rec.CurrentStock < 0 {
		return models.InventoryRecord{}, ErrInvariantViolation
	}
	r.records[productID] = rec
	return rec, nil
}

func (r *InMemoryInventoryRepository) SetReorderLevel(productID, level int) (models.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[productID]
	if !ok {
		return models.InventoryRecord{}, ErrProductNotFound
	}
	rec.ReorderLevel = level
	r.records[productID] = rec
	return rec, nil
}

func (r *InMemoryInventoryRepository) Put(record models.InventoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ReservedStock > record.CurrentStock {
		return ErrInvariantViolation
	}
	r.records[record.ProductID] = record
	return nil
}

func (r *InMemoryInventoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[int]models.InventoryRecord)
}
