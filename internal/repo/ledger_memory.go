package repo

import (
	"sync"
	"time"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

// InMemoryLedgerRepository is an in-memory implementation of LedgerRepository.
type InMemoryLedgerRepository struct {
	mu      sync.Mutex
	entries []models.LedgerEntry
	nextID  int
}

func NewInMemoryLedgerRepository() *InMemoryLedgerRepository {
	return &InMemoryLedgerRepository{nextID: 1}
}

func (r *InMemoryLedgerRepository) Log(entry models.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextID
	r.nextID++
	if entry.CreatedAt == "" {
		entry.CreatedAt = time.Now().Format(time.RFC3339)
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *InMemoryLedgerRepository) ByProduct(productID int, limit *int) ([]models.LedgerEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.LedgerEntry
	for _, e := range r.entries {
		if e.ProductID == productID {
			matched = append(matched, e)
		}
	}
	total := len(matched)
	if limit != nil && *limit > 0 && *limit < len(matched) {
		matched = matched[len(matched)-*limit:]
	}
	return matched, total, nil
}

func (r *InMemoryLedgerRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.nextID = 1
}
