package repo

import "github.com/rogerio-castellano/coffee-storefront/internal/models"

// InventoryRepository is the single capability set the cart and checkout
// components depend on. Implementations must make Reserve, Release, Commit
// and Uncommit atomic with respect to concurrent callers so that
// reserved_stock never exceeds current_stock and no counter goes negative.
type InventoryRepository interface {
	Get(productID int) (models.InventoryRecord, error)
	GetAll() ([]models.InventoryRecord, error)

	// Reserve holds qty units: reserved_stock += qty, only if
	// current_stock - reserved_stock >= qty. Fails with
	// ErrInsufficientStock otherwise.
	Reserve(productID, qty int) (models.InventoryRecord, error)

	// Release gives back up to qty reserved units, floored at zero.
	Release(productID, qty int) (models.InventoryRecord, error)

	// Commit converts a hold into a permanent deduction:
	// current_stock -= qty, reserved_stock -= qty.
	Commit(productID, qty int) (models.InventoryRecord, error)

	// Uncommit is the exact inverse of Commit, used to compensate a
	// partially applied checkout. The hold it restores belongs to a cart
	// line that is still alive.
	Uncommit(productID, qty int) (models.InventoryRecord, error)

	// Restock adds physical units (admin operation).
	Restock(productID, units int) (models.InventoryRecord, error)

	SetReorderLevel(productID, level int) (models.InventoryRecord, error)

	// Put creates or replaces the record for a product.
	Put(record models.InventoryRecord) error
}
