package repo

import "github.com/rogerio-castellano/coffee-storefront/internal/models"

// LedgerRepository records stock counter changes. Logging is best-effort at
// the call sites; a failed ledger write never fails the stock operation.
type LedgerRepository interface {
	Log(entry models.LedgerEntry) error
	ByProduct(productID int, limit *int) ([]models.LedgerEntry, int, error)
}
