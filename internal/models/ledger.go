package models

// LedgerKind names the stock movement that produced a ledger entry.
type LedgerKind string

const (
	LedgerReserve  LedgerKind = "reserve"
	LedgerRelease  LedgerKind = "release"
	LedgerExpire   LedgerKind = "expire"
	LedgerCommit   LedgerKind = "commit"
	LedgerUncommit LedgerKind = "uncommit"
	LedgerRestock  LedgerKind = "restock"
)

// LedgerEntry records one stock counter change for audit and the admin
// dashboard.
type LedgerEntry struct {
	ID        int        `json:"id"`
	ProductID int        `json:"product_id"`
	Kind      LedgerKind `json:"kind"`
	Quantity  int        `json:"quantity"`
	Reference string     `json:"reference,omitempty"` // reservation token or order number
	CreatedAt string     `json:"created_at,omitempty"`
}
