package models

import "time"

// LineState is the reservation lifecycle of a cart line.
type LineState string

const (
	LinePending   LineState = "pending"
	LineHeld      LineState = "held"
	LineReleased  LineState = "released"
	LineCommitted LineState = "committed"
)

// CartLine is one product held in a cart, backed by a stock reservation.
type CartLine struct {
	ProductID      int       `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	Token          string    `json:"token,omitempty"`
	ReservedAt     time.Time `json:"reserved_at"`
	State          LineState `json:"state"`
}

// CartSnapshot is the persistable form of a cart. Reservation tokens are
// deliberately excluded: holds are not trusted across sessions and must be
// re-established on restore.
type CartSnapshot struct {
	Lines []SnapshotLine `json:"lines"`
}

// SnapshotLine carries only what is needed to rebuild a line.
type SnapshotLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}
