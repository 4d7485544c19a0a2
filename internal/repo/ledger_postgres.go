package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

type PostgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

func (r *PostgresLedgerRepository) Log(entry models.LedgerEntry) error {
	query := `INSERT INTO stock_ledger (product_id, kind, quantity, reference, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query,
		entry.ProductID, entry.Kind, entry.Quantity, entry.Reference, time.Now().UTC())
	return err
}

func (r *PostgresLedgerRepository) ByProduct(productID int, limit *int) ([]models.LedgerEntry, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stock_ledger WHERE product_id = $1`, productID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, product_id, kind, quantity, reference, created_at
		FROM stock_ledger WHERE product_id = $1 ORDER BY id DESC`
	args := []any{productID}
	if limit != nil && *limit > 0 {
		query += ` LIMIT $2`
		args = append(args, *limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Kind, &e.Quantity, &e.Reference, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
