package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

// PostgresInventoryRepository enforces the stock invariants with
// single-statement conditional updates: the availability check and the
// counter write happen in one UPDATE, so concurrent carts cannot jointly
// over-reserve the way a read-then-write sequence could.
type PostgresInventoryRepository struct {
	db *sql.DB
}

func NewPostgresInventoryRepository(db *sql.DB) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{db: db}
}

const inventoryColumns = "product_id, current_stock, reserved_stock, reorder_level"

func (r *PostgresInventoryRepository) Get(productID int) (models.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var rec models.InventoryRecord
	err := r.db.QueryRowContext(ctx, query, productID).
		Scan(&rec.ProductID, &rec.CurrentStock, &rec.ReservedStock, &rec.ReorderLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return models.InventoryRecord{}, ErrProductNotFound
	}
	return rec, err
}

func (r *PostgresInventoryRepository) GetAll() ([]models.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory ORDER BY product_id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.InventoryRecord
	for rows.Next() {
		var rec models.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.CurrentStock, &rec.ReservedStock, &rec.ReorderLevel); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresInventoryRepository) Reserve(productID, qty int) (models.InventoryRecord, error) {
	query := `
		UPDATE inventory
		SET reserved_stock = reserved_stock + $1, updated_at = $2
		WHERE product_id = $3 AND current_stock - reserved_stock >= $1
		RETURNING ` + inventoryColumns
	return r.conditional(query, ErrInsufficientStock, qty, time.Now().UTC(), productID)
}

func (r *PostgresInventoryRepository) Release(productID, qty int) (models.InventoryRecord, error) {
	query := `
		UPDATE inventory
		SET reserved_stock = GREATEST(reserved_stock - $1, 0), updated_at = $2
		WHERE product_id = $3
		RETURNING ` + inventoryColumns
	return r.conditional(query, ErrProductNotFound, qty, time.Now().UTC(), productID)
}

func (r *PostgresInventoryRepository) Commit(productID, qty int) (models.InventoryRecord, error) {
	query := `
		UPDATE inventory
		SET current_stock = current_stock - $1, reserved_stock = reserved_stock - $1, updated_at = $2
		WHERE product_id = $3 AND current_stock >= $1 AND reserved_stock >= $1
		RETURNING ` + inventoryColumns
	return r.conditional(query, ErrInvariantViolation, qty, time.Now().UTC(), productID)
}

func (r *PostgresInventoryRepository) Uncommit(productID, qty int) (models.InventoryRecord, error) {
	query := `
		UPDATE inventory
		SET current_stock = current_stock + $1, reserved_stock = reserved_stock + $1, updated_at = $2
		WHERE product_id = $3
		RETURNING ` + inventoryColumns
	return r.conditional(query, ErrProductNotFound, qty, time.Now().UTC(), productID)
}

func (r *PostgresInventoryRepository) Restock(productID, units int) (models.InventoryRecord, error) {
	query := `
		UPDATE inventory
		SET current_stock = current_stock + $1, updated_at = $2
		WHERE product_id = $3 AND current_stock + $1 >= reserved_stock
		RETURNING ` + inventoryColumns
	return r.conditional(query, ErrInvariantViolation, units, time.Now().UTC(), productID)
}

func (r *PostgresInventoryRepository) SetReorderLevel(productID, level int) (models.InventoryRecord, error) {
	query := `
		UPDATE inventory
		SET reorder_level = $1, updated_at = $2
		WHERE product_id = $3
		RETURNING ` + inventoryColumns
	return r.conditional(query, ErrProductNotFound, level, time.Now().UTC(), productID)
}

func (r *PostgresInventoryRepository) Put(record models.InventoryRecord) error {
	if record.ReservedStock > record.CurrentStock {
		return ErrInvariantViolation
	}
	query := `
		INSERT INTO inventory (product_id, current_stock, reserved_stock, reorder_level, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id) DO UPDATE
		SET current_stock = $2, reserved_stock = $3, reorder_level = $4, updated_at = $5`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query,
		record.ProductID, record.CurrentStock, record.ReservedStock, record.ReorderLevel, time.Now().UTC())
	return err
}

// conditional runs a guarded UPDATE. A miss can mean either a failed guard or
// a missing row; a follow-up existence check picks the right error.
func (r *PostgresInventoryRepository) conditional(query string, guardErr error, args ...any) (models.InventoryRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var rec models.InventoryRecord
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.ProductID, &rec.CurrentStock, &rec.ReservedStock, &rec.ReorderLevel)
	if errors.Is(err, sql.ErrNoRows) {
		productID := args[len(args)-1].(int)
		var exists bool
		if checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM inventory WHERE product_id = $1)`, productID,
		).Scan(&exists); checkErr != nil {
			return models.InventoryRecord{}, checkErr
		}
		if !exists {
			return models.InventoryRecord{}, ErrProductNotFound
		}
		return models.InventoryRecord{}, guardErr
	}
	return rec, err
}
