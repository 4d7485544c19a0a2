package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Connect(dbURL string) (*sql.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL not configured")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the storefront tables if they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			origin TEXT NOT NULL DEFAULT '',
			roast TEXT NOT NULL DEFAULT 'medium',
			intensity INT NOT NULL DEFAULT 5,
			price_cents BIGINT NOT NULL,
			processing TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			product_id INT PRIMARY KEY REFERENCES products(id) ON DELETE CASCADE,
			current_stock INT NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
			reserved_stock INT NOT NULL DEFAULT 0 CHECK (reserved_stock >= 0),
			reorder_level INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ,
			CHECK (reserved_stock <= current_stock)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			number TEXT NOT NULL UNIQUE,
			customer TEXT NOT NULL,
			subtotal_cents BIGINT NOT NULL,
			shipping_cents BIGINT NOT NULL,
			tax_cents BIGINT NOT NULL,
			total_cents BIGINT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id INT NOT NULL,
			name TEXT NOT NULL,
			unit_price_cents BIGINT NOT NULL,
			quantity INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id SERIAL PRIMARY KEY,
			customer TEXT NOT NULL,
			plan_id INT NOT NULL,
			product_id INT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS stock_ledger (
			id SERIAL PRIMARY KEY,
			product_id INT NOT NULL,
			kind TEXT NOT NULL,
			quantity INT NOT NULL,
			reference TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
