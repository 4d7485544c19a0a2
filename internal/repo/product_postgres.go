package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

// psql builds queries with Postgres-style placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = "id, name, origin, roast, intensity, price_cents, processing, status"

func (r *PostgresProductRepository) Create(p models.Product) (models.Product, error) {
	query := `INSERT INTO products (name, origin, roast, intensity, price_cents, processing, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Origin, p.Roast, p.Intensity, p.PriceCents, p.Processing, p.Status, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil && strings.Contains(err.Error(), "unique constraint") {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	return p, err
}

func (r *PostgresProductRepository) GetAll() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) GetByID(id int) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Origin, &p.Roast, &p.Intensity, &p.PriceCents, &p.Processing, &p.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Update(p models.Product) (models.Product, error) {
	query := `UPDATE products SET name = $1, origin = $2, roast = $3, intensity = $4,
		price_cents = $5, processing = $6, status = $7, updated_at = $8 WHERE id = $9`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Origin, p.Roast, p.Intensity, p.PriceCents, p.Processing, p.Status, p.UpdatedAt, p.ID)
	if err != nil {
		return models.Product{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(id int) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Filter runs a paginated catalog search. Conditions are assembled with
// squirrel so the count and page queries share the same predicate.
func (r *PostgresProductRepository) Filter(pf ProductFilter) ([]models.Product, int, error) {
	pred := filterPredicate(pf)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countSQL, countArgs, err := psql.Select("COUNT(*)").From("products").Where(pred).ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	page := psql.Select(strings.Split(productColumns, ", ")...).
		From("products").
		Where(pred).
		OrderBy("id")
	if pf.Limit != nil && *pf.Limit > 0 {
		page = page.Limit(uint64(*pf.Limit))
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		page = page.Offset(uint64(*pf.Offset))
	}

	pageSQL, pageArgs, err := page.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	return products, totalCount, err
}

func filterPredicate(pf ProductFilter) sq.And {
	pred := sq.And{}
	if pf.Name != "" {
		pred = append(pred, sq.ILike{"name": "%" + pf.Name + "%"})
	}
	if pf.Origin != "" {
		pred = append(pred, sq.ILike{"origin": pf.Origin})
	}
	if pf.Roast != "" {
		pred = append(pred, sq.Eq{"roast": pf.Roast})
	}
	if pf.Status != "" {
		pred = append(pred, sq.Eq{"status": pf.Status})
	}
	if pf.MinPrice != nil {
		pred = append(pred, sq.GtOrEq{"price_cents": *pf.MinPrice})
	}
	if pf.MaxPrice != nil {
		pred = append(pred, sq.LtOrEq{"price_cents": *pf.MaxPrice})
	}
	if len(pred) == 0 {
		pred = append(pred, sq.Expr("TRUE"))
	}
	return pred
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Origin, &p.Roast, &p.Intensity, &p.PriceCents, &p.Processing, &p.Status); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
