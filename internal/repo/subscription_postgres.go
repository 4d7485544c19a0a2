package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

// Plans are static; they are not stored in the database.
func (r *PostgresSubscriptionRepository) Plans() ([]models.Plan, error) {
	return DefaultPlans(), nil
}

func (r *PostgresSubscriptionRepository) GetPlan(id int) (models.Plan, error) {
	for _, p := range DefaultPlans() {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Plan{}, ErrPlanNotFound
}

func (r *PostgresSubscriptionRepository) Subscribe(sub models.Subscription) (models.Subscription, error) {
	query := `INSERT INTO subscriptions (customer, plan_id, product_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, sub.Customer, sub.PlanID, sub.ProductID, sub.Status, sub.CreatedAt).
		Scan(&sub.ID)
	return sub, err
}

func (r *PostgresSubscriptionRepository) GetByCustomer(customer string) ([]models.Subscription, error) {
	query := `SELECT id, customer, plan_id, product_id, status FROM subscriptions WHERE customer = $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, customer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.Customer, &s.PlanID, &s.ProductID, &s.Status); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *PostgresSubscriptionRepository) SetStatus(id int, customer string, status models.SubscriptionStatus) error {
	query := `UPDATE subscriptions SET status = $1 WHERE id = $2 AND customer = $3`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, status, id, customer)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
