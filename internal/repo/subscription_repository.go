package repo

import "github.com/rogerio-castellano/coffee-storefront/internal/models"

// SubscriptionRepository persists subscription signups. Plans are a static
// catalog seeded at boot.
type SubscriptionRepository interface {
	Plans() ([]models.Plan, error)
	GetPlan(id int) (models.Plan, error)
	Subscribe(sub models.Subscription) (models.Subscription, error)
	GetByCustomer(customer string) ([]models.Subscription, error)
	SetStatus(id int, customer string, status models.SubscriptionStatus) error
}

// DefaultPlans is the storefront's standing subscription offer.
func DefaultPlans() []models.Plan {
	return []models.Plan{
		{ID: 1, Name: "Weekly Explorer", Interval: models.IntervalWeekly, Bags: 1, PriceCents: 1650, DiscountBps: 500},
		{ID: 2, Name: "Biweekly Duo", Interval: models.IntervalBiweekly, Bags: 2, PriceCents: 3100, DiscountBps: 750},
		{ID: 3, Name: "Monthly Household", Interval: models.IntervalMonthly, Bags: 4, PriceCents: 5800, DiscountBps: 1000},
	}
}
