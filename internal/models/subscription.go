package models

// PlanInterval is the delivery cadence of a subscription plan.
type PlanInterval string

const (
	IntervalWeekly   PlanInterval = "weekly"
	IntervalBiweekly PlanInterval = "biweekly"
	IntervalMonthly  PlanInterval = "monthly"
)

// Plan is a subscription offering. DiscountBps is applied to the plan's
// coffee price, in basis points.
type Plan struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Interval    PlanInterval `json:"interval"`
	Bags        int          `json:"bags"`
	PriceCents  int64        `json:"price_cents"`
	DiscountBps int64        `json:"discount_bps"`
}

// SubscriptionStatus is the lifecycle state of a signup.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription ties a customer to a plan and a preferred coffee.
type Subscription struct {
	ID        int                `json:"id"`
	Customer  string             `json:"customer"`
	PlanID    int                `json:"plan_id"`
	ProductID int                `json:"product_id"`
	Status    SubscriptionStatus `json:"status"`
	CreatedAt string             `json:"created_at,omitempty"`
}
