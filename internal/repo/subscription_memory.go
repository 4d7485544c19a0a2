package repo

import (
	"sync"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

// InMemorySubscriptionRepository is an in-memory implementation of
// SubscriptionRepository.
type InMemorySubscriptionRepository struct {
	mu     sync.Mutex
	plans  []models.Plan
	subs   []models.Subscription
	nextID int
}

func NewInMemorySubscriptionRepository() *InMemorySubscriptionRepository {
	return &InMemorySubscriptionRepository{plans: DefaultPlans(), nextID: 1}
}

func (r *InMemorySubscriptionRepository) Plans() ([]models.Plan, error) {
	return r.plans, nil
}

func (r *InMemorySubscriptionRepository) GetPlan(id int) (models.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Plan{}, ErrPlanNotFound
}

func (r *InMemorySubscriptionRepository) Subscribe(sub models.Subscription) (models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.ID = r.nextID
	r.nextID++
	r.subs = append(r.subs, sub)
	return sub, nil
}

func (r *InMemorySubscriptionRepository) GetByCustomer(customer string) ([]models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var subs []models.Subscription
	for _, s := range r.subs {
		if s.Customer == customer {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

func (r *InMemorySubscriptionRepository) SetStatus(id int, customer string, status models.SubscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.ID == id && s.Customer == customer {
			r.subs[i].Status = status
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

func (r *InMemorySubscriptionRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = nil
	r.nextID = 1
}
