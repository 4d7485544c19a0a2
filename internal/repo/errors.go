package repo

import "errors"

// ErrProductNotFound is returned when a product or its inventory record is
// not found in the repository.
var ErrProductNotFound = errors.New("product not found")

// ErrInsufficientStock is returned when a reservation or commit asks for more
// units than are available.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvariantViolation is returned when a write would leave a stock counter
// negative or reserved above current.
var ErrInvariantViolation = errors.New("stock invariant violation")

// ErrOrderNotFound is returned when an order lookup misses.
var ErrOrderNotFound = errors.New("order not found")

// ErrSubscriptionNotFound is returned when a subscription lookup misses.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// ErrPlanNotFound is returned when a plan lookup misses.
var ErrPlanNotFound = errors.New("plan not found")

// ErrDuplicatedValueUnique is returned on unique constraint violations.
var ErrDuplicatedValueUnique = errors.New("duplicated value for unique column")
