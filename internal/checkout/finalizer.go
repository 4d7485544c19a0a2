// Package checkout converts a held cart into a committed order exactly once.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rogerio-castellano/coffee-storefront/internal/cart"
	"github.com/rogerio-castellano/coffee-storefront/internal/models"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// ErrCheckoutFailed wraps a commit failure after compensation has run.
var ErrCheckoutFailed = errors.New("checkout failed")

// Pricing holds the checkout fee parameters, all in integer cents or basis
// points.
type Pricing struct {
	ShippingFlatCents     int64
	FreeShippingOverCents int64
	TaxBasisPoints        int64
}

// Finalizer walks the commit protocol: write the order as pending first,
// apply inventory deltas per line, confirm only when every line committed.
// The order number is the idempotency key for the deltas.
type Finalizer struct {
	carts   *cart.Service
	inv     repo.InventoryRepository
	orders  repo.OrderRepository
	ledger  repo.LedgerRepository
	pricing Pricing
	tracer  trace.Tracer
}

func NewFinalizer(carts *cart.Service, inv repo.InventoryRepository, orders repo.OrderRepository, ledger repo.LedgerRepository, pricing Pricing) *Finalizer {
	return &Finalizer{
		carts:   carts,
		inv:     inv,
		orders:  orders,
		ledger:  ledger,
		pricing: pricing,
		tracer:  otel.Tracer("checkout"),
	}
}

// Finalize commits the customer's cart. On success the cart is dropped
// without releasing its holds (each hold has been converted into a permanent
// deduction). On a line failing permanently, already-committed lines are
// compensated, the order is marked failed, and the cart keeps its holds. A
// confirm write that fails after every line committed still consumes the
// cart; the order comes back pending and is reconciled under its number.
func (f *Finalizer) Finalize(ctx context.Context, cartID, customer string) (models.Order, error) {
	ctx, span := f.tracer.Start(ctx, "checkout.Finalize")
	defer span.End()

	lines, err := f.carts.BeginCheckout(cartID)
	if err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			return models.Order{}, ErrEmptyCart
		}
		return models.Order{}, err
	}

	order := f.buildOrder(lines, customer)
	span.SetAttributes(
		attribute.String("order.number", order.Number),
		attribute.Int("order.lines", len(lines)),
		attribute.Int64("order.total_cents", order.TotalCents),
	)

	order, err = f.orders.Create(order)
	if err != nil {
		f.carts.AbortCheckout(cartID)
		return models.Order{}, fmt.Errorf("recording pending order: %w", err)
	}

	committed := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if err := f.commitLine(l, order.Number); err != nil {
			span.AddEvent("line commit failed", trace.WithAttributes(
				attribute.Int("product.id", l.ProductID),
			))
			f.compensate(committed, order.Number)
			f.carts.AbortCheckout(cartID)
			if statusErr := f.orders.UpdateStatus(order.Number, models.OrderFailed); statusErr != nil {
				log.Printf("marking order %s failed: %v", order.Number, statusErr)
			}
			return models.Order{}, fmt.Errorf("%w: product %d: %v", ErrCheckoutFailed, l.ProductID, err)
		}
		committed = append(committed, l)
		span.AddEvent("line committed", trace.WithAttributes(
			attribute.Int("product.id", l.ProductID),
			attribute.Int("quantity", l.Quantity),
		))
	}

	// Every hold is consumed, so the cart is done no matter how the
	// confirm write goes. Aborting instead would re-arm timers and
	// release stock the commits already took.
	f.carts.CompleteCheckout(cartID)

	if err := f.orders.UpdateStatus(order.Number, models.OrderConfirmed); err != nil {
		// The deltas are applied; the order stays pending under its
		// number for reconciliation rather than compensating a
		// completed commit.
		log.Printf("confirming order %s: %v", order.Number, err)
		return order, nil
	}
	order.Status = models.OrderConfirmed
	return order, nil
}

// commitLine converts the line's hold into a permanent deduction, retrying
// once on a transient failure. Guard errors are permanent.
func (f *Finalizer) commitLine(l models.CartLine, orderNumber string) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		_, err = f.inv.Commit(l.ProductID, l.Quantity)
		if err == nil {
			f.logLedger(l.ProductID, models.LedgerCommit, l.Quantity, orderNumber)
			return nil
		}
		if errors.Is(err, repo.ErrInvariantViolation) || errors.Is(err, repo.ErrProductNotFound) {
			return err
		}
	}
	return err
}

// compensate reverses commits already applied when a later line failed. The
// inverse restores both counters, so the cart's holds remain valid.
func (f *Finalizer) compensate(committed []models.CartLine, orderNumber string) {
	for _, l := range committed {
		if _, err := f.inv.Uncommit(l.ProductID, l.Quantity); err != nil {
			log.Printf("compensating product %d x%d for order %s failed: %v", l.ProductID, l.Quantity, orderNumber, err)
			continue
		}
		f.logLedger(l.ProductID, models.LedgerUncommit, l.Quantity, orderNumber)
	}
}

func (f *Finalizer) buildOrder(lines []models.CartLine, customer string) models.Order {
	order := models.Order{
		Number:    newOrderNumber(),
		Customer:  customer,
		Status:    models.OrderPending,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      l.ProductID,
			Name:           l.Name,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       l.Quantity,
		})
		order.SubtotalCents += l.UnitPriceCents * int64(l.Quantity)
	}
	order.ShippingCents = f.shipping(order.SubtotalCents)
	order.TaxCents = f.tax(order.SubtotalCents)
	order.TotalCents = order.SubtotalCents + order.ShippingCents + order.TaxCents
	return order
}

// shipping is a flat fee, waived above the free-shipping threshold.
func (f *Finalizer) shipping(subtotal int64) int64 {
	if subtotal >= f.pricing.FreeShippingOverCents {
		return 0
	}
	return f.pricing.ShippingFlatCents
}

// tax applies the configured rate in basis points, rounded half up.
func (f *Finalizer) tax(subtotal int64) int64 {
	return (subtotal*f.pricing.TaxBasisPoints + 5000) / 10000
}

func (f *Finalizer) logLedger(productID int, kind models.LedgerKind, qty int, reference string) {
	if f.ledger == nil {
		return
	}
	_ = f.ledger.Log(models.LedgerEntry{ProductID: productID, Kind: kind, Quantity: qty, Reference: reference})
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
