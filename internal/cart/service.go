// Package cart implements the cart aggregate and the reservation manager:
// every line in a cart is backed by a short-lived hold on reserved stock,
// released by timer expiry, explicit removal, or consumed by checkout.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

// ErrLineNotFound is returned when a cart does not hold the given product.
var ErrLineNotFound = errors.New("cart line not found")

// ErrInvalidQuantity is returned for non-positive quantities on add.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrProductUnavailable is returned for products not currently sold.
var ErrProductUnavailable = errors.New("product not available for sale")

// ErrCheckoutInProgress is returned when a cart is frozen by a running
// checkout.
var ErrCheckoutInProgress = errors.New("checkout in progress")

type line struct {
	models.CartLine
	timer *time.Timer
}

type cartState struct {
	lines  []*line
	frozen bool // set while a checkout is consuming the cart
}

// Service owns all carts and their reservations. All access to cart state is
// serialized through the service mutex; expiry timers fire on their own
// goroutines and take the same lock. Remote release calls run after the lock
// is dropped.
type Service struct {
	mu        sync.Mutex
	products  repo.ProductRepository
	inventory repo.InventoryRepository
	ledger    repo.LedgerRepository
	ttl       time.Duration
	carts     map[string]*cartState
	now       func() time.Time
}

// NewService wires the cart aggregate to its repositories. ttl is how long a
// reservation holds stock before it is given back.
func NewService(products repo.ProductRepository, inventory repo.InventoryRepository, ledger repo.LedgerRepository, ttl time.Duration) *Service {
	return &Service{
		products:  products,
		inventory: inventory,
		ledger:    ledger,
		ttl:       ttl,
		carts:     make(map[string]*cartState),
		now:       time.Now,
	}
}

// AddItem reserves qty units and merges them into the cart. Adding a product
// already in the cart re-reserves under the merged quantity: the net change
// to reserved stock is exactly qty, and the line's token and TTL restart.
func (s *Service) AddItem(ctx context.Context, cartID string, productID, qty int) (models.CartLine, error) {
	if qty <= 0 {
		return models.CartLine{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(cartID)
	if c.frozen {
		return models.CartLine{}, ErrCheckoutInProgress
	}

	if l := findLine(c, productID); l != nil {
		if err := s.setQuantityLocked(cartID, l, l.Quantity+qty); err != nil {
			return models.CartLine{}, err
		}
		return l.CartLine, nil
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return models.CartLine{}, err
	}
	if product.Status == models.ProductInactive {
		return models.CartLine{}, ErrProductUnavailable
	}

	if _, err := s.inventory.Reserve(productID, qty); err != nil {
		return models.CartLine{}, err
	}

	l := &line{CartLine: models.CartLine{
		ProductID:      productID,
		Name:           product.Name,
		UnitPriceCents: product.PriceCents,
		Quantity:       qty,
		Token:          uuid.NewString(),
		ReservedAt:     s.now(),
		State:          models.LineHeld,
	}}
	s.armTimer(cartID, l, s.ttl)
	c.lines = append(c.lines, l)
	s.logLedger(productID, models.LedgerReserve, qty, l.Token)
	return l.CartLine, nil
}

// UpdateQuantity changes a line to qty units. qty <= 0 removes the line. The
// new quantity may exceed current availability by up to the line's own held
// units, since those return to the pool the change competes against.
func (s *Service) UpdateQuantity(ctx context.Context, cartID string, productID, qty int) (models.CartLine, error) {
	if qty <= 0 {
		return models.CartLine{}, s.RemoveItem(ctx, cartID, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(cartID)
	if c.frozen {
		return models.CartLine{}, ErrCheckoutInProgress
	}
	l := findLine(c, productID)
	if l == nil {
		return models.CartLine{}, ErrLineNotFound
	}
	if err := s.setQuantityLocked(cartID, l, qty); err != nil {
		return models.CartLine{}, err
	}
	return l.CartLine, nil
}

// setQuantityLocked applies a quantity change by reserving or releasing only
// the delta, so reserved stock moves by exactly (new - old). The token and
// TTL are replaced either way.
func (s *Service) setQuantityLocked(cartID string, l *line, qty int) error {
	delta := qty - l.Quantity
	switch {
	case delta > 0:
		if _, err := s.inventory.Reserve(l.ProductID, delta); err != nil {
			return err
		}
		s.logLedger(l.ProductID, models.LedgerReserve, delta, l.Token)
	case delta < 0:
		if _, err := s.inventory.Release(l.ProductID, -delta); err != nil {
			log.Printf("release of %d units for product %d failed: %v", -delta, l.ProductID, err)
		}
		s.logLedger(l.ProductID, models.LedgerRelease, -delta, l.Token)
	}

	l.Quantity = qty
	l.Token = uuid.NewString()
	l.ReservedAt = s.now()
	l.State = models.LineHeld
	s.armTimer(cartID, l, s.ttl)
	return nil
}

// RemoveItem releases the line's hold and drops it from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID string, productID int) error {
	s.mu.Lock()
	c := s.cart(cartID)
	if c.frozen {
		s.mu.Unlock()
		return ErrCheckoutInProgress
	}
	l := findLine(c, productID)
	if l == nil {
		s.mu.Unlock()
		return ErrLineNotFound
	}
	rel := s.dropLineLocked(c, l, models.LedgerRelease)
	s.mu.Unlock()

	s.giveBack(rel)
	return nil
}

// Clear releases every hold and empties the cart.
func (s *Service) Clear(ctx context.Context, cartID string) {
	s.mu.Lock()
	c := s.cart(cartID)
	if c.frozen {
		s.mu.Unlock()
		return
	}
	var rels []release
	for len(c.lines) > 0 {
		rels = append(rels, s.dropLineLocked(c, c.lines[0], models.LedgerRelease))
	}
	delete(s.carts, cartID)
	s.mu.Unlock()

	s.giveBack(rels...)
}

// Refresh releases every line whose reservation has outlived the TTL. It is
// the recovery path for holds whose timers were lost to a restart, and the
// re-validation step for carts restored from persisted state.
func (s *Service) Refresh(ctx context.Context, cartID string) {
	s.mu.Lock()
	rels := s.refreshLocked(cartID)
	s.mu.Unlock()
	s.giveBack(rels...)
}

// RefreshAll sweeps every cart. Used by the background expiry loop.
func (s *Service) RefreshAll(ctx context.Context) {
	s.mu.Lock()
	var rels []release
	for cartID := range s.carts {
		rels = append(rels, s.refreshLocked(cartID)...)
	}
	s.mu.Unlock()
	s.giveBack(rels...)
}

func (s *Service) refreshLocked(cartID string) []release {
	c, ok := s.carts[cartID]
	if !ok || c.frozen {
		return nil
	}
	now := s.now()
	var rels []release
	for i := 0; i < len(c.lines); {
		l := c.lines[i]
		if now.Sub(l.ReservedAt) > s.ttl {
			rels = append(rels, s.dropLineLocked(c, l, models.LedgerExpire))
			continue // dropLineLocked compacts the slice
		}
		i++
	}
	if len(c.lines) == 0 {
		delete(s.carts, cartID)
	}
	return rels
}

// StartExpirySweeper periodically reconciles reservations that expired while
// no timer was armed for them.
func (s *Service) StartExpirySweeper(interval time.Duration) {
	for {
		time.Sleep(interval)
		s.RefreshAll(context.Background())
	}
}

// Lines returns a copy of the cart's line items.
func (s *Service) Lines(cartID string) []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil
	}
	lines := make([]models.CartLine, len(c.lines))
	for i, l := range c.lines {
		lines[i] = l.CartLine
	}
	return lines
}

// TotalItems is the unit count across all lines.
func (s *Service) TotalItems(cartID string) int {
	total := 0
	for _, l := range s.Lines(cartID) {
		total += l.Quantity
	}
	return total
}

// TotalPrice folds unit price times quantity in integer cents.
func (s *Service) TotalPrice(cartID string) int64 {
	var total int64
	for _, l := range s.Lines(cartID) {
		total += l.UnitPriceCents * int64(l.Quantity)
	}
	return total
}

// Snapshot returns the persistable form of the cart, without tokens.
func (s *Service) Snapshot(cartID string) models.CartSnapshot {
	var snap models.CartSnapshot
	for _, l := range s.Lines(cartID) {
		snap.Lines = append(snap.Lines, models.SnapshotLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return snap
}

// Restore rebuilds a cart from a snapshot by re-reserving every line. Holds
// from the previous session are not trusted; lines that can no longer be
// reserved are skipped.
func (s *Service) Restore(ctx context.Context, cartID string, snap models.CartSnapshot) []models.CartLine {
	s.Clear(ctx, cartID)
	for _, sl := range snap.Lines {
		if _, err := s.AddItem(ctx, cartID, sl.ProductID, sl.Quantity); err != nil {
			log.Printf("restore: dropping product %d x%d from cart %s: %v", sl.ProductID, sl.Quantity, cartID, err)
		}
	}
	return s.Lines(cartID)
}

// BeginCheckout freezes the cart and hands its lines to the finalizer. While
// frozen, no mutation or expiry can race the commit.
func (s *Service) BeginCheckout(cartID string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok || len(c.lines) == 0 {
		return nil, ErrLineNotFound
	}
	if c.frozen {
		return nil, ErrCheckoutInProgress
	}
	c.frozen = true
	lines := make([]models.CartLine, len(c.lines))
	for i, l := range c.lines {
		if l.timer != nil {
			l.timer.Stop()
		}
		lines[i] = l.CartLine
	}
	return lines, nil
}

// CompleteCheckout drops the cart after a successful commit. The holds were
// converted into permanent deductions, so nothing is released here.
func (s *Service) CompleteCheckout(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return
	}
	for _, l := range c.lines {
		if l.timer != nil {
			l.timer.Stop()
		}
		l.State = models.LineCommitted
	}
	delete(s.carts, cartID)
}

// AbortCheckout unfreezes the cart after a failed commit and re-arms each
// line's timer with whatever TTL it had left.
func (s *Service) AbortCheckout(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return
	}
	c.frozen = false
	now := s.now()
	for _, l := range c.lines {
		remaining := s.ttl - now.Sub(l.ReservedAt)
		if remaining < 0 {
			remaining = 0
		}
		s.armTimer(cartID, l, remaining)
	}
}

// release is a hold handed back to the pool, snapshotted under the lock so
// the remote call can run outside it.
type release struct {
	productID int
	qty       int
	kind      models.LedgerKind
	token     string
}

// dropLineLocked cancels the timer, marks the line released and removes it
// from the cart. The inventory round-trip is deferred to giveBack so one slow
// release cannot stall every other cart on the service mutex.
func (s *Service) dropLineLocked(c *cartState, l *line, kind models.LedgerKind) release {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.State = models.LineReleased
	for i, cl := range c.lines {
		if cl == l {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	return release{productID: l.ProductID, qty: l.Quantity, kind: kind, token: l.Token}
}

// giveBack returns snapshotted holds to the pool. Must not be called with the
// service mutex held. A release that fails remotely is only logged: an
// orphaned hold drifts until the next restock, a stuck cart line is worse.
func (s *Service) giveBack(rels ...release) {
	for _, rel := range rels {
		if _, err := s.inventory.Release(rel.productID, rel.qty); err != nil {
			log.Printf("release of %d units for product %d failed: %v", rel.qty, rel.productID, err)
		}
		s.logLedger(rel.productID, rel.kind, rel.qty, rel.token)
	}
}

// expireToken is the timer callback. The token check makes double release a
// no-op: a line whose quantity changed carries a new token, and a removed
// line is no longer found at all.
func (s *Service) expireToken(cartID, token string) {
	s.mu.Lock()
	c, ok := s.carts[cartID]
	if !ok || c.frozen {
		s.mu.Unlock()
		return
	}
	var rels []release
	for _, l := range c.lines {
		if l.Token == token && l.State == models.LineHeld {
			rels = append(rels, s.dropLineLocked(c, l, models.LedgerExpire))
			break
		}
	}
	if len(c.lines) == 0 {
		delete(s.carts, cartID)
	}
	s.mu.Unlock()

	s.giveBack(rels...)
}

func (s *Service) armTimer(cartID string, l *line, d time.Duration) {
	if l.timer != nil {
		l.timer.Stop()
	}
	token := l.Token
	l.timer = time.AfterFunc(d, func() { s.expireToken(cartID, token) })
}

func (s *Service) logLedger(productID int, kind models.LedgerKind, qty int, reference string) {
	if s.ledger == nil {
		return
	}
	_ = s.ledger.Log(models.LedgerEntry{ProductID: productID, Kind: kind, Quantity: qty, Reference: reference})
}

func (s *Service) cart(cartID string) *cartState {
	c, ok := s.carts[cartID]
	if !ok {
		c = &cartState{}
		s.carts[cartID] = c
	}
	return c
}

func findLine(c *cartState, productID int) *line {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l
		}
	}
	return nil
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
