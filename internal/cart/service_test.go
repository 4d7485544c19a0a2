package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

func newTestService(t *testing.T, ttl time.Duration, stock int) (*Service, *repo.InMemoryInventoryRepository) {
	t.Helper()
	products := repo.NewInMemoryProductRepository()
	inventory := repo.NewInMemoryInventoryRepository()
	ledger := repo.NewInMemoryLedgerRepository()

	p, err := products.Create(models.Product{
		Name:       "Huila Reserve",
		Origin:     "Colombia",
		Roast:      models.RoastMedium,
		Intensity:  6,
		PriceCents: 1000,
		Status:     models.ProductActive,
	})
	if err != nil {
		t.Fatalf("creating product: %v", err)
	}
	if err := inventory.Put(models.InventoryRecord{ProductID: p.ID, CurrentStock: stock}); err != nil {
		t.Fatalf("seeding inventory: %v", err)
	}

	return NewService(products, inventory, ledger, ttl), inventory
}

func mustRecord(t *testing.T, inv *repo.InMemoryInventoryRepository, productID int) models.InventoryRecord {
	t.Helper()
	rec, err := inv.Get(productID)
	if err != nil {
		t.Fatalf("fetching inventory: %v", err)
	}
	return rec
}

func TestAddItem_ReservesStock(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	line, err := svc.AddItem(ctx, "cart1", 1, 3)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if line.State != models.LineHeld {
		t.Errorf("expected held line, got %s", line.State)
	}
	if line.Token == "" {
		t.Error("expected a reservation token")
	}

	rec := mustRecord(t, inv, 1)
	if rec.ReservedStock != 3 {
		t.Errorf("expected reserved 3, got %d", rec.ReservedStock)
	}
	if rec.AvailableStock() != 7 {
		t.Errorf("expected available 7, got %d", rec.AvailableStock())
	}
}

func TestAddItem_InsufficientStock(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart1", 1, 11)
	if !errors.Is(err, repo.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 0 {
		t.Errorf("failed reserve must leave reserved unchanged, got %d", rec.ReservedStock)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, 15*time.Minute, 10)

	_, err := svc.AddItem(context.Background(), "cart1", 99, 1)
	if !errors.Is(err, repo.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestAddItem_MergesAndReservesOnlyDelta(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	first, _ := svc.AddItem(ctx, "cart1", 1, 2)
	merged, err := svc.AddItem(ctx, "cart1", 1, 3)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if merged.Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", merged.Quantity)
	}
	if merged.Token == first.Token {
		t.Error("merging must replace the reservation token")
	}
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 5 {
		t.Errorf("expected reserved 5, got %d", rec.ReservedStock)
	}
	if lines := svc.Lines("cart1"); len(lines) != 1 {
		t.Errorf("expected one line, got %d", len(lines))
	}
}

func TestRemoveItem_RestoresInventory(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	before := mustRecord(t, inv, 1)
	if _, err := svc.AddItem(ctx, "cart1", 1, 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.RemoveItem(ctx, "cart1", 1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	after := mustRecord(t, inv, 1)
	if after != before {
		t.Errorf("reserve then release must restore the record: before=%+v after=%+v", before, after)
	}
	if len(svc.Lines("cart1")) != 0 {
		t.Error("expected empty cart")
	}
}

func TestUpdateQuantity_NetDelta(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		reserved int
		wantErr  error
	}{
		{name: "grow", from: 2, to: 6, reserved: 6},
		{name: "shrink", from: 6, to: 2, reserved: 2},
		{name: "up to available plus own hold", from: 4, to: 10, reserved: 10},
		{name: "beyond available plus own hold", from: 4, to: 11, reserved: 4, wantErr: repo.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, inv := newTestService(t, 15*time.Minute, 10)
			ctx := context.Background()

			if _, err := svc.AddItem(ctx, "cart1", 1, tt.from); err != nil {
				t.Fatalf("add: %v", err)
			}
			_, err := svc.UpdateQuantity(ctx, "cart1", 1, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if rec := mustRecord(t, inv, 1); rec.ReservedStock != tt.reserved {
				t.Errorf("expected reserved %d, got %d", tt.reserved, rec.ReservedStock)
			}
		})
	}
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	svc.AddItem(ctx, "cart1", 1, 3)
	if _, err := svc.UpdateQuantity(ctx, "cart1", 1, 0); err != nil {
		t.Fatalf("expected removal, got: %v", err)
	}
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 0 {
		t.Errorf("expected reserved 0, got %d", rec.ReservedStock)
	}
	if len(svc.Lines("cart1")) != 0 {
		t.Error("expected empty cart")
	}
}

func TestDoubleRemove_IsNoOp(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	svc.AddItem(ctx, "cart1", 1, 3)
	if err := svc.RemoveItem(ctx, "cart1", 1); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := svc.RemoveItem(ctx, "cart1", 1); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got: %v", err)
	}
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 0 {
		t.Errorf("second remove must not touch inventory, got reserved %d", rec.ReservedStock)
	}
}

func TestRefresh_ReleasesExpiredHolds(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	base := time.Now()
	svc.SetClock(func() time.Time { return base })

	if _, err := svc.AddItem(ctx, "cart1", 1, 4); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Not yet expired.
	svc.SetClock(func() time.Time { return base.Add(14 * time.Minute) })
	svc.Refresh(ctx, "cart1")
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 4 {
		t.Errorf("hold released early, reserved %d", rec.ReservedStock)
	}

	// Past the TTL.
	svc.SetClock(func() time.Time { return base.Add(16 * time.Minute) })
	svc.Refresh(ctx, "cart1")
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 0 {
		t.Errorf("expected expired hold released, reserved %d", rec.ReservedStock)
	}
	if len(svc.Lines("cart1")) != 0 {
		t.Error("expected expired line dropped")
	}
}

func TestExpiryTimer_ReleasesHold(t *testing.T) {
	svc, inv := newTestService(t, 50*time.Millisecond, 10)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "cart1", 1, 4); err != nil {
		t.Fatalf("add: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		rec := mustRecord(t, inv, 1)
		if rec.ReservedStock == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timer did not release the hold, reserved %d", rec.ReservedStock)
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(svc.Lines("cart1")) != 0 {
		t.Error("expected expired line dropped")
	}
}

func TestUpdateQuantity_RestartsTTL(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	base := time.Now()
	svc.SetClock(func() time.Time { return base })
	svc.AddItem(ctx, "cart1", 1, 2)

	// Update just before expiry replaces the token and restarts the clock.
	svc.SetClock(func() time.Time { return base.Add(14 * time.Minute) })
	if _, err := svc.UpdateQuantity(ctx, "cart1", 1, 3); err != nil {
		t.Fatalf("update: %v", err)
	}

	svc.SetClock(func() time.Time { return base.Add(16 * time.Minute) })
	svc.Refresh(ctx, "cart1")
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 3 {
		t.Errorf("hold must survive until 15m after the update, reserved %d", rec.ReservedStock)
	}
}

func TestReserveAllThenReleaseThenReserve(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "cartA", 1, 10); err != nil {
		t.Fatalf("reserving full stock: %v", err)
	}
	if _, err := svc.AddItem(ctx, "cartB", 1, 1); !errors.Is(err, repo.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	if err := svc.RemoveItem(ctx, "cartA", 1); err != nil {
		t.Fatalf("release: %v", err)
	}
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 0 {
		t.Fatalf("expected reserved 0 after release, got %d", rec.ReservedStock)
	}

	if _, err := svc.AddItem(ctx, "cartB", 1, 1); err != nil {
		t.Fatalf("expected reserve to succeed after release, got: %v", err)
	}
}

func TestTotals(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	products := svc.products.(*repo.InMemoryProductRepository)
	p2, _ := products.Create(models.Product{Name: "Yirgacheffe", PriceCents: 1500, Intensity: 4, Status: models.ProductActive})
	inv.Put(models.InventoryRecord{ProductID: p2.ID, CurrentStock: 5})

	svc.AddItem(ctx, "cart1", 1, 2)
	svc.AddItem(ctx, "cart1", p2.ID, 1)

	if got := svc.TotalItems("cart1"); got != 3 {
		t.Errorf("expected 3 items, got %d", got)
	}
	if got := svc.TotalPrice("cart1"); got != 3500 {
		t.Errorf("expected 3500 cents, got %d", got)
	}
}

func TestSnapshotExcludesTokensAndRestoreReReserves(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	svc.AddItem(ctx, "cart1", 1, 4)
	snap := svc.Snapshot("cart1")
	if len(snap.Lines) != 1 || snap.Lines[0].Quantity != 4 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	lines := svc.Restore(ctx, "cart1", snap)
	if len(lines) != 1 || lines[0].Quantity != 4 {
		t.Fatalf("unexpected restored cart: %+v", lines)
	}
	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 4 {
		t.Errorf("restore must re-reserve exactly the snapshot, reserved %d", rec.ReservedStock)
	}
}

func TestClear_ReleasesEverything(t *testing.T) {
	svc, inv := newTestService(t, 15*time.Minute, 10)
	ctx := context.Background()

	svc.AddItem(ctx, "cart1", 1, 2)
	svc.AddItem(ctx, "cart1", 1, 3)
	svc.Clear(ctx, "cart1")

	if rec := mustRecord(t, inv, 1); rec.ReservedStock != 0 {
		t.Errorf("expected reserved 0, got %d", rec.ReservedStock)
	}
	if svc.TotalItems("cart1") != 0 {
		t.Error("expected empty cart")
	}
}

func TestAvailableStockNeverNegative(t *testing.T) {
	rec := models.InventoryRecord{CurrentStock: 2, ReservedStock: 5}
	if got := rec.AvailableStock(); got != 0 {
		t.Errorf("expected available floored at 0, got %d", got)
	}
}

// reentrantInventory reads the cart back through the service during Release,
// so the test deadlocks if the release still ran under the service mutex.
type reentrantInventory struct {
	repo.InventoryRepository
	svc    *Service
	cartID string
}

func (r *reentrantInventory) Release(productID, qty int) (models.InventoryRecord, error) {
	r.svc.TotalItems(r.cartID)
	return r.InventoryRepository.Release(productID, qty)
}

func TestRemoveItem_ReleasesOutsideServiceLock(t *testing.T) {
	products := repo.NewInMemoryProductRepository()
	memInv := repo.NewInMemoryInventoryRepository()
	p, err := products.Create(models.Product{Name: "Huila Reserve", PriceCents: 1000, Intensity: 6, Status: models.ProductActive})
	if err != nil {
		t.Fatalf("creating product: %v", err)
	}
	if err := memInv.Put(models.InventoryRecord{ProductID: p.ID, CurrentStock: 10}); err != nil {
		t.Fatalf("seeding inventory: %v", err)
	}
	inv := &reentrantInventory{InventoryRepository: memInv, cartID: "cart1"}
	svc := NewService(products, inv, nil, 15*time.Minute)
	inv.svc = svc
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "cart1", 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- svc.RemoveItem(ctx, "cart1", 1) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("remove blocked on the inventory release")
	}

	if rec := mustRecord(t, memInv, 1); rec.ReservedStock != 0 {
		t.Errorf("expected reserved 0, got %d", rec.ReservedStock)
	}
}
