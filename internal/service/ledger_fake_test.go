package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inventory-ledger/internal/models"
)

// fakeLedger is a mutex-guarded in-memory ledger with the same conditional
// semantics as the SQL repository: every mutation evaluates its
// precondition and applies atomically, and batches are all-or-nothing.
// Unlike the mock.Mock doubles it carries real state, so tests can drive
// concurrent callers through the service and assert on quantities.
type fakeLedger struct {
	mu           sync.Mutex
	items        map[string]*models.InventoryItem
	reservations map[string]*models.Reservation
	reservedFor  map[string][]models.ReservationItem
}

func newFakeLedger(items ...models.InventoryItem) *fakeLedger {
	f := &fakeLedger{
		items:        make(map[string]*models.InventoryItem),
		reservations: make(map[string]*models.Reservation),
		reservedFor:  make(map[string][]models.ReservationItem),
	}
	for i := range items {
		item := items[i]
		f.items[item.ProductID] = &item
	}
	return f
}

func (f *fakeLedger) GetByProductID(ctx context.Context, productID string) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[productID]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (f *fakeLedger) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := make([]models.InventoryItem, 0, len(f.items))
	for _, item := range f.items {
		all = append(all, *item)
	}
	return all, nil
}

func (f *fakeLedger) ListByWarehouse(ctx context.Context, location string) ([]models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]models.InventoryItem, 0)
	for _, item := range f.items {
		if item.WarehouseLocation == location {
			matched = append(matched, *item)
		}
	}
	return matched, nil
}

func (f *fakeLedger) ListBelowThreshold(ctx context.Context, threshold int) ([]models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]models.InventoryItem, 0)
	for _, item := range f.items {
		if item.AvailableQuantity < threshold {
			matched = append(matched, *item)
		}
	}
	return matched, nil
}

func (f *fakeLedger) HasAvailable(ctx context.Context, productID string, qty int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[productID]
	if !ok {
		return false, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}
	return item.AvailableQuantity >= qty, nil
}

func (f *fakeLedger) ConditionalAdjust(ctx context.Context, productID string, delta int, timestamp int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[productID]
	if !ok || item.AvailableQuantity+delta < 0 {
		return 0, nil
	}

	item.AvailableQuantity += delta
	item.TotalQuantity += delta
	item.LastUpdatedTimestamp = timestamp
	return 1, nil
}

func (f *fakeLedger) ReserveBatch(ctx context.Context, reservationID string, items []models.ReservationItem, timestamp int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.reservations[reservationID]; exists {
		return fmt.Errorf("reservation %s: %w", reservationID, models.ErrDuplicateReservation)
	}

	// Validate every precondition before mutating anything, matching the
	// all-or-nothing transaction
	for _, item := range items {
		stock, ok := f.items[item.ProductID]
		if !ok || stock.AvailableQuantity < item.Qty {
			return fmt.Errorf("product %s: %w", item.ProductID, models.ErrInsufficientStock)
		}
	}

	for _, item := range items {
		stock := f.items[item.ProductID]
		stock.AvailableQuantity -= item.Qty
		stock.ReservedQuantity += item.Qty
		stock.LastUpdatedTimestamp = timestamp
	}

	now := time.Now()
	f.reservations[reservationID] = &models.Reservation{
		ReservationID: reservationID,
		Status:        models.ReservationStatusReserved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.reservedFor[reservationID] = append([]models.ReservationItem(nil), items...)
	return nil
}

func (f *fakeLedger) ReleaseBatch(ctx context.Context, reservationID string, timestamp int64) ([]models.ReservationItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reservation, ok := f.reservations[reservationID]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}
	if reservation.Status != models.ReservationStatusReserved {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotReserved)
	}

	items := f.reservedFor[reservationID]
	for _, item := range items {
		stock, ok := f.items[item.ProductID]
		if !ok || stock.ReservedQuantity < item.Qty {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, models.ErrNotReserved)
		}
	}

	for _, item := range items {
		stock := f.items[item.ProductID]
		stock.ReservedQuantity -= item.Qty
		stock.AvailableQuantity += item.Qty
		stock.LastUpdatedTimestamp = timestamp
	}

	reservation.Status = models.ReservationStatusReleased
	reservation.UpdatedAt = time.Now()
	return append([]models.ReservationItem(nil), items...), nil
}

func (f *fakeLedger) GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reservation, ok := f.reservations[reservationID]
	if !ok {
		return nil, nil
	}
	copied := *reservation
	return &copied, nil
}

func (f *fakeLedger) SlowInventoryAnalysis(ctx context.Context, productID string) (int, error) {
	return 0, nil
}

func (f *fakeLedger) SlowInventoryTrendAnalysis(ctx context.Context, productID string) (int, error) {
	return 0, nil
}

func (f *fakeLedger) SlowInventoryDeepAnalysis(ctx context.Context, productID string) (int, error) {
	return 0, nil
}
