package interfaces

import (
	"context"

	"inventory-ledger/internal/models"
)

// LedgerRepository defines the contract for the durable inventory ledger.
//
// Every quantity mutation is a single conditional statement evaluated
// atomically by the store; callers never read-modify-write quantities in
// application code. Batch operations run inside one store transaction and
// are all-or-nothing.
type LedgerRepository interface {
	// Read operations
	GetByProductID(ctx context.Context, productID string) (*models.InventoryItem, error)
	ListAll(ctx context.Context) ([]models.InventoryItem, error)
	ListByWarehouse(ctx context.Context, location string) ([]models.InventoryItem, error)
	ListBelowThreshold(ctx context.Context, threshold int) ([]models.InventoryItem, error)
	HasAvailable(ctx context.Context, productID string, qty int) (bool, error)

	// Conditional single-row mutations
	ConditionalAdjust(ctx context.Context, productID string, delta int, timestamp int64) (int64, error)

	// Transactional batch operations over the reservation ledger
	ReserveBatch(ctx context.Context, reservationID string, items []models.ReservationItem, timestamp int64) error
	ReleaseBatch(ctx context.Context, reservationID string, timestamp int64) ([]models.ReservationItem, error)
	GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error)

	// Deliberately expensive analysis reads, used only by the chaos
	// harness's slow-query path. Results are discarded; callers observe
	// timing and row counts only.
	SlowInventoryAnalysis(ctx context.Context, productID string) (int, error)
	SlowInventoryTrendAnalysis(ctx context.Context, productID string) (int, error)
	SlowInventoryDeepAnalysis(ctx context.Context, productID string) (int, error)
}
