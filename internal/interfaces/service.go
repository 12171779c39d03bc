package interfaces

import (
	"context"

	"inventory-ledger/internal/models"
)

// InventoryService defines the contract for ledger business operations
type InventoryService interface {
	GetInventory(ctx context.Context, productID string) (*models.InventoryItem, error)
	CheckAvailability(ctx context.Context, items []models.CartItem) (map[string]bool, error)
	UpdateInventory(ctx context.Context, productID string, quantityChange int, operationType, reason string) (*models.InventoryItem, error)
	ReserveInventory(ctx context.Context, items []models.CartItem, reservationID string) (bool, error)
	ReleaseInventory(ctx context.Context, reservationID string) (bool, error)
	GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error)
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	ListByWarehouse(ctx context.Context, location string) ([]models.InventoryItem, error)
	ListLowStock(ctx context.Context, threshold int) ([]models.InventoryItem, error)
}

// ChaosInjector defines the fault-injection harness consulted by every
// ledger-facing operation
type ChaosInjector interface {
	// InjectChaos runs the full injection sequence for the named operation;
	// the first fault that raises an error short-circuits the rest.
	InjectChaos(ctx context.Context, operation string) error

	// ShouldExecuteSlowQuery reports whether the expensive-read fault is
	// active; the heavy queries themselves run in the service layer.
	ShouldExecuteSlowQuery(ctx context.Context) bool

	// Status returns the current resolved value of every flag. Pure read.
	Status(ctx context.Context) *models.ChaosStatus

	// Cleanup releases retained memory-pressure allocations and returns
	// the number of MiB freed. Idempotent.
	Cleanup() int
}

// RestockMonitor defines the restock scheduler's on-demand surface
type RestockMonitor interface {
	TriggerCheck(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*models.MonitoringStats, error)
}
