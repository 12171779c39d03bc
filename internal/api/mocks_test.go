package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inventory-ledger/internal/models"
)

// MockInventoryService implements interfaces.InventoryService for testing
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) GetInventory(ctx context.Context, productID string) (*models.InventoryItem, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) CheckAvailability(ctx context.Context, items []models.CartItem) (map[string]bool, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockInventoryService) UpdateInventory(ctx context.Context, productID string, quantityChange int, operationType, reason string) (*models.InventoryItem, error) {
	args := m.Called(ctx, productID, quantityChange, operationType, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ReserveInventory(ctx context.Context, items []models.CartItem, reservationID string) (bool, error) {
	args := m.Called(ctx, items, reservationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) ReleaseInventory(ctx context.Context, reservationID string) (bool, error) {
	args := m.Called(ctx, reservationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockInventoryService) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListByWarehouse(ctx context.Context, location string) ([]models.InventoryItem, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListLowStock(ctx context.Context, threshold int) ([]models.InventoryItem, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

// MockRestockMonitor implements interfaces.RestockMonitor for testing
type MockRestockMonitor struct {
	mock.Mock
}

func (m *MockRestockMonitor) TriggerCheck(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRestockMonitor) Stats(ctx context.Context) (*models.MonitoringStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonitoringStats), args.Error(1)
}

// MockChaosInjector implements interfaces.ChaosInjector for testing
type MockChaosInjector struct {
	mock.Mock
}

func (m *MockChaosInjector) InjectChaos(ctx context.Context, operation string) error {
	args := m.Called(ctx, operation)
	return args.Error(0)
}

func (m *MockChaosInjector) ShouldExecuteSlowQuery(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockChaosInjector) Status(ctx context.Context) *models.ChaosStatus {
	args := m.Called(ctx)
	return args.Get(0).(*models.ChaosStatus)
}

func (m *MockChaosInjector) Cleanup() int {
	args := m.Called()
	return args.Int(0)
}
