package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inventory-ledger/internal/models"
)

// MockLedgerRepository implements interfaces.LedgerRepository for testing
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetByProductID(ctx context.Context, productID string) (*models.InventoryItem, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockLedgerRepository) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockLedgerRepository) ListByWarehouse(ctx context.Context, location string) ([]models.InventoryItem, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockLedgerRepository) ListBelowThreshold(ctx context.Context, threshold int) ([]models.InventoryItem, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockLedgerRepository) HasAvailable(ctx context.Context, productID string, qty int) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) ConditionalAdjust(ctx context.Context, productID string, delta int, timestamp int64) (int64, error) {
	args := m.Called(ctx, productID, delta, timestamp)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ReserveBatch(ctx context.Context, reservationID string, items []models.ReservationItem, timestamp int64) error {
	args := m.Called(ctx, reservationID, items, timestamp)
	return args.Error(0)
}

func (m *MockLedgerRepository) ReleaseBatch(ctx context.Context, reservationID string, timestamp int64) ([]models.ReservationItem, error) {
	args := m.Called(ctx, reservationID, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReservationItem), args.Error(1)
}

func (m *MockLedgerRepository) GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockLedgerRepository) SlowInventoryAnalysis(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) SlowInventoryTrendAnalysis(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) SlowInventoryDeepAnalysis(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

// MockMessagePublisher implements interfaces.MessagePublisher for testing
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishStockEvent(ctx context.Context, event *models.StockEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// stubFlags is an in-memory flag source for testing; a nil map resolves
// every flag to its default
type stubFlags struct {
	bools map[string]bool
	ints  map[string]int
}

func (s *stubFlags) GetBool(ctx context.Context, name string, defaultValue bool) bool {
	if v, ok := s.bools[name]; ok {
		return v
	}
	return defaultValue
}

func (s *stubFlags) GetInt(ctx context.Context, name string, defaultValue int) int {
	if v, ok := s.ints[name]; ok {
		return v
	}
	return defaultValue
}

// newQuietPublisher returns a publisher mock that tolerates the services'
// fire-and-forget event goroutines
func newQuietPublisher() *MockMessagePublisher {
	publisher := new(MockMessagePublisher)
	publisher.On("PublishStockEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
	return publisher
}
