package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-ledger/internal/models"
)

func validMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:            true,
		Interval:           5 * time.Minute,
		LowStockThreshold:  10,
		RestockQuantityMin: 20,
		RestockQuantityMax: 50,
	}
}

func TestMonitorConfigValidate(t *testing.T) {
	assert.NoError(t, validMonitorConfig().Validate())

	short := validMonitorConfig()
	short.Interval = 100 * time.Millisecond
	assert.Error(t, short.Validate())

	threshold := validMonitorConfig()
	threshold.LowStockThreshold = 0
	assert.Error(t, threshold.Validate())

	minQty := validMonitorConfig()
	minQty.RestockQuantityMin = 0
	assert.Error(t, minQty.Validate())

	inverted := validMonitorConfig()
	inverted.RestockQuantityMax = 5
	assert.Error(t, inverted.Validate())
}

func TestNewMonitorServiceRejectsInvalidConfig(t *testing.T) {
	cfg := validMonitorConfig()
	cfg.Interval = 0

	monitor, err := NewMonitorService(new(MockLedgerRepository), newQuietPublisher(), cfg)

	assert.Error(t, err)
	assert.Nil(t, monitor)
}

func TestCheckAndRestockReplenishesLowStockItems(t *testing.T) {
	repo := new(MockLedgerRepository)
	repo.On("ListBelowThreshold", mock.Anything, 10).Return([]models.InventoryItem{
		{ProductID: "OLJCESPC7Z", AvailableQuantity: 3, TotalQuantity: 3},
		{ProductID: "66VCHSJNUP", AvailableQuantity: 7, TotalQuantity: 9},
	}, nil)
	repo.On("ConditionalAdjust", mock.Anything, "OLJCESPC7Z", mock.MatchedBy(func(qty int) bool {
		return qty >= 20 && qty <= 50
	}), mock.Anything).Return(int64(1), nil)
	repo.On("ConditionalAdjust", mock.Anything, "66VCHSJNUP", mock.MatchedBy(func(qty int) bool {
		return qty >= 20 && qty <= 50
	}), mock.Anything).Return(int64(1), nil)

	monitor, err := NewMonitorService(repo, newQuietPublisher(), validMonitorConfig())
	require.NoError(t, err)

	restocked, err := monitor.CheckAndRestock(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, restocked)
	repo.AssertExpectations(t)
}

func TestCheckAndRestockNothingBelowThreshold(t *testing.T) {
	repo := new(MockLedgerRepository)
	repo.On("ListBelowThreshold", mock.Anything, 10).Return([]models.InventoryItem{}, nil)

	monitor, err := NewMonitorService(repo, newQuietPublisher(), validMonitorConfig())
	require.NoError(t, err)

	restocked, err := monitor.CheckAndRestock(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, restocked)
	repo.AssertNotCalled(t, "ConditionalAdjust", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckAndRestockDisabledSkipsScan(t *testing.T) {
	repo := new(MockLedgerRepository)
	cfg := validMonitorConfig()
	cfg.Enabled = false

	monitor, err := NewMonitorService(repo, newQuietPublisher(), cfg)
	require.NoError(t, err)

	restocked, err := monitor.CheckAndRestock(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, restocked)
	repo.AssertNotCalled(t, "ListBelowThreshold", mock.Anything, mock.Anything)
}

func TestCheckAndRestockIsolatesPerItemFailures(t *testing.T) {
	repo := new(MockLedgerRepository)
	repo.On("ListBelowThreshold", mock.Anything, 10).Return([]models.InventoryItem{
		{ProductID: "FAILING", AvailableQuantity: 2},
		{ProductID: "HEALTHY", AvailableQuantity: 4},
	}, nil)
	repo.On("ConditionalAdjust", mock.Anything, "FAILING", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection reset"))
	repo.On("ConditionalAdjust", mock.Anything, "HEALTHY", mock.Anything, mock.Anything).
		Return(int64(1), nil)

	monitor, err := NewMonitorService(repo, newQuietPublisher(), validMonitorConfig())
	require.NoError(t, err)

	restocked, err := monitor.CheckAndRestock(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, restocked)
	repo.AssertExpectations(t)
}

func TestCheckAndRestockScanFailure(t *testing.T) {
	repo := new(MockLedgerRepository)
	repo.On("ListBelowThreshold", mock.Anything, 10).Return(nil, errors.New("connection refused"))

	monitor, err := NewMonitorService(repo, newQuietPublisher(), validMonitorConfig())
	require.NoError(t, err)

	restocked, err := monitor.CheckAndRestock(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, restocked)
}

func TestStatsAggregatesLedger(t *testing.T) {
	repo := new(MockLedgerRepository)
	repo.On("ListAll", mock.Anything).Return([]models.InventoryItem{
		{ProductID: "A", AvailableQuantity: 12, ReservedQuantity: 3, TotalQuantity: 15},
		{ProductID: "B", AvailableQuantity: 4, ReservedQuantity: 1, TotalQuantity: 5},
	}, nil)
	repo.On("ListBelowThreshold", mock.Anything, 10).Return([]models.InventoryItem{
		{ProductID: "B", AvailableQuantity: 4},
	}, nil)

	monitor, err := NewMonitorService(repo, newQuietPublisher(), validMonitorConfig())
	require.NoError(t, err)

	stats, err := monitor.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalItems)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(16), stats.TotalAvailableQuantity)
	assert.Equal(t, int64(4), stats.TotalReservedQuantity)
	assert.Equal(t, 10, stats.LowStockThreshold)
	assert.True(t, stats.MonitoringEnabled)
}
