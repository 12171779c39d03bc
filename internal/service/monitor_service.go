package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"inventory-ledger/internal/interfaces"
	"inventory-ledger/internal/models"
)

// MonitorConfig holds restock monitor configuration
type MonitorConfig struct {
	Enabled            bool
	Interval           time.Duration
	LowStockThreshold  int
	RestockQuantityMin int
	RestockQuantityMax int
}

// Validate validates the monitor configuration
func (c MonitorConfig) Validate() error {
	if c.Interval < time.Second {
		return fmt.Errorf("monitor interval must be at least 1 second, got %v", c.Interval)
	}
	if c.LowStockThreshold < 1 {
		return fmt.Errorf("low stock threshold must be positive, got %d", c.LowStockThreshold)
	}
	if c.RestockQuantityMin < 1 {
		return fmt.Errorf("restock quantity minimum must be positive, got %d", c.RestockQuantityMin)
	}
	if c.RestockQuantityMax < c.RestockQuantityMin {
		return fmt.Errorf("restock quantity maximum %d is below minimum %d", c.RestockQuantityMax, c.RestockQuantityMin)
	}
	return nil
}

// MonitorService keeps stock above the configured floor. A ticker
// goroutine scans for low-stock products and replenishes each one
// independently; one item's failure never aborts the scan.
type MonitorService struct {
	repo      interfaces.LedgerRepository
	publisher interfaces.MessagePublisher
	config    MonitorConfig
}

// NewMonitorService creates a new restock monitor
func NewMonitorService(repo interfaces.LedgerRepository, publisher interfaces.MessagePublisher, config MonitorConfig) (*MonitorService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monitor configuration: %w", err)
	}

	return &MonitorService{
		repo:      repo,
		publisher: publisher,
		config:    config,
	}, nil
}

// Start launches the recurring scan on its own goroutine. It stops when
// the context is cancelled.
func (s *MonitorService) Start(ctx context.Context) {
	log.Info().
		Dur("interval", s.config.Interval).
		Int("threshold", s.config.LowStockThreshold).
		Bool("enabled", s.config.Enabled).
		Msg("Starting restock monitor")

	go func() {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Restock monitor stopped")
				return
			case <-ticker.C:
				if _, err := s.CheckAndRestock(ctx); err != nil {
					log.Error().Err(err).Msg("Restock scan failed")
				}
			}
		}
	}()
}

// CheckAndRestock scans for low-stock products and replenishes each one.
// Returns the number of products restocked. A disabled monitor is a no-op.
func (s *MonitorService) CheckAndRestock(ctx context.Context) (int, error) {
	if !s.config.Enabled {
		log.Debug().Msg("Restock monitoring disabled, skipping scan")
		return 0, nil
	}

	lowStockItems, err := s.repo.ListBelowThreshold(ctx, s.config.LowStockThreshold)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for low stock: %w", err)
	}

	if len(lowStockItems) == 0 {
		log.Debug().Msg("All products sufficiently stocked")
		return 0, nil
	}

	log.Info().Int("low_stock_count", len(lowStockItems)).Msg("Low stock detected, restocking")

	restocked := 0
	for i := range lowStockItems {
		if err := s.restockItem(ctx, &lowStockItems[i]); err != nil {
			// Per-item failure isolation: log and keep scanning
			log.Error().Err(err).Str("product_id", lowStockItems[i].ProductID).Msg("Failed to restock product")
			continue
		}
		restocked++
	}

	log.Info().Int("restocked_count", restocked).Msg("Restock scan completed")
	return restocked, nil
}

// restockItem replenishes one product by a uniformly random quantity in
// the configured range
func (s *MonitorService) restockItem(ctx context.Context, item *models.InventoryItem) error {
	qty := s.config.RestockQuantityMin + rand.Intn(s.config.RestockQuantityMax-s.config.RestockQuantityMin+1)

	log.Info().
		Str("product_id", item.ProductID).
		Int("current_quantity", item.AvailableQuantity).
		Int("restock_quantity", qty).
		Msg("Restocking product")

	rowsAffected, err := s.repo.ConditionalAdjust(ctx, item.ProductID, qty, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", item.ProductID, models.ErrNotFound)
	}

	event := &models.StockEvent{
		EventID:   uuid.New().String(),
		EventType: models.EventTypeStockRestocked,
		ProductID: item.ProductID,
		Qty:       qty,
		Reason:    "automatic restock",
		Timestamp: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.publisher.PublishStockEvent(ctx, event); err != nil {
			log.Error().Err(err).Str("product_id", event.ProductID).Msg("Failed to publish restock event")
		}
	}()

	return nil
}

// TriggerCheck runs the restock scan synchronously, outside the timer
func (s *MonitorService) TriggerCheck(ctx context.Context) (int, error) {
	log.Info().Msg("Manual restock check triggered")
	return s.CheckAndRestock(ctx)
}

// Stats returns the monitor's aggregate view of the ledger
func (s *MonitorService) Stats(ctx context.Context) (*models.MonitoringStats, error) {
	allItems, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	lowStockItems, err := s.repo.ListBelowThreshold(ctx, s.config.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for low stock: %w", err)
	}

	stats := &models.MonitoringStats{
		TotalItems:        int64(len(allItems)),
		LowStockCount:     int64(len(lowStockItems)),
		LowStockThreshold: s.config.LowStockThreshold,
		MonitoringEnabled: s.config.Enabled,
	}
	for _, item := range allItems {
		stats.TotalAvailableQuantity += int64(item.AvailableQuantity)
		stats.TotalReservedQuantity += int64(item.ReservedQuantity)
	}

	return stats, nil
}
