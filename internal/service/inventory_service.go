package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"inventory-ledger/internal/interfaces"
	"inventory-ledger/internal/models"
)

// InventoryService handles business logic for ledger operations. Every
// public operation consults the chaos harness before touching the store;
// the service never caches ledger state across calls.
type InventoryService struct {
	repo      interfaces.LedgerRepository
	chaos     interfaces.ChaosInjector
	publisher interfaces.MessagePublisher
}

// NewInventoryService creates a new inventory service with dependency injection
func NewInventoryService(
	repo interfaces.LedgerRepository,
	chaos interfaces.ChaosInjector,
	publisher interfaces.MessagePublisher,
) *InventoryService {
	return &InventoryService{
		repo:      repo,
		chaos:     chaos,
		publisher: publisher,
	}
}

// GetInventory returns one inventory record
func (s *InventoryService) GetInventory(ctx context.Context, productID string) (*models.InventoryItem, error) {
	if err := s.chaos.InjectChaos(ctx, "getInventory"); err != nil {
		return nil, err
	}

	s.runSlowAnalysis(ctx, "getInventory", func(ctx context.Context) (int, error) {
		return s.repo.SlowInventoryAnalysis(ctx, productID)
	})

	item, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}

	return item, nil
}

// CheckAvailability reports, per item, whether enough stock is available.
// Unknown products report false rather than failing the batch.
func (s *InventoryService) CheckAvailability(ctx context.Context, items []models.CartItem) (map[string]bool, error) {
	if err := s.chaos.InjectChaos(ctx, "checkAvailability"); err != nil {
		return nil, err
	}

	if err := validateItems(items); err != nil {
		return nil, err
	}

	availability := make(map[string]bool, len(items))
	for _, item := range items {
		ok, err := s.repo.HasAvailable(ctx, item.ProductID, item.Quantity)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				availability[item.ProductID] = false
				continue
			}
			return nil, err
		}
		availability[item.ProductID] = ok
	}

	log.Debug().Int("items", len(items)).Msg("Checked availability")
	return availability, nil
}

// UpdateInventory applies a signed delta to available and total stock.
// Reserved stock is untouched; this models manual corrections and
// restocks, not consumption.
func (s *InventoryService) UpdateInventory(ctx context.Context, productID string, quantityChange int, operationType, reason string) (*models.InventoryItem, error) {
	if err := s.chaos.InjectChaos(ctx, "updateInventory"); err != nil {
		return nil, err
	}

	if quantityChange == 0 {
		return nil, fmt.Errorf("quantity change must be non-zero: %w", models.ErrInvalidQuantity)
	}

	rowsAffected, err := s.repo.ConditionalAdjust(ctx, productID, quantityChange, nowMillis())
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		// Either the product is unknown or the delta would drive
		// available negative; a follow-up read disambiguates.
		item, err := s.repo.GetByProductID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("adjustment of %d would drive available stock negative for product %s: %w",
			quantityChange, productID, models.ErrInvalidQuantity)
	}

	log.Info().
		Str("product_id", productID).
		Int("quantity_change", quantityChange).
		Str("operation_type", operationType).
		Str("reason", reason).
		Msg("Inventory updated")

	s.publishAsync(&models.StockEvent{
		EventType: models.EventTypeStockAdjusted,
		ProductID: productID,
		Qty:       quantityChange,
		Reason:    reason,
	})

	item, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}
	return item, nil
}

// ReserveInventory reserves stock for a multi-item cart. The commit phase
// runs inside a single store transaction, so a failed batch leaves no
// partial reservations. Returns false when any item lacks stock.
func (s *InventoryService) ReserveInventory(ctx context.Context, items []models.CartItem, reservationID string) (bool, error) {
	if err := s.chaos.InjectChaos(ctx, "reserveInventory"); err != nil {
		return false, err
	}

	if reservationID == "" {
		return false, fmt.Errorf("reservation id is required: %w", models.ErrInvalidQuantity)
	}
	if err := validateItems(items); err != nil {
		return false, err
	}

	// Pre-check phase: fail fast before opening a transaction. The
	// commit phase below re-evaluates each precondition atomically, so a
	// concurrent consumer racing past this check cannot cause overselling.
	for _, item := range items {
		ok, err := s.repo.HasAvailable(ctx, item.ProductID, item.Quantity)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return false, err
		}
		if err != nil || !ok {
			log.Warn().
				Str("reservation_id", reservationID).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("Reserve pre-check failed")
			return false, nil
		}
	}

	reservationItems := make([]models.ReservationItem, 0, len(items))
	for _, item := range items {
		reservationItems = append(reservationItems, models.ReservationItem{
			ReservationID: reservationID,
			ProductID:     item.ProductID,
			Qty:           item.Quantity,
		})
	}

	if err := s.repo.ReserveBatch(ctx, reservationID, reservationItems, nowMillis()); err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			log.Warn().Err(err).Str("reservation_id", reservationID).Msg("Reserve batch rolled back")
			return false, nil
		}
		return false, err
	}

	log.Info().Str("reservation_id", reservationID).Int("items", len(items)).Msg("Inventory reserved")

	for _, item := range reservationItems {
		s.publishAsync(&models.StockEvent{
			EventType:     models.EventTypeStockReserved,
			ProductID:     item.ProductID,
			Qty:           item.Qty,
			ReservationID: reservationID,
		})
	}

	return true, nil
}

// ReleaseInventory returns a reservation's stock to available, using the
// persisted reservation ledger to look up the exact items
func (s *InventoryService) ReleaseInventory(ctx context.Context, reservationID string) (bool, error) {
	if err := s.chaos.InjectChaos(ctx, "releaseInventory"); err != nil {
		return false, err
	}

	if reservationID == "" {
		return false, fmt.Errorf("reservation id is required: %w", models.ErrInvalidQuantity)
	}

	items, err := s.repo.ReleaseBatch(ctx, reservationID, nowMillis())
	if err != nil {
		return false, err
	}

	log.Info().Str("reservation_id", reservationID).Int("items", len(items)).Msg("Inventory released")

	for _, item := range items {
		s.publishAsync(&models.StockEvent{
			EventType:     models.EventTypeStockReleased,
			ProductID:     item.ProductID,
			Qty:           item.Qty,
			ReservationID: reservationID,
		})
	}

	return true, nil
}

// GetReservation returns a reservation's current status from the persisted
// reservation ledger
func (s *InventoryService) GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	if err := s.chaos.InjectChaos(ctx, "getReservation"); err != nil {
		return nil, err
	}

	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
	}

	return reservation, nil
}

// ListInventory returns every inventory record
func (s *InventoryService) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	if err := s.chaos.InjectChaos(ctx, "getAllInventory"); err != nil {
		return nil, err
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	s.runSlowAnalysis(ctx, "getAllInventory", func(ctx context.Context) (int, error) {
		total := 0
		for _, item := range sampleItems(items, 3) {
			n, err := s.repo.SlowInventoryTrendAnalysis(ctx, item.ProductID)
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil
	})

	return items, nil
}

// ListByWarehouse returns every record at the given warehouse location
func (s *InventoryService) ListByWarehouse(ctx context.Context, location string) ([]models.InventoryItem, error) {
	if err := s.chaos.InjectChaos(ctx, "getInventoryByWarehouse"); err != nil {
		return nil, err
	}

	return s.repo.ListByWarehouse(ctx, location)
}

// ListLowStock returns every record with available stock under the threshold
func (s *InventoryService) ListLowStock(ctx context.Context, threshold int) ([]models.InventoryItem, error) {
	if err := s.chaos.InjectChaos(ctx, "getLowStockItems"); err != nil {
		return nil, err
	}

	items, err := s.repo.ListBelowThreshold(ctx, threshold)
	if err != nil {
		return nil, err
	}

	s.runSlowAnalysis(ctx, "getLowStockItems", func(ctx context.Context) (int, error) {
		total := 0
		for _, item := range sampleItems(items, 2) {
			n, err := s.repo.SlowInventoryDeepAnalysis(ctx, item.ProductID)
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil
	})

	return items, nil
}

// runSlowAnalysis executes an expensive analysis read when the slow-query
// fault is active. Failures are logged and never abort the enclosing
// ledger call; only timing and row counts are observed.
func (s *InventoryService) runSlowAnalysis(ctx context.Context, operation string, fn func(context.Context) (int, error)) {
	if !s.chaos.ShouldExecuteSlowQuery(ctx) {
		return
	}

	start := time.Now()
	rows, err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		log.Error().Err(err).Str("operation", operation).Msg("Slow analysis query failed")
		return
	}

	log.Warn().
		Str("operation", operation).
		Dur("duration", duration).
		Int("rows", rows).
		Msg("Slow analysis query executed")
}

// publishAsync publishes a stock event without blocking the ledger call;
// failures are logged only
func (s *InventoryService) publishAsync(event *models.StockEvent) {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.publisher.PublishStockEvent(ctx, event); err != nil {
			log.Error().Err(err).
				Str("event_type", event.EventType).
				Str("product_id", event.ProductID).
				Msg("Failed to publish stock event")
		}
	}()
}

func validateItems(items []models.CartItem) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one item is required: %w", models.ErrInvalidQuantity)
	}
	for _, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("product id is required: %w", models.ErrInvalidQuantity)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive for product %s, got %d: %w",
				item.ProductID, item.Quantity, models.ErrInvalidQuantity)
		}
	}
	return nil
}

func sampleItems(items []models.InventoryItem, n int) []models.InventoryItem {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
