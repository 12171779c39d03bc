package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"inventory-ledger/internal/models"
)

// LedgerRepository handles database operations for the inventory ledger
type LedgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const inventoryColumns = `product_id, available_quantity, reserved_quantity, total_quantity, warehouse_location, last_updated_timestamp`

// GetByProductID retrieves one inventory record; returns nil when the
// product is unknown
func (r *LedgerRepository) GetByProductID(ctx context.Context, productID string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_id = $1`

	err := r.db.GetContext(ctx, &item, query, productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Error().Err(err).Str("product_id", productID).Msg("Failed to get inventory")
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	return &item, nil
}

// ListAll retrieves every inventory record
func (r *LedgerRepository) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	query := `SELECT ` + inventoryColumns + ` FROM inventory ORDER BY product_id`

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		log.Error().Err(err).Msg("Failed to list inventory")
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	return items, nil
}

// ListByWarehouse retrieves every record stored at the given location
func (r *LedgerRepository) ListByWarehouse(ctx context.Context, location string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE warehouse_location = $1 ORDER BY product_id`

	if err := r.db.SelectContext(ctx, &items, query, location); err != nil {
		log.Error().Err(err).Str("warehouse_location", location).Msg("Failed to list inventory by warehouse")
		return nil, fmt.Errorf("failed to list inventory by warehouse: %w", err)
	}

	return items, nil
}

// ListBelowThreshold retrieves every record with available stock under the threshold
func (r *LedgerRepository) ListBelowThreshold(ctx context.Context, threshold int) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE available_quantity < $1 ORDER BY available_quantity ASC`

	if err := r.db.SelectContext(ctx, &items, query, threshold); err != nil {
		log.Error().Err(err).Int("threshold", threshold).Msg("Failed to list low stock inventory")
		return nil, fmt.Errorf("failed to list low stock inventory: %w", err)
	}

	return items, nil
}

// HasAvailable reports whether the product has at least qty units available.
// Unknown products yield models.ErrNotFound.
func (r *LedgerRepository) HasAvailable(ctx context.Context, productID string, qty int) (bool, error) {
	var ok bool
	query := `SELECT available_quantity >= $2 FROM inventory WHERE product_id = $1`

	err := r.db.GetContext(ctx, &ok, query, productID, qty)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
		}
		log.Error().Err(err).Str("product_id", productID).Msg("Failed to check available stock")
		return false, fmt.Errorf("failed to check available stock: %w", err)
	}

	return ok, nil
}

// ConditionalAdjust adds delta to available and total quantities in one
// atomic statement. The predicate refuses any delta that would drive
// available negative; zero rows affected means either that or an unknown
// product, which the caller disambiguates with a follow-up read.
func (r *LedgerRepository) ConditionalAdjust(ctx context.Context, productID string, delta int, timestamp int64) (int64, error) {
	query := `UPDATE inventory
			  SET available_quantity = available_quantity + $2,
			      total_quantity = total_quantity + $2,
			      last_updated_timestamp = $3
			  WHERE product_id = $1 AND available_quantity + $2 >= 0`

	result, err := r.db.ExecContext(ctx, query, productID, delta, timestamp)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID).Int("delta", delta).Msg("Failed to adjust inventory")
		return 0, fmt.Errorf("failed to adjust inventory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}

// reserve and release move stock between available and reserved; total is
// untouched. The precondition is part of the UPDATE predicate so concurrent
// callers can never observe a stale quantity.
const reserveQuery = `UPDATE inventory
			  SET available_quantity = available_quantity - $2,
			      reserved_quantity = reserved_quantity + $2,
			      last_updated_timestamp = $3
			  WHERE product_id = $1 AND available_quantity >= $2`

const releaseQuery = `UPDATE inventory
			  SET available_quantity = available_quantity + $2,
			      reserved_quantity = reserved_quantity - $2,
			      last_updated_timestamp = $3
			  WHERE product_id = $1 AND reserved_quantity >= $2`

// ReserveBatch reserves every item and records the reservation in one
// transaction. Any item whose conditional reserve affects zero rows rolls
// the whole batch back, so a failed batch leaves no partial reservations.
func (r *LedgerRepository) ReserveBatch(ctx context.Context, reservationID string, items []models.ReservationItem, timestamp int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		result, err := tx.ExecContext(ctx, reserveQuery, item.ProductID, item.Qty, timestamp)
		if err != nil {
			log.Error().Err(err).Str("product_id", item.ProductID).Msg("Failed to reserve inventory")
			return fmt.Errorf("failed to reserve inventory: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rowsAffected == 0 {
			log.Warn().
				Str("reservation_id", reservationID).
				Str("product_id", item.ProductID).
				Int("qty", item.Qty).
				Msg("Reserve precondition failed, rolling back batch")
			return fmt.Errorf("product %s: %w", item.ProductID, models.ErrInsufficientStock)
		}
	}

	insertReservation := `INSERT INTO reservation (reservation_id, status, created_at, updated_at)
			  VALUES ($1, $2, NOW(), NOW())`
	if _, err := tx.ExecContext(ctx, insertReservation, reservationID, models.ReservationStatusReserved); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("reservation %s: %w", reservationID, models.ErrDuplicateReservation)
		}
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to create reservation")
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	insertItem := `INSERT INTO reservation_item (reservation_id, product_id, qty) VALUES ($1, $2, $3)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, insertItem, reservationID, item.ProductID, item.Qty); err != nil {
			log.Error().Err(err).Str("reservation_id", reservationID).Str("product_id", item.ProductID).Msg("Failed to create reservation item")
			return fmt.Errorf("failed to create reservation item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	return nil
}

// ReleaseBatch returns every item of a reservation to available stock and
// marks the reservation RELEASED, all in one transaction. Returns the
// released items.
func (r *LedgerRepository) ReleaseBatch(ctx context.Context, reservationID string, timestamp int64) ([]models.ReservationItem, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var reservation models.Reservation
	query := `SELECT reservation_id, status, created_at, updated_at
			  FROM reservation WHERE reservation_id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &reservation, query, reservationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
		}
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to get reservation")
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.Status != models.ReservationStatusReserved {
		return nil, fmt.Errorf("reservation %s is %s: %w", reservationID, reservation.Status, models.ErrNotReserved)
	}

	var items []models.ReservationItem
	itemsQuery := `SELECT reservation_id, product_id, qty FROM reservation_item WHERE reservation_id = $1`
	if err := tx.SelectContext(ctx, &items, itemsQuery, reservationID); err != nil {
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to get reservation items")
		return nil, fmt.Errorf("failed to get reservation items: %w", err)
	}

	for _, item := range items {
		result, err := tx.ExecContext(ctx, releaseQuery, item.ProductID, item.Qty, timestamp)
		if err != nil {
			log.Error().Err(err).Str("product_id", item.ProductID).Msg("Failed to release inventory")
			return nil, fmt.Errorf("failed to release inventory: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rowsAffected == 0 {
			// Release precondition failed; the rollback keeps the batch atomic
			return nil, fmt.Errorf("product %s: %w", item.ProductID, models.ErrNotReserved)
		}
	}

	statusQuery := `UPDATE reservation SET status = $2, updated_at = NOW() WHERE reservation_id = $1`
	if _, err := tx.ExecContext(ctx, statusQuery, reservationID, models.ReservationStatusReleased); err != nil {
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to update reservation status")
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit release: %w", err)
	}

	return items, nil
}

// GetReservation retrieves a reservation by id; returns nil when unknown
func (r *LedgerRepository) GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	var reservation models.Reservation
	query := `SELECT reservation_id, status, created_at, updated_at
			  FROM reservation WHERE reservation_id = $1`

	err := r.db.GetContext(ctx, &reservation, query, reservationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to get reservation")
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return &reservation, nil
}
