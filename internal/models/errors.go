package models

import "errors"

// Ledger error taxonomy. Callers match with errors.Is; repository and
// service wrap these with fmt.Errorf("...: %w", ...) to add context.
// Only ErrStoreUnavailable and ErrInjectedFailure are sensibly retryable.
var (
	// ErrNotFound signals an unknown product or reservation id
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuantity signals a delta that would drive available stock
	// negative, or a non-positive requested quantity
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientStock signals a failed reserve precondition (available < qty)
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotReserved signals a failed release precondition (reserved < qty,
	// or the reservation is not in RESERVED status)
	ErrNotReserved = errors.New("stock not reserved")

	// ErrDuplicateReservation signals reuse of a reservation id that is
	// still live
	ErrDuplicateReservation = errors.New("reservation already exists")

	// ErrStoreUnavailable signals a real or injected dependency outage
	ErrStoreUnavailable = errors.New("inventory store unavailable")

	// ErrInjectedFailure signals a deliberate synthetic error from the
	// chaos harness
	ErrInjectedFailure = errors.New("injected failure")
)
