package models

import (
	"time"
)

// ReservationStatus represents the state of a reservation
type ReservationStatus string

const (
	ReservationStatusReserved ReservationStatus = "RESERVED"
	ReservationStatusReleased ReservationStatus = "RELEASED"
)

// Event types for stock-change messages
const (
	EventTypeStockAdjusted  = "stock.adjusted"
	EventTypeStockReserved  = "stock.reserved"
	EventTypeStockReleased  = "stock.released"
	EventTypeStockRestocked = "stock.restocked"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrorCodeInvalidField         ErrorCode = "INVALID_FIELD"
	ErrorCodeInvalidQuantity      ErrorCode = "INVALID_QUANTITY"
	ErrorCodeInsufficientStock    ErrorCode = "INSUFFICIENT_STOCK"
	ErrorCodeNotReserved          ErrorCode = "NOT_RESERVED"
	ErrorCodeInventoryNotFound    ErrorCode = "INVENTORY_NOT_FOUND"
	ErrorCodeDuplicateReservation ErrorCode = "DUPLICATE_RESERVATION"
	ErrorCodeStoreUnavailable     ErrorCode = "STORE_UNAVAILABLE"
	ErrorCodeInjectedFailure      ErrorCode = "INJECTED_FAILURE"
	ErrorCodeInternalError        ErrorCode = "INTERNAL_ERROR"
)

const (
	ProblemTypeValidationError = "validation-error"
	ProblemTypeBusinessError   = "business-logic-error"
	ProblemTypeNotFound        = "not-found"
	ProblemTypeInternalError   = "internal-error"
	ProblemTypeUnavailable     = "service-unavailable"
)

// Domain Models

// InventoryItem represents one row of the inventory table. The ledger
// invariant total_quantity == available_quantity + reserved_quantity holds
// after every committed mutation; it is enforced by the conditional updates
// in the repository, never recomputed here.
type InventoryItem struct {
	ProductID            string `db:"product_id" json:"product_id"`
	AvailableQuantity    int    `db:"available_quantity" json:"available_quantity"`
	ReservedQuantity     int    `db:"reserved_quantity" json:"reserved_quantity"`
	TotalQuantity        int    `db:"total_quantity" json:"total_quantity"`
	WarehouseLocation    string `db:"warehouse_location" json:"warehouse_location"`
	LastUpdatedTimestamp int64  `db:"last_updated_timestamp" json:"last_updated_timestamp"`
}

// Reservation represents the reservation table structure. The id is
// caller-supplied and correlates the reserve call with the later release.
type Reservation struct {
	ReservationID string            `db:"reservation_id" json:"reservation_id"`
	Status        ReservationStatus `db:"status" json:"status"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

// ReservationItem represents one (product, quantity) pair held by a reservation
type ReservationItem struct {
	ReservationID string `db:"reservation_id" json:"reservation_id"`
	ProductID     string `db:"product_id" json:"product_id"`
	Qty           int    `db:"qty" json:"qty"`
}

// StockEvent represents a stock-change event published to Kafka
type StockEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ProductID     string    `json:"product_id"`
	Qty           int       `json:"qty"`
	ReservationID string    `json:"reservation_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// MonitoringStats summarizes the restock monitor's view of the ledger
type MonitoringStats struct {
	TotalItems             int64 `json:"total_items"`
	LowStockCount          int64 `json:"low_stock_count"`
	TotalAvailableQuantity int64 `json:"total_available_quantity"`
	TotalReservedQuantity  int64 `json:"total_reserved_quantity"`
	LowStockThreshold      int   `json:"low_stock_threshold"`
	MonitoringEnabled      bool  `json:"monitoring_enabled"`
}

// ChaosStatus is a point-in-time snapshot of every fault-injection flag
// plus the cumulative memory-pressure allocation
type ChaosStatus struct {
	ServiceFailureEnabled  bool `json:"service_failure_enabled"`
	LatencyInjectionMs     int  `json:"latency_injection_ms"`
	DatabaseFailureEnabled bool `json:"database_failure_enabled"`
	SlowQueryEnabled       bool `json:"slow_query_enabled"`
	MemoryLeakEnabled      bool `json:"memory_leak_enabled"`
	HighCPUEnabled         bool `json:"high_cpu_enabled"`
	MemoryLeakSizeMB       int  `json:"memory_leak_size_mb"`
}

// API Request Models

// CartItem is one (product, quantity) pair in a batch request
type CartItem struct {
	ProductID string `json:"product_id" binding:"required" validate:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1" validate:"required,min=1"`
}

// CheckAvailabilityRequest asks whether every listed item has enough stock
type CheckAvailabilityRequest struct {
	Items []CartItem `json:"items" binding:"required,min=1,dive"`
}

// UpdateInventoryRequest adjusts available (and total) stock by a signed delta
type UpdateInventoryRequest struct {
	QuantityChange int    `json:"quantity_change" binding:"required"`
	OperationType  string `json:"operation_type"`
	Reason         string `json:"reason"`
}

// ReserveRequest moves stock from available to reserved for a cart
type ReserveRequest struct {
	ReservationID string     `json:"reservation_id" binding:"required"`
	Items         []CartItem `json:"items" binding:"required,min=1,dive"`
}

// ReleaseRequest returns a reservation's stock to available
type ReleaseRequest struct {
	ReservationID string `json:"reservation_id" binding:"required"`
}

// API Response Models

// ReserveResponse reports the outcome of a reserve call
type ReserveResponse struct {
	ReservationID string `json:"reservation_id"`
	Reserved      bool   `json:"reserved"`
	Message       string `json:"message"`
}

// ReleaseResponse reports the outcome of a release call
type ReleaseResponse struct {
	ReservationID string `json:"reservation_id"`
	Released      bool   `json:"released"`
	Message       string `json:"message"`
}

// ValidationError represents validation errors with detailed field information
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ProblemDetails is an RFC 7807 style error body
type ProblemDetails struct {
	Type   string      `json:"type"`
	Title  string      `json:"title"`
	Status int         `json:"status"`
	Detail string      `json:"detail,omitempty"`
	Field  string      `json:"field,omitempty"`
	Code   string      `json:"code,omitempty"`
	Errors interface{} `json:"errors,omitempty"`
}

// NewProblemDetails creates a generic problem response
func NewProblemDetails(status int, title, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemType(status),
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// NewValidationProblem creates a single-field validation error problem
func NewValidationProblem(field, message string, code ErrorCode) *ProblemDetails {
	return &ProblemDetails{
		Type:   ProblemTypeValidationError,
		Title:  "Validation Failed",
		Status: 400,
		Detail: message,
		Field:  field,
		Code:   string(code),
	}
}

// NewMultiValidationProblem creates a multi-field validation error problem
func NewMultiValidationProblem(violations []ValidationError) *ProblemDetails {
	return &ProblemDetails{
		Type:   ProblemTypeValidationError,
		Title:  "Validation Failed",
		Status: 400,
		Detail: "Multiple validation errors occurred",
		Errors: violations,
	}
}

// NewBusinessLogicProblem creates a business logic error problem
func NewBusinessLogicProblem(status int, title, detail string, code ErrorCode) *ProblemDetails {
	return &ProblemDetails{
		Type:   ProblemTypeBusinessError,
		Title:  title,
		Status: status,
		Detail: detail,
		Code:   string(code),
	}
}

// NewNotFoundProblem creates a not found error problem
func NewNotFoundProblem(resource string) *ProblemDetails {
	return &ProblemDetails{
		Type:   ProblemTypeNotFound,
		Title:  "Resource Not Found",
		Status: 404,
		Detail: resource + " not found",
		Code:   string(ErrorCodeInventoryNotFound),
	}
}

func problemType(status int) string {
	switch {
	case status == 404:
		return ProblemTypeNotFound
	case status >= 400 && status < 500:
		return ProblemTypeValidationError
	case status == 503:
		return ProblemTypeUnavailable
	default:
		return ProblemTypeInternalError
	}
}
