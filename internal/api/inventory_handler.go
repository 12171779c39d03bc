package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inventory-ledger/internal/interfaces"
	"inventory-ledger/internal/models"
)

// InventoryHandler handles HTTP requests for ledger and monitoring operations
type InventoryHandler struct {
	service           interfaces.InventoryService
	monitor           interfaces.RestockMonitor
	lowStockThreshold int
}

// NewInventoryHandler creates a new inventory API handler
func NewInventoryHandler(service interfaces.InventoryService, monitor interfaces.RestockMonitor, lowStockThreshold int) *InventoryHandler {
	return &InventoryHandler{
		service:           service,
		monitor:           monitor,
		lowStockThreshold: lowStockThreshold,
	}
}

// listInventory handles GET /inventory
func (h *InventoryHandler) listInventory(c *gin.Context) {
	items, err := h.service.ListInventory(c.Request.Context())
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, items)
}

// getInventory handles GET /inventory/:productId
func (h *InventoryHandler) getInventory(c *gin.Context) {
	productID := c.Param("productId")
	if productID == "" {
		Response.ValidationError(c, "product_id", "Product ID is required")
		return
	}

	item, err := h.service.GetInventory(c.Request.Context(), productID)
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, item)
}

// checkAvailability handles POST /inventory/check-availability
func (h *InventoryHandler) checkAvailability(c *gin.Context) {
	var req models.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Response.BindingError(c, err)
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), req.Items)
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, gin.H{"availability": availability})
}

// updateInventory handles PUT /inventory/:productId
func (h *InventoryHandler) updateInventory(c *gin.Context) {
	productID := c.Param("productId")
	if productID == "" {
		Response.ValidationError(c, "product_id", "Product ID is required")
		return
	}

	var req models.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Response.BindingError(c, err)
		return
	}

	item, err := h.service.UpdateInventory(c.Request.Context(), productID, req.QuantityChange, req.OperationType, req.Reason)
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, item)
}

// reserveInventory handles POST /inventory/reserve
func (h *InventoryHandler) reserveInventory(c *gin.Context) {
	var req models.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Response.BindingError(c, err)
		return
	}

	reserved, err := h.service.ReserveInventory(c.Request.Context(), req.Items, req.ReservationID)
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	if !reserved {
		Response.BusinessError(c, 409, "Insufficient Stock",
			"One or more items lack available stock; nothing was reserved",
			models.ErrorCodeInsufficientStock)
		return
	}

	Response.Success(c, models.ReserveResponse{
		ReservationID: req.ReservationID,
		Reserved:      true,
		Message:       "Reservation created successfully",
	})
}

// releaseInventory handles POST /inventory/release
func (h *InventoryHandler) releaseInventory(c *gin.Context) {
	var req models.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Response.BindingError(c, err)
		return
	}

	released, err := h.service.ReleaseInventory(c.Request.Context(), req.ReservationID)
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, models.ReleaseResponse{
		ReservationID: req.ReservationID,
		Released:      released,
		Message:       "Reservation released successfully",
	})
}

// getReservation handles GET /inventory/reservation/:reservationId
func (h *InventoryHandler) getReservation(c *gin.Context) {
	reservationID := c.Param("reservationId")
	if reservationID == "" {
		Response.ValidationError(c, "reservation_id", "Reservation ID is required")
		return
	}

	reservation, err := h.service.GetReservation(c.Request.Context(), reservationID)
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, reservation)
}

// listByWarehouse handles GET /inventory/warehouse/:location
func (h *InventoryHandler) listByWarehouse(c *gin.Context) {
	location := c.Param("location")
	if location == "" {
		Response.ValidationError(c, "location", "Warehouse location is required")
		return
	}

	items, err := h.service.ListByWarehouse(c.Request.Context(), location)
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, items)
}

// listLowStock handles GET /inventory/low-stock
func (h *InventoryHandler) listLowStock(c *gin.Context) {
	threshold := h.lowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			Response.ValidationError(c, "threshold", "Threshold must be a positive integer")
			return
		}
		threshold = parsed
	}

	items, err := h.service.ListLowStock(c.Request.Context(), threshold)
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, gin.H{"threshold": threshold, "items": items})
}

// triggerRestockCheck handles POST /monitoring/check
func (h *InventoryHandler) triggerRestockCheck(c *gin.Context) {
	restocked, err := h.monitor.TriggerCheck(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Manual restock check failed")
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, gin.H{"restocked_count": restocked})
}

// monitoringStats handles GET /monitoring/stats
func (h *InventoryHandler) monitoringStats(c *gin.Context) {
	stats, err := h.monitor.Stats(c.Request.Context())
	if err != nil {
		Response.OperationError(c, err)
		return
	}

	Response.Success(c, stats)
}
