package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inventory-ledger/internal/interfaces"
)

// ChaosHandler handles HTTP requests for the fault-injection harness
type ChaosHandler struct {
	chaos interfaces.ChaosInjector
}

// NewChaosHandler creates a new chaos API handler
func NewChaosHandler(chaos interfaces.ChaosInjector) *ChaosHandler {
	return &ChaosHandler{chaos: chaos}
}

// status handles GET /chaos/status
func (h *ChaosHandler) status(c *gin.Context) {
	Response.Success(c, h.chaos.Status(c.Request.Context()))
}

// inject handles POST /chaos/inject/:operation. The injection sequence
// runs in-line; a raised fault is reported in the body rather than as an
// HTTP error, since triggering it is the point.
func (h *ChaosHandler) inject(c *gin.Context) {
	operation := c.Param("operation")
	if operation == "" {
		Response.ValidationError(c, "operation", "Operation name is required")
		return
	}

	log.Info().Str("operation", operation).Msg("Manual chaos injection triggered")

	start := time.Now()
	err := h.chaos.InjectChaos(c.Request.Context(), operation)
	duration := time.Since(start)

	if err != nil {
		Response.Success(c, gin.H{
			"success":     false,
			"operation":   operation,
			"duration_ms": duration.Milliseconds(),
			"error":       err.Error(),
		})
		return
	}

	Response.Success(c, gin.H{
		"success":     true,
		"operation":   operation,
		"duration_ms": duration.Milliseconds(),
		"message":     "Chaos injection completed",
	})
}

// cleanupMemory handles POST /chaos/cleanup-memory
func (h *ChaosHandler) cleanupMemory(c *gin.Context) {
	released := h.chaos.Cleanup()
	Response.Success(c, gin.H{"released_mb": released})
}
