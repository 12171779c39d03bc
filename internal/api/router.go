package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the HTTP router for the service
func SetupRoutes(inventory *InventoryHandler, chaos *ChaosHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())

	r.GET("/health", healthCheck)

	api := r.Group("/api/v1")
	{
		api.GET("/inventory", inventory.listInventory)
		api.GET("/inventory/low-stock", inventory.listLowStock)
		api.GET("/inventory/reservation/:reservationId", inventory.getReservation)
		api.GET("/inventory/warehouse/:location", inventory.listByWarehouse)
		api.GET("/inventory/:productId", inventory.getInventory)
		api.PUT("/inventory/:productId", inventory.updateInventory)
		api.POST("/inventory/check-availability", inventory.checkAvailability)
		api.POST("/inventory/reserve", inventory.reserveInventory)
		api.POST("/inventory/release", inventory.releaseInventory)

		api.POST("/monitoring/check", inventory.triggerRestockCheck)
		api.GET("/monitoring/stats", inventory.monitoringStats)

		api.GET("/chaos/status", chaos.status)
		api.POST("/chaos/inject/:operation", chaos.inject)
		api.POST("/chaos/cleanup-memory", chaos.cleanupMemory)
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "inventory-ledger",
	})
}
