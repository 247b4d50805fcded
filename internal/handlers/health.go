package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SnapshotProbe reports whether the in-memory snapshots have been loaded
type SnapshotProbe interface {
	Loaded() bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	probe SnapshotProbe
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(probe SnapshotProbe) *HealthHandler {
	return &HealthHandler{probe: probe}
}

// Health handles the health check endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "sku-resolution-service",
	})
}

// Ready handles the readiness check endpoint. The service is not ready
// until the first snapshot load: resolving against an empty catalog would
// misclassify all volume as unmapped.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.probe != nil && !h.probe.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "loading",
			"service": "sku-resolution-service",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "sku-resolution-service",
	})
}
