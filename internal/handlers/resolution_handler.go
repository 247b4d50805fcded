package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"sku-resolution-service/internal/middleware"
	"sku-resolution-service/internal/models"
)

// ResolverInterface is the resolution surface the handler depends on
type ResolverInterface interface {
	Resolve(rawSku, productName, source string) models.ResolutionResult
	PrimarioOf(sku string) string
	ConversionFactor(sku string) int
	SnapshotStatus() models.SnapshotStatus
}

// ConverterInterface is the unit conversion surface the handler depends on
type ConverterInterface interface {
	Convert(result models.ResolutionResult, quantity int) int
}

// RefresherInterface triggers an immediate snapshot reload
type RefresherInterface interface {
	RefreshNow(ctx context.Context) error
}

// ResolutionHandler exposes the resolver at its interface. It contains no
// resolution logic of its own.
type ResolutionHandler struct {
	resolver  ResolverInterface
	converter ConverterInterface
	refresher RefresherInterface

	// Throttles the manual refresh endpoint so a misbehaving dashboard
	// cannot stampede the backing store.
	refreshLimiter *rate.Limiter

	batchMaxLines int
	logger        *logrus.Entry
}

// NewResolutionHandler creates a new resolution handler
func NewResolutionHandler(
	resolver ResolverInterface,
	converter ConverterInterface,
	refresher RefresherInterface,
	refreshLimiter *rate.Limiter,
	batchMaxLines int,
	logger *logrus.Logger,
) *ResolutionHandler {
	return &ResolutionHandler{
		resolver:       resolver,
		converter:      converter,
		refresher:      refresher,
		refreshLimiter: refreshLimiter,
		batchMaxLines:  batchMaxLines,
		logger:         logger.WithField("component", "resolution-handler"),
	}
}

// Resolve handles POST /resolutions/resolve
func (h *ResolutionHandler) Resolve(c *gin.Context) {
	var req models.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	result := h.resolver.Resolve(req.SKU, req.ProductName, req.Source)
	h.logger.WithFields(logrus.Fields{
		"requestId":   middleware.GetRequestID(c),
		"rawSku":      req.SKU,
		"source":      req.Source,
		"resolvedSku": result.ResolvedSKU,
		"matchType":   string(result.MatchType),
		"confidence":  result.Confidence,
	}).Info("SKU resolved")
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: result})
}

// ResolveBatch handles POST /resolutions/resolve/batch. It fans out over
// the resolver and converter for each order line; unmapped lines keep their
// quantity 1:1 so aggregate volume is never dropped.
func (h *ResolutionHandler) ResolveBatch(c *gin.Context) {
	var req models.BatchResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if len(req.Lines) > h.batchMaxLines {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error: "batch exceeds the configured line limit",
		})
		return
	}

	resp := models.BatchResolveResponse{
		Success:    true,
		TotalLines: len(req.Lines),
		Results:    make([]models.ResolvedLine, 0, len(req.Lines)),
	}
	for _, line := range req.Lines {
		result := h.resolver.Resolve(line.SKU, line.ProductName, line.Source)
		if result.Resolved() {
			resp.MappedLines++
		} else {
			resp.UnmappedLines++
		}
		resp.Results = append(resp.Results, models.ResolvedLine{
			Line:       line,
			Result:     result,
			TotalUnits: h.converter.Convert(result, line.Quantity),
		})
	}

	h.logger.WithFields(logrus.Fields{
		"requestId":     middleware.GetRequestID(c),
		"totalLines":    resp.TotalLines,
		"mappedLines":   resp.MappedLines,
		"unmappedLines": resp.UnmappedLines,
	}).Info("Batch resolved")
	c.JSON(http.StatusOK, resp)
}

// Convert handles POST /resolutions/convert
func (h *ResolutionHandler) Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	totalUnits := h.converter.Convert(req.Result, req.Quantity)
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    gin.H{"totalUnits": totalUnits},
	})
}

// Primario handles GET /resolutions/primario/:sku
func (h *ResolutionHandler) Primario(c *gin.Context) {
	sku := c.Param("sku")
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"sku":              sku,
			"skuPrimario":      h.resolver.PrimarioOf(sku),
			"conversionFactor": h.resolver.ConversionFactor(sku),
		},
	})
}

// CacheStatus handles GET /resolutions/cache
func (h *ResolutionHandler) CacheStatus(c *gin.Context) {
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    h.resolver.SnapshotStatus(),
	})
}

// RefreshCache handles POST /resolutions/cache/refresh
func (h *ResolutionHandler) RefreshCache(c *gin.Context) {
	if !h.refreshLimiter.Allow() {
		c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
			Error: "refresh rate limit exceeded",
		})
		return
	}

	if err := h.refresher.RefreshNow(c.Request.Context()); err != nil {
		// The previous snapshot stays in effect; report the failure.
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: "snapshot refresh failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    h.resolver.SnapshotStatus(),
	})
}
