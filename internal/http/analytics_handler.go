package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"emotion-insight/internal/domain"
	"emotion-insight/internal/service"
)

// AnalyticsHandler expone resúmenes históricos y búsqueda de momentos similares.
type AnalyticsHandler struct {
	logger    *zap.Logger
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(logger *zap.Logger, analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{logger: logger, analytics: analytics}
}

// GetSummary maneja GET /analytics/summary.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	rows, err := h.analytics.EmotionSummary(c.Request.Context(), c.QueryArray("source"))
	if err != nil {
		h.logger.Error("emotion summary failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": rows})
}

// GetTrends maneja GET /analytics/trends.
func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	rows, err := h.analytics.DailyTrends(c.Request.Context(), c.QueryArray("source"))
	if err != nil {
		h.logger.Error("daily trends failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": rows})
}

// FindSimilar maneja POST /analytics/similar.
func (h *AnalyticsHandler) FindSimilar(c *gin.Context) {
	var req struct {
		Distribution domain.Distribution `json:"distribution" binding:"required"`
		Limit        int                 `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid similar request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	moments, err := h.analytics.SimilarMoments(c.Request.Context(), req.Distribution, req.Limit)
	if err != nil {
		if errors.Is(err, service.ErrNoCanonicalSignal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "distribution has no canonical emotion components"})
			return
		}
		h.logger.Error("similar moments failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"moments": moments})
}
