package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"emotion-insight/internal/service"
)

// ForecastHandler expone el pronóstico emocional.
type ForecastHandler struct {
	logger   *zap.Logger
	forecast *service.ForecastService
	cache    service.ForecastCache
	cacheTTL time.Duration
}

func NewForecastHandler(logger *zap.Logger, forecast *service.ForecastService, cache service.ForecastCache, cacheTTL time.Duration) *ForecastHandler {
	return &ForecastHandler{
		logger:   logger,
		forecast: forecast,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// GetForecast maneja GET /forecast. Un fallo del almacén responde 503 para que
// el caller lo distinga de una historia genuinamente vacía (200 con lista vacía).
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	if h.cache != nil {
		if cached, ok := h.cache.Get(c.Request.Context()); ok {
			c.JSON(http.StatusOK, gin.H{"forecasts": cached, "cached": true})
			return
		}
	}

	forecasts, err := h.forecast.GenerateForecast(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("generate forecast failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "forecast temporarily unavailable"})
		return
	}

	if h.cache != nil && len(forecasts) > 0 {
		h.cache.Set(c.Request.Context(), forecasts, h.cacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": forecasts, "cached": false})
}
