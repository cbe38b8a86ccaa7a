package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"emotion-insight/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// Si jwtSvc es nil las rutas quedan abiertas (modo desarrollo).
// pingStore chequea el almacén de eventos para /health; nil lo omite.
func NewRouter(
	logger *zap.Logger,
	emotionH *EmotionHandler,
	forecastH *ForecastHandler,
	analyticsH *AnalyticsHandler,
	jwtSvc *service.JWTService,
	ingestLimiter service.IngestRateLimiter,
	pingStore func(context.Context) error,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", healthHandler(logger, pingStore))
	r.GET("/cultures", emotionH.ListCultures)

	api := r.Group("/")
	if jwtSvc != nil {
		api.Use(ClientAuthMiddleware(jwtSvc))
	}
	api.POST("/observe", IngestRateLimitMiddleware(ingestLimiter), emotionH.Observe)
	api.GET("/forecast", forecastH.GetForecast)

	analytics := api.Group("/analytics")
	analytics.GET("/summary", analyticsH.GetSummary)
	analytics.GET("/trends", analyticsH.GetTrends)
	analytics.POST("/similar", analyticsH.FindSimilar)

	return r
}

// healthHandler responde ok si el almacén de eventos contesta el ping.
// Sin chequeo configurado reporta ok igual (útil en tests y modo desarrollo).
func healthHandler(logger *zap.Logger, pingStore func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pingStore != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pingStore(ctx); err != nil {
				logger.Warn("event store ping failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "event store unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
