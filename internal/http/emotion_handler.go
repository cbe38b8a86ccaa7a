package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"emotion-insight/internal/domain"
	"emotion-insight/internal/service"
)

// EmotionHandler expone el flujo de observación multimodal.
type EmotionHandler struct {
	logger  *zap.Logger
	emotion *service.EmotionService
}

func NewEmotionHandler(logger *zap.Logger, emotion *service.EmotionService) *EmotionHandler {
	return &EmotionHandler{logger: logger, emotion: emotion}
}

type observationPayload struct {
	Source        string              `json:"source" binding:"required"`
	Confidence    float64             `json:"confidence"`
	Probabilities domain.Distribution `json:"probabilities"`
}

// Observe maneja POST /observe: ajusta culturalmente, fusiona y persiste.
func (h *EmotionHandler) Observe(c *gin.Context) {
	var req struct {
		Culture      string               `json:"culture"`
		Observations []observationPayload `json:"observations" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid observe request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	culture := domain.ParseCulture(req.Culture)
	observations := make([]domain.ModalityObservation, 0, len(req.Observations))
	for _, obs := range req.Observations {
		if obs.Confidence < 0 || obs.Confidence > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "confidence must be between 0 and 100"})
			return
		}
		observations = append(observations, domain.ModalityObservation{
			Source:        obs.Source,
			Confidence:    obs.Confidence,
			Probabilities: obs.Probabilities,
		})
	}

	result, event, err := h.emotion.ProcessObservations(c.Request.Context(), observations, culture)
	if err != nil {
		h.logger.Error("process observations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process observations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"culture": culture,
		"fusion":  result,
		"event":   event,
	})
}

// ListCultures maneja GET /cultures.
func (h *EmotionHandler) ListCultures(c *gin.Context) {
	cultures := make([]gin.H, 0)
	for _, code := range domain.SupportedCultures() {
		cultures = append(cultures, gin.H{
			"code":         code,
			"display_name": code.DisplayName(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"cultures": cultures})
}
