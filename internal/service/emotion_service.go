package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"emotion-insight/internal/domain"
	"emotion-insight/internal/repository"
)

// EmotionService orquesta el flujo observaciones → ajuste cultural → fusión
// → persistencia del evento resultante.
type EmotionService struct {
	events  repository.EmotionEventRepository
	culture CultureEngine
	fusion  FusionEngine
	weights map[string]float64
	logger  *zap.Logger
}

func NewEmotionService(
	events repository.EmotionEventRepository,
	culture CultureEngine,
	fusion FusionEngine,
	weights map[string]float64,
	logger *zap.Logger,
) *EmotionService {
	return &EmotionService{
		events:  events,
		culture: culture,
		fusion:  fusion,
		weights: weights,
		logger:  logger,
	}
}

// ProcessObservations ajusta cada modalidad al contexto cultural, fusiona y
// persiste el resultado como EmotionEvent. Si la fusión no produce dominante
// no se persiste nada y el evento devuelto es nil.
func (s *EmotionService) ProcessObservations(
	ctx context.Context,
	observations []domain.ModalityObservation,
	culture domain.Culture,
) (domain.FusionResult, *domain.EmotionEvent, error) {
	adjusted := make([]domain.ModalityObservation, 0, len(observations))
	for _, obs := range observations {
		modality, _ := domain.ParseModality(obs.Source)
		adjusted = append(adjusted, domain.ModalityObservation{
			Source:        obs.Source,
			Confidence:    obs.Confidence,
			Probabilities: s.culture.AdjustProbabilities(obs.Probabilities, culture, modality),
		})
	}

	result := s.fusion.Fuse(adjusted, s.weights)
	if !result.HasDominant() {
		return result, nil, nil
	}

	event := domain.EmotionEvent{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Source:     "fusion",
		Emotion:    result.Dominant,
		Confidence: result.Confidence,
		Details: &domain.EventDetails{
			Distribution: result.Distribution,
			Culture:      string(culture),
		},
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Warn("emotion event persist failed", zap.Error(err), zap.String("emotion", event.Emotion))
		return result, nil, fmt.Errorf("persist emotion event: %w", err)
	}

	return result, &event, nil
}
