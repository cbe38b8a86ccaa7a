package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"emotion-insight/internal/domain"
	"emotion-insight/internal/repository"
)

// ErrNoCanonicalSignal indica que la distribución consultada no proyecta
// ningún componente sobre los ejes canónicos.
var ErrNoCanonicalSignal = errors.New("distribution has no canonical emotion components")

// AnalyticsService resume la historia de eventos y busca momentos similares.
type AnalyticsService struct {
	events       repository.EmotionEventRepository
	logger       *zap.Logger
	historyLimit int
}

func NewAnalyticsService(events repository.EmotionEventRepository, logger *zap.Logger, historyLimit int) *AnalyticsService {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &AnalyticsService{
		events:       events,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// EmotionSummary cuenta eventos por emoción y calcula el porcentaje de cada una.
// Se ordena por conteo descendente; a igual conteo, alfabético.
func (s *AnalyticsService) EmotionSummary(ctx context.Context, sources []string) ([]domain.EmotionSummaryRow, error) {
	history, err := s.events.FetchRecent(ctx, s.historyLimit, sources)
	if err != nil {
		return nil, fmt.Errorf("fetch emotion events: %w", err)
	}

	counts := make(map[string]int)
	total := 0
	for _, event := range history {
		emotion := strings.ToLower(strings.TrimSpace(event.Emotion))
		if emotion == "" {
			continue
		}
		counts[emotion]++
		total++
	}
	if total == 0 {
		return []domain.EmotionSummaryRow{}, nil
	}

	rows := make([]domain.EmotionSummaryRow, 0, len(counts))
	for emotion, count := range counts {
		rows = append(rows, domain.EmotionSummaryRow{
			Emotion:    emotion,
			Count:      count,
			Percentage: roundOneDecimal(float64(count) / float64(total) * 100),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Emotion < rows[j].Emotion
	})
	return rows, nil
}

// DailyTrends devuelve la confianza media por día y emoción, ordenada por fecha.
func (s *AnalyticsService) DailyTrends(ctx context.Context, sources []string) ([]domain.DailyTrendRow, error) {
	history, err := s.events.FetchRecent(ctx, s.historyLimit, sources)
	if err != nil {
		return nil, fmt.Errorf("fetch emotion events: %w", err)
	}

	type key struct {
		date    string
		emotion string
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, event := range history {
		emotion := strings.ToLower(strings.TrimSpace(event.Emotion))
		if emotion == "" || event.Timestamp.IsZero() {
			continue
		}
		k := key{date: event.Timestamp.Format("2006-01-02"), emotion: emotion}
		sums[k] += event.Confidence
		counts[k]++
	}

	rows := make([]domain.DailyTrendRow, 0, len(sums))
	for k, sum := range sums {
		rows = append(rows, domain.DailyTrendRow{
			Date:          k.date,
			Emotion:       k.emotion,
			AvgConfidence: roundOneDecimal(sum / float64(counts[k])),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Emotion < rows[j].Emotion
	})
	return rows, nil
}

// SimilarMoments proyecta la distribución sobre los ejes canónicos y busca los
// k eventos históricos más cercanos por distancia coseno.
func (s *AnalyticsService) SimilarMoments(ctx context.Context, distribution domain.Distribution, k int) ([]domain.SimilarMoment, error) {
	lowered := make(domain.Distribution, len(distribution))
	for label, value := range distribution {
		lowered[strings.ToLower(label)] = value
	}

	projected := lowered.Project()
	hasSignal := false
	for _, component := range projected {
		if component > 0 {
			hasSignal = true
			break
		}
	}
	if !hasSignal {
		return nil, ErrNoCanonicalSignal
	}

	moments, err := s.events.FindSimilar(ctx, pgvector.NewVector(projected), k)
	if err != nil {
		s.logger.Warn("similar moments lookup failed", zap.Error(err))
		return nil, fmt.Errorf("find similar events: %w", err)
	}
	return moments, nil
}
