package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"emotion-insight/internal/domain"
	"emotion-insight/internal/repository"
)

// ForecastSlot es una ventana futura con etiqueta y offset en horas.
type ForecastSlot struct {
	Label       string
	OffsetHours int
}

// DefaultForecastSlots son las tres ventanas de la configuración de referencia.
// Las reglas de resolución de etiquetas están atadas a estas tres.
var DefaultForecastSlots = []ForecastSlot{
	{Label: "Later today", OffsetHours: 6},
	{Label: "Tomorrow", OffsetHours: 24},
	{Label: "Upcoming few days", OffsetHours: 72},
}

const (
	recencyWindowHours   = 36.0
	recencyHalflifeHours = 12.0
	defaultHistoryLimit  = 720

	recencyCombineWeight = 0.6
	patternCombineWeight = 0.4
)

// ForecastService proyecta estados emocionales próximos a partir del historial.
// Lee snapshots del almacén de eventos; no retiene estado mutable entre llamadas.
type ForecastService struct {
	events       repository.EmotionEventRepository
	logger       *zap.Logger
	slots        []ForecastSlot
	historyLimit int
}

func NewForecastService(events repository.EmotionEventRepository, logger *zap.Logger, historyLimit int) *ForecastService {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ForecastService{
		events:       events,
		logger:       logger,
		slots:        DefaultForecastSlots,
		historyLimit: historyLimit,
	}
}

// preparedEvent es un evento histórico ya validado y enriquecido con los
// campos temporales que usan las distribuciones.
type preparedEvent struct {
	emotion    string
	confidence float64
	hoursAgo   float64
	weekday    time.Weekday
	hourBlock  int
}

// GenerateForecast produce un ForecastInsight por slot, en orden de slot.
// Historia vacía → lista vacía. Un fallo del almacén se propaga tal cual:
// el caller debe poder distinguir "sin datos" de "datos inaccesibles".
func (s *ForecastService) GenerateForecast(ctx context.Context, now time.Time) ([]domain.ForecastInsight, error) {
	history, err := s.events.FetchRecent(ctx, s.historyLimit, nil)
	if err != nil {
		s.logger.Warn("fetch emotion events failed", zap.Error(err))
		return nil, fmt.Errorf("fetch emotion events: %w", err)
	}
	if len(history) == 0 {
		return []domain.ForecastInsight{}, nil
	}

	prepared := prepareEvents(history, now)
	if len(prepared) == 0 {
		return []domain.ForecastInsight{}, nil
	}

	recency := recentDistribution(prepared)

	forecasts := make([]domain.ForecastInsight, 0, len(s.slots))
	previousEmotion := ""

	for _, slot := range s.slots {
		target := now.Add(time.Duration(slot.OffsetHours) * time.Hour)
		pattern := patternDistribution(prepared, target)
		combined := combineDistributions(recency, pattern)
		if len(combined) == 0 {
			combined = overallDistribution(prepared)
		}
		if len(combined) == 0 {
			continue
		}

		ranked := rankDistribution(combined)
		top := ranked[0]
		var secondary *domain.SecondaryEmotion
		if len(ranked) > 1 {
			secondary = &domain.SecondaryEmotion{Emotion: ranked[1].label, Share: ranked[1].score}
		}

		confidence := roundOneDecimal(math.Min(top.score*100, 100))
		level, message := alertProfile(top.label)

		insights := buildInsights(target, top.label, recency, pattern, combined, secondary)
		if previousEmotion != "" && previousEmotion != top.label {
			insights = append(insights, fmt.Sprintf(
				"Shift from %s trend to %s outlook; prepare for the change.",
				titleCase(previousEmotion), titleCase(top.label),
			))
		}
		previousEmotion = top.label

		forecasts = append(forecasts, domain.ForecastInsight{
			Label:      resolveSlotLabel(slot, target, now),
			Timestamp:  target,
			Emotion:    top.label,
			Confidence: confidence,
			AlertLevel: level,
			Message:    message,
			Insights:   insights,
			Secondary:  secondary,
		})
	}

	return forecasts, nil
}

// prepareEvents descarta eventos sin timestamp o sin emoción y calcula los
// campos derivados. Los registros malformados se tiran, nunca escalan.
func prepareEvents(history []domain.EmotionEvent, now time.Time) []preparedEvent {
	prepared := make([]preparedEvent, 0, len(history))
	for _, event := range history {
		if event.Timestamp.IsZero() {
			continue
		}
		emotion := strings.ToLower(strings.TrimSpace(event.Emotion))
		if emotion == "" {
			continue
		}
		prepared = append(prepared, preparedEvent{
			emotion:    emotion,
			confidence: event.Confidence,
			hoursAgo:   now.Sub(event.Timestamp).Hours(),
			weekday:    event.Timestamp.Weekday(),
			hourBlock:  (event.Timestamp.Hour() / 6) * 6,
		})
	}
	return prepared
}

// recentDistribution pondera los eventos dentro de la ventana de recencia con
// decaimiento exponencial (vida media recencyHalflifeHours).
func recentDistribution(events []preparedEvent) domain.Distribution {
	scores := make(domain.Distribution)
	for _, event := range events {
		if event.hoursAgo > recencyWindowHours {
			continue
		}
		scores[event.emotion] += math.Exp(-event.hoursAgo / recencyHalflifeHours)
	}
	return normalizeScores(scores)
}

// patternDistribution busca eventos del mismo día de semana y bloque horario
// del target; relaja a solo bloque y después a toda la historia si queda vacío.
// Dentro del subconjunto elegido promedia la confianza por emoción.
func patternDistribution(events []preparedEvent, target time.Time) domain.Distribution {
	weekday := target.Weekday()
	block := (target.Hour() / 6) * 6

	subset := filterEvents(events, func(e preparedEvent) bool {
		return e.weekday == weekday && e.hourBlock == block
	})
	if len(subset) == 0 {
		subset = filterEvents(events, func(e preparedEvent) bool {
			return e.hourBlock == block
		})
	}
	if len(subset) == 0 {
		subset = events
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, event := range subset {
		sums[event.emotion] += event.confidence
		counts[event.emotion]++
	}
	scores := make(domain.Distribution, len(sums))
	for emotion, sum := range sums {
		scores[emotion] = sum / float64(counts[emotion])
	}
	return normalizeScores(scores)
}

// overallDistribution es el fallback final: frecuencia de cada emoción sobre
// toda la historia retenida.
func overallDistribution(events []preparedEvent) domain.Distribution {
	counts := make(domain.Distribution)
	for _, event := range events {
		counts[event.emotion]++
	}
	return normalizeScores(counts)
}

// combineDistributions mezcla recencia y patrón (0.6/0.4, ausentes en 0) y
// renormaliza. Ambos mapas vacíos → vacío.
func combineDistributions(recent, pattern domain.Distribution) domain.Distribution {
	emotions := make(map[string]struct{}, len(recent)+len(pattern))
	for emotion := range recent {
		emotions[emotion] = struct{}{}
	}
	for emotion := range pattern {
		emotions[emotion] = struct{}{}
	}
	if len(emotions) == 0 {
		return domain.Distribution{}
	}
	combined := make(domain.Distribution, len(emotions))
	for emotion := range emotions {
		combined[emotion] = recencyCombineWeight*recent[emotion] + patternCombineWeight*pattern[emotion]
	}
	return normalizeScores(combined)
}

// normalizeScores descarta entradas no positivas y normaliza a fracciones.
// A diferencia de NormalizeProbabilities, un total no positivo produce un mapa
// vacío: acá "vacío" es la señal para encadenar el siguiente fallback.
func normalizeScores(scores domain.Distribution) domain.Distribution {
	filtered := make(domain.Distribution)
	total := 0.0
	for emotion, value := range scores {
		if value > 0 {
			filtered[emotion] = value
			total += value
		}
	}
	if total <= 0 {
		return domain.Distribution{}
	}
	for emotion, value := range filtered {
		filtered[emotion] = value / total
	}
	return filtered
}

type rankedEmotion struct {
	label string
	score float64
}

// rankDistribution ordena descendente por puntaje; a igual puntaje gana la
// etiqueta menor en orden lexicográfico (desempate determinista).
func rankDistribution(distribution domain.Distribution) []rankedEmotion {
	ranked := make([]rankedEmotion, 0, len(distribution))
	for label, score := range distribution {
		ranked = append(ranked, rankedEmotion{label: label, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].label < ranked[j].label
	})
	return ranked
}

func filterEvents(events []preparedEvent, keep func(preparedEvent) bool) []preparedEvent {
	var subset []preparedEvent
	for _, event := range events {
		if keep(event) {
			subset = append(subset, event)
		}
	}
	return subset
}

// buildInsights arma al menos tres oraciones: aporte de recencia, aporte del
// patrón semanal/horario y probabilidad combinada. Si hay una emoción
// secundaria a menos de 12 puntos porcentuales agrega la advertencia.
func buildInsights(
	slotTime time.Time,
	emotion string,
	recency, pattern, combined domain.Distribution,
	secondary *domain.SecondaryEmotion,
) []string {
	recencyShare := recency[emotion] * 100
	patternShare := pattern[emotion] * 100
	combinedShare := combined[emotion] * 100

	insights := []string{
		fmt.Sprintf("Recent %s signals account for %.0f%% of the forecast strength.", titleCase(emotion), recencyShare),
		fmt.Sprintf("Typical %s %s patterns add %.0f%% support.", slotTime.Weekday(), timeBucket(slotTime.Hour()), patternShare),
		fmt.Sprintf("Overall likelihood sits near %.0f%% based on available history.", combinedShare),
	}

	if secondary != nil {
		gap := combinedShare - secondary.Share*100
		if gap < 12 {
			insights = append(insights, fmt.Sprintf(
				"Watch for %s as a secondary possibility (within %.0f%% of the leader).",
				titleCase(secondary.Emotion), math.Abs(gap),
			))
		}
	}

	return insights
}

// alertProfile devuelve nivel y mensaje estáticos para la emoción dominante.
// Emociones fuera del catálogo degradan a "info" con un mensaje genérico.
func alertProfile(emotion string) (domain.AlertLevel, string) {
	switch strings.ToLower(emotion) {
	case "happy":
		return domain.AlertPositive, "Ride the upbeat energy: plan something celebratory or share the joy with someone."
	case "surprise":
		return domain.AlertInfo, "Stay flexible: surprises may pop up, so leave a little room in your schedule."
	case "neutral":
		return domain.AlertInfo, "A balanced window ahead: use it to maintain healthy routines and rest."
	case "sad":
		return domain.AlertWarning, "Line up supportive rituals: message a friend, prepare comforting music, or plan a walk."
	case "angry":
		return domain.AlertCritical, "Consider proactive stress relief: breathing breaks, journaling, or a quick workout."
	case "fear":
		return domain.AlertWarning, "Note possible anxiety triggers: schedule grounding moments and reduce unnecessary commitments."
	}
	return domain.AlertInfo, "Keep mindful of upcoming moments and check in with yourself ahead of time."
}

// timeBucket traduce la hora a una franja legible para los insights.
func timeBucket(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	}
	return "night"
}

// resolveSlotLabel ajusta la etiqueta mostrada de cada slot por defecto.
// Un slot fuera de la configuración de referencia conserva su etiqueta cruda.
func resolveSlotLabel(slot ForecastSlot, target, now time.Time) string {
	switch slot.Label {
	case "Later today":
		if target.Year() != now.Year() || target.YearDay() != now.YearDay() {
			return fmt.Sprintf("Soon (%s)", target.Format("Monday 15:04"))
		}
		return slot.Label
	case "Tomorrow":
		return fmt.Sprintf("Tomorrow (%s)", target.Weekday())
	case "Upcoming few days":
		return fmt.Sprintf("%s outlook", target.Weekday())
	}
	return slot.Label
}

// titleCase capitaliza la primera letra (las etiquetas ya vienen en minúsculas ASCII).
func titleCase(label string) string {
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
