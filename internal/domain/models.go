package domain

import (
	"time"
)

// Distribution mapea etiqueta de emoción → peso no negativo.
// Las etiquetas se manejan siempre en minúsculas.
type Distribution map[string]float64

// Clone devuelve una copia independiente de la distribución.
func (d Distribution) Clone() Distribution {
	if d == nil {
		return nil
	}
	out := make(Distribution, len(d))
	for label, value := range d {
		out[label] = value
	}
	return out
}

// ModalityObservation es la predicción de un canal de entrada (face, voice, text).
// La produce un colaborador de inferencia externo por cada captura.
type ModalityObservation struct {
	Source        string       `json:"source"`
	Confidence    float64      `json:"confidence"` // 0-100
	Probabilities Distribution `json:"probabilities"`
}

// EmotionEvent es un evento persistido tras la fusión. El núcleo solo lo lee;
// el orden de lectura es descendente por timestamp.
type EmotionEvent struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Source     string        `json:"source"`
	Emotion    string        `json:"emotion"`
	Confidence float64       `json:"confidence"` // 0-100
	Details    *EventDetails `json:"details,omitempty"`
}

// EventDetails guarda metadata estructurada opcional del evento.
type EventDetails struct {
	Distribution Distribution `json:"distribution,omitempty"`
	Culture      string       `json:"culture,omitempty"`
	Note         string       `json:"note,omitempty"`
}

// FusionResult es la salida del motor de fusión multimodal.
type FusionResult struct {
	Dominant     string       `json:"dominant_emotion"`
	Confidence   float64      `json:"confidence"`
	Distribution Distribution `json:"distribution"` // porcentajes 0-100
}

// HasDominant indica si la fusión produjo una emoción dominante.
func (r FusionResult) HasDominant() bool {
	return r.Dominant != ""
}

// SecondaryEmotion es la segunda emoción más probable de un pronóstico.
type SecondaryEmotion struct {
	Emotion string  `json:"emotion"`
	Share   float64 `json:"share"` // fracción 0-1 del mapa combinado
}

// ForecastInsight es el pronóstico de un slot temporal. Se construye fresco
// en cada llamada y nunca se persiste.
type ForecastInsight struct {
	Label      string            `json:"label"`
	Timestamp  time.Time         `json:"timestamp"`
	Emotion    string            `json:"emotion"`
	Confidence float64           `json:"confidence"` // 0-100, clamped
	AlertLevel AlertLevel        `json:"alert_level"`
	Message    string            `json:"message"`
	Insights   []string          `json:"insights"`
	Secondary  *SecondaryEmotion `json:"secondary,omitempty"`
}

// AlertLevel es la severidad gruesa asociada a una emoción pronosticada.
type AlertLevel string

const (
	AlertPositive AlertLevel = "positive"
	AlertInfo     AlertLevel = "info"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// EmotionSummaryRow agrega conteo y porcentaje por emoción sobre la historia.
type EmotionSummaryRow struct {
	Emotion    string  `json:"emotion"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DailyTrendRow es la confianza media de una emoción en una fecha.
type DailyTrendRow struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	Emotion       string  `json:"emotion"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// SimilarMoment es un evento histórico cercano a una distribución consultada.
type SimilarMoment struct {
	Event    EmotionEvent `json:"event"`
	Distance float64      `json:"distance"`
}

// CanonicalEmotions define los ejes fijos sobre los que se proyecta una
// distribución para búsquedas de similitud. El orden es parte del contrato
// del esquema (dimensión del vector persistido).
var CanonicalEmotions = []string{"happy", "sad", "angry", "fear", "surprise", "neutral", "disgust"}

// Project proyecta la distribución sobre los ejes canónicos. Las etiquetas
// fuera de los ejes se ignoran; las ausentes quedan en 0.
func (d Distribution) Project() []float32 {
	projected := make([]float32, len(CanonicalEmotions))
	for i, axis := range CanonicalEmotions {
		projected[i] = float32(d[axis])
	}
	return projected
}
