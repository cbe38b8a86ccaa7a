package service

import (
	"strings"

	"emotion-insight/internal/domain"
)

// CultureEngine repondera distribuciones según el contexto cultural.
// Las tablas de multiplicadores son constantes inmutables por cultura y modalidad;
// las emociones no listadas usan multiplicador 1.0.
type CultureEngine struct{}

// DefaultCultureEngine permite uso directo sin instanciar.
var DefaultCultureEngine = CultureEngine{}

type modalityWeights map[domain.Modality]map[string]float64

var cultureWeights = map[domain.Culture]modalityWeights{
	domain.CultureGlobal: {},
	domain.CultureIndian: {
		domain.ModalityFace:  {"neutral": 0.9, "happy": 1.1, "sad": 1.05, "angry": 0.95},
		domain.ModalityVoice: {"neutral": 0.95, "happy": 1.05, "sad": 1.1, "angry": 0.9},
		domain.ModalityText:  {"neutral": 0.9, "happy": 1.05, "sad": 1.1},
	},
	domain.CultureJapanese: {
		domain.ModalityFace:  {"neutral": 1.15, "happy": 0.95, "sad": 1.05},
		domain.ModalityVoice: {"neutral": 1.1, "happy": 0.95, "sad": 1.05},
		domain.ModalityText:  {"neutral": 1.1, "happy": 0.95, "fear": 1.05},
	},
	domain.CultureAmerican: {
		domain.ModalityFace:  {"happy": 1.1, "surprise": 1.05, "neutral": 0.95},
		domain.ModalityVoice: {"happy": 1.1, "angry": 1.05, "neutral": 0.9},
		domain.ModalityText:  {"happy": 1.1, "surprise": 1.05, "fear": 0.95},
	},
}

// AdjustProbabilities pondera cada entrada positiva por el multiplicador
// cultural de la modalidad y renormaliza a porcentajes con un decimal.
//
// Si tras el filtrado de no positivos no queda nada ponderable, devuelve las
// entradas positivas originales en minúsculas SIN normalizar: es el modo
// degradado intencional, no un bug.
func (CultureEngine) AdjustProbabilities(probabilities domain.Distribution, culture domain.Culture, modality domain.Modality) domain.Distribution {
	if len(probabilities) == 0 {
		return domain.Distribution{}
	}

	weights := cultureWeights[culture][modality]

	weighted := make(domain.Distribution)
	for label, value := range probabilities {
		if value <= 0 {
			continue
		}
		lowered := strings.ToLower(label)
		multiplier, ok := weights[lowered]
		if !ok {
			multiplier = 1.0
		}
		weighted[lowered] = value * multiplier
	}

	if len(weighted) == 0 {
		fallback := make(domain.Distribution)
		for label, value := range probabilities {
			if value > 0 {
				fallback[strings.ToLower(label)] = value
			}
		}
		return fallback
	}

	total := 0.0
	for _, value := range weighted {
		total += value
	}
	if total <= 0 {
		for label := range weighted {
			weighted[label] = 0.0
		}
		return weighted
	}

	adjusted := make(domain.Distribution, len(weighted))
	for label, value := range weighted {
		adjusted[label] = roundOneDecimal((value / total) * 100)
	}
	return adjusted
}
