package service

import (
	"strings"

	"emotion-insight/internal/domain"
)

// FusionEngine combina predicciones de varias modalidades en un resultado único.
type FusionEngine struct{}

// DefaultFusionEngine permite uso directo sin instanciar.
var DefaultFusionEngine = FusionEngine{}

// Fuse pondera cada modalidad por su confianza y su peso de fuente, acumula
// las fracciones por emoción y renormaliza. Modalidades con distribución vacía
// o confianza 0 no aportan nada. Si ninguna aporta, devuelve un resultado vacío.
func (FusionEngine) Fuse(observations []domain.ModalityObservation, weights map[string]float64) domain.FusionResult {
	aggregated := make(domain.Distribution)

	for _, obs := range observations {
		if len(obs.Probabilities) == 0 {
			continue
		}
		weight, ok := weights[obs.Source]
		if !ok {
			weight = 1.0
		}
		normalized := NormalizeProbabilities(obs.Probabilities)
		for emotion, prob := range normalized {
			label := strings.ToLower(emotion)
			aggregated[label] += weight * prob * (obs.Confidence / 100.0)
		}
	}

	if len(aggregated) == 0 {
		return domain.FusionResult{Distribution: domain.Distribution{}}
	}

	fused := NormalizeProbabilities(aggregated)

	// Desempate determinista: a igual fracción gana la etiqueta menor
	// en orden lexicográfico.
	dominant := ""
	best := -1.0
	for label, value := range fused {
		if value > best || (value == best && label < dominant) {
			dominant = label
			best = value
		}
	}

	percentages := make(domain.Distribution, len(fused))
	for label, value := range fused {
		percentages[label] = roundOneDecimal(value * 100)
	}

	return domain.FusionResult{
		Dominant:     dominant,
		Confidence:   roundOneDecimal(best * 100),
		Distribution: percentages,
	}
}
