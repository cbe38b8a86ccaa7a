package service

import (
	"math"

	"emotion-insight/internal/domain"
)

// NormalizeProbabilities convierte pesos arbitrarios no negativos en fracciones.
// Si el total es <= 0 conserva las claves y pone los valores en 0.0 en vez de fallar.
func NormalizeProbabilities(probabilities domain.Distribution) domain.Distribution {
	if len(probabilities) == 0 {
		return domain.Distribution{}
	}
	total := 0.0
	for _, value := range probabilities {
		total += value
	}
	normalized := make(domain.Distribution, len(probabilities))
	if total <= 0 {
		for label := range probabilities {
			normalized[label] = 0.0
		}
		return normalized
	}
	for label, value := range probabilities {
		normalized[label] = value / total
	}
	return normalized
}

// roundOneDecimal redondea a un decimal (para porcentajes presentables).
func roundOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
