package service

import (
	"math"
	"testing"

	"emotion-insight/internal/domain"
)

func TestNormalizeProbabilitiesSumsToOne(t *testing.T) {
	cases := []domain.Distribution{
		{"happy": 80, "sad": 20},
		{"happy": 0.5, "sad": 0.3, "neutral": 0.2},
		{"angry": 1},
		{"happy": 12.5, "sad": 0, "fear": 7.5},
	}

	for _, probs := range cases {
		normalized := NormalizeProbabilities(probs)
		total := 0.0
		for _, value := range normalized {
			total += value
		}
		if math.Abs(total-1.0) > 1e-9 {
			t.Fatalf("expected sum 1.0 for %v, got %f", probs, total)
		}
	}
}

func TestNormalizeProbabilitiesZeroTotalPreservesKeys(t *testing.T) {
	normalized := NormalizeProbabilities(domain.Distribution{"happy": 0, "sad": 0})
	if len(normalized) != 2 {
		t.Fatalf("expected keys preserved, got %v", normalized)
	}
	for label, value := range normalized {
		if value != 0.0 {
			t.Fatalf("expected %s to be 0.0, got %f", label, value)
		}
	}
}

func TestNormalizeProbabilitiesEmptyInput(t *testing.T) {
	normalized := NormalizeProbabilities(domain.Distribution{})
	if len(normalized) != 0 {
		t.Fatalf("expected empty output, got %v", normalized)
	}

	normalized = NormalizeProbabilities(nil)
	if len(normalized) != 0 {
		t.Fatalf("expected empty output for nil input, got %v", normalized)
	}
}

func TestNormalizeProbabilitiesDoesNotMutateInput(t *testing.T) {
	probs := domain.Distribution{"happy": 80, "sad": 20}
	NormalizeProbabilities(probs)
	if probs["happy"] != 80 || probs["sad"] != 20 {
		t.Fatalf("input mutated: %v", probs)
	}
}
