package service

import (
	"math"
	"testing"

	"emotion-insight/internal/domain"
)

func TestFuseTwoModalitiesWorkedExample(t *testing.T) {
	observations := []domain.ModalityObservation{
		{Source: "face", Confidence: 80, Probabilities: domain.Distribution{"happy": 80, "sad": 20}},
		{Source: "voice", Confidence: 60, Probabilities: domain.Distribution{"happy": 40, "sad": 60}},
	}

	result := DefaultFusionEngine.Fuse(observations, nil)

	if result.Dominant != "happy" {
		t.Fatalf("expected dominant happy, got %q", result.Dominant)
	}
	if result.Confidence != 62.9 {
		t.Fatalf("expected confidence 62.9, got %f", result.Confidence)
	}
	if result.Distribution["happy"] != 62.9 || result.Distribution["sad"] != 37.1 {
		t.Fatalf("unexpected fused distribution: %v", result.Distribution)
	}
}

func TestFuseSingleModalityOneHot(t *testing.T) {
	observations := []domain.ModalityObservation{
		{Source: "face", Confidence: 100, Probabilities: domain.Distribution{"happy": 1}},
	}

	result := DefaultFusionEngine.Fuse(observations, nil)

	if result.Dominant != "happy" {
		t.Fatalf("expected dominant happy, got %q", result.Dominant)
	}
	if result.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %f", result.Confidence)
	}
	if result.Distribution["happy"] != 100 {
		t.Fatalf("expected happy at 100%%, got %v", result.Distribution)
	}
}

func TestFuseIdenticalModalitiesKeepDistribution(t *testing.T) {
	probs := domain.Distribution{"happy": 70, "sad": 30}
	observations := []domain.ModalityObservation{
		{Source: "face", Confidence: 90, Probabilities: probs.Clone()},
		{Source: "voice", Confidence: 90, Probabilities: probs.Clone()},
	}

	result := DefaultFusionEngine.Fuse(observations, nil)

	if math.Abs(result.Distribution["happy"]-70) > 0.05 || math.Abs(result.Distribution["sad"]-30) > 0.05 {
		t.Fatalf("expected distribution unchanged, got %v", result.Distribution)
	}
	if result.Dominant != "happy" {
		t.Fatalf("expected dominant happy, got %q", result.Dominant)
	}
}

func TestFuseIgnoresEmptyAndZeroConfidenceModalities(t *testing.T) {
	observations := []domain.ModalityObservation{
		{Source: "face", Confidence: 0, Probabilities: domain.Distribution{"sad": 1}},
		{Source: "voice", Confidence: 50, Probabilities: domain.Distribution{}},
		{Source: "text", Confidence: 80, Probabilities: domain.Distribution{"happy": 1}},
	}

	result := DefaultFusionEngine.Fuse(observations, nil)

	if result.Dominant != "happy" {
		t.Fatalf("expected dominant happy, got %q", result.Dominant)
	}
	// La modalidad con confianza 0 aporta 0 pero sus etiquetas entran al
	// acumulador; la dominante sigue saliendo de la única con señal.
	if result.Distribution["happy"] != 100 {
		t.Fatalf("expected happy at 100%%, got %v", result.Distribution)
	}
}

func TestFuseNoContribution(t *testing.T) {
	observations := []domain.ModalityObservation{
		{Source: "face", Confidence: 90, Probabilities: domain.Distribution{}},
	}

	result := DefaultFusionEngine.Fuse(observations, nil)

	if result.HasDominant() {
		t.Fatalf("expected no dominant, got %q", result.Dominant)
	}
	if result.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %f", result.Confidence)
	}
	if len(result.Distribution) != 0 {
		t.Fatalf("expected empty distribution, got %v", result.Distribution)
	}
}

func TestFuseSourceWeightsShiftDominant(t *testing.T) {
	observations := []domain.ModalityObservation{
		{Source: "face", Confidence: 80, Probabilities: domain.Distribution{"happy": 1}},
		{Source: "voice", Confidence: 80, Probabilities: domain.Distribution{"sad": 1}},
	}

	result := DefaultFusionEngine.Fuse(observations, map[string]float64{"voice": 3.0})

	if result.Dominant != "sad" {
		t.Fatalf("expected weighted voice to dominate, got %q", result.Dominant)
	}
}

func TestFuseTieBreaksLexicographically(t *testing.T) {
	observations := []domain.ModalityObservation{
		{Source: "face", Confidence: 100, Probabilities: domain.Distribution{"sad": 50, "happy": 50}},
	}

	result := DefaultFusionEngine.Fuse(observations, nil)

	if result.Dominant != "happy" {
		t.Fatalf("expected lexicographic tie-break to pick happy, got %q", result.Dominant)
	}
}
