package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"emotion-insight/internal/domain"
	"emotion-insight/internal/service"
)

type mockEventRepo struct {
	events  []domain.EmotionEvent
	created []domain.EmotionEvent
	moments []domain.SimilarMoment
	err     error
}

func (m *mockEventRepo) Create(_ context.Context, event domain.EmotionEvent) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, event)
	return nil
}

func (m *mockEventRepo) FetchRecent(_ context.Context, limit int, _ []string) ([]domain.EmotionEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && len(m.events) > limit {
		return m.events[:limit], nil
	}
	return m.events, nil
}

func (m *mockEventRepo) FindSimilar(_ context.Context, _ pgvector.Vector, _ int) ([]domain.SimilarMoment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.moments, nil
}

func newEmotionHandler(repo *mockEventRepo) *EmotionHandler {
	svc := service.NewEmotionService(
		repo,
		service.DefaultCultureEngine,
		service.DefaultFusionEngine,
		map[string]float64{"face": 1.0, "voice": 1.0, "text": 1.0},
		zap.NewNop(),
	)
	return NewEmotionHandler(zap.NewNop(), svc)
}

func TestObserveFusesAndPersists(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &mockEventRepo{}
	r := gin.New()
	r.POST("/observe", newEmotionHandler(repo).Observe)

	body := map[string]interface{}{
		"culture": "global",
		"observations": []map[string]interface{}{
			{"source": "face", "confidence": 80, "probabilities": map[string]float64{"happy": 80, "sad": 20}},
			{"source": "voice", "confidence": 60, "probabilities": map[string]float64{"happy": 40, "sad": 60}},
		},
	}
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/observe", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Culture string              `json:"culture"`
		Fusion  domain.FusionResult `json:"fusion"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Culture != "global" {
		t.Fatalf("expected culture global, got %q", resp.Culture)
	}
	if resp.Fusion.Dominant != "happy" || resp.Fusion.Confidence != 62.9 {
		t.Fatalf("unexpected fusion result: %+v", resp.Fusion)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted event, got %d", len(repo.created))
	}
}

func TestObserveRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/observe", newEmotionHandler(&mockEventRepo{}).Observe)

	req := httptest.NewRequest(http.MethodPost, "/observe", bytes.NewReader([]byte(`{"observations": []}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestObserveRejectsOutOfRangeConfidence(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/observe", newEmotionHandler(&mockEventRepo{}).Observe)

	body := `{"observations": [{"source": "face", "confidence": 140, "probabilities": {"happy": 1}}]}`
	req := httptest.NewRequest(http.MethodPost, "/observe", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListCultures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cultures", newEmotionHandler(&mockEventRepo{}).ListCultures)

	req := httptest.NewRequest(http.MethodGet, "/cultures", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Cultures []struct {
			Code        string `json:"code"`
			DisplayName string `json:"display_name"`
		} `json:"cultures"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Cultures) != 4 {
		t.Fatalf("expected 4 cultures, got %d", len(resp.Cultures))
	}
	if resp.Cultures[0].Code != "global" || resp.Cultures[0].DisplayName != "Global" {
		t.Fatalf("unexpected first culture: %+v", resp.Cultures[0])
	}
}
