package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"emotion-insight/internal/domain"
)

// EmotionEventRepository define el contrato del almacén de eventos emocionales.
// El núcleo analítico solo lee; la escritura ocurre tras cada fusión.
type EmotionEventRepository interface {
	Create(ctx context.Context, event domain.EmotionEvent) error
	FetchRecent(ctx context.Context, limit int, sources []string) ([]domain.EmotionEvent, error)
	FindSimilar(ctx context.Context, embedding pgvector.Vector, k int) ([]domain.SimilarMoment, error)
}

type PgEventRepository struct {
	pool *pgxpool.Pool
}

func NewPgEventRepository(pool *pgxpool.Pool) *PgEventRepository {
	return &PgEventRepository{pool: pool}
}

func (r *PgEventRepository) Create(ctx context.Context, event domain.EmotionEvent) error {
	const query = `
		INSERT INTO emotion_events (id, timestamp, source, emotion, confidence, details, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var details interface{}
	var embedding interface{}
	if event.Details != nil {
		raw, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal event details: %w", err)
		}
		details = string(raw)
		if len(event.Details.Distribution) > 0 {
			embedding = pgvector.NewVector(event.Details.Distribution.Project())
		}
	}

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Timestamp,
		event.Source,
		strings.ToLower(event.Emotion),
		event.Confidence,
		details,
		embedding,
	)
	return err
}

// FetchRecent devuelve hasta limit eventos ordenados del más reciente al más
// antiguo. sources filtra opcionalmente por modalidad de origen.
func (r *PgEventRepository) FetchRecent(ctx context.Context, limit int, sources []string) ([]domain.EmotionEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, timestamp, source, emotion, confidence, details
		FROM emotion_events
	`
	args := []interface{}{}
	if len(sources) > 0 {
		lowered := make([]string, 0, len(sources))
		for _, src := range sources {
			lowered = append(lowered, strings.ToLower(src))
		}
		query += " WHERE lower(source) = ANY($1)"
		args = append(args, lowered)
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// FindSimilar busca los k eventos cuya distribución proyectada está más cerca
// (distancia coseno) del embedding consultado.
func (r *PgEventRepository) FindSimilar(ctx context.Context, embedding pgvector.Vector, k int) ([]domain.SimilarMoment, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT id, timestamp, source, emotion, confidence, details, embedding <=> $1 AS distance
		FROM emotion_events
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, embedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moments []domain.SimilarMoment
	for rows.Next() {
		var event domain.EmotionEvent
		var details sql.NullString
		var distance float64
		if err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&event.Source,
			&event.Emotion,
			&event.Confidence,
			&details,
			&distance,
		); err != nil {
			return nil, err
		}
		event.Details = decodeDetails(details)
		moments = append(moments, domain.SimilarMoment{Event: event, Distance: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return moments, nil
}

func scanEvents(rows pgxRows) ([]domain.EmotionEvent, error) {
	var events []domain.EmotionEvent
	for rows.Next() {
		var event domain.EmotionEvent
		var details sql.NullString
		if err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&event.Source,
			&event.Emotion,
			&event.Confidence,
			&details,
		); err != nil {
			return nil, err
		}
		event.Details = decodeDetails(details)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// decodeDetails tolera details corruptos: un registro malformado se degrada a
// sin-detalles en vez de tumbar la lectura completa.
func decodeDetails(raw sql.NullString) *domain.EventDetails {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var details domain.EventDetails
	if err := json.Unmarshal([]byte(raw.String), &details); err != nil {
		return nil
	}
	return &details
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
