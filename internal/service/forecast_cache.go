package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"emotion-insight/internal/domain"
)

// ForecastCache guarda el último pronóstico generado por un TTL corto.
// Un miss (o cualquier fallo del cache) se trata como "no hay cache": el cache
// nunca puede enmascarar un fallo del almacén de eventos.
type ForecastCache interface {
	Get(ctx context.Context) ([]domain.ForecastInsight, bool)
	Set(ctx context.Context, forecasts []domain.ForecastInsight, ttl time.Duration)
}

type memoryForecastCache struct {
	mu        sync.Mutex
	forecasts []domain.ForecastInsight
	expiresAt time.Time
}

func NewMemoryForecastCache() ForecastCache {
	return &memoryForecastCache{}
}

func (c *memoryForecastCache) Get(_ context.Context) ([]domain.ForecastInsight, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.forecasts == nil || time.Now().UTC().After(c.expiresAt) {
		return nil, false
	}
	return c.forecasts, true
}

func (c *memoryForecastCache) Set(_ context.Context, forecasts []domain.ForecastInsight, ttl time.Duration) {
	if forecasts == nil || ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forecasts = forecasts
	c.expiresAt = time.Now().UTC().Add(ttl)
}

type redisForecastCache struct {
	client *redis.Client
	key    string
}

func NewRedisForecastCache(client *redis.Client) ForecastCache {
	if client == nil {
		return nil
	}
	return &redisForecastCache{
		client: client,
		key:    "forecast:latest",
	}
}

func (c *redisForecastCache) Get(ctx context.Context) ([]domain.ForecastInsight, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		return nil, false
	}
	var forecasts []domain.ForecastInsight
	if err := json.Unmarshal([]byte(raw), &forecasts); err != nil {
		return nil, false
	}
	return forecasts, true
}

func (c *redisForecastCache) Set(ctx context.Context, forecasts []domain.ForecastInsight, ttl time.Duration) {
	if forecasts == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(forecasts)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Set(ctx, c.key, raw, ttl).Err()
}
