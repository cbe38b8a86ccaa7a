package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"emotion-insight/internal/config"
)

// NewPool construye el pool de conexiones del almacén de eventos emocionales.
// El patrón de acceso es lecturas cortas y frecuentes (pronósticos y resúmenes
// releen la misma ventana de historia) más una escritura chica por fusión, así
// que conviene un pool moderado con conexiones tibias listas.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = 8
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 10 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica que el almacén de eventos responda. Lo usan el arranque del
// servidor y el endpoint de salud.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}
