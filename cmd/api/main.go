package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"emotion-insight/internal/config"
	"emotion-insight/internal/db"
	apihttp "emotion-insight/internal/http"
	"emotion-insight/internal/repository"
	"emotion-insight/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	ctxPing, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Ping(ctxPing, pool); err != nil {
		logger.Fatal("event store unreachable", zap.Error(err))
	}
	cancelPing()

	eventRepo := repository.NewPgEventRepository(pool)

	emotionSvc := service.NewEmotionService(
		eventRepo,
		service.DefaultCultureEngine,
		service.DefaultFusionEngine,
		cfg.FusionWeights(),
		logger,
	)
	forecastSvc := service.NewForecastService(eventRepo, logger, cfg.HistoryLimit)
	analyticsSvc := service.NewAnalyticsService(eventRepo, logger, cfg.HistoryLimit)

	forecastCache := service.NewMemoryForecastCache()
	var ingestLimiter service.IngestRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			forecastCache = service.NewRedisForecastCache(redisClient)
			ingestLimiter = service.NewRedisIngestRateLimiter(redisClient, time.Minute, cfg.ObservePerMinute)
		}
		cancel()
	}

	var jwtSvc *service.JWTService
	if cfg.JWTSecret != "" {
		jwtSvc = service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	} else {
		logger.Warn("jwt secret not configured, api routes are open")
	}

	cacheTTL := time.Duration(cfg.ForecastCacheTTLSeconds) * time.Second
	emotionHandler := apihttp.NewEmotionHandler(logger, emotionSvc)
	forecastHandler := apihttp.NewForecastHandler(logger, forecastSvc, forecastCache, cacheTTL)
	analyticsHandler := apihttp.NewAnalyticsHandler(logger, analyticsSvc)
	router := apihttp.NewRouter(logger, emotionHandler, forecastHandler, analyticsHandler, jwtSvc, ingestLimiter,
		func(ctx context.Context) error { return db.Ping(ctx, pool) })

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
