package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret           string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`

	// Pesos de confianza por modalidad para la fusión.
	FaceWeight  float64 `env:"FACE_WEIGHT" envDefault:"1.0"`
	VoiceWeight float64 `env:"VOICE_WEIGHT" envDefault:"1.0"`
	TextWeight  float64 `env:"TEXT_WEIGHT" envDefault:"1.0"`

	HistoryLimit            int `env:"HISTORY_LIMIT" envDefault:"720"`
	ForecastCacheTTLSeconds int `env:"FORECAST_CACHE_TTL_SECONDS" envDefault:"60"`
	ObservePerMinute        int `env:"OBSERVE_PER_MINUTE" envDefault:"120"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FusionWeights arma el mapa fuente → peso que consume el motor de fusión.
func (c *Config) FusionWeights() map[string]float64 {
	return map[string]float64{
		"face":  c.FaceWeight,
		"voice": c.VoiceWeight,
		"text":  c.TextWeight,
	}
}
