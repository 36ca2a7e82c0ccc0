package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	// Encoder provider
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"mock"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// Recognition
	MatchTolerance  float64 `envconfig:"MATCH_TOLERANCE" default:"0.5"`
	CacheMaxAgeSecs int     `envconfig:"CACHE_MAX_AGE_SECONDS" default:"60"`
	TickIntervalMs  int     `envconfig:"TICK_INTERVAL_MS" default:"500"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.MatchTolerance <= 0 || cfg.MatchTolerance > 1 {
		return nil, fmt.Errorf("load config: MATCH_TOLERANCE must be in (0,1], got %v", cfg.MatchTolerance)
	}
	return &cfg, nil
}

func (c *Config) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeSecs) * time.Second
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
