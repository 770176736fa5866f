package di

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-immediate-module/internal/cacheinfra"
)

// Config controls the container's cached scope and logging.
type Config struct {
	CacheCapacity           int           `env:"IMMEDIATE_CACHE_CAPACITY"            envDefault:"1000"`
	CacheShards             int           `env:"IMMEDIATE_CACHE_SHARDS"              envDefault:"16"`
	CacheTTL                time.Duration `env:"IMMEDIATE_CACHE_TTL"                 envDefault:"5m"`
	CacheEvictionPercentage int           `env:"IMMEDIATE_CACHE_EVICTION_PERCENTAGE" envDefault:"10"`
	CacheEvictionInterval   time.Duration `env:"IMMEDIATE_CACHE_EVICTION_INTERVAL"`

	logger *slog.Logger
}

// DefaultConfig matches the env defaults.
func DefaultConfig() Config {
	def := cacheinfra.DefaultConfig()
	return Config{
		CacheCapacity:           def.Capacity,
		CacheShards:             def.NumShards,
		CacheTTL:                def.TTL,
		CacheEvictionPercentage: def.EvictionPercentage,
	}
}

// ConfigFromEnv reads IMMEDIATE_CACHE_* variables and validates the result.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithLogger returns a copy of c that logs to logger.
func (c Config) WithLogger(logger *slog.Logger) Config {
	c.logger = logger
	return c
}

// Logger returns the configured logger, or slog.Default.
func (c Config) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Validate checks the cache settings.
func (c Config) Validate() error {
	return c.cacheConfig().Validate()
}

func (c Config) cacheConfig() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.CacheCapacity,
		NumShards:          c.CacheShards,
		TTL:                c.CacheTTL,
		EvictionPercentage: c.CacheEvictionPercentage,
		EvictionInterval:   c.CacheEvictionInterval,
	}
}
