package cacheinfra

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/viccon/sturdyc"
)

// TextCodeInvalidConfig marks configuration validation failures.
const TextCodeInvalidConfig = "INVALID_CACHE_CONFIG"

// Config holds the sturdyc settings backing the container's cached scope.
type Config struct {
	// Capacity is the maximum number of cached instances. Must be greater than 0.
	Capacity int

	// NumShards splits the cache for concurrent access. Must be greater than 0.
	NumShards int

	// TTL is how long a cached instance is reused before its provider runs
	// again. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage is the share of entries evicted when Capacity is
	// reached. Must be between 1 and 100.
	EvictionPercentage int

	// EarlyRefresh, when set, refreshes hot instances before they expire.
	EarlyRefresh *EarlyRefreshConfig

	// EvictionInterval sets how often expired entries are swept. Zero uses
	// the sturdyc default.
	EvictionInterval time.Duration
}

// EarlyRefreshConfig mirrors sturdyc's early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Capacity:           1000,
		NumShards:          16,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration with ozzo-validation.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.EarlyRefresh),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid cache configuration").
			WithTextCode(TextCodeInvalidConfig)
	}
	return nil
}

// Validate checks that no early refresh duration is negative and that the
// async window is ordered.
func (e EarlyRefreshConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.MinAsyncRefreshTime, validation.Min(time.Duration(0))),
		validation.Field(&e.MaxAsyncRefreshTime, validation.Min(e.MinAsyncRefreshTime)),
		validation.Field(&e.SyncRefreshTime, validation.Min(time.Duration(0))),
		validation.Field(&e.RetryBaseDelay, validation.Min(time.Duration(0))),
	)
}

// ToSturdycOptions converts the optional settings to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// FetchFn produces an instance on a cache miss.
type FetchFn func(ctx context.Context) (any, error)

// ScopeCache stores instances of cached-scope bindings in sturdyc.
type ScopeCache struct {
	client *sturdyc.Client[any]
}

// NewScopeCache validates cfg and builds the sturdyc client.
func NewScopeCache(cfg Config) (*ScopeCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &ScopeCache{client: client}, nil
}

// GetOrFetch returns the cached instance for key, calling fetch on a miss.
// Concurrent misses for the same key share one fetch.
func (s *ScopeCache) GetOrFetch(ctx context.Context, key string, fetch FetchFn) (any, error) {
	return s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
}

// Delete evicts key.
func (s *ScopeCache) Delete(key string) {
	s.client.Delete(key)
}

// DeleteByPrefix evicts every key starting with prefix and returns how many
// were removed.
func (s *ScopeCache) DeleteByPrefix(prefix string) int {
	removed := 0
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
			removed++
		}
	}
	return removed
}

// Keys lists the cached keys.
func (s *ScopeCache) Keys() []string {
	return s.client.ScanKeys()
}
