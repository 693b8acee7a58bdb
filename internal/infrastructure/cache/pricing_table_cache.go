// Package cache keeps the custom pricing tables close to the pricing resolver.
//
// PricingTableCache owns two pricing.SnapshotSource values that are wired into
// the resolver's custom tiers once at startup. Refreshing the cache swaps the
// tables behind those sources, so resolvers never need to be rebuilt.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Refresh backends reported to metrics and logs
const (
	BackendDatabase = "database"
	BackendRedis    = "redis"
)

// DefaultPricingTableTTL is used when no TTL is configured
const DefaultPricingTableTTL = 5 * time.Minute

// TableSnapshot is the serializable content of both custom tables
type TableSnapshot struct {
	Monthly []pricing.Entry `json:"monthly"`
	Daily   []pricing.Entry `json:"daily"`
}

// TableStore is a shared store for table snapshots, consulted before the database
type TableStore interface {
	// Load returns the stored snapshot; ok is false on a miss
	Load(ctx context.Context) (snapshot TableSnapshot, ok bool, err error)
	Save(ctx context.Context, snapshot TableSnapshot, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// CacheStats describes the current cache state
type CacheStats struct {
	Loaded      bool      `json:"loaded"`
	LoadedAt    time.Time `json:"loaded_at"`
	Backend     string    `json:"backend"`
	MonthlyRows int       `json:"monthly_rows"`
	DailyRows   int       `json:"daily_rows"`
	Refreshes   int64     `json:"refreshes"`
	Failures    int64     `json:"failures"`
}

// PricingTableCache loads the custom pricing tables and serves them through
// snapshot sources until they go stale
type PricingTableCache struct {
	repo    pricing.Repository
	store   TableStore
	ttl     time.Duration
	clock   func() time.Time
	logger  *zap.Logger
	metrics *telemetry.BillingMetrics

	monthly *pricing.SnapshotSource
	daily   *pricing.SnapshotSource

	mu        sync.Mutex
	loaded    bool
	stale     bool
	loadedAt  time.Time
	backend   string
	refreshes int64
	failures  int64
}

// PricingTableCacheOption is a functional option for configuring the cache
type PricingTableCacheOption func(*PricingTableCache)

// WithTTL sets how long a loaded snapshot is served; zero or negative keeps the default
func WithTTL(ttl time.Duration) PricingTableCacheOption {
	return func(c *PricingTableCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces the wall clock
func WithClock(clock func() time.Time) PricingTableCacheOption {
	return func(c *PricingTableCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithStore adds a shared snapshot store in front of the database
func WithStore(store TableStore) PricingTableCacheOption {
	return func(c *PricingTableCache) {
		c.store = store
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) PricingTableCacheOption {
	return func(c *PricingTableCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records refreshes on the given instruments
func WithMetrics(m *telemetry.BillingMetrics) PricingTableCacheOption {
	return func(c *PricingTableCache) {
		c.metrics = m
	}
}

// NewPricingTableCache creates a cache over the given repository. Nothing is
// loaded until the first Ensure or Refresh.
func NewPricingTableCache(repo pricing.Repository, opts ...PricingTableCacheOption) *PricingTableCache {
	c := &PricingTableCache{
		repo:    repo,
		ttl:     DefaultPricingTableTTL,
		clock:   time.Now,
		logger:  zap.NewNop(),
		monthly: pricing.NewSnapshotSource(),
		daily:   pricing.NewSnapshotSource(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MonthlySource returns the source serving custom package prices
func (c *PricingTableCache) MonthlySource() *pricing.SnapshotSource {
	return c.monthly
}

// DailySource returns the source serving custom per-day prices
func (c *PricingTableCache) DailySource() *pricing.SnapshotSource {
	return c.daily
}

// Ensure loads the tables when they were never loaded, were invalidated or
// have outlived the TTL. When a reload fails and an older snapshot exists, the
// older snapshot keeps serving and the failure is only logged.
func (c *PricingTableCache) Ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh() {
		return nil
	}
	err := c.reload(ctx, c.store != nil && !c.stale)
	if err != nil && c.loaded {
		c.logger.Warn("Serving stale pricing tables",
			zap.Time("loaded_at", c.loadedAt),
			zap.Error(err))
		return nil
	}
	return err
}

// Refresh reloads the tables from the database and republishes them to the
// shared store
func (c *PricingTableCache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reload(ctx, false)
}

// Invalidate marks the tables stale and drops the shared snapshot, so the next
// Ensure reads the database
func (c *PricingTableCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	if err := c.store.Invalidate(ctx); err != nil {
		return fmt.Errorf("failed to invalidate shared pricing tables: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the cache state
func (c *PricingTableCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Loaded:      c.loaded,
		LoadedAt:    c.loadedAt,
		Backend:     c.backend,
		MonthlyRows: c.monthly.Table().Len(),
		DailyRows:   c.daily.Table().Len(),
		Refreshes:   c.refreshes,
		Failures:    c.failures,
	}
}

// fresh must be called with mu held
func (c *PricingTableCache) fresh() bool {
	return c.loaded && !c.stale && c.clock().Sub(c.loadedAt) < c.ttl
}

// reload must be called with mu held
func (c *PricingTableCache) reload(ctx context.Context, useStore bool) error {
	if useStore {
		snapshot, ok, err := c.store.Load(ctx)
		switch {
		case err != nil:
			c.logger.Warn("Shared pricing tables unavailable, reading database", zap.Error(err))
			c.metrics.RecordCacheRefresh(ctx, BackendRedis, err)
		case ok:
			c.install(snapshot, BackendRedis)
			c.metrics.RecordCacheRefresh(ctx, BackendRedis, nil)
			return nil
		}
	}

	snapshot, err := c.loadFromRepository(ctx)
	c.metrics.RecordCacheRefresh(ctx, BackendDatabase, err)
	if err != nil {
		c.failures++
		return err
	}
	c.install(snapshot, BackendDatabase)

	if c.store != nil {
		if err := c.store.Save(ctx, snapshot, c.ttl); err != nil {
			c.logger.Warn("Failed to publish pricing tables", zap.Error(err))
		}
	}
	return nil
}

func (c *PricingTableCache) loadFromRepository(ctx context.Context) (TableSnapshot, error) {
	monthly, err := c.repo.ListMonthly(ctx)
	if err != nil {
		return TableSnapshot{}, fmt.Errorf("failed to load monthly pricing table: %w", err)
	}
	daily, err := c.repo.ListDaily(ctx)
	if err != nil {
		return TableSnapshot{}, fmt.Errorf("failed to load daily pricing table: %w", err)
	}
	return TableSnapshot{Monthly: monthly, Daily: daily}, nil
}

func (c *PricingTableCache) install(snapshot TableSnapshot, backend string) {
	c.monthly.Store(pricing.NewTable(snapshot.Monthly))
	c.daily.Store(pricing.NewTable(snapshot.Daily))
	c.loaded = true
	c.stale = false
	c.loadedAt = c.clock()
	c.backend = backend
	c.refreshes++

	c.logger.Debug("Pricing tables loaded",
		zap.String("backend", backend),
		zap.Int("monthly_rows", len(snapshot.Monthly)),
		zap.Int("daily_rows", len(snapshot.Daily)))
}
