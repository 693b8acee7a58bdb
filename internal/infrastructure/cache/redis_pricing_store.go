package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adboard/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultPricingTablesKey is the Redis key holding the shared snapshot
const DefaultPricingTablesKey = "adboard:pricing:tables"

const defaultPingTimeout = 5 * time.Second

// NewRedisClient creates a client for the configured server and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisPricingStore shares pricing table snapshots between service instances
type RedisPricingStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// RedisPricingStoreOption is a functional option for configuring the store
type RedisPricingStoreOption func(*RedisPricingStore)

// WithStoreKey sets the Redis key
func WithStoreKey(key string) RedisPricingStoreOption {
	return func(s *RedisPricingStore) {
		s.key = key
	}
}

// WithStoreLogger sets the logger for the store
func WithStoreLogger(logger *zap.Logger) RedisPricingStoreOption {
	return func(s *RedisPricingStore) {
		s.logger = logger
	}
}

// NewRedisPricingStore creates a store over an existing client.
// The caller retains ownership of the client.
func NewRedisPricingStore(client *redis.Client, opts ...RedisPricingStoreOption) *RedisPricingStore {
	s := &RedisPricingStore{
		client: client,
		key:    DefaultPricingTablesKey,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the shared snapshot. A corrupted entry is deleted and reported as a miss.
func (s *RedisPricingStore) Load(ctx context.Context) (TableSnapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.logger.Debug("Cache miss for pricing tables", zap.String("key", s.key))
		return TableSnapshot{}, false, nil
	}
	if err != nil {
		return TableSnapshot{}, false, fmt.Errorf("failed to get pricing tables from cache: %w", err)
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Error("Failed to unmarshal pricing tables",
			zap.String("key", s.key),
			zap.Error(err))
		_ = s.client.Del(ctx, s.key)
		return TableSnapshot{}, false, nil
	}
	return snapshot, true, nil
}

// Save stores the snapshot with the given TTL
func (s *RedisPricingStore) Save(ctx context.Context, snapshot TableSnapshot, ttl time.Duration) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set pricing tables in cache: %w", err)
	}
	s.logger.Debug("Cached pricing tables",
		zap.String("key", s.key),
		zap.Duration("ttl", ttl))
	return nil
}

// Invalidate deletes the shared snapshot
func (s *RedisPricingStore) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete pricing tables from cache: %w", err)
	}
	return nil
}

func encodeSnapshot(snapshot TableSnapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pricing tables: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (TableSnapshot, error) {
	var snapshot TableSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return TableSnapshot{}, err
	}
	return snapshot, nil
}

var _ TableStore = (*RedisPricingStore)(nil)
