package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/models"
)

// KeyPrefix namespaces quote keys in a shared Redis.
const KeyPrefix = "myntr:quote:"

// Redis stores quotes as JSON values with a native TTL.
type Redis struct {
	client *redis.Client
	logger *common.Logger
	now    func() time.Time
}

// NewRedis connects to the configured Redis and verifies it with PING.
func NewRedis(ctx context.Context, cfg common.CacheConfig, logger *common.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info().Str("addr", cfg.RedisAddr).Int("db", cfg.RedisDB).Msg("Redis quote cache connected")
	return NewRedisWithClient(client, logger), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, logger *common.Logger) *Redis {
	return &Redis{client: client, logger: logger, now: time.Now}
}

func (r *Redis) Get(ctx context.Context, symbol string) (*models.Quote, bool, error) {
	raw, err := r.client.Get(ctx, KeyPrefix+symbol).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", symbol, err)
	}

	var cached models.CachedQuote
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("decode cached quote %s: %w", symbol, err)
	}
	return &cached.Quote, true, nil
}

func (r *Redis) Set(ctx context.Context, symbol string, quote *models.Quote, ttl time.Duration) error {
	if quote == nil || ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(models.CachedQuote{Quote: *quote, CachedAt: r.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode quote %s: %w", symbol, err)
	}
	if err := r.client.Set(ctx, KeyPrefix+symbol, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", symbol, err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

var _ interfaces.QuoteCache = (*Redis)(nil)
