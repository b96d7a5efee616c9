package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// MarketRatesKey is the redis key holding the latest market rates
const MarketRatesKey = "fortuna-coach:market-rates"

// RedisRateCache implements domain.RateCache on redis
type RedisRateCache struct {
	client *redis.Client
	key    string
}

var _ domain.RateCache = (*RedisRateCache)(nil)

// NewRedisRateCache connects to redis at addr
func NewRedisRateCache(addr, password string) *RedisRateCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisRateCache{client: rdb, key: MarketRatesKey}
}

// Ping checks the connection
func (r *RedisRateCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the redis client
func (r *RedisRateCache) Close() error {
	return r.client.Close()
}

// Get returns the cached rates. A miss is (nil, false, nil).
func (r *RedisRateCache) Get(ctx context.Context) (*domain.MarketRates, bool, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading market rates: %w", err)
	}

	rates, err := decodeRates(val)
	if err != nil {
		return nil, false, err
	}
	return rates, true, nil
}

// Set stores rates for ttl
func (r *RedisRateCache) Set(ctx context.Context, rates *domain.MarketRates, ttl time.Duration) error {
	val, err := encodeRates(rates)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, val, ttl).Err(); err != nil {
		return fmt.Errorf("writing market rates: %w", err)
	}
	return nil
}

func encodeRates(rates *domain.MarketRates) ([]byte, error) {
	val, err := json.Marshal(rates)
	if err != nil {
		return nil, fmt.Errorf("encoding market rates: %w", err)
	}
	return val, nil
}

func decodeRates(val []byte) (*domain.MarketRates, error) {
	var rates domain.MarketRates
	if err := json.Unmarshal(val, &rates); err != nil {
		return nil, fmt.Errorf("decoding market rates: %w", err)
	}
	return &rates, nil
}
