package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/logger"
)

const rateCachePrefix = "conversion-rate:"

// RateCache is a read-through Redis cache for conversion rates, stored msgpack-encoded.
// A nil cache or a nil client turns every call into a miss.
type RateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRateCache(client *redis.Client, ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RateCache{client: client, ttl: ttl}
}

func (c *RateCache) enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached rate for sku. Redis errors are logged and reported as a miss.
func (c *RateCache) Get(ctx context.Context, sku string) (*domain.ConversionRate, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.client.Get(ctx, rateCachePrefix+sku).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Str("sku", sku).Msg("Rate cache read failed")
		}
		return nil, false
	}

	var rate domain.ConversionRate
	if err := msgpack.Unmarshal(raw, &rate); err != nil {
		logger.Warn(ctx).Err(err).Str("sku", sku).Msg("Discarding undecodable cached rate")
		return nil, false
	}
	return &rate, true
}

func (c *RateCache) Set(ctx context.Context, rate domain.ConversionRate) {
	if !c.enabled() {
		return
	}

	rate.IsDefault = false
	raw, err := msgpack.Marshal(&rate)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("sku", rate.SKU).Msg("Failed to encode rate for cache")
		return
	}
	if err := c.client.Set(ctx, rateCachePrefix+rate.SKU, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("sku", rate.SKU).Msg("Rate cache write failed")
	}
}

func (c *RateCache) Invalidate(ctx context.Context, sku string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, rateCachePrefix+sku).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("sku", sku).Msg("Rate cache invalidation failed")
	}
}
