package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"ridehail/internal/domain"
)

// RideCache caches denormalized ride details in Redis. Entries are short
// lived and invalidated on every lifecycle transition.
type RideCache struct {
	client *redis.Client
}

// NewRideCache creates a new RideCache.
func NewRideCache(client *redis.Client) *RideCache {
	return &RideCache{client: client}
}

const (
	rideCachePrefix = "cache:ride:"
	rideCacheTTL    = 10 * time.Second
)

// Get retrieves a cached ride detail. Returns (nil, nil) on a cache miss.
func (c *RideCache) Get(ctx context.Context, rideID string) (*domain.RideDetail, error) {
	data, err := c.client.Get(ctx, rideCachePrefix+rideID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var detail domain.RideDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Set stores a ride detail in cache.
func (c *RideCache) Set(ctx context.Context, detail *domain.RideDetail) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rideCachePrefix+detail.ID, data, rideCacheTTL).Err()
}

// Invalidate removes a ride from cache.
func (c *RideCache) Invalidate(ctx context.Context, rideID string) error {
	return c.client.Del(ctx, rideCachePrefix+rideID).Err()
}
