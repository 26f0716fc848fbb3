package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// GeocodeCache is a byte-payload cache for geocoding results. It satisfies
// the geocoding adapter's Cache interface.
type GeocodeCache struct {
	client *redis.Client
}

func NewGeocodeCache(client *redis.Client) *GeocodeCache {
	return &GeocodeCache{client: client}
}

// Get returns the cached payload, or nil on a miss.
func (c *GeocodeCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *GeocodeCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, payload, ttl).Err()
}
