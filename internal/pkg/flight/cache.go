package flight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SearchCache stores search results per (origin, destination, date) so a
// repeated query does not drive the booking site again within the
// expiration window.
type SearchCache struct {
	redis RedisClient
}

func NewSearchCache(redis RedisClient) *SearchCache {
	return &SearchCache{
		redis: redis,
	}
}

func (c *SearchCache) GetLockKey(departure, arrival, departureDate string) string {
	return fmt.Sprintf("search:lock:%s:%s:%s", departureDate, departure, arrival)
}

func (c *SearchCache) GetCacheKey(departure, arrival, departureDate string) string {
	return fmt.Sprintf("search:cache:%s:%s:%s", departureDate, departure, arrival)
}

func (c *SearchCache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, key, "1", timeout).Result()
}

func (c *SearchCache) ReleaseLock(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}

func (c *SearchCache) SetResult(ctx context.Context,
	key string,
	result SearchResult,
	expiration time.Duration,
) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal search result: %w", err)
	}

	if err := c.redis.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set search result: %w", err)
	}

	return nil
}

func (c *SearchCache) GetResult(ctx context.Context, key string) (SearchResult, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return SearchResult{}, err
	}

	var result SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return SearchResult{}, err
	}

	return result, nil
}
