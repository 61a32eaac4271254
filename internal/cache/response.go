package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// StatsKey holds the serialized admin stats payload
	StatsKey = "cache:admin:stats"

	// StatsTTL bounds staleness of the admin dashboard between invalidations
	StatsTTL = 5 * time.Minute

	// searchVersionKey is bumped to invalidate every cached search result at once
	searchVersionKey = "cache:search:version"

	// SearchTTL bounds staleness of cached skill searches
	SearchTTL = 2 * time.Minute
)

// ErrMiss is returned when the requested entry is absent or expired.
var ErrMiss = errors.New("cache miss")

// ResponseCache stores serialized query results that are expensive or hot:
// the admin stats aggregate and skill-search result sets. Search entries are
// version-keyed so a single counter bump invalidates them all without SCAN.
type ResponseCache interface {
	GetStats(ctx context.Context, dest interface{}) error
	SetStats(ctx context.Context, value interface{}) error
	InvalidateStats(ctx context.Context) error

	GetSearch(ctx context.Context, skill, searchType string, dest interface{}) error
	SetSearch(ctx context.Context, skill, searchType string, value interface{}) error
	InvalidateSearch(ctx context.Context) error
}

// RedisResponseCache implements ResponseCache on go-redis.
type RedisResponseCache struct {
	client *redis.Client
}

// NewResponseCache creates a ResponseCache backed by Redis.
func NewResponseCache(client *redis.Client) ResponseCache {
	return &RedisResponseCache{client: client}
}

func (c *RedisResponseCache) GetStats(ctx context.Context, dest interface{}) error {
	return c.get(ctx, StatsKey, dest)
}

func (c *RedisResponseCache) SetStats(ctx context.Context, value interface{}) error {
	return c.set(ctx, StatsKey, value, StatsTTL)
}

func (c *RedisResponseCache) InvalidateStats(ctx context.Context) error {
	if err := c.client.Del(ctx, StatsKey).Err(); err != nil {
		return fmt.Errorf("del stats: %w", err)
	}
	return nil
}

func (c *RedisResponseCache) GetSearch(ctx context.Context, skill, searchType string, dest interface{}) error {
	key, err := c.searchKey(ctx, skill, searchType)
	if err != nil {
		return err
	}
	return c.get(ctx, key, dest)
}

func (c *RedisResponseCache) SetSearch(ctx context.Context, skill, searchType string, value interface{}) error {
	key, err := c.searchKey(ctx, skill, searchType)
	if err != nil {
		return err
	}
	return c.set(ctx, key, value, SearchTTL)
}

// InvalidateSearch bumps the version counter, orphaning every existing
// search entry. Orphans expire via their TTL.
func (c *RedisResponseCache) InvalidateSearch(ctx context.Context) error {
	if err := c.client.Incr(ctx, searchVersionKey).Err(); err != nil {
		return fmt.Errorf("incr search version: %w", err)
	}
	return nil
}

func (c *RedisResponseCache) searchKey(ctx context.Context, skill, searchType string) (string, error) {
	ver, err := c.client.Get(ctx, searchVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("get search version: %w", err)
	}
	return SearchKey(ver, skill, searchType), nil
}

// SearchKey builds the cache key for one (skill, type) search at a version.
func SearchKey(version int64, skill, searchType string) string {
	return fmt.Sprintf("cache:search:v%d:%s:%s", version, searchType, strings.ToLower(skill))
}

func (c *RedisResponseCache) get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (c *RedisResponseCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
