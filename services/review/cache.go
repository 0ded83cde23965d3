package review

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"ecofix/models"

	"github.com/go-redis/redis/v8"
)

const (
	statsKeyPrefix   = "review-stats:"
	versionKeyPrefix = "review-stats-ver:"
)

// setIfVersion writes KEYS[1] only while KEYS[2] still holds ARGV[1].
var setIfVersion = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if current == false then current = "0" end
if current ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
  redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

// invalidateStats bumps the version and drops the cached stats in one step.
var invalidateStats = redis.NewScript(`
redis.call("INCR", KEYS[2])
redis.call("DEL", KEYS[1])
return 1
`)

// RedisStatsCache keeps provider review stats in Redis.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context, providerID string) (*models.ReviewStats, error) {
	raw, err := c.client.Get(ctx, statsKeyPrefix+providerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats models.ReviewStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *RedisStatsCache) Version(ctx context.Context, providerID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKeyPrefix+providerID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisStatsCache) Set(ctx context.Context, providerID string, version int64, stats models.ReviewStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	keys := []string{statsKeyPrefix + providerID, versionKeyPrefix + providerID}
	return setIfVersion.Run(ctx, c.client, keys, strconv.FormatInt(version, 10), raw, c.ttl.Milliseconds()).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, providerID string) error {
	keys := []string{statsKeyPrefix + providerID, versionKeyPrefix + providerID}
	return invalidateStats.Run(ctx, c.client, keys).Err()
}

// MemoryStatsCache is the in-process StatsCache used when Redis is not configured.
type MemoryStatsCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]memoryStats
	versions map[string]int64
	now      func() time.Time
}

type memoryStats struct {
	stats     models.ReviewStats
	expiresAt time.Time
}

func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	return &MemoryStatsCache{
		ttl:      ttl,
		entries:  make(map[string]memoryStats),
		versions: make(map[string]int64),
		now:      time.Now,
	}
}

func (c *MemoryStatsCache) Get(_ context.Context, providerID string) (*models.ReviewStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[providerID]
	if !ok {
		return nil, nil
	}
	if c.ttl > 0 && !c.now().Before(entry.expiresAt) {
		delete(c.entries, providerID)
		return nil, nil
	}
	stats := entry.stats
	return &stats, nil
}

func (c *MemoryStatsCache) Version(_ context.Context, providerID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[providerID], nil
}

func (c *MemoryStatsCache) Set(_ context.Context, providerID string, version int64, stats models.ReviewStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[providerID] != version {
		return nil
	}
	c.entries[providerID] = memoryStats{stats: stats, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryStatsCache) Invalidate(_ context.Context, providerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[providerID]++
	delete(c.entries, providerID)
	return nil
}
