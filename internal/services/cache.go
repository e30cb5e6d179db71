package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/wordstreak-backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL bounds how long a summary may be served without a write.
	DefaultCacheTTL = 10 * time.Minute
)

// CacheService caches read-mostly values in Redis. A CacheService with a nil
// client is valid and never hits.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Entry
}

func NewCacheService(client *redis.Client, ttl time.Duration, logger *logrus.Entry) *CacheService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheService{client: client, ttl: ttl, logger: logger}
}

// Enabled reports whether a Redis client is configured.
func (c *CacheService) Enabled() bool {
	return c != nil && c.client != nil
}

// Get retrieves a value from cache
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value in cache with the service TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if !c.Enabled() {
		return nil
	}
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKeyPrefix+key, jsonData, c.ttl).Err()
}

// Delete removes a value from cache
func (c *CacheService) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, CacheKeyPrefix+key).Err()
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}

func summaryKey(userID uuid.UUID) string {
	return CacheKey("summary", userID.String())
}

// cachedSummary returns the cached summary for today, if any. Cache errors
// are logged and treated as misses.
func (c *CacheService) cachedSummary(ctx context.Context, userID uuid.UUID, today models.Date) (models.StreakSummary, bool) {
	var s models.StreakSummary
	ok, err := c.Get(ctx, summaryKey(userID), &s)
	if err != nil {
		c.warn(err, "Summary cache read failed")
		return models.StreakSummary{}, false
	}
	// A summary computed on another day is stale even if the TTL hasn't run out.
	if !ok || !s.Today.Equal(today) {
		return models.StreakSummary{}, false
	}
	return s, true
}

func (c *CacheService) storeSummary(ctx context.Context, userID uuid.UUID, s models.StreakSummary) {
	if err := c.Set(ctx, summaryKey(userID), s); err != nil {
		c.warn(err, "Summary cache write failed")
	}
}

func (c *CacheService) invalidateSummary(ctx context.Context, userID uuid.UUID) {
	if err := c.Delete(ctx, summaryKey(userID)); err != nil {
		c.warn(err, "Summary cache invalidation failed")
	}
}

func (c *CacheService) warn(err error, msg string) {
	if c != nil && c.logger != nil {
		c.logger.WithError(err).Warn(msg)
	}
}
