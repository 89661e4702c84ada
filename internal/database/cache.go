package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var (
	ErrCacheMiss     = errors.New("cache miss")
	ErrCacheDisabled = errors.New("cache disabled")
)

// Cache implementation
type Cache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewCache(client *redis.Client, logger *logrus.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Cache key constants
const (
	ProgressSummaryKey = "progress:summary:%d"
	SystemHealthKey    = "system:health"
)

// CacheProgress stores a user's progress summary
func (c *Cache) CacheProgress(ctx context.Context, userID uint, summary interface{}, expiration time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal progress summary: %w", err)
	}

	return c.client.Set(ctx, fmt.Sprintf(ProgressSummaryKey, userID), data, expiration).Err()
}

// GetCachedProgress decodes a cached summary into out, or returns ErrCacheMiss
func (c *Cache) GetCachedProgress(ctx context.Context, userID uint, out interface{}) error {
	data, err := c.client.Get(ctx, fmt.Sprintf(ProgressSummaryKey, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, out)
}

// InvalidateProgress drops a user's cached summary
func (c *Cache) InvalidateProgress(ctx context.Context, userID uint) error {
	return c.client.Del(ctx, fmt.Sprintf(ProgressSummaryKey, userID)).Err()
}

// CacheSystemHealth caches system health status
func (c *Cache) CacheSystemHealth(ctx context.Context, health []models.SystemHealth, expiration time.Duration) error {
	data, err := json.Marshal(health)
	if err != nil {
		return fmt.Errorf("failed to marshal system health: %w", err)
	}

	return c.client.Set(ctx, SystemHealthKey, data, expiration).Err()
}

// GetCachedSystemHealth retrieves cached system health
func (c *Cache) GetCachedSystemHealth(ctx context.Context) ([]models.SystemHealth, error) {
	data, err := c.client.Get(ctx, SystemHealthKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var health []models.SystemHealth
	err = json.Unmarshal(data, &health)
	return health, err
}
