package services

import (
	"context"
	"encoding/json"
	"time"

	"variant-editor-service/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sizeSystemCachePrefix = "size_system:"

// DefaultSizeSystemTTL bounds how stale a cached size system may be.
const DefaultSizeSystemTTL = 10 * time.Minute

// SizeSystemCache is a read-through Redis cache in front of a SizeSystemSource.
// Redis failures fall through to the source.
type SizeSystemCache struct {
	redis  *redis.Client
	source SizeSystemSource
	ttl    time.Duration
	logger *zap.Logger
}

func NewSizeSystemCache(rdb *redis.Client, source SizeSystemSource, ttl time.Duration, logger *zap.Logger) *SizeSystemCache {
	if ttl <= 0 {
		ttl = DefaultSizeSystemTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SizeSystemCache{redis: rdb, source: source, ttl: ttl, logger: logger}
}

func (c *SizeSystemCache) FetchSizeSystem(ctx context.Context, id string) (*models.SizeSystem, error) {
	key := sizeSystemCachePrefix + id
	if c.redis != nil {
		cached, err := c.redis.Get(ctx, key).Result()
		if err == nil {
			var sys models.SizeSystem
			if err := json.Unmarshal([]byte(cached), &sys); err == nil {
				return &sys, nil
			}
			c.logger.Warn("Failed to unmarshal cached size system", zap.String("size_system_id", id))
		} else if err != redis.Nil {
			c.logger.Warn("Size system cache read failed", zap.String("size_system_id", id), zap.Error(err))
		}
	}

	sys, err := c.source.FetchSizeSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		if b, err := json.Marshal(sys); err == nil {
			if err := c.redis.Set(ctx, key, b, c.ttl).Err(); err != nil {
				c.logger.Warn("Failed to cache size system", zap.String("size_system_id", id), zap.Error(err))
			}
		}
	}
	return sys, nil
}
