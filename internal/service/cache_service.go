package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/metrics"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/redis"
)

// CacheService is a cache-aside layer for aggregator read models.
// A nil *CacheService, or one without a client, caches nothing.
type CacheService struct {
	redis   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *CacheService {
	if ttl <= 0 {
		ttl = redis.TTLSummary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		redis:   redisClient,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

func (c *CacheService) enabled() bool {
	return c != nil && c.redis != nil
}

// GetSummary returns the cached nested summary for a viewer
func (c *CacheService) GetSummary(ctx context.Context, viewerID string) (*domain.NestedSummary, bool) {
	if !c.enabled() {
		return nil, false
	}
	var summary domain.NestedSummary
	hit := c.get(ctx, c.redis.KeyBuilder.KeySummary(viewerID), &summary)
	c.metrics.SummaryCache(hit)
	if !hit {
		return nil, false
	}
	return &summary, true
}

// SetSummary caches a viewer's nested summary for the configured TTL
func (c *CacheService) SetSummary(ctx context.Context, viewerID string, summary *domain.NestedSummary) {
	if !c.enabled() || summary == nil {
		return
	}
	c.set(ctx, c.redis.KeyBuilder.KeySummary(viewerID), summary)
}

// GetStatusCounts returns the cached status tally for a scope
func (c *CacheService) GetStatusCounts(ctx context.Context, scope domain.Scope) (domain.StatusCounts, bool) {
	if !c.enabled() {
		return nil, false
	}
	var counts domain.StatusCounts
	if !c.get(ctx, c.redis.KeyBuilder.KeyStatusCounts(scope.Key()), &counts) {
		return nil, false
	}
	return counts, true
}

// SetStatusCounts caches the status tally for a scope
func (c *CacheService) SetStatusCounts(ctx context.Context, scope domain.Scope, counts domain.StatusCounts) {
	if !c.enabled() {
		return
	}
	c.set(ctx, c.redis.KeyBuilder.KeyStatusCounts(scope.Key()), counts)
}

// InvalidateSummaries drops every cached read model. Called after each ledger write.
func (c *CacheService) InvalidateSummaries(ctx context.Context) {
	if !c.enabled() {
		return
	}
	patterns := []string{
		c.redis.KeyBuilder.KeySummaryPattern(),
		c.redis.KeyBuilder.KeyStatusCountsPattern(),
	}
	for _, pattern := range patterns {
		if err := c.redis.InvalidatePattern(ctx, pattern); err != nil {
			c.logger.Error("Failed to invalidate cache pattern",
				zap.String("pattern", pattern),
				zap.Error(err))
		}
	}
}

// HealthCheck performs a health check on the cache system
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	start := time.Now()
	err := c.redis.Health(ctx)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Cache health check failed",
			zap.Duration("duration", duration),
			zap.Error(err))
		return err
	}

	c.logger.Debug("Cache health check passed", zap.Duration("duration", duration))
	return nil
}

func (c *CacheService) get(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.redis.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Cache errors fall through to the store
			c.logger.Warn("Cache read failed, falling back to database", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		c.logger.Warn("Cache entry corrupted, falling back to database", zap.Error(err))
		return false
	}
	return true
}

func (c *CacheService) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("Failed to marshal cache entry", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.Error("Failed to write cache entry", zap.Error(err))
	}
}
