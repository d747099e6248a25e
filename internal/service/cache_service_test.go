package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/redis"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *CacheService) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewCacheService(client, time.Minute, zap.NewNop(), nil)
}

func TestCacheService_NilIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *CacheService

	_, ok := c.GetSummary(ctx, "a")
	assert.False(t, ok)
	c.SetSummary(ctx, "a", &domain.NestedSummary{})
	c.InvalidateSummaries(ctx)
	assert.NoError(t, c.HealthCheck(ctx))

	disabled := NewCacheService(nil, 0, nil, nil)
	_, ok = disabled.GetStatusCounts(ctx, domain.Unrestricted())
	assert.False(t, ok)
}

func TestCacheService_Summary(t *testing.T) {
	mr, c := setupTestCache(t)
	ctx := context.Background()

	_, ok := c.GetSummary(ctx, "s")
	assert.False(t, ok)

	org := domain.NewSummary()
	org.Statuses[domain.StatusVoted] = 2
	org.Total = 2
	c.SetSummary(ctx, "s", &domain.NestedSummary{Role: domain.RoleSupervisor, Org: &org})

	got, ok := c.GetSummary(ctx, "s")
	require.True(t, ok)
	assert.Equal(t, 2, got.Org.Statuses[domain.StatusVoted])
	assert.Equal(t, 0, got.Org.Statuses[domain.StatusChance])
	assert.Equal(t, time.Minute, mr.TTL("staging:canvass:summary:s"))

	c.SetStatusCounts(ctx, domain.ActorScope("s", "l1"), domain.NewStatusCounts())
	assert.True(t, mr.Exists("staging:canvass:counts:l1,s"))

	c.InvalidateSummaries(ctx)
	assert.False(t, mr.Exists("staging:canvass:summary:s"))
	assert.False(t, mr.Exists("staging:canvass:counts:l1,s"))
}

func TestCacheService_CorruptEntryIsMiss(t *testing.T) {
	mr, c := setupTestCache(t)
	require.NoError(t, mr.Set("staging:canvass:summary:s", "{not json"))

	_, ok := c.GetSummary(context.Background(), "s")
	assert.False(t, ok)
}

func TestCacheService_HealthCheck(t *testing.T) {
	mr, c := setupTestCache(t)
	assert.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))
}
