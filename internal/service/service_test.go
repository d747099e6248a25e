package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/authz"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository/sqlite"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
	apperrors "github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/metrics"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/redis"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// testClock hands out strictly increasing times
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	ctx    context.Context
	repos  *repository.Repositories
	svc    *Services
	scopes *ScopeResolver
	mr     *miniredis.Miniredis

	admin, s, l1, l2, s2, l3 *domain.Actor
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	withCache bool
}

func withCache() fixtureOption {
	return func(c *fixtureConfig) { c.withCache = true }
}

// newFixture builds the services over a temp sqlite store seeded with
// admin, supervisor s with leaders l1 and l2, supervisor s2 with leader l3
// and members m1..m4.
func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	var cfg fixtureConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "canvass.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(db.DB))
	repos := sqlite.NewRepositories(db.DB)

	f := &fixture{ctx: context.Background(), repos: repos}

	actors := []*domain.Actor{
		{ID: "admin", Role: domain.RoleAdmin, ShortCode: "ADM", Name: "Ada"},
		{ID: "s", Role: domain.RoleSupervisor, ShortCode: "S1", Name: "Sam"},
		{ID: "l1", Role: domain.RoleTeamLeader, SupervisorID: "s", ShortCode: "L1", Name: "Lee"},
		{ID: "l2", Role: domain.RoleTeamLeader, SupervisorID: "s", ShortCode: "L2", Name: "Lou"},
		{ID: "s2", Role: domain.RoleSupervisor, ShortCode: "S2", Name: "Sol"},
		{ID: "l3", Role: domain.RoleTeamLeader, SupervisorID: "s2", ShortCode: "L3", Name: "Liv"},
	}
	for _, a := range actors {
		a.CreatedAt = epoch
		require.NoError(t, repos.Actor.Create(f.ctx, a))
	}
	f.admin, f.s, f.l1, f.l2, f.s2, f.l3 = actors[0], actors[1], actors[2], actors[3], actors[4], actors[5]

	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		require.NoError(t, repos.Member.Upsert(f.ctx, &domain.Member{ID: id, FullName: "Member " + id}))
	}

	az, err := authz.NewService(zap.NewNop())
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())

	var cache *CacheService
	if cfg.withCache {
		f.mr = miniredis.RunT(t)
		client, err := redis.NewClient("redis://"+f.mr.Addr(), "test", zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })
		cache = NewCacheService(client, time.Minute, zap.NewNop(), m)
	}

	clock := &testClock{now: epoch}
	f.svc = NewServices(Deps{
		Repos:   repos,
		Authz:   az,
		Cache:   cache,
		Metrics: m,
		Logger:  zap.NewNop(),
		Now:     clock.Now,
	})
	f.scopes = NewScopeResolver(repos.Actor)
	return f
}

func (f *fixture) write(t *testing.T, actor *domain.Actor, memberID string, st domain.Status) *domain.StatusRecord {
	t.Helper()
	rec, err := f.svc.Status.Write(f.ctx, actor, memberID, &domain.WriteStatusRequest{Status: string(st)})
	require.NoError(t, err)
	return rec
}

func assertErrorType(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, apperrors.As(err).Type, "unexpected error: %v", err)
}

func recordIDs(records []domain.StatusRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}
