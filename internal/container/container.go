package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/authz"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/config"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/handler"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository/sqlite"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service/auth"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/metrics"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	Registry    *prometheus.Registry
	Repos       *repository.Repositories
	Services    *service.Services

	storeHealth handler.HealthCheck
	closeStore  func()
}

// New creates a new dependency injection container. The store must be
// reachable; Redis is optional and the service runs uncached without it.
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}

	// Initialize Redis client if Redis URL is configured
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			c.RedisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without caching")
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(c.Registry)

	az, err := authz.NewService(logger.Logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build authorization policy: %w", err)
	}

	var cache *service.CacheService
	if c.RedisClient != nil {
		cache = service.NewCacheService(c.RedisClient, cfg.SummaryCacheTTL, logger.Logger, m)
	}

	c.Services = service.NewServices(service.Deps{
		Repos:   c.Repos,
		Authz:   az,
		Cache:   cache,
		Metrics: m,
		Logger:  logger.Logger,
	})
	c.Services.Auth = auth.NewService(cfg.JWTSecret, logger)

	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.DatabaseDriver {
	case config.DriverPostgres:
		pg, err := database.NewPostgresDB(ctx, c.Config.DatabaseURL, c.Config.Environment)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		c.Repos = repository.NewPostgresRepositories(pg)
		c.storeHealth = pg.Health
		c.closeStore = pg.Close
		c.Logger.Info("Postgres store connected")
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(c.Config.SQLitePath)
		if err != nil {
			return err
		}
		if err := sqlite.Migrate(db.DB); err != nil {
			_ = db.Close()
			return err
		}
		c.Repos = sqlite.NewRepositories(db.DB)
		c.storeHealth = db.Health
		c.closeStore = func() {
			if err := db.Close(); err != nil {
				c.Logger.WithError(err).Error("Failed to close sqlite store")
			}
		}
		c.Logger.WithField("path", c.Config.SQLitePath).Info("SQLite store opened")
	default:
		return fmt.Errorf("unknown database driver %q", c.Config.DatabaseDriver)
	}
	return nil
}

// HealthChecks returns the probes reported by /health. The cache probe is
// nil when Redis is not configured.
func (c *Container) HealthChecks() map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{"store": c.storeHealth, "cache": nil}
	if c.RedisClient != nil {
		checks["cache"] = c.RedisClient.Health
	}
	return checks
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close releases the cache client and the store
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Error("Failed to close Redis client")
		}
		c.RedisClient = nil
	}
	if c.closeStore != nil {
		c.closeStore()
		c.closeStore = nil
	}
}
