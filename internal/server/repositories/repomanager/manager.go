// Package repomanager opens the configured metadata backend, prepares it
// (ping, migrations, indexes) and optionally fronts it with the Redis list
// cache.
package repomanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/logging"
	"github.com/dmitrijs2005/clipvault/internal/server/cache"
	"github.com/dmitrijs2005/clipvault/internal/server/config"
	"github.com/dmitrijs2005/clipvault/internal/server/repositories/videos"
	"github.com/go-redis/redis/v8"
)

const cachePingTimeout = 2 * time.Second

// Manager owns the open backend connections.
type Manager struct {
	videos  videos.Repository
	closers []func(context.Context) error
}

// Videos returns the repository the rest of the server should use.
func (m *Manager) Videos() videos.Repository {
	return m.videos
}

// Close releases every connection opened by Open, in reverse order.
func (m *Manager) Close(ctx context.Context) error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

// newRedisClient is a seam for tests.
var newRedisClient = cache.NewRedisClient

// Open connects to cfg.StorageBackend. Any failure to reach or prepare the
// backend is returned; an unreachable cache is logged and skipped.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Manager, error) {
	m := &Manager{}

	switch cfg.StorageBackend {
	case config.BackendJSONFile:
		repo, err := videos.NewJSONFileRepository(cfg.MetadataFile)
		if err != nil {
			return nil, fmt.Errorf("open metadata file: %w", err)
		}
		m.videos = repo

	case config.BackendMongo:
		repo, closeFn, err := openMongo(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		m.videos = repo
		m.closers = append(m.closers, closeFn)

	case config.BackendPostgres:
		db, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		m.videos = videos.NewPostgresRepository(db)
		m.closers = append(m.closers, func(context.Context) error { return db.Close() })

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	logger.Info(ctx, "metadata storage ready", "backend", cfg.StorageBackend)

	if cfg.RedisAddr != "" {
		m.attachCache(ctx, cfg, logger)
	}
	return m, nil
}

func (m *Manager) attachCache(ctx context.Context, cfg *config.Config, logger logging.Logger) {
	client := newRedisClient(cfg.RedisAddr)

	pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn(ctx, "redis unavailable, list cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return
	}

	m.videos = videos.NewCachedRepository(m.videos, cache.NewRedisCache(client), cfg.CacheTTL, logger)
	m.closers = append(m.closers, closeRedis(client))
	logger.Info(ctx, "list cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
}

func closeRedis(client *redis.Client) func(context.Context) error {
	return func(context.Context) error { return client.Close() }
}
