package videos

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/logging"
	"github.com/dmitrijs2005/clipvault/internal/server/models"
)

// ListCacheKey prefixes the cache entries holding a serialized List result.
// Each entry is suffixed with the generation it was read under.
const ListCacheKey = "clipvault:videos:list"

// GenerationKey is a counter bumped after every successful write.
const GenerationKey = "clipvault:videos:gen"

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the small key/value surface CachedRepository needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// CachedRepository memoizes List in a Cache. Put and Delete go to the backend
// first and then bump the shared generation, so list entries written by
// readers that started earlier are never read again. Cache errors never fail
// a call. If a bump fails the cache is bypassed until a later bump succeeds.
type CachedRepository struct {
	Repository
	cache  Cache
	ttl    time.Duration
	logger logging.Logger

	mu sync.Mutex
	// ticket orders bumps; staleAt is the ticket of the latest failed bump
	// not yet followed by a successful one.
	ticket  uint64
	staleAt uint64
}

var _ Repository = (*CachedRepository)(nil)

func NewCachedRepository(next Repository, cache Cache, ttl time.Duration, logger logging.Logger) *CachedRepository {
	return &CachedRepository{
		Repository: next,
		cache:      cache,
		ttl:        ttl,
		logger:     logger.With("module", "video_cache"),
	}
}

func listKey(gen int64) string {
	return ListCacheKey + ":" + strconv.FormatInt(gen, 10)
}

func (r *CachedRepository) List(ctx context.Context) ([]*models.Video, error) {
	key, ok := r.currentKey(ctx)
	if !ok {
		return r.Repository.List(ctx)
	}

	b, err := r.cache.Get(ctx, key)
	if err == nil {
		var items []*models.Video
		if err := json.Unmarshal(b, &items); err == nil {
			return items, nil
		}
		r.logger.Warn(ctx, "discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn(ctx, "cache read failed", "error", err)
	}

	items, err := r.Repository.List(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(items); err == nil {
		if err := r.cache.Set(ctx, key, b, r.ttl); err != nil {
			r.logger.Warn(ctx, "cache write failed", "error", err)
		}
	}
	return items, nil
}

func (r *CachedRepository) Put(ctx context.Context, v *models.Video) error {
	if err := r.Repository.Put(ctx, v); err != nil {
		return err
	}
	r.bump(ctx)
	return nil
}

func (r *CachedRepository) Delete(ctx context.Context, id string) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.bump(ctx)
	return nil
}

// currentKey returns the list entry for the current generation. ok is false
// when the cache must not be used.
func (r *CachedRepository) currentKey(ctx context.Context) (string, bool) {
	r.mu.Lock()
	stale := r.staleAt != 0
	r.mu.Unlock()
	if stale && !r.bump(ctx) {
		return "", false
	}

	b, err := r.cache.Get(ctx, GenerationKey)
	switch {
	case errors.Is(err, ErrCacheMiss):
		return listKey(0), true
	case err != nil:
		r.logger.Warn(ctx, "cache generation read failed", "error", err)
		return "", false
	}
	gen, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		r.logger.Warn(ctx, "bad cache generation", "value", string(b))
		return "", false
	}
	return listKey(gen), true
}

func (r *CachedRepository) bump(ctx context.Context) bool {
	r.mu.Lock()
	r.ticket++
	t := r.ticket
	r.mu.Unlock()

	_, err := r.cache.Incr(ctx, GenerationKey)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		if t > r.staleAt {
			r.staleAt = t
		}
		r.logger.Warn(ctx, "cache invalidation failed, bypassing cache", "error", err)
		return false
	}
	if t < r.staleAt {
		return false
	}
	r.staleAt = 0
	return true
}
