package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"franchise-api/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachedRepository serves FindByID from a cache and falls back to the wrapped
// repository on a miss. Writes go to the wrapped repository first, then drop
// the cached entry. Cache failures never fail the call.
//
// Every write bumps a per-id generation. A miss only fills the cache when the
// generation it saw before reading the wrapped repository is still current, so
// a slow reader cannot put back an aggregate that a finished write replaced.
type CachedRepository struct {
	inner  Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger

	mu   sync.Mutex
	gens map[string]uint64
}

func NewCachedRepository(inner Repository, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRepository{inner: inner, cache: cache, ttl: ttl, logger: logger, gens: make(map[string]uint64)}
}

func cacheKey(id string) string {
	return "franchise:" + id
}

func (r *CachedRepository) Save(ctx context.Context, f models.Franchise) (models.Franchise, error) {
	saved, err := r.inner.Save(ctx, f)
	if err != nil {
		return models.Franchise{}, err
	}
	r.invalidate(ctx, saved.ID)
	return saved, nil
}

func (r *CachedRepository) FindByID(ctx context.Context, id string) (models.Franchise, bool, error) {
	raw, err := r.cache.Get(ctx, cacheKey(id))
	switch {
	case err == nil:
		var f models.Franchise
		jsonErr := json.Unmarshal(raw, &f)
		if jsonErr == nil {
			return f, true, nil
		}
		r.logger.Warn("discarding undecodable cache entry", zap.String("franchise_id", id), zap.Error(jsonErr))
	case !errors.Is(err, ErrCacheMiss):
		r.logger.Warn("cache read failed", zap.String("franchise_id", id), zap.Error(err))
	}

	gen := r.generation(id)
	f, found, err := r.inner.FindByID(ctx, id)
	if err != nil || !found {
		return f, found, err
	}
	r.fill(ctx, f, gen)
	return f, true, nil
}

// FindByIDForUpdate bypasses the cache. The load before a write must see
// every write that finished before it started.
func (r *CachedRepository) FindByIDForUpdate(ctx context.Context, id string) (models.Franchise, bool, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *CachedRepository) FindAll(ctx context.Context) ([]models.Franchise, error) {
	return r.inner.FindAll(ctx)
}

func (r *CachedRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.inner.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedRepository) generation(id string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gens[id]
}

// fill stores f unless a write for the same id has happened since gen was read.
func (r *CachedRepository) fill(ctx context.Context, f models.Franchise, gen uint64) {
	encoded, err := json.Marshal(f)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gens[f.ID] != gen {
		r.logger.Debug("skipping cache fill after concurrent write", zap.String("franchise_id", f.ID))
		return
	}
	if err := r.cache.Set(ctx, cacheKey(f.ID), encoded, r.ttl); err != nil {
		r.logger.Warn("cache write failed", zap.String("franchise_id", f.ID), zap.Error(err))
	}
}

func (r *CachedRepository) invalidate(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[id]++
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		r.logger.Warn("cache invalidation failed", zap.String("franchise_id", id), zap.Error(err))
	}
}

// RedisCache implements Cache on top of a go-redis client.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache parses a redis:// URL and returns a cache bound to it.
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return &RedisCache{Client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
