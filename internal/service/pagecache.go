package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/stackdio/console/internal/core"
	"github.com/stackdio/console/internal/domain/model"
	apperrors "github.com/stackdio/console/internal/errors"
	"golang.org/x/sync/singleflight"
)

// DefaultPageCacheTTL keeps cached pages younger than one auto-refresh interval.
const DefaultPageCacheTTL = time.Second

// LocalPageCache is the in-process tier of the page cache. It applies its own
// TTL, which should match PageCacheConfig.TTL.
type LocalPageCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string) bool
}

// PageCacheTier names a cache tier in metric events.
type PageCacheTier string

// PageCacheOp names the operation in metric events.
type PageCacheOp string

const (
	TierLocal  PageCacheTier = "local"
	TierRedis  PageCacheTier = "redis"
	TierOrigin PageCacheTier = "origin"
)

const (
	OpHit   PageCacheOp = "hit"
	OpMiss  PageCacheOp = "miss"
	OpWrite PageCacheOp = "write"
)

// PageCacheEvent is a compact event describing a cache metric occurrence.
type PageCacheEvent struct {
	Tier PageCacheTier
	Op   PageCacheOp
	Ok   bool
}

// PageCacheMetrics is an optional hook; implementations may aggregate counters.
type PageCacheMetrics interface {
	RecordPageCacheEvent(e PageCacheEvent)
}

// NoopPageCacheMetrics is the default when no metrics are provided.
type NoopPageCacheMetrics struct{}

func (NoopPageCacheMetrics) RecordPageCacheEvent(_ PageCacheEvent) {}

// PageCacheCounters aggregates hit and miss counts per tier.
type PageCacheCounters struct {
	mu     sync.Mutex
	counts map[PageCacheEvent]uint64
}

// RecordPageCacheEvent implements PageCacheMetrics.
func (c *PageCacheCounters) RecordPageCacheEvent(e PageCacheEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[PageCacheEvent]uint64)
	}
	c.counts[e]++
}

// Count returns how many successful events were recorded for tier and op.
func (c *PageCacheCounters) Count(tier PageCacheTier, op PageCacheOp) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[PageCacheEvent{Tier: tier, Op: op, Ok: true}]
}

// PageCacheTiers groups the cache tiers. Both are optional.
type PageCacheTiers struct {
	Local LocalPageCache
	Redis core.CacheRepository
}

// PageCacheConfig tunes the cache.
type PageCacheConfig struct {
	// Scope isolates this console's entries in a shared Redis tier.
	// Build it with core.PageCacheScope.
	Scope   string
	TTL     time.Duration    // defaults to DefaultPageCacheTTL
	Metrics PageCacheMetrics // optional
	Logger  *slog.Logger     // optional
}

// CachedFetcherOptions groups dependencies for CachedFetcher.
type CachedFetcherOptions struct {
	Fetcher core.PageFetcher // Required: origin fetcher
	Tiers   PageCacheTiers   // Optional: cache tiers
	Config  PageCacheConfig  // Optional: TTL, metrics and logging
}

// CachedFetcher is a core.PageFetcher that collapses concurrent identical requests
// and serves recently fetched pages from the local and Redis tiers.
// Failures are never cached.
type CachedFetcher struct {
	origin  core.PageFetcher
	local   LocalPageCache
	redis   core.CacheRepository
	scope   string
	ttl     time.Duration
	metrics PageCacheMetrics
	logger  *slog.Logger
	group   singleflight.Group
}

var _ core.PageFetcher = (*CachedFetcher)(nil)

// NewCachedFetcher creates a CachedFetcher. It panics when the origin fetcher is nil.
func NewCachedFetcher(opts CachedFetcherOptions) *CachedFetcher {
	if opts.Fetcher == nil {
		panic("CachedFetcher requires an origin Fetcher")
	}
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultPageCacheTTL
	}
	metrics := opts.Config.Metrics
	if metrics == nil {
		metrics = NoopPageCacheMetrics{}
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFetcher{
		origin:  opts.Fetcher,
		local:   opts.Tiers.Local,
		redis:   opts.Tiers.Redis,
		scope:   opts.Config.Scope,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.With("component", "page_cache"),
	}
}

// FetchPage returns the page at url, from cache when a fresh copy exists.
func (f *CachedFetcher) FetchPage(ctx context.Context, url string) (model.Page, error) {
	key := core.PageCacheKey(f.scope, url)

	if page, ok := f.localGet(key); ok {
		return page, nil
	}

	// The shared load must not fail for every waiter when the first caller gives up.
	ch := f.group.DoChan(key, func() (any, error) {
		return f.load(context.WithoutCancel(ctx), key, url)
	})

	select {
	case <-ctx.Done():
		return model.Page{}, apperrors.MapTransportError(ctx.Err(), url)
	case res := <-ch:
		if res.Err != nil {
			return model.Page{}, res.Err
		}
		return res.Val.(model.Page), nil
	}
}

// Invalidate drops url from every tier.
func (f *CachedFetcher) Invalidate(ctx context.Context, url string) error {
	key := core.PageCacheKey(f.scope, url)
	if f.local != nil {
		f.local.Delete(key)
	}
	if f.redis == nil {
		return nil
	}
	if _, err := f.redis.Delete(ctx, key); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "invalidate cached page")
	}
	return nil
}

func (f *CachedFetcher) load(ctx context.Context, key, url string) (model.Page, error) {
	if page, ok := f.redisGet(ctx, key); ok {
		if raw, err := json.Marshal(page); err == nil {
			f.localSet(key, raw)
		}
		return page, nil
	}

	page, err := f.origin.FetchPage(ctx, url)
	if err != nil {
		f.emit(TierOrigin, OpMiss, false)
		return model.Page{}, err
	}
	f.emit(TierOrigin, OpHit, true)

	raw, err := json.Marshal(page)
	if err != nil {
		f.logger.WarnContext(ctx, "encode page for cache", "url", url, "error", err)
		return page, nil
	}
	f.localSet(key, raw)
	f.redisSet(ctx, key, raw)
	return page, nil
}

func (f *CachedFetcher) localGet(key string) (model.Page, bool) {
	if f.local == nil {
		return model.Page{}, false
	}
	raw, ok := f.local.Get(key)
	if !ok {
		f.emit(TierLocal, OpMiss, true)
		return model.Page{}, false
	}
	var page model.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		f.local.Delete(key)
		f.emit(TierLocal, OpMiss, false)
		return model.Page{}, false
	}
	f.emit(TierLocal, OpHit, true)
	return page, true
}

func (f *CachedFetcher) localSet(key string, raw []byte) {
	if f.local == nil {
		return
	}
	f.local.Set(key, raw)
	f.emit(TierLocal, OpWrite, true)
}

func (f *CachedFetcher) redisGet(ctx context.Context, key string) (model.Page, bool) {
	if f.redis == nil {
		return model.Page{}, false
	}
	raw, err := f.redis.Get(ctx, key)
	if err != nil {
		f.logger.DebugContext(ctx, "redis page lookup failed", "key", key, "error", err)
		f.emit(TierRedis, OpMiss, false)
		return model.Page{}, false
	}
	if raw == nil {
		f.emit(TierRedis, OpMiss, true)
		return model.Page{}, false
	}
	var page model.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		f.emit(TierRedis, OpMiss, false)
		return model.Page{}, false
	}
	f.emit(TierRedis, OpHit, true)
	return page, true
}

func (f *CachedFetcher) redisSet(ctx context.Context, key string, raw []byte) {
	if f.redis == nil {
		return
	}
	if err := f.redis.Set(ctx, key, raw, f.ttl); err != nil {
		f.logger.DebugContext(ctx, "redis page store failed", "key", key, "error", err)
		f.emit(TierRedis, OpWrite, false)
		return
	}
	f.emit(TierRedis, OpWrite, true)
}

func (f *CachedFetcher) emit(tier PageCacheTier, op PageCacheOp, ok bool) {
	f.metrics.RecordPageCacheEvent(PageCacheEvent{Tier: tier, Op: op, Ok: ok})
}
