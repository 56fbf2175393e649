package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/stackdio/console/config"
	"github.com/stackdio/console/internal/adapters/apiclient"
	"github.com/stackdio/console/internal/adapters/oidc"
	"github.com/stackdio/console/internal/core"
	"github.com/stackdio/console/internal/data"
	"github.com/stackdio/console/internal/observability/metrics"
	"github.com/stackdio/console/internal/observability/statsd"
	"github.com/stackdio/console/internal/screens"
	"github.com/stackdio/console/internal/service"
)

// Console holds the wired dependencies of a console session.
type Console struct {
	Config    config.AppConfig
	Logger    *slog.Logger
	Client    *apiclient.Client
	Fetcher   core.PageFetcher
	Navigator *TerminalNavigator
	Metrics   *service.PageCacheCounters

	provider *oidc.Provider
	cache    *service.CachedFetcher
	local    *data.LocalLRU
	redis    redis.UniversalClient
	statsd   *statsd.Client
}

// ConsoleDeps groups dependencies for BuildConsole.
type ConsoleDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
	Out    io.Writer // where detail documents are printed
}

// BuildConsole wires the API client, authentication, page cache and navigator.
// A Redis tier that cannot be reached is logged and skipped.
func BuildConsole(ctx context.Context, deps ConsoleDeps) (*Console, error) {
	if deps.Config == nil {
		return nil, errors.New("console config is required")
	}
	cfg := *deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Console{Config: cfg, Logger: logger, Metrics: &service.PageCacheCounters{}}

	clientCfg := apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Logger:    logger,
	}
	switch cfg.Auth.Mode {
	case config.AuthModeToken:
		clientCfg.Token = cfg.API.Token
	case config.AuthModeOAuth:
		prov, err := buildTokenProvider(ctx, cfg.Auth.OAuth)
		if err != nil {
			return nil, err
		}
		c.provider = prov
		clientCfg.TokenSource = prov
	case config.AuthModeNone:
	}

	client, err := apiclient.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	c.Client = client
	c.statsd = buildStatsd(cfg.Observability.Metrics, logger)
	c.Fetcher = client
	if c.statsd.Enabled() {
		c.Fetcher = metrics.NewInstrumentedFetcher(client, c.statsd)
	}

	if cfg.Cache.Enabled {
		c.buildCache(ctx, cfg)
	}

	c.Navigator = NewTerminalNavigator(client, deps.Out, logger)
	c.Navigator.OnReload(func(context.Context) error { return client.ResetSession() })
	if c.provider != nil {
		c.Navigator.OnReload(func(context.Context) error {
			c.provider.Invalidate()
			return nil
		})
	}
	if c.local != nil {
		c.Navigator.OnReload(func(context.Context) error {
			c.local.Purge()
			return nil
		})
	}

	logger.Debug("console initialized",
		"api", cfg.API.BaseURL,
		"auth_mode", cfg.Auth.Mode,
		"cache", cfg.Cache.Enabled,
		"redis", c.redis != nil,
		"metrics", c.statsd.Enabled(),
	)
	return c, nil
}

func buildTokenProvider(ctx context.Context, cfg config.OAuthConfig) (*oidc.Provider, error) {
	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scope:        cfg.Scope,
		DiscoveryURL: cfg.DiscoveryURL,
		Audience:     cfg.Audience,
	})
	if err != nil {
		return nil, fmt.Errorf("create token provider: %w", err)
	}
	return prov, nil
}

// buildStatsd returns a disabled client when metrics are off or the sink cannot be dialed.
func buildStatsd(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) *statsd.Client {
	client, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Warn("statsd metrics disabled", "error", err)
		client, _ = statsd.NewClient(statsd.Config{Logger: logger})
	}
	return client
}

func (c *Console) buildCache(ctx context.Context, cfg config.AppConfig) {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = service.DefaultPageCacheTTL
	}
	c.local = data.NewLocalLRU(data.LocalLRUConfig{Capacity: cfg.Cache.LocalCapacity, TTL: ttl})

	var shared core.CacheRepository
	if cfg.Cache.RedisEnabled {
		client, err := ConnectRedis(ctx, RedisOptions{Redis: cfg.Redis, Logger: c.Logger})
		if err != nil {
			c.Logger.Warn("redis page cache disabled", "error", err)
		} else {
			c.redis = client
			shared = data.NewRedisCacheRepo(client)
		}
	}

	var cacheMetrics service.PageCacheMetrics = c.Metrics
	if c.statsd.Enabled() {
		cacheMetrics = metrics.PageCache{Sink: c.statsd, Next: c.Metrics}
	}

	c.cache = service.NewCachedFetcher(service.CachedFetcherOptions{
		Fetcher: c.Fetcher,
		Tiers:   service.PageCacheTiers{Local: c.local, Redis: shared},
		Config: service.PageCacheConfig{
			Scope:   core.PageCacheScope(c.Client.BaseURL(), cachePrincipal(cfg)),
			TTL:     ttl,
			Metrics: cacheMetrics,
			Logger:  c.Logger,
		},
	})
	c.Fetcher = c.cache
}

// cachePrincipal names who the console talks to the API as. It feeds the
// cache scope only and is never logged.
func cachePrincipal(cfg config.AppConfig) string {
	switch cfg.Auth.Mode {
	case config.AuthModeToken:
		return "token:" + cfg.API.Token
	case config.AuthModeOAuth:
		o := cfg.Auth.OAuth
		return "oauth:" + o.ClientID + "@" + o.DiscoveryURL + "|" + o.Audience + "|" + o.Scope
	default:
		return "anonymous"
	}
}

// Deps returns the screen dependencies backed by this console.
func (c *Console) Deps() screens.Deps {
	return screens.Deps{Fetcher: c.Fetcher, Navigator: c.Navigator, Logger: c.Logger}
}

// Close releases the Redis connection and the metrics socket.
func (c *Console) Close() error {
	var errs []error
	if err := c.statsd.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd client: %w", err))
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis client: %w", err))
		}
	}
	return errors.Join(errs...)
}
