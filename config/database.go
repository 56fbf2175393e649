package config

import "time"

const (
	defaultPageCacheTTL      = time.Second
	defaultPageCacheCapacity = 256
)

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig controls the page cache placed in front of the API.
type CacheConfig struct {
	// Enabled turns on the in-process page cache and request collapsing.
	Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`

	// RedisEnabled adds Redis as a shared second tier.
	RedisEnabled bool `env:"CACHE_REDIS_ENABLED" envDefault:"false"`

	// TTL is how long a fetched page may be served from cache.
	// Keep it below LIST_REFRESH_INTERVAL or refreshes will show stale pages.
	TTL time.Duration `env:"CACHE_PAGE_TTL" envDefault:"1s"`

	// LocalCapacity is the number of pages kept in process.
	LocalCapacity int `env:"CACHE_LOCAL_CAPACITY" envDefault:"256"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.TTL <= 0 {
		c.TTL = defaultPageCacheTTL
	}
	if c.LocalCapacity <= 0 {
		c.LocalCapacity = defaultPageCacheCapacity
	}
	if !c.Enabled {
		c.RedisEnabled = false
	}
}
