// Package core provides the ports and shared services of the console list engine.
package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CacheRepository defines the interface for caching operations.
// This follows the hexagonal architecture pattern where the core defines interfaces
// and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// PageCacheKeyPrefix namespaces cached page objects in shared caches.
const PageCacheKeyPrefix = "stackdio:console:page:"

// PageCacheScope fingerprints the API root and the principal a console talks
// to it as. Consoles with different scopes never read each other's pages.
func PageCacheScope(apiRoot, principal string) string {
	sum := sha256.Sum256([]byte(apiRoot + "\x00" + principal))
	return hex.EncodeToString(sum[:8])
}

// PageCacheKey builds the cache key for a page URL within scope.
func PageCacheKey(scope, url string) string {
	return PageCacheKeyPrefix + scope + ":" + url
}
