package bootstrap

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stackdio/console/config"
	"github.com/stackdio/console/internal/service"
	"github.com/stackdio/console/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.AppConfig {
	cfg := &config.AppConfig{
		API:   config.APIConfig{BaseURL: baseURL},
		Auth:  config.AuthConfig{Mode: config.AuthModeNone},
		Cache: config.CacheConfig{Enabled: true},
	}
	cfg.Sanitize()
	return cfg
}

func TestBuildConsole_RequiresConfig(t *testing.T) {
	_, err := BuildConsole(context.Background(), ConsoleDeps{})
	require.Error(t, err)
}

func TestBuildConsole_InvalidBaseURL(t *testing.T) {
	cfg := testConfig("ftp://stackdio.example.com")
	_, err := BuildConsole(context.Background(), ConsoleDeps{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create API client")
}

func TestBuildConsole_CachedFetcher(t *testing.T) {
	api := testutil.NewFakeAPI(t, 10)
	api.AddCollection("/api/stacks/", testutil.NewStack(1).Build(), testutil.NewStack(2).Build())

	c, err := BuildConsole(context.Background(), ConsoleDeps{Config: testConfig(api.URL)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, ok := c.Fetcher.(*service.CachedFetcher)
	require.True(t, ok, "expected the cached fetcher when the cache is enabled")

	ctx := context.Background()
	page, err := c.Fetcher.FetchPage(ctx, "/api/stacks/")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)

	_, err = c.Fetcher.FetchPage(ctx, "/api/stacks/")
	require.NoError(t, err)
	assert.Len(t, api.Requests(), 1, "second fetch should be served from cache")
	assert.Equal(t, uint64(1), c.Metrics.Count(service.TierLocal, service.OpHit))

	require.NoError(t, c.Navigator.Reload(ctx))
	assert.Equal(t, 1, c.Navigator.Reloads())

	_, err = c.Fetcher.FetchPage(ctx, "/api/stacks/")
	require.NoError(t, err)
	assert.Len(t, api.Requests(), 2, "reload should purge cached pages")
}

func TestCachePrincipal(t *testing.T) {
	tokenA := *testConfig("https://stackdio.example.com")
	tokenA.Auth.Mode = config.AuthModeToken
	tokenA.API.Token = "token-a"
	tokenB := tokenA
	tokenB.API.Token = "token-b"

	oauthA := *testConfig("https://stackdio.example.com")
	oauthA.Auth.Mode = config.AuthModeOAuth
	oauthA.Auth.OAuth = config.OAuthConfig{ClientID: "console-a", DiscoveryURL: "https://idp.example.com"}
	oauthB := oauthA
	oauthB.Auth.OAuth.ClientID = "console-b"

	principals := []string{
		cachePrincipal(tokenA),
		cachePrincipal(tokenB),
		cachePrincipal(oauthA),
		cachePrincipal(oauthB),
		cachePrincipal(*testConfig("https://stackdio.example.com")),
	}
	seen := map[string]bool{}
	for _, p := range principals {
		assert.False(t, seen[p], "principal %q repeated", p)
		seen[p] = true
	}
}

func TestBuildConsole_CacheDisabled(t *testing.T) {
	api := testutil.NewFakeAPI(t, 10)
	cfg := testConfig(api.URL)
	cfg.Cache.Enabled = false

	c, err := BuildConsole(context.Background(), ConsoleDeps{Config: cfg})
	require.NoError(t, err)

	assert.Same(t, c.Client, c.Fetcher)
	deps := c.Deps()
	assert.Same(t, c.Navigator, deps.Navigator)
}

func TestBuildConsole_UnreachableRedisIsSkipped(t *testing.T) {
	api := testutil.NewFakeAPI(t, 10)
	api.AddCollection("/api/stacks/", testutil.NewStack(1).Build())
	cfg := testConfig(api.URL)
	cfg.Cache.RedisEnabled = true
	cfg.Redis = config.RedisConfig{URI: "127.0.0.1:1"}

	c, err := BuildConsole(context.Background(), ConsoleDeps{Config: cfg})
	require.NoError(t, err)
	assert.Nil(t, c.redis)

	_, err = c.Fetcher.FetchPage(context.Background(), "/api/stacks/")
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestBuildConsole_NavigatePrintsDetail(t *testing.T) {
	api := testutil.NewFakeAPI(t, 10)
	api.AddCollection("/api/stacks/", testutil.NewStack(7).WithTitle("billing").Build())

	var out bytes.Buffer
	c, err := BuildConsole(context.Background(), ConsoleDeps{Config: testConfig(api.URL), Out: &out})
	require.NoError(t, err)

	require.NoError(t, c.Navigator.Navigate(context.Background(), "/api/stacks/7/"))
	assert.Contains(t, out.String(), `"title": "billing"`)
}

func TestBuildConsole_OAuthDiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	cfg := testConfig("https://stackdio.example.com")
	cfg.Auth = config.AuthConfig{
		Mode: config.AuthModeOAuth,
		OAuth: config.OAuthConfig{
			ClientID:     "console",
			ClientSecret: "secret",
			DiscoveryURL: srv.URL + "/.well-known/openid-configuration",
		},
	}

	_, err := BuildConsole(context.Background(), ConsoleDeps{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create token provider")
}

func TestBuildConsole_StatsdMetrics(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	api := testutil.NewFakeAPI(t, 10)
	api.AddCollection("/api/stacks/", testutil.NewStack(1).Build())
	cfg := testConfig(api.URL)
	cfg.Observability.Metrics = config.ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: pc.LocalAddr().String(),
		Prefix:        "console",
	}

	c, err := BuildConsole(context.Background(), ConsoleDeps{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, err = c.Fetcher.FetchPage(context.Background(), "/api/stacks/")
	require.NoError(t, err)

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	seen := map[string]bool{}
	buf := make([]byte, 512)
	for range 4 {
		n, _, readErr := pc.ReadFrom(buf)
		if readErr != nil {
			break
		}
		name, _, _ := strings.Cut(string(buf[:n]), ":")
		seen[name] = true
	}
	assert.True(t, seen["console.api.fetch"], "missing api.fetch in %v", seen)
	assert.True(t, seen["console.page_cache.miss"] || seen["console.page_cache.write"], "missing cache metrics in %v", seen)
}
