package config

import (
	"log/slog"
	"os"
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		// t.Setenv restores the original value after the test.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	unsetEnv(t, "NODE_ENV", "DEV", "AUTH_MODE", "STACKDIO_API_URL", "STACKDIO_API_TOKEN",
		"LIST_REFRESH_INTERVAL", "CACHE_ENABLED", "CACHE_REDIS_ENABLED", "REDIS_URI", "LOG_FORMAT")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.IsDev {
		t.Fatalf("expected production mode by default")
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected base URL %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Auth.Mode != AuthModeNone {
		t.Fatalf("expected anonymous mode without a token, got %q", cfg.Auth.Mode)
	}
	if cfg.List.RefreshInterval != 3*time.Second {
		t.Fatalf("unexpected refresh interval %v", cfg.List.RefreshInterval)
	}
	if !cfg.Cache.Enabled || cfg.Cache.RedisEnabled {
		t.Fatalf("expected local cache only, got %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != time.Second || cfg.Cache.LocalCapacity != 256 {
		t.Fatalf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Redis.URI != "localhost:6379" {
		t.Fatalf("unexpected redis URI %q", cfg.Redis.URI)
	}
	if cfg.Observability.LogFormat != LogFormatJSON {
		t.Fatalf("expected json logs outside development, got %q", cfg.Observability.LogFormat)
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("OAUTH_CLIENT_ID", "console-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "stackdio.read")
	t.Setenv("OAUTH_AUDIENCE", "stackdio")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "console-client",
			ClientSecret: "super-secret",
			Scope:        "stackdio.read",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
			Audience:     "stackdio",
		},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_InvalidAuthMode(t *testing.T) {
	t.Setenv("AUTH_MODE", "kerberos")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatalf("expected parse error for unknown auth mode")
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name  string
		cfg   AuthConfig
		token string
		want  AuthMode
	}{
		{name: "token with token", cfg: AuthConfig{Mode: AuthModeToken}, token: "abc", want: AuthModeToken},
		{name: "token without token", cfg: AuthConfig{Mode: AuthModeToken}, want: AuthModeNone},
		{name: "oauth incomplete", cfg: AuthConfig{Mode: AuthModeOAuth, OAuth: OAuthConfig{ClientID: "id"}}, want: AuthModeNone},
		{
			name: "oauth complete",
			cfg: AuthConfig{Mode: AuthModeOAuth, OAuth: OAuthConfig{
				ClientID:     " id ",
				ClientSecret: "secret",
				DiscoveryURL: "https://login.example.com",
			}},
			want: AuthModeOAuth,
		},
		{name: "empty mode with token", cfg: AuthConfig{}, token: "abc", want: AuthModeToken},
		{name: "none stays none", cfg: AuthConfig{Mode: AuthModeNone}, token: "abc", want: AuthModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Sanitize(tt.token)
			if cfg.Mode != tt.want {
				t.Errorf("Sanitize() mode = %q, want %q", cfg.Mode, tt.want)
			}
		})
	}
}

func TestAPIConfig_Sanitize(t *testing.T) {
	cfg := APIConfig{
		BaseURL:   " https://stackdio.example.com/ ",
		Token:     " abc ",
		Timeout:   -1,
		UserAgent: " ",
	}

	cfg.Sanitize()

	if cfg.BaseURL != "https://stackdio.example.com" {
		t.Fatalf("expected base URL to be trimmed, got %q", cfg.BaseURL)
	}
	if cfg.Token != "abc" {
		t.Fatalf("expected token to be trimmed, got %q", cfg.Token)
	}
	if cfg.Timeout != defaultAPITimeout {
		t.Fatalf("expected timeout to fall back to default, got %v", cfg.Timeout)
	}
	if cfg.UserAgent != defaultUserAgent {
		t.Fatalf("expected default user agent, got %q", cfg.UserAgent)
	}
}

func TestListConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{name: "zero", in: 0, want: defaultRefreshInterval},
		{name: "too small", in: 10 * time.Millisecond, want: minRefreshInterval},
		{name: "kept", in: 10 * time.Second, want: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ListConfig{RefreshInterval: tt.in}
			cfg.Sanitize()
			if cfg.RefreshInterval != tt.want {
				t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, tt.want)
			}
		})
	}
}

func TestCacheConfig_Sanitize(t *testing.T) {
	cfg := CacheConfig{Enabled: false, RedisEnabled: true, TTL: 0, LocalCapacity: -5}

	cfg.Sanitize()

	if cfg.RedisEnabled {
		t.Fatalf("expected redis tier to be disabled with the cache off")
	}
	if cfg.TTL != defaultPageCacheTTL {
		t.Fatalf("expected default TTL, got %v", cfg.TTL)
	}
	if cfg.LocalCapacity != defaultPageCacheCapacity {
		t.Fatalf("expected default capacity, got %d", cfg.LocalCapacity)
	}
}

func TestObservabilityConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityConfig{LogLevel: " DEBUG "}
	cfg.Sanitize(true)

	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.Level())
	}
	if cfg.LogFormat != LogFormatText {
		t.Fatalf("expected text logs in development, got %q", cfg.LogFormat)
	}

	cfg = ObservabilityConfig{LogLevel: "verbose", LogFormat: LogFormatJSON}
	cfg.Sanitize(true)

	if cfg.LogLevel != "info" || cfg.Level() != slog.LevelInfo {
		t.Fatalf("expected unknown level to fall back to info, got %q", cfg.LogLevel)
	}
	if cfg.LogFormat != LogFormatJSON {
		t.Fatalf("expected explicit format to be kept, got %q", cfg.LogFormat)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatalf("expected NODE_ENV=development to enable dev mode")
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}
	if cfg.Prefix != defaultMetricsPrefix {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
		Prefix:        "console",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}
