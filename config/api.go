package config

import (
	"strings"
	"time"
)

const (
	defaultAPITimeout = 30 * time.Second
	defaultUserAgent  = "stackdio-console"
)

// APIConfig contains the orchestration API endpoint configuration.
type APIConfig struct {
	// BaseURL is the API host root (e.g., "https://stackdio.example.com").
	BaseURL string `env:"STACKDIO_API_URL" envDefault:"http://localhost:8000"`

	// Token is a static API token. Used when AUTH_MODE=token.
	Token string `env:"STACKDIO_API_TOKEN"`

	// Timeout bounds every API request.
	Timeout time.Duration `env:"STACKDIO_API_TIMEOUT" envDefault:"30s"`

	// UserAgent is sent with every API request.
	UserAgent string `env:"STACKDIO_USER_AGENT" envDefault:"stackdio-console"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	a.Token = strings.TrimSpace(a.Token)
	if a.Timeout <= 0 {
		a.Timeout = defaultAPITimeout
	}
	if a.UserAgent = strings.TrimSpace(a.UserAgent); a.UserAgent == "" {
		a.UserAgent = defaultUserAgent
	}
}
