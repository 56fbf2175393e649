package config

import (
	"fmt"
	"strings"
)

// AuthMode represents how the console authenticates against the API.
type AuthMode string

const (
	// AuthModeToken sends the static STACKDIO_API_TOKEN.
	AuthModeToken AuthMode = "token"
	// AuthModeOAuth obtains bearer tokens with the OAuth2 client credentials grant.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeNone sends no credentials (session cookies only).
	AuthModeNone AuthMode = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "token", "oauth", "none":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: token, oauth, none)", v)
	}
}

// OAuthConfig contains OIDC client credentials configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	Audience     string `env:"AUDIENCE"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines how requests are authenticated.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"token"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`
}

// Sanitize trims credentials and falls back to anonymous access when the
// selected mode lacks what it needs.
func (a *AuthConfig) Sanitize(token string) {
	a.OAuth.ClientID = strings.TrimSpace(a.OAuth.ClientID)
	a.OAuth.ClientSecret = strings.TrimSpace(a.OAuth.ClientSecret)
	a.OAuth.DiscoveryURL = strings.TrimSpace(a.OAuth.DiscoveryURL)

	switch a.Mode {
	case AuthModeToken:
		if token == "" {
			a.Mode = AuthModeNone
		}
	case AuthModeOAuth:
		if !a.OAuth.Complete() {
			a.Mode = AuthModeNone
		}
	case AuthModeNone:
	default:
		a.Mode = AuthModeToken
		if token == "" {
			a.Mode = AuthModeNone
		}
	}
}

// Complete reports whether the client credentials flow can run.
func (o OAuthConfig) Complete() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.DiscoveryURL != ""
}
