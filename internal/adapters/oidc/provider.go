package oidc

// Package oidc obtains API bearer tokens from an OpenID Connect provider using
// the client credentials grant.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Provider issues access tokens for the console's service account.
// It implements oauth2.TokenSource.
type Provider struct {
	config     *clientcredentials.Config
	httpClient *http.Client

	mu     sync.Mutex
	source oauth2.TokenSource
}

var _ oauth2.TokenSource = (*Provider)(nil)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	Audience     string
	HTTPClient   *http.Client // Optional, defaults to a client with a 30s timeout
}

// DiscoveryDocument represents the subset of the OIDC discovery document the provider reads.
type DiscoveryDocument struct {
	Issuer        string `json:"issuer"`
	TokenEndpoint string `json:"token_endpoint"`
	JwksURI       string `json:"jwks_uri"`
}

// NewProvider discovers the token endpoint and returns a provider ready to mint tokens.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	tokenURL := op.Endpoint().TokenURL
	if tokenURL == "" {
		return nil, errors.New("discovery document has no token endpoint")
	}

	cc := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       strings.Fields(config.Scope),
	}
	if config.Audience != "" {
		cc.EndpointParams = map[string][]string{"audience": {config.Audience}}
	}

	p := &Provider{config: cc, httpClient: httpClient}
	p.source = p.newSource()
	return p, nil
}

// TokenURL returns the discovered token endpoint.
func (p *Provider) TokenURL() string {
	return p.config.TokenURL
}

// Token returns a cached token, fetching a new one once it expires.
func (p *Provider) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	src := p.source
	p.mu.Unlock()

	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("client credentials token: %w", err)
	}
	return tok, nil
}

// Invalidate drops the cached token so the next call to Token fetches a fresh one.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.source = p.newSource()
	p.mu.Unlock()
}

func (p *Provider) newSource() oauth2.TokenSource {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, p.httpClient)
	return p.config.TokenSource(ctx)
}
