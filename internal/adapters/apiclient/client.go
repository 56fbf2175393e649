// Package apiclient talks to the orchestration REST API on behalf of the console.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stackdio/console/internal/core"
	"github.com/stackdio/console/internal/domain/model"
	apperrors "github.com/stackdio/console/internal/errors"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"
)

// RequestIDHeader carries a per-request identifier the API echoes into its logs.
const RequestIDHeader = "X-Request-ID"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "stackdio-console"
	maxErrorBody     = 4 << 10
	maxRawBody       = 8 << 20
)

var _ core.PageFetcher = (*Client)(nil)

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is the API host root (e.g., "https://stackdio.example.com"). Required.
	BaseURL string
	// Token is a static API token sent as "Authorization: Token <token>". Optional.
	Token string
	// TokenSource supplies bearer tokens. Takes precedence over Token. Optional.
	TokenSource oauth2.TokenSource
	// Timeout bounds every request. Defaults to 30s.
	Timeout time.Duration
	// UserAgent defaults to "stackdio-console".
	UserAgent string
	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client fetches page objects and detail documents from the API.
type Client struct {
	root      *url.URL
	token     string
	userAgent string
	logger    *slog.Logger

	mu         sync.RWMutex
	httpClient *http.Client
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, apperrors.ValidationField("base_url", "API base URL is required")
	}
	root, err := url.Parse(strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/") + "/")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "parse API base URL")
	}
	if root.Scheme != "http" && root.Scheme != "https" {
		return nil, apperrors.Validationf("API base URL must be http or https, got %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if cfg.TokenSource != nil {
		transport = &oauth2.Transport{Source: cfg.TokenSource, Base: transport}
	}

	c := &Client{
		root:      root,
		token:     cfg.Token,
		userAgent: userAgent,
		logger:    logger,
	}
	if cfg.TokenSource != nil {
		c.token = ""
	}

	hc, err := newHTTPClient(transport, timeout)
	if err != nil {
		return nil, err
	}
	c.httpClient = hc
	return c, nil
}

func newHTTPClient(transport http.RoundTripper, timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &http.Client{Transport: transport, Jar: jar, Timeout: timeout}, nil
}

// ResetSession drops the session cookies so the next request starts a fresh session.
func (c *Client) ResetSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	hc, err := newHTTPClient(c.httpClient.Transport, c.httpClient.Timeout)
	if err != nil {
		return err
	}
	c.httpClient = hc
	return nil
}

// BaseURL returns the normalized API root, always ending in a slash.
func (c *Client) BaseURL() string {
	return c.root.String()
}

// Resolve turns a path relative to the API root, or an absolute link, into an absolute URL.
func (c *Client) Resolve(target string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return "", apperrors.Wrapf(err, apperrors.ErrCodeValidation, "parse URL %q", target)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	ref.Path = strings.TrimPrefix(ref.Path, "/")
	return c.root.ResolveReference(ref).String(), nil
}

// FetchPage retrieves one page object from a list endpoint.
func (c *Client) FetchPage(ctx context.Context, target string) (model.Page, error) {
	var page model.Page
	if err := c.GetJSON(ctx, target, &page); err != nil {
		return model.Page{}, err
	}
	return page, nil
}

// GetJSON issues a GET against target and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, target string, out any) error {
	resp, err := c.get(ctx, target)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body", "error", cerr)
		}
	}()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "decode response from %s", target)
	}
	return nil
}

// GetRaw issues a GET against target and returns the raw JSON body.
func (c *Client) GetRaw(ctx context.Context, target string) (json.RawMessage, error) {
	resp, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body", "error", cerr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRawBody+1))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "read response from %s", target)
	}
	if len(body) > maxRawBody {
		return nil, apperrors.Internalf("response from %s exceeds %d bytes", target, maxRawBody)
	}
	if !json.Valid(body) {
		return nil, apperrors.Internalf("response from %s is not JSON", target)
	}
	return body, nil
}

// get performs the request and returns the response when the status is 2xx.
// The caller closes the body.
func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	abs, err := c.Resolve(target)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, abs, nil)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "build request for %s", abs)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	c.mu.RLock()
	hc := c.httpClient
	c.mu.RUnlock()

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return nil, apperrors.MapTransportError(unwrapURLError(err), abs)
	}
	c.logger.DebugContext(ctx, "api request",
		"url", abs,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if statusErr := apperrors.MapHTTPStatus(resp.StatusCode, abs); statusErr != nil {
		detail := readErrorDetail(resp.Body)
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body", "error", cerr)
		}
		var appErr *apperrors.AppError
		if detail != "" && errors.As(statusErr, &appErr) {
			appErr.Message += ": " + detail
		}
		return nil, statusErr
	}
	return resp, nil
}

// readErrorDetail extracts the "detail" message the API puts in error bodies.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Detail != "" {
		return payload.Detail
	}
	return ""
}

// unwrapURLError strips the *url.Error wrapper so context errors stay recognisable.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		if errors.Is(urlErr.Err, context.Canceled) || errors.Is(urlErr.Err, context.DeadlineExceeded) {
			return urlErr.Err
		}
	}
	return err
}
