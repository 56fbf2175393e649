package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/stackdio/console/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, h http.Handler, mutate ...func(*Config)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL, UserAgent: "console-test"}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c, srv
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{name: "empty", baseURL: ""},
		{name: "blank", baseURL: "   "},
		{name: "unsupported scheme", baseURL: "ftp://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Config{BaseURL: tt.baseURL})
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestClient_Resolve(t *testing.T) {
	c, err := New(Config{BaseURL: "https://stackdio.example.com/"})
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{in: "/api/stacks/", want: "https://stackdio.example.com/api/stacks/"},
		{in: "api/stacks/?q=web", want: "https://stackdio.example.com/api/stacks/?q=web"},
		{in: "https://other.example.com/api/stacks/?page=2", want: "https://other.example.com/api/stacks/?page=2"},
	}
	for _, tt := range tests {
		got, err := c.Resolve(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestClient_ResolveUnderPathPrefix(t *testing.T) {
	c, err := New(Config{BaseURL: "https://example.com/stackdio"})
	require.NoError(t, err)

	got, err := c.Resolve("/api/stacks/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/stackdio/api/stacks/", got)
}

func TestClient_FetchPage(t *testing.T) {
	var gotHeaders http.Header
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "/api/stacks/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 25,
			"next": "` + "http://" + r.Host + `/api/stacks/?page=2",
			"previous": null,
			"results": [{"id": 1, "title": "web"}, {"id": 2, "title": "db"}]
		}`))
	}), func(cfg *Config) { cfg.Token = "abc123" })

	page, err := c.FetchPage(context.Background(), "/api/stacks/")
	require.NoError(t, err)

	assert.Equal(t, 25, page.Count)
	require.NotNil(t, page.Next)
	assert.Equal(t, srv.URL+"/api/stacks/?page=2", *page.Next)
	assert.Nil(t, page.Previous)
	assert.Len(t, page.Results, 2)
	assert.JSONEq(t, `{"id": 1, "title": "web"}`, string(page.Results[0]))

	assert.Equal(t, "Token abc123", gotHeaders.Get("Authorization"))
	assert.Equal(t, "console-test", gotHeaders.Get("User-Agent"))
	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.NotEmpty(t, gotHeaders.Get(RequestIDHeader))
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, check: apperrors.IsUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, check: apperrors.IsForbidden},
		{name: "not found", status: http.StatusNotFound, check: apperrors.IsNotFound},
		{name: "server error", status: http.StatusBadGateway, check: apperrors.IsUnavailable},
		{name: "bad request", status: http.StatusBadRequest, check: apperrors.IsInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"detail": "nope"}`))
			}))

			_, err := c.FetchPage(context.Background(), "/api/stacks/")
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected code %q", apperrors.GetCode(err))
			assert.Equal(t, tt.status, apperrors.GetStatus(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestClient_DecodeFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>login</html>`))
	}))

	_, err := c.FetchPage(context.Background(), "/api/stacks/")
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
}

func TestClient_CanceledContext(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchPage(ctx, "/api/stacks/")
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.FetchPage(ctx, "/api/stacks/")
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
}

func TestClient_SessionCookies(t *testing.T) {
	var sawCookie []bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("sessionid")
		sawCookie = append(sawCookie, err == nil)
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s1", Path: "/"})
		_, _ = w.Write([]byte(`{"count": 0, "results": []}`))
	}))

	ctx := context.Background()
	_, err := c.FetchPage(ctx, "/api/stacks/")
	require.NoError(t, err)
	_, err = c.FetchPage(ctx, "/api/stacks/")
	require.NoError(t, err)

	require.NoError(t, c.ResetSession())
	_, err = c.FetchPage(ctx, "/api/stacks/")
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true, false}, sawCookie)
}

func TestClient_BearerTokenSource(t *testing.T) {
	var auth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"count": 0, "results": []}`))
	}), func(cfg *Config) {
		cfg.Token = "ignored"
		cfg.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "jwt", TokenType: "Bearer"})
	})

	_, err := c.FetchPage(context.Background(), "/api/stacks/")
	require.NoError(t, err)
	assert.Equal(t, "Bearer jwt", auth)
}

func TestClient_GetRaw(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stacks/7/", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 7, "title": "web"}`))
	}))

	raw, err := c.GetRaw(context.Background(), "/api/stacks/7/")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "web", out["title"])
}

func TestClient_GetRawRejectsOversizedBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		body := make([]byte, 0, maxRawBody+16)
		body = append(body, `{"blob":"`...)
		for len(body) < maxRawBody+8 {
			body = append(body, 'a')
		}
		body = append(body, `"}`...)
		_, _ = w.Write(body)
	}))

	_, err := c.GetRaw(context.Background(), "/api/stacks/7/")
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
	assert.Contains(t, err.Error(), "exceeds")
}
