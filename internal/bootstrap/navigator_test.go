package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detailFunc func(ctx context.Context, url string) (json.RawMessage, error)

func (f detailFunc) GetRaw(ctx context.Context, url string) (json.RawMessage, error) {
	return f(ctx, url)
}

func TestNewTerminalNavigator_PanicsWithoutFetcher(t *testing.T) {
	assert.Panics(t, func() { NewTerminalNavigator(nil, nil, nil) })
}

func TestTerminalNavigator_Navigate(t *testing.T) {
	var gotURL string
	details := detailFunc(func(_ context.Context, url string) (json.RawMessage, error) {
		gotURL = url
		return json.RawMessage(`{"id":3,"title":"web"}`), nil
	})
	var out bytes.Buffer
	nav := NewTerminalNavigator(details, &out, nil)

	require.NoError(t, nav.Navigate(context.Background(), "/api/stacks/3/"))
	assert.Equal(t, "/api/stacks/3/", gotURL)
	assert.Equal(t, "{\n  \"id\": 3,\n  \"title\": \"web\"\n}\n", out.String())
}

func TestTerminalNavigator_NavigateError(t *testing.T) {
	boom := errors.New("boom")
	nav := NewTerminalNavigator(detailFunc(func(context.Context, string) (json.RawMessage, error) {
		return nil, boom
	}), nil, nil)

	assert.ErrorIs(t, nav.Navigate(context.Background(), "/api/stacks/3/"), boom)
}

func TestTerminalNavigator_ReloadRunsAllResetters(t *testing.T) {
	nav := NewTerminalNavigator(detailFunc(func(context.Context, string) (json.RawMessage, error) {
		return nil, nil
	}), nil, nil)

	first := errors.New("first")
	var calls []string
	nav.OnReload(func(context.Context) error {
		calls = append(calls, "session")
		return first
	})
	nav.OnReload(func(context.Context) error {
		calls = append(calls, "tokens")
		return errors.New("second")
	})
	nav.OnReload(func(context.Context) error {
		calls = append(calls, "cache")
		return nil
	})

	err := nav.Reload(context.Background())
	require.ErrorIs(t, err, first)
	assert.Equal(t, []string{"session", "tokens", "cache"}, calls)
	assert.Equal(t, 1, nav.Reloads())
}
