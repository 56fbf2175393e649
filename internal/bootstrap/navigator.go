package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/stackdio/console/internal/core"
)

// DetailFetcher fetches the raw JSON document behind a detail URL.
type DetailFetcher interface {
	GetRaw(ctx context.Context, url string) (json.RawMessage, error)
}

// SessionResetter drops one piece of session state on reload.
type SessionResetter func(ctx context.Context) error

// TerminalNavigator implements core.Navigator for a terminal host.
// Navigate prints the detail document; Reload runs the registered resetters.
type TerminalNavigator struct {
	details DetailFetcher
	out     io.Writer
	logger  *slog.Logger

	mu        sync.Mutex
	resetters []SessionResetter
	reloads   int
}

var _ core.Navigator = (*TerminalNavigator)(nil)

// NewTerminalNavigator creates a navigator writing detail documents to out.
func NewTerminalNavigator(details DetailFetcher, out io.Writer, logger *slog.Logger) *TerminalNavigator {
	if details == nil {
		panic("TerminalNavigator requires a DetailFetcher")
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TerminalNavigator{details: details, out: out, logger: logger}
}

// OnReload registers a resetter run by Reload.
func (n *TerminalNavigator) OnReload(r SessionResetter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetters = append(n.resetters, r)
}

// Navigate fetches url and writes its indented JSON.
func (n *TerminalNavigator) Navigate(ctx context.Context, url string) error {
	raw, err := n.details.GetRaw(ctx, url)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format %s: %w", url, err)
	}
	buf.WriteByte('\n')
	_, err = n.out.Write(buf.Bytes())
	return err
}

// Reload drops credentials, cookies and cached pages so the next request starts a fresh session.
// Every resetter runs even when an earlier one fails; the first error is returned.
func (n *TerminalNavigator) Reload(ctx context.Context) error {
	n.mu.Lock()
	resetters := append([]SessionResetter(nil), n.resetters...)
	n.reloads++
	n.mu.Unlock()

	n.logger.WarnContext(ctx, "session rejected by API, reloading")

	var first error
	for _, r := range resetters {
		if err := r(ctx); err != nil {
			n.logger.ErrorContext(ctx, "session reset failed", "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Reloads reports how many times Reload ran.
func (n *TerminalNavigator) Reloads() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reloads
}
