package listview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/stackdio/console/internal/core"
	apperrors "github.com/stackdio/console/internal/errors"
)

// DefaultRefreshInterval is the auto-refresh period used when Options.RefreshInterval is unset.
const DefaultRefreshInterval = 3 * time.Second

// Options configures a Controller.
type Options[T Object] struct {
	// Source is the concrete list screen (required).
	Source ListDataSource[T]
	// Fetcher retrieves page objects (required).
	Fetcher core.PageFetcher
	// Navigator handles detail navigation and session reloads. Optional.
	Navigator core.Navigator
	// SortFields lists the keys the loaded page can be sorted by. Optional.
	SortFields SortFields[T]
	// AutoRefresh reloads the current page every RefreshInterval after Init.
	AutoRefresh bool
	// RefreshInterval defaults to DefaultRefreshInterval.
	RefreshInterval time.Duration
	// AdvancedOnly gates GoToDetailPage behind the advanced view flag.
	AdvancedOnly bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Controller maintains one page of a remote paginated collection.
// Methods are safe for concurrent use. Reload and the navigation methods block
// for the duration of the HTTP request.
type Controller[T Object] struct {
	source       ListDataSource[T]
	fetcher      core.PageFetcher
	nav          core.Navigator
	fields       SortFields[T]
	autoRefresh  bool
	interval     time.Duration
	advancedOnly bool
	logger       *slog.Logger

	mu          sync.Mutex
	st          listState[T]
	version     uint64
	gen         uint64 // bumped by every navigation; older requests are stale
	seq         uint64 // last issued request
	committed   uint64 // last request whose response was applied
	loadingSeq  uint64 // last explicit reload; only its completion clears Loading
	keepQuery   bool
	advanced    bool
	initialized bool
	disposed    bool

	subMu     sync.Mutex
	subs      map[int]func(Snapshot[T])
	nextSubID int

	pubMu      sync.Mutex
	pending    []Snapshot[T]
	delivering bool
	published  uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New validates opts and returns an idle controller. Call Init to start it.
func New[T Object](opts Options[T]) (*Controller[T], error) {
	if opts.Source == nil {
		return nil, apperrors.ValidationField("source", "list data source is required")
	}
	if opts.Fetcher == nil {
		return nil, apperrors.ValidationField("fetcher", "page fetcher is required")
	}
	if strings.TrimSpace(opts.Source.InitialURL()) == "" {
		return nil, apperrors.ValidationField("initial_url", "initial URL is required")
	}
	if strings.TrimSpace(opts.Source.BaseURL()) == "" {
		return nil, apperrors.ValidationField("base_url", "base URL is required")
	}

	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller[T]{
		source:       opts.Source,
		fetcher:      opts.Fetcher,
		nav:          opts.Navigator,
		fields:       opts.SortFields,
		autoRefresh:  opts.AutoRefresh,
		interval:     interval,
		advancedOnly: opts.AdvancedOnly,
		logger:       logger.With("list", opts.Source.InitialURL()),
		subs:         make(map[int]func(Snapshot[T])),
		ctx:          ctx,
		cancel:       cancel,
	}
	c.st = listState[T]{
		page:        1,
		currentPage: opts.Source.InitialURL(),
		sortAsc:     true,
	}
	return c, nil
}

// Init starts auto-refresh when enabled and performs the first reset.
// Calling Init more than once, or after Dispose, does nothing.
func (c *Controller[T]) Init(ctx context.Context) {
	c.mu.Lock()
	if c.initialized || c.disposed {
		c.mu.Unlock()
		return
	}
	c.initialized = true
	c.mu.Unlock()

	if c.autoRefresh {
		c.wg.Add(1)
		go c.refreshLoop()
	}
	c.Reset(ctx)
}

// Reset returns to the first page with an unknown page size and reloads.
// The list URL and sort state are restored unless a search asked to keep its query.
func (c *Controller[T]) Reset(ctx context.Context) {
	if !c.resetState() {
		return
	}
	c.Reload(ctx, true)
}

// resetState applies the reset without reloading. It returns false after Dispose.
func (c *Controller[T]) resetState() bool {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return false
	}
	c.gen++
	c.st.page = 1
	c.st.pageSize = nil
	if !c.keepQuery {
		c.st.currentPage = c.source.InitialURL()
		c.st.sortKey = ""
		c.st.sortAsc = true
	}
	c.keepQuery = false
	c.st.objects = nil
	c.st.loading = false
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	return true
}

type reloadToken struct {
	gen uint64
	seq uint64
}

// Reload fetches the current page and replaces the loaded objects.
// firstTime marks an explicit reload; only those raise the Loading flag.
// Failures are handled here and never returned.
func (c *Controller[T]) Reload(ctx context.Context, firstTime bool) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.seq++
	tok := reloadToken{gen: c.gen, seq: c.seq}
	target := c.st.currentPage
	var snap Snapshot[T]
	if firstTime {
		c.loadingSeq = tok.seq
		c.st.loading = true
		snap = c.snapshotLocked()
	}
	c.mu.Unlock()
	if firstTime {
		c.publish(snap)
	}

	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	page, err := c.fetcher.FetchPage(reqCtx, target)
	stop()
	cancel()

	if err != nil {
		c.handleFailure(ctx, tok, target, err)
		return
	}

	objects := c.buildObjects(ctx, page.Results)

	c.mu.Lock()
	if c.staleLocked(tok) {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "dropping stale page", "url", target, "seq", tok.seq)
		return
	}
	c.committed = tok.seq
	c.st.count = page.Count
	c.st.previousPage = link(page.Previous)
	c.st.nextPage = link(page.Next)
	if c.st.nextPage != nil && len(page.Results) > 0 {
		size := len(page.Results)
		c.st.pageSize = &size
	}
	c.st.objects = objects
	if tok.seq >= c.loadingSeq {
		c.st.loading = false
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	c.source.ExtraReloadSteps(ctx, slices.Clone(objects))
}

func (c *Controller[T]) buildObjects(ctx context.Context, results []json.RawMessage) []T {
	objects := make([]T, 0, len(results))
	for i, raw := range results {
		obj, err := c.source.Model(raw, c)
		if errors.Is(err, ErrSkipObject) {
			continue
		}
		if err != nil {
			c.logger.WarnContext(ctx, "skipping undecodable list object", "index", i, "error", err)
			continue
		}
		if !c.source.FilterObject(obj) {
			continue
		}
		objects = append(objects, c.source.ProcessObject(ctx, obj))
	}
	return objects
}

func (c *Controller[T]) handleFailure(ctx context.Context, tok reloadToken, target string, err error) {
	c.mu.Lock()
	if c.staleLocked(tok) || c.disposed {
		c.mu.Unlock()
		return
	}
	if c.st.loading && tok.seq >= c.loadingSeq {
		c.st.loading = false
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(snap)
	} else {
		c.mu.Unlock()
	}

	if ctx.Err() != nil || errors.Is(err, context.Canceled) || apperrors.IsCanceled(err) {
		return
	}

	if apperrors.IsForbidden(err) {
		c.logger.WarnContext(ctx, "list request forbidden, reloading session", "url", target)
		if c.nav == nil {
			return
		}
		if navErr := c.nav.Reload(ctx); navErr != nil {
			c.logger.ErrorContext(ctx, "session reload failed", "error", navErr)
		}
		return
	}

	c.logger.InfoContext(ctx, "list reload failed, resetting", "url", target, "error", err)
	if target == c.source.InitialURL() {
		// Already on the first page: retrying now would only repeat the failure.
		c.resetState()
		return
	}
	c.Reset(ctx)
}

// staleLocked reports whether a response may no longer be applied: a navigation
// happened since the request was issued, or a newer response was already applied.
func (c *Controller[T]) staleLocked(tok reloadToken) bool {
	return tok.gen != c.gen || tok.seq < c.committed
}

// ChangeSortKey sorts by key, flipping the direction when key is already active.
// A different key starts in ascending order.
func (c *Controller[T]) ChangeSortKey(key string) {
	c.mu.Lock()
	if key == c.st.sortKey {
		c.st.sortAsc = !c.st.sortAsc
	} else {
		c.st.sortKey = key
		c.st.sortAsc = true
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
}

// SetAdvancedView toggles the advanced view flag that gates detail navigation.
func (c *Controller[T]) SetAdvancedView(on bool) {
	c.mu.Lock()
	c.advanced = on
	c.mu.Unlock()
}

// AdvancedView reports the advanced view flag.
func (c *Controller[T]) AdvancedView() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanced
}

// DetailURL returns the detail page URL of obj.
func (c *Controller[T]) DetailURL(obj T) string {
	return c.source.BaseURL() + obj.ObjectID() + "/"
}

// GoToDetailPage navigates to the detail page of obj. It does nothing when the
// screen is gated behind the advanced view and the view is off.
func (c *Controller[T]) GoToDetailPage(ctx context.Context, obj T) error {
	if c.advancedOnly && !c.AdvancedView() {
		return nil
	}
	if c.nav == nil {
		return apperrors.Internal("no navigator configured")
	}
	return c.nav.Navigate(ctx, c.DetailURL(obj))
}

// GoToNextPage follows the next link, if any, and reloads.
func (c *Controller[T]) GoToNextPage(ctx context.Context) {
	c.move(ctx, 1)
}

// GoToPreviousPage follows the previous link, if any, and reloads.
func (c *Controller[T]) GoToPreviousPage(ctx context.Context) {
	c.move(ctx, -1)
}

func (c *Controller[T]) move(ctx context.Context, delta int) {
	c.mu.Lock()
	next := c.st.nextPage
	if delta < 0 {
		next = c.st.previousPage
	}
	if next == nil || c.disposed {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.st.currentPage = *next
	c.st.page += delta
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	c.Reload(ctx, true)
}

// Search points the list at InitialURL with a q parameter and resets, keeping the query.
// An empty term clears the search.
func (c *Controller[T]) Search(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		c.ClearSearch(ctx)
		return
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.st.currentPage = SearchURL(c.source.InitialURL(), term)
	c.keepQuery = true
	c.mu.Unlock()

	c.Reset(ctx)
}

// ClearSearch drops any search query and resets to the initial URL.
func (c *Controller[T]) ClearSearch(ctx context.Context) {
	c.mu.Lock()
	c.keepQuery = false
	c.mu.Unlock()

	c.Reset(ctx)
}

// SearchURL appends a q parameter to a list URL.
func SearchURL(listURL, term string) string {
	sep := "?"
	if strings.Contains(listURL, "?") {
		sep = "&"
	}
	return listURL + sep + "q=" + url.QueryEscape(term)
}

// Snapshot returns the current state and derived values.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildSnapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every committed change.
// Snapshots are delivered in commit order, one at a time. fn may change the
// list; the resulting snapshots are delivered after fn returns. fn must not
// call Dispose.
func (c *Controller[T]) Subscribe(fn func(Snapshot[T])) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Dispose stops auto-refresh, aborts in-flight requests and drops subscribers.
// It is safe to call more than once.
func (c *Controller[T]) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	c.subMu.Lock()
	clear(c.subs)
	c.subMu.Unlock()
}

func (c *Controller[T]) refreshLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Reload(c.ctx, false)
		}
	}
}

// snapshotLocked records a committed change and returns its snapshot.
func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	c.version++
	return c.buildSnapshotLocked()
}

func (c *Controller[T]) buildSnapshotLocked() Snapshot[T] {
	objects := slices.Clone(c.st.objects)
	start := startNum(c.st.page, c.st.pageSize, c.st.count)
	return Snapshot[T]{
		Version:       c.version,
		Page:          c.st.page,
		PageSize:      clonePtr(c.st.pageSize),
		CurrentPage:   c.st.currentPage,
		NextPage:      clonePtr(c.st.nextPage),
		PreviousPage:  clonePtr(c.st.previousPage),
		Count:         c.st.count,
		Objects:       objects,
		SortKey:       c.st.sortKey,
		SortAsc:       c.st.sortAsc,
		Loading:       c.st.loading,
		SortedObjects: sortObjects(objects, c.fields, c.st.sortKey, c.st.sortAsc),
		StartNum:      start,
		EndNum:        endNum(start, c.st.pageSize, len(objects)),
		NumPages:      numPages(c.st.count, c.st.pageSize),
	}
}

// publish queues snap for delivery. The first caller to find no delivery in
// progress drains the queue in order; callers that arrive meanwhile, including
// subscribers that change the list from inside their callback, only enqueue.
// Snapshots older than one already delivered are dropped.
func (c *Controller[T]) publish(snap Snapshot[T]) {
	c.pubMu.Lock()
	c.pending = append(c.pending, snap)
	if c.delivering {
		c.pubMu.Unlock()
		return
	}
	c.delivering = true
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		if next.Version <= c.published {
			continue
		}
		c.published = next.Version
		c.pubMu.Unlock()
		c.deliver(next)
		c.pubMu.Lock()
	}
	c.pending = nil
	c.delivering = false
	c.pubMu.Unlock()
}

func (c *Controller[T]) deliver(snap Snapshot[T]) {
	c.subMu.Lock()
	subs := make([]func(Snapshot[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func link(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func clonePtr[V any](p *V) *V {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
