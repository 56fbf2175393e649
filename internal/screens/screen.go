// Package screens defines the list screens of the console: the orchestrator
// collections, how each row is built and shown, and how the rows sort.
package screens

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/stackdio/console/internal/core"
	apperrors "github.com/stackdio/console/internal/errors"
	"github.com/stackdio/console/internal/listview"
	"github.com/stackdio/console/internal/viewmodel"
)

// Deps are the collaborators every opened screen shares.
type Deps struct {
	Fetcher   core.PageFetcher
	Navigator core.Navigator
	Logger    *slog.Logger
}

// OpenOptions tune one opened screen.
type OpenOptions struct {
	// Filter is an optional JMESPath expression applied to every API result.
	Filter string
	// RefreshInterval overrides the auto-refresh period.
	RefreshInterval time.Duration
	// DisableAutoRefresh keeps the screen static even when it normally refreshes.
	DisableAutoRefresh bool
	// Advanced turns the advanced view on from the start.
	Advanced bool
	// Now is the clock used for age columns. Defaults to time.Now.
	Now func() time.Time
}

// Screen is a list screen the console can open.
type Screen interface {
	Name() string
	Aliases() []string
	Title() string
	AutoRefresh() bool
	AdvancedOnly() bool
	SortKeys() []string
	Open(deps Deps, opts OpenOptions) (Session, error)
}

// Session is an opened screen backed by a list controller.
type Session interface {
	Init(ctx context.Context)
	Reset(ctx context.Context)
	Reload(ctx context.Context)
	Search(ctx context.Context, term string)
	ClearSearch(ctx context.Context)
	ChangeSortKey(key string) error
	GoToNextPage(ctx context.Context)
	GoToPreviousPage(ctx context.Context)
	// GoToDetail opens the detail page of the object with the given id,
	// paging forward from the current page until it is found.
	GoToDetail(ctx context.Context, id string) error
	SetAdvancedView(on bool)
	Table() viewmodel.Table
	Subscribe(fn func(viewmodel.Table)) (unsubscribe func())
	Dispose()
}

type column[T any] struct {
	header string
	value  func(row T, now time.Time) string
}

// definition describes a screen over objects of type T.
type definition[T listview.Object] struct {
	name         string
	aliases      []string
	title        string
	path         string
	autoRefresh  bool
	advancedOnly bool
	columns      []column[T]
	sortFields   listview.SortFields[T]

	decode  func(raw json.RawMessage, list listview.Reloader) (T, error)
	keep    func(T) bool
	process func(ctx context.Context, row T) T
	extra   func(ctx context.Context, logger *slog.Logger, rows []T)
}

func (d *definition[T]) Name() string       { return d.name }
func (d *definition[T]) Aliases() []string  { return slices.Clone(d.aliases) }
func (d *definition[T]) Title() string      { return d.title }
func (d *definition[T]) AutoRefresh() bool  { return d.autoRefresh }
func (d *definition[T]) AdvancedOnly() bool { return d.advancedOnly }
func (d *definition[T]) SortKeys() []string { return d.sortFields.Keys() }

// Open builds the data source and controller for the screen. The controller is idle until Init.
func (d *definition[T]) Open(deps Deps, opts OpenOptions) (Session, error) {
	filter, err := NewResultFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("screen", d.name)

	src := &source[T]{def: d, filter: filter, logger: logger}
	ctrl, err := listview.New(listview.Options[T]{
		Source:          src,
		Fetcher:         deps.Fetcher,
		Navigator:       deps.Navigator,
		SortFields:      d.sortFields,
		AutoRefresh:     d.autoRefresh && !opts.DisableAutoRefresh,
		RefreshInterval: opts.RefreshInterval,
		AdvancedOnly:    d.advancedOnly,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	ctrl.SetAdvancedView(opts.Advanced)

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &session[T]{def: d, ctrl: ctrl, now: now}, nil
}

// source adapts a definition to listview.ListDataSource.
type source[T listview.Object] struct {
	def    *definition[T]
	filter ResultFilter
	logger *slog.Logger
}

func (s *source[T]) Model(raw json.RawMessage, list listview.Reloader) (T, error) {
	var zero T
	keep, err := s.filter.Keep(raw)
	if err != nil {
		return zero, err
	}
	if !keep {
		return zero, listview.ErrSkipObject
	}
	return s.def.decode(raw, list)
}

func (s *source[T]) BaseURL() string    { return s.def.path }
func (s *source[T]) InitialURL() string { return s.def.path }

func (s *source[T]) ProcessObject(ctx context.Context, obj T) T {
	if s.def.process == nil {
		return obj
	}
	return s.def.process(ctx, obj)
}

func (s *source[T]) ExtraReloadSteps(ctx context.Context, objects []T) {
	if s.def.extra != nil {
		s.def.extra(ctx, s.logger, objects)
	}
}

func (s *source[T]) FilterObject(obj T) bool {
	if s.def.keep == nil {
		return true
	}
	return s.def.keep(obj)
}

// session implements Session over a typed controller.
type session[T listview.Object] struct {
	def  *definition[T]
	ctrl *listview.Controller[T]
	now  func() time.Time
}

func (s *session[T]) Init(ctx context.Context)             { s.ctrl.Init(ctx) }
func (s *session[T]) Reset(ctx context.Context)            { s.ctrl.Reset(ctx) }
func (s *session[T]) Reload(ctx context.Context)           { s.ctrl.Reload(ctx, true) }
func (s *session[T]) Search(ctx context.Context, q string) { s.ctrl.Search(ctx, q) }
func (s *session[T]) ClearSearch(ctx context.Context)      { s.ctrl.ClearSearch(ctx) }
func (s *session[T]) GoToNextPage(ctx context.Context)     { s.ctrl.GoToNextPage(ctx) }
func (s *session[T]) GoToPreviousPage(ctx context.Context) { s.ctrl.GoToPreviousPage(ctx) }
func (s *session[T]) SetAdvancedView(on bool)              { s.ctrl.SetAdvancedView(on) }
func (s *session[T]) Dispose()                             { s.ctrl.Dispose() }

func (s *session[T]) ChangeSortKey(key string) error {
	if _, ok := s.def.sortFields[key]; !ok {
		return apperrors.ValidationField("sort",
			fmt.Sprintf("unknown sort key %q for %s (valid: %s)", key, s.def.name, strings.Join(s.def.SortKeys(), ", ")))
	}
	s.ctrl.ChangeSortKey(key)
	return nil
}

// maxDetailPages bounds how far GoToDetail pages forward looking for an object.
const maxDetailPages = 100

func (s *session[T]) GoToDetail(ctx context.Context, id string) error {
	if s.def.advancedOnly && !s.ctrl.AdvancedView() {
		return apperrors.Forbidden(s.def.title + " details are only available in the advanced view")
	}
	for range maxDetailPages {
		snap := s.ctrl.Snapshot()
		for _, obj := range snap.Objects {
			if obj.ObjectID() == id {
				return s.ctrl.GoToDetailPage(ctx, obj)
			}
		}
		if !snap.HasNext() {
			break
		}
		s.ctrl.GoToNextPage(ctx)
		if err := ctx.Err(); err != nil {
			return apperrors.MapTransportError(err, s.def.path)
		}
	}
	return apperrors.NotFoundf("%s %q not found", s.def.name, id)
}

func (s *session[T]) Table() viewmodel.Table {
	return s.render(s.ctrl.Snapshot())
}

func (s *session[T]) Subscribe(fn func(viewmodel.Table)) func() {
	return s.ctrl.Subscribe(func(snap listview.Snapshot[T]) {
		fn(s.render(snap))
	})
}

func (s *session[T]) render(snap listview.Snapshot[T]) viewmodel.Table {
	now := s.now()
	headers := make([]string, 0, len(s.def.columns))
	for _, c := range s.def.columns {
		headers = append(headers, c.header)
	}

	rows := make([][]string, 0, len(snap.SortedObjects))
	ids := make([]string, 0, len(snap.SortedObjects))
	for _, obj := range snap.SortedObjects {
		cells := make([]string, 0, len(s.def.columns))
		for _, c := range s.def.columns {
			cells = append(cells, c.value(obj, now))
		}
		rows = append(rows, cells)
		ids = append(ids, obj.ObjectID())
	}

	return viewmodel.Table{
		Title:      s.def.title,
		Columns:    headers,
		Rows:       rows,
		IDs:        ids,
		SortKey:    snap.SortKey,
		SortAsc:    snap.SortAsc,
		SortKeys:   s.def.SortKeys(),
		Loading:    snap.Loading,
		Advanced:   s.ctrl.AdvancedView(),
		Version:    snap.Version,
		Pagination: viewmodel.NewPagination(snap),
	}
}

// rowBase links a row back to the list that built it.
type rowBase struct {
	list listview.Reloader
}

// ReloadList silently reloads the list the row belongs to, e.g. after the row was acted on.
func (b rowBase) ReloadList(ctx context.Context) {
	if b.list != nil {
		b.list.Reload(ctx, false)
	}
}

// decodeJSON is the common Model step: unmarshal raw into M.
func decodeJSON[M any](raw json.RawMessage) (M, error) {
	var m M
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, apperrors.Wrap(err, apperrors.ErrCodeValidation, "decode list object")
	}
	return m, nil
}
