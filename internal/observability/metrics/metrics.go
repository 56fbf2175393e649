// Package metrics emits console metrics through a statsd.Sink.
package metrics

import (
	"context"
	"time"

	"github.com/stackdio/console/internal/core"
	"github.com/stackdio/console/internal/domain/model"
	obserrors "github.com/stackdio/console/internal/observability/errors"
	"github.com/stackdio/console/internal/observability/statsd"
	"github.com/stackdio/console/internal/service"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// InstrumentedFetcher counts and times page fetches.
type InstrumentedFetcher struct {
	next core.PageFetcher
	sink statsd.Sink
	now  func() time.Time
}

var _ core.PageFetcher = (*InstrumentedFetcher)(nil)

// NewInstrumentedFetcher wraps next. A nil sink disables emission.
func NewInstrumentedFetcher(next core.PageFetcher, sink statsd.Sink) *InstrumentedFetcher {
	if next == nil {
		panic("InstrumentedFetcher requires a PageFetcher")
	}
	return &InstrumentedFetcher{next: next, sink: sink, now: time.Now}
}

// FetchPage implements core.PageFetcher and emits api.fetch and api.fetch.duration.
func (f *InstrumentedFetcher) FetchPage(ctx context.Context, url string) (model.Page, error) {
	start := f.now()
	page, err := f.next.FetchPage(ctx, url)
	if f.sink == nil {
		return page, err
	}

	tags := map[string]string{"result": ResultSuccess}
	if err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(err)
	}
	f.sink.Count("api.fetch", 1, tags)
	f.sink.Timing("api.fetch.duration", f.now().Sub(start), CloneTags(tags))
	return page, err
}

// PageCache forwards page cache events to a sink and, optionally, to another recorder.
type PageCache struct {
	Sink statsd.Sink
	Next service.PageCacheMetrics
}

var _ service.PageCacheMetrics = PageCache{}

// RecordPageCacheEvent implements service.PageCacheMetrics.
func (p PageCache) RecordPageCacheEvent(e service.PageCacheEvent) {
	if p.Next != nil {
		p.Next.RecordPageCacheEvent(e)
	}
	if p.Sink == nil {
		return
	}
	result := ResultSuccess
	if !e.Ok {
		result = ResultError
	}
	p.Sink.Count("page_cache."+string(e.Op), 1, map[string]string{
		"tier":   string(e.Tier),
		"result": result,
	})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
