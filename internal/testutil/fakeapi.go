package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// CleanupTB is satisfied by *testing.T and *testing.B.
type CleanupTB interface {
	Helper()
	Cleanup(func())
}

// FakeAPI is an in-process paginated REST API for adapter and CLI tests.
// Collections are served page by page with absolute next/previous links, the
// "q" parameter filters objects by substring, and detail documents are served
// at <collection><id>/.
type FakeAPI struct {
	*httptest.Server

	mu          sync.Mutex
	pageSize    int
	collections map[string][]json.RawMessage
	statuses    map[string]int
	requests    []string
}

// NewFakeAPI starts a fake API that serves pageSize objects per page.
// The server is closed when the test finishes.
func NewFakeAPI(t CleanupTB, pageSize int) *FakeAPI {
	t.Helper()
	if pageSize <= 0 {
		pageSize = 10
	}
	f := &FakeAPI{
		pageSize:    pageSize,
		collections: make(map[string][]json.RawMessage),
		statuses:    make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// AddCollection registers objects under a list path such as "/api/stacks/".
func (f *FakeAPI) AddCollection(path string, objects ...any) {
	raws := make([]json.RawMessage, 0, len(objects))
	for _, o := range objects {
		b, err := json.Marshal(o)
		if err != nil {
			panic(fmt.Sprintf("fakeapi: marshal fixture: %v", err))
		}
		raws = append(raws, b)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[path] = raws
}

// FailPath makes every request to path answer with status.
func (f *FakeAPI) FailPath(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[path] = status
}

// ClearFailures removes every forced status.
func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = make(map[string]int)
}

// Requests returns the request URIs served so far.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	status, failing := f.statuses[r.URL.Path]
	objects, isList := f.collections[r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": http.StatusText(status)})
		return
	}
	if isList {
		f.servePage(w, r, objects)
		return
	}
	if obj, ok := f.lookupDetail(r.URL.Path); ok {
		_, _ = w.Write(obj)
		return
	}

	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
}

func (f *FakeAPI) servePage(w http.ResponseWriter, r *http.Request, objects []json.RawMessage) {
	query := r.URL.Query()
	if term := strings.ToLower(query.Get("q")); term != "" {
		filtered := objects[:0:0]
		for _, o := range objects {
			if strings.Contains(strings.ToLower(string(o)), term) {
				filtered = append(filtered, o)
			}
		}
		objects = filtered
	}

	page := 1
	if p := query.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid page."})
			return
		}
		page = n
	}

	start := (page - 1) * f.pageSize
	if start > 0 && start >= len(objects) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid page."})
		return
	}
	end := min(start+f.pageSize, len(objects))

	body := map[string]any{
		"count":    len(objects),
		"next":     nil,
		"previous": nil,
		"results":  objects[start:end],
	}
	if end < len(objects) {
		body["next"] = f.pageLink(r.URL, page+1)
	}
	if page > 1 {
		body["previous"] = f.pageLink(r.URL, page-1)
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (f *FakeAPI) pageLink(u *url.URL, page int) string {
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	link := f.URL + u.Path
	if enc := q.Encode(); enc != "" {
		link += "?" + enc
	}
	return link
}

func (f *FakeAPI) lookupDetail(path string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Longest collection prefix wins so nested collections resolve correctly.
	prefixes := make([]string, 0, len(f.collections))
	for p := range f.collections {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, prefix := range prefixes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id := strings.Trim(strings.TrimPrefix(path, prefix), "/")
		if id == "" || strings.Contains(id, "/") {
			continue
		}
		for _, o := range f.collections[prefix] {
			if objectKey(o) == id {
				return o, true
			}
		}
	}
	return nil, false
}

func objectKey(raw json.RawMessage) string {
	var fields struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	if fields.ID != "" {
		return fields.ID.String()
	}
	return fields.Name
}
