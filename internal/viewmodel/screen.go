package viewmodel

import "fmt"

// Table is one rendered page of a list screen.
type Table struct {
	Title      string
	Columns    []string
	Rows       [][]string
	IDs        []string // object identifiers aligned with Rows
	SortKey    string
	SortAsc    bool
	SortKeys   []string
	Loading    bool
	Advanced   bool
	Version    uint64
	Pagination Pagination
}

// SortIndicator returns the arrow shown next to the active sort key.
func (t Table) SortIndicator() string {
	if t.SortKey == "" {
		return ""
	}
	if t.SortAsc {
		return "▲"
	}
	return "▼"
}

// Footer summarises the visible range, e.g. "11-20 of 25 (page 2/3)".
func (t Table) Footer() string {
	p := t.Pagination
	if p.Empty() {
		return "no results"
	}
	return fmt.Sprintf("%d-%d of %d (page %d/%d)", p.StartIndex, p.EndIndex, p.TotalCount, p.Page, p.NumPages)
}
