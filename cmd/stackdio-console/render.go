package main

import (
	"encoding/json"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/stackdio/console/internal/viewmodel"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// renderTable prints a table with its header, rows and pagination footer.
func renderTable(w io.Writer, t viewmodel.Table) error {
	title := t.Title
	if t.SortKey != "" {
		title += " (sorted by " + t.SortKey + " " + t.SortIndicator() + ")"
	}
	if t.Loading {
		title += " [loading]"
	}
	if err := writef(w, "%s\n", title); err != nil {
		return err
	}

	tw := newTabWriter(w)
	if err := writef(tw, "%s\n", strings.Join(t.Columns, "\t")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writef(tw, "%s\n", strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "%s\n", t.Footer())
}

type tableJSON struct {
	Screen   string              `json:"screen"`
	Page     int                 `json:"page"`
	NumPages int                 `json:"num_pages"`
	Count    int                 `json:"count"`
	SortKey  string              `json:"sort_key,omitempty"`
	SortAsc  bool                `json:"sort_asc"`
	Rows     []map[string]string `json:"rows"`
}

// renderJSON prints the rows keyed by lower-case column header.
func renderJSON(w io.Writer, t viewmodel.Table) error {
	out := tableJSON{
		Screen:   t.Title,
		Page:     t.Pagination.Page,
		NumPages: t.Pagination.NumPages,
		Count:    t.Pagination.TotalCount,
		SortKey:  t.SortKey,
		SortAsc:  t.SortAsc,
		Rows:     make([]map[string]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		m := make(map[string]string, len(row))
		for i, cell := range row {
			if i < len(t.Columns) {
				m[strings.ToLower(strings.ReplaceAll(t.Columns[i], " ", "_"))] = cell
			}
		}
		out.Rows = append(out.Rows, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
