// Package viewmodel holds the presentation shapes the terminal renderer consumes.
package viewmodel

import "github.com/stackdio/console/internal/listview"

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page       int
	PageSize   int // zero while the page size is unknown
	NumPages   int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	TotalCount int
	PrevURL    string
	NextURL    string
}

// NewPagination builds pagination metadata from a list snapshot.
func NewPagination[T listview.Object](snap listview.Snapshot[T]) Pagination {
	p := Pagination{
		Page:       snap.Page,
		NumPages:   snap.NumPages,
		HasPrev:    snap.HasPrevious(),
		HasNext:    snap.HasNext(),
		StartIndex: snap.StartNum,
		EndIndex:   snap.EndNum,
		TotalCount: snap.Count,
	}
	if snap.PageSize != nil {
		p.PageSize = *snap.PageSize
	}
	if snap.PreviousPage != nil {
		p.PrevURL = *snap.PreviousPage
	}
	if snap.NextPage != nil {
		p.NextURL = *snap.NextPage
	}
	return p
}

// Empty reports whether the list holds no objects at all.
func (p Pagination) Empty() bool {
	return p.TotalCount == 0
}
