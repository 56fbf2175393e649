package listview

// Snapshot is a consistent copy of the controller state plus its derived values.
type Snapshot[T Object] struct {
	// Version increases with every committed change.
	Version uint64

	Page         int
	PageSize     *int
	CurrentPage  string
	NextPage     *string
	PreviousPage *string
	Count        int
	Objects      []T
	SortKey      string
	SortAsc      bool
	Loading      bool

	SortedObjects []T
	StartNum      int
	EndNum        int
	NumPages      int
}

// HasNext reports whether a following page can be requested.
func (s Snapshot[T]) HasNext() bool { return s.NextPage != nil }

// HasPrevious reports whether a preceding page can be requested.
func (s Snapshot[T]) HasPrevious() bool { return s.PreviousPage != nil }

type listState[T Object] struct {
	page         int
	pageSize     *int
	currentPage  string
	nextPage     *string
	previousPage *string
	count        int
	objects      []T
	sortKey      string
	sortAsc      bool
	loading      bool
}

// startNum is the 1-based index of the first object on the page.
func startNum(page int, pageSize *int, count int) int {
	if pageSize == nil {
		if count > 0 {
			return 1
		}
		return 0
	}
	return (page-1)*(*pageSize) + 1
}

// endNum is the 1-based index of the last object on the page.
func endNum(start int, pageSize *int, loaded int) int {
	if pageSize == nil {
		return loaded
	}
	return start + min(*pageSize, loaded) - 1
}

// numPages is the number of pages count spans, rounding a partial page up.
func numPages(count int, pageSize *int) int {
	if pageSize == nil || *pageSize <= 0 {
		return 1
	}
	n := count / *pageSize
	if count%*pageSize != 0 {
		n++
	}
	return n
}
