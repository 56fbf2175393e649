package listview

import (
	"cmp"
	"slices"
	"strings"
)

// Comparator orders two objects: negative when a sorts first, zero when tied.
type Comparator[T any] func(a, b T) int

// SortFields maps the sort keys a screen offers to their comparators.
type SortFields[T any] map[string]Comparator[T]

// By builds a comparator from a key accessor.
func By[T any, K cmp.Ordered](key func(T) K) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

// ByFold builds a case-insensitive comparator from a string accessor.
func ByFold[T any](key func(T) string) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
	}
}

// Keys returns the configured sort keys in lexical order.
func (f SortFields[T]) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// sortObjects returns objects ordered by the comparator registered for key.
// The input is returned as is when no comparator matches the key.
// Descending order swaps the comparator arguments; ties keep their loaded order.
func sortObjects[T any](objects []T, fields SortFields[T], key string, asc bool) []T {
	if len(fields) == 0 || key == "" {
		return objects
	}
	compare, ok := fields[key]
	if !ok || compare == nil {
		return objects
	}

	sorted := slices.Clone(objects)
	if asc {
		slices.SortStableFunc(sorted, compare)
	} else {
		slices.SortStableFunc(sorted, func(a, b T) int { return compare(b, a) })
	}
	return sorted
}
