package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sortItem struct {
	name string
	rank int
}

func TestSortObjects_StableOnTies(t *testing.T) {
	items := []sortItem{{"b", 1}, {"a", 2}, {"c", 1}, {"d", 2}}
	fields := SortFields[sortItem]{"rank": By(func(s sortItem) int { return s.rank })}

	asc := sortObjects(items, fields, "rank", true)
	assert.Equal(t, []sortItem{{"b", 1}, {"c", 1}, {"a", 2}, {"d", 2}}, asc)

	desc := sortObjects(items, fields, "rank", false)
	assert.Equal(t, []sortItem{{"a", 2}, {"d", 2}, {"b", 1}, {"c", 1}}, desc)

	assert.Equal(t, []sortItem{{"b", 1}, {"a", 2}, {"c", 1}, {"d", 2}}, items, "input is never reordered")
}

func TestSortObjects_NoFieldsOrUnknownKey(t *testing.T) {
	items := []sortItem{{"b", 1}, {"a", 2}}

	assert.Equal(t, items, sortObjects(items, nil, "rank", true))
	assert.Equal(t, items, sortObjects(items, SortFields[sortItem]{}, "rank", true))

	fields := SortFields[sortItem]{"name": ByFold(func(s sortItem) string { return s.name })}
	assert.Equal(t, items, sortObjects(items, fields, "rank", true))
	assert.Equal(t, items, sortObjects(items, fields, "", true))
}

func TestByFold(t *testing.T) {
	cmp := ByFold(func(s string) string { return s })
	assert.Zero(t, cmp("Web", "web"))
	assert.Negative(t, cmp("alpha", "Beta"))
}

func TestSortFields_Keys(t *testing.T) {
	fields := SortFields[sortItem]{
		"rank": By(func(s sortItem) int { return s.rank }),
		"name": ByFold(func(s sortItem) string { return s.name }),
	}
	assert.Equal(t, []string{"name", "rank"}, fields.Keys())
}
