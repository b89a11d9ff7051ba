package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		{ID: 1, UserID: 7, Title: "Buy milk", Completed: true},
		{ID: 2, UserID: 7, Title: "Write report", Completed: false},
		{ID: 3, UserID: 7, Title: "Call mom", Completed: true},
		{ID: 4, UserID: 7, Title: "Fix bike", Completed: false},
	}
}

func ids(items []Item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilteredView_KeepsRelativeOrder(t *testing.T) {
	items := sampleItems()

	assert.Equal(t, []int{1, 2, 3, 4}, ids(FilteredView(items, FilterAll)))
	assert.Equal(t, []int{2, 4}, ids(FilteredView(items, FilterActive)))
	assert.Equal(t, []int{1, 3}, ids(FilteredView(items, FilterCompleted)))
}

func TestFilteredView_DoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	before := append([]Item(nil), items...)

	_ = FilteredView(items, FilterActive)
	_ = FilteredView(items, FilterCompleted)

	assert.Equal(t, before, items)
}

func TestFilteredView_EveryItemMatchesPredicate(t *testing.T) {
	items := sampleItems()
	for _, f := range Filters {
		view := FilteredView(items, f)
		matched := 0
		for _, it := range items {
			if f.Match(it) {
				matched++
			}
		}
		require.Len(t, view, matched, "filter %s", f)
		for _, it := range view {
			assert.True(t, f.Match(it), "filter %s let through %+v", f, it)
		}
	}
}

func TestRemaining_IgnoresFilter(t *testing.T) {
	items := sampleItems()
	assert.Equal(t, 2, Remaining(items))
	assert.Equal(t, 0, Remaining(nil))
	assert.Equal(t, 0, Remaining(FilteredView(items, FilterCompleted)))
}

func TestCompletedHelpers(t *testing.T) {
	items := sampleItems()
	assert.True(t, AnyCompleted(items))
	assert.False(t, AllCompleted(items))
	assert.False(t, AllCompleted(nil))
	assert.False(t, AnyCompleted(FilteredView(items, FilterActive)))
	assert.True(t, AllCompleted(Completed(items)))
}

func TestWithout(t *testing.T) {
	items := sampleItems()
	out := Without(items, 3)
	assert.Equal(t, []int{1, 2, 4}, ids(out))
	assert.Len(t, items, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(Without(items, 99)))
}

func TestParseFilter(t *testing.T) {
	cases := map[string]Filter{
		"":           FilterAll,
		"all":        FilterAll,
		"Active":     FilterActive,
		" completed": FilterCompleted,
		"done":       FilterCompleted,
	}
	for in, want := range cases {
		got, err := ParseFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilter("someday")
	assert.Error(t, err)
}

func TestFilterCycle(t *testing.T) {
	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
	assert.Equal(t, FilterCompleted, FilterAll.Prev())
}

func TestDraftPlaceholderIsPending(t *testing.T) {
	p := Draft{UserID: 7, Title: "New"}.Placeholder()
	assert.True(t, p.Pending())
	assert.False(t, p.Completed)
	assert.Equal(t, "New", p.Title)
}

func TestErrorKindMessages(t *testing.T) {
	assert.Empty(t, ErrNone.Message())
	assert.Equal(t, "Title should not be empty", ErrEmptyTitle.Message())
	assert.Equal(t, "Unable to delete a todo", ErrDeleteFailed.Message())
	assert.Equal(t, "load_failed", ErrLoadFailed.String())
}
