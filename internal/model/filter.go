package model

import (
	"fmt"
	"strings"
)

// Filter selects a derived view over the item collection.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Label is the human-facing name shown in the footer.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Match reports whether it belongs to the view selected by f.
func (f Filter) Match(it Item) bool {
	switch f {
	case FilterActive:
		return !it.Completed
	case FilterCompleted:
		return it.Completed
	default:
		return true
	}
}

// Next returns the following filter, wrapping around.
func (f Filter) Next() Filter { return Filters[(int(f)+1)%len(Filters)] }

// Prev returns the preceding filter, wrapping around.
func (f Filter) Prev() Filter { return Filters[(int(f)+len(Filters)-1)%len(Filters)] }

// ParseFilter maps a name (all, active, completed) to a Filter.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// FilteredView returns the items matching f, preserving their relative order.
// The input slice is never modified.
func FilteredView(items []Item, f Filter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
