package model

// Item is the domain model for a todo entry as the remote API returns it.
// ID 0 is reserved for an item that has not been persisted yet.
type Item struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Pending reports whether the item is a local placeholder awaiting creation.
func (i Item) Pending() bool { return i.ID == 0 }

// Draft is the payload sent to create a new item.
type Draft struct {
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Placeholder returns the pending item shown while the draft is being created.
func (d Draft) Placeholder() Item {
	return Item{UserID: d.UserID, Title: d.Title, Completed: d.Completed}
}

// Remaining counts the items that are not completed.
func Remaining(items []Item) int {
	n := 0
	for _, it := range items {
		if !it.Completed {
			n++
		}
	}
	return n
}

// AnyCompleted reports whether at least one item is completed.
func AnyCompleted(items []Item) bool {
	for _, it := range items {
		if it.Completed {
			return true
		}
	}
	return false
}

// AllCompleted reports whether items is non-empty and every item is completed.
func AllCompleted(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.Completed {
			return false
		}
	}
	return true
}

// Completed returns the completed items in collection order.
func Completed(items []Item) []Item {
	return FilteredView(items, FilterCompleted)
}

// Without returns a copy of items with every item carrying id removed.
func Without(items []Item, id int) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
