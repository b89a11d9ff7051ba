package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// rowProps is the immutable snapshot one row renders from.
type rowProps struct {
	item     model.Item
	busy     bool
	selected bool
	// deleting marks the most recent single-delete target.
	deleting bool
	spinner  string
	width    int
}

// overlayActive is true for the pending row or the row being deleted, while busy.
func (p rowProps) overlayActive() bool {
	return p.busy && (p.item.Pending() || p.deleting)
}

// renderRow draws: cursor, read-only checkbox, title, delete control.
// The overlay replaces the checkbox with the spinner and dims the row.
func renderRow(p rowProps) string {
	t := ui.Current()

	prefix := "  "
	if p.selected {
		prefix = t.Selected.Render(t.SymCursor)
	}

	box := ui.Box(p.item.Completed)
	if p.overlayActive() {
		pad := ansi.StringWidth(t.BoxUnchecked) - ansi.StringWidth(p.spinner)
		box = p.spinner + strings.Repeat(" ", max(0, pad))
	}

	del := t.Error.Render(t.SymDelete)
	if p.busy {
		del = t.Disabled.Render(t.SymDeleteOff)
	}

	title := p.item.Title
	// room for prefix, box, spaces and the delete control
	if avail := p.width - 2 - ansi.StringWidth(t.BoxUnchecked) - 4; avail > 3 {
		title = ansi.Truncate(title, avail, "…")
	}
	switch {
	case p.overlayActive():
		title = t.Muted.Render(title)
	case p.item.Completed:
		title = t.Done.Render(title)
	}

	return prefix + box + " " + title + "  " + del
}
