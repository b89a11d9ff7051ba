package tui

import (
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// renderFooter shows the remaining count, the filter links and the clear
// control. It is omitted when the collection is empty.
func (m Model) renderFooter() string {
	if len(m.items) == 0 {
		return ""
	}
	t := ui.Current()

	// the brackets and parentheses survive the ASCII color profile
	links := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == m.filter {
			links = append(links, t.Selected.Render("["+f.Label()+"]"))
		} else {
			links = append(links, t.Muted.Render(" "+f.Label()+" "))
		}
	}

	clearCtl := t.Accent.Render("Clear completed")
	switch {
	case m.clearing > 0:
		clearCtl = m.spinner.View() + " " + t.Muted.Render("Clearing…")
	case !model.AnyCompleted(m.items):
		clearCtl = t.Disabled.Render("(Clear completed)")
	}

	return strings.Join([]string{
		ui.ItemsLeft(model.Remaining(m.items)),
		strings.Join(links, " "),
		clearCtl,
	}, "   ")
}
