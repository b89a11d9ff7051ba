package tui

import (
	"strings"

	"github.com/Makepad-fr/tada/internal/ui"
)

// renderList draws the filtered rows in collection order, then the pending
// row regardless of filter.
func (m Model) renderList() string {
	t := ui.Current()
	if m.loading {
		return m.spinner.View() + " " + t.Muted.Render("Loading todos…")
	}

	rows := m.visibleRows()
	if len(rows) == 0 {
		if len(m.items) == 0 {
			return t.Muted.Render("Nothing to do yet.")
		}
		return t.Muted.Render("No " + m.filter.String() + " todos.")
	}

	lines := make([]string, 0, len(rows))
	for i, it := range rows {
		busy := m.busy
		if it.Pending() {
			busy = true
		}
		lines = append(lines, renderRow(rowProps{
			item:     it,
			busy:     busy,
			selected: m.focus == focusList && i == m.cursor,
			deleting: !it.Pending() && it.ID == m.lastDeleteID,
			spinner:  m.spinner.View(),
			width:    m.width - 4,
		}))
	}
	return strings.Join(lines, "\n")
}
