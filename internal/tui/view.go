package tui

import (
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (m Model) View() string {
	if !m.Configured() {
		return ui.PanelString(renderWarning(m.width - 6))
	}
	t := ui.Current()

	sections := []string{t.Title.Render("todos"), m.renderHeader(), m.renderList()}
	if footer := m.renderFooter(); footer != "" {
		sections = append(sections, footer)
	}
	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, m.help.View(keyHelp{keys: m.keys, focus: m.focus}))
	return ui.PanelString(strings.Join(sections, "\n\n"))
}

// renderHeader is the toggle-all marker followed by the new-item input.
func (m Model) renderHeader() string {
	t := ui.Current()

	toggle := " "
	if len(m.items) > 0 {
		toggle = t.Muted.Render(t.SymToggleAll)
		if model.AllCompleted(m.items) {
			toggle = t.Accent.Render(t.SymToggleAll)
		}
	}

	input := m.input.View()
	if m.busy {
		input = t.Disabled.Render(m.input.Prompt + m.input.Value())
	}
	return toggle + " " + input
}
