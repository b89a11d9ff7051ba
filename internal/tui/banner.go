package tui

import "github.com/Makepad-fr/tada/internal/ui"

func (m Model) renderBanner() string {
	msg := m.errKind.Message()
	if msg == "" {
		return ""
	}
	t := ui.Current()
	return t.Error.Render("✖ "+msg) + "  " + t.Muted.Render("(esc to dismiss)")
}
