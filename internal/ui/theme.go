package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All renderers pull from Current().
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help, Disabled               lipgloss.Style
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.TerminalColor

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymDelete, SymDeleteOff  string
	SymToggleAll             string
	SymCursor                string
	// MarkdownStyle names the glamour standard style for this theme.
	MarkdownStyle string
}

var current = classic()

var (
	savedProfile  termenv.Profile
	profileForced bool
)

// SetTheme selects a theme by name; unknown names fall back to classic.
// mono and NO_COLOR force the ASCII color profile until another theme is set.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
	ascii := current.Name == "mono" || strings.TrimSpace(os.Getenv("NO_COLOR")) != ""
	switch {
	case ascii && !profileForced:
		savedProfile = lipgloss.ColorProfile()
		profileForced = true
		lipgloss.SetColorProfile(termenv.Ascii)
	case !ascii && profileForced:
		lipgloss.SetColorProfile(savedProfile)
		profileForced = false
	}
}

// Current returns the active theme.
func Current() Theme { return current }

func classic() Theme {
	return Theme{
		Name:     "classic",
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Disabled: lipgloss.NewStyle().Faint(true),

		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
		SymDelete: "×", SymDeleteOff: "·",
		SymToggleAll:  "❯",
		SymCursor:     "> ",
		MarkdownStyle: "dark",
	}
}

func neon() Theme {
	t := classic()
	t.Name = "neon"
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.BorderColor = lipgloss.Color("13")
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:  "mono",
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Pending: plain,
		Selected: plain.Reverse(true), Done: plain, Help: plain, Disabled: plain,

		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.NoColor{},

		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymPending: "-",
		SymDelete: "x", SymDeleteOff: "-",
		SymToggleAll:  ">",
		SymCursor:     "> ",
		MarkdownStyle: "notty",
	}
}
