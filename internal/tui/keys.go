package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding. In the input only esc dismisses, so x can be typed.
type keyMap struct {
	Submit       key.Binding
	SwitchFocus  key.Binding
	Up           key.Binding
	Down         key.Binding
	Delete       key.Binding
	Clear        key.Binding
	FilterAll    key.Binding
	FilterAct    key.Binding
	FilterDone   key.Binding
	NextFilter   key.Binding
	PrevFilter   key.Binding
	Dismiss      key.Binding
	DismissInput key.Binding
	Help         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		SwitchFocus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "input/list")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Delete:       key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "delete")),
		Clear:        key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		FilterAll:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterAct:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterDone:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		NextFilter:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next filter")),
		PrevFilter:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev filter")),
		Dismiss:      key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc/x", "dismiss error")),
		DismissInput: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss error")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// keyHelp adapts keyMap to help.KeyMap for the focused area.
type keyHelp struct {
	keys  keyMap
	focus focusArea
}

func (h keyHelp) ShortHelp() []key.Binding {
	if h.focus == focusInput {
		return []key.Binding{h.keys.Submit, h.keys.SwitchFocus, h.keys.DismissInput}
	}
	return []key.Binding{h.keys.Delete, h.keys.Clear, h.keys.NextFilter, h.keys.SwitchFocus, h.keys.Help, h.keys.Quit}
}

func (h keyHelp) FullHelp() [][]key.Binding {
	if h.focus == focusInput {
		return [][]key.Binding{h.ShortHelp()}
	}
	return [][]key.Binding{
		{h.keys.Up, h.keys.Down, h.keys.Delete, h.keys.Clear},
		{h.keys.FilterAll, h.keys.FilterAct, h.keys.FilterDone, h.keys.NextFilter, h.keys.PrevFilter},
		{h.keys.SwitchFocus, h.keys.Dismiss, h.keys.Help, h.keys.Quit},
	}
}
