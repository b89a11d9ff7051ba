// Package tui is the interactive todo app: a Bubble Tea controller that owns
// all state and renders the list, footer and error banner from it.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// ErrorLifetime is how long an error stays on screen unless dismissed.
const ErrorLifetime = 3 * time.Second

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Options configure the controller.
type Options struct {
	Client Client
	// UserID of zero renders the onboarding view and never touches the network.
	UserID int
	Logger *log.Logger
	// Context is used for every API call. Calls are never cancelled by the UI.
	Context context.Context
}

// Model owns the whole app state. Renderers receive copies of it.
type Model struct {
	client Client
	userID int
	ctx    context.Context
	log    *log.Logger

	items   []model.Item
	filter  model.Filter
	pending *model.Item // at most one add in flight

	errKind model.ErrorKind
	errSeq  int

	// busy gates the input while a single add or delete is outstanding.
	busy         bool
	lastDeleteID int
	clearing     int // bulk deletes still outstanding
	loading      bool

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	focus   focusArea
	cursor  int

	width, height int

	errorLifetime time.Duration
	schedule      func(time.Duration, tea.Msg) tea.Cmd
}

// New builds the controller. Nothing is fetched until Init runs.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	t := ui.Current()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = t.Pending

	h := help.New()
	h.Styles.ShortKey = t.Help
	h.Styles.ShortDesc = t.Help
	h.Styles.FullKey = t.Help
	h.Styles.FullDesc = t.Help

	return Model{
		client:        opts.Client,
		userID:        opts.UserID,
		ctx:           ctx,
		log:           logger.WithPrefix("tui"),
		loading:       opts.UserID > 0,
		input:         ti,
		spinner:       sp,
		help:          h,
		keys:          defaultKeyMap(),
		focus:         focusInput,
		width:         80,
		height:        24,
		errorLifetime: ErrorLifetime,
		schedule:      tickAfter,
	}
}

// Configured reports whether an owner identity is set.
func (m Model) Configured() bool { return m.userID > 0 }

// Init loads the collection, or does nothing in onboarding mode.
func (m Model) Init() tea.Cmd {
	if !m.Configured() || m.client == nil {
		return nil
	}
	return tea.Batch(loadCmd(m.ctx, m.client), m.spinner.Tick, textinput.Blink)
}

// Items returns a copy of the collection.
func (m Model) Items() []model.Item { return append([]model.Item(nil), m.items...) }

// Filter returns the active filter.
func (m Model) Filter() model.Filter { return m.filter }

// Error returns the error currently on screen.
func (m Model) Error() model.ErrorKind { return m.errKind }

// Busy reports whether a single add or delete is outstanding.
func (m Model) Busy() bool { return m.busy }

// Pending returns the placeholder of the add in flight, if any.
func (m Model) Pending() (model.Item, bool) {
	if m.pending == nil {
		return model.Item{}, false
	}
	return *m.pending, true
}

// InputValue returns the new-item buffer.
func (m Model) InputValue() string { return m.input.Value() }

// visibleRows is the filtered view plus the pending row, which is always shown.
func (m Model) visibleRows() []model.Item {
	rows := model.FilteredView(m.items, m.filter)
	if m.pending != nil {
		rows = append(rows, *m.pending)
	}
	return rows
}

// Run starts the interactive program on the alternate screen.
func Run(m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
