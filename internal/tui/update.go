package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-12)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.animating() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case itemsLoadedMsg:
		m.loading = false
		m.items = append([]model.Item(nil), msg.items...)
		m.clampCursor()
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.items = nil
		m.log.Warn("load failed", "err", msg.err)
		cmd := m.setError(model.ErrLoadFailed)
		return m, cmd

	case itemCreatedMsg:
		cmd := m.handleCreated(msg)
		return m, cmd

	case createFailedMsg:
		cmd := m.handleCreateFailed(msg)
		return m, cmd

	case itemDeletedMsg:
		cmd := m.handleDeleted(msg)
		return m, cmd

	case deleteFailedMsg:
		cmd := m.handleDeleteFailed(msg)
		return m, cmd

	case errorExpiredMsg:
		if msg.seq == m.errSeq {
			m.errKind = model.ErrNone
		}
		return m, nil
	}

	if m.focus == focusInput && !m.busy {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if !m.Configured() {
		if key.Matches(msg, m.keys.Quit, m.keys.Dismiss) || msg.Type == tea.KeyEnter {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		cmd := m.submit()
		return m, cmd
	case key.Matches(msg, m.keys.DismissInput):
		m.dismissError()
		return m, nil
	case key.Matches(msg, m.keys.SwitchFocus):
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}
	if m.busy {
		// input is disabled while a request is outstanding
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchFocus):
		cmd := m.refocus()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visibleRows())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Delete):
		cmd := m.deleteSelected()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		cmd := m.clearCompleted()
		return m, cmd
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FilterAct):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, m.keys.FilterDone):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.NextFilter):
		m.setFilter(m.filter.Next())
	case key.Matches(msg, m.keys.PrevFilter):
		m.setFilter(m.filter.Prev())
	case key.Matches(msg, m.keys.Dismiss):
		m.dismissError()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// submit validates the buffer and starts an add. Nothing is added until the
// initial load has replaced the collection.
func (m *Model) submit() tea.Cmd {
	if m.busy || m.loading {
		return nil
	}
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		return m.setError(model.ErrEmptyTitle)
	}
	d := model.Draft{UserID: m.userID, Title: title}
	p := d.Placeholder()
	m.pending = &p
	m.busy = true
	m.log.Debug("create", "title", title)
	return tea.Batch(createCmd(m.ctx, m.client, d), m.spinner.Tick)
}

func (m *Model) handleCreated(msg itemCreatedMsg) tea.Cmd {
	defer m.endFlight()
	m.items = append(m.Items(), msg.item)
	m.pending = nil
	m.input.SetValue("")
	return m.refocus()
}

func (m *Model) handleCreateFailed(msg createFailedMsg) tea.Cmd {
	defer m.endFlight()
	m.log.Warn("create failed", "err", msg.err)
	m.pending = nil
	return tea.Batch(m.setError(model.ErrAddFailed), m.refocus())
}

func (m *Model) deleteSelected() tea.Cmd {
	rows := m.visibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	return m.deleteItem(rows[m.cursor].ID)
}

// deleteItem starts a single delete. The pending row has no identity yet.
func (m *Model) deleteItem(id int) tea.Cmd {
	if m.busy || id == 0 {
		return nil
	}
	m.busy = true
	m.lastDeleteID = id
	m.log.Debug("delete", "id", id)
	return tea.Batch(deleteCmd(m.ctx, m.client, id, false), m.spinner.Tick)
}

// clearCompleted fans out one delete per completed item. Completions apply in
// whatever order they arrive. An item whose single delete is in flight is left
// to that delete.
func (m *Model) clearCompleted() tea.Cmd {
	if m.clearing > 0 {
		return nil
	}
	done := model.Completed(m.items)
	if m.busy && m.lastDeleteID != 0 {
		done = model.Without(done, m.lastDeleteID)
	}
	if len(done) == 0 {
		return nil
	}
	m.clearing = len(done)
	cmds := make([]tea.Cmd, 0, len(done)+1)
	for _, it := range done {
		cmds = append(cmds, deleteCmd(m.ctx, m.client, it.ID, true))
	}
	cmds = append(cmds, m.spinner.Tick)
	m.log.Debug("clear completed", "count", len(done))
	return tea.Batch(cmds...)
}

func (m *Model) handleDeleted(msg itemDeletedMsg) tea.Cmd {
	if msg.bulk {
		m.clearing = max(0, m.clearing-1)
	} else {
		defer m.endFlight()
	}
	m.items = model.Without(m.items, msg.id)
	m.clampCursor()
	return m.refocus()
}

func (m *Model) handleDeleteFailed(msg deleteFailedMsg) tea.Cmd {
	if msg.bulk {
		m.clearing = max(0, m.clearing-1)
	} else {
		defer m.endFlight()
	}
	m.log.Warn("delete failed", "id", msg.id, "bulk", msg.bulk, "err", msg.err)
	return m.setError(model.ErrDeleteFailed)
}

func (m *Model) setFilter(f model.Filter) {
	m.filter = f
	m.clampCursor()
}

// setError fills the single error slot and schedules its expiry. A newer
// error or a dismissal bumps errSeq, so stale expiries do nothing.
func (m *Model) setError(k model.ErrorKind) tea.Cmd {
	m.errKind = k
	m.errSeq++
	return m.schedule(m.errorLifetime, errorExpiredMsg{seq: m.errSeq})
}

func (m *Model) dismissError() {
	if m.errKind == model.ErrNone {
		return
	}
	m.errKind = model.ErrNone
	m.errSeq++
}

func (m *Model) endFlight() { m.busy = false }

func (m *Model) refocus() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) clampCursor() {
	n := len(m.visibleRows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) animating() bool {
	return m.busy || m.loading || m.clearing > 0 || m.pending != nil
}
