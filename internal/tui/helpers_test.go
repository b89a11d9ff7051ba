package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/model"
)

var errBoom = errors.New("boom")

type fakeClient struct {
	mu        sync.Mutex
	items     []model.Item
	nextID    int
	listErr   error
	createErr error
	deleteErr map[int]error
	calls     []string
}

func newFakeClient(items ...model.Item) *fakeClient {
	next := 1
	for _, it := range items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return &fakeClient{items: items, nextID: next, deleteErr: map[int]error{}}
}

func (c *fakeClient) ListItems(ctx context.Context) ([]model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "list")
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]model.Item(nil), c.items...), nil
}

func (c *fakeClient) CreateItem(ctx context.Context, d model.Draft) (model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "create:"+d.Title)
	if c.createErr != nil {
		return model.Item{}, c.createErr
	}
	it := model.Item{ID: c.nextID, UserID: d.UserID, Title: d.Title, Completed: d.Completed}
	c.nextID++
	c.items = append(c.items, it)
	return it, nil
}

func (c *fakeClient) DeleteItem(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "delete")
	if err := c.deleteErr[id]; err != nil {
		return err
	}
	c.items = model.Without(c.items, id)
	return nil
}

func (c *fakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// testHarness records scheduled error expiries instead of starting timers.
type testHarness struct {
	expiries []errorExpiredMsg
}

func newTestModel(t *testing.T, c Client, userID int) (Model, *testHarness) {
	t.Helper()
	h := &testHarness{}
	m := New(Options{Client: c, UserID: userID})
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.schedule = func(d time.Duration, msg tea.Msg) tea.Cmd {
		if d != ErrorLifetime {
			t.Errorf("error scheduled for %s, want %s", d, ErrorLifetime)
		}
		h.expiries = append(h.expiries, msg.(errorExpiredMsg))
		return nil
	}
	return m, h
}

// loadedModel returns a model whose initial load already completed.
func loadedModel(t *testing.T, c *fakeClient) (Model, *testHarness) {
	t.Helper()
	m, h := newTestModel(t, c, 7)
	m = settle(t, m, m.Init())
	return m, h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// collect runs cmd and flattens batches into the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func isAPIMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case itemsLoadedMsg, loadFailedMsg, itemCreatedMsg, createFailedMsg, itemDeletedMsg, deleteFailedMsg:
		return true
	}
	return false
}

// apiMsgs runs cmd and keeps only the results of API calls.
func apiMsgs(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for _, msg := range collect(cmd) {
		if isAPIMsg(msg) {
			out = append(out, msg)
		}
	}
	return out
}

// settle runs cmd and feeds every API result back until nothing is outstanding.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := apiMsgs(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		var next tea.Cmd
		m, next = update(t, m, msg)
		queue = append(queue, apiMsgs(next)...)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func plainView(m Model) string { return ansi.Strip(m.View()) }

func ids(items []model.Item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func sample() []model.Item {
	return []model.Item{
		{ID: 1, UserID: 7, Title: "Buy milk", Completed: true},
		{ID: 2, UserID: 7, Title: "Walk dog", Completed: true},
		{ID: 3, UserID: 7, Title: "Write report", Completed: false},
	}
}
