package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

// Client is the remote resource the controller synchronises with.
type Client interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	CreateItem(ctx context.Context, d model.Draft) (model.Item, error)
	DeleteItem(ctx context.Context, id int) error
}

type itemsLoadedMsg struct{ items []model.Item }

type loadFailedMsg struct{ err error }

type itemCreatedMsg struct{ item model.Item }

type createFailedMsg struct{ err error }

// bulk marks deletes issued by "clear completed"; they never touch the busy flag.
type itemDeletedMsg struct {
	id   int
	bulk bool
}

type deleteFailedMsg struct {
	id   int
	bulk bool
	err  error
}

// errorExpiredMsg clears the error banner only if seq still names the shown error.
type errorExpiredMsg struct{ seq int }

func loadCmd(ctx context.Context, c Client) tea.Cmd {
	return func() tea.Msg {
		items, err := c.ListItems(ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return itemsLoadedMsg{items: items}
	}
}

func createCmd(ctx context.Context, c Client, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		it, err := c.CreateItem(ctx, d)
		if err != nil {
			return createFailedMsg{err: err}
		}
		return itemCreatedMsg{item: it}
	}
}

func deleteCmd(ctx context.Context, c Client, id int, bulk bool) tea.Cmd {
	return func() tea.Msg {
		if err := c.DeleteItem(ctx, id); err != nil {
			return deleteFailedMsg{id: id, bulk: bulk, err: err}
		}
		return itemDeletedMsg{id: id, bulk: bulk}
	}
}

func tickAfter(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
