package cli

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Short:   "List todos",
		Args:    usageArgs(cobra.NoArgs),
		Example: "  todo ls --filter active\n  todo ls --group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return usageErr("%v", err)
			}
			c, err := a.client(a.newLogger())
			if err != nil {
				return err
			}
			items, err := c.ListItems(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", model.ErrLoadFailed.Message(), err)
			}
			ui.Panel(a.out, listLines(items, f, group))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, active or completed")
	cmd.Flags().BoolVar(&group, "group", false, "group output by active/completed")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add <title...>",
		Short:   "Add a todo (title can be multiple words)",
		Example: `  todo add "Buy milk"`,
		Args:    usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usageErr("%s", model.ErrEmptyTitle.Message())
			}
			c, err := a.client(a.newLogger())
			if err != nil {
				return err
			}
			it, err := c.CreateItem(cmd.Context(), model.Draft{UserID: a.cfg.UserID, Title: title})
			if err != nil {
				return fmt.Errorf("%s: %w", model.ErrAddFailed.Message(), err)
			}
			ui.OK(a.out, fmt.Sprintf("added #%d %s", it.ID, it.Title))
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Short:   "Remove the todo with the given id",
		Example: "  todo rm 3",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return usageErr("rm: not a todo id: %s", args[0])
			}
			c, err := a.client(a.newLogger())
			if err != nil {
				return err
			}
			if err := c.DeleteItem(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s: %w", model.ErrDeleteFailed.Message(), err)
			}
			ui.OK(a.out, fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
}

// maxParallelDeletes bounds the clear-completed fan-out.
const maxParallelDeletes = 4

func newClearCompletedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed todo",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(a.newLogger())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			items, err := c.ListItems(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", model.ErrLoadFailed.Message(), err)
			}
			done := model.Completed(items)
			if len(done) == 0 {
				fmt.Fprintln(a.out, ui.Current().Muted.Render("nothing to clear"))
				return nil
			}

			// Best effort: one failure does not stop the other deletes.
			var (
				mu     sync.Mutex
				failed []int
				g      errgroup.Group
			)
			g.SetLimit(maxParallelDeletes)
			for _, it := range done {
				g.Go(func() error {
					if err := c.DeleteItem(ctx, it.ID); err != nil {
						mu.Lock()
						failed = append(failed, it.ID)
						mu.Unlock()
						return err
					}
					return nil
				})
			}
			firstErr := g.Wait()

			removed := len(done) - len(failed)
			ui.OK(a.out, fmt.Sprintf("removed %d of %d completed", removed, len(done)))
			if firstErr != nil {
				return fmt.Errorf("%s (%d failed: %v): %w", model.ErrDeleteFailed.Message(), len(failed), failed, firstErr)
			}
			return nil
		},
	}
}

// -------------- rendering helpers --------------

func listLines(items []model.Item, f model.Filter, group bool) []string {
	t := ui.Current()
	remaining := model.Remaining(items)
	done := len(items) - remaining

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), remaining,
		t.Accent.Render("Total"), len(items),
	)

	lines := []string{header, t.Muted.Render(ui.ProgressBar(done, len(items), 28)), ""}
	view := model.FilteredView(items, f)
	if group {
		lines = append(lines, groupLines(view)...)
	} else {
		lines = append(lines, flatLines(view)...)
	}
	lines = append(lines, "", t.Muted.Render(ui.ItemsLeft(remaining)+" · filter: "+f.String()))
	return lines
}

func flatLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		title := ansi.Truncate(it.Title, 80, "...")
		if it.Completed {
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("#%-4d", it.ID)), ui.Box(it.Completed), title))
	}
	return out
}

func groupLines(items []model.Item) []string {
	t := ui.Current()
	var lines []string
	for _, f := range []model.Filter{model.FilterActive, model.FilterCompleted} {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Accent.Render(f.Label()))
		part := model.FilteredView(items, f)
		if len(part) == 0 {
			lines = append(lines, t.Muted.Render("(none)"))
			continue
		}
		lines = append(lines, flatLines(part)...)
	}
	return lines
}
