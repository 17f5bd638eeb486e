package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const requestTimeout = 15 * time.Second

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}

func newListCmd(app *App) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			tasks, err := svc.List(ctx)
			if err != nil {
				return fmt.Errorf("load todos failed: %w", err)
			}
			ui.Panel(listLines(tasks, group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "Group output by active/completed")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usagef("please input title!")
			}
			svc, err := app.service()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			t, err := svc.Create(ctx, model.NewTask{Title: title})
			if err != nil {
				return fmt.Errorf("add new task failed: %w", err)
			}
			ui.OK(fmt.Sprintf("added #%s", t.ID))
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  exactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			id := model.ParseID(args[0])
			if _, err := svc.Remove(ctx, id); err != nil {
				return fmt.Errorf("delete todo failed: %w", err)
			}
			ui.OK(fmt.Sprintf("removed #%s", id))
			return nil
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between active and completed",
		Args:  exactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			id := model.ParseID(args[0])
			tasks, err := svc.List(ctx)
			if err != nil {
				return fmt.Errorf("load todos failed: %w", err)
			}
			i := model.Index(tasks, id)
			if i < 0 {
				return usageError{
					msg:  fmt.Sprintf("no task #%s", id),
					hint: "Hint: run `tada ls` to see task ids",
				}
			}
			if !tasks[i].Mode().CanToggleDone() {
				return usagef("task #%s is being edited", id)
			}
			t, err := svc.UpdateDone(ctx, id, !tasks[i].Done)
			if err != nil {
				return fmt.Errorf("complete todo failed: %w", err)
			}
			if t.Done {
				ui.OK(fmt.Sprintf("completed #%s", id))
			} else {
				ui.OK(fmt.Sprintf("reopened #%s", id))
			}
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Change a task's title",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ParseID(args[0])
			if id.IsZero() {
				return usagef("edit: empty id")
			}
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return usagef("please input title!")
			}
			svc, err := app.service()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			if _, err := svc.UpdateTitle(ctx, id, title); err != nil {
				return fmt.Errorf("edit todo failed: %w", err)
			}
			ui.OK(fmt.Sprintf("renamed #%s", id))
			return nil
		},
	}
}

func exactID(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usagef("usage: tada %s", cmd.Use)
	}
	if model.ParseID(args[0]).IsZero() {
		return usagef("%s: empty id", cmd.Name())
	}
	return nil
}

// -------------- rendering helpers --------------

func listLines(tasks []model.Task, group bool) []string {
	t := ui.Current()
	done, active := model.Stats(tasks)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymUnchecked), active,
		t.Accent.Render("Total"), len(tasks),
	)

	lines := []string{header, t.Muted.Render(ui.ProgressBar(done, done+active, 28)), ""}
	if group {
		lines = append(lines, groupLines(tasks)...)
	} else {
		lines = append(lines, flatLines(tasks)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
	return lines
}

func flatLines(tasks []model.Task) []string {
	t := ui.Current()
	if len(tasks) == 0 {
		return []string{t.Muted.Render("no tasks")}
	}
	width := 0
	for _, task := range tasks {
		if w := len(task.ID.String()); w > width {
			width = w
		}
	}
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		idx := fmt.Sprintf("#%-*s", width, task.ID)
		box := t.Muted.Render(t.BoxUnchecked)
		title := ui.Truncate(task.Title, 80)
		switch task.Mode() {
		case model.ModeCompleted:
			box = t.Success.Render(t.BoxChecked)
		case model.ModeEditable:
			title += " " + t.Pending.Render("(editing)")
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Dim.Render(idx), box, title))
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	t := ui.Current()
	var active, done []model.Task
	for _, task := range tasks {
		if task.Done {
			done = append(done, task)
		} else {
			active = append(active, task)
		}
	}
	lines := []string{t.Accent.Render("Active")}
	if len(active) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(active)...)
	}
	lines = append(lines, "", t.Accent.Render("Completed"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
