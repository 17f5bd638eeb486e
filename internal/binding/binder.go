// Package binding wires a display surface to the task list: it listens for
// delegated clicks and form submissions, calls the remote service, and on
// success replaces the observable list, which redraws the surface.
package binding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/render"
	"github.com/Makepad-fr/tada/internal/state"
	"github.com/Makepad-fr/tada/internal/surface"
)

// Alert texts. Failures append ": <error>".
const (
	MsgEmptyTitle   = "please input title!"
	MsgAddFailed    = "add new task failed"
	MsgDeleteFailed = "delete todo failed"
	MsgEditFailed   = "edit todo failed"
	MsgDoneFailed   = "complete todo failed"
	MsgLoadFailed   = "load todos failed"
)

// Binder is the view-model between one surface and one task list.
type Binder struct {
	svc     api.Service
	store   *state.Store
	surface surface.Surface
	logger  *slog.Logger
}

// New creates a binder. A nil logger discards logs.
func New(svc api.Service, store *state.Store, s surface.Surface, logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Binder{svc: svc, store: store, surface: s, logger: logger}
}

// Bootstrap registers the handlers, subscribes the renderer, draws the
// current list and loads the remote one. A failed load is alerted and
// leaves the list empty.
func (b *Binder) Bootstrap(ctx context.Context) {
	b.surface.OnSubmit(b.handleSubmit)
	for _, c := range surface.Containers {
		b.surface.OnClick(c, b.handleClick)
	}
	b.store.Subscribe(b.redraw)
	b.redraw()

	todos, err := b.svc.List(ctx)
	if err != nil {
		b.fail(MsgLoadFailed, err)
		return
	}
	b.store.Replace(todos)
}

func (b *Binder) redraw() {
	if err := render.Draw(b.surface, b.store.Todos()); err != nil {
		b.logger.Error("render failed", "err", err)
	}
}

func (b *Binder) fail(msg string, err error) {
	b.logger.Warn(msg, "err", err)
	b.surface.Alert(fmt.Sprintf("%s: %v", msg, err))
}

// handleSubmit creates a task from the first form field and puts it at the
// top of the list.
func (b *Binder) handleSubmit(ctx context.Context, ev surface.SubmitEvent) {
	title := ev.First()
	if strings.TrimSpace(title) == "" {
		b.surface.Alert(MsgEmptyTitle)
		return
	}

	created, err := b.svc.Create(ctx, model.NewTask{Title: title, Status: false, Done: false})
	if err != nil {
		b.fail(MsgAddFailed, err)
		return
	}
	b.store.Update(func(cur []model.Task) []model.Task {
		return state.Prepend(cur, created)
	})
	b.surface.ClearForm()
}

// handleClick is the one delegated listener of every container.
func (b *Binder) handleClick(ctx context.Context, ev surface.ClickEvent) {
	act, ok := Resolve(ev)
	if !ok {
		return
	}

	if act.Kind == ActionDelete {
		b.remove(ctx, act.ID)
		return
	}

	task, found := b.find(act.ID)
	if !found {
		b.logger.Debug("click on unknown task", "id", act.ID, "action", act.Kind)
		return
	}
	switch act.Kind {
	case ActionEdit:
		b.edit(ctx, task)
	case ActionToggleDone:
		b.toggleDone(ctx, task)
	}
}

// find scans the list for id.
func (b *Binder) find(id model.ID) (model.Task, bool) {
	todos := b.store.Todos()
	if i := model.Index(todos, id); i >= 0 {
		return todos[i], true
	}
	return model.Task{}, false
}

// remove deletes id remotely. A task in the list is addressed by its own id
// text so the request path matches what the remote assigned.
func (b *Binder) remove(ctx context.Context, id model.ID) {
	if task, ok := b.find(id); ok {
		id = task.ID
	}
	if _, err := b.svc.Remove(ctx, id); err != nil {
		b.fail(MsgDeleteFailed, err)
		return
	}
	b.store.Update(func(cur []model.Task) []model.Task {
		return state.Without(cur, id)
	})
}

// edit runs the edit control: a locked task becomes editable, an editable
// one saves the live input value and locks again. A saved title is applied
// as soon as the remote confirms it, even if locking then fails.
func (b *Binder) edit(ctx context.Context, task model.Task) {
	mode := task.Mode()
	if !mode.CanEdit() {
		return
	}
	if mode.Editable() {
		title, ok := b.surface.InputValue(model.InputElementID(task.ID))
		if !ok {
			title = task.Title
		}
		if strings.TrimSpace(title) == "" {
			b.surface.Alert(MsgEmptyTitle)
			return
		}
		saved, err := b.svc.UpdateTitle(ctx, task.ID, title)
		if err != nil {
			b.fail(MsgEditFailed, err)
			return
		}
		b.apply(task.ID, saved)
	}
	updated, err := b.svc.UpdateStatus(ctx, task.ID, mode.AfterEdit().Editable())
	if err != nil {
		b.fail(MsgEditFailed, err)
		return
	}
	b.apply(task.ID, updated)
}

func (b *Binder) toggleDone(ctx context.Context, task model.Task) {
	if !task.Mode().CanToggleDone() {
		return
	}
	updated, err := b.svc.UpdateDone(ctx, task.ID, !task.Done)
	if err != nil {
		b.fail(MsgDoneFailed, err)
		return
	}
	b.apply(task.ID, updated)
}

// apply swaps the server's copy of a task into the list.
func (b *Binder) apply(id model.ID, updated model.Task) {
	if updated.ID.IsZero() {
		updated.ID = id
	}
	b.store.Update(func(cur []model.Task) []model.Task {
		return state.Replaced(cur, updated)
	})
}
