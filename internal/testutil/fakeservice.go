// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned when a task is not found.
var ErrNotFound = errors.New("not found")

// Call records one Service invocation.
type Call struct {
	Method string
	ID     model.ID
	Title  string
	Flag   bool
}

// FakeService is an in-memory implementation of api.Service for testing.
// Every call is recorded, including failed ones.
type FakeService struct {
	mu     sync.Mutex
	tasks  []model.Task
	nextID int64
	calls  []Call

	// Error injection for testing
	CreateErr       error
	RemoveErr       error
	ListErr         error
	UpdateTitleErr  error
	UpdateStatusErr error
	UpdateDoneErr   error
}

var _ api.Service = (*FakeService)(nil)

// NewFakeService creates a FakeService holding tasks in server order.
func NewFakeService(tasks ...model.Task) *FakeService {
	f := &FakeService{}
	for _, t := range tasks {
		f.tasks = append(f.tasks, t)
		if n, ok := t.ID.Int(); ok && n > f.nextID {
			f.nextID = n
		}
	}
	return f
}

// Calls returns a copy of the recorded calls.
func (f *FakeService) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded calls of one method.
func (f *FakeService) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Tasks returns the server-side tasks.
func (f *FakeService) Tasks() []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeService) record(c Call) {
	f.calls = append(f.calls, c)
}

func fail(op string, err error) error {
	return &api.Error{Op: op, Err: err}
}

// Create implements api.Service.
func (f *FakeService) Create(ctx context.Context, t model.NewTask) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "Create", Title: t.Title})
	if f.CreateErr != nil {
		return model.Task{}, fail("create", f.CreateErr)
	}
	f.nextID++
	task := model.Task{ID: model.IntID(f.nextID), Title: t.Title, Status: t.Status, Done: t.Done}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Remove implements api.Service.
func (f *FakeService) Remove(ctx context.Context, id model.ID) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "Remove", ID: id})
	if f.RemoveErr != nil {
		return nil, fail("remove", f.RemoveErr)
	}
	i := model.Index(f.tasks, id)
	if i < 0 {
		return nil, fail("remove", ErrNotFound)
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return map[string]any{}, nil
}

// List implements api.Service.
func (f *FakeService) List(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "List"})
	if f.ListErr != nil {
		return nil, fail("list", f.ListErr)
	}
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// UpdateTitle implements api.Service.
func (f *FakeService) UpdateTitle(ctx context.Context, id model.ID, title string) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "UpdateTitle", ID: id, Title: title})
	if f.UpdateTitleErr != nil {
		return model.Task{}, fail("update", f.UpdateTitleErr)
	}
	return f.patch(id, model.Patch{Title: &title})
}

// UpdateStatus implements api.Service.
func (f *FakeService) UpdateStatus(ctx context.Context, id model.ID, status bool) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "UpdateStatus", ID: id, Flag: status})
	if f.UpdateStatusErr != nil {
		return model.Task{}, fail("update", f.UpdateStatusErr)
	}
	return f.patch(id, model.Patch{Status: &status})
}

// UpdateDone implements api.Service.
func (f *FakeService) UpdateDone(ctx context.Context, id model.ID, done bool) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "UpdateDone", ID: id, Flag: done})
	if f.UpdateDoneErr != nil {
		return model.Task{}, fail("update", f.UpdateDoneErr)
	}
	return f.patch(id, model.Patch{Done: &done})
}

func (f *FakeService) patch(id model.ID, p model.Patch) (model.Task, error) {
	i := model.Index(f.tasks, id)
	if i < 0 {
		return model.Task{}, fail("update", ErrNotFound)
	}
	f.tasks[i] = p.Apply(f.tasks[i])
	return f.tasks[i], nil
}
