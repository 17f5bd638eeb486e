// Package api is the remote access layer for the task resource.
package api

import (
	"context"

	"github.com/Makepad-fr/tada/internal/model"
)

// Service defines the operations against the remote task resource.
// Each call is a single request with no retry; any failure is an *Error.
type Service interface {
	// Create stores a new task and returns it with its assigned id.
	Create(ctx context.Context, t model.NewTask) (model.Task, error)

	// Remove deletes a task and returns the server's acknowledgment body.
	Remove(ctx context.Context, id model.ID) (map[string]any, error)

	// List returns every task, in server order.
	List(ctx context.Context) ([]model.Task, error)

	// UpdateTitle changes only the title.
	UpdateTitle(ctx context.Context, id model.ID, title string) (model.Task, error)

	// UpdateStatus changes only the editable flag.
	UpdateStatus(ctx context.Context, id model.ID, status bool) (model.Task, error)

	// UpdateDone changes only the completion flag.
	UpdateDone(ctx context.Context, id model.ID, done bool) (model.Task, error)
}
