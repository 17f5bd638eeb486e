// Package store defines the persistence contract behind the development
// resource server. Implementations live in subpackages.
package store

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("not found")

// Repository persists task records. Implementations assign ids on Create
// and are safe for concurrent use.
type Repository interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id model.ID) (model.Task, error)
	Create(ctx context.Context, t model.NewTask) (model.Task, error)
	Update(ctx context.Context, id model.ID, p model.Patch) (model.Task, error)
	Delete(ctx context.Context, id model.ID) error
	Close() error
}
