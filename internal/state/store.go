// Package state holds the in-memory task list and tells one subscriber
// whenever it is replaced.
package state

import (
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
)

// Store is the observable container for the current task list.
//
// Writes are serialized: Replace and Update run one at a time and the
// subscriber is called synchronously, after the new list is visible and
// before the next write starts. The subscriber may call Todos but must not
// write to the store.
type Store struct {
	writeMu sync.Mutex

	mu       sync.RWMutex
	todos    []model.Task
	onChange func()
}

// New returns an empty store.
func New() *Store {
	return &Store{todos: []model.Task{}}
}

// Todos returns the current list. Callers must not modify it in place.
func (s *Store) Todos() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.todos
}

// Subscribe registers the change callback, replacing any previous one.
// A nil callback removes the subscription.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Replace swaps in a new list wholesale and notifies the subscriber.
func (s *Store) Replace(todos []model.Task) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.swap(todos)
}

// Update computes the next list from the latest one and replaces it.
// Concurrent updates are applied one after another, each seeing the result
// of the previous, so no update is lost.
func (s *Store) Update(fn func(current []model.Task) []model.Task) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.swap(fn(s.Todos()))
}

func (s *Store) swap(todos []model.Task) {
	if todos == nil {
		todos = []model.Task{}
	}
	s.mu.Lock()
	s.todos = todos
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Prepend returns a new list with t in front of todos.
func Prepend(todos []model.Task, t model.Task) []model.Task {
	out := make([]model.Task, 0, len(todos)+1)
	out = append(out, t)
	return append(out, todos...)
}

// Without returns a new list with the task matching id removed.
func Without(todos []model.Task, id model.ID) []model.Task {
	if i := model.Index(todos, id); i >= 0 {
		id = todos[i].ID
	}
	out := make([]model.Task, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Replaced returns a new list where the task with t's id is swapped for t.
// The list is returned unchanged (as a copy) when no task matches.
func Replaced(todos []model.Task, t model.Task) []model.Task {
	out := make([]model.Task, len(todos))
	copy(out, todos)
	if i := model.Index(out, t.ID); i >= 0 {
		out[i] = t
	}
	return out
}
