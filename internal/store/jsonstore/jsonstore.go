package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// The whole file is rewritten on every change; fine for a dev server.

// DefaultFileName is used when no path is configured.
const DefaultFileName = "todos.json"

// Store keeps tasks in one JSON array file.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ store.Repository = (*Store)(nil)

// Open returns a store for path. The file is created on first write.
func Open(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	s := &Store{path: path}
	// fail early on an unreadable or corrupt file
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Get(ctx context.Context, id model.ID) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	i := model.Index(items, id)
	if i < 0 {
		return model.Task{}, store.ErrNotFound
	}
	return items[i], nil
}

func (s *Store) Create(ctx context.Context, t model.NewTask) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	task := model.Task{ID: nextID(items), Title: t.Title, Status: t.Status, Done: t.Done}
	items = append(items, task)
	if err := s.save(items); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *Store) Update(ctx context.Context, id model.ID, p model.Patch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	i := model.Index(items, id)
	if i < 0 {
		return model.Task{}, store.ErrNotFound
	}
	items[i] = p.Apply(items[i])
	if err := s.save(items); err != nil {
		return model.Task{}, err
	}
	return items[i], nil
}

func (s *Store) Delete(ctx context.Context, id model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	i := model.Index(items, id)
	if i < 0 {
		return store.ErrNotFound
	}
	items = append(items[:i], items[i+1:]...)
	return s.save(items)
}

func (s *Store) Close() error { return nil }

// nextID is one past the largest numeric id, like json-server.
func nextID(items []model.Task) model.ID {
	var highest int64
	for _, it := range items {
		if n, ok := it.ID.Int(); ok && n > highest {
			highest = n
		}
	}
	return model.IntID(highest + 1)
}

func (s *Store) load() ([]model.Task, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Task
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.Task{}
	}
	return items, nil
}

func (s *Store) save(items []model.Task) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	// write-then-rename so a crash never leaves half a file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}
