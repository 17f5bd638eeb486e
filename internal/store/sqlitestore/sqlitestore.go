// Package sqlitestore keeps tasks in a SQLite database (modernc.org/sqlite,
// no cgo).
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// Store is a Repository backed by a single todos table.
type Store struct {
	db *sql.DB
}

var _ store.Repository = (*Store)(nil)

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		done INTEGER NOT NULL DEFAULT 0
	);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, status, done FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id model.ID) (model.Task, error) {
	n, ok := id.Int()
	if !ok {
		return model.Task{}, store.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, title, status, done FROM todos WHERE id = ?`, n)
	t, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, store.ErrNotFound
	}
	return t, err
}

func (s *Store) Create(ctx context.Context, t model.NewTask) (model.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (title, status, done) VALUES (?, ?, ?)`,
		t.Title, t.Status, t.Done,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert: %w", err)
	}
	n, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Task{ID: model.IntID(n), Title: t.Title, Status: t.Status, Done: t.Done}, nil
}

func (s *Store) Update(ctx context.Context, id model.ID, p model.Patch) (model.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Task{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	n, ok := id.Int()
	if !ok {
		return model.Task{}, store.ErrNotFound
	}
	cur, err := scan(tx.QueryRowContext(ctx, `SELECT id, title, status, done FROM todos WHERE id = ?`, n))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, store.ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	next := p.Apply(cur)
	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, status = ?, done = ? WHERE id = ?`,
		next.Title, next.Status, next.Done, n,
	); err != nil {
		return model.Task{}, fmt.Errorf("update: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

func (s *Store) Delete(ctx context.Context, id model.ID) error {
	n, ok := id.Int()
	if !ok {
		return store.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scan(r scanner) (model.Task, error) {
	var (
		id           int64
		title        string
		status, done bool
	)
	if err := r.Scan(&id, &title, &status, &done); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, err
		}
		return model.Task{}, fmt.Errorf("scan: %w", err)
	}
	return model.Task{ID: model.IntID(id), Title: title, Status: status, Done: done}, nil
}
