package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

func open(t *testing.T) *sqlitestore.Store {
	t.Helper()
	s, err := sqlitestore.Open(context.Background(), filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	a, err := s.Create(ctx, model.NewTask{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("1"), a.ID)

	b, err := s.Create(ctx, model.NewTask{Title: "Walk dog", Status: true})
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Task{a, b}, all)

	title := "Buy oat milk"
	got, err := s.Update(ctx, a.ID, model.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, model.Task{ID: a.ID, Title: title}, got)

	require.NoError(t, s.Delete(ctx, b.ID))
	_, err = s.Get(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	done := true
	_, err := s.Update(ctx, "99", model.Patch{Done: &done})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "abc"), store.ErrNotFound)
	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.db")

	s, err := sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Create(ctx, model.NewTask{Title: "kept"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "kept", all[0].Title)
}
