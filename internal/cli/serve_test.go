package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/model"
)

func TestOpenRepository(t *testing.T) {
	for _, backend := range []string{config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Config{Backend: backend, DataPath: filepath.Join(t.TempDir(), "todos")}

			repo, err := openRepository(ctx, cfg)
			require.NoError(t, err)
			defer repo.Close()

			created, err := repo.Create(ctx, model.NewTask{Title: "A"})
			require.NoError(t, err)
			got, err := repo.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "A", got.Title)
		})
	}
}
