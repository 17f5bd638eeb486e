package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/dom"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/render"
	"github.com/Makepad-fr/tada/internal/surface"
)

func TestRender_IsPure(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B", Status: true},
		{ID: "3", Title: "C", Done: true},
	}

	first, err := render.Render(tasks)
	require.NoError(t, err)
	second, err := render.Render(tasks)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRender_SingleLockedTask(t *testing.T) {
	v, err := render.Render([]model.Task{{ID: "1", Title: "A", Status: false, Done: false}})
	require.NoError(t, err)

	active, err := dom.Parse(v.Active)
	require.NoError(t, err)
	require.Len(t, active.Rows, 1)
	in := active.Rows[0].Input
	assert.Equal(t, surface.TagInput, in.Tag)
	assert.Equal(t, "A", in.Value)
	assert.True(t, in.ReadOnly)
	assert.Equal(t, "listid1", in.ID)

	finished, err := dom.Parse(v.Finished)
	require.NoError(t, err)
	assert.Empty(t, finished.Rows)
	assert.NotContains(t, v.Finished, "<input")
}

func TestRender_EditableTaskHasWritableInputAndControls(t *testing.T) {
	v, err := render.Render([]model.Task{{ID: "9", Title: "edit me", Status: true}})
	require.NoError(t, err)

	frag, err := dom.Parse(v.Active)
	require.NoError(t, err)
	require.Len(t, frag.Rows, 1)
	row := frag.Rows[0]
	assert.False(t, row.Input.ReadOnly)

	edit, ok := row.Control(surface.ClassEdit)
	require.True(t, ok)
	assert.Equal(t, "9", edit.Ref)
	assert.Equal(t, surface.TagButton, edit.Tag)

	del, ok := row.Control(surface.ClassDelete)
	require.True(t, ok)
	assert.Equal(t, "9", del.Ref)
}

func TestRender_CompletedTaskOnlyHasDelete(t *testing.T) {
	// status is ignored once a task is done
	v, err := render.Render([]model.Task{{ID: "4", Title: "done", Status: true, Done: true}})
	require.NoError(t, err)

	assert.Equal(t, render.Placeholder, v.Active)

	frag, err := dom.Parse(v.Finished)
	require.NoError(t, err)
	require.Len(t, frag.Rows, 1)
	row := frag.Rows[0]
	assert.True(t, row.Input.ReadOnly)
	_, hasEdit := row.Control(surface.ClassEdit)
	assert.False(t, hasEdit)
	_, hasDelete := row.Control(surface.ClassDelete)
	assert.True(t, hasDelete)
}

func TestRender_EmptyListShowsPlaceholder(t *testing.T) {
	v, err := render.Render(nil)
	require.NoError(t, err)

	assert.Equal(t, render.Placeholder, v.Active)
	assert.Equal(t, "", v.Finished)

	frag, err := dom.Parse(v.Active)
	require.NoError(t, err)
	assert.Empty(t, frag.Rows)
	assert.Equal(t, render.Placeholder, frag.Text)
}

func TestRender_KeepsOrderWithinContainers(t *testing.T) {
	v, err := render.Render([]model.Task{
		{ID: "3", Title: "c"},
		{ID: "1", Title: "a", Done: true},
		{ID: "2", Title: "b"},
	})
	require.NoError(t, err)

	frag, err := dom.Parse(v.Active)
	require.NoError(t, err)
	require.Len(t, frag.Rows, 2)
	assert.Equal(t, "c", frag.Rows[0].Input.Value)
	assert.Equal(t, "b", frag.Rows[1].Input.Value)
}

func TestRender_EscapesTitles(t *testing.T) {
	v, err := render.Render([]model.Task{{ID: "1", Title: `"><script>alert(1)</script>`}})
	require.NoError(t, err)

	assert.False(t, strings.Contains(v.Active, "<script>"))
	frag, err := dom.Parse(v.Active)
	require.NoError(t, err)
	require.Len(t, frag.Rows, 1)
	assert.Equal(t, `"><script>alert(1)</script>`, frag.Rows[0].Input.Value)
}
