package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestTaskMode(t *testing.T) {
	tests := []struct {
		name string
		task model.Task
		want model.Mode
	}{
		{"locked", model.Task{Status: false, Done: false}, model.ModeLocked},
		{"editable", model.Task{Status: true, Done: false}, model.ModeEditable},
		{"completed", model.Task{Status: false, Done: true}, model.ModeCompleted},
		{"completed wins over status", model.Task{Status: true, Done: true}, model.ModeCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Mode())
		})
	}
}

func TestModeTransitions(t *testing.T) {
	assert.Equal(t, model.ModeEditable, model.ModeLocked.AfterEdit())
	assert.Equal(t, model.ModeLocked, model.ModeEditable.AfterEdit())
	assert.Equal(t, model.ModeCompleted, model.ModeCompleted.AfterEdit())

	assert.True(t, model.ModeLocked.CanToggleDone())
	assert.True(t, model.ModeCompleted.CanToggleDone())
	assert.False(t, model.ModeEditable.CanToggleDone())

	assert.False(t, model.ModeCompleted.CanEdit())
	assert.False(t, model.ModeCompleted.Editable())
}

func TestPatchApply(t *testing.T) {
	title := "B"
	done := true
	got := model.Patch{Title: &title, Done: &done}.Apply(model.Task{ID: "1", Title: "A", Status: true})

	assert.Equal(t, model.Task{ID: "1", Title: "B", Status: true, Done: true}, got)
}
