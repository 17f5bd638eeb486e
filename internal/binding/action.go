package binding

import (
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/surface"
)

// ActionKind is what a click means.
type ActionKind int

const (
	ActionDelete ActionKind = iota + 1
	ActionEdit
	ActionToggleDone
)

func (k ActionKind) String() string {
	switch k {
	case ActionDelete:
		return "delete"
	case ActionEdit:
		return "edit"
	case ActionToggleDone:
		return "toggle-done"
	}
	return "none"
}

// Action is a click resolved to a task and an operation.
type Action struct {
	Kind ActionKind
	ID   model.ID
}

// Resolve maps a delegated click back to a task action using only the
// attributes the renderer put on the element. Buttons carry the task id in
// AttrRef; title inputs carry it in their prefixed element id. Edit only
// applies in the active list.
func Resolve(ev surface.ClickEvent) (Action, bool) {
	t := ev.Target
	switch t.Tag {
	case surface.TagButton:
		id := model.ParseID(t.Ref)
		if id.IsZero() {
			return Action{}, false
		}
		switch t.Class {
		case surface.ClassDelete:
			return Action{Kind: ActionDelete, ID: id}, true
		case surface.ClassEdit:
			if ev.Container != surface.ActiveList {
				return Action{}, false
			}
			return Action{Kind: ActionEdit, ID: id}, true
		}
	case surface.TagInput:
		if id, ok := model.IDFromInputElement(t.ID); ok {
			return Action{Kind: ActionToggleDone, ID: id}, true
		}
	}
	return Action{}, false
}
