package model

// Mode is the explicit form of the status/done flag pair.
type Mode int

const (
	// ModeLocked is an active task with a read-only title.
	ModeLocked Mode = iota
	// ModeEditable is an active task whose title may be changed.
	ModeEditable
	// ModeCompleted is a done task. Only deletion and un-completing apply.
	ModeCompleted
)

func (m Mode) String() string {
	switch m {
	case ModeLocked:
		return "locked"
	case ModeEditable:
		return "editable"
	case ModeCompleted:
		return "completed"
	}
	return "unknown"
}

// Editable reports whether the title input accepts changes.
func (m Mode) Editable() bool { return m == ModeEditable }

// CanEdit reports whether the edit control applies.
func (m Mode) CanEdit() bool { return m != ModeCompleted }

// CanToggleDone reports whether the completion flag may flip.
// Completion is blocked while the title is being edited.
func (m Mode) CanToggleDone() bool { return m != ModeEditable }

// AfterEdit is the mode an edit click leads to.
func (m Mode) AfterEdit() Mode {
	switch m {
	case ModeLocked:
		return ModeEditable
	case ModeEditable:
		return ModeLocked
	}
	return m
}
