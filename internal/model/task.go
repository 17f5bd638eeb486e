package model

// Task is the domain model for a todo entry.
//
// Status is the editable flag (true: title may be changed), Done is the
// completion flag. A done task is never editable, whatever Status says.
type Task struct {
	ID     ID     `json:"id"`
	Title  string `json:"title"`
	Status bool   `json:"status"`
	Done   bool   `json:"done"`
}

// Mode derives the task's place in the edit/complete state machine.
func (t Task) Mode() Mode {
	switch {
	case t.Done:
		return ModeCompleted
	case t.Status:
		return ModeEditable
	default:
		return ModeLocked
	}
}

// NewTask is the body of a create request; the remote store assigns the ID.
type NewTask struct {
	Title  string `json:"title"`
	Status bool   `json:"status"`
	Done   bool   `json:"done"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title  *string `json:"title,omitempty"`
	Status *bool   `json:"status,omitempty"`
	Done   *bool   `json:"done,omitempty"`
}

// Apply returns t with the non-nil fields of p applied.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	return t
}

// Index returns the position of the task with the given id, or -1. An
// exact match wins over a numeric one, so "0012" and "12" stay distinct
// when both are listed. It is a plain linear scan; lists are small.
func Index(tasks []Task, id ID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	for i, t := range tasks {
		if t.ID.Equal(id) {
			return i
		}
	}
	return -1
}

// Stats counts completed and active tasks.
func Stats(tasks []Task) (done, active int) {
	for _, t := range tasks {
		if t.Done {
			done++
		} else {
			active++
		}
	}
	return
}
