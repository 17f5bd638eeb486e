// Package surface defines what the binding layer needs from a display:
// containers that take markup wholesale, delegated click and submit events,
// live input values and blocking notifications.
package surface

import "context"

// Container names a region that receives rendered markup.
type Container string

const (
	// ActiveList holds tasks that are not done.
	ActiveList Container = "todo-list"
	// FinishedList holds completed tasks.
	FinishedList Container = "finished-list"
)

// Containers lists every container in render order.
var Containers = []Container{ActiveList, FinishedList}

// Selector is the CSS class selector of the container.
func (c Container) Selector() string { return "." + string(c) }

// Markup vocabulary shared by the renderer and the binder.
const (
	TagButton = "BUTTON"
	TagInput  = "INPUT"

	ClassEdit   = "btn--edit"
	ClassDelete = "btn--delete"

	// AttrRef carries the task id on control buttons.
	AttrRef = "data-id"
)

// Target describes the element a click landed on, using only what the
// markup carries.
type Target struct {
	Tag   string // upper-case tag name, as in the DOM
	Class string
	ID    string // element id attribute
	Ref   string // AttrRef value
}

// ClickEvent is a click delegated from a container.
type ClickEvent struct {
	Container Container
	Target    Target
}

// Field is one form control's value at submit time.
type Field struct {
	Name  string
	Value string
}

// SubmitEvent is a form submission with the default navigation suppressed.
type SubmitEvent struct {
	Fields []Field
}

// First returns the value of the first form field, or "".
func (e SubmitEvent) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Value
}

// ClickHandler reacts to a delegated click.
type ClickHandler func(ctx context.Context, ev ClickEvent)

// SubmitHandler reacts to a form submission.
type SubmitHandler func(ctx context.Context, ev SubmitEvent)

// Surface is a display that the binding layer draws on and listens to.
// Implementations must accept calls from any goroutine.
type Surface interface {
	// Mount replaces the content of c with markup.
	Mount(c Container, markup string)

	// OnClick registers the single delegated click handler of c.
	OnClick(c Container, h ClickHandler)

	// OnSubmit registers the handler of the new-task form.
	OnSubmit(h SubmitHandler)

	// InputValue returns the live value of the input with the element id.
	InputValue(elementID string) (string, bool)

	// ClearForm empties the new-task form.
	ClearForm()

	// Alert shows a blocking notification.
	Alert(msg string)
}
