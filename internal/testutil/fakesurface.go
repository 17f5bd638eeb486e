package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/Makepad-fr/tada/internal/dom"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/surface"
)

// FakeSurface is a surface.Surface that keeps mounted markup in memory and
// lets tests click on what was rendered.
type FakeSurface struct {
	mu      sync.Mutex
	markup  map[surface.Container]string
	clicks  map[surface.Container]surface.ClickHandler
	submit  surface.SubmitHandler
	typed   map[string]string
	alerts  []string
	mounts  int
	cleared int
}

var _ surface.Surface = (*FakeSurface)(nil)

// NewFakeSurface creates an empty surface.
func NewFakeSurface() *FakeSurface {
	return &FakeSurface{
		markup: make(map[surface.Container]string),
		clicks: make(map[surface.Container]surface.ClickHandler),
		typed:  make(map[string]string),
	}
}

// Mount implements surface.Surface.
func (f *FakeSurface) Mount(c surface.Container, markup string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markup[c] = markup
	f.mounts++
	// a redraw discards whatever was typed into replaced inputs
	f.typed = make(map[string]string)
}

// OnClick implements surface.Surface.
func (f *FakeSurface) OnClick(c surface.Container, h surface.ClickHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks[c] = h
}

// OnSubmit implements surface.Surface.
func (f *FakeSurface) OnSubmit(h surface.SubmitHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submit = h
}

// InputValue implements surface.Surface.
func (f *FakeSurface) InputValue(elementID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.typed[elementID]; ok {
		return v, true
	}
	for _, markup := range f.markup {
		frag, err := dom.Parse(markup)
		if err != nil {
			continue
		}
		if el, ok := frag.Element(elementID); ok {
			return el.Value, true
		}
	}
	return "", false
}

// ClearForm implements surface.Surface.
func (f *FakeSurface) ClearForm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

// Alert implements surface.Surface.
func (f *FakeSurface) Alert(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, msg)
}

// Markup returns what is mounted in c.
func (f *FakeSurface) Markup(c surface.Container) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markup[c]
}

// Fragment parses what is mounted in c.
func (f *FakeSurface) Fragment(c surface.Container) dom.Fragment {
	frag, err := dom.Parse(f.Markup(c))
	if err != nil {
		panic(err)
	}
	return frag
}

// Alerts returns the alerts shown so far.
func (f *FakeSurface) Alerts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.alerts))
	copy(out, f.alerts)
	return out
}

// Mounts counts Mount calls.
func (f *FakeSurface) Mounts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounts
}

// Cleared counts ClearForm calls.
func (f *FakeSurface) Cleared() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

// Type sets the live value of an input, as a user typing would.
func (f *FakeSurface) Type(elementID, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typed[elementID] = value
}

// Click dispatches a raw click on c.
func (f *FakeSurface) Click(ctx context.Context, c surface.Container, target surface.Target) {
	f.mu.Lock()
	h := f.clicks[c]
	f.mu.Unlock()
	if h == nil {
		panic(fmt.Sprintf("no click handler on %s", c))
	}
	h(ctx, surface.ClickEvent{Container: c, Target: target})
}

// ClickControl clicks the button with class in the row of task id.
// It reports false when no such button is rendered.
func (f *FakeSurface) ClickControl(ctx context.Context, c surface.Container, id model.ID, class string) bool {
	for _, row := range f.Fragment(c).Rows {
		btn, ok := row.Control(class)
		if ok && model.ParseID(btn.Ref) == id {
			f.Click(ctx, c, btn.Target())
			return true
		}
	}
	return false
}

// ClickInput clicks the title input of task id.
func (f *FakeSurface) ClickInput(ctx context.Context, c surface.Container, id model.ID) bool {
	el, ok := f.Fragment(c).Element(model.InputElementID(id))
	if !ok {
		return false
	}
	f.Click(ctx, c, el.Target())
	return true
}

// Submit submits the new-task form with the given field values.
func (f *FakeSurface) Submit(ctx context.Context, values ...string) {
	f.mu.Lock()
	h := f.submit
	f.mu.Unlock()
	if h == nil {
		panic("no submit handler")
	}
	ev := surface.SubmitEvent{}
	for i, v := range values {
		ev.Fields = append(ev.Fields, surface.Field{Name: fmt.Sprintf("field%d", i), Value: v})
	}
	h(ctx, ev)
}
