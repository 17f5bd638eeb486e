package web

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/binding"
	"github.com/Makepad-fr/tada/internal/surface"
)

const clearFormScript = `document.querySelector('.form').reset()`

// session is one browser tab: its own list, binder and pending output.
// It implements surface.Surface; what the binder mounts or alerts is queued
// until the tab's stream picks it up.
type session struct {
	id     string
	binder *binding.Binder

	mu       sync.Mutex
	markup   map[surface.Container]string
	changed  map[surface.Container]bool
	scripts  []string
	inputs   map[string]string
	clicks   map[surface.Container]surface.ClickHandler
	submit   surface.SubmitHandler
	lastSeen time.Time
	streams  int

	dirty chan struct{}
}

var _ surface.Surface = (*session)(nil)

func newSession(now time.Time) *session {
	return &session{
		id:       uuid.NewString(),
		markup:   make(map[surface.Container]string),
		changed:  make(map[surface.Container]bool),
		inputs:   make(map[string]string),
		clicks:   make(map[surface.Container]surface.ClickHandler),
		lastSeen: now,
		dirty:    make(chan struct{}, 1),
	}
}

func (s *session) notify() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *session) Mount(c surface.Container, markup string) {
	s.mu.Lock()
	s.markup[c] = markup
	s.changed[c] = true
	// the browser drops typed values when it swaps the rows
	s.inputs = make(map[string]string)
	s.mu.Unlock()
	s.notify()
}

func (s *session) OnClick(c surface.Container, h surface.ClickHandler) {
	s.mu.Lock()
	s.clicks[c] = h
	s.mu.Unlock()
}

func (s *session) OnSubmit(h surface.SubmitHandler) {
	s.mu.Lock()
	s.submit = h
	s.mu.Unlock()
}

// InputValue answers from the values the browser posted with the last click.
func (s *session) InputValue(elementID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.inputs[elementID]
	return v, ok
}

func (s *session) ClearForm() {
	s.queueScript(clearFormScript)
}

func (s *session) Alert(msg string) {
	quoted, err := json.Marshal(msg)
	if err != nil {
		quoted = []byte(`"alert"`)
	}
	s.queueScript(fmt.Sprintf("alert(%s)", quoted))
}

func (s *session) queueScript(js string) {
	s.mu.Lock()
	s.scripts = append(s.scripts, js)
	s.mu.Unlock()
	s.notify()
}

// Markup returns what is mounted in c.
func (s *session) Markup(c surface.Container) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markup[c]
}

// click records the posted input values, then runs the container's handler.
func (s *session) click(ctx context.Context, ev surface.ClickEvent, inputs map[string]string) bool {
	s.mu.Lock()
	h := s.clicks[ev.Container]
	if inputs != nil {
		s.inputs = inputs
	}
	s.mu.Unlock()
	if h == nil {
		return false
	}
	h(ctx, ev)
	return true
}

func (s *session) submitForm(ctx context.Context, ev surface.SubmitEvent) bool {
	s.mu.Lock()
	h := s.submit
	s.mu.Unlock()
	if h == nil {
		return false
	}
	h(ctx, ev)
	return true
}

type patch struct {
	container surface.Container
	markup    string
}

// drain hands out every changed container and queued script, in the order
// the stream should send them.
func (s *session) drain() ([]patch, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var patches []patch
	for _, c := range surface.Containers {
		if s.changed[c] {
			patches = append(patches, patch{container: c, markup: s.markup[c]})
		}
	}
	s.changed = make(map[surface.Container]bool)
	scripts := s.scripts
	s.scripts = nil
	return patches, scripts
}

// resend marks every container as changed so a fresh stream starts from a
// full picture.
func (s *session) resend() {
	s.mu.Lock()
	for _, c := range surface.Containers {
		s.changed[c] = true
	}
	s.mu.Unlock()
	s.notify()
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) attach(now time.Time) func(time.Time) {
	s.mu.Lock()
	s.streams++
	s.lastSeen = now
	s.mu.Unlock()
	return func(at time.Time) {
		s.mu.Lock()
		s.streams--
		s.lastSeen = at
		s.mu.Unlock()
	}
}

// idleSince reports whether nothing touched the session since cutoff and
// no stream is open.
func (s *session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams == 0 && s.lastSeen.Before(cutoff)
}
