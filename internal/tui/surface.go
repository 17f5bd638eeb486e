package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/dom"
	"github.com/Makepad-fr/tada/internal/surface"
)

type (
	mountMsg struct {
		container surface.Container
		fragment  dom.Fragment
	}
	alertMsg     struct{ text string }
	clearFormMsg struct{}
)

// Surface is the terminal display surface. The binder mounts markup on it
// from any goroutine; it parses the markup and forwards the result to the
// running program.
type Surface struct {
	mu     sync.Mutex
	send   func(tea.Msg)
	frags  map[surface.Container]dom.Fragment
	typed  map[string]string
	clicks map[surface.Container]surface.ClickHandler
	submit surface.SubmitHandler
}

var _ surface.Surface = (*Surface)(nil)

// NewSurface creates a surface that is not yet attached to a program.
func NewSurface() *Surface {
	return &Surface{
		frags:  make(map[surface.Container]dom.Fragment),
		typed:  make(map[string]string),
		clicks: make(map[surface.Container]surface.ClickHandler),
	}
}

// Attach routes surface updates to send, usually (*tea.Program).Send.
func (s *Surface) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *Surface) post(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (s *Surface) Mount(c surface.Container, markup string) {
	frag, err := dom.Parse(markup)
	if err != nil {
		s.post(alertMsg{text: "render: " + err.Error()})
		return
	}
	s.mu.Lock()
	s.frags[c] = frag
	for _, row := range frag.Rows {
		delete(s.typed, row.Input.ID)
	}
	s.mu.Unlock()
	s.post(mountMsg{container: c, fragment: frag})
}

func (s *Surface) OnClick(c surface.Container, h surface.ClickHandler) {
	s.mu.Lock()
	s.clicks[c] = h
	s.mu.Unlock()
}

func (s *Surface) OnSubmit(h surface.SubmitHandler) {
	s.mu.Lock()
	s.submit = h
	s.mu.Unlock()
}

// InputValue returns what was typed into the input, or its rendered value.
func (s *Surface) InputValue(elementID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.typed[elementID]; ok {
		return v, true
	}
	for _, frag := range s.frags {
		if el, ok := frag.Element(elementID); ok {
			return el.Value, true
		}
	}
	return "", false
}

func (s *Surface) ClearForm()        { s.post(clearFormMsg{}) }
func (s *Surface) Alert(text string) { s.post(alertMsg{text: text}) }

// Type sets the live value of an input.
func (s *Surface) Type(elementID, value string) {
	s.mu.Lock()
	s.typed[elementID] = value
	s.mu.Unlock()
}

// click returns a command running the container's handler off the event loop.
func (s *Surface) click(ctx context.Context, c surface.Container, t surface.Target) tea.Cmd {
	s.mu.Lock()
	h := s.clicks[c]
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	ev := surface.ClickEvent{Container: c, Target: t}
	return func() tea.Msg {
		h(ctx, ev)
		return nil
	}
}

func (s *Surface) submitTitle(ctx context.Context, title string) tea.Cmd {
	s.mu.Lock()
	h := s.submit
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	ev := surface.SubmitEvent{Fields: []surface.Field{{Name: "title", Value: title}}}
	return func() tea.Msg {
		h(ctx, ev)
		return nil
	}
}
