// Package web is the browser surface. Every page load gets a session with
// its own task list and binder; clicks and submissions are posted back by a
// small delegation script and rendered markup flows to the tab over a
// datastar event stream.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/binding"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/state"
	"github.com/Makepad-fr/tada/internal/surface"
)

//go:embed templates/*.html static/*.js
var assetsFS embed.FS

// DatastarScript is the client bundle the page loads unless a local copy is
// configured. Its major version tracks the datastar-go SDK.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// datastarPath is where a local bundle is served.
const datastarPath = "/static/datastar.js"

const (
	// DefaultIdle is how long a session without a stream or event survives.
	DefaultIdle = 30 * time.Minute

	keepAliveEvery = 25 * time.Second
	maxBody        = 1 << 20
)

// Server hosts the page and its sessions.
type Server struct {
	svc    api.Service
	logger *slog.Logger
	tmpl   *template.Template
	idle   time.Duration
	now    func() time.Time

	// datastarFile is a local client bundle; empty means DatastarScript.
	datastarFile string

	mu       sync.Mutex
	sessions map[string]*session
}

// Option tunes a Server.
type Option func(*Server)

// WithIdle sets how long an idle session is kept.
func WithIdle(d time.Duration) Option { return func(s *Server) { s.idle = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// WithDatastarFile serves the client bundle from a local file instead of
// the CDN.
func WithDatastarFile(path string) Option {
	return func(s *Server) { s.datastarFile = strings.TrimSpace(path) }
}

// New creates a server that talks to svc. A nil logger discards logs.
func New(svc api.Service, logger *slog.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tmpl, err := template.New("web").Funcs(template.FuncMap{
		"markup": func(s string) template.HTML { return template.HTML(s) },
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s := &Server{
		svc:      svc,
		logger:   logger,
		tmpl:     tmpl,
		idle:     DefaultIdle,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(server.AccessLog(s.logger))

	r.Methods(http.MethodGet).Path("/").HandlerFunc(s.handlePage)
	r.Methods(http.MethodGet).Path("/static/app.js").HandlerFunc(s.handleAppJS)
	r.Methods(http.MethodGet).Path(datastarPath).HandlerFunc(s.handleDatastarJS)
	r.Methods(http.MethodGet).Path("/health").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Methods(http.MethodPost).Path("/s/{session}/click").HandlerFunc(s.handleClick)
	r.Methods(http.MethodPost).Path("/s/{session}/submit").HandlerFunc(s.handleSubmit)
	r.Methods(http.MethodGet).Path("/s/{session}/stream").HandlerFunc(s.handleStream)
	return r
}

// Run reaps idle sessions until ctx is done.
func (s *Server) Run(ctx context.Context) {
	every := s.idle / 4
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Reap()
		}
	}
}

// Reap drops sessions idle for longer than the idle timeout and returns how
// many were dropped.
func (s *Server) Reap() int {
	cutoff := s.now().Add(-s.idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		s.logger.Debug("reaped sessions", "count", n, "left", len(s.sessions))
	}
	return n
}

// Sessions counts live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) lookup(r *http.Request) (*session, bool) {
	id := mux.Vars(r)["session"]
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		sess.touch(s.now())
	}
	return sess, ok
}

type pageData struct {
	Session  string
	Active   string
	Finished string
	Datastar string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := newSession(s.now())
	sess.binder = binding.New(s.svc, state.New(), sess, s.logger.With("session", sess.id))

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	sess.binder.Bootstrap(r.Context())

	var b strings.Builder
	err := s.tmpl.ExecuteTemplate(&b, "page.html", pageData{
		Session:  sess.id,
		Active:   sess.Markup(surface.ActiveList),
		Finished: sess.Markup(surface.FinishedList),
		Datastar: s.datastarSrc(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, b.String())
}

func (s *Server) handleAppJS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.js")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) datastarSrc() string {
	if s.datastarFile == "" {
		return DatastarScript
	}
	return datastarPath
}

func (s *Server) handleDatastarJS(w http.ResponseWriter, r *http.Request) {
	if s.datastarFile == "" {
		http.NotFound(w, r)
		return
	}
	b, err := os.ReadFile(s.datastarFile)
	if err != nil || len(b) == 0 {
		s.logger.Warn("datastar bundle unreadable", "path", s.datastarFile, "err", err)
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(b)
}

// clickRequest is what the delegation script posts for a click inside a
// container. Inputs holds the live values of the container's title inputs.
type clickRequest struct {
	Container string            `json:"container"`
	Tag       string            `json:"tag"`
	Class     string            `json:"class"`
	ID        string            `json:"id"`
	Ref       string            `json:"ref"`
	Inputs    map[string]string `json:"inputs"`
}

type submitRequest struct {
	Fields []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"fields"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	var req clickRequest
	if !decode(w, r, &req) {
		return
	}
	c, ok := parseContainer(req.Container)
	if !ok {
		http.Error(w, "unknown container", http.StatusBadRequest)
		return
	}
	ev := surface.ClickEvent{
		Container: c,
		Target: surface.Target{
			Tag:   strings.ToUpper(req.Tag),
			Class: req.Class,
			ID:    req.ID,
			Ref:   req.Ref,
		},
	}
	if !sess.click(r.Context(), ev, req.Inputs) {
		http.Error(w, "no handler", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	var req submitRequest
	if !decode(w, r, &req) {
		return
	}
	var ev surface.SubmitEvent
	for _, f := range req.Fields {
		ev.Fields = append(ev.Fields, surface.Field{Name: f.Name, Value: f.Value})
	}
	if !sess.submitForm(r.Context(), ev) {
		http.Error(w, "no handler", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	sse := datastar.NewSSE(w, r)
	detach := sess.attach(s.now())
	defer func() { detach(s.now()) }()

	sess.resend()

	keepAlive := time.NewTicker(keepAliveEvery)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-sess.dirty:
			patches, scripts := sess.drain()
			for _, p := range patches {
				err := sse.PatchElements(p.markup,
					datastar.WithSelector(p.container.Selector()),
					datastar.WithMode(datastar.ElementPatchModeInner))
				if err != nil {
					s.logger.Debug("stream closed", "session", sess.id, "err", err)
					return
				}
			}
			for _, js := range scripts {
				if err := sse.ExecuteScript(js); err != nil {
					s.logger.Debug("stream closed", "session", sess.id, "err", err)
					return
				}
			}
		}
	}
}

func parseContainer(name string) (surface.Container, bool) {
	for _, c := range surface.Containers {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
