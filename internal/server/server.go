// Package server is a development stand-in for the remote task resource.
// It speaks the same JSON contract as json-server's /todos collection.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// CollectionPath is where the task collection is mounted.
const CollectionPath = "/todos"

// maxBody bounds request bodies; records are tiny.
const maxBody = 1 << 20

// Server serves the task collection out of a Repository.
type Server struct {
	repo   store.Repository
	logger *slog.Logger
}

// New creates a server. A nil logger discards logs.
func New(repo store.Repository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{repo: repo, logger: logger}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(AccessLog(s.logger))

	r.Methods(http.MethodGet).Path(CollectionPath).HandlerFunc(s.list)
	r.Methods(http.MethodPost).Path(CollectionPath).HandlerFunc(s.create)
	r.Methods(http.MethodGet).Path(CollectionPath + "/{id}").HandlerFunc(s.get)
	r.Methods(http.MethodPatch).Path(CollectionPath + "/{id}").HandlerFunc(s.update)
	r.Methods(http.MethodDelete).Path(CollectionPath + "/{id}").HandlerFunc(s.remove)
	r.Methods(http.MethodGet).Path("/health").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

// AccessLog logs one line per request.
func AccessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info("handled", "method", r.Method, "url", r.URL.String(), "status", m.Code, "duration", m.Duration)
		})
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	t, err := s.repo.Get(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in model.NewTask
	if !decode(w, r, &in) {
		return
	}
	t, err := s.repo.Create(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var p model.Patch
	if !decode(w, r, &p) {
		return
	}
	t, err := s.repo.Update(r.Context(), pathID(r), p)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Delete(r.Context(), pathID(r)); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	s.logger.Error("repository failure", "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request) model.ID {
	return model.ParseID(mux.Vars(r)["id"])
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
