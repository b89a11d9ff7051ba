// Package devserver serves the todo API contract over any store.Store.
// It backs `todo serve` and stands in for the remote API in tests.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

type Server struct {
	store  store.Store
	logger *log.Logger
	mux    *http.ServeMux
}

// New returns an http.Handler exposing:
//
//	GET    /todos?userId={id}
//	POST   /todos
//	DELETE /todos/{id}
func New(s store.Store, logger *log.Logger) *Server {
	srv := &Server{store: s, logger: logger, mux: http.NewServeMux()}
	srv.mux.HandleFunc("GET /todos", srv.handleList)
	srv.mux.HandleFunc("POST /todos", srv.handleCreate)
	srv.mux.HandleFunc("DELETE /todos/{id}", srv.handleDelete)
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.RequestURI(),
		"status", rec.status,
		"request_id", r.Header.Get("X-Request-Id"),
		"took", time.Since(start).Round(time.Microsecond),
	)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}
	items, err := s.store.List(r.Context(), userID)
	if err != nil {
		s.logger.Error("list todos", "user_id", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	d.Title = strings.TrimSpace(d.Title)
	if d.UserID <= 0 || d.Title == "" {
		writeError(w, http.StatusBadRequest, "userId and title are required")
		return
	}
	it, err := s.store.Create(r.Context(), d)
	if err != nil {
		s.logger.Error("create todo", "user_id", d.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("delete todo", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	// The contract promises no meaningful body; "1" mirrors the public API.
	writeJSON(w, http.StatusOK, 1)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
