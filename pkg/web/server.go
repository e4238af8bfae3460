package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/jotkit/jot/pkg/core"
)

//go:embed index.html
var indexHTML []byte

// Config tunes the HTTP surface.
type Config struct {
	Logger *slog.Logger
}

// Server exposes a note service over HTTP and WebSocket. Every mutation
// done through it lands in the service, which persists, notifies, and
// triggers the hub broadcast through the change hook.
type Server struct {
	svc    *core.Service
	hub    *Hub
	logger *slog.Logger
	mux    *http.ServeMux

	startOnce sync.Once
}

// NewServer wires the routes and subscribes the hub to service changes.
func NewServer(svc *core.Service, config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		svc:    svc,
		hub:    NewHub(logger),
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/notes", s.handleList)
	s.mux.HandleFunc("/api/notes/create", s.handleCreate)
	s.mux.HandleFunc("/api/notes/update", s.handleUpdate)
	s.mux.HandleFunc("/api/notes/delete", s.handleDelete)
	s.mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.hub, w, r)
	})

	// The hook runs under the service's state lock. BroadcastNotes only
	// does a non-blocking enqueue, so the lock is never held on I/O.
	svc.OnChange(func(notes core.Notes) {
		s.hub.BroadcastNotes(notes)
	})

	return s
}

// Start launches the hub loop. Run calls it; tests serving Handler
// through httptest call it themselves.
func (s *Server) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		lifecycle.Go(ctx, func(ctx context.Context) error {
			s.hub.Run(ctx)
			return nil
		}, lifecycle.WithErrorHandler(func(err error) {
			s.logger.Error("hub loop failed", "error", err)
		}))

		// Joiners need something to replay before the first mutation.
		s.hub.BroadcastNotes(s.svc.Notes())
	})
}

// Handler returns the HTTP handler for embedding or testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.Start(ctx)

	httpServer := &http.Server{Addr: addr, Handler: s.mux}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("server shutdown failed", "error", err)
	}))

	s.logger.Info("serving", "addr", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	notes := s.svc.Notes()
	if notes == nil {
		notes = core.Notes{}
	}
	s.writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	note, err := s.svc.Add(r.Context(), req.Text)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID   int64  `json:"id"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	note, err := s.svc.Edit(r.Context(), req.ID, req.Text)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.svc.Delete(r.Context(), req.ID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyText):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
