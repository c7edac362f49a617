package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/marcus/tale/internal/serverdb"
)

// Server is the HTTP API server for tale-server.
type Server struct {
	config Config
	http   *http.Server
	store  *serverdb.ServerDB
}

// NewServer creates a new Server with the given config and store.
func NewServer(cfg Config, store *serverdb.ServerDB) (*Server, error) {
	s := &Server{
		config: cfg,
		store:  store,
	}

	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start begins listening for HTTP requests (non-blocking).
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server", "err", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the fully assembled HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// routes builds the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Auth (public)
	mux.HandleFunc("POST /v1/auth/login", s.handleLogin)

	// Stories
	mux.HandleFunc("GET /v1/stories", s.requireAuth(s.handleListStories))
	mux.HandleFunc("GET /v1/stories/{id}", s.requireAuth(s.handleGetStory))
	mux.HandleFunc("POST /v1/stories", s.requireAuth(s.handleCreateStory))
	mux.HandleFunc("POST /v1/stories/{id}/like", s.requireAuth(s.handleToggleLike))
	mux.HandleFunc("POST /v1/stories/{id}/reading-list", s.requireAuth(s.handleToggleReadingList))
	mux.HandleFunc("POST /v1/stories/{id}/view", s.requireAuth(s.handleIncrementView))
	mux.HandleFunc("GET /v1/reading-list", s.requireAuth(s.handleReadingList))

	// Comments
	mux.HandleFunc("GET /v1/stories/{id}/comments", s.requireAuth(s.handleListComments))
	mux.HandleFunc("POST /v1/stories/{id}/comments", s.requireAuth(s.handleCreateComment))
	mux.HandleFunc("PATCH /v1/comments/{id}", s.requireAuth(s.handleUpdateComment))
	mux.HandleFunc("DELETE /v1/comments/{id}", s.requireAuth(s.handleDeleteComment))
	mux.HandleFunc("POST /v1/comments/{id}/like", s.requireAuth(s.handleToggleCommentLike))

	return chain(mux, recoveryMiddleware, requestIDMiddleware, loggerMiddleware, loggingMiddleware, maxBytesMiddleware(1<<20))
}

// handleHealth returns a health check response, pinging the server DB.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "detail": "db unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
