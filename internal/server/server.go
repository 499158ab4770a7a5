// Package server provides the HTTP server of the ProofMe liveness service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/proofme/internal/hook"
	"github.com/ayusman/proofme/internal/liveness"
	"github.com/ayusman/proofme/internal/logger"
	"github.com/ayusman/proofme/internal/server/api"
	"github.com/ayusman/proofme/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Hooks     *hook.Dispatcher

	// Challenges defaults to liveness.DefaultChallenges and Options to
	// liveness.DefaultOptions when left empty.
	Challenges []liveness.Challenge
	Options    liveness.Options
}

// Server represents the HTTP server for the ProofMe application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time

	mu   sync.Mutex
	http *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if len(config.Challenges) == 0 {
		config.Challenges = liveness.DefaultChallenges()
	}
	if config.Options.HoldThreshold == 0 {
		config.Options = liveness.DefaultOptions()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/challenges", api.NewChallengeHandler(s.config.Challenges, s.config.Options.HoldThreshold))
	s.mux.Handle("/api/quality", api.NewQualityHandler())
	s.mux.Handle("/api/liveness", NewLivenessHandler(LivenessConfig{
		Challenges: s.config.Challenges,
		Options:    s.config.Options,
		Store:      s.config.Store,
		Hooks:      s.config.Hooks,
	}))

	if s.config.Store != nil {
		attempts := api.NewAttemptHandler(s.config.Store)
		s.mux.Handle("/api/attempts", attempts)
		s.mux.Handle("/api/attempts/", attempts)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":     "ok",
		"uptime":     time.Since(s.start).String(),
		"challenges": len(s.config.Challenges),
		"recording":  s.config.Store != nil,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address. It returns nil
// after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.http = srv
	s.mu.Unlock()

	logger.Info("server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests.
// Hijacked websocket connections are not tracked by net/http; they end when
// their peers disconnect or the process exits.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
