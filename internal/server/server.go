// Package server provides the HTTP server for the skill scoring service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asateer/skillscore/internal/server/api"
	"github.com/asateer/skillscore/internal/store"
)

// Config holds the server configuration.
type Config struct {
	// Store persists completed analyses. Required for the analyses API.
	Store *store.Store

	// Analyze runs the evaluation pipeline for one uploaded video.
	// Required for POST /api/analyses.
	Analyze api.AnalyzeFunc

	// UploadDir is where uploaded videos are spooled while they are
	// analyzed. Defaults to the OS temp directory.
	UploadDir string
}

// Server represents the HTTP server for the skill scoring service.
type Server struct {
	config Config
	mux    *http.ServeMux
	hub    *ObserveHub
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		hub:    NewObserveHub(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		analysesHandler := api.NewAnalysesHandler(s.config.Store, s.config.Analyze, s.config.UploadDir)
		analysesHandler.OnObservation = s.hub.Publish

		s.mux.Handle("/api/analyses", analysesHandler)
		s.mux.Handle("/api/analyses/", analysesHandler)
	}

	// Live observation feed for analyses in progress
	s.mux.Handle("/api/observe", s.hub)
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

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
