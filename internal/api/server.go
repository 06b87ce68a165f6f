package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const version = "1.0.0"

// Info describes the running service. The func fields are evaluated on every
// request and may be nil.
type Info struct {
	Provider         string
	Model            string
	APIKeyConfigured bool
	Store            string
	LearningEnabled  bool
	Scenarios        func() int
	NATSConnected    func() bool
}

type Server struct {
	router *chi.Mux
	port   int
	info   Info
	http   *http.Server
}

func NewServer(port int, info Info) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)

	s := &Server{
		router: router,
		port:   port,
		info:   info,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/buddy/status", s.status)

	s.http = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: router}
	return s
}

func (s *Server) Start() error {
	slog.Info("API server starting", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown stops the server. A Start that has not begun yet returns
// http.ErrServerClosed.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":             "ok",
		"service":            "buddy",
		"version":            version,
		"api_key_configured": s.info.APIKeyConfigured,
		"store_configured":   s.info.Store != "" && s.info.Store != "none",
		"learning_enabled":   s.info.LearningEnabled,
	})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	scenarios := 0
	if s.info.Scenarios != nil {
		scenarios = s.info.Scenarios()
	}
	natsConnected := false
	if s.info.NATSConnected != nil {
		natsConnected = s.info.NATSConnected()
	}

	writeJSON(w, map[string]any{
		"agent":          "buddy",
		"provider":       s.info.Provider,
		"model":          s.info.Model,
		"store":          s.info.Store,
		"scenarios":      scenarios,
		"nats_connected": natsConnected,
	})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}
