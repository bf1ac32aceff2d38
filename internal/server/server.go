// Package server exposes the HTTP API: authentication, Terraform
// generation, history, and the diagram render proxy.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MalanSathya/terraformcoder-ai/internal/auth"
	"github.com/MalanSathya/terraformcoder-ai/internal/generate"
	"github.com/MalanSathya/terraformcoder-ai/internal/store"
	"github.com/MalanSathya/terraformcoder-ai/pkg/render"
)

// Server bundles the API's collaborators behind one http.Handler.
type Server struct {
	store   store.Store
	tokens  *auth.Manager
	service *generate.Service
	engine  render.Engine
	logger  *log.Logger
	router  chi.Router
}

// New assembles the HTTP API. A nil engine disables the render proxy
// endpoint (it responds with UNSUPPORTED).
func New(st store.Store, tokens *auth.Manager, service *generate.Service, engine render.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:   st,
		tokens:  tokens,
		service: service,
		engine:  engine,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(150 * time.Second))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/generate", s.handleGenerate)
			r.Get("/history", s.handleHistory)
			r.Get("/history/{id}", s.handleHistoryItem)
			r.Post("/render", s.handleRender)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "terraformcoder-ai",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
