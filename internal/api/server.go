package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/PAIR-code/lumi/internal/config"
	"github.com/PAIR-code/lumi/internal/markup"
	"github.com/PAIR-code/lumi/internal/pipeline"
)

// Server is the HTTP API for the document compiler.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	compiler     *markup.Compiler
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, compiler *markup.Compiler, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		compiler:     compiler,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/compile", s.handleCompile)
		r.Post("/api/compile/async", s.handleCompileAsync)
		r.Get("/api/compile/{jobID}", s.handleCompileStatus)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
