package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/epub/compat"
	"github.com/lecternhq/lectern/internal/pipeline"
	"github.com/lecternhq/lectern/internal/validate"
)

// Server is the HTTP API server for lectern.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	validator    *validate.Validator
	analyzer     *compat.Analyzer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		validator: validate.New(log, validate.Config{
			MaxSpineItems:    cfg.MaxSpineItems,
			MaxManifestItems: cfg.MaxManifestItems,
		}),
		analyzer: compat.NewAnalyzer(log, compat.Config{
			StructureSampleSize: cfg.SampleSizeStructure,
			ContentSampleSize:   cfg.SampleSizeContent,
		}),
		log: log,
		cfg: cfg,
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

		r.Post("/api/documents", s.handleUpload)
		r.Get("/api/documents/{jobID}/status", s.handleStatus)
		r.Get("/api/documents/{jobID}/structure", s.handleStructure)
		r.Post("/api/documents/validate", s.handleValidate)

		r.Get("/api/stats/extract", s.handleExtractStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
