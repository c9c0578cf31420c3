// Package api provides the HTTP service: manifest composition and
// validation endpoints, catalog introspection, and design persistence
// when a store is configured.
package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stackplan/stackplan/pkg/pipeline"
	"github.com/stackplan/stackplan/pkg/store"
)

// Server bundles the pipeline runner with optional persistence.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates a server. A nil store disables the design
// endpoints; a nil logger falls back to the default.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/patterns", s.handlePatterns)
		r.Post("/compose", s.handleCompose)
		r.Post("/validate", s.handleValidate)

		if s.store != nil {
			r.Route("/designs", func(r chi.Router) {
				r.Post("/", s.handleSaveDesign)
				r.Get("/", s.handleListDesigns)
				r.Get("/{id}", s.handleGetDesign)
				r.Delete("/{id}", s.handleDeleteDesign)
			})
		}
	})

	return r
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
