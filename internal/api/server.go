package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/coursesearch/internal/catalog"
	"github.com/dgallion1/coursesearch/internal/config"
	"github.com/dgallion1/coursesearch/internal/pages"
	"github.com/dgallion1/coursesearch/internal/search"
	"github.com/dgallion1/coursesearch/internal/site"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP API server for coursesearch.
type Server struct {
	router  chi.Router
	catalog *catalog.Catalog
	site    *site.Builder
	pages   *pages.Store
	stats   *search.Stats
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(cat *catalog.Catalog, builder *site.Builder, store *pages.Store, stats *search.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		catalog: cat,
		site:    builder,
		pages:   store,
		stats:   stats,
		log:     log,
		cfg:     cfg,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)

	requireKey := AuthMiddleware(s.cfg.APIKey, s.log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/courses", s.handleCourses)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/stats/search", s.handleSearchStats)

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", s.handleListPages)
			r.With(requireKey).Post("/", s.handleUploadPage)

			r.Route("/{pageID}", func(r chi.Router) {
				r.Get("/", s.handleGetPage)
				r.With(requireKey).Delete("/", s.handleDeletePage)
				r.Post("/search", s.handleSearchPage)
				r.Post("/select", s.handleSelectSuggestion)
				r.Delete("/highlights", s.handleClearHighlights)
			})
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
