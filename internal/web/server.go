// Package web provides the JSON HTTP API for inventory imports and catalog sync.
package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/JonMunkholm/tcgstock/internal/config"
	"github.com/JonMunkholm/tcgstock/internal/core"
	"github.com/JonMunkholm/tcgstock/internal/logging"
	mw "github.com/JonMunkholm/tcgstock/internal/web/middleware"
)

// Service is the import and sync API the handlers call.
// *core.Service satisfies it.
type Service interface {
	ImportPaste(ctx context.Context, owner uuid.UUID, text string, mode core.GameMode) (core.ImportSummary, error)
	ImportSheet(ctx context.Context, owner uuid.UUID, fileName string, r io.Reader, profileKey string) (core.ImportSummary, error)
	PreviewPaste(ctx context.Context, text string, mode core.GameMode) (core.PasteResult, error)
	PreviewSheet(ctx context.Context, fileName string, r io.Reader, profileKey string) (core.SheetResult, error)
	SyncCatalog(ctx context.Context) (core.SyncSummary, error)
	LimiterStatus() core.LimiterStatus
}

var _ Service = (*core.Service)(nil)

// Server is the HTTP server for the import API.
type Server struct {
	service Service
	cfg     *config.Config
	metrics http.Handler
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server. metrics may be nil, in which case /metrics is
// not mounted.
func NewServer(service Service, cfg *config.Config, metrics http.Handler) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		metrics: metrics,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/profiles", s.handleListProfiles)

		// Imports into one seller's inventory
		r.Route("/owners/{ownerID}/inventory", func(r chi.Router) {
			r.Post("/paste", s.handleImportPaste)
			r.Post("/upload", s.handleImportUpload)
		})

		// Parse-only previews
		r.Post("/preview/paste", s.handlePreviewPaste)
		r.Post("/preview/upload", s.handlePreviewUpload)

		// Reference data
		r.With(mw.APIKeyAuth(&s.cfg.Security)).Post("/catalog/sync", s.handleCatalogSync)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
