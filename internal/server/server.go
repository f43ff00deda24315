package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/chart"
	"github.com/UnknownOlympus/quakewatch/internal/dashboard"
	"github.com/UnknownOlympus/quakewatch/internal/mapview"
	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/index.html
var templatesFS embed.FS

const maxQueryLength = 512

// Dashboard is the controller surface the HTTP API drives.
type Dashboard interface {
	Search(ctx context.Context, query string) (*models.PlaceResult, error)
	Snapshot() dashboard.Snapshot
	State() dashboard.State
}

// MapState exposes what the map widget currently shows.
type MapState interface {
	Snapshot() mapview.Snapshot
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups what the server reads from. DB may be nil.
type Dependencies struct {
	Dashboard Dashboard
	Map       MapState
	Canvas    *chart.Canvas
	Gatherer  prometheus.Gatherer
	DB        Pinger
}

// Server exposes the dashboard page, its JSON API, and the health and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Dependencies
	page       *template.Template
	logger     *slog.Logger
}

// New builds the router and the underlying http.Server.
func New(addr string, deps Dependencies, logger *slog.Logger) *Server {
	s := &Server{
		deps:   deps,
		page:   template.Must(template.ParseFS(templatesFS, "templates/index.html")),
		logger: logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.logRequests)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/", s.handleIndex)
	router.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Post("/search", s.handleSearch)
		r.Get("/state", s.handleState)
	})
	router.Get("/chart.svg", s.handleChart)
	router.Get("/healthz", s.handleHealth)
	router.Get("/readyz", s.handleReady)
	router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.page.Execute(w, map[string]any{
		"DefaultCenter": models.DefaultCenter,
		"DefaultZoom":   mapview.DefaultZoom,
		"TileURL":       mapview.TileURLTemplate,
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render page", "error", err)
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if r.Method == http.MethodPost {
		var req searchRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		query = req.Query
	}
	if len(query) > maxQueryLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is too long"})
		return
	}

	place, err := s.deps.Dashboard.Search(r.Context(), query)
	switch {
	case errors.Is(err, dashboard.ErrLocationNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"notice": dashboard.NotFoundNotice})
	case errors.Is(err, dashboard.ErrNotStarted):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "location lookup failed"})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"place": place})
	}
}

type chartState struct {
	Available   bool   `json:"available"`
	Placeholder string `json:"placeholder,omitempty"`
	Revision    uint64 `json:"revision"`
}

type stateResponse struct {
	dashboard.Snapshot
	Map   mapview.Snapshot `json:"map"`
	Chart chartState       `json:"chart"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	svg, placeholder := s.deps.Canvas.Content()

	writeJSON(w, http.StatusOK, stateResponse{
		Snapshot: s.deps.Dashboard.Snapshot(),
		Map:      s.deps.Map.Snapshot(),
		Chart: chartState{
			Available:   len(svg) > 0,
			Placeholder: placeholder,
			Revision:    s.deps.Canvas.Revision(),
		},
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	svg, _ := s.deps.Canvas.Content()
	if len(svg) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(svg); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to write chart", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DB ping failed"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	state := s.deps.Dashboard.State()
	if state == dashboard.StateUninitialized {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "state": state.String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
