package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/fxagents/internal/api/handler/api"
	"github.com/newthinker/fxagents/internal/api/handler/web"
	"github.com/newthinker/fxagents/internal/api/middleware"
	"github.com/newthinker/fxagents/internal/api/response"
	"github.com/newthinker/fxagents/internal/api/upload"
	"github.com/newthinker/fxagents/internal/metrics"
	"go.uber.org/zap"
)

// Server represents the HTTP server for fxagents
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	uploads    *upload.Service
	metrics    *metrics.Registry
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	APIKey       string
	TemplatesDir string
	MetricsPath  string // empty disables the metrics endpoint
}

// Dependencies holds the services the handlers use
type Dependencies struct {
	Agent   api.MarketAgent
	Uploads *upload.Service
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Agent == nil || deps.Uploads == nil {
		return nil, fmt.Errorf("agent and upload service are required")
	}

	mux := http.NewServeMux()
	s := &Server{
		logger:  logger,
		mux:     mux,
		uploads: deps.Uploads,
		metrics: deps.Metrics,
	}

	if err := s.setupRoutes(cfg, deps); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // LLM analysis can be slow
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) error {
	// Web UI routes
	webHandler, err := web.NewHandler(cfg.TemplatesDir, deps.Agent, deps.Uploads, s.logger)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	s.mux.HandleFunc("GET /{$}", webHandler.Index)
	s.mux.HandleFunc("POST /{$}", webHandler.Index)
	s.mux.HandleFunc("GET /b3", webHandler.B3)
	s.mux.HandleFunc("POST /b3", webHandler.B3)
	s.mux.HandleFunc("GET /upload", webHandler.UploadPage)
	s.mux.HandleFunc("POST /upload", webHandler.Upload)
	s.mux.HandleFunc("GET /charts/{id}", webHandler.Charts)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// API v1 routes, behind the API key when one is configured
	auth := middleware.APIKeyAuth(cfg.APIKey)
	v1 := func(pattern string, h http.HandlerFunc) {
		s.mux.Handle(pattern, auth(h))
	}

	markets := api.NewMarketsHandler(deps.Agent)
	v1("GET /api/v1/pairs", markets.Pairs)
	v1("GET /api/v1/markets/{symbol}", markets.Market)
	v1("GET /api/v1/markets/{symbol}/price", markets.Price)
	v1("POST /api/v1/markets/{symbol}/analysis", markets.Analysis)
	v1("GET /api/v1/assets/{symbol}", markets.Asset)

	uploads := api.NewUploadsHandler(deps.Uploads)
	v1("POST /api/v1/uploads", uploads.Create)
	v1("GET /api/v1/uploads", uploads.List)
	v1("GET /api/v1/uploads/{id}/charts", uploads.Charts)

	if cfg.MetricsPath != "" && deps.Metrics != nil {
		s.mux.Handle("GET "+cfg.MetricsPath, metrics.Handler(deps.Metrics))
	}

	return nil
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and drops every uploaded dataset
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)

	dropped := s.uploads.Store().Len()
	s.uploads.Store().Clear()
	if s.metrics != nil {
		s.metrics.SetDatasetsStored(0)
	}
	s.logger.Info("upload store cleared", zap.Int("datasets", dropped))
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"datasets": s.uploads.Store().Len(),
	})
}
