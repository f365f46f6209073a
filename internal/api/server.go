// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/turnDeep/chartnote/internal/api/handler/api"
	"github.com/turnDeep/chartnote/internal/api/middleware"
	"github.com/turnDeep/chartnote/internal/market"
	"github.com/turnDeep/chartnote/internal/metrics"
	"github.com/turnDeep/chartnote/internal/placement"
	"github.com/turnDeep/chartnote/internal/realtime"
	"github.com/turnDeep/chartnote/internal/sentiment"
	"github.com/turnDeep/chartnote/internal/storage/comment"
)

// Server represents the HTTP server for chartnote
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host   string
	Port   int
	APIKey string
}

// Deps carries everything the routes need.
type Deps struct {
	Store     comment.Store
	Market    *market.Service
	Analyzer  *sentiment.Analyzer
	Hub       *realtime.Hub
	Placement placement.Config
	Metrics   *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Deps, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, deps)
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Deps) {
	comments := apihandler.NewCommentsHandler(deps.Store, deps.Hub, deps.Metrics)
	marketH := apihandler.NewMarketHandler(deps.Market)
	sentimentH := apihandler.NewSentimentHandler(deps.Analyzer)
	annotations := apihandler.NewAnnotationsHandler(deps.Store, deps.Market, deps.Placement, deps.Metrics)

	// Health stays outside the key gate so probes work when a key is set.
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/comments", comments.List)
	apiMux.HandleFunc("POST /api/comments", comments.Create)
	apiMux.HandleFunc("GET /api/market/{symbol}/{timeframe}", marketH.Candles)
	apiMux.HandleFunc("GET /api/sentiment", sentimentH.Get)
	apiMux.HandleFunc("GET /api/annotations", annotations.Get)

	var apiHandler http.Handler = apiMux
	apiHandler = middleware.APIKeyAuth(cfg.APIKey)(apiHandler)
	if deps.Metrics != nil {
		apiHandler = metrics.HTTPMiddleware(deps.Metrics)(apiHandler)
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
	s.mux.Handle("/api/", apiHandler)

	// The websocket endpoint stays outside the key gate: browsers cannot
	// set custom headers on the upgrade request.
	if deps.Hub != nil {
		s.mux.Handle("/ws", deps.Hub)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route table, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
