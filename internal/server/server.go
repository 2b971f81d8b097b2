package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/descope-sample-apps/crewai-app/internal/config"
	"github.com/descope-sample-apps/crewai-app/internal/descope"
	"github.com/descope-sample-apps/crewai-app/internal/dispatch"
	"github.com/descope-sample-apps/crewai-app/internal/instrumentation"
)

// SessionValidator verifies bearer session tokens.
type SessionValidator interface {
	Validate(ctx context.Context, sessionToken string) (*descope.Identity, error)
}

// TaskDispatcher runs an authenticated user request.
type TaskDispatcher interface {
	Dispatch(ctx context.Context, userRequest string, identity *descope.Identity) (*dispatch.CombinedResult, error)
}

// Server is the HTTP front of the crew backend.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	validator  SessionValidator
	dispatcher TaskDispatcher
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// New assembles the HTTP server with its middleware and routes.
func New(cfg *config.Config, validator SessionValidator, dispatcher TaskDispatcher, logger *slog.Logger, provider *instrumentation.Provider) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// The frontend is a browser SPA on another origin.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsConfig))

	s := &Server{
		engine:     engine,
		validator:  validator,
		dispatcher: dispatcher,
		logger:     logger,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	if provider != nil {
		s.metrics = provider.Metrics()
		if handler := provider.PrometheusHandler(); handler != nil {
			engine.GET("/metrics", gin.WrapH(handler))
		}
	}

	engine.Use(s.metricsMiddleware())

	engine.GET("/api/health", s.handleHealth)
	engine.POST("/api/crew", s.authMiddleware(), s.handleCrew)

	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
