// Package http serves a loaded archive over a local HTTP API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/export"
	"github.com/chuan-101/json-splitter-public/internal/logging"
	"github.com/chuan-101/json-splitter-public/internal/search"
	"github.com/chuan-101/json-splitter-public/internal/workspace"
)

// Server provides HTTP endpoints over a workspace.
type Server struct {
	echo    *echo.Echo
	ws      *workspace.Workspace
	exports *export.Service
	logger  *logging.Logger
	config  *Config
	metrics *HTTPMetrics
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// MaxUploadBytes caps POST /api/v1/archive bodies.
	MaxUploadBytes int64

	Roles         conversation.RoleNames
	SnippetRadius int
	MaxHits       int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Host:           "127.0.0.1",
		Port:           8787,
		MaxUploadBytes: 256 << 20,
		Roles:          conversation.DefaultRoleNames(),
		SnippetRadius:  40,
		MaxHits:        200,
	}
}

// NewServer creates a new HTTP server.
func NewServer(ws *workspace.Workspace, exports *export.Service, logger *logging.Logger, cfg *Config) (*Server, error) {
	if ws == nil {
		return nil, fmt.Errorf("workspace cannot be nil")
	}
	if exports == nil {
		return nil, fmt.Errorf("export service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		ws:      ws,
		exports: exports,
		logger:  logger.Named("http"),
		config:  cfg,
		metrics: NewHTTPMetrics(),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.contextMiddleware)
	e.Use(s.metrics.Middleware())
	e.Use(s.accessLog)

	s.registerRoutes()
	return s, nil
}

// contextMiddleware carries the request ID and logger into the request
// context so downstream packages log with correlation fields.
func (s *Server) contextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := logging.WithLogger(c.Request().Context(), s.logger)
		if id := c.Response().Header().Get(echo.HeaderXRequestID); logging.ValidRequestID(id) {
			ctx = logging.WithRequestID(ctx, id)
		}
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		s.logger.Info(c.Request().Context(), "http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("route", c.Path()),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/conversations", s.handleList)
	v1.GET("/conversations/:index", s.handlePreview)
	v1.GET("/conversations/:index/markdown", s.handleMarkdown)
	v1.POST("/export/zip", s.handleZip)
	v1.GET("/search", s.handleSearch)
	v1.GET("/stats", s.handleStats)
	v1.POST("/archive", s.handleUpload)
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "starting http server", zap.String("addr", s.Addr()))
	if err := s.echo.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
