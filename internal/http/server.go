// Package http provides the HTTP API for iocx.
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

	"github.com/fyrsmithlabs/iocx/internal/logging"
	"github.com/fyrsmithlabs/iocx/pkg/artifacts"
)

// Extractor is the part of extract.Extractor the server needs.
type Extractor interface {
	Scan(ctx context.Context, text string) (*artifacts.Artifacts, error)
}

// Server provides HTTP endpoints for iocx.
type Server struct {
	echo      *echo.Echo
	extractor Extractor
	logger    *logging.Logger
	config    *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// MaxBodyBytes caps request bodies; 0 disables the limit.
	MaxBodyBytes int64
	// MetricsPath serves Prometheus metrics when non-empty.
	MetricsPath string
	// HTTPMetrics records otel request metrics when non-nil.
	HTTPMetrics *HTTPMetrics
}

// NewServer creates a new HTTP server.
func NewServer(extractor Extractor, logger *logging.Logger, cfg *Config) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if cfg.MaxBodyBytes > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxBodyBytes)))
	}
	if cfg.HTTPMetrics != nil {
		e.Use(cfg.HTTPMetrics.MetricsMiddleware())
	}
	e.Use(requestLogger(logger))

	s := &Server{
		echo:      e,
		extractor: extractor,
		logger:    logger,
		config:    cfg,
	}

	s.registerRoutes()

	return s, nil
}

// requestLogger puts the request ID and a source on the request context
// and logs one line per request.
func requestLogger(logger *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			ctx := c.Request().Context()
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				// Clients may send braced or urn:uuid forms; log the canonical one.
				if parsed, err := uuid.Parse(id); err == nil {
					ctx = logging.WithRequestID(ctx, parsed.String())
				}
			}
			ctx = logging.WithSource(ctx, "http")
			c.SetRequest(c.Request().WithContext(ctx))

			if err := next(c); err != nil {
				c.Error(err)
			}

			logger.Info(ctx, "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/extract", s.handleExtract)
	v1.POST("/combine", s.handleCombine)

	if s.config.MetricsPath != "" {
		s.echo.GET(s.config.MetricsPath, echo.WrapHandler(promhttp.Handler()))
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleExtract runs extraction on the posted content.
func (s *Server) handleExtract(c echo.Context) error {
	ctx := c.Request().Context()

	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid extract request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	res, err := s.extractor.Scan(ctx, req.Content)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "extraction canceled")
		}
		s.logger.Error(ctx, "extraction failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "extraction failed")
	}

	return c.JSON(http.StatusOK, ExtractResponse{Found: res != nil, Artifacts: res})
}

// handleCombine merges previously extracted records.
func (s *Server) handleCombine(c echo.Context) error {
	ctx := c.Request().Context()

	var req CombineRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid combine request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Results) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "results field is required")
	}

	sum := artifacts.Sum(req.Results...)
	if sum.IsEmpty() {
		return c.JSON(http.StatusOK, CombineResponse{})
	}
	return c.JSON(http.StatusOK, CombineResponse{Found: true, Artifacts: sum})
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
