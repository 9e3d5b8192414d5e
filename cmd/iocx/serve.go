package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/iocx/internal/config"
	"github.com/fyrsmithlabs/iocx/internal/extract"
	httpserver "github.com/fyrsmithlabs/iocx/internal/http"
	"github.com/fyrsmithlabs/iocx/internal/telemetry"
	"github.com/fyrsmithlabs/iocx/internal/tld"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction HTTP API",
		Long: `Serve the HTTP API:

  GET  /health           liveness
  POST /api/v1/extract   {"content": "..."}  ->  {"found": bool, "artifacts": {...}}
  POST /api/v1/combine   {"results": [{...}, ...]}
  GET  /metrics          Prometheus metrics (metrics.enabled)

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "override server.host")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.http_port")
	return cmd
}

// serve runs the HTTP server and TLD maintenance until ctx is done.
func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logger := a.logger

	tel, err := telemetry.New(ctx, telemetryConfig(cfg), logger.Named("telemetry").Underlying())
	if err != nil {
		return err
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
		}
	}()

	var metrics *extract.Metrics
	if cfg.Metrics.Enabled {
		metrics = extract.NewMetrics()
	}

	tlds, cache, err := tldSource(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ex, err := newExtractor(cfg, logger, extractorDeps{
		tlds:    tlds,
		metrics: metrics,
		tracer:  tel.Tracer("github.com/fyrsmithlabs/iocx/internal/extract"),
	})
	if err != nil {
		return err
	}

	hc := &httpserver.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		MaxBodyBytes: cfg.Extraction.MaxInputBytes,
		HTTPMetrics:  httpserver.NewHTTPMetrics(tel.Meter("github.com/fyrsmithlabs/iocx/internal/http"), logger.Underlying()),
	}
	if cfg.Metrics.Enabled {
		hc.MetricsPath = cfg.Metrics.Path
	}
	srv, err := httpserver.NewServer(ex, logger.Named("http"), hc)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if cache != nil {
		startTLDMaintenance(gctx, g, cfg, cache, logger.Named("tld").Underlying())
	}

	logger.Info(ctx, "iocx serving",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("tld_source", cfg.TLD.Source),
		zap.Int("workers", cfg.Extraction.Workers),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Bool("telemetry", tel.IsEnabled()),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info(context.Background(), "iocx stopped")
	return nil
}

// startTLDMaintenance keeps a cached TLD list current: periodic refresh for
// URL sources, filesystem watching for file sources with tld.watch set.
// Failures here are logged and never stop the server.
func startTLDMaintenance(ctx context.Context, g *errgroup.Group, cfg *config.Config, cache *tld.Cache, logger *zap.Logger) {
	switch cfg.TLD.Source {
	case config.TLDSourceURL:
		if interval := cfg.TLD.RefreshInterval.Duration(); interval > 0 {
			g.Go(func() error {
				_ = cache.Run(ctx, interval)
				return nil
			})
		}
	case config.TLDSourceFile:
		if !cfg.TLD.Watch {
			return
		}
		w, err := tld.NewWatcher(cache, cfg.TLD.Path, logger)
		if err != nil {
			logger.Warn("tld watcher disabled", zap.Error(err))
			return
		}
		g.Go(func() error {
			_ = w.Run(ctx)
			return nil
		})
	}
}
