package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/iocx/internal/config"
	"github.com/fyrsmithlabs/iocx/internal/extract"
	"github.com/fyrsmithlabs/iocx/internal/logging"
	"github.com/fyrsmithlabs/iocx/internal/telemetry"
	"github.com/fyrsmithlabs/iocx/internal/tld"
	"github.com/fyrsmithlabs/iocx/internal/validate"
	"github.com/fyrsmithlabs/iocx/pkg/allowlist"
)

// newLogger maps the user-facing logging section onto logging.Config.
// Logs go to w so that stdout carries only results.
func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	lc := logging.NewDefaultConfig()
	lc.Level = level
	lc.Format = cfg.Logging.Format
	lc.Sampling.Enabled = cfg.Logging.Sampling
	lc.Defang.Enabled = cfg.Logging.Defang
	lc.Fields["version"] = version

	logger, err := logging.NewLoggerTo(lc, w)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// fileReloadLimit paces reloads of a watched TLD file.
const fileReloadLimit = time.Second

// tldSource builds the TLD source named by the config. The returned cache
// is nil for the builtin list.
//
// A file list must load at startup. A URL list that cannot be fetched falls
// back to the builtin list and is retried by Cache.Run.
func tldSource(ctx context.Context, cfg *config.Config, logger *logging.Logger) (tld.Source, *tld.Cache, error) {
	zl := logger.Named("tld").Underlying()

	switch cfg.TLD.Source {
	case config.TLDSourceFile:
		cache := tld.NewCache(tld.FileLoader(cfg.TLD.Path),
			tld.WithFallback(tld.PublicSuffix{}),
			tld.WithRefreshLimit(fileReloadLimit),
			tld.WithLogger(zl),
		)
		if err := cache.Load(ctx); err != nil {
			return nil, nil, fmt.Errorf("loading tld list %s: %w", cfg.TLD.Path, err)
		}
		return cache, cache, nil

	case config.TLDSourceURL:
		cache := tld.NewCache(tld.URLLoader(nil, cfg.TLD.URL),
			tld.WithFallback(tld.PublicSuffix{}),
			tld.WithLogger(zl),
		)
		if err := cache.Load(ctx); err != nil {
			logger.Warn(ctx, "tld list fetch failed, using builtin list",
				zap.String("url", cfg.TLD.URL),
				zap.Error(err),
			)
		}
		return cache, cache, nil

	default:
		return tld.PublicSuffix{}, nil, nil
	}
}

// extractorDeps are the optional collaborators of an Extractor.
type extractorDeps struct {
	tlds    tld.Source
	metrics *extract.Metrics
	tracer  trace.Tracer
}

// newExtractor compiles validators and loads the allowlist.
func newExtractor(cfg *config.Config, logger *logging.Logger, deps extractorDeps) (*extract.Extractor, error) {
	vc := validate.Config{
		TLDs:           deps.tlds,
		EmailWhitelist: cfg.Extraction.EmailWhitelist,
		MatchTimeout:   cfg.Extraction.MatchTimeout.Duration(),
	}
	if deps.metrics != nil {
		vc.OnTimeout = deps.metrics.RecordTimeout
	}
	v, err := validate.New(vc)
	if err != nil {
		return nil, fmt.Errorf("compiling validators: %w", err)
	}

	allow, err := allowlist.Load(cfg.Extraction.AllowlistPath)
	if err != nil {
		return nil, fmt.Errorf("loading allowlist: %w", err)
	}
	if n := allow.Len(); n > 0 {
		logger.Debug(context.Background(), "allowlist loaded",
			zap.String("path", cfg.Extraction.AllowlistPath),
			zap.Int("entries", n),
		)
	}

	opts := []extract.Option{
		extract.WithWorkers(cfg.Extraction.Workers),
		extract.WithAllowlist(allow),
		extract.WithLogger(logger.Named("extract")),
	}
	if deps.metrics != nil {
		opts = append(opts, extract.WithMetrics(deps.metrics))
	}
	if deps.tracer != nil {
		opts = append(opts, extract.WithTracer(deps.tracer))
	}
	return extract.New(v, opts...)
}

// telemetryConfig maps the telemetry section onto telemetry.Config.
func telemetryConfig(cfg *config.Config) *telemetry.Config {
	tc := telemetry.NewDefaultConfig()
	tc.Enabled = cfg.Telemetry.Enabled
	tc.Endpoint = cfg.Telemetry.Endpoint
	tc.Protocol = cfg.Telemetry.Protocol
	tc.Insecure = cfg.Telemetry.Insecure
	tc.SamplingRate = cfg.Telemetry.SamplingRate
	tc.ServiceVersion = version
	if d := cfg.Telemetry.ExportInterval.Duration(); d > 0 {
		tc.Metrics.ExportInterval = d
	}
	tc.ShutdownAfter = cfg.Server.ShutdownTimeout.Duration()
	return tc
}
