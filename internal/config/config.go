// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// TLD list sources.
const (
	TLDSourceBuiltin = "builtin"
	TLDSourceFile    = "file"
	TLDSourceURL     = "url"
)

const (
	maxWorkers      = 256
	maxMatchTimeout = 10 * time.Second
	minRefresh      = time.Minute
)

// Config holds iocx configuration.
type Config struct {
	Extraction ExtractionConfig `koanf:"extraction"`
	TLD        TLDConfig        `koanf:"tld"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// ExtractionConfig tunes the extractor and its validators.
type ExtractionConfig struct {
	// Workers > 1 splits the word pass across a bounded pool.
	Workers        int      `koanf:"workers"`
	MatchTimeout   Duration `koanf:"match_timeout"`
	EmailWhitelist []string `koanf:"email_whitelist"`
	AllowlistPath  string   `koanf:"allowlist_path"`
	MaxInputBytes  int64    `koanf:"max_input_bytes"`
}

// TLDConfig selects where the top-level-domain list comes from.
type TLDConfig struct {
	Source          string   `koanf:"source"`
	Path            string   `koanf:"path"`
	URL             string   `koanf:"url"`
	RefreshInterval Duration `koanf:"refresh_interval"`
	Watch           bool     `koanf:"watch"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig is the user-facing subset of logging.Config.
type LoggingConfig struct {
	Level    string `koanf:"level"`
	Format   string `koanf:"format"`
	Sampling bool   `koanf:"sampling"`
	Defang   bool   `koanf:"defang"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// TelemetryConfig points OTLP export at a collector.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	Protocol       string   `koanf:"protocol"`
	Insecure       bool     `koanf:"insecure"`
	SamplingRate   float64  `koanf:"sampling_rate"`
	ExportInterval Duration `koanf:"export_interval"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks the configuration for out-of-range or inconsistent values.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Extraction.Workers < 1 || c.Extraction.Workers > maxWorkers {
		errs = append(errs, fmt.Errorf("extraction.workers must be between 1 and %d, got %d", maxWorkers, c.Extraction.Workers))
	}
	if t := c.Extraction.MatchTimeout.Duration(); t <= 0 || t > maxMatchTimeout {
		errs = append(errs, fmt.Errorf("extraction.match_timeout must be in (0, %s], got %s", maxMatchTimeout, t))
	}
	if c.Extraction.MaxInputBytes <= 0 {
		errs = append(errs, fmt.Errorf("extraction.max_input_bytes must be > 0, got %d", c.Extraction.MaxInputBytes))
	}
	for _, d := range c.Extraction.EmailWhitelist {
		if strings.TrimSpace(d) == "" || strings.ContainsAny(d, "@ \t") {
			errs = append(errs, fmt.Errorf("extraction.email_whitelist: invalid domain %q", d))
		}
	}

	switch c.TLD.Source {
	case TLDSourceBuiltin:
	case TLDSourceFile:
		if c.TLD.Path == "" {
			errs = append(errs, errors.New("tld.path is required when tld.source is file"))
		}
	case TLDSourceURL:
		u, err := url.Parse(c.TLD.URL)
		if c.TLD.URL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("tld.url must be an absolute http(s) URL, got %q", c.TLD.URL))
		}
		if r := c.TLD.RefreshInterval.Duration(); r != 0 && r < minRefresh {
			errs = append(errs, fmt.Errorf("tld.refresh_interval must be 0 or >= %s, got %s", minRefresh, r))
		}
	default:
		errs = append(errs, fmt.Errorf("tld.source must be one of builtin, file, url; got %q", c.TLD.Source))
	}
	if c.TLD.Watch && c.TLD.Source != TLDSourceFile {
		errs = append(errs, errors.New("tld.watch requires tld.source file"))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be > 0"))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of trace, debug, info, warn, error; got %q", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path))
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			errs = append(errs, errors.New("telemetry.endpoint is required when telemetry is enabled"))
		}
		if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
			errs = append(errs, fmt.Errorf("telemetry.sampling_rate must be between 0 and 1, got %g", c.Telemetry.SamplingRate))
		}
	}

	return errors.Join(errs...)
}
