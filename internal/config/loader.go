// Package config provides configuration loading for iocx.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix marks environment variables read by Load.
	EnvPrefix = "IOCX_"
)

// ErrConfigTooLarge is returned for config files over the 1MB cap.
var ErrConfigTooLarge = errors.New("config file exceeds 1MB")

// defaultsYAML is the lowest-precedence layer.
const defaultsYAML = `
extraction:
  workers: 1
  match_timeout: 250ms
  email_whitelist: [localhost]
  allowlist_path: ""
  max_input_bytes: 10485760
tld:
  source: builtin
  refresh_interval: 24h
  watch: false
server:
  host: 127.0.0.1
  http_port: 8080
  shutdown_timeout: 10s
logging:
  level: info
  format: json
  sampling: true
  defang: true
metrics:
  enabled: true
  path: /metrics
telemetry:
  enabled: false
  endpoint: localhost:4317
  protocol: grpc
  insecure: true
  sampling_rate: 1.0
  export_interval: 15s
`

// Load reads configuration from defaults, then a YAML or TOML file, then
// IOCX_* environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (IOCX_SERVER_HTTP_PORT, IOCX_TLD_SOURCE, etc.)
//  2. Config file (~/.config/iocx/config.yaml unless configPath is set)
//  3. Built-in defaults
//
// A missing default file is not an error; a missing explicit configPath is.
// Files ending in .toml are parsed as TOML, everything else as YAML.
//
// # Environment Variable Mapping
//
// The prefix is stripped and the remainder split on its first underscore:
//
//	IOCX_SERVER_HTTP_PORT          -> server.http_port
//	IOCX_EXTRACTION_MATCH_TIMEOUT  -> extraction.match_timeout
//	IOCX_EXTRACTION_EMAIL_WHITELIST=localhost,corp.internal
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaultsYAML)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := configPath != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	if err := loadFile(k, configPath, explicit); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(defaultsYAML)), yaml.Parser()); err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return &cfg
}

// DefaultPath returns ~/.config/iocx/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "iocx", "config.yaml"), nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	// Open once and validate through the descriptor to avoid a TOCTOU race.
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config file %s is not a regular file", path)
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("%w: %s (%d bytes)", ErrConfigTooLarge, path, info.Size())
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(content) > maxConfigFileSize {
		return fmt.Errorf("%w: %s", ErrConfigTooLarge, path)
	}

	if err := k.Load(rawbytes.Provider(content), parserFor(path)); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOMLParser()
	}
	return yaml.Parser()
}

// envKey maps IOCX_SECTION_FIELD_NAME to section.field_name.
// Returning "" makes koanf skip the variable.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok || section == "" || field == "" {
		return ""
	}
	return section + "." + field
}

// applyDefaults fills values a file or variable explicitly blanked.
func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Extraction.Workers == 0 {
		cfg.Extraction.Workers = d.Extraction.Workers
	}
	if cfg.Extraction.MatchTimeout == 0 {
		cfg.Extraction.MatchTimeout = d.Extraction.MatchTimeout
	}
	if cfg.Extraction.MaxInputBytes == 0 {
		cfg.Extraction.MaxInputBytes = d.Extraction.MaxInputBytes
	}
	if cfg.TLD.Source == "" {
		cfg.TLD.Source = d.TLD.Source
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = d.Server.Host
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = d.Metrics.Path
	}
}

// tomlParser adapts BurntSushi/toml to koanf.Parser.
type tomlParser struct{}

// TOMLParser returns a koanf parser for TOML documents.
func TOMLParser() koanf.Parser {
	return tomlParser{}
}

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
