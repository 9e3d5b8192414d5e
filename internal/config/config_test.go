package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero workers", func(c *Config) { c.Extraction.Workers = 0 }, "extraction.workers"},
		{"too many workers", func(c *Config) { c.Extraction.Workers = 1000 }, "extraction.workers"},
		{"zero timeout", func(c *Config) { c.Extraction.MatchTimeout = 0 }, "extraction.match_timeout"},
		{"huge timeout", func(c *Config) { c.Extraction.MatchTimeout = Duration(time.Minute) }, "extraction.match_timeout"},
		{"max input", func(c *Config) { c.Extraction.MaxInputBytes = -1 }, "extraction.max_input_bytes"},
		{"whitelist entry", func(c *Config) { c.Extraction.EmailWhitelist = []string{"user@host"} }, "email_whitelist"},
		{"unknown tld source", func(c *Config) { c.TLD.Source = "ftp" }, "tld.source"},
		{"file without path", func(c *Config) { c.TLD.Source = TLDSourceFile }, "tld.path"},
		{"url not http", func(c *Config) {
			c.TLD.Source = TLDSourceURL
			c.TLD.URL = "file:///etc/tlds"
		}, "tld.url"},
		{"refresh too short", func(c *Config) {
			c.TLD.Source = TLDSourceURL
			c.TLD.URL = "https://data.iana.org/TLD/tlds-alpha-by-domain.txt"
			c.TLD.RefreshInterval = Duration(time.Second)
		}, "tld.refresh_interval"},
		{"watch without file", func(c *Config) { c.TLD.Watch = true }, "tld.watch"},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.http_port"},
		{"shutdown", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
		{"level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"telemetry endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = ""
		}, "telemetry.endpoint"},
		{"telemetry sampling", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.SamplingRate = 2
		}, "telemetry.sampling_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.http_port")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestConfig_MetricsPathIgnoredWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(out))

	assert.Error(t, d.UnmarshalText([]byte("-5s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))

	js, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(js))
}
