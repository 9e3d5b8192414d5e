package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/iocx/internal/config"
	"github.com/fyrsmithlabs/iocx/internal/extract"
	"github.com/fyrsmithlabs/iocx/internal/logging"
	"github.com/fyrsmithlabs/iocx/pkg/artifacts"
)

const report = `Beacon to 8.8.8.8 and https://evil.example.com/payload
Contact johndoe@example.com
HKLM\SOFTWARE\Microsoft\Windows\CurrentVersion\Run
`

// runCLI executes the root command with an isolated HOME.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestExtract_File(t *testing.T) {
	path := writeTemp(t, "report.txt", report)

	out, _, err := runCLI(t, "", "extract", path)
	require.NoError(t, err)

	var res artifacts.Artifacts
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"8.8.8.8"}, res.IPAddresses)
	assert.Equal(t, []string{"https://evil.example.com/payload"}, res.URLs)
	assert.Equal(t, []string{"johndoe@example.com"}, res.Emails)
	assert.Len(t, res.RegistryKeys, 1)
}

func TestExtract_StdinYAML(t *testing.T) {
	out, _, err := runCLI(t, "ping 10.0.0.1 now", "extract", "-", "--format", "yaml")
	require.NoError(t, err)

	var res artifacts.Artifacts
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"10.0.0.1"}, res.IPAddresses)
}

func TestExtract_Text(t *testing.T) {
	out, _, err := runCLI(t, "ping 10.0.0.1 now", "extract", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "ip_address")
	assert.Contains(t, out, "10.0.0.1")
}

func TestExtract_NothingFound(t *testing.T) {
	out, _, err := runCLI(t, "hello world", "extract")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, out)

	out, _, err = runCLI(t, "hello world", "extract", "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "no indicators found")
}

func TestExtract_MergesFiles(t *testing.T) {
	a := writeTemp(t, "a.txt", "8.8.8.8 1.1.1.1")
	b := writeTemp(t, "b.txt", "8.8.8.8 johndoe@example.com")

	out, _, err := runCLI(t, "", "extract", a, b)
	require.NoError(t, err)

	var res artifacts.Artifacts
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"1.1.1.1", "8.8.8.8"}, res.IPAddresses)
	assert.Equal(t, []string{"johndoe@example.com"}, res.Emails)
}

func TestExtract_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := runCLI(t, "", "extract", filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, extract.ErrRead))
	})

	t.Run("invalid utf8 on stdin", func(t *testing.T) {
		_, _, err := runCLI(t, "\xff\xfe8.8.8.8", "extract")
		require.ErrorIs(t, err, extract.ErrRead)
	})

	t.Run("input over limit", func(t *testing.T) {
		t.Setenv("IOCX_EXTRACTION_MAX_INPUT_BYTES", "16")
		_, _, err := runCLI(t, strings.Repeat("8.8.8.8 ", 10), "extract")
		require.ErrorIs(t, err, extract.ErrRead)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := runCLI(t, "8.8.8.8", "extract", "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown format")
	})

	t.Run("invalid config", func(t *testing.T) {
		_, _, err := runCLI(t, "8.8.8.8", "extract", "--workers", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extraction.workers")
	})
}

func TestExtract_Allowlist(t *testing.T) {
	allow := writeTemp(t, "allowlist.toml", "[allowlist]\nvalues = [\"8.8.8.8\"]\n")
	cfgPath := writeTemp(t, "iocx.toml", "[extraction]\nallowlist_path = \""+filepath.ToSlash(allow)+"\"\n")

	out, _, err := runCLI(t, "8.8.8.8 1.1.1.1", "extract", "--config", cfgPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ip_address":["1.1.1.1"]}`, out)
}

func TestExtract_TLDFile(t *testing.T) {
	tlds := writeTemp(t, "tlds.txt", "# Version 2024\nEXAMPLE\n")
	cfgPath := writeTemp(t, "iocx.yaml", "tld:\n  source: file\n  path: "+tlds+"\n")

	out, _, err := runCLI(t, "visit corp.example today", "extract", "-c", cfgPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"domains":["corp.example"]}`, out)
}

func TestExtract_TLDFileMissing(t *testing.T) {
	cfgPath := writeTemp(t, "iocx.yaml", "tld:\n  source: file\n  path: /nonexistent/tlds.txt\n")

	_, _, err := runCLI(t, "8.8.8.8", "extract", "-c", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading tld list")
}

func TestCombine(t *testing.T) {
	a := writeTemp(t, "a.json", `{"ip_address":["8.8.8.8"],"domains":["example.com"]}`)
	b := writeTemp(t, "b.yaml", "ip_address:\n  - 1.1.1.1\n  - 8.8.8.8\n")
	empty := writeTemp(t, "c.json", "")

	out, _, err := runCLI(t, "", "combine", a, b, empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"domains":["example.com"],"ip_address":["1.1.1.1","8.8.8.8"]}`, out)
}

func TestCombine_Errors(t *testing.T) {
	_, _, err := runCLI(t, "", "combine")
	require.Error(t, err)

	bad := writeTemp(t, "bad.json", `{"hashes":["abc"]}`)
	_, _, err = runCLI(t, "", "combine", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding result")
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
}

func TestLogsGoToStderr(t *testing.T) {
	out, errOut, err := runCLI(t, "8.8.8.8", "extract", "--log-level", "debug")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ip_address":["8.8.8.8"]}`, out)
	assert.Contains(t, errOut, "extraction finished")
}

func TestRender_Formats(t *testing.T) {
	res := &artifacts.Artifacts{IPAddresses: []string{"8.8.8.8"}, Crypto: []string{"1GiWxH6PzSSmbdcK72XfGpqhjSb6nae6h9 - Bitcoin"}}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, res, formatJSON))
	assert.JSONEq(t, `{"ip_address":["8.8.8.8"],"crypto":["1GiWxH6PzSSmbdcK72XfGpqhjSb6nae6h9 - Bitcoin"]}`, buf.String())

	buf.Reset()
	require.NoError(t, render(&buf, res, formatText))
	text := buf.String()
	assert.Less(t, strings.Index(text, "ip_address"), strings.Index(text, "crypto"))
	assert.Contains(t, text, "(1)")
}

func TestTelemetryConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Endpoint = "localhost:4318"
	cfg.Telemetry.Protocol = "http/protobuf"

	tc := telemetryConfig(cfg)
	require.NoError(t, tc.Validate())
	assert.True(t, tc.Enabled)
	assert.Equal(t, "localhost:4318", tc.Endpoint)
	assert.Equal(t, cfg.Server.ShutdownTimeout.Duration(), tc.ShutdownAfter)
}

func TestNewLogger_Levels(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "trace"

	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(logging.TraceLevel))

	cfg.Logging.Level = "loud"
	_, err = newLogger(cfg, &buf)
	assert.Error(t, err)
}
