// internal/logging/defang.go
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var schemeRewrites = []struct{ from, to string }{
	{"https", "hxxps"},
	{"http", "hxxp"},
	{"ftps", "fxps"},
	{"ftp", "fxp"},
}

var defangReplacer = strings.NewReplacer(".", "[.]", "@", "[@]", "://", "[://]")

// Defang rewrites an indicator so it can no longer be followed or resolved
// when a log line is pasted somewhere. Already defanged input is returned
// unchanged.
func Defang(s string) string {
	if s == "" || IsDefanged(s) {
		return s
	}
	lower := strings.ToLower(s)
	for _, r := range schemeRewrites {
		if strings.HasPrefix(lower, r.from+"://") {
			s = r.to + s[len(r.from):]
			break
		}
	}
	return defangReplacer.Replace(s)
}

// IsDefanged reports whether s already carries defang markers.
func IsDefanged(s string) bool {
	return strings.Contains(s, "[.]") || strings.Contains(s, "[@]") || strings.Contains(s, "[://]")
}

// Indicator returns a string field for an indicator value. The value is
// defanged unless defanging is disabled in the logger's config.
func (l *Logger) Indicator(key, val string) zap.Field {
	if l.defangs() {
		val = Defang(val)
	}
	return zap.String(key, val)
}

// Indicators is Indicator for a list of values.
func (l *Logger) Indicators(key string, vals []string) zap.Field {
	if !l.defangs() {
		return zap.Strings(key, vals)
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = Defang(v)
	}
	return zap.Strings(key, out)
}

func (l *Logger) defangs() bool {
	return l.config == nil || l.config.Defang.Enabled
}

// DefangingEncoder defangs string fields with configured keys before they
// are written.
type DefangingEncoder struct {
	zapcore.Encoder
	fields map[string]struct{}
}

// NewDefangingEncoder wraps enc. When cfg is disabled enc is returned as is.
func NewDefangingEncoder(enc zapcore.Encoder, cfg DefangConfig) zapcore.Encoder {
	if !cfg.Enabled || len(cfg.Fields) == 0 {
		return enc
	}
	set := make(map[string]struct{}, len(cfg.Fields))
	for _, f := range cfg.Fields {
		set[strings.ToLower(f)] = struct{}{}
	}
	return &DefangingEncoder{Encoder: enc, fields: set}
}

func (e *DefangingEncoder) wants(key string) bool {
	_, ok := e.fields[strings.ToLower(key)]
	return ok
}

// AddString implements zapcore.ObjectEncoder.
func (e *DefangingEncoder) AddString(key, val string) {
	if e.wants(key) {
		val = Defang(val)
	}
	e.Encoder.AddString(key, val)
}

// Clone implements zapcore.Encoder.
func (e *DefangingEncoder) Clone() zapcore.Encoder {
	return &DefangingEncoder{Encoder: e.Encoder.Clone(), fields: e.fields}
}

// EncodeEntry implements zapcore.Encoder.
func (e *DefangingEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	var out []zapcore.Field
	for i, f := range fields {
		if f.Type != zapcore.StringType || !e.wants(f.Key) {
			continue
		}
		if out == nil {
			// fields belongs to the caller
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
		}
		out[i].String = Defang(f.String)
	}
	if out == nil {
		out = fields
	}
	return e.Encoder.EncodeEntry(ent, out)
}
