package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/iocx/internal/tld"
	"github.com/fyrsmithlabs/iocx/internal/validate"
	"github.com/fyrsmithlabs/iocx/pkg/artifacts"
)

var testTLDs = tld.NewStatic("com", "org", "net", "io", "uk", "cn")

func newTestValidators(t testing.TB) *validate.Validators {
	t.Helper()
	v, err := validate.New(validate.Config{TLDs: testTLDs})
	require.NoError(t, err)
	return v
}

func TestDispatcher_WordPriority(t *testing.T) {
	d := NewDispatcher(newTestValidators(t))

	tests := []struct {
		token    string
		category artifacts.Category
		value    string
	}{
		{"192.168.21.21", artifacts.IPAddresses, "192.168.21.21"},
		{"::ffff:127.0.0.1", artifacts.IPAddresses, "::ffff:127.0.0.1"},
		{"10.0.0.0/8", artifacts.IPAddresses, "10.0.0.0/8"},
		{"1GiWxH6PzSSmbdcK72XfGpqhjSb6nae6h9", artifacts.Crypto, "1GiWxH6PzSSmbdcK72XfGpqhjSb6nae6h9 - Bitcoin"},
		{"www.example.com", artifacts.Domains, "www.example.com"},
		{"https://www.example.com/a", artifacts.URLs, "https://www.example.com/a"},
		{"johndoe@example.com", artifacts.Emails, "johndoe@example.com"},
		{`^\d{3}-\d{4}$`, artifacts.Regexes, `^\d{3}-\d{4}$`},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m, ok := d.Dispatch(Token{Value: tt.token, Stream: WordStream})
			require.True(t, ok)
			assert.Equal(t, tt.category, m.Category)
			assert.Equal(t, tt.value, m.Value)
		})
	}

	for _, miss := range []string{"", "hello", "kernel32.dll", "and"} {
		_, ok := d.Dispatch(Token{Value: miss, Stream: WordStream})
		assert.False(t, ok, miss)
	}
}

func TestDispatcher_LinePriority(t *testing.T) {
	d := NewDispatcher(newTestValidators(t))

	tests := []struct {
		line     string
		category artifacts.Category
	}{
		{`HKLM\SOFTWARE\Microsoft\Windows\CurrentVersion\Run`, artifacts.RegistryKeys},
		{"SELECT * FROM users WHERE id = 1", artifacts.SQL},
		{`C:\Windows\System32\kernel32.dll`, artifacts.FilePaths},
		{"/etc/passwd", artifacts.FilePaths},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m, ok := d.Dispatch(Token{Value: tt.line, Stream: LineStream})
			require.True(t, ok)
			assert.Equal(t, tt.category, m.Category)
			assert.Equal(t, tt.line, m.Value)
		})
	}

	// Line validators never see word-stream categories.
	_, ok := d.Dispatch(Token{Value: "192.168.21.21", Stream: LineStream})
	assert.False(t, ok)
}
