package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/fyrsmithlabs/iocx/internal/tld"
)

// DefaultMatchTimeout bounds a single backtracking match.
const DefaultMatchTimeout = 250 * time.Millisecond

// Config configures a Validators.
type Config struct {
	// TLDs decides which final labels make a domain. Nil means the ICANN
	// section of the public suffix list.
	TLDs tld.Source

	// EmailWhitelist lists domain parts accepted for emails even when they
	// fail the domain grammar. Nil means {"localhost"}; an empty, non-nil
	// slice disables the whitelist.
	EmailWhitelist []string

	// MatchTimeout bounds each backtracking match (default: 250ms).
	MatchTimeout time.Duration

	// OnTimeout, if set, is called with the pattern name whenever a match
	// times out.
	OnTimeout func(pattern string)
}

// DefaultConfig returns the configuration used by New when fields are unset.
func DefaultConfig() Config {
	return Config{
		TLDs:           tld.PublicSuffix{},
		EmailWhitelist: []string{"localhost"},
		MatchTimeout:   DefaultMatchTimeout,
	}
}

// Validators holds every compiled pattern plus the TLD source. It is
// immutable after New and safe for concurrent use.
type Validators struct {
	tlds      tld.Source
	whitelist map[string]struct{}
	timeout   time.Duration
	onTimeout func(string)

	currencies [numCurrencies]*pattern
	registry   *pattern
	sql        *pattern
}

// pattern is a compiled backtracking matcher bound to a name.
type pattern struct {
	name string
	re   *regexp2.Regexp
}

// New compiles all patterns.
func New(cfg Config) (*Validators, error) {
	def := DefaultConfig()
	if cfg.TLDs == nil {
		cfg.TLDs = def.TLDs
	}
	if cfg.EmailWhitelist == nil {
		cfg.EmailWhitelist = def.EmailWhitelist
	}
	if cfg.MatchTimeout < 0 {
		return nil, fmt.Errorf("match timeout must be >= 0, got %s", cfg.MatchTimeout)
	}
	if cfg.MatchTimeout == 0 {
		cfg.MatchTimeout = def.MatchTimeout
	}

	v := &Validators{
		tlds:      cfg.TLDs,
		whitelist: make(map[string]struct{}, len(cfg.EmailWhitelist)),
		timeout:   cfg.MatchTimeout,
		onTimeout: cfg.OnTimeout,
	}

	for _, d := range cfg.EmailWhitelist {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		ascii, err := idnaProfile.ToASCII(d)
		if err != nil {
			return nil, fmt.Errorf("email whitelist entry %q: %w", d, err)
		}
		v.whitelist[strings.ToLower(ascii)] = struct{}{}
	}

	var err error
	for _, c := range Currencies() {
		if v.currencies[c], err = v.compile(c.String(), currencyPatterns[c], regexp2.IgnoreCase); err != nil {
			return nil, err
		}
	}
	if v.registry, err = v.compile("registry", registryPattern, regexp2.IgnoreCase|regexp2.Multiline); err != nil {
		return nil, err
	}
	if v.sql, err = v.compile("sql", sqlPattern, regexp2.IgnoreCase|regexp2.Multiline|regexp2.IgnorePatternWhitespace); err != nil {
		return nil, err
	}

	return v, nil
}

// MustNew is like New but panics on error.
func MustNew(cfg Config) *Validators {
	v, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Validators) compile(name, expr string, opts regexp2.RegexOptions) (*pattern, error) {
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", name, err)
	}
	re.MatchTimeout = v.timeout
	return &pattern{name: name, re: re}, nil
}

// match runs p against value. Timeouts and engine errors are no match.
func (v *Validators) match(p *pattern, value string) bool {
	ok, err := p.re.MatchString(value)
	if err != nil {
		if v.onTimeout != nil {
			v.onTimeout(p.name)
		}
		return false
	}
	return ok
}

// MatchTimeout returns the per-match timeout in effect.
func (v *Validators) MatchTimeout() time.Duration {
	return v.timeout
}
