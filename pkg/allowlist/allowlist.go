package allowlist

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Allowlist matches tokens that must never be reported.
// The zero value and nil allow nothing.
type Allowlist struct {
	values  map[string]struct{}
	regexes []*regexp.Regexp
}

// file is the on-disk layout.
type file struct {
	Allowlist struct {
		Values  []string `toml:"values"`
		Regexes []string `toml:"regexes"`
	} `toml:"allowlist"`
}

// New builds an allowlist from literal values (compared case-insensitively)
// and RE2 patterns.
func New(values, regexes []string) (*Allowlist, error) {
	a := &Allowlist{values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			a.values[strings.ToLower(v)] = struct{}{}
		}
	}
	for _, pattern := range regexes {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s': %v", ErrInvalidRegex, pattern, err)
		}
		a.regexes = append(a.regexes, re)
	}
	return a, nil
}

// Parse reads a TOML allowlist. name is only used in error messages.
func Parse(r io.Reader, name string) (*Allowlist, error) {
	var f file
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, name, err)
	}
	a, err := New(f.Allowlist.Values, f.Allowlist.Regexes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return a, nil
}

// Load reads and merges allowlist files using union (OR) logic.
// Missing files are silently ignored. Invalid TOML or regex patterns return
// errors.
func Load(paths ...string) (*Allowlist, error) {
	merged := &Allowlist{values: map[string]struct{}{}}
	for _, path := range paths {
		if path == "" {
			continue
		}
		a, err := loadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		merged.Merge(a)
	}
	return merged, nil
}

func loadFile(path string) (*Allowlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err // os.IsNotExist can identify this
	}
	defer f.Close()
	return Parse(f, path)
}

// Merge adds other's entries to a.
func (a *Allowlist) Merge(other *Allowlist) {
	if other == nil {
		return
	}
	if a.values == nil {
		a.values = make(map[string]struct{}, len(other.values))
	}
	for v := range other.values {
		a.values[v] = struct{}{}
	}
	a.regexes = append(a.regexes, other.regexes...)
}

// Allowed reports whether token is allowlisted.
func (a *Allowlist) Allowed(token string) bool {
	if a == nil {
		return false
	}
	if _, ok := a.values[strings.ToLower(token)]; ok {
		return true
	}
	for _, re := range a.regexes {
		if re.MatchString(token) {
			return true
		}
	}
	return false
}

// Len returns the number of values plus patterns.
func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.values) + len(a.regexes)
}
