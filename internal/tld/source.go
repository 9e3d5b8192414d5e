// Package tld provides the top-level-domain lists used to decide whether a
// host name ends in a real suffix.
//
// Validators only see the Source interface. Tests inject a Static list, the
// default is the ICANN section of the public suffix list compiled into
// golang.org/x/net, and long-running processes can use a Cache refreshed from
// an IANA-format file or URL.
package tld

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var (
	// ErrEmptyList indicates a TLD list contained no entries.
	ErrEmptyList = errors.New("tld list is empty")

	// ErrThrottled indicates a refresh was requested too soon after the last one.
	ErrThrottled = errors.New("tld refresh throttled")

	// ErrListTooLarge indicates a TLD list exceeded the 1MB read limit.
	ErrListTooLarge = errors.New("tld list exceeds 1MB")
)

// Source answers whether a label is a known top-level domain.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Contains reports whether tld is known. tld is a single ASCII label
	// (punycode for internationalized TLDs), compared case-insensitively.
	Contains(tld string) bool
}

// Static is a fixed, immutable TLD set.
type Static struct {
	set map[string]struct{}
}

// NewStatic builds a Static source. Entries may carry a leading dot and may
// be Unicode; they are normalized to lowercase ASCII.
func NewStatic(tlds ...string) *Static {
	set := make(map[string]struct{}, len(tlds))
	for _, t := range tlds {
		if n := normalizeLabel(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return &Static{set: set}
}

// Contains implements Source.
func (s *Static) Contains(tld string) bool {
	_, ok := s.set[strings.ToLower(tld)]
	return ok
}

// Len returns the number of entries.
func (s *Static) Len() int {
	return len(s.set)
}

// PublicSuffix answers from the ICANN section of the public suffix list
// embedded in golang.org/x/net/publicsuffix.
type PublicSuffix struct{}

// Contains implements Source.
func (PublicSuffix) Contains(tld string) bool {
	tld = strings.ToLower(tld)
	if tld == "" || strings.Contains(tld, ".") {
		return false
	}
	suffix, icann := publicsuffix.PublicSuffix(tld)
	return icann && suffix == tld
}

// ParseList reads an IANA tlds-alpha-by-domain style list: one TLD per line,
// '#' comments and blank lines ignored.
func ParseList(r io.Reader) ([]string, error) {
	var tlds []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if n := normalizeLabel(line); n != "" {
			tlds = append(tlds, n)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading tld list: %w", err)
	}
	if len(tlds) == 0 {
		return nil, ErrEmptyList
	}
	return tlds, nil
}

// normalizeLabel lowercases and punycode-encodes a single label, returning
// "" when it cannot be represented.
func normalizeLabel(label string) string {
	label = strings.TrimPrefix(strings.TrimSpace(label), ".")
	if label == "" {
		return ""
	}
	ascii, err := idna.Lookup.ToASCII(label)
	if err != nil {
		return ""
	}
	return strings.ToLower(ascii)
}

// Compile-time interface checks.
var (
	_ Source = (*Static)(nil)
	_ Source = PublicSuffix{}
	_ Source = (*Cache)(nil)
)
