// Package allowlist loads indicator allowlists: known-good values and
// patterns that extraction drops after classification.
//
// Files are TOML:
//
//	[allowlist]
//	values  = ["example.com", "127.0.0.1"]
//	regexes = ['(?i)\.corp\.example\.com$']
package allowlist

import "errors"

var (
	// ErrInvalidRegex indicates a regex pattern failed to compile.
	ErrInvalidRegex = errors.New("invalid regex pattern")

	// ErrInvalidTOML indicates a TOML file could not be parsed.
	ErrInvalidTOML = errors.New("invalid TOML format")
)
