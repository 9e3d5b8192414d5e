// Package validate classifies single tokens as indicators.
//
// Network predicates (IsIPv4, IsIPv4CIDR, ...) are pure functions. Everything
// that needs compiled patterns or a TLD list hangs off *Validators, which is
// built once by New and is read-only afterwards, so one value can be shared by
// any number of goroutines.
//
// Patterns that need lookaround or heavy backtracking (crypto families,
// registry keys, SQL, regex literals) run on regexp2 with a per-match
// timeout. A timeout is reported as "no match". URL, domain and email
// patterns are linear-time RE2.
package validate
