package extract

import (
	"github.com/fyrsmithlabs/iocx/internal/validate"
	"github.com/fyrsmithlabs/iocx/pkg/artifacts"
)

// Match is a classified token.
type Match struct {
	Category artifacts.Category
	// Value is the entry recorded for the token. It equals the token except
	// for crypto addresses, which carry their currency label.
	Value string
}

// Dispatcher resolves each token to at most one category.
//
// Word stream priority: IP/CIDR, crypto, domain, URL, email, regex literal.
// Line stream priority: registry key, SQL, file path.
type Dispatcher struct {
	v *validate.Validators
}

// NewDispatcher returns a dispatcher backed by v.
func NewDispatcher(v *validate.Validators) *Dispatcher {
	return &Dispatcher{v: v}
}

// Dispatch classifies tok. The first validator that accepts it wins.
func (d *Dispatcher) Dispatch(tok Token) (Match, bool) {
	if tok.Value == "" {
		return Match{}, false
	}
	if tok.Stream == LineStream {
		return d.line(tok.Value)
	}
	return d.word(tok.Value)
}

func (d *Dispatcher) word(s string) (Match, bool) {
	if validate.IsIPAny(s) || validate.IsCIDRAny(s) {
		return Match{Category: artifacts.IPAddresses, Value: s}, true
	}
	if label, ok := d.v.WhichCurrency(s); ok {
		return Match{Category: artifacts.Crypto, Value: validate.CryptoLabel(s, label)}, true
	}

	switch {
	case d.v.IsDomain(s):
		return Match{Category: artifacts.Domains, Value: s}, true
	case d.v.IsURL(s):
		return Match{Category: artifacts.URLs, Value: s}, true
	case d.v.IsEmail(s):
		return Match{Category: artifacts.Emails, Value: s}, true
	case d.v.IsRegex(s):
		return Match{Category: artifacts.Regexes, Value: s}, true
	}
	return Match{}, false
}

func (d *Dispatcher) line(s string) (Match, bool) {
	switch {
	case d.v.IsRegistryKey(s):
		return Match{Category: artifacts.RegistryKeys, Value: s}, true
	case d.v.IsSQL(s):
		return Match{Category: artifacts.SQL, Value: s}, true
	case d.v.IsFilePath(s):
		return Match{Category: artifacts.FilePaths, Value: s}, true
	}
	return Match{}, false
}
