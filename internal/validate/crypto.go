package validate

import (
	"strings"
	"unicode/utf8"
)

// Currency identifies a cryptocurrency address family.
type Currency int

// Families in match order. The first matching family labels an address.
const (
	Bitcoin Currency = iota
	BitcoinCash
	Ethereum
	Litecoin
	Dogecoin
	Dash
	Monero
	Neo
	Ripple

	numCurrencies
)

var currencyLabels = [numCurrencies]string{
	Bitcoin:     "Bitcoin",
	BitcoinCash: "Bitcoin Cash",
	Ethereum:    "Ethereum",
	Litecoin:    "Litecoin",
	Dogecoin:    "Dodgecoin",
	Dash:        "Dash",
	Monero:      "Monero",
	Neo:         "Neo",
	Ripple:      "Ripple",
}

// Compiled case-insensitive.
var currencyPatterns = [numCurrencies]string{
	Bitcoin:     `^[13][a-km-zA-HJ-NP-Z1-9]{26,33}|bc1[a-z0-9]{39,59}\b`,
	BitcoinCash: `^(((bitcoincash|bchreg|bchtest):)?(?:q|p)[a-z0-9]{41}|[13][a-km-zA-HJ-NP-Z1-9]{33})\b`,
	Ethereum:    `^0x[a-fA-F0-9]{40}\b`,
	Litecoin:    `^(?:ltc1|[LM])(?=\S*?\d\S*?\b)[a-km-zA-HJ-NP-Z1-9]{26,33}\b`,
	Dogecoin:    `^D[5-9A-HJ-NP-U][1-9a-km-zA-HJ-NP-Z]{32}\b`,
	Dash:        `^X[1-9A-HJ-NP-Za-km-z]{33}\b`,
	Monero:      `^[48][0-9AB][1-9A-HJ-NP-Za-km-z]{93}\b`,
	Neo:         `^A[0-9a-zA-Z]{33}\b`,
	Ripple:      `^[rx](?=\S*?\d\S*?\b)[0-9a-zA-Z]{33,47}\b`,
}

// cryptoIllegal never appears in a wallet address.
const cryptoIllegal = ".!%*$#@)(^`~|><-_\"\\}{:;,/?"

// Currencies returns every family in match order.
func Currencies() []Currency {
	out := make([]Currency, numCurrencies)
	for i := range out {
		out[i] = Currency(i)
	}
	return out
}

// String returns the label used in crypto results.
func (c Currency) String() string {
	if c < 0 || c >= numCurrencies {
		return "Unknown"
	}
	return currencyLabels[c]
}

// cryptoCandidate is the cheap filter applied before any family pattern:
// more than 15 runes, at least one digit, no punctuation from cryptoIllegal.
func cryptoCandidate(value string) bool {
	return utf8.RuneCountInString(value) > 15 &&
		strings.ContainsAny(value, "0123456789") &&
		!strings.ContainsAny(value, cryptoIllegal)
}

// IsCrypto reports whether value looks like an address of any family.
func (v *Validators) IsCrypto(value string) bool {
	_, ok := v.WhichCurrency(value)
	return ok
}

// WhichCurrency returns the label of the first family value matches.
func (v *Validators) WhichCurrency(value string) (string, bool) {
	c, ok := v.CurrencyOf(value)
	if !ok {
		return "", false
	}
	return c.String(), true
}

// CurrencyOf is WhichCurrency returning the family itself.
func (v *Validators) CurrencyOf(value string) (Currency, bool) {
	if !cryptoCandidate(value) {
		return 0, false
	}
	for c, p := range v.currencies {
		if v.match(p, value) {
			return Currency(c), true
		}
	}
	return 0, false
}

// Is reports whether value passes the candidate filter and matches family c.
func (v *Validators) Is(c Currency, value string) bool {
	if c < 0 || c >= numCurrencies || !cryptoCandidate(value) {
		return false
	}
	return v.match(v.currencies[c], value)
}

func (v *Validators) IsBitcoin(value string) bool     { return v.Is(Bitcoin, value) }
func (v *Validators) IsBitcoinCash(value string) bool { return v.Is(BitcoinCash, value) }
func (v *Validators) IsEthereum(value string) bool    { return v.Is(Ethereum, value) }
func (v *Validators) IsLitecoin(value string) bool    { return v.Is(Litecoin, value) }
func (v *Validators) IsDogecoin(value string) bool    { return v.Is(Dogecoin, value) }
func (v *Validators) IsDash(value string) bool        { return v.Is(Dash, value) }
func (v *Validators) IsMonero(value string) bool      { return v.Is(Monero, value) }
func (v *Validators) IsNeo(value string) bool         { return v.Is(Neo, value) }
func (v *Validators) IsRipple(value string) bool      { return v.Is(Ripple, value) }

// CryptoLabel formats a crypto result entry.
func CryptoLabel(address, currency string) string {
	return address + " - " + currency
}
