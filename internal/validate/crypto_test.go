package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var cryptoSamples = []struct {
	addr     string
	currency Currency
	label    string
}{
	{"1GiWxH6PzSSmbdcK72XfGpqhjSb6nae6h9", Bitcoin, "Bitcoin"},
	{"qppjlghjlwg6tgxv7ffhvs43rlul0kpp4c0shk4dr6", BitcoinCash, "Bitcoin Cash"},
	{"0xaae47eae4ddd4877e0ae0bc780cfaee3cc3b52cb", Ethereum, "Ethereum"},
	{"LQ4i7FLNhfCC9GXw682mS1NzvVKbtJAFZq", Litecoin, "Litecoin"},
	{"D6K2nqqQKycTucCSFSHhpiig4yQ6NPQRf9", Dogecoin, "Dodgecoin"},
	{"XqLYPDTADW6EYuQmTcEAx81o8EHTKwqTK8", Dash, "Dash"},
	{"41gYNjXMeXaTmZFVv645A1HRVoA637cXFGbDdLV8Gn5hLvfxfRLKigUTvm2HVZhBzDVPeGpDy71qxASTpRFgepDwLexA8Ti", Monero, "Monero"},
	{"AeHauBkGkHPTxh4PEUhNr7WRgivmcdCRnR", Neo, "Neo"},
	{"rUocf1ixKzTuEe34kmVhRvGqNCofY1NJzV", Ripple, "Ripple"},
}

func TestWhichCurrency(t *testing.T) {
	v := newTestValidators(t)

	for _, tt := range cryptoSamples {
		t.Run(tt.label, func(t *testing.T) {
			label, ok := v.WhichCurrency(tt.addr)
			assert.True(t, ok)
			assert.Equal(t, tt.label, label)

			c, ok := v.CurrencyOf(tt.addr)
			assert.True(t, ok)
			assert.Equal(t, tt.currency, c)

			assert.True(t, v.Is(tt.currency, tt.addr))
			assert.True(t, v.IsCrypto(tt.addr))
		})
	}

	_, ok := v.WhichCurrency("LQ4i7FLNbtJAFZq")
	assert.False(t, ok)
}

func TestWhichCurrency_HonorsCandidateFilter(t *testing.T) {
	v := newTestValidators(t)

	// Matches the Ethereum pattern but carries a blocked character.
	_, ok := v.WhichCurrency("0xaae47eae4ddd4877e0ae0bc780cfaee3cc3b52cb,")
	assert.False(t, ok)

	// No digit.
	_, ok = v.WhichCurrency("RegQueryValueExAbcdefghijk")
	assert.False(t, ok)
}

func TestPerFamilyPredicates(t *testing.T) {
	v := newTestValidators(t)

	assert.True(t, v.IsBitcoin("1GiWxH6PzSSmbdcK72XfGpqhjSb6nae6h9"))
	assert.True(t, v.IsBitcoinCash("qppjlghjlwg6tgxv7ffhvs43rlul0kpp4c0shk4dr6"))
	assert.True(t, v.IsEthereum("0xaae47eae4ddd4877e0ae0bc780cfaee3cc3b52cb"))
	assert.True(t, v.IsLitecoin("LQ4i7FLNhfCC9GXw682mS1NzvVKbtJAFZq"))
	assert.True(t, v.IsDogecoin("D6K2nqqQKycTucCSFSHhpiig4yQ6NPQRf9"))
	assert.True(t, v.IsDash("XqLYPDTADW6EYuQmTcEAx81o8EHTKwqTK8"))
	assert.True(t, v.IsMonero("41gYNjXMeXaTmZFVv645A1HRVoA637cXFGbDdLV8Gn5hLvfxfRLKigUTvm2HVZhBzDVPeGpDy71qxASTpRFgepDwLexA8Ti"))
	assert.True(t, v.IsNeo("AeHauBkGkHPTxh4PEUhNr7WRgivmcdCRnR"))
	assert.True(t, v.IsRipple("rUocf1ixKzTuEe34kmVhRvGqNCofY1NJzV"))

	assert.False(t, v.IsRipple("RegQueryValueExA"))
	assert.False(t, v.IsEthereum("1GiWxH6PzSSmbdcK72XfGpqhjSb6nae6h9"))
	assert.False(t, v.IsLitecoin("D6K2nqqQKycTucCSFSHhpiig4yQ6NPQRf9"))
	assert.False(t, v.Is(Currency(99), "1GiWxH6PzSSmbdcK72XfGpqhjSb6nae6h9"))
}

func TestCurrencyString(t *testing.T) {
	assert.Len(t, Currencies(), 9)
	assert.Equal(t, "Dodgecoin", Dogecoin.String())
	assert.Equal(t, "Unknown", Currency(-1).String())
	assert.Equal(t, "1abc - Bitcoin", CryptoLabel("1abc", Bitcoin.String()))
}
