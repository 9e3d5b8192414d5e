package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func values(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value
	}
	return out
}

func TestLines(t *testing.T) {
	tokens := Lines("  first line \r\n\n\tsecond\n   \nthird")
	assert.Equal(t, []string{"first line", "second", "third"}, values(tokens))
	for _, tok := range tokens {
		assert.Equal(t, LineStream, tok.Stream)
	}
	assert.Empty(t, Lines(""))
}

func TestWords(t *testing.T) {
	tokens := Words("a  b\tc\nd\u00a0e\u2003f")
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, values(tokens))
	for _, tok := range tokens {
		assert.Equal(t, WordStream, tok.Stream)
	}
	assert.Empty(t, Words("   \n\t"))
}

func TestChunk(t *testing.T) {
	tokens := Words("a b c d e f g")

	tests := []struct {
		n     int
		sizes []int
	}{
		{n: 1, sizes: []int{7}},
		{n: 2, sizes: []int{4, 3}},
		{n: 3, sizes: []int{3, 2, 2}},
		{n: 7, sizes: []int{1, 1, 1, 1, 1, 1, 1}},
		{n: 10, sizes: []int{1, 1, 1, 1, 1, 1, 1}},
		{n: 0, sizes: []int{7}},
	}
	for _, tt := range tests {
		chunks := chunk(tokens, tt.n)
		var sizes []int
		var joined []string
		for _, c := range chunks {
			sizes = append(sizes, len(c))
			joined = append(joined, values(c)...)
		}
		assert.Equal(t, tt.sizes, sizes, "n=%d", tt.n)
		assert.Equal(t, values(tokens), joined, "n=%d keeps order", tt.n)
	}

	assert.Nil(t, chunk(nil, 4))
}

func TestStreamString(t *testing.T) {
	assert.Equal(t, "line", LineStream.String())
	assert.Equal(t, "word", WordStream.String())
}
