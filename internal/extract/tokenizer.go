package extract

import "strings"

// Stream identifies how a token was cut from the text.
type Stream int

const (
	// LineStream tokens are whole trimmed lines.
	LineStream Stream = iota
	// WordStream tokens are whitespace-separated words.
	WordStream
)

func (s Stream) String() string {
	if s == LineStream {
		return "line"
	}
	return "word"
}

// Token is a candidate indicator.
type Token struct {
	Value  string
	Stream Stream
}

// Lines splits text on '\n' and trims each line. Blank lines are dropped.
func Lines(text string) []Token {
	var out []Token
	for line := range strings.SplitSeq(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, Token{Value: line, Stream: LineStream})
		}
	}
	return out
}

// Words splits text on runs of Unicode whitespace.
func Words(text string) []Token {
	fields := strings.Fields(text)
	out := make([]Token, len(fields))
	for i, f := range fields {
		out[i] = Token{Value: f, Stream: WordStream}
	}
	return out
}

// chunk splits tokens into at most n contiguous, nearly equal parts.
func chunk(tokens []Token, n int) [][]Token {
	if n < 1 {
		n = 1
	}
	if n > len(tokens) {
		n = len(tokens)
	}
	if n == 0 {
		return nil
	}
	out := make([][]Token, 0, n)
	size, rem := len(tokens)/n, len(tokens)%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		out = append(out, tokens[start:end])
		start = end
	}
	return out
}
