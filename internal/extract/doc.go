// Package extract turns free text into an artifacts record.
//
// Text is split two ways. The line stream (one trimmed token per line)
// feeds the registry key, SQL and file path validators; the word stream
// (split on Unicode whitespace) feeds everything else. Each token is
// offered to the validators of its stream in a fixed priority order and
// lands in the first category that accepts it.
//
// The two passes run concurrently and never share state. With more than one
// worker the word pass is further split into contiguous chunks, each filling
// its own record, and the partial records are merged at the join.
package extract
