// Package position locates tokens, nodes and errors in Kestrel source.
// Lines and columns are 1-based and count bytes; offsets are 0-based.
package position

import (
	"cmp"
	"path/filepath"
	"strconv"
)

// Position is a single point in a source file
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// IsValid reports whether p was set by the lexer
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String renders "file:line:col", dropping the directory, or "line:col"
// when the source has no name.
func (p Position) String() string {
	s := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	if p.Filename == "" {
		return s
	}
	return filepath.Base(p.Filename) + ":" + s
}

// Compare orders positions by file name, then line, then column. It
// returns -1, 0 or +1.
func (p Position) Compare(q Position) int {
	if c := cmp.Compare(p.Filename, q.Filename); c != 0 {
		return c
	}
	if c := cmp.Compare(p.Line, q.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, q.Column)
}

// Span is the half-open source range [Start, End)
type Span struct {
	Start Position
	End   Position
}

// NewSpan builds a span, moving end up to start if it lies before it
func NewSpan(start, end Position) Span {
	if end.Offset < start.Offset {
		end = start
	}
	return Span{Start: start, End: end}
}

// SpanBetween covers a through b
func SpanBetween(a, b Span) Span {
	return NewSpan(a.Start, b.End)
}
