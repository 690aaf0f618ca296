package position

import (
	"fmt"
	"strings"
)

// SourceFile holds one file's text split into lines for excerpts
type SourceFile struct {
	Filename string
	Content  string

	lines []string
}

// NewSourceFile splits content into lines
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Content:  content,
		lines:    strings.Split(content, "\n"),
	}
}

// Line returns line n without its line terminator, or "" when n is out
// of range.
func (sf *SourceFile) Line(n int) string {
	if n < 1 || n > len(sf.lines) {
		return ""
	}
	return strings.TrimSuffix(sf.lines[n-1], "\r")
}

// Excerpt renders up to context lines before pos, the line holding pos
// and a caret under its column:
//
//	   3 | x = 1 + ;
//	     |         ^
func (sf *SourceFile) Excerpt(pos Position, context int) string {
	if !pos.IsValid() || pos.Line > len(sf.lines) {
		return ""
	}

	var b strings.Builder
	for n := max(1, pos.Line-context); n <= pos.Line; n++ {
		fmt.Fprintf(&b, "%4d | %s\n", n, sf.Line(n))
	}
	b.WriteString("     | ")
	b.WriteString(caretPad(sf.Line(pos.Line), pos.Column))
	b.WriteString("^\n")
	return b.String()
}

// caretPad returns the indentation that puts a caret under column,
// copying tabs from line so it lines up.
func caretPad(line string, column int) string {
	pad := make([]byte, 0, column)
	for i := 0; i < column-1; i++ {
		if i < len(line) && line[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	return string(pad)
}
