package diagnostic

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/orizon-lang/kestrel/internal/position"
)

// DefaultContext is the number of source lines shown above the error line
const DefaultContext = 2

// Renderer formats diagnostics in the rustc-like layout
//
//	error[E2001]: variable not defined
//	  --> prog.ks:2:5
//	   1 | declare x;
//	   2 | x = y;
//	     |     ^
//	  = "y" is not declared
type Renderer struct {
	Color   bool
	Context int

	errorStyle   lipgloss.Style
	arrowStyle   lipgloss.Style
	excerptStyle lipgloss.Style
	noteStyle    lipgloss.Style
}

// NewRenderer creates a renderer; color enables lipgloss styling
func NewRenderer(color bool) *Renderer {
	lr := StyleRenderer(color)
	return &Renderer{
		Color:        color,
		Context:      DefaultContext,
		errorStyle:   lr.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		arrowStyle:   lr.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		excerptStyle: lr.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		noteStyle:    lr.NewStyle().Italic(true),
	}
}

// StyleRenderer returns a lipgloss renderer detached from os.Stdout with
// its profile pinned: ANSI256 when color is on, plain text otherwise.
func StyleRenderer(color bool) *lipgloss.Renderer {
	lr := lipgloss.NewRenderer(io.Discard)
	if color {
		lr.SetColorProfile(termenv.ANSI256)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return lr
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.Color || s == "" {
		return s
	}
	return style.Render(s)
}

// Render formats one diagnostic. source may be nil, in which case the
// excerpt is omitted.
func (r *Renderer) Render(diag *Diagnostic, source *position.SourceFile) string {
	var b strings.Builder

	head := r.paint(r.errorStyle, "error["+diag.Code+"]")
	fmt.Fprintf(&b, "%s: %s\n", head, diag.Title)

	if diag.Pos.IsValid() {
		fmt.Fprintf(&b, "%s %s\n", r.paint(r.arrowStyle, "  -->"), diag.Pos)
		if source != nil {
			if excerpt := source.Excerpt(diag.Pos, r.Context); excerpt != "" {
				for _, line := range strings.SplitAfter(strings.TrimSuffix(excerpt, "\n"), "\n") {
					b.WriteString(r.paint(r.excerptStyle, strings.TrimSuffix(line, "\n")))
					b.WriteString("\n")
				}
			}
		}
	}

	if diag.Message != "" {
		fmt.Fprintf(&b, "  = %s\n", r.paint(r.noteStyle, diag.Message))
	}
	return b.String()
}

// ColorEnabled resolves a color mode of "always", "never" or "auto". Auto
// colors only when fd is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, fd uintptr) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(fd)
}

// RenderError is shorthand for rendering err against src
func (r *Renderer) RenderError(err error, src *position.SourceFile) string {
	return r.Render(FromError(err), src)
}
