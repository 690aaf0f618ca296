// Diagnostic reporting for the Kestrel front end.
// Converts compile errors into diagnostics and renders them with a source
// excerpt, optionally styled for a terminal.

package diagnostic

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	kerrors "github.com/orizon-lang/kestrel/internal/errors"
	"github.com/orizon-lang/kestrel/internal/position"
)

// Diagnostic codes, one per compile error kind.
const (
	CodeSyntax        = "E1001"
	CodeUndefined     = "E2001"
	CodeRedeclaration = "E2002"
	CodeArity         = "E2003"
	CodeInternal      = "E9000"
)

// Diagnostic represents a single error report. Every compile error is
// fatal, so there is no severity.
type Diagnostic struct {
	Code    string
	Title   string
	Message string
	Pos     position.Position
}

// FromError converts err into a diagnostic. Errors that are not compile
// errors (I/O failures and the like) become internal diagnostics without a
// position.
func FromError(err error) *Diagnostic {
	var ce *kerrors.CompileError
	if !stderrors.As(err, &ce) {
		return &Diagnostic{Code: CodeInternal, Title: err.Error()}
	}
	return &Diagnostic{
		Code:    codeFor(ce.Kind),
		Title:   ce.Message,
		Message: ce.Detail,
		Pos:     ce.Pos,
	}
}

func codeFor(kind kerrors.Kind) string {
	switch kind {
	case kerrors.KindSyntax:
		return CodeSyntax
	case kerrors.KindUndefined:
		return CodeUndefined
	case kerrors.KindRedeclaration:
		return CodeRedeclaration
	case kerrors.KindArity:
		return CodeArity
	default:
		return CodeInternal
	}
}

// DiagnosticEngine collects diagnostics from concurrent parses and renders
// them in a stable order.
type DiagnosticEngine struct {
	mu       sync.Mutex
	entries  []entry
	renderer *Renderer
}

type entry struct {
	diag   Diagnostic
	source *position.SourceFile
}

// NewDiagnosticEngine creates a new diagnostic engine.
func NewDiagnosticEngine(renderer *Renderer) *DiagnosticEngine {
	if renderer == nil {
		renderer = NewRenderer(false)
	}
	return &DiagnosticEngine{renderer: renderer}
}

// AddDiagnostic records diag; source may be nil when no text is available.
func (de *DiagnosticEngine) AddDiagnostic(diag *Diagnostic, source *position.SourceFile) {
	de.mu.Lock()
	defer de.mu.Unlock()
	de.entries = append(de.entries, entry{diag: *diag, source: source})
}

// diagnostics returns a sorted copy of everything recorded so far
func (de *DiagnosticEngine) diagnostics() []Diagnostic {
	de.mu.Lock()
	defer de.mu.Unlock()
	de.sortLocked()
	out := make([]Diagnostic, len(de.entries))
	for i, e := range de.entries {
		out[i] = e.diag
	}
	return out
}

// HasErrors reports whether any diagnostic was recorded
func (de *DiagnosticEngine) HasErrors() bool {
	de.mu.Lock()
	defer de.mu.Unlock()
	return len(de.entries) > 0
}

// sortLocked orders by position, then title and code. Diagnostics without
// a line still sort by Pos.Filename.
func (de *DiagnosticEngine) sortLocked() {
	sort.SliceStable(de.entries, func(i, j int) bool {
		a, b := de.entries[i].diag, de.entries[j].diag
		if c := a.Pos.Compare(b.Pos); c != 0 {
			return c < 0
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Code < b.Code
	})
}

// FormatDiagnostics renders every diagnostic followed by a summary line.
func (de *DiagnosticEngine) FormatDiagnostics() string {
	de.mu.Lock()
	defer de.mu.Unlock()
	if len(de.entries) == 0 {
		return ""
	}
	de.sortLocked()

	var result strings.Builder
	for i, e := range de.entries {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(de.renderer.Render(&e.diag, e.source))
	}
	fmt.Fprintf(&result, "\nFound %d error(s).\n", len(de.entries))
	return result.String()
}
