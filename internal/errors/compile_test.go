package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/orizon-lang/kestrel/internal/position"
)

func TestCompileErrorMessage(t *testing.T) {
	pos := position.Position{Filename: "main.ks", Line: 3, Column: 7, Offset: 20}

	tests := []struct {
		name string
		err  *CompileError
		want string
	}{
		{
			name: "syntax with detail",
			err:  New(KindSyntax, pos, "unexpected token", "expected SEMICOLON, got EOF"),
			want: "main.ks:3:7: [SYNTAX] unexpected token: expected SEMICOLON, got EOF",
		},
		{
			name: "arity",
			err:  Arity(pos, "add", 2, 3),
			want: "main.ks:3:7: [ARITY] invalid number of arguments: function add expects 2 arguments, got 3",
		},
		{
			name: "no position",
			err:  New(KindSyntax, position.Position{}, "Unexpected Statement", ""),
			want: "[SYNTAX] Unexpected Statement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileErrorIs(t *testing.T) {
	err := fmt.Errorf("parse main.ks: %w", Undefined(position.Position{}, "variable", "x"))

	if !stderrors.Is(err, ErrUndefined) {
		t.Error("expected wrapped error to match ErrUndefined")
	}
	if stderrors.Is(err, ErrSyntax) {
		t.Error("did not expect wrapped error to match ErrSyntax")
	}

	var ce *CompileError
	if !stderrors.As(err, &ce) {
		t.Fatal("expected errors.As to find a CompileError")
	}
	if ce.Message != "variable not defined" || !strings.Contains(ce.Detail, `"x"`) {
		t.Errorf("unexpected error contents: %+v", ce)
	}
}
