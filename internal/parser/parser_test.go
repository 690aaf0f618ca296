package parser

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/orizon-lang/kestrel/internal/ast"
	kerrors "github.com/orizon-lang/kestrel/internal/errors"
	"github.com/orizon-lang/kestrel/internal/lexer"
	"github.com/orizon-lang/kestrel/internal/position"
	"github.com/orizon-lang/kestrel/internal/symbols"
)

func newParser(opts ...Option) (*Parser, *symbols.SymbolTable, *symbols.FunctionTable) {
	syms := symbols.NewSymbolTable()
	funcs := symbols.NewFunctionTable()
	return New(lexer.NewWithFilename("", "test.ks"), syms, funcs, opts...), syms, funcs
}

func mustParse(t *testing.T, src string) *ast.StmtList {
	t.Helper()
	list, err := ParseFile("test.ks", src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return list
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "1 + (2 * 3)"},
		{"1 - 2 - 3", "(1 - 2) - 3"},
		{"a % b / c", "(a % b) / c"},
		{"a << 1 & 3", "a << (1 & 3)"},
		{"a & b | c ^ 1", "((a & b) | c) ^ 1"},
		{"a + 1 == b << 2", "(a + 1) == (b << 2)"},
		{"a == b && b < 3", "(a == b) && (b < 3)"},
		{"a || b && c", "(a || b) && c"},
		{"-a * b", "-a * b"},
		{"!(a + 1)", "!(a + 1)"},
		{"~~a", "~~a"},
		{"((7))", "7"},
		{"a ? b : c ? 1 : 2", "a ? b : c ? 1 : 2"},
		{"(a ? b : c) ? 1 : 2", "(a ? b : c) ? 1 : 2"},
		{"a ? 1 : 2 + 3", "a ? 1 : 2 + 3"},
		{"a > b ? a : b", "a > b ? a : b"},
	}

	for i, tt := range tests {
		p, syms, _ := newParser()
		for _, name := range []string{"a", "b", "c"} {
			if _, err := syms.Create(name, position.Position{}); err != nil {
				t.Fatal(err)
			}
		}
		expr, err := p.ParseExpression(tt.input)
		if err != nil {
			t.Fatalf("tests[%d] - %q: unexpected error: %v", i, tt.input, err)
		}
		if got := ast.Format(expr); got != tt.expected {
			t.Errorf("tests[%d] - %q formatted wrong. expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestTernaryIsRightAssociative(t *testing.T) {
	p, _, _ := newParser()
	expr, err := p.ParseExpression("1 ? 2 : 3 ? 4 : 5")
	if err != nil {
		t.Fatal(err)
	}
	outer, ok := expr.(*ast.TernaryExpr)
	if !ok {
		t.Fatalf("expected *ast.TernaryExpr, got %T", expr)
	}
	if _, ok := outer.Else.(*ast.TernaryExpr); !ok {
		t.Fatalf("else branch should be a ternary, got %T", outer.Else)
	}
	if _, ok := outer.Cond.(*ast.IntegerLiteral); !ok {
		t.Fatalf("condition should be a literal, got %T", outer.Cond)
	}
}

func TestIntegerLiteralVerbatim(t *testing.T) {
	p, _, _ := newParser()
	expr, err := p.ParseExpression("007")
	if err != nil {
		t.Fatal(err)
	}
	lit, ok := expr.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expected *ast.IntegerLiteral, got %T", expr)
	}
	if lit.Value != "007" {
		t.Errorf("literal text changed. expected=%q, got=%q", "007", lit.Value)
	}
}

func TestExpressionRequiresEOF(t *testing.T) {
	p, _, _ := newParser()
	_, err := p.ParseExpression("1 2")
	if !stderrors.Is(err, kerrors.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
}

func TestStatementKinds(t *testing.T) {
	src := `declare i;
declare total;
total = 0;
for (i = 0; i < 10; i = i + 1) {
    total = total + i;
}
while (total > 0) {
    total = total - 1;
}
do {
    total = total + 2;
} while (total < 6);
execute 3 times {
    print total;
}
loop {
    break;
} endloop
{
    print i;
}
if (i == 10) {
    print 1;
} else if (i == 11) {
    print 2;
} else {
    print 3;
}
switch (i) {
    case 1:
        print 1;
    case -2:
}
function inc(v) {
    return v + 1;
}
call inc(total);
print call inc(1);
`
	list := mustParse(t, src)

	expected := []string{
		"*ast.DeclareStmt", "*ast.DeclareStmt", "*ast.AssignStmt", "*ast.ForStmt",
		"*ast.WhileStmt", "*ast.DoWhileStmt", "*ast.ExecuteStmt", "*ast.LoopStmt",
		"*ast.BlockStmt", "*ast.IfStmt", "*ast.SwitchStmt", "*ast.FunctionDecl",
		"*ast.CallStmt", "*ast.PrintStmt",
	}
	if len(list.Stmts) != len(expected) {
		t.Fatalf("wrong statement count. expected=%d, got=%d", len(expected), len(list.Stmts))
	}
	for i, s := range list.Stmts {
		if got := fmt.Sprintf("%T", s); got != expected[i] {
			t.Errorf("stmts[%d] - type wrong. expected=%s, got=%s", i, expected[i], got)
		}
	}

	ifStmt := list.Stmts[9].(*ast.IfStmt)
	if _, ok := ifStmt.Else.(*ast.IfStmt); !ok {
		t.Errorf("else-if should chain an *ast.IfStmt, got %T", ifStmt.Else)
	}

	sw := list.Stmts[10].(*ast.SwitchStmt)
	if len(sw.Cases.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases.Cases))
	}
	if sw.Cases.Cases[1].Label.Value != "-2" {
		t.Errorf("negative label wrong. got=%q", sw.Cases.Cases[1].Label.Value)
	}
	if n := len(sw.Cases.Cases[1].Body.Stmts); n != 0 {
		t.Errorf("empty case should have no statements, got %d", n)
	}
}

func TestCaseBodyEndsAtNextCase(t *testing.T) {
	list := mustParse(t, "switch (1) { case 1: print 1; print 2; case 2: break; case 3: }")
	sw := list.Stmts[0].(*ast.SwitchStmt)
	counts := []int{2, 1, 0}
	if len(sw.Cases.Cases) != len(counts) {
		t.Fatalf("expected %d cases, got %d", len(counts), len(sw.Cases.Cases))
	}
	for i, c := range sw.Cases.Cases {
		if len(c.Body.Stmts) != counts[i] {
			t.Errorf("cases[%d] - body length wrong. expected=%d, got=%d", i, counts[i], len(c.Body.Stmts))
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"declare x; x = 1 + 2 * 3 - -4;",
		"declare a; declare b; a = a < b ? a : b ? 1 : 2; print (a ? b : 1) ? 2 : 3;",
		"declare n; for (n = 0; n < 3; n = n + 1) { print n << 2 & 7; }",
		"declare c; if (c) { } else if (!c) { print ~c; } else { break; }",
		"declare d; do { d = d / 2 % 3; } while (d != 0 || d == 1 && d >= 2);",
		"declare e; execute e times { loop { break; } endloop }",
		"declare s; switch (s) { case 0: print 0; case -1: case 2: { print s; } }",
		"function fib(k) { return k <= 1 ? k : call fib(k - 1) + call fib(k - 2); } print call fib(10);",
		"function none() { } call none();",
	}

	for i, src := range inputs {
		first := mustParse(t, src)
		text := ast.Format(first)
		second, err := ParseFile("test.ks", text)
		if err != nil {
			t.Fatalf("tests[%d] - reparse of %q failed: %v", i, text, err)
		}
		if again := ast.Format(second); again != text {
			t.Errorf("tests[%d] - format is not a fixpoint.\nfirst:\n%s\nsecond:\n%s", i, text, again)
		}
		if a, b := ast.CountNodes(first), ast.CountNodes(second); a != b {
			t.Errorf("tests[%d] - node count changed. first=%d, second=%d", i, a, b)
		}
	}
}

func TestSemicolonRules(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"declare x; x = 1; print x; break; { }", true},
		{"declare x", false},
		{"declare x; x = 1", false},
		{"print 1", false},
		{"loop { break } endloop", false},
		{"function f() { return 1 } ", false},
		{"do { } while (1)", false},
		{"do { } while (1);", true},
		{"if (1) { } ;", false},
		{"while (1) { };", false},
		{"loop { } endloop;", false},
	}

	for i, tt := range tests {
		_, err := ParseFile("test.ks", tt.input)
		if tt.ok && err != nil {
			t.Errorf("tests[%d] - %q: unexpected error: %v", i, tt.input, err)
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("tests[%d] - %q: expected an error", i, tt.input)
			} else if !stderrors.Is(err, kerrors.ErrSyntax) {
				t.Errorf("tests[%d] - %q: expected syntax error, got %v", i, tt.input, err)
			}
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    error
		message string
		detail  string
	}{
		{"x = 1;", kerrors.ErrUndefined, "variable not defined", `"x" is not declared`},
		{"print y + 1;", kerrors.ErrUndefined, "variable not defined", `"y" is not declared`},
		{"declare x; declare x;", kerrors.ErrRedeclaration, "identifier already declared", ""},
		{"function f() { } function f() { }", kerrors.ErrRedeclaration, "function already declared", ""},
		{"function f(q, q) { }", kerrors.ErrRedeclaration, "identifier already declared", ""},
		{"declare q; function f(q) { }", kerrors.ErrRedeclaration, "identifier already declared", ""},
		{"call g();", kerrors.ErrUndefined, "function not defined", `"g" is not declared`},
		{"function f(p) { } call f();", kerrors.ErrArity, "invalid number of arguments", "function f expects 1 arguments, got 0"},
		{"function f() { } print call f(1, 2);", kerrors.ErrArity, "invalid number of arguments", "function f expects 0 arguments, got 2"},
		{"else", kerrors.ErrSyntax, "Unexpected Statement", "got ELSE"},
		{";", kerrors.ErrSyntax, "Unexpected Statement", "got SEMICOLON"},
		{"}", kerrors.ErrSyntax, "unexpected token", "expected end of input, got RBRACE"},
		{"case 1:", kerrors.ErrSyntax, "unexpected token", "expected end of input, got CASE"},
		{"print ;", kerrors.ErrSyntax, "unexpected token", "expected expression, got SEMICOLON"},
		{"declare x; if (x) { } else print x;", kerrors.ErrSyntax, "unexpected token", "expected LBRACE or IF after ELSE, got PRINT"},
		{"declare 1x;", kerrors.ErrSyntax, "illegal token", ""},
		{"print 1 $ 2;", kerrors.ErrSyntax, "illegal token", ""},
		{"print @;", kerrors.ErrSyntax, "illegal token", ""},
		{"switch (1) { case x: }", kerrors.ErrSyntax, "unexpected token", ""},
		{"switch (1) { print 1; }", kerrors.ErrSyntax, "unexpected token", ""},
		{"switch (1) { case 1: ", kerrors.ErrSyntax, "unexpected token", ""},
		{"loop { }", kerrors.ErrSyntax, "unexpected token", ""},
		{"execute 2 { }", kerrors.ErrSyntax, "unexpected token", ""},
		{"print (1 + 2;", kerrors.ErrSyntax, "unexpected token", ""},

		// redeclaration with statements in between
		{"declare x; print 1; x = 2; declare y; declare x;", kerrors.ErrRedeclaration, "identifier already declared", `"x" was declared previously`},
		{"function f() { } declare a; if (1) { print 2; } function f() { }", kerrors.ErrRedeclaration, "function already declared", `"f" was declared previously`},
		{"declare x; { while (x) { declare x; } }", kerrors.ErrRedeclaration, "identifier already declared", `"x" was declared previously`},

		// undeclared variable in every expression position
		{"function f(a, b) { } call f(1, z);", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"function f(a) { } print call f(z);", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"print 1 ? z : 2;", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"print 1 ? 2 : z;", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"print z ? 1 : 2;", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"if (z) { }", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"if (1) { } else if (z) { }", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"while (z < 1) { }", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"do { } while (z);", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"execute z times { }", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"switch (z) { case 1: }", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"declare i; for (i = 0; i < z; i = i + 1) { }", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"function f() { return -z; }", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
		{"print (1 + (2 * ~z));", kerrors.ErrUndefined, "variable not defined", `"z" is not declared`},
	}

	for i, tt := range tests {
		list, err := ParseFile("test.ks", tt.input)
		if err == nil {
			t.Fatalf("tests[%d] - %q: expected error", i, tt.input)
		}
		if list != nil {
			t.Errorf("tests[%d] - %q: partial tree returned", i, tt.input)
		}
		if !stderrors.Is(err, tt.kind) {
			t.Errorf("tests[%d] - %q: kind wrong. expected=%v, got=%v", i, tt.input, tt.kind, err)
			continue
		}
		var ce *kerrors.CompileError
		if !stderrors.As(err, &ce) {
			t.Fatalf("tests[%d] - %q: not a *CompileError: %T", i, tt.input, err)
		}
		if ce.Message != tt.message {
			t.Errorf("tests[%d] - %q: message wrong. expected=%q, got=%q", i, tt.input, tt.message, ce.Message)
		}
		if tt.detail != "" && ce.Detail != tt.detail {
			t.Errorf("tests[%d] - %q: detail wrong. expected=%q, got=%q", i, tt.input, tt.detail, ce.Detail)
		}
	}
}

func TestDeclareThenAssignStructure(t *testing.T) {
	p, syms, _ := newParser()
	list, err := p.ParseStatements("declare x; x = 1 + 2;")
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(list.Stmts))
	}

	x := syms.Lookup("x")
	if x == nil {
		t.Fatal("x missing from the symbol table")
	}
	decl, ok := list.Stmts[0].(*ast.DeclareStmt)
	if !ok || decl.Symbol != x {
		t.Fatalf("Stmts[0] = %#v, want DeclareStmt for x", list.Stmts[0])
	}
	assign, ok := list.Stmts[1].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("Stmts[1] = %T, want *ast.AssignStmt", list.Stmts[1])
	}
	if assign.Target != x {
		t.Errorf("assignment target = %v, want the declared symbol", assign.Target)
	}
	sum, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || sum.Op != ast.OpAdd {
		t.Fatalf("assignment value = %#v, want 1 + 2", assign.Value)
	}
	for i, operand := range []ast.Expr{sum.X, sum.Y} {
		lit, ok := operand.(*ast.IntegerLiteral)
		if want := fmt.Sprint(i + 1); !ok || lit.Value != want {
			t.Errorf("operand %d = %#v, want literal %s", i, operand, want)
		}
	}
}

func TestCallArgumentsKeepSourceOrder(t *testing.T) {
	src := "declare a; declare b; function f(p, q, r) { return p; } " +
		"print call f(a, 2 + b, call f(b, a, 3)); call f(3, 2, 1);"
	p, syms, _ := newParser()
	list, err := p.ParseStatements(src)
	if err != nil {
		t.Fatal(err)
	}

	outer := list.Stmts[3].(*ast.PrintStmt).Value.(*ast.CallExpr)
	if got := len(outer.Args.Args); got != 3 {
		t.Fatalf("expected 3 arguments, got %d", got)
	}
	if v, ok := outer.Args.Args[0].(*ast.VariableExpr); !ok || v.Symbol != syms.Lookup("a") {
		t.Errorf("arg 0 = %v, want a", outer.Args.Args[0])
	}
	if got := ast.Format(outer.Args.Args[1]); got != "2 + b" {
		t.Errorf("arg 1 = %q, want 2 + b", got)
	}
	inner, ok := outer.Args.Args[2].(*ast.CallExpr)
	if !ok {
		t.Fatalf("arg 2 = %T, want a nested call", outer.Args.Args[2])
	}
	var names []string
	for _, arg := range inner.Args.Args {
		names = append(names, ast.Format(arg))
	}
	if got := strings.Join(names, ","); got != "b,a,3" {
		t.Errorf("nested call args = %s, want b,a,3", got)
	}

	stmt := list.Stmts[4].(*ast.CallStmt)
	var values []string
	for _, arg := range stmt.Call.Args.Args {
		values = append(values, arg.(*ast.IntegerLiteral).Value)
	}
	if got := strings.Join(values, ","); got != "3,2,1" {
		t.Errorf("call statement args = %s, want 3,2,1", got)
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := ParseFile("prog.ks", "declare x;\nx = y;")
	var ce *kerrors.CompileError
	if !stderrors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
	if ce.Pos.Line != 2 || ce.Pos.Column != 5 {
		t.Errorf("position wrong. expected=2:5, got=%d:%d", ce.Pos.Line, ce.Pos.Column)
	}
	if ce.Pos.Filename != "prog.ks" {
		t.Errorf("filename wrong. got=%q", ce.Pos.Filename)
	}
	if !strings.HasPrefix(err.Error(), "prog.ks:2:5: [UNDEFINED_REFERENCE] variable not defined") {
		t.Errorf("error text wrong: %q", err.Error())
	}
}

func TestFunctionBookkeeping(t *testing.T) {
	p, syms, funcs := newParser()
	list, err := p.ParseStatements(`function fact(n) {
    return n < 2 ? 1 : n * call fact(n - 1);
}
declare r;
r = call fact(5);`)
	if err != nil {
		t.Fatal(err)
	}

	fn := funcs.Lookup("fact")
	if fn == nil {
		t.Fatal("fact not registered")
	}
	if !fn.Complete() || fn.Arity() != 1 || fn.Params[0] != "n" {
		t.Errorf("function info wrong: %s complete=%v params=%v", fn, fn.Complete(), fn.Params)
	}
	decl := list.Stmts[0].(*ast.FunctionDecl)
	if fn.Body != decl.Body {
		t.Error("function body not attached to the table entry")
	}
	if decl.Func != fn {
		t.Error("declaration does not reference the table entry")
	}

	if syms.Len() != 2 {
		t.Errorf("expected parameter and variable in the symbol table, got %d", syms.Len())
	}
	if n := syms.Lookup("n"); n == nil || n.Slot != 0 {
		t.Errorf("parameter symbol wrong: %v", n)
	}
	if r := syms.Lookup("r"); r == nil || r.Slot != 1 {
		t.Errorf("variable symbol wrong: %v", r)
	}

	assign := list.Stmts[2].(*ast.AssignStmt)
	if assign.Target != syms.Lookup("r") {
		t.Error("assignment target is not the table symbol")
	}
	call := assign.Value.(*ast.CallExpr)
	if call.Func != fn {
		t.Error("call does not reference the table entry")
	}
}

func TestRecursiveCallSeesArityBeforeBody(t *testing.T) {
	p, _, funcs := newParser()
	_, err := p.ParseStatements("function f(a) { call f(1, 2); }")
	if !stderrors.Is(err, kerrors.ErrArity) {
		t.Fatalf("expected arity error, got %v", err)
	}
	fn := funcs.Lookup("f")
	if fn == nil {
		t.Fatal("placeholder should stay registered after the error")
	}
	if !fn.HasParams() || fn.Complete() {
		t.Errorf("expected params attached and body missing, got params=%v complete=%v", fn.HasParams(), fn.Complete())
	}
}

func TestTablesPersistAcrossParses(t *testing.T) {
	p, _, _ := newParser()
	if _, err := p.ParseStatements("declare x; function g(u) { return u; }"); err != nil {
		t.Fatal(err)
	}
	expr, err := p.ParseExpression("x + call g(2)")
	if err != nil {
		t.Fatalf("second parse should resolve earlier declarations: %v", err)
	}
	if ast.Format(expr) != "x + call g(2)" {
		t.Errorf("unexpected expression %q", ast.Format(expr))
	}
	if _, err := p.ParseStatements("declare x;"); !stderrors.Is(err, kerrors.ErrRedeclaration) {
		t.Errorf("expected redeclaration across parses, got %v", err)
	}
}

func TestNestingLimit(t *testing.T) {
	deep := strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40)
	shallow := strings.Repeat("(", 5) + "1" + strings.Repeat(")", 5)

	p, _, _ := newParser(WithMaxDepth(16))
	if _, err := p.ParseExpression(shallow); err != nil {
		t.Fatalf("shallow expression failed: %v", err)
	}
	_, err := p.ParseExpression(deep)
	var ce *kerrors.CompileError
	if !stderrors.As(err, &ce) || ce.Message != "nesting too deep" {
		t.Fatalf("expected nesting error, got %v", err)
	}
	if _, err := p.ParseExpression(shallow); err != nil {
		t.Fatalf("depth should reset between parses: %v", err)
	}

	blocks := strings.Repeat("{ ", 100) + strings.Repeat("} ", 100)
	if _, err := ParseFile("test.ks", blocks); err != nil {
		t.Fatalf("default limit should allow 100 nested blocks: %v", err)
	}
	if _, err := ParseFile("test.ks", blocks, WithMaxDepth(50)); !stderrors.Is(err, kerrors.ErrSyntax) {
		t.Fatalf("expected nesting error with a limit of 50, got %v", err)
	}

	elseIf := strings.Repeat("if (1) { } else ", 300) + "{ }"
	if _, err := ParseFile("test.ks", elseIf, WithMaxDepth(64)); !stderrors.Is(err, kerrors.ErrSyntax) {
		t.Fatalf("expected nesting error for a long else-if chain, got %v", err)
	}
}

func TestSpans(t *testing.T) {
	list := mustParse(t, "declare x;\nprint x + 1;")
	pr := list.Stmts[1].(*ast.PrintStmt)
	if pr.Span.Start.Line != 2 || pr.Span.Start.Column != 1 {
		t.Errorf("print start wrong: %s", pr.Span.Start)
	}
	if pr.Span.End.Offset <= pr.Span.Start.Offset {
		t.Errorf("print span is empty: %v", pr.Span)
	}
	bin := pr.Value.(*ast.BinaryExpr)
	if bin.Span.Start.Column != 7 {
		t.Errorf("binary start wrong: %s", bin.Span.Start)
	}
	if off := bin.Span.Start.Offset; off < list.Span.Start.Offset || off >= list.Span.End.Offset {
		t.Errorf("list span %v should contain %s", list.Span, bin.Span.Start)
	}
}

func TestEmptyInput(t *testing.T) {
	list := mustParse(t, "  // nothing here\n")
	if len(list.Stmts) != 0 {
		t.Errorf("expected empty list, got %d statements", len(list.Stmts))
	}
	p, _, _ := newParser()
	if _, err := p.ParseExpression(""); !stderrors.Is(err, kerrors.ErrSyntax) {
		t.Errorf("empty expression should be a syntax error, got %v", err)
	}
}
