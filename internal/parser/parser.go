// Package parser implements the Kestrel recursive descent parser.
// It is a single-pass predictive parser with one token of lookahead that
// resolves variable and function references against flat tables while it
// builds the syntax tree. The first error aborts the parse.
package parser

import (
	"strconv"

	"github.com/orizon-lang/kestrel/internal/ast"
	kerrors "github.com/orizon-lang/kestrel/internal/errors"
	"github.com/orizon-lang/kestrel/internal/lexer"
	"github.com/orizon-lang/kestrel/internal/position"
	"github.com/orizon-lang/kestrel/internal/symbols"
)

// DefaultMaxDepth bounds statement and expression nesting
const DefaultMaxDepth = 512

// SymbolTable resolves and declares variables
type SymbolTable interface {
	Lookup(name string) *symbols.Symbol
	Create(name string, pos position.Position) (*symbols.Symbol, error)
}

// FunctionTable resolves and declares functions
type FunctionTable interface {
	Lookup(name string) *symbols.FunctionInfo
	Create(name string, pos position.Position) (*symbols.FunctionInfo, error)
}

// Option configures a Parser
type Option func(*Parser)

// WithMaxDepth sets the nesting limit. Values below one keep the default.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// Parser represents the recursive descent parser
type Parser struct {
	lexer     *lexer.Lexer
	symbols   SymbolTable
	functions FunctionTable

	maxDepth int
	depth    int

	// last is the most recently consumed token; node spans end there.
	last lexer.Token
}

// New creates a parser over l that records declarations in syms and funcs.
// The tables are shared with the caller and survive across parses.
func New(l *lexer.Lexer, syms SymbolTable, funcs FunctionTable, opts ...Option) *Parser {
	p := &Parser{
		lexer:     l,
		symbols:   syms,
		functions: funcs,
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile parses src as a statement list with fresh tables
func ParseFile(filename, src string, opts ...Option) (*ast.StmtList, error) {
	p := New(lexer.NewWithFilename("", filename), symbols.NewSymbolTable(), symbols.NewFunctionTable(), opts...)
	return p.ParseStatements(src)
}

// ParseExpression parses src as a single expression followed by end of input
func (p *Parser) ParseExpression(src string) (ast.Expr, error) {
	p.reset(src)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseStatements parses src as a statement list followed by end of input
func (p *Parser) ParseStatements(src string) (*ast.StmtList, error) {
	p.reset(src)
	list, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) reset(src string) {
	p.lexer.Init(src)
	p.depth = 0
	p.last = lexer.Token{}
}

// peek returns the lookahead token without consuming it
func (p *Parser) peek() lexer.Token {
	return p.lexer.LookAhead()
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.lexer.LookAhead().Type == tt
}

// advance consumes the lookahead token and returns it
func (p *Parser) advance() lexer.Token {
	tok := p.lexer.LookAhead()
	p.lexer.Advance()
	p.last = tok
	return tok
}

// expect consumes a token of type tt or fails without consuming
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.lexer.LookAhead()
	if err := p.lexer.Expect(tt); err != nil {
		return tok, err
	}
	p.last = tok
	return tok, nil
}

func (p *Parser) expectEOF() error {
	tok := p.peek()
	if tok.Type == lexer.TokenEOF {
		return nil
	}
	if tok.Type == lexer.TokenIllegal {
		return p.lexer.Errorf(kerrors.KindSyntax, "illegal token", tok.Describe())
	}
	return p.lexer.Errorf(kerrors.KindSyntax, "unexpected token", "expected end of input, got "+tok.Describe())
}

// spanFrom covers start through the end of the last consumed token
func (p *Parser) spanFrom(start position.Position) position.Span {
	return position.NewSpan(start, p.last.Span.End)
}

// enter guards one level of recursion; pair every successful call with leave
func (p *Parser) enter() error {
	if p.depth >= p.maxDepth {
		return p.lexer.Errorf(kerrors.KindSyntax, "nesting too deep",
			"exceeded the limit of "+strconv.Itoa(p.maxDepth)+" nested constructs")
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// asStmt drops the typed pointer when err is set so callers never see a
// non-nil interface wrapping a nil node.
func asStmt[T ast.Stmt](s T, err error) (ast.Stmt, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

func asExpr[T ast.Expr](e T, err error) (ast.Expr, error) {
	if err != nil {
		return nil, err
	}
	return e, nil
}
