package parser

import (
	"github.com/orizon-lang/kestrel/internal/ast"
	kerrors "github.com/orizon-lang/kestrel/internal/errors"
	"github.com/orizon-lang/kestrel/internal/lexer"
	"github.com/orizon-lang/kestrel/internal/position"
)

// Operator tables, one per precedence level, loosest first.
var (
	logicalOps = map[lexer.TokenType]ast.Operator{
		lexer.TokenAnd: ast.OpLogAnd,
		lexer.TokenOr:  ast.OpLogOr,
	}
	compareOps = map[lexer.TokenType]ast.Operator{
		lexer.TokenEq: ast.OpEq,
		lexer.TokenNe: ast.OpNe,
		lexer.TokenLt: ast.OpLt,
		lexer.TokenLe: ast.OpLe,
		lexer.TokenGt: ast.OpGt,
		lexer.TokenGe: ast.OpGe,
	}
	shiftOps = map[lexer.TokenType]ast.Operator{
		lexer.TokenShl: ast.OpShl,
		lexer.TokenShr: ast.OpShr,
	}
	bitwiseOps = map[lexer.TokenType]ast.Operator{
		lexer.TokenBitAnd: ast.OpAnd,
		lexer.TokenBitOr:  ast.OpOr,
		lexer.TokenBitXor: ast.OpXor,
	}
	additiveOps = map[lexer.TokenType]ast.Operator{
		lexer.TokenPlus:  ast.OpAdd,
		lexer.TokenMinus: ast.OpSub,
	}
	multiplicativeOps = map[lexer.TokenType]ast.Operator{
		lexer.TokenMul: ast.OpMul,
		lexer.TokenDiv: ast.OpDiv,
		lexer.TokenMod: ast.OpMod,
	}
	unaryOps = map[lexer.TokenType]ast.Operator{
		lexer.TokenMinus:  ast.OpNeg,
		lexer.TokenNot:    ast.OpNot,
		lexer.TokenBitNot: ast.OpBitNot,
	}
)

// parseExpr parses a full expression
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseTernary()
}

// parseTernary parses logical [ "?" expr ":" ternary ]
func (p *Parser) parseTernary() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	cond, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.TokenQuestion) {
		return cond, nil
	}
	p.advance()

	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpr{
		Span: position.SpanBetween(cond.GetSpan(), els.GetSpan()),
		Cond: cond,
		Then: then,
		Else: els,
	}, nil
}

func (p *Parser) parseLogical() (ast.Expr, error) {
	return p.parseBinary(logicalOps, p.parseCompare)
}

func (p *Parser) parseCompare() (ast.Expr, error) {
	return p.parseBinary(compareOps, p.parseShift)
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseBinary(shiftOps, p.parseBitwise)
}

func (p *Parser) parseBitwise() (ast.Expr, error) {
	return p.parseBinary(bitwiseOps, p.parseAdditive)
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.parseBinary(additiveOps, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.parseBinary(multiplicativeOps, p.parseUnary)
}

// parseBinary folds operand { op operand } to the left
func (p *Parser) parseBinary(ops map[lexer.TokenType]ast.Operator, operand func() (ast.Expr, error)) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Type]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			Span: position.SpanBetween(left.GetSpan(), right.GetSpan()),
			Op:   op,
			X:    left,
			Y:    right,
		}
	}
}

// parseUnary parses ("-" | "!" | "~") unary | primary
func (p *Parser) parseUnary() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	op, ok := unaryOps[p.peek().Type]
	if !ok {
		return p.parsePrimary()
	}
	tok := p.advance()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Span: p.spanFrom(tok.Pos()), Op: op, X: x}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenInteger:
		p.advance()
		return &ast.IntegerLiteral{Span: tok.Span, Value: tok.Literal}, nil
	case lexer.TokenIdentifier:
		p.advance()
		sym := p.symbols.Lookup(tok.Literal)
		if sym == nil {
			return nil, kerrors.Undefined(tok.Pos(), "variable", tok.Literal)
		}
		return &ast.VariableExpr{Span: tok.Span, Symbol: sym}, nil
	case lexer.TokenLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.TokenCall:
		return asExpr(p.parseCallExpr())
	case lexer.TokenIllegal:
		return nil, p.lexer.Errorf(kerrors.KindSyntax, "illegal token", tok.Describe())
	default:
		return nil, p.lexer.Errorf(kerrors.KindSyntax, "unexpected token", "expected expression, got "+tok.Describe())
	}
}

// parseCallExpr parses "call" IDENT "(" [ expr { "," expr } ] ")" and
// checks the argument count against the function's parameter list.
func (p *Parser) parseCallExpr() (*ast.CallExpr, error) {
	start, err := p.expect(lexer.TokenCall)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}

	fn := p.functions.Lookup(name.Literal)
	if fn == nil {
		return nil, kerrors.Undefined(name.Pos(), "function", name.Literal)
	}
	if fn.Arity() != len(args.Args) {
		return nil, kerrors.Arity(name.Pos(), name.Literal, fn.Arity(), len(args.Args))
	}
	return &ast.CallExpr{Span: p.spanFrom(start.Pos()), Func: fn, Args: args}, nil
}

func (p *Parser) parseArgList() (*ast.ArgList, error) {
	open, err := p.expect(lexer.TokenLParen)
	if err != nil {
		return nil, err
	}
	list := &ast.ArgList{}
	if !p.at(lexer.TokenRParen) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			list.Args = append(list.Args, arg)
			if !p.at(lexer.TokenComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	list.Span = p.spanFrom(open.Pos())
	return list, nil
}
