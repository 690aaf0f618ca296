package parser

import (
	"github.com/orizon-lang/kestrel/internal/ast"
	kerrors "github.com/orizon-lang/kestrel/internal/errors"
	"github.com/orizon-lang/kestrel/internal/lexer"
	"github.com/orizon-lang/kestrel/internal/position"
)

// parseStmtList parses statements until EOF, '}' or 'case', consuming the
// ';' after every statement that needs one.
func (p *Parser) parseStmtList() (*ast.StmtList, error) {
	start := p.peek().Pos()
	list := &ast.StmtList{}
	for !p.atListEnd() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt.NeedsSemicolon() {
			if _, err := p.expect(lexer.TokenSemicolon); err != nil {
				return nil, err
			}
		}
		list.Stmts = append(list.Stmts, stmt)
	}
	list.Span = p.spanFrom(start)
	return list, nil
}

func (p *Parser) atListEnd() bool {
	switch p.peek().Type {
	case lexer.TokenEOF, lexer.TokenRBrace, lexer.TokenCase:
		return true
	}
	return false
}

// parseStmt dispatches on the lookahead token
func (p *Parser) parseStmt() (ast.Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Type {
	case lexer.TokenIdentifier:
		return asStmt(p.parseAssignStmt())
	case lexer.TokenDeclare:
		return asStmt(p.parseDeclareStmt())
	case lexer.TokenPrint:
		return asStmt(p.parsePrintStmt())
	case lexer.TokenLBrace:
		return asStmt(p.parseBlockStmt())
	case lexer.TokenFor:
		return asStmt(p.parseForStmt())
	case lexer.TokenReturn:
		return asStmt(p.parseReturnStmt())
	case lexer.TokenFunction:
		return asStmt(p.parseFunctionDecl())
	case lexer.TokenCall:
		return asStmt(p.parseCallStmt())
	case lexer.TokenWhile:
		return asStmt(p.parseWhileStmt())
	case lexer.TokenDo:
		return asStmt(p.parseDoWhileStmt())
	case lexer.TokenExecute:
		return asStmt(p.parseExecuteStmt())
	case lexer.TokenLoop:
		return asStmt(p.parseLoopStmt())
	case lexer.TokenBreak:
		p.advance()
		return &ast.BreakStmt{Span: tok.Span}, nil
	case lexer.TokenIf:
		return asStmt(p.parseIfStmt())
	case lexer.TokenSwitch:
		return asStmt(p.parseSwitchStmt())
	default:
		return nil, p.lexer.Errorf(kerrors.KindSyntax, "Unexpected Statement", "got "+tok.Describe())
	}
}

// parseAssignStmt parses IDENT "=" expr
func (p *Parser) parseAssignStmt() (*ast.AssignStmt, error) {
	name := p.advance()
	sym := p.symbols.Lookup(name.Literal)
	if sym == nil {
		return nil, kerrors.Undefined(name.Pos(), "variable", name.Literal)
	}
	if _, err := p.expect(lexer.TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Span: p.spanFrom(name.Pos()), Target: sym, Value: value}, nil
}

func (p *Parser) parsePrintStmt() (*ast.PrintStmt, error) {
	start := p.advance()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Span: p.spanFrom(start.Pos()), Value: value}, nil
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	start := p.advance()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Span: p.spanFrom(start.Pos()), Value: value}, nil
}

func (p *Parser) parseCallStmt() (*ast.CallStmt, error) {
	call, err := p.parseCallExpr()
	if err != nil {
		return nil, err
	}
	return &ast.CallStmt{Span: call.Span, Call: call}, nil
}

// parseBlockStmt parses "{" stmtlist "}"
func (p *Parser) parseBlockStmt() (*ast.BlockStmt, error) {
	open, err := p.expect(lexer.TokenLBrace)
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Span: p.spanFrom(open.Pos()), Body: body}, nil
}

// parseCondition parses "(" expr ")"
func (p *Parser) parseCondition() (ast.Expr, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseIfStmt parses "if" "(" expr ")" block [ "else" ( block | ifStmt ) ]
func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then}

	if p.at(lexer.TokenElse) {
		p.advance()
		switch tok := p.peek(); tok.Type {
		case lexer.TokenLBrace:
			stmt.Else, err = asStmt(p.parseBlockStmt())
		case lexer.TokenIf:
			stmt.Else, err = asStmt(p.parseIfStmt())
		default:
			err = p.lexer.Errorf(kerrors.KindSyntax, "unexpected token",
				"expected LBRACE or IF after ELSE, got "+tok.Describe())
		}
		if err != nil {
			return nil, err
		}
	}
	stmt.Span = p.spanFrom(start.Pos())
	return stmt, nil
}

// parseForStmt parses "for" "(" stmt ";" expr ";" stmt ")" "{" stmtlist "}"
func (p *Parser) parseForStmt() (*ast.ForStmt, error) {
	start := p.advance()
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	init, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	post, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return &ast.ForStmt{
		Span: p.spanFrom(start.Pos()),
		Init: init,
		Cond: cond,
		Post: post,
		Body: body,
	}, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	start := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Span: p.spanFrom(start.Pos()), Cond: cond, Body: body}, nil
}

// parseDoWhileStmt parses "do" block "while" "(" expr ")" ";"
func (p *Parser) parseDoWhileStmt() (*ast.DoWhileStmt, error) {
	start := p.advance()
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenWhile); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Span: p.spanFrom(start.Pos()), Body: body, Cond: cond}, nil
}

// parseExecuteStmt parses "execute" expr "times" block
func (p *Parser) parseExecuteStmt() (*ast.ExecuteStmt, error) {
	start := p.advance()
	count, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenTimes); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &ast.ExecuteStmt{Span: p.spanFrom(start.Pos()), Count: count, Body: body}, nil
}

// parseLoopStmt parses "loop" block "endloop"
func (p *Parser) parseLoopStmt() (*ast.LoopStmt, error) {
	start := p.advance()
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenEndLoop); err != nil {
		return nil, err
	}
	return &ast.LoopStmt{Span: p.spanFrom(start.Pos()), Body: body}, nil
}

// parseSwitchStmt parses "switch" "(" expr ")" "{" { case } "}"
func (p *Parser) parseSwitchStmt() (*ast.SwitchStmt, error) {
	start := p.advance()
	tag, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	open, err := p.expect(lexer.TokenLBrace)
	if err != nil {
		return nil, err
	}
	cases := &ast.CaseList{}
	for !p.at(lexer.TokenRBrace) {
		c, err := p.parseCase()
		if err != nil {
			return nil, err
		}
		cases.Cases = append(cases.Cases, c)
	}
	cases.Span = position.Span{Start: open.Span.End, End: p.peek().Pos()}
	p.advance()
	return &ast.SwitchStmt{Span: p.spanFrom(start.Pos()), Tag: tag, Cases: cases}, nil
}

// parseCase parses "case" ["-"] INTEGER ":" stmtlist
func (p *Parser) parseCase() (*ast.Case, error) {
	start, err := p.expect(lexer.TokenCase)
	if err != nil {
		return nil, err
	}
	label, err := p.parseCaseLabel()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	return &ast.Case{Span: p.spanFrom(start.Pos()), Label: label, Body: body}, nil
}

func (p *Parser) parseCaseLabel() (*ast.IntegerLiteral, error) {
	sign := ""
	start := p.peek().Pos()
	if p.at(lexer.TokenMinus) {
		p.advance()
		sign = "-"
	}
	lit, err := p.expect(lexer.TokenInteger)
	if err != nil {
		return nil, err
	}
	return &ast.IntegerLiteral{Span: p.spanFrom(start), Value: sign + lit.Literal}, nil
}
