package parser

import (
	"errors"

	"github.com/orizon-lang/kestrel/internal/ast"
	kerrors "github.com/orizon-lang/kestrel/internal/errors"
	"github.com/orizon-lang/kestrel/internal/lexer"
	"github.com/orizon-lang/kestrel/internal/symbols"
)

// parseDeclareStmt parses "declare" IDENT
func (p *Parser) parseDeclareStmt() (*ast.DeclareStmt, error) {
	start := p.advance()
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	sym, err := p.declareVar(name)
	if err != nil {
		return nil, err
	}
	return &ast.DeclareStmt{Span: p.spanFrom(start.Pos()), Symbol: sym}, nil
}

// declareVar creates a variable or fails if the name is taken
func (p *Parser) declareVar(name lexer.Token) (*symbols.Symbol, error) {
	if p.symbols.Lookup(name.Literal) != nil {
		return nil, kerrors.Redeclared(name.Pos(), "identifier", name.Literal)
	}
	sym, err := p.symbols.Create(name.Literal, name.Pos())
	if err != nil {
		return nil, tableError(err, name, "identifier")
	}
	return sym, nil
}

// declareFunction registers a placeholder so the body can call it
func (p *Parser) declareFunction(name lexer.Token) (*symbols.FunctionInfo, error) {
	if p.functions.Lookup(name.Literal) != nil {
		return nil, kerrors.Redeclared(name.Pos(), "function", name.Literal)
	}
	fn, err := p.functions.Create(name.Literal, name.Pos())
	if err != nil {
		return nil, tableError(err, name, "function")
	}
	return fn, nil
}

// tableError maps a table's duplicate report onto a redeclaration; other
// table failures surface unchanged.
func tableError(err error, name lexer.Token, what string) error {
	var dup *symbols.DuplicateError
	if errors.As(err, &dup) {
		return kerrors.Redeclared(name.Pos(), what, name.Literal)
	}
	return err
}

// parseFunctionDecl parses "function" IDENT "(" params ")" "{" stmtlist "}".
// Parameters are attached before the body is parsed so recursive calls see
// the final arity; the body is attached last.
func (p *Parser) parseFunctionDecl() (*ast.FunctionDecl, error) {
	start := p.advance()
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	fn, err := p.declareFunction(name)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	fn.SetParams(params.Names())

	body, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	fn.SetBody(body)

	return &ast.FunctionDecl{
		Span:   p.spanFrom(start.Pos()),
		Func:   fn,
		Params: params,
		Body:   body,
	}, nil
}

// parseParamList parses [ IDENT { "," IDENT } ], declaring each name
func (p *Parser) parseParamList() (*ast.ParamList, error) {
	list := &ast.ParamList{}
	start := p.peek().Pos()
	if !p.at(lexer.TokenIdentifier) {
		list.Span = p.spanFrom(start)
		return list, nil
	}
	for {
		name, err := p.expect(lexer.TokenIdentifier)
		if err != nil {
			return nil, err
		}
		sym, err := p.declareVar(name)
		if err != nil {
			return nil, err
		}
		list.Params = append(list.Params, sym)
		if !p.at(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	list.Span = p.spanFrom(start)
	return list, nil
}

func (p *Parser) parseFunctionBody() (*ast.FunctionBody, error) {
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
	return &ast.FunctionBody{Span: p.spanFrom(open.Pos()), Body: body}, nil
}
