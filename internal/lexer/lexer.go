// Package lexer implements the Kestrel lexical analyzer. It scans one
// token ahead so the parser can inspect the lookahead without consuming it.
package lexer

import (
	"fmt"

	kerrors "github.com/orizon-lang/kestrel/internal/errors"
	"github.com/orizon-lang/kestrel/internal/position"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	filename     string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // line of ch
	column       int  // column of ch

	lookahead Token
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{filename: filename}
	l.Init(input)
	return l
}

// Init resets the lexer onto input and scans the first lookahead token.
func (l *Lexer) Init(input string) {
	l.input = input
	l.position = 0
	l.readPosition = 0
	l.ch = 0
	l.line = 1
	l.column = 0

	l.readChar()
	l.lookahead = l.NextToken()
}

// LookAhead returns the next unconsumed token
func (l *Lexer) LookAhead() Token {
	return l.lookahead
}

// Advance consumes the lookahead token. At end of input it keeps
// returning EOF.
func (l *Lexer) Advance() {
	if l.lookahead.Type == TokenEOF {
		return
	}
	l.lookahead = l.NextToken()
}

// Expect consumes the lookahead if it has type tt and fails otherwise.
func (l *Lexer) Expect(tt TokenType) error {
	tok := l.lookahead
	if tok.Type != tt {
		if tok.Type == TokenIllegal {
			return l.Errorf(kerrors.KindSyntax, "illegal token", fmt.Sprintf("%q", tok.Literal))
		}
		return l.Errorf(kerrors.KindSyntax, "unexpected token",
			fmt.Sprintf("expected %s, got %s", tt, tok.Describe()))
	}
	l.Advance()
	return nil
}

// Errorf builds the fatal error for the current lookahead position.
func (l *Lexer) Errorf(kind kerrors.Kind, message, detail string) error {
	return kerrors.New(kind, l.lookahead.Pos(), message, detail)
}

// Describe names the token for error details, quoting its text when the
// type alone does not identify it.
func (tok Token) Describe() string {
	switch tok.Type {
	case TokenEOF:
		return "EOF"
	case TokenIdentifier, TokenInteger, TokenIllegal:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return tok.Type.String()
	}
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents "EOF"
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// skipTrivia skips whitespace and comments. It returns false when a block
// comment runs off the end of input.
func (l *Lexer) skipTrivia() bool {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.atEOF() {
					return false
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return true
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads a decimal literal. Letters glued onto the digits make
// the whole run malformed.
func (l *Lexer) readNumber() (string, bool) {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if isLetter(l.ch) || l.ch == '_' {
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[start:l.position], false
	}
	return l.input[start:l.position], true
}

// isLetter checks if character is ASCII letter
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	if !l.skipTrivia() {
		return l.tokenFrom(TokenIllegal, "unterminated comment", l.currentPosition())
	}

	start := l.currentPosition()

	if l.atEOF() {
		return l.tokenFrom(TokenEOF, "", start)
	}

	switch {
	case isLetter(l.ch) || l.ch == '_':
		ident := l.readIdentifier()
		return l.tokenFrom(lookupIdent(ident), ident, start)
	case isDigit(l.ch):
		literal, ok := l.readNumber()
		if !ok {
			return l.tokenFrom(TokenIllegal, literal, start)
		}
		return l.tokenFrom(TokenInteger, literal, start)
	}

	tt, width := l.operator()
	for i := 0; i < width; i++ {
		l.readChar()
	}
	return l.tokenFrom(tt, l.input[start.Offset:l.position], start)
}

// operator classifies the punctuation at the current char and reports
// how many bytes it spans.
func (l *Lexer) operator() (TokenType, int) {
	next := l.peekChar()
	switch l.ch {
	case '+':
		return TokenPlus, 1
	case '-':
		return TokenMinus, 1
	case '*':
		return TokenMul, 1
	case '/':
		return TokenDiv, 1
	case '%':
		return TokenMod, 1
	case '^':
		return TokenBitXor, 1
	case '~':
		return TokenBitNot, 1
	case '?':
		return TokenQuestion, 1
	case '(':
		return TokenLParen, 1
	case ')':
		return TokenRParen, 1
	case '{':
		return TokenLBrace, 1
	case '}':
		return TokenRBrace, 1
	case ',':
		return TokenComma, 1
	case ';':
		return TokenSemicolon, 1
	case ':':
		return TokenColon, 1
	case '&':
		if next == '&' {
			return TokenAnd, 2
		}
		return TokenBitAnd, 1
	case '|':
		if next == '|' {
			return TokenOr, 2
		}
		return TokenBitOr, 1
	case '=':
		if next == '=' {
			return TokenEq, 2
		}
		return TokenAssign, 1
	case '!':
		if next == '=' {
			return TokenNe, 2
		}
		return TokenNot, 1
	case '<':
		switch next {
		case '=':
			return TokenLe, 2
		case '<':
			return TokenShl, 2
		}
		return TokenLt, 1
	case '>':
		switch next {
		case '=':
			return TokenGe, 2
		case '>':
			return TokenShr, 2
		}
		return TokenGt, 1
	}
	return TokenIllegal, 1
}

// currentPosition returns current position in source
func (l *Lexer) currentPosition() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.position,
	}
}

// tokenFrom creates a token spanning from start to the current position
func (l *Lexer) tokenFrom(tt TokenType, literal string, start position.Position) Token {
	return Token{
		Type:    tt,
		Literal: literal,
		Span:    position.Span{Start: start, End: l.currentPosition()},
	}
}
