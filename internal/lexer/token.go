package lexer

import (
	"fmt"

	"github.com/orizon-lang/kestrel/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdentifier
	TokenInteger

	// Keywords
	TokenDeclare
	TokenPrint
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenDo
	TokenLoop
	TokenEndLoop
	TokenBreak
	TokenExecute
	TokenTimes
	TokenSwitch
	TokenCase
	TokenFunction
	TokenCall
	TokenReturn

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenNot
	TokenQuestion
	TokenAssign

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenSemicolon
	TokenColon
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenIllegal:    "ILLEGAL",
	TokenIdentifier: "IDENTIFIER",
	TokenInteger:    "INTEGER",

	TokenDeclare:  "DECLARE",
	TokenPrint:    "PRINT",
	TokenIf:       "IF",
	TokenElse:     "ELSE",
	TokenFor:      "FOR",
	TokenWhile:    "WHILE",
	TokenDo:       "DO",
	TokenLoop:     "LOOP",
	TokenEndLoop:  "ENDLOOP",
	TokenBreak:    "BREAK",
	TokenExecute:  "EXECUTE",
	TokenTimes:    "TIMES",
	TokenSwitch:   "SWITCH",
	TokenCase:     "CASE",
	TokenFunction: "FUNCTION",
	TokenCall:     "CALL",
	TokenReturn:   "RETURN",

	TokenPlus:     "PLUS",
	TokenMinus:    "MINUS",
	TokenMul:      "MUL",
	TokenDiv:      "DIV",
	TokenMod:      "MOD",
	TokenBitAnd:   "BIT_AND",
	TokenBitOr:    "BIT_OR",
	TokenBitXor:   "BIT_XOR",
	TokenBitNot:   "BIT_NOT",
	TokenShl:      "SHL",
	TokenShr:      "SHR",
	TokenEq:       "EQ",
	TokenNe:       "NE",
	TokenLt:       "LT",
	TokenLe:       "LE",
	TokenGt:       "GT",
	TokenGe:       "GE",
	TokenAnd:      "AND",
	TokenOr:       "OR",
	TokenNot:      "NOT",
	TokenQuestion: "QUESTION",
	TokenAssign:   "ASSIGN",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenComma:     "COMMA",
	TokenSemicolon: "SEMICOLON",
	TokenColon:     "COLON",
}

// keywords maps string keywords to their token types
var keywords = map[string]TokenType{
	"declare":  TokenDeclare,
	"print":    TokenPrint,
	"if":       TokenIf,
	"else":     TokenElse,
	"for":      TokenFor,
	"while":    TokenWhile,
	"do":       TokenDo,
	"loop":     TokenLoop,
	"endloop":  TokenEndLoop,
	"break":    TokenBreak,
	"execute":  TokenExecute,
	"times":    TokenTimes,
	"switch":   TokenSwitch,
	"case":     TokenCase,
	"function": TokenFunction,
	"call":     TokenCall,
	"return":   TokenReturn,
}

// lookupIdent checks if identifier is keyword
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string
	Span    position.Span
}

// Pos returns the start position of the token
func (t Token) Pos() position.Position {
	return t.Span.Start
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Pos: %s}", t.Type, t.Literal, t.Span.Start)
}
