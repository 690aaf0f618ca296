package ast

// Operator identifies a unary or binary operator
type Operator int

const (
	OpIllegal Operator = iota

	// Binary, grouped by precedence level from loosest to tightest.
	OpLogAnd // &&
	OpLogOr  // ||
	OpEq     // ==
	OpNe     // !=
	OpLt     // <
	OpLe     // <=
	OpGt     // >
	OpGe     // >=
	OpShl    // <<
	OpShr    // >>
	OpAnd    // &
	OpOr     // |
	OpXor    // ^
	OpAdd    // +
	OpSub    // -
	OpMul    // *
	OpDiv    // /
	OpMod    // %

	// Unary
	OpNeg    // -x
	OpNot    // !x
	OpBitNot // ~x
)

var operatorText = [...]string{
	OpIllegal: "?",
	OpLogAnd:  "&&",
	OpLogOr:   "||",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpLe:      "<=",
	OpGt:      ">",
	OpGe:      ">=",
	OpShl:     "<<",
	OpShr:     ">>",
	OpAnd:     "&",
	OpOr:      "|",
	OpXor:     "^",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpNeg:     "-",
	OpNot:     "!",
	OpBitNot:  "~",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorText) {
		return operatorText[OpIllegal]
	}
	return operatorText[op]
}
