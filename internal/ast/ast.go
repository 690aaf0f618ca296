// Package ast defines the syntax tree produced by the Kestrel parser.
// Every node carries its source span and supports the visitor pattern.
// Nodes own their children exclusively; *symbols.Symbol and
// *symbols.FunctionInfo fields are references into the parse's tables.
package ast

import (
	"strconv"

	"github.com/orizon-lang/kestrel/internal/position"
	"github.com/orizon-lang/kestrel/internal/symbols"
)

// Node is the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
	// String returns the node rendered as Kestrel source
	String() string
	// Accept implements the visitor pattern for AST traversal
	Accept(visitor Visitor) interface{}
}

// Stmt represents all statement nodes
type Stmt interface {
	Node
	// NeedsSemicolon reports whether the statement list must consume a
	// trailing ';' after this statement.
	NeedsSemicolon() bool
	stmtNode()
}

// Expr represents all expression nodes
type Expr interface {
	Node
	exprNode()
}

// ===== Statement lists and blocks =====

// StmtList is a sequence of statements ended by EOF, '}' or 'case'
type StmtList struct {
	Span  position.Span
	Stmts []Stmt
}

func (s *StmtList) GetSpan() position.Span             { return s.Span }
func (s *StmtList) String() string                     { return Format(s) }
func (s *StmtList) Accept(visitor Visitor) interface{} { return visitor.VisitStmtList(s) }

// BlockStmt is a brace-delimited statement list
type BlockStmt struct {
	Span position.Span
	Body *StmtList
}

func (b *BlockStmt) GetSpan() position.Span             { return b.Span }
func (b *BlockStmt) String() string                     { return Format(b) }
func (b *BlockStmt) Accept(visitor Visitor) interface{} { return visitor.VisitBlockStmt(b) }
func (b *BlockStmt) NeedsSemicolon() bool               { return false }
func (b *BlockStmt) stmtNode()                          {}

// ===== Simple statements =====

// DeclareStmt introduces a variable
type DeclareStmt struct {
	Span   position.Span
	Symbol *symbols.Symbol
}

func (d *DeclareStmt) GetSpan() position.Span             { return d.Span }
func (d *DeclareStmt) String() string                     { return Format(d) }
func (d *DeclareStmt) Accept(visitor Visitor) interface{} { return visitor.VisitDeclareStmt(d) }
func (d *DeclareStmt) NeedsSemicolon() bool               { return true }
func (d *DeclareStmt) stmtNode()                          {}

// AssignStmt binds a value to a declared variable
type AssignStmt struct {
	Span   position.Span
	Target *symbols.Symbol
	Value  Expr
}

func (a *AssignStmt) GetSpan() position.Span             { return a.Span }
func (a *AssignStmt) String() string                     { return Format(a) }
func (a *AssignStmt) Accept(visitor Visitor) interface{} { return visitor.VisitAssignStmt(a) }
func (a *AssignStmt) NeedsSemicolon() bool               { return true }
func (a *AssignStmt) stmtNode()                          {}

// PrintStmt prints the value of an expression
type PrintStmt struct {
	Span  position.Span
	Value Expr
}

func (p *PrintStmt) GetSpan() position.Span             { return p.Span }
func (p *PrintStmt) String() string                     { return Format(p) }
func (p *PrintStmt) Accept(visitor Visitor) interface{} { return visitor.VisitPrintStmt(p) }
func (p *PrintStmt) NeedsSemicolon() bool               { return true }
func (p *PrintStmt) stmtNode()                          {}

// ReturnStmt returns a value from the enclosing function
type ReturnStmt struct {
	Span  position.Span
	Value Expr
}

func (r *ReturnStmt) GetSpan() position.Span             { return r.Span }
func (r *ReturnStmt) String() string                     { return Format(r) }
func (r *ReturnStmt) Accept(visitor Visitor) interface{} { return visitor.VisitReturnStmt(r) }
func (r *ReturnStmt) NeedsSemicolon() bool               { return true }
func (r *ReturnStmt) stmtNode()                          {}

// BreakStmt leaves the nearest enclosing loop. Which loop that is gets
// decided downstream; the parser only records the statement.
type BreakStmt struct {
	Span position.Span
}

func (b *BreakStmt) GetSpan() position.Span             { return b.Span }
func (b *BreakStmt) String() string                     { return Format(b) }
func (b *BreakStmt) Accept(visitor Visitor) interface{} { return visitor.VisitBreakStmt(b) }
func (b *BreakStmt) NeedsSemicolon() bool               { return true }
func (b *BreakStmt) stmtNode()                          {}

// CallStmt evaluates a function call for its effect
type CallStmt struct {
	Span position.Span
	Call *CallExpr
}

func (c *CallStmt) GetSpan() position.Span             { return c.Span }
func (c *CallStmt) String() string                     { return Format(c) }
func (c *CallStmt) Accept(visitor Visitor) interface{} { return visitor.VisitCallStmt(c) }
func (c *CallStmt) NeedsSemicolon() bool               { return true }
func (c *CallStmt) stmtNode()                          {}

// ===== Control structures =====

// IfStmt is a conditional. Else is nil, a *BlockStmt, or an *IfStmt for
// an else-if chain.
type IfStmt struct {
	Span position.Span
	Cond Expr
	Then *BlockStmt
	Else Stmt
}

func (i *IfStmt) GetSpan() position.Span             { return i.Span }
func (i *IfStmt) String() string                     { return Format(i) }
func (i *IfStmt) Accept(visitor Visitor) interface{} { return visitor.VisitIfStmt(i) }
func (i *IfStmt) NeedsSemicolon() bool               { return false }
func (i *IfStmt) stmtNode()                          {}

// ForStmt is for (Init; Cond; Post) { Body }
type ForStmt struct {
	Span position.Span
	Init Stmt
	Cond Expr
	Post Stmt
	Body *StmtList
}

func (f *ForStmt) GetSpan() position.Span             { return f.Span }
func (f *ForStmt) String() string                     { return Format(f) }
func (f *ForStmt) Accept(visitor Visitor) interface{} { return visitor.VisitForStmt(f) }
func (f *ForStmt) NeedsSemicolon() bool               { return false }
func (f *ForStmt) stmtNode()                          {}

// WhileStmt is a pre-test loop
type WhileStmt struct {
	Span position.Span
	Cond Expr
	Body *BlockStmt
}

func (w *WhileStmt) GetSpan() position.Span             { return w.Span }
func (w *WhileStmt) String() string                     { return Format(w) }
func (w *WhileStmt) Accept(visitor Visitor) interface{} { return visitor.VisitWhileStmt(w) }
func (w *WhileStmt) NeedsSemicolon() bool               { return false }
func (w *WhileStmt) stmtNode()                          {}

// DoWhileStmt is a post-test loop. Its trailing ';' belongs to the
// statement itself.
type DoWhileStmt struct {
	Span position.Span
	Body *BlockStmt
	Cond Expr
}

func (d *DoWhileStmt) GetSpan() position.Span             { return d.Span }
func (d *DoWhileStmt) String() string                     { return Format(d) }
func (d *DoWhileStmt) Accept(visitor Visitor) interface{} { return visitor.VisitDoWhileStmt(d) }
func (d *DoWhileStmt) NeedsSemicolon() bool               { return false }
func (d *DoWhileStmt) stmtNode()                          {}

// ExecuteStmt runs Body Count times; Count is evaluated once on entry
type ExecuteStmt struct {
	Span  position.Span
	Count Expr
	Body  *BlockStmt
}

func (e *ExecuteStmt) GetSpan() position.Span             { return e.Span }
func (e *ExecuteStmt) String() string                     { return Format(e) }
func (e *ExecuteStmt) Accept(visitor Visitor) interface{} { return visitor.VisitExecuteStmt(e) }
func (e *ExecuteStmt) NeedsSemicolon() bool               { return false }
func (e *ExecuteStmt) stmtNode()                          {}

// LoopStmt repeats Body until a break
type LoopStmt struct {
	Span position.Span
	Body *BlockStmt
}

func (l *LoopStmt) GetSpan() position.Span             { return l.Span }
func (l *LoopStmt) String() string                     { return Format(l) }
func (l *LoopStmt) Accept(visitor Visitor) interface{} { return visitor.VisitLoopStmt(l) }
func (l *LoopStmt) NeedsSemicolon() bool               { return false }
func (l *LoopStmt) stmtNode()                          {}

// SwitchStmt selects a case by integer label
type SwitchStmt struct {
	Span  position.Span
	Tag   Expr
	Cases *CaseList
}

func (s *SwitchStmt) GetSpan() position.Span             { return s.Span }
func (s *SwitchStmt) String() string                     { return Format(s) }
func (s *SwitchStmt) Accept(visitor Visitor) interface{} { return visitor.VisitSwitchStmt(s) }
func (s *SwitchStmt) NeedsSemicolon() bool               { return false }
func (s *SwitchStmt) stmtNode()                          {}

// CaseList holds the cases of a switch in source order
type CaseList struct {
	Span  position.Span
	Cases []*Case
}

func (c *CaseList) GetSpan() position.Span             { return c.Span }
func (c *CaseList) String() string                     { return Format(c) }
func (c *CaseList) Accept(visitor Visitor) interface{} { return visitor.VisitCaseList(c) }

// Case is one labelled arm; its body runs up to the next case or '}'
type Case struct {
	Span  position.Span
	Label *IntegerLiteral
	Body  *StmtList
}

func (c *Case) GetSpan() position.Span             { return c.Span }
func (c *Case) String() string                     { return Format(c) }
func (c *Case) Accept(visitor Visitor) interface{} { return visitor.VisitCase(c) }

// ===== Functions =====

// FunctionDecl declares a named function
type FunctionDecl struct {
	Span   position.Span
	Func   *symbols.FunctionInfo
	Params *ParamList
	Body   *FunctionBody
}

func (f *FunctionDecl) GetSpan() position.Span             { return f.Span }
func (f *FunctionDecl) String() string                     { return Format(f) }
func (f *FunctionDecl) Accept(visitor Visitor) interface{} { return visitor.VisitFunctionDecl(f) }
func (f *FunctionDecl) NeedsSemicolon() bool               { return false }
func (f *FunctionDecl) stmtNode()                          {}

// ParamList is the parameter list of a function declaration
type ParamList struct {
	Span   position.Span
	Params []*symbols.Symbol
}

func (p *ParamList) GetSpan() position.Span             { return p.Span }
func (p *ParamList) String() string                     { return Format(p) }
func (p *ParamList) Accept(visitor Visitor) interface{} { return visitor.VisitParamList(p) }

// Names returns the parameter names in order
func (p *ParamList) Names() []string {
	names := make([]string, len(p.Params))
	for i, sym := range p.Params {
		names[i] = sym.Name
	}
	return names
}

// FunctionBody is the brace-delimited body of a function
type FunctionBody struct {
	Span position.Span
	Body *StmtList
}

func (f *FunctionBody) GetSpan() position.Span             { return f.Span }
func (f *FunctionBody) String() string                     { return Format(f) }
func (f *FunctionBody) Accept(visitor Visitor) interface{} { return visitor.VisitFunctionBody(f) }

// ===== Expressions =====

// IntegerLiteral keeps the literal text exactly as written
type IntegerLiteral struct {
	Span  position.Span
	Value string
}

func (i *IntegerLiteral) GetSpan() position.Span             { return i.Span }
func (i *IntegerLiteral) String() string                     { return i.Value }
func (i *IntegerLiteral) Accept(visitor Visitor) interface{} { return visitor.VisitIntegerLiteral(i) }
func (i *IntegerLiteral) exprNode()                          {}

// Int parses the literal as a signed 64-bit integer
func (i *IntegerLiteral) Int() (int64, error) {
	return strconv.ParseInt(i.Value, 10, 64)
}

// VariableExpr reads a declared variable
type VariableExpr struct {
	Span   position.Span
	Symbol *symbols.Symbol
}

func (v *VariableExpr) GetSpan() position.Span             { return v.Span }
func (v *VariableExpr) String() string                     { return v.Symbol.Name }
func (v *VariableExpr) Accept(visitor Visitor) interface{} { return visitor.VisitVariableExpr(v) }
func (v *VariableExpr) exprNode()                          {}

// UnaryExpr applies a prefix operator
type UnaryExpr struct {
	Span position.Span
	Op   Operator
	X    Expr
}

func (u *UnaryExpr) GetSpan() position.Span             { return u.Span }
func (u *UnaryExpr) String() string                     { return Format(u) }
func (u *UnaryExpr) Accept(visitor Visitor) interface{} { return visitor.VisitUnaryExpr(u) }
func (u *UnaryExpr) exprNode()                          {}

// BinaryExpr applies an infix operator
type BinaryExpr struct {
	Span position.Span
	Op   Operator
	X    Expr
	Y    Expr
}

func (b *BinaryExpr) GetSpan() position.Span             { return b.Span }
func (b *BinaryExpr) String() string                     { return Format(b) }
func (b *BinaryExpr) Accept(visitor Visitor) interface{} { return visitor.VisitBinaryExpr(b) }
func (b *BinaryExpr) exprNode()                          {}

// TernaryExpr is Cond ? Then : Else
type TernaryExpr struct {
	Span position.Span
	Cond Expr
	Then Expr
	Else Expr
}

func (t *TernaryExpr) GetSpan() position.Span             { return t.Span }
func (t *TernaryExpr) String() string                     { return Format(t) }
func (t *TernaryExpr) Accept(visitor Visitor) interface{} { return visitor.VisitTernaryExpr(t) }
func (t *TernaryExpr) exprNode()                          {}

// CallExpr calls a declared function
type CallExpr struct {
	Span position.Span
	Func *symbols.FunctionInfo
	Args *ArgList
}

func (c *CallExpr) GetSpan() position.Span             { return c.Span }
func (c *CallExpr) String() string                     { return Format(c) }
func (c *CallExpr) Accept(visitor Visitor) interface{} { return visitor.VisitCallExpr(c) }
func (c *CallExpr) exprNode()                          {}

// ArgList holds call arguments in source order
type ArgList struct {
	Span position.Span
	Args []Expr
}

func (a *ArgList) GetSpan() position.Span             { return a.Span }
func (a *ArgList) String() string                     { return Format(a) }
func (a *ArgList) Accept(visitor Visitor) interface{} { return visitor.VisitArgList(a) }
