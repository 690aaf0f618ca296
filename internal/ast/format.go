package ast

import (
	"strings"
)

const indentUnit = "    "

// Format renders node as canonical Kestrel source. Nested binary and
// ternary operands are always parenthesized, so parsing the output again
// yields the same tree.
func Format(node Node) string {
	if node == nil {
		return ""
	}
	f := &formatter{}
	return node.Accept(f).(string)
}

// formatter implements Visitor; every method returns a string.
type formatter struct {
	indent int
}

func (f *formatter) pad() string {
	return strings.Repeat(indentUnit, f.indent)
}

func (f *formatter) expr(e Expr) string {
	return e.Accept(f).(string)
}

// operand renders e, parenthesizing compound expressions.
func (f *formatter) operand(e Expr) string {
	switch e.(type) {
	case *BinaryExpr, *TernaryExpr:
		return "(" + f.expr(e) + ")"
	}
	return f.expr(e)
}

func (f *formatter) list(list *StmtList) string {
	var b strings.Builder
	for _, s := range list.Stmts {
		b.WriteString(f.pad())
		b.WriteString(s.Accept(f).(string))
		if s.NeedsSemicolon() {
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (f *formatter) block(list *StmtList) string {
	if len(list.Stmts) == 0 {
		return "{}"
	}
	f.indent++
	body := f.list(list)
	f.indent--
	return "{\n" + body + f.pad() + "}"
}

func (f *formatter) VisitStmtList(node *StmtList) interface{} {
	return f.list(node)
}

func (f *formatter) VisitBlockStmt(node *BlockStmt) interface{} {
	return f.block(node.Body)
}

func (f *formatter) VisitDeclareStmt(node *DeclareStmt) interface{} {
	return "declare " + node.Symbol.Name
}

func (f *formatter) VisitAssignStmt(node *AssignStmt) interface{} {
	return node.Target.Name + " = " + f.expr(node.Value)
}

func (f *formatter) VisitPrintStmt(node *PrintStmt) interface{} {
	return "print " + f.expr(node.Value)
}

func (f *formatter) VisitReturnStmt(node *ReturnStmt) interface{} {
	return "return " + f.expr(node.Value)
}

func (f *formatter) VisitBreakStmt(node *BreakStmt) interface{} {
	return "break"
}

func (f *formatter) VisitCallStmt(node *CallStmt) interface{} {
	return f.expr(node.Call)
}

func (f *formatter) VisitIfStmt(node *IfStmt) interface{} {
	out := "if (" + f.expr(node.Cond) + ") " + f.block(node.Then.Body)
	if node.Else != nil {
		out += " else " + node.Else.Accept(f).(string)
	}
	return out
}

func (f *formatter) VisitForStmt(node *ForStmt) interface{} {
	return "for (" + node.Init.Accept(f).(string) + "; " + f.expr(node.Cond) + "; " +
		node.Post.Accept(f).(string) + ") " + f.block(node.Body)
}

func (f *formatter) VisitWhileStmt(node *WhileStmt) interface{} {
	return "while (" + f.expr(node.Cond) + ") " + f.block(node.Body.Body)
}

func (f *formatter) VisitDoWhileStmt(node *DoWhileStmt) interface{} {
	return "do " + f.block(node.Body.Body) + " while (" + f.expr(node.Cond) + ");"
}

func (f *formatter) VisitExecuteStmt(node *ExecuteStmt) interface{} {
	return "execute " + f.expr(node.Count) + " times " + f.block(node.Body.Body)
}

func (f *formatter) VisitLoopStmt(node *LoopStmt) interface{} {
	return "loop " + f.block(node.Body.Body) + " endloop"
}

func (f *formatter) VisitSwitchStmt(node *SwitchStmt) interface{} {
	if len(node.Cases.Cases) == 0 {
		return "switch (" + f.expr(node.Tag) + ") {}"
	}
	f.indent++
	cases := f.VisitCaseList(node.Cases).(string)
	f.indent--
	return "switch (" + f.expr(node.Tag) + ") {\n" + cases + f.pad() + "}"
}

func (f *formatter) VisitCaseList(node *CaseList) interface{} {
	var b strings.Builder
	for _, c := range node.Cases {
		b.WriteString(f.VisitCase(c).(string))
	}
	return b.String()
}

func (f *formatter) VisitCase(node *Case) interface{} {
	f.indent++
	body := f.list(node.Body)
	f.indent--
	return f.pad() + "case " + node.Label.Value + ":\n" + body
}

func (f *formatter) VisitFunctionDecl(node *FunctionDecl) interface{} {
	return "function " + node.Func.Name + "(" + f.VisitParamList(node.Params).(string) + ") " +
		f.VisitFunctionBody(node.Body).(string)
}

func (f *formatter) VisitParamList(node *ParamList) interface{} {
	return strings.Join(node.Names(), ", ")
}

func (f *formatter) VisitFunctionBody(node *FunctionBody) interface{} {
	return f.block(node.Body)
}

func (f *formatter) VisitIntegerLiteral(node *IntegerLiteral) interface{} {
	return node.Value
}

func (f *formatter) VisitVariableExpr(node *VariableExpr) interface{} {
	return node.Symbol.Name
}

func (f *formatter) VisitUnaryExpr(node *UnaryExpr) interface{} {
	return node.Op.String() + f.operand(node.X)
}

func (f *formatter) VisitBinaryExpr(node *BinaryExpr) interface{} {
	return f.operand(node.X) + " " + node.Op.String() + " " + f.operand(node.Y)
}

func (f *formatter) VisitTernaryExpr(node *TernaryExpr) interface{} {
	cond := f.expr(node.Cond)
	if _, nested := node.Cond.(*TernaryExpr); nested {
		cond = "(" + cond + ")"
	}
	return cond + " ? " + f.expr(node.Then) + " : " + f.expr(node.Else)
}

func (f *formatter) VisitCallExpr(node *CallExpr) interface{} {
	return "call " + node.Func.Name + "(" + f.VisitArgList(node.Args).(string) + ")"
}

func (f *formatter) VisitArgList(node *ArgList) interface{} {
	args := make([]string, len(node.Args))
	for i, a := range node.Args {
		args[i] = f.expr(a)
	}
	return strings.Join(args, ", ")
}
