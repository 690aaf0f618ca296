package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented tree dump of node to w.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.print(node)
	return p.err
}

type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// field prints a labelled child one level deeper.
func (p *printer) field(label string, node Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(node)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		p.printf("<nil>\n")
		return
	}

	pos := node.GetSpan().Start
	switch n := node.(type) {
	case *StmtList:
		p.printf("StmtList %s (%d)\n", pos, len(n.Stmts))
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", pos)
		p.indent++
		p.print(n.Body)
		p.indent--

	case *DeclareStmt:
		p.printf("DeclareStmt %s %s\n", pos, n.Symbol)

	case *AssignStmt:
		p.printf("AssignStmt %s %s\n", pos, n.Target)
		p.indent++
		p.field("Value", n.Value)
		p.indent--

	case *PrintStmt:
		p.printf("PrintStmt %s\n", pos)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", pos)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *BreakStmt:
		p.printf("BreakStmt %s\n", pos)

	case *CallStmt:
		p.printf("CallStmt %s\n", pos)
		p.indent++
		p.print(n.Call)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		if n.Else != nil {
			p.field("Else", n.Else)
		}
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s\n", pos)
		p.indent++
		p.field("Init", n.Init)
		p.field("Cond", n.Cond)
		p.field("Post", n.Post)
		p.field("Body", n.Body)
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Body", n.Body)
		p.indent--

	case *DoWhileStmt:
		p.printf("DoWhileStmt %s\n", pos)
		p.indent++
		p.field("Body", n.Body)
		p.field("Cond", n.Cond)
		p.indent--

	case *ExecuteStmt:
		p.printf("ExecuteStmt %s\n", pos)
		p.indent++
		p.field("Count", n.Count)
		p.field("Body", n.Body)
		p.indent--

	case *LoopStmt:
		p.printf("LoopStmt %s\n", pos)
		p.indent++
		p.print(n.Body)
		p.indent--

	case *SwitchStmt:
		p.printf("SwitchStmt %s\n", pos)
		p.indent++
		p.field("Tag", n.Tag)
		p.print(n.Cases)
		p.indent--

	case *CaseList:
		p.printf("CaseList %s (%d)\n", pos, len(n.Cases))
		p.indent++
		for _, c := range n.Cases {
			p.print(c)
		}
		p.indent--

	case *Case:
		p.printf("Case %s %s\n", pos, n.Label.Value)
		p.indent++
		p.print(n.Body)
		p.indent--

	case *FunctionDecl:
		p.printf("FunctionDecl %s %s\n", pos, n.Func)
		p.indent++
		p.print(n.Params)
		p.print(n.Body)
		p.indent--

	case *ParamList:
		p.printf("ParamList %s [%s]\n", pos, strings.Join(n.Names(), ", "))

	case *FunctionBody:
		p.printf("FunctionBody %s\n", pos)
		p.indent++
		p.print(n.Body)
		p.indent--

	case *IntegerLiteral:
		p.printf("IntegerLiteral %s %s\n", pos, n.Value)

	case *VariableExpr:
		p.printf("VariableExpr %s %s\n", pos, n.Symbol)

	case *UnaryExpr:
		p.printf("UnaryExpr %s %s\n", pos, n.Op)
		p.indent++
		p.print(n.X)
		p.indent--

	case *BinaryExpr:
		p.printf("BinaryExpr %s %s\n", pos, n.Op)
		p.indent++
		p.print(n.X)
		p.print(n.Y)
		p.indent--

	case *TernaryExpr:
		p.printf("TernaryExpr %s\n", pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		p.field("Else", n.Else)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s %s\n", pos, n.Func)
		p.indent++
		p.print(n.Args)
		p.indent--

	case *ArgList:
		p.printf("ArgList %s (%d)\n", pos, len(n.Args))
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	default:
		p.printf("%T %s\n", node, pos)
	}
}
