package ast

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToMap(node))
}

// FprintYAML writes a YAML representation of the AST to w.
func FprintYAML(w io.Writer, node Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToMap(node)); err != nil {
		return err
	}
	return enc.Close()
}

// ToMap converts node into nested maps and slices suitable for any
// structured encoder.
func ToMap(node Node) interface{} {
	if node == nil {
		return nil
	}

	m := map[string]interface{}{
		"pos": node.GetSpan().Start.String(),
	}

	switch n := node.(type) {
	case *StmtList:
		m["type"] = "StmtList"
		m["stmts"] = stmtsToMap(n.Stmts)
	case *BlockStmt:
		m["type"] = "BlockStmt"
		m["body"] = ToMap(n.Body)
	case *DeclareStmt:
		m["type"] = "DeclareStmt"
		m["name"] = n.Symbol.Name
		m["slot"] = n.Symbol.Slot
	case *AssignStmt:
		m["type"] = "AssignStmt"
		m["target"] = n.Target.Name
		m["value"] = ToMap(n.Value)
	case *PrintStmt:
		m["type"] = "PrintStmt"
		m["value"] = ToMap(n.Value)
	case *ReturnStmt:
		m["type"] = "ReturnStmt"
		m["value"] = ToMap(n.Value)
	case *BreakStmt:
		m["type"] = "BreakStmt"
	case *CallStmt:
		m["type"] = "CallStmt"
		m["call"] = ToMap(n.Call)
	case *IfStmt:
		m["type"] = "IfStmt"
		m["cond"] = ToMap(n.Cond)
		m["then"] = ToMap(n.Then)
		if n.Else != nil {
			m["else"] = ToMap(n.Else)
		}
	case *ForStmt:
		m["type"] = "ForStmt"
		m["init"] = ToMap(n.Init)
		m["cond"] = ToMap(n.Cond)
		m["post"] = ToMap(n.Post)
		m["body"] = ToMap(n.Body)
	case *WhileStmt:
		m["type"] = "WhileStmt"
		m["cond"] = ToMap(n.Cond)
		m["body"] = ToMap(n.Body)
	case *DoWhileStmt:
		m["type"] = "DoWhileStmt"
		m["body"] = ToMap(n.Body)
		m["cond"] = ToMap(n.Cond)
	case *ExecuteStmt:
		m["type"] = "ExecuteStmt"
		m["count"] = ToMap(n.Count)
		m["body"] = ToMap(n.Body)
	case *LoopStmt:
		m["type"] = "LoopStmt"
		m["body"] = ToMap(n.Body)
	case *SwitchStmt:
		m["type"] = "SwitchStmt"
		m["tag"] = ToMap(n.Tag)
		m["cases"] = ToMap(n.Cases)
	case *CaseList:
		m["type"] = "CaseList"
		cases := make([]interface{}, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = ToMap(c)
		}
		m["cases"] = cases
	case *Case:
		m["type"] = "Case"
		m["label"] = n.Label.Value
		m["body"] = ToMap(n.Body)
	case *FunctionDecl:
		m["type"] = "FunctionDecl"
		m["name"] = n.Func.Name
		m["params"] = ToMap(n.Params)
		m["body"] = ToMap(n.Body)
	case *ParamList:
		m["type"] = "ParamList"
		m["names"] = n.Names()
	case *FunctionBody:
		m["type"] = "FunctionBody"
		m["body"] = ToMap(n.Body)
	case *IntegerLiteral:
		m["type"] = "IntegerLiteral"
		m["value"] = n.Value
	case *VariableExpr:
		m["type"] = "VariableExpr"
		m["name"] = n.Symbol.Name
		m["slot"] = n.Symbol.Slot
	case *UnaryExpr:
		m["type"] = "UnaryExpr"
		m["op"] = n.Op.String()
		m["x"] = ToMap(n.X)
	case *BinaryExpr:
		m["type"] = "BinaryExpr"
		m["op"] = n.Op.String()
		m["x"] = ToMap(n.X)
		m["y"] = ToMap(n.Y)
	case *TernaryExpr:
		m["type"] = "TernaryExpr"
		m["cond"] = ToMap(n.Cond)
		m["then"] = ToMap(n.Then)
		m["else"] = ToMap(n.Else)
	case *CallExpr:
		m["type"] = "CallExpr"
		m["function"] = n.Func.Name
		m["args"] = ToMap(n.Args)
	case *ArgList:
		m["type"] = "ArgList"
		args := make([]interface{}, len(n.Args))
		for i, a := range n.Args {
			args[i] = ToMap(a)
		}
		m["args"] = args
	}
	return m
}

func stmtsToMap(stmts []Stmt) []interface{} {
	out := make([]interface{}, len(stmts))
	for i, s := range stmts {
		out[i] = ToMap(s)
	}
	return out
}
