package ast

// Visitor enables traversal and transformation passes without modifying
// the node types themselves.
type Visitor interface {
	VisitStmtList(node *StmtList) interface{}
	VisitBlockStmt(node *BlockStmt) interface{}

	// Statements
	VisitDeclareStmt(node *DeclareStmt) interface{}
	VisitAssignStmt(node *AssignStmt) interface{}
	VisitPrintStmt(node *PrintStmt) interface{}
	VisitReturnStmt(node *ReturnStmt) interface{}
	VisitBreakStmt(node *BreakStmt) interface{}
	VisitCallStmt(node *CallStmt) interface{}
	VisitIfStmt(node *IfStmt) interface{}
	VisitForStmt(node *ForStmt) interface{}
	VisitWhileStmt(node *WhileStmt) interface{}
	VisitDoWhileStmt(node *DoWhileStmt) interface{}
	VisitExecuteStmt(node *ExecuteStmt) interface{}
	VisitLoopStmt(node *LoopStmt) interface{}
	VisitSwitchStmt(node *SwitchStmt) interface{}
	VisitCaseList(node *CaseList) interface{}
	VisitCase(node *Case) interface{}

	// Functions
	VisitFunctionDecl(node *FunctionDecl) interface{}
	VisitParamList(node *ParamList) interface{}
	VisitFunctionBody(node *FunctionBody) interface{}

	// Expressions
	VisitIntegerLiteral(node *IntegerLiteral) interface{}
	VisitVariableExpr(node *VariableExpr) interface{}
	VisitUnaryExpr(node *UnaryExpr) interface{}
	VisitBinaryExpr(node *BinaryExpr) interface{}
	VisitTernaryExpr(node *TernaryExpr) interface{}
	VisitCallExpr(node *CallExpr) interface{}
	VisitArgList(node *ArgList) interface{}
}

// Children returns the direct child nodes of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(children ...Node) {
		for _, c := range children {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := node.(type) {
	case *StmtList:
		for _, s := range n.Stmts {
			add(s)
		}
	case *BlockStmt:
		add(n.Body)
	case *AssignStmt:
		add(n.Value)
	case *PrintStmt:
		add(n.Value)
	case *ReturnStmt:
		add(n.Value)
	case *CallStmt:
		add(n.Call)
	case *IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *ForStmt:
		add(n.Init, n.Cond, n.Post, n.Body)
	case *WhileStmt:
		add(n.Cond, n.Body)
	case *DoWhileStmt:
		add(n.Body, n.Cond)
	case *ExecuteStmt:
		add(n.Count, n.Body)
	case *LoopStmt:
		add(n.Body)
	case *SwitchStmt:
		add(n.Tag, n.Cases)
	case *CaseList:
		for _, c := range n.Cases {
			add(c)
		}
	case *Case:
		add(n.Label, n.Body)
	case *FunctionDecl:
		add(n.Params, n.Body)
	case *FunctionBody:
		add(n.Body)
	case *UnaryExpr:
		add(n.X)
	case *BinaryExpr:
		add(n.X, n.Y)
	case *TernaryExpr:
		add(n.Cond, n.Then, n.Else)
	case *CallExpr:
		add(n.Args)
	case *ArgList:
		for _, a := range n.Args {
			add(a)
		}
	}
	return out
}

// Inspect traverses the tree depth-first, calling f for each node. If f
// returns false the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, c := range Children(node) {
		Inspect(c, f)
	}
}

// CountNodes returns the number of nodes in the tree rooted at node
func CountNodes(node Node) int {
	count := 0
	Inspect(node, func(Node) bool {
		count++
		return true
	})
	return count
}
