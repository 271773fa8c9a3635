package ast

// Visitor's Visit method is invoked for every node encountered by Walk. If
// the result w is not nil, Walk visits each of the children of node with
// the visitor w, followed by a call of w.Done(node). Mirrors the shape of
// cuelang.org/go/cue/ast.Walk / Visitor.
type Visitor interface {
	Visit(node Node) (w Visitor)
	Done(node Node)
}

// Walk traverses an AST in depth-first order: it starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor w for
// each of the non-nil children of node, followed by a call of
// w.Done(node).
func Walk(v Visitor, node Node) {
	w := v.Visit(node)
	if w == nil {
		return
	}
	defer w.Done(node)

	switch n := node.(type) {
	case *File:
		if n.Module != nil {
			Walk(w, n.Module)
		}
		for _, im := range n.Imports {
			Walk(w, im)
		}
		for _, d := range n.Decls {
			Walk(w, d)
		}
	case *GenDecl:
		for _, s := range n.Statements {
			Walk(w, s)
		}
	case *TraitDecl:
		for _, s := range n.Statements {
			Walk(w, s)
		}
	case *RuleDecl:
		for _, s := range n.Statements {
			Walk(w, s)
		}
	case *SystemDecl:
		for _, s := range n.Statements {
			Walk(w, s)
		}
	case *FuncDecl:
		for _, s := range n.Body {
			Walk(w, s)
		}
	case *ConstDecl:
		if n.Value != nil {
			Walk(w, n.Value)
		}
	case *SexVarDecl:
		if n.Value != nil {
			Walk(w, n.Value)
		}
	case *HasFieldStmt:
		if n.Default != nil {
			Walk(w, n.Default)
		}
		if n.Constraint != nil {
			Walk(w, n.Constraint)
		}
	case *QuantifiedStmt:
		if n.Inner != nil {
			Walk(w, n.Inner)
		}
	case *BinaryExpr:
		Walk(w, n.X)
		Walk(w, n.Y)
	case *UnaryExpr:
		Walk(w, n.X)
	case *CallExpr:
		Walk(w, n.Callee)
		for _, a := range n.Args {
			Walk(w, a)
		}
	case *SelectExpr:
		Walk(w, n.X)
	case *IndexExpr:
		Walk(w, n.X)
		Walk(w, n.Index)
	case *TupleExpr:
		for _, e := range n.Elems {
			Walk(w, e)
		}
	case *BlockExpr:
		for _, s := range n.Stmts {
			Walk(w, s)
		}
		if n.Result != nil {
			Walk(w, n.Result)
		}
	case *IfExpr:
		Walk(w, n.Cond)
		Walk(w, n.Then)
		if n.Else != nil {
			Walk(w, n.Else)
		}
	case *MatchExpr:
		Walk(w, n.Subject)
		for _, arm := range n.Arms {
			if arm.Guard != nil {
				Walk(w, arm.Guard)
			}
			Walk(w, arm.Body)
		}
	case *AssignExpr:
		Walk(w, n.Target)
		Walk(w, n.Value)
	case *LoopExpr:
		Walk(w, n.Body)
	case *LambdaExpr:
		Walk(w, n.Body)
	case *LetStmt:
		if n.Value != nil {
			Walk(w, n.Value)
		}
	case *ExprStmt:
		Walk(w, n.X)
	}
}

// Inspect traverses node in depth-first order: it calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each child of
// node, followed by a call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

func (f inspector) Done(node Node) { f(nil) }
