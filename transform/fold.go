// Package transform implements the optimization passes that run after
// validation: constant folding, algebraic simplification, and tree
// shaking. Each pass takes a lowered Module or Expr and returns a new
// one; none of them mutate their input, mirroring how dol/check and
// dol/crdt treat a Module as a read-only value and report results
// alongside it rather than through it.
package transform

import (
	"strconv"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/hir"
)

// FoldExpr recursively evaluates binary/unary operations over literal
// operands (integers wrap on overflow the way Go's own int64 arithmetic
// already does; floats follow IEEE-754 via float64) and collapses an If
// whose condition folds to a literal bool into its chosen branch.
func FoldExpr(e hir.Expr) hir.Expr {
	switch n := e.(type) {
	case *hir.BinaryExpr:
		x, y := FoldExpr(n.X), FoldExpr(n.Y)
		if lit := foldBinary(n.Op, x, y); lit != nil {
			return lit
		}
		return &hir.BinaryExpr{Op: n.Op, X: x, Y: y}
	case *hir.UnaryExpr:
		x := FoldExpr(n.X)
		if lit := foldUnary(n.Op, x); lit != nil {
			return lit
		}
		return &hir.UnaryExpr{Op: n.Op, X: x}
	case *hir.CallExpr:
		args := make([]hir.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = FoldExpr(a)
		}
		return &hir.CallExpr{Callee: FoldExpr(n.Callee), Args: args}
	case *hir.SelectExpr:
		return &hir.SelectExpr{X: FoldExpr(n.X), Name: n.Name}
	case *hir.IndexExpr:
		return &hir.IndexExpr{X: FoldExpr(n.X), Index: FoldExpr(n.Index)}
	case *hir.TupleExpr:
		elems := make([]hir.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = FoldExpr(el)
		}
		return &hir.TupleExpr{Elems: elems}
	case *hir.BlockExpr:
		stmts := make([]hir.Expr, len(n.Stmts))
		for i, s := range n.Stmts {
			stmts[i] = FoldExpr(s)
		}
		var result hir.Expr
		if n.Result != nil {
			result = FoldExpr(n.Result)
		}
		return &hir.BlockExpr{Stmts: stmts, Result: result}
	case *hir.LetExpr:
		return &hir.LetExpr{Name: n.Name, Type: n.Type, Value: FoldExpr(n.Value)}
	case *hir.IfExpr:
		cond := FoldExpr(n.Cond)
		then, els := FoldExpr(n.Then), FoldExpr(n.Else)
		if b, ok := boolLitValue(cond); ok {
			if b {
				return then
			}
			return els
		}
		return &hir.IfExpr{Cond: cond, Then: then, Else: els}
	case *hir.MatchExpr:
		arms := make([]hir.MatchArm, len(n.Arms))
		for i, a := range n.Arms {
			arm := a
			if a.Guard != nil {
				arm.Guard = FoldExpr(a.Guard)
			}
			arm.Body = FoldExpr(a.Body)
			arms[i] = arm
		}
		return &hir.MatchExpr{Subject: FoldExpr(n.Subject), Arms: arms}
	case *hir.AssignExpr:
		return &hir.AssignExpr{Target: n.Target, Value: FoldExpr(n.Value)}
	case *hir.LoopExpr:
		body, _ := FoldExpr(n.Body).(*hir.BlockExpr)
		return &hir.LoopExpr{Body: body}
	case *hir.LambdaExpr:
		return &hir.LambdaExpr{Params: n.Params, Body: FoldExpr(n.Body)}
	default:
		return e
	}
}

func boolLitValue(e hir.Expr) (bool, bool) {
	lit, ok := e.(*hir.BasicLit)
	if !ok || lit.Kind != ast.LitBool {
		return false, false
	}
	return lit.Value == "true", true
}

func intLitValue(e hir.Expr) (int64, bool) {
	lit, ok := e.(*hir.BasicLit)
	if !ok || lit.Kind != ast.LitInt {
		return 0, false
	}
	v, err := strconv.ParseInt(lit.Value, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func floatLitValue(e hir.Expr) (float64, bool) {
	lit, ok := e.(*hir.BasicLit)
	if !ok || lit.Kind != ast.LitFloat {
		return 0, false
	}
	v, err := strconv.ParseFloat(lit.Value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func intLit(v int64) *hir.BasicLit {
	return &hir.BasicLit{Kind: ast.LitInt, Value: strconv.FormatInt(v, 10)}
}

func floatLit(v float64) *hir.BasicLit {
	return &hir.BasicLit{Kind: ast.LitFloat, Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func boolLit(v bool) *hir.BasicLit {
	return &hir.BasicLit{Kind: ast.LitBool, Value: strconv.FormatBool(v)}
}

// foldBinary evaluates op over x and y if both are literal operands of a
// kind it knows how to combine, returning nil if the pair can't be
// folded at compile time.
func foldBinary(op ast.BinaryOp, x, y hir.Expr) *hir.BasicLit {
	if xi, ok := intLitValue(x); ok {
		if yi, ok := intLitValue(y); ok {
			return foldIntBinary(op, xi, yi)
		}
	}
	if xf, ok := floatLitValue(x); ok {
		if yf, ok := floatLitValue(y); ok {
			return foldFloatBinary(op, xf, yf)
		}
	}
	if xb, ok := boolLitValue(x); ok {
		if yb, ok := boolLitValue(y); ok {
			return foldBoolBinary(op, xb, yb)
		}
	}
	return nil
}

func foldIntBinary(op ast.BinaryOp, x, y int64) *hir.BasicLit {
	switch op {
	case ast.OpAdd:
		return intLit(x + y) // wraps on overflow like Go's own int64 arithmetic
	case ast.OpSub:
		return intLit(x - y)
	case ast.OpMul:
		return intLit(x * y)
	case ast.OpDiv:
		if y == 0 {
			return nil
		}
		return intLit(x / y)
	case ast.OpMod:
		if y == 0 {
			return nil
		}
		return intLit(x % y)
	case ast.OpEq:
		return boolLit(x == y)
	case ast.OpNeq:
		return boolLit(x != y)
	case ast.OpLt:
		return boolLit(x < y)
	case ast.OpLe:
		return boolLit(x <= y)
	case ast.OpGt:
		return boolLit(x > y)
	case ast.OpGe:
		return boolLit(x >= y)
	default:
		return nil
	}
}

func foldFloatBinary(op ast.BinaryOp, x, y float64) *hir.BasicLit {
	switch op {
	case ast.OpAdd:
		return floatLit(x + y)
	case ast.OpSub:
		return floatLit(x - y)
	case ast.OpMul:
		return floatLit(x * y)
	case ast.OpDiv:
		return floatLit(x / y) // IEEE-754: division by zero yields +-Inf or NaN, not a fold-time error
	case ast.OpEq:
		return boolLit(x == y)
	case ast.OpNeq:
		return boolLit(x != y)
	case ast.OpLt:
		return boolLit(x < y)
	case ast.OpLe:
		return boolLit(x <= y)
	case ast.OpGt:
		return boolLit(x > y)
	case ast.OpGe:
		return boolLit(x >= y)
	default:
		return nil
	}
}

func foldBoolBinary(op ast.BinaryOp, x, y bool) *hir.BasicLit {
	switch op {
	case ast.OpAnd:
		return boolLit(x && y)
	case ast.OpOr:
		return boolLit(x || y)
	case ast.OpEq:
		return boolLit(x == y)
	case ast.OpNeq:
		return boolLit(x != y)
	default:
		return nil
	}
}

func foldUnary(op ast.UnaryOp, x hir.Expr) *hir.BasicLit {
	switch op {
	case ast.OpNeg:
		if xi, ok := intLitValue(x); ok {
			return intLit(-xi)
		}
		if xf, ok := floatLitValue(x); ok {
			return floatLit(-xf)
		}
	case ast.OpNot:
		if xb, ok := boolLitValue(x); ok {
			return boolLit(!xb)
		}
	}
	return nil
}

// Simplify applies the algebraic identities of spec.md 4K over e, after
// first simplifying its children. It is a separate pass from FoldExpr so
// a caller can run simplification without also requiring every operand
// to already be a literal (e.g. `x + 0` simplifies even when x is a
// variable reference).
func Simplify(e hir.Expr) hir.Expr {
	switch n := e.(type) {
	case *hir.BinaryExpr:
		x, y := Simplify(n.X), Simplify(n.Y)
		if s := simplifyBinary(n.Op, x, y); s != nil {
			return s
		}
		return &hir.BinaryExpr{Op: n.Op, X: x, Y: y}
	case *hir.UnaryExpr:
		x := Simplify(n.X)
		if n.Op == ast.OpNot {
			if inner, ok := x.(*hir.UnaryExpr); ok && inner.Op == ast.OpNot {
				return inner.X // double negation collapse
			}
		}
		return &hir.UnaryExpr{Op: n.Op, X: x}
	case *hir.IfExpr:
		return &hir.IfExpr{Cond: Simplify(n.Cond), Then: Simplify(n.Then), Else: Simplify(n.Else)}
	case *hir.CallExpr:
		args := make([]hir.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Simplify(a)
		}
		return &hir.CallExpr{Callee: Simplify(n.Callee), Args: args}
	case *hir.BlockExpr:
		stmts := make([]hir.Expr, len(n.Stmts))
		for i, s := range n.Stmts {
			stmts[i] = Simplify(s)
		}
		var result hir.Expr
		if n.Result != nil {
			result = Simplify(n.Result)
		}
		return &hir.BlockExpr{Stmts: stmts, Result: result}
	case *hir.LetExpr:
		return &hir.LetExpr{Name: n.Name, Type: n.Type, Value: Simplify(n.Value)}
	case *hir.SelectExpr:
		return &hir.SelectExpr{X: Simplify(n.X), Name: n.Name}
	case *hir.IndexExpr:
		return &hir.IndexExpr{X: Simplify(n.X), Index: Simplify(n.Index)}
	case *hir.TupleExpr:
		elems := make([]hir.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = Simplify(el)
		}
		return &hir.TupleExpr{Elems: elems}
	case *hir.MatchExpr:
		arms := make([]hir.MatchArm, len(n.Arms))
		for i, a := range n.Arms {
			arm := a
			if a.Guard != nil {
				arm.Guard = Simplify(a.Guard)
			}
			arm.Body = Simplify(a.Body)
			arms[i] = arm
		}
		return &hir.MatchExpr{Subject: Simplify(n.Subject), Arms: arms}
	case *hir.AssignExpr:
		return &hir.AssignExpr{Target: n.Target, Value: Simplify(n.Value)}
	case *hir.LoopExpr:
		body, _ := Simplify(n.Body).(*hir.BlockExpr)
		return &hir.LoopExpr{Body: body}
	case *hir.LambdaExpr:
		return &hir.LambdaExpr{Params: n.Params, Body: Simplify(n.Body)}
	default:
		return e
	}
}

func simplifyBinary(op ast.BinaryOp, x, y hir.Expr) hir.Expr {
	switch op {
	case ast.OpAdd:
		if isZero(y) {
			return x
		}
		if isZero(x) {
			return y
		}
	case ast.OpSub:
		if isZero(y) {
			return x
		}
	case ast.OpMul:
		if isOne(y) {
			return x
		}
		if isOne(x) {
			return y
		}
		if isZero(x) || isZero(y) {
			return intLit(0)
		}
	case ast.OpDiv:
		if isOne(y) {
			return x
		}
	case ast.OpAnd:
		if b, ok := boolLitValue(y); ok {
			if b {
				return x // x && true -> x
			}
			return boolLit(false) // x && false -> false
		}
		if b, ok := boolLitValue(x); ok {
			if b {
				return y
			}
			return boolLit(false)
		}
	case ast.OpOr:
		if b, ok := boolLitValue(y); ok {
			if b {
				return boolLit(true) // x || true -> true
			}
			return x // x || false -> x
		}
		if b, ok := boolLitValue(x); ok {
			if b {
				return boolLit(true)
			}
			return y
		}
	}
	return nil
}

func isZero(e hir.Expr) bool {
	if v, ok := intLitValue(e); ok && v == 0 {
		return true
	}
	if v, ok := floatLitValue(e); ok && v == 0 {
		return true
	}
	return false
}

func isOne(e hir.Expr) bool {
	if v, ok := intLitValue(e); ok && v == 1 {
		return true
	}
	if v, ok := floatLitValue(e); ok && v == 1 {
		return true
	}
	return false
}
