package transform

import (
	"testing"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
	"github.com/univrs/dol/parser"
)

var testInterner = intern.New()

func xSymbol() intern.Symbol { return testInterner.Intern("x") }

func mustLower(t *testing.T, src string) *hir.Module {
	t.Helper()
	f, errs := parser.ParseFile("t.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Errors())
	}
	return hir.Lower(f)
}

func lit(kind ast.BasicLitKind, v string) *hir.BasicLit { return &hir.BasicLit{Kind: kind, Value: v} }

func TestFoldIntegerArithmetic(t *testing.T) {
	e := &hir.BinaryExpr{Op: ast.OpAdd, X: lit(ast.LitInt, "40"), Y: lit(ast.LitInt, "2")}
	got := FoldExpr(e).(*hir.BasicLit)
	if got.Value != "42" {
		t.Fatalf("expected 42, got %s", got.Value)
	}
}

func TestFoldIntegerOverflowWraps(t *testing.T) {
	// 9223372036854775807 is math.MaxInt64; adding 1 wraps to the minimum.
	e := &hir.BinaryExpr{Op: ast.OpAdd, X: lit(ast.LitInt, "9223372036854775807"), Y: lit(ast.LitInt, "1")}
	got := FoldExpr(e).(*hir.BasicLit)
	if got.Value != "-9223372036854775808" {
		t.Fatalf("expected wraparound to the minimum int64, got %s", got.Value)
	}
}

func TestFoldFloatArithmetic(t *testing.T) {
	e := &hir.BinaryExpr{Op: ast.OpMul, X: lit(ast.LitFloat, "1.5"), Y: lit(ast.LitFloat, "2")}
	got := FoldExpr(e).(*hir.BasicLit)
	if got.Value != "3" {
		t.Fatalf("expected 3, got %s", got.Value)
	}
}

func TestFoldConstantIfCollapsesToBranch(t *testing.T) {
	e := &hir.IfExpr{Cond: lit(ast.LitBool, "true"), Then: lit(ast.LitInt, "1"), Else: lit(ast.LitInt, "2")}
	got := FoldExpr(e).(*hir.BasicLit)
	if got.Value != "1" {
		t.Fatalf("expected the then-branch to survive, got %s", got.Value)
	}
}

func TestSimplifyAdditiveIdentity(t *testing.T) {
	x := &hir.Ident{Name: xSymbol()}
	e := &hir.BinaryExpr{Op: ast.OpAdd, X: x, Y: lit(ast.LitInt, "0")}
	got := Simplify(e)
	if got != hir.Expr(x) {
		t.Fatalf("expected x+0 to simplify to x itself")
	}
}

func TestSimplifyMultiplicativeZero(t *testing.T) {
	x := &hir.Ident{Name: xSymbol()}
	e := &hir.BinaryExpr{Op: ast.OpMul, X: x, Y: lit(ast.LitInt, "0")}
	got := Simplify(e).(*hir.BasicLit)
	if got.Value != "0" {
		t.Fatalf("expected x*0 to simplify to 0, got %s", got.Value)
	}
}

func TestSimplifyDoubleNegation(t *testing.T) {
	x := &hir.Ident{Name: xSymbol()}
	e := &hir.UnaryExpr{Op: ast.OpNot, X: &hir.UnaryExpr{Op: ast.OpNot, X: x}}
	got := Simplify(e)
	if got != hir.Expr(x) {
		t.Fatalf("expected !!x to collapse to x")
	}
}

func TestSimplifyShortCircuitOr(t *testing.T) {
	x := &hir.Ident{Name: xSymbol()}
	e := &hir.BinaryExpr{Op: ast.OpOr, X: x, Y: lit(ast.LitBool, "true")}
	got := Simplify(e).(*hir.BasicLit)
	if got.Value != "true" {
		t.Fatalf("expected x||true to simplify to true, got %s", got.Value)
	}
}

// TestTreeShakingRemovesUnreachablePrivateGen is the literal S4 scenario:
// a private, unused gen is eliminated while a public gen and what it
// depends on survive.
func TestTreeShakingRemovesUnreachablePrivateGen(t *testing.T) {
	src := `pub gen api.surface {
  uses api.helper
}
exegesis { the public entry point. }

gen api.helper {
  api has detail
}
exegesis { used only by the public surface. }

gen api.orphan {
  api has nothing
}
exegesis { never referenced by anything public. }`
	m := mustLower(t, src)
	shaken := Shake(m, nil)

	names := map[string]bool{}
	for _, d := range shaken.Decls {
		if g, ok := d.(*hir.GenDecl); ok {
			names[m.Interner.Lookup(g.Name)] = true
		}
	}
	if !names["api.surface"] || !names["api.helper"] {
		t.Fatalf("expected the public gen and its dependency to survive, got %v", names)
	}
	if names["api.orphan"] {
		t.Fatalf("expected the orphaned private gen to be eliminated, got %v", names)
	}
}

func TestAnalyzeDoesNotMutateInput(t *testing.T) {
	src := `pub gen api.surface {
  api has field
}
exegesis { a public gen with no dependencies. }

gen api.orphan {
  api has nothing
}
exegesis { unreachable private gen. }`
	m := mustLower(t, src)
	before := len(m.Decls)
	stats := Analyze(m, nil)
	if len(m.Decls) != before {
		t.Fatalf("Analyze must not mutate its input module")
	}
	if stats.Total != 2 || stats.Retained != 1 || stats.Eliminated != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(stats.EliminatedNames) != 1 || stats.EliminatedNames[0] != "api.orphan" {
		t.Fatalf("expected api.orphan to be reported eliminated, got %v", stats.EliminatedNames)
	}
}
