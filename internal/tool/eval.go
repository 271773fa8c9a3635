package tool

import (
	"fmt"

	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/parser"
	"github.com/univrs/dol/render"
	"github.com/univrs/dol/transform"
)

// toolEval implements the "definitional interpreter for constant folding"
// carved out in spec.md's non-goals: it is the constant folder run to a
// fixed point over a single closed expression, not a general evaluator.
// The expression is wrapped in a throwaway const declaration so it can
// ride through the existing parser and lowerer unchanged, the same trick
// a REPL built on a file-oriented compiler typically uses.
func (d *Dispatcher) toolEval(args map[string]string) (Result, error) {
	expr, err := requireArg(args, "expr")
	if err != nil {
		return Result{}, err
	}
	src := "const __eval__ = " + expr + "\n"
	f, errs := parser.ParseFile("<eval>", []byte(src))
	if errs.HasErrors() {
		return jsonResult(map[string]interface{}{
			"ok":          false,
			"diagnostics": diagnosticSummaries(errs),
		}), nil
	}

	m := hir.Lower(f)
	val := evalConstValue(m)
	if val == nil {
		return Result{}, fmt.Errorf("tool: eval: no expression was lowered")
	}

	folded := transform.FoldExpr(val)
	return textResult(render.DefaultValue(folded, render.TargetSchema)), nil
}

func evalConstValue(m *hir.Module) hir.Expr {
	for _, d := range m.Decls {
		if c, ok := d.(*hir.ConstDecl); ok {
			return c.Value
		}
	}
	return nil
}
