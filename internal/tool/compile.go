package tool

import (
	"github.com/univrs/dol/check"
	"github.com/univrs/dol/crdt"
	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/render"
)

var compileTargets = map[string]render.Target{
	"rust":       render.TargetSystems,
	"typescript": render.TargetStructuralWeb,
	"wasm":       render.TargetComponentModel,
}

// toolCompile returns a Handler bound to one of the three named emission
// tools (compile_rust, compile_typescript, compile_wasm). A single
// closure keeps the three registrations from drifting apart, the way
// spec.md 6 lists them as siblings rather than one tool with a target
// parameter.
func (d *Dispatcher) toolCompile(targetName string) Handler {
	target := compileTargets[targetName]
	return func(args map[string]string) (Result, error) {
		src, err := requireArg(args, sourceArgKey)
		if err != nil {
			return Result{}, err
		}
		filename := arg(args, "filename")
		if filename == "" {
			filename = "<tool>"
		}

		m, parseErrs := parseAndLower(filename, src)
		all := &errors.List{}
		all.Merge(parseErrs)
		all.Merge(check.Check(m))
		all.Merge(crdt.Check(m))
		if all.HasErrors() {
			return jsonResult(map[string]interface{}{
				"ok":          false,
				"diagnostics": diagnosticSummaries(all),
			}), nil
		}

		out, err := render.NewEngine().Render(m, target)
		if err != nil {
			return Result{}, err
		}
		return textResult(out), nil
	}
}
