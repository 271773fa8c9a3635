package tool

import (
	"github.com/univrs/dol/check"
	"github.com/univrs/dol/crdt"
	"github.com/univrs/dol/errors"
)

// toolTypecheck runs the full front-end: parse, lower, scope/type
// validation (dol/check) and the CRDT semantic checker (dol/crdt), and
// aggregates every diagnostic into one list, matching spec.md 7's "never
// collapses them into strings" until this final reporting step.
func (d *Dispatcher) toolTypecheck(args map[string]string) (Result, error) {
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

	return jsonResult(map[string]interface{}{
		"ok":          !all.HasErrors(),
		"diagnostics": diagnosticSummaries(all),
	}), nil
}
