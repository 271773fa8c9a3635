package tool

import "github.com/univrs/dol/parser"

// toolParse parses a source string and reports its diagnostics. It does
// not run the validator or CRDT checker -- those are the typecheck tool's
// job -- so a syntactically clean file with dangling references reports
// clean here.
func (d *Dispatcher) toolParse(args map[string]string) (Result, error) {
	src, err := requireArg(args, sourceArgKey)
	if err != nil {
		return Result{}, err
	}
	filename := arg(args, "filename")
	if filename == "" {
		filename = "<tool>"
	}
	_, errs := parser.ParseFile(filename, []byte(src))
	return jsonResult(map[string]interface{}{
		"ok":          !errs.HasErrors(),
		"diagnostics": diagnosticSummaries(errs),
	}), nil
}
