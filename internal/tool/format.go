package tool

import (
	"github.com/univrs/dol/format"
	"github.com/univrs/dol/parser"
)

// toolFormat pretty-prints source back to its canonical textual form. It
// deliberately formats even a file whose diagnostics contain errors --
// the teacher's own `cue fmt` likewise formats whatever parsed, leaving
// the separate `typecheck` tool to report correctness problems.
func (d *Dispatcher) toolFormat(args map[string]string) (Result, error) {
	src, err := requireArg(args, sourceArgKey)
	if err != nil {
		return Result{}, err
	}
	filename := arg(args, "filename")
	if filename == "" {
		filename = "<tool>"
	}
	f, _ := parser.ParseFile(filename, []byte(src))
	return textResult(format.File(f)), nil
}
