package tool

import (
	"strings"

	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/parser"
)

// parseAndLower runs the source front-end (parse + HIR lowering) and
// collects every diagnostic produced along the way. Lowering itself never
// fails (dol/hir.Lower is total), so a nil module only happens when
// parsing failed badly enough to produce no *ast.File at all, which the
// parser never actually does -- it always returns a (possibly partial)
// file alongside its error list.
func parseAndLower(filename, src string) (*hir.Module, *errors.List) {
	f, errs := parser.ParseFile(filename, []byte(src))
	m := hir.Lower(f)
	return m, errs
}

func diagnosticsText(errs *errors.List) string {
	var b strings.Builder
	for _, d := range errs.All() {
		b.WriteString(d.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func diagnosticSummaries(errs *errors.List) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(errs.All()))
	for _, d := range errs.All() {
		out = append(out, map[string]interface{}{
			"kind":    d.Kind.String(),
			"warning": d.Kind.IsWarning(),
			"message": d.Error(),
		})
	}
	return out
}

const sourceArgKey = "source"
