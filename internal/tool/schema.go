package tool

import (
	"fmt"
	"strings"

	"github.com/univrs/dol/check"
	"github.com/univrs/dol/crdt"
	"github.com/univrs/dol/diagnose"
	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/hir"
)

// toolValidateSchema runs the full validator stack (scope/type + CRDT)
// plus the diagnostics engine's per-gen checks, without the suggestion
// engine's schema-wide advice -- that lives in validate_and_suggest.
func (d *Dispatcher) toolValidateSchema(args map[string]string) (Result, error) {
	src, err := requireArg(args, sourceArgKey)
	if err != nil {
		return Result{}, err
	}
	strict := arg(args, "strict") == "true"

	m, parseErrs := parseAndLower("<tool>", src)
	all := &errors.List{}
	all.Merge(parseErrs)
	all.Merge(check.Check(m))
	all.Merge(crdt.Check(m))

	findings := diagnoseAllGens(m, diagnose.Options{Strict: strict})

	return jsonResult(map[string]interface{}{
		"ok":          !all.HasErrors(),
		"diagnostics": diagnosticSummaries(all),
		"findings":    findingsToMaps(findings),
	}), nil
}

func diagnoseAllGens(m *hir.Module, opts diagnose.Options) []diagnose.Finding {
	var out []diagnose.Finding
	for _, decl := range m.Decls {
		g, ok := decl.(*hir.GenDecl)
		if !ok {
			continue
		}
		out = append(out, diagnose.DiagnoseGen(m.Interner, g, opts)...)
	}
	return out
}

func findingsToMaps(findings []diagnose.Finding) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(findings))
	for _, f := range findings {
		out = append(out, map[string]interface{}{
			"severity":   f.Severity.String(),
			"category":   string(f.Category),
			"message":    f.Message,
			"suggestion": f.Suggestion,
			"field":      f.Field,
		})
	}
	return out
}

// toolGenerateSchemaFromDescription produces a minimal gen skeleton from
// a free-text description: an identifier, an audit timestamp pair and
// the description itself as the exegesis, following the same
// id/created_at/updated_at idiom dol/diagnose's suggestion engine
// recommends for every gen. The qualified name is either given directly
// or derived from the description's first significant word.
func (d *Dispatcher) toolGenerateSchemaFromDescription(args map[string]string) (Result, error) {
	description, err := requireArg(args, "description")
	if err != nil {
		return Result{}, err
	}
	name := arg(args, "name")
	if name == "" {
		name = deriveGenName(description)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "gen %s {\n", name)
	b.WriteString("  has id: String @crdt(immutable)\n")
	b.WriteString("  has created_at: I64 @crdt(immutable)\n")
	b.WriteString("  has updated_at: I64 @crdt(lww)\n")
	b.WriteString("}\n")
	fmt.Fprintf(&b, "exegesis { %s }\n", description)

	return textResult(b.String()), nil
}

func deriveGenName(description string) string {
	fields := strings.Fields(strings.ToLower(description))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?")
		if f == "" || stopWords[f] {
			continue
		}
		return "generated." + f
	}
	return "generated.item"
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "for": true, "and": true,
	"to": true, "is": true, "that": true, "this": true, "with": true,
}
