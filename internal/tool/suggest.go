package tool

import (
	"github.com/univrs/dol/check"
	"github.com/univrs/dol/crdt"
	"github.com/univrs/dol/diagnose"
	"github.com/univrs/dol/errors"
)

// toolValidateAndSuggest runs the complete pipeline -- validator, CRDT
// checker, per-gen findings and schema-wide suggestions -- and returns
// everything plus the resulting health score in one call, for a caller
// that wants a single round trip instead of chaining typecheck,
// validate_schema and get_suggestions separately.
func (d *Dispatcher) toolValidateAndSuggest(args map[string]string) (Result, error) {
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
	suggestions, score := diagnose.AnalyzeSchema(m)

	return jsonResult(map[string]interface{}{
		"ok":          !all.HasErrors(),
		"diagnostics": diagnosticSummaries(all),
		"findings":    findingsToMaps(findings),
		"suggestions": suggestionsToMaps(suggestions),
		"healthScore": score,
	}), nil
}

// toolGetSuggestions runs only the schema-wide suggestion engine and
// health score, without re-running the validator or per-field findings.
func (d *Dispatcher) toolGetSuggestions(args map[string]string) (Result, error) {
	src, err := requireArg(args, sourceArgKey)
	if err != nil {
		return Result{}, err
	}
	m, _ := parseAndLower("<tool>", src)
	suggestions, score := diagnose.AnalyzeSchema(m)
	return jsonResult(map[string]interface{}{
		"suggestions": suggestionsToMaps(suggestions),
		"healthScore": score,
	}), nil
}

func suggestionsToMaps(suggestions []diagnose.Suggestion) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, map[string]interface{}{
			"priority":    s.Priority.String(),
			"title":       s.Title,
			"description": s.Description,
			"rationale":   s.Rationale,
			"codeExample": s.CodeExample,
			"impact":      s.Impact,
		})
	}
	return out
}
