package diagnose

import (
	"fmt"
	"strings"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/crdt"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
)

// Priority grades a Suggestion's urgency -- the same four-level scale
// DiagnoseGen's findings use. HealthScore counts suggestions only.
type Priority = Severity

const (
	PriorityLow      = Low
	PriorityMedium   = Medium
	PriorityHigh     = High
	PriorityCritical = Critical
)

// Suggestion is a schema-wide recommendation, distinct from a Finding in
// that it speaks to the gen's overall shape rather than one field's CRDT
// annotation.
type Suggestion struct {
	Priority    Priority
	Title       string
	Description string
	Rationale   string
	CodeExample string
	Impact      string
}

// shortExegesisThreshold is the word count below which an exegesis is
// flagged as too thin to be useful documentation.
const shortExegesisThreshold = 4

// AnalyzeSchema runs the suggestion engine over every gen in m and
// computes the resulting health score.
func AnalyzeSchema(m *hir.Module) (suggestions []Suggestion, healthScore int) {
	for _, d := range m.Decls {
		g, ok := d.(*hir.GenDecl)
		if !ok {
			continue
		}
		suggestions = append(suggestions, analyzeGen(m.Interner, g)...)
	}
	return suggestions, HealthScore(suggestions, m)
}

func analyzeGen(in *intern.Interner, g *hir.GenDecl) []Suggestion {
	var out []Suggestion
	fields := hasFields(g)
	name := in.Lookup(g.Name)

	if !hasFieldNamed(in, fields, "id") {
		out = append(out, Suggestion{
			Priority:    High,
			Title:       fmt.Sprintf("%s is missing an id field", name),
			Description: "every gen should carry a stable, immutable identifier",
			Rationale:   "without one, merges and external references have nothing durable to key on",
			CodeExample: "has id: String @crdt(immutable)",
			Impact:      "high: affects every future reference to this gen",
		})
	}
	if !hasFieldNamed(in, fields, "created_at") || !hasFieldNamed(in, fields, "updated_at") {
		out = append(out, Suggestion{
			Priority:    Medium,
			Title:       fmt.Sprintf("%s is missing created_at/updated_at", name),
			Description: "timestamp fields make audit and debugging straightforward",
			Rationale:   "without them, a record's history has to be reconstructed from external logs",
			CodeExample: "has created_at: I64 @crdt(immutable)\nhas updated_at: I64 @crdt(lww)",
			Impact:      "medium: mainly affects observability",
		})
	}
	for _, f := range fields {
		if f.Crdt == nil || f.Crdt.Strategy != ast.Lww {
			continue
		}
		switch crdt.ClassifyType(in, f.Type) {
		case crdt.CategorySet, crdt.CategoryVec, crdt.CategoryMap:
			out = append(out, Suggestion{
				Priority:    Medium,
				Title:       fmt.Sprintf("%s.%s uses lww on a collection", name, in.Lookup(f.Name)),
				Description: "last-write-wins on a collection discards concurrent element changes",
				Rationale:   "a collection merge strategy (or_set, rga, mv_register) preserves individual edits instead",
				CodeExample: fmt.Sprintf("has %s: ... @crdt(or_set)", in.Lookup(f.Name)),
				Impact:      "medium: silent data loss under concurrent writers",
			})
		}
	}
	if mixedAnnotations(fields) {
		out = append(out, Suggestion{
			Priority:    Low,
			Title:       fmt.Sprintf("%s mixes annotated and unannotated fields", name),
			Description: "some fields declare a CRDT strategy and others don't",
			Rationale:   "an inconsistent annotation surface makes the gen's merge behavior hard to predict at a glance",
			CodeExample: "annotate every field, or none",
			Impact:      "low: readability and predictability",
		})
	}
	if wordCount(g.Exegesis) < shortExegesisThreshold {
		out = append(out, Suggestion{
			Priority:    Low,
			Title:       fmt.Sprintf("%s has a thin exegesis", name),
			Description: "the exegesis is shorter than a useful one-sentence rationale",
			Rationale:   "a longer exegesis helps future readers understand why this gen exists",
			CodeExample: "exegesis { explain the purpose and ownership of this gen in one or two sentences. }",
			Impact:      "low: documentation quality",
		})
	}
	out = append(out, useCaseHints(in, name, fields)...)
	return out
}

// useCaseHints matches name patterns spec.md 4L calls out explicitly:
// an email field on a user-profile-shaped gen, a version field on a
// document-shaped gen.
func useCaseHints(in *intern.Interner, genName string, fields []*hir.HasFieldStmt) []Suggestion {
	var out []Suggestion
	if strings.Contains(genName, "profile") || strings.Contains(genName, "user") {
		if !hasFieldNamed(in, fields, "email") {
			out = append(out, Suggestion{
				Priority:    Low,
				Title:       genName + " looks like a user profile but has no email field",
				Description: "user-profile gens commonly need a contact address",
				Rationale:   "this is a naming heuristic, not a hard requirement -- skip it if email genuinely doesn't apply",
				CodeExample: "has email: String @crdt(lww)",
				Impact:      "low: suggestion only",
			})
		}
	}
	if strings.Contains(genName, "doc") {
		if !hasFieldNamed(in, fields, "version") {
			out = append(out, Suggestion{
				Priority:    Low,
				Title:       genName + " looks like a document but has no version field",
				Description: "document gens commonly track a revision number",
				Rationale:   "this is a naming heuristic, not a hard requirement",
				CodeExample: "has version: I32 @crdt(pn_counter)",
				Impact:      "low: suggestion only",
			})
		}
	}
	return out
}

func hasFieldNamed(in *intern.Interner, fields []*hir.HasFieldStmt, name string) bool {
	for _, f := range fields {
		if in.Lookup(f.Name) == name {
			return true
		}
	}
	return false
}

func mixedAnnotations(fields []*hir.HasFieldStmt) bool {
	var withCrdt, withoutCrdt int
	for _, f := range fields {
		if f.Crdt != nil {
			withCrdt++
		} else {
			withoutCrdt++
		}
	}
	return withCrdt > 0 && withoutCrdt > 0
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// HealthScore computes spec.md 4L's score: 100 minus 20 per critical, 10
// per high, 5 per medium suggestion; plus 5 for an id field's
// presence and 5 for a non-empty exegesis, clamped to [0,100].
func HealthScore(suggestions []Suggestion, m *hir.Module) int {
	score := 100
	for _, s := range suggestions {
		switch s.Priority {
		case Critical:
			score -= 20
		case High:
			score -= 10
		case Medium:
			score -= 5
		}
	}
	for _, d := range m.Decls {
		g, ok := d.(*hir.GenDecl)
		if !ok {
			continue
		}
		if hasFieldNamed(m.Interner, hasFields(g), "id") {
			score += 5
		}
		if wordCount(g.Exegesis) > 0 {
			score += 5
		}
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
