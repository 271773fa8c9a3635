// Package diagnose implements the advisory layer of spec.md 4L: a
// gen-level diagnostics engine, a CRDT-strategy recommender, and a
// schema-wide suggestion engine with a health score. Unlike dol/check
// and dol/crdt, its findings are advisory rather than blocking -- they
// never fail a build, only inform one -- so they are shaped as a flat
// Finding/Suggestion list rather than an errors.List, following the
// QualityIssue/ImprovementSuggestion split used elsewhere in the corpus
// for tool-quality advisories.
package diagnose

import (
	"fmt"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/crdt"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
)

// Severity grades a Finding's urgency, feeding the health-score
// deduction table in spec.md 4L.
type Severity int

const (
	Low Severity = iota
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// Category groups findings by the kind of problem they describe.
type Category string

const (
	CategoryMissingID         Category = "missing_id"
	CategoryMixedCrdt         Category = "mixed_crdt"
	CategoryLwwOverCollection Category = "lww_over_collection"
	CategoryPeritextOptions   Category = "peritext_options"
	CategoryCounterBounds     Category = "counter_bounds"
	CategorySetBounds         Category = "set_bounds"
	CategoryMvRegisterCount   Category = "mv_register_count"
	CategoryPerformanceNote   Category = "performance_note"
	CategoryGcOverhead        Category = "gc_overhead"
	CategoryImmutableConflict Category = "immutable_conflict"
)

// Finding is a single diagnostic raised against one gen.
type Finding struct {
	Severity   Severity
	Category   Category
	Message    string
	Suggestion string
	Field      string // empty if the finding is gen-wide rather than field-specific
}

// Options configures how strict the engine is. The three "if strict"
// checks of spec.md 4L (missing ID, counter bounds, set bounds) only
// fire when Strict is set, matching schemas that opt into production
// rigor over a prototyping fast path.
type Options struct {
	Strict bool
}

// DiagnoseGen runs every check of spec.md 4L against one gen declaration.
func DiagnoseGen(in *intern.Interner, g *hir.GenDecl, opts Options) []Finding {
	var findings []Finding
	fields := hasFields(g)

	findings = append(findings, checkMissingID(in, fields, opts)...)
	findings = append(findings, checkMixedCrdt(in, fields)...)
	findings = append(findings, checkLwwOverCollection(in, fields)...)
	findings = append(findings, checkPeritextOptions(in, fields)...)
	findings = append(findings, checkCounterBounds(in, fields, opts)...)
	findings = append(findings, checkSetBounds(in, fields, opts)...)
	findings = append(findings, checkMvRegisterCount(in, fields)...)
	findings = append(findings, checkPeritextRgaCoexistence(in, fields)...)
	findings = append(findings, checkOrSetGcOverhead(in, fields)...)
	findings = append(findings, checkImmutableConflict(in, fields)...)
	return findings
}

func hasFields(g *hir.GenDecl) []*hir.HasFieldStmt {
	var out []*hir.HasFieldStmt
	for _, s := range g.Statements {
		if hf, ok := s.(*hir.HasFieldStmt); ok {
			out = append(out, hf)
		}
	}
	return out
}

func checkMissingID(in *intern.Interner, fields []*hir.HasFieldStmt, opts Options) []Finding {
	if !opts.Strict {
		return nil
	}
	for _, f := range fields {
		name := in.Lookup(f.Name)
		if name == "id" && f.Crdt != nil && f.Crdt.Strategy == ast.Immutable {
			return nil
		}
	}
	return []Finding{{
		Severity:   High,
		Category:   CategoryMissingID,
		Message:    "gen has no immutable id field",
		Suggestion: "add `has id: String @crdt(immutable)`",
	}}
}

func checkMixedCrdt(in *intern.Interner, fields []*hir.HasFieldStmt) []Finding {
	var withCrdt, withoutCrdt int
	for _, f := range fields {
		if f.Crdt != nil {
			withCrdt++
		} else {
			withoutCrdt++
		}
	}
	if withCrdt > 0 && withoutCrdt > 0 {
		return []Finding{{
			Severity:   Medium,
			Category:   CategoryMixedCrdt,
			Message:    "gen mixes fields with and without a CRDT strategy",
			Suggestion: "annotate every field with @crdt(...), or none, for a consistent merge story",
		}}
	}
	return nil
}

func checkLwwOverCollection(in *intern.Interner, fields []*hir.HasFieldStmt) []Finding {
	var out []Finding
	for _, f := range fields {
		if f.Crdt == nil || f.Crdt.Strategy != ast.Lww {
			continue
		}
		switch crdt.ClassifyType(in, f.Type) {
		case crdt.CategorySet, crdt.CategoryVec, crdt.CategoryMap:
			name := in.Lookup(f.Name)
			out = append(out, Finding{
				Severity:   Medium,
				Category:   CategoryLwwOverCollection,
				Message:    fmt.Sprintf("field %q uses lww over a collection, discarding concurrent element-level edits", name),
				Suggestion: "prefer or_set, rga, or mv_register for collection fields",
				Field:      name,
			})
		}
	}
	return out
}

func checkPeritextOptions(in *intern.Interner, fields []*hir.HasFieldStmt) []Finding {
	var out []Finding
	for _, f := range fields {
		if f.Crdt == nil || f.Crdt.Strategy != ast.Peritext {
			continue
		}
		if _, ok := f.Crdt.Options[in.Intern("max_length")]; ok {
			continue
		}
		name := in.Lookup(f.Name)
		out = append(out, Finding{
			Severity:   Low,
			Category:   CategoryPeritextOptions,
			Message:    fmt.Sprintf("field %q uses peritext without a max_length option", name),
			Suggestion: "add @crdt(peritext, max_length=...) to bound growth",
			Field:      name,
		})
	}
	return out
}

func checkCounterBounds(in *intern.Interner, fields []*hir.HasFieldStmt, opts Options) []Finding {
	if !opts.Strict {
		return nil
	}
	var out []Finding
	for _, f := range fields {
		if f.Crdt == nil || f.Crdt.Strategy != ast.PnCounter {
			continue
		}
		_, hasMin := f.Crdt.Options[in.Intern("min_value")]
		_, hasMax := f.Crdt.Options[in.Intern("max_value")]
		if hasMin && hasMax {
			continue
		}
		name := in.Lookup(f.Name)
		out = append(out, Finding{
			Severity:   Medium,
			Category:   CategoryCounterBounds,
			Message:    fmt.Sprintf("field %q uses pn_counter without min_value/max_value", name),
			Suggestion: "add @crdt(pn_counter, min_value=..., max_value=...) in strict mode",
			Field:      name,
		})
	}
	return out
}

func checkSetBounds(in *intern.Interner, fields []*hir.HasFieldStmt, opts Options) []Finding {
	if !opts.Strict {
		return nil
	}
	var out []Finding
	for _, f := range fields {
		if f.Crdt == nil || f.Crdt.Strategy != ast.OrSet {
			continue
		}
		if f.Constraint != nil {
			continue
		}
		name := in.Lookup(f.Name)
		out = append(out, Finding{
			Severity:   Medium,
			Category:   CategorySetBounds,
			Message:    fmt.Sprintf("field %q uses or_set without a size constraint", name),
			Suggestion: "add a where clause bounding the set's size in strict mode",
			Field:      name,
		})
	}
	return out
}

func checkMvRegisterCount(in *intern.Interner, fields []*hir.HasFieldStmt) []Finding {
	count := 0
	for _, f := range fields {
		if f.Crdt != nil && f.Crdt.Strategy == ast.MvRegister {
			count++
		}
	}
	if count > 3 {
		return []Finding{{
			Severity:   Medium,
			Category:   CategoryMvRegisterCount,
			Message:    fmt.Sprintf("gen has %d mv_register fields; each one exposes conflicting writes to callers", count),
			Suggestion: "pick a merge strategy that resolves automatically where possible",
		}}
	}
	return nil
}

func checkPeritextRgaCoexistence(in *intern.Interner, fields []*hir.HasFieldStmt) []Finding {
	hasPeritext, hasRga := false, false
	for _, f := range fields {
		if f.Crdt == nil {
			continue
		}
		switch f.Crdt.Strategy {
		case ast.Peritext:
			hasPeritext = true
		case ast.Rga:
			hasRga = true
		}
	}
	if hasPeritext && hasRga {
		return []Finding{{
			Severity:   Low,
			Category:   CategoryPerformanceNote,
			Message:    "gen combines peritext and rga fields; both keep tombstoned history and compound merge cost",
			Suggestion: "profile merge latency if this gen sees high write volume",
		}}
	}
	return nil
}

func checkOrSetGcOverhead(in *intern.Interner, fields []*hir.HasFieldStmt) []Finding {
	count := 0
	for _, f := range fields {
		if f.Crdt != nil && f.Crdt.Strategy == ast.OrSet {
			switch crdt.ClassifyType(in, f.Type) {
			case crdt.CategorySet:
				count++
			}
		}
	}
	if count > 5 {
		return []Finding{{
			Severity:   Low,
			Category:   CategoryGcOverhead,
			Message:    fmt.Sprintf("gen has %d or_set fields; tombstone garbage collection across all of them adds up", count),
			Suggestion: "consolidate related sets or schedule periodic compaction",
		}}
	}
	return nil
}

func checkImmutableConflict(in *intern.Interner, fields []*hir.HasFieldStmt) []Finding {
	var out []Finding
	for _, f := range fields {
		if f.Crdt == nil || f.Crdt.Strategy != ast.Immutable || f.Constraint == nil {
			continue
		}
		if crdt.ClassifyConstraint(in, f.Constraint) != crdt.TaxonomyNone {
			name := in.Lookup(f.Name)
			out = append(out, Finding{
				Severity:   High,
				Category:   CategoryImmutableConflict,
				Message:    fmt.Sprintf("field %q is immutable but its constraint implies mutation", name),
				Suggestion: "drop the constraint, or choose a mutable strategy",
				Field:      name,
			})
		}
	}
	return out
}
