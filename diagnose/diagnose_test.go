package diagnose

import (
	"strings"
	"testing"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/parser"
)

func mustLower(t *testing.T, src string) *hir.Module {
	t.Helper()
	f, errs := parser.ParseFile("t.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Errors())
	}
	return hir.Lower(f)
}

func firstGen(t *testing.T, m *hir.Module) *hir.GenDecl {
	t.Helper()
	for _, d := range m.Decls {
		if g, ok := d.(*hir.GenDecl); ok {
			return g
		}
	}
	t.Fatalf("expected at least one gen declaration")
	return nil
}

func findCategory(findings []Finding, cat Category) (Finding, bool) {
	for _, f := range findings {
		if f.Category == cat {
			return f, true
		}
	}
	return Finding{}, false
}

func TestDiagnoseMixedCrdtFields(t *testing.T) {
	src := `gen doc.item {
  has title: String @crdt(lww)
  has owner: String
}
exegesis { a document item with mixed annotations. }`
	m := mustLower(t, src)
	g := firstGen(t, m)
	findings := DiagnoseGen(m.Interner, g, Options{})
	if _, ok := findCategory(findings, CategoryMixedCrdt); !ok {
		t.Fatalf("expected a mixed-crdt finding, got %+v", findings)
	}
}

func TestDiagnoseLwwOverCollection(t *testing.T) {
	src := `gen doc.item {
  has tags: Vec<String> @crdt(lww)
}
exegesis { a document item whose tags use lww. }`
	m := mustLower(t, src)
	g := firstGen(t, m)
	findings := DiagnoseGen(m.Interner, g, Options{})
	f, ok := findCategory(findings, CategoryLwwOverCollection)
	if !ok {
		t.Fatalf("expected an lww-over-collection finding, got %+v", findings)
	}
	if f.Field != "tags" {
		t.Fatalf("expected the finding to name the tags field, got %q", f.Field)
	}
}

func TestDiagnosePeritextWithoutMaxLength(t *testing.T) {
	src := `gen doc.item {
  has body: String @crdt(peritext)
}
exegesis { a document item with unbounded peritext. }`
	m := mustLower(t, src)
	g := firstGen(t, m)
	findings := DiagnoseGen(m.Interner, g, Options{})
	if _, ok := findCategory(findings, CategoryPeritextOptions); !ok {
		t.Fatalf("expected a peritext-options finding, got %+v", findings)
	}
}

func TestDiagnoseMissingIDOnlyWhenStrict(t *testing.T) {
	src := `gen doc.item {
  has title: String @crdt(lww)
}
exegesis { a document item with no id field. }`
	m := mustLower(t, src)
	g := firstGen(t, m)

	lenient := DiagnoseGen(m.Interner, g, Options{Strict: false})
	if _, ok := findCategory(lenient, CategoryMissingID); ok {
		t.Fatalf("missing-id should not fire outside strict mode")
	}
	strict := DiagnoseGen(m.Interner, g, Options{Strict: true})
	if _, ok := findCategory(strict, CategoryMissingID); !ok {
		t.Fatalf("expected a missing-id finding in strict mode")
	}
}

func TestDiagnoseMoreThanThreeMvRegisterFields(t *testing.T) {
	src := `gen doc.item {
  has a: String @crdt(mv_register)
  has b: String @crdt(mv_register)
  has c: String @crdt(mv_register)
  has d: String @crdt(mv_register)
}
exegesis { a document item with four mv_register fields. }`
	m := mustLower(t, src)
	g := firstGen(t, m)
	findings := DiagnoseGen(m.Interner, g, Options{})
	if _, ok := findCategory(findings, CategoryMvRegisterCount); !ok {
		t.Fatalf("expected an mv-register-count finding, got %+v", findings)
	}
}

func TestDiagnoseImmutableWithMutationConstraint(t *testing.T) {
	src := `gen doc.item {
  has total: I32 where bound(total) @crdt(immutable)
}
exegesis { a document item with a conflicting immutable field. }`
	m := mustLower(t, src)
	g := firstGen(t, m)
	findings := DiagnoseGen(m.Interner, g, Options{})
	f, ok := findCategory(findings, CategoryImmutableConflict)
	if !ok {
		t.Fatalf("expected an immutable-conflict finding, got %+v", findings)
	}
	if f.Severity != High {
		t.Fatalf("expected High severity, got %v", f.Severity)
	}
}

// TestRecommendCollaborativeTextIsS5 is the literal S5 scenario.
func TestRecommendCollaborativeTextIsS5(t *testing.T) {
	rec := Recommend("content", "String", PatternCollaborativeText, Eventual)
	if rec.Strategy != ast.Peritext {
		t.Fatalf("expected peritext, got %v", rec.Strategy)
	}
	if rec.Confidence != ConfidenceHigh {
		t.Fatalf("expected High confidence, got %v", rec.Confidence)
	}
	if !strings.Contains(rec.Reasoning, "collaborative") {
		t.Fatalf("expected reasoning to mention collaborative, got %q", rec.Reasoning)
	}
	var names []string
	for _, a := range rec.Alternatives {
		names = append(names, a.Strategy.String())
	}
	if !contains(names, "lww") || !contains(names, "mv_register") {
		t.Fatalf("expected alternatives to include lww and mv_register, got %v", names)
	}
}

func TestRecommendCounterPattern(t *testing.T) {
	rec := Recommend("visits", "I32", PatternCounter, Eventual)
	if rec.Strategy != ast.PnCounter {
		t.Fatalf("expected pn_counter, got %v", rec.Strategy)
	}
}

func TestRecommendWriteOnceFavorsImmutable(t *testing.T) {
	rec := Recommend("signature", "String", PatternWriteOnce, Strong)
	if rec.Strategy != ast.Immutable {
		t.Fatalf("expected immutable, got %v", rec.Strategy)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestAnalyzeSchemaFlagsMissingID(t *testing.T) {
	src := `gen doc.item {
  has title: String @crdt(lww)
}
exegesis { short. }`
	m := mustLower(t, src)
	suggestions, score := AnalyzeSchema(m)
	found := false
	for _, s := range suggestions {
		if s.Title == "doc.item is missing an id field" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-id suggestion, got %+v", suggestions)
	}
	if score < 0 || score > 100 {
		t.Fatalf("health score out of bounds: %d", score)
	}
}

func TestHealthScoreBounds(t *testing.T) {
	src := `gen doc.item {
  has id: String @crdt(immutable)
  has created_at: I64 @crdt(immutable)
  has updated_at: I64 @crdt(lww)
}
exegesis { a well-formed document item with every recommended field. }`
	m := mustLower(t, src)
	_, score := AnalyzeSchema(m)
	if score < 0 || score > 100 {
		t.Fatalf("expected score in [0,100], got %d", score)
	}
	if score < 100 {
		t.Fatalf("expected a fully-formed gen to score 100, got %d", score)
	}
}
