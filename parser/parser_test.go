package parser

import (
	"testing"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/errors"
)

func TestMinimalGenParses(t *testing.T) {
	src := `gen container.exists {
  container has identity
}
exegesis { A container is the unit of isolation. }`

	f, errs := ParseFile("s1.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	if len(f.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d: %v", len(f.Decls), f.Decls)
	}
	g, ok := f.Decls[0].(*ast.GenDecl)
	if !ok {
		t.Fatalf("expected *ast.GenDecl, got %T", f.Decls[0])
	}
	if g.Name != "container.exists" {
		t.Fatalf("got name %q", g.Name)
	}
	if g.Exegesis == "" {
		t.Fatalf("expected non-empty exegesis")
	}
	if len(g.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(g.Statements))
	}
	pred, ok := g.Statements[0].(*ast.PredicateStmt)
	if !ok {
		t.Fatalf("expected *ast.PredicateStmt, got %T", g.Statements[0])
	}
	if pred.Kind != ast.PredHas {
		t.Fatalf("expected PredHas, got %v", pred.Kind)
	}
	if pred.Subject != "container" || pred.Object != "identity" {
		t.Fatalf("got subject=%q object=%q", pred.Subject, pred.Object)
	}
}

func TestMissingExegesisReportsAtEOF(t *testing.T) {
	src := `gen container.exists {
  container has identity
}`
	_, errs := ParseFile("s2.dol", []byte(src))
	if !errs.HasErrors() {
		t.Fatalf("expected an error")
	}
	found := false
	for _, d := range errs.Errors() {
		if d.Kind == errors.ParseMissingExegesis {
			found = true
			if !d.Span.Start.IsValid() {
				t.Fatalf("expected a valid span on the missing-exegesis error")
			}
		}
	}
	if !found {
		t.Fatalf("expected a ParseMissingExegesis diagnostic, got %v", errs.Errors())
	}
}

func TestHasFieldWithCrdtAnnotation(t *testing.T) {
	src := `gen doc.text {
  has count: String @crdt(pn_counter)
}
exegesis { a document }`
	f, errs := ParseFile("s3.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	g := f.Decls[0].(*ast.GenDecl)
	hf, ok := g.Statements[0].(*ast.HasFieldStmt)
	if !ok {
		t.Fatalf("expected *ast.HasFieldStmt, got %T", g.Statements[0])
	}
	if hf.Name != "count" {
		t.Fatalf("got field name %q", hf.Name)
	}
	nt, ok := hf.Type.(*ast.NamedType)
	if !ok || nt.Name != "String" {
		t.Fatalf("got type %#v", hf.Type)
	}
	if hf.Crdt == nil || hf.Crdt.Strategy != ast.PnCounter {
		t.Fatalf("expected pn_counter crdt annotation, got %#v", hf.Crdt)
	}
}

func TestSystemRequiresAndVersion(t *testing.T) {
	src := `system deployment.prod @ 1.0.0 requires storage.layer >= 2.1.0 {
  uses storage.layer
}
exegesis { production deployment }`
	f, errs := ParseFile("sys.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	s, ok := f.Decls[0].(*ast.SystemDecl)
	if !ok {
		t.Fatalf("expected *ast.SystemDecl, got %T", f.Decls[0])
	}
	if s.Version.String() != "1.0.0" {
		t.Fatalf("got version %v", s.Version)
	}
	if len(s.Requirements) != 1 || s.Requirements[0].Name != "storage.layer" {
		t.Fatalf("got requirements %#v", s.Requirements)
	}
	if len(s.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(s.Statements))
	}
	use, ok := s.Statements[0].(*ast.PredicateStmt)
	if !ok || use.Kind != ast.PredUses || use.Object != "storage.layer" {
		t.Fatalf("got %#v", s.Statements[0])
	}
}

func TestEvoLineage(t *testing.T) {
	src := `evo foo @ 0.0.1 > 0.0.2 {
  adds new_field
} because "testing lineage order"
exegesis { evolution record }`
	f, errs := ParseFile("evo.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	e, ok := f.Decls[0].(*ast.EvoDecl)
	if !ok {
		t.Fatalf("expected *ast.EvoDecl, got %T", f.Decls[0])
	}
	if e.NewVersion.String() != "0.0.1" || e.ParentVersion.String() != "0.0.2" {
		t.Fatalf("got new=%v parent=%v", e.NewVersion, e.ParentVersion)
	}
	if len(e.Additions) != 1 || e.Additions[0] != "new_field" {
		t.Fatalf("got additions %v", e.Additions)
	}
	if e.Rationale != "testing lineage order" {
		t.Fatalf("got rationale %q", e.Rationale)
	}
}

func TestQuantifiedStatement(t *testing.T) {
	src := `trait replicable {
  each field has crdt_strategy
}
exegesis { replicable fields carry a strategy }`
	f, errs := ParseFile("quant.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	tr := f.Decls[0].(*ast.TraitDecl)
	q, ok := tr.Statements[0].(*ast.QuantifiedStmt)
	if !ok {
		t.Fatalf("expected *ast.QuantifiedStmt, got %T", tr.Statements[0])
	}
	if q.Quantifier != ast.QEach {
		t.Fatalf("expected QEach, got %v", q.Quantifier)
	}
	if q.Inner == nil {
		t.Fatalf("expected a recognized embedded predicate")
	}
	pred, ok := q.Inner.(*ast.PredicateStmt)
	if !ok || pred.Kind != ast.PredHas {
		t.Fatalf("got inner %#v", q.Inner)
	}
}

func TestDerivesFromStatement(t *testing.T) {
	src := `gen child.entity {
  child entity derives from parent entity
}
exegesis { a derived entity }`
	f, errs := ParseFile("derives.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	g := f.Decls[0].(*ast.GenDecl)
	pred, ok := g.Statements[0].(*ast.PredicateStmt)
	if !ok || pred.Kind != ast.PredDerivesFrom {
		t.Fatalf("got %#v", g.Statements[0])
	}
}

func TestFuncDeclWithExpressionBody(t *testing.T) {
	src := `fn area(width: F64, height: F64) -> F64 {
  width * height
}
exegesis { computes rectangle area }`
	f, errs := ParseFile("fn.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", f.Decls[0])
	}
	if fn.Name != "area" || len(fn.Params) != 2 {
		t.Fatalf("got %#v", fn)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	es, ok := fn.Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", fn.Body[0])
	}
	if _, ok := es.X.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected *ast.BinaryExpr, got %T", es.X)
	}
}

func TestParserNeverPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("parser panicked: %v", r)
		}
	}()
	inputs := []string{
		"",
		"gen",
		"gen }",
		"gen a { has",
		"system a @ { }",
		"evo @ > {",
		"fn (",
		"pub(",
	}
	for _, src := range inputs {
		ParseFile("fuzz.dol", []byte(src))
	}
}
