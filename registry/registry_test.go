package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"

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

func TestGenEntryExposesFields(t *testing.T) {
	src := `gen doc.item {
  has title: String
  has count: I32 @crdt(pn_counter)
  has owner: String where len(owner) > 0
}
exegesis { a document item with three fields. }`
	m := mustLower(t, src)
	r := Build(m)

	e, ok := r.Gen("doc.item")
	if !ok {
		t.Fatalf("expected a gen entry for doc.item")
	}
	if e.Kind != KindGen {
		t.Fatalf("expected KindGen, got %v", e.Kind)
	}
	if len(e.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d: %+v", len(e.Fields), e.Fields)
	}
	count := e.Fields[1]
	if count.Name != "count" || count.TypeName != "I32" || count.Crdt == nil {
		t.Fatalf("unexpected count field entry: %+v", count)
	}
	owner := e.Fields[2]
	if !owner.HasConstraint {
		t.Fatalf("expected owner field to report a constraint")
	}
}

func strategyPtr(s ast.CrdtStrategy) *ast.CrdtStrategy { return &s }

func TestGenEntryFieldsMatchExactly(t *testing.T) {
	src := `gen doc.item {
  has title: String
  has count: I32 @crdt(pn_counter)
  has owner: String where len(owner) > 0
}
exegesis { a document item with three fields. }`
	m := mustLower(t, src)
	r := Build(m)
	e, _ := r.Gen("doc.item")

	want := []Field{
		{Name: "title", TypeName: "String"},
		{Name: "count", TypeName: "I32", Crdt: strategyPtr(ast.PnCounter)},
		{Name: "owner", TypeName: "String", HasConstraint: true},
	}
	if diff := cmp.Diff(want, e.Fields, cmp.Comparer(func(a, b *ast.CrdtStrategy) bool {
		if a == nil || b == nil {
			return a == b
		}
		return *a == *b
	})); diff != "" {
		t.Fatalf("field list mismatch (-want +got):\n%s", diff)
	}
}

func TestTraitEntryExposesDependencies(t *testing.T) {
	src := `trait web.servable {
  uses net.listener
  uses net.router
}
exegesis { a trait that depends on two other traits. }`
	m := mustLower(t, src)
	r := Build(m)

	e, ok := r.Trait("web.servable")
	if !ok {
		t.Fatalf("expected a trait entry for web.servable")
	}
	if len(e.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies, got %v", e.Dependencies)
	}
}

func TestSystemEntryExposesVersionAndRequirements(t *testing.T) {
	src := `system checkout.flow @ 1.2.0 requires payments.gateway >= 1.0.0 {
}
exegesis { the checkout flow system. }`
	m := mustLower(t, src)
	r := Build(m)

	e, ok := r.System("checkout.flow")
	if !ok {
		t.Fatalf("expected a system entry for checkout.flow")
	}
	if e.Version.String() != "1.2.0" {
		t.Fatalf("expected version 1.2.0, got %s", e.Version)
	}
	if len(e.Requirements) != 1 {
		t.Fatalf("expected 1 requirement, got %v", e.Requirements)
	}
}

func TestEvoEntryKeyedByNameAndVersion(t *testing.T) {
	src := `evo foo @ 0.0.2 > 0.0.1 {
}
exegesis { a clean evolution of foo. }`
	m := mustLower(t, src)
	r := Build(m)

	e, ok := r.EvoByKey("foo@0.0.2")
	if !ok {
		t.Fatalf("expected an evo entry keyed foo@0.0.2, got evos: %+v", r.evos)
	}
	if e.ParentVersion.String() != "0.0.1" {
		t.Fatalf("expected parent version 0.0.1, got %s", e.ParentVersion)
	}
}

func TestEnumerationCoversEveryEntry(t *testing.T) {
	src := `gen a.one {
  a has b
}
exegesis { first gen. }

gen a.two {
  a has c
}
exegesis { second gen. }`
	m := mustLower(t, src)
	r := Build(m)
	if len(r.Gens()) != 2 {
		t.Fatalf("expected 2 gens enumerated, got %d", len(r.Gens()))
	}
}

func TestLookupUnknownNameReportsMissing(t *testing.T) {
	src := `gen a.one {
  a has b
}
exegesis { a single gen. }`
	m := mustLower(t, src)
	r := Build(m)
	if _, ok := r.Gen("nonexistent.gen"); ok {
		t.Fatalf("expected nonexistent.gen to be absent from the registry")
	}
}
