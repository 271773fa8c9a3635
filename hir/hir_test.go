package hir

import (
	"testing"

	"github.com/univrs/dol/parser"
	"github.com/univrs/dol/token"
)

func TestHirIdFreshness(t *testing.T) {
	src := `gen container.exists {
  container has identity
  has count: String @crdt(pn_counter)
}
exegesis { A container is the unit of isolation. }

trait replicable {
  each field has crdt_strategy
}
exegesis { replicable fields carry a strategy }`

	f, errs := parser.ParseFile("t.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Errors())
	}
	m := Lower(f)

	seen := map[HirId]bool{}
	collect := func(n Node) {
		if n == nil {
			return
		}
		id := n.ID()
		if seen[id] {
			t.Fatalf("duplicate HirId %v on node kind %v", id, n.NodeKind())
		}
		seen[id] = true
	}

	for _, d := range m.Decls {
		collect(d)
		switch decl := d.(type) {
		case *GenDecl:
			for _, s := range decl.Statements {
				collect(s)
			}
		case *TraitDecl:
			for _, s := range decl.Statements {
				collect(s)
			}
		}
	}
	if len(seen) == 0 {
		t.Fatalf("expected at least one HIR node")
	}
}

func TestLowerInternsIdentifiers(t *testing.T) {
	src := `gen a.b {
  a has b
}
exegesis { x }`
	f, _ := parser.ParseFile("t2.dol", []byte(src))
	m := Lower(f)
	g := m.Decls[0].(*GenDecl)
	if m.Interner.Lookup(g.Name) != "a.b" {
		t.Fatalf("expected interned name a.b, got %q", m.Interner.Lookup(g.Name))
	}
}

func TestLowerDottedExtends(t *testing.T) {
	src := `gen child.thing extends parent.thing {
  child has trait
}
exegesis { extends test }`
	f, _ := parser.ParseFile("t3.dol", []byte(src))
	m := Lower(f)
	g := m.Decls[0].(*GenDecl)
	if !g.HasExtends {
		t.Fatalf("expected HasExtends true")
	}
	if m.Interner.Lookup(g.Extends) != "parent.thing" {
		t.Fatalf("got extends %q", m.Interner.Lookup(g.Extends))
	}
}

func TestLowerEnumFieldType(t *testing.T) {
	src := `gen doc.status {
  has state: enum { Draft, Published, Archived }
}
exegesis { status enum test }`
	f, errs := parser.ParseFile("t4.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Errors())
	}
	m := Lower(f)
	g := m.Decls[0].(*GenDecl)
	hf := g.Statements[0].(*HasFieldStmt)
	enum, ok := hf.Type.(*EnumTypedef)
	if !ok {
		t.Fatalf("expected *EnumTypedef, got %T", hf.Type)
	}
	if len(enum.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(enum.Variants))
	}
	if m.Interner.Lookup(enum.Variants[0]) != "Draft" {
		t.Fatalf("got %q", m.Interner.Lookup(enum.Variants[0]))
	}
}

func TestModuleSpanOfFallsBackToNoSpan(t *testing.T) {
	m := &Module{Spans: map[HirId]token.Span{}}
	if m.SpanOf(newID()).IsValid() {
		t.Fatalf("expected an unrecorded id to yield an invalid span")
	}
}

func TestSpanRecordedForEveryGenDecl(t *testing.T) {
	src := `gen a.b {
  a has b
}
exegesis { x }`
	f, _ := parser.ParseFile("t5.dol", []byte(src))
	m := Lower(f)
	g := m.Decls[0].(*GenDecl)
	span := m.SpanOf(g.ID())
	if !span.IsValid() {
		t.Fatalf("expected a recorded span for the gen decl")
	}
}
