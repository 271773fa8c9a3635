package check

import (
	"testing"

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

func TestCheckMinimalGenIsValid(t *testing.T) {
	src := `gen container.exists {
  container has identity
}
exegesis { A container is the unit of isolation. }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.Valid() {
		t.Fatalf("expected a valid result, got errors: %v", diags.Errors())
	}
	if len(diags.All()) != 0 {
		t.Fatalf("expected zero diagnostics, got %v", diags.All())
	}
}

func TestCheckDuplicateDefinition(t *testing.T) {
	src := `gen a.b {
  a has b
}
exegesis { first definition of a.b here. }

gen a.b {
  a has c
}
exegesis { second definition of a.b here. }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected a duplicate-definition error")
	}
	found := false
	for _, d := range diags.Errors() {
		if d.Kind.String() == "duplicate definition" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate definition diagnostic, got %v", diags.Errors())
	}
}

func TestCheckMissingExegesisOnFuncIsError(t *testing.T) {
	src := `fn compute() {
}
exegesis { }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected a missing-exegesis error for fn without exegesis")
	}
}

func TestCheckShortExegesisWarns(t *testing.T) {
	src := `gen a.b {
  a has b
}
exegesis { short }`
	m := mustLower(t, src)
	diags := Check(m)
	if diags.HasErrors() {
		t.Fatalf("short exegesis should warn, not error: %v", diags.Errors())
	}
	if len(diags.Warnings()) == 0 {
		t.Fatalf("expected a short-exegesis warning")
	}
}

// TestCheckEvoLineageWarning is the literal S6 scenario: a new version that
// is not greater than its parent is a warning, not an error.
func TestCheckEvoLineageWarning(t *testing.T) {
	src := `evo foo @ 0.0.1 > 0.0.2 {
}
exegesis { lineage warning scenario. }`
	m := mustLower(t, src)
	diags := Check(m)
	if diags.HasErrors() {
		t.Fatalf("expected evo lineage violation to be a warning, got errors: %v", diags.Errors())
	}
	if len(diags.Warnings()) == 0 {
		t.Fatalf("expected a lineage warning")
	}
}

func TestCheckEvoLineageOrderedIsClean(t *testing.T) {
	src := `evo foo @ 0.0.2 > 0.0.1 {
}
exegesis { proper lineage ordering. }`
	m := mustLower(t, src)
	diags := Check(m)
	for _, d := range diags.All() {
		if d.Kind.String() == "invalid evolution lineage" {
			t.Fatalf("did not expect a lineage diagnostic for correctly ordered versions")
		}
	}
}

func TestCheckUndefinedVariableInConstValue(t *testing.T) {
	src := `const threshold: I32 = undefined_name`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected an unresolved-reference error for undefined_name")
	}
}

func TestCheckUnresolvedFieldType(t *testing.T) {
	src := `gen doc.item {
  has owner: MissingThing
}
exegesis { item with an undefined field type }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected an unresolved-reference error for the field type")
	}
}

func TestCheckExtendsUndefinedTarget(t *testing.T) {
	src := `gen child.thing extends parent.missing {
  child has trait
}
exegesis { extends an undefined parent }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected an unresolved-reference error for the extends target")
	}
}

func TestCheckSelfUsesWarns(t *testing.T) {
	src := `trait self.referencing {
  uses self.referencing
}
exegesis { a trait that uses itself is a naming warning, not an error. }`
	m := mustLower(t, src)
	diags := Check(m)
	if diags.HasErrors() {
		t.Fatalf("self-reference should warn, not error: %v", diags.Errors())
	}
	if len(diags.Warnings()) == 0 {
		t.Fatalf("expected a self-reference warning")
	}
}

func TestCheckDuplicateFieldName(t *testing.T) {
	src := `gen doc.item {
  has owner: String
  has owner: String
}
exegesis { duplicate field name in one gen }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected a duplicate-field error")
	}
}

func TestCheckDuplicateUsesInGen(t *testing.T) {
	src := `gen doc.item {
  uses storage.layer
  uses storage.layer
  has owner: String
}
exegesis { a gen that uses the same trait twice }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected a duplicate-uses error")
	}
}

func TestCheckDuplicateEnumVariant(t *testing.T) {
	src := `gen doc.status {
  has state: enum { Draft, Draft, Archived }
}
exegesis { duplicate variant in one enum field }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected a duplicate-variant error")
	}
}
