package crdt

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

// TestIncompatibleStrategyIsS3 is the literal S3 scenario: a String field
// annotated with pn_counter (an integer-only strategy) is exactly one
// IncompatibleCrdtStrategy error whose suggestion mentions that
// pn_counter is for integers.
func TestIncompatibleStrategyIsS3(t *testing.T) {
	src := `gen doc.item {
  has count: String @crdt(pn_counter)
}
exegesis { counter field wrongly typed as a string }`
	m := mustLower(t, src)
	diags := Check(m)
	errs := diags.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	d := errs[0]
	if d.Kind.String() != "incompatible CRDT strategy" {
		t.Fatalf("expected an incompatible-strategy error, got %v", d)
	}
	found := false
	for _, r := range d.Remediation {
		if contains(r, "pn_counter") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a suggestion mentioning pn_counter, got %v", d.Remediation)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestStringAllowsItsStrategies(t *testing.T) {
	for _, strat := range []string{"immutable", "lww", "peritext", "mv_register"} {
		src := `gen doc.item {
  has title: String @crdt(` + strat + `)
}
exegesis { every string-compatible strategy should be accepted cleanly }`
		m := mustLower(t, src)
		diags := Check(m)
		if diags.HasErrors() {
			t.Fatalf("strategy %s should be valid for String, got %v", strat, diags.Errors())
		}
	}
}

func TestStringRejectsSetAndSequenceStrategies(t *testing.T) {
	for _, strat := range []string{"or_set", "rga"} {
		src := `gen doc.item {
  has title: String @crdt(` + strat + `)
}
exegesis { set and sequence strategies should not apply to a bare string }`
		m := mustLower(t, src)
		diags := Check(m)
		if !diags.HasErrors() {
			t.Fatalf("strategy %s should be invalid for String", strat)
		}
	}
}

func TestIntegerAllowsPnCounter(t *testing.T) {
	src := `gen doc.item {
  has count: I64 @crdt(pn_counter)
}
exegesis { integer counters are the canonical pn_counter use case }`
	m := mustLower(t, src)
	diags := Check(m)
	if diags.HasErrors() {
		t.Fatalf("expected pn_counter on an integer field to be valid, got %v", diags.Errors())
	}
}

func TestSetAllowsOrSet(t *testing.T) {
	src := `gen doc.item {
  has tags: Set<String> @crdt(or_set)
}
exegesis { or_set is the canonical strategy for a set field }`
	m := mustLower(t, src)
	diags := Check(m)
	if diags.HasErrors() {
		t.Fatalf("expected or_set on a Set field to be valid, got %v", diags.Errors())
	}
}

func TestSetRejectsPnCounter(t *testing.T) {
	src := `gen doc.item {
  has tags: Set<String> @crdt(pn_counter)
}
exegesis { a set of strings is not a numeric counter }`
	m := mustLower(t, src)
	diags := Check(m)
	if !diags.HasErrors() {
		t.Fatalf("expected pn_counter on a Set field to be rejected")
	}
}

func TestVecAllowsRga(t *testing.T) {
	src := `gen doc.item {
  has history: Vec<String> @crdt(rga)
}
exegesis { rga is the canonical ordered-sequence strategy }`
	m := mustLower(t, src)
	diags := Check(m)
	if diags.HasErrors() {
		t.Fatalf("expected rga on a Vec field to be valid, got %v", diags.Errors())
	}
}

func TestOptionDelegatesToInner(t *testing.T) {
	src := `gen doc.item {
  has nickname: Option<String> @crdt(or_set)
}
exegesis { Option always delegates to its inner type, so this cannot fail here }`
	m := mustLower(t, src)
	diags := Check(m)
	if diags.HasErrors() {
		t.Fatalf("Option<T> should accept any strategy, got %v", diags.Errors())
	}
}

func TestImmutableWithBoundConstraintConflicts(t *testing.T) {
	src := `gen doc.item {
  has total: I32 where bound(total) @crdt(immutable)
}
exegesis { an immutable field paired with a constraint implying mutation is a conflict }`
	m := mustLower(t, src)
	diags := Check(m)
	found := false
	for _, d := range diags.Errors() {
		if d.Kind.String() == "constraint/CRDT conflict" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a constraint/CRDT conflict error, got %v", diags.Errors())
	}
}

func TestEventuallyConsistentConstraintWarns(t *testing.T) {
	src := `gen doc.item {
  has total: I32 where bound(total) @crdt(pn_counter)
}
exegesis { a bound constraint under an eventually-converging strategy is a warning }`
	m := mustLower(t, src)
	diags := Check(m)
	if diags.HasErrors() {
		t.Fatalf("bound constraint on a mutable strategy should only warn, got %v", diags.Errors())
	}
	found := false
	for _, d := range diags.Warnings() {
		if d.Kind.String() == "eventually consistent constraint" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an eventually-consistent-constraint warning, got %v", diags.Warnings())
	}
}

func TestCoordinationConstraintWarns(t *testing.T) {
	src := `gen doc.item {
  has balance: I32 where unique(balance) @crdt(lww)
}
exegesis { a uniqueness-style constraint needs coordination CRDT merge cannot give }`
	m := mustLower(t, src)
	diags := Check(m)
	found := false
	for _, d := range diags.Warnings() {
		if d.Kind.String() == "constraint requires coordination" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a requires-coordination warning, got %v", diags.Warnings())
	}
}

func TestSafeConstraintIsQuiet(t *testing.T) {
	src := `gen doc.item {
  has log: Vec<String> where monotonic(log) @crdt(rga)
}
exegesis { a monotonic/append-only constraint is inherently CRDT-safe }`
	m := mustLower(t, src)
	diags := Check(m)
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics for a CRDT-safe constraint, got %v", diags.All())
	}
}

func TestFieldWithoutCrdtAnnotationIsIgnored(t *testing.T) {
	src := `gen doc.item {
  has title: String
}
exegesis { fields without a CRDT annotation are out of scope for this checker }`
	m := mustLower(t, src)
	diags := Check(m)
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics for an unannotated field, got %v", diags.All())
	}
}
