package format

import (
	"strings"
	"testing"

	"github.com/univrs/dol/parser"
)

func TestFileRoundTripsGenDecl(t *testing.T) {
	src := `gen cart.item {
  has title: String = "untitled" @crdt(lww)
  has quantity: I32 where bound(quantity) @crdt(pn_counter)
}
exegesis { an item line inside a shopping cart. }
`
	f, errs := parser.ParseFile("t.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Errors())
	}
	out := File(f)
	for _, want := range []string{"gen cart.item {", "has title: String", "@crdt(lww)", "exegesis {"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFileRoundTripsSystemDecl(t *testing.T) {
	src := `system checkout.flow @ 1.0.0 requires cart.item >= 1.0.0 {
}
exegesis { the checkout flow system. }
`
	f, errs := parser.ParseFile("t.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Errors())
	}
	out := File(f)
	if !strings.Contains(out, "system checkout.flow @ 1.0.0 requires cart.item >= 1.0.0 {") {
		t.Fatalf("expected a system header, got:\n%s", out)
	}
	if !strings.Contains(out, "requires cart.item") {
		t.Fatalf("expected a requires line, got:\n%s", out)
	}
}

func TestNodeFormatsSingleGenDecl(t *testing.T) {
	src := `gen doc.item {
  has id: String @crdt(immutable)
}
exegesis { a document item. }
`
	f, errs := parser.ParseFile("t.dol", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Errors())
	}
	out := Node(f.Decls[0])
	if !strings.Contains(out, "gen doc.item {") {
		t.Fatalf("expected a gen header, got:\n%s", out)
	}
}
