package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/univrs/dol/manifest"
)

const sampleSrc = `gen cart.item {
  has id: String @crdt(immutable)
  has title: String @crdt(lww)
}
exegesis { an item line inside a shopping cart. }
`

func runCLI(t *testing.T, stdin string, args ...string) (stdout string, code int) {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	exitCode = 0
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected cobra error: %v", err)
	}
	return buf.String(), exitCode
}

func TestExplainStrategyCommand(t *testing.T) {
	_, code := runCLI(t, "", "explain-strategy", "or_set")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRecommendCrdtCommandRejectsUnknownUsage(t *testing.T) {
	_, code := runCLI(t, "", "recommend-crdt", "content", "String", "not_a_real_usage")
	if code != 1 {
		t.Fatalf("expected exit code 1 for an unknown usage, got %d", code)
	}
}

func TestCompileCommandRejectsUnknownTarget(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"compile", "cobol"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected an error for an unsupported compile target")
	}
}

func TestToManifestYAMLFlattensSpiritsAndBindings(t *testing.T) {
	src := `system checkout.flow @ 1.2.0
docs "handles cart checkout end to end"
spirits {
  cart: ./spirits/cart @ >= 1.0.0
}
bindings {
  cart.checkout_event -> checkout.flow.start
}
`
	m, errs := manifest.ParseManifest("t.manifest", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	y := toManifestYAML(m)
	if y.Name != "checkout.flow" {
		t.Fatalf("expected name checkout.flow, got %q", y.Name)
	}
	if len(y.Spirits) != 1 || y.Spirits[0].Name != "cart" {
		t.Fatalf("expected one spirit named cart, got %+v", y.Spirits)
	}
	if len(y.Bindings) != 1 {
		t.Fatalf("expected one binding, got %+v", y.Bindings)
	}
}
