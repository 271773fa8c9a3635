package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/univrs/dol/version"
)

func TestParseMinimalManifest(t *testing.T) {
	src := `system checkout.flow @ 1.2.0
`
	m, errs := ParseManifest("t.manifest", []byte(src))
	require.False(t, errs.HasErrors(), "unexpected errors: %v", errs.Errors())
	require.Equal(t, "checkout.flow", m.Name)
	want := version.Version{Major: 1, Minor: 2, Patch: 0}
	require.True(t, m.Version.Equal(want), "expected version 1.2.0, got %s", m.Version)
}

func TestParseDocsBlock(t *testing.T) {
	src := `system checkout.flow @ 1.2.0
docs "handles cart checkout end to end"
`
	m, errs := ParseManifest("t.manifest", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	if m.Docs != "handles cart checkout end to end" {
		t.Fatalf("unexpected docs: %q", m.Docs)
	}
}

func TestParseSpiritsBlockWithLocalAndRegistryPaths(t *testing.T) {
	src := `system checkout.flow @ 1.2.0
spirits {
  cart: ./inventory/cart @ 1.0.0,
  ledger: @acme/ledger @ >= 2.1.0,
}
`
	m, errs := ParseManifest("t.manifest", []byte(src))
	require.False(t, errs.HasErrors(), "unexpected errors: %v", errs.Errors())
	require.Len(t, m.Spirits, 2)
	cart := m.Spirits[0]
	require.Equal(t, PathLocal, cart.Path.Kind)
	require.Equal(t, "./inventory/cart", cart.Path.String())
	ledger := m.Spirits[1]
	require.Equal(t, PathRegistry, ledger.Path.Kind)
	require.Equal(t, "acme", ledger.Path.Scope)
	require.Equal(t, version.OpGE, ledger.Constraint.Op)
}

func TestParseConfigBlock(t *testing.T) {
	src := `system checkout.flow @ 1.2.0
config {
  entry: main,
  runtime: wasm,
  memory: "512mb",
  capabilities: [net, storage],
}
`
	m, errs := ParseManifest("t.manifest", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	if m.Config.Entry != "main" || m.Config.Runtime != "wasm" {
		t.Fatalf("unexpected config: %+v", m.Config)
	}
	if len(m.Config.Capabilities) != 2 || m.Config.Capabilities[0] != "net" {
		t.Fatalf("unexpected capabilities: %v", m.Config.Capabilities)
	}
}

func TestParseBindingsBlockSplitsPortRefs(t *testing.T) {
	src := `system checkout.flow @ 1.2.0
bindings {
  cart.checkout_event -> ledger.record_sale,
}
`
	m, errs := ParseManifest("t.manifest", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	if len(m.Bindings) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(m.Bindings))
	}
	b := m.Bindings[0]
	if b.From.Spirit != "cart" || b.From.Port != "checkout_event" {
		t.Fatalf("unexpected from ref: %+v", b.From)
	}
	if b.To.Spirit != "ledger" || b.To.Port != "record_sale" {
		t.Fatalf("unexpected to ref: %+v", b.To)
	}
}

func TestParseAllBlocksTogether(t *testing.T) {
	src := `system checkout.flow @ 1.2.0
docs "the checkout flow system"
spirits {
  cart: ./inventory/cart @ 1.0.0,
}
config {
  entry: main,
  runtime: wasm,
  memory: "256mb",
  capabilities: [net],
}
bindings {
  cart.ready -> cart.ready,
}
`
	m, errs := ParseManifest("t.manifest", []byte(src))
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	if m.Docs == "" || len(m.Spirits) != 1 || m.Config.Entry == "" || len(m.Bindings) != 1 {
		t.Fatalf("expected every block populated, got %+v", m)
	}
}
