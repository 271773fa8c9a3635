package tool

import (
	"testing"
)

const sampleSrc = `gen cart.item {
  has id: String @crdt(immutable)
  has title: String @crdt(lww)
  has tags: Set<String> @crdt(or_set)
}
exegesis { an item line inside a shopping cart. }
`

func TestDispatcherNamesListsAllSeventeenTools(t *testing.T) {
	d := NewDispatcher(nil)
	names := d.Names()
	if len(names) != 17 {
		t.Fatalf("expected 17 tools, got %d: %v", len(names), names)
	}
}

func TestCallUnknownToolIsError(t *testing.T) {
	d := NewDispatcher(nil)
	if _, err := d.Call("nonexistent", nil); err == nil {
		t.Fatalf("expected an error for an unknown tool")
	}
}

func TestToolParse(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("parse", map[string]string{"source": sampleSrc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := res.JSON.(map[string]interface{})
	if !ok || m["ok"] != true {
		t.Fatalf("expected ok parse result, got %+v", res)
	}
}

func TestToolTypecheckCleanSource(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("typecheck", map[string]string{"source": sampleSrc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.JSON.(map[string]interface{})
	if m["ok"] != true {
		t.Fatalf("expected clean typecheck, got %+v", m)
	}
}

func TestToolCompileRust(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("compile_rust", map[string]string{"source": sampleSrc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text == "" {
		t.Fatalf("expected non-empty rendered output")
	}
}

func TestToolFormatRoundTrips(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("format", map[string]string{"source": sampleSrc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text == "" {
		t.Fatalf("expected non-empty formatted output")
	}
}

func TestToolReflectFindsGen(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("reflect", map[string]string{"source": sampleSrc, "qname": "cart.item"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.JSON.(map[string]interface{})
	if m["kind"] != "gen" {
		t.Fatalf("expected kind gen, got %+v", m)
	}
}

func TestToolListAndExpandMacro(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("list_macros", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := res.JSON.([]map[string]interface{})
	if len(list) == 0 {
		t.Fatalf("expected at least one macro")
	}

	res, err = d.Call("expand_macro", map[string]string{"macro": "lww_scalar", "name": "title", "type": "String"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "has title: String @crdt(lww)" {
		t.Fatalf("unexpected expansion: %q", res.Text)
	}
}

func TestToolExpandMacroMissingParamErrors(t *testing.T) {
	d := NewDispatcher(nil)
	if _, err := d.Call("expand_macro", map[string]string{"macro": "lww_scalar"}); err == nil {
		t.Fatalf("expected an error for missing macro parameters")
	}
}

func TestToolRecommendCrdtCollaborativeText(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("recommend_crdt", map[string]string{
		"field": "content", "type": "String", "usage": "collaborative_text",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.JSON.(map[string]interface{})
	if m["strategy"] != "peritext" {
		t.Fatalf("expected peritext, got %+v", m)
	}
}

func TestToolExplainStrategy(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("explain_strategy", map[string]string{"name": "or_set"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.JSON.(map[string]interface{})
	if m["strategy"] != "or_set" {
		t.Fatalf("expected or_set, got %+v", m)
	}
}

func TestToolGenerateExample(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("generate_example", map[string]string{"source": sampleSrc, "qname": "cart.item"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.JSON.(map[string]interface{})
	if _, ok := m["title"]; !ok {
		t.Fatalf("expected a title field in the example, got %+v", m)
	}
}

func TestToolGenerateSchemaFromDescription(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("generate_schema_from_description", map[string]string{
		"description": "tracks a user's shopping cart contents",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text == "" {
		t.Fatalf("expected a generated skeleton")
	}
}

func TestToolValidateAndSuggest(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("validate_and_suggest", map[string]string{"source": sampleSrc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.JSON.(map[string]interface{})
	if _, ok := m["healthScore"]; !ok {
		t.Fatalf("expected a healthScore field, got %+v", m)
	}
}

func TestToolEvalFoldsConstantExpression(t *testing.T) {
	d := NewDispatcher(nil)
	res, err := d.Call("eval", map[string]string{"expr": "2 + 3 * 4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "14" {
		t.Fatalf("expected 14, got %q", res.Text)
	}
}
