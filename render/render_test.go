package render

import (
	"strings"
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

const sampleSrc = `gen catalog.item {
  has title: String
  has tags: Vec<String>
  has quantity: I32 = 0
  has archived: Bool = false
}
exegesis { a catalog item with a list, a scalar, and two defaults. }`

func TestAnnotateSystemsTarget(t *testing.T) {
	m := mustLower(t, sampleSrc)
	md := BuildModuleData(m, TargetSystems)
	if len(md.Gens) != 1 {
		t.Fatalf("expected 1 gen, got %d", len(md.Gens))
	}
	g := md.Gens[0]
	if g.PascalName != "CatalogItem" {
		t.Fatalf("expected PascalName CatalogItem from catalog.item, got %s", g.PascalName)
	}
	tags := g.Fields[1]
	if tags.TypeName != "Vec<String>" {
		t.Fatalf("expected Vec<String>, got %s", tags.TypeName)
	}
}

func TestAnnotateStructuralWebTarget(t *testing.T) {
	m := mustLower(t, sampleSrc)
	md := BuildModuleData(m, TargetStructuralWeb)
	tags := md.Gens[0].Fields[1]
	if tags.TypeName != "string[]" {
		t.Fatalf("expected string[], got %s", tags.TypeName)
	}
	quantity := md.Gens[0].Fields[2]
	if quantity.TypeName != "number" {
		t.Fatalf("expected number, got %s", quantity.TypeName)
	}
}

func TestAnnotateComponentModelTarget(t *testing.T) {
	m := mustLower(t, sampleSrc)
	md := BuildModuleData(m, TargetComponentModel)
	tags := md.Gens[0].Fields[1]
	if tags.TypeName != "list<string>" {
		t.Fatalf("expected list<string>, got %s", tags.TypeName)
	}
}

func TestAnnotateDynamicTarget(t *testing.T) {
	m := mustLower(t, sampleSrc)
	md := BuildModuleData(m, TargetDynamic)
	tags := md.Gens[0].Fields[1]
	if tags.TypeName != "List[str]" {
		t.Fatalf("expected List[str], got %s", tags.TypeName)
	}
	archived := md.Gens[0].Fields[3]
	if archived.Default != "False" {
		t.Fatalf("expected Python-spelled False, got %s", archived.Default)
	}
}

func TestAnnotateSchemaTarget(t *testing.T) {
	m := mustLower(t, sampleSrc)
	md := BuildModuleData(m, TargetSchema)
	tags := md.Gens[0].Fields[1]
	if tags.TypeName != "array" {
		t.Fatalf("expected array, got %s", tags.TypeName)
	}
}

func TestOptionDelegatesToInnerAcrossTargets(t *testing.T) {
	src := `gen catalog.item {
  has nickname: Option<String>
}
exegesis { one optional field. }`
	m := mustLower(t, src)

	rust := BuildModuleData(m, TargetSystems).Gens[0].Fields[0].TypeName
	if rust != "Option<String>" {
		t.Fatalf("expected Option<String>, got %s", rust)
	}
	ts := BuildModuleData(m, TargetStructuralWeb).Gens[0].Fields[0].TypeName
	if ts != "string | null" {
		t.Fatalf("expected string | null, got %s", ts)
	}
	py := BuildModuleData(m, TargetDynamic).Gens[0].Fields[0].TypeName
	if py != "Optional[str]" {
		t.Fatalf("expected Optional[str], got %s", py)
	}
}

func TestEngineRenderSystemsTarget(t *testing.T) {
	m := mustLower(t, sampleSrc)
	e := NewEngine()
	out, err := e.Render(m, TargetSystems)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "pub struct CatalogItem") {
		t.Fatalf("expected a rendered struct CatalogItem, got:\n%s", out)
	}
	if !strings.Contains(out, "pub tags: Vec<String>") {
		t.Fatalf("expected a rendered tags field, got:\n%s", out)
	}
}

func TestEngineRenderSchemaTarget(t *testing.T) {
	m := mustLower(t, sampleSrc)
	e := NewEngine()
	out, err := e.Render(m, TargetSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"CatalogItem"`) {
		t.Fatalf("expected the CatalogItem definition key, got:\n%s", out)
	}
}

func TestCaseConversionHelpers(t *testing.T) {
	if toPascal("user_name") != "UserName" {
		t.Fatalf("expected PascalCase conversion")
	}
	if toSnake("UserName") != "user_name" {
		t.Fatalf("expected snake_case conversion")
	}
	if toKebab("UserName") != "user-name" {
		t.Fatalf("expected kebab-case conversion")
	}
}
