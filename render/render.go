package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/univrs/dol/hir"
)

// funcMap backs the template helpers spec.md 4J requires: the five
// case-conversion helpers plus type_annotation and default_value, which
// close over nothing and so can dispatch directly to the TypeRef/TypeExpr
// helpers above.
var funcMap = template.FuncMap{
	"pascal_case":     toPascal,
	"snake_case":      toSnake,
	"kebab_case":      toKebab,
	"upper_case":      toUpper,
	"lower_case":      toLower,
	"type_annotation": Annotate,
	"default_value":   DefaultValue,
}

// templates mirrors pkg/gen.go's var header = template.Must(template.New("").Parse(...))
// pattern: one parsed template per target, built once at package init.
var templates = map[Target]*template.Template{
	TargetSystems:        template.Must(template.New("systems").Funcs(funcMap).Parse(systemsTemplate)),
	TargetStructuralWeb:  template.Must(template.New("structural-web").Funcs(funcMap).Parse(structuralWebTemplate)),
	TargetComponentModel: template.Must(template.New("component-model").Funcs(funcMap).Parse(componentModelTemplate)),
	TargetDynamic:        template.Must(template.New("dynamic").Funcs(funcMap).Parse(dynamicTemplate)),
	TargetSchema:         template.Must(template.New("schema").Funcs(funcMap).Parse(schemaTemplate)),
}

// Engine renders a lowered Module to one of the five target surfaces.
// It follows encoding/gocode.generator's shape: a thin wrapper whose
// Render method builds the template data and executes a fixed
// template into a buffer.
type Engine struct{}

// NewEngine returns a ready-to-use Engine. It carries no state today;
// the type exists so callers have a stable place to hang future
// per-run options (an output-file header comment, a package name
// override) without changing Render's signature.
type EngineOption func(*Engine)

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render renders every gen declaration in m as target's native source.
func (e *Engine) Render(m *hir.Module, target Target) (string, error) {
	tmpl, ok := templates[target]
	if !ok {
		return "", fmt.Errorf("render: no template registered for target %s", target)
	}
	data := BuildModuleData(m, target)
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render: executing %s template: %w", target, err)
	}
	return buf.String(), nil
}

const systemsTemplate = `// generated by dol. do not edit.
{{range .Gens}}
#[derive(Debug, Clone)]
pub struct {{.PascalName}} {
{{- range .Fields}}
    pub {{.SnakeName}}: {{.TypeName}},{{if .Crdt}} // crdt: {{.Crdt}}{{end}}
{{- end}}
}
{{end}}`

const structuralWebTemplate = `// generated by dol. do not edit.
{{range .Gens}}
export interface {{.PascalName}} {
{{- range .Fields}}
  {{.Name}}{{if .HasDefault}}?{{end}}: {{.TypeName}};
{{- end}}
}
{{end}}`

const componentModelTemplate = `// generated by dol. do not edit.
{{range .Gens}}
record {{.KebabName}} {
{{- range .Fields}}
    {{.KebabName}}: {{.TypeName}},
{{- end}}
}
{{end}}`

const dynamicTemplate = `# generated by dol. do not edit.
from dataclasses import dataclass

{{range .Gens}}
@dataclass
class {{.PascalName}}:
{{- range .Fields}}
    {{.SnakeName}}: {{.TypeName}}{{if .HasDefault}} = {{.Default}}{{end}}
{{- end}}
{{end}}`

const schemaTemplate = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "definitions": {
{{- range $i, $g := .Gens}}{{if $i}},{{end}}
    "{{$g.PascalName}}": {
      "type": "object",
      "properties": {
{{- range $j, $f := $g.Fields}}{{if $j}},{{end}}
        "{{$f.Name}}": { "type": "{{$f.TypeName}}" }
{{- end}}
      }
    }
{{- end}}
  }
}
`
