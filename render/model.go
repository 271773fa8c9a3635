package render

import (
	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
)

// FieldData is a single has-field's template-ready view.
type FieldData struct {
	Name         string
	PascalName   string
	SnakeName    string
	KebabName    string
	Type         TypeRef
	TypeName     string // Annotate(Type, the template's bound target)
	HasDefault   bool
	Default      string
	HasConstraint bool
	Crdt         string // empty if unannotated
	Personal     bool
}

// GenData is a gen declaration's template-ready view.
type GenData struct {
	Name       string
	PascalName string
	SnakeName  string
	KebabName  string
	Extends    string
	Fields     []FieldData
	Exegesis   string
}

// ModuleData is the root template data value: every gen in a module,
// rendered for one Target.
type ModuleData struct {
	Target Target
	Gens   []GenData
}

// BuildModuleData walks m's gen declarations into a ModuleData for
// target, annotating every field type with that target's native syntax.
func BuildModuleData(m *hir.Module, target Target) ModuleData {
	md := ModuleData{Target: target}
	for _, d := range m.Decls {
		g, ok := d.(*hir.GenDecl)
		if !ok {
			continue
		}
		md.Gens = append(md.Gens, buildGenData(m.Interner, g, target))
	}
	return md
}

func buildGenData(in *intern.Interner, g *hir.GenDecl, target Target) GenData {
	name := in.Lookup(g.Name)
	gd := GenData{
		Name:       name,
		PascalName: toPascal(name),
		SnakeName:  toSnake(name),
		KebabName:  toKebab(name),
		Exegesis:   g.Exegesis,
	}
	if g.HasExtends {
		gd.Extends = in.Lookup(g.Extends)
	}
	for _, s := range g.Statements {
		hf, ok := s.(*hir.HasFieldStmt)
		if !ok {
			continue
		}
		gd.Fields = append(gd.Fields, buildFieldData(in, hf, target))
	}
	return gd
}

func buildFieldData(in *intern.Interner, hf *hir.HasFieldStmt, target Target) FieldData {
	fname := in.Lookup(hf.Name)
	tr := BuildTypeRef(in, hf.Type)
	fd := FieldData{
		Name:          fname,
		PascalName:    toPascal(fname),
		SnakeName:     toSnake(fname),
		KebabName:     toKebab(fname),
		Type:          tr,
		TypeName:      Annotate(tr, target),
		HasDefault:    hf.Default != nil,
		HasConstraint: hf.Constraint != nil,
		Personal:      hf.Personal,
	}
	if hf.Default != nil {
		fd.Default = DefaultValue(hf.Default, target)
	}
	if hf.Crdt != nil {
		fd.Crdt = hf.Crdt.Strategy.String()
	}
	return fd
}

// DefaultValue renders a default-value expression as a target's native
// literal syntax. Only literal defaults are given a native spelling;
// anything else (a call, a reference) renders as a comment-safe
// placeholder since its evaluation is target-specific and out of scope
// for the template layer.
func DefaultValue(e hir.Expr, target Target) string {
	lit, ok := e.(*hir.BasicLit)
	if !ok {
		return "/* computed default */"
	}
	switch lit.Kind {
	case ast.LitString:
		return quoteString(lit.Value, target)
	case ast.LitInt, ast.LitFloat:
		return lit.Value
	case ast.LitBool:
		return boolLiteral(lit.Value, target)
	default:
		return lit.Value
	}
}

func quoteString(v string, target Target) string {
	switch target {
	case TargetComponentModel:
		return "\"" + v + "\""
	default:
		return "\"" + v + "\""
	}
}

// boolLiteral spells true/false the way each target's own literal syntax
// does: Python capitalizes them, every other target here uses lowercase.
func boolLiteral(v string, target Target) string {
	truthy := v == "true"
	if target == TargetDynamic {
		if truthy {
			return "True"
		}
		return "False"
	}
	if truthy {
		return "true"
	}
	return "false"
}
