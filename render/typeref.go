// Package render builds a target-neutral template-data view of a
// validated Module and renders it through text/template, following the
// shape of encoding/gocode.generator and pkg/gen.go's header template:
// a small params/data struct feeds a template.Must(template.New(...))
// instance, and every decision about what gets emitted is made by the
// data builder rather than by template logic.
package render

import (
	"strings"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
)

// Target names one of the five emission surfaces of spec.md 4J.
type Target int

const (
	// TargetSystems emits Rust: native systems code.
	TargetSystems Target = iota
	// TargetStructuralWeb emits TypeScript: structural-typed web code.
	TargetStructuralWeb
	// TargetComponentModel emits WIT: the WebAssembly component model's
	// interface language.
	TargetComponentModel
	// TargetDynamic emits Python.
	TargetDynamic
	// TargetSchema emits a JSON Schema fragment.
	TargetSchema
)

func (t Target) String() string {
	switch t {
	case TargetSystems:
		return "systems"
	case TargetStructuralWeb:
		return "structural-web"
	case TargetComponentModel:
		return "component-model"
	case TargetDynamic:
		return "dynamic"
	case TargetSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// ParseTarget maps a CLI-facing target name to a Target.
func ParseTarget(s string) (Target, bool) {
	switch s {
	case "systems", "rust":
		return TargetSystems, true
	case "structural-web", "typescript", "ts":
		return TargetStructuralWeb, true
	case "component-model", "wit":
		return TargetComponentModel, true
	case "dynamic", "python", "py":
		return TargetDynamic, true
	case "schema", "json-schema":
		return TargetSchema, true
	default:
		return 0, false
	}
}

// Kind classifies a TypeRef the way the spec.md 4J mapping table is
// organized: by structural shape rather than by surface spelling, so one
// Annotate switch can cover every target.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList // Vec<T> / List<T>
	KindOption
	KindResult
	KindMap
	KindSet
	KindTuple
	KindFunc
	KindNamed
	KindUnknown
)

// TypeRef is the target-neutral shape of a field or parameter type: a
// kind tag plus whatever sub-types it carries, so type_annotation can
// walk it structurally instead of re-parsing a rendered string.
type TypeRef struct {
	Kind Kind
	Name string // primitive width ("I32") or the named type's own name
	Args []TypeRef
	Ret  *TypeRef // KindFunc only
}

// BuildTypeRef converts a lowered field/param type into its
// target-neutral form.
func BuildTypeRef(in *intern.Interner, t hir.TypeExpr) TypeRef {
	switch n := t.(type) {
	case *hir.NamedType:
		name := in.Lookup(n.Name)
		switch {
		case name == "String":
			return TypeRef{Kind: KindString, Name: name}
		case ast.IsIntegerType(name):
			return TypeRef{Kind: KindInt, Name: name}
		case ast.IsFloatType(name):
			return TypeRef{Kind: KindFloat, Name: name}
		case name == "Bool":
			return TypeRef{Kind: KindBool, Name: name}
		default:
			return TypeRef{Kind: KindNamed, Name: name}
		}
	case *hir.GenericType:
		name := in.Lookup(n.Name)
		args := make([]TypeRef, len(n.Args))
		for i, a := range n.Args {
			args[i] = BuildTypeRef(in, a)
		}
		switch name {
		case "Vec", "List":
			return TypeRef{Kind: KindList, Name: name, Args: args}
		case "Option":
			return TypeRef{Kind: KindOption, Name: name, Args: args}
		case "Result":
			return TypeRef{Kind: KindResult, Name: name, Args: args}
		case "Map", "HashMap":
			return TypeRef{Kind: KindMap, Name: name, Args: args}
		case "Set", "HashSet":
			return TypeRef{Kind: KindSet, Name: name, Args: args}
		default:
			return TypeRef{Kind: KindNamed, Name: name, Args: args}
		}
	case *hir.TupleType:
		args := make([]TypeRef, len(n.Elems))
		for i, e := range n.Elems {
			args[i] = BuildTypeRef(in, e)
		}
		return TypeRef{Kind: KindTuple, Args: args}
	case *hir.FuncType:
		params := make([]TypeRef, len(n.Params))
		for i, p := range n.Params {
			params[i] = BuildTypeRef(in, p)
		}
		var ret *TypeRef
		if n.Return != nil {
			r := BuildTypeRef(in, n.Return)
			ret = &r
		}
		return TypeRef{Kind: KindFunc, Args: params, Ret: ret}
	case *hir.NeverType:
		return TypeRef{Kind: KindNamed, Name: "Never"}
	case *hir.EnumTypedef:
		return TypeRef{Kind: KindNamed, Name: "enum"}
	default:
		return TypeRef{Kind: KindUnknown}
	}
}

// Annotate renders t as the target's native type syntax, following the
// spec.md 4J per-target mapping table exactly.
func Annotate(t TypeRef, target Target) string {
	switch t.Kind {
	case KindString:
		switch target {
		case TargetSystems:
			return "String"
		case TargetStructuralWeb, TargetComponentModel:
			return "string"
		case TargetDynamic:
			return "str"
		case TargetSchema:
			return "string"
		}
	case KindInt:
		switch target {
		case TargetSystems:
			return rustIntName(t.Name)
		case TargetStructuralWeb:
			return "number"
		case TargetComponentModel:
			return witIntName(t.Name)
		case TargetDynamic:
			return "int"
		case TargetSchema:
			return "integer"
		}
	case KindFloat:
		switch target {
		case TargetSystems:
			return t.Name
		case TargetStructuralWeb:
			return "number"
		case TargetComponentModel:
			return t.Name
		case TargetDynamic:
			return "float"
		case TargetSchema:
			return "number"
		}
	case KindBool:
		switch target {
		case TargetSystems, TargetComponentModel:
			return "bool"
		case TargetStructuralWeb:
			return "boolean"
		case TargetDynamic:
			return "bool"
		case TargetSchema:
			return "boolean"
		}
	case KindList:
		inner := annotateArg(t, 0, target)
		switch target {
		case TargetSystems:
			return "Vec<" + inner + ">"
		case TargetStructuralWeb:
			return inner + "[]"
		case TargetComponentModel:
			return "list<" + inner + ">"
		case TargetDynamic:
			return "List[" + inner + "]"
		case TargetSchema:
			return "array"
		}
	case KindOption:
		inner := annotateArg(t, 0, target)
		switch target {
		case TargetSystems:
			return "Option<" + inner + ">"
		case TargetStructuralWeb:
			return inner + " | null"
		case TargetComponentModel:
			return "option<" + inner + ">"
		case TargetDynamic:
			return "Optional[" + inner + "]"
		case TargetSchema:
			return inner // nullable is expressed via the schema's "type" array, not a distinct spelling
		}
	case KindResult:
		// Result<T,E> has no row of its own in the mapping table; it
		// shares Option's "delegates to inner" treatment since both
		// model a value that may not be the success case.
		return Annotate(TypeRef{Kind: KindOption, Args: t.Args}, target)
	case KindMap:
		k, v := annotateArg(t, 0, target), annotateArg(t, 1, target)
		switch target {
		case TargetSystems:
			return "HashMap<" + k + ", " + v + ">"
		case TargetStructuralWeb:
			return "Map<" + k + ", " + v + ">"
		case TargetComponentModel:
			return "" // no row entry: the component model has no direct map primitive
		case TargetDynamic:
			return "Dict[" + k + ", " + v + "]"
		case TargetSchema:
			return "object"
		}
	case KindSet:
		inner := annotateArg(t, 0, target)
		switch target {
		case TargetSystems:
			return "HashSet<" + inner + ">"
		case TargetStructuralWeb:
			return "Set<" + inner + ">"
		case TargetComponentModel:
			return ""
		case TargetDynamic:
			return "Set[" + inner + "]"
		case TargetSchema:
			return "object"
		}
	case KindTuple:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = Annotate(a, target)
		}
		switch target {
		case TargetSystems:
			return "(" + strings.Join(parts, ", ") + ")"
		case TargetStructuralWeb:
			return "[" + strings.Join(parts, ", ") + "]"
		case TargetComponentModel:
			return "tuple<" + strings.Join(parts, ", ") + ">"
		case TargetDynamic:
			return "Tuple[" + strings.Join(parts, ", ") + "]"
		case TargetSchema:
			return "object"
		}
	case KindFunc:
		params := make([]string, len(t.Args))
		for i, a := range t.Args {
			params[i] = Annotate(a, target)
		}
		ret := "()"
		if t.Ret != nil {
			ret = Annotate(*t.Ret, target)
		}
		switch target {
		case TargetSystems:
			return "fn(" + strings.Join(params, ", ") + ") -> " + ret
		case TargetStructuralWeb:
			return "(" + strings.Join(params, ", ") + ") => " + ret
		default:
			return "" // no row entry for the remaining targets
		}
	case KindNamed:
		switch target {
		case TargetComponentModel:
			return toKebab(t.Name)
		case TargetSchema:
			return t.Name // pass-through
		default:
			return toPascal(t.Name)
		}
	}
	return "unknown"
}

func annotateArg(t TypeRef, i int, target Target) string {
	if i >= len(t.Args) {
		return "unknown"
	}
	return Annotate(t.Args[i], target)
}

func rustIntName(name string) string {
	return strings.ToLower(name)
}

func witIntName(name string) string {
	lower := strings.ToLower(name)
	switch lower {
	case "i8", "i16", "i32", "i64":
		return "s" + strings.TrimPrefix(lower, "i")
	case "u8", "u16", "u32", "u64":
		return lower
	default:
		return lower
	}
}
