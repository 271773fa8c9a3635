package ast

import "github.com/univrs/dol/token"

// TypeExpr is implemented by every type-expression shape of spec.md 3.
type TypeExpr interface {
	Node
	typeNode()
}

// NamedType is a bare type reference: String, Bool, MyGen, ...
type NamedType struct {
	Name string
	Span token.Span
}

func (t *NamedType) Pos() token.Span { return t.Span }
func (*NamedType) typeNode()         {}

// GenericType is a parameterized type: Vec<T>, Map<K,V>, Option<T>, ...
type GenericType struct {
	Name string
	Args []TypeExpr
	Span token.Span
}

func (t *GenericType) Pos() token.Span { return t.Span }
func (*GenericType) typeNode()         {}

// FuncType is a function type: fn(params) -> return.
type FuncType struct {
	Params []TypeExpr
	Return TypeExpr // nil if none
	Span   token.Span
}

func (t *FuncType) Pos() token.Span { return t.Span }
func (*FuncType) typeNode()         {}

// TupleType is a fixed-arity product type.
type TupleType struct {
	Elems []TypeExpr
	Span  token.Span
}

func (t *TupleType) Pos() token.Span { return t.Span }
func (*TupleType) typeNode()         {}

// NeverType is the uninhabited bottom type.
type NeverType struct {
	Span token.Span
}

func (t *NeverType) Pos() token.Span { return t.Span }
func (*NeverType) typeNode()         {}

// EnumType is an inline enum literal: enum { A, B, C }.
type EnumType struct {
	Variants []string
	Span     token.Span
}

func (t *EnumType) Pos() token.Span { return t.Span }
func (*EnumType) typeNode()         {}

// Builtin type names recognized directly by the scope/type validator
// (spec.md 4G): the signed/unsigned integer families, floats, Bool,
// String, Unit, Never, Self.
var BuiltinTypes = map[string]bool{
	"I8": true, "I16": true, "I32": true, "I64": true, "I128": true,
	"U8": true, "U16": true, "U32": true, "U64": true, "U128": true,
	"F32": true, "F64": true,
	"Bool": true, "String": true, "Unit": true, "Never": true, "Self": true,
	"Any": true, "Unknown": true, "Error": true,
}

// IsIntegerType reports whether name is one of the signed/unsigned integer
// builtins.
func IsIntegerType(name string) bool {
	switch name {
	case "I8", "I16", "I32", "I64", "I128", "U8", "U16", "U32", "U64", "U128":
		return true
	}
	return false
}

// IsFloatType reports whether name is one of the float builtins.
func IsFloatType(name string) bool {
	return name == "F32" || name == "F64"
}

// IsWildcardType reports whether name is one of the propagation wildcards
// used by numeric-compatibility checking (spec.md 4G): Any, Unknown,
// Error.
func IsWildcardType(name string) bool {
	return name == "Any" || name == "Unknown" || name == "Error"
}
