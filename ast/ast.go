// Package ast declares the syntax tree produced by the DOL parser. As in
// cuelang.org/go/cue/ast, nodes are a sum-of-products tree: five narrow
// interfaces (Decl, Stmt, Expr, TypeExpr, Pattern) are implemented by a
// closed set of concrete struct types, every node carries a token.Span, and
// callers are expected to type-switch rather than use method dispatch on
// nodes (spec.md 9: "prefer data + free functions over method dispatch").
package ast

import (
	"github.com/univrs/dol/token"
	"github.com/univrs/dol/version"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Span
}

// Visibility classifies how far a declaration (or re-export) is exposed.
type Visibility int

const (
	Private Visibility = iota
	Public
	PubSpirit
	PubParent
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "pub"
	case PubSpirit:
		return "pub(spirit)"
	case PubParent:
		return "pub(parent)"
	default:
		return "private"
	}
}

// Purity distinguishes side-effect-free functions from side-effecting ones.
type Purity int

const (
	Pure Purity = iota
	Sex
)

// ----------------------------------------------------------------------------
// Declarations

// Decl is implemented by every top-level declaration form.
type Decl interface {
	Node
	declNode()
}

// ModuleDecl is the optional module declaration at the top of a file.
type ModuleDecl struct {
	Name string
	Span token.Span
}

func (d *ModuleDecl) Pos() token.Span { return d.Span }

// ImportKind distinguishes the four import forms of spec.md 6.
type ImportKind int

const (
	ImportLocal ImportKind = iota
	ImportRegistry
	ImportGit
	ImportHttps
)

// ImportDecl is a `use` declaration, optionally re-exported with pub /
// pub(spirit) / pub(parent).
type ImportDecl struct {
	Visibility        Visibility
	Kind              ImportKind
	Path              string // dotted name, filesystem path, @scope/pkg, host/repo, or URL
	VersionConstraint string // raw constraint text (^, ~, >=, >, <, =, or exact)
	Ref               string // git reference, if any
	Sha256            string // https integrity hash, if any
	Span              token.Span
}

func (d *ImportDecl) Pos() token.Span { return d.Span }
func (*ImportDecl) declNode()         {}

// GenDecl declares an atomic entity with typed fields.
type GenDecl struct {
	Visibility Visibility
	Name       string // dotted, e.g. container.exists
	Extends    string // optional extends target; "" if absent
	Statements []Stmt
	Exegesis   string
	Span       token.Span
}

func (d *GenDecl) Pos() token.Span { return d.Span }
func (*GenDecl) declNode()         {}

// TraitDecl declares a composable behavior.
type TraitDecl struct {
	Visibility Visibility
	Name       string
	Statements []Stmt
	Exegesis   string
	Span       token.Span
}

func (d *TraitDecl) Pos() token.Span { return d.Span }
func (*TraitDecl) declNode()         {}

// RuleDecl declares a system invariant.
type RuleDecl struct {
	Visibility Visibility
	Name       string
	Statements []Stmt
	Exegesis   string
	Span       token.Span
}

func (d *RuleDecl) Pos() token.Span { return d.Span }
func (*RuleDecl) declNode()         {}

// Requirement is one `name op version` entry in a system's requirement
// list.
type Requirement struct {
	Name    string
	Op      version.ConstraintOp
	Version version.Version
	Span    token.Span
}

// SystemDecl declares a versioned composition of traits/rules.
type SystemDecl struct {
	Visibility   Visibility
	Name         string
	Version      version.Version
	Requirements []Requirement
	Statements   []Stmt
	Exegesis     string
	Span         token.Span
}

func (d *SystemDecl) Pos() token.Span { return d.Span }
func (*SystemDecl) declNode()         {}

// EvoDecl declares a versioned migration record.
type EvoDecl struct {
	Name          string
	NewVersion    version.Version
	ParentVersion version.Version
	Additions     []string
	Deprecations  []string
	Removals      []string
	Rationale     string // optional, "" if absent
	Exegesis      string
	Span          token.Span
}

func (d *EvoDecl) Pos() token.Span { return d.Span }
func (*EvoDecl) declNode()         {}

// Param is a function parameter (name + type).
type Param struct {
	Name string
	Type TypeExpr
}

// FuncDecl declares a function. It is both a top-level Decl and, nested
// inside a gen/trait/rule body, a Stmt (spec.md 3: "Statement -- ... or
// nested function").
type FuncDecl struct {
	Visibility Visibility
	Purity     Purity
	Name       string
	TypeParams []string
	Params     []Param
	Return     TypeExpr // nil if none
	Body       []Stmt
	Attributes []string
	Exegesis   string
	Span       token.Span
}

func (d *FuncDecl) Pos() token.Span { return d.Span }
func (*FuncDecl) declNode()         {}
func (*FuncDecl) stmtNode()         {}

// ConstDecl declares an immutable top-level binding.
type ConstDecl struct {
	Visibility Visibility
	Name       string
	Type       TypeExpr // optional, nil if inferred
	Value      Expr
	Span       token.Span
}

func (d *ConstDecl) Pos() token.Span { return d.Span }
func (*ConstDecl) declNode()         {}

// SexVarDecl is the mutable counterpart of ConstDecl.
type SexVarDecl struct {
	Visibility Visibility
	Name       string
	Type       TypeExpr
	Value      Expr
	Span       token.Span
}

func (d *SexVarDecl) Pos() token.Span { return d.Span }
func (*SexVarDecl) declNode()         {}

// File is a single parsed DOL source file.
type File struct {
	Filename string
	Module   *ModuleDecl // nil if absent
	Imports  []*ImportDecl
	Decls    []Decl
}

func (f *File) Pos() token.Span {
	if f.Module != nil {
		return f.Module.Span
	}
	if len(f.Imports) > 0 {
		return f.Imports[0].Span
	}
	if len(f.Decls) > 0 {
		return f.Decls[0].Pos()
	}
	return token.NoSpan
}

// Back-compat aliases per spec.md 4E: "A back-compat alias exists from
// Gene->Gen, Constraint->Rule, Evolution->Evo."
type (
	Gene       = GenDecl
	Constraint = RuleDecl
	Evolution  = EvoDecl
)
