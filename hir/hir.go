// Package hir lowers a dol/ast.File into HIR: a mirror of the AST where
// every node carries a stable, process-wide-unique HirId, every
// identifier is an interned dol/intern.Symbol rather than a string, and
// spans live in a side table keyed by HirId rather than inline on the
// node. Lowering is total -- it never fails -- because reference
// validation is a separate later pass (dol/check); this mirrors how the
// teacher's internal/core/compile stage builds a closed value from a
// syntax tree without itself rejecting anything reference-related.
package hir

import (
	"github.com/google/uuid"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/intern"
	"github.com/univrs/dol/token"
	"github.com/univrs/dol/version"
)

// HirId uniquely identifies a HIR node within one Module. It is backed by
// a random UUID rather than a counter so that concurrent lowering of
// independent files (spec.md 5: "each compilation owns an independent
// interner, AST, HIR") never needs coordination to stay unique, and so
// merging HIR from multiple files can never collide ids by accident.
type HirId uuid.UUID

func (id HirId) String() string { return uuid.UUID(id).String() }

func newID() HirId { return HirId(uuid.New()) }

// Kind tags the concrete shape of a Node for callers that want to
// type-switch without importing every concrete struct.
type Kind int

const (
	KindModule Kind = iota
	KindImport
	KindGen
	KindTrait
	KindRule
	KindSystem
	KindEvo
	KindFunc
	KindConst
	KindSexVar
	KindHasField
	KindPredicate
	KindQuantified
	KindEnumTypedef
	KindParam
	KindType
	KindExpr
	KindPattern
)

// Node is implemented by every HIR declaration/statement/type node.
type Node interface {
	ID() HirId
	NodeKind() Kind
}

type base struct {
	Id   HirId
	Kind Kind
}

func (b base) ID() HirId      { return b.Id }
func (b base) NodeKind() Kind { return b.Kind }

func mk(k Kind) base { return base{Id: newID(), Kind: k} }

// ----------------------------------------------------------------------------
// Declarations

type Requirement struct {
	Name    intern.Symbol
	Op      version.ConstraintOp
	Version version.Version
}

type Param struct {
	base
	Name intern.Symbol
	Type TypeExpr
}

type GenDecl struct {
	base
	Visibility ast.Visibility
	Name       intern.Symbol
	Extends    intern.Symbol // zero Symbol if absent
	HasExtends bool
	Statements []Stmt
	Exegesis   string
}

type TraitDecl struct {
	base
	Visibility ast.Visibility
	Name       intern.Symbol
	Statements []Stmt
	Exegesis   string
}

type RuleDecl struct {
	base
	Visibility ast.Visibility
	Name       intern.Symbol
	Statements []Stmt
	Exegesis   string
}

type SystemDecl struct {
	base
	Visibility   ast.Visibility
	Name         intern.Symbol
	Version      version.Version
	Requirements []Requirement
	Statements   []Stmt
	Exegesis     string
}

type EvoDecl struct {
	base
	Name          intern.Symbol
	NewVersion    version.Version
	ParentVersion version.Version
	Additions     []intern.Symbol
	Deprecations  []intern.Symbol
	Removals      []intern.Symbol
	Rationale     string
	Exegesis      string
}

type FuncDecl struct {
	base
	Visibility ast.Visibility
	Purity     ast.Purity
	Name       intern.Symbol
	TypeParams []intern.Symbol
	Params     []Param
	Return     TypeExpr // nil if none
	Body       []Stmt
	Attributes []string
	Exegesis   string
}

type ConstDecl struct {
	base
	Visibility ast.Visibility
	Name       intern.Symbol
	Type       TypeExpr // nil if inferred
	Value      Expr
}

type SexVarDecl struct {
	base
	Visibility ast.Visibility
	Name       intern.Symbol
	Type       TypeExpr
	Value      Expr
}

type ImportDecl struct {
	base
	Visibility        ast.Visibility
	Kind              ast.ImportKind
	Path              string
	VersionConstraint string
	Ref               string
	Sha256            string
}

// Decl is the closed set of top-level declaration shapes.
type Decl interface {
	Node
	declNode()
}

func (*GenDecl) declNode()    {}
func (*TraitDecl) declNode()  {}
func (*RuleDecl) declNode()   {}
func (*SystemDecl) declNode() {}
func (*EvoDecl) declNode()    {}
func (*FuncDecl) declNode()   {}
func (*ConstDecl) declNode()  {}
func (*SexVarDecl) declNode() {}

// ----------------------------------------------------------------------------
// Statements

type Stmt interface {
	Node
	stmtNode()
}

type PredicateStmt struct {
	base
	Kind    ast.PredicateKind
	Subject intern.Symbol // zero Symbol for the unary Uses form
	Object  intern.Symbol
}

func (*PredicateStmt) stmtNode() {}

type QuantifiedStmt struct {
	base
	Quantifier ast.Quantifier
	Phrase     intern.Symbol
	Inner      Stmt // nil if purely free text
}

func (*QuantifiedStmt) stmtNode() {}

// CrdtAnnotation mirrors ast.CrdtAnnotation with an interned option map.
type CrdtAnnotation struct {
	Strategy ast.CrdtStrategy
	Options  map[intern.Symbol]string
}

type HasFieldStmt struct {
	base
	Name       intern.Symbol
	Type       TypeExpr
	Default    Expr // nil if absent
	Constraint Expr // nil if absent
	Crdt       *CrdtAnnotation
	Personal   bool
}

func (*HasFieldStmt) stmtNode() {}

func (*FuncDecl) stmtNode() {} // nested function, per spec.md 3

// ExprStmtNode wraps a bare expression used as a function-body statement
// (the common case: a function whose entire body is one expression).
type ExprStmtNode struct {
	base
	X Expr
}

func (*ExprStmtNode) stmtNode() {}

// ----------------------------------------------------------------------------
// Types

type TypeExpr interface {
	Node
	typeNode()
}

type NamedType struct {
	base
	Name intern.Symbol
}

func (*NamedType) typeNode() {}

type GenericType struct {
	base
	Name intern.Symbol
	Args []TypeExpr
}

func (*GenericType) typeNode() {}

type FuncType struct {
	base
	Params []TypeExpr
	Return TypeExpr
}

func (*FuncType) typeNode() {}

type TupleType struct {
	base
	Elems []TypeExpr
}

func (*TupleType) typeNode() {}

type NeverType struct{ base }

func (*NeverType) typeNode() {}

// EnumTypedef is the lowered form of an inline ast.EnumType: per spec.md
// 4F, "Inline enum types are lowered into an Enum typedef that names each
// variant" -- giving every enum literal a first-class HIR identity instead
// of a bag of strings.
type EnumTypedef struct {
	base
	Variants []intern.Symbol
}

func (*EnumTypedef) typeNode() {}

// ----------------------------------------------------------------------------
// Expressions (lowering keeps these structurally close to ast.Expr; only
// identifiers become Symbols).

type Expr interface {
	Node
	exprNode()
}

type Ident struct {
	base
	Name intern.Symbol
}

func (*Ident) exprNode() {}

type BasicLit struct {
	base
	Kind  ast.BasicLitKind
	Value string
}

func (*BasicLit) exprNode() {}

type BinaryExpr struct {
	base
	Op   ast.BinaryOp
	X, Y Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryExpr struct {
	base
	Op ast.UnaryOp
	X  Expr
}

func (*UnaryExpr) exprNode() {}

type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

type SelectExpr struct {
	base
	X    Expr
	Name intern.Symbol
}

func (*SelectExpr) exprNode() {}

type IndexExpr struct {
	base
	X, Index Expr
}

func (*IndexExpr) exprNode() {}

type TupleExpr struct {
	base
	Elems []Expr
}

func (*TupleExpr) exprNode() {}

type BlockExpr struct {
	base
	Stmts  []Expr // ExprStmt/LetStmt lowered to a uniform Expr sequence, result carried separately
	Result Expr
}

func (*BlockExpr) exprNode() {}

type LetExpr struct {
	base
	Name  intern.Symbol
	Type  TypeExpr
	Value Expr
}

func (*LetExpr) exprNode() {}

type IfExpr struct {
	base
	Cond, Then, Else Expr
}

func (*IfExpr) exprNode() {}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
}

type MatchExpr struct {
	base
	Subject Expr
	Arms    []MatchArm
}

func (*MatchExpr) exprNode() {}

type AssignExpr struct {
	base
	Target, Value Expr
}

func (*AssignExpr) exprNode() {}

type LoopExpr struct {
	base
	Body *BlockExpr
}

func (*LoopExpr) exprNode() {}

type BreakExpr struct{ base }

func (*BreakExpr) exprNode() {}

type LambdaExpr struct {
	base
	Params []Param
	Body   Expr
}

func (*LambdaExpr) exprNode() {}

// ----------------------------------------------------------------------------
// Patterns

type Pattern interface {
	Node
	patternNode()
}

type WildcardPattern struct{ base }

func (*WildcardPattern) patternNode() {}

type LiteralPattern struct {
	base
	Lit *BasicLit
}

func (*LiteralPattern) patternNode() {}

type BindPattern struct {
	base
	Name intern.Symbol
}

func (*BindPattern) patternNode() {}

type ConstructorPattern struct {
	base
	Name intern.Symbol
	Args []Pattern
}

func (*ConstructorPattern) patternNode() {}

type TuplePattern struct {
	base
	Elems []Pattern
}

func (*TuplePattern) patternNode() {}

type OrPattern struct {
	base
	Alternatives []Pattern
}

func (*OrPattern) patternNode() {}

// ----------------------------------------------------------------------------
// Module: the lowered whole-file unit, plus its span side table and
// interner, all owned together so concurrent lowering of independent
// files never shares mutable state (spec.md 5).

type Module struct {
	Filename string
	Imports  []*ImportDecl
	Decls    []Decl

	Interner *intern.Interner
	Spans    map[HirId]token.Span
}

// SpanOf looks up id's source span, returning token.NoSpan if id was
// never recorded (e.g. a synthetic node introduced by a transform pass).
func (m *Module) SpanOf(id HirId) token.Span {
	if s, ok := m.Spans[id]; ok {
		return s
	}
	return token.NoSpan
}
