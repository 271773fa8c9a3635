// Package crdt implements the CRDT semantic checker (RFC-001 section 4.1):
// the type-to-strategy compatibility matrix enforced on every annotated
// field, plus a constraint-taxonomy classifier that flags constraints
// whose name hints suggest a conflict with the chosen merge strategy.
// This mirrors dol/check's shape -- a Checker walking a lowered Module and
// accumulating an errors.List -- but is kept as its own pass since CRDT
// rules are independent of scope/name resolution and a field can be
// checked without knowing whether its type even resolves.
package crdt

import (
	"sort"
	"strings"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
)

// Category classifies a field's type into one of the rows of the RFC-001
// compatibility matrix.
type Category int

const (
	CategoryString Category = iota
	CategoryInteger
	CategoryFloat
	CategoryBool
	CategorySet
	CategoryVec
	CategoryMap
	CategoryOptionResult
	CategoryTuple
	CategoryNamed
)

func (c Category) String() string {
	switch c {
	case CategoryString:
		return "String"
	case CategoryInteger:
		return "Integer"
	case CategoryFloat:
		return "Float"
	case CategoryBool:
		return "Bool"
	case CategorySet:
		return "Set"
	case CategoryVec:
		return "Vec"
	case CategoryMap:
		return "Map"
	case CategoryOptionResult:
		return "Option/Result"
	case CategoryTuple:
		return "Tuple"
	default:
		return "named type"
	}
}

// matrix is the RFC-001 section 4.1 compatibility table. Option/Result is
// absent: it delegates to its inner type and is always compatible, so it
// is handled as a special case rather than a matrix row.
var matrix = map[Category][]ast.CrdtStrategy{
	CategoryString:  {ast.Immutable, ast.Lww, ast.Peritext, ast.MvRegister},
	CategoryInteger: {ast.Immutable, ast.Lww, ast.PnCounter, ast.MvRegister},
	CategoryFloat:   {ast.Immutable, ast.Lww, ast.MvRegister},
	CategoryBool:    {ast.Immutable, ast.Lww, ast.MvRegister},
	CategorySet:     {ast.Immutable, ast.OrSet, ast.MvRegister},
	CategoryVec:     {ast.Immutable, ast.Lww, ast.Rga, ast.MvRegister},
	CategoryMap:     {ast.Immutable, ast.Lww, ast.MvRegister},
	CategoryTuple:   {ast.Immutable, ast.Lww, ast.MvRegister},
	CategoryNamed:   {ast.Immutable, ast.Lww, ast.MvRegister},
}

// ClassifyType maps a lowered field type to its compatibility-matrix
// category.
func ClassifyType(in *intern.Interner, t hir.TypeExpr) Category {
	switch n := t.(type) {
	case *hir.NamedType:
		name := in.Lookup(n.Name)
		switch {
		case name == "String":
			return CategoryString
		case ast.IsIntegerType(name):
			return CategoryInteger
		case ast.IsFloatType(name):
			return CategoryFloat
		case name == "Bool":
			return CategoryBool
		default:
			return CategoryNamed
		}
	case *hir.GenericType:
		switch in.Lookup(n.Name) {
		case "Set":
			return CategorySet
		case "Vec", "List":
			return CategoryVec
		case "Map":
			return CategoryMap
		case "Option", "Result":
			return CategoryOptionResult
		default:
			return CategoryNamed
		}
	case *hir.TupleType:
		return CategoryTuple
	default:
		return CategoryNamed
	}
}

// IsCompatible reports whether strategy is legal for category.
// Option/Result delegates to its inner type and is always compatible.
func IsCompatible(category Category, strategy ast.CrdtStrategy) bool {
	if category == CategoryOptionResult {
		return true
	}
	for _, s := range matrix[category] {
		if s == strategy {
			return true
		}
	}
	return false
}

// legalStrategyNames returns category's allowed strategy names in a
// stable, human-readable order, for use in a remediation suggestion.
func legalStrategyNames(category Category) []string {
	if category == CategoryOptionResult {
		return []string{"any strategy (delegates to the inner type)"}
	}
	strategies := matrix[category]
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.String()
	}
	sort.Strings(names)
	return names
}

// ----------------------------------------------------------------------------
// Constraint taxonomy

// Taxonomy classifies a constraint attached to a CRDT-annotated field.
type Taxonomy int

const (
	TaxonomyNone Taxonomy = iota
	TaxonomySafe
	TaxonomyEventuallyConsistent
	TaxonomyRequiresCoordination
)

var safeHints = []string{"immutable", "append", "monotonic"}
var eventualHints = []string{"bound", "limit", "count", "size"}
var coordinationHints = []string{"unique", "escrow", "balance", "capacity", "quota"}

// ClassifyConstraint inspects every identifier and call-callee name
// reachable in the constraint expression for one of the three hint
// vocabularies. The first matching hint wins, checked in safe, eventual,
// coordination order so an expression like `escrow_monotonic` is treated
// as the more permissive safe case rather than over-warning.
func ClassifyConstraint(in *intern.Interner, e hir.Expr) Taxonomy {
	names := collectNames(in, e)
	if anyHint(names, safeHints) {
		return TaxonomySafe
	}
	if anyHint(names, eventualHints) {
		return TaxonomyEventuallyConsistent
	}
	if anyHint(names, coordinationHints) {
		return TaxonomyRequiresCoordination
	}
	return TaxonomyNone
}

func anyHint(names []string, hints []string) bool {
	for _, n := range names {
		lower := strings.ToLower(n)
		for _, h := range hints {
			if strings.Contains(lower, h) {
				return true
			}
		}
	}
	return false
}

// collectNames walks e and gathers every identifier/select/call-callee
// name it references, which is the "name hint" surface the taxonomy
// classifies against.
func collectNames(in *intern.Interner, e hir.Expr) []string {
	var out []string
	var walk func(hir.Expr)
	walk = func(e hir.Expr) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *hir.Ident:
			out = append(out, in.Lookup(n.Name))
		case *hir.SelectExpr:
			out = append(out, in.Lookup(n.Name))
			walk(n.X)
		case *hir.CallExpr:
			walk(n.Callee)
			for _, a := range n.Args {
				walk(a)
			}
		case *hir.BinaryExpr:
			walk(n.X)
			walk(n.Y)
		case *hir.UnaryExpr:
			walk(n.X)
		case *hir.IndexExpr:
			walk(n.X)
			walk(n.Index)
		case *hir.TupleExpr:
			for _, el := range n.Elems {
				walk(el)
			}
		}
	}
	walk(e)
	return out
}

// ----------------------------------------------------------------------------
// Checker

// Checker walks a Module's gen declarations validating every CRDT-
// annotated field.
type Checker struct {
	m     *hir.Module
	diags errors.List
}

// Check runs the CRDT semantic checker over m and returns the
// accumulated diagnostics.
func Check(m *hir.Module) *errors.List {
	c := &Checker{m: m}
	for _, d := range m.Decls {
		g, ok := d.(*hir.GenDecl)
		if !ok {
			continue
		}
		for _, s := range g.Statements {
			if hf, ok := s.(*hir.HasFieldStmt); ok {
				c.checkField(hf)
			}
		}
	}
	return &c.diags
}

func (c *Checker) checkField(hf *hir.HasFieldStmt) {
	if hf.Crdt == nil {
		return
	}
	category := ClassifyType(c.m.Interner, hf.Type)
	strategy := hf.Crdt.Strategy
	fieldName := c.m.Interner.Lookup(hf.Name)

	if !IsCompatible(category, strategy) {
		var fits []string
		for cat := CategoryString; cat <= CategoryNamed; cat++ {
			if cat != CategoryOptionResult && IsCompatible(cat, strategy) {
				fits = append(fits, cat.String())
			}
		}
		c.diags.Addf(errors.ValidationIncompatibleCrdtStrategy, c.m.SpanOf(hf.ID()),
			"field %q of type %s cannot use CRDT strategy %s", fieldName, category, strategy).
			Remediate("use one of: "+strings.Join(legalStrategyNames(category), ", "),
				strategy.String()+" is for "+strings.Join(fits, ", ")+" fields")
	}

	if hf.Constraint == nil {
		return
	}
	tax := ClassifyConstraint(c.m.Interner, hf.Constraint)
	switch tax {
	case TaxonomyEventuallyConsistent:
		c.diags.Warnf(errors.WarningEventuallyConsistentConstraint, c.m.SpanOf(hf.Constraint.ID()),
			"constraint on %q may be temporarily violated across a network partition under %s",
			fieldName, strategy).
			Remediate("treat violations of this constraint as transient and reconcile after sync")
	case TaxonomyRequiresCoordination:
		c.diags.Warnf(errors.WarningRequiresCoordinationConstraint, c.m.SpanOf(hf.Constraint.ID()),
			"constraint on %q requires coordination that CRDT merge cannot provide", fieldName).
			Remediate("use an escrow pattern", "remove the CRDT annotation and require a single writer")
	}

	if strategy == ast.Immutable && (tax == TaxonomyEventuallyConsistent || tax == TaxonomyRequiresCoordination) {
		c.diags.Addf(errors.ValidationConstraintCrdtConflict, c.m.SpanOf(hf.Constraint.ID()),
			"field %q is immutable but its constraint implies mutation", fieldName).
			Remediate("drop the constraint", "choose a mutable strategy")
	}
}
