package check

import (
	"strings"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
)

// builtinNames mirrors ast.BuiltinTypes; kept local since HIR types carry
// interned Symbols rather than strings.
var builtinNames = ast.BuiltinTypes

// ----------------------------------------------------------------------------
// Pass 2: walk

func (c *Checker) passWalk() {
	for _, d := range c.m.Decls {
		switch n := d.(type) {
		case *hir.GenDecl:
			c.walkGenLikeStatements(n.Name, n.Statements)
			c.checkExtends(n)
		case *hir.TraitDecl:
			c.walkGenLikeStatements(n.Name, n.Statements)
		case *hir.RuleDecl:
			c.walkGenLikeStatements(n.Name, n.Statements)
		case *hir.SystemDecl:
			c.walkGenLikeStatements(n.Name, n.Statements)
			c.checkRequirements(n)
		case *hir.FuncDecl:
			c.walkFunc(n)
		case *hir.ConstDecl:
			if n.Value != nil {
				c.inferExpr(newScope(nil), &exprCtx{}, n.Value)
			}
		case *hir.SexVarDecl:
			if n.Value != nil {
				c.inferExpr(newScope(nil), &exprCtx{}, n.Value)
			}
		}
	}
}

// checkExtends implements invariant 8: the extends target must exist (or
// be built-in); self-extension is a warning, not an error.
func (c *Checker) checkExtends(g *hir.GenDecl) {
	if !g.HasExtends {
		return
	}
	if g.Extends == g.Name {
		c.diags.Warnf(errors.WarningNamingConvention, c.span(g.ID()),
			"%q extends itself", c.name(g.Name)).
			Remediate("remove the self-reference or extend a different declaration")
		return
	}
	if c.resolvesToplevel(g.Extends) {
		return
	}
	c.diags.Addf(errors.ValidationUnresolvedReference, c.span(g.ID()),
		"%q extends undefined declaration %q", c.name(g.Name), c.name(g.Extends)).
		Remediate("define the extends target", "fix a typo in the dotted name", "remove the extends clause")
}

// checkRequirements validates invariant for system requirement names:
// each must be a valid dotted identifier. A system's dependency may be
// compiled and registered elsewhere, so an unresolved name is not itself
// an error -- only a malformed one is.
func (c *Checker) checkRequirements(s *hir.SystemDecl) {
	for _, r := range s.Requirements {
		if !validQualifiedName(c.name(r.Name)) {
			c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(s.ID()),
				"system %q requires invalid dependency name %q", c.name(s.Name), c.name(r.Name)).
				Remediate("use a dotted, letter-initial dependency name")
		}
	}
}

func (c *Checker) resolvesToplevel(name intern.Symbol) bool {
	if builtinNames[c.name(name)] {
		return true
	}
	_, ok := c.global[name]
	return ok
}

// walkGenLikeStatements resolves references inside gen/trait/rule/system/
// function bodies, all of which share the same Stmt closed set (predicate
// forms, quantified forms, typed fields, nested functions).
func (c *Checker) walkGenLikeStatements(owner intern.Symbol, stmts []hir.Stmt) {
	for _, s := range stmts {
		c.walkStmt(owner, s)
	}
}

func (c *Checker) walkStmt(owner intern.Symbol, s hir.Stmt) {
	switch n := s.(type) {
	case *hir.PredicateStmt:
		c.walkPredicate(owner, n)
	case *hir.QuantifiedStmt:
		if n.Inner != nil {
			c.walkStmt(owner, n.Inner)
		} else if c.name(n.Phrase) == "" {
			c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(n.ID()),
				"%s statement has an empty phrase", n.Quantifier).
				Remediate("give the quantified statement a phrase")
		}
	case *hir.HasFieldStmt:
		c.walkHasField(n)
	case *hir.FuncDecl:
		c.walkFunc(n)
	case *hir.ExprStmtNode:
		c.inferExpr(newScope(nil), &exprCtx{}, n.X)
	}
}

func (c *Checker) walkPredicate(owner intern.Symbol, p *hir.PredicateStmt) {
	if p.Kind != ast.PredUses && c.name(p.Subject) == "" {
		c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(p.ID()),
			"%s statement has an empty subject", p.Kind).Remediate("give the statement a subject phrase")
	}
	if c.name(p.Object) == "" {
		c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(p.ID()),
			"%s statement has an empty object", p.Kind).Remediate("give the statement an object phrase")
		return
	}

	switch p.Kind {
	case ast.PredUses:
		if p.Object == owner {
			c.diags.Warnf(errors.WarningNamingConvention, c.span(p.ID()),
				"%q uses itself", c.name(owner)).Remediate("remove the self-reference")
			return
		}
		if !c.resolvesToplevel(p.Object) && !looksLikePhrase(c.name(p.Object)) {
			c.diags.Addf(errors.ValidationUnresolvedReference, c.span(p.ID()),
				"uses undefined declaration %q", c.name(p.Object)).
				Remediate("define the referenced declaration", "add an explicit import for it")
		}
	case ast.PredDerivesFrom:
		if p.Object == owner {
			c.diags.Warnf(errors.WarningNamingConvention, c.span(p.ID()),
				"%q derives from itself", c.name(owner)).Remediate("remove the self-derivation")
		}
	case ast.PredRequires:
		if p.Object == owner {
			c.diags.Warnf(errors.WarningNamingConvention, c.span(p.ID()),
				"%q requires itself", c.name(owner)).Remediate("remove the self-requirement")
		}
	}
}

// looksLikePhrase reports whether name contains whitespace, meaning it was
// accumulated as a free-text phrase rather than a resolvable dotted
// reference: phrases are not subject to reference resolution.
func looksLikePhrase(name string) bool { return strings.ContainsAny(name, " \t") }

func (c *Checker) walkHasField(hf *hir.HasFieldStmt) {
	if c.name(hf.Name) == "" {
		c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(hf.ID()), "field has an empty name")
	}
	c.checkTypeResolves(hf.Type)
	s := newScope(nil)
	ec := &exprCtx{}
	if hf.Default != nil {
		c.inferExpr(s, ec, hf.Default)
	}
	if hf.Constraint != nil {
		t := c.inferExpr(s, ec, hf.Constraint)
		if t != "" && t != "Bool" && t != "Unknown" && t != "Any" {
			c.diags.Addf(errors.ValidationTypeMismatch, c.span(hf.Constraint.ID()),
				"constraint on %q must be boolean, got %s", c.name(hf.Name), t).
				Remediate("rewrite the constraint as a boolean expression")
		}
	}
}

// checkTypeResolves implements the named-type half of the validator: a
// missing type that is not a built-in or wildcard is an error.
func (c *Checker) checkTypeResolves(t hir.TypeExpr) {
	switch n := t.(type) {
	case *hir.NamedType:
		name := c.name(n.Name)
		if builtinNames[name] || ast.IsWildcardType(name) {
			return
		}
		if c.resolvesToplevel(n.Name) {
			return
		}
		c.diags.Addf(errors.ValidationUnresolvedReference, c.span(n.ID()),
			"type %q is not defined", name).
			Remediate("define the referenced gen", "use a built-in type")
	case *hir.GenericType:
		for _, a := range n.Args {
			c.checkTypeResolves(a)
		}
	case *hir.FuncType:
		for _, p := range n.Params {
			c.checkTypeResolves(p)
		}
		if n.Return != nil {
			c.checkTypeResolves(n.Return)
		}
	case *hir.TupleType:
		for _, e := range n.Elems {
			c.checkTypeResolves(e)
		}
	}
}

func (c *Checker) walkFunc(fn *hir.FuncDecl) {
	if fn.Return != nil {
		c.checkTypeResolves(fn.Return)
	}
	s := newScope(nil)
	for _, p := range fn.Params {
		s.bind(p.Name)
		c.checkTypeResolves(p.Type)
	}
	ec := &exprCtx{}
	for _, st := range fn.Body {
		if x, ok := st.(*hir.ExprStmtNode); ok {
			c.inferExpr(s, ec, x.X)
			continue
		}
		c.walkStmt(fn.Name, st)
	}
}

// ----------------------------------------------------------------------------
// Expression inference: a light Hindley-Milner-like skeleton over the
// HasField default/constraint and Const/SexVar initializer expressions.
// Type is a coarse string tag rather than a full lattice; spec.md 4G only
// requires enough classification to catch boolean-condition and
// place-expression violations, not a complete unifier.

type Type = string

const (
	tInt     Type = "Int"
	tFloat   Type = "Float"
	tBool    Type = "Bool"
	tString  Type = "String"
	tNull    Type = "Null"
	tUnit    Type = "Unit"
	tUnknown Type = "Unknown"
)

// exprCtx tracks state that must thread through nested blocks/lambdas
// within one expression tree: the loop depth, used for break validation.
type exprCtx struct {
	loopDepth int
}

func isWildcardResultType(t Type) bool {
	return t == tUnknown || t == "Any" || t == "Error"
}

func (c *Checker) inferExpr(s *scope, ec *exprCtx, e hir.Expr) Type {
	switch n := e.(type) {
	case *hir.Ident:
		if !s.resolves(n.Name) && !c.resolvesToplevel(n.Name) {
			c.diags.Addf(errors.ValidationUnresolvedReference, c.span(n.ID()),
				"undefined variable %q", c.name(n.Name)).
				Remediate("bind the variable before use", "fix a typo in the name")
		}
		return tUnknown
	case *hir.BasicLit:
		switch n.Kind {
		case ast.LitInt:
			return tInt
		case ast.LitFloat:
			return tFloat
		case ast.LitBool:
			return tBool
		case ast.LitString:
			return tString
		default:
			return tNull
		}
	case *hir.BinaryExpr:
		xt := c.inferExpr(s, ec, n.X)
		yt := c.inferExpr(s, ec, n.Y)
		return c.inferBinary(n, xt, yt)
	case *hir.UnaryExpr:
		xt := c.inferExpr(s, ec, n.X)
		if n.Op == ast.OpNot && xt != tBool && !isWildcardResultType(xt) {
			c.diags.Addf(errors.ValidationTypeMismatch, c.span(n.ID()),
				"! requires a boolean operand, got %s", xt).
				Remediate("use a boolean expression")
		}
		if n.Op == ast.OpNeg {
			return xt
		}
		return tBool
	case *hir.CallExpr:
		c.inferExpr(s, ec, n.Callee)
		for _, a := range n.Args {
			c.inferExpr(s, ec, a)
		}
		return tUnknown
	case *hir.SelectExpr:
		c.inferExpr(s, ec, n.X)
		return tUnknown
	case *hir.IndexExpr:
		c.inferExpr(s, ec, n.X)
		c.inferExpr(s, ec, n.Index)
		return tUnknown
	case *hir.TupleExpr:
		for _, el := range n.Elems {
			c.inferExpr(s, ec, el)
		}
		return "Tuple"
	case *hir.BlockExpr:
		return c.inferBlock(s, ec, n)
	case *hir.LetExpr:
		c.inferExpr(s, ec, n.Value)
		if n.Type != nil {
			c.checkTypeResolves(n.Type)
		}
		s.bind(n.Name)
		return tUnit
	case *hir.IfExpr:
		ct := c.inferExpr(s, ec, n.Cond)
		if ct != tBool && !isWildcardResultType(ct) {
			c.diags.Addf(errors.ValidationTypeMismatch, c.span(n.ID()),
				"if condition must be boolean, got %s", ct).
				Remediate("rewrite the condition as a boolean expression")
		}
		tt := c.inferExpr(s, ec, n.Then)
		if n.Else != nil {
			et := c.inferExpr(s, ec, n.Else)
			if tt != et && !isWildcardResultType(tt) && !isWildcardResultType(et) {
				c.diags.Addf(errors.ValidationTypeMismatch, c.span(n.ID()),
					"if branches disagree: then is %s, else is %s", tt, et).
					Remediate("make both branches produce the same type")
			}
			return tt
		}
		return tUnit
	case *hir.MatchExpr:
		return c.inferMatch(s, ec, n)
	case *hir.AssignExpr:
		if !isHirPlace(n.Target) {
			c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(n.ID()),
				"assignment target must be a variable, field, or index expression").
				Remediate("assign to a variable, field access, or index expression")
		} else {
			c.inferExpr(s, ec, n.Target)
		}
		c.inferExpr(s, ec, n.Value)
		return tUnit
	case *hir.LoopExpr:
		ec.loopDepth++
		if n.Body != nil {
			c.inferBlock(s, ec, n.Body)
		}
		ec.loopDepth--
		return tUnit
	case *hir.BreakExpr:
		if ec.loopDepth == 0 {
			c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(n.ID()),
				"break used outside of a loop").Remediate("remove the break or move it inside a loop")
		}
		return tUnit
	case *hir.LambdaExpr:
		inner := newScope(s)
		for _, p := range n.Params {
			inner.bind(p.Name)
			c.checkTypeResolves(p.Type)
		}
		innerEc := &exprCtx{}
		c.inferExpr(inner, innerEc, n.Body)
		return "Func"
	default:
		return tUnknown
	}
}

func (c *Checker) inferBinary(n *hir.BinaryExpr, xt, yt Type) Type {
	switch {
	case n.Op.IsLogical():
		for _, t := range []Type{xt, yt} {
			if t != tBool && !isWildcardResultType(t) {
				c.diags.Addf(errors.ValidationTypeMismatch, c.span(n.ID()),
					"%s requires boolean operands, got %s", n.Op, t).
					Remediate("use boolean expressions on both sides")
			}
		}
		return tBool
	case n.Op.IsComparison():
		return tBool
	case n.Op.IsArithmetic():
		if xt != yt && !isWildcardResultType(xt) && !isWildcardResultType(yt) {
			c.diags.Addf(errors.ValidationTypeMismatch, c.span(n.ID()),
				"%s has mismatched operand types %s and %s", n.Op, xt, yt).
				Remediate("convert one operand so both sides agree")
		}
		if xt == tFloat || yt == tFloat {
			return tFloat
		}
		if xt == tInt || yt == tInt {
			return tInt
		}
		return tUnknown
	}
	return tUnknown
}

func (c *Checker) inferBlock(parent *scope, ec *exprCtx, b *hir.BlockExpr) Type {
	s := newScope(parent)
	for _, st := range b.Stmts {
		c.inferExpr(s, ec, st)
	}
	if b.Result != nil {
		return c.inferExpr(s, ec, b.Result)
	}
	return tUnit
}

func (c *Checker) inferMatch(s *scope, ec *exprCtx, m *hir.MatchExpr) Type {
	c.inferExpr(s, ec, m.Subject)
	var result Type
	first := true
	for _, arm := range m.Arms {
		inner := newScope(s)
		bound := map[intern.Symbol]bool{}
		c.checkPattern(inner, arm.Pattern, bound)
		if arm.Guard != nil {
			gt := c.inferExpr(inner, ec, arm.Guard)
			if gt != tBool && !isWildcardResultType(gt) {
				c.diags.Addf(errors.ValidationTypeMismatch, c.span(arm.Pattern.ID()),
					"match guard must be boolean, got %s", gt).
					Remediate("rewrite the guard as a boolean expression")
			}
		}
		bt := c.inferExpr(inner, ec, arm.Body)
		if first {
			result = bt
			first = false
		} else if bt != result && !isWildcardResultType(bt) && !isWildcardResultType(result) {
			c.diags.Addf(errors.ValidationTypeMismatch, c.span(arm.Body.ID()),
				"match arm produces %s, expected %s (from an earlier arm)", bt, result).
				Remediate("make every arm produce the same type")
		}
	}
	if first {
		return tUnknown
	}
	return result
}

// checkPattern validates a pattern's own shape (invariant: or-pattern
// alternatives must bind the same variable set) and binds every name it
// introduces into s.
func (c *Checker) checkPattern(s *scope, p hir.Pattern, bound map[intern.Symbol]bool) {
	switch n := p.(type) {
	case *hir.WildcardPattern, *hir.LiteralPattern:
		// no bindings
	case *hir.BindPattern:
		s.bind(n.Name)
		bound[n.Name] = true
	case *hir.ConstructorPattern:
		if !c.variants[n.Name] && !builtinNames[c.name(n.Name)] {
			c.diags.Addf(errors.ValidationUnresolvedReference, c.span(n.ID()),
				"pattern constructor %q does not name a known enum variant", c.name(n.Name)).
				Remediate("match against a declared enum variant")
		}
		for _, a := range n.Args {
			c.checkPattern(s, a, bound)
		}
	case *hir.TuplePattern:
		for _, e := range n.Elems {
			c.checkPattern(s, e, bound)
		}
	case *hir.OrPattern:
		var sets []map[intern.Symbol]bool
		for _, alt := range n.Alternatives {
			altBound := map[intern.Symbol]bool{}
			c.checkPattern(s, alt, altBound)
			sets = append(sets, altBound)
			for k := range altBound {
				bound[k] = true
			}
		}
		for i := 1; i < len(sets); i++ {
			if !sameSymbolSet(sets[0], sets[i]) {
				c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(n.ID()),
					"or-pattern alternatives must bind the same variables").
					Remediate("bind identical variable names in every alternative")
				break
			}
		}
	}
}

func sameSymbolSet(a, b map[intern.Symbol]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// isHirPlace mirrors ast.IsPlace over the lowered Expr shapes.
func isHirPlace(e hir.Expr) bool {
	switch e.(type) {
	case *hir.Ident, *hir.SelectExpr, *hir.IndexExpr:
		return true
	default:
		return false
	}
}
