package hir

import (
	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/intern"
	"github.com/univrs/dol/token"
)

// Lower desugars a parsed *ast.File into a *Module. It never fails: any
// shape the parser produced is accepted as-is, and reference resolution
// is left entirely to dol/check.
func Lower(f *ast.File) *Module {
	m := &Module{Filename: f.Filename, Interner: intern.New(), Spans: map[HirId]token.Span{}}
	l := &lowerer{m: m}
	for _, im := range f.Imports {
		m.Imports = append(m.Imports, l.lowerImport(im))
	}
	for _, d := range f.Decls {
		m.Decls = append(m.Decls, l.lowerDecl(d))
	}
	return m
}

type lowerer struct{ m *Module }

// record deposits node's span into the side table and returns node.Id,
// matching spec.md 4F: "spans live in a side table keyed by HirId".
func (l *lowerer) record(id HirId, span token.Span) HirId {
	l.m.Spans[id] = span
	return id
}

func (l *lowerer) sym(s string) intern.Symbol { return l.m.Interner.Intern(s) }

func (l *lowerer) syms(ss []string) []intern.Symbol {
	out := make([]intern.Symbol, len(ss))
	for i, s := range ss {
		out[i] = l.sym(s)
	}
	return out
}

func (l *lowerer) lowerImport(d *ast.ImportDecl) *ImportDecl {
	b := mk(KindImport)
	l.record(b.Id, d.Span)
	return &ImportDecl{
		base: b, Visibility: d.Visibility, Kind: d.Kind, Path: d.Path,
		VersionConstraint: d.VersionConstraint, Ref: d.Ref, Sha256: d.Sha256,
	}
}

func (l *lowerer) lowerDecl(d ast.Decl) Decl {
	switch n := d.(type) {
	case *ast.GenDecl:
		return l.lowerGen(n)
	case *ast.TraitDecl:
		return l.lowerTrait(n)
	case *ast.RuleDecl:
		return l.lowerRule(n)
	case *ast.SystemDecl:
		return l.lowerSystem(n)
	case *ast.EvoDecl:
		return l.lowerEvo(n)
	case *ast.FuncDecl:
		return l.lowerFunc(n)
	case *ast.ConstDecl:
		return l.lowerConst(n)
	case *ast.SexVarDecl:
		return l.lowerSexVar(n)
	default:
		return nil
	}
}

func (l *lowerer) lowerGen(n *ast.GenDecl) *GenDecl {
	b := mk(KindGen)
	l.record(b.Id, n.Span)
	g := &GenDecl{base: b, Visibility: n.Visibility, Name: l.sym(n.Name), Exegesis: n.Exegesis}
	if n.Extends != "" {
		g.HasExtends = true
		g.Extends = l.sym(n.Extends)
	}
	for _, s := range n.Statements {
		g.Statements = append(g.Statements, l.lowerStmt(s))
	}
	return g
}

func (l *lowerer) lowerTrait(n *ast.TraitDecl) *TraitDecl {
	b := mk(KindTrait)
	l.record(b.Id, n.Span)
	t := &TraitDecl{base: b, Visibility: n.Visibility, Name: l.sym(n.Name), Exegesis: n.Exegesis}
	for _, s := range n.Statements {
		t.Statements = append(t.Statements, l.lowerStmt(s))
	}
	return t
}

func (l *lowerer) lowerRule(n *ast.RuleDecl) *RuleDecl {
	b := mk(KindRule)
	l.record(b.Id, n.Span)
	r := &RuleDecl{base: b, Visibility: n.Visibility, Name: l.sym(n.Name), Exegesis: n.Exegesis}
	for _, s := range n.Statements {
		r.Statements = append(r.Statements, l.lowerStmt(s))
	}
	return r
}

func (l *lowerer) lowerSystem(n *ast.SystemDecl) *SystemDecl {
	b := mk(KindSystem)
	l.record(b.Id, n.Span)
	s := &SystemDecl{base: b, Visibility: n.Visibility, Name: l.sym(n.Name), Version: n.Version, Exegesis: n.Exegesis}
	for _, r := range n.Requirements {
		s.Requirements = append(s.Requirements, Requirement{Name: l.sym(r.Name), Op: r.Op, Version: r.Version})
	}
	for _, st := range n.Statements {
		s.Statements = append(s.Statements, l.lowerStmt(st))
	}
	return s
}

func (l *lowerer) lowerEvo(n *ast.EvoDecl) *EvoDecl {
	b := mk(KindEvo)
	l.record(b.Id, n.Span)
	return &EvoDecl{
		base: b, Name: l.sym(n.Name), NewVersion: n.NewVersion, ParentVersion: n.ParentVersion,
		Additions: l.syms(n.Additions), Deprecations: l.syms(n.Deprecations), Removals: l.syms(n.Removals),
		Rationale: n.Rationale, Exegesis: n.Exegesis,
	}
}

func (l *lowerer) lowerFunc(n *ast.FuncDecl) *FuncDecl {
	b := mk(KindFunc)
	l.record(b.Id, n.Span)
	fn := &FuncDecl{
		base: b, Visibility: n.Visibility, Purity: n.Purity, Name: l.sym(n.Name),
		TypeParams: l.syms(n.TypeParams), Attributes: n.Attributes, Exegesis: n.Exegesis,
	}
	for _, p := range n.Params {
		fn.Params = append(fn.Params, l.lowerParam(p))
	}
	if n.Return != nil {
		fn.Return = l.lowerType(n.Return)
	}
	for _, s := range n.Body {
		fn.Body = append(fn.Body, l.lowerStmt(s))
	}
	return fn
}

func (l *lowerer) lowerParam(p ast.Param) Param {
	b := mk(KindParam)
	return Param{base: b, Name: l.sym(p.Name), Type: l.lowerType(p.Type)}
}

func (l *lowerer) lowerConst(n *ast.ConstDecl) *ConstDecl {
	b := mk(KindConst)
	l.record(b.Id, n.Span)
	c := &ConstDecl{base: b, Visibility: n.Visibility, Name: l.sym(n.Name)}
	if n.Type != nil {
		c.Type = l.lowerType(n.Type)
	}
	if n.Value != nil {
		c.Value = l.lowerExpr(n.Value)
	}
	return c
}

func (l *lowerer) lowerSexVar(n *ast.SexVarDecl) *SexVarDecl {
	b := mk(KindSexVar)
	l.record(b.Id, n.Span)
	s := &SexVarDecl{base: b, Visibility: n.Visibility, Name: l.sym(n.Name)}
	if n.Type != nil {
		s.Type = l.lowerType(n.Type)
	}
	if n.Value != nil {
		s.Value = l.lowerExpr(n.Value)
	}
	return s
}

// ----------------------------------------------------------------------------
// Statements

func (l *lowerer) lowerStmt(s ast.Stmt) Stmt {
	switch n := s.(type) {
	case *ast.PredicateStmt:
		b := mk(KindPredicate)
		l.record(b.Id, n.Span)
		p := &PredicateStmt{base: b, Kind: n.Kind}
		if n.Subject != "" {
			p.Subject = l.sym(n.Subject)
		}
		p.Object = l.sym(n.Object)
		return p
	case *ast.QuantifiedStmt:
		b := mk(KindQuantified)
		l.record(b.Id, n.Span)
		q := &QuantifiedStmt{base: b, Quantifier: n.Quantifier, Phrase: l.sym(n.Phrase)}
		if n.Inner != nil {
			q.Inner = l.lowerStmt(n.Inner)
		}
		return q
	case *ast.HasFieldStmt:
		return l.lowerHasField(n)
	case *ast.FuncDecl:
		return l.lowerFunc(n)
	case *ast.ExprStmt:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &ExprStmtNode{base: b, X: l.lowerExpr(n.X)}
	default:
		return nil
	}
}

func (l *lowerer) lowerHasField(n *ast.HasFieldStmt) *HasFieldStmt {
	b := mk(KindHasField)
	l.record(b.Id, n.Span)
	hf := &HasFieldStmt{base: b, Name: l.sym(n.Name), Type: l.lowerType(n.Type), Personal: n.Personal}
	if n.Default != nil {
		hf.Default = l.lowerExpr(n.Default)
	}
	if n.Constraint != nil {
		hf.Constraint = l.lowerExpr(n.Constraint)
	}
	if n.Crdt != nil {
		opts := map[intern.Symbol]string{}
		for _, o := range n.Crdt.Options {
			opts[l.sym(o.Key)] = o.Value
		}
		hf.Crdt = &CrdtAnnotation{Strategy: n.Crdt.Strategy, Options: opts}
	}
	return hf
}

// ----------------------------------------------------------------------------
// Types

func (l *lowerer) lowerType(t ast.TypeExpr) TypeExpr {
	switch n := t.(type) {
	case *ast.NamedType:
		b := mk(KindType)
		l.record(b.Id, n.Span)
		return &NamedType{base: b, Name: l.sym(n.Name)}
	case *ast.GenericType:
		b := mk(KindType)
		l.record(b.Id, n.Span)
		g := &GenericType{base: b, Name: l.sym(n.Name)}
		for _, a := range n.Args {
			g.Args = append(g.Args, l.lowerType(a))
		}
		return g
	case *ast.FuncType:
		b := mk(KindType)
		l.record(b.Id, n.Span)
		ft := &FuncType{base: b}
		for _, p := range n.Params {
			ft.Params = append(ft.Params, l.lowerType(p))
		}
		if n.Return != nil {
			ft.Return = l.lowerType(n.Return)
		}
		return ft
	case *ast.TupleType:
		b := mk(KindType)
		l.record(b.Id, n.Span)
		tt := &TupleType{base: b}
		for _, e := range n.Elems {
			tt.Elems = append(tt.Elems, l.lowerType(e))
		}
		return tt
	case *ast.NeverType:
		b := mk(KindType)
		l.record(b.Id, n.Span)
		return &NeverType{base: b}
	case *ast.EnumType:
		// Per spec.md 4F: inline enum types lower into a named Enum typedef.
		b := mk(KindEnumTypedef)
		l.record(b.Id, n.Span)
		return &EnumTypedef{base: b, Variants: l.syms(n.Variants)}
	default:
		return nil
	}
}

// ----------------------------------------------------------------------------
// Expressions

func (l *lowerer) lowerExpr(e ast.Expr) Expr {
	switch n := e.(type) {
	case *ast.Ident:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &Ident{base: b, Name: l.sym(n.Name)}
	case *ast.BasicLit:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &BasicLit{base: b, Kind: n.Kind, Value: n.Value}
	case *ast.BinaryExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &BinaryExpr{base: b, Op: n.Op, X: l.lowerExpr(n.X), Y: l.lowerExpr(n.Y)}
	case *ast.UnaryExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &UnaryExpr{base: b, Op: n.Op, X: l.lowerExpr(n.X)}
	case *ast.CallExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		c := &CallExpr{base: b, Callee: l.lowerExpr(n.Callee)}
		for _, a := range n.Args {
			c.Args = append(c.Args, l.lowerExpr(a))
		}
		return c
	case *ast.SelectExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &SelectExpr{base: b, X: l.lowerExpr(n.X), Name: l.sym(n.Name)}
	case *ast.IndexExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &IndexExpr{base: b, X: l.lowerExpr(n.X), Index: l.lowerExpr(n.Index)}
	case *ast.TupleExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		t := &TupleExpr{base: b}
		for _, el := range n.Elems {
			t.Elems = append(t.Elems, l.lowerExpr(el))
		}
		return t
	case *ast.BlockExpr:
		return l.lowerBlock(n)
	case *ast.IfExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		ie := &IfExpr{base: b, Cond: l.lowerExpr(n.Cond), Then: l.lowerExpr(n.Then)}
		if n.Else != nil {
			ie.Else = l.lowerExpr(n.Else)
		}
		return ie
	case *ast.MatchExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		me := &MatchExpr{base: b, Subject: l.lowerExpr(n.Subject)}
		for _, arm := range n.Arms {
			ma := MatchArm{Pattern: l.lowerPattern(arm.Pattern), Body: l.lowerExpr(arm.Body)}
			if arm.Guard != nil {
				ma.Guard = l.lowerExpr(arm.Guard)
			}
			me.Arms = append(me.Arms, ma)
		}
		return me
	case *ast.AssignExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &AssignExpr{base: b, Target: l.lowerExpr(n.Target), Value: l.lowerExpr(n.Value)}
	case *ast.LoopExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		body, _ := l.lowerBlock(n.Body).(*BlockExpr)
		return &LoopExpr{base: b, Body: body}
	case *ast.BreakExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		return &BreakExpr{base: b}
	case *ast.LambdaExpr:
		b := mk(KindExpr)
		l.record(b.Id, n.Span)
		lam := &LambdaExpr{base: b, Body: l.lowerExpr(n.Body)}
		for _, p := range n.Params {
			lam.Params = append(lam.Params, l.lowerParam(p))
		}
		return lam
	default:
		return nil
	}
}

func (l *lowerer) lowerBlock(n *ast.BlockExpr) Expr {
	b := mk(KindExpr)
	l.record(b.Id, n.Span)
	be := &BlockExpr{base: b}
	for _, s := range n.Stmts {
		switch ls := s.(type) {
		case *ast.LetStmt:
			lb := mk(KindExpr)
			l.record(lb.Id, ls.Span)
			le := &LetExpr{base: lb, Name: l.sym(ls.Name), Value: l.lowerExpr(ls.Value)}
			if ls.Type != nil {
				le.Type = l.lowerType(ls.Type)
			}
			be.Stmts = append(be.Stmts, le)
		case *ast.ExprStmt:
			be.Stmts = append(be.Stmts, l.lowerExpr(ls.X))
		}
	}
	if n.Result != nil {
		be.Result = l.lowerExpr(n.Result)
	}
	return be
}

func (l *lowerer) lowerPattern(p ast.Pattern) Pattern {
	switch n := p.(type) {
	case *ast.WildcardPattern:
		b := mk(KindPattern)
		l.record(b.Id, n.Span)
		return &WildcardPattern{base: b}
	case *ast.LiteralPattern:
		b := mk(KindPattern)
		l.record(b.Id, n.Span)
		lit, _ := l.lowerExpr(n.Lit).(*BasicLit)
		return &LiteralPattern{base: b, Lit: lit}
	case *ast.BindPattern:
		b := mk(KindPattern)
		l.record(b.Id, n.Span)
		return &BindPattern{base: b, Name: l.sym(n.Name)}
	case *ast.ConstructorPattern:
		b := mk(KindPattern)
		l.record(b.Id, n.Span)
		cp := &ConstructorPattern{base: b, Name: l.sym(n.Name)}
		for _, a := range n.Args {
			cp.Args = append(cp.Args, l.lowerPattern(a))
		}
		return cp
	case *ast.TuplePattern:
		b := mk(KindPattern)
		l.record(b.Id, n.Span)
		tp := &TuplePattern{base: b}
		for _, e := range n.Elems {
			tp.Elems = append(tp.Elems, l.lowerPattern(e))
		}
		return tp
	case *ast.OrPattern:
		b := mk(KindPattern)
		l.record(b.Id, n.Span)
		op := &OrPattern{base: b}
		for _, a := range n.Alternatives {
			op.Alternatives = append(op.Alternatives, l.lowerPattern(a))
		}
		return op
	default:
		return nil
	}
}
