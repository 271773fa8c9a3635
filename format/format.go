// Package format pretty-prints a parsed *ast.File back to canonical DOL
// source text, the way cue/format.Source/Node pretty-prints a *ast.File
// back to CUE source: one exported entry point over a small internal
// printer that walks the tree and writes indented text, rather than a
// token-stream rewriter.
package format

import (
	"fmt"
	"strings"

	"github.com/univrs/dol/ast"
)

// Node formats a single top-level declaration, statement, expression or
// type expression.
func Node(n ast.Node) string {
	p := &printer{}
	switch x := n.(type) {
	case *ast.File:
		p.file(x)
	case ast.Decl:
		p.decl(x)
	case ast.Stmt:
		p.stmt(x)
	case ast.Expr:
		p.expr(x)
	case ast.TypeExpr:
		p.typeExpr(x)
	default:
		return fmt.Sprintf("/* unsupported node %T */", n)
	}
	return strings.TrimRight(p.b.String(), "\n") + "\n"
}

// File formats a complete parsed file.
func File(f *ast.File) string {
	p := &printer{}
	p.file(f)
	return strings.TrimRight(p.b.String(), "\n") + "\n"
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(format string, args ...interface{}) {
	p.b.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteString("\n")
}

func (p *printer) file(f *ast.File) {
	if f.Module != nil {
		p.line("module %s", f.Module.Name)
		p.b.WriteString("\n")
	}
	for _, imp := range f.Imports {
		p.importDecl(imp)
	}
	if len(f.Imports) > 0 {
		p.b.WriteString("\n")
	}
	for i, d := range f.Decls {
		if i > 0 {
			p.b.WriteString("\n")
		}
		p.decl(d)
	}
}

func (p *printer) importDecl(d *ast.ImportDecl) {
	vis := ""
	if d.Visibility != ast.Private {
		vis = d.Visibility.String() + " "
	}
	switch d.Kind {
	case ast.ImportRegistry:
		constraint := ""
		if d.VersionConstraint != "" {
			constraint = " @ " + d.VersionConstraint
		}
		p.line("%suse %s%s", vis, d.Path, constraint)
	case ast.ImportGit:
		p.line("%suse %s%s", vis, d.Path, refSuffix(d.Ref))
	case ast.ImportHttps:
		p.line("%suse %s%s", vis, d.Path, shaSuffix(d.Sha256))
	default:
		p.line("%suse %s", vis, d.Path)
	}
}

func refSuffix(ref string) string {
	if ref == "" {
		return ""
	}
	return " @" + ref
}

func shaSuffix(sha string) string {
	if sha == "" {
		return ""
	}
	return " sha256:" + sha
}

func (p *printer) decl(d ast.Decl) {
	switch x := d.(type) {
	case *ast.GenDecl:
		p.genDecl(x)
	case *ast.TraitDecl:
		p.block("trait", x.Visibility, x.Name, "", x.Statements, x.Exegesis)
	case *ast.RuleDecl:
		p.block("rule", x.Visibility, x.Name, "", x.Statements, x.Exegesis)
	case *ast.SystemDecl:
		p.systemDecl(x)
	case *ast.EvoDecl:
		p.evoDecl(x)
	case *ast.FuncDecl:
		p.funcDecl(x)
	case *ast.ConstDecl:
		p.constDecl(x)
	case *ast.SexVarDecl:
		p.sexVarDecl(x)
	case *ast.ImportDecl:
		p.importDecl(x)
	}
}

func (p *printer) genDecl(d *ast.GenDecl) {
	extends := ""
	if d.Extends != "" {
		extends = " extends " + d.Extends
	}
	p.block("gen", d.Visibility, d.Name, extends, d.Statements, d.Exegesis)
}

func (p *printer) block(keyword string, vis ast.Visibility, name, suffix string, stmts []ast.Stmt, exegesis string) {
	visPrefix := ""
	if vis != ast.Private {
		visPrefix = vis.String() + " "
	}
	p.line("%s%s %s%s {", visPrefix, keyword, name, suffix)
	p.indent++
	for _, s := range stmts {
		p.stmt(s)
	}
	p.indent--
	p.line("}")
	p.exegesisBlock(exegesis)
}

func (p *printer) exegesisBlock(text string) {
	if text == "" {
		return
	}
	p.line("exegesis { %s }", text)
}

func (p *printer) systemDecl(d *ast.SystemDecl) {
	visPrefix := ""
	if d.Visibility != ast.Private {
		visPrefix = d.Visibility.String() + " "
	}
	reqs := ""
	for i, r := range d.Requirements {
		if i == 0 {
			reqs = " requires "
		} else {
			reqs += ", "
		}
		reqs += fmt.Sprintf("%s %s %s", r.Name, r.Op, r.Version.String())
	}
	p.line("%ssystem %s @ %s%s {", visPrefix, d.Name, d.Version.String(), reqs)
	p.indent++
	for _, s := range d.Statements {
		p.stmt(s)
	}
	p.indent--
	p.line("}")
	p.exegesisBlock(d.Exegesis)
}

func (p *printer) evoDecl(d *ast.EvoDecl) {
	p.line("evo %s @ %s > %s {", d.Name, d.NewVersion.String(), d.ParentVersion.String())
	p.indent++
	for _, a := range d.Additions {
		p.line("adds %s", a)
	}
	for _, dep := range d.Deprecations {
		p.line("deprecates %s", dep)
	}
	for _, r := range d.Removals {
		p.line("removes %s", r)
	}
	p.indent--
	if d.Rationale != "" {
		p.line("} because %q", d.Rationale)
	} else {
		p.line("}")
	}
	p.exegesisBlock(d.Exegesis)
}

func (p *printer) funcDecl(d *ast.FuncDecl) {
	visPrefix := ""
	if d.Visibility != ast.Private {
		visPrefix = d.Visibility.String() + " "
	}
	sexPrefix := ""
	if d.Purity == ast.Sex {
		sexPrefix = "@sex "
	}
	params := make([]string, len(d.Params))
	for i, prm := range d.Params {
		params[i] = prm.Name + ": " + p.typeExprString(prm.Type)
	}
	ret := ""
	if d.Return != nil {
		ret = " -> " + p.typeExprString(d.Return)
	}
	p.line("%sfn %s%s(%s)%s {", visPrefix, sexPrefix, d.Name, strings.Join(params, ", "), ret)
	p.indent++
	for _, s := range d.Body {
		p.stmt(s)
	}
	p.indent--
	p.line("}")
	p.exegesisBlock(d.Exegesis)
}

func (p *printer) constDecl(d *ast.ConstDecl) {
	typeSuffix := ""
	if d.Type != nil {
		typeSuffix = ": " + p.typeExprString(d.Type)
	}
	p.line("const %s%s = %s", d.Name, typeSuffix, p.exprString(d.Value))
}

func (p *printer) sexVarDecl(d *ast.SexVarDecl) {
	typeSuffix := ""
	if d.Type != nil {
		typeSuffix = ": " + p.typeExprString(d.Type)
	}
	p.line("sexvar %s%s = %s", d.Name, typeSuffix, p.exprString(d.Value))
}

func (p *printer) stmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.PredicateStmt:
		p.predicateStmt(x)
	case *ast.QuantifiedStmt:
		p.line("%s %s", x.Quantifier, x.Phrase)
	case *ast.HasFieldStmt:
		p.hasFieldStmt(x)
	case *ast.FuncDecl:
		p.funcDecl(x)
	case *ast.ExprStmt:
		p.line("%s", p.exprString(x.X))
	}
}

func (p *printer) predicateStmt(s *ast.PredicateStmt) {
	switch s.Kind {
	case ast.PredUses:
		p.line("uses %s", s.Object)
	case ast.PredDerivesFrom:
		p.line("%s derives from %s", s.Subject, s.Object)
	default:
		p.line("%s %s %s", s.Subject, s.Kind, s.Object)
	}
}

func (p *printer) hasFieldStmt(s *ast.HasFieldStmt) {
	var b strings.Builder
	fmt.Fprintf(&b, "has %s: %s", s.Name, p.typeExprString(s.Type))
	if s.Default != nil {
		fmt.Fprintf(&b, " = %s", p.exprString(s.Default))
	}
	if s.Constraint != nil {
		fmt.Fprintf(&b, " where %s", p.exprString(s.Constraint))
	}
	if s.Crdt != nil {
		fmt.Fprintf(&b, " @crdt(%s", s.Crdt.Strategy)
		for _, o := range s.Crdt.Options {
			fmt.Fprintf(&b, ", %s=%s", o.Key, o.Value)
		}
		b.WriteString(")")
	}
	if s.Personal {
		b.WriteString(" @personal")
	}
	p.line("%s", b.String())
}

func (p *printer) typeExpr(t ast.TypeExpr) {
	p.line("%s", p.typeExprString(t))
}

func (p *printer) typeExprString(t ast.TypeExpr) string {
	switch x := t.(type) {
	case *ast.NamedType:
		return x.Name
	case *ast.GenericType:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = p.typeExprString(a)
		}
		return x.Name + "<" + strings.Join(args, ", ") + ">"
	case *ast.FuncType:
		params := make([]string, len(x.Params))
		for i, a := range x.Params {
			params[i] = p.typeExprString(a)
		}
		ret := "Unit"
		if x.Return != nil {
			ret = p.typeExprString(x.Return)
		}
		return "fn(" + strings.Join(params, ", ") + ") -> " + ret
	case *ast.TupleType:
		elems := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = p.typeExprString(e)
		}
		return "(" + strings.Join(elems, ", ") + ")"
	case *ast.NeverType:
		return "Never"
	case *ast.EnumType:
		return "enum { " + strings.Join(x.Variants, ", ") + " }"
	default:
		return "?"
	}
}

func (p *printer) expr(e ast.Expr) {
	p.line("%s", p.exprString(e))
}

func (p *printer) exprString(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.BasicLit:
		return basicLitString(x)
	case *ast.BinaryExpr:
		return p.exprString(x.X) + " " + x.Op.String() + " " + p.exprString(x.Y)
	case *ast.UnaryExpr:
		return x.Op.String() + p.exprString(x.X)
	case *ast.CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = p.exprString(a)
		}
		return p.exprString(x.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.SelectExpr:
		return p.exprString(x.X) + "." + x.Name
	case *ast.IndexExpr:
		return p.exprString(x.X) + "[" + p.exprString(x.Index) + "]"
	case *ast.TupleExpr:
		elems := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = p.exprString(el)
		}
		return "(" + strings.Join(elems, ", ") + ")"
	case *ast.BlockExpr:
		return p.blockExprString(x)
	case *ast.IfExpr:
		s := "if " + p.exprString(x.Cond) + " { " + p.exprString(x.Then) + " }"
		if x.Else != nil {
			s += " else { " + p.exprString(x.Else) + " }"
		}
		return s
	case *ast.MatchExpr:
		return p.matchExprString(x)
	case *ast.AssignExpr:
		return p.exprString(x.Target) + " = " + p.exprString(x.Value)
	case *ast.LoopExpr:
		return "loop { " + p.blockExprString(x.Body) + " }"
	case *ast.BreakExpr:
		return "break"
	case *ast.LambdaExpr:
		params := make([]string, len(x.Params))
		for i, prm := range x.Params {
			params[i] = prm.Name
		}
		return "|" + strings.Join(params, ", ") + "| " + p.exprString(x.Body)
	default:
		return "?"
	}
}

func basicLitString(x *ast.BasicLit) string {
	if x.Kind == ast.LitString {
		return fmt.Sprintf("%q", x.Value)
	}
	return x.Value
}

func (p *printer) blockExprString(b *ast.BlockExpr) string {
	var parts []string
	for _, s := range b.Stmts {
		parts = append(parts, p.localStmtString(s))
	}
	if b.Result != nil {
		parts = append(parts, p.exprString(b.Result))
	}
	return strings.Join(parts, "; ")
}

func (p *printer) localStmtString(s ast.LocalStmt) string {
	switch x := s.(type) {
	case *ast.LetStmt:
		typeSuffix := ""
		if x.Type != nil {
			typeSuffix = ": " + p.typeExprString(x.Type)
		}
		return fmt.Sprintf("let %s%s = %s", x.Name, typeSuffix, p.exprString(x.Value))
	case *ast.ExprStmt:
		return p.exprString(x.X)
	default:
		return "?"
	}
}

func (p *printer) matchExprString(m *ast.MatchExpr) string {
	arms := make([]string, len(m.Arms))
	for i, a := range m.Arms {
		guard := ""
		if a.Guard != nil {
			guard = " if " + p.exprString(a.Guard)
		}
		arms[i] = patternString(a.Pattern) + guard + " => " + p.exprString(a.Body)
	}
	return "match " + p.exprString(m.Subject) + " { " + strings.Join(arms, ", ") + " }"
}

func patternString(pat ast.Pattern) string {
	switch x := pat.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.LiteralPattern:
		return basicLitString(x.Lit)
	case *ast.BindPattern:
		return x.Name
	case *ast.ConstructorPattern:
		if len(x.Args) == 0 {
			return x.Name
		}
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = patternString(a)
		}
		return x.Name + "(" + strings.Join(args, ", ") + ")"
	case *ast.TuplePattern:
		elems := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = patternString(e)
		}
		return "(" + strings.Join(elems, ", ") + ")"
	case *ast.OrPattern:
		alts := make([]string, len(x.Alternatives))
		for i, a := range x.Alternatives {
			alts[i] = patternString(a)
		}
		return strings.Join(alts, " | ")
	default:
		return "_"
	}
}
