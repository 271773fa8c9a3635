// Package check implements the two-pass scope/name/type validator of
// spec.md 4G: pass one collects every top-level declaration into a
// global scope and reports duplicates; pass two walks each declaration's
// statements and expressions, resolving references against nested scopes
// and running a light Hindley-Milner-like inference skeleton. This
// mirrors the two-pass shape of the teacher's internal/core/compile
// stage (a first pass that registers every node's identity before a
// second pass that resolves and type-checks expressions against it).
package check

import (
	"strings"
	"unicode"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
	"github.com/univrs/dol/token"
)

// kind classifies a top-level declaration for duplicate/reference
// bookkeeping without re-deriving it from the concrete Go type repeatedly.
type kind int

const (
	kGen kind = iota
	kTrait
	kRule
	kSystem
	kEvo
	kFunc
	kConst
	kSexVar
)

type declEntry struct {
	kind kind
	id   hir.HirId
	name intern.Symbol
}

// Checker owns one validation run over a single lowered Module.
type Checker struct {
	m     *hir.Module
	diags errors.List

	// global maps a declaration's interned qualified name to its entry.
	// Evo entries are keyed separately below since they key on name@version.
	global map[intern.Symbol]declEntry
	evos   map[string]declEntry

	// variants is every enum variant name declared anywhere in the module,
	// collected during pass one so pass two can check constructor patterns
	// against a known set without a second full traversal of field types.
	variants map[intern.Symbol]bool
}

// scope is a single lexical level of name bindings, chained to its
// parent. The zero value is not usable; use newScope.
type scope struct {
	parent *scope
	names  map[intern.Symbol]bool
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[intern.Symbol]bool{}}
}

func (s *scope) bind(name intern.Symbol) { s.names[name] = true }

func (s *scope) resolves(name intern.Symbol) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.names[name] {
			return true
		}
	}
	return false
}

// Check runs both validator passes over m and returns the accumulated
// diagnostics. It never panics; every malformed shape becomes a
// diagnostic rather than a crash.
func Check(m *hir.Module) *errors.List {
	c := &Checker{
		m:        m,
		global:   map[intern.Symbol]declEntry{},
		evos:     map[string]declEntry{},
		variants: map[intern.Symbol]bool{},
	}
	c.passCollect()
	c.passWalk()
	return &c.diags
}

func (c *Checker) span(id hir.HirId) token.Span { return c.m.SpanOf(id) }
func (c *Checker) name(sym intern.Symbol) string { return c.m.Interner.Lookup(sym) }

// ----------------------------------------------------------------------------
// Pass 1: declaration collection

func (c *Checker) passCollect() {
	for _, d := range c.m.Decls {
		c.checkIdentifierAndExegesis(d)
		switch n := d.(type) {
		case *hir.GenDecl:
			c.register(kGen, n.Name, n.ID())
			c.checkFieldNameSet(n)
			c.checkUsesSet(n.Statements, n.ID())
		case *hir.TraitDecl:
			c.register(kTrait, n.Name, n.ID())
			c.checkUsesSet(n.Statements, n.ID())
		case *hir.RuleDecl:
			c.register(kRule, n.Name, n.ID())
			c.checkUsesSet(n.Statements, n.ID())
		case *hir.SystemDecl:
			c.register(kSystem, n.Name, n.ID())
			c.checkUsesSet(n.Statements, n.ID())
		case *hir.EvoDecl:
			key := c.name(n.Name) + "@" + n.NewVersion.String()
			if prev, ok := c.evos[key]; ok {
				c.duplicateError(key, prev.id, n.ID())
			} else {
				c.evos[key] = declEntry{kind: kEvo, id: n.ID(), name: n.Name}
			}
			c.checkEvoLineage(n)
		case *hir.FuncDecl:
			c.register(kFunc, n.Name, n.ID())
		case *hir.ConstDecl:
			c.register(kConst, n.Name, n.ID())
		case *hir.SexVarDecl:
			c.register(kSexVar, n.Name, n.ID())
		}
	}
}

func (c *Checker) register(k kind, name intern.Symbol, id hir.HirId) {
	qname := c.name(name)
	if prev, ok := c.global[name]; ok {
		c.duplicateError(qname, prev.id, id)
		return
	}
	c.global[name] = declEntry{kind: k, id: id, name: name}
}

func (c *Checker) duplicateError(qname string, first, second hir.HirId) {
	c.diags.Addf(errors.ValidationDuplicateDefinition, c.span(second),
		"%q is already defined (first definition %s, duplicate %s)", qname, first, second).
		Remediate("rename one of the two declarations", "remove the duplicate")
}

// checkIdentifierAndExegesis enforces invariants 1 and 2: qualified names
// split on '.' into non-empty, alphabetic-initial segments, and every
// declaration carries a non-empty exegesis (warning under 20 chars).
func (c *Checker) checkIdentifierAndExegesis(d hir.Decl) {
	name, exegesis, id := declNameAndExegesis(c.m, d)
	if name == "" {
		return // not one of the named declaration forms, or an empty name.
	}
	if !validQualifiedName(name) {
		c.diags.Addf(errors.ValidationInvalidIdentifier, c.span(id),
			"%q is not a valid qualified identifier: each dot-separated segment must be non-empty and start with a letter", name).
			Remediate("rename the declaration to use letter-initial, non-empty segments")
	}
	if exegesisApplies(d) {
		if exegesis == "" {
			c.diags.Addf(errors.ParseMissingExegesis, c.span(id), "%q has no exegesis", name).
				Remediate("add an exegesis { ... } or docs { ... } block")
		} else if len(exegesis) < 20 {
			c.diags.Addf(errors.WarningShortExegesis, c.span(id),
				"%q's exegesis is only %d characters; consider a fuller description", name, len(exegesis)).
				Remediate("expand the exegesis to explain purpose and intent, not just restate the name")
		}
	}
}

func exegesisApplies(d hir.Decl) bool {
	switch d.(type) {
	case *hir.GenDecl, *hir.TraitDecl, *hir.RuleDecl, *hir.SystemDecl, *hir.EvoDecl, *hir.FuncDecl:
		return true
	}
	return false
}

func declNameAndExegesis(m *hir.Module, d hir.Decl) (name, exegesis string, id hir.HirId) {
	switch n := d.(type) {
	case *hir.GenDecl:
		return m.Interner.Lookup(n.Name), n.Exegesis, n.ID()
	case *hir.TraitDecl:
		return m.Interner.Lookup(n.Name), n.Exegesis, n.ID()
	case *hir.RuleDecl:
		return m.Interner.Lookup(n.Name), n.Exegesis, n.ID()
	case *hir.SystemDecl:
		return m.Interner.Lookup(n.Name), n.Exegesis, n.ID()
	case *hir.EvoDecl:
		return m.Interner.Lookup(n.Name), n.Exegesis, n.ID()
	case *hir.FuncDecl:
		return m.Interner.Lookup(n.Name), n.Exegesis, n.ID()
	case *hir.ConstDecl:
		return m.Interner.Lookup(n.Name), "", n.ID()
	case *hir.SexVarDecl:
		return m.Interner.Lookup(n.Name), "", n.ID()
	default:
		return "", "", hir.HirId{}
	}
}

// validQualifiedName implements invariant 1.
func validQualifiedName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return false
		}
		r := []rune(seg)[0]
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// checkFieldNameSet implements invariant 4: within a gen, field names form
// a set.
func (c *Checker) checkFieldNameSet(g *hir.GenDecl) {
	seen := map[intern.Symbol]bool{}
	for _, s := range g.Statements {
		hf, ok := s.(*hir.HasFieldStmt)
		if !ok {
			continue
		}
		if seen[hf.Name] {
			c.diags.Addf(errors.ValidationDuplicateDefinition, c.span(hf.ID()),
				"field %q is declared more than once in %q", c.name(hf.Name), c.name(g.Name)).
				Remediate("remove or rename the duplicate field")
		}
		seen[hf.Name] = true
		c.checkEnumVariantSet(hf)
	}
}

// checkEnumVariantSet implements invariant 5.
func (c *Checker) checkEnumVariantSet(hf *hir.HasFieldStmt) {
	et, ok := hf.Type.(*hir.EnumTypedef)
	if !ok {
		return
	}
	seen := map[intern.Symbol]bool{}
	for _, v := range et.Variants {
		if seen[v] {
			c.diags.Addf(errors.ValidationDuplicateDefinition, c.span(et.ID()),
				"enum variant %q is declared more than once", c.name(v)).
				Remediate("remove the duplicate variant")
		}
		seen[v] = true
		c.variants[v] = true
	}
}

// checkUsesSet implements invariant 3: within a single declaration, Uses
// references form a set.
func (c *Checker) checkUsesSet(stmts []hir.Stmt, declID hir.HirId) {
	seen := map[intern.Symbol]bool{}
	for _, s := range stmts {
		p, ok := s.(*hir.PredicateStmt)
		if !ok || p.Kind != ast.PredUses {
			continue
		}
		if seen[p.Object] {
			c.diags.Addf(errors.ValidationDuplicateDefinition, c.span(p.ID()),
				"%q is used more than once", c.name(p.Object)).
				Remediate("remove the duplicate uses statement")
		}
		seen[p.Object] = true
	}
}

// checkEvoLineage implements invariant 6: new_version > parent_version,
// warning (not error) if not.
func (c *Checker) checkEvoLineage(e *hir.EvoDecl) {
	if e.NewVersion.Compare(e.ParentVersion) > 0 {
		return
	}
	c.diags.Warnf(errors.ValidationInvalidEvolutionLineage, c.span(e.ID()),
		"evolution %q: new version %s should be greater than parent version %s",
		c.name(e.Name), e.NewVersion, e.ParentVersion).
		Remediate("bump the new version above the parent version", "double-check the lineage order was not swapped")
}
