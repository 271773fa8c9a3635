package transform

import (
	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
)

// Stats summarizes an analyze run without mutating the module.
type Stats struct {
	Total           int
	Retained        int
	Eliminated      int
	Roots           int
	EliminatedNames []string
}

// graph is a directed dependency graph over a module's declarations,
// keyed by declared name. An edge A->B means "A names B via Uses,
// extends, or requires".
type graph struct {
	byName map[intern.Symbol]hir.Decl
	edges  map[intern.Symbol][]intern.Symbol
}

func buildGraph(m *hir.Module) *graph {
	g := &graph{byName: map[intern.Symbol]hir.Decl{}, edges: map[intern.Symbol][]intern.Symbol{}}
	for _, d := range m.Decls {
		if name, ok := declName(d); ok {
			g.byName[name] = d
		}
	}
	for _, d := range m.Decls {
		name, ok := declName(d)
		if !ok {
			continue
		}
		g.edges[name] = declEdges(d)
	}
	return g
}

// declName returns the symbol a declaration is keyed by, and whether it
// has one (all of the closed Decl set does).
func declName(d hir.Decl) (intern.Symbol, bool) {
	switch n := d.(type) {
	case *hir.GenDecl:
		return n.Name, true
	case *hir.TraitDecl:
		return n.Name, true
	case *hir.RuleDecl:
		return n.Name, true
	case *hir.SystemDecl:
		return n.Name, true
	case *hir.EvoDecl:
		return n.Name, true
	case *hir.FuncDecl:
		return n.Name, true
	case *hir.ConstDecl:
		return n.Name, true
	case *hir.SexVarDecl:
		return n.Name, true
	default:
		return intern.Symbol{}, false
	}
}

// declEdges returns the set of names d references via Uses, extends, or
// (for systems) requires -- the three edge-forming relations of spec.md
// 4K's tree-shaking pass.
func declEdges(d hir.Decl) []intern.Symbol {
	var out []intern.Symbol
	switch n := d.(type) {
	case *hir.GenDecl:
		if n.HasExtends {
			out = append(out, n.Extends)
		}
		out = append(out, usesIn(n.Statements)...)
	case *hir.TraitDecl:
		out = append(out, usesIn(n.Statements)...)
	case *hir.RuleDecl:
		out = append(out, usesIn(n.Statements)...)
	case *hir.SystemDecl:
		out = append(out, usesIn(n.Statements)...)
		for _, r := range n.Requirements {
			out = append(out, r.Name)
		}
	}
	return out
}

func usesIn(stmts []hir.Stmt) []intern.Symbol {
	var out []intern.Symbol
	for _, s := range stmts {
		if p, ok := s.(*hir.PredicateStmt); ok && p.Kind == ast.PredUses {
			out = append(out, p.Object)
		}
	}
	return out
}

// isRoot reports whether d is kept regardless of reachability: public
// visibility, pub(spirit) visibility, or an evo (evolution history is
// never eliminated since it has no visibility of its own to judge by).
func isRoot(d hir.Decl) bool {
	switch n := d.(type) {
	case *hir.GenDecl:
		return n.Visibility == ast.Public || n.Visibility == ast.PubSpirit
	case *hir.TraitDecl:
		return n.Visibility == ast.Public || n.Visibility == ast.PubSpirit
	case *hir.RuleDecl:
		return n.Visibility == ast.Public || n.Visibility == ast.PubSpirit
	case *hir.SystemDecl:
		return n.Visibility == ast.Public || n.Visibility == ast.PubSpirit
	case *hir.FuncDecl:
		return n.Visibility == ast.Public || n.Visibility == ast.PubSpirit
	case *hir.ConstDecl:
		return n.Visibility == ast.Public || n.Visibility == ast.PubSpirit
	case *hir.SexVarDecl:
		return n.Visibility == ast.Public || n.Visibility == ast.PubSpirit
	case *hir.EvoDecl:
		return true
	default:
		return false
	}
}

// reachable runs a depth-first traversal from roots (every root decl,
// plus any name in extraRoots) and returns the set of reached names.
func reachable(g *graph, extraRoots []intern.Symbol) map[intern.Symbol]bool {
	seen := map[intern.Symbol]bool{}
	var visit func(intern.Symbol)
	visit = func(name intern.Symbol) {
		if seen[name] {
			return
		}
		seen[name] = true
		for _, next := range g.edges[name] {
			if _, ok := g.byName[next]; ok {
				visit(next)
			}
		}
	}
	for name, d := range g.byName {
		if isRoot(d) {
			visit(name)
		}
	}
	for _, name := range extraRoots {
		if _, ok := g.byName[name]; ok {
			visit(name)
		}
	}
	return seen
}

// Shake returns a new Module containing only the declarations reachable
// from a root (public/pub(spirit) visibility, an evo, or a name in
// extraRoots), preserving the original declaration order. Imports are
// always retained since they are not declarations in the dependency
// graph.
func Shake(m *hir.Module, extraRoots []intern.Symbol) *hir.Module {
	g := buildGraph(m)
	seen := reachable(g, extraRoots)

	out := &hir.Module{Filename: m.Filename, Imports: m.Imports, Interner: m.Interner, Spans: m.Spans}
	for _, d := range m.Decls {
		name, ok := declName(d)
		if !ok || seen[name] {
			out.Decls = append(out.Decls, d)
		}
	}
	return out
}

// Analyze reports tree-shaking statistics for m without mutating it:
// total declarations, how many would be retained/eliminated, the root
// count, and the qualified names that would be eliminated.
func Analyze(m *hir.Module, extraRoots []intern.Symbol) Stats {
	g := buildGraph(m)
	seen := reachable(g, extraRoots)

	stats := Stats{Total: len(g.byName)}
	for _, d := range g.byName {
		if isRoot(d) {
			stats.Roots++
		}
	}
	for name := range g.byName {
		if seen[name] {
			stats.Retained++
		} else {
			stats.Eliminated++
			stats.EliminatedNames = append(stats.EliminatedNames, m.Interner.Lookup(name))
		}
	}
	return stats
}
