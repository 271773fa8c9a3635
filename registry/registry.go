// Package registry builds a post-validation index over a lowered Module,
// keyed by qualified name separately per declaration kind -- mirroring
// how internal/core/runtime.Index keys builtins and imports by string in
// flat maps rather than walking the tree on every query. Gens, traits,
// and systems are keyed by their dotted name; evos are keyed as
// "name@version" since a lineage can carry more than one evo sharing a
// base name.
package registry

import (
	"fmt"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/hir"
	"github.com/univrs/dol/intern"
	"github.com/univrs/dol/version"
)

// Kind identifies which declaration shape an Entry describes.
type Kind int

const (
	KindGen Kind = iota
	KindTrait
	KindSystem
	KindEvo
)

func (k Kind) String() string {
	switch k {
	case KindGen:
		return "gen"
	case KindTrait:
		return "trait"
	case KindSystem:
		return "system"
	case KindEvo:
		return "evo"
	default:
		return "unknown"
	}
}

// Field describes one gen field for reflection purposes: enough to drive
// a template or a CLI inspector without re-walking the HIR.
type Field struct {
	Name          string
	TypeName      string
	HasDefault    bool
	HasConstraint bool
	Crdt          *ast.CrdtStrategy
	Personal      bool
}

// Entry is one registry record. Only the fields relevant to Kind are
// populated; the rest are left zero.
type Entry struct {
	Kind       Kind
	Name       string
	Visibility ast.Visibility
	Exegesis   string

	// Gen
	Fields []Field

	// Trait
	Dependencies []string

	// System
	Version      version.Version
	Requirements []hir.Requirement

	// Evo
	Additions     []string
	Deprecations  []string
	Removals      []string
	ParentVersion version.Version
}

// Registry is the built index for one Module.
type Registry struct {
	gens    map[string]*Entry
	traits  map[string]*Entry
	systems map[string]*Entry
	evos    map[string]*Entry
}

// Build indexes every declaration of m. It never fails: by the time a
// Module reaches the registry, dol/check has already run, so Build
// simply reflects whatever declarations exist.
func Build(m *hir.Module) *Registry {
	r := &Registry{
		gens:    map[string]*Entry{},
		traits:  map[string]*Entry{},
		systems: map[string]*Entry{},
		evos:    map[string]*Entry{},
	}
	in := m.Interner
	for _, d := range m.Decls {
		switch n := d.(type) {
		case *hir.GenDecl:
			r.gens[in.Lookup(n.Name)] = buildGenEntry(in, n)
		case *hir.TraitDecl:
			r.traits[in.Lookup(n.Name)] = buildTraitEntry(in, n)
		case *hir.SystemDecl:
			r.systems[in.Lookup(n.Name)] = buildSystemEntry(in, n)
		case *hir.EvoDecl:
			e := buildEvoEntry(in, n)
			r.evos[e.Name+"@"+n.NewVersion.String()] = e
		}
	}
	return r
}

func buildGenEntry(in *intern.Interner, g *hir.GenDecl) *Entry {
	e := &Entry{
		Kind:       KindGen,
		Name:       in.Lookup(g.Name),
		Visibility: g.Visibility,
		Exegesis:   g.Exegesis,
	}
	for _, s := range g.Statements {
		hf, ok := s.(*hir.HasFieldStmt)
		if !ok {
			continue
		}
		f := Field{
			Name:          in.Lookup(hf.Name),
			TypeName:      typeName(in, hf.Type),
			HasDefault:    hf.Default != nil,
			HasConstraint: hf.Constraint != nil,
			Personal:      hf.Personal,
		}
		if hf.Crdt != nil {
			strategy := hf.Crdt.Strategy
			f.Crdt = &strategy
		}
		e.Fields = append(e.Fields, f)
	}
	return e
}

func buildTraitEntry(in *intern.Interner, t *hir.TraitDecl) *Entry {
	e := &Entry{
		Kind:       KindTrait,
		Name:       in.Lookup(t.Name),
		Visibility: t.Visibility,
		Exegesis:   t.Exegesis,
	}
	for _, s := range t.Statements {
		p, ok := s.(*hir.PredicateStmt)
		if !ok || p.Kind != ast.PredUses {
			continue
		}
		e.Dependencies = append(e.Dependencies, in.Lookup(p.Object))
	}
	return e
}

func buildSystemEntry(in *intern.Interner, s *hir.SystemDecl) *Entry {
	return &Entry{
		Kind:         KindSystem,
		Name:         in.Lookup(s.Name),
		Visibility:   s.Visibility,
		Exegesis:     s.Exegesis,
		Version:      s.Version,
		Requirements: s.Requirements,
	}
}

func buildEvoEntry(in *intern.Interner, ev *hir.EvoDecl) *Entry {
	e := &Entry{
		Kind:          KindEvo,
		Name:          in.Lookup(ev.Name),
		Exegesis:      ev.Exegesis,
		Version:       ev.NewVersion,
		ParentVersion: ev.ParentVersion,
	}
	for _, s := range ev.Additions {
		e.Additions = append(e.Additions, in.Lookup(s))
	}
	for _, s := range ev.Deprecations {
		e.Deprecations = append(e.Deprecations, in.Lookup(s))
	}
	for _, s := range ev.Removals {
		e.Removals = append(e.Removals, in.Lookup(s))
	}
	return e
}

func typeName(in *intern.Interner, t hir.TypeExpr) string {
	switch n := t.(type) {
	case *hir.NamedType:
		return in.Lookup(n.Name)
	case *hir.GenericType:
		name := in.Lookup(n.Name)
		if len(n.Args) == 0 {
			return name
		}
		s := name + "<"
		for i, a := range n.Args {
			if i > 0 {
				s += ", "
			}
			s += typeName(in, a)
		}
		return s + ">"
	case *hir.FuncType:
		return "fn"
	case *hir.TupleType:
		return "tuple"
	case *hir.NeverType:
		return "Never"
	case *hir.EnumTypedef:
		return "enum"
	default:
		return "unknown"
	}
}

// Gen looks up a gen entry by its qualified name in amortized constant
// time.
func (r *Registry) Gen(name string) (*Entry, bool) { e, ok := r.gens[name]; return e, ok }

// Trait looks up a trait entry by its qualified name.
func (r *Registry) Trait(name string) (*Entry, bool) { e, ok := r.traits[name]; return e, ok }

// System looks up a system entry by its qualified name.
func (r *Registry) System(name string) (*Entry, bool) { e, ok := r.systems[name]; return e, ok }

// Evo looks up an evo entry by name and version.
func (r *Registry) Evo(name string, v version.Version) (*Entry, bool) {
	e, ok := r.evos[name+"@"+v.String()]
	return e, ok
}

// EvoByKey looks up an evo entry by its precomposed "name@version" key,
// for callers that already have it in that form (e.g. a CLI argument).
func (r *Registry) EvoByKey(key string) (*Entry, bool) { e, ok := r.evos[key]; return e, ok }

// Gens enumerates every gen entry. O(n) in the number of gens.
func (r *Registry) Gens() []*Entry { return values(r.gens) }

// Traits enumerates every trait entry. O(n) in the number of traits.
func (r *Registry) Traits() []*Entry { return values(r.traits) }

// Systems enumerates every system entry. O(n) in the number of systems.
func (r *Registry) Systems() []*Entry { return values(r.systems) }

// Evos enumerates every evo entry. O(n) in the number of evos.
func (r *Registry) Evos() []*Entry { return values(r.evos) }

// Lookup finds any entry by kind and qualified name (for evos, name must
// already be in "name@version" form), for callers that dispatch on a
// kind value rather than calling the kind-specific accessor directly.
func (r *Registry) Lookup(kind Kind, name string) (*Entry, bool) {
	switch kind {
	case KindGen:
		return r.Gen(name)
	case KindTrait:
		return r.Trait(name)
	case KindSystem:
		return r.System(name)
	case KindEvo:
		return r.EvoByKey(name)
	default:
		return nil, false
	}
}

func values(m map[string]*Entry) []*Entry {
	out := make([]*Entry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	return out
}

// String renders a short human-readable summary, useful for a CLI
// `reflect` subcommand.
func (e *Entry) String() string {
	switch e.Kind {
	case KindGen:
		return fmt.Sprintf("gen %s (%d fields)", e.Name, len(e.Fields))
	case KindTrait:
		return fmt.Sprintf("trait %s (%d dependencies)", e.Name, len(e.Dependencies))
	case KindSystem:
		return fmt.Sprintf("system %s @ %s", e.Name, e.Version)
	case KindEvo:
		return fmt.Sprintf("evo %s @ %s (from %s)", e.Name, e.Version, e.ParentVersion)
	default:
		return e.Name
	}
}
