package ast

import "github.com/univrs/dol/token"

// Pattern is implemented by every match-arm pattern shape named in
// spec.md 4G: wildcards, literals, constructors, tuples and or-patterns.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern matches anything and binds nothing: `_`.
type WildcardPattern struct {
	Span token.Span
}

func (p *WildcardPattern) Pos() token.Span { return p.Span }
func (*WildcardPattern) patternNode()      {}

// LiteralPattern matches a specific literal value.
type LiteralPattern struct {
	Lit  *BasicLit
	Span token.Span
}

func (p *LiteralPattern) Pos() token.Span { return p.Span }
func (*LiteralPattern) patternNode()      {}

// BindPattern binds the matched value to Name.
type BindPattern struct {
	Name string
	Span token.Span
}

func (p *BindPattern) Pos() token.Span { return p.Span }
func (*BindPattern) patternNode()      {}

// ConstructorPattern matches a named enum/type variant, optionally
// destructuring its arguments. Name must reference a known type variant
// (spec.md 4G).
type ConstructorPattern struct {
	Name string
	Args []Pattern
	Span token.Span
}

func (p *ConstructorPattern) Pos() token.Span { return p.Span }
func (*ConstructorPattern) patternNode()      {}

// TuplePattern destructures a tuple value element-wise.
type TuplePattern struct {
	Elems []Pattern
	Span  token.Span
}

func (p *TuplePattern) Pos() token.Span { return p.Span }
func (*TuplePattern) patternNode()      {}

// OrPattern matches if any alternative matches. All alternatives must bind
// the same set of variable names (spec.md 4G).
type OrPattern struct {
	Alternatives []Pattern
	Span         token.Span
}

func (p *OrPattern) Pos() token.Span { return p.Span }
func (*OrPattern) patternNode()      {}

// BoundNames returns the set of variable names a pattern binds, used by
// the validator to check that every OrPattern alternative binds the same
// variables.
func BoundNames(p Pattern) map[string]bool {
	out := map[string]bool{}
	collectBoundNames(p, out)
	return out
}

func collectBoundNames(p Pattern, out map[string]bool) {
	switch x := p.(type) {
	case *BindPattern:
		out[x.Name] = true
	case *ConstructorPattern:
		for _, a := range x.Args {
			collectBoundNames(a, out)
		}
	case *TuplePattern:
		for _, e := range x.Elems {
			collectBoundNames(e, out)
		}
	case *OrPattern:
		// Alternatives are required to agree; collect from the first.
		if len(x.Alternatives) > 0 {
			collectBoundNames(x.Alternatives[0], out)
		}
	}
}
