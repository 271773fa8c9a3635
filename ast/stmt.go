package ast

import "github.com/univrs/dol/token"

// Stmt is implemented by every statement that can appear in a gen/trait/
// rule/system body: the eight predicate forms, the quantified form, the
// typed HasField form, and (per spec.md 3) a nested FuncDecl.
type Stmt interface {
	Node
	stmtNode()
}

// PredicateKind enumerates the eight atomic predicate statement shapes of
// spec.md 3.
type PredicateKind int

const (
	PredHas PredicateKind = iota
	PredIs
	PredDerivesFrom
	PredRequires
	PredUses
	PredEmits
	PredMatches
	PredNever
)

func (k PredicateKind) String() string {
	switch k {
	case PredHas:
		return "has"
	case PredIs:
		return "is"
	case PredDerivesFrom:
		return "derives from"
	case PredRequires:
		return "requires"
	case PredUses:
		return "uses"
	case PredEmits:
		return "emits"
	case PredMatches:
		return "matches"
	case PredNever:
		return "never"
	}
	return "?"
}

// PredicateStmt covers Has(subject,property), Is(subject,state),
// DerivesFrom(subject,origin), Requires(subject,requirement),
// Uses(reference), Emits(action,event), Matches(subject,target) and
// Never(subject,action). Uses is the sole unary predicate: Subject is
// empty and Object carries the reference.
type PredicateStmt struct {
	Kind    PredicateKind
	Subject string
	Object  string
	Span    token.Span
}

func (s *PredicateStmt) Pos() token.Span { return s.Span }
func (*PredicateStmt) stmtNode()         {}

// Quantifier distinguishes `each` from `all`.
type Quantifier int

const (
	QEach Quantifier = iota
	QAll
)

func (q Quantifier) String() string {
	if q == QAll {
		return "all"
	}
	return "each"
}

// QuantifiedStmt captures a quantified phrase. Per spec.md 4D, a
// quantified statement absorbs the remainder of the logical statement,
// including embedded predicates, until the next statement-starting token;
// Inner holds that embedded statement when the parser was able to
// recognize one structurally, and is nil when the quantified phrase is
// pure free text.
type QuantifiedStmt struct {
	Quantifier Quantifier
	Phrase     string
	Inner      Stmt
	Span       token.Span
}

func (s *QuantifiedStmt) Pos() token.Span { return s.Span }
func (*QuantifiedStmt) stmtNode()         {}

// CrdtStrategy is one of the seven merge strategies of RFC-001.
type CrdtStrategy int

const (
	Immutable CrdtStrategy = iota
	Lww
	OrSet
	PnCounter
	Peritext
	Rga
	MvRegister
)

var crdtStrategyNames = map[CrdtStrategy]string{
	Immutable:  "immutable",
	Lww:        "lww",
	OrSet:      "or_set",
	PnCounter:  "pn_counter",
	Peritext:   "peritext",
	Rga:        "rga",
	MvRegister: "mv_register",
}

func (s CrdtStrategy) String() string {
	if n, ok := crdtStrategyNames[s]; ok {
		return n
	}
	return "?"
}

// LookupCrdtStrategy parses a lower_snake_case strategy name as used in
// source (`@crdt(pn_counter)`). ok is false for an unrecognized name.
func LookupCrdtStrategy(name string) (CrdtStrategy, bool) {
	for k, v := range crdtStrategyNames {
		if v == name {
			return k, true
		}
	}
	return 0, false
}

// CrdtOption is one ordered key-value pair inside a @crdt(...) annotation,
// e.g. max_length = 4096.
type CrdtOption struct {
	Key   string
	Value string
}

// CrdtAnnotation is the `@crdt(strategy, key=value, ...)` field annotation.
type CrdtAnnotation struct {
	Strategy CrdtStrategy
	Options  []CrdtOption
	Span     token.Span
}

// Option looks up an option by key, second return false if absent.
func (c *CrdtAnnotation) Option(key string) (string, bool) {
	for _, o := range c.Options {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

// HasFieldStmt is the typed field form: `has name: type [= default]
// [where constraint] [@crdt(...)] [@personal]`.
type HasFieldStmt struct {
	Name       string
	Type       TypeExpr
	Default    Expr    // nil if absent
	Constraint Expr    // nil if absent
	Crdt       *CrdtAnnotation // nil if absent
	Personal   bool
	Span       token.Span
}

func (s *HasFieldStmt) Pos() token.Span { return s.Span }
func (*HasFieldStmt) stmtNode()         {}
