package diagnose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/univrs/dol/ast"
)

// UsagePattern names the intended access pattern a field is recommended
// for, feeding the canonical-combination bonus of spec.md 4L.
type UsagePattern int

const (
	PatternGeneric UsagePattern = iota
	PatternCollaborativeText
	PatternCounter
	PatternMultiUserSet
	PatternOrderedList
	PatternWriteOnce
	PatternLastWriteWins
)

// ConsistencyLevel names the delivery guarantee the recommendation
// should assume.
type ConsistencyLevel int

const (
	Eventual ConsistencyLevel = iota
	Causal
	Strong
)

// Confidence grades how strongly the top candidate is recommended.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// Alternative is one of the runner-up strategies a Recommendation
// reports alongside its top candidate.
type Alternative struct {
	Strategy ast.CrdtStrategy
	Score    int
	Pros     []string
	Cons     []string
	Example  string
}

// Recommendation is the output of Recommend: a top candidate plus the
// next three scored alternatives.
type Recommendation struct {
	Strategy     ast.CrdtStrategy
	Confidence   Confidence
	Reasoning    string
	Alternatives []Alternative
}

// causalFriendly lists the strategies that preserve useful ordering
// information across concurrent writes without needing a coordinator --
// the set the causal consistency-level bonus applies to.
var causalFriendly = map[ast.CrdtStrategy]bool{
	ast.Rga:      true,
	ast.OrSet:    true,
	ast.Peritext: true,
}

// Recommend scores every strategy legal for fieldType against
// (fieldName, pattern, level) and returns the top candidate plus its
// three best alternatives, per spec.md 4L's scoring formula.
func Recommend(fieldName, fieldType string, pattern UsagePattern, level ConsistencyLevel) Recommendation {
	candidates := legalStrategiesForTypeName(fieldType)
	scored := make([]Alternative, 0, len(candidates))
	for _, s := range candidates {
		score := scoreStrategy(s, fieldType, pattern, level)
		scored = append(scored, Alternative{
			Strategy: s,
			Score:    score,
			Pros:     prosFor(s),
			Cons:     consFor(s),
			Example:  exampleFor(fieldName, fieldType, s),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) == 0 {
		return Recommendation{Strategy: ast.Immutable, Confidence: ConfidenceLow, Reasoning: "no compatible strategy found for " + fieldType}
	}

	top := scored[0]
	alts := scored[1:]
	if len(alts) > 3 {
		alts = alts[:3]
	}

	return Recommendation{
		Strategy:     top.Strategy,
		Confidence:   confidenceFor(top.Score),
		Reasoning:    reasoningFor(fieldName, fieldType, pattern, level, top.Strategy, top.Score),
		Alternatives: alts,
	}
}

// Explanation describes one CRDT strategy for a tool surface or CLI
// `explain-strategy` subcommand, independent of any particular field.
type Explanation struct {
	Strategy ast.CrdtStrategy
	Pros     []string
	Cons     []string
	Example  string
}

// ExplainStrategy looks up strategy's general tradeoffs, reusing the same
// pros/cons tables Recommend scores candidates against.
func ExplainStrategy(strategy ast.CrdtStrategy) Explanation {
	return Explanation{
		Strategy: strategy,
		Pros:     prosFor(strategy),
		Cons:     consFor(strategy),
		Example:  exampleFor("field", "T", strategy),
	}
}

func confidenceFor(score int) Confidence {
	switch {
	case score >= 90:
		return ConfidenceHigh
	case score >= 70:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// scoreStrategy implements spec.md 4L's scoring formula exactly: base
// 50, canonical-combination and pattern bonuses, then a consistency-level
// adjustment.
func scoreStrategy(s ast.CrdtStrategy, fieldType string, pattern UsagePattern, level ConsistencyLevel) int {
	score := 50

	if isCanonicalCombo(fieldType, pattern, s) {
		score += 40
	}
	switch pattern {
	case PatternWriteOnce:
		if s == ast.Immutable {
			score += 50
		}
	case PatternLastWriteWins:
		if s == ast.Lww {
			score += 30
		}
	}
	if s == ast.Lww && isSimpleScalar(fieldType) {
		score += 20
	}

	switch level {
	case Eventual:
		score += 10
	case Causal:
		if causalFriendly[s] {
			score += 15
		}
	case Strong:
		score -= 20
		if s == ast.Immutable {
			score += 30
		}
	}

	return score
}

// isCanonicalCombo reports the four named type+pattern pairings spec.md
// 4L calls out: collaborative text over String, counters over integers,
// multi-user sets, and ordered lists.
func isCanonicalCombo(fieldType string, pattern UsagePattern, s ast.CrdtStrategy) bool {
	switch {
	case fieldType == "String" && pattern == PatternCollaborativeText && s == ast.Peritext:
		return true
	case ast.IsIntegerType(fieldType) && pattern == PatternCounter && s == ast.PnCounter:
		return true
	case strings.HasPrefix(fieldType, "Set<") && pattern == PatternMultiUserSet && s == ast.OrSet:
		return true
	case (strings.HasPrefix(fieldType, "Vec<") || strings.HasPrefix(fieldType, "List<")) && pattern == PatternOrderedList && s == ast.Rga:
		return true
	default:
		return false
	}
}

func isSimpleScalar(fieldType string) bool {
	return fieldType == "String" || fieldType == "Bool" || ast.IsIntegerType(fieldType) || ast.IsFloatType(fieldType)
}

// legalStrategiesForTypeName looks up compatible strategies by surface
// type name, covering both bare names (String, I32) and the generic
// shapes recommend() is asked about (Set<T>, Vec<T>, Option<T>).
func legalStrategiesForTypeName(fieldType string) []ast.CrdtStrategy {
	switch {
	case fieldType == "String":
		return []ast.CrdtStrategy{ast.Immutable, ast.Lww, ast.Peritext, ast.MvRegister}
	case ast.IsIntegerType(fieldType):
		return []ast.CrdtStrategy{ast.Immutable, ast.Lww, ast.PnCounter, ast.MvRegister}
	case ast.IsFloatType(fieldType):
		return []ast.CrdtStrategy{ast.Immutable, ast.Lww, ast.MvRegister}
	case fieldType == "Bool":
		return []ast.CrdtStrategy{ast.Immutable, ast.Lww, ast.MvRegister}
	case strings.HasPrefix(fieldType, "Set<"):
		return []ast.CrdtStrategy{ast.Immutable, ast.OrSet, ast.MvRegister}
	case strings.HasPrefix(fieldType, "Vec<") || strings.HasPrefix(fieldType, "List<"):
		return []ast.CrdtStrategy{ast.Immutable, ast.Lww, ast.Rga, ast.MvRegister}
	case strings.HasPrefix(fieldType, "Map<"):
		return []ast.CrdtStrategy{ast.Immutable, ast.Lww, ast.MvRegister}
	case strings.HasPrefix(fieldType, "Option<") || strings.HasPrefix(fieldType, "Result<"):
		return []ast.CrdtStrategy{ast.Immutable, ast.Lww, ast.OrSet, ast.PnCounter, ast.Peritext, ast.Rga, ast.MvRegister}
	default:
		return []ast.CrdtStrategy{ast.Immutable, ast.Lww, ast.MvRegister}
	}
}

func reasoningFor(fieldName, fieldType string, pattern UsagePattern, level ConsistencyLevel, s ast.CrdtStrategy, score int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (score %d) fits field %q of type %s", s, score, fieldName, fieldType)
	if pattern == PatternCollaborativeText {
		b.WriteString(": collaborative text benefits from peritext's character-level merge")
	}
	if level == Eventual {
		b.WriteString("; eventual consistency tolerates its convergence delay")
	}
	return b.String()
}

func prosFor(s ast.CrdtStrategy) []string {
	switch s {
	case ast.Immutable:
		return []string{"zero merge conflicts", "trivially auditable"}
	case ast.Lww:
		return []string{"simple to reason about", "cheap to merge"}
	case ast.OrSet:
		return []string{"preserves concurrent adds and removes", "no lost updates"}
	case ast.PnCounter:
		return []string{"commutative increments and decrements across replicas"}
	case ast.Peritext:
		return []string{"character-level collaborative merge", "preserves concurrent edits"}
	case ast.Rga:
		return []string{"preserves insertion order under concurrent edits"}
	case ast.MvRegister:
		return []string{"surfaces every concurrent write instead of silently dropping one"}
	default:
		return nil
	}
}

func consFor(s ast.CrdtStrategy) []string {
	switch s {
	case ast.Immutable:
		return []string{"cannot be updated after creation"}
	case ast.Lww:
		return []string{"silently discards the losing concurrent write"}
	case ast.OrSet:
		return []string{"tombstones accumulate until garbage collected"}
	case ast.PnCounter:
		return []string{"no native bound without an extra constraint"}
	case ast.Peritext:
		return []string{"keeps full edit history, heavier than a scalar strategy"}
	case ast.Rga:
		return []string{"keeps tombstones for removed elements"}
	case ast.MvRegister:
		return []string{"callers must resolve multiple concurrent values themselves"}
	default:
		return nil
	}
}

func exampleFor(fieldName, fieldType string, s ast.CrdtStrategy) string {
	return fmt.Sprintf("has %s: %s @crdt(%s)", fieldName, fieldType, s)
}
