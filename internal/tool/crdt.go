package tool

import (
	"fmt"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/diagnose"
)

var usagePatterns = map[string]diagnose.UsagePattern{
	"generic":            diagnose.PatternGeneric,
	"collaborative_text": diagnose.PatternCollaborativeText,
	"counter":            diagnose.PatternCounter,
	"multi_user_set":     diagnose.PatternMultiUserSet,
	"ordered_list":       diagnose.PatternOrderedList,
	"write_once":         diagnose.PatternWriteOnce,
	"last_write_wins":    diagnose.PatternLastWriteWins,
}

var consistencyLevels = map[string]diagnose.ConsistencyLevel{
	"eventual": diagnose.Eventual,
	"causal":   diagnose.Causal,
	"strong":   diagnose.Strong,
}

// toolRecommendCrdt implements the CLI's `recommend-crdt <field> <type>
// <usage> [consistency]` surface as a named tool call.
func (d *Dispatcher) toolRecommendCrdt(args map[string]string) (Result, error) {
	field, err := requireArg(args, "field")
	if err != nil {
		return Result{}, err
	}
	fieldType, err := requireArg(args, "type")
	if err != nil {
		return Result{}, err
	}
	usageArg, err := requireArg(args, "usage")
	if err != nil {
		return Result{}, err
	}
	pattern, ok := usagePatterns[usageArg]
	if !ok {
		return Result{}, fmt.Errorf("tool: recommend_crdt: unknown usage %q", usageArg)
	}
	level := diagnose.Eventual
	if c := arg(args, "consistency"); c != "" {
		level, ok = consistencyLevels[c]
		if !ok {
			return Result{}, fmt.Errorf("tool: recommend_crdt: unknown consistency %q", c)
		}
	}

	rec := diagnose.Recommend(field, fieldType, pattern, level)
	return jsonResult(recommendationToMap(rec)), nil
}

func recommendationToMap(rec diagnose.Recommendation) map[string]interface{} {
	alts := make([]map[string]interface{}, 0, len(rec.Alternatives))
	for _, a := range rec.Alternatives {
		alts = append(alts, map[string]interface{}{
			"strategy": a.Strategy.String(),
			"score":    a.Score,
			"pros":     a.Pros,
			"cons":     a.Cons,
			"example":  a.Example,
		})
	}
	return map[string]interface{}{
		"strategy":     rec.Strategy.String(),
		"confidence":   rec.Confidence.String(),
		"reasoning":    rec.Reasoning,
		"alternatives": alts,
	}
}

// toolExplainStrategy implements `explain-strategy <name>`.
func (d *Dispatcher) toolExplainStrategy(args map[string]string) (Result, error) {
	name, err := requireArg(args, "name")
	if err != nil {
		return Result{}, err
	}
	strategy, ok := ast.LookupCrdtStrategy(name)
	if !ok {
		return Result{}, fmt.Errorf("tool: explain_strategy: unknown strategy %q", name)
	}
	ex := diagnose.ExplainStrategy(strategy)
	return jsonResult(map[string]interface{}{
		"strategy": ex.Strategy.String(),
		"pros":     ex.Pros,
		"cons":     ex.Cons,
		"example":  ex.Example,
	}), nil
}
