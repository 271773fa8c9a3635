// Package tool implements the tool protocol of spec.md 6: every pipeline
// capability exposed as a named call taking string arguments keyed by
// parameter name, returning either a text result or a JSON value. This is
// the contract an MCP transport would sit on top of -- the transport
// itself is out of scope, the same way theRebelliousNerd-codenerd's
// internal/autopoiesis package exposes a plain Go call surface that its
// own cmd/nerd CLI and, separately, an agent harness both dispatch into.
package tool

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Result is a tool call's outcome: exactly one of Text or JSON is
// meaningful, selected by IsJSON.
type Result struct {
	Text   string      `json:"text,omitempty"`
	JSON   interface{} `json:"json,omitempty"`
	IsJSON bool        `json:"-"`
}

func textResult(s string) Result { return Result{Text: s} }
func jsonResult(v interface{}) Result { return Result{JSON: v, IsJSON: true} }

// Handler implements one named tool.
type Handler func(args map[string]string) (Result, error)

// Dispatcher holds the fixed tool registry of spec.md 6 and an optional
// logger; it carries no other mutable state, matching spec.md 5's "no
// component holds onto global mutable state".
type Dispatcher struct {
	log      *zap.Logger
	handlers map[string]Handler
}

// NewDispatcher builds a Dispatcher with every tool of spec.md 6
// registered. A nil logger is replaced with zap.NewNop().
func NewDispatcher(log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{log: log}
	d.handlers = map[string]Handler{
		"parse":                            d.toolParse,
		"typecheck":                        d.toolTypecheck,
		"compile_rust":                     d.toolCompile("rust"),
		"compile_typescript":               d.toolCompile("typescript"),
		"compile_wasm":                     d.toolCompile("wasm"),
		"eval":                             d.toolEval,
		"reflect":                          d.toolReflect,
		"format":                           d.toolFormat,
		"list_macros":                      d.toolListMacros,
		"expand_macro":                     d.toolExpandMacro,
		"validate_schema":                  d.toolValidateSchema,
		"recommend_crdt":                   d.toolRecommendCrdt,
		"explain_strategy":                 d.toolExplainStrategy,
		"generate_example":                 d.toolGenerateExample,
		"generate_schema_from_description": d.toolGenerateSchemaFromDescription,
		"validate_and_suggest":             d.toolValidateAndSuggest,
		"get_suggestions":                  d.toolGetSuggestions,
	}
	return d
}

// Names returns the registered tool names, sorted.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for n := range d.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Call dispatches a named tool call. An unknown name is an error, not a
// panic, since callers are expected to drive this from untrusted
// transport input.
func (d *Dispatcher) Call(name string, args map[string]string) (Result, error) {
	h, ok := d.handlers[name]
	if !ok {
		return Result{}, fmt.Errorf("tool: unknown tool %q", name)
	}
	d.log.Debug("tool call", zap.String("tool", name))
	res, err := h(args)
	if err != nil {
		d.log.Debug("tool call failed", zap.String("tool", name), zap.Error(err))
	}
	return res, err
}

func arg(args map[string]string, key string) string { return args[key] }

func requireArg(args map[string]string, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == "" {
		return "", fmt.Errorf("tool: missing required argument %q", key)
	}
	return v, nil
}
