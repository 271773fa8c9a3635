package tool

import "fmt"

// macro is a small, named, parameterized DOL source snippet. spec.md 6
// names list_macros/expand_macro as tools but leaves the macro language
// itself unspecified; this repo fills the gap with the smallest useful
// shape -- a fixed table of the field-level idioms dol/diagnose's
// suggestion engine already recommends (an immutable id, an audit
// timestamp pair, a last-write-wins scalar), expanded by simple
// placeholder substitution rather than a general macro-expansion engine.
type macro struct {
	Name        string
	Description string
	Params      []string
	expand      func(params map[string]string) string
}

var macros = []macro{
	{
		Name:        "immutable_id",
		Description: "an immutable, stable identifier field",
		Params:      nil,
		expand: func(map[string]string) string {
			return "has id: String @crdt(immutable)"
		},
	},
	{
		Name:        "audit_timestamps",
		Description: "created_at/updated_at fields, per dol/diagnose's suggestion",
		Params:      nil,
		expand: func(map[string]string) string {
			return "has created_at: I64 @crdt(immutable)\nhas updated_at: I64 @crdt(lww)"
		},
	},
	{
		Name:        "lww_scalar",
		Description: "a last-write-wins scalar field: name, type",
		Params:      []string{"name", "type"},
		expand: func(p map[string]string) string {
			return fmt.Sprintf("has %s: %s @crdt(lww)", p["name"], p["type"])
		},
	},
	{
		Name:        "or_set_collection",
		Description: "an add/remove-set collection field: name, elem",
		Params:      []string{"name", "elem"},
		expand: func(p map[string]string) string {
			return fmt.Sprintf("has %s: Set<%s> @crdt(or_set)", p["name"], p["elem"])
		},
	},
	{
		Name:        "collaborative_text",
		Description: "a peritext-backed rich text field: name",
		Params:      []string{"name"},
		expand: func(p map[string]string) string {
			return fmt.Sprintf("has %s: String @crdt(peritext)", p["name"])
		},
	},
}

func findMacro(name string) (macro, bool) {
	for _, m := range macros {
		if m.Name == name {
			return m, true
		}
	}
	return macro{}, false
}

// toolListMacros enumerates the built-in macro table.
func (d *Dispatcher) toolListMacros(args map[string]string) (Result, error) {
	out := make([]map[string]interface{}, 0, len(macros))
	for _, m := range macros {
		out = append(out, map[string]interface{}{
			"name":        m.Name,
			"description": m.Description,
			"params":      m.Params,
		})
	}
	return jsonResult(out), nil
}

// toolExpandMacro expands a named macro with the given parameters, which
// arrive as plain string arguments alongside "macro" itself.
func (d *Dispatcher) toolExpandMacro(args map[string]string) (Result, error) {
	name, err := requireArg(args, "macro")
	if err != nil {
		return Result{}, err
	}
	m, ok := findMacro(name)
	if !ok {
		return Result{}, fmt.Errorf("tool: expand_macro: unknown macro %q", name)
	}
	for _, p := range m.Params {
		if _, err := requireArg(args, p); err != nil {
			return Result{}, fmt.Errorf("tool: expand_macro: macro %q requires parameter %q", name, p)
		}
	}
	return textResult(m.expand(args)), nil
}
