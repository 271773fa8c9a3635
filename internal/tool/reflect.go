package tool

import (
	"fmt"

	"github.com/univrs/dol/intern"
	"github.com/univrs/dol/registry"
)

var reflectKinds = []registry.Kind{
	registry.KindGen, registry.KindTrait, registry.KindSystem, registry.KindEvo,
}

// toolReflect builds the schema registry over source and looks up one
// qualified name across every declaration kind, the way a qname on its
// own doesn't say whether it names a gen, a trait, a system or an
// "name@version" evo.
func (d *Dispatcher) toolReflect(args map[string]string) (Result, error) {
	src, err := requireArg(args, sourceArgKey)
	if err != nil {
		return Result{}, err
	}
	qname, err := requireArg(args, "qname")
	if err != nil {
		return Result{}, err
	}

	m, _ := parseAndLower("<tool>", src)
	r := registry.Build(m)

	for _, k := range reflectKinds {
		if e, ok := r.Lookup(k, qname); ok {
			return jsonResult(entryToMap(m.Interner, e)), nil
		}
	}
	return Result{}, fmt.Errorf("tool: reflect: no declaration named %q", qname)
}

func entryToMap(in *intern.Interner, e *registry.Entry) map[string]interface{} {
	out := map[string]interface{}{
		"kind":       e.Kind.String(),
		"name":       e.Name,
		"visibility": e.Visibility.String(),
		"exegesis":   e.Exegesis,
		"summary":    e.String(),
	}
	if len(e.Fields) > 0 {
		fields := make([]map[string]interface{}, 0, len(e.Fields))
		for _, f := range e.Fields {
			fm := map[string]interface{}{
				"name":          f.Name,
				"type":          f.TypeName,
				"hasDefault":    f.HasDefault,
				"hasConstraint": f.HasConstraint,
				"personal":      f.Personal,
			}
			if f.Crdt != nil {
				fm["crdt"] = f.Crdt.String()
			}
			fields = append(fields, fm)
		}
		out["fields"] = fields
	}
	if len(e.Dependencies) > 0 {
		out["dependencies"] = e.Dependencies
	}
	if e.Kind == registry.KindSystem || e.Kind == registry.KindEvo {
		out["version"] = e.Version.String()
	}
	if e.Kind == registry.KindEvo {
		out["parentVersion"] = e.ParentVersion.String()
	}
	if len(e.Requirements) > 0 {
		reqs := make([]string, 0, len(e.Requirements))
		for _, r := range e.Requirements {
			reqs = append(reqs, fmt.Sprintf("%s %s %s", in.Lookup(r.Name), r.Op, r.Version))
		}
		out["requirements"] = reqs
	}
	if len(e.Additions) > 0 {
		out["additions"] = e.Additions
	}
	if len(e.Deprecations) > 0 {
		out["deprecations"] = e.Deprecations
	}
	if len(e.Removals) > 0 {
		out["removals"] = e.Removals
	}
	return out
}
