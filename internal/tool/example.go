package tool

import (
	"fmt"
	"strings"

	"github.com/univrs/dol/registry"
)

// toolGenerateExample builds a sample instance of a named gen as a JSON
// object, one field at a time, guessing a representative value from each
// field's surface type name. It is intentionally a fixture generator, not
// a constraint solver: a field's `where` clause is not consulted.
func (d *Dispatcher) toolGenerateExample(args map[string]string) (Result, error) {
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
	e, ok := r.Gen(qname)
	if !ok {
		return Result{}, fmt.Errorf("tool: generate_example: no gen named %q", qname)
	}

	out := map[string]interface{}{}
	for _, f := range e.Fields {
		out[f.Name] = exampleValue(f.TypeName)
	}
	return jsonResult(out), nil
}

func exampleValue(typeName string) interface{} {
	switch {
	case typeName == "String":
		return "example"
	case typeName == "Bool":
		return false
	case isIntegerTypeName(typeName):
		return 0
	case typeName == "F32" || typeName == "F64":
		return 0.0
	case strings.HasPrefix(typeName, "Vec<") || strings.HasPrefix(typeName, "Set<"):
		return []interface{}{}
	case strings.HasPrefix(typeName, "Map<"):
		return map[string]interface{}{}
	case strings.HasPrefix(typeName, "Option<"):
		return nil
	default:
		return map[string]interface{}{}
	}
}

func isIntegerTypeName(name string) bool {
	switch name {
	case "I8", "I16", "I32", "I64", "I128", "U8", "U16", "U32", "U64", "U128":
		return true
	}
	return false
}
