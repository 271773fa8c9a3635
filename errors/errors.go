// Package errors implements the diagnostic taxonomy shared across the DOL
// lexer, parser, validator and CRDT checker, following the shape of
// cuelang.org/go/cue/errors: a single Error interface, a List aggregate that
// itself implements error, and typed constructors per diagnostic kind.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/univrs/dol/token"
)

// Kind identifies which diagnostic this is. The grouping below mirrors
// spec.md 4A exactly: lex errors, parse errors, validation errors and
// validation warnings.
type Kind int

const (
	// Lex errors.
	LexUnexpectedChar Kind = iota
	LexUnterminatedString
	LexInvalidEscape
	LexInvalidVersion

	// Parse errors.
	ParseUnexpectedToken
	ParseMissingExegesis
	ParseInvalidStatement
	ParseUnexpectedEOF
	ParseInvalidDeclKeyword
	ParseInvalidCrdtStrategyName

	// Validation errors.
	ValidationInvalidIdentifier
	ValidationUnresolvedReference
	ValidationInvalidVersion
	ValidationDuplicateDefinition
	ValidationInvalidEvolutionLineage
	ValidationTypeMismatch
	ValidationIncompatibleCrdtStrategy
	ValidationConstraintCrdtConflict
	ValidationInvalidCrdtEvolution

	// Validation warnings.
	WarningShortExegesis
	WarningNamingConvention
	WarningDeprecatedFeature
	WarningEventuallyConsistentConstraint
	WarningRequiresCoordinationConstraint
)

var names = map[Kind]string{
	LexUnexpectedChar:      "unexpected character",
	LexUnterminatedString:  "unterminated string",
	LexInvalidEscape:       "invalid escape sequence",
	LexInvalidVersion:      "invalid version",
	ParseUnexpectedToken:   "unexpected token",
	ParseMissingExegesis:   "missing exegesis",
	ParseInvalidStatement:  "invalid statement",
	ParseUnexpectedEOF:     "unexpected end of file",
	ParseInvalidDeclKeyword:      "invalid declaration keyword",
	ParseInvalidCrdtStrategyName: "invalid CRDT strategy name",

	ValidationInvalidIdentifier:        "invalid identifier",
	ValidationUnresolvedReference:      "unresolved reference",
	ValidationInvalidVersion:           "invalid version",
	ValidationDuplicateDefinition:      "duplicate definition",
	ValidationInvalidEvolutionLineage:  "invalid evolution lineage",
	ValidationTypeMismatch:             "type mismatch",
	ValidationIncompatibleCrdtStrategy: "incompatible CRDT strategy",
	ValidationConstraintCrdtConflict:   "constraint/CRDT conflict",
	ValidationInvalidCrdtEvolution:     "invalid CRDT evolution",

	WarningShortExegesis:                  "exegesis is too short",
	WarningNamingConvention:                "naming convention deviation",
	WarningDeprecatedFeature:               "use of deprecated feature",
	WarningEventuallyConsistentConstraint:  "eventually consistent constraint",
	WarningRequiresCoordinationConstraint:  "constraint requires coordination",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Severity classifies whether a diagnostic blocks a result from being
// considered valid.
type Severity int

const (
	Error Severity = iota
	Warning
)

// IsWarning reports the severity implied purely by kind, used by
// constructors that do not take an explicit severity.
func (k Kind) IsWarning() bool {
	return k >= WarningShortExegesis
}

// Diagnostic is a single reported problem. Every diagnostic carries a span
// (spec 7: "an Err result is always attributable to a span"). Remediation
// holds the strings attached through Remediate; it is empty for diagnostics
// built without it, which includes the parser's and the manifest parser's
// errors.
type Diagnostic struct {
	Kind        Kind
	Severity    Severity
	Span        token.Span
	Message     string
	Remediation []string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	if d.Severity == Warning {
		b.WriteString("warning: ")
	} else {
		b.WriteString("error: ")
	}
	fmt.Fprintf(&b, "%s: %s", d.Span, d.Message)
	return b.String()
}

// Position satisfies the position-carrying convention used by callers that
// print "severity: line:column: message".
func (d *Diagnostic) Position() token.Position { return d.Span.Start }

// New constructs a Diagnostic whose severity is derived from kind; Warn
// is the constructor that always yields a Warning.
func New(kind Kind, span token.Span, format string, args ...interface{}) *Diagnostic {
	sev := Error
	if kind.IsWarning() {
		sev = Warning
	}
	return &Diagnostic{
		Kind:     kind,
		Severity: sev,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warn constructs a Diagnostic forced to Warning severity regardless of
// kind's default classification. Used where the same Kind can surface as
// either an error or a warning depending on context -- invalid evolution
// lineage is an error in general but the literal S6 scenario documents it
// as a warning when the rest of validation still succeeds.
func Warn(kind Kind, span token.Span, format string, args ...interface{}) *Diagnostic {
	d := New(kind, span, format, args...)
	d.Severity = Warning
	return d
}

// Remediate attaches one or more remediation strings and returns d for
// chaining.
func (d *Diagnostic) Remediate(msgs ...string) *Diagnostic {
	d.Remediation = append(d.Remediation, msgs...)
	return d
}

// List aggregates diagnostics from any pipeline stage. It implements error
// so lexer, parser, validator and CRDT-checker output compose into one
// reportable value without ever collapsing spans or kinds into plain
// strings, per spec.md 7.
type List struct {
	items []*Diagnostic
}

// Add appends a diagnostic to the list.
func (l *List) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	l.items = append(l.items, d)
}

// Addf is a convenience that constructs and appends in one call.
func (l *List) Addf(kind Kind, span token.Span, format string, args ...interface{}) *Diagnostic {
	d := New(kind, span, format, args...)
	l.Add(d)
	return d
}

// Warnf is Addf's Warning-severity counterpart; see Warn.
func (l *List) Warnf(kind Kind, span token.Span, format string, args ...interface{}) *Diagnostic {
	d := Warn(kind, span, format, args...)
	l.Add(d)
	return d
}

// All returns every diagnostic, errors and warnings alike, in insertion
// order.
func (l *List) All() []*Diagnostic { return l.items }

// Errors returns only the Error-severity diagnostics.
func (l *List) Errors() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range l.items {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the Warning-severity diagnostics.
func (l *List) Warnings() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range l.items {
		if d.Severity == Warning {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Valid reports whether the collection contains zero errors. Warnings do
// not affect validity.
func (l *List) Valid() bool { return !l.HasErrors() }

// Err returns l as an error if it holds any Error-severity diagnostic, or
// nil otherwise -- mirroring cue/errors.List's Err() convenience so callers
// can write `if err := diags.Err(); err != nil`.
func (l *List) Err() error {
	if l.HasErrors() {
		return l
	}
	return nil
}

// Sort orders diagnostics by source position, matching cue/errors.List's
// sort-before-print convention.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		a, b := l.items[i].Span.Start, l.items[j].Span.Start
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return l.items[i].Kind < l.items[j].Kind
	})
}

func (l *List) Error() string {
	var b strings.Builder
	for i, d := range l.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.Error())
	}
	return b.String()
}

// Merge appends every diagnostic of other into l.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}
