// Package manifest implements the system-manifest parser of spec.md 4M:
// a sister grammar to the main DOL parser that describes a deployable
// system's name, version, documentation, spirit dependencies, runtime
// configuration and port bindings. It reuses the shared scanner and
// token packages rather than inventing its own lexer, the same way the
// teacher's cue/format and cue/parser share cue/scanner and cue/token.
package manifest

import (
	"github.com/univrs/dol/version"
)

// PathKind distinguishes a spirit dependency resolved from the local
// filesystem from one resolved against a package registry.
type PathKind int

const (
	// PathLocal is a "./segment/segment" relative path.
	PathLocal PathKind = iota
	// PathRegistry is an "@scope/pkg" registry reference.
	PathRegistry
)

// Path is a parsed spirit dependency location.
type Path struct {
	Kind     PathKind
	Segments []string // path segments, without the leading "./" or "@"
	Scope    string   // PathRegistry only: the "@scope" part
}

func (p Path) String() string {
	switch p.Kind {
	case PathRegistry:
		s := "@" + p.Scope
		for _, seg := range p.Segments {
			s += "/" + seg
		}
		return s
	default:
		s := "."
		for _, seg := range p.Segments {
			s += "/" + seg
		}
		return s
	}
}

// VersionConstraint pairs a comparison operator with a version, the same
// shape a system declaration's requires clause uses. An absent operator
// in source means exact match, recorded here as version.OpEQ.
type VersionConstraint struct {
	Op      version.ConstraintOp
	Version version.Version
}

// Satisfies reports whether candidate meets the constraint.
func (c VersionConstraint) Satisfies(candidate version.Version) bool {
	return version.Satisfies(candidate, c.Op, c.Version)
}

// Spirit is one entry of a manifest's spirits block.
type Spirit struct {
	Name       string
	Path       Path
	Constraint VersionConstraint
}

// Config is a manifest's config block.
type Config struct {
	Entry        string
	Runtime      string
	Memory       string
	Capabilities []string
}

// PortRef is one half of a binding: a spirit name and a port name within
// it, parsed by splitting a dotted reference on '.'.
type PortRef struct {
	Spirit string
	Port   string
}

func (r PortRef) String() string { return r.Spirit + "." + r.Port }

// Binding connects one spirit's output port to another's input port.
type Binding struct {
	From PortRef
	To   PortRef
}

// Manifest is a fully parsed system-manifest file.
type Manifest struct {
	Name     string
	Version  version.Version
	Docs     string
	Spirits  []Spirit
	Config   Config
	Bindings []Binding
}
