package manifest

import (
	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/scanner"
	"github.com/univrs/dol/token"
	"github.com/univrs/dol/version"
)

// ParseManifest tokenizes and parses a system-manifest file. It always
// returns a non-nil *Manifest (possibly partial) plus an errors.List that
// is empty (but non-nil) on complete success, matching parser.ParseFile's
// contract.
func ParseManifest(filename string, src []byte) (*Manifest, *errors.List) {
	p := newParser(filename, src)
	m := p.parseManifest()
	return m, &p.errs
}

type parser struct {
	toks []token.Token
	pos  int
	errs errors.List
}

func newParser(filename string, src []byte) *parser {
	var sc scanner.Scanner
	sc.Init(filename, src)
	var toks []token.Token
	for {
		t := sc.Scan()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	p := &parser{toks: toks}
	p.errs.Merge(sc.Errors())
	return p
}

func (p *parser) cur() token.Token { return p.toks[p.pos] }
func (p *parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}
func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}
func (p *parser) at(k token.Kind) bool { return p.cur().Kind == k }
func (p *parser) atWord(word string) bool {
	return p.cur().Kind == token.IDENT && p.cur().Literal == word
}

func (p *parser) errorf(kind errors.Kind, format string, args ...interface{}) {
	p.errs.Addf(kind, p.cur().Span, format, args...)
}

func (p *parser) expect(k token.Kind) (token.Token, bool) {
	if p.cur().Kind == k {
		return p.advance(), true
	}
	if p.cur().Kind == token.EOF {
		p.errorf(errors.ParseUnexpectedEOF, "unexpected end of file, expected %s", k)
	} else {
		p.errorf(errors.ParseUnexpectedToken, "unexpected token %s, expected %s", p.cur(), k)
	}
	return token.Token{}, false
}

func (p *parser) parseDottedName() string {
	if p.at(token.IDENT) {
		return p.advance().Literal
	}
	p.errorf(errors.ParseUnexpectedToken, "unexpected token %s, expected identifier", p.cur())
	return ""
}

func (p *parser) parseVersion() version.Version {
	if !p.at(token.VERSION) {
		p.errorf(errors.ValidationInvalidVersion, "expected version, got %s", p.cur())
		return version.Version{}
	}
	lit := p.advance().Literal
	v, err := version.Parse(lit)
	if err != nil {
		p.errorf(errors.ValidationInvalidVersion, "%v", err)
	}
	return v
}

// parseManifest is the grammar's entry point: "system <name> @ <version>"
// followed by any of the docs, spirits, config and bindings blocks in any
// order, each optional.
func (p *parser) parseManifest() *Manifest {
	m := &Manifest{}

	if _, ok := p.expect(token.SYSTEM); !ok {
		return m
	}
	m.Name = p.parseDottedName()
	p.expect(token.AT)
	m.Version = p.parseVersion()

	for !p.at(token.EOF) {
		switch {
		case p.at(token.DOCS):
			p.advance()
			if t, ok := p.expect(token.STRING); ok {
				m.Docs = t.Literal
			}
		case p.atWord("spirits"):
			p.advance()
			m.Spirits = p.parseSpiritsBlock()
		case p.atWord("config"):
			p.advance()
			m.Config = p.parseConfigBlock()
		case p.atWord("bindings"):
			p.advance()
			m.Bindings = p.parseBindingsBlock()
		default:
			p.errorf(errors.ParseUnexpectedToken, "unexpected token %s at manifest top level", p.cur())
			p.advance()
		}
	}

	return m
}

// parseSpiritsBlock parses "{ name: path @ version-constraint, ... }".
func (p *parser) parseSpiritsBlock() []Spirit {
	var out []Spirit
	if _, ok := p.expect(token.LBRACE); !ok {
		return out
	}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		name := p.parseDottedName()
		p.expect(token.COLON)
		path := p.parsePath()

		constraint := VersionConstraint{Op: version.OpEQ}
		if p.at(token.AT) {
			p.advance()
			constraint = p.parseVersionConstraint()
		}

		out = append(out, Spirit{Name: name, Path: path, Constraint: constraint})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return out
}

// parsePath parses either a local "./segment/segment" path or a registry
// "@scope/pkg" reference.
func (p *parser) parsePath() Path {
	if p.at(token.AT) {
		p.advance()
		scope := p.parseDottedName()
		var segs []string
		for p.at(token.SLASH) {
			p.advance()
			segs = append(segs, p.parseDottedName())
		}
		return Path{Kind: PathRegistry, Scope: scope, Segments: segs}
	}

	if p.at(token.DOT) {
		p.advance()
	}
	var segs []string
	for p.at(token.SLASH) {
		p.advance()
		segs = append(segs, p.parseDottedName())
	}
	return Path{Kind: PathLocal, Segments: segs}
}

// parseVersionConstraint parses an optional comparison operator followed
// by a version; an absent operator means exact match.
func (p *parser) parseVersionConstraint() VersionConstraint {
	op := version.OpEQ
	switch p.cur().Kind {
	case token.GE:
		op = version.OpGE
		p.advance()
	case token.GT:
		op = version.OpGT
		p.advance()
	case token.ASSIGN:
		op = version.OpEQ
		p.advance()
	}
	return VersionConstraint{Op: op, Version: p.parseVersion()}
}

// parseConfigBlock parses "{ entry: id, runtime: id, memory: value,
// capabilities: [string, ...] }". Every field is optional and may appear
// in any order.
func (p *parser) parseConfigBlock() Config {
	var cfg Config
	if _, ok := p.expect(token.LBRACE); !ok {
		return cfg
	}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		key := p.parseConfigKey()
		p.expect(token.COLON)
		switch key {
		case "entry":
			cfg.Entry = p.parseConfigValue()
		case "runtime":
			cfg.Runtime = p.parseConfigValue()
		case "memory":
			cfg.Memory = p.parseConfigValue()
		case "capabilities":
			cfg.Capabilities = p.parseStringList()
		default:
			p.errorf(errors.ParseUnexpectedToken, "unknown config key %q", key)
			p.advance()
		}
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return cfg
}

func (p *parser) parseConfigKey() string {
	if p.at(token.IDENT) {
		return p.advance().Literal
	}
	p.errorf(errors.ParseUnexpectedToken, "unexpected token %s, expected a config key", p.cur())
	return ""
}

// parseConfigValue accepts an identifier, a string, an integer, or a
// float. A unit-suffixed memory value like "512mb" must be written as a
// quoted string since the shared scanner only absorbs digit-letter runs
// for VERSION literals, not bare numbers.
func (p *parser) parseConfigValue() string {
	switch p.cur().Kind {
	case token.IDENT, token.STRING, token.INT, token.FLOAT:
		return p.advance().Literal
	default:
		p.errorf(errors.ParseUnexpectedToken, "unexpected token %s, expected a config value", p.cur())
		return ""
	}
}

func (p *parser) parseStringList() []string {
	var out []string
	if _, ok := p.expect(token.LBRACK); !ok {
		return out
	}
	for !p.at(token.RBRACK) && !p.at(token.EOF) {
		out = append(out, p.parseConfigValue())
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACK)
	return out
}

// parseBindingsBlock parses "{ spirit.port -> spirit.port, ... }".
func (p *parser) parseBindingsBlock() []Binding {
	var out []Binding
	if _, ok := p.expect(token.LBRACE); !ok {
		return out
	}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		from := p.parsePortRef()
		p.expect(token.ARROW)
		to := p.parsePortRef()
		out = append(out, Binding{From: from, To: to})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return out
}

// parsePortRef parses a "spirit.port" reference, splitting on '.'. The
// shared scanner already folds "spirit.port" into one dotted IDENT token
// when both halves are simple names, so this only needs to split the
// literal rather than parse two separate tokens.
func (p *parser) parsePortRef() PortRef {
	if !p.at(token.IDENT) {
		p.errorf(errors.ParseUnexpectedToken, "unexpected token %s, expected spirit.port", p.cur())
		return PortRef{}
	}
	lit := p.advance().Literal
	for i := len(lit) - 1; i >= 0; i-- {
		if lit[i] == '.' {
			return PortRef{Spirit: lit[:i], Port: lit[i+1:]}
		}
	}
	p.errorf(errors.ParseUnexpectedToken, "expected a dotted spirit.port reference, got %q", lit)
	return PortRef{Spirit: lit}
}
