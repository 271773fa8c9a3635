// Package parser implements a recursive-descent parser for DOL source
// files, building the dol/ast tree from a dol/scanner token stream. The
// overall parser shape -- a struct holding current/lookahead tokens plus
// an accumulated errors.List, one method per grammar production -- follows
// cuelang.org/go/cue/parser.parser. Per spec.md 4D, on an unexpected token
// the parser reports and abandons the current declaration rather than
// attempting panic-mode synchronization; ParseFile still returns whatever
// prefix of the file parsed successfully.
package parser

import (
	"strings"

	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/scanner"
	"github.com/univrs/dol/token"
	"github.com/univrs/dol/version"
)

// ParseFile tokenizes and parses a single DOL source file. It always
// returns a non-nil *ast.File (possibly partial) plus an errors.List that
// is empty (but non-nil) on complete success.
func ParseFile(filename string, src []byte) (*ast.File, *errors.List) {
	p := newParser(filename, src)
	f := p.parseFile()
	return f, &p.errs
}

type parser struct {
	filename string
	src      []byte
	toks     []token.Token
	pos      int // index of current token in toks

	errs errors.List

	// abandoning is not read or set anywhere; recovery after an error is
	// done by resyncToDecl.
	abandoning bool
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
	p := &parser{filename: filename, src: src, toks: toks}
	p.errs.Merge(sc.Errors())
	return p
}

func (p *parser) cur() token.Token  { return p.toks[p.pos] }
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

func (p *parser) errorf(kind errors.Kind, format string, args ...interface{}) {
	p.errs.Addf(kind, p.cur().Span, format, args...)
}

// expect consumes the current token if it matches k, else records a
// ParseUnexpectedToken diagnostic and leaves the cursor unmoved.
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

// resyncToDecl advances the token cursor to the next token that can start
// a top-level declaration, so a failed declaration does not cascade
// errors through the rest of the file.
func (p *parser) resyncToDecl() {
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.GEN, token.TRAIT, token.RULE, token.SYSTEM, token.EVO,
			token.FN, token.CONST, token.SEXVAR, token.PUB, token.USE, token.MODULE:
			return
		}
		p.advance()
	}
}

// ----------------------------------------------------------------------------
// File, module, imports

func (p *parser) parseFile() *ast.File {
	f := &ast.File{Filename: p.filename}

	if p.at(token.MODULE) {
		start := p.cur().Span
		p.advance()
		name := p.parseDottedName()
		f.Module = &ast.ModuleDecl{Name: name, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	}

	for p.at(token.USE) || (p.at(token.PUB) && p.peek().Kind == token.USE) {
		if im := p.parseImport(); im != nil {
			f.Imports = append(f.Imports, im)
		}
	}

	for !p.at(token.EOF) {
		before := p.pos
		d := p.parseTopLevelDecl()
		if d != nil {
			f.Decls = append(f.Decls, d)
		}
		if p.pos == before {
			// Parser made no progress; avoid an infinite loop by skipping
			// the offending token and resyncing.
			p.errorf(errors.ParseInvalidDeclKeyword, "unexpected token %s at top level", p.cur())
			p.advance()
			p.resyncToDecl()
		}
	}
	return f
}

// parseDottedName reads one IDENT token, which the scanner already joins
// into a single dotted token when internal dots are followed by a letter.
func (p *parser) parseDottedName() string {
	if p.at(token.IDENT) {
		return p.advance().Literal
	}
	p.errorf(errors.ParseUnexpectedToken, "unexpected token %s, expected identifier", p.cur())
	return ""
}

func (p *parser) parseVisibilityPrefix() ast.Visibility {
	if !p.at(token.PUB) {
		return ast.Private
	}
	p.advance()
	if p.at(token.LPAREN) {
		p.advance()
		switch {
		case p.at(token.SPIRIT):
			p.advance()
			p.expect(token.RPAREN)
			return ast.PubSpirit
		case p.at(token.PARENT):
			p.advance()
			p.expect(token.RPAREN)
			return ast.PubParent
		default:
			p.errorf(errors.ParseUnexpectedToken, "expected spirit or parent in pub(...)")
			p.resyncToDecl()
			return ast.Public
		}
	}
	return ast.Public
}

func (p *parser) parseImport() *ast.ImportDecl {
	vis := p.parseVisibilityPrefix()
	start := p.cur().Span
	if _, ok := p.expect(token.USE); !ok {
		p.resyncToDecl()
		return nil
	}
	decl := &ast.ImportDecl{Visibility: vis}

	switch {
	case p.at(token.AT):
		p.advance()
		// @scope/pkg, @git:host/repo, or @https://url
		if p.at(token.IDENT) && strings.HasPrefix(p.cur().Literal, "https") {
			decl.Kind = ast.ImportHttps
		} else if p.at(token.IDENT) && strings.HasPrefix(p.cur().Literal, "git") {
			decl.Kind = ast.ImportGit
		} else {
			decl.Kind = ast.ImportRegistry
		}
		decl.Path = "@" + p.parseImportPathTail()
		if p.at(token.AT) {
			p.advance()
			decl.VersionConstraint = p.parseConstraintTail()
		}
	case p.at(token.DOT):
		decl.Kind = ast.ImportLocal
		decl.Path = p.parseImportPathTail()
	default:
		decl.Kind = ast.ImportLocal
		decl.Path = p.parseDottedName()
	}
	decl.Span = token.Merge(start, p.toks[p.pos-1].Span)
	return decl
}

// parseImportPathTail greedily consumes path-ish tokens (identifiers,
// dots, slashes, colons) up to the next `@`, end of statement, or EOF.
func (p *parser) parseImportPathTail() string {
	var b strings.Builder
	for {
		switch p.cur().Kind {
		case token.IDENT, token.DOT, token.SLASH, token.COLON, token.MINUS:
			lit := p.cur().Literal
			if lit == "" {
				lit = p.cur().Kind.String()
			}
			b.WriteString(lit)
			p.advance()
		default:
			return b.String()
		}
	}
}

func (p *parser) parseConstraintTail() string {
	var b strings.Builder
	for {
		switch p.cur().Kind {
		case token.IDENT, token.VERSION, token.INT, token.FLOAT, token.DOT, token.CARET, token.TILDE, token.GE, token.GT, token.LE, token.LT, token.ASSIGN:
			lit := p.cur().Literal
			if lit == "" {
				lit = p.cur().Kind.String()
			}
			b.WriteString(lit)
			p.advance()
		default:
			return b.String()
		}
	}
}

// ----------------------------------------------------------------------------
// Top-level declarations

func (p *parser) parseTopLevelDecl() ast.Decl {
	vis := p.parseVisibilityPrefix()
	switch p.cur().Kind {
	case token.GEN:
		return p.parseGen(vis)
	case token.TRAIT:
		return p.parseTraitOrRule(vis, true)
	case token.RULE:
		return p.parseTraitOrRule(vis, false)
	case token.SYSTEM:
		return p.parseSystem(vis)
	case token.EVO:
		return p.parseEvo()
	case token.FN:
		return p.parseFunc(vis)
	case token.CONST:
		return p.parseConst(vis)
	case token.SEXVAR:
		return p.parseSexVar(vis)
	case token.EOF:
		return nil
	default:
		p.errorf(errors.ParseInvalidDeclKeyword, "unexpected token %s at top level, expected a declaration", p.cur())
		p.advance()
		p.resyncToDecl()
		return nil
	}
}

func (p *parser) parseExegesis() (string, bool) {
	if !p.at(token.EXEGESIS) && !p.at(token.DOCS) {
		p.errorf(errors.ParseMissingExegesis, "missing exegesis block")
		return "", false
	}
	p.advance()
	open, ok := p.expect(token.LBRACE)
	if !ok {
		return "", false
	}
	// Brace-depth count over raw source characters (spec.md 4D), so
	// internal braces/punctuation are preserved verbatim.
	depth := 1
	i := open.Span.End.Offset
	bodyStart := i
	for i < len(p.src) && depth > 0 {
		switch p.src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				goto done
			}
		}
		i++
	}
done:
	text := strings.TrimSpace(string(p.src[bodyStart:i]))
	closeOffset := i
	// Advance the token cursor past the matching close brace: find the
	// first token whose start is >= closeOffset and move past the RBRACE
	// token itself.
	for !p.at(token.EOF) && p.cur().Span.Start.Offset < closeOffset {
		p.advance()
	}
	if p.at(token.RBRACE) && p.cur().Span.Start.Offset == closeOffset {
		p.advance()
	}
	return text, true
}

func (p *parser) parseGen(vis ast.Visibility) *ast.GenDecl {
	start := p.cur().Span
	p.advance() // 'gen'
	name := p.parseDottedName()
	extends := ""
	if p.at(token.EXTENDS) {
		p.advance()
		extends = p.parseDottedName()
	}
	stmts := p.parseBody()
	exegesis, _ := p.parseExegesis()
	return &ast.GenDecl{
		Visibility: vis, Name: name, Extends: extends,
		Statements: stmts, Exegesis: exegesis,
		Span: token.Merge(start, p.toks[p.pos-1].Span),
	}
}

func (p *parser) parseTraitOrRule(vis ast.Visibility, isTrait bool) ast.Decl {
	start := p.cur().Span
	p.advance() // 'trait' or 'rule'
	name := p.parseDottedName()
	stmts := p.parseBody()
	exegesis, _ := p.parseExegesis()
	span := token.Merge(start, p.toks[p.pos-1].Span)
	if isTrait {
		return &ast.TraitDecl{Visibility: vis, Name: name, Statements: stmts, Exegesis: exegesis, Span: span}
	}
	return &ast.RuleDecl{Visibility: vis, Name: name, Statements: stmts, Exegesis: exegesis, Span: span}
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

func (p *parser) parseSystem(vis ast.Visibility) *ast.SystemDecl {
	start := p.cur().Span
	p.advance() // 'system'
	name := p.parseDottedName()
	p.expect(token.AT)
	v := p.parseVersion()

	var reqs []ast.Requirement
	if p.at(token.REQUIRES) {
		p.advance()
		for {
			rstart := p.cur().Span
			rname := p.parseDottedName()
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
			rv := p.parseVersion()
			reqs = append(reqs, ast.Requirement{Name: rname, Op: op, Version: rv, Span: token.Merge(rstart, p.toks[p.pos-1].Span)})
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	stmts := p.parseBody()
	exegesis, _ := p.parseExegesis()
	return &ast.SystemDecl{
		Visibility: vis, Name: name, Version: v, Requirements: reqs,
		Statements: stmts, Exegesis: exegesis,
		Span: token.Merge(start, p.toks[p.pos-1].Span),
	}
}

func (p *parser) parseEvo() *ast.EvoDecl {
	start := p.cur().Span
	p.advance() // 'evo'
	name := p.parseDottedName()
	p.expect(token.AT)
	newVer := p.parseVersion()
	p.expect(token.GT)
	parentVer := p.parseVersion()

	var additions, deprecations, removals []string
	if p.at(token.LBRACE) {
		p.advance()
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			switch p.cur().Kind {
			case token.ADDS:
				p.advance()
				additions = append(additions, p.parsePhraseUntilKeyword())
			case token.DEPRECATES:
				p.advance()
				deprecations = append(deprecations, p.parsePhraseUntilKeyword())
			case token.REMOVES:
				p.advance()
				removals = append(removals, p.parsePhraseUntilKeyword())
			default:
				p.errorf(errors.ParseInvalidStatement, "unexpected token %s in evo body", p.cur())
				p.advance()
			}
		}
		p.expect(token.RBRACE)
	}

	rationale := ""
	if p.at(token.BECAUSE) {
		p.advance()
		if p.at(token.STRING) {
			rationale = p.advance().Literal
		}
	}

	exegesis, _ := p.parseExegesis()
	return &ast.EvoDecl{
		Name: name, NewVersion: newVer, ParentVersion: parentVer,
		Additions: additions, Deprecations: deprecations, Removals: removals,
		Rationale: rationale, Exegesis: exegesis,
		Span: token.Merge(start, p.toks[p.pos-1].Span),
	}
}

// parsePhraseUntilKeyword accumulates identifier words until the next
// adds/deprecates/removes/because/}/EOF, mirroring the phrase style used
// for predicate statements.
func (p *parser) parsePhraseUntilKeyword() string {
	var words []string
	for p.at(token.IDENT) {
		words = append(words, p.advance().Literal)
	}
	return strings.Join(words, " ")
}

// ----------------------------------------------------------------------------
// Gen/trait/rule/system statement bodies

func (p *parser) parseBody() []ast.Stmt {
	if !p.at(token.LBRACE) {
		p.errorf(errors.ParseUnexpectedToken, "expected %s, got %s", token.LBRACE, p.cur())
		return nil
	}
	p.advance()
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		before := p.pos
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return stmts
}

var predicateKinds = map[token.Kind]ast.PredicateKind{
	token.HAS: ast.PredHas, token.IS: ast.PredIs, token.REQUIRES: ast.PredRequires,
	token.EMITS: ast.PredEmits, token.MATCHES: ast.PredMatches, token.NEVER: ast.PredNever,
}

func (p *parser) parseStmt() ast.Stmt {
	start := p.cur().Span

	if p.at(token.FN) {
		return p.parseFunc(ast.Private)
	}

	if p.at(token.USES) {
		p.advance()
		ref := p.parseDottedName()
		return &ast.PredicateStmt{Kind: ast.PredUses, Object: ref, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	}

	if p.at(token.EACH) || p.at(token.ALL) {
		return p.parseQuantified()
	}

	// Leading `has NAME :` with no subject phrase is the typed field
	// form; leading `has` otherwise is an error (Has predicate requires
	// a subject phrase before it).
	if p.at(token.HAS) && p.peek().Kind == token.IDENT {
		save := p.pos
		p.advance()
		name := p.advance().Literal
		if p.at(token.COLON) {
			p.advance()
			return p.parseHasField(name, start)
		}
		p.pos = save
	}

	if !p.at(token.IDENT) && !p.at(token.NO) {
		p.errorf(errors.ParseUnexpectedToken, "unexpected token %s, expected identifier or predicate", p.cur())
		return nil
	}

	subject := p.advance().Literal
	for (p.at(token.IDENT) || p.at(token.NO)) && !p.cur().Kind.IsPredicate() && !p.peek().Kind.IsPredicate() {
		subject += " " + p.advance().Literal
	}
	if (p.at(token.IDENT) || p.at(token.NO)) && p.peek().Kind.IsPredicate() {
		subject += " " + p.advance().Literal
	}

	switch p.cur().Kind {
	case token.HAS, token.IS, token.REQUIRES, token.EMITS, token.MATCHES, token.NEVER:
		kind := predicateKinds[p.cur().Kind]
		p.advance()
		object := p.parsePhraseObject()
		return &ast.PredicateStmt{Kind: kind, Subject: subject, Object: object, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.DERIVES:
		p.advance()
		p.expect(token.FROM)
		object := p.parsePhraseObject()
		return &ast.PredicateStmt{Kind: ast.PredDerivesFrom, Subject: subject, Object: object, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	default:
		p.errorf(errors.ParseInvalidStatement, "expected predicate after %q, got %s", subject, p.cur())
		return nil
	}
}

// parsePhraseObject accumulates identifier words for the object half of a
// predicate statement, stopping at a statement boundary.
func (p *parser) parsePhraseObject() string {
	if !p.at(token.IDENT) && !p.at(token.NO) {
		p.errorf(errors.ParseUnexpectedToken, "expected identifier, got %s", p.cur())
		return ""
	}
	var words []string
	words = append(words, p.advance().Literal)
	for (p.at(token.IDENT) || p.at(token.NO)) && !p.peek().Kind.IsPredicate() {
		words = append(words, p.advance().Literal)
	}
	return strings.Join(words, " ")
}

// parseQuantified implements spec.md 4D: the quantified phrase absorbs
// the remainder of the logical statement, including embedded predicates,
// until the next statement-starting token.
func (p *parser) parseQuantified() *ast.QuantifiedStmt {
	start := p.cur().Span
	q := ast.QEach
	if p.at(token.ALL) {
		q = ast.QAll
	}
	p.advance()

	var words []string
	for {
		switch p.cur().Kind {
		case token.RBRACE, token.EOF, token.USES, token.EACH, token.ALL, token.FN:
			goto done
		default:
			words = append(words, p.advance().Literal)
		}
	}
done:
	phrase := strings.Join(words, " ")
	span := token.Merge(start, p.toks[p.pos-1].Span)
	return &ast.QuantifiedStmt{Quantifier: q, Phrase: phrase, Inner: recognizeEmbeddedPredicate(words, span), Span: span}
}

// recognizeEmbeddedPredicate looks for a predicate keyword among the
// captured words and, if found, reconstructs the PredicateStmt it forms --
// giving callers a structural view alongside the free-text phrase without
// requiring the grammar to commit to one shape up front.
func recognizeEmbeddedPredicate(words []string, span token.Span) ast.Stmt {
	predWords := map[string]ast.PredicateKind{
		"has": ast.PredHas, "is": ast.PredIs, "requires": ast.PredRequires,
		"emits": ast.PredEmits, "matches": ast.PredMatches, "never": ast.PredNever,
	}
	for i, w := range words {
		if kind, ok := predWords[w]; ok && i > 0 && i < len(words)-1 {
			return &ast.PredicateStmt{
				Kind:    kind,
				Subject: strings.Join(words[:i], " "),
				Object:  strings.Join(words[i+1:], " "),
				Span:    span,
			}
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// HasField typed form

func (p *parser) parseHasField(name string, start token.Span) *ast.HasFieldStmt {
	typ := p.parseType()
	f := &ast.HasFieldStmt{Name: name, Type: typ}

	if p.at(token.ASSIGN) {
		p.advance()
		f.Default = p.parseExpr()
	}
	if p.at(token.WHERE) {
		p.advance()
		f.Constraint = p.parseExpr()
	}
	for p.at(token.AT) {
		save := p.pos
		p.advance()
		if p.at(token.IDENT) && p.cur().Literal == "crdt" {
			p.advance()
			f.Crdt = p.parseCrdtAnnotation()
			continue
		}
		if p.at(token.IDENT) && p.cur().Literal == "personal" {
			p.advance()
			f.Personal = true
			continue
		}
		p.pos = save
		break
	}
	f.Span = token.Merge(start, p.toks[p.pos-1].Span)
	return f
}

func (p *parser) parseCrdtAnnotation() *ast.CrdtAnnotation {
	start := p.toks[p.pos-1].Span
	p.expect(token.LPAREN)
	name := ""
	if p.at(token.IDENT) {
		name = p.advance().Literal
	}
	strategy, ok := ast.LookupCrdtStrategy(name)
	if !ok {
		p.errorf(errors.ParseInvalidCrdtStrategyName, "unknown CRDT strategy %q", name)
	}
	ann := &ast.CrdtAnnotation{Strategy: strategy}
	for p.at(token.COMMA) {
		p.advance()
		if !p.at(token.IDENT) {
			break
		}
		key := p.advance().Literal
		val := ""
		if p.at(token.ASSIGN) {
			p.advance()
			val = p.advance().Literal
		}
		ann.Options = append(ann.Options, ast.CrdtOption{Key: key, Value: val})
	}
	p.expect(token.RPAREN)
	ann.Span = token.Merge(start, p.toks[p.pos-1].Span)
	return ann
}

// ----------------------------------------------------------------------------
// Types

func (p *parser) parseType() ast.TypeExpr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.ENUM:
		p.advance()
		p.expect(token.LBRACE)
		var variants []string
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			if p.at(token.IDENT) {
				variants = append(variants, p.advance().Literal)
			}
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
		return &ast.EnumType{Variants: variants, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.FN:
		p.advance()
		p.expect(token.LPAREN)
		var params []ast.TypeExpr
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			params = append(params, p.parseType())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		var ret ast.TypeExpr
		if p.at(token.ARROW) {
			p.advance()
			ret = p.parseType()
		}
		return &ast.FuncType{Params: params, Return: ret, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.LPAREN:
		p.advance()
		var elems []ast.TypeExpr
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			elems = append(elems, p.parseType())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return &ast.TupleType{Elems: elems, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.IDENT:
		name := p.advance().Literal
		if name == "Never" {
			return &ast.NeverType{Span: token.Merge(start, p.toks[p.pos-1].Span)}
		}
		if p.at(token.LT) {
			p.advance()
			var args []ast.TypeExpr
			for !p.at(token.GT) && !p.at(token.EOF) {
				args = append(args, p.parseType())
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.GT)
			return &ast.GenericType{Name: name, Args: args, Span: token.Merge(start, p.toks[p.pos-1].Span)}
		}
		return &ast.NamedType{Name: name, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	default:
		p.errorf(errors.ParseUnexpectedToken, "unexpected token %s, expected a type", p.cur())
		return &ast.NamedType{Name: "Error", Span: start}
	}
}

// ----------------------------------------------------------------------------
// fn / const / sexvar

func (p *parser) parseFunc(vis ast.Visibility) *ast.FuncDecl {
	start := p.cur().Span
	p.advance() // 'fn'
	purity := ast.Pure
	if p.at(token.AT) && p.peek().Kind == token.IDENT && p.peek().Literal == "sex" {
		p.advance()
		p.advance()
		purity = ast.Sex
	}
	name := p.parseDottedName()

	var typeParams []string
	if p.at(token.LT) {
		p.advance()
		for !p.at(token.GT) && !p.at(token.EOF) {
			if p.at(token.IDENT) {
				typeParams = append(typeParams, p.advance().Literal)
			}
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.GT)
	}

	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		pname := p.parseDottedName()
		p.expect(token.COLON)
		ptype := p.parseType()
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)

	var ret ast.TypeExpr
	if p.at(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}

	var attrs []string
	for p.at(token.AT) {
		save := p.pos
		p.advance()
		if p.at(token.IDENT) {
			attrs = append(attrs, p.advance().Literal)
			continue
		}
		p.pos = save
		break
	}

	body := p.parseFuncBody()
	exegesis, _ := p.parseExegesis()
	return &ast.FuncDecl{
		Visibility: vis, Purity: purity, Name: name, TypeParams: typeParams,
		Params: params, Return: ret, Body: body, Attributes: attrs, Exegesis: exegesis,
		Span: token.Merge(start, p.toks[p.pos-1].Span),
	}
}

// parseFuncBody parses the `{ ... }` surrounding a function's body as a
// sequence of expressions, each wrapped in an ExprStmt and optionally
// followed by `;`. Predicate and field statements are not accepted here.
func (p *parser) parseFuncBody() []ast.Stmt {
	if !p.at(token.LBRACE) {
		p.errorf(errors.ParseUnexpectedToken, "expected %s, got %s", token.LBRACE, p.cur())
		return nil
	}
	p.advance()
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		start := p.cur().Span
		e := p.parseExpr()
		stmts = append(stmts, &ast.ExprStmt{X: e, Span: token.Merge(start, p.toks[p.pos-1].Span)})
		if p.at(token.SEMI) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return stmts
}

func (p *parser) parseConst(vis ast.Visibility) *ast.ConstDecl {
	start := p.cur().Span
	p.advance() // 'const'
	name := p.parseDottedName()
	var typ ast.TypeExpr
	if p.at(token.COLON) {
		p.advance()
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	return &ast.ConstDecl{Visibility: vis, Name: name, Type: typ, Value: val, Span: token.Merge(start, p.toks[p.pos-1].Span)}
}

func (p *parser) parseSexVar(vis ast.Visibility) *ast.SexVarDecl {
	start := p.cur().Span
	p.advance() // 'sexvar'
	name := p.parseDottedName()
	var typ ast.TypeExpr
	if p.at(token.COLON) {
		p.advance()
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	return &ast.SexVarDecl{Visibility: vis, Name: name, Type: typ, Value: val, Span: token.Merge(start, p.toks[p.pos-1].Span)}
}
