package parser

import (
	"github.com/univrs/dol/ast"
	"github.com/univrs/dol/errors"
	"github.com/univrs/dol/token"
)

// precedence table for the Pratt-style binary expression parser, following
// the climbing scheme used by cuelang.org/go/cue/parser for binary
// expressions.
var precedence = map[token.Kind]int{
	token.OR:  1,
	token.AND: 2,
	token.EQ:  3, token.NEQ: 3,
	token.LT: 4, token.LE: 4, token.GT: 4, token.GE: 4,
	token.PLUS: 5, token.MINUS: 5,
	token.STAR: 6, token.SLASH: 6, token.PERCENT: 6,
}

var binOps = map[token.Kind]ast.BinaryOp{
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub, token.STAR: ast.OpMul,
	token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod,
	token.EQ: ast.OpEq, token.NEQ: ast.OpNeq,
	token.LT: ast.OpLt, token.LE: ast.OpLe, token.GT: ast.OpGt, token.GE: ast.OpGe,
	token.AND: ast.OpAnd, token.OR: ast.OpOr,
}

// parseExpr parses a full expression, including top-level assignment,
// which binds looser than every binary operator.
func (p *parser) parseExpr() ast.Expr {
	lhs := p.parseBinaryExpr(1)
	if p.at(token.ASSIGN) && ast.IsPlace(lhs) {
		start := p.cur().Span
		p.advance()
		rhs := p.parseExpr()
		return &ast.AssignExpr{Target: lhs, Value: rhs, Span: token.Merge(lhs.Pos(), token.Merge(start, rhs.Pos()))}
	}
	return lhs
}

func (p *parser) parseBinaryExpr(minPrec int) ast.Expr {
	lhs := p.parseUnaryExpr()
	for {
		prec, ok := precedence[p.cur().Kind]
		if !ok || prec < minPrec {
			return lhs
		}
		op := binOps[p.cur().Kind]
		p.advance()
		rhs := p.parseBinaryExpr(prec + 1)
		lhs = &ast.BinaryExpr{Op: op, X: lhs, Y: rhs, Span: token.Merge(lhs.Pos(), rhs.Pos())}
	}
}

func (p *parser) parseUnaryExpr() ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.MINUS:
		p.advance()
		x := p.parseUnaryExpr()
		return &ast.UnaryExpr{Op: ast.OpNeg, X: x, Span: token.Merge(start, x.Pos())}
	case token.NOT:
		p.advance()
		x := p.parseUnaryExpr()
		return &ast.UnaryExpr{Op: ast.OpNot, X: x, Span: token.Merge(start, x.Pos())}
	default:
		return p.parsePostfixExpr()
	}
}

func (p *parser) parsePostfixExpr() ast.Expr {
	x := p.parsePrimaryExpr()
	for {
		start := x.Pos()
		switch p.cur().Kind {
		case token.DOT:
			p.advance()
			name := p.parseDottedName()
			x = &ast.SelectExpr{X: x, Name: name, Span: token.Merge(start, p.toks[p.pos-1].Span)}
		case token.LBRACK:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			x = &ast.IndexExpr{X: x, Index: idx, Span: token.Merge(start, p.toks[p.pos-1].Span)}
		case token.LPAREN:
			p.advance()
			var args []ast.Expr
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
			x = &ast.CallExpr{Callee: x, Args: args, Span: token.Merge(start, p.toks[p.pos-1].Span)}
		default:
			return x
		}
	}
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.INT:
		lit := p.advance().Literal
		return &ast.BasicLit{Kind: ast.LitInt, Value: lit, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.FLOAT:
		lit := p.advance().Literal
		return &ast.BasicLit{Kind: ast.LitFloat, Value: lit, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.STRING:
		lit := p.advance().Literal
		return &ast.BasicLit{Kind: ast.LitString, Value: lit, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.TRUE:
		p.advance()
		return &ast.BasicLit{Kind: ast.LitBool, Value: "true", Span: start}
	case token.FALSE:
		p.advance()
		return &ast.BasicLit{Kind: ast.LitBool, Value: "false", Span: start}
	case token.NULL:
		p.advance()
		return &ast.BasicLit{Kind: ast.LitNull, Value: "null", Span: start}
	case token.IDENT:
		name := p.advance().Literal
		return &ast.Ident{Name: name, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.LPAREN:
		p.advance()
		var elems []ast.Expr
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			elems = append(elems, p.parseExpr())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		span := token.Merge(start, p.toks[p.pos-1].Span)
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TupleExpr{Elems: elems, Span: span}
	case token.LBRACE:
		return p.parseBlockExpr()
	case token.IF:
		return p.parseIfExpr()
	case token.MATCH:
		return p.parseMatchExpr()
	case token.LOOP:
		p.advance()
		body := p.parseBlockExpr().(*ast.BlockExpr)
		return &ast.LoopExpr{Body: body, Span: token.Merge(start, p.toks[p.pos-1].Span)}
	case token.BREAK:
		p.advance()
		return &ast.BreakExpr{Span: start}
	case token.PIPE:
		return p.parseLambdaExpr()
	default:
		p.errorf(errors.ParseUnexpectedToken, "unexpected token %s in expression", p.cur())
		p.advance()
		return &ast.Ident{Name: "", Span: start}
	}
}

func (p *parser) parseBlockExpr() ast.Expr {
	start := p.cur().Span
	p.expect(token.LBRACE)
	var stmts []ast.LocalStmt
	var result ast.Expr
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.LET) {
			stmts = append(stmts, p.parseLetStmt())
			continue
		}
		e := p.parseExpr()
		if p.at(token.SEMI) {
			p.advance()
			stmts = append(stmts, &ast.ExprStmt{X: e, Span: e.Pos()})
			continue
		}
		// An expression with no trailing semicolon before '}' is the
		// block's result.
		result = e
		break
	}
	p.expect(token.RBRACE)
	return &ast.BlockExpr{Stmts: stmts, Result: result, Span: token.Merge(start, p.toks[p.pos-1].Span)}
}

func (p *parser) parseLetStmt() *ast.LetStmt {
	start := p.cur().Span
	p.advance() // 'let'
	name := p.parseDottedName()
	var typ ast.TypeExpr
	if p.at(token.COLON) {
		p.advance()
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	if p.at(token.SEMI) {
		p.advance()
	}
	return &ast.LetStmt{Name: name, Type: typ, Value: val, Span: token.Merge(start, p.toks[p.pos-1].Span)}
}

func (p *parser) parseIfExpr() ast.Expr {
	start := p.cur().Span
	p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlockExpr()
	var els ast.Expr
	if p.at(token.ELSE) {
		p.advance()
		if p.at(token.IF) {
			els = p.parseIfExpr()
		} else {
			els = p.parseBlockExpr()
		}
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Span: token.Merge(start, p.toks[p.pos-1].Span)}
}

func (p *parser) parseMatchExpr() ast.Expr {
	start := p.cur().Span
	p.advance() // 'match'
	subject := p.parseExpr()
	p.expect(token.LBRACE)
	var arms []ast.MatchArm
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.at(token.IF) {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(token.FATARROW)
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.MatchExpr{Subject: subject, Arms: arms, Span: token.Merge(start, p.toks[p.pos-1].Span)}
}

func (p *parser) parseLambdaExpr() ast.Expr {
	start := p.cur().Span
	p.advance() // '|'
	var params []ast.Param
	for !p.at(token.PIPE) && !p.at(token.EOF) {
		name := p.parseDottedName()
		var typ ast.TypeExpr
		if p.at(token.COLON) {
			p.advance()
			typ = p.parseType()
		}
		params = append(params, ast.Param{Name: name, Type: typ})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.PIPE)
	body := p.parseExpr()
	return &ast.LambdaExpr{Params: params, Body: body, Span: token.Merge(start, body.Pos())}
}

// ----------------------------------------------------------------------------
// Patterns

func (p *parser) parsePattern() ast.Pattern {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.IDENT:
		if p.cur().Literal == "_" {
			p.advance()
			return &ast.WildcardPattern{Span: start}
		}
		name := p.advance().Literal
		if p.at(token.LPAREN) {
			p.advance()
			var args []ast.Pattern
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				args = append(args, p.parsePattern())
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
			return p.maybeOrPattern(&ast.ConstructorPattern{Name: name, Args: args, Span: token.Merge(start, p.toks[p.pos-1].Span)})
		}
		return p.maybeOrPattern(&ast.BindPattern{Name: name, Span: token.Merge(start, p.toks[p.pos-1].Span)})
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NULL:
		lit := p.parsePrimaryExpr().(*ast.BasicLit)
		return p.maybeOrPattern(&ast.LiteralPattern{Lit: lit, Span: lit.Span})
	case token.LPAREN:
		p.advance()
		var elems []ast.Pattern
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			elems = append(elems, p.parsePattern())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return p.maybeOrPattern(&ast.TuplePattern{Elems: elems, Span: token.Merge(start, p.toks[p.pos-1].Span)})
	default:
		p.errorf(errors.ParseUnexpectedToken, "unexpected token %s in pattern", p.cur())
		p.advance()
		return &ast.WildcardPattern{Span: start}
	}
}

func (p *parser) maybeOrPattern(first ast.Pattern) ast.Pattern {
	if !p.at(token.PIPE) {
		return first
	}
	alts := []ast.Pattern{first}
	for p.at(token.PIPE) {
		p.advance()
		alts = append(alts, p.parsePattern())
	}
	return &ast.OrPattern{Alternatives: alts, Span: token.Merge(first.Pos(), alts[len(alts)-1].Pos())}
}
