package scanner

import (
	"testing"

	"github.com/univrs/dol/token"
)

func scanAll(src string) []token.Token {
	var s Scanner
	s.Init("test.dol", []byte(src))
	var toks []token.Token
	for {
		t := s.Scan()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestDottedIdentifier(t *testing.T) {
	toks := scanAll("container.exists")
	if len(toks) != 2 || toks[0].Kind != token.IDENT || toks[0].Literal != "container.exists" {
		t.Fatalf("got %v", toks)
	}
}

func TestTrailingDotRollsBack(t *testing.T) {
	toks := scanAll("container. ")
	if toks[0].Kind != token.IDENT || toks[0].Literal != "container" {
		t.Fatalf("expected bare identifier, got %v", toks[0])
	}
	if toks[1].Kind != token.DOT {
		t.Fatalf("expected dot token next, got %v", toks[1])
	}
}

func TestKeyword(t *testing.T) {
	toks := scanAll("gen has")
	if toks[0].Kind != token.GEN || toks[1].Kind != token.HAS {
		t.Fatalf("got %v", toks)
	}
}

func TestVersion(t *testing.T) {
	toks := scanAll("1.2.3")
	if toks[0].Kind != token.VERSION || toks[0].Literal != "1.2.3" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestVersionWithSuffix(t *testing.T) {
	toks := scanAll("1.2.3-beta")
	if toks[0].Kind != token.VERSION || toks[0].Literal != "1.2.3-beta" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestFloatVsVersion(t *testing.T) {
	toks := scanAll("1.5")
	if toks[0].Kind != token.FLOAT || toks[0].Literal != "1.5" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestStringEscapes(t *testing.T) {
	toks := scanAll(`"a\nb\tc\\d\"e"`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("got %v", toks[0])
	}
	want := "a\nb\tc\\d\"e"
	if toks[0].Literal != want {
		t.Fatalf("got %q want %q", toks[0].Literal, want)
	}
}

func TestInvalidEscapeRecovers(t *testing.T) {
	var s Scanner
	s.Init("t.dol", []byte(`"a\qb"`))
	tok := s.Scan()
	if tok.Kind != token.STRING {
		t.Fatalf("expected STRING despite invalid escape, got %v", tok)
	}
	if len(s.Errors().All()) != 1 {
		t.Fatalf("expected one recorded error, got %d", len(s.Errors().All()))
	}
	next := s.Scan()
	if next.Kind != token.EOF {
		t.Fatalf("scanner should continue after recovery, got %v", next)
	}
}

func TestUnterminatedString(t *testing.T) {
	var s Scanner
	s.Init("t.dol", []byte("\"abc\ndef\""))
	s.Scan()
	if len(s.Errors().All()) == 0 {
		t.Fatalf("expected unterminated string error")
	}
}

func TestOperators(t *testing.T) {
	toks := scanAll("{ } @ = == != > >= < <= -> => . , : ; / + - * % ^ ~ ? && ||")
	wantKinds := []token.Kind{
		token.LBRACE, token.RBRACE, token.AT, token.ASSIGN, token.EQ, token.NEQ,
		token.GT, token.GE, token.LT, token.LE, token.ARROW, token.FATARROW,
		token.DOT, token.COMMA, token.COLON, token.SEMI, token.SLASH, token.PLUS,
		token.MINUS, token.STAR, token.PERCENT, token.CARET, token.TILDE,
		token.QUESTION, token.AND, token.OR, token.EOF,
	}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v want %v", i, toks[i].Kind, k)
		}
	}
}

func TestComment(t *testing.T) {
	toks := scanAll("gen // a comment\nhas")
	if toks[0].Kind != token.GEN || toks[1].Kind != token.HAS {
		t.Fatalf("got %v", toks)
	}
}

func TestNeverPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("scanner panicked: %v", r)
		}
	}()
	scanAll("\x00\x01 \xff\xfe gen 1.2.3.4 \"unterminated")
}

func TestRoundTripCoversSource(t *testing.T) {
	// Property 1 (spec.md 8): concatenating token lexemes, with
	// whitespace restored by position, covers the source with no gaps
	// outside skipped whitespace/comments.
	src := "gen a.b { a has x }\nexegesis { y }"
	var s Scanner
	s.Init("t.dol", []byte(src))
	lastEnd := 0
	for {
		tok := s.Scan()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Span.Start.Offset < lastEnd {
			t.Fatalf("token overlaps previous end: %v", tok)
		}
		lastEnd = tok.Span.End.Offset
	}
}
