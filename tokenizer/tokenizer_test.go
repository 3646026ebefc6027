package tokenizer

import (
	"testing"

	"github.com/MasterFire41604/reactive-spreadsheet/token"
)

func literals(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Literal
	}
	return out
}

func TestTokensBasic(t *testing.T) {
	toks := Tokens("(1 + x2) * 3.5")
	want := []token.Type{
		token.LPAREN, token.NUM, token.PLUS, token.VAR, token.RPAREN,
		token.STAR, token.NUM,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), literals(toks))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestAdjacentIdentifierAndNumberAreDistinct(t *testing.T) {
	toks := Tokens("x 23")
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2: %v", len(toks), literals(toks))
	}
	if toks[0].Type != token.VAR || toks[0].Literal != "x" {
		t.Errorf("token 0 = %+v, want VAR x", toks[0])
	}
	if toks[1].Type != token.NUM || toks[1].Literal != "23" {
		t.Errorf("token 1 = %+v, want NUM 23", toks[1])
	}
}

func TestScientificNotation(t *testing.T) {
	for _, lit := range []string{"6.6e-3", "1E+5", "2e10", ".5", "5."} {
		toks := Tokens(lit)
		if len(toks) != 1 || toks[0].Type != token.NUM || toks[0].Literal != lit {
			t.Errorf("Tokens(%q) = %v, want single NUM token", lit, toks)
		}
	}
}

func TestUnknownCharacterProducesIllegal(t *testing.T) {
	toks := Tokens("1 & 2")
	if len(toks) != 3 || toks[1].Type != token.ILLEGAL || toks[1].Literal != "&" {
		t.Fatalf("Tokens(\"1 & 2\") = %v, want ILLEGAL for '&'", toks)
	}
}

func TestWhitespaceDropped(t *testing.T) {
	a := Tokens("1+2")
	b := Tokens("  1  +  2  ")
	if len(a) != len(b) {
		t.Fatalf("whitespace changed token count: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
