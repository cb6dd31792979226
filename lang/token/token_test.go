package token

import "testing"

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		if tok.String() == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestLookup(t *testing.T) {
	for tok := AND; tok < maxToken; tok++ {
		if got := Lookup(tokenNames[tok]); got != tok {
			t.Errorf("Lookup(%q) = %v, want %v", tokenNames[tok], got, tok)
		}
	}
	if got := Lookup("notakeyword"); got != IDENT {
		t.Errorf("Lookup(notakeyword) = %v, want IDENT", got)
	}
}

func TestIsBinaryOp(t *testing.T) {
	want := map[Token]bool{
		PLUS: true, MINUS: true, STAR: true, SLASH: true,
		EQEQ: true, LT: true, GT: true,
		AND: true, ANDAND: true, OR: true, OROR: true,
		EQ: false, DOT: false, IDENT: false, RETURN: false,
	}
	for tok, expect := range want {
		if got := IsBinaryOp(tok); got != expect {
			t.Errorf("IsBinaryOp(%v) = %v, want %v", tok, got, expect)
		}
	}
}
