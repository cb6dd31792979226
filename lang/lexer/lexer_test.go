package lexer

import (
	"testing"

	"github.com/mna/tamarin/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanAll(t *testing.T) {
	src := `let x = 1 + 2.5
@deco def foo(a, b) {
  return a.b(1, "hi\n") == null
}`
	toks, err := ScanAll(src)
	require.NoError(t, err)

	var kinds []token.Token
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []token.Token{
		token.LET, token.IDENT, token.EQ, token.INT, token.PLUS, token.FLOAT,
		token.AT, token.IDENT, token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.COMMA,
		token.IDENT, token.RPAREN, token.LBRACE,
		token.RETURN, token.IDENT, token.DOT, token.IDENT, token.LPAREN, token.INT,
		token.COMMA, token.STRING, token.RPAREN, token.EQEQ, token.NULL,
		token.RBRACE, token.EOF,
	}, kinds)
}

func TestScanStringEscape(t *testing.T) {
	toks, err := ScanAll(`"a\tb\\c"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\tb\\c", toks[0].Lit)
}

func TestScanNumberBases(t *testing.T) {
	toks, err := ScanAll("0x1F 0b101 42 3.14")
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, 16, toks[0].Base)
	assert.Equal(t, "0x1F", toks[0].Lit)
	assert.Equal(t, 2, toks[1].Base)
	assert.Equal(t, 10, toks[2].Base)
	assert.Equal(t, token.FLOAT, toks[3].Kind)
}

func TestScanError(t *testing.T) {
	_, err := ScanAll(`"unterminated`)
	require.Error(t, err)
}
