package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{3, 14},
		{1000, 1},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		assert.Equal(t, c.line, gotLine)
		assert.Equal(t, c.col, gotCol)
		assert.False(t, p.Unknown())
	}
}

func TestPosUnknown(t *testing.T) {
	assert.True(t, NoPos.Unknown())
	assert.True(t, MakePos(0, 3).Unknown())
	assert.True(t, MakePos(3, 0).Unknown())
}
