// Package token defines the lexical tokens and source positions shared by
// the lexer, parser, compiler and VM.
package token

import "fmt"

const (
	lineBits = 32

	// MaxLines is the maximum 1-based line number a Pos can encode.
	MaxLines = (1 << lineBits) - 1
	// MaxCols is the maximum 1-based column number a Pos can encode.
	MaxCols = (1 << lineBits) - 1
)

// Pos is an efficient encoding of a 1-based line and column position. A
// value of 0 for either line or column should be interpreted as "unknown".
// Unlike the position of a full multi-file front end, tamarin only ever
// compiles a single chunk at a time, so Pos needs no file index.
type Pos uint64

// NoPos is the zero value of Pos, meaning "unknown position".
const NoPos = Pos(0)

// MakePos creates a Pos value encoding the provided line and column. It is
// the caller's responsibility to ensure the values are > 0 and within the
// maximums above.
func MakePos(line, col int) Pos {
	return Pos(uint64(uint32(col)) | uint64(uint32(line))<<lineBits)
}

// LineCol returns the line and column values encoded in p.
func (p Pos) LineCol() (line, col int) {
	return int(uint32(p >> lineBits)), int(uint32(p))
}

// Unknown returns true if either the line or column value is unknown.
func (p Pos) Unknown() bool {
	l, c := p.LineCol()
	return l == 0 || c == 0
}

func (p Pos) String() string {
	l, c := p.LineCol()
	return fmt.Sprintf("%d:%d", l, c)
}

// A Span is a pair of Pos values delimiting a range in the source text. Every
// AST node and every compiled instruction carries a Span so that both
// compile-time and runtime errors can point at the offending source text.
type Span struct {
	Start, End Pos
}

// Spanner is implemented by anything with a source span, notably every AST
// node.
type Spanner interface {
	Span() (start, end Pos)
}
