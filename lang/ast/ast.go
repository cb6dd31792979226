// Package ast defines the abstract syntax tree consumed, read-only, by the
// compiler. The lexer and parser that build it are peripheral to this
// repository's core (spec.md §1): nothing in the compiler, VM or GC depends
// on how a Node was produced, only on the shape described here.
package ast

import "github.com/mna/tamarin/lang/token"

// Node is any node of the AST.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
	// Walk visits the node's direct children, in source order.
	Walk(v Visitor)
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Chunk is the root of a parsed source file: a single top-level block.
type Chunk struct {
	Name  string // filename, may be empty
	Block *Block
	EOF   token.Pos
}

func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

// Block is a brace-delimited sequence of statements.
type Block struct {
	Lbrace token.Pos // unknown if this is the implicit top-level block
	Stmts  []Stmt
	Rbrace token.Pos
}

func (n *Block) Span() (start, end token.Pos) {
	start, end = n.Lbrace, n.Rbrace
	if len(n.Stmts) > 0 {
		if start.Unknown() {
			start, _ = n.Stmts[0].Span()
		}
		if end.Unknown() {
			_, end = n.Stmts[len(n.Stmts)-1].Span()
		}
	}
	return start, end
}
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// stmt makes *Block a Stmt, so it can appear directly as an IfStmt's Else
// (a bare `else { ... }`, as opposed to `else if ...`).
func (n *Block) stmt() {}
