package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer controls pretty-printing of a parsed Chunk, one indented line
// per node, adapted from the teacher's depth-tracking AST printer to this
// package's simpler single-file Visitor contract (no VisitDirection, no
// comment attachment).
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer
	// WithPos includes each node's source span in the output.
	WithPos bool
}

// Print pretty-prints n and its descendants, one line per node, indented
// by nesting depth.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, withPos: p.WithPos}
	pp.print(n, 0)
	return pp.err
}

type printer struct {
	w       io.Writer
	withPos bool
	err     error
}

func (p *printer) print(n Node, depth int) {
	if n == nil || p.err != nil {
		return
	}
	indent := strings.Repeat(". ", depth)
	if p.withPos {
		start, end := n.Span()
		_, p.err = fmt.Fprintf(p.w, "%s[%s:%s] %T\n", indent, start, end, n)
	} else {
		_, p.err = fmt.Fprintf(p.w, "%s%T\n", indent, n)
	}
	if p.err != nil {
		return
	}
	n.Walk(VisitorFunc(func(child Node) Visitor {
		p.print(child, depth+1)
		return nil // print recurses itself; Walk need not descend further
	}))
}
