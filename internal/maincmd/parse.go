package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/tamarin/lang/ast"
	"github.com/mna/tamarin/lang/parser"
)

// Parse runs the parser over each file and prints the resulting AST.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := readFiles(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	printer := ast.Printer{Output: stdio.Stdout, WithPos: c.WithPos}
	for _, f := range args {
		chunk, err := parser.ParseString(f, srcs[f])
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", f, err)
			return err
		}
		if err := printer.Print(chunk); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return nil
}
