package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/tamarin/lang/lexer"
)

// Tokenize runs the scanner over each file and prints its tokens.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := readFiles(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	for _, f := range args {
		toks, err := lexer.ScanAll(srcs[f])
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tok.Pos, tok.Kind)
			if tok.Lit != "" {
				fmt.Fprintf(stdio.Stdout, " %q", tok.Lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", f, err)
			return err
		}
	}
	return nil
}
