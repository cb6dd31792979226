package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/tamarin/lang/compiler"
	"github.com/mna/tamarin/lang/parser"
	"github.com/mna/tamarin/lang/rt"
)

// Compile parses and compiles each file, printing the bytecode dump.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := readFiles(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	for _, f := range args {
		chunk, err := parser.ParseString(f, srcs[f])
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", f, err)
			return err
		}
		vm := rt.New(stdio.Stdout)
		fc, err := compiler.Compile(vm, f, chunk)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", f, err)
			return err
		}
		rt.Dump(stdio.Stdout, fc, f)
	}
	return nil
}

// Disasm is an alias of Compile (spec.md §6 debug bytecode dump).
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return c.Compile(ctx, stdio, args)
}
