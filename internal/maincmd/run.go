package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/tamarin/lang/compiler"
	"github.com/mna/tamarin/lang/natives"
	"github.com/mna/tamarin/lang/parser"
	"github.com/mna/tamarin/lang/rt"
)

// Run parses, compiles and executes each file in turn, on a fresh VM per
// file. Anything the script passes to print() goes to stdio.Stdout; the
// top-level return value (spec.md §4.4 "Top-level return") is reported on
// stdio.Stdout after the script finishes.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
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
		natives.Install(vm)
		fc, err := compiler.Compile(vm, f, chunk)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", f, err)
			return err
		}
		result, err := vm.Run(fc)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", f, err)
			return err
		}
		fmt.Fprintf(stdio.Stdout, "%s: process result %d\n", f, result)
	}
	return nil
}
