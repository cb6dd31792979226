// Package compiler walks an *ast.Chunk and emits the bytecode, literal
// pool, and debug-location map described by lang/rt.Chunk. It is the
// single-pass, nested compiler of spec.md §4.2: each function body gets
// its own Compiler linked to the one compiling its enclosing scope, which
// is how upvalue resolution walks outward without a separate resolver
// pass.
package compiler

import (
	"fmt"

	"github.com/mna/tamarin/lang/ast"
	"github.com/mna/tamarin/lang/rt"
	"github.com/mna/tamarin/lang/token"
)

// Error is a compile-time error with a source position (spec.md §7
// "Compile error").
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

func errf(pos token.Pos, format string, args ...interface{}) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// localVar is the compiler's record for one declared local (spec.md §4.2
// "LocalVar"): its name, the scope depth it was declared at (-1 while
// uninitialized), and whether any nested function captures it.
type localVar struct {
	name     string
	depth    int
	captured bool
}

// upvarRec is the compiler's record for one upvalue a nested function
// needs resolved from this function's locals or its own upvalues
// (spec.md §4.2 "UpVar").
type upvarRec struct {
	index   uint16
	isLocal bool
}

// Compiler compiles a single function body (or the top-level chunk) into
// an *rt.FunctionCode. Nested function literals get their own Compiler
// with Enclosing set to this one.
type Compiler struct {
	vm        *rt.VM
	enclosing *Compiler

	fn    *rt.FunctionCode
	chunk *rt.Chunk

	locals     []localVar
	upvalues   []upvarRec
	scopeDepth int
}

// Compile compiles a top-level chunk into its FunctionCode, ready for
// rt.VM.Run. It installs itself as an additional GC root source for the
// duration of compilation (spec.md §4.5: "every enclosing Compiler's
// in-progress FunctionCode"), since a FunctionCode under construction is
// reachable only through the compiler chain until CloseFunction pushes it
// onto the operand stack.
func Compile(vm *rt.VM, name string, chunk *ast.Chunk) (*rt.FunctionCode, error) {
	c := newCompiler(vm, nil, name, 0)
	vm.SetCompilerRoots(c.markRoots)
	defer vm.SetCompilerRoots(nil)

	for _, stmt := range chunk.Block.Stmts {
		if err := c.compileStmt(stmt); err != nil {
			return nil, err
		}
	}
	c.emitReturnNull(chunk.EOF)
	return c.fn, nil
}

func newCompiler(vm *rt.VM, enclosing *Compiler, name string, arity int) *Compiler {
	// The top-level chunk's FunctionCode is unnamed (Name nil).
	var nameObj *rt.StringObj
	if enclosing != nil {
		nameObj = vm.Alloc.InternString(name)
	}
	fn := vm.Alloc.NewFunctionCode(nameObj, arity)
	c := &Compiler{vm: vm, enclosing: enclosing, fn: fn, chunk: fn.Chunk}
	// Sentinel slot 0, keeping the function itself addressable at local
	// index 0 (spec.md §4.2).
	c.locals = append(c.locals, localVar{name: "", depth: 0})
	return c
}

// markRoots walks the enclosing chain, marking every in-progress
// FunctionCode (spec.md §4.5).
func (c *Compiler) markRoots(mark func(rt.Value)) {
	for cc := c; cc != nil; cc = cc.enclosing {
		mark(rt.ObjectOf(&cc.fn.ObjectHeader))
	}
}

func (c *Compiler) emitReturnNull(pos token.Pos) {
	line, _ := pos.LineCol()
	c.chunk.EmitOp(rt.OpNull, line)
	c.chunk.EmitOp(rt.OpReturn, line)
}

// internLiteral interns name as a String and adds it to the literal pool,
// protecting the fresh Value across the allocation (spec.md §4.1 "Emit
// with literal").
func (c *Compiler) internLiteral(name string) (uint16, error) {
	so := c.vm.Alloc.InternString(name)
	return c.addLiteral(rt.ObjectOf(&so.ObjectHeader))
}

func (c *Compiler) addLiteral(v rt.Value) (uint16, error) {
	c.vm.Protect(v)
	idx, err := c.chunk.AddLiteral(v)
	c.vm.Unprotect()
	return idx, err
}

func posLine(p token.Pos) int { l, _ := p.LineCol(); return l }
