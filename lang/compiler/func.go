package compiler

import (
	"github.com/mna/tamarin/lang/ast"
	"github.com/mna/tamarin/lang/rt"
)

// compileFuncDecl lowers a named function declaration: the variable is
// declared and marked initialized *before* the body is compiled, so the
// function can call itself by name, then the literal is compiled and the
// variable defined (spec.md §4.2 "Function declaration").
func (c *Compiler) compileFuncDecl(n *ast.FuncDeclStmt) error {
	line := posLine(n.Def)
	if err := c.declareLocal(n.Name.Name); err != nil {
		return err
	}
	c.markInitialized()
	if err := c.compileFuncLit(n.Fn, n.Name.Name); err != nil {
		return err
	}
	return c.defineVariable(n.Name.Name, line)
}

// compileFuncLit lowers a function literal and its decorators
// (spec.md §4.2 "Function literals and decorators"): decorators are
// compiled left-to-right in the *parent* compiler before the function
// itself; the body is compiled in a fresh child Compiler with parameters
// declared as locals in slots 1..=arity; the child emits a trailing
// `Null; Return` safety net; the parent then emits
// `CloseFunction` plus the upvalue descriptor bytes, and finally applies
// the decorators in reverse source order (innermost first) via `Call 1`.
func (c *Compiler) compileFuncLit(n *ast.FuncLit, name string) error {
	for _, d := range n.Decorators {
		if err := c.compileExpr(d); err != nil {
			return err
		}
	}

	child := newCompiler(c.vm, c, name, len(n.Params))
	c.vm.SetCompilerRoots(child.markRoots)
	child.scopeDepth = 1
	for _, p := range n.Params {
		if err := child.declareLocal(p.Name); err != nil {
			return err
		}
		child.markInitialized()
	}
	for _, s := range n.Body.Stmts {
		if err := child.compileStmt(s); err != nil {
			return err
		}
	}
	child.emitReturnNull(n.End)

	idx, err := c.addLiteral(rt.ObjectOf(&child.fn.ObjectHeader))
	c.vm.SetCompilerRoots(c.markRoots)
	if err != nil {
		return err
	}
	line := posLine(n.Fn)
	c.chunk.EmitOp(rt.OpCloseFunction, line)
	c.chunk.EmitU16(idx, line)
	for _, u := range child.upvalues {
		var isLocalByte byte
		if u.isLocal {
			isLocalByte = 1
		}
		c.chunk.EmitByte(isLocalByte, line)
		c.chunk.EmitU16(u.index, line)
	}

	for range n.Decorators {
		c.chunk.EmitOp(rt.OpCall, line)
		c.chunk.EmitByte(1, line)
	}
	return nil
}

// compileClassDecl lowers a class declaration, with an optional
// superclass and its methods (spec.md §4.2 "Class"). Method decorators,
// if any, are handled by compileFuncLit exactly as for a top-level
// function.
func (c *Compiler) compileClassDecl(n *ast.ClassDeclStmt) error {
	line := posLine(n.Class)
	if err := c.declareLocal(n.Name.Name); err != nil {
		return err
	}

	nameIdx, err := c.internLiteral(n.Name.Name)
	if err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpClass, line)
	c.chunk.EmitU16(nameIdx, line)

	if err := c.defineVariable(n.Name.Name, line); err != nil {
		return err
	}

	hasSuper := n.SuperName != nil
	if hasSuper {
		if n.SuperName.Name == n.Name.Name {
			start, _ := n.SuperName.Span()
			return errf(start, "class %s cannot inherit from itself", n.Name.Name)
		}
		if err := c.compileVariableGet(n.SuperName.Name, line); err != nil {
			return err
		}
		c.beginScope()
		if err := c.declareLocal("super"); err != nil {
			return err
		}
		c.markInitialized()
		if err := c.compileVariableGet(n.Name.Name, line); err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpInherit, line)
	}

	if err := c.compileVariableGet(n.Name.Name, line); err != nil {
		return err
	}
	for _, m := range n.Methods {
		if err := c.compileFuncLit(m.Fn, m.Name.Name); err != nil {
			return err
		}
		midx, err := c.internLiteral(m.Name.Name)
		if err != nil {
			return err
		}
		mline := posLine(m.Name.Start)
		c.chunk.EmitOp(rt.OpAttachMethod, mline)
		c.chunk.EmitU16(midx, mline)
	}
	c.chunk.EmitOp(rt.OpPop, line)

	if hasSuper {
		c.endScope(line)
	}
	return nil
}
