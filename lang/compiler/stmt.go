package compiler

import (
	"github.com/mna/tamarin/lang/ast"
	"github.com/mna/tamarin/lang/rt"
)

// compileStmt lowers one statement (spec.md §4.2 "Statement lowering").
func (c *Compiler) compileStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.ExprStmt:
		if err := c.compileExpr(n.X); err != nil {
			return err
		}
		_, end := n.X.Span()
		c.chunk.EmitOp(rt.OpPop, posLine(end))
		return nil
	case *ast.VarDeclStmt:
		return c.compileVarDecl(n)
	case *ast.FuncDeclStmt:
		return c.compileFuncDecl(n)
	case *ast.ClassDeclStmt:
		return c.compileClassDecl(n)
	case *ast.IfStmt:
		return c.compileIf(n)
	case *ast.WhileStmt:
		return c.compileWhile(n)
	case *ast.ForStmt:
		return c.compileFor(n)
	case *ast.ReturnStmt:
		return c.compileReturn(n)
	case *ast.Block:
		return c.compileBlock(n)
	default:
		start, _ := s.Span()
		return errf(start, "unsupported statement node %T", s)
	}
}

func (c *Compiler) compileBlock(b *ast.Block) error {
	c.beginScope()
	for _, s := range b.Stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	c.endScope(posLine(b.Rbrace))
	return nil
}

// compileVarDecl lowers `let name = init` (spec.md §4.2 "Var decl"):
// declare the local (still uninitialized), compile the initializer (or
// push Null), then define it.
func (c *Compiler) compileVarDecl(n *ast.VarDeclStmt) error {
	line := posLine(n.Let)
	if err := c.declareLocal(n.Name.Name); err != nil {
		return err
	}
	if n.Init != nil {
		if err := c.compileExpr(n.Init); err != nil {
			return err
		}
	} else {
		c.chunk.EmitOp(rt.OpNull, line)
	}
	return c.defineVariable(n.Name.Name, line)
}

// compileIf lowers if/else-if/else chaining (spec.md §4.2 "If").
func (c *Compiler) compileIf(n *ast.IfStmt) error {
	line := posLine(n.If)
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpJumpIfFalse, line)
	thenSkip := c.emitJumpPlaceholder(line)
	c.chunk.EmitOp(rt.OpPop, line)
	if err := c.compileBlock(n.Then); err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpJump, line)
	endJump := c.emitJumpPlaceholder(line)
	if err := c.patchJump(thenSkip); err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpPop, line)
	if n.Else != nil {
		switch e := n.Else.(type) {
		case *ast.IfStmt:
			if err := c.compileIf(e); err != nil {
				return err
			}
		default:
			if err := c.compileStmt(n.Else); err != nil {
				return err
			}
		}
	}
	return c.patchJump(endJump)
}

// compileWhile lowers a while loop (spec.md §4.2 "While").
func (c *Compiler) compileWhile(n *ast.WhileStmt) error {
	line := posLine(n.While)
	start := len(c.chunk.Code)
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpJumpIfFalse, line)
	exitJump := c.emitJumpPlaceholder(line)
	c.chunk.EmitOp(rt.OpPop, line)
	if err := c.compileBlock(n.Body); err != nil {
		return err
	}
	if err := c.emitLoop(start, line); err != nil {
		return err
	}
	if err := c.patchJump(exitJump); err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpPop, line)
	return nil
}

// compileFor lowers a C-style for loop, each clause optional
// (spec.md §4.2 "For"): a fresh scope wraps the whole statement so a
// `let`-init's variable is visible to cond/step/body and discarded after.
func (c *Compiler) compileFor(n *ast.ForStmt) error {
	line := posLine(n.For)
	c.beginScope()
	if n.Init != nil {
		if err := c.compileStmt(n.Init); err != nil {
			return err
		}
	}
	start := len(c.chunk.Code)
	var exitJump int
	hasExit := n.Cond != nil
	if hasExit {
		if err := c.compileExpr(n.Cond); err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpJumpIfFalse, line)
		exitJump = c.emitJumpPlaceholder(line)
		c.chunk.EmitOp(rt.OpPop, line)
	}
	if err := c.compileBlock(n.Body); err != nil {
		return err
	}
	if n.Step != nil {
		if err := c.compileStmt(n.Step); err != nil {
			return err
		}
	}
	if err := c.emitLoop(start, line); err != nil {
		return err
	}
	if hasExit {
		if err := c.patchJump(exitJump); err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpPop, line)
	}
	c.endScope(line)
	return nil
}

// emitLoop emits Loop with the backward offset to start (spec.md §4.3:
// "Loop subtracts its operand from ip").
func (c *Compiler) emitLoop(start, line int) error {
	c.chunk.EmitOp(rt.OpLoop, line)
	off := len(c.chunk.Code)
	dist := off + 2 - start
	if dist > 0xFFFF {
		return noPosErrf("loop offset overflow")
	}
	c.chunk.EmitU16(uint16(dist), line)
	return nil
}

// compileReturn lowers return/implicit-null-return (spec.md §4.2
// "Return").
func (c *Compiler) compileReturn(n *ast.ReturnStmt) error {
	line := posLine(n.Return)
	if n.Value != nil {
		if err := c.compileExpr(n.Value); err != nil {
			return err
		}
	} else {
		c.chunk.EmitOp(rt.OpNull, line)
	}
	c.chunk.EmitOp(rt.OpReturn, line)
	return nil
}
