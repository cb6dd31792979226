package compiler

import (
	"github.com/mna/tamarin/lang/ast"
	"github.com/mna/tamarin/lang/rt"
	"github.com/mna/tamarin/lang/token"
)

// compileExpr lowers one expression, leaving exactly one Value on the
// operand stack (spec.md §4.2 "Expression lowering").
func (c *Compiler) compileExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.IntLit:
		return c.compileConstant(rt.Int(int32(n.Value)), posLine(n.Start))
	case *ast.FloatLit:
		return c.compileConstant(rt.Float(n.Value), posLine(n.Start))
	case *ast.StringLit:
		so := c.vm.Alloc.InternString(n.Value)
		return c.compileConstant(rt.ObjectOf(&so.ObjectHeader), posLine(n.Start))
	case *ast.BoolLit:
		line := posLine(n.Start)
		if n.Value {
			c.chunk.EmitOp(rt.OpTrue, line)
		} else {
			c.chunk.EmitOp(rt.OpFalse, line)
		}
		return nil
	case *ast.NullLit:
		c.chunk.EmitOp(rt.OpNull, posLine(n.Start))
		return nil
	case *ast.Ident:
		return c.compileVariableGet(n.Name, posLine(n.Start))
	case *ast.SuperExpr:
		return c.compileSuperExpr(n)
	case *ast.MemberExpr:
		if err := c.compileExpr(n.Recv); err != nil {
			return err
		}
		idx, err := c.internLiteral(n.Name.Name)
		if err != nil {
			return err
		}
		line := posLine(n.Dot)
		c.chunk.EmitOp(rt.OpGetMember, line)
		c.chunk.EmitU16(idx, line)
		return nil
	case *ast.CallExpr:
		return c.compileCallExpr(n)
	case *ast.BinaryExpr:
		return c.compileBinaryExpr(n)
	case *ast.AssignExpr:
		return c.compileAssignExpr(n)
	case *ast.FuncLit:
		return c.compileFuncLit(n, "")
	case *ast.UnaryExpr:
		start, _ := n.Span()
		return errf(start, "unary operator %s is not supported", n.Op)
	default:
		start, _ := e.Span()
		return errf(start, "unsupported expression node %T", e)
	}
}

func (c *Compiler) compileConstant(v rt.Value, line int) error {
	idx, err := c.addLiteral(v)
	if err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpConstant, line)
	c.chunk.EmitU16(idx, line)
	return nil
}

// compileSuperExpr lowers `super.name`: push this, push super (a lexical
// binding established by compileClassDecl), emit GetSuper name
// (spec.md §4.2 "super.name").
func (c *Compiler) compileSuperExpr(n *ast.SuperExpr) error {
	line := posLine(n.Super)
	if err := c.compileVariableGet("this", line); err != nil {
		return err
	}
	if err := c.compileVariableGet("super", line); err != nil {
		return err
	}
	idx, err := c.internLiteral(n.Name.Name)
	if err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpGetSuper, line)
	c.chunk.EmitU16(idx, line)
	return nil
}

// compileCallExpr lowers both receiver-form Invoke calls and generic Call
// expressions (spec.md §4.2 "Call").
func (c *Compiler) compileCallExpr(n *ast.CallExpr) error {
	if n.Recv != nil {
		if err := c.compileExpr(n.Recv); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		idx, err := c.internLiteral(n.Name.Name)
		if err != nil {
			return err
		}
		line := posLine(n.Lparen)
		c.chunk.EmitOp(rt.OpInvoke, line)
		c.chunk.EmitU16(idx, line)
		c.chunk.EmitByte(byte(len(n.Args)), line)
		return nil
	}
	if err := c.compileExpr(n.Callee); err != nil {
		return err
	}
	for _, a := range n.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	line := posLine(n.Lparen)
	c.chunk.EmitOp(rt.OpCall, line)
	c.chunk.EmitByte(byte(len(n.Args)), line)
	return nil
}

// compileBinaryExpr lowers Plus/Minus/Multiply/Divide/Equals/LessThan/
// GreaterThan as compile-lhs, compile-rhs, emit-opcode, and And/Or as
// short-circuiting jumps (spec.md §4.2 "Binary").
func (c *Compiler) compileBinaryExpr(n *ast.BinaryExpr) error {
	if !token.IsBinaryOp(n.Op) {
		start, _ := n.Span()
		return errf(start, "unsupported binary operator %s", n.Op)
	}
	line := posLine(n.OpPos)
	switch n.Op {
	case token.AND, token.ANDAND:
		if err := c.compileExpr(n.Left); err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpJumpIfFalse, line)
		endJump := c.emitJumpPlaceholder(line)
		c.chunk.EmitOp(rt.OpPop, line)
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		return c.patchJump(endJump)
	case token.OR, token.OROR:
		if err := c.compileExpr(n.Left); err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpJumpIfFalse, line)
		elseJump := c.emitJumpPlaceholder(line)
		c.chunk.EmitOp(rt.OpJump, line)
		endJump := c.emitJumpPlaceholder(line)
		if err := c.patchJump(elseJump); err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpPop, line)
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		return c.patchJump(endJump)
	}

	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}
	switch n.Op {
	case token.PLUS:
		c.chunk.EmitOp(rt.OpAdd, line)
	case token.MINUS:
		c.chunk.EmitOp(rt.OpSub, line)
	case token.STAR:
		c.chunk.EmitOp(rt.OpMul, line)
	case token.SLASH:
		c.chunk.EmitOp(rt.OpDiv, line)
	case token.EQEQ:
		c.chunk.EmitOp(rt.OpEqual, line)
	case token.LT:
		c.chunk.EmitOp(rt.OpLessThan, line)
	case token.GT:
		c.chunk.EmitOp(rt.OpGreaterThan, line)
	}
	return nil
}

// compileAssignExpr lowers `target = value` (spec.md §4.2 "Assignment"):
// compile rhs, then dispatch on the target kind. Assignment leaves the
// rhs value on the stack, matching SetGlobal/SetMember's no-pop
// convention.
func (c *Compiler) compileAssignExpr(n *ast.AssignExpr) error {
	if !ast.IsAssignable(n.Target) {
		start, _ := n.Target.Span()
		return errf(start, "invalid assignment target")
	}
	line := posLine(n.Eq)
	switch t := n.Target.(type) {
	case *ast.Ident:
		if err := c.compileExpr(n.Value); err != nil {
			return err
		}
		return c.compileVariableSet(t.Name, line)
	case *ast.MemberExpr:
		if err := c.compileExpr(n.Value); err != nil {
			return err
		}
		if err := c.compileExpr(t.Recv); err != nil {
			return err
		}
		idx, err := c.internLiteral(t.Name.Name)
		if err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpSetMember, line)
		c.chunk.EmitU16(idx, line)
		return nil
	default:
		start, _ := n.Target.Span()
		return errf(start, "invalid assignment target")
	}
}

// emitJumpPlaceholder emits a reserved u16 operand for a jump just
// written, returning its offset for a later patchJump.
func (c *Compiler) emitJumpPlaceholder(line int) int {
	return c.chunk.EmitU16(0xFFFF, line)
}

// patchJump fixes up the u16 at off to the distance from just after the
// operand to the current end of the chunk (spec.md §4.3: "forward/backward
// byte offset relative to just after the operand").
func (c *Compiler) patchJump(off int) error {
	dist := len(c.chunk.Code) - (off + 2)
	if err := c.chunk.PatchU16(off, uint32(dist)); err != nil {
		return noPosErrf("jump offset overflow")
	}
	return nil
}
