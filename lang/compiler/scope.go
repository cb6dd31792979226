package compiler

import (
	"github.com/mna/tamarin/lang/rt"
	"github.com/mna/tamarin/lang/token"
)

const maxLocals = 1 << 16

// noPosErrf builds a compile Error without a specific source position
// (token.NoPos); the name-resolution helpers below report their errors
// through it.
func noPosErrf(format string, args ...interface{}) error { return errf(token.NoPos, format, args...) }

// beginScope increments scopeDepth (spec.md §4.2).
func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops every local whose depth exceeds the new depth, emitting
// CloseUpvalue for locals captured by a nested function and Pop for
// everything else (spec.md §4.2 "end_scope").
func (c *Compiler) endScope(line int) {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		l := c.locals[len(c.locals)-1]
		if l.captured {
			c.chunk.EmitOp(rt.OpCloseUpvalue, line)
		} else {
			c.chunk.EmitOp(rt.OpPop, line)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// declareLocal adds name as an uninitialized local (depth -1) in the
// current scope. At scope depth 0 this is a no-op: globals have no local
// slot.
func (c *Compiler) declareLocal(name string) error {
	if c.scopeDepth == 0 {
		return nil
	}
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name == name {
			return noPosErrf("%q already declared in this scope", name)
		}
	}
	if len(c.locals) >= maxLocals {
		return noPosErrf("too many locals in function %s", c.displayName())
	}
	c.locals = append(c.locals, localVar{name: name, depth: -1})
	return nil
}

func (c *Compiler) displayName() string {
	if c.fn.Name != nil && c.fn.Name.Bytes != "" {
		return c.fn.Name.Bytes
	}
	return "<top>"
}

// markInitialized flips the most recently declared local from
// uninitialized (-1) to the current scope depth.
func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 || len(c.locals) == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// resolveLocal walks this compiler's locals innermost-first, returning the
// slot index (spec.md §4.2 step 1). A local found with depth == -1 is a
// use-before-init error.
func (c *Compiler) resolveLocal(name string) (int, error, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				return 0, noPosErrf("cannot use local %q in its own initializer", name), true
			}
			return i, nil, true
		}
	}
	return 0, nil, false
}

// resolveUpvalue recurses into enclosing compilers (spec.md §4.2 step 2):
// if an enclosing compiler has the name as a local, mark that local
// captured and record a local-indexed UpVar; if an enclosing compiler
// resolves it as an upvalue of its own, record a non-local UpVar chaining
// through it.
func (c *Compiler) resolveUpvalue(name string) (int, error, bool) {
	if c.enclosing == nil {
		return 0, nil, false
	}
	if idx, err, found := c.enclosing.resolveLocal(name); found {
		if err != nil {
			return 0, err, true
		}
		c.enclosing.locals[idx].captured = true
		return c.addUpvalue(uint16(idx), true), nil, true
	}
	if idx, err, found := c.enclosing.resolveUpvalue(name); found {
		if err != nil {
			return 0, err, true
		}
		return c.addUpvalue(uint16(idx), false), nil, true
	}
	return 0, nil, false
}

// addUpvalue dedups against any existing identical UpVar, mirroring the
// Chunk.AddLiteral dedup policy.
func (c *Compiler) addUpvalue(index uint16, isLocal bool) int {
	for i, u := range c.upvalues {
		if u.index == index && u.isLocal == isLocal {
			return i
		}
	}
	c.upvalues = append(c.upvalues, upvarRec{index: index, isLocal: isLocal})
	c.fn.NumUpvalues = len(c.upvalues)
	return len(c.upvalues) - 1
}

// defineVariable finishes declaring name: at global scope it emits
// DefineGlobal; at local scope it just marks the slot initialized
// (spec.md §4.2 "Declarations").
func (c *Compiler) defineVariable(name string, line int) error {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return nil
	}
	idx, err := c.internLiteral(name)
	if err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpDefineGlobal, line)
	c.chunk.EmitU16(idx, line)
	return nil
}

// compileVariableGet lowers an identifier read per spec.md §4.2's
// three-step resolution order.
func (c *Compiler) compileVariableGet(name string, line int) error {
	if idx, err, found := c.resolveLocal(name); found {
		if err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpGetLocal, line)
		c.chunk.EmitU16(uint16(idx), line)
		return nil
	}
	if idx, err, found := c.resolveUpvalue(name); found {
		if err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpGetUpvalue, line)
		c.chunk.EmitU16(uint16(idx), line)
		return nil
	}
	litIdx, err := c.internLiteral(name)
	if err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpGetGlobal, line)
	c.chunk.EmitU16(litIdx, line)
	return nil
}

// compileVariableSet lowers an identifier write, used both for `=`
// assignment (leaving the value on the stack) and internally wherever an
// assignable target needs a Set* opcode.
func (c *Compiler) compileVariableSet(name string, line int) error {
	if idx, err, found := c.resolveLocal(name); found {
		if err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpSetLocal, line)
		c.chunk.EmitU16(uint16(idx), line)
		return nil
	}
	if idx, err, found := c.resolveUpvalue(name); found {
		if err != nil {
			return err
		}
		c.chunk.EmitOp(rt.OpSetUpvalue, line)
		c.chunk.EmitU16(uint16(idx), line)
		return nil
	}
	litIdx, err := c.internLiteral(name)
	if err != nil {
		return err
	}
	c.chunk.EmitOp(rt.OpSetGlobal, line)
	c.chunk.EmitU16(litIdx, line)
	return nil
}
