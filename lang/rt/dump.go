package rt

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Dump writes fc's bytecode in the debug format spec.md §6 describes,
// followed by every nested chunk reachable from a CloseFunction literal,
// printed after the enclosing chunk.
func Dump(w io.Writer, fc *FunctionCode, loc string) {
	name := "<top>"
	if fc.Name != nil {
		name = fc.Name.Bytes
	}
	fmt.Fprintf(w, "=== Chunk %s from %s, size: %d ===\n", name, loc, len(fc.Chunk.Code))

	var nested []*FunctionCode
	lastLine := -1
	c := fc.Chunk
	for off := 0; off < len(c.Code); {
		line := c.LineForOffset(off)
		lineCol := "   |"
		if line != lastLine {
			lineCol = fmt.Sprintf("%4d", line)
			lastLine = line
		}
		op := Opcode(c.Code[off])
		n, operands := disassembleOne(c, op, off)
		fmt.Fprintf(w, "%s %4d: %-14s %s\n", lineCol, off, op, operands)
		if op == OpCloseFunction {
			idx := binary.BigEndian.Uint16(c.Code[off+1:])
			nested = append(nested, asFunctionCode(c.Literals[idx].Object()))
		}
		off += n
	}

	for _, n := range nested {
		Dump(w, n, loc)
	}
}

// disassembleOne returns the instruction's total byte length (including
// its opcode byte) and a human-readable operand string.
func disassembleOne(c *Chunk, op Opcode, off int) (int, string) {
	switch op {
	case OpConstant, OpGetGlobal, OpSetGlobal, OpDefineGlobal,
		OpClass, OpAttachMethod, OpGetMember, OpSetMember, OpGetSuper:
		idx := binary.BigEndian.Uint16(c.Code[off+1:])
		return 3, fmt.Sprintf("%d (%v)", idx, c.Literals[idx])
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue:
		idx := binary.BigEndian.Uint16(c.Code[off+1:])
		return 3, fmt.Sprintf("%d", idx)
	case OpJump, OpJumpIfFalse:
		delta := binary.BigEndian.Uint16(c.Code[off+1:])
		return 3, fmt.Sprintf("-> %d", off+3+int(delta))
	case OpLoop:
		delta := binary.BigEndian.Uint16(c.Code[off+1:])
		return 3, fmt.Sprintf("-> %d", off+3-int(delta))
	case OpCall:
		argc := c.Code[off+1]
		return 2, fmt.Sprintf("(%d args)", argc)
	case OpInvoke:
		idx := binary.BigEndian.Uint16(c.Code[off+1:])
		argc := c.Code[off+3]
		return 4, fmt.Sprintf("%d (%v) (%d args)", idx, c.Literals[idx], argc)
	case OpCloseFunction:
		idx := binary.BigEndian.Uint16(c.Code[off+1:])
		n := 3
		numUpvalues := 0
		if fc, ok := asFunctionCodeSafe(c.Literals[idx]); ok {
			numUpvalues = fc.NumUpvalues
		}
		for i := 0; i < numUpvalues; i++ {
			n += 3
		}
		return n, fmt.Sprintf("%d (%v)", idx, c.Literals[idx])
	default:
		return 1, ""
	}
}

func asFunctionCodeSafe(v Value) (*FunctionCode, bool) {
	if !v.IsObject() || v.Object().Kind != KindFunctionCode {
		return nil, false
	}
	return asFunctionCode(v.Object()), true
}
