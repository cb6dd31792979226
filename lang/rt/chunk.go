package rt

import "encoding/binary"

// Opcode is a one-byte VM instruction (spec.md §4.3). Operands, when
// present, are encoded big-endian immediately following the opcode byte.
type Opcode uint8

const (
	OpNull Opcode = iota
	OpTrue
	OpFalse
	OpConstant // u16 literal index
	OpPop

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLessThan
	OpGreaterThan
	OpEqual

	OpJump        // u16 forward offset
	OpJumpIfFalse // u16 forward offset, peeks TOS
	OpLoop        // u16 backward offset

	OpGetLocal    // u16 slot
	OpSetLocal    // u16 slot
	OpGetGlobal   // u16 literal index (name)
	OpSetGlobal   // u16 literal index (name)
	OpDefineGlobal // u16 literal index (name)

	OpGetUpvalue // u16 index
	OpSetUpvalue // u16 index
	OpCloseUpvalue

	OpCloseFunction // u16 literal index (FunctionCode), then num_upvalues * (u8 is_local, u16 index)

	OpCall   // u8 argc
	OpInvoke // u16 literal index (name), u8 argc
	OpReturn

	OpClass        // u16 literal index (name)
	OpInherit
	OpAttachMethod // u16 literal index (name)
	OpGetMember    // u16 literal index (name)
	OpSetMember    // u16 literal index (name)
	OpGetSuper     // u16 literal index (name)

	OpHalt

	OpcodeMax = OpHalt
)

var opcodeNames = [...]string{
	OpNull: "Null", OpTrue: "True", OpFalse: "False", OpConstant: "Constant", OpPop: "Pop",
	OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div",
	OpLessThan: "LessThan", OpGreaterThan: "GreaterThan", OpEqual: "Equal",
	OpJump: "Jump", OpJumpIfFalse: "JumpIfFalse", OpLoop: "Loop",
	OpGetLocal: "GetLocal", OpSetLocal: "SetLocal",
	OpGetGlobal: "GetGlobal", OpSetGlobal: "SetGlobal", OpDefineGlobal: "DefineGlobal",
	OpGetUpvalue: "GetUpvalue", OpSetUpvalue: "SetUpvalue", OpCloseUpvalue: "CloseUpvalue",
	OpCloseFunction: "CloseFunction",
	OpCall:          "Call", OpInvoke: "Invoke", OpReturn: "Return",
	OpClass: "Class", OpInherit: "Inherit", OpAttachMethod: "AttachMethod",
	OpGetMember: "GetMember", OpSetMember: "SetMember", OpGetSuper: "GetSuper",
	OpHalt: "Halt",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "Unknown"
}

// debugRun is one entry of a Chunk's debug-loc run-length table: `count`
// consecutive instruction bytes all map back to `Line` (spec.md §4.1).
type debugRun struct {
	Line  int
	Count int
}

// Chunk is a compiled function's instruction buffer, literal pool, and
// debug-location map (spec.md §4.1). It is owned exclusively by the
// FunctionCode it belongs to.
type Chunk struct {
	Code    []byte
	Literals []Value
	litIndex map[Value]uint16
	runs    []debugRun
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{litIndex: make(map[Value]uint16)}
}

// EmitByte appends a single opcode or raw byte, tagging it with line for
// the debug-loc table.
func (c *Chunk) EmitByte(b byte, line int) int {
	off := len(c.Code)
	c.Code = append(c.Code, b)
	c.recordLine(line)
	return off
}

// EmitOp appends an opcode byte.
func (c *Chunk) EmitOp(op Opcode, line int) int { return c.EmitByte(byte(op), line) }

// EmitU16 appends a big-endian u16 operand.
func (c *Chunk) EmitU16(v uint16, line int) int {
	off := len(c.Code)
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	c.Code = append(c.Code, buf[:]...)
	c.recordLine(line)
	c.recordLine(line)
	return off
}

// PatchU16 overwrites the u16 at off (previously reserved by EmitU16) with
// v. Bounds-checked: offsets/values must fit in 16 bits (spec.md §4.1).
func (c *Chunk) PatchU16(off int, v uint32) error {
	if v > 0xFFFF {
		return errJumpOverflow
	}
	binary.BigEndian.PutUint16(c.Code[off:], uint16(v))
	return nil
}

func (c *Chunk) recordLine(line int) {
	if n := len(c.runs); n > 0 && c.runs[n-1].Line == line {
		c.runs[n-1].Count++
		return
	}
	c.runs = append(c.runs, debugRun{Line: line, Count: 1})
}

// LineForOffset walks the debug-loc runs to find the source line for a
// given code offset (spec.md §4.1).
func (c *Chunk) LineForOffset(offset int) int {
	remaining := offset
	for _, r := range c.runs {
		if remaining < r.Count {
			return r.Line
		}
		remaining -= r.Count
	}
	if len(c.runs) > 0 {
		return c.runs[len(c.runs)-1].Line
	}
	return 0
}

// AddLiteral appends v to the literal pool if not already present (value
// identity for objects, raw equality for everything else — see
// Compiler.addLiteral in lang/compiler for the wrapper used mid-compile,
// which protects v across the call),
// returning its u16 index. Literal indices are bounded to 65535
// (spec.md §4.1).
func (c *Chunk) AddLiteral(v Value) (uint16, error) {
	if idx, ok := c.litIndex[v]; ok {
		return idx, nil
	}
	if len(c.Literals) >= 0xFFFF {
		return 0, errTooManyLiterals
	}
	idx := uint16(len(c.Literals))
	c.Literals = append(c.Literals, v)
	c.litIndex[v] = idx
	return idx, nil
}
