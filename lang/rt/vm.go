package rt

import (
	"encoding/binary"
	"io"

	"github.com/dolthub/swiss"
	"github.com/mna/tamarin/lang/token"
)

// Frame is the per-call state the VM maintains for one active Function
// invocation (spec.md §4.4).
type Frame struct {
	Fn            *Function
	Chunk         *Chunk
	IP            int
	StackBase     int
	IsConstructor bool
}

// VM is the stack-based virtual machine: operand stack, call frames,
// globals, string interning (via Alloc), open upvalues, and the
// GC-protection stack (spec.md §4.4).
type VM struct {
	Alloc *Allocator
	Out   io.Writer

	Stack []Value
	gcs   []Value // GC-protection stack ("gcs" in spec.md §4.5 and §9)

	frames []Frame

	Globals    *swiss.Map[string, Value]
	InitString *StringObj

	openUpvalues *UpValue // head, descending-slot order

	builtins map[string]*BuiltinType // per-primitive method tables

	compilerRoots func(mark func(Value)) // set while a Compiler chain is live
}

// New returns a VM with a fresh Allocator wired as its own GC host, ready
// to run compiled chunks. out receives `print` native output.
func New(out io.Writer) *VM {
	vm := &VM{
		Alloc:    NewAllocator(),
		Out:      out,
		Globals:  swiss.NewMap[string, Value](32),
		builtins: make(map[string]*BuiltinType, 5),
	}
	vm.Alloc.SetHost(vm)
	vm.InitString = vm.Alloc.InternString("init")
	for _, name := range []string{"int", "float", "bool", "string", "null"} {
		vm.builtins[name] = vm.Alloc.NewBuiltinType(name)
	}
	return vm
}

// SetCompilerRoots installs fn as an additional GC root source for the
// duration of a compile (spec.md §4.5: "every enclosing Compiler's
// in-progress FunctionCode"). Pass nil to clear it once compilation ends.
func (vm *VM) SetCompilerRoots(fn func(mark func(Value))) { vm.compilerRoots = fn }

// MarkRoots implements GCHost: every live root named in spec.md §4.5.
func (vm *VM) MarkRoots(mark func(Value)) {
	for _, v := range vm.Stack {
		mark(v)
	}
	for _, v := range vm.gcs {
		mark(v)
	}
	for _, f := range vm.frames {
		if f.Fn != nil {
			mark(ObjectOf(&f.Fn.ObjectHeader))
		}
	}
	for u := vm.openUpvalues; u != nil; u = u.Next {
		mark(ObjectOf(&u.ObjectHeader))
	}
	vm.Globals.Iter(func(_ string, v Value) bool {
		mark(v)
		return false
	})
	if vm.InitString != nil {
		mark(ObjectOf(&vm.InitString.ObjectHeader))
	}
	if vm.compilerRoots != nil {
		vm.compilerRoots(mark)
	}
}

func (vm *VM) push(v Value)    { vm.Stack = append(vm.Stack, v) }
func (vm *VM) pop() Value      { v := vm.Stack[len(vm.Stack)-1]; vm.Stack = vm.Stack[:len(vm.Stack)-1]; return v }
func (vm *VM) peek(back int) Value { return vm.Stack[len(vm.Stack)-1-back] }

// protect pushes v onto the GC-protection stack for the duration of an
// allocation that doesn't yet have v reachable any other way
// (spec.md §9 "Protection stack").
func (vm *VM) protect(v Value) { vm.gcs = append(vm.gcs, v) }
func (vm *VM) unprotect()      { vm.gcs = vm.gcs[:len(vm.gcs)-1] }

// Protect and Unprotect expose the GC-protection stack to the compiler,
// which needs it too: appending a fresh literal to a Chunk's pool may
// intern a string (an allocation) before the literal itself is reachable
// from anywhere else (spec.md §4.1 "Emit with literal").
func (vm *VM) Protect(v Value) { vm.protect(v) }
func (vm *VM) Unprotect()      { vm.unprotect() }

func (vm *VM) curFrame() *Frame { return &vm.frames[len(vm.frames)-1] }

func (vm *VM) curSpan() token.Pos {
	f := vm.curFrame()
	return token.MakePos(f.Chunk.LineForOffset(f.IP), 1)
}

func (vm *VM) typeErr(format string, args ...interface{}) error {
	return newRuntimeErr(KindTypeError, vm.curSpan(), format, args...)
}

// NativeTypeErr lets a NativeFn (lang/natives) report a type error tagged
// with the calling instruction's span, the same way the VM's own opcode
// handlers do.
func (vm *VM) NativeTypeErr(format string, args ...interface{}) error {
	return vm.typeErr(format, args...)
}

// Run loads fc as the top-level function, pushes it, and dispatches
// instructions until Halt or an unhandled Return at the top level
// (spec.md §2 "Data flow", §4.4 "Top-level return"). Returns the integer
// process result.
func (vm *VM) Run(fc *FunctionCode) (int32, error) {
	vm.protect(ObjectOf(&fc.ObjectHeader))
	topFn := vm.Alloc.NewFunction(fc, nil)
	vm.unprotect()
	vm.push(ObjectOf(&topFn.ObjectHeader))
	vm.frames = append(vm.frames, Frame{Fn: topFn, Chunk: fc.Chunk, StackBase: 0})
	return vm.dispatch()
}

func (vm *VM) readByte() byte {
	f := vm.curFrame()
	b := f.Chunk.Code[f.IP]
	f.IP++
	return b
}

func (vm *VM) readU16() uint16 {
	f := vm.curFrame()
	v := binary.BigEndian.Uint16(f.Chunk.Code[f.IP:])
	f.IP += 2
	return v
}

func (vm *VM) readLiteral(idx uint16) Value {
	return vm.curFrame().Chunk.Literals[idx]
}

func (vm *VM) dispatch() (int32, error) {
	for {
		f := vm.curFrame()
		op := Opcode(vm.readByte())
		switch op {
		case OpNull:
			vm.push(Null)
		case OpTrue:
			vm.push(True)
		case OpFalse:
			vm.push(False)
		case OpConstant:
			vm.push(vm.readLiteral(vm.readU16()))
		case OpPop:
			vm.pop()

		case OpAdd:
			if err := vm.binaryAdd(); err != nil {
				return 0, err
			}
		case OpSub:
			if err := vm.binaryArith(op); err != nil {
				return 0, err
			}
		case OpMul:
			if err := vm.binaryArith(op); err != nil {
				return 0, err
			}
		case OpDiv:
			if err := vm.binaryArith(op); err != nil {
				return 0, err
			}
		case OpLessThan, OpGreaterThan:
			if err := vm.binaryCompare(op); err != nil {
				return 0, err
			}
		case OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(Bool(a.RawEqual(b)))

		case OpJump:
			off := vm.readU16()
			vm.curFrame().IP += int(off)
		case OpJumpIfFalse:
			off := vm.readU16()
			if !vm.peek(0).Truthy() {
				vm.curFrame().IP += int(off)
			}
		case OpLoop:
			off := vm.readU16()
			vm.curFrame().IP -= int(off)

		case OpGetLocal:
			idx := vm.readU16()
			vm.push(vm.Stack[f.StackBase+int(idx)])
		case OpSetLocal:
			idx := vm.readU16()
			vm.Stack[f.StackBase+int(idx)] = vm.peek(0)
		case OpGetGlobal:
			name := vm.readLiteral(vm.readU16())
			key := asString(name.Object()).Bytes
			v, ok := vm.Globals.Get(key)
			if !ok {
				return 0, newRuntimeErr(KindNameError, vm.curSpan(), "undefined global %q", key)
			}
			vm.push(v)
		case OpSetGlobal:
			name := vm.readLiteral(vm.readU16())
			key := asString(name.Object()).Bytes
			if !vm.Globals.Has(key) {
				return 0, newRuntimeErr(KindNameError, vm.curSpan(), "undefined global %q", key)
			}
			vm.Globals.Put(key, vm.peek(0)) // SetGlobal does not pop its RHS
		case OpDefineGlobal:
			name := vm.readLiteral(vm.readU16())
			key := asString(name.Object()).Bytes
			vm.Globals.Put(key, vm.pop())

		case OpGetUpvalue:
			idx := vm.readU16()
			vm.push(f.Fn.Upvalues[idx].Get(vm.Stack))
		case OpSetUpvalue:
			idx := vm.readU16()
			f.Fn.Upvalues[idx].Set(vm.Stack, vm.peek(0))
		case OpCloseUpvalue:
			vm.closeUpvalues(len(vm.Stack) - 1)
			vm.pop()

		case OpCloseFunction:
			if err := vm.closeFunction(); err != nil {
				return 0, err
			}

		case OpCall:
			argc := int(vm.readByte())
			if err := vm.call(argc); err != nil {
				return 0, err
			}
		case OpInvoke:
			name := vm.readLiteral(vm.readU16())
			argc := int(vm.readByte())
			key := asString(name.Object()).Bytes
			if err := vm.invoke(key, argc); err != nil {
				return 0, err
			}
		case OpReturn:
			result, err := vm.doReturn()
			if err != nil {
				return 0, err
			}
			if result != nil {
				return *result, nil
			}

		case OpClass:
			name := vm.readLiteral(vm.readU16())
			cls := vm.Alloc.NewClass(asString(name.Object()))
			vm.push(ObjectOf(&cls.ObjectHeader))
		case OpInherit:
			if err := vm.inherit(); err != nil {
				return 0, err
			}
		case OpAttachMethod:
			name := vm.readLiteral(vm.readU16())
			key := asString(name.Object()).Bytes
			method := vm.pop()
			cls := asClass(vm.peek(0).Object())
			cls.Dict.set(key, method)
		case OpGetMember:
			name := vm.readLiteral(vm.readU16())
			key := asString(name.Object()).Bytes
			if err := vm.getMember(key); err != nil {
				return 0, err
			}
		case OpSetMember:
			name := vm.readLiteral(vm.readU16())
			key := asString(name.Object()).Bytes
			if err := vm.setMember(key); err != nil {
				return 0, err
			}
		case OpGetSuper:
			name := vm.readLiteral(vm.readU16())
			key := asString(name.Object()).Bytes
			if err := vm.getSuper(key); err != nil {
				return 0, err
			}

		case OpHalt:
			return 0, nil

		default:
			return 0, vm.typeErr("unknown opcode %d", op)
		}
	}
}
