package rt

// call dispatches OpCall: the callee sits at len(Stack)-argc-1, with argc
// arguments above it (spec.md §4.4 "Calling convention").
func (vm *VM) call(argc int) error {
	calleeIdx := len(vm.Stack) - argc - 1
	callee := vm.Stack[calleeIdx]
	if !callee.IsObject() {
		return vm.typeErr("cannot call a value of kind %s", callee.Kind())
	}
	h := callee.Object()
	switch h.Kind {
	case KindFunction:
		return vm.callFunction(asFunction(h), argc)
	case KindNativeFunction:
		return vm.callNative(asNativeFunction(h), calleeIdx, argc)
	case KindClass:
		return vm.callClass(asClass(h), calleeIdx, argc)
	case KindMethod:
		m := asMethod(h)
		return vm.callMethodLike(argc, m.Fn, m.Receiver)
	default:
		return vm.typeErr("cannot call a value of kind %s", h.Kind)
	}
}

// callFunction pushes a new frame for fn, treating the argc values above
// the callee slot as its slots 1..argc (spec.md §4.4 "Function").
func (vm *VM) callFunction(fn *Function, argc int) error {
	if fn.Code.Arity != argc {
		return newRuntimeErr(KindArityError, vm.curSpan(), "%s expected %d argument(s), got %d", fn.Code.Name.Bytes, fn.Code.Arity, argc)
	}
	base := len(vm.Stack) - argc - 1
	vm.frames = append(vm.frames, Frame{Fn: fn, Chunk: fn.Code.Chunk, StackBase: base})
	return nil
}

func (vm *VM) callNative(nf *NativeFunction, calleeIdx, argc int) error {
	args := vm.Stack[calleeIdx+1:]
	result, err := nf.Fn(vm, args)
	if err != nil {
		return err
	}
	vm.Stack = vm.Stack[:calleeIdx]
	vm.push(result)
	return nil
}

func (vm *VM) callClass(cls *Class, calleeIdx, argc int) error {
	inst := vm.Alloc.NewInstance(cls)
	instVal := ObjectOf(&inst.ObjectHeader)
	vm.Stack[calleeIdx] = instVal

	initVal, found := lookupMethod(cls, "init")
	if !found {
		if argc != 0 {
			return newRuntimeErr(KindArityError, vm.curSpan(), "class %s has no init, expected 0 arguments, got %d", cls.Name.Bytes, argc)
		}
		return nil
	}
	if !isFunctionValue(initVal) {
		return vm.typeErr("init is not a function")
	}
	if err := vm.callMethodLike(argc, asFunction(initVal.Object()), instVal); err != nil {
		return err
	}
	vm.curFrame().IsConstructor = true
	return nil
}

// callMethodLike implements `call_method_like` (spec.md §4.4): splices
// thisVal just below the existing argc arguments, then calls fn as if it
// had been invoked with argc+1 arguments. Used by bound-Method calls,
// constructor dispatch, and Invoke.
func (vm *VM) callMethodLike(argc int, fn *Function, thisVal Value) error {
	insertAt := len(vm.Stack) - argc
	vm.Stack = append(vm.Stack, Null)
	copy(vm.Stack[insertAt+1:], vm.Stack[insertAt:len(vm.Stack)-1])
	vm.Stack[insertAt] = thisVal
	return vm.callFunction(fn, argc+1)
}

// invoke implements the fused Invoke opcode: member lookup on the receiver
// (at len(Stack)-argc-1) followed by a call, without a GetMember round
// trip through a bound Method allocation when the member is a method
// (spec.md §4.4 "Invoke name argc").
func (vm *VM) invoke(name string, argc int) error {
	recvIdx := len(vm.Stack) - argc - 1
	recv := vm.Stack[recvIdx]
	val, found, isMethod := vm.getMemberValue(recv, name)
	if !found {
		return newRuntimeErr(KindNameError, vm.curSpan(), "no member %q", name)
	}
	if isMethod && isFunctionValue(val) {
		return vm.callMethodLike(argc, asFunction(val.Object()), recv)
	}
	vm.Stack[recvIdx] = val
	return vm.call(argc)
}

// getMemberObj implements `get_member_obj` (spec.md §4.4): an object's own
// dict first, then (for Instance) its Class chain, then (for Class) its
// parent chain. The bool results are (found, isMethod); isMethod is false
// for an object's own dict entry and true for anything resolved by walking
// a class chain (spec.md §8 "Round-trip").
func (vm *VM) getMemberObj(h *ObjectHeader, name string) (Value, bool, bool) {
	if val, ok := h.Dict.get(name); ok {
		return val, true, false
	}
	switch h.Kind {
	case KindInstance:
		inst := asInstance(h)
		if inst.Class != nil {
			return vm.getMemberClassChain(inst.Class, name)
		}
	case KindClass:
		cls := asClass(h)
		if cls.Parent != nil {
			return vm.getMemberClassChain(cls.Parent, name)
		}
	}
	return Null, false, false
}

func (vm *VM) getMemberClassChain(cls *Class, name string) (Value, bool, bool) {
	for c := cls; c != nil; c = c.Parent {
		if val, ok := c.Dict.get(name); ok {
			return val, true, true
		}
	}
	return Null, false, false
}

func (vm *VM) builtinFor(v Value) *BuiltinType {
	switch {
	case v.IsInt():
		return vm.builtins["int"]
	case v.IsFloat():
		return vm.builtins["float"]
	case v.IsBool():
		return vm.builtins["bool"]
	case v.IsNull():
		return vm.builtins["null"]
	default:
		return nil
	}
}

// getMemberValue dispatches member lookup by Value kind: an Object goes
// through getMemberObj; a primitive looks up its BuiltinType's dict with
// isMethod always true (spec.md §4.4 "get_member_value").
func (vm *VM) getMemberValue(v Value, name string) (Value, bool, bool) {
	if v.IsObject() {
		return vm.getMemberObj(v.Object(), name)
	}
	bt := vm.builtinFor(v)
	if bt == nil {
		return Null, false, false
	}
	val, ok := bt.Dict.get(name)
	return val, ok, true
}

func isFunctionValue(v Value) bool { return v.IsObject() && v.Object().Kind == KindFunction }

// getMember implements the GetMember opcode: pop the receiver, look up
// name, and if the resolved value is a method, bind it to the receiver
// (spec.md §4.4 "GetMember opcode").
func (vm *VM) getMember(name string) error {
	recv := vm.pop()
	val, found, isMethod := vm.getMemberValue(recv, name)
	if !found {
		return newRuntimeErr(KindNameError, vm.curSpan(), "no member %q", name)
	}
	if isMethod && isFunctionValue(val) {
		m := vm.Alloc.NewMethod(recv, asFunction(val.Object()))
		vm.push(ObjectOf(&m.ObjectHeader))
		return nil
	}
	vm.push(val)
	return nil
}

// setMember implements SetMember. The compiler emits the rhs then the
// receiver (spec.md §4.2 "member -> compile receiver, then SetMember"), so
// the stack is [rhs, receiver] with receiver on top; like SetGlobal, the
// rhs value is left on the stack as the assignment expression's result.
func (vm *VM) setMember(name string) error {
	recvVal := vm.pop()
	val := vm.peek(0)
	if !recvVal.IsObject() {
		return vm.typeErr("cannot set a member on a value of kind %s", recvVal.Kind())
	}
	h := recvVal.Object()
	if h.immutable() {
		return vm.typeErr("%s is immutable", h.Kind)
	}
	h.Dict.set(name, val)
	return nil
}

// getSuper implements GetSuper: stack form [this, superclass]
// (spec.md §4.4 "GetSuper name").
func (vm *VM) getSuper(name string) error {
	superVal := vm.pop()
	if !superVal.IsObject() || superVal.Object().Kind != KindClass {
		return vm.typeErr("super used with a non-class superclass")
	}
	cls := asClass(superVal.Object())
	val, found, _ := vm.getMemberClassChain(cls, name)
	if !found {
		return newRuntimeErr(KindNameError, vm.curSpan(), "no member %q on superclass %s", name, cls.Name.Bytes)
	}
	thisVal := vm.peek(0)
	if isFunctionValue(val) {
		m := vm.Alloc.NewMethod(thisVal, asFunction(val.Object()))
		vm.Stack[len(vm.Stack)-1] = ObjectOf(&m.ObjectHeader)
	} else {
		vm.Stack[len(vm.Stack)-1] = val
	}
	return nil
}

// inherit implements Inherit: stack [superclass, subclass]
// (spec.md §4.4 "Inherit"). Only the subclass is popped: the superclass
// stays in place, since that stack slot is exactly where the surrounding
// scope's `super` local lives (spec.md §4.2 "class ... open a scope
// binding super").
func (vm *VM) inherit() error {
	subVal := vm.peek(0)
	superVal := vm.peek(1)
	if !superVal.IsObject() || superVal.Object().Kind != KindClass {
		return vm.typeErr("superclass must be a class")
	}
	if !subVal.IsObject() || subVal.Object().Kind != KindClass {
		return vm.typeErr("cannot inherit: not a class")
	}
	asClass(subVal.Object()).Parent = asClass(superVal.Object())
	vm.pop()
	return nil
}

// closeFunction implements CloseFunction: allocates a Function wrapping
// the literal FunctionCode, then resolves each upvalue descriptor that
// follows it in the bytestream (spec.md §4.4 "Closures").
func (vm *VM) closeFunction() error {
	codeVal := vm.readLiteral(vm.readU16())
	code := asFunctionCode(codeVal.Object())
	ups := make([]*UpValue, code.NumUpvalues)
	f := vm.curFrame()
	for i := 0; i < code.NumUpvalues; i++ {
		isLocal := vm.readByte() != 0
		idx := vm.readU16()
		if isLocal {
			ups[i] = vm.captureUpvalue(f.StackBase + int(idx))
		} else {
			ups[i] = f.Fn.Upvalues[idx]
		}
	}
	fn := vm.Alloc.NewFunction(code, ups)
	vm.push(ObjectOf(&fn.ObjectHeader))
	return nil
}

// captureUpvalue implements `capture_upvalue`: the open-upvalues list is
// kept in descending-slot order so an existing capture of the same slot is
// always found and shared (spec.md §4.4, §8 "Upvalue sharing").
func (vm *VM) captureUpvalue(slot int) *UpValue {
	var prev *UpValue
	cur := vm.openUpvalues
	for cur != nil && cur.Slot > slot {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.Slot == slot {
		return cur
	}
	u := vm.Alloc.NewUpValue(slot)
	u.Next = cur
	if prev == nil {
		vm.openUpvalues = u
	} else {
		prev.Next = u
	}
	return u
}

// closeUpvalues implements `close_upvalue` for every open upvalue at or
// above fromSlot (spec.md §4.4).
func (vm *VM) closeUpvalues(fromSlot int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= fromSlot {
		u := vm.openUpvalues
		u.Closed = vm.Stack[u.Slot]
		u.Slot = 0
		vm.openUpvalues = u.Next
		u.Next = nil
	}
}

// doReturn implements the Return opcode, including the constructor
// substitution rule and the top-level-return-must-be-int rule
// (spec.md §4.4 "Return", "Top-level return"). A non-nil *int32 signals
// that the top-level frame just returned with that process result.
func (vm *VM) doReturn() (*int32, error) {
	result := vm.pop()
	f := vm.curFrame()
	pos := vm.curSpan()
	if f.IsConstructor {
		result = vm.Stack[f.StackBase+1]
	}
	base := f.StackBase
	vm.closeUpvalues(base)
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.Stack = vm.Stack[:base]

	if len(vm.frames) == 0 {
		if !result.IsInt() {
			return nil, newRuntimeErr(KindTopLevelReturnError, pos, "top-level return must be an int, got %s", result.Kind())
		}
		v := result.Int32()
		return &v, nil
	}
	vm.push(result)
	return nil, nil
}
