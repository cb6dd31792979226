package rt

// binaryAdd implements Add: numeric addition (int+int stays int, any float
// operand promotes to float) or string concatenation through interning
// (spec.md §4.4 "Arithmetic & comparison"). Both operands are pushed to
// the protection stack across the intern allocation, since neither is
// reachable from a root once popped off the operand stack.
func (vm *VM) binaryAdd() error {
	b := vm.pop()
	a := vm.pop()

	if isStringValue(a) && isStringValue(b) {
		as := asString(a.Object()).Bytes
		bs := asString(b.Object()).Bytes
		vm.protect(a)
		vm.protect(b)
		so := vm.Alloc.InternString(as + bs)
		vm.unprotect()
		vm.unprotect()
		vm.push(ObjectOf(&so.ObjectHeader))
		return nil
	}
	if !a.IsNumber() || !b.IsNumber() {
		return vm.typeErr("+ requires two numbers or two strings, got %s and %s", a.Kind(), b.Kind())
	}
	if a.IsInt() && b.IsInt() {
		vm.push(Int(a.Int32() + b.Int32()))
	} else {
		vm.push(Float(a.AsFloat64() + b.AsFloat64()))
	}
	return nil
}

func isStringValue(v Value) bool { return v.IsObject() && v.Object().Kind == KindString }

// binaryArith implements Sub/Mul/Div: int-op-int stays int, any float
// operand promotes the whole operation to float (spec.md §4.4).
func (vm *VM) binaryArith(op Opcode) error {
	b := vm.pop()
	a := vm.pop()
	if !a.IsNumber() || !b.IsNumber() {
		return vm.typeErr("%s requires two numbers, got %s and %s", op, a.Kind(), b.Kind())
	}
	if a.IsInt() && b.IsInt() {
		x, y := a.Int32(), b.Int32()
		switch op {
		case OpSub:
			vm.push(Int(x - y))
		case OpMul:
			vm.push(Int(x * y))
		case OpDiv:
			if y == 0 {
				return vm.typeErr("division by zero")
			}
			vm.push(Int(x / y))
		}
		return nil
	}
	x, y := a.AsFloat64(), b.AsFloat64()
	switch op {
	case OpSub:
		vm.push(Float(x - y))
	case OpMul:
		vm.push(Float(x * y))
	case OpDiv:
		vm.push(Float(x / y))
	}
	return nil
}

// binaryCompare implements LessThan/GreaterThan, widening both operands to
// float64 for the comparison (spec.md §4.4).
func (vm *VM) binaryCompare(op Opcode) error {
	b := vm.pop()
	a := vm.pop()
	if !a.IsNumber() || !b.IsNumber() {
		return vm.typeErr("%s requires two numbers, got %s and %s", op, a.Kind(), b.Kind())
	}
	x, y := a.AsFloat64(), b.AsFloat64()
	if op == OpLessThan {
		vm.push(Bool(x < y))
	} else {
		vm.push(Bool(x > y))
	}
	return nil
}
