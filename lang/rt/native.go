package rt

// NativeFn is the native-function ABI (spec.md §6): args points at the
// first argument on the operand stack and is valid only for the duration
// of the call. The VM pushes the returned Value after removing the
// arguments and the callee.
type NativeFn func(vm *VM, args []Value) (Value, error)

// NativeFunction wraps a Go function exposed to scripts under a name
// (spec.md §3).
type NativeFunction struct {
	ObjectHeader
	Name *StringObj
	Fn   NativeFn
}

// BuiltinType is the method table attached to a primitive Value kind (int,
// float, bool, string, null) via its shared dict (spec.md §3).
type BuiltinType struct {
	ObjectHeader
	Name *StringObj
}
