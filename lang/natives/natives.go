// Package natives implements the native-function ABI's standard globals:
// clock, print, and abs of an int or float (spec.md §6 "Built-in native
// functions").
// Install registers them on a fresh VM's Globals table.
package natives

import (
	"time"

	"github.com/mna/tamarin/lang/rt"
)

// Install registers clock, print, and abs as NativeFunction globals on vm.
func Install(vm *rt.VM) {
	register(vm, "clock", clock)
	register(vm, "print", print_)
	register(vm, "abs", abs)
}

func register(vm *rt.VM, name string, fn rt.NativeFn) {
	nf := vm.Alloc.NewNativeFunction(name, fn)
	vm.Globals.Put(name, rt.ObjectOf(&nf.ObjectHeader))
}

// clock returns the number of seconds since the Unix epoch as a float, for
// scripts timing themselves (spec.md §6 ABI: args unused, arity not
// enforced by the VM for natives).
func clock(vm *rt.VM, args []rt.Value) (rt.Value, error) {
	return rt.Float(float64(time.Now().UnixNano()) / 1e9), nil
}

// print_ writes each argument's String() form separated by a single space
// followed by a trailing newline to vm.Out, and returns null.
func print_(vm *rt.VM, args []rt.Value) (rt.Value, error) {
	for i, a := range args {
		if i > 0 {
			vm.Out.Write([]byte(" "))
		}
		vm.Out.Write([]byte(a.String()))
	}
	vm.Out.Write([]byte("\n"))
	return rt.Null, nil
}

// abs returns the absolute value of its one int or float argument,
// preserving the argument's kind (spec.md §6: "integer abs").
func abs(vm *rt.VM, args []rt.Value) (rt.Value, error) {
	if len(args) != 1 || !args[0].IsNumber() {
		return rt.Null, vm.NativeTypeErr("abs expects a single int or float argument")
	}
	v := args[0]
	if v.IsInt() {
		n := v.Int32()
		if n < 0 {
			n = -n
		}
		return rt.Int(n), nil
	}
	f := v.Float64()
	if f < 0 {
		f = -f
	}
	return rt.Float(f), nil
}
