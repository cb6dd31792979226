package rt

import (
	"fmt"
	"unsafe"
)

// ObjectKind discriminates the object variants named in spec.md §3.
type ObjectKind uint8

const (
	KindString ObjectKind = iota
	KindFunctionCode
	KindFunction
	KindUpValue
	KindClass
	KindInstance
	KindMethod
	KindNativeFunction
	KindBuiltinType
)

func (k ObjectKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFunctionCode:
		return "function_code"
	case KindFunction:
		return "function"
	case KindUpValue:
		return "upvalue"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindMethod:
		return "method"
	case KindNativeFunction:
		return "native_function"
	case KindBuiltinType:
		return "builtin_type"
	default:
		return "unknown_object"
	}
}

// ObjectHeader is the shared prefix of every heap object (spec.md §3): a
// variant tag, the intrusive all-objects link, the GC mark bit, and the
// per-object property dict. It must be the first field of every concrete
// object struct below, so that a *ObjectHeader and a pointer to the
// concrete struct share the same address and can be cast between each
// other with unsafe.Pointer — this is the Go analogue of the tagged-union
// object header the spec describes.
type ObjectHeader struct {
	Kind   ObjectKind
	Marked bool
	Next   *ObjectHeader // intrusive link in Allocator.objects
	Dict   dict
}

// immutable reports whether SetMember must reject writes to this object
// (spec.md §4.4 "SetMember"): String, FunctionCode, and NativeFunction are
// immutable.
func (h *ObjectHeader) immutable() bool {
	switch h.Kind {
	case KindString, KindFunctionCode, KindNativeFunction:
		return true
	default:
		return false
	}
}

// debugString renders an object for bytecode dumps and error messages.
func (h *ObjectHeader) debugString() string {
	switch h.Kind {
	case KindString:
		return fmt.Sprintf("%q", asString(h).Bytes)
	case KindFunctionCode:
		fc := asFunctionCode(h)
		if fc.Name != nil {
			return fmt.Sprintf("<fn %s>", fc.Name.Bytes)
		}
		return "<fn top>"
	case KindFunction:
		return asFunction(h).Code.ObjectHeader.debugString()
	case KindClass:
		return fmt.Sprintf("<class %s>", asClass(h).Name.Bytes)
	case KindInstance:
		return fmt.Sprintf("<instance of %s>", asInstance(h).Class.Name.Bytes)
	case KindNativeFunction:
		return fmt.Sprintf("<native fn %s>", asNativeFunction(h).Name.Bytes)
	default:
		return fmt.Sprintf("<%s>", h.Kind)
	}
}

func asString(h *ObjectHeader) *StringObj             { return (*StringObj)(unsafe.Pointer(h)) }
func asFunctionCode(h *ObjectHeader) *FunctionCode     { return (*FunctionCode)(unsafe.Pointer(h)) }
func asFunction(h *ObjectHeader) *Function             { return (*Function)(unsafe.Pointer(h)) }
func asUpValue(h *ObjectHeader) *UpValue               { return (*UpValue)(unsafe.Pointer(h)) }
func asClass(h *ObjectHeader) *Class                   { return (*Class)(unsafe.Pointer(h)) }
func asInstance(h *ObjectHeader) *Instance             { return (*Instance)(unsafe.Pointer(h)) }
func asMethod(h *ObjectHeader) *Method                 { return (*Method)(unsafe.Pointer(h)) }
func asNativeFunction(h *ObjectHeader) *NativeFunction { return (*NativeFunction)(unsafe.Pointer(h)) }
func asBuiltinType(h *ObjectHeader) *BuiltinType       { return (*BuiltinType)(unsafe.Pointer(h)) }
