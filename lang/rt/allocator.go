package rt

import "github.com/dolthub/swiss"

// gcHeapGrowFactor is the growth heuristic applied to next_gc after each
// collection (spec.md §4.5).
const gcHeapGrowFactor = 2

// GCHost is implemented by the VM: it knows every live root (operand
// stack, gcs protection stack, frames, open upvalues, globals,
// init_string, enclosing compiler chain) and performs the mark phase.
// Allocator performs sweep itself, since it alone owns the objects list
// and the strings intern table.
type GCHost interface {
	MarkRoots(mark func(Value))
}

// Allocator is the size-tracking wrapper over object creation described in
// spec.md §4.5 ("gc_mem"): every allocation accrues bytes_allocated,
// triggers a collection once over next_gc (or unconditionally in Stress
// mode), and re-grows next_gc afterward. A re-entrancy guard (paused)
// prevents collection during an ongoing collection or during the
// object-initialization window where a dict is being built.
type Allocator struct {
	host  GCHost
	paused bool
	Stress bool

	bytesAllocated int64
	nextGC         int64

	objects *ObjectHeader
	strings *swiss.Map[string, *StringObj]
}

// NewAllocator returns an allocator with no objects yet. SetHost must be
// called before any allocation that could trigger a collection (i.e.
// before the VM starts running), since natives/compiler setup may run
// before the VM ties the knot.
func NewAllocator() *Allocator {
	return &Allocator{
		nextGC:  1 << 20,
		strings: swiss.NewMap[string, *StringObj](64),
	}
}

// SetHost wires the GC's root provider. Called once, after both the
// Allocator and VM exist.
func (a *Allocator) SetHost(h GCHost) { a.host = h }

// Objects returns the head of the intrusive all-objects list, for the GC
// sweep.
func (a *Allocator) Objects() *ObjectHeader { return a.objects }

func (a *Allocator) track(size int64) {
	a.bytesAllocated += size
	if a.host == nil || a.paused {
		return
	}
	if a.Stress || a.bytesAllocated > a.nextGC {
		a.collect()
	}
}

func (a *Allocator) collect() {
	a.paused = true
	collect(a)
	a.paused = false
	a.nextGC = a.bytesAllocated * gcHeapGrowFactor
}

// newHeader allocates and links a fresh object header of the given kind
// and approximate size, pausing collection across dict construction
// (spec.md §4.5 "initialize the per-object dict ... with GC temporarily
// paused").
func (a *Allocator) newHeader(kind ObjectKind, size int64) *ObjectHeader {
	a.track(size)
	h := &ObjectHeader{Kind: kind}
	prevPaused := a.paused
	a.paused = true
	h.Dict = newDict()
	a.paused = prevPaused
	h.Next = a.objects
	a.objects = h
	return h
}

// InternString returns the canonical StringObj for s, allocating one if
// this is the first time s has been seen (spec.md §3, §8 "Interning").
func (a *Allocator) InternString(s string) *StringObj {
	if so, ok := a.strings.Get(s); ok {
		return so
	}
	h := a.newHeader(KindString, int64(len(s))+32)
	so := asString(h)
	so.Bytes = s
	so.Hash = fnvHash(s)
	a.strings.Put(s, so)
	return so
}

func (a *Allocator) NewFunctionCode(name *StringObj, arity int) *FunctionCode {
	h := a.newHeader(KindFunctionCode, 96)
	fc := asFunctionCode(h)
	fc.Name = name
	fc.Arity = arity
	fc.Chunk = NewChunk()
	return fc
}

func (a *Allocator) NewFunction(code *FunctionCode, upvalues []*UpValue) *Function {
	h := a.newHeader(KindFunction, int64(32+8*len(upvalues)))
	fn := asFunction(h)
	fn.Code = code
	fn.Upvalues = upvalues
	return fn
}

func (a *Allocator) NewUpValue(slot int) *UpValue {
	h := a.newHeader(KindUpValue, 40)
	u := asUpValue(h)
	u.Slot = slot
	return u
}

func (a *Allocator) NewClass(name *StringObj) *Class {
	h := a.newHeader(KindClass, 48)
	c := asClass(h)
	c.Name = name
	return c
}

func (a *Allocator) NewInstance(class *Class) *Instance {
	h := a.newHeader(KindInstance, 48)
	inst := asInstance(h)
	inst.Class = class
	return inst
}

func (a *Allocator) NewMethod(receiver Value, fn *Function) *Method {
	h := a.newHeader(KindMethod, 32)
	m := asMethod(h)
	m.Receiver = receiver
	m.Fn = fn
	return m
}

func (a *Allocator) NewNativeFunction(name string, fn NativeFn) *NativeFunction {
	h := a.newHeader(KindNativeFunction, 48)
	nf := asNativeFunction(h)
	nf.Name = a.InternString(name)
	nf.Fn = fn
	return nf
}

func (a *Allocator) NewBuiltinType(name string) *BuiltinType {
	h := a.newHeader(KindBuiltinType, 32)
	bt := asBuiltinType(h)
	bt.Name = a.InternString(name)
	return bt
}

// sweep unlinks and frees every unmarked object, clearing marks on
// survivors (spec.md §4.5 "Sweep"). free_object semantics (removing
// interned strings from the table before release) are implicit here:
// since Go objects are garbage-collected themselves, "freeing" means
// unlinking from the intrusive list and the strings table so nothing in
// rt keeps the object artificially reachable; the Go runtime reclaims the
// memory once truly unreferenced.
func (a *Allocator) sweep() {
	var prev *ObjectHeader
	cur := a.objects
	for cur != nil {
		if cur.Marked {
			cur.Marked = false
			prev = cur
			cur = cur.Next
			continue
		}
		unreached := cur
		cur = cur.Next
		if prev == nil {
			a.objects = cur
		} else {
			prev.Next = cur
		}
		if unreached.Kind == KindString {
			a.strings.Delete(asString(unreached).Bytes)
		}
	}
}
