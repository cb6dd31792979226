package rt

// collect runs one full non-incremental tracing collection: mark every
// root the VM reports, blacken the gray worklist to exhaustion, then sweep
// (spec.md §4.5).
func collect(a *Allocator) {
	var gray []*ObjectHeader
	mark := func(v Value) {
		if !v.IsObject() {
			return
		}
		h := v.Object()
		if h.Marked {
			return
		}
		h.Marked = true
		gray = append(gray, h)
	}

	if a.host != nil {
		a.host.MarkRoots(mark)
	}
	for len(gray) > 0 {
		h := gray[len(gray)-1]
		gray = gray[:len(gray)-1]
		blacken(h, mark)
	}
	a.sweep()
}

// blacken marks every Value a gray object directly references. Dict keys
// are plain Go strings (see dict.go), not heap objects, so only dict
// values need marking — unlike the C original's interned-string dict
// keys, there is no separate key object to chase here.
func blacken(h *ObjectHeader, mark func(Value)) {
	h.Dict.each(func(_ string, v Value) { mark(v) })

	switch h.Kind {
	case KindString:
		// no further references
	case KindNativeFunction:
		nf := asNativeFunction(h)
		if nf.Name != nil {
			mark(ObjectOf(&nf.Name.ObjectHeader))
		}
	case KindBuiltinType:
		bt := asBuiltinType(h)
		if bt.Name != nil {
			mark(ObjectOf(&bt.Name.ObjectHeader))
		}
	case KindClass:
		c := asClass(h)
		if c.Name != nil {
			mark(ObjectOf(&c.Name.ObjectHeader))
		}
		// Deviation from spec.md's blackening list (DESIGN.md): the parent
		// class is a live reference (Member lookup walks it) and must be
		// marked too, or an otherwise-unreferenced superclass could be
		// swept while a subclass still chains to it.
		if c.Parent != nil {
			mark(ObjectOf(&c.Parent.ObjectHeader))
		}
	case KindUpValue:
		u := asUpValue(h)
		if !u.isOpen() {
			mark(u.Closed)
		}
	case KindMethod:
		m := asMethod(h)
		mark(m.Receiver)
		if m.Fn != nil {
			mark(ObjectOf(&m.Fn.ObjectHeader))
		}
	case KindInstance:
		inst := asInstance(h)
		if inst.Class != nil {
			mark(ObjectOf(&inst.Class.ObjectHeader))
		}
	case KindFunctionCode:
		fc := asFunctionCode(h)
		if fc.Name != nil {
			mark(ObjectOf(&fc.Name.ObjectHeader))
		}
		for _, lit := range fc.Chunk.Literals {
			mark(lit)
		}
	case KindFunction:
		fn := asFunction(h)
		if fn.Code != nil {
			mark(ObjectOf(&fn.Code.ObjectHeader))
		}
		for _, uv := range fn.Upvalues {
			mark(ObjectOf(&uv.ObjectHeader))
		}
	}
}
