package rt

import "github.com/dolthub/swiss"

// dict is the property map attached to every heap Object (spec.md §3:
// "Every heap object has a dict, so arbitrary attributes may be attached to
// classes, instances, and other objects"). Keys are plain Go strings rather
// than interned String Values: a dict lookup only ever needs the bytes, and
// using native strings as the swiss.Map key avoids boxing every property
// name through the Value/Object machinery just to hash it.
type dict struct {
	m *swiss.Map[string, Value]
}

func newDict() dict {
	return dict{m: swiss.NewMap[string, Value](8)}
}

func (d dict) get(name string) (Value, bool) {
	if d.m == nil {
		return Null, false
	}
	return d.m.Get(name)
}

func (d dict) set(name string, v Value) {
	d.m.Put(name, v)
}

func (d dict) has(name string) bool {
	if d.m == nil {
		return false
	}
	return d.m.Has(name)
}

// each calls fn for every key/value pair, used only by the GC to blacken a
// dict's entries.
func (d dict) each(fn func(k string, v Value)) {
	if d.m == nil {
		return
	}
	d.m.Iter(func(k string, v Value) bool {
		fn(k, v)
		return false
	})
}
