package arena

import "iter"

// Interner maps equal comparable values to a single handle.
type Interner[H Handle, V comparable] struct {
	values Dense[H, V]
	index  map[V]H
}

// NewInterner creates an interner with an optional capacity hint.
func NewInterner[H Handle, V comparable](capacity int) *Interner[H, V] {
	if capacity <= 0 {
		capacity = 64
	}
	return &Interner[H, V]{index: make(map[V]H, capacity)}
}

// InsertIfAbsent stores v and returns its new handle. When an equal value is
// already present it returns that handle and false.
func (in *Interner[H, V]) InsertIfAbsent(v V) (H, bool) {
	if in.index == nil {
		in.index = make(map[V]H)
	}
	if h, ok := in.index[v]; ok {
		return h, false
	}
	h := in.values.Push(v)
	in.index[v] = h
	return h, true
}

// Intern returns the handle for v, storing it first if needed.
func (in *Interner[H, V]) Intern(v V) H {
	h, _ := in.InsertIfAbsent(v)
	return h
}

// Lookup returns the handle of a previously interned value.
func (in *Interner[H, V]) Lookup(v V) (H, bool) {
	h, ok := in.index[v]
	return h, ok
}

// Get returns the value stored under h.
func (in *Interner[H, V]) Get(h H) (V, bool) {
	p := in.values.Get(h)
	if p == nil {
		var zero V
		return zero, false
	}
	return *p, true
}

// MustGet panics when h is not a valid handle.
func (in *Interner[H, V]) MustGet(h H) V {
	v, ok := in.Get(h)
	if !ok {
		panic("arena: invalid handle")
	}
	return v
}

// Len reports the number of distinct values.
func (in *Interner[H, V]) Len() int { return in.values.Len() }

// All iterates values in insertion order.
func (in *Interner[H, V]) All() iter.Seq2[H, V] {
	return func(yield func(H, V) bool) {
		for h, v := range in.values.All() {
			if !yield(h, *v) {
				return
			}
		}
	}
}
