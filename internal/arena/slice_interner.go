package arena

import (
	"hash/maphash"
	"slices"
)

const minSlots = 16

type sliceEntry[E comparable] struct {
	elems []E
	hash  uint64
}

// SliceInterner maps equal element sequences to a single handle. The index is
// an open-addressed table with linear probing; a slot holds the handle of the
// entry or 0 when empty.
type SliceInterner[H Handle, E comparable] struct {
	seed    maphash.Seed
	entries Dense[H, sliceEntry[E]]
	slots   []H
}

// NewSliceInterner creates an interner with an optional capacity hint.
func NewSliceInterner[H Handle, E comparable](capacity int) *SliceInterner[H, E] {
	n := minSlots
	for n*3 < capacity*4 {
		n <<= 1
	}
	return &SliceInterner[H, E]{
		seed:  maphash.MakeSeed(),
		slots: make([]H, n),
	}
}

func (s *SliceInterner[H, E]) hashOf(elems []E) uint64 {
	var h maphash.Hash
	h.SetSeed(s.seed)
	maphash.WriteComparable(&h, len(elems))
	for _, e := range elems {
		maphash.WriteComparable(&h, e)
	}
	return h.Sum64()
}

// probe returns the slot where elems lives or would be inserted, and the
// handle found there (0 if absent).
func (s *SliceInterner[H, E]) probe(elems []E, hash uint64) (int, H) {
	mask := uint64(len(s.slots) - 1)
	for i := hash & mask; ; i = (i + 1) & mask {
		h := s.slots[i]
		if h == 0 {
			return int(i), 0
		}
		entry := s.entries.Get(h)
		if entry.hash == hash && slices.Equal(entry.elems, elems) {
			return int(i), h
		}
	}
}

func (s *SliceInterner[H, E]) grow() {
	old := s.slots
	s.slots = make([]H, len(old)*2)
	mask := uint64(len(s.slots) - 1)
	for _, h := range old {
		if h == 0 {
			continue
		}
		i := s.entries.Get(h).hash & mask
		for s.slots[i] != 0 {
			i = (i + 1) & mask
		}
		s.slots[i] = h
	}
}

// InsertIfAbsent stores a private copy of elems and returns its new handle.
// When an equal sequence exists it returns that handle and false.
func (s *SliceInterner[H, E]) InsertIfAbsent(elems []E) (H, bool) {
	if len(s.slots) == 0 {
		s.seed = maphash.MakeSeed()
		s.slots = make([]H, minSlots)
	}
	hash := s.hashOf(elems)
	slot, h := s.probe(elems, hash)
	if h != 0 {
		return h, false
	}
	if (s.entries.Len()+1)*4 > len(s.slots)*3 {
		s.grow()
		slot, _ = s.probe(elems, hash)
	}
	h = s.entries.Push(sliceEntry[E]{elems: slices.Clone(elems), hash: hash})
	s.slots[slot] = h
	return h, true
}

// Intern returns the handle for elems, storing a copy first if needed.
func (s *SliceInterner[H, E]) Intern(elems []E) H {
	h, _ := s.InsertIfAbsent(elems)
	return h
}

// Lookup returns the handle of a previously interned sequence.
func (s *SliceInterner[H, E]) Lookup(elems []E) (H, bool) {
	if len(s.slots) == 0 {
		return 0, false
	}
	_, h := s.probe(elems, s.hashOf(elems))
	return h, h != 0
}

// Get returns the stored sequence. The result is shared with the arena and
// must not be modified.
func (s *SliceInterner[H, E]) Get(h H) ([]E, bool) {
	entry := s.entries.Get(h)
	if entry == nil {
		return nil, false
	}
	return entry.elems, true
}

// Len reports the number of distinct sequences.
func (s *SliceInterner[H, E]) Len() int { return s.entries.Len() }
