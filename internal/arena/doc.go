// Package arena provides the interning substrate the resolver is built on.
//
// Every table in the compiler is a dense array indexed by a 32-bit handle.
// Slot 0 of each array holds a zero sentinel so that the zero handle never
// refers to a stored value. Values are appended and never removed; storage
// is split into fixed-size chunks, so a pointer obtained from Dense.Get stays
// valid for the lifetime of the arena regardless of later insertions.
//
// Interner deduplicates comparable values through a hash map. SliceInterner
// deduplicates element sequences (paths, type lists) through an
// open-addressed index so that equal sequences share one handle.
package arena
