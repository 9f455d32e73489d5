package source

import (
	"golang.org/x/text/unicode/norm"

	"cool/internal/arena"
)

// StringID identifies an interned identifier.
type StringID uint32

// NoStringID marks the absence of a name.
const NoStringID StringID = 0

// Interner deduplicates identifiers. Names are NFC-normalized first so that
// canonically equivalent spellings resolve to the same StringID.
type Interner struct {
	strings *arena.Interner[StringID, string]
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{strings: arena.NewInterner[StringID, string](256)}
}

// Intern returns the ID for s, storing it if needed. The empty string maps to
// NoStringID.
func (i *Interner) Intern(s string) StringID {
	if s == "" {
		return NoStringID
	}
	return i.strings.Intern(norm.NFC.String(s))
}

// InternBytes interns the identifier spelled by b.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// InternAll interns every segment of a dotted path.
func (i *Interner) InternAll(segments []string) []StringID {
	out := make([]StringID, len(segments))
	for idx, seg := range segments {
		out[idx] = i.Intern(seg)
	}
	return out
}

// Find returns the ID of s without interning it.
func (i *Interner) Find(s string) (StringID, bool) {
	if s == "" {
		return NoStringID, true
	}
	return i.strings.Lookup(norm.NFC.String(s))
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if id == NoStringID {
		return "", true
	}
	return i.strings.Get(id)
}

// MustLookup panics when id is not valid.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has reports whether id is valid.
func (i *Interner) Has(id StringID) bool {
	_, ok := i.Lookup(id)
	return ok
}

// Len returns the number of interned strings, counting NoStringID.
func (i *Interner) Len() int {
	return i.strings.Len() + 1
}
