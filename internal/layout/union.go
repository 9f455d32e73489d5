package layout

import "cool/internal/types"

// UnionStrategy selects how the active member of a tagged union is encoded.
type UnionStrategy uint8

const (
	// StrategyBasic stores a one-byte discriminant after the widest member.
	StrategyBasic UnionStrategy = iota
	// StrategyNullablePointer uses the null value of the pointer-shaped
	// member to mean "the other member"; no discriminant is stored.
	StrategyNullablePointer
)

func (s UnionStrategy) String() string {
	if s == StrategyNullablePointer {
		return "nullable-pointer"
	}
	return "basic"
}

// TaggedUnionLayout describes the encoding chosen for a variant type.
type TaggedUnionLayout struct {
	Dominant           int // member index; -1 when there are no members
	Strategy           UnionStrategy
	DiscriminantOffset int // -1 when no discriminant is stored
	Padding            int // bytes between the discriminant and the end
	Size               int
	Align              int
}

// UnionMember is the layout-relevant shape of one variant member.
type UnionMember struct {
	Slot
	PointerShaped bool // null is not a valid value
}

// ArrangeUnion picks the dominant member and encoding strategy. The
// nullable-pointer strategy is taken whenever there are exactly two members,
// one pointer-shaped and the other zero-sized.
func ArrangeUnion(members []UnionMember) TaggedUnionLayout {
	if len(members) == 0 {
		return TaggedUnionLayout{Dominant: -1, DiscriminantOffset: -1, Size: 0, Align: 1}
	}
	if len(members) == 2 {
		for i, m := range members {
			other := members[1-i]
			if m.PointerShaped && other.Size == 0 {
				return TaggedUnionLayout{
					Dominant:           i,
					Strategy:           StrategyNullablePointer,
					DiscriminantOffset: -1,
					Size:               m.Size,
					Align:              maxInt(1, m.Align),
				}
			}
		}
	}

	dominant := 0
	widest := 0
	for i, m := range members {
		if m.Align > members[dominant].Align {
			dominant = i
		}
		widest = maxInt(widest, m.Size)
	}
	align := maxInt(1, members[dominant].Align)
	// the discriminant is a single byte, so it needs no leading padding
	disc := widest
	size := roundUp(disc+1, align)
	return TaggedUnionLayout{
		Dominant:           dominant,
		Strategy:           StrategyBasic,
		DiscriminantOffset: disc,
		Padding:            size - disc - 1,
		Size:               size,
		Align:              align,
	}
}

// ComputeTaggedUnionLayout lays out a tagged union over the given members.
func (e *LayoutEngine) ComputeTaggedUnionLayout(variants []types.TypeID) (TaggedUnionLayout, error) {
	u, err := e.taggedUnion(variants)
	if err != nil {
		return u, err
	}
	return u, nil
}

func (e *LayoutEngine) taggedUnion(variants []types.TypeID) (TaggedUnionLayout, *LayoutError) {
	members := make([]UnionMember, len(variants))
	for i, v := range variants {
		l, err := e.layoutOf(v)
		if err != nil {
			return TaggedUnionLayout{}, err
		}
		members[i] = UnionMember{Slot: Slot{Size: l.Size, Align: l.Align}, PointerShaped: e.pointerShaped(v)}
	}
	return ArrangeUnion(members), nil
}

func (e *LayoutEngine) pointerShaped(id types.TypeID) bool {
	switch e.Types.Kind(id) {
	case types.KindPointer, types.KindManyPointer, types.KindFn, types.KindSlice:
		return true
	}
	return false
}
