package layout

import (
	"slices"

	"cool/internal/source"
	"cool/internal/types"
)

// Slot is the size and alignment of one aggregate member.
type Slot struct {
	Size  int
	Align int
}

// Placement is the result of arranging aggregate members.
type Placement struct {
	Order   []int // member indices in memory order
	Offsets []int // by member index
	Size    int
	Align   int
}

// Arrange places members by descending alignment, keeping declaration order
// among equal alignments. Each member is padded up to its own alignment and
// the total is rounded to the largest one. No members yields size 0, align 1.
func Arrange(slots []Slot) Placement {
	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return maxInt(1, slots[b].Align) - maxInt(1, slots[a].Align)
	})

	offsets := make([]int, len(slots))
	size := 0
	align := 1
	for _, idx := range order {
		a := maxInt(1, slots[idx].Align)
		size = roundUp(size, a)
		offsets[idx] = size
		size += slots[idx].Size
		align = maxInt(align, a)
	}
	return Placement{
		Order:   order,
		Offsets: offsets,
		Size:    roundUp(size, align),
		Align:   align,
	}
}

// FieldSpec is a named member awaiting layout.
type FieldSpec struct {
	Name source.StringID
	Type types.TypeID
}

// ComputeAggregateLayout lays out a struct body. Returned fields are in
// memory order. Every field type must already have a layout.
func (e *LayoutEngine) ComputeAggregateLayout(fields []FieldSpec) (types.TyDef, error) {
	slots := make([]Slot, len(fields))
	for i, f := range fields {
		fl, err := e.layoutOf(f.Type)
		if err != nil {
			return types.TyDef{}, err
		}
		slots[i] = Slot{Size: fl.Size, Align: fl.Align}
	}
	p := Arrange(slots)
	out := make([]types.Field, 0, len(fields))
	for _, idx := range p.Order {
		out = append(out, types.Field{
			Name:   fields[idx].Name,
			Offset: p.Offsets[idx],
			Type:   fields[idx].Type,
		})
	}
	return types.TyDef{Fields: out, Size: p.Size, Align: p.Align}, nil
}
