package driver

import (
	"cmp"
	"slices"

	"cool/internal/layout"
	"cool/internal/resolve"
	"cool/internal/symbols"
	"cool/internal/types"
)

// Report is the layout of every typed item after resolution.
type Report struct {
	Target string       `json:"target" yaml:"target" msgpack:"target"`
	Items  []ItemReport `json:"items" yaml:"items" msgpack:"items"`
}

// ItemReport describes one struct, alias, fn or static. Error is set when
// the item never got a type or its layout failed.
type ItemReport struct {
	Path   string        `json:"path" yaml:"path" msgpack:"path"`
	Kind   string        `json:"kind" yaml:"kind" msgpack:"kind"`
	Type   string        `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type"`
	Size   int           `json:"size" yaml:"size" msgpack:"size"`
	Align  int           `json:"align" yaml:"align" msgpack:"align"`
	Fields []FieldReport `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields"`
	Union  *UnionReport  `json:"union,omitempty" yaml:"union,omitempty" msgpack:"union"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error"`
}

// FieldReport is a struct field in memory order.
type FieldReport struct {
	Name   string `json:"name" yaml:"name" msgpack:"name"`
	Type   string `json:"type" yaml:"type" msgpack:"type"`
	Offset int    `json:"offset" yaml:"offset" msgpack:"offset"`
	Size   int    `json:"size" yaml:"size" msgpack:"size"`
}

// UnionReport is the tagged-union arrangement of a variant.
type UnionReport struct {
	Strategy           string `json:"strategy" yaml:"strategy" msgpack:"strategy"`
	Dominant           int    `json:"dominant" yaml:"dominant" msgpack:"dominant"`
	DiscriminantOffset int    `json:"discriminant_offset" yaml:"discriminant_offset" msgpack:"discriminant_offset"`
	Padding            int    `json:"padding" yaml:"padding" msgpack:"padding"`
}

func reportable(k symbols.ItemKind) bool {
	switch k {
	case symbols.ItemStruct, symbols.ItemAlias, symbols.ItemFn, symbols.ItemStatic:
		return true
	}
	return false
}

// buildReport lays out every typed item outside the builtins module,
// sorted by path.
func buildReport(rc *resolve.Context) *Report {
	rep := &Report{Target: rc.Layout.Target.Triple}
	builtins := rc.Table.Builtins()
	for id, it := range rc.Table.Items() {
		if !reportable(it.Kind) || it.Parent == builtins {
			continue
		}
		rep.Items = append(rep.Items, itemReport(rc, id, it))
	}
	slices.SortFunc(rep.Items, func(a, b ItemReport) int { return cmp.Compare(a.Path, b.Path) })
	return rep
}

func itemReport(rc *resolve.Context, id symbols.ItemID, it *symbols.Item) ItemReport {
	ir := ItemReport{Path: rc.Table.ItemString(id), Kind: it.Kind.String()}
	ty, ok := rc.ItemType(id)
	if !ok || (it.Kind == symbols.ItemStruct && !rc.Types.IsDefined(ty)) {
		if err := rc.Failure(id); err != nil {
			ir.Error = err.Error()
		} else {
			ir.Error = "not defined"
		}
		return ir
	}
	ir.Type = types.Label(rc.Types, ty)
	l, err := rc.Layout.LayoutOf(ty)
	if err != nil {
		ir.Error = err.Error()
		return ir
	}
	ir.Size, ir.Align = l.Size, l.Align
	if info, ok := rc.Types.StructInfo(ty); ok && info.Defined() {
		for _, f := range info.Def.Fields {
			name, _ := rc.Strings.Lookup(f.Name)
			size, _ := rc.Layout.SizeOf(f.Type)
			ir.Fields = append(ir.Fields, FieldReport{Name: name, Type: types.Label(rc.Types, f.Type), Offset: f.Offset, Size: size})
		}
	}
	if l.Union != nil {
		ir.Union = unionReport(l.Union)
	}
	return ir
}

func unionReport(u *layout.TaggedUnionLayout) *UnionReport {
	return &UnionReport{
		Strategy:           u.Strategy.String(),
		Dominant:           u.Dominant,
		DiscriminantOffset: u.DiscriminantOffset,
		Padding:            u.Padding,
	}
}
