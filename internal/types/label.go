package types

import (
	"fmt"
	"strings"
)

// Label returns a user-friendly label for a TypeID. The syntax matches the
// type strings accepted by declaration manifests.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 8 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return formatIntType(tt.Width, true)
	case KindUint:
		return formatIntType(tt.Width, false)
	case KindFloat:
		return fmt.Sprintf("f%d", tt.Width)
	case KindInfer:
		return "_"
	case KindIntLit:
		return "{integer}"
	case KindFloatLit:
		return "{float}"
	case KindPointer:
		return "*" + mutPrefix(tt.Mutable) + labelDepth(typesIn, tt.Elem, depth+1)
	case KindManyPointer:
		return "[*]" + mutPrefix(tt.Mutable) + labelDepth(typesIn, tt.Elem, depth+1)
	case KindSlice:
		return "[]" + mutPrefix(tt.Mutable) + labelDepth(typesIn, tt.Elem, depth+1)
	case KindArray:
		return fmt.Sprintf("[%d]%s", tt.Count, labelDepth(typesIn, tt.Elem, depth+1))
	case KindTuple:
		elems, _ := typesIn.TupleElems(id)
		return "(" + joinLabels(typesIn, elems, depth) + ")"
	case KindFn:
		sig, _ := typesIn.FnInfo(id)
		var sb strings.Builder
		if sig.ABI == ABIC {
			sb.WriteString(`extern "c" `)
		}
		sb.WriteString("fn(")
		sb.WriteString(joinLabels(typesIn, sig.Params, depth))
		if sig.Variadic {
			if len(sig.Params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteString(")")
		if sig.Result != typesIn.builtins.Unit {
			sb.WriteString(" -> ")
			sb.WriteString(labelDepth(typesIn, sig.Result, depth+1))
		}
		return sb.String()
	case KindStruct:
		info, _ := typesIn.StructInfo(id)
		if info != nil && typesIn.Strings != nil {
			if name, ok := typesIn.Strings.Lookup(info.Name); ok && name != "" {
				return name
			}
		}
		return fmt.Sprintf("struct#%d", id)
	case KindVariant:
		members, _ := typesIn.VariantMembers(id)
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = labelDepth(typesIn, m, depth+1)
		}
		return strings.Join(parts, " | ")
	default:
		return tt.Kind.String()
	}
}

func joinLabels(typesIn *Interner, ids []TypeID, depth int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = labelDepth(typesIn, id, depth+1)
	}
	return strings.Join(parts, ", ")
}

func mutPrefix(mutable bool) string {
	if mutable {
		return "mut "
	}
	return ""
}

func formatIntType(width Width, signed bool) string {
	prefix := "u"
	if signed {
		prefix = "i"
	}
	if width == WidthAny {
		return prefix + "size"
	}
	return fmt.Sprintf("%s%d", prefix, width)
}
