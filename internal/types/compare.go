package types

// CmpOp is a source-level comparison operator.
type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// Predicate is the backend comparison selected for an operator and operand
// type.
type Predicate uint8

const (
	PredInvalid Predicate = iota
	IntEq
	IntNe
	SintLt
	SintLe
	SintGt
	SintGe
	UintLt
	UintLe
	UintGt
	UintGe
	FloatEq
	FloatNe
	FloatLt
	FloatLe
	FloatGt
	FloatGe
)

var predicateNames = [...]string{
	PredInvalid: "invalid",
	IntEq:       "eq",
	IntNe:       "ne",
	SintLt:      "slt",
	SintLe:      "sle",
	SintGt:      "sgt",
	SintGe:      "sge",
	UintLt:      "ult",
	UintLe:      "ule",
	UintGt:      "ugt",
	UintGe:      "uge",
	FloatEq:     "oeq",
	FloatNe:     "one",
	FloatLt:     "olt",
	FloatLe:     "ole",
	FloatGt:     "ogt",
	FloatGe:     "oge",
}

func (p Predicate) String() string {
	if int(p) < len(predicateNames) {
		return predicateNames[p]
	}
	return "invalid"
}

// Compare picks the predicate for op applied to operands of type
// id. Ordering is defined for numbers, chars and pointers; bool supports
// equality only.
func (in *Interner) Compare(op CmpOp, id TypeID) (Predicate, bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		return PredInvalid, false
	}
	switch tt.Kind {
	case KindInt, KindIntLit:
		return pick(op, IntEq, IntNe, SintLt, SintLe, SintGt, SintGe)
	case KindUint, KindChar, KindPointer, KindManyPointer:
		return pick(op, IntEq, IntNe, UintLt, UintLe, UintGt, UintGe)
	case KindFloat, KindFloatLit:
		return pick(op, FloatEq, FloatNe, FloatLt, FloatLe, FloatGt, FloatGe)
	case KindBool:
		switch op {
		case CmpEq:
			return IntEq, true
		case CmpNe:
			return IntNe, true
		}
	}
	return PredInvalid, false
}

func pick(op CmpOp, eq, ne, lt, le, gt, ge Predicate) (Predicate, bool) {
	switch op {
	case CmpEq:
		return eq, true
	case CmpNe:
		return ne, true
	case CmpLt:
		return lt, true
	case CmpLe:
		return le, true
	case CmpGt:
		return gt, true
	case CmpGe:
		return ge, true
	}
	return PredInvalid, false
}
