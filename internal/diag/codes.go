package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// resolution
	ResInfo            Code = 3000
	ResAlreadyDefined  Code = 3001
	ResNotFound        Code = 3002
	ResPrivate         Code = 3003
	ResTooManySuper    Code = 3004
	ResTypeMismatch    Code = 3005
	ResInfiniteSize    Code = 3006
	ResCannotBeDefined Code = 3007
	ResNotAType        Code = 3008
	ResDuplicateField  Code = 3009
	ResInvalidType     Code = 3010

	// layout
	LayInfo             Code = 4000
	LayUndefined        Code = 4001
	LayLengthConversion Code = 4002
	LayInvalidType      Code = 4003

	// manifests
	PrjInfo           Code = 5000
	PrjManifestRead   Code = 5001
	PrjManifestDecode Code = 5002
	PrjUnknownKey     Code = 5003
	PrjBadTypeString  Code = 5004
	PrjBadModulePath  Code = 5005
	PrjUnknownTarget  Code = 5006

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		ResInfo:             "Resolution information",
		ResAlreadyDefined:   "Name already defined",
		ResNotFound:         "Unresolved name",
		ResPrivate:          "Item is private",
		ResTooManySuper:     "Too many super keywords",
		ResTypeMismatch:     "Type mismatch",
		ResInfiniteSize:     "Recursive type has infinite size",
		ResCannotBeDefined:  "Definition never resolved",
		ResNotAType:         "Item is not a type",
		ResDuplicateField:   "Duplicate struct field",
		ResInvalidType:      "Invalid type expression",
		LayInfo:             "Layout information",
		LayUndefined:        "Layout of undefined type",
		LayLengthConversion: "Array length out of range",
		LayInvalidType:      "Type has no layout",
		PrjInfo:             "Manifest information",
		PrjManifestRead:     "Cannot read manifest",
		PrjManifestDecode:   "Malformed manifest",
		PrjUnknownKey:       "Unknown manifest key",
		PrjBadTypeString:    "Malformed type string",
		PrjBadModulePath:    "Invalid module path",
		PrjUnknownTarget:    "Unknown target",
		ObsInfo:             "Observability information",
		ObsTimings:          "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
