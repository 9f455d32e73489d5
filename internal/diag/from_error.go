package diag

import (
	"errors"

	"cool/internal/layout"
	"cool/internal/manifest"
	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/symbols"
	"cool/internal/types"
)

// FromError classifies a core error into a diagnostic. fallback is used as
// the primary span when the error carries none.
func FromError(err error, fallback source.Span) Diagnostic {
	d := NewError(UnknownCode, fallback, err.Error())

	var re *resolve.Error
	if errors.As(err, &re) {
		d.Code = resolveCode(re.Kind)
		if !re.Span.Empty() || re.Span.File != 0 {
			d.Primary = re.Span
		}
		// name the root cause with its own code as a note
		if re.Err != nil {
			if inner := codeOf(re.Err); inner != UnknownCode {
				d = d.WithNote(d.Primary, inner.Title())
			}
		}
		return d
	}
	var me *manifest.Error
	if errors.As(err, &me) {
		d.Code = manifestCode(me.Kind)
		if me.Span.File != 0 {
			d.Primary = me.Span
		}
		return d
	}
	d.Code = codeOf(err)
	return d
}

func manifestCode(k manifest.ErrorKind) Code {
	switch k {
	case manifest.ErrRead:
		return PrjManifestRead
	case manifest.ErrDecode:
		return PrjManifestDecode
	case manifest.ErrUnknownKey:
		return PrjUnknownKey
	case manifest.ErrBadType:
		return PrjBadTypeString
	case manifest.ErrBadModulePath:
		return PrjBadModulePath
	case manifest.ErrUnknownTarget:
		return PrjUnknownTarget
	}
	return UnknownCode
}

func codeOf(err error) Code {
	var (
		se *symbols.Error
		me *types.MismatchError
		le *layout.LayoutError
		re *resolve.Error
	)
	switch {
	case errors.As(err, &re):
		return resolveCode(re.Kind)
	case errors.As(err, &se):
		switch se.Kind {
		case symbols.ErrAlreadyDefined:
			return ResAlreadyDefined
		case symbols.ErrNotFound:
			return ResNotFound
		case symbols.ErrPrivate:
			return ResPrivate
		case symbols.ErrTooManySuperKeywords:
			return ResTooManySuper
		}
	case errors.As(err, &me):
		return ResTypeMismatch
	case errors.As(err, &le):
		switch le.Kind {
		case layout.LayoutErrUndefined:
			return LayUndefined
		case layout.LayoutErrLengthConversion:
			return LayLengthConversion
		case layout.LayoutErrInvalidType:
			return LayInvalidType
		}
	}
	return UnknownCode
}

func resolveCode(k resolve.ErrorKind) Code {
	switch k {
	case resolve.ErrInfiniteSize:
		return ResInfiniteSize
	case resolve.ErrCannotBeDefined:
		return ResCannotBeDefined
	case resolve.ErrNotAType:
		return ResNotAType
	case resolve.ErrDuplicateField:
		return ResDuplicateField
	case resolve.ErrInvalidType:
		return ResInvalidType
	}
	return UnknownCode
}
