// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"cool/internal/manifest"
	"cool/internal/source"
)

// CheckManifestSpans verifies the spans recorded on a decoded manifest:
//  1. every set span points at the manifest's own file
//  2. every set span is well-formed and within the file content
//
// The zero Span counts as unset.
// All violations are joined.
func CheckManifestSpans(m *manifest.Manifest, sf *source.File) error {
	if m == nil || sf == nil {
		return errors.New("nil manifest or file")
	}
	if m.File != sf.ID {
		return fmt.Errorf("manifest file id %d, want %d", m.File, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var errs []error
	check := func(what string, sp source.Span) {
		switch {
		case sp == source.Span{}:
		case sp.File != sf.ID:
			errs = append(errs, fmt.Errorf("%s: span file mismatch: got=%d want=%d", what, sp.File, sf.ID))
		case sp.End < sp.Start:
			errs = append(errs, fmt.Errorf("%s: inverted span %v", what, sp))
		case sp.End > size:
			errs = append(errs, fmt.Errorf("%s: span %v beyond content (%d bytes)", what, sp, size))
		}
	}

	check("crate", m.Crate.Span)
	if m.Target != "" {
		check("target", m.TargetSpan)
	}
	for i, d := range m.Modules {
		check(fmt.Sprintf("module[%d] %s", i, d.Path), d.Span)
	}
	for i, d := range m.Structs {
		check(fmt.Sprintf("struct[%d] %s", i, d.Name), d.Span)
	}
	for i, d := range m.Aliases {
		check(fmt.Sprintf("alias[%d] %s", i, d.Name), d.Span)
	}
	for i, d := range m.Uses {
		check(fmt.Sprintf("use[%d] %s", i, d.Path), d.Span)
	}
	for i, d := range m.Fns {
		check(fmt.Sprintf("fn[%d] %s", i, d.Name), d.Span)
	}
	for i, d := range m.Statics {
		check(fmt.Sprintf("static[%d] %s", i, d.Name), d.Span)
	}
	return errors.Join(errs...)
}
