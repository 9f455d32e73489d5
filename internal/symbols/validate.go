package symbols

import (
	"errors"
	"fmt"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	if t.items.Len() != t.paths.Len() {
		errs = append(errs, fmt.Errorf("item count %d differs from path count %d", t.items.Len(), t.paths.Len()))
	}

	// Check items against their owning modules.
	for id, it := range t.items.All() {
		if it.Kind == ItemInvalid {
			errs = append(errs, fmt.Errorf("item %d has invalid kind", id))
		}
		segs := t.Path(id.Path())
		if len(segs) == 0 || segs[len(segs)-1] != it.Name {
			errs = append(errs, fmt.Errorf("item %d path does not end in its name", id))
		}
		if it.Kind == ItemModule {
			m := t.Module(it.Module)
			if m == nil || m.Item != id {
				errs = append(errs, fmt.Errorf("module item %d missing module backlink", id))
			}
		}
		if it.Kind == ItemUse && !it.Target.IsValid() {
			errs = append(errs, fmt.Errorf("use item %d has no target", id))
		}
		if !it.Parent.IsValid() {
			continue
		}
		p := t.Module(it.Parent)
		if p == nil {
			errs = append(errs, fmt.Errorf("item %d has invalid parent %d", id, it.Parent))
			continue
		}
		if entry, ok := p.Entries[it.Name]; !ok || entry.Item != id {
			errs = append(errs, fmt.Errorf("item %d missing from module %d entries", id, it.Parent))
		}
		if len(segs) != p.Depth+2 {
			errs = append(errs, fmt.Errorf("item %d path length %d inconsistent with parent depth %d", id, len(segs), p.Depth))
		}
	}

	// Check modules.
	for id, m := range t.modules.All() {
		if len(m.Order) != len(m.Entries) {
			errs = append(errs, fmt.Errorf("module %d order has %d names for %d entries", id, len(m.Order), len(m.Entries)))
		}
		for name, entry := range m.Entries {
			it := t.Item(entry.Item)
			if it == nil || it.Parent != id || it.Name != name {
				errs = append(errs, fmt.Errorf("module %d entry %d references foreign item %d", id, name, entry.Item))
			}
		}
		if m.Parent.IsValid() {
			if p := t.Module(m.Parent); p == nil || p.Root != m.Root || p.Depth+1 != m.Depth {
				errs = append(errs, fmt.Errorf("module %d inconsistent with parent %d", id, m.Parent))
			}
		} else if m.Root != id {
			errs = append(errs, fmt.Errorf("root module %d has root %d", id, m.Root))
		}
	}

	// Check frames and bindings.
	for id, f := range t.frames.All() {
		if f.Parent.IsValid() && (f.Parent >= id || t.Frame(f.Parent) == nil) {
			errs = append(errs, fmt.Errorf("frame %d has invalid parent %d", id, f.Parent))
		}
		if t.Module(f.Module) == nil {
			errs = append(errs, fmt.Errorf("frame %d has invalid module %d", id, f.Module))
		}
		for name, b := range f.Bindings {
			bb := t.Binding(b)
			if bb == nil || bb.Frame != id || bb.Name != name {
				errs = append(errs, fmt.Errorf("frame %d binding %d inconsistent", id, b))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
