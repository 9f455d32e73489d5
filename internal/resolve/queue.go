package resolve

import (
	"errors"
	"slices"
	"strings"

	"cool/internal/layout"
	"cool/internal/source"
	"cool/internal/symbols"
	"cool/internal/types"
)

// EntryKind is the kind of a queued declaration.
type EntryKind uint8

const (
	EntryStruct EntryKind = iota + 1
	EntryAlias
	EntryFn
	EntryStatic
	EntryUse
)

func (k EntryKind) String() string {
	switch k {
	case EntryStruct:
		return "struct"
	case EntryAlias:
		return "alias"
	case EntryFn:
		return "fn"
	case EntryStatic:
		return "static"
	case EntryUse:
		return "use"
	default:
		return "invalid"
	}
}

type entry struct {
	kind     EntryKind
	module   symbols.ModuleID
	item     symbols.ItemID // NoItemID for a use that is not declared yet
	exported bool

	structType types.TypeID
	fields     []FieldExpr
	expr       TypeExpr // alias target, fn signature, static type

	path  []source.StringID // use
	alias source.StringID
	span  source.Span

	lastErr error
}

// Outcome is the result of one attempt at defining a queued item.
type Outcome uint8

const (
	Defined Outcome = iota + 1
	Deferred
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Defined:
		return "defined"
	case Deferred:
		return "deferred"
	case Failed:
		return "failed"
	default:
		return "invalid"
	}
}

// DeclareStruct declares a struct item, mints its nominal type and queues
// its body.
func (c *Context) DeclareStruct(parent symbols.ModuleID, exported bool, name source.StringID, fields []FieldExpr) (symbols.ItemID, types.TypeID, error) {
	item, err := c.Table.DeclareItem(parent, symbols.ItemStruct, exported, name)
	if err != nil {
		return symbols.NoItemID, types.NoTypeID, err
	}
	ty := c.Types.DeclareStruct(name, uint32(item))
	c.itemTypes[item] = ty
	en := &entry{kind: EntryStruct, module: parent, item: item, exported: exported, structType: ty, fields: fields}
	c.raw[ty] = en
	c.enqueue(en)
	return item, ty, nil
}

// DeclareAlias declares a type alias and queues its target.
func (c *Context) DeclareAlias(parent symbols.ModuleID, exported bool, name source.StringID, target TypeExpr) (symbols.ItemID, error) {
	return c.declareTyped(EntryAlias, symbols.ItemAlias, parent, exported, name, target)
}

// DeclareFn declares a function item whose signature is lowered with MkFn
// once every type it names is available.
func (c *Context) DeclareFn(parent symbols.ModuleID, exported bool, name source.StringID, sig TypeExpr) (symbols.ItemID, error) {
	if sig.Kind != ExprFn {
		return symbols.NoItemID, &Error{Kind: ErrInvalidType, Path: "function signature expected"}
	}
	return c.declareTyped(EntryFn, symbols.ItemFn, parent, exported, name, sig)
}

// DeclareStatic declares a static value of the given type.
func (c *Context) DeclareStatic(parent symbols.ModuleID, exported bool, name source.StringID, ty TypeExpr) (symbols.ItemID, error) {
	return c.declareTyped(EntryStatic, symbols.ItemStatic, parent, exported, name, ty)
}

func (c *Context) declareTyped(kind EntryKind, itemKind symbols.ItemKind, parent symbols.ModuleID, exported bool, name source.StringID, expr TypeExpr) (symbols.ItemID, error) {
	item, err := c.Table.DeclareItem(parent, itemKind, exported, name)
	if err != nil {
		return symbols.NoItemID, err
	}
	c.enqueue(&entry{kind: kind, module: parent, item: item, exported: exported, expr: expr})
	return item, nil
}

// DeclareUse imports path into parent, queueing the import for a later pass
// when a segment is not declared yet. The returned item is NoItemID while
// the import is pending.
func (c *Context) DeclareUse(parent symbols.ModuleID, exported bool, path []source.StringID, alias source.StringID) (symbols.ItemID, error) {
	return c.DeclareUseAt(parent, exported, path, alias, source.Span{})
}

// DeclareUseAt is DeclareUse with the declaration span, kept for the
// pending entry too.
func (c *Context) DeclareUseAt(parent symbols.ModuleID, exported bool, path []source.StringID, alias source.StringID, span source.Span) (symbols.ItemID, error) {
	item, err := c.Table.InsertUse(parent, exported, path, alias)
	if err == nil {
		c.SetSpan(item, span)
		return item, nil
	}
	var se *symbols.Error
	if errors.As(err, &se) && se.Kind == symbols.ErrNotFound {
		c.enqueue(&entry{kind: EntryUse, module: parent, exported: exported, path: path, alias: alias, span: span, lastErr: err})
		return symbols.NoItemID, nil
	}
	return symbols.NoItemID, err
}

// SetSpan records the declaration span of a queued or declared item.
func (c *Context) SetSpan(item symbols.ItemID, span source.Span) {
	if it := c.Table.Item(item); it != nil {
		it.Span = span
	}
	if en := c.pending[item]; en != nil {
		en.span = span
	}
}

func (c *Context) enqueue(en *entry) {
	c.queue = append(c.queue, en)
	if en.item.IsValid() {
		c.pending[en.item] = en
	}
}

// Pending reports the number of queued entries.
func (c *Context) Pending() int { return len(c.queue) }

// DefineStruct tries to define the body of a declared struct item from
// fields. Deferred means a field type is not available yet; Failed comes
// with a permanent error. A queued entry for item is settled by a Defined
// or Failed outcome and will not be retried by Pass.
func (c *Context) DefineStruct(item symbols.ItemID, fields []FieldExpr) (Outcome, error) {
	outcome, err := c.defineStruct(item, fields)
	if outcome != Deferred {
		c.settle(item, outcome, err)
	}
	return outcome, err
}

// settle drops the pending entry for item from the queue. Only a pending
// entry records a failure, so a call on an already defined struct leaves
// it usable.
func (c *Context) settle(item symbols.ItemID, outcome Outcome, err error) {
	en := c.pending[item]
	if en == nil {
		return
	}
	delete(c.pending, item)
	c.queue = slices.DeleteFunc(c.queue, func(q *entry) bool { return q == en })
	if outcome == Failed {
		c.failed[item] = err
	}
}

func (c *Context) defineStruct(item symbols.ItemID, fields []FieldExpr) (Outcome, error) {
	it := c.Table.Item(item)
	ty, ok := c.itemTypes[item]
	if it == nil || it.Kind != symbols.ItemStruct || !ok {
		return Failed, &Error{Kind: ErrNotAType, Item: item, Path: c.Table.ItemString(item)}
	}
	if c.Types.IsDefined(ty) {
		return Failed, &Error{Kind: ErrCannotBeDefined, Item: item, Path: c.Table.ItemString(item), Err: types.ErrAlreadyDefined}
	}
	path := c.Table.ItemString(item)

	if c.containsByValue(ty, it.Parent, fields) {
		return Failed, &Error{Kind: ErrInfiniteSize, Item: item, Path: path, Span: it.Span}
	}

	seen := make(map[source.StringID]struct{}, len(fields))
	specs := make([]layout.FieldSpec, len(fields))
	for i, f := range fields {
		if _, dup := seen[f.Name]; dup {
			name, _ := c.Strings.Lookup(f.Name)
			return Failed, &Error{Kind: ErrDuplicateField, Item: item, Path: path + "." + name, Span: f.Span}
		}
		seen[f.Name] = struct{}{}
		fty, err := c.Lower(it.Parent, f.Type)
		if err != nil {
			if IsDeferred(err) {
				return Deferred, err
			}
			return Failed, err
		}
		specs[i] = layout.FieldSpec{Name: f.Name, Type: fty}
	}

	def, err := c.Layout.ComputeAggregateLayout(specs)
	if err != nil {
		var lerr *layout.LayoutError
		if errors.As(err, &lerr) && lerr.Kind == layout.LayoutErrUndefined {
			return Deferred, &errDeferred{cause: err}
		}
		return Failed, err
	}
	if err := c.Types.DefineStruct(ty, def); err != nil {
		return Failed, err
	}
	return Defined, nil
}

// PassResult summarizes one pass over the queue.
type PassResult struct {
	Before  int
	After   int
	Defined []symbols.ItemID
	Failed  []error
}

// Progress reports whether the pass shrank the queue.
func (r PassResult) Progress() bool { return r.After < r.Before }

// Pass tries every queued entry once. Entries that become defined or fail
// permanently leave the queue; the rest stay for the next pass.
func (c *Context) Pass() PassResult {
	res := PassResult{Before: len(c.queue)}
	keep := c.queue[:0]
	for _, en := range c.queue {
		outcome, err := c.attempt(en)
		switch outcome {
		case Defined:
			delete(c.pending, en.item)
			res.Defined = append(res.Defined, en.item)
		case Failed:
			delete(c.pending, en.item)
			if en.item.IsValid() {
				c.failed[en.item] = err
			}
			res.Failed = append(res.Failed, c.wrapItemErr(en, err))
		default:
			en.lastErr = err
			keep = append(keep, en)
		}
	}
	clear(c.queue[len(keep):])
	c.queue = keep
	res.After = len(c.queue)
	return res
}

// Finish reports every entry still queued as CannotBeDefined and empties
// the queue.
func (c *Context) Finish() []error {
	if len(c.queue) == 0 {
		return nil
	}
	errs := make([]error, 0, len(c.queue))
	for _, en := range c.queue {
		err := &Error{Kind: ErrCannotBeDefined, Item: en.item, Path: c.entryPath(en), Span: en.span, Err: rootCause(en.lastErr)}
		if en.item.IsValid() {
			c.failed[en.item] = err
			delete(c.pending, en.item)
		}
		errs = append(errs, err)
	}
	clear(c.queue)
	c.queue = c.queue[:0]
	return errs
}

func (c *Context) attempt(en *entry) (Outcome, error) {
	switch en.kind {
	case EntryStruct:
		if c.Types.IsDefined(en.structType) {
			return Defined, nil
		}
		return c.defineStruct(en.item, en.fields)
	case EntryUse:
		item, err := c.Table.InsertUse(en.module, en.exported, en.path, en.alias)
		if err == nil {
			en.item = item
			c.SetSpan(item, en.span)
			return Defined, nil
		}
		var se *symbols.Error
		if errors.As(err, &se) && se.Kind == symbols.ErrNotFound {
			return Deferred, err
		}
		return Failed, err
	default:
		ty, err := c.Lower(en.module, en.expr)
		if err != nil {
			if IsDeferred(err) {
				return Deferred, err
			}
			return Failed, err
		}
		c.itemTypes[en.item] = ty
		return Defined, nil
	}
}

func (c *Context) wrapItemErr(en *entry, err error) error {
	var re *Error
	if errors.As(err, &re) && re.Item == en.item {
		if re.Span.Empty() {
			re.Span = en.span
		}
		return err
	}
	return &Error{Kind: ErrCannotBeDefined, Item: en.item, Path: c.entryPath(en), Span: en.span, Err: err}
}

func (c *Context) entryPath(en *entry) string {
	if en.item.IsValid() {
		return c.Table.ItemString(en.item)
	}
	segs := make([]string, len(en.path))
	for i, seg := range en.path {
		segs[i], _ = c.Strings.Lookup(seg)
	}
	return "use " + strings.Join(segs, ".") + " in " + c.Table.ModuleString(en.module)
}

func rootCause(err error) error {
	var d *errDeferred
	if errors.As(err, &d) {
		return d.cause
	}
	return err
}
