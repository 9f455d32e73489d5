package resolve

import (
	"errors"

	"cool/internal/source"
	"cool/internal/symbols"
	"cool/internal/types"
)

// Lower resolves every name in expr from scope and interns the result. A
// reference to an item that may still be defined later yields an error for
// which IsDeferred is true; any other error is permanent.
func (c *Context) Lower(scope symbols.ModuleID, expr TypeExpr) (types.TypeID, error) {
	switch expr.Kind {
	case ExprPath:
		return c.lowerPath(scope, expr.Path)
	case ExprInfer:
		return c.Types.Builtins().Infer, nil
	case ExprPointer, ExprManyPointer, ExprSlice, ExprArray:
		if expr.Elem == nil {
			return types.NoTypeID, &Error{Kind: ErrInvalidType, Path: "missing element type"}
		}
		elem, err := c.Lower(scope, *expr.Elem)
		if err != nil {
			return types.NoTypeID, err
		}
		switch expr.Kind {
		case ExprPointer:
			return c.Types.MkPointer(elem, expr.Mutable), nil
		case ExprManyPointer:
			return c.Types.MkManyPointer(elem, expr.Mutable), nil
		case ExprSlice:
			return c.Types.MkSlice(elem, expr.Mutable), nil
		default:
			return c.Types.MkArray(elem, expr.Count), nil
		}
	case ExprTuple, ExprVariant:
		elems, err := c.lowerAll(scope, expr.Elems)
		if err != nil {
			return types.NoTypeID, err
		}
		if expr.Kind == ExprTuple {
			return c.Types.MkTuple(elems), nil
		}
		return c.Types.MkVariant(elems), nil
	case ExprFn:
		params, err := c.lowerAll(scope, expr.Elems)
		if err != nil {
			return types.NoTypeID, err
		}
		result := c.Types.Builtins().Unit
		if expr.Result != nil {
			if result, err = c.Lower(scope, *expr.Result); err != nil {
				return types.NoTypeID, err
			}
		}
		return c.Types.MkFn(expr.ABI, params, expr.Variadic, result), nil
	default:
		return types.NoTypeID, &Error{Kind: ErrInvalidType, Path: "empty type expression"}
	}
}

func (c *Context) lowerAll(scope symbols.ModuleID, exprs []TypeExpr) ([]types.TypeID, error) {
	out := make([]types.TypeID, len(exprs))
	for i, e := range exprs {
		id, err := c.Lower(scope, e)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func (c *Context) lowerPath(scope symbols.ModuleID, path []source.StringID) (types.TypeID, error) {
	item, err := c.Table.ResolvePath(scope, path)
	if err != nil {
		var se *symbols.Error
		if errors.As(err, &se) && se.Kind == symbols.ErrNotFound {
			// a later pass may declare it through a deferred use
			return types.NoTypeID, &errDeferred{cause: err}
		}
		return types.NoTypeID, err
	}
	switch c.Table.Item(item).Kind {
	case symbols.ItemPrimitive, symbols.ItemStruct, symbols.ItemAlias:
	default:
		return types.NoTypeID, &Error{Kind: ErrNotAType, Item: item, Path: c.Table.ItemString(item)}
	}
	// struct items carry a type from declaration on, failed or not
	if cause, ok := c.failed[item]; ok {
		return types.NoTypeID, &Error{Kind: ErrCannotBeDefined, Item: item, Path: c.Table.ItemString(item), Err: cause}
	}
	if ty, ok := c.itemTypes[item]; ok {
		return ty, nil
	}
	return types.NoTypeID, &errDeferred{cause: &Error{Kind: ErrCannotBeDefined, Item: item, Path: c.Table.ItemString(item)}}
}
