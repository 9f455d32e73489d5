package layout

import "cool/internal/types"

// cache only holds successful layouts: a failure may stem from a struct
// that gets defined later.
type cache struct {
	byType map[types.TypeID]TypeLayout
}

func newCache() *cache {
	return &cache{byType: make(map[types.TypeID]TypeLayout, 256)}
}

func (c *cache) get(id types.TypeID) (TypeLayout, bool) {
	if c == nil {
		return TypeLayout{}, false
	}
	l, ok := c.byType[id]
	return l, ok
}

func (c *cache) put(id types.TypeID, l TypeLayout) {
	if c == nil {
		return
	}
	c.byType[id] = l
}

func (c *cache) len() int {
	if c == nil {
		return 0
	}
	return len(c.byType)
}
