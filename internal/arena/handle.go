package arena

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Handle is implemented by every dense index kind (TypeID, ItemID, ...).
type Handle interface {
	~uint32
}

// ErrExhausted reports that an arena ran out of 32-bit handles. It is raised
// as a panic: a compilation cannot continue once a table is full.
var ErrExhausted = errors.New("arena: handle space exhausted")

func mint[H Handle](n int) H {
	value, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrExhausted, err))
	}
	return H(value)
}
