package arena

import "iter"

const (
	chunkBits = 8
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1
)

// Dense is an append-only array addressed by handles. The zero value is ready
// to use; slot 0 is reserved for the sentinel.
type Dense[H Handle, V any] struct {
	chunks []*[chunkSize]V
	n      int // slots in use, sentinel included
}

func (d *Dense[H, V]) init() {
	if d.n == 0 {
		d.chunks = append(d.chunks, new([chunkSize]V))
		d.n = 1
	}
}

// Push stores v in the next slot and returns its handle.
func (d *Dense[H, V]) Push(v V) H {
	d.init()
	h := mint[H](d.n)
	ci := d.n >> chunkBits
	if ci == len(d.chunks) {
		d.chunks = append(d.chunks, new([chunkSize]V))
	}
	d.chunks[ci][d.n&chunkMask] = v
	d.n++
	return h
}

// Get returns a pointer to the stored value or nil for an invalid handle.
// The pointer is never invalidated by subsequent pushes.
func (d *Dense[H, V]) Get(h H) *V {
	if h == 0 || int(h) >= d.n {
		return nil
	}
	return &d.chunks[int(h)>>chunkBits][int(h)&chunkMask]
}

// Has reports whether h refers to a stored value.
func (d *Dense[H, V]) Has(h H) bool {
	return h != 0 && int(h) < d.n
}

// Len reports the number of stored values, excluding the sentinel.
func (d *Dense[H, V]) Len() int {
	if d.n == 0 {
		return 0
	}
	return d.n - 1
}

// All iterates stored values in handle order.
func (d *Dense[H, V]) All() iter.Seq2[H, *V] {
	return func(yield func(H, *V) bool) {
		for i := 1; i < d.n; i++ {
			if !yield(H(uint32(i)), &d.chunks[i>>chunkBits][i&chunkMask]) {
				return
			}
		}
	}
}
