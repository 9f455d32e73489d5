package arena

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

type testID uint32

func TestDenseReservesSentinel(t *testing.T) {
	var d Dense[testID, string]
	if d.Len() != 0 {
		t.Fatalf("expected empty arena, got len=%d", d.Len())
	}
	if d.Get(0) != nil {
		t.Fatalf("handle 0 must never resolve")
	}
	id := d.Push("first")
	if id != 1 {
		t.Fatalf("first handle must be 1, got %d", id)
	}
	if got := *d.Get(id); got != "first" {
		t.Fatalf("unexpected value %q", got)
	}
	if d.Get(id+1) != nil {
		t.Fatalf("out-of-range handle must not resolve")
	}
}

func TestDensePointersSurviveGrowth(t *testing.T) {
	var d Dense[testID, int]
	first := d.Push(42)
	ptr := d.Get(first)
	for i := range chunkSize * 8 {
		d.Push(i)
	}
	if ptr != d.Get(first) {
		t.Fatalf("pointer to first slot moved after growth")
	}
	if *ptr != 42 {
		t.Fatalf("value behind stable pointer changed: %d", *ptr)
	}
	if d.Len() != chunkSize*8+1 {
		t.Fatalf("unexpected len %d", d.Len())
	}
}

func TestDenseAllVisitsInOrder(t *testing.T) {
	var d Dense[testID, int]
	for i := 1; i <= 5; i++ {
		d.Push(i * 10)
	}
	want := testID(1)
	for id, v := range d.All() {
		if id != want || *v != int(id)*10 {
			t.Fatalf("unexpected entry %d=%d", id, *v)
		}
		want++
	}
	if want != 6 {
		t.Fatalf("iteration stopped early at %d", want)
	}
}

func TestInternerIdempotent(t *testing.T) {
	in := NewInterner[testID, string](0)
	a := in.Intern("alpha")
	in.Intern("beta")
	in.Intern("gamma")
	if again := in.Intern("alpha"); again != a {
		t.Fatalf("re-interning returned %d, want %d", again, a)
	}
	if got, ok := in.Lookup("alpha"); !ok || got != a {
		t.Fatalf("lookup returned %d,%v", got, ok)
	}
	if _, ok := in.Lookup("delta"); ok {
		t.Fatalf("lookup of absent value must fail")
	}
	if in.Len() != 3 {
		t.Fatalf("expected 3 distinct values, got %d", in.Len())
	}
}

func TestInternerInsertIfAbsent(t *testing.T) {
	in := NewInterner[testID, string](0)
	first, ok := in.InsertIfAbsent("x")
	if !ok {
		t.Fatalf("first insert must succeed")
	}
	second, ok := in.InsertIfAbsent("x")
	if ok {
		t.Fatalf("second insert of equal value must fail")
	}
	if second != first {
		t.Fatalf("failed insert must report existing handle")
	}
	if v := in.MustGet(first); v != "x" {
		t.Fatalf("stored value changed: %q", v)
	}
}

func TestInternerZeroValue(t *testing.T) {
	var in Interner[testID, int]
	if h := in.Intern(7); h != 1 {
		t.Fatalf("zero-value interner returned %d", h)
	}
}

func TestSliceInternerStructuralIdentity(t *testing.T) {
	in := NewSliceInterner[testID, uint32](0)
	ab := in.Intern([]uint32{1, 2})
	ba := in.Intern([]uint32{2, 1})
	if ab == ba {
		t.Fatalf("order must be significant")
	}
	buf := []uint32{1, 2}
	again := in.Intern(buf)
	if again != ab {
		t.Fatalf("equal sequence interned to %d, want %d", again, ab)
	}
	buf[0] = 99
	stored, _ := in.Get(ab)
	if stored[0] != 1 {
		t.Fatalf("arena must keep a private copy")
	}
	empty := in.Intern(nil)
	if other := in.Intern([]uint32{}); other != empty {
		t.Fatalf("nil and empty sequences must share a handle")
	}
}

func TestSliceInternerSurvivesRehash(t *testing.T) {
	in := NewSliceInterner[testID, string](0)
	handles := make(map[string]testID)
	for i := range 1000 {
		key := fmt.Sprintf("seg%d", i)
		handles[key] = in.Intern([]string{"pkg", key})
	}
	for key, want := range handles {
		got, ok := in.Lookup([]string{"pkg", key})
		if !ok || got != want {
			t.Fatalf("lookup %s = %d,%v want %d", key, got, ok, want)
		}
	}
	if in.Len() != 1000 {
		t.Fatalf("unexpected len %d", in.Len())
	}
}

func TestSliceInternerInsertIfAbsent(t *testing.T) {
	var in SliceInterner[testID, string]
	if _, ok := in.Lookup([]string{"a"}); ok {
		t.Fatalf("lookup on empty interner must fail")
	}
	h, ok := in.InsertIfAbsent([]string{"a", "b"})
	if !ok || h == 0 {
		t.Fatalf("first insert failed: %d,%v", h, ok)
	}
	if dup, ok := in.InsertIfAbsent([]string{"a", "b"}); ok || dup != h {
		t.Fatalf("duplicate insert returned %d,%v", dup, ok)
	}
}

func TestMintPanicsOnExhaustion(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrExhausted) {
			t.Fatalf("expected ErrExhausted panic, got %v", r)
		}
	}()
	mint[testID](math.MaxInt)
}
