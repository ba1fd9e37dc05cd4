package seqgo

import (
	"context"

	"github.com/hupe1980/seqgo/alloc"
)

// block owns one contiguous storage region sized for exactly cap() elements,
// none of which it considers live: element lifetime is the owner's business.
// A block is move-only: ownership transfers through swap/moveFrom and the
// region is returned to its allocator by release. Blocks must not be copied;
// Sequence carries the noCopy marker that makes go vet enforce this for the
// whole container.
type block[T any] struct {
	// elems is the whole region: len == cap == capacity, nil when capacity 0.
	elems     []T
	allocator alloc.Allocator[T]
}

// acquireBlock requests storage for n elements from a. On failure no partial
// state is retained. n == 0 is legal and allocates nothing.
func acquireBlock[T any](ctx context.Context, a alloc.Allocator[T], n int) (block[T], error) {
	elems, err := a.Acquire(ctx, n)
	if err != nil {
		return block[T]{}, err
	}
	return block[T]{elems: elems, allocator: a}, nil
}

// cap returns the element count the region can hold.
func (b *block[T]) cap() int {
	return len(b.elems)
}

// at returns the slot at offset i. The slot may be uninitialized; liveness is
// the owner's contract. i must be < cap.
func (b *block[T]) at(i int) *T {
	if i < 0 || i >= len(b.elems) {
		panic("seqgo: block offset out of range")
	}
	return &b.elems[i]
}

// slice returns the slots in [lo, hi). hi == cap is legal, covering the
// one-past-end position of pointer arithmetic.
func (b *block[T]) slice(lo, hi int) []T {
	if lo < 0 || hi < lo || hi > len(b.elems) {
		panic("seqgo: block range out of range")
	}
	return b.elems[lo:hi]
}

// swap exchanges the regions of two blocks. Never fails, never touches
// element state.
func (b *block[T]) swap(other *block[T]) {
	b.elems, other.elems = other.elems, b.elems
	b.allocator, other.allocator = other.allocator, b.allocator
}

// moveFrom releases b's own region and adopts other's; other is left in the
// capacity-0 state. The owner must have destroyed b's live elements first.
func (b *block[T]) moveFrom(other *block[T]) {
	if b == other {
		return
	}
	b.release()
	b.elems, b.allocator = other.elems, other.allocator
	other.elems = nil
}

// release returns the region to its allocator and resets to capacity 0.
// Live elements must have been destroyed by the owner beforehand.
func (b *block[T]) release() {
	if b.elems != nil {
		b.allocator.Release(b.elems)
		b.elems = nil
	}
}
