// Package alloc provides the storage acquisition capability consumed by
// sequence blocks.
//
// An Allocator answers requests for element-count-sized regions of storage.
// It knows nothing about element lifetime: every slot it hands out is
// uninitialized (zero-valued) and the caller decides which slots hold live
// elements. Byte sizing (count x element size) happens inside the
// implementations.
//
// Built-in allocators:
//
//   - Heap: Go runtime allocation, the default
//   - OffHeap: anonymous mmap pages outside the garbage collector, for
//     pointer-free element types
//   - Limited: decorates another allocator with a hard byte budget and an
//     optional allocation-rate limit
package alloc

import (
	"context"
	"errors"
	"math"
	"unsafe"
)

// ErrSizeOverflow is returned when count x element size does not fit in int.
var ErrSizeOverflow = errors.New("alloc: allocation size overflows int")

// Allocator yields storage for n elements or fails. Implementations must not
// retain partial state on failure.
type Allocator[T any] interface {
	// Acquire returns storage for n elements with len == cap == n.
	// n == 0 is legal and returns nil. n < 0 is a caller contract violation
	// and panics.
	Acquire(ctx context.Context, n int) ([]T, error)

	// Release returns storage previously obtained from Acquire on the same
	// allocator. Releasing nil is a no-op.
	Release(s []T)
}

// SizeOf returns the in-memory size of the element type in bytes.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// byteSize computes n elements' worth of bytes, guarding against overflow.
func byteSize[T any](n int) (int, error) {
	size := SizeOf[T]()
	if size > 0 && n > math.MaxInt/size {
		return 0, ErrSizeOverflow
	}
	return n * size, nil
}

func assertCount(n int) {
	if n < 0 {
		panic("alloc: negative element count")
	}
}

// Heap allocates from the Go runtime. Release is a no-op; the garbage
// collector reclaims the region once no live slice references it.
type Heap[T any] struct{}

// Acquire returns a zeroed slice of n elements.
func (Heap[T]) Acquire(_ context.Context, n int) ([]T, error) {
	assertCount(n)
	if n == 0 {
		return nil, nil
	}
	if _, err := byteSize[T](n); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

// Release is a no-op for heap storage.
func (Heap[T]) Release([]T) {}
