package alloc

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"unsafe"

	"github.com/hupe1980/seqgo/internal/mmap"
)

// ErrPointerType is returned when an off-heap allocator is requested for an
// element type that contains Go pointers.
var ErrPointerType = errors.New("alloc: off-heap storage requires a pointer-free element type")

// OffHeap allocates element storage from anonymous memory mappings outside
// the Go garbage collector's view. This keeps very large sequences from
// inflating GC scan times, at the cost of a hard restriction: the element
// type must not contain Go pointers (the collector does not scan mapped
// pages, so anything referenced only from them would be collected early).
//
// Safe for concurrent use by distinct sequences; a single sequence still
// follows the single-owner model.
type OffHeap[T any] struct {
	mu       sync.Mutex
	mappings map[uintptr]*mmap.Mapping
}

// NewOffHeap creates an off-heap allocator for T.
// Returns ErrPointerType if T contains Go pointers.
func NewOffHeap[T any]() (*OffHeap[T], error) {
	if typeHasPointers(reflect.TypeFor[T]()) {
		return nil, ErrPointerType
	}
	return &OffHeap[T]{
		mappings: make(map[uintptr]*mmap.Mapping),
	}, nil
}

// Acquire maps n elements' worth of zeroed pages.
func (a *OffHeap[T]) Acquire(_ context.Context, n int) ([]T, error) {
	assertCount(n)
	if n == 0 {
		return nil, nil
	}

	bytes, err := byteSize[T](n)
	if err != nil {
		return nil, err
	}
	if bytes == 0 {
		// Zero-size element type occupies no memory
		return make([]T, n), nil
	}

	m, err := mmap.MapAnon(bytes)
	if err != nil {
		return nil, err
	}

	base := unsafe.Pointer(&m.Bytes()[0])
	s := unsafe.Slice((*T)(base), n)

	a.mu.Lock()
	a.mappings[uintptr(base)] = m
	a.mu.Unlock()

	return s, nil
}

// Release unmaps storage previously returned by Acquire.
// Releasing a slice this allocator did not hand out panics.
func (a *OffHeap[T]) Release(s []T) {
	if len(s) == 0 {
		return
	}

	base := uintptr(unsafe.Pointer(&s[0]))

	a.mu.Lock()
	m, ok := a.mappings[base]
	if ok {
		delete(a.mappings, base)
	}
	a.mu.Unlock()

	if !ok {
		if SizeOf[T]() == 0 {
			return // zero-size storage came from the heap
		}
		panic("alloc: Release of storage not owned by this allocator")
	}

	// The munmap error is not actionable here; the region is gone either way.
	_ = m.Close()
}

// Mapped returns the number of regions currently held by the allocator.
func (a *OffHeap[T]) Mapped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mappings)
}

// typeHasPointers reports whether values of t contain Go pointers the
// garbage collector would need to scan.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Ptr, UnsafePointer, Slice, String, Map, Chan, Func, Interface
		return true
	}
}
