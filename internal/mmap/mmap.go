// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// MapAnon creates read-write anonymous mappings outside the Go garbage
// collector's view. The alloc package uses these to back element storage for
// pointer-free types, keeping large sequences from inflating GC scan times.
//
// The returned memory must never hold Go pointers: the collector does not
// scan it, so anything referenced only from a mapping is collected early.
package mmap

import (
	"errors"
	"sync/atomic"
)

// ErrInvalidSize is returned when a non-positive mapping size is requested.
var ErrInvalidSize = errors.New("mmap: invalid size")

// Mapping is an anonymous memory region. It owns the underlying byte slice
// and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
	// unmap is the platform-specific function to release the region.
	unmap func([]byte) error
}

// MapAnon creates a read-write anonymous mapping of the given size in bytes.
// The memory is zero-initialized by the OS.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		unmap: unmapFunc,
	}, nil
}

// Close unmaps the region. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Bytes returns the underlying byte slice.
// The slice is valid only until Close is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}
