package alloc

import (
	"context"
	"fmt"

	"github.com/hupe1980/seqgo/internal/resource"
)

// ErrMemoryLimitExceeded is returned when a Limited allocator's byte budget
// would be exceeded.
var ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

// Budget configures a Limited allocator.
type Budget struct {
	// MemoryLimitBytes is the hard limit for storage held through this
	// allocator. If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// AllocBytesPerSec caps allocation throughput. Acquire blocks (honoring
	// its context) until the token bucket admits the request. If 0, unlimited.
	AllocBytesPerSec int64
}

// Limited decorates another Allocator with a byte budget. Acquisitions that
// would exceed the budget fail fast with ErrMemoryLimitExceeded and leave the
// budget untouched.
type Limited[T any] struct {
	inner Allocator[T]
	rc    *resource.Controller
}

// NewLimited wraps inner with the given budget.
func NewLimited[T any](inner Allocator[T], budget Budget) *Limited[T] {
	return &Limited[T]{
		inner: inner,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes: budget.MemoryLimitBytes,
			AllocBytesPerSec: budget.AllocBytesPerSec,
		}),
	}
}

// Acquire reserves n elements' worth of bytes against the budget, then
// delegates to the inner allocator. A failed delegation returns the
// reservation.
func (a *Limited[T]) Acquire(ctx context.Context, n int) ([]T, error) {
	assertCount(n)
	if n == 0 {
		return nil, nil
	}

	bytes, err := byteSize[T](n)
	if err != nil {
		return nil, err
	}

	if err := a.rc.WaitAlloc(ctx, bytes); err != nil {
		return nil, fmt.Errorf("alloc: throughput wait for %d bytes: %w", bytes, err)
	}

	if err := a.rc.AcquireMemory(int64(bytes)); err != nil {
		return nil, fmt.Errorf("alloc: acquire %d bytes: %w", bytes, err)
	}

	s, err := a.inner.Acquire(ctx, n)
	if err != nil {
		a.rc.ReleaseMemory(int64(bytes))
		return nil, err
	}
	return s, nil
}

// Release returns storage to the inner allocator and the bytes to the budget.
func (a *Limited[T]) Release(s []T) {
	if len(s) == 0 {
		return
	}
	a.inner.Release(s)

	bytes, err := byteSize[T](len(s))
	if err != nil {
		// Acquire already vetted this size; unreachable for owned storage.
		return
	}
	a.rc.ReleaseMemory(int64(bytes))
}

// Usage returns the bytes currently charged against the budget.
func (a *Limited[T]) Usage() int64 {
	return a.rc.MemoryUsage()
}

// Limit returns the configured byte limit (0 if unlimited).
func (a *Limited[T]) Limit() int64 {
	return a.rc.MemoryLimit()
}
