package seqgo

import (
	"github.com/hupe1980/seqgo/alloc"
)

type config[T any] struct {
	allocator alloc.Allocator[T]
	ops       Ops[T]
	logger    *Logger
}

func newConfig[T any](opts []Option[T]) config[T] {
	cfg := config[T]{
		allocator: alloc.Heap[T]{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a sequence at construction time.
type Option[T any] func(*config[T])

// WithAllocator sets the storage allocator. The default is the Go heap.
// All storage a sequence ever holds comes from this allocator, so it must
// outlive the sequence.
func WithAllocator[T any](a alloc.Allocator[T]) Option[T] {
	return func(c *config[T]) {
		if a != nil {
			c.allocator = a
		}
	}
}

// WithOps sets the element lifecycle capability set. The default (zero Ops)
// gives plain value semantics.
func WithOps[T any](ops Ops[T]) Option[T] {
	return func(c *config[T]) {
		c.ops = ops
	}
}

// WithLogger attaches a logger. Growth and migration events are emitted at
// Debug level. The default is no logging.
func WithLogger[T any](l *Logger) Option[T] {
	return func(c *config[T]) {
		c.logger = l
	}
}
