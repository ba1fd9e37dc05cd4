// Package seqgo provides a generic, growable, contiguous sequence container
// with explicit control over storage acquisition and element lifetime.
//
// A Sequence[T] owns exactly one storage block and manages a live prefix of
// constructed elements inside it. Storage comes from an alloc.Allocator (Go
// heap by default, off-heap or budget-limited variants available); element
// lifetime is described by an optional Ops[T] capability set whose operations
// may fail, mirroring element types that can fail during construction, copy
// or assignment.
//
// # Quick Start
//
//	s := seqgo.New[int]()
//	defer s.Close()
//
//	_ = s.PushBack(1)
//	_ = s.PushBack(2)
//	_ = s.Insert(1, 42)   // [1 42 2]
//	_ = s.Erase(0)        // [42 2]
//
//	for i, v := range s.All() {
//	    fmt.Println(i, v)
//	}
//
// # Failure Guarantees
//
// Every mutating operation documents its guarantee when an allocation or an
// element operation fails:
//
//   - strong: the sequence is exactly as it was before the call
//     (Reserve, PushBack, EmplaceBack growth paths, the reallocating branch
//     of CopyFrom)
//   - basic: the sequence is valid but possibly partially updated
//     (the in-place branch of CopyFrom, mid-shift failures in Insert/Erase)
//
// The discipline behind the strong paths is build-new-then-swap: committed
// state is never torn down until its replacement is fully constructed.
//
// # Ownership Model
//
// Sequences are single-owner values: no internal synchronization, exactly one
// goroutine may mutate a sequence at a time. Storage ownership is tree-shaped
// (one block per sequence, no sharing), so use-after-free is structurally
// impossible as long as Close is only called by the owner.
//
// Contract violations (out-of-range indices, PopBack on an empty sequence)
// panic rather than return errors; they are caller bugs, not runtime
// conditions.
package seqgo
