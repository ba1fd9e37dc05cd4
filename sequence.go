package seqgo

import (
	"context"

	"github.com/hupe1980/seqgo/alloc"
)

// noCopy makes go vet's copylocks check flag copies of Sequence values.
// A copied sequence would double-own its storage block.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Sequence is a growable, contiguous container of T. It owns exactly one
// storage block; the elements at positions [0, Len()) are live, the slots at
// [Len(), Cap()) are uninitialized capacity. Every mutating operation
// restores this invariant before returning, including on failure.
//
// Sequences follow a single-owner model: no internal synchronization.
type Sequence[T any] struct {
	noCopy noCopy

	blk       block[T]
	size      int
	ops       Ops[T]
	allocator alloc.Allocator[T]
	logger    *Logger
}

// New creates an empty sequence (capacity 0). Never fails.
func New[T any](opts ...Option[T]) *Sequence[T] {
	cfg := newConfig(opts)
	return &Sequence[T]{
		ops:       cfg.ops,
		allocator: cfg.allocator,
		logger:    cfg.logger,
	}
}

// NewSize creates a sequence of n default-constructed elements. If the
// allocation or any element construction fails, everything constructed so
// far is destroyed before the error is returned.
func NewSize[T any](n int, opts ...Option[T]) (*Sequence[T], error) {
	if n < 0 {
		panic("seqgo: negative size")
	}
	s := New[T](opts...)

	blk, err := acquireBlock(context.Background(), s.allocator, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := s.ops.newElem()
		if err != nil {
			s.ops.destroyRange(blk.slice(0, i))
			blk.release()
			return nil, err
		}
		*blk.at(i) = v
	}
	s.blk = blk
	s.size = n
	return s, nil
}

// Len returns the number of live elements.
func (s *Sequence[T]) Len() int { return s.size }

// Cap returns the element count the current block can hold.
func (s *Sequence[T]) Cap() int { return s.blk.cap() }

// At returns a pointer to the element at index i. The pointer is invalidated
// by any operation that reallocates or shifts elements. i must be < Len().
func (s *Sequence[T]) At(i int) *T {
	s.assertIndex(i)
	return s.blk.at(i)
}

// Get returns the element at index i. i must be < Len().
func (s *Sequence[T]) Get(i int) T {
	s.assertIndex(i)
	return *s.blk.at(i)
}

// Set replaces the element at index i with v, destroying the previous
// element and taking ownership of v. i must be < Len().
func (s *Sequence[T]) Set(i int, v T) {
	s.assertIndex(i)
	ptr := s.blk.at(i)
	s.ops.destroy(ptr)
	*ptr = v
}

// Clone returns a deep copy with independent storage sized to Len().
// Fails with ErrNotCopyable for move-only element types.
func (s *Sequence[T]) Clone() (*Sequence[T], error) {
	if !s.ops.copyable() {
		return nil, ErrNotCopyable
	}
	return s.cloneWith(s.allocator, s.ops, s.logger)
}

// CopyFrom copy-assigns rhs's contents over s.
//
// If rhs does not fit in s's current capacity, a full copy is built first and
// swapped in: on failure s is unmodified (strong guarantee). Otherwise the
// overlapping prefix is assigned element-wise and the tail is destroyed
// (shrinking) or copy-constructed (growing); a failure on this in-place path
// leaves s valid but possibly partially updated (basic guarantee).
func (s *Sequence[T]) CopyFrom(rhs *Sequence[T]) error {
	if s == rhs {
		return nil
	}
	if !s.ops.copyable() {
		return ErrNotCopyable
	}

	if rhs.size > s.Cap() {
		tmp, err := rhs.cloneWith(s.allocator, s.ops, s.logger)
		if err != nil {
			return err
		}
		s.Swap(tmp)
		tmp.Close()
		return nil
	}

	overlap := min(s.size, rhs.size)
	for i := 0; i < overlap; i++ {
		if err := s.ops.assign(s.blk.at(i), rhs.blk.at(i)); err != nil {
			return err
		}
	}

	if rhs.size < s.size {
		s.ops.destroyRange(s.blk.slice(rhs.size, s.size))
	} else {
		for i := s.size; i < rhs.size; i++ {
			v, err := s.ops.copyElem(rhs.blk.at(i))
			if err != nil {
				s.ops.destroyRange(s.blk.slice(s.size, i))
				return err
			}
			*s.blk.at(i) = v
		}
	}
	s.size = rhs.size
	return nil
}

// cloneWith builds a deep copy of s using the given allocator and ops.
func (s *Sequence[T]) cloneWith(a alloc.Allocator[T], ops Ops[T], logger *Logger) (*Sequence[T], error) {
	out := &Sequence[T]{
		ops:       ops,
		allocator: a,
		logger:    logger,
	}
	blk, err := acquireBlock(context.Background(), a, s.size)
	if err != nil {
		return nil, err
	}
	for i := 0; i < s.size; i++ {
		v, err := ops.copyElem(s.blk.at(i))
		if err != nil {
			ops.destroyRange(blk.slice(0, i))
			blk.release()
			return nil, err
		}
		*blk.at(i) = v
	}
	out.blk = blk
	out.size = s.size
	return out, nil
}

// MoveFrom adopts rhs's block and size in O(1), leaving rhs empty. s's own
// elements are destroyed and its block released first. Never fails.
func (s *Sequence[T]) MoveFrom(rhs *Sequence[T]) {
	if s == rhs {
		return
	}
	s.ops.destroyRange(s.liveSlice())
	s.blk.moveFrom(&rhs.blk)
	s.size = rhs.size
	rhs.size = 0
}

// Swap exchanges storage and size with other in O(1). Never fails.
func (s *Sequence[T]) Swap(other *Sequence[T]) {
	s.blk.swap(&other.blk)
	s.size, other.size = other.size, s.size
}

// Reserve ensures capacity >= n. A no-op if capacity is already sufficient;
// otherwise a block of exactly n elements is allocated, the live elements
// migrate into it (move or copy per the migration policy), and the blocks are
// swapped. On failure s is unchanged: the old block is never touched until
// migration has fully succeeded (strong guarantee).
func (s *Sequence[T]) Reserve(n int) error {
	if n < 0 {
		panic("seqgo: negative capacity")
	}
	if n <= s.Cap() {
		return nil
	}
	return s.regrow(n)
}

// regrow replaces the block with one of capacity n >= size, migrating the
// live elements.
func (s *Sequence[T]) regrow(n int) error {
	move := s.ops.preferMove()
	if s.logger != nil {
		s.logger.Debug("sequence grow",
			"from_cap", s.Cap(), "to_cap", n, "len", s.size, "move", move)
	}

	blk, err := acquireBlock(context.Background(), s.allocator, n)
	if err != nil {
		return err
	}
	if err := s.ops.migrate(blk.slice(0, s.size), s.liveSlice()); err != nil {
		blk.release()
		return err
	}
	s.replaceBlock(&blk, move)
	return nil
}

// replaceBlock commits a fully migrated block: copy-migrated originals are
// destroyed, the blocks swap, and the old region is released.
func (s *Sequence[T]) replaceBlock(blk *block[T], moved bool) {
	if !moved {
		s.ops.destroyRange(s.liveSlice())
	}
	s.blk.swap(blk)
	blk.release()
}

// Resize grows (reserve plus default-construct the new tail) or shrinks
// (destroy the trailing excess) to reach length n. A construction failure
// during growth destroys the partially built tail and leaves the length at
// its pre-call value.
func (s *Sequence[T]) Resize(n int) error {
	if n < 0 {
		panic("seqgo: negative size")
	}
	if n < s.size {
		s.ops.destroyRange(s.blk.slice(n, s.size))
		s.size = n
		return nil
	}
	if err := s.Reserve(n); err != nil {
		return err
	}
	for i := s.size; i < n; i++ {
		v, err := s.ops.newElem()
		if err != nil {
			s.ops.destroyRange(s.blk.slice(s.size, i))
			return err
		}
		*s.blk.at(i) = v
	}
	s.size = n
	return nil
}

// PushBack appends v, taking ownership of it. Grows capacity (doubling,
// minimum 1) if needed; on any failure the sequence is unchanged and v is
// not adopted.
func (s *Sequence[T]) PushBack(v T) error {
	_, err := s.EmplaceBack(func() (T, error) { return v, nil })
	return err
}

// EmplaceBack constructs one element at the end via ctor and returns a
// pointer to it. If growth is needed, the new element is constructed into
// the new block before any migration: a construction failure leaves the
// sequence unchanged (strong guarantee), and a migration failure destroys
// the newly constructed element before propagating, old block intact.
func (s *Sequence[T]) EmplaceBack(ctor func() (T, error)) (*T, error) {
	if s.size < s.Cap() {
		v, err := ctor()
		if err != nil {
			return nil, err
		}
		ptr := s.blk.at(s.size)
		*ptr = v
		s.size++
		return ptr, nil
	}

	move := s.ops.preferMove()
	if s.logger != nil {
		s.logger.Debug("sequence grow",
			"from_cap", s.Cap(), "to_cap", nextCapacity(s.Cap()), "len", s.size, "move", move)
	}

	blk, err := acquireBlock(context.Background(), s.allocator, nextCapacity(s.Cap()))
	if err != nil {
		return nil, err
	}
	v, err := ctor()
	if err != nil {
		blk.release()
		return nil, err
	}
	*blk.at(s.size) = v

	if err := s.ops.migrate(blk.slice(0, s.size), s.liveSlice()); err != nil {
		s.ops.destroy(blk.at(s.size))
		blk.release()
		return nil, err
	}
	s.replaceBlock(&blk, move)
	s.size++
	return s.blk.at(s.size - 1), nil
}

// PopBack destroys and removes the last element.
// Panics if the sequence is empty (caller contract).
func (s *Sequence[T]) PopBack() {
	if s.size == 0 {
		panic("seqgo: PopBack on empty sequence")
	}
	s.ops.destroy(s.blk.at(s.size - 1))
	s.size--
}

// Insert places v at position i, shifting the suffix right.
// i must be in [0, Len()].
func (s *Sequence[T]) Insert(i int, v T) error {
	_, err := s.Emplace(i, func() (T, error) { return v, nil })
	return err
}

// Emplace constructs a new element at position i via ctor, shifting the
// suffix right, and returns a pointer to it. i must be in [0, Len()].
//
// Growth failures match EmplaceBack's. In the no-growth path the new element
// is built into a temporary first; if shifting the suffix fails mid-way, the
// already-shifted elements are relocated back, the end-extended slot is
// destroyed and the temporary is discarded, so prior contents survive (the
// element type's Move hook has run over them, hence basic guarantee).
func (s *Sequence[T]) Emplace(i int, ctor func() (T, error)) (*T, error) {
	if i < 0 || i > s.size {
		panic("seqgo: Emplace position out of range")
	}
	if i == s.size {
		return s.EmplaceBack(ctor)
	}
	if s.size == s.Cap() {
		return s.emplaceGrow(i, ctor)
	}
	return s.emplaceShift(i, ctor)
}

// emplaceShift inserts within existing capacity by extending the live prefix
// with the last element and shifting [i, size-1) right by one.
func (s *Sequence[T]) emplaceShift(i int, ctor func() (T, error)) (*T, error) {
	tmp, err := ctor()
	if err != nil {
		return nil, err
	}

	// Relocate the last element into the first uninitialized slot.
	last, err := s.ops.moveElem(s.blk.at(s.size - 1))
	if err != nil {
		s.ops.destroy(&tmp)
		return nil, err
	}
	*s.blk.at(s.size) = last

	// Shift the suffix right; each destination slot was vacated by the
	// previous step.
	for j := s.size - 1; j > i; j-- {
		v, err := s.ops.moveElem(s.blk.at(j - 1))
		if err != nil {
			s.unshift(j)
			s.ops.destroy(&tmp)
			return nil, err
		}
		*s.blk.at(j) = v
	}

	// The slot at i is vacated and tmp is exclusively ours: plain relocation.
	ptr := s.blk.at(i)
	*ptr = tmp
	s.size++
	return ptr, nil
}

// unshift undoes a partial right shift: the vacated slot is at j, the slots
// above it hold relocated values and the end-extended slot holds the old
// last element. All values involved are exclusively owned, so relocation is
// plain assignment.
func (s *Sequence[T]) unshift(j int) {
	for k := j; k < s.size-1; k++ {
		*s.blk.at(k) = *s.blk.at(k + 1)
	}
	end := s.blk.at(s.size)
	*s.blk.at(s.size - 1) = *end
	var zero T
	*end = zero
}

// emplaceGrow inserts with reallocation: the new element is constructed into
// the new block at its final position, then the prefix and suffix migrate
// around it.
func (s *Sequence[T]) emplaceGrow(i int, ctor func() (T, error)) (*T, error) {
	move := s.ops.preferMove()
	if s.logger != nil {
		s.logger.Debug("sequence grow",
			"from_cap", s.Cap(), "to_cap", nextCapacity(s.Cap()), "len", s.size, "move", move)
	}

	blk, err := acquireBlock(context.Background(), s.allocator, nextCapacity(s.Cap()))
	if err != nil {
		return nil, err
	}
	v, err := ctor()
	if err != nil {
		blk.release()
		return nil, err
	}
	*blk.at(i) = v

	if err := s.ops.migrate(blk.slice(0, i), s.blk.slice(0, i)); err != nil {
		s.ops.destroy(blk.at(i))
		blk.release()
		return nil, err
	}
	if err := s.ops.migrate(blk.slice(i+1, s.size+1), s.blk.slice(i, s.size)); err != nil {
		s.ops.destroyRange(blk.slice(0, i+1))
		blk.release()
		return nil, err
	}
	s.replaceBlock(&blk, move)
	s.size++
	return s.blk.at(i), nil
}

// Erase removes the element at position i, shifting the suffix left over it.
// i must be in [0, Len()).
//
// If the element type's Move hook fails mid-shift, the remaining suffix is
// relocated by plain assignment so the removal still completes, and the
// hook's error is reported: the sequence is valid but reached its state
// without the element's cooperation (basic guarantee).
func (s *Sequence[T]) Erase(i int) error {
	s.assertIndex(i)
	s.ops.destroy(s.blk.at(i))

	var moveErr error
	for j := i; j+1 < s.size; j++ {
		src := s.blk.at(j + 1)
		if moveErr == nil {
			v, err := s.ops.moveElem(src)
			if err == nil {
				*s.blk.at(j) = v
				continue
			}
			moveErr = err
		}
		// The Move hook refused; the value is exclusively ours, so finish
		// the shift by plain relocation.
		*s.blk.at(j) = *src
		var zero T
		*src = zero
	}
	s.size--
	return moveErr
}

// Close destroys all live elements and releases the storage block.
// The sequence remains usable as an empty sequence; Close is idempotent.
func (s *Sequence[T]) Close() {
	s.ops.destroyRange(s.liveSlice())
	s.size = 0
	s.blk.release()
}

func (s *Sequence[T]) liveSlice() []T {
	if s.size == 0 {
		return nil
	}
	return s.blk.slice(0, s.size)
}

func (s *Sequence[T]) assertIndex(i int) {
	if i < 0 || i >= s.size {
		panic("seqgo: index out of range")
	}
}
