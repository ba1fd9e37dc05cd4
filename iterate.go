package seqgo

import "iter"

// All iterates the live elements front to back.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.size; i++ {
			if !yield(i, *s.blk.at(i)) {
				return
			}
		}
	}
}

// Backward iterates the live elements back to front.
func (s *Sequence[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := s.size - 1; i >= 0; i-- {
			if !yield(i, *s.blk.at(i)) {
				return
			}
		}
	}
}

// Slice returns the live prefix as a mutable view into the sequence's
// storage. The view is invalidated by any operation that reallocates or
// shifts elements. Writing through it bypasses the element lifecycle hooks;
// use Set when they matter.
func (s *Sequence[T]) Slice() []T {
	return s.liveSlice()
}
