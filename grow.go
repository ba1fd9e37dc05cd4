package seqgo

// growthFactor is the capacity multiplier on overflow. Any constant > 1
// keeps appends amortized O(1); 2 matches the usual doubling strategy.
const growthFactor = 2

// nextCapacity returns the capacity to allocate when old is exhausted.
func nextCapacity(old int) int {
	if old == 0 {
		return 1
	}
	return growthFactor * old
}

// preferMove decides how existing elements migrate into a new block: move
// when the move cannot fail, or when the type has no copy capability at all
// (move is the only option); otherwise copy, so that a migration failure
// never destroys the only surviving copy of an element. This is what lets
// Reserve and the growth paths keep the strong guarantee for types whose
// moves can fail.
func (o *Ops[T]) preferMove() bool {
	return o.Move == nil || !o.copyable()
}

// migrate constructs n elements in dst from the live elements in src, moving
// or copying per preferMove. On failure every element already constructed in
// dst is destroyed and src is left intact (copy path) before the error is
// returned; on the move path a failing Move is the element's own contract
// breach and src elements before the failure point are already consumed.
func (o *Ops[T]) migrate(dst, src []T) error {
	if o.preferMove() {
		for i := range src {
			v, err := o.moveElem(&src[i])
			if err != nil {
				o.destroyRange(dst[:i])
				return err
			}
			dst[i] = v
		}
		return nil
	}
	for i := range src {
		v, err := o.copyElem(&src[i])
		if err != nil {
			o.destroyRange(dst[:i])
			return err
		}
		dst[i] = v
	}
	return nil
}
