package seqgo

// Ops describes the lifecycle capability set of an element type. Every field
// is optional; the zero Ops value gives plain value semantics in which no
// operation can fail.
//
// Sequence guarantees are conditioned on which capabilities are present and
// whether they can fail, see the package documentation.
type Ops[T any] struct {
	// New default-constructs an element. nil means the zero value.
	New func() (T, error)

	// Copy duplicates the element at src. nil marks the type move-only:
	// Clone and CopyFrom report ErrNotCopyable, and migration always moves.
	Copy func(src *T) (T, error)

	// Move transfers the element out of src, leaving src reset. nil means a
	// plain Go assignment with source zeroing, which cannot fail. Provide a
	// Move only when transferring the element can itself fail; doing so
	// downgrades migration to copying whenever Copy is available.
	Move func(src *T) (T, error)

	// Assign copy-assigns the element at src over the live element at dst.
	// On failure *dst must be left valid. nil falls back to Copy-then-replace.
	Assign func(dst *T, src *T) error

	// Destroy releases resources held by the element at ptr. nil means the
	// slot is only zeroed. Destroy must not fail.
	Destroy func(ptr *T)
}

// newElem default-constructs one element.
func (o *Ops[T]) newElem() (T, error) {
	if o.New == nil {
		var zero T
		return zero, nil
	}
	return o.New()
}

// copyElem copy-constructs from src. Callers must have checked copyable.
func (o *Ops[T]) copyElem(src *T) (T, error) {
	if o.Copy == nil {
		return *src, nil
	}
	return o.Copy(src)
}

// copyable reports whether the element type has a copy capability.
// A nil Ops.Copy together with the zero Ops value means plain values, which
// copy by assignment; only an Ops that provides any lifecycle hook without
// Copy is move-only.
func (o *Ops[T]) copyable() bool {
	if o.Copy != nil {
		return true
	}
	return o.New == nil && o.Move == nil && o.Assign == nil && o.Destroy == nil
}

// moveElem move-constructs from src, resetting src.
func (o *Ops[T]) moveElem(src *T) (T, error) {
	if o.Move == nil {
		v := *src
		var zero T
		*src = zero
		return v, nil
	}
	return o.Move(src)
}

// moveAssign replaces the live element at dst with the element moved out of
// src. On failure *dst keeps its previous value.
func (o *Ops[T]) moveAssign(dst *T, src *T) error {
	v, err := o.moveElem(src)
	if err != nil {
		return err
	}
	o.destroy(dst)
	*dst = v
	return nil
}

// assign copy-assigns *src over the live element at dst.
func (o *Ops[T]) assign(dst *T, src *T) error {
	if o.Assign != nil {
		return o.Assign(dst, src)
	}
	v, err := o.copyElem(src)
	if err != nil {
		return err
	}
	o.destroy(dst)
	*dst = v
	return nil
}

// destroy ends the element's lifetime and zeroes the slot so the storage no
// longer pins anything the element referenced.
func (o *Ops[T]) destroy(ptr *T) {
	if o.Destroy != nil {
		o.Destroy(ptr)
	}
	var zero T
	*ptr = zero
}

// destroyRange destroys the live elements in s.
func (o *Ops[T]) destroyRange(s []T) {
	for i := range s {
		o.destroy(&s[i])
	}
}
