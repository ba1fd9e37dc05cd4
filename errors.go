package seqgo

import "errors"

var (
	// ErrNotCopyable is returned by Clone and CopyFrom when the element type
	// has lifecycle hooks but no Copy capability (a move-only type).
	ErrNotCopyable = errors.New("seqgo: element type is not copyable")
)
