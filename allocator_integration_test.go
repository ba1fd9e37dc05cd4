package seqgo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqgo"
	"github.com/hupe1980/seqgo/alloc"
)

func TestSequenceOnOffHeap(t *testing.T) {
	a, err := alloc.NewOffHeap[int64]()
	require.NoError(t, err)

	s := seqgo.New[int64](seqgo.WithAllocator[int64](a))
	for i := int64(0); i < 1000; i++ {
		require.NoError(t, s.PushBack(i*7))
	}

	assert.Equal(t, 1000, s.Len())
	assert.Equal(t, int64(6993), s.Get(999))
	assert.Equal(t, 1, a.Mapped(), "grown-out blocks must be unmapped")

	s.Close()
	assert.Equal(t, 0, a.Mapped(), "close must release the mapping")
}

func TestSequenceOnLimitedAllocator(t *testing.T) {
	elem := alloc.SizeOf[int64]()
	a := alloc.NewLimited[int64](alloc.Heap[int64]{}, alloc.Budget{
		MemoryLimitBytes: 16 * int64(elem),
	})

	s := seqgo.New[int64](seqgo.WithAllocator[int64](a))
	defer s.Close()

	// Doubling growth peaks at old+new live at once, so a 16-element budget
	// caps the sequence well below 16 elements.
	var pushErr error
	for i := int64(0); i < 64; i++ {
		if pushErr = s.PushBack(i); pushErr != nil {
			break
		}
	}
	require.ErrorIs(t, pushErr, alloc.ErrMemoryLimitExceeded)
	assert.Greater(t, s.Len(), 0, "appends before the limit survive")

	for i, v := range s.All() {
		assert.Equal(t, int64(i), v)
	}
}

func TestLimitedBudgetReturnsOnClose(t *testing.T) {
	a := alloc.NewLimited[int32](alloc.Heap[int32]{}, alloc.Budget{
		MemoryLimitBytes: 1 << 20,
	})

	s := seqgo.New[int32](seqgo.WithAllocator[int32](a))
	for i := int32(0); i < 100; i++ {
		require.NoError(t, s.PushBack(i))
	}
	assert.Positive(t, a.Usage())

	s.Close()
	assert.Zero(t, a.Usage(), "close must return the reservation")
}
