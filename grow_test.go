package seqgo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCapacity(t *testing.T) {
	assert.Equal(t, 1, nextCapacity(0))
	assert.Equal(t, 2, nextCapacity(1))
	assert.Equal(t, 8, nextCapacity(4))
	assert.Equal(t, 2048, nextCapacity(1024))
}

func TestCopyable(t *testing.T) {
	copyHook := func(src *int) (int, error) { return *src, nil }
	destroyHook := func(ptr *int) {}

	t.Run("plain values copy by assignment", func(t *testing.T) {
		o := Ops[int]{}
		assert.True(t, o.copyable())
	})

	t.Run("explicit copy hook", func(t *testing.T) {
		o := Ops[int]{Copy: copyHook, Destroy: destroyHook}
		assert.True(t, o.copyable())
	})

	t.Run("hooks without copy mark the type move-only", func(t *testing.T) {
		o := Ops[int]{Destroy: destroyHook}
		assert.False(t, o.copyable())
	})
}

func TestPreferMove(t *testing.T) {
	copyHook := func(src *int) (int, error) { return *src, nil }
	moveHook := func(src *int) (int, error) { v := *src; *src = 0; return v, nil }
	destroyHook := func(ptr *int) {}

	t.Run("plain assignment move wins", func(t *testing.T) {
		o := Ops[int]{Copy: copyHook}
		assert.True(t, o.preferMove())
	})

	t.Run("fallible move with copy available demotes to copy", func(t *testing.T) {
		o := Ops[int]{Copy: copyHook, Move: moveHook}
		assert.False(t, o.preferMove())
	})

	t.Run("move-only must move", func(t *testing.T) {
		o := Ops[int]{Move: moveHook, Destroy: destroyHook}
		assert.True(t, o.preferMove())
	})
}

func TestMigrateCopyFailureDestroysPartialWork(t *testing.T) {
	boom := errors.New("boom")
	var destroyed []int

	o := Ops[int]{
		Copy: func(src *int) (int, error) {
			if *src == 3 {
				return 0, boom
			}
			return *src, nil
		},
		Move: func(src *int) (int, error) { v := *src; *src = 0; return v, nil },
		Destroy: func(ptr *int) {
			destroyed = append(destroyed, *ptr)
		},
	}
	require.False(t, o.preferMove())

	src := []int{1, 2, 3, 4}
	dst := make([]int, len(src))
	require.ErrorIs(t, o.migrate(dst, src), boom)

	assert.Equal(t, []int{1, 2}, destroyed, "constructed prefix is unwound")
	assert.Equal(t, []int{1, 2, 3, 4}, src, "source is untouched")
}

func TestMigrateMoveConsumesSource(t *testing.T) {
	o := Ops[int]{}
	src := []int{1, 2, 3}
	dst := make([]int, len(src))

	require.NoError(t, o.migrate(dst, src))
	assert.Equal(t, []int{1, 2, 3}, dst)
	assert.Equal(t, []int{0, 0, 0}, src, "moved-from slots are reset")
}
