//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint64(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint64(0)
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("valid max int", func(t *testing.T) {
		got, err := IntToUint64(math.MaxInt)
		assert.NoError(t, err)
		assert.Equal(t, uint64(math.MaxInt), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint64(-1)
		assert.Error(t, err)
	})
}

func TestUint64ToInt(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := Uint64ToInt(12345)
		assert.NoError(t, err)
		assert.Equal(t, 12345, got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Uint64ToInt(math.MaxUint64)
		assert.Error(t, err)
	})
}

func TestIntToUint32(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := IntToUint32(math.MaxUint32)
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.Error(t, err)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := IntToUint32(math.MaxUint32 + 1)
		assert.Error(t, err)
	})
}
