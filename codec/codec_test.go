package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    uint64   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestJSONRoundTrip(t *testing.T) {
	in := payload{ID: 42, Title: "hello", Tags: []string{"a", "b"}}

	data, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, JSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestMustMarshalPanicsOnUnsupported(t *testing.T) {
	assert.Panics(t, func() {
		MustMarshal(JSON{}, make(chan int))
	})
}

func TestDefaultIsRegistered(t *testing.T) {
	c, ok := ByName(Default.Name())
	require.True(t, ok)
	assert.Equal(t, Default.Name(), c.Name())
}
