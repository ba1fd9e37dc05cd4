package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqgo"
)

type record struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func buildSequence(t *testing.T, n int) *seqgo.Sequence[record] {
	t.Helper()

	s := seqgo.New[record]()
	for i := 0; i < n; i++ {
		require.NoError(t, s.PushBack(record{ID: uint64(i), Name: fmt.Sprintf("item-%d", i)}))
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	modes := map[string]Compression{
		"none": CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	}

	for name, mode := range modes {
		t.Run(name, func(t *testing.T) {
			s := buildSequence(t, 100)
			defer s.Close()

			var buf bytes.Buffer
			require.NoError(t, Save(&buf, s, WithCompression(mode)))

			loaded, err := Load[record](&buf)
			require.NoError(t, err)
			defer loaded.Close()

			require.Equal(t, s.Len(), loaded.Len())
			for i, v := range s.All() {
				assert.Equal(t, v, loaded.Get(i))
			}
		})
	}
}

func TestSaveLoadEmpty(t *testing.T) {
	s := seqgo.New[record]()
	defer s.Close()

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s))

	loaded, err := Load[record](&buf)
	require.NoError(t, err)
	defer loaded.Close()

	assert.Equal(t, 0, loaded.Len())
}

func TestLoadRejectsBadMagic(t *testing.T) {
	s := buildSequence(t, 3)
	defer s.Close()

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s))

	raw := buf.Bytes()
	raw[0] ^= 0xff
	// Keep the trailer consistent so the magic check is what fires.
	fixTrailer(raw)

	_, err := Load[record](bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestLoadRejectsCorruption(t *testing.T) {
	s := buildSequence(t, 10)
	defer s.Close()

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s, WithCompression(CompressionZSTD)))

	raw := buf.Bytes()
	raw[len(raw)/2] ^= 0xff

	_, err := Load[record](bytes.NewReader(raw))
	require.Error(t, err)
	assert.True(t, IsChecksumMismatch(err), "corruption must surface as a checksum mismatch")
}

func TestLoadRejectsTruncated(t *testing.T) {
	s := buildSequence(t, 10)
	defer s.Close()

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s))

	_, err := Load[record](bytes.NewReader(buf.Bytes()[:5]))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestLoadRejectsOversizedCount(t *testing.T) {
	s := seqgo.New[record]()
	defer s.Close()

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s))

	// Rewrite the count field of the uncompressed payload to claim a huge
	// number of elements the body cannot hold, then repair the trailer so
	// only the count itself is suspect. Load must reject it before the count
	// sizes an allocation.
	raw := buf.Bytes()
	countOff := 10 + len("json") + blockHeaderSize
	binary.LittleEndian.PutUint64(raw[countOff:], 1<<40)
	fixTrailer(raw)

	_, err := Load[record](bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrTruncated)
}

type unknownCodec struct{}

func (unknownCodec) Marshal(v any) ([]byte, error)      { return []byte("{}"), nil }
func (unknownCodec) Unmarshal(data []byte, v any) error { return nil }
func (unknownCodec) Name() string                       { return "custom" }

func TestLoadRejectsUnknownCodec(t *testing.T) {
	s := buildSequence(t, 1)
	defer s.Close()

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s, WithCodec(unknownCodec{})))

	_, err := Load[record](bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrUnknownCodec)
}

func fixTrailer(raw []byte) {
	body := raw[:len(raw)-4]
	binary.LittleEndian.PutUint32(raw[len(raw)-4:], crc32.ChecksumIEEE(body))
}
