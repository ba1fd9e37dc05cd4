package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/seqgo/internal/conv"
)

const (
	// MagicNumber identifies snapshot files (ASCII: "SEQ0").
	MagicNumber = 0x53455130
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000
)

// Compression selects the algorithm applied to the element payload section.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

var (
	ErrInvalidMagic       = errors.New("snapshot: invalid magic number")
	ErrInvalidVersion     = errors.New("snapshot: unsupported version")
	ErrUnknownCodec       = errors.New("snapshot: unknown codec")
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
	ErrTruncated          = errors.New("snapshot: file truncated")
)

// ChecksumMismatchError is returned when the CRC32 trailer does not match
// the file contents.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("snapshot: checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err is a checksum mismatch.
func IsChecksumMismatch(err error) bool {
	var cm *ChecksumMismatchError
	return errors.As(err, &cm)
}

// Payload block layout: [UncompressedSize uint32][CompressedSize uint32][Data].
// CompressedSize == 0 means the data is stored uncompressed, which also covers
// the case where compression did not shrink the payload.
const blockHeaderSize = 8

func compressBlock(data []byte, c Compression) ([]byte, error) {
	var compressed []byte

	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: lz4 compress: %w", err)
		}
		compressed = buf[:n] // n == 0 means incompressible
	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd encoder: %w", err)
		}
		compressed = enc.EncodeAll(data, nil)
		_ = enc.Close()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}

	size, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot: payload too large: %w", err)
	}

	if len(compressed) == 0 || len(compressed) >= len(data) {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], size)
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], size)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

func decompressBlock(data []byte, c Compression) ([]byte, error) {
	if len(data) < blockHeaderSize {
		return nil, ErrTruncated
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])
	body := data[blockHeaderSize:]

	if compressedSize == 0 {
		if uint64(len(body)) < uint64(uncompressedSize) {
			return nil, ErrTruncated
		}
		return body[:uncompressedSize], nil
	}

	if uint64(len(body)) < uint64(compressedSize) {
		return nil, ErrTruncated
	}
	body = body[:compressedSize]
	result := make([]byte, uncompressedSize)

	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(body, result)
		if err != nil {
			return nil, fmt.Errorf("snapshot: lz4 decompress: %w", err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("snapshot: decompressed size mismatch: want %d, got %d", uncompressedSize, n)
		}
		return result, nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd decoder: %w", err)
		}
		defer dec.Close()
		decoded, err := dec.DecodeAll(body, result[:0])
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd decompress: %w", err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("snapshot: decompressed size mismatch: want %d, got %d", uncompressedSize, len(decoded))
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}
