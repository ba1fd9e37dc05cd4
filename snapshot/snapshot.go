package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/hupe1980/seqgo"
	"github.com/hupe1980/seqgo/codec"
	"github.com/hupe1980/seqgo/internal/conv"
)

// Options configure how a snapshot is written.
type Options struct {
	// Codec encodes element payloads. Defaults to codec.Default.
	Codec codec.Codec
	// Compression selects the payload compression. Defaults to CompressionNone.
	Compression Compression
}

// Option mutates Options.
type Option func(*Options)

// WithCodec sets the element codec.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) {
		o.Codec = c
	}
}

// WithCompression sets the payload compression.
func WithCompression(c Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

// Save writes all elements of s to w.
//
// Layout, all integers little-endian:
//
//	magic uint32 | version uint32 | compression uint8 | codecNameLen uint8 | codecName
//	payload block (see format.go), containing:
//	  count uint64 | per element: len uint32 | codec bytes
//	crc32 uint32 over everything before the trailer
func Save[T any](w io.Writer, s *seqgo.Sequence[T], opts ...Option) error {
	o := Options{Codec: codec.Default, Compression: CompressionNone}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Codec == nil {
		o.Codec = codec.Default
	}

	name := o.Codec.Name()
	if len(name) == 0 || len(name) > math.MaxUint8 {
		return fmt.Errorf("%w: bad name %q", ErrUnknownCodec, name)
	}

	var buf bytes.Buffer
	var scratch [8]byte

	binary.LittleEndian.PutUint32(scratch[:4], MagicNumber)
	buf.Write(scratch[:4])
	binary.LittleEndian.PutUint32(scratch[:4], Version)
	buf.Write(scratch[:4])
	buf.WriteByte(byte(o.Compression))
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)

	count, err := conv.IntToUint64(s.Len())
	if err != nil {
		return fmt.Errorf("snapshot: element count: %w", err)
	}

	var payload bytes.Buffer
	binary.LittleEndian.PutUint64(scratch[:8], count)
	payload.Write(scratch[:8])

	for i, v := range s.All() {
		data, err := o.Codec.Marshal(v)
		if err != nil {
			return fmt.Errorf("snapshot: encode element %d: %w", i, err)
		}
		size, err := conv.IntToUint32(len(data))
		if err != nil {
			return fmt.Errorf("snapshot: element %d too large: %w", i, err)
		}
		binary.LittleEndian.PutUint32(scratch[:4], size)
		payload.Write(scratch[:4])
		payload.Write(data)
	}

	block, err := compressBlock(payload.Bytes(), o.Compression)
	if err != nil {
		return err
	}
	buf.Write(block)

	binary.LittleEndian.PutUint32(scratch[:4], crc32.ChecksumIEEE(buf.Bytes()))
	buf.Write(scratch[:4])

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("snapshot: write: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save and rebuilds the sequence.
//
// Sequence options (allocator, element hooks, logger) apply to the rebuilt
// sequence. The codec and compression are taken from the file header.
func Load[T any](r io.Reader, opts ...seqgo.Option[T]) (*seqgo.Sequence[T], error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	if len(raw) < 4+4+1+1+4 {
		return nil, ErrTruncated
	}

	body, trailer := raw[:len(raw)-4], raw[len(raw)-4:]
	expected := binary.LittleEndian.Uint32(trailer)
	if actual := crc32.ChecksumIEEE(body); actual != expected {
		return nil, &ChecksumMismatchError{Expected: expected, Actual: actual}
	}

	if magic := binary.LittleEndian.Uint32(body[0:]); magic != MagicNumber {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, magic)
	}
	if version := binary.LittleEndian.Uint32(body[4:]); version != Version {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, version)
	}

	compression := Compression(body[8])
	nameLen := int(body[9])
	if len(body) < 10+nameLen {
		return nil, ErrTruncated
	}
	name := string(body[10 : 10+nameLen])
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	payload, err := decompressBlock(body[10+nameLen:], compression)
	if err != nil {
		return nil, err
	}
	if len(payload) < 8 {
		return nil, ErrTruncated
	}
	count, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(payload))
	if err != nil {
		return nil, fmt.Errorf("snapshot: element count: %w", err)
	}
	payload = payload[8:]

	// The count is untrusted input and sizes the allocation below. Every
	// element occupies at least its 4-byte length prefix, so a count the
	// remaining payload cannot hold is a corrupt or hostile file.
	if uint64(count) > uint64(len(payload))/4 {
		return nil, ErrTruncated
	}

	s := seqgo.New[T](opts...)
	if err := s.Reserve(count); err != nil {
		s.Close()
		return nil, err
	}

	for i := 0; i < count; i++ {
		if len(payload) < 4 {
			s.Close()
			return nil, ErrTruncated
		}
		size := int(binary.LittleEndian.Uint32(payload))
		payload = payload[4:]
		if len(payload) < size {
			s.Close()
			return nil, ErrTruncated
		}

		var v T
		if err := c.Unmarshal(payload[:size], &v); err != nil {
			s.Close()
			return nil, fmt.Errorf("snapshot: decode element %d: %w", i, err)
		}
		payload = payload[size:]

		if err := s.PushBack(v); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}
