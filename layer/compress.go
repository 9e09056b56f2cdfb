// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// CompressionTag identifies the algorithm of a compressed frame. The
// tag is the first byte of the layer's framing; the values are
// protocol constants.
type CompressionTag uint8

const (
	// CompressionNone passes the inner frame through unchanged.
	// Also emitted by compressing configurations when the inner
	// frame is incompressible.
	CompressionNone CompressionTag = 0

	// CompressionLZ4 is LZ4 block compression.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd is zstd at the default level.
	CompressionZstd CompressionTag = 2
)

// String returns the tag's name.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// ParseCompressionTag parses a tag from its string representation.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// zstdEncoder and zstdDecoder are shared across all Compress layers;
// both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("layer: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("layer: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress wraps the inner frame in an algorithm-tagged compressed
// block. The framing is a bundle {tag u8, rawLen u32}: the tag names
// the algorithm actually used and rawLen the uncompressed inner
// length. A configuration with a compressing tag falls back to
// CompressionNone when the inner frame does not shrink.
//
// The inner frame is always serialized to a scratch buffer first, so
// writes are single-pass through any writer capability and never
// report UpdateRequired. Consequently Stack.Length is an upper bound
// for stacks containing this layer.
type Compress struct {
	base field.Base
	tag  CompressionTag
}

// NewCompress returns a compression layer emitting the given
// algorithm under the dialect's field base.
func NewCompress(base field.Base, tag CompressionTag) *Compress {
	switch tag {
	case CompressionNone, CompressionLZ4, CompressionZstd:
	default:
		panic(fmt.Sprintf("layer: unknown compression tag %d", tag))
	}
	return &Compress{base: base, tag: tag}
}

// NewField implements [Layer]: {tag u8, rawLen u32}.
func (ly *Compress) NewField() field.Field {
	return field.NewBundle(
		field.NewInt(ly.base, field.IntConfig{Width: 1}),
		field.NewInt(ly.base, field.IntConfig{Width: 4}),
	)
}

// Read implements [Layer]: decode the framing, inflate the remaining
// window, and run the inner layers over the plaintext. Leftover
// plaintext after a successful inner read is ProtocolError, exactly
// as leftover bytes inside a size window.
func (ly *Compress) Read(fld field.Field, ex *Exchange, r *wire.Reader, size int, next NextReader) wire.Status {
	f := fld.(*field.Bundle)
	start := r.Pos()
	if st := f.Read(r, size); st != wire.Success {
		if st == wire.NotEnoughData {
			ex.reportMissing(f.MinLength(), min(size, r.Remaining()))
		}
		return st
	}
	tag := CompressionTag(f.At(0).(*field.Int).Value())
	rawLen := int(f.At(1).(*field.Int).Value())
	if rawLen < 0 {
		return wire.ProtocolError
	}

	window := size - (r.Pos() - start)
	avail := min(window, r.Remaining())
	if avail < window {
		ex.reportMissing(window, avail)
		return wire.NotEnoughData
	}
	compressed, _ := r.ReadBytes(window)

	raw, err := ly.inflate(tag, compressed, rawLen)
	if err != nil {
		return wire.ProtocolError
	}

	inner := wire.NewReader(raw)
	st := next(inner, len(raw))
	if st == wire.NotEnoughData {
		// The block decompressed completely; an inner read running
		// out means the framing lied.
		ex.missing = 0
		return wire.ProtocolError
	}
	if st == wire.Success && inner.Remaining() != 0 {
		return wire.ProtocolError
	}
	return st
}

// Write implements [Layer].
func (ly *Compress) Write(fld field.Field, m message.Message, w wire.Writer, size int, next NextWriter) wire.Status {
	f := fld.(*field.Bundle)

	scratch := make([]byte, next.Length())
	bw := wire.NewBufWriter(scratch)
	if st := next.Write(bw, len(scratch)); st != wire.Success {
		return st
	}
	raw := bw.Bytes()

	tag, compressed := ly.deflate(raw)
	f.At(0).(*field.Int).SetValue(int64(tag))
	f.At(1).(*field.Int).SetValue(int64(len(raw)))

	if f.Length()+len(compressed) > size {
		return wire.BufferOverflow
	}
	if st := f.Write(w, f.Length()); st != wire.Success {
		return st
	}
	return w.WriteBytes(compressed)
}

// Update implements [Layer]: the compressed block was fully formed at
// write time and holds no reachable placeholder slots.
func (ly *Compress) Update(fld field.Field, u *Updater, size int, next NextUpdater) wire.Status {
	return u.Skip(size)
}

// Length implements [Layer]: an upper bound, since compression may
// shrink the inner frame.
func (ly *Compress) Length(m message.Message, inner func() int) int {
	innerLen := inner()
	bound := innerLen
	if b := lz4.CompressBlockBound(innerLen); b > bound {
		bound = b
	}
	return ly.NewField().Length() + bound
}

// MinLength implements [Layer].
func (ly *Compress) MinLength(inner func() int) int {
	return ly.NewField().MinLength()
}

// deflate compresses raw under the configured algorithm, falling back
// to CompressionNone when the result would not shrink.
func (ly *Compress) deflate(raw []byte) (CompressionTag, []byte) {
	switch ly.tag {
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(raw))
		destination := make([]byte, bound)
		written, err := lz4.CompressBlock(raw, destination, nil)
		if err != nil || written == 0 || written >= len(raw) {
			return CompressionNone, raw
		}
		return CompressionLZ4, destination[:written]

	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(raw, nil)
		if len(compressed) >= len(raw) {
			return CompressionNone, raw
		}
		return CompressionZstd, compressed

	default:
		return CompressionNone, raw
	}
}

// inflate reverses deflate, verifying the uncompressed length.
func (ly *Compress) inflate(tag CompressionTag, compressed []byte, rawLen int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(compressed) != rawLen {
			return nil, fmt.Errorf("uncompressed block: size %d does not match expected %d", len(compressed), rawLen)
		}
		return compressed, nil

	case CompressionLZ4:
		destination := make([]byte, rawLen)
		read, err := lz4.UncompressBlock(compressed, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != rawLen {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawLen)
		}
		return destination, nil

	case CompressionZstd:
		destination, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, rawLen))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(destination) != rawLen {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(destination), rawLen)
		}
		return destination, nil

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}
