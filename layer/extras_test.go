// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"bytes"
	"hash/crc32"
	"testing"

	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// blob is a message with a trailing byte body, so tests can steer the
// compressibility of the payload.
type blob struct {
	message.Base
	data *field.Bytes
}

func newBlob() *blob {
	data := field.NewBytes(testIface.FieldBase(), field.BytesConfig{})
	return &blob{Base: message.NewBase(testIface, 3, field.NewBundle(data)), data: data}
}

func blobRegistry() *message.Registry {
	reg := message.NewRegistry()
	reg.Register(3, "blob", func() message.Message { return newBlob() })
	return reg
}

func compressStack(tag CompressionTag) *Stack {
	return NewStack(
		NewCompress(testIface.FieldBase(), tag),
		NewMsgID(u8Field(), message.NewHeapAllocator(blobRegistry())),
		NewPayload(),
	)
}

func TestCompressRoundtrip(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			s := compressStack(tag)

			m := newBlob()
			m.data.SetValue(bytes.Repeat([]byte("wireloom "), 200))

			buf := make([]byte, s.Length(m))
			w := wire.NewBufWriter(buf)
			if st := s.Write(m, w, len(buf)); st != wire.Success {
				t.Fatalf("Write: %v", st)
			}
			frame := w.Bytes()

			if tag != CompressionNone && len(frame) >= s.Length(m) {
				t.Errorf("compressed frame %d bytes, bound %d: nothing shrank", len(frame), s.Length(m))
			}

			decoded, _, st := s.Read(wire.NewReader(frame), len(frame))
			if st != wire.Success {
				t.Fatalf("Read: %v", st)
			}
			if !bytes.Equal(decoded.(*blob).data.Value(), m.data.Value()) {
				t.Error("payload mismatch after compression roundtrip")
			}
		})
	}
}

func TestCompressIncompressibleFallsBack(t *testing.T) {
	s := compressStack(CompressionLZ4)

	m := newBlob()
	m.data.SetValue([]byte{0x00, 0x47, 0x91, 0xE3}) // far too short to compress

	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}
	frame := w.Bytes()

	// The emitted tag must record what actually happened.
	if got := CompressionTag(frame[0]); got != CompressionNone {
		t.Errorf("tag = %v, want none fallback", got)
	}
	if _, _, st := s.Read(wire.NewReader(frame), len(frame)); st != wire.Success {
		t.Errorf("Read: %v", st)
	}
}

func TestCompressCorruptBlock(t *testing.T) {
	s := compressStack(CompressionLZ4)

	m := newBlob()
	m.data.SetValue(bytes.Repeat([]byte("abcd"), 100))

	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}
	frame := w.Bytes()
	// Corrupt the rawLen framing: the inflated size can no longer
	// match, whatever the block itself decodes to.
	frame[4] ^= 0xFF

	if _, _, st := s.Read(wire.NewReader(frame), len(frame)); st != wire.ProtocolError {
		t.Errorf("corrupted block length = %v, want ProtocolError", st)
	}
}

func TestSealedRoundtrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	s := NewStack(
		NewSealed(key),
		NewMsgID(u8Field(), message.NewHeapAllocator(blobRegistry())),
		NewPayload(),
	)

	m := newBlob()
	m.data.SetValue([]byte("confidential frame body"))

	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}
	frame := w.Bytes()
	if len(frame) != s.Length(m) {
		t.Errorf("sealed frame %d bytes, Length(m) %d", len(frame), s.Length(m))
	}
	if bytes.Contains(frame, m.data.Value()) {
		t.Error("plaintext visible in sealed frame")
	}

	decoded, _, st := s.Read(wire.NewReader(frame), len(frame))
	if st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if !bytes.Equal(decoded.(*blob).data.Value(), m.data.Value()) {
		t.Error("payload mismatch after sealed roundtrip")
	}

	// Flipping any ciphertext bit fails authentication.
	frame[len(frame)-1] ^= 0x01
	if _, _, st := s.Read(wire.NewReader(frame), len(frame)); st != wire.ProtocolError {
		t.Errorf("tampered frame = %v, want ProtocolError", st)
	}

	// A different key cannot open the frame.
	frame[len(frame)-1] ^= 0x01
	otherKey := bytes.Repeat([]byte{0x43}, 32)
	other := NewStack(
		NewSealed(otherKey),
		NewMsgID(u8Field(), message.NewHeapAllocator(blobRegistry())),
		NewPayload(),
	)
	if _, _, st := other.Read(wire.NewReader(frame), len(frame)); st != wire.ProtocolError {
		t.Errorf("foreign key = %v, want ProtocolError", st)
	}
}

func TestSealedBadKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("short key should panic")
		}
	}()
	NewSealed([]byte("short"))
}

func TestCalculators(t *testing.T) {
	data := []byte{0x01, 0x00, 0x07}

	if got := (SumBytes{}).Sum(data); got != 8 {
		t.Errorf("SumBytes = %d, want 8", got)
	}
	if got := (CRC32{}).Sum(data); got != uint64(crc32.ChecksumIEEE(data)) {
		t.Errorf("CRC32 = %d", got)
	}

	plain := Blake3{}.Sum(data)
	if plain == 0 {
		t.Error("Blake3 sum should not be zero for this input")
	}
	keyed := Blake3{Key: bytes.Repeat([]byte{7}, 32)}.Sum(data)
	if keyed == plain {
		t.Error("keyed Blake3 should differ from unkeyed")
	}
	if again := (Blake3{Key: bytes.Repeat([]byte{7}, 32)}).Sum(data); again != keyed {
		t.Error("keyed Blake3 should be deterministic")
	}
}

func TestChecksumWidths(t *testing.T) {
	// A 16-bit additive checksum truncates the accumulator to two
	// bytes on the wire.
	s := NewStack(
		NewChecksum(u16Field(0), SumBytes{}),
		NewMsgID(u8Field(), message.NewHeapAllocator(blobRegistry())),
		NewPayload(),
	)

	m := newBlob()
	m.data.SetValue(bytes.Repeat([]byte{0xFF}, 300)) // sum overflows 16 bits

	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}
	frame := w.Bytes()
	if _, _, st := s.Read(wire.NewReader(frame), len(frame)); st != wire.Success {
		t.Errorf("Read: %v", st)
	}
}

func TestCRC32ChecksumLayer(t *testing.T) {
	s := NewStack(
		NewChecksum(field.NewInt(testIface.FieldBase(), field.IntConfig{Width: 4}), CRC32{}),
		NewMsgID(u8Field(), message.NewHeapAllocator(blobRegistry())),
		NewPayload(),
	)

	m := newBlob()
	m.data.SetValue([]byte("crc covered"))

	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}
	frame := w.Bytes()

	if _, _, st := s.Read(wire.NewReader(frame), len(frame)); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	frame[2] ^= 0x10
	if _, _, st := s.Read(wire.NewReader(frame), len(frame)); st != wire.ProtocolError {
		t.Errorf("bit flip = %v, want ProtocolError", st)
	}
}
