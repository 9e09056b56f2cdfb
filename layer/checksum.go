// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"hash/crc32"

	"github.com/zeebo/blake3"

	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Calculator computes a checksum over a byte range. The result is
// truncated to the checksum field's serialized width on the wire.
type Calculator interface {
	// Sum returns the checksum of data.
	Sum(data []byte) uint64

	// Name identifies the algorithm in definitions and inspection
	// output.
	Name() string
}

// SumBytes is the classic additive checksum: the byte values summed
// into an accumulator, truncated to the field width on the wire.
type SumBytes struct{}

// Sum implements [Calculator].
func (SumBytes) Sum(data []byte) uint64 {
	var total uint64
	for _, b := range data {
		total += uint64(b)
	}
	return total
}

// Name implements [Calculator].
func (SumBytes) Name() string { return "sum" }

// CRC32 is the IEEE CRC-32 used by Ethernet, gzip, and most framed
// protocols that want real error detection.
type CRC32 struct{}

// Sum implements [Calculator].
func (CRC32) Sum(data []byte) uint64 {
	return uint64(crc32.ChecksumIEEE(data))
}

// Name implements [Calculator].
func (CRC32) Name() string { return "crc32" }

// Blake3 is a truncated BLAKE3 digest: the leading bytes of the
// 256-bit hash interpreted big-endian, truncated to the field width.
// Suited to dialects that want collision resistance rather than
// error detection; with a key it doubles as a frame authenticator.
type Blake3 struct {
	// Key, when non-nil, selects BLAKE3 keyed mode. Must be exactly
	// 32 bytes.
	Key []byte
}

// Sum implements [Calculator].
func (c Blake3) Sum(data []byte) uint64 {
	var digest [32]byte
	if c.Key != nil {
		h, err := blake3.NewKeyed(c.Key)
		if err != nil {
			panic("layer: blake3 key must be 32 bytes: " + err.Error())
		}
		h.Write(data)
		h.Sum(digest[:0])
	} else {
		digest = blake3.Sum256(data)
	}
	return wire.BigEndian.Uint(digest[:8])
}

// Name implements [Calculator].
func (c Blake3) Name() string { return "blake3" }

// Checksum frames a trailing checksum computed across the inner
// window. On read the inner layers run first; the decoded trailer is
// then verified against the recomputed value, and a mismatch is
// ProtocolError. On write through a random-access destination the
// checksum is computed and written after the inner layers emit;
// through a push-back writer a zero placeholder is emitted and the
// call reports UpdateRequired.
type Checksum struct {
	proto *field.Int
	calc  Calculator
}

// NewChecksum returns a checksum layer with the prototype trailer
// field and calculator.
func NewChecksum(proto *field.Int, calc Calculator) *Checksum {
	if calc == nil {
		panic("layer: Checksum without calculator")
	}
	return &Checksum{proto: proto, calc: calc}
}

// truncate clips a checksum to the trailer field's width.
func (ly *Checksum) truncate(sum uint64) int64 {
	width := ly.proto.Config().Width
	if width < 8 {
		sum &= uint64(1)<<(width*8) - 1
	}
	return int64(sum)
}

// NewField implements [Layer].
func (ly *Checksum) NewField() field.Field { return ly.proto.Clone() }

// Read implements [Layer].
func (ly *Checksum) Read(fld field.Field, ex *Exchange, r *wire.Reader, size int, next NextReader) wire.Status {
	f := fld.(*field.Int)
	if min(size, r.Remaining()) < f.MinLength() {
		ex.reportMissing(f.MinLength(), min(size, r.Remaining()))
		return wire.NotEnoughData
	}

	start := r.Pos()
	st := next(r, size-f.Length())
	if st != wire.Success {
		return st
	}
	coveredLen := r.Pos() - start

	if st := f.Read(r, size-coveredLen); st != wire.Success {
		if st == wire.NotEnoughData {
			ex.reportMissing(f.MinLength(), min(size-coveredLen, r.Remaining()))
		}
		return st
	}

	covered := r.Window(start, start+coveredLen)
	if ly.truncate(ly.calc.Sum(covered)) != f.Value() {
		return wire.ProtocolError
	}
	return wire.Success
}

// Write implements [Layer].
func (ly *Checksum) Write(fld field.Field, m message.Message, w wire.Writer, size int, next NextWriter) wire.Status {
	f := fld.(*field.Int)
	ra, random := w.(wire.RandomAccess)

	start := w.Pos()
	st := next.Write(w, size-f.Length())
	if st != wire.Success && st != wire.UpdateRequired {
		return st
	}

	if !random {
		f.SetValue(0)
		if wst := f.Write(w, f.Length()); wst != wire.Success {
			return wst
		}
		return wire.UpdateRequired
	}

	f.SetValue(ly.truncate(ly.calc.Sum(ra.Bytes()[start:w.Pos()])))
	if wst := f.Write(w, f.Length()); wst != wire.Success {
		return wst
	}
	return st
}

// Update implements [Layer]: recompute over the inner region and
// patch the trailer.
func (ly *Checksum) Update(fld field.Field, u *Updater, size int, next NextUpdater) wire.Status {
	f := fld.(*field.Int)
	start := u.Pos()
	if st := next(u, size-f.Length()); st != wire.Success {
		return st
	}
	f.SetValue(ly.truncate(ly.calc.Sum(u.Frame()[start:u.Pos()])))
	return u.PatchField(f)
}

// Length implements [Layer].
func (ly *Checksum) Length(m message.Message, inner func() int) int {
	return ly.proto.Length() + inner()
}

// MinLength implements [Layer].
func (ly *Checksum) MinLength(inner func() int) int {
	return ly.proto.MinLength() + inner()
}
