// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"fmt"

	"github.com/wireloom/wireloom/wire"
)

// Range is a closed interval of logical values accepted by Valid.
type Range struct {
	Min int64
	Max int64
}

// IntConfig parameterizes an [Int] field.
type IntConfig struct {
	// Width is the serialized length in bytes, 1 through 8.
	Width int

	// Bits is the bit length when the field is nested inside a
	// bitfield. Zero outside bitfields. Must not exceed Width*8.
	Bits int

	// Signed selects two's-complement interpretation of the stored
	// bytes (sign-extended from Width*8 or, inside a bitfield, from
	// Bits).
	Signed bool

	// Offset shifts the stored representation: stored = logical +
	// Offset, truncated to the serialized width.
	Offset int64

	// Default is the initial logical value.
	Default int64

	// Ranges is the union of validity intervals over the logical
	// value. Empty means all values are valid.
	Ranges []Range

	// Strict makes Read return ProtocolError when the decoded value
	// fails Valid.
	Strict bool
}

// Int is a fixed-width integer field with optional value offset,
// validity ranges, and bitfield nesting support.
type Int struct {
	base  Base
	cfg   IntConfig
	value int64
}

// NewInt returns an Int configured by cfg. Panics on an impossible
// configuration: these are dialect definition bugs, caught at
// construction like every other structural invariant in the
// framework.
func NewInt(base Base, cfg IntConfig) *Int {
	if cfg.Width < 1 || cfg.Width > 8 {
		panic(fmt.Sprintf("field: integer width %d out of range [1,8]", cfg.Width))
	}
	if cfg.Bits < 0 || cfg.Bits > cfg.Width*8 {
		panic(fmt.Sprintf("field: bit length %d exceeds width %d bytes", cfg.Bits, cfg.Width))
	}
	return &Int{base: base, cfg: cfg, value: cfg.Default}
}

// Value returns the logical value.
func (f *Int) Value() int64 { return f.value }

// SetValue sets the logical value.
func (f *Int) SetValue(v int64) { f.value = v }

// Config returns the field's configuration.
func (f *Int) Config() IntConfig { return f.cfg }

// Length implements [Field].
func (f *Int) Length() int { return f.cfg.Width }

// MinLength implements [Field].
func (f *Int) MinLength() int { return f.cfg.Width }

// MaxLength implements [Field].
func (f *Int) MaxLength() int { return f.cfg.Width }

// Read implements [Field].
func (f *Int) Read(r *wire.Reader, size int) wire.Status {
	if available(r, size) < f.cfg.Width {
		return wire.NotEnoughData
	}
	raw, _ := r.ReadUint(f.cfg.Width, f.base.Endian)
	f.value = f.decode(raw, f.cfg.Width*8)
	if f.cfg.Strict && !f.Valid() {
		return wire.ProtocolError
	}
	return wire.Success
}

// Write implements [Field].
func (f *Int) Write(w wire.Writer, size int) wire.Status {
	if size < f.cfg.Width {
		return wire.BufferOverflow
	}
	return w.WriteUint(f.encode(), f.cfg.Width, f.base.Endian)
}

// Valid implements [Field]. The value is valid iff it lies within the
// union of configured ranges; an empty union accepts everything.
func (f *Int) Valid() bool {
	if len(f.cfg.Ranges) == 0 {
		return true
	}
	for _, rng := range f.cfg.Ranges {
		if rng.Min <= f.value && f.value <= rng.Max {
			return true
		}
	}
	return false
}

// Refresh implements [Field]. Integers have no dependent state.
func (f *Int) Refresh() bool { return false }

// Clone implements [Field].
func (f *Int) Clone() Field {
	clone := *f
	return &clone
}

// Bits implements [Packed].
func (f *Int) Bits() int { return f.cfg.Bits }

// LoadBits implements [Packed].
func (f *Int) LoadBits(raw uint64) {
	f.value = f.decode(raw, f.cfg.Bits)
}

// StoreBits implements [Packed].
func (f *Int) StoreBits() uint64 {
	mask := uint64(1)<<f.cfg.Bits - 1
	return uint64(f.value+f.cfg.Offset) & mask
}

// encode returns the stored representation truncated to the
// serialized width.
func (f *Int) encode() uint64 {
	stored := uint64(f.value + f.cfg.Offset)
	if f.cfg.Width < 8 {
		stored &= uint64(1)<<(f.cfg.Width*8) - 1
	}
	return stored
}

// decode converts raw stored bits of the given width back to the
// logical value, sign-extending signed fields.
func (f *Int) decode(raw uint64, bits int) int64 {
	var stored int64
	if f.cfg.Signed && bits < 64 {
		sign := uint64(1) << (bits - 1)
		stored = int64((raw ^ sign)) - int64(sign)
	} else {
		stored = int64(raw)
	}
	return stored - f.cfg.Offset
}
