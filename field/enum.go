// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import "github.com/wireloom/wireloom/wire"

// Enum is an integer field whose logical value is constrained to a
// declared set of named variants. Serialization is identical to the
// underlying [Int]; only Valid differs.
type Enum struct {
	inner  *Int
	names  map[int64]string
	strict bool
}

// NewEnum returns an Enum over the integer configuration cfg with the
// declared variants. The names map is keyed by logical value; names
// appear in capture records and inspection output. cfg.Strict applies
// against enum membership rather than the integer ranges.
func NewEnum(base Base, cfg IntConfig, names map[int64]string) *Enum {
	strict := cfg.Strict
	cfg.Strict = false
	return &Enum{inner: NewInt(base, cfg), names: names, strict: strict}
}

// Value returns the logical value.
func (f *Enum) Value() int64 { return f.inner.Value() }

// SetValue sets the logical value.
func (f *Enum) SetValue(v int64) { f.inner.SetValue(v) }

// Name returns the declared name of the current value, or "" when the
// value names no variant.
func (f *Enum) Name() string { return f.names[f.inner.Value()] }

// Length implements [Field].
func (f *Enum) Length() int { return f.inner.Length() }

// MinLength implements [Field].
func (f *Enum) MinLength() int { return f.inner.MinLength() }

// MaxLength implements [Field].
func (f *Enum) MaxLength() int { return f.inner.MaxLength() }

// Read implements [Field].
func (f *Enum) Read(r *wire.Reader, size int) wire.Status {
	if st := f.inner.Read(r, size); st != wire.Success {
		return st
	}
	if f.strict && !f.Valid() {
		return wire.ProtocolError
	}
	return wire.Success
}

// Write implements [Field].
func (f *Enum) Write(w wire.Writer, size int) wire.Status {
	return f.inner.Write(w, size)
}

// Valid implements [Field]. The value must name a declared variant.
func (f *Enum) Valid() bool {
	_, ok := f.names[f.inner.Value()]
	return ok
}

// Refresh implements [Field].
func (f *Enum) Refresh() bool { return false }

// Clone implements [Field]. The names map is shared: it is
// construction-time data and never mutated.
func (f *Enum) Clone() Field {
	return &Enum{inner: f.inner.Clone().(*Int), names: f.names, strict: f.strict}
}

// Bits implements [Packed].
func (f *Enum) Bits() int { return f.inner.Bits() }

// LoadBits implements [Packed].
func (f *Enum) LoadBits(raw uint64) { f.inner.LoadBits(raw) }

// StoreBits implements [Packed].
func (f *Enum) StoreBits() uint64 { return f.inner.StoreBits() }
