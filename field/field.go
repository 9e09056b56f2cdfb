// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import "github.com/wireloom/wireloom/wire"

// Field is the contract every codec implements. See the package
// documentation for the semantics of each operation.
type Field interface {
	// Length returns the current serialized length in bytes. It may
	// depend on the value for variable-length encodings.
	Length() int

	// MinLength returns the smallest length any value serializes to.
	MinLength() int

	// MaxLength returns the largest length any value serializes to.
	MaxLength() int

	// Read decodes the field from r, consuming at most size bytes.
	// On NotEnoughData the reader is restored to the position where
	// the field began.
	Read(r *wire.Reader, size int) wire.Status

	// Write encodes the field to w, emitting at most size bytes.
	// Returns BufferOverflow when Length() exceeds size.
	Write(w wire.Writer, size int) wire.Status

	// Valid reports whether the value satisfies the field's semantic
	// constraints.
	Valid() bool

	// Refresh recomputes dependent state (size prefixes, element
	// prefixes of nested fields) and reports whether anything
	// changed. A second immediate call always returns false.
	Refresh() bool

	// Clone returns a deep, independent copy.
	Clone() Field
}

// Base carries the per-dialect serialization attributes shared by all
// fields of a message family. A dialect defines one Base and passes
// it to every field constructor; a field needing a byte-order
// override simply receives a different Base.
type Base struct {
	// Endian is the byte order for multi-byte integer packing.
	Endian wire.Endian
}

// Packed is implemented by fields that can live inside a [Bitfield].
// Such fields declare a fixed bit length and expose their stored
// representation as raw bits for the enclosing bitfield to shift and
// mask into the packed group.
type Packed interface {
	Field

	// Bits returns the declared bit length.
	Bits() int

	// LoadBits installs the value from its raw stored bits.
	LoadBits(raw uint64)

	// StoreBits returns the value as raw stored bits, truncated to
	// the declared bit length.
	StoreBits() uint64
}

// available returns the byte count a read may consume: the smaller of
// the layer-imposed budget and what the reader physically holds.
func available(r *wire.Reader, size int) int {
	if rem := r.Remaining(); rem < size {
		return rem
	}
	return size
}
