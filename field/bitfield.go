// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"fmt"

	"github.com/wireloom/wireloom/wire"
)

// Bitfield packs member fields with declared bit lengths into a whole
// number of bytes. On the wire the group is one unsigned integer
// serialized under the ambient byte order; members occupy bit ranges
// assigned left to right from the least significant bit.
//
// A member value wider than its declared bit length is silently
// truncated on write; reading back yields the value modulo 2^bits.
type Bitfield struct {
	base      Base
	members   []Packed
	totalBits int
	validate  func(*Bitfield) bool
}

// NewBitfield returns a Bitfield over the given members. The bit
// lengths must sum to a multiple of 8 no larger than 64; anything
// else panics, as the layout is a dialect definition bug.
func NewBitfield(base Base, members ...Packed) *Bitfield {
	total := 0
	for i, m := range members {
		if m.Bits() <= 0 {
			panic(fmt.Sprintf("field: bitfield member %d declares no bit length", i))
		}
		total += m.Bits()
	}
	if total == 0 || total%8 != 0 {
		panic(fmt.Sprintf("field: bitfield bit lengths sum to %d, not a multiple of 8", total))
	}
	if total > 64 {
		panic(fmt.Sprintf("field: bitfield of %d bits exceeds 64", total))
	}
	return &Bitfield{base: base, members: members, totalBits: total}
}

// SetValidator installs a whole-group validity predicate checked by
// Valid in addition to per-member validity.
func (f *Bitfield) SetValidator(fn func(*Bitfield) bool) { f.validate = fn }

// Members returns the member fields in declared order.
func (f *Bitfield) Members() []Packed { return f.members }

// At returns member i.
func (f *Bitfield) At(i int) Packed { return f.members[i] }

// Length implements [Field].
func (f *Bitfield) Length() int { return f.totalBits / 8 }

// MinLength implements [Field].
func (f *Bitfield) MinLength() int { return f.Length() }

// MaxLength implements [Field].
func (f *Bitfield) MaxLength() int { return f.Length() }

// Read implements [Field].
func (f *Bitfield) Read(r *wire.Reader, size int) wire.Status {
	if available(r, size) < f.Length() {
		return wire.NotEnoughData
	}
	group, _ := r.ReadUint(f.Length(), f.base.Endian)
	shift := 0
	for _, m := range f.members {
		mask := uint64(1)<<m.Bits() - 1
		m.LoadBits((group >> shift) & mask)
		shift += m.Bits()
	}
	return wire.Success
}

// Write implements [Field].
func (f *Bitfield) Write(w wire.Writer, size int) wire.Status {
	if size < f.Length() {
		return wire.BufferOverflow
	}
	var group uint64
	shift := 0
	for _, m := range f.members {
		mask := uint64(1)<<m.Bits() - 1
		group |= (m.StoreBits() & mask) << shift
		shift += m.Bits()
	}
	return w.WriteUint(group, f.Length(), f.base.Endian)
}

// Valid implements [Field]: the conjunction of member validity plus
// the optional whole-group validator.
func (f *Bitfield) Valid() bool {
	for _, m := range f.members {
		if !m.Valid() {
			return false
		}
	}
	if f.validate != nil {
		return f.validate(f)
	}
	return true
}

// Refresh implements [Field].
func (f *Bitfield) Refresh() bool {
	changed := false
	for _, m := range f.members {
		if m.Refresh() {
			changed = true
		}
	}
	return changed
}

// Clone implements [Field].
func (f *Bitfield) Clone() Field {
	members := make([]Packed, len(f.members))
	for i, m := range f.members {
		members[i] = m.Clone().(Packed)
	}
	return &Bitfield{base: f.base, members: members, totalBits: f.totalBits, validate: f.validate}
}
