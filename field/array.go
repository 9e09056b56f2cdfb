// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"math"

	"github.com/wireloom/wireloom/wire"
)

// ArrayConfig parameterizes an [Array] field. Exactly one length
// policy applies: prefixed (SizePrefix set), fixed (FixedCount set),
// or trailing (neither; elements consume the remaining window).
type ArrayConfig struct {
	// Element stamps out a fresh element field. Required.
	Element func() Field

	// SizePrefix, when non-nil, precedes the elements and carries
	// their count (or byte length, with CountBytes).
	SizePrefix *Int

	// CountBytes makes the size prefix count serialized bytes
	// instead of elements.
	CountBytes bool

	// FixedCount, when positive, is the exact element count.
	FixedCount int

	// MinCount and MaxCount bound the element count for Valid.
	// MaxCount zero means unbounded.
	MinCount int
	MaxCount int
}

// Array is a homogeneous sequence of element fields.
type Array struct {
	cfg      ArrayConfig
	elements []Field
}

// NewArray returns an Array configured by cfg. Panics when the
// element factory is missing or both prefixed and fixed policies are
// configured.
func NewArray(cfg ArrayConfig) *Array {
	if cfg.Element == nil {
		panic("field: Array without element factory")
	}
	if cfg.SizePrefix != nil && cfg.FixedCount > 0 {
		panic("field: Array with both size prefix and fixed count")
	}
	a := &Array{cfg: cfg}
	for range cfg.FixedCount {
		a.elements = append(a.elements, cfg.Element())
	}
	return a
}

// Elements returns the element fields in order.
func (f *Array) Elements() []Field { return f.elements }

// At returns element i.
func (f *Array) At(i int) Field { return f.elements[i] }

// Count returns the element count.
func (f *Array) Count() int { return len(f.elements) }

// Append adds a fresh element produced by the factory and returns it
// for the caller to populate.
func (f *Array) Append() Field {
	e := f.cfg.Element()
	f.elements = append(f.elements, e)
	return e
}

// SetCount resizes to exactly n elements, stamping out fresh ones or
// truncating as needed.
func (f *Array) SetCount(n int) {
	for len(f.elements) < n {
		f.elements = append(f.elements, f.cfg.Element())
	}
	f.elements = f.elements[:n]
}

// Prefix returns the size-prefix field instance, nil for other
// policies.
func (f *Array) Prefix() *Int { return f.cfg.SizePrefix }

// elementsLength is the serialized length of the elements alone.
func (f *Array) elementsLength() int {
	total := 0
	for _, e := range f.elements {
		total += e.Length()
	}
	return total
}

// Length implements [Field].
func (f *Array) Length() int {
	if f.cfg.SizePrefix != nil {
		return f.cfg.SizePrefix.Length() + f.elementsLength()
	}
	return f.elementsLength()
}

// MinLength implements [Field].
func (f *Array) MinLength() int {
	switch {
	case f.cfg.SizePrefix != nil:
		return f.cfg.SizePrefix.Length()
	case f.cfg.FixedCount > 0:
		return f.cfg.FixedCount * f.cfg.Element().MinLength()
	default:
		return 0
	}
}

// MaxLength implements [Field].
func (f *Array) MaxLength() int {
	if f.cfg.FixedCount > 0 {
		return f.cfg.FixedCount * f.cfg.Element().MaxLength()
	}
	if f.cfg.MaxCount > 0 {
		return f.MinLength() + f.cfg.MaxCount*f.cfg.Element().MaxLength()
	}
	return math.MaxInt
}

// Read implements [Field]. On NotEnoughData the reader is restored to
// the array start so the whole sequence rereads once more data
// arrives.
func (f *Array) Read(r *wire.Reader, size int) wire.Status {
	start := r.Pos()
	st := f.doRead(r, size)
	if st == wire.NotEnoughData {
		r.SetPos(start)
	}
	return st
}

func (f *Array) doRead(r *wire.Reader, size int) wire.Status {
	start := r.Pos()
	avail := available(r, size)

	switch {
	case f.cfg.SizePrefix != nil:
		if st := f.cfg.SizePrefix.Read(r, avail); st != wire.Success {
			return st
		}
		n := int(f.cfg.SizePrefix.Value())
		if f.cfg.CountBytes {
			return f.readByteLimited(r, n, avail-f.cfg.SizePrefix.Length())
		}
		f.elements = f.elements[:0]
		for range n {
			e := f.cfg.Element()
			consumed := r.Pos() - start
			if st := e.Read(r, avail-consumed); st != wire.Success {
				return st
			}
			f.elements = append(f.elements, e)
		}
		return wire.Success

	case f.cfg.FixedCount > 0:
		f.SetCount(f.cfg.FixedCount)
		for _, e := range f.elements {
			consumed := r.Pos() - start
			if st := e.Read(r, avail-consumed); st != wire.Success {
				return st
			}
		}
		return wire.Success

	default:
		// Trailing: the window is exactly the element data.
		if r.Remaining() < size {
			return wire.NotEnoughData
		}
		return f.readByteLimited(r, size, size)
	}
}

// readByteLimited reads elements until exactly limit bytes are
// consumed. A prefix or window that does not land on an element
// boundary is a protocol violation.
func (f *Array) readByteLimited(r *wire.Reader, limit, avail int) wire.Status {
	if limit > avail {
		return wire.NotEnoughData
	}
	start := r.Pos()
	f.elements = f.elements[:0]
	for r.Pos()-start < limit {
		e := f.cfg.Element()
		if st := e.Read(r, limit-(r.Pos()-start)); st != wire.Success {
			if st == wire.NotEnoughData {
				// The byte budget itself was available; an element
				// overrunning it means malformed framing, not
				// truncation.
				return wire.ProtocolError
			}
			return st
		}
		f.elements = append(f.elements, e)
	}
	if r.Pos()-start != limit {
		return wire.ProtocolError
	}
	return wire.Success
}

// Write implements [Field].
func (f *Array) Write(w wire.Writer, size int) wire.Status {
	if f.Length() > size {
		return wire.BufferOverflow
	}
	remaining := size
	if f.cfg.SizePrefix != nil {
		prefix := f.cfg.SizePrefix
		saved := prefix.Value()
		if f.cfg.CountBytes {
			prefix.SetValue(int64(f.elementsLength()))
		} else {
			prefix.SetValue(int64(len(f.elements)))
		}
		if st := prefix.Write(w, prefix.Length()); st != wire.Success {
			prefix.SetValue(saved)
			return st
		}
		remaining -= prefix.Length()
	}
	for _, e := range f.elements {
		if st := e.Write(w, remaining); st != wire.Success {
			return st
		}
		remaining -= e.Length()
	}
	return wire.Success
}

// Valid implements [Field]: every element valid and the count within
// configured bounds.
func (f *Array) Valid() bool {
	if len(f.elements) < f.cfg.MinCount {
		return false
	}
	if f.cfg.MaxCount > 0 && len(f.elements) > f.cfg.MaxCount {
		return false
	}
	if f.cfg.FixedCount > 0 && len(f.elements) != f.cfg.FixedCount {
		return false
	}
	for _, e := range f.elements {
		if !e.Valid() {
			return false
		}
	}
	return true
}

// Refresh implements [Field]: synchronizes the stored size prefix and
// refreshes elements.
func (f *Array) Refresh() bool {
	changed := false
	for _, e := range f.elements {
		if e.Refresh() {
			changed = true
		}
	}
	if f.cfg.SizePrefix != nil {
		want := int64(len(f.elements))
		if f.cfg.CountBytes {
			want = int64(f.elementsLength())
		}
		if f.cfg.SizePrefix.Value() != want {
			f.cfg.SizePrefix.SetValue(want)
			changed = true
		}
	}
	return changed
}

// Clone implements [Field].
func (f *Array) Clone() Field {
	clone := &Array{cfg: f.cfg}
	if f.cfg.SizePrefix != nil {
		clone.cfg.SizePrefix = f.cfg.SizePrefix.Clone().(*Int)
	}
	clone.elements = make([]Field, len(f.elements))
	for i, e := range f.elements {
		clone.elements[i] = e.Clone()
	}
	return clone
}
