// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import "github.com/wireloom/wireloom/wire"

// Bundle is a heterogeneous tuple of member fields laid out
// contiguously with no framing of its own. Message payloads are
// bundles; bundles also nest inside arrays and variants.
type Bundle struct {
	members []Field
}

// NewBundle returns a Bundle over the given members, serialized in
// declared order.
func NewBundle(members ...Field) *Bundle {
	return &Bundle{members: members}
}

// Members returns the member fields in declared order.
func (f *Bundle) Members() []Field { return f.members }

// At returns member i.
func (f *Bundle) At(i int) Field { return f.members[i] }

// NumMembers returns the member count.
func (f *Bundle) NumMembers() int { return len(f.members) }

// Length implements [Field]: the sum of member lengths.
func (f *Bundle) Length() int {
	total := 0
	for _, m := range f.members {
		total += m.Length()
	}
	return total
}

// MinLength implements [Field].
func (f *Bundle) MinLength() int {
	total := 0
	for _, m := range f.members {
		total += m.MinLength()
	}
	return total
}

// MaxLength implements [Field].
func (f *Bundle) MaxLength() int {
	total := 0
	for _, m := range f.members {
		total = saturatingAdd(total, m.MaxLength())
	}
	return total
}

// Read implements [Field]. Members are read in declared order; the
// first failure aborts and, on NotEnoughData, restores the reader to
// the bundle start so the whole tuple rereads once more data arrives.
func (f *Bundle) Read(r *wire.Reader, size int) wire.Status {
	start := r.Pos()
	for _, m := range f.members {
		consumed := r.Pos() - start
		st := m.Read(r, size-consumed)
		if st != wire.Success {
			if st == wire.NotEnoughData {
				r.SetPos(start)
			}
			return st
		}
	}
	return wire.Success
}

// Write implements [Field].
func (f *Bundle) Write(w wire.Writer, size int) wire.Status {
	if f.Length() > size {
		return wire.BufferOverflow
	}
	remaining := size
	for _, m := range f.members {
		if st := m.Write(w, remaining); st != wire.Success {
			return st
		}
		remaining -= m.Length()
	}
	return wire.Success
}

// Valid implements [Field]: the conjunction of member validity.
func (f *Bundle) Valid() bool {
	for _, m := range f.members {
		if !m.Valid() {
			return false
		}
	}
	return true
}

// Refresh implements [Field].
func (f *Bundle) Refresh() bool {
	changed := false
	for _, m := range f.members {
		if m.Refresh() {
			changed = true
		}
	}
	return changed
}

// Clone implements [Field].
func (f *Bundle) Clone() Field {
	members := make([]Field, len(f.members))
	for i, m := range f.members {
		members[i] = m.Clone()
	}
	return &Bundle{members: members}
}

// saturatingAdd adds lengths without wrapping past the int maximum;
// unbounded members report MaxInt and must stay there.
func saturatingAdd(a, b int) int {
	sum := a + b
	if sum < a {
		return int(^uint(0) >> 1)
	}
	return sum
}
