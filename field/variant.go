// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"fmt"

	"github.com/wireloom/wireloom/wire"
)

// Alternative declares one arm of a [Variant]: the key value that
// selects it on the wire and a factory for its body field.
type Alternative struct {
	Key  int64
	Name string
	New  func() Field
}

// Variant is a tagged union over a closed set of alternatives. The
// key field is serialized first; only the selected alternative's body
// follows it.
type Variant struct {
	key      *Int
	alts     []Alternative
	selected int // index into alts, -1 when nothing is selected
	body     Field
}

// NewVariant returns a Variant with the given key field prototype and
// alternatives. Panics on duplicate keys or an empty alternative set.
func NewVariant(key *Int, alts []Alternative) *Variant {
	if len(alts) == 0 {
		panic("field: Variant without alternatives")
	}
	seen := make(map[int64]bool, len(alts))
	for _, alt := range alts {
		if seen[alt.Key] {
			panic(fmt.Sprintf("field: Variant with duplicate key %d", alt.Key))
		}
		seen[alt.Key] = true
	}
	return &Variant{key: key, alts: alts, selected: -1}
}

// Select picks alternative i and stamps out a fresh body, which is
// returned for the caller to populate.
func (f *Variant) Select(i int) Field {
	f.selected = i
	f.body = f.alts[i].New()
	f.key.SetValue(f.alts[i].Key)
	return f.body
}

// SelectKey picks the alternative declared with the given key.
// Returns nil when no alternative claims it.
func (f *Variant) SelectKey(key int64) Field {
	for i, alt := range f.alts {
		if alt.Key == key {
			return f.Select(i)
		}
	}
	return nil
}

// Selected returns the selected alternative index, -1 when none.
func (f *Variant) Selected() int { return f.selected }

// Body returns the selected alternative's body field, nil when none.
func (f *Variant) Body() Field { return f.body }

// Name returns the selected alternative's declared name.
func (f *Variant) Name() string {
	if f.selected < 0 {
		return ""
	}
	return f.alts[f.selected].Name
}

// Length implements [Field].
func (f *Variant) Length() int {
	if f.body == nil {
		return f.key.Length()
	}
	return f.key.Length() + f.body.Length()
}

// MinLength implements [Field]: the key plus the smallest body.
func (f *Variant) MinLength() int {
	min := -1
	for _, alt := range f.alts {
		if l := alt.New().MinLength(); min < 0 || l < min {
			min = l
		}
	}
	return f.key.Length() + min
}

// MaxLength implements [Field]: the key plus the largest body.
func (f *Variant) MaxLength() int {
	max := 0
	for _, alt := range f.alts {
		if l := alt.New().MaxLength(); l > max {
			max = l
		}
	}
	return saturatingAdd(f.key.Length(), max)
}

// Read implements [Field]. An unrecognized key is InvalidMsgData with
// the reader positioned just past the key — the byte where the fault
// was detected.
func (f *Variant) Read(r *wire.Reader, size int) wire.Status {
	start := r.Pos()
	if st := f.key.Read(r, available(r, size)); st != wire.Success {
		return st
	}
	body := f.SelectKey(f.key.Value())
	if body == nil {
		f.selected = -1
		f.body = nil
		return wire.InvalidMsgData
	}
	st := body.Read(r, size-(r.Pos()-start))
	if st == wire.NotEnoughData {
		r.SetPos(start)
	}
	return st
}

// Write implements [Field]. Writing with no selected alternative is
// InvalidMsgData.
func (f *Variant) Write(w wire.Writer, size int) wire.Status {
	if f.selected < 0 {
		return wire.InvalidMsgData
	}
	if f.Length() > size {
		return wire.BufferOverflow
	}
	f.key.SetValue(f.alts[f.selected].Key)
	if st := f.key.Write(w, f.key.Length()); st != wire.Success {
		return st
	}
	return f.body.Write(w, size-f.key.Length())
}

// Valid implements [Field].
func (f *Variant) Valid() bool {
	return f.selected >= 0 && f.body.Valid()
}

// Refresh implements [Field].
func (f *Variant) Refresh() bool {
	if f.body == nil {
		return false
	}
	return f.body.Refresh()
}

// Clone implements [Field].
func (f *Variant) Clone() Field {
	clone := &Variant{
		key:      f.key.Clone().(*Int),
		alts:     f.alts,
		selected: f.selected,
	}
	if f.body != nil {
		clone.body = f.body.Clone()
	}
	return clone
}
