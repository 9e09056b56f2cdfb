// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Optionals demonstrates presence driven by a flags bitmask: bit 0
// announces the timestamp, bit 1 the label. The flag byte is
// authoritative on the wire; Read installs presence from it before
// decoding the optional members, and Write re-derives it from the
// members' presence so the two can never disagree on the wire.
type Optionals struct {
	message.Base

	Flags        *field.Bitfield
	hasTimestamp *field.Int // 1 bit
	hasLabel     *field.Int // 1 bit
	spare        *field.Int // 6 bits

	Timestamp *field.Optional // u32 seconds
	Label     *field.Optional // u8-prefixed bytes
}

// NewOptionals returns an Optionals message with both members
// missing.
func NewOptionals() *Optionals {
	m := &Optionals{
		hasTimestamp: field.NewInt(fieldBase, field.IntConfig{Width: 1, Bits: 1}),
		hasLabel:     field.NewInt(fieldBase, field.IntConfig{Width: 1, Bits: 1}),
		spare:        field.NewInt(fieldBase, field.IntConfig{Width: 1, Bits: 6}),
		Timestamp: field.NewOptional(
			field.NewInt(fieldBase, field.IntConfig{Width: 4}), field.Missing),
		Label: field.NewOptional(
			field.NewBytes(fieldBase, field.BytesConfig{
				SizePrefix: field.NewInt(fieldBase, field.IntConfig{Width: 1}),
			}), field.Missing),
	}
	m.Flags = field.NewBitfield(fieldBase, m.hasTimestamp, m.hasLabel, m.spare)
	m.Base = message.NewBase(Iface, MsgIDOptionals, field.NewBundle(m.Flags, m.Timestamp, m.Label))
	return m
}

// TimestampValue returns the timestamp integer field for callers that
// set it; presence follows from SetPresence on Timestamp.
func (m *Optionals) TimestampValue() *field.Int {
	return m.Timestamp.Inner().(*field.Int)
}

// LabelValue returns the label bytes field.
func (m *Optionals) LabelValue() *field.Bytes {
	return m.Label.Inner().(*field.Bytes)
}

// syncFlags re-derives the flag bits from member presence; reports
// whether either bit changed.
func (m *Optionals) syncFlags() bool {
	changed := false
	for _, pair := range []struct {
		bit *field.Int
		opt *field.Optional
	}{
		{m.hasTimestamp, m.Timestamp},
		{m.hasLabel, m.Label},
	} {
		want := int64(0)
		if pair.opt.Presence() == field.Present {
			want = 1
		}
		if pair.bit.Value() != want {
			pair.bit.SetValue(want)
			changed = true
		}
	}
	return changed
}

// Read implements [message.Message]: the flag byte decides which
// optional members follow.
func (m *Optionals) Read(r *wire.Reader, size int) wire.Status {
	if st := m.Check(message.CapRead); st != wire.Success {
		return st
	}
	start := r.Pos()
	if st := m.Flags.Read(r, size); st != wire.Success {
		return st
	}
	m.Timestamp.SetPresence(presenceFromBit(m.hasTimestamp))
	m.Label.SetPresence(presenceFromBit(m.hasLabel))

	for _, member := range []field.Field{m.Timestamp, m.Label} {
		consumed := r.Pos() - start
		if st := member.Read(r, size-consumed); st != wire.Success {
			if st == wire.NotEnoughData {
				r.SetPos(start)
			}
			return st
		}
	}
	return wire.Success
}

// Write implements [message.Message]: the flag bits are re-derived
// from member presence before the bundle serializes.
func (m *Optionals) Write(w wire.Writer, size int) wire.Status {
	if st := m.Check(message.CapWrite); st != wire.Success {
		return st
	}
	m.syncFlags()
	return m.Payload().Write(w, size)
}

// Refresh implements [message.Message].
func (m *Optionals) Refresh() (bool, wire.Status) {
	if st := m.Check(message.CapRefresh); st != wire.Success {
		return false, st
	}
	changed := m.syncFlags()
	if m.Payload().Refresh() {
		changed = true
	}
	return changed, wire.Success
}

// Length implements [message.Message]: flags plus whatever members
// are present.
func (m *Optionals) Length() (int, wire.Status) {
	if st := m.Check(message.CapLength); st != wire.Success {
		return 0, st
	}
	return m.Payload().Length(), wire.Success
}

// Dispatch implements [message.Message].
func (m *Optionals) Dispatch(h message.Handler) wire.Status {
	if st := m.CheckDispatch(); st != wire.Success {
		return st
	}
	if dh, ok := h.(Handler); ok {
		dh.HandleOptionals(m)
		return wire.Success
	}
	h.HandleUnknown(m)
	return wire.Success
}

func presenceFromBit(bit *field.Int) field.Presence {
	if bit.Value() != 0 {
		return field.Present
	}
	return field.Missing
}

// Variant keys of the Variants message.
const (
	VariantKeyReading = 1
	VariantKeySample  = 2
	VariantKeyNote    = 3
)

// Variants carries one tagged union: a bare reading, a keyed sample
// pair, or a free-form note.
type Variants struct {
	message.Base

	Value *field.Variant
}

// NewVariants returns a Variants message with no arm selected;
// callers must Select one (or decode) before writing.
func NewVariants() *Variants {
	m := &Variants{
		Value: field.NewVariant(
			field.NewInt(fieldBase, field.IntConfig{Width: 1}),
			[]field.Alternative{
				{Key: VariantKeyReading, Name: "reading", New: func() field.Field {
					return field.NewInt(fieldBase, field.IntConfig{Width: 2})
				}},
				{Key: VariantKeySample, Name: "sample", New: func() field.Field {
					return NewSample()
				}},
				{Key: VariantKeyNote, Name: "note", New: func() field.Field {
					return field.NewBytes(fieldBase, field.BytesConfig{
						SizePrefix: field.NewInt(fieldBase, field.IntConfig{Width: 1}),
					})
				}},
			},
		),
	}
	m.Base = message.NewBase(Iface, MsgIDVariants, field.NewBundle(m.Value))
	return m
}

// Dispatch implements [message.Message].
func (m *Variants) Dispatch(h message.Handler) wire.Status {
	if st := m.CheckDispatch(); st != wire.Success {
		return st
	}
	if dh, ok := h.(Handler); ok {
		dh.HandleVariants(m)
		return wire.Success
	}
	h.HandleUnknown(m)
	return wire.Success
}
