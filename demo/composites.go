// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Bitfields packs a mode, a priority, and a spare region into one
// byte, followed by a plain byte that is not part of the group.
type Bitfields struct {
	message.Base

	Group    *field.Bitfield
	Mode     *field.Int // 2 bits
	Priority *field.Int // 3 bits
	Spare    *field.Int // 3 bits
	Extra    *field.Int
}

// NewBitfields returns a Bitfields message with default field values.
func NewBitfields() *Bitfields {
	m := &Bitfields{
		Mode:     field.NewInt(fieldBase, field.IntConfig{Width: 1, Bits: 2}),
		Priority: field.NewInt(fieldBase, field.IntConfig{Width: 1, Bits: 3}),
		Spare:    field.NewInt(fieldBase, field.IntConfig{Width: 1, Bits: 3}),
		Extra:    field.NewInt(fieldBase, field.IntConfig{Width: 1}),
	}
	m.Group = field.NewBitfield(fieldBase, m.Mode, m.Priority, m.Spare)
	m.Base = message.NewBase(Iface, MsgIDBitfields, field.NewBundle(m.Group, m.Extra))
	return m
}

// Dispatch implements [message.Message].
func (m *Bitfields) Dispatch(h message.Handler) wire.Status {
	if st := m.CheckDispatch(); st != wire.Success {
		return st
	}
	if dh, ok := h.(Handler); ok {
		dh.HandleBitfields(m)
		return wire.Success
	}
	h.HandleUnknown(m)
	return wire.Success
}

// Strings carries the three string length policies: size-prefixed,
// zero-terminated, and fixed six bytes.
type Strings struct {
	message.Base

	Prefixed   *field.Bytes
	Terminated *field.Bytes
	Fixed      *field.Bytes
}

// NewStrings returns a Strings message with default field values.
func NewStrings() *Strings {
	m := &Strings{
		Prefixed: field.NewBytes(fieldBase, field.BytesConfig{
			SizePrefix: field.NewInt(fieldBase, field.IntConfig{Width: 1}),
		}),
		Terminated: field.NewBytes(fieldBase, field.BytesConfig{Terminator: []byte{0}}),
		Fixed:      field.NewBytes(fieldBase, field.BytesConfig{FixedSize: 6}),
	}
	m.Base = message.NewBase(Iface, MsgIDStrings, field.NewBundle(m.Prefixed, m.Terminated, m.Fixed))
	return m
}

// Dispatch implements [message.Message].
func (m *Strings) Dispatch(h message.Handler) wire.Status {
	if st := m.CheckDispatch(); st != wire.Success {
		return st
	}
	if dh, ok := h.(Handler); ok {
		dh.HandleStrings(m)
		return wire.Success
	}
	h.HandleUnknown(m)
	return wire.Success
}

// Lists carries the sequence policies: a fixed triple of signed
// readings and a count-prefixed list of keyed samples.
type Lists struct {
	message.Base

	Readings *field.Array // fixed 3 × s16
	Samples  *field.Array // u8-prefixed list of {key u8, value u16}
}

// NewSample stamps out one Samples element.
func NewSample() *field.Bundle {
	return field.NewBundle(
		field.NewInt(fieldBase, field.IntConfig{Width: 1}),
		field.NewInt(fieldBase, field.IntConfig{Width: 2}),
	)
}

// NewLists returns a Lists message with default field values.
func NewLists() *Lists {
	m := &Lists{
		Readings: field.NewArray(field.ArrayConfig{
			Element:    func() field.Field { return field.NewInt(fieldBase, field.IntConfig{Width: 2, Signed: true}) },
			FixedCount: 3,
		}),
		Samples: field.NewArray(field.ArrayConfig{
			Element:    func() field.Field { return NewSample() },
			SizePrefix: field.NewInt(fieldBase, field.IntConfig{Width: 1}),
		}),
	}
	m.Base = message.NewBase(Iface, MsgIDLists, field.NewBundle(m.Readings, m.Samples))
	return m
}

// Dispatch implements [message.Message].
func (m *Lists) Dispatch(h message.Handler) wire.Status {
	if st := m.CheckDispatch(); st != wire.Success {
		return st
	}
	if dh, ok := h.(Handler); ok {
		dh.HandleLists(m)
		return wire.Success
	}
	h.HandleUnknown(m)
	return wire.Success
}
