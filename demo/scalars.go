// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// IntValues carries the integer codec variations: a bounded counter,
// a signed delta, and a year serialized as a single offset byte.
type IntValues struct {
	message.Base

	// Counter is valid in [0, 10].
	Counter *field.Int
	// Delta is a signed 16-bit value.
	Delta *field.Int
	// Year is serialized as year-2000 in one byte.
	Year *field.Int
}

// NewIntValues returns an IntValues message with default field
// values.
func NewIntValues() *IntValues {
	m := &IntValues{
		Counter: field.NewInt(fieldBase, field.IntConfig{Width: 1, Ranges: []field.Range{{Min: 0, Max: 10}}}),
		Delta:   field.NewInt(fieldBase, field.IntConfig{Width: 2, Signed: true}),
		Year:    field.NewInt(fieldBase, field.IntConfig{Width: 1, Offset: -2000, Default: 2000}),
	}
	m.Base = message.NewBase(Iface, MsgIDIntValues, field.NewBundle(m.Counter, m.Delta, m.Year))
	return m
}

// Dispatch implements [message.Message].
func (m *IntValues) Dispatch(h message.Handler) wire.Status {
	if st := m.CheckDispatch(); st != wire.Success {
		return st
	}
	if dh, ok := h.(Handler); ok {
		dh.HandleIntValues(m)
		return wire.Success
	}
	h.HandleUnknown(m)
	return wire.Success
}

// EnumValues carries the enum codec variations: a dense mode enum and
// a sparse 16-bit command set that rejects undeclared values on read.
type EnumValues struct {
	message.Base

	Mode    *field.Enum
	Command *field.Enum
}

// Mode values.
const (
	ModeOff     = 0
	ModeOn      = 1
	ModeStandby = 2
)

// Command values; deliberately sparse.
const (
	CommandNoop  = 0x0000
	CommandReset = 0x0200
	CommandPurge = 0x0401
)

// NewEnumValues returns an EnumValues message with default field
// values.
func NewEnumValues() *EnumValues {
	m := &EnumValues{
		Mode: field.NewEnum(fieldBase, field.IntConfig{Width: 1},
			map[int64]string{ModeOff: "off", ModeOn: "on", ModeStandby: "standby"}),
		Command: field.NewEnum(fieldBase, field.IntConfig{Width: 2, Strict: true},
			map[int64]string{CommandNoop: "noop", CommandReset: "reset", CommandPurge: "purge"}),
	}
	m.Base = message.NewBase(Iface, MsgIDEnumValues, field.NewBundle(m.Mode, m.Command))
	return m
}

// Dispatch implements [message.Message].
func (m *EnumValues) Dispatch(h message.Handler) wire.Status {
	if st := m.CheckDispatch(); st != wire.Success {
		return st
	}
	if dh, ok := h.(Handler); ok {
		dh.HandleEnumValues(m)
		return wire.Success
	}
	h.HandleUnknown(m)
	return wire.Success
}

// FloatValues carries the floating codec variations: a single
// precision reading and a double precision accumulator.
type FloatValues struct {
	message.Base

	Reading     *field.Float
	Accumulated *field.Float
}

// NewFloatValues returns a FloatValues message with default field
// values.
func NewFloatValues() *FloatValues {
	m := &FloatValues{
		Reading:     field.NewFloat(fieldBase, field.FloatConfig{Width: 4}),
		Accumulated: field.NewFloat(fieldBase, field.FloatConfig{Width: 8}),
	}
	m.Base = message.NewBase(Iface, MsgIDFloatValues, field.NewBundle(m.Reading, m.Accumulated))
	return m
}

// Dispatch implements [message.Message].
func (m *FloatValues) Dispatch(h message.Handler) wire.Status {
	if st := m.CheckDispatch(); st != wire.Success {
		return st
	}
	if dh, ok := h.(Handler); ok {
		dh.HandleFloatValues(m)
		return wire.Success
	}
	h.HandleUnknown(m)
	return wire.Success
}
