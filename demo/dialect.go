// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/layer"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// SyncValue is the frame synchronization magic.
const SyncValue = 0x574C

// Message ids of the dialect.
const (
	MsgIDIntValues   message.ID = 1
	MsgIDEnumValues  message.ID = 2
	MsgIDBitfields   message.ID = 3
	MsgIDStrings     message.ID = 4
	MsgIDLists       message.ID = 5
	MsgIDOptionals   message.ID = 6
	MsgIDFloatValues message.ID = 7
	MsgIDVariants    message.ID = 8
)

// Iface is the dialect's message interface: big-endian with the full
// capability set.
var Iface = message.NewInterface(wire.BigEndian, message.CapAll)

// fieldBase is passed to every field constructor of the dialect.
var fieldBase = Iface.FieldBase()

// NewRegistry returns the dialect's closed message set.
func NewRegistry() *message.Registry {
	reg := message.NewRegistry()
	reg.Register(MsgIDIntValues, "int-values", func() message.Message { return NewIntValues() })
	reg.Register(MsgIDEnumValues, "enum-values", func() message.Message { return NewEnumValues() })
	reg.Register(MsgIDBitfields, "bitfields", func() message.Message { return NewBitfields() })
	reg.Register(MsgIDStrings, "strings", func() message.Message { return NewStrings() })
	reg.Register(MsgIDLists, "lists", func() message.Message { return NewLists() })
	reg.Register(MsgIDOptionals, "optionals", func() message.Message { return NewOptionals() })
	reg.Register(MsgIDFloatValues, "float-values", func() message.Message { return NewFloatValues() })
	reg.Register(MsgIDVariants, "variants", func() message.Message { return NewVariants() })
	return reg
}

// NewFrame returns the dialect's transport stack over the given
// allocator. Layer order is outermost first; the checksum trailer
// covers the size, id, and payload bytes.
func NewFrame(alloc message.Allocator) *layer.Stack {
	return layer.NewStack(
		layer.NewSyncPrefix(field.NewInt(fieldBase, field.IntConfig{Width: 2, Default: SyncValue})),
		layer.NewChecksum(field.NewInt(fieldBase, field.IntConfig{Width: 1}), layer.SumBytes{}),
		layer.NewSize(field.NewInt(fieldBase, field.IntConfig{Width: 2})),
		layer.NewMsgID(field.NewInt(fieldBase, field.IntConfig{Width: 1}), alloc),
		layer.NewPayload(),
	)
}

// NewHeapFrame is NewFrame over a fresh heap allocator, the common
// configuration.
func NewHeapFrame() *layer.Stack {
	return NewFrame(message.NewHeapAllocator(NewRegistry()))
}
