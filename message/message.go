// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/wire"
)

// ID is the logical message identifier. Dialects with enumerated ids
// declare named constants of this type; the serialized width and byte
// order belong to the transport's id layer, not to the id itself.
type ID uint64

// Capability selects which operations the message interface exposes.
// Operations outside the configured set return NotSupported.
type Capability uint16

const (
	// CapRead enables decoding the payload from wire bytes.
	CapRead Capability = 1 << iota
	// CapWrite enables encoding the payload to wire bytes.
	CapWrite
	// CapLength enables serialized-length queries.
	CapLength
	// CapValid enables semantic validity queries.
	CapValid
	// CapRefresh enables dependent-state recomputation.
	CapRefresh
	// CapID enables id retrieval through the polymorphic handle.
	CapID
	// CapDispatch enables visitor double-dispatch.
	CapDispatch

	// CapAll enables every operation.
	CapAll Capability = CapRead | CapWrite | CapLength | CapValid |
		CapRefresh | CapID | CapDispatch
)

// Interface is the dialect-wide message interface configuration: the
// ambient byte order and the capability set. One Interface value is
// shared by all messages of a dialect.
type Interface struct {
	endian wire.Endian
	caps   Capability
}

// NewInterface returns an Interface with the given ambient byte order
// and capability set.
func NewInterface(endian wire.Endian, caps Capability) *Interface {
	return &Interface{endian: endian, caps: caps}
}

// Endian returns the ambient byte order.
func (i *Interface) Endian() wire.Endian { return i.endian }

// Has reports whether the capability is configured.
func (i *Interface) Has(c Capability) bool { return i.caps&c == c }

// FieldBase returns the field construction base carrying the ambient
// byte order, for dialects to pass to field constructors.
func (i *Interface) FieldBase() field.Base { return field.Base{Endian: i.endian} }

// Handler is the framework-level visitor contract. Dialects extend it
// with one callback per concrete message kind; a concrete message's
// Dispatch asserts the visitor against the dialect interface and
// falls back to HandleUnknown when the assertion fails.
type Handler interface {
	// HandleUnknown receives messages the visitor declares no
	// specific callback for.
	HandleUnknown(m Message)
}

// Message is the uniform polymorphic handle to a concrete message.
// Every operation is gated by the interface's capability set.
type Message interface {
	// Interface returns the dialect interface configuration.
	Interface() *Interface

	// Payload returns the message body as a bundle of fields.
	Payload() *field.Bundle

	// GetID returns the message id. NotSupported without CapID.
	GetID() (ID, wire.Status)

	// Read decodes the payload from r within the size budget.
	// NotSupported without CapRead.
	Read(r *wire.Reader, size int) wire.Status

	// Write encodes the payload to w within the size budget.
	// NotSupported without CapWrite.
	Write(w wire.Writer, size int) wire.Status

	// Length returns the current serialized payload length.
	// NotSupported without CapLength.
	Length() (int, wire.Status)

	// Valid reports payload validity. NotSupported without CapValid.
	Valid() (bool, wire.Status)

	// Refresh recomputes dependent payload state and reports whether
	// anything changed. NotSupported without CapRefresh.
	Refresh() (bool, wire.Status)

	// Dispatch performs visitor double-dispatch. NotSupported
	// without CapDispatch.
	Dispatch(h Handler) wire.Status
}

// Base is the common implementation embedded by every concrete
// message. It implements the full [Message] contract against the
// payload bundle; concrete types override Dispatch to add their
// double-dispatch arm.
type Base struct {
	iface   *Interface
	id      ID
	payload *field.Bundle
}

// NewBase returns a Base for a concrete message with the given id and
// payload bundle.
func NewBase(iface *Interface, id ID, payload *field.Bundle) Base {
	return Base{iface: iface, id: id, payload: payload}
}

// Interface implements [Message].
func (b *Base) Interface() *Interface { return b.iface }

// Payload implements [Message].
func (b *Base) Payload() *field.Bundle { return b.payload }

// GetID implements [Message].
func (b *Base) GetID() (ID, wire.Status) {
	if !b.iface.Has(CapID) {
		return 0, wire.NotSupported
	}
	return b.id, wire.Success
}

// Read implements [Message].
func (b *Base) Read(r *wire.Reader, size int) wire.Status {
	if !b.iface.Has(CapRead) {
		return wire.NotSupported
	}
	return b.payload.Read(r, size)
}

// Write implements [Message].
func (b *Base) Write(w wire.Writer, size int) wire.Status {
	if !b.iface.Has(CapWrite) {
		return wire.NotSupported
	}
	return b.payload.Write(w, size)
}

// Length implements [Message].
func (b *Base) Length() (int, wire.Status) {
	if !b.iface.Has(CapLength) {
		return 0, wire.NotSupported
	}
	return b.payload.Length(), wire.Success
}

// Valid implements [Message].
func (b *Base) Valid() (bool, wire.Status) {
	if !b.iface.Has(CapValid) {
		return false, wire.NotSupported
	}
	return b.payload.Valid(), wire.Success
}

// Refresh implements [Message].
func (b *Base) Refresh() (bool, wire.Status) {
	if !b.iface.Has(CapRefresh) {
		return false, wire.NotSupported
	}
	return b.payload.Refresh(), wire.Success
}

// Dispatch implements [Message]. Double-dispatch needs the concrete
// type, so the Base arm only reports that the concrete message did
// not provide one. Concrete messages shadow this method: gate with
// CheckDispatch, assert the visitor against the dialect handler
// interface, fall back to HandleUnknown.
func (b *Base) Dispatch(Handler) wire.Status {
	if st := b.CheckDispatch(); st != wire.Success {
		return st
	}
	return wire.NotSupported
}

// Check returns NotSupported unless the capability is configured.
// Concrete messages overriding an operation call it first so the
// override honors the interface configuration exactly as Base does.
func (b *Base) Check(c Capability) wire.Status {
	if !b.iface.Has(c) {
		return wire.NotSupported
	}
	return wire.Success
}

// CheckDispatch is Check(CapDispatch); concrete Dispatch overrides
// call it first.
func (b *Base) CheckDispatch() wire.Status {
	return b.Check(CapDispatch)
}
