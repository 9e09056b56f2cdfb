// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Payload is the stack's base case: it reads into or writes from the
// message body and owns no framing field. Its AllFields slot holds an
// empty sentinel bundle.
type Payload struct{}

// NewPayload returns the payload layer.
func NewPayload() *Payload { return &Payload{} }

// NewField implements [Layer]: the empty sentinel.
func (ly *Payload) NewField() field.Field { return field.NewBundle() }

// Read implements [Layer]. The message must have been installed by an
// id layer (or pre-seeded via Stack.ReadInto); without one there is
// nothing to decode into.
func (ly *Payload) Read(fld field.Field, ex *Exchange, r *wire.Reader, size int, next NextReader) wire.Status {
	m := ex.Msg()
	if m == nil {
		return wire.InvalidMsgID
	}
	st := m.Read(r, size)
	if st == wire.NotEnoughData {
		ex.reportMissing(m.Payload().MinLength(), min(size, r.Remaining()))
	}
	return st
}

// Write implements [Layer].
func (ly *Payload) Write(fld field.Field, m message.Message, w wire.Writer, size int, next NextWriter) wire.Status {
	return m.Write(w, size)
}

// Update implements [Layer]: payload bytes are already final.
func (ly *Payload) Update(fld field.Field, u *Updater, size int, next NextUpdater) wire.Status {
	return u.Skip(size)
}

// Length implements [Layer].
func (ly *Payload) Length(m message.Message, inner func() int) int {
	if m == nil {
		return 0
	}
	length, st := m.Length()
	if st != wire.Success {
		return 0
	}
	return length
}

// MinLength implements [Layer]: message-independent, so zero.
func (ly *Payload) MinLength(inner func() int) int { return 0 }
