// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Layer is one framing element of a protocol stack. Implementations
// receive their own field slot plus a callable for the inner layer's
// corresponding operation; the stack drives the recursion and owns
// the per-frame state.
type Layer interface {
	// NewField returns a fresh field instance for one frame.
	NewField() field.Field

	// Read decodes the layer's framing from r within the size
	// budget, validates it, and delegates the reduced window to
	// next.
	Read(fld field.Field, ex *Exchange, r *wire.Reader, size int, next NextReader) wire.Status

	// Write encodes the layer's framing for m and delegates the
	// reduced budget to next.
	Write(fld field.Field, m message.Message, w wire.Writer, size int, next NextWriter) wire.Status

	// Update is the second write pass: it advances through the
	// already-assembled frame, filling any slot its Write left as a
	// placeholder, and delegates the reduced window to next.
	Update(fld field.Field, u *Updater, size int, next NextUpdater) wire.Status

	// Length returns the serialized length of this layer plus
	// everything inside it for message m; inner computes the inner
	// portion.
	Length(m message.Message, inner func() int) int

	// MinLength is the message-independent minimum: this layer's
	// smallest framing plus the inner minimum.
	MinLength(inner func() int) int
}

// NextReader is the inner layer's read operation.
type NextReader func(r *wire.Reader, size int) wire.Status

// NextWriter bundles the inner layer's write operation with its
// length query, which size-framing layers use to compute their field
// value up front.
type NextWriter struct {
	Write  func(w wire.Writer, size int) wire.Status
	Length func() int
}

// NextUpdater is the inner layer's update operation.
type NextUpdater func(u *Updater, size int) wire.Status

// Exchange carries the per-frame state the stack threads through a
// single read, write, or update: the message slot, the optional
// cached field list, and the missing-byte report.
type Exchange struct {
	msg     message.Message
	fields  AllFields
	missing int
}

// Msg returns the message for the frame in flight: the decode target
// allocated by the id layer on read.
func (ex *Exchange) Msg() message.Message { return ex.msg }

// SetMsg installs the decode target. Called by the id layer once the
// frame's id resolves to a concrete kind.
func (ex *Exchange) SetMsg(m message.Message) { ex.msg = m }

// setField records a layer's field instance in the cached list.
func (ex *Exchange) setField(depth int, f field.Field) {
	if ex.fields != nil && depth < len(ex.fields) {
		ex.fields[depth] = f
	}
}

// reportMissing records the lower bound of additional bytes that
// might let a failed read progress: the field's minimum length less
// what the window held, and never less than one.
func (ex *Exchange) reportMissing(minLength, avail int) {
	missing := minLength - avail
	if missing < 1 {
		missing = 1
	}
	ex.missing = missing
}

// AllFields holds one field instance per layer, outermost first,
// terminated by the payload's empty sentinel bundle. The cached
// read/write/update variants fill it so callers can inspect the
// framing of a single frame; index it with the layer's position in
// the stack.
type AllFields []field.Field

// Updater is the cursor of the update pass: it walks a fully
// assembled frame, skipping finished bytes and patching reserved
// slots in place.
type Updater struct {
	frame []byte
	pos   int
}

// NewUpdater returns an Updater over the assembled frame.
func NewUpdater(frame []byte) *Updater {
	return &Updater{frame: frame}
}

// Pos returns the cursor position from the frame start.
func (u *Updater) Pos() int { return u.pos }

// Remaining returns the byte count from the cursor to the frame end.
func (u *Updater) Remaining() int { return len(u.frame) - u.pos }

// Frame returns the whole frame. Checksum layers read their covered
// range from it.
func (u *Updater) Frame() []byte { return u.frame }

// Skip advances past n already-correct bytes.
func (u *Updater) Skip(n int) wire.Status {
	if n < 0 || n > u.Remaining() {
		return wire.BufferOverflow
	}
	u.pos += n
	return wire.Success
}

// PatchField serializes fld over the bytes at the cursor and
// advances past them.
func (u *Updater) PatchField(fld field.Field) wire.Status {
	n := fld.Length()
	if n > u.Remaining() {
		return wire.BufferOverflow
	}
	w := wire.NewBufWriter(u.frame[u.pos : u.pos+n])
	if st := fld.Write(w, n); st != wire.Success {
		return st
	}
	u.pos += n
	return wire.Success
}
