// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// MsgID frames the message identifier and owns message construction:
// on read it decodes the id, allocates the matching kind through the
// configured allocator, and hands the payload window down.
//
// When a dialect registers several kinds under one id, the layer
// disambiguates by payload: it tries occurrence index 0, 1, ... until
// an inner read succeeds or the alternatives are exhausted, releasing
// each rejected instance.
type MsgID struct {
	proto *field.Int
	alloc message.Allocator
}

// NewMsgID returns an id layer with the prototype id field and the
// allocator that constructs decode targets.
func NewMsgID(proto *field.Int, alloc message.Allocator) *MsgID {
	return &MsgID{proto: proto, alloc: alloc}
}

// NewField implements [Layer].
func (ly *MsgID) NewField() field.Field { return ly.proto.Clone() }

// Read implements [Layer]. An id naming no registered kind is
// InvalidMsgID with the reader restored to the first id byte, so the
// caller can resynchronize from there.
func (ly *MsgID) Read(fld field.Field, ex *Exchange, r *wire.Reader, size int, next NextReader) wire.Status {
	f := fld.(*field.Int)
	idStart := r.Pos()
	if st := f.Read(r, size); st != wire.Success {
		if st == wire.NotEnoughData {
			ex.reportMissing(f.MinLength(), min(size, r.Remaining()))
		}
		return st
	}
	id := message.ID(f.Value())
	afterID := r.Pos()

	// A pre-seeded decode target (Stack.ReadInto) bypasses
	// allocation; the wire id must still agree with the target's.
	if seeded := ex.Msg(); seeded != nil {
		if wantID, idStatus := seeded.GetID(); idStatus == wire.Success && wantID != id {
			r.SetPos(idStart)
			return wire.InvalidMsgID
		}
		return next(r, size-f.Length())
	}

	var st wire.Status
	for idx := 0; ; idx++ {
		m, allocStatus := ly.alloc.Alloc(id, idx)
		if allocStatus != wire.Success {
			if idx == 0 {
				if allocStatus == wire.InvalidMsgID {
					r.SetPos(idStart)
				}
				return allocStatus
			}
			// Alternatives exhausted: surface the last payload
			// rejection.
			return st
		}
		ex.SetMsg(m)
		r.SetPos(afterID)
		st = next(r, size-f.Length())
		if st == wire.Success {
			return st
		}
		ex.SetMsg(nil)
		ly.alloc.Release(m)
	}
}

// Write implements [Layer]: emits the message's own id and delegates.
func (ly *MsgID) Write(fld field.Field, m message.Message, w wire.Writer, size int, next NextWriter) wire.Status {
	id, st := m.GetID()
	if st != wire.Success {
		return st
	}
	f := fld.(*field.Int)
	f.SetValue(int64(id))
	if st := f.Write(w, size); st != wire.Success {
		return st
	}
	return next.Write(w, size-f.Length())
}

// Update implements [Layer]: the id never needs patching.
func (ly *MsgID) Update(fld field.Field, u *Updater, size int, next NextUpdater) wire.Status {
	if st := u.Skip(fld.Length()); st != wire.Success {
		return st
	}
	return next(u, size-fld.Length())
}

// Length implements [Layer].
func (ly *MsgID) Length(m message.Message, inner func() int) int {
	return ly.proto.Length() + inner()
}

// MinLength implements [Layer].
func (ly *MsgID) MinLength(inner func() int) int {
	return ly.proto.MinLength() + inner()
}
