// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// SyncPrefix frames the constant synchronization bytes that mark the
// start of a frame. The prototype field's default value is the magic;
// a decoded value that differs is ProtocolError, which callers use to
// drive one-byte-advance resynchronization.
type SyncPrefix struct {
	proto *field.Int
}

// NewSyncPrefix returns a sync layer around the prototype field. The
// prototype's configured default is the expected magic value.
func NewSyncPrefix(proto *field.Int) *SyncPrefix {
	return &SyncPrefix{proto: proto}
}

// NewField implements [Layer].
func (ly *SyncPrefix) NewField() field.Field { return ly.proto.Clone() }

// Read implements [Layer].
func (ly *SyncPrefix) Read(fld field.Field, ex *Exchange, r *wire.Reader, size int, next NextReader) wire.Status {
	f := fld.(*field.Int)
	if st := f.Read(r, size); st != wire.Success {
		if st == wire.NotEnoughData {
			ex.reportMissing(f.MinLength(), min(size, r.Remaining()))
		}
		return st
	}
	if f.Value() != ly.proto.Config().Default {
		return wire.ProtocolError
	}
	return next(r, size-f.Length())
}

// Write implements [Layer]: emits the magic and delegates.
func (ly *SyncPrefix) Write(fld field.Field, m message.Message, w wire.Writer, size int, next NextWriter) wire.Status {
	f := fld.(*field.Int)
	if st := f.Write(w, size); st != wire.Success {
		return st
	}
	return next.Write(w, size-f.Length())
}

// Update implements [Layer]: the magic never needs patching.
func (ly *SyncPrefix) Update(fld field.Field, u *Updater, size int, next NextUpdater) wire.Status {
	if st := u.Skip(fld.Length()); st != wire.Success {
		return st
	}
	return next(u, size-fld.Length())
}

// Length implements [Layer].
func (ly *SyncPrefix) Length(m message.Message, inner func() int) int {
	return ly.proto.Length() + inner()
}

// MinLength implements [Layer].
func (ly *SyncPrefix) MinLength(inner func() int) int {
	return ly.proto.MinLength() + inner()
}
