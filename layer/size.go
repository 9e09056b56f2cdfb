// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Size frames the byte count of everything inside it. On read the
// inner window is clipped to the decoded value, so a frame that
// claims fewer bytes than its body needs — or leaves bytes unread
// inside the window — is ProtocolError rather than a truncation.
//
// On write the field is patched after the inner layers run when the
// destination is random access; through a push-back writer a zero
// placeholder is emitted and the call reports UpdateRequired.
type Size struct {
	proto *field.Int
}

// NewSize returns a size layer around the prototype field.
func NewSize(proto *field.Int) *Size {
	return &Size{proto: proto}
}

// NewField implements [Layer].
func (ly *Size) NewField() field.Field { return ly.proto.Clone() }

// Read implements [Layer].
func (ly *Size) Read(fld field.Field, ex *Exchange, r *wire.Reader, size int, next NextReader) wire.Status {
	f := fld.(*field.Int)
	if st := f.Read(r, size); st != wire.Success {
		if st == wire.NotEnoughData {
			ex.reportMissing(f.MinLength(), min(size, r.Remaining()))
		}
		return st
	}
	claimed := int(f.Value())
	if claimed < 0 {
		return wire.ProtocolError
	}
	avail := min(size-f.Length(), r.Remaining())
	if avail < claimed {
		ex.reportMissing(claimed, avail)
		return wire.NotEnoughData
	}

	// The whole claimed window is present: clip the inner read to it.
	// An inner NotEnoughData now means the framing lied, and leftover
	// bytes inside the window mean the same.
	start := r.Pos()
	st := next(r, claimed)
	if st == wire.NotEnoughData {
		ex.missing = 0
		return wire.ProtocolError
	}
	if st == wire.Success && r.Pos()-start != claimed {
		return wire.ProtocolError
	}
	return st
}

// Write implements [Layer].
func (ly *Size) Write(fld field.Field, m message.Message, w wire.Writer, size int, next NextWriter) wire.Status {
	f := fld.(*field.Int)
	ra, random := w.(wire.RandomAccess)

	// Placeholder first; its final value is the emitted inner length.
	f.SetValue(0)
	pos := w.Pos()
	if st := f.Write(w, size); st != wire.Success {
		return st
	}

	st := next.Write(w, size-f.Length())
	if st != wire.Success && st != wire.UpdateRequired {
		return st
	}

	if !random {
		return wire.UpdateRequired
	}
	f.SetValue(int64(w.Pos() - pos - f.Length()))
	if pst := ly.patch(ra, pos, f); pst != wire.Success {
		return pst
	}
	return st
}

// patch rewrites the size slot with the field's final value.
func (ly *Size) patch(ra wire.RandomAccess, pos int, f *field.Int) wire.Status {
	scratch := make([]byte, f.Length())
	bw := wire.NewBufWriter(scratch)
	if st := f.Write(bw, f.Length()); st != wire.Success {
		return st
	}
	return ra.PatchBytes(pos, scratch)
}

// Update implements [Layer]: the inner region of the assembled frame
// is everything after the size field, so the slot value is size less
// the field's own length.
func (ly *Size) Update(fld field.Field, u *Updater, size int, next NextUpdater) wire.Status {
	f := fld.(*field.Int)
	f.SetValue(int64(size - f.Length()))
	if st := u.PatchField(f); st != wire.Success {
		return st
	}
	return next(u, size-f.Length())
}

// Length implements [Layer].
func (ly *Size) Length(m message.Message, inner func() int) int {
	return ly.proto.Length() + inner()
}

// MinLength implements [Layer].
func (ly *Size) MinLength(inner func() int) int {
	return ly.proto.MinLength() + inner()
}
