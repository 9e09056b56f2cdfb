// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"fmt"

	"github.com/wireloom/wireloom/wire"
)

// Presence is the tri-state mode of an [Optional] field.
type Presence uint8

const (
	// Tentative defers the presence decision to the read: a
	// non-empty remaining window means the field exists. Writes in
	// this mode emit the inner field.
	Tentative Presence = iota

	// Present means the inner field exists on the wire.
	Present

	// Missing means the inner field does not exist; reads and writes
	// are no-ops and the serialized length is zero.
	Missing
)

// String returns the mode name.
func (p Presence) String() string {
	switch p {
	case Tentative:
		return "tentative"
	case Present:
		return "present"
	case Missing:
		return "missing"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// Optional wraps an inner field that may be absent from the wire,
// typically a trailing extension of a message body.
type Optional struct {
	inner    Field
	presence Presence
}

// NewOptional returns an Optional over inner in the given initial
// mode.
func NewOptional(inner Field, presence Presence) *Optional {
	return &Optional{inner: inner, presence: presence}
}

// Inner returns the wrapped field.
func (f *Optional) Inner() Field { return f.inner }

// Presence returns the current mode.
func (f *Optional) Presence() Presence { return f.presence }

// SetPresence sets the mode.
func (f *Optional) SetPresence(p Presence) { f.presence = p }

// Length implements [Field]: zero when Missing.
func (f *Optional) Length() int {
	if f.presence == Missing {
		return 0
	}
	return f.inner.Length()
}

// MinLength implements [Field]: an optional field may always be
// absent.
func (f *Optional) MinLength() int { return 0 }

// MaxLength implements [Field].
func (f *Optional) MaxLength() int { return f.inner.MaxLength() }

// Read implements [Field]. In Tentative mode the field decides
// presence from the remaining window: an empty window resolves to
// Missing, anything else reads the inner field and resolves to
// Present.
func (f *Optional) Read(r *wire.Reader, size int) wire.Status {
	switch f.presence {
	case Missing:
		return wire.Success
	case Tentative:
		if size == 0 {
			f.presence = Missing
			return wire.Success
		}
		f.presence = Present
	}
	return f.inner.Read(r, size)
}

// Write implements [Field]. Missing writes nothing; Present and
// Tentative write the inner field.
func (f *Optional) Write(w wire.Writer, size int) wire.Status {
	if f.presence == Missing {
		return wire.Success
	}
	return f.inner.Write(w, size)
}

// Valid implements [Field]: a missing field is vacuously valid.
func (f *Optional) Valid() bool {
	if f.presence == Missing {
		return true
	}
	return f.inner.Valid()
}

// Refresh implements [Field].
func (f *Optional) Refresh() bool {
	if f.presence == Missing {
		return false
	}
	return f.inner.Refresh()
}

// Clone implements [Field].
func (f *Optional) Clone() Field {
	return &Optional{inner: f.inner.Clone(), presence: f.presence}
}
