// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"bytes"
	"math"

	"github.com/wireloom/wireloom/wire"
)

// BytesConfig parameterizes a [Bytes] field. At most one of
// SizePrefix, Terminator, and FixedSize may be set; with none set the
// field is trailing and consumes the entire remaining window on read.
type BytesConfig struct {
	// SizePrefix, when non-nil, is the integer field that precedes
	// the data and carries its byte count.
	SizePrefix *Int

	// Terminator, when non-empty, is the sentinel byte sequence that
	// follows the data on the wire.
	Terminator []byte

	// FixedSize, when positive, is the exact serialized data length.
	// Shorter values are zero-padded on write.
	FixedSize int

	// MaxSize, when positive, bounds the data length for Valid.
	MaxSize int
}

// Bytes is a byte-sequence field: raw octets or a string body. The
// four length policies (prefixed, terminated, fixed, trailing) cover
// the string and raw-data encodings of typical binary dialects.
type Bytes struct {
	base  Base
	cfg   BytesConfig
	value []byte
}

// NewBytes returns a Bytes field configured by cfg. Panics when more
// than one length policy is configured.
func NewBytes(base Base, cfg BytesConfig) *Bytes {
	policies := 0
	if cfg.SizePrefix != nil {
		policies++
	}
	if len(cfg.Terminator) > 0 {
		policies++
	}
	if cfg.FixedSize > 0 {
		policies++
	}
	if policies > 1 {
		panic("field: Bytes with more than one length policy")
	}
	return &Bytes{base: base, cfg: cfg}
}

// Value returns the data bytes.
func (f *Bytes) Value() []byte { return f.value }

// SetValue sets the data bytes.
func (f *Bytes) SetValue(v []byte) { f.value = v }

// SetString sets the data bytes from a string.
func (f *Bytes) SetString(s string) { f.value = []byte(s) }

// String returns the data bytes as a string.
func (f *Bytes) String() string { return string(f.value) }

// Prefix returns the size-prefix field instance, nil for other
// policies. Its value tracks the data length once Refresh has run or
// the field has been read.
func (f *Bytes) Prefix() *Int { return f.cfg.SizePrefix }

// Length implements [Field].
func (f *Bytes) Length() int {
	switch {
	case f.cfg.SizePrefix != nil:
		return f.cfg.SizePrefix.Length() + len(f.value)
	case len(f.cfg.Terminator) > 0:
		return len(f.value) + len(f.cfg.Terminator)
	case f.cfg.FixedSize > 0:
		return f.cfg.FixedSize
	default:
		return len(f.value)
	}
}

// MinLength implements [Field].
func (f *Bytes) MinLength() int {
	switch {
	case f.cfg.SizePrefix != nil:
		return f.cfg.SizePrefix.Length()
	case len(f.cfg.Terminator) > 0:
		return len(f.cfg.Terminator)
	case f.cfg.FixedSize > 0:
		return f.cfg.FixedSize
	default:
		return 0
	}
}

// MaxLength implements [Field].
func (f *Bytes) MaxLength() int {
	if f.cfg.FixedSize > 0 {
		return f.cfg.FixedSize
	}
	if f.cfg.MaxSize > 0 {
		return f.MinLength() + f.cfg.MaxSize
	}
	return math.MaxInt
}

// Read implements [Field].
func (f *Bytes) Read(r *wire.Reader, size int) wire.Status {
	start := r.Pos()
	avail := available(r, size)

	switch {
	case f.cfg.SizePrefix != nil:
		if st := f.cfg.SizePrefix.Read(r, avail); st != wire.Success {
			return st
		}
		n := int(f.cfg.SizePrefix.Value())
		if n > avail-f.cfg.SizePrefix.Length() {
			r.SetPos(start)
			return wire.NotEnoughData
		}
		data, _ := r.ReadBytes(n)
		f.value = append([]byte(nil), data...)
		return wire.Success

	case len(f.cfg.Terminator) > 0:
		buf, _ := r.ReadBytes(avail)
		idx := bytes.Index(buf, f.cfg.Terminator)
		if idx < 0 {
			r.SetPos(start)
			return wire.NotEnoughData
		}
		f.value = append([]byte(nil), buf[:idx]...)
		r.SetPos(start + idx + len(f.cfg.Terminator))
		return wire.Success

	case f.cfg.FixedSize > 0:
		if avail < f.cfg.FixedSize {
			return wire.NotEnoughData
		}
		data, _ := r.ReadBytes(f.cfg.FixedSize)
		f.value = append([]byte(nil), data...)
		return wire.Success

	default:
		if r.Remaining() < size {
			return wire.NotEnoughData
		}
		data, _ := r.ReadBytes(size)
		f.value = append([]byte(nil), data...)
		return wire.Success
	}
}

// Write implements [Field].
func (f *Bytes) Write(w wire.Writer, size int) wire.Status {
	if f.Length() > size {
		return wire.BufferOverflow
	}
	switch {
	case f.cfg.SizePrefix != nil:
		prefix := f.cfg.SizePrefix
		saved := prefix.Value()
		prefix.SetValue(int64(len(f.value)))
		if st := prefix.Write(w, prefix.Length()); st != wire.Success {
			prefix.SetValue(saved)
			return st
		}
		return w.WriteBytes(f.value)

	case len(f.cfg.Terminator) > 0:
		if st := w.WriteBytes(f.value); st != wire.Success {
			return st
		}
		return w.WriteBytes(f.cfg.Terminator)

	case f.cfg.FixedSize > 0:
		data := f.value
		if len(data) > f.cfg.FixedSize {
			data = data[:f.cfg.FixedSize]
		}
		if st := w.WriteBytes(data); st != wire.Success {
			return st
		}
		if pad := f.cfg.FixedSize - len(data); pad > 0 {
			return w.WriteBytes(make([]byte, pad))
		}
		return wire.Success

	default:
		return w.WriteBytes(f.value)
	}
}

// Valid implements [Field]. Terminated data must not contain its own
// terminator; bounded data must fit MaxSize; fixed data must not
// exceed the fixed size.
func (f *Bytes) Valid() bool {
	if len(f.cfg.Terminator) > 0 && bytes.Contains(f.value, f.cfg.Terminator) {
		return false
	}
	if f.cfg.MaxSize > 0 && len(f.value) > f.cfg.MaxSize {
		return false
	}
	if f.cfg.FixedSize > 0 && len(f.value) > f.cfg.FixedSize {
		return false
	}
	return true
}

// Refresh implements [Field]. For the prefixed policy it synchronizes
// the stored prefix field with the current data length.
func (f *Bytes) Refresh() bool {
	if f.cfg.SizePrefix == nil {
		return false
	}
	want := int64(len(f.value))
	if f.cfg.SizePrefix.Value() == want {
		return false
	}
	f.cfg.SizePrefix.SetValue(want)
	return true
}

// Clone implements [Field].
func (f *Bytes) Clone() Field {
	clone := &Bytes{base: f.base, cfg: f.cfg}
	if f.cfg.SizePrefix != nil {
		clone.cfg.SizePrefix = f.cfg.SizePrefix.Clone().(*Int)
	}
	clone.value = append([]byte(nil), f.value...)
	return clone
}
