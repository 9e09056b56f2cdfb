// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"bytes"
	"testing"

	"github.com/wireloom/wireloom/wire"
)

func u8(base Base) func() Field {
	return func() Field { return NewInt(base, IntConfig{Width: 1}) }
}

func u16(base Base) func() Field {
	return func() Field { return NewInt(base, IntConfig{Width: 2}) }
}

func TestBytesPrefixed(t *testing.T) {
	f := NewBytes(bigBase, BytesConfig{SizePrefix: NewInt(bigBase, IntConfig{Width: 1})})
	f.SetString("hello")

	got := writeField(t, f)
	want := []byte{5, 'h', 'e', 'l', 'l', 'o'}
	if !bytes.Equal(got, want) {
		t.Fatalf("wire = % x, want % x", got, want)
	}

	decoded := NewBytes(bigBase, BytesConfig{SizePrefix: NewInt(bigBase, IntConfig{Width: 1})})
	if st := decoded.Read(wire.NewReader(got), len(got)); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if decoded.String() != "hello" {
		t.Errorf("roundtrip = %q", decoded.String())
	}
	if decoded.Prefix().Value() != 5 {
		t.Errorf("prefix value = %d after read", decoded.Prefix().Value())
	}
}

func TestBytesPrefixExceedsWindow(t *testing.T) {
	f := NewBytes(bigBase, BytesConfig{SizePrefix: NewInt(bigBase, IntConfig{Width: 1})})
	r := wire.NewReader([]byte{9, 'h', 'i'})
	if st := f.Read(r, 3); st != wire.NotEnoughData {
		t.Fatalf("Read = %v, want NotEnoughData", st)
	}
	if r.Pos() != 0 {
		t.Errorf("reader advanced to %d; must restore to the field start", r.Pos())
	}
}

func TestBytesTerminated(t *testing.T) {
	cfg := BytesConfig{Terminator: []byte{0}}
	f := NewBytes(bigBase, cfg)
	f.SetString("abc")

	got := writeField(t, f)
	if !bytes.Equal(got, []byte{'a', 'b', 'c', 0}) {
		t.Fatalf("wire = % x", got)
	}

	decoded := NewBytes(bigBase, cfg)
	r := wire.NewReader(append(got, 0xFF)) // trailing garbage beyond the terminator
	if st := decoded.Read(r, 5); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if decoded.String() != "abc" || r.Pos() != 4 {
		t.Errorf("roundtrip = %q, pos = %d", decoded.String(), r.Pos())
	}

	// No terminator in the window: not enough data, position restored.
	r = wire.NewReader([]byte{'a', 'b'})
	if st := decoded.Read(r, 2); st != wire.NotEnoughData {
		t.Fatalf("unterminated read = %v", st)
	}
	if r.Pos() != 0 {
		t.Errorf("reader advanced to %d", r.Pos())
	}

	// A value containing the terminator cannot serialize faithfully.
	f.SetValue([]byte{'a', 0, 'b'})
	if f.Valid() {
		t.Error("value containing the terminator should be invalid")
	}
}

func TestBytesFixed(t *testing.T) {
	cfg := BytesConfig{FixedSize: 6}
	f := NewBytes(bigBase, cfg)
	f.SetString("hi")

	got := writeField(t, f)
	want := []byte{'h', 'i', 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Fatalf("wire = % x, want % x", got, want)
	}

	decoded := NewBytes(bigBase, cfg)
	if st := decoded.Read(wire.NewReader(got), 6); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if !bytes.Equal(decoded.Value(), want) {
		t.Errorf("fixed read = % x", decoded.Value())
	}
}

func TestBytesTrailing(t *testing.T) {
	f := NewBytes(bigBase, BytesConfig{})
	r := wire.NewReader([]byte{1, 2, 3, 4})
	if st := f.Read(r, 4); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if !bytes.Equal(f.Value(), []byte{1, 2, 3, 4}) {
		t.Errorf("trailing read = % x", f.Value())
	}
}

func TestBytesRefresh(t *testing.T) {
	f := NewBytes(bigBase, BytesConfig{SizePrefix: NewInt(bigBase, IntConfig{Width: 1})})
	f.SetString("abcd")
	if !f.Refresh() {
		t.Error("first Refresh should sync the prefix and report change")
	}
	if f.Refresh() {
		t.Error("second Refresh should be idempotent")
	}
	if f.Prefix().Value() != 4 {
		t.Errorf("prefix = %d, want 4", f.Prefix().Value())
	}
}

func TestArrayPrefixed(t *testing.T) {
	newArray := func() *Array {
		return NewArray(ArrayConfig{
			Element:    u16(bigBase),
			SizePrefix: NewInt(bigBase, IntConfig{Width: 1}),
		})
	}

	f := newArray()
	for _, v := range []int64{0x0102, 0x0304} {
		f.Append().(*Int).SetValue(v)
	}

	got := writeField(t, f)
	want := []byte{2, 0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(got, want) {
		t.Fatalf("wire = % x, want % x", got, want)
	}

	decoded := newArray()
	if st := decoded.Read(wire.NewReader(got), len(got)); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if decoded.Count() != 2 || decoded.At(1).(*Int).Value() != 0x0304 {
		t.Errorf("decoded count=%d", decoded.Count())
	}

	// Prefix promises more elements than the window can hold.
	r := wire.NewReader([]byte{3, 0x01, 0x02})
	if st := decoded.Read(r, 3); st != wire.NotEnoughData {
		t.Fatalf("short read = %v", st)
	}
	if r.Pos() != 0 {
		t.Errorf("reader advanced to %d", r.Pos())
	}
}

func TestArrayBytePrefixed(t *testing.T) {
	cfgBytes := func() ArrayConfig {
		return ArrayConfig{
			Element:    u16(bigBase),
			SizePrefix: NewInt(bigBase, IntConfig{Width: 1}),
			CountBytes: true,
		}
	}

	f := NewArray(cfgBytes())
	f.Append().(*Int).SetValue(7)
	f.Append().(*Int).SetValue(8)

	got := writeField(t, f)
	want := []byte{4, 0x00, 0x07, 0x00, 0x08}
	if !bytes.Equal(got, want) {
		t.Fatalf("wire = % x, want % x", got, want)
	}

	decoded := NewArray(cfgBytes())
	if st := decoded.Read(wire.NewReader(got), len(got)); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if decoded.Count() != 2 {
		t.Errorf("count = %d", decoded.Count())
	}

	// A byte count that splits an element is a framing violation.
	bad := NewArray(cfgBytes())
	if st := bad.Read(wire.NewReader([]byte{3, 0, 7, 0, 8}), 5); st != wire.ProtocolError {
		t.Errorf("split element = %v, want ProtocolError", st)
	}
}

func TestArrayFixed(t *testing.T) {
	cfg := ArrayConfig{Element: u8(bigBase), FixedCount: 3}
	f := NewArray(cfg)
	if f.Count() != 3 {
		t.Fatalf("fixed array starts with %d elements", f.Count())
	}
	for i, v := range []int64{10, 20, 30} {
		f.At(i).(*Int).SetValue(v)
	}
	got := writeField(t, f)
	if !bytes.Equal(got, []byte{10, 20, 30}) {
		t.Fatalf("wire = % x", got)
	}

	decoded := NewArray(cfg)
	if st := decoded.Read(wire.NewReader(got), 3); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if decoded.At(2).(*Int).Value() != 30 {
		t.Errorf("decoded = %d", decoded.At(2).(*Int).Value())
	}
}

func TestArrayTrailing(t *testing.T) {
	cfg := ArrayConfig{Element: u16(bigBase)}
	f := NewArray(cfg)
	if st := f.Read(wire.NewReader([]byte{0, 1, 0, 2, 0, 3}), 6); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if f.Count() != 3 {
		t.Errorf("count = %d, want 3", f.Count())
	}

	// The window must land on an element boundary.
	if st := f.Read(wire.NewReader([]byte{0, 1, 0}), 3); st != wire.ProtocolError {
		t.Errorf("odd window = %v, want ProtocolError", st)
	}
}

func TestArrayCountBounds(t *testing.T) {
	f := NewArray(ArrayConfig{Element: u8(bigBase), MinCount: 1, MaxCount: 2})
	if f.Valid() {
		t.Error("empty array below MinCount should be invalid")
	}
	f.Append()
	if !f.Valid() {
		t.Error("one element should be valid")
	}
	f.Append()
	f.Append()
	if f.Valid() {
		t.Error("three elements above MaxCount should be invalid")
	}
}

func TestBundle(t *testing.T) {
	newBundle := func() *Bundle {
		return NewBundle(
			NewInt(bigBase, IntConfig{Width: 1}),
			NewBytes(bigBase, BytesConfig{SizePrefix: NewInt(bigBase, IntConfig{Width: 1})}),
			NewInt(bigBase, IntConfig{Width: 2}),
		)
	}

	f := newBundle()
	f.At(0).(*Int).SetValue(9)
	f.At(1).(*Bytes).SetString("ok")
	f.At(2).(*Int).SetValue(0x1234)

	got := writeField(t, f)
	want := []byte{9, 2, 'o', 'k', 0x12, 0x34}
	if !bytes.Equal(got, want) {
		t.Fatalf("wire = % x, want % x", got, want)
	}

	decoded := newBundle()
	if st := decoded.Read(wire.NewReader(got), len(got)); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if decoded.At(1).(*Bytes).String() != "ok" {
		t.Errorf("member 1 = %q", decoded.At(1).(*Bytes).String())
	}

	// Truncated second member: the whole bundle restores to start.
	r := wire.NewReader(want[:3])
	if st := decoded.Read(r, 3); st != wire.NotEnoughData {
		t.Fatalf("truncated = %v", st)
	}
	if r.Pos() != 0 {
		t.Errorf("reader advanced to %d", r.Pos())
	}
}

func TestVariant(t *testing.T) {
	newVariant := func() *Variant {
		return NewVariant(
			NewInt(bigBase, IntConfig{Width: 1}),
			[]Alternative{
				{Key: 1, Name: "scalar", New: u16(bigBase)},
				{Key: 2, Name: "blob", New: func() Field {
					return NewBytes(bigBase, BytesConfig{SizePrefix: NewInt(bigBase, IntConfig{Width: 1})})
				}},
			},
		)
	}

	f := newVariant()
	f.Select(1).(*Bytes).SetString("xy")

	got := writeField(t, f)
	want := []byte{2, 2, 'x', 'y'}
	if !bytes.Equal(got, want) {
		t.Fatalf("wire = % x, want % x", got, want)
	}

	decoded := newVariant()
	if st := decoded.Read(wire.NewReader(got), len(got)); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if decoded.Name() != "blob" || decoded.Body().(*Bytes).String() != "xy" {
		t.Errorf("decoded arm %q body %v", decoded.Name(), decoded.Body())
	}

	// Unrecognized key: InvalidMsgData, reader past the key byte.
	r := wire.NewReader([]byte{9, 0, 0})
	if st := decoded.Read(r, 3); st != wire.InvalidMsgData {
		t.Fatalf("unknown key = %v, want InvalidMsgData", st)
	}
	if r.Pos() != 1 {
		t.Errorf("reader at %d, want 1 (just past the key)", r.Pos())
	}

	// Writing an unselected variant cannot produce bytes.
	fresh := newVariant()
	if st := fresh.Write(wire.NewBufWriter(make([]byte, 8)), 8); st != wire.InvalidMsgData {
		t.Errorf("unselected write = %v, want InvalidMsgData", st)
	}
}

func TestVariantDuplicateKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate keys should panic")
		}
	}()
	NewVariant(NewInt(bigBase, IntConfig{Width: 1}), []Alternative{
		{Key: 1, New: u8(bigBase)},
		{Key: 1, New: u8(bigBase)},
	})
}

func TestBitfieldPacking(t *testing.T) {
	// {a:3, b:5, c:8} with a=5, b=17, c=0xAA packs to the word
	// (c<<8)|(b<<3)|a = 0xAA8D, emitted big-endian as AA 8D.
	newGroup := func() *Bitfield {
		return NewBitfield(bigBase,
			NewInt(bigBase, IntConfig{Width: 1, Bits: 3}),
			NewInt(bigBase, IntConfig{Width: 1, Bits: 5}),
			NewInt(bigBase, IntConfig{Width: 1, Bits: 8}),
		)
	}

	f := newGroup()
	f.At(0).(*Int).SetValue(5)
	f.At(1).(*Int).SetValue(17)
	f.At(2).(*Int).SetValue(0xAA)

	got := writeField(t, f)
	if !bytes.Equal(got, []byte{0xAA, 0x8D}) {
		t.Fatalf("wire = % x, want aa 8d", got)
	}

	decoded := newGroup()
	if st := decoded.Read(wire.NewReader(got), 2); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	for i, want := range []int64{5, 17, 0xAA} {
		if v := decoded.At(i).(*Int).Value(); v != want {
			t.Errorf("member %d = %d, want %d", i, v, want)
		}
	}
}

func TestBitfieldTruncation(t *testing.T) {
	// Values wider than the declared bit length truncate silently on
	// write; reading back yields the value modulo 2^bits.
	newGroup := func() *Bitfield {
		return NewBitfield(bigBase,
			NewInt(bigBase, IntConfig{Width: 1, Bits: 3}),
			NewInt(bigBase, IntConfig{Width: 1, Bits: 5}),
		)
	}

	f := newGroup()
	f.At(0).(*Int).SetValue(13) // 13 mod 8 = 5
	f.At(1).(*Int).SetValue(40) // 40 mod 32 = 8

	got := writeField(t, f)
	decoded := newGroup()
	if st := decoded.Read(wire.NewReader(got), 1); st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if v := decoded.At(0).(*Int).Value(); v != 5 {
		t.Errorf("member 0 = %d, want 5", v)
	}
	if v := decoded.At(1).(*Int).Value(); v != 8 {
		t.Errorf("member 1 = %d, want 8", v)
	}
}

func TestBitfieldValidator(t *testing.T) {
	f := NewBitfield(bigBase,
		NewInt(bigBase, IntConfig{Width: 1, Bits: 4}),
		NewInt(bigBase, IntConfig{Width: 1, Bits: 4}),
	)
	f.SetValidator(func(bf *Bitfield) bool {
		return bf.At(0).(*Int).Value() <= bf.At(1).(*Int).Value()
	})
	f.At(0).(*Int).SetValue(3)
	f.At(1).(*Int).SetValue(2)
	if f.Valid() {
		t.Error("whole-group validator should reject a>b")
	}
	f.At(1).(*Int).SetValue(9)
	if !f.Valid() {
		t.Error("whole-group validator should accept a<=b")
	}
}

func TestBitfieldBadLayoutPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("bit lengths not summing to a byte multiple should panic")
		}
	}()
	NewBitfield(bigBase,
		NewInt(bigBase, IntConfig{Width: 1, Bits: 3}),
		NewInt(bigBase, IntConfig{Width: 1, Bits: 4}),
	)
}

func TestOptional(t *testing.T) {
	newOpt := func(p Presence) *Optional {
		return NewOptional(NewInt(bigBase, IntConfig{Width: 2}), p)
	}

	t.Run("missing", func(t *testing.T) {
		f := newOpt(Missing)
		if f.Length() != 0 {
			t.Errorf("missing length = %d", f.Length())
		}
		r := wire.NewReader([]byte{1, 2})
		if st := f.Read(r, 2); st != wire.Success || r.Pos() != 0 {
			t.Errorf("missing read = %v, pos %d", st, r.Pos())
		}
		w := wire.NewBufWriter(make([]byte, 2))
		if st := f.Write(w, 2); st != wire.Success || w.Pos() != 0 {
			t.Errorf("missing write = %v, pos %d", st, w.Pos())
		}
	})

	t.Run("tentative-resolves-present", func(t *testing.T) {
		f := newOpt(Tentative)
		if st := f.Read(wire.NewReader([]byte{0x12, 0x34}), 2); st != wire.Success {
			t.Fatalf("Read: %v", st)
		}
		if f.Presence() != Present || f.Inner().(*Int).Value() != 0x1234 {
			t.Errorf("presence %v value %d", f.Presence(), f.Inner().(*Int).Value())
		}
	})

	t.Run("tentative-resolves-missing", func(t *testing.T) {
		f := newOpt(Tentative)
		if st := f.Read(wire.NewReader(nil), 0); st != wire.Success {
			t.Fatalf("Read: %v", st)
		}
		if f.Presence() != Missing {
			t.Errorf("presence = %v, want Missing", f.Presence())
		}
	})

	t.Run("present-roundtrip", func(t *testing.T) {
		f := newOpt(Present)
		f.Inner().(*Int).SetValue(7)
		got := writeField(t, f)
		if !bytes.Equal(got, []byte{0, 7}) {
			t.Errorf("wire = % x", got)
		}
	})
}

func TestCloneIndependence(t *testing.T) {
	f := NewBundle(
		NewInt(bigBase, IntConfig{Width: 1}),
		NewArray(ArrayConfig{Element: u8(bigBase), SizePrefix: NewInt(bigBase, IntConfig{Width: 1})}),
	)
	f.At(0).(*Int).SetValue(1)
	f.At(1).(*Array).Append().(*Int).SetValue(2)

	clone := f.Clone().(*Bundle)
	clone.At(0).(*Int).SetValue(99)
	clone.At(1).(*Array).Append().(*Int).SetValue(3)

	if f.At(0).(*Int).Value() != 1 {
		t.Error("clone mutation leaked into the original scalar")
	}
	if f.At(1).(*Array).Count() != 1 {
		t.Error("clone mutation leaked into the original array")
	}
}
