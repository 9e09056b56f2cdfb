// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"bytes"
	"testing"

	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// frameRoundtrip writes m through the dialect frame and decodes the
// produced bytes, returning the decoded message.
func frameRoundtrip(t *testing.T, m message.Message) message.Message {
	t.Helper()
	s := NewHeapFrame()

	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}
	frame := w.Bytes()

	length, st := m.Length()
	if st != wire.Success {
		t.Fatalf("Length: %v", st)
	}
	if want := s.MinLength() + length; len(frame) != want {
		t.Fatalf("frame %d bytes, want %d", len(frame), want)
	}

	decoded, missing, st := s.Read(wire.NewReader(frame), len(frame))
	if st != wire.Success {
		t.Fatalf("Read = %v (missing %d), frame % x", st, missing, frame)
	}
	return decoded
}

func TestIntValuesRoundtrip(t *testing.T) {
	m := NewIntValues()
	m.Counter.SetValue(7)
	m.Delta.SetValue(-123)
	m.Year.SetValue(2026)

	decoded := frameRoundtrip(t, m).(*IntValues)
	if decoded.Counter.Value() != 7 || decoded.Delta.Value() != -123 || decoded.Year.Value() != 2026 {
		t.Errorf("decoded %d %d %d", decoded.Counter.Value(), decoded.Delta.Value(), decoded.Year.Value())
	}

	m.Counter.SetValue(11)
	if valid, _ := m.Valid(); valid {
		t.Error("counter above its range should invalidate the message")
	}
}

func TestEnumValuesRoundtrip(t *testing.T) {
	m := NewEnumValues()
	m.Mode.SetValue(ModeStandby)
	m.Command.SetValue(CommandReset)

	decoded := frameRoundtrip(t, m).(*EnumValues)
	if decoded.Mode.Name() != "standby" || decoded.Command.Name() != "reset" {
		t.Errorf("decoded %q %q", decoded.Mode.Name(), decoded.Command.Name())
	}
}

func TestEnumStrictReadRejects(t *testing.T) {
	// A frame carrying an undeclared command value must fail the
	// strict enum during payload decode.
	m := NewEnumValues()
	m.Mode.SetValue(ModeOn)
	m.Command.SetValue(CommandPurge)

	s := NewHeapFrame()
	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}
	frame := w.Bytes()

	// Patch the command bytes to an undeclared value and fix the
	// checksum so only the enum check can object.
	frame[6] = 0xEE
	sum := 0
	for _, b := range frame[2 : len(frame)-1] {
		sum += int(b)
	}
	frame[len(frame)-1] = byte(sum)

	_, _, st := s.Read(wire.NewReader(frame), len(frame))
	if st != wire.ProtocolError {
		t.Errorf("undeclared command = %v, want ProtocolError", st)
	}
}

func TestBitfieldsRoundtrip(t *testing.T) {
	m := NewBitfields()
	m.Mode.SetValue(2)
	m.Priority.SetValue(5)
	m.Spare.SetValue(1)
	m.Extra.SetValue(0x7F)

	decoded := frameRoundtrip(t, m).(*Bitfields)
	if decoded.Mode.Value() != 2 || decoded.Priority.Value() != 5 || decoded.Spare.Value() != 1 {
		t.Errorf("group decoded %d %d %d", decoded.Mode.Value(), decoded.Priority.Value(), decoded.Spare.Value())
	}
	if decoded.Extra.Value() != 0x7F {
		t.Errorf("extra = %#x", decoded.Extra.Value())
	}
}

func TestStringsRoundtrip(t *testing.T) {
	m := NewStrings()
	m.Prefixed.SetString("hello")
	m.Terminated.SetString("world")
	m.Fixed.SetString("go")

	decoded := frameRoundtrip(t, m).(*Strings)
	if decoded.Prefixed.String() != "hello" || decoded.Terminated.String() != "world" {
		t.Errorf("decoded %q %q", decoded.Prefixed.String(), decoded.Terminated.String())
	}
	if !bytes.Equal(decoded.Fixed.Value(), []byte{'g', 'o', 0, 0, 0, 0}) {
		t.Errorf("fixed = % x", decoded.Fixed.Value())
	}
}

func TestListsRoundtrip(t *testing.T) {
	m := NewLists()
	for i, v := range []int64{-1, 0, 512} {
		m.Readings.At(i).(*field.Int).SetValue(v)
	}
	sample := m.Samples.Append().(*field.Bundle)
	sample.At(0).(*field.Int).SetValue(9)
	sample.At(1).(*field.Int).SetValue(0xBEEF)

	decoded := frameRoundtrip(t, m).(*Lists)
	if decoded.Readings.At(2).(*field.Int).Value() != 512 {
		t.Errorf("readings = %d", decoded.Readings.At(2).(*field.Int).Value())
	}
	if decoded.Samples.Count() != 1 {
		t.Fatalf("samples = %d", decoded.Samples.Count())
	}
	got := decoded.Samples.At(0).(*field.Bundle)
	if got.At(1).(*field.Int).Value() != 0xBEEF {
		t.Errorf("sample value = %#x", got.At(1).(*field.Int).Value())
	}
}

func TestOptionalsRoundtrip(t *testing.T) {
	t.Run("both-missing", func(t *testing.T) {
		decoded := frameRoundtrip(t, NewOptionals()).(*Optionals)
		if decoded.Timestamp.Presence() != field.Missing || decoded.Label.Presence() != field.Missing {
			t.Errorf("presence %v %v", decoded.Timestamp.Presence(), decoded.Label.Presence())
		}
	})

	t.Run("timestamp-only", func(t *testing.T) {
		m := NewOptionals()
		m.Timestamp.SetPresence(field.Present)
		m.TimestampValue().SetValue(1754438400)

		decoded := frameRoundtrip(t, m).(*Optionals)
		if decoded.Timestamp.Presence() != field.Present {
			t.Fatal("timestamp should be present")
		}
		if decoded.TimestampValue().Value() != 1754438400 {
			t.Errorf("timestamp = %d", decoded.TimestampValue().Value())
		}
		if decoded.Label.Presence() != field.Missing {
			t.Error("label should remain missing")
		}
	})

	t.Run("both-present", func(t *testing.T) {
		m := NewOptionals()
		m.Timestamp.SetPresence(field.Present)
		m.TimestampValue().SetValue(60)
		m.Label.SetPresence(field.Present)
		m.LabelValue().SetString("sensor-4")

		decoded := frameRoundtrip(t, m).(*Optionals)
		if decoded.LabelValue().String() != "sensor-4" {
			t.Errorf("label = %q", decoded.LabelValue().String())
		}
	})
}

func TestOptionalsRefreshSyncsFlags(t *testing.T) {
	m := NewOptionals()
	m.Label.SetPresence(field.Present)
	m.LabelValue().SetString("x")

	changed, st := m.Refresh()
	if st != wire.Success || !changed {
		t.Fatalf("first Refresh = %v, %v", changed, st)
	}
	changed, st = m.Refresh()
	if st != wire.Success || changed {
		t.Errorf("second Refresh = %v, %v; want idempotent", changed, st)
	}
}

func TestFloatValuesRoundtrip(t *testing.T) {
	m := NewFloatValues()
	m.Reading.SetValue(-0.5)
	m.Accumulated.SetValue(6.02214076e23)

	decoded := frameRoundtrip(t, m).(*FloatValues)
	if decoded.Reading.Value() != -0.5 || decoded.Accumulated.Value() != 6.02214076e23 {
		t.Errorf("decoded %v %v", decoded.Reading.Value(), decoded.Accumulated.Value())
	}
}

func TestVariantsRoundtrip(t *testing.T) {
	t.Run("reading", func(t *testing.T) {
		m := NewVariants()
		m.Value.SelectKey(VariantKeyReading).(*field.Int).SetValue(880)

		decoded := frameRoundtrip(t, m).(*Variants)
		if decoded.Value.Name() != "reading" {
			t.Fatalf("arm = %q", decoded.Value.Name())
		}
		if decoded.Value.Body().(*field.Int).Value() != 880 {
			t.Errorf("reading = %d", decoded.Value.Body().(*field.Int).Value())
		}
	})

	t.Run("note", func(t *testing.T) {
		m := NewVariants()
		m.Value.SelectKey(VariantKeyNote).(*field.Bytes).SetString("recalibrated")

		decoded := frameRoundtrip(t, m).(*Variants)
		if decoded.Value.Body().(*field.Bytes).String() != "recalibrated" {
			t.Errorf("note = %q", decoded.Value.Body().(*field.Bytes).String())
		}
	})
}

// countingHandler tallies dispatches per kind.
type countingHandler struct {
	BaseHandler
	ints     int
	variants int
	other    int
}

func (h *countingHandler) HandleIntValues(*IntValues) { h.ints++ }
func (h *countingHandler) HandleVariants(*Variants)   { h.variants++ }

func TestDispatchRouting(t *testing.T) {
	h := &countingHandler{BaseHandler: BaseHandler{Unknown: nil}}
	h.Unknown = func(message.Message) { h.other++ }

	msgs := []message.Message{NewIntValues(), NewVariants(), NewStrings(), NewLists()}
	for _, m := range msgs {
		if st := m.Dispatch(h); st != wire.Success {
			t.Fatalf("Dispatch(%T): %v", m, st)
		}
	}
	if h.ints != 1 || h.variants != 1 || h.other != 2 {
		t.Errorf("routing: ints=%d variants=%d other=%d", h.ints, h.variants, h.other)
	}
}

func TestFramePushBackWrite(t *testing.T) {
	s := NewHeapFrame()
	m := NewIntValues()
	m.Counter.SetValue(3)

	var stream bytes.Buffer
	st := s.Write(m, wire.NewStreamWriter(&stream), 64)
	if st != wire.UpdateRequired {
		t.Fatalf("push-back write = %v, want UpdateRequired", st)
	}
	frame := stream.Bytes()
	if st := s.Update(frame); st != wire.Success {
		t.Fatalf("Update: %v", st)
	}

	onePass := make([]byte, s.Length(m))
	w := wire.NewBufWriter(onePass)
	if st := s.Write(m, w, len(onePass)); st != wire.Success {
		t.Fatalf("one-pass Write: %v", st)
	}
	if !bytes.Equal(frame, w.Bytes()) {
		t.Errorf("two-pass % x != one-pass % x", frame, w.Bytes())
	}

	decoded, _, st := s.Read(wire.NewReader(frame), len(frame))
	if st != wire.Success {
		t.Fatalf("Read: %v", st)
	}
	if decoded.(*IntValues).Counter.Value() != 3 {
		t.Errorf("counter = %d", decoded.(*IntValues).Counter.Value())
	}
}

func TestFrameResyncAfterGarbage(t *testing.T) {
	// The one-byte-advance recovery policy over a stream with junk
	// before a valid frame.
	s := NewHeapFrame()
	m := NewIntValues()
	m.Counter.SetValue(5)

	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}
	stream := append([]byte{0x00, 0x57, 0x99}, w.Bytes()...)

	var decoded message.Message
	for offset := 0; offset < len(stream); offset++ {
		r := wire.NewReader(stream[offset:])
		msg, _, st := s.Read(r, len(stream)-offset)
		if st == wire.Success {
			decoded = msg
			break
		}
	}
	if decoded == nil {
		t.Fatal("never resynchronized")
	}
	if decoded.(*IntValues).Counter.Value() != 5 {
		t.Errorf("counter = %d", decoded.(*IntValues).Counter.Value())
	}
}

func TestFrameLayout(t *testing.T) {
	// Pin the frame bytes of a known message so the layer order
	// (sync, size, id, payload, checksum) stays a wire-format
	// constant.
	m := NewIntValues()
	m.Counter.SetValue(1)
	m.Delta.SetValue(2)
	m.Year.SetValue(2003)

	s := NewHeapFrame()
	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}

	want := []byte{
		0x57, 0x4C, // sync
		0x00, 0x05, // size: id + payload
		0x01,       // id
		0x01,       // counter
		0x00, 0x02, // delta
		0x03, // year-2000
		0x0C, // sum of size..payload bytes
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("frame = % x, want % x", w.Bytes(), want)
	}
}

func TestAllFieldsInspection(t *testing.T) {
	s := NewHeapFrame()
	m := NewStrings()
	m.Prefixed.SetString("a")
	m.Fixed.SetString("b")

	buf := make([]byte, s.Length(m))
	w := wire.NewBufWriter(buf)
	if st := s.Write(m, w, len(buf)); st != wire.Success {
		t.Fatalf("Write: %v", st)
	}

	all := s.NewAllFields()
	_, _, st := s.ReadFieldsCached(all, wire.NewReader(w.Bytes()), w.Pos())
	if st != wire.Success {
		t.Fatalf("ReadFieldsCached: %v", st)
	}
	if v := all[0].(*field.Int).Value(); v != SyncValue {
		t.Errorf("sync slot = %#x", v)
	}
	length, _ := m.Length()
	if v := all[2].(*field.Int).Value(); v != int64(length)+1 {
		t.Errorf("size slot = %d, want %d", v, length+1)
	}
	if v := all[3].(*field.Int).Value(); v != int64(MsgIDStrings) {
		t.Errorf("id slot = %d", v)
	}
}
