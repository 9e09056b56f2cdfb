// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// sampleRecord is a representative capture record shape.
type sampleRecord struct {
	Dialect string         `cbor:"dialect"`
	MsgID   uint64         `cbor:"msg_id"`
	Raw     []byte         `cbor:"raw"`
	Fields  map[string]any `cbor:"fields,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Dialect: "demo",
		MsgID:   4,
		Raw:     []byte{0x57, 0x4C, 0x00, 0x02},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Dialect != original.Dialect || decoded.MsgID != original.MsgID {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
	if !bytes.Equal(decoded.Raw, original.Raw) {
		t.Errorf("raw bytes mismatch: % x", decoded.Raw)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	record := sampleRecord{
		Dialect: "demo",
		MsgID:   7,
		Fields:  map[string]any{"b": uint64(2), "a": uint64(1), "c": uint64(3)},
	}

	first, err := Marshal(record)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(record)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestEncoderDecoderStreamRoundtrip(t *testing.T) {
	records := []sampleRecord{
		{Dialect: "demo", MsgID: 1},
		{Dialect: "demo", MsgID: 2, Raw: []byte{0xFF}},
		{Dialect: "demo", MsgID: 8},
	}

	var buf bytes.Buffer
	encoder := NewEncoder(&buf)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buf)
	for i := range records {
		var decoded sampleRecord
		if err := decoder.Decode(&decoded); err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		if decoded.MsgID != records[i].MsgID {
			t.Errorf("record %d: msg_id = %d, want %d", i, decoded.MsgID, records[i].MsgID)
		}
	}
	var extra sampleRecord
	if err := decoder.Decode(&extra); err != io.EOF {
		t.Errorf("decode past end = %v, want io.EOF", err)
	}
}

func TestDecodeIntoAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"key": "value"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Errorf("any-typed decode produced %T, want map[string]any", decoded)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleRecord{Dialect: "demo", MsgID: 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diag, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diag, "demo") {
		t.Errorf("diagnostic %q should mention the dialect", diag)
	}
}
