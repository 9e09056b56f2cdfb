// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/layer"
	"github.com/wireloom/wireloom/lib/codec"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Record is one captured frame. The zero value is an empty record;
// use [NewRecord] to build one from live framework objects.
type Record struct {
	// Dialect names the protocol definition the frame was decoded
	// against.
	Dialect string `cbor:"dialect,omitempty"`

	// Raw is the exact frame bytes as observed on the wire.
	Raw []byte `cbor:"raw"`

	// Framing holds one structural dump per stack layer, outermost
	// first, mirroring the AllFields order.
	Framing []any `cbor:"framing,omitempty"`

	// MsgID is the decoded message id.
	MsgID uint64 `cbor:"msg_id"`

	// Kind is the registered kind name, when known.
	Kind string `cbor:"kind,omitempty"`

	// Payload is the structural dump of the message body.
	Payload any `cbor:"payload,omitempty"`
}

// NewRecord builds a Record from a decoded frame: the raw bytes, the
// cached framing fields, and the decoded message. all and kind may be
// nil/empty when the caller did not use the cached read.
func NewRecord(dialect string, raw []byte, all layer.AllFields, m message.Message, kind string) Record {
	record := Record{
		Dialect: dialect,
		Raw:     append([]byte(nil), raw...),
		Kind:    kind,
	}
	if id, st := m.GetID(); st == wire.Success {
		record.MsgID = uint64(id)
	}
	for _, f := range all {
		record.Framing = append(record.Framing, Dump(f))
	}
	record.Payload = Dump(m.Payload())
	return record
}

// Encode serializes the record as deterministic CBOR.
func (r Record) Encode() ([]byte, error) {
	return codec.Marshal(r)
}

// DecodeRecord parses a CBOR-encoded record.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	err := codec.Unmarshal(data, &r)
	return r, err
}

// Dump converts a field tree into plain Go values suitable for CBOR
// or JSON: integers for integer fields, floats for float fields,
// value/name maps for enums, byte slices for data fields, slices for
// composites, and arm/body maps for variants. Missing optionals and
// variants with no selected arm dump as nil.
func Dump(f field.Field) any {
	switch f := f.(type) {
	case *field.Int:
		return f.Value()
	case *field.Enum:
		if name := f.Name(); name != "" {
			return map[string]any{"value": f.Value(), "name": name}
		}
		return map[string]any{"value": f.Value()}
	case *field.Float:
		return f.Value()
	case *field.Bytes:
		return append([]byte(nil), f.Value()...)
	case *field.Bundle:
		members := make([]any, 0, f.NumMembers())
		for _, m := range f.Members() {
			members = append(members, Dump(m))
		}
		return members
	case *field.Array:
		elements := make([]any, 0, f.Count())
		for _, e := range f.Elements() {
			elements = append(elements, Dump(e))
		}
		return elements
	case *field.Bitfield:
		members := make([]any, 0, len(f.Members()))
		for _, m := range f.Members() {
			members = append(members, Dump(m))
		}
		return members
	case *field.Variant:
		if f.Selected() < 0 {
			return nil
		}
		return map[string]any{"arm": f.Name(), "body": Dump(f.Body())}
	case *field.Optional:
		if f.Presence() == field.Missing {
			return nil
		}
		return Dump(f.Inner())
	default:
		return nil
	}
}
