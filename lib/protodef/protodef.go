// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package protodef

// Definition is the root of a protocol definition document.
type Definition struct {
	// Name identifies the dialect in records and tool output.
	Name string `yaml:"name" json:"name"`

	// Endian is "big" (the default) or "little".
	Endian string `yaml:"endian,omitempty" json:"endian,omitempty"`

	// Layers is the transport stack, outermost first. The payload
	// base case is implicit and must not be declared.
	Layers []LayerDef `yaml:"layers" json:"layers"`

	// Messages is the closed message set.
	Messages []MessageDef `yaml:"messages" json:"messages"`
}

// LayerDef declares one framing layer.
type LayerDef struct {
	// Layer is the kind: "sync", "size", "id", "checksum", or
	// "compress".
	Layer string `yaml:"layer" json:"layer"`

	// Width is the framing field width in bytes (sync, size, id,
	// checksum).
	Width int `yaml:"width,omitempty" json:"width,omitempty"`

	// Value is the expected magic for sync layers.
	Value uint64 `yaml:"value,omitempty" json:"value,omitempty"`

	// Algorithm selects the checksum calculator ("sum", "crc32",
	// "blake3") or the compression ("none", "lz4", "zstd").
	Algorithm string `yaml:"algorithm,omitempty" json:"algorithm,omitempty"`
}

// MessageDef declares one message kind.
type MessageDef struct {
	ID     uint64     `yaml:"id" json:"id"`
	Name   string     `yaml:"name" json:"name"`
	Fields []FieldDef `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// FieldDef declares one field of a message payload. The set of
// meaningful attributes depends on Type; Build rejects contradictory
// combinations.
type FieldDef struct {
	// Name labels the field in dumps; optional.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Type is one of: "uint", "int", "float", "enum", "bytes",
	// "string", "array", "bundle", "bitfield", "optional",
	// "variant".
	Type string `yaml:"type" json:"type"`

	// Width is the serialized byte width for scalar types.
	Width int `yaml:"width,omitempty" json:"width,omitempty"`

	// Bits is the bit length of a bitfield member.
	Bits int `yaml:"bits,omitempty" json:"bits,omitempty"`

	// Offset is the serialization offset (stored = logical+offset).
	Offset int64 `yaml:"offset,omitempty" json:"offset,omitempty"`

	// Default is the initial value of integer fields.
	Default int64 `yaml:"default,omitempty" json:"default,omitempty"`

	// Min and Max bound integer validity when either is set.
	Min *int64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *int64 `yaml:"max,omitempty" json:"max,omitempty"`

	// Strict rejects invalid values during read.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`

	// Values declares enum variants by logical value.
	Values map[int64]string `yaml:"values,omitempty" json:"values,omitempty"`

	// AllowNaN permits NaN in float fields.
	AllowNaN bool `yaml:"allow_nan,omitempty" json:"allow_nan,omitempty"`

	// PrefixWidth selects a size-prefixed bytes/string/array field.
	PrefixWidth int `yaml:"prefix_width,omitempty" json:"prefix_width,omitempty"`

	// Terminator selects a terminated bytes/string field; hex digits.
	Terminator string `yaml:"terminator,omitempty" json:"terminator,omitempty"`

	// FixedSize selects a fixed-size bytes/string field.
	FixedSize int `yaml:"fixed_size,omitempty" json:"fixed_size,omitempty"`

	// Element is the array element shape.
	Element *FieldDef `yaml:"element,omitempty" json:"element,omitempty"`

	// CountBytes makes an array prefix count bytes, not elements.
	CountBytes bool `yaml:"count_bytes,omitempty" json:"count_bytes,omitempty"`

	// FixedCount selects a fixed-count array.
	FixedCount int `yaml:"fixed_count,omitempty" json:"fixed_count,omitempty"`

	// MinCount and MaxCount bound array validity.
	MinCount int `yaml:"min_count,omitempty" json:"min_count,omitempty"`
	MaxCount int `yaml:"max_count,omitempty" json:"max_count,omitempty"`

	// Members are the children of bundle and bitfield types.
	Members []FieldDef `yaml:"members,omitempty" json:"members,omitempty"`

	// Inner is the wrapped field of an optional.
	Inner *FieldDef `yaml:"inner,omitempty" json:"inner,omitempty"`

	// Presence is the optional's initial mode: "tentative" (the
	// default), "present", or "missing".
	Presence string `yaml:"presence,omitempty" json:"presence,omitempty"`

	// KeyWidth is the variant key width.
	KeyWidth int `yaml:"key_width,omitempty" json:"key_width,omitempty"`

	// Alternatives are the variant arms.
	Alternatives []AlternativeDef `yaml:"alternatives,omitempty" json:"alternatives,omitempty"`
}

// AlternativeDef declares one variant arm.
type AlternativeDef struct {
	Key  int64    `yaml:"key" json:"key"`
	Name string   `yaml:"name,omitempty" json:"name,omitempty"`
	Body FieldDef `yaml:"body" json:"body"`
}
