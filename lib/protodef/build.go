// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package protodef

import (
	"encoding/hex"
	"fmt"

	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/layer"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Dialect is a compiled protocol definition: the live stack, the
// registry behind it, and the name table for decoded kinds.
type Dialect struct {
	// Name is the definition's name.
	Name string

	// Iface is the dialect message interface (full capability set).
	Iface *message.Interface

	// Registry is the compiled message set.
	Registry *message.Registry

	// Frame is the compiled transport stack over a heap allocator.
	Frame *layer.Stack

	names map[message.ID]string
}

// KindName returns the declared name of a message id, or "".
func (d *Dialect) KindName(id message.ID) string { return d.names[id] }

// Generic is the message type of compiled dialects: a plain payload
// carrier with the kind name attached. Dispatch routes every Generic
// to [GenericHandler] visitors, or to the catch-all.
type Generic struct {
	message.Base
	kind string
}

// Kind returns the declared kind name.
func (g *Generic) Kind() string { return g.kind }

// Dispatch implements [message.Message].
func (g *Generic) Dispatch(h message.Handler) wire.Status {
	if st := g.CheckDispatch(); st != wire.Success {
		return st
	}
	if gh, ok := h.(GenericHandler); ok {
		gh.HandleGeneric(g)
		return wire.Success
	}
	h.HandleUnknown(g)
	return wire.Success
}

// GenericHandler is the visitor arm for compiled dialects.
type GenericHandler interface {
	message.Handler
	HandleGeneric(*Generic)
}

// Build validates the definition and compiles it into a live
// dialect.
func (def *Definition) Build() (_ *Dialect, err error) {
	// Field constructors panic on configurations they refuse (two
	// length policies, duplicate variant keys, ...); report those as
	// definition errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	var endian wire.Endian
	switch def.Endian {
	case "", "big":
		endian = wire.BigEndian
	case "little":
		endian = wire.LittleEndian
	default:
		return nil, fmt.Errorf("endian: unknown value %q", def.Endian)
	}

	iface := message.NewInterface(endian, message.CapAll)
	base := iface.FieldBase()

	dialect := &Dialect{
		Name:     def.Name,
		Iface:    iface,
		Registry: message.NewRegistry(),
		names:    make(map[message.ID]string),
	}

	if len(def.Messages) == 0 {
		return nil, fmt.Errorf("messages: at least one kind is required")
	}
	for i, msgDef := range def.Messages {
		if msgDef.Name == "" {
			return nil, fmt.Errorf("messages[%d]: name is required", i)
		}
		members := make([]field.Field, 0, len(msgDef.Fields))
		for j, fieldDef := range msgDef.Fields {
			f, err := buildField(base, &fieldDef)
			if err != nil {
				return nil, fmt.Errorf("message %q field %d: %w", msgDef.Name, j, err)
			}
			members = append(members, f)
		}
		prototype := field.NewBundle(members...)
		id := message.ID(msgDef.ID)
		kind := msgDef.Name
		dialect.names[id] = kind
		dialect.Registry.Register(id, kind, func() message.Message {
			g := &Generic{kind: kind}
			g.Base = message.NewBase(iface, id, prototype.Clone().(*field.Bundle))
			return g
		})
	}

	layers := make([]layer.Layer, 0, len(def.Layers)+1)
	hasID := false
	for i, layerDef := range def.Layers {
		built, err := buildLayer(base, &layerDef, dialect.Registry)
		if err != nil {
			return nil, fmt.Errorf("layers[%d]: %w", i, err)
		}
		if layerDef.Layer == "id" {
			hasID = true
		}
		layers = append(layers, built)
	}
	if !hasID {
		return nil, fmt.Errorf("layers: an id layer is required to decode frames")
	}
	layers = append(layers, layer.NewPayload())

	dialect.Frame = layer.NewStack(layers...)
	return dialect, nil
}

// buildLayer compiles one layer declaration.
func buildLayer(base field.Base, def *LayerDef, reg *message.Registry) (layer.Layer, error) {
	intField := func(defaultValue uint64) (*field.Int, error) {
		if def.Width < 1 || def.Width > 8 {
			return nil, fmt.Errorf("width %d out of range [1,8]", def.Width)
		}
		return field.NewInt(base, field.IntConfig{Width: def.Width, Default: int64(defaultValue)}), nil
	}

	switch def.Layer {
	case "sync":
		f, err := intField(def.Value)
		if err != nil {
			return nil, err
		}
		return layer.NewSyncPrefix(f), nil

	case "size":
		f, err := intField(0)
		if err != nil {
			return nil, err
		}
		return layer.NewSize(f), nil

	case "id":
		f, err := intField(0)
		if err != nil {
			return nil, err
		}
		return layer.NewMsgID(f, message.NewHeapAllocator(reg)), nil

	case "checksum":
		f, err := intField(0)
		if err != nil {
			return nil, err
		}
		var calc layer.Calculator
		switch def.Algorithm {
		case "", "sum":
			calc = layer.SumBytes{}
		case "crc32":
			calc = layer.CRC32{}
		case "blake3":
			calc = layer.Blake3{}
		default:
			return nil, fmt.Errorf("checksum algorithm: unknown value %q", def.Algorithm)
		}
		return layer.NewChecksum(f, calc), nil

	case "compress":
		tag, err := layer.ParseCompressionTag(defaultString(def.Algorithm, "lz4"))
		if err != nil {
			return nil, err
		}
		return layer.NewCompress(base, tag), nil

	default:
		return nil, fmt.Errorf("unknown layer kind %q", def.Layer)
	}
}

// buildField compiles one field declaration, recursively.
func buildField(base field.Base, def *FieldDef) (field.Field, error) {
	switch def.Type {
	case "uint", "int":
		cfg, err := intConfig(def)
		if err != nil {
			return nil, err
		}
		cfg.Signed = def.Type == "int"
		return field.NewInt(base, cfg), nil

	case "enum":
		cfg, err := intConfig(def)
		if err != nil {
			return nil, err
		}
		if len(def.Values) == 0 {
			return nil, fmt.Errorf("enum %q: values are required", def.Name)
		}
		return field.NewEnum(base, cfg, def.Values), nil

	case "float":
		if def.Width != 4 && def.Width != 8 {
			return nil, fmt.Errorf("float %q: width must be 4 or 8", def.Name)
		}
		return field.NewFloat(base, field.FloatConfig{Width: def.Width, AllowNaN: def.AllowNaN}), nil

	case "bytes", "string":
		cfg := field.BytesConfig{FixedSize: def.FixedSize}
		if def.PrefixWidth > 0 {
			cfg.SizePrefix = field.NewInt(base, field.IntConfig{Width: def.PrefixWidth})
		}
		if def.Terminator != "" {
			terminator, err := hex.DecodeString(def.Terminator)
			if err != nil {
				return nil, fmt.Errorf("%s %q: terminator: %w", def.Type, def.Name, err)
			}
			cfg.Terminator = terminator
		}
		return field.NewBytes(base, cfg), nil

	case "array":
		if def.Element == nil {
			return nil, fmt.Errorf("array %q: element is required", def.Name)
		}
		// Validate the element shape once, then stamp clones.
		prototype, err := buildField(base, def.Element)
		if err != nil {
			return nil, fmt.Errorf("array %q element: %w", def.Name, err)
		}
		cfg := field.ArrayConfig{
			Element:    prototype.Clone,
			CountBytes: def.CountBytes,
			FixedCount: def.FixedCount,
			MinCount:   def.MinCount,
			MaxCount:   def.MaxCount,
		}
		if def.PrefixWidth > 0 {
			cfg.SizePrefix = field.NewInt(base, field.IntConfig{Width: def.PrefixWidth})
		}
		return field.NewArray(cfg), nil

	case "bundle":
		members := make([]field.Field, 0, len(def.Members))
		for i := range def.Members {
			member, err := buildField(base, &def.Members[i])
			if err != nil {
				return nil, fmt.Errorf("bundle %q member %d: %w", def.Name, i, err)
			}
			members = append(members, member)
		}
		return field.NewBundle(members...), nil

	case "bitfield":
		members := make([]field.Packed, 0, len(def.Members))
		for i := range def.Members {
			member, err := buildField(base, &def.Members[i])
			if err != nil {
				return nil, fmt.Errorf("bitfield %q member %d: %w", def.Name, i, err)
			}
			packed, ok := member.(field.Packed)
			if !ok || packed.Bits() == 0 {
				return nil, fmt.Errorf("bitfield %q member %d: needs an integer with bits set", def.Name, i)
			}
			members = append(members, packed)
		}
		total := 0
		for _, m := range members {
			total += m.Bits()
		}
		if total == 0 || total%8 != 0 || total > 64 {
			return nil, fmt.Errorf("bitfield %q: member bits sum to %d, need a multiple of 8 up to 64", def.Name, total)
		}
		return field.NewBitfield(base, members...), nil

	case "optional":
		if def.Inner == nil {
			return nil, fmt.Errorf("optional %q: inner is required", def.Name)
		}
		inner, err := buildField(base, def.Inner)
		if err != nil {
			return nil, fmt.Errorf("optional %q inner: %w", def.Name, err)
		}
		var presence field.Presence
		switch def.Presence {
		case "", "tentative":
			presence = field.Tentative
		case "present":
			presence = field.Present
		case "missing":
			presence = field.Missing
		default:
			return nil, fmt.Errorf("optional %q: unknown presence %q", def.Name, def.Presence)
		}
		return field.NewOptional(inner, presence), nil

	case "variant":
		if def.KeyWidth < 1 || def.KeyWidth > 8 {
			return nil, fmt.Errorf("variant %q: key_width %d out of range [1,8]", def.Name, def.KeyWidth)
		}
		if len(def.Alternatives) == 0 {
			return nil, fmt.Errorf("variant %q: alternatives are required", def.Name)
		}
		alts := make([]field.Alternative, 0, len(def.Alternatives))
		for i := range def.Alternatives {
			altDef := def.Alternatives[i]
			body, err := buildField(base, &altDef.Body)
			if err != nil {
				return nil, fmt.Errorf("variant %q alternative %d: %w", def.Name, i, err)
			}
			alts = append(alts, field.Alternative{
				Key:  altDef.Key,
				Name: altDef.Name,
				New:  body.Clone,
			})
		}
		key := field.NewInt(base, field.IntConfig{Width: def.KeyWidth})
		return field.NewVariant(key, alts), nil

	default:
		return nil, fmt.Errorf("unknown field type %q", def.Type)
	}
}

// intConfig translates the scalar integer attributes.
func intConfig(def *FieldDef) (field.IntConfig, error) {
	if def.Width < 1 || def.Width > 8 {
		return field.IntConfig{}, fmt.Errorf("%s %q: width %d out of range [1,8]", def.Type, def.Name, def.Width)
	}
	cfg := field.IntConfig{
		Width:   def.Width,
		Bits:    def.Bits,
		Offset:  def.Offset,
		Default: def.Default,
		Strict:  def.Strict,
	}
	if def.Min != nil || def.Max != nil {
		rng := field.Range{Min: -1 << 62, Max: 1<<62 - 1}
		if def.Min != nil {
			rng.Min = *def.Min
		}
		if def.Max != nil {
			rng.Max = *def.Max
		}
		cfg.Ranges = []field.Range{rng}
	}
	return cfg, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
