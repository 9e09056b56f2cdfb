// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"fmt"
	"math"

	"github.com/wireloom/wireloom/wire"
)

// FloatConfig parameterizes a [Float] field.
type FloatConfig struct {
	// Width is 4 (IEEE 754 binary32) or 8 (binary64).
	Width int

	// Default is the initial value.
	Default float64

	// AllowNaN makes NaN a valid value. By default Valid rejects it.
	AllowNaN bool
}

// Float is a fixed-width IEEE 754 field serialized under the ambient
// byte order.
type Float struct {
	base  Base
	cfg   FloatConfig
	value float64
}

// NewFloat returns a Float configured by cfg. Panics unless Width is
// 4 or 8.
func NewFloat(base Base, cfg FloatConfig) *Float {
	if cfg.Width != 4 && cfg.Width != 8 {
		panic(fmt.Sprintf("field: float width %d, must be 4 or 8", cfg.Width))
	}
	return &Float{base: base, cfg: cfg, value: cfg.Default}
}

// Value returns the value.
func (f *Float) Value() float64 { return f.value }

// SetValue sets the value. A width-4 field stores the value rounded
// through float32, so that Length/Write and a later read agree.
func (f *Float) SetValue(v float64) {
	if f.cfg.Width == 4 {
		v = float64(float32(v))
	}
	f.value = v
}

// Length implements [Field].
func (f *Float) Length() int { return f.cfg.Width }

// MinLength implements [Field].
func (f *Float) MinLength() int { return f.cfg.Width }

// MaxLength implements [Field].
func (f *Float) MaxLength() int { return f.cfg.Width }

// Read implements [Field].
func (f *Float) Read(r *wire.Reader, size int) wire.Status {
	if available(r, size) < f.cfg.Width {
		return wire.NotEnoughData
	}
	raw, _ := r.ReadUint(f.cfg.Width, f.base.Endian)
	if f.cfg.Width == 4 {
		f.value = float64(math.Float32frombits(uint32(raw)))
	} else {
		f.value = math.Float64frombits(raw)
	}
	return wire.Success
}

// Write implements [Field].
func (f *Float) Write(w wire.Writer, size int) wire.Status {
	if size < f.cfg.Width {
		return wire.BufferOverflow
	}
	var raw uint64
	if f.cfg.Width == 4 {
		raw = uint64(math.Float32bits(float32(f.value)))
	} else {
		raw = math.Float64bits(f.value)
	}
	return w.WriteUint(raw, f.cfg.Width, f.base.Endian)
}

// Valid implements [Field].
func (f *Float) Valid() bool {
	return f.cfg.AllowNaN || !math.IsNaN(f.value)
}

// Refresh implements [Field].
func (f *Float) Refresh() bool { return false }

// Clone implements [Field].
func (f *Float) Clone() Field {
	clone := *f
	return &clone
}
