// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "fmt"

// Endian selects the byte order for multi-byte integer packing. It is
// fixed per dialect at interface construction; individual fields may
// carry an override.
type Endian uint8

const (
	// BigEndian emits the most significant byte first.
	BigEndian Endian = iota
	// LittleEndian emits the least significant byte first.
	LittleEndian
)

// String returns "big" or "little".
func (e Endian) String() string {
	switch e {
	case BigEndian:
		return "big"
	case LittleEndian:
		return "little"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// PutUint packs the low len(buf) bytes of v into buf under e. Widths
// from 1 to 8 bytes are supported; excess high bits of v are
// discarded.
func (e Endian) PutUint(buf []byte, v uint64) {
	n := len(buf)
	if e == BigEndian {
		for i := n - 1; i >= 0; i-- {
			buf[i] = byte(v)
			v >>= 8
		}
		return
	}
	for i := range n {
		buf[i] = byte(v)
		v >>= 8
	}
}

// Uint unpacks len(buf) bytes under e into an unsigned integer.
func (e Endian) Uint(buf []byte) uint64 {
	var v uint64
	if e == BigEndian {
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
		return v
	}
	for i := len(buf) - 1; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v
}
