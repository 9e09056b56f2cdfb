// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// Package demo defines the Wireloom demonstration dialect: a small
// big-endian protocol whose message set exercises every field codec
// family the framework provides — integers with offsets and ranges,
// enums, floats, bitfields, the three string policies, the list
// policies, optionals driven by a presence bitmask, and a tagged
// variant.
//
// The transport frame is
//
//	[ sync u16 0x574C ][ size u16 ][ id u8 ][ payload ][ checksum u8 ]
//
// where the size counts the id plus payload bytes and the additive
// checksum trails the frame, covering everything between the sync
// prefix and the trailer.
//
// The package is a working dialect, not just an example: its tests
// double as end-to-end coverage of the layer stack, and the capture
// package tests record frames decoded through it.
package demo
