// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire provides the byte-level substrate for the Wireloom
// protocol framework: endian-tagged integer packing, the iterator
// capability model used by field codecs and protocol layers, and the
// Status outcome taxonomy shared by every codec operation.
//
// The package is organized around three capability sets:
//
//   - [Reader]: forward consumption of a byte window with position
//     save/restore, used by all read paths.
//   - [Writer]: forward emission. [StreamWriter] implements exactly
//     this — bytes go out and cannot be revisited.
//   - [RandomAccess]: a Writer whose already-emitted bytes can be
//     patched in place. [BufWriter] implements it. Layers that
//     reserve fix-up slots (size, checksum) detect the capability by
//     interface assertion and fall back to the two-pass update
//     protocol when it is absent.
//
// Callers own actual I/O: a Reader wraps bytes the caller already
// buffered, and a StreamWriter hands bytes to any io.Writer. Nothing
// in this package blocks.
package wire
