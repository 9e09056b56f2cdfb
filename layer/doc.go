// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// Package layer implements the Wireloom protocol layer stack: a
// linear chain of framing layers around a message payload.
//
// A [Stack] composes layers outermost first and terminates with
// [Payload], the base case that reads or writes the message body.
// Each layer owns exactly one framing field per frame — the sync
// prefix, the size, the message id, the checksum — and delegates the
// rest of the window to the next inner layer through a callable, so
// a layer never sees the chain beyond its neighbor.
//
// The standard kinds are [SyncPrefix], [Size], [MsgID], [Checksum],
// and [Payload]. [Compress] and [Sealed] wrap the inner frame in an
// algorithm-tagged compressed block or an XChaCha20-Poly1305 sealed
// box respectively.
//
// Writes are single-pass when the destination supports
// [wire.RandomAccess]: a size layer emits a placeholder, recurses, and
// patches it; a checksum layer recurses and then writes the computed
// trailer. Through a push-back writer both layers leave a zero placeholder
// and report UpdateRequired; the caller then runs [Stack.Update]
// over the assembled frame to fill the reserved slots before
// transmission.
//
// Reads report the missing byte count on NotEnoughData: a lower
// bound (never less than 1) on how many further bytes might let the
// read progress, for callers that buffer from a stream.
//
// The cached variants (ReadFieldsCached, WriteFieldsCached,
// UpdateFieldsCached) additionally record every layer's field value
// in an [AllFields] slice, outermost first, so callers can inspect
// the framing that was observed or produced.
package layer
