// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// Package capture models decoded frames as portable records: the raw
// frame bytes, the framing field values observed by each layer, the
// message id and kind name, and a structural dump of the payload
// field tree.
//
// Records serialize as deterministic CBOR (lib/codec), so a capture
// of the same frame always produces identical bytes — suitable for
// golden test fixtures and for diffing protocol behavior across
// implementations. Storage of record streams is the caller's
// concern; this package only defines the shape and the conversion
// from live framework objects.
package capture
