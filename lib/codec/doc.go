// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Wireloom's standard CBOR encoding
// configuration.
//
// The framework's own wire formats are defined by dialects through
// the field and layer packages; CBOR is the side-channel format for
// everything around them — capture records, golden test fixtures,
// and tool output that must be replayed byte-identically.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. The same logical record always produces identical bytes, so
// capture archives diff cleanly and fixtures stay stable across
// writers.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(record)
//	err = codec.Unmarshal(data, &record)
//
// For stream-oriented operations (capture files, pipes):
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
package codec
