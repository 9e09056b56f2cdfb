// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// Package field implements the typed field codecs of the Wireloom
// framework: value-semantic objects that serialize one piece of wire
// data each. Composite fields (bundles, arrays, variants, bitfields,
// optionals) nest other fields, so an entire message body is itself a
// field.
//
// Every codec implements [Field]:
//
//   - Length/MinLength/MaxLength describe the serialized size; for
//     every field MinLength() <= Length() <= MaxLength().
//   - Read and Write are the codecs. Both take a size budget — the
//     number of bytes the enclosing layer permits this field to
//     consume or emit — which may be smaller than what the iterator
//     could physically provide.
//   - Valid is the semantic predicate (range membership, known enum
//     value, element validity).
//   - Refresh recomputes dependent state such as size prefixes and
//     reports whether anything changed.
//
// Writing a valid field and reading it back from the produced bytes
// reproduces the value; the package tests pin this round-trip for
// every codec family.
//
// Fields are not safe for concurrent use. Clone produces a deep,
// independent copy; composite prototypes use it to stamp out element
// instances.
package field
