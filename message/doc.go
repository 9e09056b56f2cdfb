// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// Package message defines the polymorphic message contract of the
// Wireloom framework: a uniform handle to a concrete message of a
// closed dialect, with the operation set chosen at interface
// construction time.
//
// A dialect builds one [Interface] value naming its ambient byte
// order and the capabilities its applications need (read, write,
// length, validity, refresh, id access, handler dispatch). Concrete
// messages embed [Base], which implements every optional operation
// against the payload bundle and answers NotSupported for operations
// the interface did not configure. This is the runtime-capability
// rendering of a compile-time mixin design: one method set, with
// absent capabilities reported through the ordinary status channel.
//
// Dispatch follows the visitor pattern. The framework [Handler]
// carries only the catch-all; each dialect declares a handler
// interface with one callback per concrete kind, and each concrete
// message's Dispatch asserts the visitor against that interface,
// falling back to HandleUnknown. The kind set is closed at dialect
// construction.
//
// Message construction goes through [Allocator]. [HeapAllocator]
// returns a fresh instance per call; [PoolAllocator] permits at most
// one live instance per registered kind and reports re-entrant
// construction as MsgAllocFailure.
package message
