// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// Package protodef provides declarative protocol definitions:
// documents that describe a transport layer stack and a closed
// message set, compiled into a live [layer.Stack] plus message
// registry without writing a dialect package.
//
// Definitions are authored as YAML or as JSONC (JSON extended with
// comments and trailing commas); both parse into the same
// [Definition] tree. The typical flow:
//
//  1. ReadFile or Parse/ParseJSONC: bytes → Definition
//  2. Definition.Build: validate and compile → Dialect
//  3. Dialect.Frame.Read / Write with Dialect's generic messages
//
// A compiled dialect decodes frames into [Generic] messages whose
// payload is the field tree declared in the document. Hand-written
// dialect packages (such as the demo package) remain the right tool
// when messages need behavior; protodef covers inspection tooling
// and tests, where the shape alone is enough.
package protodef
