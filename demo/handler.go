// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package demo

import "github.com/wireloom/wireloom/message"

// Handler is the dialect visitor: one callback per concrete kind plus
// the framework catch-all. Dispatch on any demo message invokes the
// matching callback; visitors that do not implement Handler receive
// every message through HandleUnknown.
type Handler interface {
	message.Handler

	HandleIntValues(*IntValues)
	HandleEnumValues(*EnumValues)
	HandleBitfields(*Bitfields)
	HandleStrings(*Strings)
	HandleLists(*Lists)
	HandleOptionals(*Optionals)
	HandleFloatValues(*FloatValues)
	HandleVariants(*Variants)
}

// BaseHandler implements [Handler] by routing every callback to
// HandleUnknown. Embed it to visit a subset of kinds without spelling
// out the rest.
type BaseHandler struct {
	// Unknown receives every message not intercepted by an
	// overriding callback. A nil Unknown drops them.
	Unknown func(message.Message)
}

// HandleUnknown implements [message.Handler].
func (h BaseHandler) HandleUnknown(m message.Message) {
	if h.Unknown != nil {
		h.Unknown(m)
	}
}

// HandleIntValues implements [Handler].
func (h BaseHandler) HandleIntValues(m *IntValues) { h.HandleUnknown(m) }

// HandleEnumValues implements [Handler].
func (h BaseHandler) HandleEnumValues(m *EnumValues) { h.HandleUnknown(m) }

// HandleBitfields implements [Handler].
func (h BaseHandler) HandleBitfields(m *Bitfields) { h.HandleUnknown(m) }

// HandleStrings implements [Handler].
func (h BaseHandler) HandleStrings(m *Strings) { h.HandleUnknown(m) }

// HandleLists implements [Handler].
func (h BaseHandler) HandleLists(m *Lists) { h.HandleUnknown(m) }

// HandleOptionals implements [Handler].
func (h BaseHandler) HandleOptionals(m *Optionals) { h.HandleUnknown(m) }

// HandleFloatValues implements [Handler].
func (h BaseHandler) HandleFloatValues(m *FloatValues) { h.HandleUnknown(m) }

// HandleVariants implements [Handler].
func (h BaseHandler) HandleVariants(m *Variants) { h.HandleUnknown(m) }
