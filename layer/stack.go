// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Stack is a linear protocol layer composition, outermost first. The
// last layer must be a [Payload]; everything before it frames the
// window the payload finally decodes.
//
// A Stack is immutable after construction and safe for concurrent
// use only in the sense that separate frames must not interleave:
// the per-frame state lives on the call stack, but message and field
// objects are not synchronized. Use one goroutine per frame in
// flight.
type Stack struct {
	layers []Layer
}

// NewStack composes the given layers, outermost first. Panics unless
// exactly the last layer is a [Payload]: the base case is structural,
// not optional.
func NewStack(layers ...Layer) *Stack {
	if len(layers) == 0 {
		panic("layer: empty stack")
	}
	for i, ly := range layers {
		_, isPayload := ly.(*Payload)
		if isPayload != (i == len(layers)-1) {
			panic("layer: stack must end with exactly one Payload layer")
		}
	}
	return &Stack{layers: layers}
}

// NumLayers returns the layer count, payload included.
func (s *Stack) NumLayers() int { return len(s.layers) }

// NewAllFields returns an [AllFields] slice sized for this stack.
func (s *Stack) NewAllFields() AllFields {
	return make(AllFields, len(s.layers))
}

// Read decodes one frame from r, consuming at most size bytes. On
// success the returned message holds the decoded payload. On
// NotEnoughData, missing is the minimum additional byte count that
// might allow progress (never less than 1) and the reader is
// restored to the start of the element that could not be read.
func (s *Stack) Read(r *wire.Reader, size int) (m message.Message, missing int, st wire.Status) {
	return s.read(nil, r, size)
}

// ReadFieldsCached is Read, additionally recording each layer's
// decoded framing field at its slot in all.
func (s *Stack) ReadFieldsCached(all AllFields, r *wire.Reader, size int) (m message.Message, missing int, st wire.Status) {
	return s.read(all, r, size)
}

func (s *Stack) read(all AllFields, r *wire.Reader, size int) (message.Message, int, wire.Status) {
	ex := &Exchange{fields: all}
	st := s.readAt(ex, 0, r, size)
	if st != wire.NotEnoughData {
		ex.missing = 0
	}
	return ex.msg, ex.missing, st
}

// ReadInto decodes one frame into a caller-provided message,
// bypassing the id layer's allocator. The frame's id must match m's
// own id (InvalidMsgID otherwise); the decoded payload lands in m.
func (s *Stack) ReadInto(m message.Message, r *wire.Reader, size int) (missing int, st wire.Status) {
	ex := &Exchange{msg: m}
	st = s.readAt(ex, 0, r, size)
	if st != wire.NotEnoughData {
		ex.missing = 0
	}
	return ex.missing, st
}

func (s *Stack) readAt(ex *Exchange, depth int, r *wire.Reader, size int) wire.Status {
	ly := s.layers[depth]
	fld := ly.NewField()
	ex.setField(depth, fld)
	next := NextReader(nil)
	if depth+1 < len(s.layers) {
		next = func(r *wire.Reader, size int) wire.Status {
			return s.readAt(ex, depth+1, r, size)
		}
	}
	return ly.Read(fld, ex, r, size, next)
}

// Write encodes one frame for m into w, emitting at most size bytes.
// Through a push-back writer, layers that frame trailing information
// leave placeholders and the call returns UpdateRequired; run
// [Stack.Update] over the produced frame before transmitting it.
func (s *Stack) Write(m message.Message, w wire.Writer, size int) wire.Status {
	return s.write(nil, m, w, size)
}

// WriteFieldsCached is Write, additionally recording each layer's
// framing field at its slot in all. Fields patched after emission
// (size, checksum through a random-access writer) carry their final
// values.
func (s *Stack) WriteFieldsCached(all AllFields, m message.Message, w wire.Writer, size int) wire.Status {
	return s.write(all, m, w, size)
}

func (s *Stack) write(all AllFields, m message.Message, w wire.Writer, size int) wire.Status {
	ex := &Exchange{fields: all}
	return s.writeAt(ex, 0, m, w, size)
}

func (s *Stack) writeAt(ex *Exchange, depth int, m message.Message, w wire.Writer, size int) wire.Status {
	ly := s.layers[depth]
	fld := ly.NewField()
	ex.setField(depth, fld)
	next := NextWriter{}
	if depth+1 < len(s.layers) {
		next = NextWriter{
			Write: func(w wire.Writer, size int) wire.Status {
				return s.writeAt(ex, depth+1, m, w, size)
			},
			Length: func() int { return s.lengthAt(depth+1, m) },
		}
	}
	return ly.Write(fld, m, w, size, next)
}

// Update is the second write pass over a frame produced through a
// push-back writer: it walks the frame outermost first and fills
// every placeholder slot (sizes, checksums) in place.
func (s *Stack) Update(frame []byte) wire.Status {
	return s.update(nil, frame)
}

// UpdateFieldsCached is Update, additionally recording each layer's
// field (with its final patched value) at its slot in all.
func (s *Stack) UpdateFieldsCached(all AllFields, frame []byte) wire.Status {
	return s.update(all, frame)
}

func (s *Stack) update(all AllFields, frame []byte) wire.Status {
	ex := &Exchange{fields: all}
	u := NewUpdater(frame)
	return s.updateAt(ex, 0, u, len(frame))
}

func (s *Stack) updateAt(ex *Exchange, depth int, u *Updater, size int) wire.Status {
	ly := s.layers[depth]
	fld := ly.NewField()
	ex.setField(depth, fld)
	next := NextUpdater(nil)
	if depth+1 < len(s.layers) {
		next = func(u *Updater, size int) wire.Status {
			return s.updateAt(ex, depth+1, u, size)
		}
	}
	return ly.Update(fld, u, size, next)
}

// MinLength returns the message-independent minimum frame length:
// the sum of every layer's smallest framing. A frame shorter than
// this can never decode.
func (s *Stack) MinLength() int {
	return s.minLengthAt(0)
}

func (s *Stack) minLengthAt(depth int) int {
	inner := func() int { return 0 }
	if depth+1 < len(s.layers) {
		inner = func() int { return s.minLengthAt(depth + 1) }
	}
	return s.layers[depth].MinLength(inner)
}

// Length returns the exact frame length for message m. With a
// [Compress] layer in the stack the value is an upper bound, since
// the compressed size depends on the bytes themselves.
func (s *Stack) Length(m message.Message) int {
	return s.lengthAt(0, m)
}

func (s *Stack) lengthAt(depth int, m message.Message) int {
	inner := func() int { return 0 }
	if depth+1 < len(s.layers) {
		inner = func() int { return s.lengthAt(depth+1, m) }
	}
	return s.layers[depth].Length(m, inner)
}

// CreateMsg allocates a fresh message for the given id and
// occurrence index, delegating to the stack's id layer. Returns
// NotSupported when the stack has no [MsgID] layer.
func (s *Stack) CreateMsg(id message.ID, idx int) (message.Message, wire.Status) {
	for _, ly := range s.layers {
		if idLayer, ok := ly.(*MsgID); ok {
			return idLayer.alloc.Alloc(id, idx)
		}
	}
	return nil, wire.NotSupported
}
