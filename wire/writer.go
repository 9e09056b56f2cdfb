// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "io"

// Writer is the forward output iterator: bytes are emitted in order
// and the position only moves forward. Layers that need to revisit an
// already-emitted slot (size prefix, trailing checksum) assert the
// destination against [RandomAccess]; when the assertion fails they
// emit a placeholder and report UpdateRequired instead.
type Writer interface {
	// WriteBytes emits p. Returns BufferOverflow if the destination
	// cannot hold all of it. A BufWriter emits nothing in that case;
	// a StreamWriter may already have passed part of p to its
	// io.Writer, and Pos counts those bytes.
	WriteBytes(p []byte) Status

	// WriteUint packs the low width bytes of v under e and emits them.
	WriteUint(v uint64, width int, e Endian) Status

	// Pos returns the number of bytes emitted so far.
	Pos() int
}

// RandomAccess is a Writer whose emitted bytes can be patched in
// place. The stack uses it for single-pass writes of size and
// checksum slots, and for the Update pass over a produced buffer.
type RandomAccess interface {
	Writer

	// PatchBytes overwrites len(p) bytes at pos, which must lie
	// entirely within the already-emitted region.
	PatchBytes(pos int, p []byte) Status

	// PatchUint overwrites width bytes at pos with v packed under e.
	PatchUint(pos int, v uint64, width int, e Endian) Status

	// Bytes returns the emitted bytes. The slice aliases the
	// writer's buffer.
	Bytes() []byte
}

// BufWriter is a random-access Writer over a caller-provided buffer
// with fixed capacity. Writes past the capacity return
// BufferOverflow.
type BufWriter struct {
	buf []byte
	pos int
}

// NewBufWriter returns a BufWriter emitting into buf.
func NewBufWriter(buf []byte) *BufWriter {
	return &BufWriter{buf: buf}
}

// WriteBytes implements [Writer].
func (w *BufWriter) WriteBytes(p []byte) Status {
	if len(p) > len(w.buf)-w.pos {
		return BufferOverflow
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
	return Success
}

// WriteUint implements [Writer].
func (w *BufWriter) WriteUint(v uint64, width int, e Endian) Status {
	if width > len(w.buf)-w.pos {
		return BufferOverflow
	}
	e.PutUint(w.buf[w.pos:w.pos+width], v)
	w.pos += width
	return Success
}

// Pos implements [Writer].
func (w *BufWriter) Pos() int { return w.pos }

// PatchBytes implements [RandomAccess].
func (w *BufWriter) PatchBytes(pos int, p []byte) Status {
	if pos < 0 || pos+len(p) > w.pos {
		return BufferOverflow
	}
	copy(w.buf[pos:], p)
	return Success
}

// PatchUint implements [RandomAccess].
func (w *BufWriter) PatchUint(pos int, v uint64, width int, e Endian) Status {
	if pos < 0 || pos+width > w.pos {
		return BufferOverflow
	}
	e.PutUint(w.buf[pos:pos+width], v)
	return Success
}

// Bytes implements [RandomAccess].
func (w *BufWriter) Bytes() []byte { return w.buf[:w.pos] }

// StreamWriter is a push-back-only Writer over an io.Writer. Emitted
// bytes cannot be revisited, so writes through layers that reserve
// fix-up slots report UpdateRequired; the caller then runs the
// stack's Update pass over the assembled frame (typically captured in
// a bytes.Buffer) with a [BufWriter].
//
// An io.Writer error surfaces as BufferOverflow: from the codec's
// point of view the destination refused the bytes. The underlying
// error is retained and available via Err.
type StreamWriter struct {
	dst io.Writer
	pos int
	err error
}

// NewStreamWriter returns a StreamWriter emitting to dst.
func NewStreamWriter(dst io.Writer) *StreamWriter {
	return &StreamWriter{dst: dst}
}

// WriteBytes implements [Writer].
func (w *StreamWriter) WriteBytes(p []byte) Status {
	if w.err != nil {
		return BufferOverflow
	}
	n, err := w.dst.Write(p)
	w.pos += n
	if err != nil {
		w.err = err
		return BufferOverflow
	}
	return Success
}

// WriteUint implements [Writer].
func (w *StreamWriter) WriteUint(v uint64, width int, e Endian) Status {
	var scratch [8]byte
	e.PutUint(scratch[:width], v)
	return w.WriteBytes(scratch[:width])
}

// Pos implements [Writer].
func (w *StreamWriter) Pos() int { return w.pos }

// Err returns the first io.Writer error, if any.
func (w *StreamWriter) Err() error { return w.err }
