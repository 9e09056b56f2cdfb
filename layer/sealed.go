// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"crypto/cipher"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/wireloom/wireloom/field"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

// Sealed wraps the inner frame in an XChaCha20-Poly1305 sealed box.
// The framing field is the 24-byte nonce; the remaining window is the
// ciphertext, 16 bytes longer than the inner frame. Opening a
// tampered or foreign frame fails authentication and reads as
// ProtocolError.
//
// Like [Compress], the inner frame serializes to a scratch buffer
// before sealing, so writes are single-pass through any writer and
// never report UpdateRequired.
type Sealed struct {
	aead cipher.AEAD
}

// NewSealed returns a sealed-frame layer keyed with the given 32-byte
// key. Panics on a wrong key size: keys are deployment configuration,
// and a bad one can never produce a working protocol.
func NewSealed(key []byte) *Sealed {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		panic("layer: sealed frame key: " + err.Error())
	}
	return &Sealed{aead: aead}
}

// NewField implements [Layer]: the nonce as fixed-size raw bytes.
func (ly *Sealed) NewField() field.Field {
	return field.NewBytes(field.Base{}, field.BytesConfig{FixedSize: chacha20poly1305.NonceSizeX})
}

// Read implements [Layer].
func (ly *Sealed) Read(fld field.Field, ex *Exchange, r *wire.Reader, size int, next NextReader) wire.Status {
	f := fld.(*field.Bytes)
	start := r.Pos()
	if st := f.Read(r, size); st != wire.Success {
		if st == wire.NotEnoughData {
			ex.reportMissing(f.MinLength(), min(size, r.Remaining()))
		}
		return st
	}

	window := size - (r.Pos() - start)
	avail := min(window, r.Remaining())
	if avail < window {
		ex.reportMissing(window, avail)
		return wire.NotEnoughData
	}
	ciphertext, _ := r.ReadBytes(window)

	raw, err := ly.aead.Open(nil, f.Value(), ciphertext, nil)
	if err != nil {
		return wire.ProtocolError
	}

	inner := wire.NewReader(raw)
	st := next(inner, len(raw))
	if st == wire.NotEnoughData {
		ex.missing = 0
		return wire.ProtocolError
	}
	if st == wire.Success && inner.Remaining() != 0 {
		return wire.ProtocolError
	}
	return st
}

// Write implements [Layer].
func (ly *Sealed) Write(fld field.Field, m message.Message, w wire.Writer, size int, next NextWriter) wire.Status {
	f := fld.(*field.Bytes)

	scratch := make([]byte, next.Length())
	bw := wire.NewBufWriter(scratch)
	if st := next.Write(bw, len(scratch)); st != wire.Success {
		return st
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		// Entropy exhaustion is not a protocol condition, but the
		// status channel is all a codec has; the frame was not
		// produced.
		return wire.ProtocolError
	}
	f.SetValue(nonce)

	sealed := ly.aead.Seal(nil, nonce, bw.Bytes(), nil)
	if f.Length()+len(sealed) > size {
		return wire.BufferOverflow
	}
	if st := f.Write(w, f.Length()); st != wire.Success {
		return st
	}
	return w.WriteBytes(sealed)
}

// Update implements [Layer]: sealed bytes are final at write time.
func (ly *Sealed) Update(fld field.Field, u *Updater, size int, next NextUpdater) wire.Status {
	return u.Skip(size)
}

// Length implements [Layer]: nonce + ciphertext overhead + inner.
func (ly *Sealed) Length(m message.Message, inner func() int) int {
	return chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead + inner()
}

// MinLength implements [Layer].
func (ly *Sealed) MinLength(inner func() int) int {
	return chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead + inner()
}
