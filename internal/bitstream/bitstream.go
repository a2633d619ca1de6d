// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package bitstream implements the bit-level reader and writer used by the
// brick and component sections of a save.
//
// Bits are ordered least-significant first within each byte: the first bit
// written occupies bit 0 of byte 0, the ninth bit occupies bit 0 of byte 1,
// and so on. A writer pads the final partial byte with zero bits.
//
// Three integer encodings are supported:
//
//   - Fixed width (WriteBits/ReadBits, WriteFixedUint/ReadFixedUint). The
//     width of a fixed uint is derived from its maximum value:
//     ceil(log2(maxValue+1)) bits.
//   - Bounded (WriteUint/ReadUint). The value is emitted bit by bit, least
//     significant first, for as long as value+mask < max, where max is an
//     exclusive bound known to both sides (typically a palette length). This
//     never uses more than ceil(log2(max)) bits and its width is never stored.
//   - Packed (WriteUintPacked/ReadUintPacked). Groups of 7 bits, each
//     preceded by a bit that says whether another group follows. Signed
//     values are stored as (|v| << 1) | sign.
//
// Neither Readers nor Writers are safe to use concurrently.
package bitstream

import (
	"encoding/binary"
	"io"
	"math"
	"math/bits"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/wire"
	"github.com/cockroachdb/errors"
)

// maxPackedGroups is the number of 7-bit groups needed to hold a uint32.
const maxPackedGroups = 5

// BitsFor returns the maximum number of bits a bounded uint with the exclusive
// bound max occupies.
func BitsFor(max uint32) int {
	if max <= 1 {
		return 0
	}
	return bits.Len32(max - 1)
}

// FixedWidth returns the width, in bits, of a fixed uint whose largest value
// is maxValue.
func FixedWidth(maxValue uint64) int {
	return bits.Len64(maxValue)
}

// Writer is an append-only bit writer over a growable byte buffer. A Writer
// never fails.
type Writer struct {
	buf   []byte
	nbits uint64
}

var _ io.Writer = (*Writer)(nil)

// NewWriter returns a Writer whose buffer has the given initial capacity in
// bytes.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(b bool) {
	if w.nbits&7 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b {
		w.buf[len(w.buf)-1] |= 1 << (w.nbits & 7)
	}
	w.nbits++
}

// WriteBits appends the n low bits of v, least significant first.
func (w *Writer) WriteBits(v uint64, n int) {
	if n < 0 || n > 64 {
		panic(errors.AssertionFailedf("bitstream: invalid width %d", n))
	}
	for i := 0; i < n; i++ {
		w.WriteBit(v&(1<<uint(i)) != 0)
	}
}

// WriteFixedUint appends v using exactly FixedWidth(maxValue) bits.
func (w *Writer) WriteFixedUint(v, maxValue uint64) {
	if v > maxValue {
		panic(errors.AssertionFailedf("bitstream: value %d exceeds maximum %d", v, maxValue))
	}
	w.WriteBits(v, FixedWidth(maxValue))
}

// WriteUint appends v as a bounded uint with the exclusive bound max. The
// caller must have checked that v < max; violating this is a programming
// error and panics.
func (w *Writer) WriteUint(v, max uint32) {
	if v >= max && !(v == 0 && max == 0) {
		panic(errors.AssertionFailedf("bitstream: value %d out of range [0, %d)", v, max))
	}
	var value uint64
	for mask := uint64(1); value+mask < uint64(max) && mask <= math.MaxUint32; mask <<= 1 {
		b := uint64(v)&mask != 0
		w.WriteBit(b)
		if b {
			value |= mask
		}
	}
}

// WriteUintPacked appends v in 7-bit groups, each preceded by a continuation
// bit.
func (w *Writer) WriteUintPacked(v uint32) {
	for {
		group := uint64(v & 0x7f)
		v >>= 7
		w.WriteBit(v != 0)
		w.WriteBits(group, 7)
		if v == 0 {
			return
		}
	}
}

// WriteIntPacked appends v as the packed uint (|v| << 1) | sign, where sign
// is 1 for non-negative values. math.MinInt32 is not representable; callers
// must reject it before writing.
func (w *Writer) WriteIntPacked(v int32) {
	if v == math.MinInt32 {
		panic(errors.AssertionFailedf("bitstream: packed int out of range: %d", v))
	}
	var sign uint32
	abs := v
	if v >= 0 {
		sign = 1
	} else {
		abs = -v
	}
	w.WriteUintPacked(uint32(abs)<<1 | sign)
}

// WriteBytes appends p, eight bits per byte. When the writer is byte aligned
// the bytes are copied directly.
func (w *Writer) WriteBytes(p []byte) {
	if w.nbits&7 == 0 {
		w.buf = append(w.buf, p...)
		w.nbits += uint64(len(p)) * 8
		return
	}
	for _, b := range p {
		w.WriteBits(uint64(b), 8)
	}
}

// Write implements io.Writer. It never returns an error.
func (w *Writer) Write(p []byte) (int, error) {
	w.WriteBytes(p)
	return len(p), nil
}

// WriteInt32 appends v as four little-endian bytes.
func (w *Writer) WriteInt32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.WriteBytes(b[:])
}

// WriteFloat32 appends the IEEE 754 bits of v as four little-endian bytes.
func (w *Writer) WriteFloat32(v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	w.WriteBytes(b[:])
}

// ByteAlign pads the current byte with zero bits.
func (w *Writer) ByteAlign() {
	w.nbits = (w.nbits + 7) &^ 7
}

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() uint64 { return w.nbits }

// Len returns the number of bytes the written bits occupy.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the written bytes. The final byte is zero padded. The slice
// aliases the writer's buffer and is valid until the next write.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset discards all written bits, retaining the buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.nbits = 0
}

// Reader reads bits sequentially from a byte slice.
type Reader struct {
	data []byte
	pos  uint64
	n    uint64
}

var _ io.Reader = (*Reader)(nil)

// NewReader returns a Reader over data. The Reader does not copy data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, n: uint64(len(data)) * 8}
}

func (r *Reader) errShort(want uint64, field string) error {
	return errors.Mark(
		errors.Newf("bitstream: reading %s: need %d bits at offset %d, %d remain",
			errors.Safe(field), want, r.pos, r.n-r.pos),
		base.ErrUnexpectedEndOfStream)
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.pos >= r.n {
		return false, r.errShort(1, "bit")
	}
	b := r.data[r.pos>>3]&(1<<(r.pos&7)) != 0
	r.pos++
	return b, nil
}

func (r *Reader) bit() bool {
	b := r.data[r.pos>>3]&(1<<(r.pos&7)) != 0
	r.pos++
	return b
}

// ReadBits reads an n-bit value, least significant bit first. It fails
// without consuming anything when fewer than n bits remain.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		panic(errors.AssertionFailedf("bitstream: invalid width %d", n))
	}
	if r.n-r.pos < uint64(n) {
		return 0, r.errShort(uint64(n), "fixed-width value")
	}
	var v uint64
	for i := 0; i < n; i++ {
		if r.bit() {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// ReadFixedUint reads a value written by WriteFixedUint with the same
// maxValue.
func (r *Reader) ReadFixedUint(maxValue uint64) (uint64, error) {
	return r.ReadBits(FixedWidth(maxValue))
}

// ReadUint reads a bounded uint with the exclusive bound max. The result is
// always less than max (or zero when max is zero). The width depends on the
// bits read, so a short stream is only detected partway through; the reader
// is then rewound to where the value started.
func (r *Reader) ReadUint(max uint32) (uint32, error) {
	start := r.pos
	var value uint64
	for mask := uint64(1); value+mask < uint64(max) && mask <= math.MaxUint32; mask <<= 1 {
		if r.pos >= r.n {
			r.pos = start
			return 0, r.errShort(1, "bounded value")
		}
		if r.bit() {
			value |= mask
		}
	}
	return uint32(value), nil
}

// ReadUintPacked reads a value written by WriteUintPacked. On a short stream
// nothing is consumed.
func (r *Reader) ReadUintPacked() (uint32, error) {
	start := r.pos
	var value uint32
	for i := 0; i < maxPackedGroups; i++ {
		if r.n-r.pos < 8 {
			r.pos = start
			return 0, r.errShort(8, "packed value")
		}
		more := r.bit()
		var group uint32
		for shift := 0; shift < 7; shift++ {
			if r.bit() {
				group |= 1 << uint(shift)
			}
		}
		value |= group << uint(7*i)
		if !more {
			break
		}
	}
	return value, nil
}

// ReadIntPacked reads a value written by WriteIntPacked.
func (r *Reader) ReadIntPacked() (int32, error) {
	v, err := r.ReadUintPacked()
	if err != nil {
		return 0, err
	}
	abs := int32(v >> 1)
	if v&1 == 0 {
		return -abs, nil
	}
	return abs, nil
}

// ReadBytes fills p with the next len(p) bytes. Nothing is consumed if fewer
// than 8*len(p) bits remain.
func (r *Reader) ReadBytes(p []byte) error {
	want := uint64(len(p)) * 8
	if r.n-r.pos < want {
		return r.errShort(want, "bytes")
	}
	if r.pos&7 == 0 {
		off := r.pos >> 3
		copy(p, r.data[off:off+uint64(len(p))])
		r.pos += want
		return nil
	}
	for i := range p {
		var b byte
		for shift := 0; shift < 8; shift++ {
			if r.bit() {
				b |= 1 << uint(shift)
			}
		}
		p[i] = b
	}
	return nil
}

// Read implements io.Reader, reading whole bytes only. It returns io.EOF once
// fewer than eight bits remain.
func (r *Reader) Read(p []byte) (int, error) {
	avail := int((r.n - r.pos) / 8)
	if avail == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	p = p[:min(len(p), avail)]
	if err := r.ReadBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ReadInt32 reads four little-endian bytes.
func (r *Reader) ReadInt32() (int32, error) {
	var b [4]byte
	if err := r.ReadBytes(b[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

// ReadFloat32 reads four little-endian bytes as an IEEE 754 float.
func (r *Reader) ReadFloat32() (float32, error) {
	var b [4]byte
	if err := r.ReadBytes(b[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b[:])), nil
}

// ByteAlign skips to the start of the next byte. It is a no-op when already
// aligned.
func (r *Reader) ByteAlign() {
	r.pos = min((r.pos+7)&^7, r.n)
}

// BitPos returns the number of bits consumed.
func (r *Reader) BitPos() uint64 { return r.pos }

// BytePos returns the index of the byte holding the next unread bit.
func (r *Reader) BytePos() int { return int(r.pos >> 3) }

// RemainingBits returns the number of unread bits.
func (r *Reader) RemainingBits() uint64 { return r.n - r.pos }

// WriteString appends s as an FString.
func (w *Writer) WriteString(s string) {
	w.WriteBytes(wire.AppendString(nil, s))
}

// ReadString reads an FString.
func (r *Reader) ReadString() (string, error) {
	return wire.NewDecoder(r).String("string")
}
