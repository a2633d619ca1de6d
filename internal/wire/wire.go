// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package wire implements the little-endian byte-level primitives shared by
// the header sections and the component streams: fixed-size integers,
// length-prefixed engine strings (FStrings), UUIDs, counted arrays and
// FDateTime tick counts.
//
// Encoding functions append to a destination slice and never fail. Decoding
// goes through a Decoder, which names the field being read in every error so
// that a truncated or corrupt save reports where decoding stopped.
package wire

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/brsgo/brs/internal/base"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// MaxPrealloc bounds the capacity preallocated for a counted array. Larger
// arrays grow as elements are decoded, so a corrupt count fails on the first
// missing element instead of allocating gigabytes up front.
const MaxPrealloc = 1 << 16

// Decoder reads primitives from an underlying reader. Section payloads are
// held in memory, so r is typically a *bytes.Reader or a *bitstream.Reader.
type Decoder struct {
	r       io.Reader
	scratch [8]byte
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Bytes reads exactly n bytes into a new slice.
func (d *Decoder) Bytes(n int, field string) ([]byte, error) {
	if n < 0 {
		return nil, base.MalformedHeaderf("negative length %d for %s", errors.Safe(n), errors.Safe(field))
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, base.MarkEndOfStream(err, field)
	}
	return b, nil
}

func (d *Decoder) fixed(n int, field string) ([]byte, error) {
	b := d.scratch[:n]
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, base.MarkEndOfStream(err, field)
	}
	return b, nil
}

// Uint8 reads a single byte.
func (d *Decoder) Uint8(field string) (uint8, error) {
	b, err := d.fixed(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian uint16.
func (d *Decoder) Uint16(field string) (uint16, error) {
	b, err := d.fixed(2, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian uint32.
func (d *Decoder) Uint32(field string) (uint32, error) {
	b, err := d.fixed(4, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Int32 reads a little-endian int32.
func (d *Decoder) Int32(field string) (int32, error) {
	v, err := d.Uint32(field)
	return int32(v), err
}

// Int64 reads a little-endian int64.
func (d *Decoder) Int64(field string) (int64, error) {
	b, err := d.fixed(8, field)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// Count reads an int32 element count. Negative counts are malformed.
func (d *Decoder) Count(field string) (int, error) {
	n, err := d.Int32(field + " count")
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, base.MalformedHeaderf("negative %s count %d", errors.Safe(field), errors.Safe(n))
	}
	return int(n), nil
}

// UUID reads a UUID stored as four little-endian uint32 words, each holding
// four bytes of the UUID in big-endian order.
func (d *Decoder) UUID(field string) (uuid.UUID, error) {
	var id uuid.UUID
	if _, err := io.ReadFull(d.r, id[:]); err != nil {
		return uuid.Nil, base.MarkEndOfStream(err, field)
	}
	for i := 0; i < len(id); i += 4 {
		binary.BigEndian.PutUint32(id[i:], binary.LittleEndian.Uint32(id[i:]))
	}
	return id, nil
}

// Ticks reads an FDateTime tick count and converts it to a time.
func (d *Decoder) Ticks(field string) (time.Time, error) {
	v, err := d.Int64(field)
	if err != nil {
		return time.Time{}, err
	}
	return TicksToTime(v), nil
}

// Array reads an int32 count followed by that many elements decoded by fn.
func Array[T any](d *Decoder, field string, fn func(*Decoder) (T, error)) ([]T, error) {
	n, err := d.Count(field)
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]T, 0, min(n, MaxPrealloc))
	for i := 0; i < n; i++ {
		v, err := fn(d)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", errors.Safe(field), errors.Safe(i))
		}
		out = append(out, v)
	}
	return out, nil
}

// Strings reads a counted array of FStrings.
func (d *Decoder) Strings(field string) ([]string, error) {
	return Array(d, field, func(d *Decoder) (string, error) {
		return d.String(field)
	})
}

// AppendUint8 appends a single byte.
func AppendUint8(dst []byte, v uint8) []byte {
	return append(dst, v)
}

// AppendUint16 appends a little-endian uint16.
func AppendUint16(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

// AppendUint32 appends a little-endian uint32.
func AppendUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

// AppendInt32 appends a little-endian int32.
func AppendInt32(dst []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(v))
}

// AppendInt64 appends a little-endian int64.
func AppendInt64(dst []byte, v int64) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(v))
}

// AppendUUID appends id in the word-swapped layout read by Decoder.UUID.
func AppendUUID(dst []byte, id uuid.UUID) []byte {
	for i := 0; i < len(id); i += 4 {
		dst = binary.LittleEndian.AppendUint32(dst, binary.BigEndian.Uint32(id[i:]))
	}
	return dst
}

// AppendTicks appends t as an FDateTime tick count.
func AppendTicks(dst []byte, t time.Time) []byte {
	return AppendInt64(dst, TimeToTicks(t))
}

// AppendCount appends an int32 element count.
func AppendCount(dst []byte, n int) []byte {
	return AppendInt32(dst, int32(n))
}

// AppendStrings appends a counted array of FStrings.
func AppendStrings(dst []byte, s []string) []byte {
	dst = AppendCount(dst, len(s))
	for i := range s {
		dst = AppendString(dst, s[i])
	}
	return dst
}
