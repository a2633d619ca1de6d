// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package section implements the framing shared by every section of a save
// after the prelude.
//
// A section is laid out as:
//
//	+----------------------+--------------------+-------------------------+
//	| uncompressed_len i32 | compressed_len i32 | payload                 |
//	+----------------------+--------------------+-------------------------+
//
// When compressed_len is zero (or equal to uncompressed_len) the payload is
// uncompressed_len raw bytes. Otherwise it is compressed_len bytes of a zlib
// stream that inflates to exactly uncompressed_len bytes.
package section

import (
	"encoding/binary"
	"io"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/compression"
	"github.com/cockroachdb/errors"
)

// HeaderLen is the size of the two length fields that precede every payload.
const HeaderLen = 8

// DefaultMaxSize is the default bound on a section's decoded size.
const DefaultMaxSize = 1 << 30

// Header is the decoded length prefix of a section.
type Header struct {
	UncompressedLen int32
	CompressedLen   int32
}

// Algorithm returns how the section payload is stored.
func (h Header) Algorithm() compression.Algorithm {
	if h.CompressedLen == 0 || h.CompressedLen == h.UncompressedLen {
		return compression.NoCompression
	}
	return compression.Zlib
}

// StoredLen returns the number of payload bytes following the header.
func (h Header) StoredLen() int {
	if h.Algorithm() == compression.NoCompression {
		return int(h.UncompressedLen)
	}
	return int(h.CompressedLen)
}

// Validate checks the lengths for consistency and against maxSize.
func (h Header) Validate(maxSize int) error {
	switch {
	case h.UncompressedLen < 0 || h.CompressedLen < 0:
		return base.DecompressionErrorf("negative section length (uncompressed %d, compressed %d)",
			errors.Safe(h.UncompressedLen), errors.Safe(h.CompressedLen))
	case h.CompressedLen > h.UncompressedLen:
		return base.DecompressionErrorf("compressed length %d exceeds uncompressed length %d",
			errors.Safe(h.CompressedLen), errors.Safe(h.UncompressedLen))
	case int64(h.UncompressedLen) > int64(maxSize):
		return base.DecompressionErrorf("section length %d exceeds maximum %d",
			errors.Safe(h.UncompressedLen), errors.Safe(maxSize))
	}
	return nil
}

// ParseHeader decodes a section header from the first HeaderLen bytes of b.
func ParseHeader(b []byte) Header {
	return Header{
		UncompressedLen: int32(binary.LittleEndian.Uint32(b[0:4])),
		CompressedLen:   int32(binary.LittleEndian.Uint32(b[4:8])),
	}
}

// ReadHeader reads and validates a section header.
func ReadHeader(r io.Reader, maxSize int) (Header, error) {
	var b [HeaderLen]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, base.MarkEndOfStream(err, "section header")
	}
	h := ParseHeader(b[:])
	if err := h.Validate(maxSize); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Read reads a section and returns its decoded payload.
func Read(r io.Reader, maxSize int) ([]byte, error) {
	h, err := ReadHeader(r, maxSize)
	if err != nil {
		return nil, err
	}
	stored := make([]byte, h.StoredLen())
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, base.MarkEndOfStream(err, "section payload")
	}
	return Decode(h, stored)
}

// Decode returns the decoded payload of a section whose stored payload bytes
// have already been read.
func Decode(h Header, stored []byte) ([]byte, error) {
	a := h.Algorithm()
	if a == compression.NoCompression {
		return stored, nil
	}
	d := compression.GetDecompressor(a)
	defer d.Close()
	buf := make([]byte, h.UncompressedLen)
	if err := d.DecompressInto(buf, stored); err != nil {
		return nil, err
	}
	return buf, nil
}

// Skip consumes a section without decoding its payload.
func Skip(r io.Reader, maxSize int) error {
	h, err := ReadHeader(r, maxSize)
	if err != nil {
		return err
	}
	n, err := io.CopyN(io.Discard, r, int64(h.StoredLen()))
	if err != nil {
		return base.MarkEndOfStream(errors.Wrapf(err, "skipped %d of %d bytes",
			errors.Safe(n), errors.Safe(h.StoredLen())), "section payload")
	}
	return nil
}

// Append appends payload framed as a section to dst. With a compressing
// setting the payload is deflated, but it is stored raw whenever the zlib
// stream would not be smaller; raw sections record a compressed length of
// zero.
func Append(dst, payload []byte, s compression.Setting) []byte {
	var compressed []byte
	if s.Algorithm != compression.NoCompression && len(payload) > 0 {
		c := compression.GetCompressor(s)
		compressed = c.Compress(nil, payload)
		c.Close()
		if len(compressed) >= len(payload) {
			compressed = nil
		}
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(payload)))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(compressed)))
	if compressed != nil {
		return append(dst, compressed...)
	}
	return append(dst, payload...)
}
