// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved.
// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package compression provides the compressor/decompressor pairs used to
// store section payloads. Sections are either stored raw or deflated inside a
// zlib container; the container is the only algorithm the format defines.
package compression

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/klauspost/compress/zlib"
)

// Algorithm identifies how a section payload is stored.
type Algorithm uint8

const (
	// NoCompression stores the payload verbatim.
	NoCompression Algorithm = iota
	// Zlib stores the payload as a zlib stream (RFC 1950).
	Zlib
	NumAlgorithms
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case NoCompression:
		return "NoCompression"
	case Zlib:
		return "Zlib"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// SafeValue implements redact.SafeValue.
func (Algorithm) SafeValue() {}

var _ redact.SafeValue = Algorithm(0)

// Setting is an algorithm together with its compression level.
type Setting struct {
	Algorithm Algorithm
	// Level is only meaningful for Zlib.
	Level int
}

func (s Setting) String() string {
	if s.Algorithm == Zlib {
		return fmt.Sprintf("%s%d", s.Algorithm, s.Level)
	}
	return s.Algorithm.String()
}

// Settings for the supported presets.
var (
	None        = Setting{Algorithm: NoCompression}
	ZlibFastest = Setting{Algorithm: Zlib, Level: zlib.BestSpeed}
	ZlibDefault = Setting{Algorithm: Zlib, Level: zlib.DefaultCompression}
	ZlibBest    = Setting{Algorithm: Zlib, Level: zlib.BestCompression}
)

var presets = []Setting{None, ZlibFastest, ZlibDefault, ZlibBest}

// Compressor compresses whole payloads.
type Compressor interface {
	Algorithm() Algorithm

	// Compress appends the compressed form of src to dst[:0] and returns the
	// resulting slice.
	Compress(dst, src []byte) []byte

	// Close must be called when the Compressor is no longer needed.
	Close()
}

// Decompressor inflates whole payloads whose decompressed length is known in
// advance.
type Decompressor interface {
	// DecompressInto decompresses src into buf. The length of buf must equal
	// the decompressed length exactly; a stream that inflates to more or fewer
	// bytes is an error.
	DecompressInto(buf, src []byte) error

	// Close must be called when the Decompressor is no longer needed.
	Close()
}

// GetCompressor returns a Compressor for the given setting.
func GetCompressor(s Setting) Compressor {
	switch s.Algorithm {
	case NoCompression:
		return noopCompressor{}
	case Zlib:
		return newZlibCompressor(s.Level)
	default:
		panic(errors.AssertionFailedf("invalid compression setting %s", s))
	}
}

// GetDecompressor returns a Decompressor for the given algorithm.
func GetDecompressor(a Algorithm) Decompressor {
	switch a {
	case NoCompression:
		return noopDecompressor{}
	case Zlib:
		return zlibDecompressor{}
	default:
		panic(errors.AssertionFailedf("invalid compression algorithm %s", a))
	}
}
