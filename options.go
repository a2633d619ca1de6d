// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"fmt"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/compression"
	"github.com/brsgo/brs/internal/section"
)

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger = base.DefaultLogger

// NoopLogger discards informational messages.
type NoopLogger = base.NoopLogger

// ReaderOptions configures a Reader. The zero value is ready for use.
type ReaderOptions struct {
	// Logger receives notices about inconsistencies that do not prevent
	// decoding, such as a header brick count that disagrees with the bricks
	// decoded.
	Logger Logger
	// MaxSectionSize bounds the uncompressed size of any section. It defaults to
	// 1 GiB.
	MaxSectionSize int
}

// EnsureDefaults fills in default values for unset fields and returns o.
func (o *ReaderOptions) EnsureDefaults() *ReaderOptions {
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.MaxSectionSize <= 0 {
		o.MaxSectionSize = section.DefaultMaxSize
	}
	return o
}

// CompressionLevel selects how the header2, bricks and components sections
// are deflated. Header1 is always stored raw.
type CompressionLevel int

const (
	// DefaultCompression deflates sections with zlib's default level.
	DefaultCompression CompressionLevel = iota
	// NoCompression stores every section raw.
	NoCompression
	// FastestCompression deflates sections with zlib's fastest level.
	FastestCompression
	// BestCompression deflates sections with zlib's best level.
	BestCompression
)

func (l CompressionLevel) String() string {
	switch l {
	case DefaultCompression:
		return "default"
	case NoCompression:
		return "none"
	case FastestCompression:
		return "fastest"
	case BestCompression:
		return "best"
	default:
		return fmt.Sprintf("CompressionLevel(%d)", int(l))
	}
}

// ParseCompressionLevel parses the String form of a compression level.
func ParseCompressionLevel(s string) (CompressionLevel, bool) {
	for l := DefaultCompression; l <= BestCompression; l++ {
		if l.String() == s {
			return l, true
		}
	}
	return 0, false
}

func (l CompressionLevel) setting() compression.Setting {
	switch l {
	case NoCompression:
		return compression.None
	case FastestCompression:
		return compression.ZlibFastest
	case BestCompression:
		return compression.ZlibBest
	default:
		return compression.ZlibDefault
	}
}

// WriterOptions configures a Writer. The zero value writes the newest format
// with default compression.
type WriterOptions struct {
	// Version is the format version to write. Fields the version cannot store
	// are dropped. It defaults to FormatNewest; SaveData.Version is not
	// consulted, so a save read from an older file is upgraded unless Version
	// is set to the save's own version.
	Version FormatVersion
	// Compression selects the deflate level of compressed sections.
	Compression CompressionLevel
	// Logger receives notices about data a version cannot represent.
	Logger Logger
}

// EnsureDefaults fills in default values for unset fields and returns o.
func (o *WriterOptions) EnsureDefaults() *WriterOptions {
	if o.Version == 0 {
		o.Version = FormatNewest
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	return o
}
