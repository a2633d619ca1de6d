// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved.
// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"github.com/brsgo/brs/internal/base"
	"github.com/cockroachdb/errors"
)

type noopCompressor struct{}

var _ Compressor = noopCompressor{}

func (noopCompressor) Algorithm() Algorithm { return NoCompression }

func (noopCompressor) Compress(dst, src []byte) []byte {
	return append(dst[:0], src...)
}

func (noopCompressor) Close() {}

type noopDecompressor struct{}

var _ Decompressor = noopDecompressor{}

func (noopDecompressor) DecompressInto(dst, src []byte) error {
	if len(dst) != len(src) {
		return base.DecompressionErrorf("raw payload is %d bytes, expected %d",
			errors.Safe(len(src)), errors.Safe(len(dst)))
	}
	copy(dst, src)
	return nil
}

func (noopDecompressor) Close() {}
