// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved.
// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"bytes"
	"io"
	"sync"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/invariants"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zlib"
)

type zlibCompressor struct {
	level int
	buf   bytes.Buffer
	w     *zlib.Writer

	closeCheck invariants.CloseChecker
}

var _ Compressor = (*zlibCompressor)(nil)

var zlibCompressorPool = sync.Pool{
	New: func() any { return &zlibCompressor{} },
}

func newZlibCompressor(level int) *zlibCompressor {
	c := zlibCompressorPool.Get().(*zlibCompressor)
	if c.w == nil || c.level != level {
		w, err := zlib.NewWriterLevel(&c.buf, level)
		if err != nil {
			panic(errors.AssertionFailedf("invalid zlib level %d", level))
		}
		c.w = w
		c.level = level
	}
	c.closeCheck.Reset()
	return c
}

func (c *zlibCompressor) Algorithm() Algorithm { return Zlib }

func (c *zlibCompressor) Compress(dst, src []byte) []byte {
	c.closeCheck.AssertNotClosed()
	c.buf.Reset()
	c.w.Reset(&c.buf)
	// Writes into a bytes.Buffer cannot fail.
	if _, err := c.w.Write(src); err != nil {
		panic(errors.Wrap(err, "zlib compression"))
	}
	if err := c.w.Close(); err != nil {
		panic(errors.Wrap(err, "zlib compression"))
	}
	return append(dst[:0], c.buf.Bytes()...)
}

func (c *zlibCompressor) Close() {
	c.closeCheck.Close()
	c.buf.Reset()
	zlibCompressorPool.Put(c)
}

type zlibDecompressor struct{}

var _ Decompressor = zlibDecompressor{}

func (zlibDecompressor) DecompressInto(buf, src []byte) error {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return errors.Mark(errors.Wrap(err, "opening zlib stream"), base.ErrDecompression)
	}
	defer r.Close()
	if n, err := io.ReadFull(r, buf); err != nil {
		return base.DecompressionErrorf("zlib stream inflated to %d bytes, expected %d: %v",
			errors.Safe(n), errors.Safe(len(buf)), err)
	}
	// Reading to EOF verifies the trailing checksum and rejects streams that
	// inflate to more bytes than declared.
	var extra [1]byte
	switch n, err := r.Read(extra[:]); {
	case n > 0:
		return base.DecompressionErrorf("zlib stream inflated to more than %d bytes", errors.Safe(len(buf)))
	case err != nil && err != io.EOF:
		return errors.Mark(errors.Wrap(err, "inflating zlib stream"), base.ErrDecompression)
	}
	return nil
}

func (zlibDecompressor) Close() {}
