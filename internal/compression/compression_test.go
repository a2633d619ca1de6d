// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"bytes"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/brsgo/brs/internal/base"
	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestCompressionRoundtrip(t *testing.T) {
	defer leaktest.AfterTest(t)()

	seed := uint64(time.Now().UnixNano())
	t.Logf("seed %d", seed)
	rng := rand.New(rand.NewPCG(0, seed))

	for _, s := range presets {
		t.Run(s.String(), func(t *testing.T) {
			payload := make([]byte, 1+rng.IntN(10<<10 /* 10 KiB */))
			for i := range payload {
				// A small alphabet keeps the payload compressible.
				payload[i] = byte('a' + rng.IntN(4))
			}
			compressor := GetCompressor(s)
			defer compressor.Close()
			compressed := compressor.Compress(make([]byte, rng.IntN(64)), payload)
			if s.Algorithm == Zlib {
				require.Less(t, len(compressed), len(payload))
			}

			got := make([]byte, len(payload))
			d := GetDecompressor(compressor.Algorithm())
			defer d.Close()
			require.NoError(t, d.DecompressInto(got, compressed))
			require.Equal(t, payload, got)
		})
	}
}

func TestCompressorReuse(t *testing.T) {
	a := GetCompressor(ZlibDefault)
	first := bytes.Clone(a.Compress(nil, []byte("first payload")))
	a.Close()

	b := GetCompressor(ZlibDefault)
	defer b.Close()
	second := b.Compress(nil, []byte("first payload"))
	require.Equal(t, first, second)
}

// TestDecompressionError tests that decompressing garbage or a stream whose
// length disagrees with the declared length returns ErrDecompression.
func TestDecompressionError(t *testing.T) {
	defer leaktest.AfterTest(t)()
	rng := rand.New(rand.NewPCG(0, 1 /* fixed seed */))

	garbage := make([]byte, 1+rng.IntN(1<<10))
	for i := range garbage {
		garbage[i] = byte(rng.Uint32())
	}
	d := GetDecompressor(Zlib)
	err := d.DecompressInto(make([]byte, 100), garbage)
	t.Log(err)
	require.True(t, errors.Is(err, base.ErrDecompression))

	c := GetCompressor(ZlibFastest)
	defer c.Close()
	compressed := c.Compress(nil, []byte("0123456789"))

	err = d.DecompressInto(make([]byte, 11), compressed)
	require.True(t, errors.Is(err, base.ErrDecompression), "%v", err)
	err = d.DecompressInto(make([]byte, 9), compressed)
	require.True(t, errors.Is(err, base.ErrDecompression), "%v", err)

	err = GetDecompressor(NoCompression).DecompressInto(make([]byte, 3), []byte("ab"))
	require.True(t, errors.Is(err, base.ErrDecompression), "%v", err)
}
