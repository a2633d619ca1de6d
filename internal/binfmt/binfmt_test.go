// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package binfmt

import (
	"bytes"
	"testing"

	"github.com/brsgo/brs/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	data := wire.AppendString(nil, "Plate")
	data = wire.AppendUint16(data, 10)
	f := New(data)
	require.Equal(t, "Plate", f.FString("map"))
	require.Equal(t, uint16(10), f.Uint16("version"))
	require.False(t, f.More())

	const expected = `00-04: x 06000000     # i32(6): map length
04-10: x 506c61746500 # "Plate"
10-12: x 0a00         # u16(10): version
`
	require.Equal(t, expected, f.String())

	var buf bytes.Buffer
	require.NoError(t, f.Flush(&buf, "  "))
	require.Equal(t, "  00-04: x 06000000     # i32(6): map length\n"+
		"  04-10: x 506c61746500 # \"Plate\"\n"+
		"  10-12: x 0a00         # u16(10): version\n", buf.String())
	require.Equal(t, "", f.String())
}

func TestFormatterLines(t *testing.T) {
	f := New([]byte{0x01, 0xab, 0xcd, 'h', 'i', 0x00})
	f.Byte("flags")
	f.Line(2).Append("x ").HexBytes(1).Append(" ").Binary(1).Done("mixed")
	f.Comment("text follows")
	f.HexTextln(f.Remaining())

	const expected = `0-1: b 00000001    # flags
1-3: x ab 11001101 # mixed
# text follows
3-6: x 686900      # hi.
`
	require.Equal(t, expected, f.String())
}

func TestFormatterBadString(t *testing.T) {
	f := New([]byte{10, 0, 0, 0, 'a'})
	require.Equal(t, "", f.FString("name"))
	require.False(t, f.More())
}

func TestFormatterElide(t *testing.T) {
	f := New(make([]byte, 12))
	f.Int32("uncompressed length")
	f.Elide(8, "zlib stream (%d bytes)", 8)
	require.False(t, f.More())
	const expected = `00-04: x 00000000 # i32(0): uncompressed length
04-12: x ...      # zlib stream (8 bytes)
`
	require.Equal(t, expected, f.String())
}
