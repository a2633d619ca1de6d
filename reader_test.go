// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/brsgo/brs/internal/compression"
	"github.com/brsgo/brs/internal/section"
	"github.com/brsgo/brs/internal/wire"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// recordingLogger collects informational messages.
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Infof(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	require.NoError(t, err)
	return b
}

// TestReadInitialFormat decodes a hand-assembled save in the first format
// version, whose header2 has neither materials nor owners.
func TestReadInitialFormat(t *testing.T) {
	data := mustDecodeHex(t, `
		425253 0100
		24000000 00000000
			02000000 4100
			02000000 4200
			00000000
			00000000 00000000 00000000 00000000
			00000000
		12000000 00000000
			00000000
			01000000 02000000 5800
			00000000
		00000000 00000000
	`)
	s, err := Read(bytes.NewReader(data), ReaderOptions{Logger: NoopLogger{}})
	require.NoError(t, err)
	require.Equal(t, FormatInitial, s.Version)
	require.Equal(t, "A", s.Header1.Map)
	require.Equal(t, User{Name: "B"}, s.Header1.Author)
	require.Equal(t, "", s.Header1.Description)
	require.Nil(t, s.Header1.Host)
	require.True(t, s.Header1.SaveTime.IsZero())
	require.Equal(t, []string{"X"}, s.Header2.BrickAssets)
	require.Equal(t, legacyMaterials, s.Header2.Materials)
	require.Equal(t, []string{"BPMC_Default"}, s.Header2.PhysicalMaterials)
	require.Nil(t, s.Header2.BrickOwners)
	require.Empty(t, s.Bricks)
	require.Nil(t, s.Components)
}

func TestReadErrors(t *testing.T) {
	valid, err := Encode(NewSaveData(), WriterOptions{})
	require.NoError(t, err)

	withVersion := func(v uint16) []byte {
		b := bytes.Clone(valid)
		binary.LittleEndian.PutUint16(b[3:], v)
		return b
	}
	testCases := []struct {
		name   string
		data   []byte
		marker error
	}{
		{"empty", nil, ErrUnexpectedEndOfStream},
		{"bad magic", []byte("BRX\x0a\x00"), ErrMalformedHeader},
		{"short version", []byte("BRS\x0a"), ErrUnexpectedEndOfStream},
		{"version zero", withVersion(0), ErrMalformedHeader},
		{"version 11", withVersion(11), ErrUnsupportedVersion},
		{"version 0xffff", withVersion(0xffff), ErrUnsupportedVersion},
		{"missing game version", []byte("BRS\x0a\x00\x01\x02"), ErrUnexpectedEndOfStream},
		{"truncated header1", valid[:20], ErrUnexpectedEndOfStream},
		{"truncated", valid[:len(valid)-20], ErrUnexpectedEndOfStream},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tc.data), ReaderOptions{Logger: NoopLogger{}})
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.marker), "%+v", err)
			require.True(t, IsCodecError(err))
		})
	}
}

// TestUnsupportedVersionReadsNothing checks that an unsupported version is
// rejected before anything past the version is consumed.
func TestUnsupportedVersionReadsNothing(t *testing.T) {
	r := bytes.NewReader([]byte("BRS\x0b\x00 garbage that is never read"))
	_, err := NewReader(r, ReaderOptions{})
	require.True(t, errors.Is(err, ErrUnsupportedVersion))
	require.Equal(t, len(" garbage that is never read"), r.Len())
}

// encodeRaw assembles a save from a prelude and raw section payloads.
func encodeRaw(v FormatVersion, header1, header2, preview, bricks, components []byte) []byte {
	p := formatProfiles[v]
	out := appendPrelude(nil, prelude{version: v, profile: p})
	out = section.Append(out, header1, compression.None)
	out = section.Append(out, header2, compression.None)
	if p.preview {
		out = append(out, preview...)
	}
	out = section.Append(out, bricks, compression.None)
	if p.components && components != nil {
		out = section.Append(out, components, compression.None)
	}
	return out
}

func TestReadMalformedSections(t *testing.T) {
	p := formatProfiles[FormatNewest]
	s := NewSaveData()
	h1 := appendHeader1(nil, &s.Header1, 0, p)
	h2 := appendHeader2(nil, &s.Header2, p)
	none := []byte{0}
	comps := wire.AppendCount(nil, 0)

	negativeCount := appendHeader1(nil, &s.Header1, 0, p)
	binary.LittleEndian.PutUint32(negativeCount[len(negativeCount)-4:], 0xffffffff)

	badHeader2 := wire.AppendCount(nil, -3)

	unknownType := wire.AppendCount(nil, 1)
	unknownType = wire.AppendString(unknownType, "BCD_Test")
	{
		var stream []byte
		stream = wire.AppendInt32(stream, 1)
		stream = wire.AppendInt32(stream, 0)
		stream = wire.AppendInt32(stream, 1)
		stream = wire.AppendString(stream, "Value")
		stream = wire.AppendString(stream, "Vector")
		unknownType = wire.AppendCount(unknownType, len(stream))
		unknownType = append(unknownType, stream...)
	}

	brokenIndex := wire.AppendCount(nil, 1)
	brokenIndex = wire.AppendString(brokenIndex, "BCD_Test")
	{
		// Version 1, one brick index. With no bricks the bound is 2, so the
		// index is a single bit; 0x01 sets it.
		stream := []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x01}
		brokenIndex = wire.AppendCount(brokenIndex, len(stream))
		brokenIndex = append(brokenIndex, stream...)
	}

	testCases := []struct {
		name   string
		data   []byte
		marker error
	}{
		{"negative brick count", encodeRaw(FormatNewest, negativeCount, h2, none, nil, comps), ErrMalformedHeader},
		{"negative mods count", encodeRaw(FormatNewest, h1, badHeader2, none, nil, comps), ErrMalformedHeader},
		{"truncated header2", encodeRaw(FormatNewest, h1, h2[:len(h2)-3], none, nil, comps), ErrUnexpectedEndOfStream},
		{"negative preview length", encodeRaw(FormatNewest, h1, h2, []byte{1, 0xff, 0xff, 0xff, 0xff}, nil, comps), ErrMalformedHeader},
		{"truncated preview", encodeRaw(FormatNewest, h1, h2, []byte{1, 100, 0, 0, 0, 1}, nil, nil), ErrUnexpectedEndOfStream},
		{"unknown property type", encodeRaw(FormatNewest, h1, h2, none, nil, unknownType), ErrInvalidEnumValue},
		{"component brick out of range", encodeRaw(FormatNewest, h1, h2, none, nil, brokenIndex), ErrBrokenReference},
		{"truncated brick", encodeRaw(FormatNewest, wire.AppendCount(bytes.Clone(h1[:len(h1)-4]), 1), h2, none, []byte{0x02}, comps), ErrUnexpectedEndOfStream},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tc.data), ReaderOptions{Logger: NoopLogger{}})
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.marker), "%+v", err)
		})
	}
}

func TestReadMissingComponentsSection(t *testing.T) {
	p := formatProfiles[FormatNewest]
	s := NewSaveData()
	data := encodeRaw(FormatNewest,
		appendHeader1(nil, &s.Header1, 0, p), appendHeader2(nil, &s.Header2, p), []byte{0}, nil, nil)
	decoded, err := Read(bytes.NewReader(data), ReaderOptions{})
	require.NoError(t, err)
	require.Nil(t, decoded.Components)
}

func TestReaderSectionOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := testSave(rng, FormatNewest, 10)
	data, err := Encode(s, WriterOptions{Logger: NoopLogger{}})
	require.NoError(t, err)

	newReader := func() *Reader {
		r, err := NewReader(bytes.NewReader(data), ReaderOptions{Logger: NoopLogger{}})
		require.NoError(t, err)
		require.Equal(t, FormatNewest, r.Version())
		require.Equal(t, s.GameVersion, r.GameVersion())
		return r
	}

	t.Run("out of order", func(t *testing.T) {
		r := newReader()
		_, err := r.ReadHeader2()
		require.True(t, errors.Is(err, ErrBadSectionOrder))
		_, _, err = r.ReadBricks()
		require.True(t, errors.Is(err, ErrBadSectionOrder))
		_, err = r.ReadPreview()
		require.True(t, errors.Is(err, ErrBadSectionOrder))

		_, err = r.ReadHeader1()
		require.NoError(t, err)
		_, err = r.ReadHeader1()
		require.True(t, errors.Is(err, ErrBadSectionOrder))
		require.True(t, errors.Is(r.SkipHeader1(), ErrBadSectionOrder))
	})

	t.Run("skip everything but bricks", func(t *testing.T) {
		r := newReader()
		require.NoError(t, r.SkipHeader1())
		h2, err := r.ReadHeader2()
		require.NoError(t, err)
		require.Equal(t, s.Header2, h2)
		bricks, components, err := r.ReadBricks()
		require.NoError(t, err)
		require.Equal(t, s.Bricks, bricks)
		require.Equal(t, s.Components, components)
		_, _, err = r.ReadBricks()
		require.True(t, errors.Is(err, ErrBadSectionOrder))
	})

	t.Run("skipped header2", func(t *testing.T) {
		r := newReader()
		require.NoError(t, r.SkipHeader1())
		require.NoError(t, r.SkipHeader2())
		p, err := r.ReadPreview()
		require.NoError(t, err)
		require.Equal(t, s.Preview, p)
		_, _, err = r.ReadBricks()
		require.True(t, errors.Is(err, ErrBadSectionOrder))
	})

	t.Run("skip preview", func(t *testing.T) {
		r := newReader()
		h1, err := r.ReadHeader1()
		require.NoError(t, err)
		require.Equal(t, s.Header1, h1)
		_, err = r.ReadHeader2()
		require.NoError(t, err)
		require.NoError(t, r.SkipPreview())
		bricks, _, err := r.ReadBricks()
		require.NoError(t, err)
		require.Len(t, bricks, 10)
	})
}

func TestReadLogsInconsistencies(t *testing.T) {
	p := formatProfiles[FormatNewest]
	s := NewSaveData()
	// header1 declares two bricks, the bricks section is empty.
	data := encodeRaw(FormatNewest,
		appendHeader1(nil, &s.Header1, 2, p), appendHeader2(nil, &s.Header2, p),
		[]byte{7, 3, 0, 0, 0, 'a', 'b', 'c'}, nil, wire.AppendCount(nil, 0))
	var logger recordingLogger
	decoded, err := Read(bytes.NewReader(data), ReaderOptions{Logger: &logger})
	require.NoError(t, err)
	require.Empty(t, decoded.Bricks)
	require.Equal(t, Preview{Type: PreviewType(7), Data: []byte("abc")}, decoded.Preview)
	require.Equal(t, []string{
		"brs: preserving preview of unknown type 7 (3 bytes)",
		"brs: header1 declares 2 bricks, bricks section holds 0",
	}, logger.lines)
}

func TestReadPreviewOldVersion(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	s := testSave(rng, FormatSaveTime, 3)
	data, err := Encode(s, WriterOptions{Version: FormatSaveTime})
	require.NoError(t, err)
	r, err := NewReader(bytes.NewReader(data), ReaderOptions{})
	require.NoError(t, err)
	require.NoError(t, r.SkipHeader1())
	_, err = r.ReadHeader2()
	require.NoError(t, err)
	p, err := r.ReadPreview()
	require.NoError(t, err)
	require.True(t, p.IsEmpty())
	bricks, components, err := r.ReadBricks()
	require.NoError(t, err)
	require.Equal(t, s.Bricks, bricks)
	require.Nil(t, components)
}

func TestHostDefaultsToAuthor(t *testing.T) {
	s := NewSaveData()
	s.Header1.Author = User{Name: "Dana", ID: uuid.New()}
	data, err := Encode(s, WriterOptions{})
	require.NoError(t, err)
	decoded, err := Read(bytes.NewReader(data), ReaderOptions{})
	require.NoError(t, err)
	require.NotNil(t, decoded.Header1.Host)
	require.Equal(t, s.Header1.Author, *decoded.Header1.Host)
}
