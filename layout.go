// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/brsgo/brs/internal/binfmt"
	"github.com/brsgo/brs/internal/compression"
	"github.com/brsgo/brs/internal/section"
	"github.com/brsgo/brs/internal/wire"
)

// LayoutOptions configures Describe.
type LayoutOptions struct {
	// MaxBricks bounds the number of brick records printed. Zero prints all
	// of them.
	MaxBricks int
}

// Describe writes an annotated dump of the encoded save in data to w. The
// prelude and section headers are printed with file offsets. Each section's
// stored bytes are elided, and its decoded payload is then described field by
// field with offsets relative to the start of the payload.
//
// The save is fully decoded first; a save that does not decode is not
// described and the decoding error is returned.
func Describe(w io.Writer, data []byte, opts LayoutOptions) error {
	s, err := Read(bytes.NewReader(data), ReaderOptions{Logger: NoopLogger{}})
	if err != nil {
		return err
	}
	p := formatProfiles[s.Version]
	l := layout{w: w, f: binfmt.New(data), opts: opts, profile: p}

	fmt.Fprintln(w, "prelude")
	l.f.HexTextln(len(Magic))
	l.f.Uint16("version")
	if p.gameVersion {
		l.f.Int32("game version")
	}
	if err := l.flush(); err != nil {
		return err
	}

	if err := l.section("header1", l.header1); err != nil {
		return err
	}
	if err := l.section("header2", l.header2); err != nil {
		return err
	}
	if p.preview {
		fmt.Fprintln(w, "preview")
		t := l.f.PeekUint(1)
		l.f.Byte("preview type: %s", PreviewType(t))
		if PreviewType(t) != PreviewNone {
			n := int(l.f.Int32("preview length"))
			if n > 0 {
				l.f.Elide(n, "%s image", PreviewType(t))
			}
		}
		if err := l.flush(); err != nil {
			return err
		}
	}
	err = l.section("bricks", func(f *binfmt.Formatter) {
		l.bricks(f, &s.Header2, s.Header1.BrickCount)
	})
	if err != nil {
		return err
	}
	if p.components && l.f.More() {
		if err := l.section("components", l.components); err != nil {
			return err
		}
	}
	if l.f.More() {
		fmt.Fprintln(w, "trailing data")
		l.f.HexBytesln(l.f.Remaining(), "unused")
		return l.flush()
	}
	return nil
}

type layout struct {
	w       io.Writer
	f       *binfmt.Formatter
	opts    LayoutOptions
	profile formatProfile
}

func (l *layout) flush() error {
	return l.f.Flush(l.w, "  ")
}

// section describes a section header and its payload, using fn to describe
// the decoded payload.
func (l *layout) section(name string, fn func(f *binfmt.Formatter)) error {
	b := l.f.Data()[l.f.Offset():]
	h := section.ParseHeader(b)
	fmt.Fprintf(l.w, "%s (%s)\n", name, h.Algorithm())
	l.f.Int32("uncompressed length")
	l.f.Int32("compressed length")
	stored := b[section.HeaderLen : section.HeaderLen+h.StoredLen()]
	payload, err := section.Decode(h, stored)
	if err != nil {
		return err
	}
	if len(stored) > 0 {
		if h.Algorithm() == compression.NoCompression {
			l.f.Elide(len(stored), "raw payload of %d bytes", len(stored))
		} else {
			l.f.Elide(len(stored), "zlib stream inflating to %d bytes", len(payload))
		}
	}
	if err := l.flush(); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	sub := binfmt.New(payload)
	fn(sub)
	return sub.Flush(l.w, "    ")
}

func describeUUID(f *binfmt.Formatter, field string) {
	id, err := wire.NewDecoder(bytes.NewReader(f.Data()[f.Offset():])).UUID(field)
	if err != nil {
		f.HexBytesln(f.Remaining(), "%s: %v", field, err)
		return
	}
	f.HexBytesln(16, "%s: %s", field, id)
}

func describeStrings(f *binfmt.Formatter, field string) {
	n := int(f.Int32("%s count", field))
	for i := 0; i < n; i++ {
		f.FString("%s[%d]", field, i)
	}
}

func (l *layout) header1(f *binfmt.Formatter) {
	f.FString("map")
	f.FString("author name")
	f.FString("description")
	describeUUID(f, "author id")
	if l.profile.host {
		f.FString("host name")
		describeUUID(f, "host id")
	}
	if l.profile.saveTime {
		t := wire.TicksToTime(int64(f.PeekUint(8)))
		f.HexBytesln(8, "save time: %s", t.Format("2006-01-02 15:04:05.0000000"))
	}
	f.Int32("brick count")
}

func (l *layout) header2(f *binfmt.Formatter) {
	describeStrings(f, "mods")
	describeStrings(f, "brick assets")
	n := int(f.Int32("colors count"))
	for i := 0; i < n; i++ {
		b := f.Data()[f.Offset():]
		f.HexBytesln(4, "colors[%d]: %s (bgra)", i, Color{B: b[0], G: b[1], R: b[2], A: b[3]})
	}
	if l.profile.materials {
		describeStrings(f, "materials")
	}
	if l.profile.owners {
		n := int(f.Int32("brick owners count"))
		for i := 0; i < n; i++ {
			describeUUID(f, fmt.Sprintf("brick owners[%d] id", i))
			f.FString("brick owners[%d] name", i)
			if l.profile.ownerBrickCounts {
				f.Int32("brick owners[%d] bricks", i)
			}
		}
	}
	if l.profile.physical {
		describeStrings(f, "physical materials")
	}
}

func (l *layout) bricks(f *binfmt.Formatter, h *Header2, count uint32) {
	type record struct{ start, end uint64 }
	var records []record
	bricks, err := decodeBricks(f.Data(), h, l.profile, int(count), func(_ int, start, end uint64) {
		records = append(records, record{start: start, end: end})
	})
	if err != nil {
		f.Comment("%v", err)
		return
	}
	for i, r := range records {
		if l.opts.MaxBricks > 0 && i == l.opts.MaxBricks {
			f.Comment("%d more bricks", len(records)-i)
			break
		}
		start, end := int(r.start/8), int((r.end+7)/8)
		if skip := start - f.Offset(); skip > 0 {
			f.Elide(skip, "padding")
		}
		b := &bricks[i]
		f.HexBytesln(end-start, "brick %d: %d bits: %s", i, r.end-r.start, summarizeBrick(b))
	}
	if l.opts.MaxBricks > 0 && len(records) > l.opts.MaxBricks {
		f.Elide(f.Remaining(), "remaining bricks")
	} else if f.More() {
		f.HexBytesln(f.Remaining(), "unused")
	}
}

func summarizeBrick(b *Brick) string {
	return fmt.Sprintf("asset=%d size=%s pos=%v %s/%s material=%d color=%s owner=%d",
		b.AssetNameIndex, b.Size, b.Position, b.Direction, b.Rotation,
		b.MaterialIndex, b.Color, b.OwnerIndex)
}

func (l *layout) components(f *binfmt.Formatter) {
	n := int(f.Int32("component count"))
	for i := 0; i < n; i++ {
		name := f.FString("component %d name", i)
		size := int(f.Int32("%s stream length", name))
		if size >= 4 {
			version := int32(f.PeekUint(4))
			f.Elide(size, "%s stream (version %d)", name, version)
		} else if size > 0 {
			f.HexBytesln(size, "%s stream", name)
		}
	}
}
