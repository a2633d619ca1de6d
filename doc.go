// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package brs reads and writes BRS save files: the versioned, bit-packed,
// partially compressed format a brick construction game uses to persist
// builds.
//
// A save is a short uncompressed prelude followed by a sequence of sections:
//
//	"BRS" | u16 version | [i32 game version]      prelude (game version v8+)
//	header1 section                               map, author, host, save time, brick count
//	header2 section                               mods, assets, colors, materials, owners, physical materials
//	[preview]                                     u8 type, [i32 length, bytes] (v8+, never compressed)
//	bricks section                                bit-packed brick records
//	[components section]                          per-component schemas and values (v8+)
//
// Each section is framed by its uncompressed and compressed lengths and is
// optionally deflated (see internal/section). Inside the bricks section every
// record starts on a byte boundary and stores palette references with the
// minimum number of bits the current palette sizes allow, so a writer always
// recomputes those widths from the palettes it emits.
//
// Reading is sequential: use Read for a whole document, or a Reader to decode
// or skip individual sections in order. Writing is all or nothing: Write
// validates every palette reference and component value before a single byte
// reaches the underlying writer.
//
// Errors carry one of the marker errors (ErrMalformedHeader,
// ErrUnsupportedVersion, ErrUnexpectedEndOfStream, ErrDecompression,
// ErrBrokenReference, ErrInvalidEnumValue, ErrBadSectionOrder) and should be
// tested with errors.Is.
package brs
