// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"bytes"
	"io"
	"slices"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/wire"
	"github.com/cockroachdb/errors"
)

// Magic is the file signature every save starts with.
var Magic = [3]byte{'B', 'R', 'S'}

// prelude is the uncompressed start of a save.
type prelude struct {
	version     FormatVersion
	profile     formatProfile
	gameVersion int32
}

// readPrelude reads the magic, version and game version. The version is
// validated before the game version is read.
func readPrelude(r io.Reader) (prelude, error) {
	d := wire.NewDecoder(r)
	m, err := d.Bytes(len(Magic), "magic")
	if err != nil {
		return prelude{}, err
	}
	if !bytes.Equal(m, Magic[:]) {
		return prelude{}, base.MalformedHeaderf("brs: bad magic %q", m)
	}
	v, err := d.Uint16("version")
	if err != nil {
		return prelude{}, err
	}
	p := prelude{version: FormatVersion(v)}
	if p.profile, err = p.version.profile(); err != nil {
		return prelude{}, err
	}
	if p.profile.gameVersion {
		if p.gameVersion, err = d.Int32("game version"); err != nil {
			return prelude{}, err
		}
	}
	return p, nil
}

func appendPrelude(dst []byte, p prelude) []byte {
	dst = append(dst, Magic[:]...)
	dst = wire.AppendUint16(dst, uint16(p.version))
	if p.profile.gameVersion {
		dst = wire.AppendInt32(dst, p.gameVersion)
	}
	return dst
}

func decodeUser(d *wire.Decoder, field string) (User, error) {
	var u User
	var err error
	if u.Name, err = d.String(field + " name"); err != nil {
		return User{}, err
	}
	if u.ID, err = d.UUID(field + " id"); err != nil {
		return User{}, err
	}
	return u, nil
}

// decodeHeader1 decodes the payload of the header1 section.
func decodeHeader1(data []byte, p formatProfile) (Header1, error) {
	d := wire.NewDecoder(bytes.NewReader(data))
	var h Header1
	var err error
	if h.Map, err = d.String("map"); err != nil {
		return Header1{}, err
	}
	if h.Author.Name, err = d.String("author name"); err != nil {
		return Header1{}, err
	}
	if h.Description, err = d.String("description"); err != nil {
		return Header1{}, err
	}
	if h.Author.ID, err = d.UUID("author id"); err != nil {
		return Header1{}, err
	}
	if p.host {
		host, err := decodeUser(d, "host")
		if err != nil {
			return Header1{}, err
		}
		h.Host = &host
	}
	if p.saveTime {
		if h.SaveTime, err = d.Ticks("save time"); err != nil {
			return Header1{}, err
		}
	}
	n, err := d.Count("brick")
	if err != nil {
		return Header1{}, err
	}
	h.BrickCount = uint32(n)
	return h, nil
}

func appendHeader1(dst []byte, h *Header1, brickCount int, p formatProfile) []byte {
	dst = wire.AppendString(dst, h.Map)
	dst = wire.AppendString(dst, h.Author.Name)
	dst = wire.AppendString(dst, h.Description)
	dst = wire.AppendUUID(dst, h.Author.ID)
	if p.host {
		host := h.Author
		if h.Host != nil {
			host = *h.Host
		}
		dst = wire.AppendString(dst, host.Name)
		dst = wire.AppendUUID(dst, host.ID)
	}
	if p.saveTime {
		dst = wire.AppendTicks(dst, h.SaveTime)
	}
	return wire.AppendCount(dst, brickCount)
}

func decodeColorBGRA(d *wire.Decoder) (Color, error) {
	b, err := d.Bytes(4, "color")
	if err != nil {
		return Color{}, err
	}
	return Color{B: b[0], G: b[1], R: b[2], A: b[3]}, nil
}

func appendColorBGRA(dst []byte, c Color) []byte {
	return append(dst, c.B, c.G, c.R, c.A)
}

// decodeHeader2 decodes the payload of the header2 section. Palettes the
// version does not store are filled with their implied defaults.
func decodeHeader2(data []byte, p formatProfile) (Header2, error) {
	d := wire.NewDecoder(bytes.NewReader(data))
	var h Header2
	var err error
	if h.Mods, err = d.Strings("mods"); err != nil {
		return Header2{}, err
	}
	if h.BrickAssets, err = d.Strings("brick assets"); err != nil {
		return Header2{}, err
	}
	if h.Colors, err = wire.Array(d, "colors", decodeColorBGRA); err != nil {
		return Header2{}, err
	}
	if p.materials {
		if h.Materials, err = d.Strings("materials"); err != nil {
			return Header2{}, err
		}
	} else {
		h.Materials = slices.Clone(legacyMaterials)
	}
	if p.owners {
		h.BrickOwners, err = wire.Array(d, "brick owners", func(d *wire.Decoder) (BrickOwner, error) {
			var o BrickOwner
			var err error
			if o.ID, err = d.UUID("owner id"); err != nil {
				return BrickOwner{}, err
			}
			if o.Name, err = d.String("owner name"); err != nil {
				return BrickOwner{}, err
			}
			if p.ownerBrickCounts {
				n, err := d.Count("owner brick")
				if err != nil {
					return BrickOwner{}, err
				}
				o.Bricks = uint32(n)
			}
			return o, nil
		})
		if err != nil {
			return Header2{}, err
		}
	}
	if p.physical {
		if h.PhysicalMaterials, err = d.Strings("physical materials"); err != nil {
			return Header2{}, err
		}
	} else {
		h.PhysicalMaterials = slices.Clone(defaultPhysicalMaterials)
	}
	return h, nil
}

func appendHeader2(dst []byte, h *Header2, p formatProfile) []byte {
	dst = wire.AppendStrings(dst, h.Mods)
	dst = wire.AppendStrings(dst, h.BrickAssets)
	dst = wire.AppendCount(dst, len(h.Colors))
	for _, c := range h.Colors {
		dst = appendColorBGRA(dst, c)
	}
	if p.materials {
		dst = wire.AppendStrings(dst, h.Materials)
	}
	if p.owners {
		dst = wire.AppendCount(dst, len(h.BrickOwners))
		for _, o := range h.BrickOwners {
			dst = wire.AppendUUID(dst, o.ID)
			dst = wire.AppendString(dst, o.Name)
			if p.ownerBrickCounts {
				dst = wire.AppendCount(dst, int(o.Bricks))
			}
		}
	}
	if p.physical {
		dst = wire.AppendStrings(dst, h.PhysicalMaterials)
	}
	return dst
}

// readPreview reads the preview block. It is framed by its own length and is
// never compressed.
func readPreview(r io.Reader, maxSize int) (Preview, error) {
	d := wire.NewDecoder(r)
	t, err := d.Uint8("preview type")
	if err != nil {
		return Preview{}, err
	}
	p := Preview{Type: PreviewType(t)}
	if p.Type == PreviewNone {
		return p, nil
	}
	n, err := d.Count("preview byte")
	if err != nil {
		return Preview{}, err
	}
	if n > maxSize {
		return Preview{}, base.MalformedHeaderf("brs: preview of %d bytes exceeds %d",
			errors.Safe(n), errors.Safe(maxSize))
	}
	if n == 0 {
		return p, nil
	}
	if p.Data, err = d.Bytes(n, "preview"); err != nil {
		return Preview{}, err
	}
	return p, nil
}

func skipPreview(r io.Reader, maxSize int) error {
	d := wire.NewDecoder(r)
	t, err := d.Uint8("preview type")
	if err != nil || PreviewType(t) == PreviewNone {
		return err
	}
	n, err := d.Count("preview byte")
	if err != nil {
		return err
	}
	if n > maxSize {
		return base.MalformedHeaderf("brs: preview of %d bytes exceeds %d",
			errors.Safe(n), errors.Safe(maxSize))
	}
	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		return base.MarkEndOfStream(err, "preview")
	}
	return nil
}

func appendPreview(dst []byte, p *Preview) []byte {
	dst = wire.AppendUint8(dst, uint8(p.Type))
	if p.Type == PreviewNone {
		return dst
	}
	dst = wire.AppendCount(dst, len(p.Data))
	return append(dst, p.Data...)
}
