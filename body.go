// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"math"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/bitstream"
	"github.com/brsgo/brs/internal/wire"
	"github.com/cockroachdb/errors"
)

// orientationLimit bounds the combined direction and rotation field.
const orientationLimit = 24

// intensityLimit bounds the material intensity field.
const intensityLimit = MaxMaterialIntensity + 1

// paletteBounds holds the exclusive bounds used for the bounded palette
// indexes of a brick record. The bounds never drop below 2 so that a palette
// of one entry still costs a bit, matching the game's encoder.
type paletteBounds struct {
	assets    uint32
	materials uint32
	physical  uint32
	colors    uint32
}

func boundsOf(h *Header2) paletteBounds {
	return paletteBounds{
		assets:    paletteBound(len(h.BrickAssets)),
		materials: paletteBound(len(h.Materials)),
		physical:  paletteBound(len(h.PhysicalMaterials)),
		colors:    paletteBound(len(h.Colors)),
	}
}

func paletteBound(n int) uint32 {
	return uint32(max(n, 2))
}

// brickDecoder decodes brick records from the payload of the bricks section.
type brickDecoder struct {
	r      *bitstream.Reader
	p      formatProfile
	bounds paletteBounds
}

// decodeBricks decodes up to limit bricks, stopping early at the end of the
// section. A negative limit decodes until the end of the section. If
// onRecord is non-nil it is called with the bit range of every record.
func decodeBricks(
	data []byte, h *Header2, p formatProfile, limit int, onRecord func(i int, start, end uint64),
) ([]Brick, error) {
	d := brickDecoder{r: bitstream.NewReader(data), p: p, bounds: boundsOf(h)}
	var bricks []Brick
	if limit > 0 {
		bricks = make([]Brick, 0, min(limit, wire.MaxPrealloc))
	}
	for limit < 0 || len(bricks) < limit {
		d.r.ByteAlign()
		if d.r.RemainingBits() == 0 {
			break
		}
		start := d.r.BitPos()
		b, err := d.decode()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding brick %d", errors.Safe(len(bricks)))
		}
		if onRecord != nil {
			onRecord(len(bricks), start, d.r.BitPos())
		}
		bricks = append(bricks, b)
	}
	return bricks, nil
}

func (d *brickDecoder) decode() (Brick, error) {
	r := d.r
	var b Brick
	var err error
	if b.AssetNameIndex, err = r.ReadUint(d.bounds.assets); err != nil {
		return Brick{}, err
	}

	procedural, err := r.ReadBit()
	if err != nil {
		return Brick{}, err
	}
	if procedural {
		b.Size.Procedural = true
		for _, v := range []*uint32{&b.Size.X, &b.Size.Y, &b.Size.Z} {
			if *v, err = r.ReadUintPacked(); err != nil {
				return Brick{}, err
			}
		}
	}

	for i := range b.Position {
		if b.Position[i], err = r.ReadIntPacked(); err != nil {
			return Brick{}, err
		}
	}

	o, err := r.ReadUint(orientationLimit)
	if err != nil {
		return Brick{}, err
	}
	b.Direction, b.Rotation = Direction(o>>2), Rotation(o&3)
	if !b.Direction.Valid() {
		return Brick{}, base.InvalidEnumf("brs: invalid direction %d", errors.Safe(o>>2))
	}

	if d.p.collisionFlags {
		for _, v := range []*bool{&b.Collision.Player, &b.Collision.Weapon, &b.Collision.Interaction, &b.Collision.Tool} {
			if *v, err = r.ReadBit(); err != nil {
				return Brick{}, err
			}
		}
	} else {
		c, err := r.ReadBit()
		if err != nil {
			return Brick{}, err
		}
		b.Collision = Collision{Player: c, Weapon: c, Interaction: c, Tool: c}
	}

	if b.Visibility, err = r.ReadBit(); err != nil {
		return Brick{}, err
	}

	if d.p.boundedMaterial {
		if b.MaterialIndex, err = r.ReadUint(d.bounds.materials); err != nil {
			return Brick{}, err
		}
	} else {
		explicit, err := r.ReadBit()
		if err != nil {
			return Brick{}, err
		}
		b.MaterialIndex = 1
		if explicit {
			if b.MaterialIndex, err = r.ReadUintPacked(); err != nil {
				return Brick{}, err
			}
		}
	}

	if d.p.physical {
		if b.PhysicalIndex, err = r.ReadUint(d.bounds.physical); err != nil {
			return Brick{}, err
		}
		if b.MaterialIntensity, err = r.ReadUint(intensityLimit); err != nil {
			return Brick{}, err
		}
	} else {
		b.MaterialIntensity = 5
	}

	unique, err := r.ReadBit()
	if err != nil {
		return Brick{}, err
	}
	if unique {
		var c Color
		if d.p.rgbUniqueColor {
			var rgb [3]byte
			if err := r.ReadBytes(rgb[:]); err != nil {
				return Brick{}, err
			}
			c = Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}
		} else {
			var bgra [4]byte
			if err := r.ReadBytes(bgra[:]); err != nil {
				return Brick{}, err
			}
			c = Color{B: bgra[0], G: bgra[1], R: bgra[2], A: bgra[3]}
		}
		b.Color = UniqueColor(c)
	} else {
		i, err := r.ReadUint(d.bounds.colors)
		if err != nil {
			return Brick{}, err
		}
		b.Color = ColorIndex(i)
	}

	if d.p.owners {
		if b.OwnerIndex, err = r.ReadUintPacked(); err != nil {
			return Brick{}, err
		}
	}
	return b, nil
}

// appendBricks encodes bricks, which must have been validated against h.
func appendBricks(w *bitstream.Writer, bricks []Brick, h *Header2, p formatProfile) {
	bounds := boundsOf(h)
	for i := range bricks {
		b := &bricks[i]
		w.ByteAlign()
		w.WriteUint(b.AssetNameIndex, bounds.assets)

		w.WriteBit(b.Size.Procedural)
		if b.Size.Procedural {
			w.WriteUintPacked(b.Size.X)
			w.WriteUintPacked(b.Size.Y)
			w.WriteUintPacked(b.Size.Z)
		}

		for _, v := range b.Position {
			w.WriteIntPacked(v)
		}

		w.WriteUint(uint32(b.Direction)<<2|uint32(b.Rotation), orientationLimit)

		if p.collisionFlags {
			w.WriteBit(b.Collision.Player)
			w.WriteBit(b.Collision.Weapon)
			w.WriteBit(b.Collision.Interaction)
			w.WriteBit(b.Collision.Tool)
		} else {
			w.WriteBit(b.Collision.Player)
		}

		w.WriteBit(b.Visibility)

		if p.boundedMaterial {
			w.WriteUint(b.MaterialIndex, bounds.materials)
		} else if b.MaterialIndex == 1 {
			w.WriteBit(false)
		} else {
			w.WriteBit(true)
			w.WriteUintPacked(b.MaterialIndex)
		}

		if p.physical {
			w.WriteUint(b.PhysicalIndex, bounds.physical)
			w.WriteUint(b.MaterialIntensity, intensityLimit)
		}

		if b.Color.IsUnique() {
			w.WriteBit(true)
			c := b.Color.Unique()
			if p.rgbUniqueColor {
				w.WriteBytes([]byte{c.R, c.G, c.B})
			} else {
				w.WriteBytes([]byte{c.B, c.G, c.R, c.A})
			}
		} else {
			w.WriteBit(false)
			w.WriteUint(b.Color.Index(), bounds.colors)
		}

		if p.owners {
			w.WriteUintPacked(b.OwnerIndex)
		}
	}
}

// validateBrick checks every field of b that a writer cannot represent or
// that refers outside the document's palettes.
func validateBrick(s *SaveData, i int, b *Brick) error {
	h := &s.Header2
	ref := func(what string, idx uint32, n int) error {
		return base.BrokenReferencef("brs: brick %d refers to %s %d of %d",
			errors.Safe(i), errors.Safe(what), errors.Safe(idx), errors.Safe(n))
	}
	switch {
	case int(b.AssetNameIndex) >= len(h.BrickAssets):
		return ref("asset", b.AssetNameIndex, len(h.BrickAssets))
	case int(b.MaterialIndex) >= len(h.Materials):
		return ref("material", b.MaterialIndex, len(h.Materials))
	case int(b.PhysicalIndex) >= len(h.PhysicalMaterials):
		return ref("physical material", b.PhysicalIndex, len(h.PhysicalMaterials))
	case !b.Color.IsUnique() && int(b.Color.Index()) >= len(h.Colors):
		return ref("color", b.Color.Index(), len(h.Colors))
	case int(b.OwnerIndex) > len(h.BrickOwners):
		return ref("owner", b.OwnerIndex, len(h.BrickOwners))
	}
	if !b.Direction.Valid() {
		return base.InvalidEnumf("brs: brick %d has invalid direction %s", errors.Safe(i), b.Direction)
	}
	if !b.Rotation.Valid() {
		return base.InvalidEnumf("brs: brick %d has invalid rotation %s", errors.Safe(i), b.Rotation)
	}
	if b.MaterialIntensity > MaxMaterialIntensity {
		return base.InvalidEnumf("brs: brick %d has material intensity %d, max is %d",
			errors.Safe(i), errors.Safe(b.MaterialIntensity), errors.Safe(MaxMaterialIntensity))
	}
	for _, v := range b.Position {
		if v == math.MinInt32 {
			return base.InvalidEnumf("brs: brick %d has unrepresentable position %v", errors.Safe(i), b.Position)
		}
	}
	for name, props := range b.Components {
		c, ok := s.Components[name]
		if !ok {
			return base.BrokenReferencef("brs: brick %d carries unregistered component %q",
				errors.Safe(i), errors.Safe(name))
		}
		if err := c.checkProperties(name, props); err != nil {
			return errors.Wrapf(err, "brick %d", errors.Safe(i))
		}
	}
	return nil
}
