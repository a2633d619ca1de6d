// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"slices"

	"github.com/cockroachdb/swiss"
	"github.com/google/uuid"
)

// Builder assembles a save programmatically, interning palette entries as
// bricks refer to them.
//
//	b := brs.NewBuilder(brs.Header1{Map: "Plate"})
//	brick := brs.DefaultBrick()
//	brick.AssetNameIndex = b.Asset("PB_DefaultBrick")
//	brick.Color = brs.ColorIndex(b.Color(brs.RGBA(255, 0, 0, 255)))
//	b.AddBrick(brick)
//	save, err := b.Build()
//
// A Builder is not safe for concurrent use.
type Builder struct {
	save      *SaveData
	assets    interner[string]
	materials interner[string]
	physical  interner[string]
	colors    interner[Color]
	owners    swiss.Map[uuid.UUID, uint32]
}

// interner assigns dense indexes to palette entries in insertion order.
type interner[K comparable] struct {
	m       swiss.Map[K, uint32]
	entries *[]K
}

func (in *interner[K]) init(entries *[]K) {
	in.m.Init(len(*entries))
	in.entries = entries
	for i, e := range *entries {
		if _, ok := in.m.Get(e); !ok {
			in.m.Put(e, uint32(i))
		}
	}
}

func (in *interner[K]) intern(e K) uint32 {
	if i, ok := in.m.Get(e); ok {
		return i
	}
	i := uint32(len(*in.entries))
	*in.entries = append(*in.entries, e)
	in.m.Put(e, i)
	return i
}

// NewBuilder returns a Builder for a save in the newest format with the given
// header and empty palettes.
func NewBuilder(h Header1) *Builder {
	return newBuilder(&SaveData{Version: FormatNewest, Header1: h})
}

// NewBuilderFrom returns a Builder that appends to a copy of s. Existing
// palette entries keep their indexes.
func NewBuilderFrom(s *SaveData) *Builder {
	c := *s
	c.Header2 = Header2{
		Mods:              slices.Clone(s.Header2.Mods),
		BrickAssets:       slices.Clone(s.Header2.BrickAssets),
		Colors:            slices.Clone(s.Header2.Colors),
		Materials:         slices.Clone(s.Header2.Materials),
		BrickOwners:       slices.Clone(s.Header2.BrickOwners),
		PhysicalMaterials: slices.Clone(s.Header2.PhysicalMaterials),
	}
	c.Bricks = slices.Clone(s.Bricks)
	if s.Components != nil {
		c.Components = make(map[string]Component, len(s.Components))
		for name, comp := range s.Components {
			c.Components[name] = comp
		}
	}
	return newBuilder(&c)
}

func newBuilder(s *SaveData) *Builder {
	b := &Builder{save: s}
	h := &s.Header2
	b.assets.init(&h.BrickAssets)
	b.materials.init(&h.Materials)
	b.physical.init(&h.PhysicalMaterials)
	b.colors.init(&h.Colors)
	b.owners.Init(len(h.BrickOwners))
	for i, o := range h.BrickOwners {
		if _, ok := b.owners.Get(o.ID); !ok {
			b.owners.Put(o.ID, uint32(i+1))
		}
	}
	return b
}

// SetGameVersion sets the game build recorded in the save.
func (b *Builder) SetGameVersion(v int32) { b.save.GameVersion = v }

// SetPreview sets the save's preview image.
func (b *Builder) SetPreview(p Preview) { b.save.Preview = p }

// AddMod records a mod the save depends on.
func (b *Builder) AddMod(name string) {
	if !slices.Contains(b.save.Header2.Mods, name) {
		b.save.Header2.Mods = append(b.save.Header2.Mods, name)
	}
}

// Asset returns the palette index of the named brick asset.
func (b *Builder) Asset(name string) uint32 { return b.assets.intern(name) }

// Material returns the palette index of the named material.
func (b *Builder) Material(name string) uint32 { return b.materials.intern(name) }

// PhysicalMaterial returns the palette index of the named physical material.
func (b *Builder) PhysicalMaterial(name string) uint32 { return b.physical.intern(name) }

// Color returns the palette index of c.
func (b *Builder) Color(c Color) uint32 { return b.colors.intern(c) }

// Owner returns the owner index of u, adding it to the owner palette if
// needed. Owners are identified by ID.
func (b *Builder) Owner(u User) uint32 {
	if i, ok := b.owners.Get(u.ID); ok {
		return i
	}
	b.save.Header2.BrickOwners = append(b.save.Header2.BrickOwners, BrickOwner{User: u})
	i := uint32(len(b.save.Header2.BrickOwners))
	b.owners.Put(u.ID, i)
	return i
}

// RegisterComponent registers the schema of a component. A zero version is
// replaced with DefaultComponentVersion.
func (b *Builder) RegisterComponent(name string, version int32, props ...PropertySchema) {
	if version == 0 {
		version = DefaultComponentVersion
	}
	if b.save.Components == nil {
		b.save.Components = make(map[string]Component)
	}
	b.save.Components[name] = Component{Version: version, Properties: props}
}

// AddBrick appends a brick and returns its index. The owner's brick count is
// incremented.
func (b *Builder) AddBrick(brick Brick) int {
	if o := brick.OwnerIndex; o > 0 && int(o) <= len(b.save.Header2.BrickOwners) {
		b.save.Header2.BrickOwners[o-1].Bricks++
	}
	b.save.Bricks = append(b.save.Bricks, brick)
	return len(b.save.Bricks) - 1
}

// Len returns the number of bricks added so far.
func (b *Builder) Len() int { return len(b.save.Bricks) }

// Build validates the save and returns it. Empty asset, material and physical
// material palettes are given their default entry so that default bricks
// refer to something. The Builder must not be used afterwards.
func (b *Builder) Build() (*SaveData, error) {
	if len(b.save.Header2.BrickAssets) == 0 {
		b.Asset("PB_DefaultBrick")
	}
	if len(b.save.Header2.Materials) == 0 {
		b.Material("BMC_Plastic")
	}
	if len(b.save.Header2.PhysicalMaterials) == 0 {
		b.PhysicalMaterial("BPMC_Default")
	}
	s := b.save
	s.Reindex()
	if err := Validate(s); err != nil {
		return nil, err
	}
	b.assets.m.Close()
	b.materials.m.Close()
	b.physical.m.Close()
	b.colors.m.Close()
	b.owners.Close()
	b.save = nil
	return s, nil
}
