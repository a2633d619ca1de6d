// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"fmt"
	"time"

	"github.com/cockroachdb/redact"
	"github.com/google/uuid"
)

// Color is an 8-bit per channel RGBA color. On the wire palette colors are
// stored in BGRA order.
type Color struct {
	R, G, B, A uint8
}

// RGBA returns the color with the given channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// User identifies a player.
type User struct {
	Name string
	ID   uuid.UUID
}

func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.Name, u.ID)
}

// BrickOwner is an entry of the owner palette. Bricks is the number of bricks
// the owner placed; it is stored from FormatComponents onwards and otherwise
// decodes as zero.
type BrickOwner struct {
	User
	Bricks uint32
}

// Header1 holds the save's world metadata.
type Header1 struct {
	Map         string
	Description string
	Author      User
	// Host is the user hosting the server the save was made on. A nil host is
	// written as the author.
	Host *User
	// SaveTime is the zero time when the save does not record one.
	SaveTime time.Time
	// BrickCount is the count stored in the header. Writers ignore it and
	// store the length of SaveData.Bricks.
	BrickCount uint32
}

// Header2 holds the palettes bricks refer to.
type Header2 struct {
	Mods              []string
	BrickAssets       []string
	Colors            []Color
	Materials         []string
	BrickOwners       []BrickOwner
	PhysicalMaterials []string
}

// Direction is the axis a brick's local Z axis points along.
type Direction uint8

// The directions, in their wire order.
const (
	XPositive Direction = iota
	XNegative
	YPositive
	YNegative
	ZPositive
	ZNegative
	numDirections
)

var directionNames = [numDirections]string{
	XPositive: "XPositive",
	XNegative: "XNegative",
	YPositive: "YPositive",
	YNegative: "YNegative",
	ZPositive: "ZPositive",
	ZNegative: "ZNegative",
}

// Valid returns true if d is one of the six directions.
func (d Direction) Valid() bool { return d < numDirections }

// Axis returns the axis (0 for X, 1 for Y, 2 for Z) d points along.
func (d Direction) Axis() int { return int(d) / 2 }

// Positive returns true if d points along the positive half of its axis.
func (d Direction) Positive() bool { return d%2 == 0 }

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction { return d ^ 1 }

func (d Direction) String() string {
	if d.Valid() {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// SafeValue implements redact.SafeValue.
func (Direction) SafeValue() {}

// ParseDirection returns the direction with the given name.
func ParseDirection(s string) (Direction, bool) {
	for d, name := range directionNames {
		if name == s {
			return Direction(d), true
		}
	}
	return 0, false
}

// Directions returns all six directions in wire order.
func Directions() []Direction {
	return []Direction{XPositive, XNegative, YPositive, YNegative, ZPositive, ZNegative}
}

// Rotation is a brick's rotation around its local Z axis, in quarter turns.
type Rotation uint8

// The rotations, in their wire order.
const (
	Deg0 Rotation = iota
	Deg90
	Deg180
	Deg270
	numRotations
)

var rotationNames = [numRotations]string{"Deg0", "Deg90", "Deg180", "Deg270"}

// Valid returns true if r is one of the four rotations.
func (r Rotation) Valid() bool { return r < numRotations }

func (r Rotation) String() string {
	if r.Valid() {
		return rotationNames[r]
	}
	return fmt.Sprintf("Rotation(%d)", uint8(r))
}

// SafeValue implements redact.SafeValue.
func (Rotation) SafeValue() {}

// ParseRotation returns the rotation with the given name.
func ParseRotation(s string) (Rotation, bool) {
	for r, name := range rotationNames {
		if name == s {
			return Rotation(r), true
		}
	}
	return 0, false
}

var (
	_ redact.SafeValue = Direction(0)
	_ redact.SafeValue = Rotation(0)
)

// Size is a brick's size. Static assets have an empty size; procedural
// bricks store their half extents.
type Size struct {
	Procedural bool
	X, Y, Z    uint32
}

// EmptySize is the size of a brick whose extents come from its asset.
var EmptySize = Size{}

// ProceduralSize returns the size of a procedural brick with the given half
// extents.
func ProceduralSize(x, y, z uint32) Size {
	return Size{Procedural: true, X: x, Y: y, Z: z}
}

func (s Size) String() string {
	if !s.Procedural {
		return "empty"
	}
	return fmt.Sprintf("%dx%dx%d", s.X, s.Y, s.Z)
}

// Collision holds a brick's collision flags. Saves older than
// FormatCollisionFlags store a single flag; it decodes into all four and is
// written from Player.
type Collision struct {
	Player      bool
	Weapon      bool
	Interaction bool
	Tool        bool
}

// AllCollision has every collision flag set.
var AllCollision = Collision{Player: true, Weapon: true, Interaction: true, Tool: true}

// BrickColor is either an index into Header2.Colors or a color unique to the
// brick.
type BrickColor struct {
	unique bool
	index  uint32
	color  Color
}

// ColorIndex returns a BrickColor referring to palette entry i.
func ColorIndex(i uint32) BrickColor {
	return BrickColor{index: i}
}

// UniqueColor returns a BrickColor holding c directly.
func UniqueColor(c Color) BrickColor {
	return BrickColor{unique: true, color: c}
}

// IsUnique returns true if the color is stored on the brick.
func (c BrickColor) IsUnique() bool { return c.unique }

// Index returns the palette index. It is zero for a unique color.
func (c BrickColor) Index() uint32 { return c.index }

// Unique returns the brick's own color. It is the zero color for a palette
// color.
func (c BrickColor) Unique() Color { return c.color }

// Resolve returns the color the brick is painted with, or false if the
// palette index is out of range.
func (c BrickColor) Resolve(palette []Color) (Color, bool) {
	if c.unique {
		return c.color, true
	}
	if int(c.index) >= len(palette) {
		return Color{}, false
	}
	return palette[c.index], true
}

func (c BrickColor) String() string {
	if c.unique {
		return c.color.String()
	}
	return fmt.Sprintf("color[%d]", c.index)
}

// Brick is a placed brick. All indexes refer to the palettes in Header2.
type Brick struct {
	AssetNameIndex uint32
	Size           Size
	Position       [3]int32
	Direction      Direction
	Rotation       Rotation
	Collision      Collision
	Visibility     bool
	MaterialIndex  uint32
	// PhysicalIndex and MaterialIntensity are stored from
	// FormatPhysicalMaterials onwards. Older saves decode as 0 and 5.
	PhysicalIndex     uint32
	MaterialIntensity uint32
	Color             BrickColor
	// OwnerIndex is zero for public bricks and otherwise one more than the
	// index into Header2.BrickOwners.
	OwnerIndex uint32
	// Components maps the name of each component the brick carries to its
	// property values. Every name must be registered in SaveData.Components.
	Components map[string]Properties
}

// MaxMaterialIntensity is the largest material intensity a brick can store.
const MaxMaterialIntensity = 10

// DefaultBrick returns a visible, fully colliding brick of the first asset,
// painted with the first palette color and owned by nobody.
func DefaultBrick() Brick {
	return Brick{
		Direction:         ZPositive,
		Rotation:          Deg0,
		Collision:         AllCollision,
		Visibility:        true,
		MaterialIntensity: 5,
		Color:             ColorIndex(0),
	}
}

// PreviewType identifies the encoding of a save's preview image.
type PreviewType uint8

// The known preview types. Any other byte is preserved as is.
const (
	PreviewNone PreviewType = 0
	PreviewPNG  PreviewType = 1
	PreviewJPEG PreviewType = 2
)

// Known returns true for the preview types the game writes.
func (t PreviewType) Known() bool { return t <= PreviewJPEG }

func (t PreviewType) String() string {
	switch t {
	case PreviewNone:
		return "none"
	case PreviewPNG:
		return "png"
	case PreviewJPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// SafeValue implements redact.SafeValue.
func (PreviewType) SafeValue() {}

// Preview is the save's embedded screenshot. The bytes are never decoded.
type Preview struct {
	Type PreviewType
	Data []byte
}

// IsEmpty returns true if the save has no preview.
func (p Preview) IsEmpty() bool { return p.Type == PreviewNone }

// SaveData is a decoded save.
type SaveData struct {
	Version     FormatVersion
	GameVersion int32
	Header1     Header1
	Header2     Header2
	Preview     Preview
	Bricks      []Brick
	// Components holds the schema of every component a brick may carry,
	// keyed by component name.
	Components map[string]Component
}

// NewSaveData returns an empty save for the newest format with the default
// palettes: a single default brick asset, plastic material and default
// physical material.
func NewSaveData() *SaveData {
	return &SaveData{
		Version: FormatNewest,
		Header1: Header1{
			Map:    "Unknown",
			Author: User{Name: "Unknown"},
		},
		Header2: Header2{
			BrickAssets:       []string{"PB_DefaultBrick"},
			Materials:         []string{"BMC_Plastic"},
			PhysicalMaterials: []string{"BPMC_Default"},
		},
	}
}

// Owner returns the owner of b, or false for a public brick or an index out
// of range.
func (s *SaveData) Owner(b *Brick) (BrickOwner, bool) {
	if b.OwnerIndex == 0 || int(b.OwnerIndex) > len(s.Header2.BrickOwners) {
		return BrickOwner{}, false
	}
	return s.Header2.BrickOwners[b.OwnerIndex-1], true
}

// Asset returns the asset name of b, or false if the index is out of range.
func (s *SaveData) Asset(b *Brick) (string, bool) {
	if int(b.AssetNameIndex) >= len(s.Header2.BrickAssets) {
		return "", false
	}
	return s.Header2.BrickAssets[b.AssetNameIndex], true
}
