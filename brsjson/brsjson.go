// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package brsjson maps saves to and from JSON.
//
// The field names follow the JSON form used by the other BRS tooling: the
// two headers are flattened into the top-level object, colors are arrays of
// three or four channels, a brick color is either a palette index or a
// color array, and component properties are keyed by name. A brick's
// component values are typed by the schemas in the top-level components
// object.
//
// Unlike that form, the JSON here also carries the save time and the preview
// so that a save survives a trip through JSON unchanged. Component property
// schemas are objects, so their order is not preserved; Unmarshal orders the
// properties of each component by name.
//
// A size of [0,0,0] stands for brs.EmptySize. A procedural brick with zero
// extents therefore comes back from JSON as a brick sized by its asset.
package brsjson

import (
	"bytes"
	"slices"
	"time"

	"github.com/brsgo/brs"
	"github.com/brsgo/brs/internal/base"
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type document struct {
	Version           brs.FormatVersion    `json:"version"`
	GameVersion       int32                `json:"game_version"`
	Map               string               `json:"map"`
	Description       string               `json:"description"`
	Author            user                 `json:"author"`
	Host              *user                `json:"host"`
	SaveTime          string               `json:"save_time,omitempty"`
	BrickCount        uint32               `json:"brick_count"`
	Mods              []string             `json:"mods"`
	BrickAssets       []string             `json:"brick_assets"`
	Colors            []color              `json:"colors"`
	Materials         []string             `json:"materials"`
	BrickOwners       []owner              `json:"brick_owners"`
	PhysicalMaterials []string             `json:"physical_materials"`
	Preview           *preview             `json:"preview,omitempty"`
	Bricks            []brick              `json:"bricks"`
	Components        map[string]component `json:"components"`
}

type user struct {
	Name string    `json:"name"`
	ID   uuid.UUID `json:"id"`
}

type owner struct {
	Name   string    `json:"name"`
	ID     uuid.UUID `json:"id"`
	Bricks uint32    `json:"bricks"`
}

type preview struct {
	Type brs.PreviewType `json:"type"`
	Data []byte          `json:"data"`
}

type collision struct {
	Player      bool `json:"player"`
	Weapon      bool `json:"weapon"`
	Interaction bool `json:"interaction"`
	Tool        bool `json:"tool"`
}

type brick struct {
	AssetNameIndex    uint32                                `json:"asset_name_index"`
	Size              [3]uint32                             `json:"size"`
	Position          [3]int32                              `json:"position"`
	Direction         brs.Direction                         `json:"direction"`
	Rotation          brs.Rotation                          `json:"rotation"`
	Collision         collision                             `json:"collision"`
	Visibility        bool                                  `json:"visibility"`
	MaterialIndex     uint32                                `json:"material_index"`
	PhysicalIndex     uint32                                `json:"physical_index"`
	MaterialIntensity uint32                                `json:"material_intensity"`
	Color             brickColor                            `json:"color"`
	OwnerIndex        uint32                                `json:"owner_index"`
	Components        map[string]map[string]json.RawMessage `json:"components,omitempty"`
}

// UnmarshalJSON fills fields missing from the input with the values of
// brs.DefaultBrick.
func (b *brick) UnmarshalJSON(data []byte) error {
	type plain brick
	p := plain(fromBrick(brs.DefaultBrick()))
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = brick(p)
	return nil
}

type component struct {
	Version      int32             `json:"version"`
	BrickIndices []uint32          `json:"brick_indices"`
	Properties   map[string]string `json:"properties"`
}

// color is encoded as [r, g, b, a]. A missing alpha channel decodes as 255.
type color brs.Color

func (c color) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]uint8{c.R, c.G, c.B, c.A})
}

func (c *color) UnmarshalJSON(data []byte) error {
	var ch []uint8
	if err := json.Unmarshal(data, &ch); err != nil {
		return err
	}
	switch len(ch) {
	case 3:
		*c = color(brs.RGBA(ch[0], ch[1], ch[2], 255))
	case 4:
		*c = color(brs.RGBA(ch[0], ch[1], ch[2], ch[3]))
	default:
		return errors.Newf("brsjson: a color has 3 or 4 channels, not %d", len(ch))
	}
	return nil
}

// brickColor is encoded as a palette index or as a color array.
type brickColor brs.BrickColor

func (c brickColor) MarshalJSON() ([]byte, error) {
	bc := brs.BrickColor(c)
	if bc.IsUnique() {
		return color(bc.Unique()).MarshalJSON()
	}
	return json.Marshal(bc.Index())
}

func (c *brickColor) UnmarshalJSON(data []byte) error {
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '[' {
		var col color
		if err := col.UnmarshalJSON(t); err != nil {
			return err
		}
		*c = brickColor(brs.UniqueColor(brs.Color(col)))
		return nil
	}
	var i uint32
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	*c = brickColor(brs.ColorIndex(i))
	return nil
}

func fromUser(u brs.User) user { return user{Name: u.Name, ID: u.ID} }

func (u user) toUser() brs.User { return brs.User{Name: u.Name, ID: u.ID} }

func fromBrick(b brs.Brick) brick {
	out := brick{
		AssetNameIndex: b.AssetNameIndex,
		Position:       b.Position,
		Direction:      b.Direction,
		Rotation:       b.Rotation,
		Collision: collision{
			Player:      b.Collision.Player,
			Weapon:      b.Collision.Weapon,
			Interaction: b.Collision.Interaction,
			Tool:        b.Collision.Tool,
		},
		Visibility:        b.Visibility,
		MaterialIndex:     b.MaterialIndex,
		PhysicalIndex:     b.PhysicalIndex,
		MaterialIntensity: b.MaterialIntensity,
		Color:             brickColor(b.Color),
		OwnerIndex:        b.OwnerIndex,
	}
	if b.Size.Procedural {
		out.Size = [3]uint32{b.Size.X, b.Size.Y, b.Size.Z}
	}
	return out
}

func (b *brick) toBrick() brs.Brick {
	out := brs.Brick{
		AssetNameIndex: b.AssetNameIndex,
		Position:       b.Position,
		Direction:      b.Direction,
		Rotation:       b.Rotation,
		Collision: brs.Collision{
			Player:      b.Collision.Player,
			Weapon:      b.Collision.Weapon,
			Interaction: b.Collision.Interaction,
			Tool:        b.Collision.Tool,
		},
		Visibility:        b.Visibility,
		MaterialIndex:     b.MaterialIndex,
		PhysicalIndex:     b.PhysicalIndex,
		MaterialIntensity: b.MaterialIntensity,
		Color:             brs.BrickColor(b.Color),
		OwnerIndex:        b.OwnerIndex,
	}
	// A zero size means the brick takes its extents from its asset.
	if b.Size != [3]uint32{} {
		out.Size = brs.ProceduralSize(b.Size[0], b.Size[1], b.Size[2])
	}
	return out
}

// Marshal returns the JSON form of s, indented for reading.
func Marshal(s *brs.SaveData) ([]byte, error) {
	d := document{
		Version:           s.Version,
		GameVersion:       s.GameVersion,
		Map:               s.Header1.Map,
		Description:       s.Header1.Description,
		Author:            fromUser(s.Header1.Author),
		BrickCount:        s.Header1.BrickCount,
		Mods:              nonNil(s.Header2.Mods),
		BrickAssets:       nonNil(s.Header2.BrickAssets),
		Colors:            make([]color, len(s.Header2.Colors)),
		Materials:         nonNil(s.Header2.Materials),
		BrickOwners:       make([]owner, len(s.Header2.BrickOwners)),
		PhysicalMaterials: nonNil(s.Header2.PhysicalMaterials),
		Bricks:            make([]brick, len(s.Bricks)),
		Components:        make(map[string]component, len(s.Components)),
	}
	if s.Header1.Host != nil {
		h := fromUser(*s.Header1.Host)
		d.Host = &h
	}
	if !s.Header1.SaveTime.IsZero() {
		d.SaveTime = s.Header1.SaveTime.UTC().Format(time.RFC3339Nano)
	}
	for i, c := range s.Header2.Colors {
		d.Colors[i] = color(c)
	}
	for i, o := range s.Header2.BrickOwners {
		d.BrickOwners[i] = owner{Name: o.Name, ID: o.ID, Bricks: o.Bricks}
	}
	if !s.Preview.IsEmpty() {
		d.Preview = &preview{Type: s.Preview.Type, Data: s.Preview.Data}
	}
	for name, c := range s.Components {
		props := make(map[string]string, len(c.Properties))
		for _, p := range c.Properties {
			props[p.Name] = p.Type.String()
		}
		d.Components[name] = component{
			Version:      c.Version,
			BrickIndices: nonNil(c.BrickIndices),
			Properties:   props,
		}
	}
	for i := range s.Bricks {
		b := &s.Bricks[i]
		d.Bricks[i] = fromBrick(*b)
		if len(b.Components) == 0 {
			continue
		}
		d.Bricks[i].Components = make(map[string]map[string]json.RawMessage, len(b.Components))
		for name, props := range b.Components {
			values := make(map[string]json.RawMessage, len(props))
			for prop, v := range props {
				raw, err := marshalValue(v)
				if err != nil {
					return nil, errors.Wrapf(err, "brick %d: %s.%s", i, name, prop)
				}
				values[prop] = raw
			}
			d.Bricks[i].Components[name] = values
		}
	}
	return json.MarshalIndent(d, "", "  ")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}

func marshalValue(v brs.Value) (json.RawMessage, error) {
	switch v := v.(type) {
	case brs.ClassValue:
		return json.Marshal(string(v))
	case brs.ObjectValue:
		return json.Marshal(string(v))
	case brs.StringValue:
		return json.Marshal(string(v))
	case brs.BoolValue:
		return json.Marshal(bool(v))
	case brs.FloatValue:
		return json.Marshal(float32(v))
	case brs.IntValue:
		return json.Marshal(int32(v))
	case brs.ByteValue:
		return json.Marshal(uint8(v))
	case brs.ColorValue:
		return color(v).MarshalJSON()
	case brs.RotatorValue:
		return json.Marshal([3]float32{v.Pitch, v.Yaw, v.Roll})
	default:
		return nil, errors.AssertionFailedf("brsjson: unexpected value type %T", v)
	}
}

// Unmarshal decodes the JSON form of a save. Absent fields take the defaults
// of brs.NewSaveData and brs.DefaultBrick. The brick count and component
// brick indices are recomputed from the bricks, as by brs.SaveData.Reindex.
//
// Brick component values must name a component in the top-level components
// object and one of its properties, or the error is marked
// brs.ErrBrokenReference. A value that does not decode as its property's type
// is an error marked brs.ErrInvalidEnumValue.
func Unmarshal(data []byte) (*brs.SaveData, error) {
	def := brs.NewSaveData()
	d := document{
		Version:           def.Version,
		Map:               def.Header1.Map,
		Author:            fromUser(def.Header1.Author),
		BrickAssets:       def.Header2.BrickAssets,
		Materials:         def.Header2.Materials,
		PhysicalMaterials: def.Header2.PhysicalMaterials,
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "brsjson: decoding save")
	}
	s := &brs.SaveData{
		Version:     d.Version,
		GameVersion: d.GameVersion,
		Header1: brs.Header1{
			Map:         d.Map,
			Description: d.Description,
			Author:      d.Author.toUser(),
			BrickCount:  d.BrickCount,
		},
		Header2: brs.Header2{
			Mods:              nilIfEmpty(d.Mods),
			BrickAssets:       nilIfEmpty(d.BrickAssets),
			Materials:         nilIfEmpty(d.Materials),
			PhysicalMaterials: nilIfEmpty(d.PhysicalMaterials),
		},
	}
	if d.Host != nil {
		h := d.Host.toUser()
		s.Header1.Host = &h
	}
	if d.SaveTime != "" {
		t, err := time.Parse(time.RFC3339Nano, d.SaveTime)
		if err != nil {
			return nil, base.MalformedHeaderf("brsjson: bad save time %q", d.SaveTime)
		}
		s.Header1.SaveTime = t.UTC()
	}
	for _, c := range d.Colors {
		s.Header2.Colors = append(s.Header2.Colors, brs.Color(c))
	}
	for _, o := range d.BrickOwners {
		s.Header2.BrickOwners = append(s.Header2.BrickOwners,
			brs.BrickOwner{User: brs.User{Name: o.Name, ID: o.ID}, Bricks: o.Bricks})
	}
	if d.Preview != nil {
		s.Preview = brs.Preview{Type: d.Preview.Type, Data: d.Preview.Data}
	}
	if len(d.Components) > 0 {
		s.Components = make(map[string]brs.Component, len(d.Components))
		for name, c := range d.Components {
			comp := brs.Component{Version: c.Version}
			for _, prop := range sortedKeys(c.Properties) {
				t, err := brs.ParsePropertyType(c.Properties[prop])
				if err != nil {
					return nil, errors.Wrapf(err, "component %s property %s", name, prop)
				}
				comp.Properties = append(comp.Properties, brs.PropertySchema{Name: prop, Type: t})
			}
			s.Components[name] = comp
		}
	}
	if len(d.Bricks) > 0 {
		s.Bricks = make([]brs.Brick, len(d.Bricks))
	}
	for i := range d.Bricks {
		b := &d.Bricks[i]
		s.Bricks[i] = b.toBrick()
		if len(b.Components) == 0 {
			continue
		}
		s.Bricks[i].Components = make(map[string]brs.Properties, len(b.Components))
		for name, values := range b.Components {
			comp, ok := s.Components[name]
			if !ok {
				return nil, base.BrokenReferencef("brsjson: brick %d carries unknown component %q", i, name)
			}
			props := make(brs.Properties, len(values))
			for prop, raw := range values {
				schema, ok := comp.Property(prop)
				if !ok {
					return nil, base.BrokenReferencef("brsjson: brick %d: component %q has no property %q", i, name, prop)
				}
				v, err := unmarshalValue(raw, schema.Type)
				if err != nil {
					return nil, errors.Mark(
						errors.Wrapf(err, "brsjson: brick %d: %s.%s", i, name, prop), brs.ErrInvalidEnumValue)
				}
				props[prop] = v
			}
			s.Bricks[i].Components[name] = props
		}
	}
	s.Reindex()
	return s, nil
}

func unmarshalValue(raw json.RawMessage, t brs.PropertyType) (brs.Value, error) {
	switch t {
	case brs.PropertyClass, brs.PropertyObject, brs.PropertyString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		switch t {
		case brs.PropertyClass:
			return brs.ClassValue(s), nil
		case brs.PropertyObject:
			return brs.ObjectValue(s), nil
		}
		return brs.StringValue(s), nil
	case brs.PropertyBoolean:
		var b bool
		err := json.Unmarshal(raw, &b)
		return brs.BoolValue(b), err
	case brs.PropertyFloat:
		var f float32
		err := json.Unmarshal(raw, &f)
		return brs.FloatValue(f), err
	case brs.PropertyInteger:
		var n int32
		err := json.Unmarshal(raw, &n)
		return brs.IntValue(n), err
	case brs.PropertyByte:
		var n uint8
		err := json.Unmarshal(raw, &n)
		return brs.ByteValue(n), err
	case brs.PropertyColor:
		var c color
		err := c.UnmarshalJSON(raw)
		return brs.ColorValue(c), err
	case brs.PropertyRotator:
		var r [3]float32
		err := json.Unmarshal(raw, &r)
		return brs.RotatorValue{Pitch: r[0], Yaw: r[1], Roll: r[2]}, err
	default:
		return nil, errors.AssertionFailedf("brsjson: unexpected property type %s", t)
	}
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
