// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"bytes"
	"slices"
	"sort"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/bitstream"
	"github.com/brsgo/brs/internal/wire"
	"github.com/cockroachdb/errors"
)

// decodeComponents decodes the payload of the components section and attaches
// each brick's property values to bricks.
//
// The section holds a count of components. Each component is its name, the
// byte length of its bit stream, and the bit stream itself: the component
// version, the indexes of the bricks carrying it, the property schema and,
// for every listed brick in order, one value per schema property.
func decodeComponents(data []byte, bricks []Brick) (map[string]Component, error) {
	d := wire.NewDecoder(bytes.NewReader(data))
	n, err := d.Count("component")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	components := make(map[string]Component, min(n, wire.MaxPrealloc))
	for i := 0; i < n; i++ {
		name, err := d.String("component name")
		if err != nil {
			return nil, errors.Wrapf(err, "component %d", errors.Safe(i))
		}
		size, err := d.Count("component byte")
		if err != nil {
			return nil, errors.Wrapf(err, "component %q", errors.Safe(name))
		}
		stream, err := d.Bytes(size, "component stream")
		if err != nil {
			return nil, errors.Wrapf(err, "component %q", errors.Safe(name))
		}
		c, err := decodeComponent(bitstream.NewReader(stream), name, bricks)
		if err != nil {
			return nil, errors.Wrapf(err, "component %q", errors.Safe(name))
		}
		components[name] = c
	}
	return components, nil
}

func readCount(r *bitstream.Reader, field string) (int, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, base.MalformedHeaderf("brs: negative %s count %d", errors.Safe(field), errors.Safe(n))
	}
	return int(n), nil
}

func decodeComponent(r *bitstream.Reader, name string, bricks []Brick) (Component, error) {
	var c Component
	var err error
	if c.Version, err = r.ReadInt32(); err != nil {
		return Component{}, err
	}

	n, err := readCount(r, "component brick")
	if err != nil {
		return Component{}, err
	}
	if n > 0 {
		c.BrickIndices = make([]uint32, 0, min(n, wire.MaxPrealloc))
	}
	bound := paletteBound(len(bricks))
	for i := 0; i < n; i++ {
		idx, err := r.ReadUint(bound)
		if err != nil {
			return Component{}, err
		}
		if int(idx) >= len(bricks) {
			return Component{}, base.BrokenReferencef("brs: component refers to brick %d of %d",
				errors.Safe(idx), errors.Safe(len(bricks)))
		}
		c.BrickIndices = append(c.BrickIndices, idx)
	}

	m, err := readCount(r, "component property")
	if err != nil {
		return Component{}, err
	}
	if m > 0 {
		c.Properties = make([]PropertySchema, 0, min(m, wire.MaxPrealloc))
	}
	for i := 0; i < m; i++ {
		prop, err := r.ReadString()
		if err != nil {
			return Component{}, err
		}
		tag, err := r.ReadString()
		if err != nil {
			return Component{}, err
		}
		t, err := ParsePropertyType(tag)
		if err != nil {
			return Component{}, errors.Wrapf(err, "property %q", errors.Safe(prop))
		}
		c.Properties = append(c.Properties, PropertySchema{Name: prop, Type: t})
	}

	for _, idx := range c.BrickIndices {
		props := make(Properties, len(c.Properties))
		for _, p := range c.Properties {
			v, err := readValue(r, p.Type)
			if err != nil {
				return Component{}, errors.Wrapf(err, "brick %d property %q", errors.Safe(idx), errors.Safe(p.Name))
			}
			props[p.Name] = v
		}
		b := &bricks[idx]
		if b.Components == nil {
			b.Components = make(map[string]Properties)
		}
		b.Components[name] = props
	}
	return c, nil
}

// componentNames returns the registered component names in sorted order.
func componentNames(components map[string]Component) []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// brickIndices returns, for every registered component, the ascending indexes
// of the bricks carrying it.
func brickIndices(s *SaveData) map[string][]uint32 {
	indices := make(map[string][]uint32, len(s.Components))
	for i := range s.Bricks {
		for name := range s.Bricks[i].Components {
			indices[name] = append(indices[name], uint32(i))
		}
	}
	return indices
}

// validateComponents checks the document-level component schemas.
func validateComponents(components map[string]Component) error {
	for _, name := range componentNames(components) {
		c := components[name]
		seen := make(map[string]struct{}, len(c.Properties))
		for _, p := range c.Properties {
			if !p.Type.Valid() {
				return base.InvalidEnumf("brs: component %q property %q has invalid type %s",
					errors.Safe(name), errors.Safe(p.Name), p.Type)
			}
			if _, ok := seen[p.Name]; ok {
				return base.BrokenReferencef("brs: component %q declares property %q twice",
					errors.Safe(name), errors.Safe(p.Name))
			}
			seen[p.Name] = struct{}{}
		}
	}
	return nil
}

// appendComponents encodes the components section payload. Components are
// written in name order so that the output is deterministic.
func appendComponents(dst []byte, s *SaveData) []byte {
	names := componentNames(s.Components)
	indices := brickIndices(s)
	bound := paletteBound(len(s.Bricks))
	dst = wire.AppendCount(dst, len(names))
	w := bitstream.NewWriter(0)
	for _, name := range names {
		c := s.Components[name]
		w.Reset()
		w.WriteInt32(c.Version)
		idx := indices[name]
		w.WriteInt32(int32(len(idx)))
		for _, i := range idx {
			w.WriteUint(i, bound)
		}
		w.WriteInt32(int32(len(c.Properties)))
		for _, p := range c.Properties {
			w.WriteString(p.Name)
			w.WriteString(p.Type.String())
		}
		for _, i := range idx {
			props := s.Bricks[i].Components[name]
			for _, p := range c.Properties {
				props[p.Name].encode(w)
			}
		}
		dst = wire.AppendString(dst, name)
		dst = wire.AppendCount(dst, w.Len())
		dst = append(dst, w.Bytes()...)
	}
	return dst
}

// Reindex updates the fields writers derive from the brick list: the header
// brick count and the brick indices of every component. Owner brick counts are
// left untouched.
func (s *SaveData) Reindex() {
	s.Header1.BrickCount = uint32(len(s.Bricks))
	indices := brickIndices(s)
	for name, c := range s.Components {
		c.BrickIndices = slices.Clone(indices[name])
		s.Components[name] = c
	}
}
