// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package geom

import (
	"sort"

	"github.com/cockroachdb/swiss"
)

// Lookup resolves the default extents of a brick asset.
type Lookup interface {
	Extents(asset string) (Extents, bool)
}

// Table is a Lookup backed by a map from asset names to extents. A Table is
// not safe for concurrent use while entries are being registered.
type Table struct {
	m swiss.Map[string, Extents]
}

var _ Lookup = (*Table)(nil)

// builtinExtents lists the static assets shipped with the game.
// Procedural assets such as PB_DefaultBrick carry their size in each brick
// and are absent.
var builtinExtents = map[string]Extents{
	"B_1x1_Brick_Side":          {5, 5, 6},
	"B_1x1_Cone":                {5, 5, 6},
	"B_1x1_Round":               {5, 5, 6},
	"B_1x1F_Octo":               {5, 5, 2},
	"B_1x1F_Round":              {5, 5, 2},
	"B_1x2_Overhang":            {10, 5, 6},
	"B_1x2f_Plate_Center":       {10, 5, 2},
	"B_1x4_Brick_Side":          {20, 5, 6},
	"B_2x1_Slipper":             {5, 10, 6},
	"B_2x2_Cone":                {10, 10, 12},
	"B_2x2_Corner":              {10, 10, 6},
	"B_2x2_Overhang":            {10, 10, 6},
	"B_2x2_Round":               {10, 10, 6},
	"B_2x2_Slipper":             {10, 10, 6},
	"B_2x2F_Octo":               {10, 10, 2},
	"B_2x2F_Octo_Converter":     {10, 10, 2},
	"B_2x2F_Octo_Converter_Inv": {10, 10, 2},
	"B_2x2F_Round":              {10, 10, 2},
	"B_2x4_Door_Frame":          {20, 5, 36},
	"B_4x4_Round":               {20, 20, 6},
	"B_8x8_Lattice_Plate":       {40, 40, 2},
	"B_Bush":                    {10, 10, 10},
	"B_Flower":                  {5, 5, 6},
	"B_Gravestone":              {10, 4, 12},
	"B_Pine_Tree":               {25, 25, 60},
	"B_Small_Flower":            {3, 3, 4},
	"B_Sphere":                  {5, 5, 5},
}

// NewTable returns an empty Table.
func NewTable() *Table {
	t := &Table{}
	t.m.Init(0)
	return t
}

// DefaultTable returns a Table holding the extents of the built-in static
// assets. Each call returns a new Table, so registering entries on it does
// not affect other callers.
func DefaultTable() *Table {
	t := &Table{}
	t.m.Init(len(builtinExtents))
	for name, e := range builtinExtents {
		t.m.Put(name, e)
	}
	return t
}

// Register sets the extents of an asset, replacing any previous entry.
func (t *Table) Register(asset string, e Extents) {
	t.m.Put(asset, e)
}

// Extents implements Lookup.
func (t *Table) Extents(asset string) (Extents, bool) {
	return t.m.Get(asset)
}

// Len returns the number of registered assets.
func (t *Table) Len() int {
	return t.m.Len()
}

// Assets returns the registered asset names in sorted order.
func (t *Table) Assets() []string {
	names := make([]string, 0, t.m.Len())
	t.m.All(func(name string, _ Extents) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
