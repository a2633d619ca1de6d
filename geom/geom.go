// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package geom maps bricks to world-space geometry: the default extents of
// static brick assets and the transforms implied by a brick's orientation.
//
// All extents are half extents in save units, measured from the brick's
// position to each face.
package geom

import (
	"fmt"

	"github.com/brsgo/brs"
)

// Extents holds half extents along the X, Y and Z axes.
type Extents [3]uint32

// IsZero reports whether the extents enclose no volume.
func (e Extents) IsZero() bool {
	return e[0] == 0 || e[1] == 0 || e[2] == 0
}

func (e Extents) String() string {
	return fmt.Sprintf("%dx%dx%d", e[0], e[1], e[2])
}

// Matrix is an axis-aligned rotation, stored row-major. Every row and every
// column holds exactly one non-zero entry, which is 1 or -1.
type Matrix [3][3]int32

// Identity is the transform of a brick facing ZPositive with no rotation.
var Identity = Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// directionMatrices rotate the local +Z axis onto each direction.
var directionMatrices = [...]Matrix{
	brs.XPositive: {{0, 0, 1}, {0, 1, 0}, {-1, 0, 0}},
	brs.XNegative: {{0, 0, -1}, {0, 1, 0}, {1, 0, 0}},
	brs.YPositive: {{1, 0, 0}, {0, 0, 1}, {0, -1, 0}},
	brs.YNegative: {{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	brs.ZPositive: Identity,
	brs.ZNegative: {{1, 0, 0}, {0, -1, 0}, {0, 0, -1}},
}

// quarterTurn rotates a quarter turn about +Z.
var quarterTurn = Matrix{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}

// Transform returns the transform of a brick facing dir with rotation rot:
// the rotation about the local Z axis is applied first, then the local Z axis
// is turned to face dir. It panics if either value is out of range.
func Transform(dir brs.Direction, rot brs.Rotation) Matrix {
	if !dir.Valid() || !rot.Valid() {
		panic(fmt.Sprintf("geom: invalid orientation %s/%s", dir, rot))
	}
	r := Identity
	for i := 0; i < int(rot); i++ {
		r = quarterTurn.Mul(r)
	}
	return directionMatrices[dir].Mul(r)
}

// Mul returns the composition m·n, which applies n first.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return out
}

// Inverse returns the inverse of m, which for a rotation is its transpose.
func (m Matrix) Inverse() Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Apply transforms v.
func (m Matrix) Apply(v [3]int32) [3]int32 {
	var out [3]int32
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// Oriented returns the world-space half extents of a box with local half
// extents e, facing dir with rotation rot.
func Oriented(e Extents, dir brs.Direction, rot brs.Rotation) Extents {
	m := Transform(dir, rot)
	var out Extents
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if m[i][j] != 0 {
				out[i] = e[j]
			}
		}
	}
	return out
}

// BrickExtents returns the world-space half extents of b. A procedural brick
// uses its own size; any other brick uses the default extents of its asset,
// named by assets[b.AssetNameIndex], from lookup. The second result is false
// if the asset index is out of range or the asset has no known extents.
func BrickExtents(b *brs.Brick, assets []string, lookup Lookup) (Extents, bool) {
	var e Extents
	if b.Size.Procedural {
		e = Extents{b.Size.X, b.Size.Y, b.Size.Z}
	} else {
		if int(b.AssetNameIndex) >= len(assets) || lookup == nil {
			return Extents{}, false
		}
		var ok bool
		if e, ok = lookup.Extents(assets[b.AssetNameIndex]); !ok {
			return Extents{}, false
		}
	}
	if !b.Direction.Valid() || !b.Rotation.Valid() {
		return Extents{}, false
	}
	return Oriented(e, b.Direction, b.Rotation), true
}

// Bounds returns the world-space bounding box of b as its minimum and maximum
// corners.
func Bounds(b *brs.Brick, assets []string, lookup Lookup) (lo, hi [3]int64, ok bool) {
	e, ok := BrickExtents(b, assets, lookup)
	if !ok {
		return lo, hi, false
	}
	for i := 0; i < 3; i++ {
		lo[i] = int64(b.Position[i]) - int64(e[i])
		hi[i] = int64(b.Position[i]) + int64(e[i])
	}
	return lo, hi, true
}
