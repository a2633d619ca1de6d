// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package octree indexes the bricks of a save by their world-space bounding
// boxes for region and adjacency queries.
//
// A Tree refers to bricks by their index in the slice it was built from and
// holds that slice without copying it. The tree does not observe changes to
// the bricks; rebuild it after editing them.
package octree

import (
	"slices"

	"github.com/brsgo/brs"
	"github.com/brsgo/brs/geom"
)

const (
	// DefaultLeafSize is the default number of bricks below which a node is
	// not split.
	DefaultLeafSize = 8
	// DefaultMaxDepth is the default maximum depth of the tree.
	DefaultMaxDepth = 16
)

// Options configures how a Tree is built.
type Options struct {
	// LeafSize is the number of bricks below which a node is not split.
	LeafSize int
	// MaxDepth bounds the depth of the tree. The root is at depth 0.
	MaxDepth int
}

// EnsureDefaults fills unset fields with their defaults.
func (o *Options) EnsureDefaults() {
	if o.LeafSize <= 0 {
		o.LeafSize = DefaultLeafSize
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
}

// Tree is a read-only octree over a set of bricks. It is safe for concurrent
// queries.
type Tree struct {
	bricks  []brs.Brick
	boxes   []Box
	indexed []bool
	count   int
	root    *node
	opts    Options
}

type node struct {
	bounds   Box
	items    []int32
	children [8]*node
}

// New builds a tree over bricks. Brick extents come from the brick's own size
// if procedural, and otherwise from lookup via the asset palette. Bricks with
// no volume, or whose extents cannot be resolved, are not indexed.
func New(bricks []brs.Brick, assets []string, lookup geom.Lookup, opts Options) *Tree {
	opts.EnsureDefaults()
	t := &Tree{
		bricks:  bricks,
		boxes:   make([]Box, len(bricks)),
		indexed: make([]bool, len(bricks)),
		opts:    opts,
	}
	items := make([]int32, 0, len(bricks))
	var bounds Box
	for i := range bricks {
		lo, hi, ok := geom.Bounds(&bricks[i], assets, lookup)
		if !ok {
			continue
		}
		b := MakeBox(lo, hi)
		if b.Empty() {
			continue
		}
		t.boxes[i] = b
		t.indexed[i] = true
		if len(items) == 0 {
			bounds = b
		} else {
			bounds = bounds.Union(b)
		}
		items = append(items, int32(i))
	}
	t.count = len(items)
	if len(items) > 0 {
		t.root = t.build(bounds, items, 0)
	}
	return t
}

// FromSave builds a tree over the bricks of s.
func FromSave(s *brs.SaveData, lookup geom.Lookup, opts Options) *Tree {
	return New(s.Bricks, s.Header2.BrickAssets, lookup, opts)
}

func (t *Tree) build(bounds Box, items []int32, depth int) *node {
	n := &node{bounds: bounds}
	if len(items) < t.opts.LeafSize || depth >= t.opts.MaxDepth {
		n.items = items
		return n
	}
	var mid [3]int64
	for axis := 0; axis < 3; axis++ {
		mid[axis] = (bounds.Min[axis] + bounds.Max[axis]) >> 1
	}
	var parts [8][]int32
	for _, i := range items {
		if o, ok := octantOf(t.boxes[i], mid); ok {
			parts[o] = append(parts[o], i)
		} else {
			n.items = append(n.items, i)
		}
	}
	for o := range parts {
		if len(parts[o]) == 0 {
			continue
		}
		n.children[o] = t.build(bounds.octant(o, mid), parts[o], depth+1)
	}
	return n
}

// octantOf returns the octant around mid that contains b entirely, if any.
func octantOf(b Box, mid [3]int64) (int, bool) {
	o := 0
	for axis := 0; axis < 3; axis++ {
		switch {
		case b.Max[axis] <= mid[axis]:
		case b.Min[axis] >= mid[axis]:
			o |= 1 << axis
		default:
			return 0, false
		}
	}
	return o, true
}

// Len returns the number of indexed bricks.
func (t *Tree) Len() int { return t.count }

// Bounds returns the union of the boxes of all indexed bricks.
func (t *Tree) Bounds() Box {
	if t.root == nil {
		return Box{}
	}
	return t.root.bounds
}

// Depth returns the depth of the deepest node.
func (t *Tree) Depth() int {
	var walk func(n *node, d int) int
	walk = func(n *node, d int) int {
		deepest := d
		for _, c := range n.children {
			if c != nil {
				deepest = max(deepest, walk(c, d+1))
			}
		}
		return deepest
	}
	if t.root == nil {
		return 0
	}
	return walk(t.root, 0)
}

// Box returns the bounding box of brick i and whether it is indexed.
func (t *Tree) Box(i int) (Box, bool) {
	if i < 0 || i >= len(t.boxes) || !t.indexed[i] {
		return Box{}, false
	}
	return t.boxes[i], true
}

// Brick returns brick i of the slice the tree was built from.
func (t *Tree) Brick(i int) *brs.Brick { return &t.bricks[i] }

// Query returns the indexes, in ascending order, of the bricks whose boxes
// overlap q with positive volume.
func (t *Tree) Query(q Box) []int {
	return t.search(q, func(b Box) bool { return true })
}

// BricksIn returns the bricks that are at least partially inside the box
// spanning lo to hi.
func (t *Tree) BricksIn(lo, hi [3]int64) []int {
	return t.Query(MakeBox(lo, hi))
}

// BoundsSide returns the bricks whose boxes touch the face of q that points in
// direction dir: they share the plane of that face and overlap q with positive
// area within it.
func (t *Tree) BoundsSide(q Box, dir brs.Direction) []int {
	axis := dir.Axis()
	slab := q
	var plane int64
	if dir.Positive() {
		plane = q.Max[axis]
		slab.Min[axis], slab.Max[axis] = plane, plane+1
	} else {
		plane = q.Min[axis]
		slab.Min[axis], slab.Max[axis] = plane-1, plane
	}
	return t.search(slab, func(b Box) bool {
		if dir.Positive() {
			return b.Min[axis] == plane
		}
		return b.Max[axis] == plane
	})
}

// BrickSide returns the bricks touching brick i on its face in direction dir.
// It returns nil if brick i is not indexed.
func (t *Tree) BrickSide(i int, dir brs.Direction) []int {
	b, ok := t.Box(i)
	if !ok {
		return nil
	}
	return t.BoundsSide(b, dir)
}

// search returns the bricks overlapping q that also satisfy keep, descending
// only into nodes that overlap q.
func (t *Tree) search(q Box, keep func(b Box) bool) []int {
	if t.root == nil || q.Empty() {
		return nil
	}
	var out []int
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, i := range n.items {
			if b := t.boxes[i]; b.Overlaps(q) && keep(b) {
				out = append(out, int(i))
			}
		}
		for _, c := range n.children {
			if c != nil && c.bounds.Overlaps(q) {
				stack = append(stack, c)
			}
		}
	}
	slices.Sort(out)
	return out
}
