// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package octree

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/brsgo/brs"
	"github.com/brsgo/brs/geom"
	"github.com/stretchr/testify/require"
)

// grid returns nx*ny*nz touching 1x1 bricks, ordered by x, then y, then z.
func grid(nx, ny, nz int) []brs.Brick {
	var bricks []brs.Brick
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			for z := 0; z < nz; z++ {
				b := brs.DefaultBrick()
				b.Size = brs.ProceduralSize(5, 5, 6)
				b.Position = [3]int32{int32(x * 10), int32(y * 10), int32(z*12 + 6)}
				bricks = append(bricks, b)
			}
		}
	}
	return bricks
}

// bruteSide checks every brick against brick i.
func bruteSide(tree *Tree, i int, dir brs.Direction) []int {
	q, ok := tree.Box(i)
	if !ok {
		return nil
	}
	axis := dir.Axis()
	var out []int
	for j := range tree.bricks {
		b, ok := tree.Box(j)
		if !ok || j == i {
			continue
		}
		if dir.Positive() && b.Min[axis] != q.Max[axis] {
			continue
		}
		if !dir.Positive() && b.Max[axis] != q.Min[axis] {
			continue
		}
		touching := true
		for other := 0; other < 3; other++ {
			if other == axis {
				continue
			}
			if b.Min[other] >= q.Max[other] || q.Min[other] >= b.Max[other] {
				touching = false
			}
		}
		if touching {
			out = append(out, j)
		}
	}
	return out
}

func bruteQuery(tree *Tree, q Box) []int {
	var out []int
	for j := range tree.bricks {
		if b, ok := tree.Box(j); ok && b.Overlaps(q) {
			out = append(out, j)
		}
	}
	return out
}

func TestGridAdjacency(t *testing.T) {
	const nx, ny, nz = 6, 5, 4
	bricks := grid(nx, ny, nz)
	index := func(x, y, z int) int { return (x*ny+y)*nz + z }
	for _, opts := range []Options{{}, {LeafSize: 1}, {LeafSize: 2, MaxDepth: 3}} {
		t.Run(fmt.Sprintf("leaf=%d,depth=%d", opts.LeafSize, opts.MaxDepth), func(t *testing.T) {
			tree := New(bricks, nil, nil, opts)
			require.Equal(t, len(bricks), tree.Len())
			if opts.LeafSize == 1 {
				require.Positive(t, tree.Depth())
			}
			for x := 0; x < nx; x++ {
				for y := 0; y < ny; y++ {
					for z := 0; z < nz; z++ {
						i := index(x, y, z)
						p := [3]int{x, y, z}
						for _, d := range brs.Directions() {
							q := p
							if d.Positive() {
								q[d.Axis()]++
							} else {
								q[d.Axis()]--
							}
							var want []int
							if q[0] >= 0 && q[0] < nx && q[1] >= 0 && q[1] < ny && q[2] >= 0 && q[2] < nz {
								want = []int{index(q[0], q[1], q[2])}
							}
							got := tree.BrickSide(i, d)
							require.Equal(t, want, got, "brick %v %s", p, d)
							require.Equal(t, bruteSide(tree, i, d), got)
						}
					}
				}
			}
		})
	}
}

func randomBricks(rng *rand.Rand, n int) []brs.Brick {
	bricks := make([]brs.Brick, n)
	for i := range bricks {
		b := brs.DefaultBrick()
		// Coarse coordinates make touching faces common.
		b.Size = brs.ProceduralSize((1+rng.Uint32N(4))*5, (1+rng.Uint32N(4))*5, (1+rng.Uint32N(2))*5)
		for axis := range b.Position {
			b.Position[axis] = int32(rng.IntN(40)-20) * 5
		}
		b.Direction = brs.Directions()[rng.IntN(6)]
		b.Rotation = brs.Rotation(rng.IntN(4))
		bricks[i] = b
	}
	return bricks
}

func TestRandomAgainstBruteForce(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	t.Logf("seed %d", seed)
	rng := rand.New(rand.NewPCG(seed, seed))

	bricks := randomBricks(rng, 500)
	tree := New(bricks, nil, nil, Options{LeafSize: 4})
	require.Equal(t, 500, tree.Len())
	for i := range bricks {
		for _, d := range brs.Directions() {
			require.Equal(t, bruteSide(tree, i, d), tree.BrickSide(i, d), "brick %d %s", i, d)
		}
	}
	for i := 0; i < 200; i++ {
		var q Box
		for axis := 0; axis < 3; axis++ {
			a, b := int64(rng.IntN(240)-120), int64(rng.IntN(240)-120)
			q.Min[axis], q.Max[axis] = min(a, b), max(a, b)
		}
		require.Equal(t, bruteQuery(tree, q), tree.Query(q), "query %s", q)
	}
}

func TestQuery(t *testing.T) {
	tree := New(grid(4, 4, 1), nil, nil, Options{LeafSize: 2})
	// Brick (0,0) spans [-5,5]x[-5,5]x[0,12].
	require.Equal(t, []int{0}, tree.BricksIn([3]int64{-5, -5, 0}, [3]int64{5, 5, 12}))
	require.Equal(t, []int{0, 1, 4, 5}, tree.BricksIn([3]int64{0, 0, 0}, [3]int64{6, 6, 1}))
	// Touching is not overlapping.
	require.Empty(t, tree.BricksIn([3]int64{-10, -10, 0}, [3]int64{-5, -5, 12}))
	require.Empty(t, tree.BricksIn([3]int64{0, 0, 12}, [3]int64{10, 10, 20}))
	require.Empty(t, tree.Query(Box{}))
	require.Len(t, tree.Query(tree.Bounds()), 16)
	require.Equal(t, MakeBox([3]int64{-5, -5, 0}, [3]int64{35, 35, 12}), tree.Bounds())
}

func TestDegenerateQuery(t *testing.T) {
	b := brs.DefaultBrick()
	b.Size = brs.ProceduralSize(5, 5, 5)
	tree := New([]brs.Brick{b}, nil, nil, Options{})
	flat := MakeBox([3]int64{-1, -1, 0}, [3]int64{1, 1, 0})
	box, ok := tree.Box(0)
	require.True(t, ok)
	require.False(t, box.Overlaps(flat))
	require.False(t, flat.Overlaps(box))
	require.Nil(t, tree.Query(flat))
	require.Nil(t, bruteQuery(tree, flat))

	// A flat query through the middle of a random field matches nothing.
	rng := rand.New(rand.NewPCG(1791988121429485922, 1791988121429485922))
	tree = New(randomBricks(rng, 500), nil, nil, Options{LeafSize: 4})
	q := MakeBox([3]int64{24, -88, 28}, [3]int64{76, -45, 28})
	require.Equal(t, bruteQuery(tree, q), tree.Query(q))
	require.Nil(t, tree.Query(q))
}

func TestBoundsSide(t *testing.T) {
	tree := New(grid(3, 3, 1), nil, nil, Options{})
	// A volume above the whole grid touches nothing; one below its top face
	// region touches the bricks under it.
	require.Empty(t, tree.BoundsSide(MakeBox([3]int64{-5, -5, 13}, [3]int64{25, 25, 20}), brs.ZNegative))
	require.Equal(t, []int{0, 1, 3, 4},
		tree.BoundsSide(MakeBox([3]int64{-5, -5, 12}, [3]int64{10, 10, 20}), brs.ZNegative))
	require.Equal(t, []int{6},
		tree.BoundsSide(MakeBox([3]int64{-10, -5, 0}, [3]int64{15, 4, 12}), brs.XPositive))
}

func TestUnindexedBricks(t *testing.T) {
	assets := []string{"PB_DefaultBrick", "B_1x1_Round", "B_Mystery"}
	bricks := make([]brs.Brick, 4)
	for i := range bricks {
		bricks[i] = brs.DefaultBrick()
	}
	bricks[0].Size = brs.ProceduralSize(5, 5, 0)
	bricks[1].AssetNameIndex = 1
	bricks[2].AssetNameIndex = 2
	bricks[3].AssetNameIndex = 1
	bricks[3].Position = [3]int32{10, 0, 0}

	tree := New(bricks, assets, geom.DefaultTable(), Options{})
	require.Equal(t, 2, tree.Len())
	_, ok := tree.Box(0)
	require.False(t, ok)
	_, ok = tree.Box(2)
	require.False(t, ok)
	_, ok = tree.Box(7)
	require.False(t, ok)
	require.Nil(t, tree.BrickSide(0, brs.XPositive))
	require.Equal(t, []int{3}, tree.BrickSide(1, brs.XPositive))
	require.Equal(t, []int{1}, tree.BrickSide(3, brs.XNegative))
	require.Same(t, &bricks[3], tree.Brick(3))

	empty := New(nil, nil, nil, Options{})
	require.Zero(t, empty.Len())
	require.Nil(t, empty.Query(MakeBox([3]int64{0, 0, 0}, [3]int64{1, 1, 1})))
	require.Equal(t, Box{}, empty.Bounds())
}

func TestFromSave(t *testing.T) {
	s := brs.NewSaveData()
	s.Header2.BrickAssets = append(s.Header2.BrickAssets, "B_2x2_Round")
	s.Bricks = grid(2, 1, 1)
	s.Bricks[1].Size = brs.EmptySize
	s.Bricks[1].AssetNameIndex = 1
	s.Bricks[1].Position[0] = 15
	tree := FromSave(s, geom.DefaultTable(), Options{})
	require.Equal(t, 2, tree.Len())
	b, ok := tree.Box(1)
	require.True(t, ok)
	require.Equal(t, MakeBox([3]int64{5, -10, 0}, [3]int64{25, 10, 12}), b)
	require.Equal(t, []int{1}, tree.BrickSide(0, brs.XPositive))
	require.Equal(t, []int{0}, tree.BrickSide(1, brs.XNegative))
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.EnsureDefaults()
	require.Equal(t, Options{LeafSize: DefaultLeafSize, MaxDepth: DefaultMaxDepth}, o)
}
