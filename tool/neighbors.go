// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brsgo/brs"
	"github.com/brsgo/brs/octree"
	"github.com/spf13/cobra"
)

func (t *T) runNeighbors(cmd *cobra.Command, args []string) {
	s, err := t.readSave(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	i, err := strconv.Atoi(args[1])
	if err != nil || i < 0 || i >= len(s.Bricks) {
		fmt.Fprintf(stderr, "invalid brick %q: the save has %d bricks\n", args[1], len(s.Bricks))
		return
	}
	cfg, err := LoadConfig(t.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	tree := octree.FromSave(s, cfg.Lookup(), cfg.OctreeOptions())
	box, ok := tree.Box(i)
	if !ok {
		asset, _ := s.Asset(&s.Bricks[i])
		fmt.Fprintf(stderr, "brick %d (%s) has no known extents\n", i, asset)
		return
	}
	if t.verbose {
		fmt.Fprintf(stderr, "indexed %d of %d bricks, depth %d\n", tree.Len(), len(s.Bricks), tree.Depth())
	}
	fmt.Fprintf(stdout, "brick %d: %s\n", i, box)
	dirs := brs.Directions()
	if t.direction.set {
		dirs = []brs.Direction{t.direction.d}
	}
	for _, d := range dirs {
		side := tree.BrickSide(i, d)
		names := make([]string, len(side))
		for j, n := range side {
			names[j] = strconv.Itoa(n)
		}
		if len(names) == 0 {
			names = append(names, "none")
		}
		fmt.Fprintf(stdout, "%s: %s\n", d, strings.Join(names, " "))
	}
}
