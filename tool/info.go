// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/brsgo/brs"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (t *T) runInfo(cmd *cobra.Command, args []string) {
	s, err := t.readSave(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	h1 := &s.Header1
	fmt.Fprintf(stdout, "version:      %s\n", s.Version)
	if s.GameVersion != 0 {
		fmt.Fprintf(stdout, "game version: %d\n", s.GameVersion)
	}
	fmt.Fprintf(stdout, "map:          %s\n", h1.Map)
	fmt.Fprintf(stdout, "description:  %s\n", h1.Description)
	fmt.Fprintf(stdout, "author:       %s\n", h1.Author)
	if h1.Host != nil {
		fmt.Fprintf(stdout, "host:         %s\n", *h1.Host)
	}
	if !h1.SaveTime.IsZero() {
		fmt.Fprintf(stdout, "saved:        %s\n", h1.SaveTime.Format(time.RFC3339))
	}
	fmt.Fprintf(stdout, "bricks:       %d\n", len(s.Bricks))
	if !s.Preview.IsEmpty() {
		fmt.Fprintf(stdout, "preview:      %s (%d bytes)\n", s.Preview.Type, len(s.Preview.Data))
	}
	if len(s.Header2.Mods) > 0 {
		fmt.Fprintf(stdout, "mods:         %s\n", strings.Join(s.Header2.Mods, ", "))
	}

	// Count how often each palette entry is used.
	h2 := &s.Header2
	assetUse := make([]int, len(h2.BrickAssets))
	colorUse := make([]int, len(h2.Colors))
	materialUse := make([]int, len(h2.Materials))
	physicalUse := make([]int, len(h2.PhysicalMaterials))
	unique := 0
	for i := range s.Bricks {
		b := &s.Bricks[i]
		count(assetUse, b.AssetNameIndex)
		count(materialUse, b.MaterialIndex)
		count(physicalUse, b.PhysicalIndex)
		if b.Color.IsUnique() {
			unique++
		} else {
			count(colorUse, b.Color.Index())
		}
	}

	fmt.Fprintln(stdout)
	paletteTable(stdout, "Asset", h2.BrickAssets, assetUse)
	colors := make([]string, len(h2.Colors))
	for i, c := range h2.Colors {
		colors[i] = c.String()
	}
	paletteTable(stdout, "Color", colors, colorUse)
	if unique > 0 {
		fmt.Fprintf(stdout, "%d bricks have a unique color\n", unique)
	}
	paletteTable(stdout, "Material", h2.Materials, materialUse)
	paletteTable(stdout, "Physical Material", h2.PhysicalMaterials, physicalUse)

	if len(h2.BrickOwners) > 0 {
		tbl := tablewriter.NewWriter(stdout)
		tbl.SetHeader([]string{"Owner", "Name", "ID", "Bricks"})
		for i, o := range h2.BrickOwners {
			tbl.Append([]string{
				strconv.Itoa(i + 1), o.Name, o.ID.String(), strconv.FormatUint(uint64(o.Bricks), 10),
			})
		}
		tbl.Render()
	}

	if len(s.Components) > 0 {
		names := make([]string, 0, len(s.Components))
		for name := range s.Components {
			names = append(names, name)
		}
		slices.Sort(names)
		tbl := tablewriter.NewWriter(stdout)
		tbl.SetHeader([]string{"Component", "Version", "Properties", "Bricks"})
		tbl.SetAutoWrapText(false)
		for _, name := range names {
			c := s.Components[name]
			props := make([]string, len(c.Properties))
			for i, p := range c.Properties {
				props[i] = p.Name + ":" + p.Type.String()
			}
			tbl.Append([]string{
				name, strconv.Itoa(int(c.Version)), strings.Join(props, " "), strconv.Itoa(len(c.BrickIndices)),
			})
		}
		tbl.Render()
	}

	if n := min(t.listBricks, len(s.Bricks)); n > 0 {
		tbl := tablewriter.NewWriter(stdout)
		tbl.SetHeader([]string{"Brick", "Asset", "Size", "Position", "Orientation", "Color", "Owner", "Components"})
		for i := 0; i < n; i++ {
			b := &s.Bricks[i]
			asset, _ := s.Asset(b)
			color := b.Color.String()
			if c, ok := b.Color.Resolve(h2.Colors); ok && !b.Color.IsUnique() {
				color += " " + c.String()
			}
			owner := "public"
			if o, ok := s.Owner(b); ok {
				owner = o.Name
			}
			comps := make([]string, 0, len(b.Components))
			for name := range b.Components {
				comps = append(comps, name)
			}
			slices.Sort(comps)
			tbl.Append([]string{
				strconv.Itoa(i),
				asset,
				b.Size.String(),
				fmt.Sprint(b.Position),
				b.Direction.String() + "/" + b.Rotation.String(),
				color,
				owner,
				strings.Join(comps, " "),
			})
		}
		tbl.Render()
	}
}

func count(use []int, i uint32) {
	if int(i) < len(use) {
		use[i]++
	}
}

func paletteTable(w io.Writer, title string, entries []string, use []int) {
	if len(entries) == 0 {
		return
	}
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Index", title, "Bricks"})
	for i, e := range entries {
		tbl.Append([]string{strconv.Itoa(i), e, strconv.Itoa(use[i])})
	}
	tbl.Render()
}

func (t *T) runLayout(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	if err := brs.Describe(stdout, data, brs.LayoutOptions{MaxBricks: t.maxBricks}); err != nil {
		fmt.Fprintf(stderr, "%s: %s\n", args[0], err)
	}
}
