// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tool implements the brs command line tools: save inspection,
// annotated layout dumps, JSON conversion, recompression and neighbour
// queries.
package tool

import (
	"github.com/spf13/cobra"
)

// T is the container for all of the save tools.
type T struct {
	Commands []*cobra.Command

	info       *cobra.Command
	layout     *cobra.Command
	toJSON     *cobra.Command
	fromJSON   *cobra.Command
	recompress *cobra.Command
	neighbors  *cobra.Command

	configPath  string
	verbose     bool
	version     versionFlag
	compression compressionFlag
	maxBricks   int
	listBricks  int
	output      string
	direction   directionFlag
}

// New creates a new set of save tools.
func New() *T {
	t := &T{}
	t.info = &cobra.Command{
		Use:   "info <save>",
		Short: "print the headers and palettes of a save",
		Long: `
Print the headers of a save followed by tables of its asset, color,
material, physical material, owner and component palettes.
`,
		Args: cobra.ExactArgs(1),
		Run:  t.runInfo,
	}
	t.layout = &cobra.Command{
		Use:   "layout <save>",
		Short: "print an annotated dump of a save's bytes",
		Long: `
Print the prelude and section headers of a save with their file offsets,
followed by a field by field description of each decoded section.
`,
		Args: cobra.ExactArgs(1),
		Run:  t.runLayout,
	}
	t.toJSON = &cobra.Command{
		Use:   "json <save>",
		Short: "print a save as JSON",
		Args:  cobra.ExactArgs(1),
		Run:   t.runJSON,
	}
	t.fromJSON = &cobra.Command{
		Use:   "from-json <json> <save>",
		Short: "write a save from its JSON form",
		Long: `
Validate a JSON document against the save schema, decode it and write it
as a save. The JSON form is the one printed by the json command.
`,
		Args: cobra.ExactArgs(2),
		Run:  t.runFromJSON,
	}
	t.recompress = &cobra.Command{
		Use:   "recompress <in> <out>",
		Short: "rewrite a save with other writer options",
		Long: `
Read a save and write it again, possibly in an older format version or with
a different compression level. Data the target version cannot store is
reported and dropped.
`,
		Args: cobra.ExactArgs(2),
		Run:  t.runRecompress,
	}
	t.neighbors = &cobra.Command{
		Use:   "neighbors <save> <brick>",
		Short: "print the bricks touching a brick",
		Long: `
Index the bricks of a save in an octree and print, for each face of the
given brick, the bricks whose bounding boxes touch that face.
`,
		Args: cobra.ExactArgs(2),
		Run:  t.runNeighbors,
	}

	t.Commands = []*cobra.Command{
		t.info,
		t.layout,
		t.toJSON,
		t.fromJSON,
		t.recompress,
		t.neighbors,
	}
	for _, cmd := range t.Commands {
		cmd.Flags().StringVar(
			&t.configPath, "config", "", "YAML configuration file (defaults to $"+configEnv+")")
		cmd.Flags().BoolVarP(
			&t.verbose, "verbose", "v", false, "report inconsistencies found while decoding")
	}
	for _, cmd := range []*cobra.Command{t.fromJSON, t.recompress} {
		cmd.Flags().Var(&t.version, "version", "format version to write")
		cmd.Flags().Var(&t.compression, "compression", "compression level: default, none, fastest or best")
	}
	t.info.Flags().IntVar(
		&t.listBricks, "bricks", 0, "also list the first n bricks")
	t.layout.Flags().IntVar(
		&t.maxBricks, "max-bricks", 0, "maximum number of brick records to describe (0 for all)")
	t.toJSON.Flags().StringVarP(
		&t.output, "output", "o", "", "write the JSON to a file instead of stdout")
	t.neighbors.Flags().Var(
		&t.direction, "direction", "only print the neighbours in this direction")
	return t
}
