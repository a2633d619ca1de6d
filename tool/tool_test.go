// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brsgo/brs"
	"github.com/brsgo/brs/brsjson"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// run executes the tool with args and returns what it printed to stdout and
// stderr.
func run(t *testing.T, args ...string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	defer func() {
		stdout, stderr = os.Stdout, os.Stderr
	}()

	c := &cobra.Command{}
	c.AddCommand(New().Commands...)
	c.SetArgs(args)
	c.SetOutput(&errOut)
	if err := c.Execute(); err != nil {
		fmt.Fprintf(&errOut, "%s\n", err)
	}
	return out.String(), errOut.String()
}

// writeFixture writes a small save to dir and returns its path. The save
// holds a row of three touching plates and a light on the middle one.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	owner := brs.User{Name: "Carol", ID: uuid.MustParse("ca501000-0003-4000-8000-000000000123")}
	b := brs.NewBuilder(brs.Header1{
		Map:         "Plate",
		Description: "three plates",
		Author:      owner,
		SaveTime:    time.Date(2024, time.May, 1, 12, 30, 0, 0, time.UTC),
	})
	b.SetGameVersion(3642)
	b.RegisterComponent("BCD_PointLight", 1, brs.PropertySchema{Name: "Radius", Type: brs.PropertyFloat})
	for i := 0; i < 3; i++ {
		brick := brs.DefaultBrick()
		brick.AssetNameIndex = b.Asset("PB_DefaultBrick")
		brick.Size = brs.ProceduralSize(5, 5, 2)
		brick.Position = [3]int32{int32(i * 10), 0, 2}
		brick.Color = brs.ColorIndex(b.Color(brs.RGBA(255, 0, 0, 255)))
		brick.OwnerIndex = b.Owner(owner)
		if i == 1 {
			brick.Components = map[string]brs.Properties{"BCD_PointLight": {"Radius": brs.FloatValue(20)}}
		}
		b.AddBrick(brick)
	}
	s, err := b.Build()
	require.NoError(t, err)

	path := filepath.Join(dir, "plates.brs")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, brs.Write(f, s, brs.WriterOptions{}))
	require.NoError(t, f.Close())
	return path
}

func TestInfo(t *testing.T) {
	path := writeFixture(t, t.TempDir())
	out, errOut := run(t, "info", path, "--bricks", "2")
	require.Empty(t, errOut)
	for _, want := range []string{
		"version:      v10",
		"game version: 3642",
		"map:          Plate",
		"author:       Carol (ca501000-0003-4000-8000-000000000123)",
		"saved:        2024-05-01T12:30:00Z",
		"bricks:       3",
		"PB_DefaultBrick",
		"#ff0000ff",
		"BMC_Plastic",
		"BPMC_Default",
		"BCD_PointLight",
		"Radius:Float",
		"ZPositive/Deg0",
	} {
		require.Contains(t, out, want)
	}
	require.NotContains(t, out, "preview:")
}

func TestLayout(t *testing.T) {
	path := writeFixture(t, t.TempDir())
	out, errOut := run(t, "layout", path, "--max-bricks", "1")
	require.Empty(t, errOut)
	require.True(t, strings.HasPrefix(out, "prelude\n"), out)
	require.Contains(t, out, "brick 0: ")
	require.Contains(t, out, "# 2 more bricks")
	require.Contains(t, out, "BCD_PointLight stream (version 1)")

	bad := filepath.Join(t.TempDir(), "bad.brs")
	require.NoError(t, os.WriteFile(bad, []byte("BRX\x0a\x00"), 0644))
	_, errOut = run(t, "layout", bad)
	require.Contains(t, errOut, "bad magic")
}

func TestJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)
	jsonPath := filepath.Join(dir, "plates.json")
	out, errOut := run(t, "json", path, "--output", jsonPath)
	require.Empty(t, errOut)
	require.Empty(t, out)
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.NoError(t, brsjson.Validate(data))

	copyPath := filepath.Join(dir, "copy.brs")
	out, errOut = run(t, "from-json", jsonPath, copyPath)
	require.Empty(t, errOut)
	require.Equal(t, "wrote 3 bricks to "+copyPath+"\n", out)

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	copied, err := os.ReadFile(copyPath)
	require.NoError(t, err)
	require.Equal(t, original, copied)

	stdoutJSON, _ := run(t, "json", copyPath)
	require.Equal(t, string(data)+"\n", stdoutJSON)

	// Documents that fail the schema are rejected before anything is written.
	badJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte(`{"version": 42, "bricks": []}`), 0644))
	_, errOut = run(t, "from-json", badJSON, filepath.Join(dir, "never.brs"))
	require.Contains(t, errOut, "bad.json")
	_, err = os.Stat(filepath.Join(dir, "never.brs"))
	require.True(t, os.IsNotExist(err))
}

func TestRecompress(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)
	raw := filepath.Join(dir, "raw.brs")
	out, errOut := run(t, "recompress", path, raw, "--compression", "none")
	require.Empty(t, errOut)
	require.Contains(t, out, "-> "+raw)

	old := filepath.Join(dir, "old.brs")
	_, errOut = run(t, "recompress", raw, old, "--version", "v4")
	require.Contains(t, errOut, "brs: v4 cannot store components, dropping 1")

	f, err := os.Open(old)
	require.NoError(t, err)
	defer f.Close()
	s, err := brs.Read(f, brs.ReaderOptions{Logger: brs.NoopLogger{}})
	require.NoError(t, err)
	require.Equal(t, brs.FormatSaveTime, s.Version)
	require.Len(t, s.Bricks, 3)

	_, errOut = run(t, "recompress", path, old, "--version", "11")
	require.Contains(t, errOut, "unknown format version")
}

func TestNeighbors(t *testing.T) {
	path := writeFixture(t, t.TempDir())
	out, errOut := run(t, "neighbors", path, "1")
	require.Empty(t, errOut)
	require.Equal(t, `brick 1: [5,-5,0]-[15,5,4]
XPositive: 2
XNegative: 0
YPositive: none
YNegative: none
ZPositive: none
ZNegative: none
`, out)

	out, _ = run(t, "neighbors", path, "0", "--direction", "XPositive")
	require.Equal(t, "brick 0: [-5,-5,0]-[5,5,4]\nXPositive: 1\n", out)

	_, errOut = run(t, "neighbors", path, "3")
	require.Contains(t, errOut, "the save has 3 bricks")
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "brs.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
writer:
  version: 9
  compression: best
octree:
  leaf_size: 2
  max_depth: 4
assets:
  B_Custom: [1, 2, 3]
`), 0644))
	cfg, err := LoadConfig(cfgPath)
	require.NoError(t, err)
	opts, err := cfg.WriterOptions()
	require.NoError(t, err)
	require.Equal(t, brs.FormatPhysicalMaterials, opts.Version)
	require.Equal(t, brs.BestCompression, opts.Compression)
	require.Equal(t, 2, cfg.OctreeOptions().LeafSize)
	require.Equal(t, 4, cfg.OctreeOptions().MaxDepth)
	e, ok := cfg.Lookup().Extents("B_Custom")
	require.True(t, ok)
	require.EqualValues(t, [3]uint32{1, 2, 3}, e)
	_, ok = cfg.Lookup().Extents("B_1x1_Round")
	require.True(t, ok)

	t.Setenv(configEnv, "")
	empty, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, &Config{}, empty)

	t.Setenv(configEnv, cfgPath)
	fromEnv, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, cfg, fromEnv)

	for _, bad := range []string{"writer:\n  version: 12\n", "writer:\n  compression: max\n"} {
		require.NoError(t, os.WriteFile(cfgPath, []byte(bad), 0644))
		cfg, err := LoadConfig(cfgPath)
		require.NoError(t, err)
		_, err = cfg.WriterOptions()
		require.Error(t, err)
	}
	require.NoError(t, os.WriteFile(cfgPath, []byte("writer: [\n"), 0644))
	_, err = LoadConfig(cfgPath)
	require.Error(t, err)

	// Flags override the configuration file.
	require.NoError(t, os.WriteFile(cfgPath, []byte("writer:\n  version: 4\n"), 0644))
	save := writeFixture(t, dir)
	out := filepath.Join(dir, "out.brs")
	run(t, "recompress", save, out, "--config", cfgPath, "--version", "8")
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	r, err := brs.NewReader(f, brs.ReaderOptions{})
	require.NoError(t, err)
	require.Equal(t, brs.FormatComponents, r.Version())
}

func TestFlagParsing(t *testing.T) {
	var v versionFlag
	require.NoError(t, v.Set("v8"))
	require.Equal(t, "v8", v.String())
	require.NoError(t, v.Set("10"))
	require.Equal(t, brs.FormatNewest, v.v)
	for _, bad := range []string{"0", "v11", "ten", ""} {
		require.Error(t, v.Set(bad), bad)
	}

	var c compressionFlag
	require.Equal(t, "", c.String())
	require.NoError(t, c.Set("fastest"))
	require.Equal(t, brs.FastestCompression, c.level)
	require.Error(t, c.Set("max"))

	var d directionFlag
	require.NoError(t, d.Set("ZNegative"))
	require.Equal(t, brs.ZNegative, d.d)
	require.Error(t, d.Set("Up"))
}
