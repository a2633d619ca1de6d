// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brsjson

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/brsgo/brs"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"
)

var (
	alice = brs.User{Name: "Alice", ID: uuid.MustParse("a1b2c3d4-0001-4000-8000-00000000c0de")}
	bob   = brs.User{Name: "Bob", ID: uuid.MustParse("b0b0b0b0-0002-4000-8000-000000000bad")}
)

// sampleSave returns a save using every JSON feature. Component property
// schemas are in name order, as Unmarshal returns them.
func sampleSave(t *testing.T) *brs.SaveData {
	b := brs.NewBuilder(brs.Header1{
		Map:         "Plate",
		Description: "json sample",
		Author:      alice,
		Host:        &bob,
		SaveTime:    time.Date(2024, time.May, 1, 12, 30, 0, 123456700, time.UTC),
	})
	b.SetGameVersion(3642)
	b.SetPreview(brs.Preview{Type: brs.PreviewPNG, Data: []byte("\x89PNG")})
	b.AddMod("mod_a")
	b.RegisterComponent("BCD_Interact", 2,
		brs.PropertySchema{Name: "Channel", Type: brs.PropertyByte},
		brs.PropertySchema{Name: "Class", Type: brs.PropertyClass},
		brs.PropertySchema{Name: "Count", Type: brs.PropertyInteger},
		brs.PropertySchema{Name: "Message", Type: brs.PropertyString},
		brs.PropertySchema{Name: "Rotation", Type: brs.PropertyRotator},
		brs.PropertySchema{Name: "Target", Type: brs.PropertyObject},
		brs.PropertySchema{Name: "bPlayInteractSound", Type: brs.PropertyBoolean},
	)
	b.RegisterComponent("BCD_PointLight", 1,
		brs.PropertySchema{Name: "Brightness", Type: brs.PropertyFloat},
		brs.PropertySchema{Name: "Color", Type: brs.PropertyColor},
	)
	b.RegisterComponent("BCD_Unused", 1)

	plain := brs.DefaultBrick()
	plain.AssetNameIndex = b.Asset("PB_DefaultBrick")
	plain.Size = brs.ProceduralSize(5, 5, 6)
	plain.Color = brs.ColorIndex(b.Color(brs.RGBA(255, 0, 0, 255)))
	plain.MaterialIndex = b.Material("BMC_Plastic")
	plain.PhysicalIndex = b.PhysicalMaterial("BPMC_Default")
	b.AddBrick(plain)

	round := plain
	round.AssetNameIndex = b.Asset("B_1x1_Round")
	round.Size = brs.EmptySize
	round.Position = [3]int32{-10, 20, 6}
	round.Direction = brs.YNegative
	round.Rotation = brs.Deg270
	round.Collision = brs.Collision{Weapon: true}
	round.Visibility = false
	round.MaterialIndex = b.Material("BMC_Glow")
	round.MaterialIntensity = 10
	round.Color = brs.UniqueColor(brs.RGBA(1, 2, 3, 255))
	round.OwnerIndex = b.Owner(bob)
	round.Components = map[string]brs.Properties{
		"BCD_PointLight": {
			"Brightness": brs.FloatValue(0.5),
			"Color":      brs.ColorValue(brs.RGBA(9, 8, 7, 255)),
		},
		"BCD_Interact": {
			"Channel":            brs.ByteValue(200),
			"Class":              brs.ClassValue("BP_Door_C"),
			"Count":              brs.IntValue(-7),
			"Message":            brs.StringValue("héllo"),
			"Rotation":           brs.RotatorValue{Pitch: 1.5, Yaw: 90, Roll: -45},
			"Target":             brs.ObjectValue("None"),
			"bPlayInteractSound": brs.BoolValue(true),
		},
	}
	b.AddBrick(round)

	s, err := b.Build()
	require.NoError(t, err)
	return s
}

func requireEqualSave(t *testing.T, want, got *brs.SaveData) {
	t.Helper()
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("saves differ:\n%s", strings.Join(diff, "\n"))
	}
}

func TestRoundTrip(t *testing.T) {
	s := sampleSave(t)
	data, err := Marshal(s)
	require.NoError(t, err)
	t.Log(string(data))
	require.NoError(t, Validate(data))

	got, err := Unmarshal(data)
	require.NoError(t, err)
	requireEqualSave(t, s, got)

	// The JSON form survives the binary format too.
	var buf bytes.Buffer
	require.NoError(t, brs.Write(&buf, got, brs.WriterOptions{Logger: brs.NoopLogger{}}))
	decoded, err := brs.Read(&buf, brs.ReaderOptions{})
	require.NoError(t, err)
	again, err := Marshal(decoded)
	require.NoError(t, err)
	require.Equal(t, string(data), string(again))
}

func TestMarshalFields(t *testing.T) {
	data, err := Marshal(sampleSave(t))
	require.NoError(t, err)
	out := string(data)
	for _, want := range []string{
		`"version": 10`,
		`"game_version": 3642`,
		`"map": "Plate"`,
		`"brick_count": 2`,
		`"save_time": "2024-05-01T12:30:00.1234567Z"`,
		`"Brightness": "Float"`,
		`"brick_indices": [`,
		`"asset_name_index": 1`,
		`"direction": 3`,
		`"material_intensity": 10`,
	} {
		require.Contains(t, out, want)
	}
	require.NotContains(t, out, `"components": null`)
}

func TestUnmarshalDefaults(t *testing.T) {
	s, err := Unmarshal([]byte(`{"version": 9, "bricks": [{"position": [1, 2, 3]}, {"color": [1, 2, 3], "size": [4, 5, 6]}]}`))
	require.NoError(t, err)
	require.Equal(t, brs.FormatPhysicalMaterials, s.Version)
	require.Equal(t, "Unknown", s.Header1.Map)
	require.Equal(t, []string{"PB_DefaultBrick"}, s.Header2.BrickAssets)
	require.Equal(t, uint32(2), s.Header1.BrickCount)
	require.True(t, s.Header1.SaveTime.IsZero())
	require.Nil(t, s.Header1.Host)
	require.True(t, s.Preview.IsEmpty())

	want := brs.DefaultBrick()
	want.Position = [3]int32{1, 2, 3}
	require.Equal(t, want, s.Bricks[0])
	require.Equal(t, brs.UniqueColor(brs.RGBA(1, 2, 3, 255)), s.Bricks[1].Color)
	require.Equal(t, brs.ProceduralSize(4, 5, 6), s.Bricks[1].Size)
	require.Equal(t, brs.AllCollision, s.Bricks[1].Collision)

	s, err = Unmarshal([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, brs.FormatNewest, s.Version)
	require.Empty(t, s.Bricks)
	require.Nil(t, s.Components)
}

func TestZeroProceduralSize(t *testing.T) {
	s := brs.NewSaveData()
	b := brs.DefaultBrick()
	b.Size = brs.ProceduralSize(0, 0, 0)
	s.Bricks = append(s.Bricks, b)
	data, err := Marshal(s)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, decoded.Bricks, 1)
	require.Equal(t, brs.EmptySize, decoded.Bricks[0].Size)
}

func TestUnmarshalErrors(t *testing.T) {
	testCases := []struct {
		name   string
		doc    string
		marker error
	}{
		{"unknown component", `{"bricks": [{"components": {"BCD_X": {}}}]}`, brs.ErrBrokenReference},
		{"unknown property",
			`{"components": {"BCD_X": {"version": 1, "properties": {"A": "Float"}}},
			  "bricks": [{"components": {"BCD_X": {"B": 1}}}]}`, brs.ErrBrokenReference},
		{"mistyped value",
			`{"components": {"BCD_X": {"version": 1, "properties": {"A": "Float"}}},
			  "bricks": [{"components": {"BCD_X": {"A": "one"}}}]}`, brs.ErrInvalidEnumValue},
		{"unknown property type",
			`{"components": {"BCD_X": {"version": 1, "properties": {"A": "Double"}}}}`, brs.ErrInvalidEnumValue},
		{"bad save time", `{"save_time": "yesterday"}`, brs.ErrMalformedHeader},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.doc))
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.marker), "%+v", err)
		})
	}

	for _, doc := range []string{`{"colors": [[1, 2]]}`, `{"bricks": [{"color": "red"}]}`, `not json`} {
		_, err := Unmarshal([]byte(doc))
		require.Error(t, err, doc)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate([]byte(`{"version": 10, "bricks": []}`)))
	require.NotEmpty(t, Schema())

	for _, doc := range []string{
		`not json`,
		`{"bricks": []}`,
		`{"version": 11, "bricks": []}`,
		`{"version": 10}`,
		`{"version": 10, "bricks": [], "bogus": 1}`,
		`{"version": 10, "bricks": [{"direction": 6}]}`,
		`{"version": 10, "bricks": [{"rotation": -1}]}`,
		`{"version": 10, "bricks": [{"color": [1, 2, 3, 4, 5]}]}`,
		`{"version": 10, "bricks": [{"size": [1, 2]}]}`,
		`{"version": 10, "bricks": [{"material_intensity": 11}]}`,
		`{"version": 10, "bricks": [], "author": {"id": "not-a-uuid"}}`,
		`{"version": 10, "bricks": [], "colors": [[256, 0, 0]]}`,
		`{"version": 10, "bricks": [], "components": {"BCD_X": {"properties": {"A": "Double"}}}}`,
	} {
		err := Validate([]byte(doc))
		require.Error(t, err, doc)
		require.True(t, errors.Is(err, ErrSchema), doc)
	}
}
