// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"fmt"

	"github.com/brsgo/brs/internal/base"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// FormatVersion is the save format version stored in the prelude. Every
// version gates a fixed set of fields; see formatProfiles.
type FormatVersion uint16

const (
	// FormatInitial is the first released format.
	FormatInitial FormatVersion = 1
	// FormatMaterials adds the material palette to header2. Earlier saves
	// imply the five legacy materials.
	FormatMaterials FormatVersion = 2
	// FormatBrickOwners adds the owner list to header2 and an owner index to
	// every brick.
	FormatBrickOwners FormatVersion = 3
	// FormatSaveTime adds the save time to header1. Versions 5 through 7 did
	// not change the layout of any field this package decodes.
	FormatSaveTime FormatVersion = 4
	// FormatComponents adds the game version to the prelude, the host to
	// header1, per-owner brick counts, the preview block and the components
	// section, and stores material indexes as bounded integers.
	FormatComponents FormatVersion = 8
	// FormatPhysicalMaterials adds the physical material palette, physical
	// material indexes and material intensity, and stores unique brick colors
	// as three RGB bytes.
	FormatPhysicalMaterials FormatVersion = 9
	// FormatCollisionFlags splits the single collision bit into player,
	// weapon, interaction and tool flags.
	FormatCollisionFlags FormatVersion = 10

	// FormatNewest is the most recent version, used by writers by default.
	FormatNewest = FormatCollisionFlags
)

// String implements fmt.Stringer.
func (v FormatVersion) String() string {
	return fmt.Sprintf("v%d", uint16(v))
}

// SafeValue implements redact.SafeValue.
func (FormatVersion) SafeValue() {}

var _ redact.SafeValue = FormatVersion(0)

// formatProfile is the set of fields a format version stores.
type formatProfile struct {
	materials         bool
	owners            bool
	saveTime          bool
	gameVersion       bool
	host              bool
	ownerBrickCounts  bool
	preview           bool
	components        bool
	boundedMaterial   bool
	physical          bool
	rgbUniqueColor    bool
	collisionFlags    bool
	legacyMaterialSet bool
}

// formatProfiles maps each supported version to its profile. Index 0 is
// never valid.
var formatProfiles = [...]formatProfile{
	1: {legacyMaterialSet: true},
	2: {materials: true},
	3: {materials: true, owners: true},
	4: {materials: true, owners: true, saveTime: true},
	5: {materials: true, owners: true, saveTime: true},
	6: {materials: true, owners: true, saveTime: true},
	7: {materials: true, owners: true, saveTime: true},
	8: {
		materials: true, owners: true, saveTime: true,
		gameVersion: true, host: true, ownerBrickCounts: true, preview: true,
		components: true, boundedMaterial: true,
	},
	9: {
		materials: true, owners: true, saveTime: true,
		gameVersion: true, host: true, ownerBrickCounts: true, preview: true,
		components: true, boundedMaterial: true,
		physical: true, rgbUniqueColor: true,
	},
	10: {
		materials: true, owners: true, saveTime: true,
		gameVersion: true, host: true, ownerBrickCounts: true, preview: true,
		components: true, boundedMaterial: true,
		physical: true, rgbUniqueColor: true,
		collisionFlags: true,
	},
}

// profile returns the profile for v, or an error marked ErrUnsupportedVersion
// (or ErrMalformedHeader for version 0).
func (v FormatVersion) profile() (formatProfile, error) {
	if v == 0 {
		return formatProfile{}, base.MalformedHeaderf("brs: invalid save version %s", v)
	}
	if int(v) >= len(formatProfiles) {
		return formatProfile{}, errors.Mark(
			errors.Newf("brs: save version %s is newer than %s", v, FormatNewest),
			base.ErrUnsupportedVersion)
	}
	return formatProfiles[v], nil
}

// legacyMaterials is the material palette implied by FormatInitial saves.
var legacyMaterials = []string{"BMC_Hologram", "BMC_Plastic", "BMC_Glow", "BMC_Metallic", "BMC_Glass"}

// defaultPhysicalMaterials is the physical material palette implied by saves
// older than FormatPhysicalMaterials.
var defaultPhysicalMaterials = []string{"BPMC_Default"}
