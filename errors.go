// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import "github.com/brsgo/brs/internal/base"

// Marker errors. Every error returned by this package wraps exactly one of
// them.
var (
	// ErrMalformedHeader is returned for bad magic bytes or an invalid header
	// field such as a negative count.
	ErrMalformedHeader = base.ErrMalformedHeader
	// ErrUnsupportedVersion is returned for a save version outside 1..10.
	ErrUnsupportedVersion = base.ErrUnsupportedVersion
	// ErrUnexpectedEndOfStream is returned when the input ends in the middle
	// of a field.
	ErrUnexpectedEndOfStream = base.ErrUnexpectedEndOfStream
	// ErrDecompression is returned for sections whose lengths are
	// inconsistent or whose zlib stream cannot be inflated.
	ErrDecompression = base.ErrDecompression
	// ErrBrokenReference is returned when a brick refers to a palette entry,
	// owner or component that does not exist, or a component value is missing
	// or mistyped.
	ErrBrokenReference = base.ErrBrokenReference
	// ErrInvalidEnumValue is returned for an enum (direction, rotation,
	// property type, material intensity) outside its domain.
	ErrInvalidEnumValue = base.ErrInvalidEnumValue
	// ErrBadSectionOrder is returned when a Reader's sections are read out of
	// order.
	ErrBadSectionOrder = base.ErrBadSectionOrder
)

// IsCodecError returns true if err carries one of the marker errors above.
func IsCodecError(err error) bool {
	return base.IsCodecError(err)
}
