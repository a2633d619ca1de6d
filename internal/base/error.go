// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved.
// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "github.com/cockroachdb/errors"

// The following errors are markers. Errors returned by the codec wrap exactly
// one of them (see errors.Mark) and callers should test with errors.Is.
var (
	// ErrMalformedHeader indicates bad magic bytes or an invalid header field.
	ErrMalformedHeader = errors.New("brs: malformed header")
	// ErrUnsupportedVersion indicates a save version newer than any this
	// package knows how to decode.
	ErrUnsupportedVersion = errors.New("brs: unsupported version")
	// ErrUnexpectedEndOfStream indicates that a bit or byte reader ran out of
	// data before a field was complete.
	ErrUnexpectedEndOfStream = errors.New("brs: unexpected end of stream")
	// ErrDecompression indicates a section that could not be inflated or whose
	// stored lengths are inconsistent.
	ErrDecompression = errors.New("brs: decompression error")
	// ErrBrokenReference indicates a brick referencing a palette entry, owner
	// or component schema that does not exist.
	ErrBrokenReference = errors.New("brs: broken reference")
	// ErrInvalidEnumValue indicates a decoded or supplied enum value outside
	// of its domain.
	ErrInvalidEnumValue = errors.New("brs: invalid enum value")
	// ErrBadSectionOrder indicates that sections were read out of order.
	ErrBadSectionOrder = errors.New("brs: sections must be read in order: header1, header2, preview, bricks")
)

// MalformedHeaderf formats an error and marks it as ErrMalformedHeader.
func MalformedHeaderf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrMalformedHeader)
}

// BrokenReferencef formats an error and marks it as ErrBrokenReference.
func BrokenReferencef(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrBrokenReference)
}

// InvalidEnumf formats an error and marks it as ErrInvalidEnumValue.
func InvalidEnumf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidEnumValue)
}

// DecompressionErrorf formats an error and marks it as ErrDecompression.
func DecompressionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrDecompression)
}

// MarkEndOfStream annotates err (which must be non-nil) with the field being
// read and marks it as ErrUnexpectedEndOfStream. An io.ErrUnexpectedEOF or
// io.EOF from a truncated reader is the common source.
func MarkEndOfStream(err error, field string) error {
	return errors.Mark(errors.Wrapf(err, "reading %s", errors.Safe(field)), ErrUnexpectedEndOfStream)
}

// IsCodecError returns true if err carries one of the codec's markers.
func IsCodecError(err error) bool {
	return errors.IsAny(err,
		ErrMalformedHeader, ErrUnsupportedVersion, ErrUnexpectedEndOfStream,
		ErrDecompression, ErrBrokenReference, ErrInvalidEnumValue, ErrBadSectionOrder)
}
