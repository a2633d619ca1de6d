// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"bytes"
	"io"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/bitstream"
	"github.com/brsgo/brs/internal/compression"
	"github.com/brsgo/brs/internal/invariants"
	"github.com/brsgo/brs/internal/section"
	"github.com/cockroachdb/errors"
)

// Writer encodes saves. The whole save is assembled in memory and written to
// the underlying writer with a single Write once every reference has been
// validated, so a failed Write leaves the underlying writer untouched.
type Writer struct {
	w    io.Writer
	opts WriterOptions
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer, opts WriterOptions) *Writer {
	opts.EnsureDefaults()
	return &Writer{w: w, opts: opts}
}

// Write validates and encodes s. The header brick count and the component
// brick indices are derived from s.Bricks; s itself is not modified.
func (w *Writer) Write(s *SaveData) error {
	b, err := Encode(s, w.opts)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrap(err, "brs: writing save")
	}
	return nil
}

// Write encodes s and writes it to w.
func Write(w io.Writer, s *SaveData, opts WriterOptions) error {
	return NewWriter(w, opts).Write(s)
}

// Validate checks that s can be encoded: every palette reference of every
// brick is in range, every brick component is registered and supplies a value
// of the registered type for each property, and every enum is in its domain.
func Validate(s *SaveData) error {
	if len(s.Bricks) > 1<<31-1 {
		return base.MalformedHeaderf("brs: %d bricks exceed the format's limit", len(s.Bricks))
	}
	if err := validateComponents(s.Components); err != nil {
		return err
	}
	for i := range s.Bricks {
		if err := validateBrick(s, i, &s.Bricks[i]); err != nil {
			return err
		}
	}
	return nil
}

// Encode returns the encoding of s in the format opts.Version selects.
func Encode(s *SaveData, opts WriterOptions) ([]byte, error) {
	opts.EnsureDefaults()
	p, err := opts.Version.profile()
	if err != nil {
		return nil, err
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	logLossy(s, opts.Version, p, opts.Logger)

	setting := opts.Compression.setting()
	pre := prelude{version: opts.Version, profile: p, gameVersion: s.GameVersion}
	out := appendPrelude(nil, pre)

	payload := appendHeader1(nil, &s.Header1, len(s.Bricks), p)
	out = section.Append(out, payload, compression.None)

	payload = appendHeader2(payload[:0], &s.Header2, p)
	out = section.Append(out, payload, setting)

	if p.preview {
		out = appendPreview(out, &s.Preview)
	}

	bw := bitstream.NewWriter(len(s.Bricks) * 16)
	appendBricks(bw, s.Bricks, &s.Header2, p)
	out = section.Append(out, bw.Bytes(), setting)

	if p.components {
		payload = appendComponents(payload[:0], s)
		out = section.Append(out, payload, setting)
	}

	if invariants.Enabled {
		d, err := Read(bytes.NewReader(out), ReaderOptions{Logger: NoopLogger{}})
		if err != nil {
			panic(errors.AssertionFailedf("brs: encoded save does not decode: %v", err))
		}
		if len(d.Bricks) != len(s.Bricks) {
			panic(errors.AssertionFailedf("brs: encoded %d bricks, decoded %d", len(s.Bricks), len(d.Bricks)))
		}
	}
	return out, nil
}

// logLossy reports the data of s that version v cannot represent.
func logLossy(s *SaveData, v FormatVersion, p formatProfile, logger Logger) {
	if !p.components && len(s.Components) > 0 {
		logger.Infof("brs: %s cannot store components, dropping %d", v, len(s.Components))
	}
	if !p.preview && !s.Preview.IsEmpty() {
		logger.Infof("brs: %s cannot store a preview, dropping it", v)
	}
	if !p.owners && len(s.Header2.BrickOwners) > 0 {
		logger.Infof("brs: %s cannot store brick owners, dropping %d", v, len(s.Header2.BrickOwners))
	}
	var collision, alpha, physical int
	for i := range s.Bricks {
		b := &s.Bricks[i]
		c := b.Collision
		if !p.collisionFlags && (c.Weapon != c.Player || c.Interaction != c.Player || c.Tool != c.Player) {
			collision++
		}
		if p.rgbUniqueColor && b.Color.IsUnique() && b.Color.Unique().A != 0xff {
			alpha++
		}
		if !p.physical && (b.PhysicalIndex != 0 || b.MaterialIntensity != 5) {
			physical++
		}
	}
	if collision > 0 {
		logger.Infof("brs: %s stores a single collision flag, %d bricks keep only player collision", v, collision)
	}
	if alpha > 0 {
		logger.Infof("brs: %s stores unique colors as RGB, dropping alpha of %d bricks", v, alpha)
	}
	if physical > 0 {
		logger.Infof("brs: %s cannot store physical materials, resetting %d bricks", v, physical)
	}
}
