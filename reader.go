// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"io"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/section"
	"github.com/cockroachdb/errors"
)

type readerState int8

const (
	stateHeader1 readerState = iota
	stateHeader2
	statePreview
	stateBricks
	stateDone
)

var readerStateNames = [...]string{
	stateHeader1: "header1",
	stateHeader2: "header2",
	statePreview: "preview",
	stateBricks:  "bricks",
	stateDone:    "end of save",
}

func (s readerState) String() string { return readerStateNames[s] }

// SafeValue implements redact.SafeValue.
func (readerState) SafeValue() {}

// Reader decodes a save section by section. Sections must be read in file
// order: header1, header2, preview, bricks. Each may be decoded or skipped,
// except that decoding the bricks requires the decoded header2 palettes.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	r       io.Reader
	opts    ReaderOptions
	prelude prelude
	state   readerState

	header1 *Header1
	header2 *Header2
}

// NewReader reads the prelude of the save in r and returns a Reader
// positioned at header1. An unsupported version fails before any section is
// read.
func NewReader(r io.Reader, opts ReaderOptions) (*Reader, error) {
	opts.EnsureDefaults()
	p, err := readPrelude(r)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, opts: opts, prelude: p}, nil
}

// Version returns the save's format version.
func (r *Reader) Version() FormatVersion { return r.prelude.version }

// GameVersion returns the game build that wrote the save, or zero for saves
// older than FormatComponents.
func (r *Reader) GameVersion() int32 { return r.prelude.gameVersion }

func (r *Reader) advance(from readerState) error {
	if r.state != from {
		return errors.Mark(
			errors.Newf("brs: cannot read %s, reader is positioned at %s", from, r.state),
			base.ErrBadSectionOrder)
	}
	r.state++
	return nil
}

// ReadHeader1 decodes header1.
func (r *Reader) ReadHeader1() (Header1, error) {
	if err := r.advance(stateHeader1); err != nil {
		return Header1{}, err
	}
	data, err := section.Read(r.r, r.opts.MaxSectionSize)
	if err != nil {
		return Header1{}, errors.Wrap(err, "reading header1")
	}
	h, err := decodeHeader1(data, r.prelude.profile)
	if err != nil {
		return Header1{}, errors.Wrap(err, "decoding header1")
	}
	r.header1 = &h
	return h, nil
}

// SkipHeader1 skips header1 without inflating it.
func (r *Reader) SkipHeader1() error {
	if err := r.advance(stateHeader1); err != nil {
		return err
	}
	return errors.Wrap(section.Skip(r.r, r.opts.MaxSectionSize), "skipping header1")
}

// ReadHeader2 decodes header2.
func (r *Reader) ReadHeader2() (Header2, error) {
	if err := r.advance(stateHeader2); err != nil {
		return Header2{}, err
	}
	data, err := section.Read(r.r, r.opts.MaxSectionSize)
	if err != nil {
		return Header2{}, errors.Wrap(err, "reading header2")
	}
	h, err := decodeHeader2(data, r.prelude.profile)
	if err != nil {
		return Header2{}, errors.Wrap(err, "decoding header2")
	}
	r.header2 = &h
	return h, nil
}

// SkipHeader2 skips header2 without inflating it. The bricks can no longer be
// decoded afterwards.
func (r *Reader) SkipHeader2() error {
	if err := r.advance(stateHeader2); err != nil {
		return err
	}
	return errors.Wrap(section.Skip(r.r, r.opts.MaxSectionSize), "skipping header2")
}

// ReadPreview decodes the preview. Saves older than FormatComponents have no
// preview and return an empty one.
func (r *Reader) ReadPreview() (Preview, error) {
	if err := r.advance(statePreview); err != nil {
		return Preview{}, err
	}
	if !r.prelude.profile.preview {
		return Preview{}, nil
	}
	p, err := readPreview(r.r, r.opts.MaxSectionSize)
	if err != nil {
		return Preview{}, errors.Wrap(err, "reading preview")
	}
	if !p.Type.Known() {
		r.opts.Logger.Infof("brs: preserving preview of unknown type %d (%d bytes)", uint8(p.Type), len(p.Data))
	}
	return p, nil
}

// SkipPreview skips the preview.
func (r *Reader) SkipPreview() error {
	if err := r.advance(statePreview); err != nil {
		return err
	}
	if !r.prelude.profile.preview {
		return nil
	}
	return errors.Wrap(skipPreview(r.r, r.opts.MaxSectionSize), "skipping preview")
}

// ReadBricks decodes the bricks and, from FormatComponents onwards, the
// components section. It requires ReadHeader2 to have been called; an unread
// preview is skipped. When header1 was decoded, decoding stops after its
// brick count.
func (r *Reader) ReadBricks() ([]Brick, map[string]Component, error) {
	if r.state == statePreview {
		if err := r.SkipPreview(); err != nil {
			return nil, nil, err
		}
	}
	if r.state == stateBricks && r.header2 == nil {
		return nil, nil, errors.Mark(
			errors.New("brs: cannot decode bricks, header2 was skipped"), base.ErrBadSectionOrder)
	}
	if err := r.advance(stateBricks); err != nil {
		return nil, nil, err
	}
	data, err := section.Read(r.r, r.opts.MaxSectionSize)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading bricks")
	}
	limit := -1
	if r.header1 != nil {
		limit = int(r.header1.BrickCount)
	}
	bricks, err := decodeBricks(data, r.header2, r.prelude.profile, limit, nil)
	if err != nil {
		return nil, nil, err
	}
	if limit >= 0 && len(bricks) != limit {
		r.opts.Logger.Infof("brs: header1 declares %d bricks, bricks section holds %d", limit, len(bricks))
	}
	if !r.prelude.profile.components {
		return bricks, nil, nil
	}

	data, err = section.Read(r.r, r.opts.MaxSectionSize)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Some writers end the save after the bricks when no brick carries
			// a component.
			return bricks, nil, nil
		}
		return nil, nil, errors.Wrap(err, "reading components")
	}
	components, err := decodeComponents(data, bricks)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decoding components")
	}
	return bricks, components, nil
}

// ReadAll decodes every remaining section. The reader must be positioned at
// header1.
func (r *Reader) ReadAll() (*SaveData, error) {
	s := &SaveData{Version: r.Version(), GameVersion: r.GameVersion()}
	var err error
	if s.Header1, err = r.ReadHeader1(); err != nil {
		return nil, err
	}
	if s.Header2, err = r.ReadHeader2(); err != nil {
		return nil, err
	}
	if s.Preview, err = r.ReadPreview(); err != nil {
		return nil, err
	}
	if s.Bricks, s.Components, err = r.ReadBricks(); err != nil {
		return nil, err
	}
	return s, nil
}

// Read decodes a whole save from r.
func Read(r io.Reader, opts ReaderOptions) (*SaveData, error) {
	sr, err := NewReader(r, opts)
	if err != nil {
		return nil, err
	}
	return sr.ReadAll()
}
