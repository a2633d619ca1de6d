// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/brsgo/brs"
	"github.com/cockroachdb/errors"
)

var stdout = io.Writer(os.Stdout)
var stderr = io.Writer(os.Stderr)

// versionFlag is a format version given as "10" or "v10".
type versionFlag struct {
	v brs.FormatVersion
}

func (f *versionFlag) String() string {
	if f.v == 0 {
		return ""
	}
	return f.v.String()
}

func (f *versionFlag) Type() string {
	return "version"
}

func (f *versionFlag) Set(s string) error {
	v, err := parseVersion(s)
	if err != nil {
		return err
	}
	f.v = v
	return nil
}

func parseVersion(s string) (brs.FormatVersion, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "v"), 10, 16)
	if err != nil || n == 0 || n > uint64(brs.FormatNewest) {
		return 0, errors.Newf("unknown format version %q (want 1 to %d)", s, int(brs.FormatNewest))
	}
	return brs.FormatVersion(n), nil
}

type compressionFlag struct {
	set   bool
	level brs.CompressionLevel
}

func (f *compressionFlag) String() string {
	if !f.set {
		return ""
	}
	return f.level.String()
}

func (f *compressionFlag) Type() string {
	return "level"
}

func (f *compressionFlag) Set(s string) error {
	l, ok := brs.ParseCompressionLevel(s)
	if !ok {
		return errors.Newf("unknown compression level %q", s)
	}
	f.level, f.set = l, true
	return nil
}

type directionFlag struct {
	set bool
	d   brs.Direction
}

func (f *directionFlag) String() string {
	if !f.set {
		return ""
	}
	return f.d.String()
}

func (f *directionFlag) Type() string {
	return "direction"
}

func (f *directionFlag) Set(s string) error {
	d, ok := brs.ParseDirection(s)
	if !ok {
		return errors.Newf("unknown direction %q", s)
	}
	f.d, f.set = d, true
	return nil
}

// logger forwards codec notices to stderr.
type logger struct{}

func (logger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(stderr, format+"\n", args...)
}

func (logger) Fatalf(format string, args ...interface{}) {
	fmt.Fprintf(stderr, format+"\n", args...)
	os.Exit(1)
}

func (t *T) logger() brs.Logger {
	if t.verbose {
		return logger{}
	}
	return brs.NoopLogger{}
}

func (t *T) readSave(path string) (*brs.SaveData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := brs.Read(f, brs.ReaderOptions{Logger: t.logger()})
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}

// writeSave writes s to path with the configured writer options. The file
// is only created once the save has been encoded.
func (t *T) writeSave(path string, s *brs.SaveData) error {
	opts, err := t.writerOptions()
	if err != nil {
		return err
	}
	data, err := brs.Encode(s, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// writerOptions merges the configuration file with the command line flags,
// which take precedence.
func (t *T) writerOptions() (brs.WriterOptions, error) {
	cfg, err := LoadConfig(t.configPath)
	if err != nil {
		return brs.WriterOptions{}, err
	}
	opts, err := cfg.WriterOptions()
	if err != nil {
		return brs.WriterOptions{}, err
	}
	if t.version.v != 0 {
		opts.Version = t.version.v
	}
	if t.compression.set {
		opts.Compression = t.compression.level
	}
	opts.Logger = logger{}
	return opts, nil
}
