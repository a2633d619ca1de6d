// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"os"

	"github.com/brsgo/brs"
	"github.com/brsgo/brs/geom"
	"github.com/brsgo/brs/octree"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// configEnv names the environment variable consulted when no configuration
// file is given on the command line.
const configEnv = "BRS_CONFIG"

// Config is the tool configuration, read from a YAML file:
//
//	writer:
//	  version: 9
//	  compression: best
//	octree:
//	  leaf_size: 16
//	  max_depth: 12
//	assets:
//	  B_Custom_Brick: [10, 10, 6]
type Config struct {
	Writer WriterConfig `yaml:"writer"`
	Octree OctreeConfig `yaml:"octree"`
	// Assets adds or overrides the half extents of brick assets used by the
	// neighbors command.
	Assets map[string][3]uint32 `yaml:"assets"`
}

// WriterConfig holds the defaults for commands that write saves.
type WriterConfig struct {
	Version     int    `yaml:"version"`
	Compression string `yaml:"compression"`
}

// OctreeConfig configures the octree built by the neighbors command.
type OctreeConfig struct {
	LeafSize int `yaml:"leaf_size"`
	MaxDepth int `yaml:"max_depth"`
}

// LoadConfig reads the YAML configuration at path. If path is empty, the
// file named by $BRS_CONFIG is read; if that is unset too, the zero Config
// is returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		if path = os.Getenv(configEnv); path == "" {
			return &Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &cfg, nil
}

// WriterOptions returns the writer options the configuration selects.
func (c *Config) WriterOptions() (brs.WriterOptions, error) {
	var opts brs.WriterOptions
	if c.Writer.Version != 0 {
		if c.Writer.Version < 0 || c.Writer.Version > int(brs.FormatNewest) {
			return opts, errors.Newf("config: unknown format version %d", c.Writer.Version)
		}
		opts.Version = brs.FormatVersion(c.Writer.Version)
	}
	if c.Writer.Compression != "" {
		l, ok := brs.ParseCompressionLevel(c.Writer.Compression)
		if !ok {
			return opts, errors.Newf("config: unknown compression level %q", c.Writer.Compression)
		}
		opts.Compression = l
	}
	return opts, nil
}

// OctreeOptions returns the octree options the configuration selects.
func (c *Config) OctreeOptions() octree.Options {
	return octree.Options{LeafSize: c.Octree.LeafSize, MaxDepth: c.Octree.MaxDepth}
}

// Lookup returns the default asset table extended with the configured assets.
func (c *Config) Lookup() *geom.Table {
	t := geom.DefaultTable()
	for name, e := range c.Assets {
		t.Register(name, geom.Extents(e))
	}
	return t
}
