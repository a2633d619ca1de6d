// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"os"

	"github.com/brsgo/brs/brsjson"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func (t *T) runJSON(cmd *cobra.Command, args []string) {
	s, err := t.readSave(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	data, err := brsjson.Marshal(s)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	if t.output != "" {
		if err := os.WriteFile(t.output, data, 0644); err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
		return
	}
	fmt.Fprintf(stdout, "%s\n", data)
}

func (t *T) runFromJSON(cmd *cobra.Command, args []string) {
	if err := t.fromJSONFile(args[0], args[1]); err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
	}
}

func (t *T) fromJSONFile(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if err := brsjson.Validate(data); err != nil {
		return errors.Wrapf(err, "%s", in)
	}
	s, err := brsjson.Unmarshal(data)
	if err != nil {
		return errors.Wrapf(err, "%s", in)
	}
	if err := t.writeSave(out, s); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d bricks to %s\n", len(s.Bricks), out)
	return nil
}
