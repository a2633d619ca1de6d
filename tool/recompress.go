// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (t *T) runRecompress(cmd *cobra.Command, args []string) {
	in, out := args[0], args[1]
	before, err := os.Stat(in)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	s, err := t.readSave(in)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	if err := t.writeSave(out, s); err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	after, err := os.Stat(out)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	fmt.Fprintf(stdout, "%s: %d bytes -> %s: %d bytes\n", in, before.Size(), out, after.Size())
}
