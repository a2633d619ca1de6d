// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base defines the marker errors and logging interface shared by every
// layer of the codec. It has no dependencies on the other internal packages so
// that the bit stream, wire and section layers can all report errors the
// public package re-exports.
package base
