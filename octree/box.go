// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package octree

import "fmt"

// Box is an axis-aligned box given by its minimum and maximum corners.
type Box struct {
	Min, Max [3]int64
}

// MakeBox returns the box spanning lo to hi on each axis.
func MakeBox(lo, hi [3]int64) Box {
	return Box{Min: lo, Max: hi}
}

// Empty reports whether b encloses no volume.
func (b Box) Empty() bool {
	return b.Min[0] >= b.Max[0] || b.Min[1] >= b.Max[1] || b.Min[2] >= b.Max[2]
}

// Overlaps reports whether b and o share a region of positive volume. Boxes
// that only touch do not overlap, and an empty box overlaps nothing.
func (b Box) Overlaps(o Box) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	for i := 0; i < 3; i++ {
		if b.Min[i] >= o.Max[i] || o.Min[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// Contains reports whether o lies entirely within b.
func (b Box) Contains(o Box) bool {
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] || o.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], o.Min[i])
		b.Max[i] = max(b.Max[i], o.Max[i])
	}
	return b
}

// octant returns the i'th octant of b split at mid. Bit 0 of i selects the
// upper half on X, bit 1 on Y and bit 2 on Z.
func (b Box) octant(i int, mid [3]int64) Box {
	for axis := 0; axis < 3; axis++ {
		if i&(1<<axis) != 0 {
			b.Min[axis] = mid[axis]
		} else {
			b.Max[axis] = mid[axis]
		}
	}
	return b
}

func (b Box) String() string {
	return fmt.Sprintf("[%d,%d,%d]-[%d,%d,%d]",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}
