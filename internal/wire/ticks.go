// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package wire

import "time"

const (
	// TicksPerSecond is the FDateTime resolution: one tick is 100ns.
	TicksPerSecond = 10_000_000
	// UnixEpochTicks is the tick count of 1970-01-01T00:00:00Z, counted from
	// 0001-01-01T00:00:00Z.
	UnixEpochTicks = 621_355_968_000_000_000
)

// TicksToTime converts an FDateTime tick count to a UTC time. Zero ticks is
// the zero time.
func TicksToTime(ticks int64) time.Time {
	if ticks == 0 {
		return time.Time{}
	}
	ticks -= UnixEpochTicks
	sec, rem := ticks/TicksPerSecond, ticks%TicksPerSecond
	if rem < 0 {
		sec--
		rem += TicksPerSecond
	}
	return time.Unix(sec, rem*100).UTC()
}

// TimeToTicks converts t to an FDateTime tick count, truncating to 100ns. The
// zero time is zero ticks.
func TimeToTicks(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()*TicksPerSecond + int64(t.Nanosecond())/100 + UnixEpochTicks
}
