// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package wire

import (
	"github.com/brsgo/brs/internal/base"
	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// MaxStringLen is the largest FString, in bytes, a Decoder accepts.
const MaxStringLen = 16 << 20

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// String reads an FString. The int32 length prefix selects the encoding:
//
//   - zero: the empty string, no further bytes.
//   - positive n: n-1 single-byte (Latin-1) characters and a NUL.
//   - negative n: -n-1 UTF-16LE code units and a NUL code unit.
func (d *Decoder) String(field string) (string, error) {
	n, err := d.Int32(field + " length")
	if err != nil {
		return "", err
	}
	switch {
	case n == 0:
		return "", nil
	case n > 0:
		if n > MaxStringLen {
			return "", base.MalformedHeaderf("%s: string length %d exceeds %d",
				errors.Safe(field), errors.Safe(n), errors.Safe(MaxStringLen))
		}
		b, err := d.Bytes(int(n), field)
		if err != nil {
			return "", err
		}
		return decodeLatin1(b[:n-1])
	default:
		units := -int64(n)
		if units*2 > MaxStringLen {
			return "", base.MalformedHeaderf("%s: string length %d exceeds %d",
				errors.Safe(field), errors.Safe(units*2), errors.Safe(MaxStringLen))
		}
		b, err := d.Bytes(int(units*2), field)
		if err != nil {
			return "", err
		}
		s, err := utf16LE.NewDecoder().Bytes(b[:len(b)-2])
		if err != nil {
			return "", base.MalformedHeaderf("%s: invalid UTF-16 string: %v", errors.Safe(field), err)
		}
		return string(s), nil
	}
}

func decodeLatin1(b []byte) (string, error) {
	if isASCII(b) {
		return string(b), nil
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Mark(err, base.ErrMalformedHeader)
	}
	return string(s), nil
}

// AppendString appends s as an FString. ASCII strings are stored as
// single-byte strings; anything else is stored as UTF-16.
func AppendString(dst []byte, s string) []byte {
	if len(s) == 0 {
		return AppendInt32(dst, 0)
	}
	if isASCII([]byte(s)) {
		dst = AppendInt32(dst, int32(len(s)+1))
		dst = append(dst, s...)
		return append(dst, 0)
	}
	// Invalid UTF-8 is encoded as U+FFFD, so the encoder never fails.
	u, _ := utf16LE.NewEncoder().Bytes([]byte(s))
	dst = AppendInt32(dst, -int32(len(u)/2+1))
	dst = append(dst, u...)
	return append(dst, 0, 0)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
