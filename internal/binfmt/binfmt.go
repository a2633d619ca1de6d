// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved.
// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package binfmt exposes utilities for formatting binary data with descriptive
// comments. It backs the annotated layout dumps of save files.
package binfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/brsgo/brs/internal/wire"
	"github.com/cockroachdb/crlib/crstrings"
)

// New constructs a new binary formatter.
func New(data []byte) *Formatter {
	offsetWidth := strconv.Itoa(max(int(math.Log10(float64(max(len(data)-1, 1))))+1, 1))
	return &Formatter{
		data:            data,
		lineWidth:       40,
		offsetFormatStr: "%0" + offsetWidth + "d-%0" + offsetWidth + "d: ",
	}
}

// Formatter is a utility for formatting binary data with descriptive comments.
type Formatter struct {
	buf   bytes.Buffer
	lines [][2]string // (binary data, comment) tuples
	data  []byte
	off   int

	// config
	lineWidth       int
	linePrefix      string
	offsetFormatStr string
}

// SetLinePrefix sets a prefix for each line of formatted output.
func (f *Formatter) SetLinePrefix(prefix string) {
	f.linePrefix = prefix
}

// LineWidth sets the Formatter's maximum line width for binary data.
func (f *Formatter) LineWidth(width int) *Formatter {
	f.lineWidth = width
	return f
}

// More returns true if there is more data in the byte slice that can be formatted.
func (f *Formatter) More() bool {
	return f.off < len(f.data)
}

// Remaining returns the number of unformatted bytes remaining in the byte slice.
func (f *Formatter) Remaining() int {
	return len(f.data) - f.off
}

// Offset returns the current offset within the original data slice.
func (f *Formatter) Offset() int {
	return f.off
}

// PeekUint reads a little-endian unsigned integer of the specified width at the
// current offset.
func (f *Formatter) PeekUint(w int) uint64 {
	switch w {
	case 1:
		return uint64(f.data[f.off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(f.data[f.off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(f.data[f.off:]))
	case 8:
		return binary.LittleEndian.Uint64(f.data[f.off:])
	default:
		panic("unsupported width")
	}
}

// Byte formats a single byte in binary format, displaying each bit as a zero or
// one.
func (f *Formatter) Byte(format string, args ...interface{}) int {
	f.printOffsets(1)
	f.printf("b %08b", f.data[f.off])
	f.off++
	f.newline(f.buf.String(), fmt.Sprintf(format, args...))
	return 1
}

// Uint16 formats a little-endian uint16, prefixing the comment with its
// decimal value.
func (f *Formatter) Uint16(format string, args ...interface{}) uint16 {
	v := uint16(f.PeekUint(2))
	f.HexBytesln(2, "u16(%d): %s", v, fmt.Sprintf(format, args...))
	return v
}

// Int32 formats a little-endian int32, prefixing the comment with its decimal
// value.
func (f *Formatter) Int32(format string, args ...interface{}) int32 {
	v := int32(f.PeekUint(4))
	f.HexBytesln(4, "i32(%d): %s", v, fmt.Sprintf(format, args...))
	return v
}

// Int64 formats a little-endian int64, prefixing the comment with its decimal
// value.
func (f *Formatter) Int64(format string, args ...interface{}) int64 {
	v := int64(f.PeekUint(8))
	f.HexBytesln(8, "i64(%d): %s", v, fmt.Sprintf(format, args...))
	return v
}

// FString formats a length-prefixed engine string: the length on one line and
// the characters on the following lines. It returns the decoded string, or
// the empty string if the string cannot be decoded, in which case the rest of
// the data is dumped as hex.
func (f *Formatter) FString(format string, args ...interface{}) string {
	comment := fmt.Sprintf(format, args...)
	r := bytes.NewReader(f.data[f.off:])
	s, err := wire.NewDecoder(r).String(comment)
	if err != nil {
		f.HexBytesln(f.Remaining(), "%s: %v", comment, err)
		return ""
	}
	n := f.Remaining() - r.Len()
	f.Int32("%s length", comment)
	if n > 4 {
		f.HexBytesln(n-4, "%q", s)
	}
	return s
}

// HexBytesln formats the next n bytes in hexadecimal format, appending the
// formatted comment string to each line and ending on a newline.
func (f *Formatter) HexBytesln(n int, format string, args ...interface{}) int {
	commentLine := strings.TrimSpace(fmt.Sprintf(format, args...))
	printLine := func() {
		bytesInLine := min(f.lineWidth/2, n)
		if f.buf.Len() == 0 {
			f.printOffsets(bytesInLine)
		}
		f.printf("x %0"+strconv.Itoa(bytesInLine*2)+"x", f.data[f.off:f.off+bytesInLine])
		f.newline(f.buf.String(), commentLine)
		f.off += bytesInLine
		n -= bytesInLine
	}
	printLine()
	commentLine = "(continued...)"
	for n > 0 {
		printLine()
	}
	return n
}

// HexTextln formats the next n bytes in hexadecimal format, appending a comment
// to each line showing the ASCII equivalent characters for each byte for bytes
// that are human-readable.
func (f *Formatter) HexTextln(n int) int {
	printLine := func() {
		bytesInLine := min(f.lineWidth/2, n)
		if f.buf.Len() == 0 {
			f.printOffsets(bytesInLine)
		}
		f.printf("x %0"+strconv.Itoa(bytesInLine*2)+"x", f.data[f.off:f.off+bytesInLine])
		commentLine := asciiChars(f.data[f.off : f.off+bytesInLine])
		f.newline(f.buf.String(), commentLine)
		f.off += bytesInLine
		n -= bytesInLine
	}
	printLine()
	for n > 0 {
		printLine()
	}
	return n
}

// Elide consumes the next n bytes without printing them, emitting a single
// line covering their offsets.
func (f *Formatter) Elide(n int, format string, args ...interface{}) int {
	f.printOffsets(n)
	f.printf("x ...")
	f.off += n
	f.newline(f.buf.String(), fmt.Sprintf(format, args...))
	return n
}

// Comment adds a line with no binary data.
func (f *Formatter) Comment(format string, args ...interface{}) {
	f.newline("", fmt.Sprintf(format, args...))
}

// Line prepares a single line of formatted output that will consume n bytes,
// but formatting those n bytes in multiple ways. The line will be prefixed with
// the offsets for the line's entire data.
func (f *Formatter) Line(n int) Line {
	f.printOffsets(n)
	return Line{f: f, n: n, i: 0}
}

// String returns the current formatted output.
func (f *Formatter) String() string {
	f.buf.Reset()
	// Identify the max width of the binary data so that we can add padding to
	// align comments on the right.
	binaryLineWidth := 0
	for _, lineData := range f.lines {
		binaryLineWidth = max(binaryLineWidth, len(lineData[0]))
	}
	for _, lineData := range f.lines {
		fmt.Fprint(&f.buf, f.linePrefix)
		fmt.Fprint(&f.buf, lineData[0])
		if len(lineData[1]) > 0 {
			if len(lineData[0]) == 0 {
				// There's no binary data on this line, just a comment. Print
				// the comment left-aligned.
				fmt.Fprint(&f.buf, "# ")
			} else {
				// Align the comment to the right of the binary data.
				fmt.Fprint(&f.buf, strings.Repeat(" ", binaryLineWidth-len(lineData[0])))
				fmt.Fprint(&f.buf, " # ")
			}
			fmt.Fprint(&f.buf, lineData[1])
		}
		fmt.Fprintln(&f.buf)
	}
	return f.buf.String()
}

// Flush writes the current output to w, indenting every line by indent, and
// resets it. The position within the binary buffer is not reset.
func (f *Formatter) Flush(w io.Writer, indent string) error {
	for _, l := range crstrings.Lines(f.String()) {
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, l); err != nil {
			return err
		}
	}
	f.buf.Reset()
	f.lines = f.lines[:0]
	return nil
}

// Data returns the original data slice. Offset may be used to retrieve the
// current offset within the slice.
func (f *Formatter) Data() []byte {
	return f.data
}

func (f *Formatter) newline(binaryData, comment string) {
	f.lines = append(f.lines, [2]string{binaryData, comment})
	f.buf.Reset()
}

func (f *Formatter) printOffsets(n int) {
	f.printf(f.offsetFormatStr, f.off, f.off+n)
}

func (f *Formatter) printf(format string, args ...interface{}) {
	fmt.Fprintf(&f.buf, format, args...)
}

// Line is a pending line of formatted binary output.
type Line struct {
	f *Formatter
	n int
	i int
}

// Append appends the provided string to the current line.
func (l Line) Append(s string) Line {
	fmt.Fprint(&l.f.buf, s)
	return l
}

// Binary formats the next n bytes in binary format, displaying each bit as
// a zero or one.
func (l Line) Binary(n int) Line {
	if n+l.i > l.n {
		panic("binary data exceeds consumed line length")
	}
	for i := 0; i < n; i++ {
		l.f.printf("%08b", l.f.data[l.f.off+l.i])
		l.i++
	}
	return l
}

// HexBytes formats the next n bytes in hexadecimal format.
func (l Line) HexBytes(n int) Line {
	if n+l.i > l.n {
		panic("binary data exceeds consumed line length")
	}
	l.f.printf("%0"+strconv.Itoa(n*2)+"x", l.f.data[l.f.off+l.i:l.f.off+l.i+n])
	l.i += n
	return l
}

// Done finishes the line, appending the provided comment if any.
func (l Line) Done(format string, args ...interface{}) int {
	if l.n != l.i {
		panic("unconsumed data in line")
	}
	l.f.newline(l.f.buf.String(), fmt.Sprintf(format, args...))
	l.f.off += l.n
	return l.n
}

func asciiChars(b []byte) string {
	s := make([]byte, len(b))
	for i := range b {
		if b[i] >= 32 && b[i] <= 126 {
			s[i] = b[i]
		} else {
			s[i] = '.'
		}
	}
	return string(s)
}
