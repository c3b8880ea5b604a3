/*
Zaparoo Kiosk
Copyright (c) 2026 The Zaparoo Project Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

This file is part of Zaparoo Kiosk.

Zaparoo Kiosk is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Zaparoo Kiosk is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Zaparoo Kiosk.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package wire is the board side of the front panel line protocol. It has
// no dependencies beyond the standard library so the TinyGo firmware can
// use it.
//
// Board to host, one line per poll:
//
//	S<TAB>button<TAB>ax<TAB>ay<TAB>az
//
// with button 0 or 1 and accelerations in milli-g. Host to board, one frame
// per screen:
//
//	C            clear the pending frame
//	L<TAB>n<TAB>text   set line n
//	F            show the pending frame
package wire

import (
	"strconv"
	"strings"
)

// Rows is the number of text lines the panel shows.
const Rows = 8

// AppendSample appends one S line, newline included. Accelerations are in
// micro-g, as the MPU6050 driver reports them.
func AppendSample(b []byte, pressed bool, ax, ay, az int32) []byte {
	b = append(b, 'S', '\t')
	if pressed {
		b = append(b, '1')
	} else {
		b = append(b, '0')
	}
	for _, v := range [3]int32{ax, ay, az} {
		b = append(b, '\t')
		b = strconv.AppendInt(b, int64(v/1000), 10)
	}
	return append(b, '\n')
}

// Decoder assembles display frames from host commands.
type Decoder struct {
	pending [Rows]string
	shown   [Rows]string
}

// Handle applies one command line and reports whether it completed a frame.
// Unknown commands and out of range lines are ignored.
func (d *Decoder) Handle(line string) bool {
	line = strings.TrimRight(line, "\r\n")
	cmd, rest, _ := strings.Cut(line, "\t")

	switch cmd {
	case "C":
		d.pending = [Rows]string{}
	case "L":
		ns, text, ok := strings.Cut(rest, "\t")
		if !ok {
			return false
		}
		n, err := strconv.Atoi(ns)
		if err != nil || n < 0 || n >= Rows {
			return false
		}
		d.pending[n] = text
	case "F":
		d.shown = d.pending
		return true
	}
	return false
}

// Lines returns the last completed frame.
func (d *Decoder) Lines() [Rows]string {
	return d.shown
}

// LineReader splits bytes arriving one at a time into lines.
type LineReader struct {
	buf []byte
	max int
}

// NewLineReader returns a reader that keeps at most maxLen bytes of a line;
// the rest of an overlong line is discarded and the truncated line is still
// returned at its newline.
func NewLineReader(maxLen int) *LineReader {
	return &LineReader{buf: make([]byte, 0, maxLen), max: maxLen}
}

// Feed adds one byte. It returns the completed line, without the newline,
// and true when c ends a line.
func (r *LineReader) Feed(c byte) (string, bool) {
	if c == '\n' {
		line := string(r.buf)
		r.buf = r.buf[:0]
		return line, true
	}
	if len(r.buf) < r.max {
		r.buf = append(r.buf, c)
	}
	return "", false
}
