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

package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	"github.com/mattn/go-runewidth"
)

// Console draws each screen as a framed block of text, mimicking the OLED.
type Console struct {
	w  io.Writer
	mu syncutil.Mutex
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Frame renders s inside an ASCII border of the panel's size.
func Frame(s Screen) string {
	border := "+" + strings.Repeat("-", Cols) + "+\n"

	var b strings.Builder
	b.WriteString(border)
	lines := Render(s, Cols, Rows)
	for i := range Rows {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteString("|" + runewidth.FillRight(line, Cols) + "|\n")
	}
	b.WriteString(border)
	return b.String()
}

func (c *Console) Show(s Screen) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.w, Frame(s))
	if err != nil {
		return fmt.Errorf("failed to write screen: %w", err)
	}
	return nil
}

func (*Console) Close() error {
	return nil
}
