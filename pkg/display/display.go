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

// Package display lays kiosk screens out on a small monochrome text grid and
// drives the devices that show them.
package display

import (
	"fmt"
	"strings"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
	"github.com/mattn/go-runewidth"
)

// The front panel is a 128x64 OLED with a 6x8 font.
const (
	Cols = 21
	Rows = 8
)

const ellipsis = ".."

// Screen is one full page of content.
type Screen struct {
	Title string
	Lines []string
}

// Display shows screens. Implementations must be safe to call from the
// kiosk loop while their own goroutines are running.
type Display interface {
	Show(Screen) error
	Close() error
}

// Render lays s out on a cols x rows grid: the title, a rule, then the body
// lines. Overlong lines are truncated by display width and the result never
// has more than rows entries. Lines are not padded.
func Render(s Screen, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}

	out := make([]string, 0, rows)
	out = append(out, fit(s.Title, cols))
	if rows > 1 {
		out = append(out, strings.Repeat("-", cols))
	}

	for _, line := range s.Lines {
		if len(out) == rows {
			break
		}
		out = append(out, fit(line, cols))
	}
	return out
}

func fit(s string, cols int) string {
	s = strings.Map(func(r rune) rune {
		if r < ' ' {
			return ' '
		}
		return r
	}, s)
	if runewidth.StringWidth(s) <= cols {
		return s
	}
	if cols <= len(ellipsis) {
		return runewidth.Truncate(s, cols, "")
	}
	return runewidth.Truncate(s, cols, ellipsis)
}

// Boot is shown while inputs and the network come up.
func Boot() Screen {
	return Screen{
		Title: "Zaparoo Kiosk",
		Lines: []string{"Starting..."},
	}
}

// Ready invites the first interaction.
func Ready() Screen {
	return Screen{
		Title: "Movie Picks",
		Lines: []string{"Press the button", "or tilt me for", "recommendations"},
	}
}

// Working is shown while a request is in flight.
func Working(kind string) Screen {
	var what string
	switch kind {
	case recommend.TypeButton:
		what = "Button pressed"
	case recommend.TypeTilt:
		what = "Tilt detected"
	default:
		what = kind
	}
	return Screen{
		Title: "Loading...",
		Lines: []string{what, "Asking server..."},
	}
}

// Recommendations shows up to three picks, two rows each. Fallback lists are
// marked as offline.
func Recommendations(recs []recommend.Recommendation, fallback bool) Screen {
	title := "Top Picks"
	if fallback {
		title = "Demo Picks (offline)"
	}

	recs = recommend.Top(recs, recommend.MaxShown)
	lines := make([]string, 0, len(recs)*2)
	for i, r := range recs {
		lines = append(lines,
			fmt.Sprintf("%d. %s", i+1, r.Title),
			fmt.Sprintf("   Score: %.1f", r.Score),
		)
	}
	return Screen{Title: title, Lines: lines}
}
