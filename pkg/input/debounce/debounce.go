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

// Package debounce filters the raw level of a mechanical push button into
// single press events.
//
// The filter follows the classic polling debounce: every change of the raw
// reading restarts a stability timer, and the debounced state only follows
// the raw reading once it has held for the threshold. A press is reported on
// the debounced released-to-pressed transition, so a button held down
// produces exactly one event.
package debounce

import "time"

// DefaultThreshold is the stable-state time used by the kiosk button.
const DefaultThreshold = 50 * time.Millisecond

// Filter debounces a single button. It is not safe for concurrent use; the
// kiosk loop owns it.
type Filter struct {
	lastChange time.Time
	threshold  time.Duration
	raw        bool
	stable     bool
}

// New returns a filter that needs the raw reading to hold for threshold
// before it is accepted. A non-positive threshold uses DefaultThreshold.
func New(threshold time.Duration) *Filter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Filter{threshold: threshold}
}

// Threshold returns the configured stable-state time.
func (f *Filter) Threshold() time.Duration {
	return f.threshold
}

// Update feeds one raw sample taken at now and reports whether it completed
// a debounced press.
func (f *Filter) Update(pressed bool, now time.Time) bool {
	if pressed != f.raw {
		f.raw = pressed
		f.lastChange = now
		return false
	}

	if now.Sub(f.lastChange) < f.threshold {
		return false
	}

	if f.stable == f.raw {
		return false
	}

	f.stable = f.raw
	return f.stable
}

// Pressed returns the current debounced state.
func (f *Filter) Pressed() bool {
	return f.stable
}

// Reset returns the filter to its power-on state (released, no history).
func (f *Filter) Reset() {
	f.raw = false
	f.stable = false
	f.lastChange = time.Time{}
}
