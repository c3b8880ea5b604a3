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

// Package tilt turns accelerometer samples into deliberate tilt gestures.
package tilt

import (
	"fmt"
	"math"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
)

const (
	// DefaultThreshold is the per-axis change, in g, treated as a gesture.
	DefaultThreshold = 1.5
	// DefaultCooldown is the minimum time between two reported gestures.
	DefaultCooldown = 1000 * time.Millisecond
)

// Event is a detected tilt gesture.
type Event struct {
	Time   time.Time
	X      float64
	Y      float64
	DeltaX float64
	DeltaY float64
}

// Data formats the gesture as the interaction payload sent to the server.
func (e Event) Data() string {
	return fmt.Sprintf("x=%.2f,y=%.2f", e.X, e.Y)
}

// Angles converts a 3-axis sample into the X/Y tilt pair compared by the
// detector. The pair is the gravity component along each horizontal axis in
// g, so a flat device reads (0, 0) and a device on its edge reads about 1.
func Angles(a input.Acceleration) (x, y float64) {
	return a.X, a.Y
}

// Detector reports a gesture when either tilt axis moves by more than the
// threshold between consecutive samples and the cooldown since the previous
// gesture has passed. Every sample becomes the new baseline, whether it
// produced a gesture or not.
type Detector struct {
	lastEvent time.Time
	threshold float64
	cooldown  time.Duration
	lastX     float64
	lastY     float64
	primed    bool
}

// New returns a detector. Non-positive arguments use the package defaults.
func New(threshold float64, cooldown time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Detector{
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Threshold returns the configured per-axis threshold in g.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Cooldown returns the configured minimum time between gestures.
func (d *Detector) Cooldown() time.Duration {
	return d.cooldown
}

// Update feeds one sample taken at now. The first sample only establishes
// the baseline.
func (d *Detector) Update(a input.Acceleration, now time.Time) (Event, bool) {
	x, y := Angles(a)

	if !d.primed {
		d.lastX, d.lastY = x, y
		d.primed = true
		return Event{}, false
	}

	dx := x - d.lastX
	dy := y - d.lastY
	d.lastX, d.lastY = x, y

	if math.Abs(dx) <= d.threshold && math.Abs(dy) <= d.threshold {
		return Event{}, false
	}

	if !d.lastEvent.IsZero() && now.Sub(d.lastEvent) < d.cooldown {
		return Event{}, false
	}

	d.lastEvent = now
	return Event{
		Time:   now,
		X:      x,
		Y:      y,
		DeltaX: dx,
		DeltaY: dy,
	}, true
}

// Reset forgets the baseline and the last gesture time.
func (d *Detector) Reset() {
	d.lastX, d.lastY = 0, 0
	d.lastEvent = time.Time{}
	d.primed = false
}
