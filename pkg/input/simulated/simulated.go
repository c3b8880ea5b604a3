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

// Package simulated is an input driver for running the kiosk without
// hardware. The accelerometer drifts gently around flat with an occasional
// sharp tilt, and the button is tapped now and then.
package simulated

import (
	"math/rand/v2"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/jonboulle/clockwork"
)

const (
	DriverID = "simulated"

	// TapLength is how long a simulated press is held.
	TapLength = 500 * time.Millisecond

	// At a 100ms poll these fire roughly every 30 seconds.
	DefaultTapChance     = 1.0 / 300
	DefaultGestureChance = 1.0 / 300
)

type Device struct {
	clock         clockwork.Clock
	rng           *rand.Rand
	releaseAt     time.Time
	TapChance     float64
	GestureChance float64
	pressed       bool
	mu            syncutil.Mutex
}

// Open returns a device on the real clock with a random seed.
func Open() *Device {
	return New(clockwork.NewRealClock(), rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))) //nolint:gosec // not security sensitive
}

func New(clock clockwork.Clock, rng *rand.Rand) *Device {
	return &Device{
		clock:         clock,
		rng:           rng,
		TapChance:     DefaultTapChance,
		GestureChance: DefaultGestureChance,
	}
}

func (*Device) Metadata() input.DriverMetadata {
	return input.DriverMetadata{
		ID:          DriverID,
		Description: "Simulated button and accelerometer",
	}
}

func (d *Device) uniform(lo, hi float64) float64 {
	return lo + d.rng.Float64()*(hi-lo)
}

func (d *Device) Pressed() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	if d.pressed && !now.Before(d.releaseAt) {
		d.pressed = false
	}
	if !d.pressed && d.rng.Float64() < d.TapChance {
		d.pressed = true
		d.releaseAt = now.Add(TapLength)
	}
	return d.pressed, nil
}

func (d *Device) Acceleration() (input.Acceleration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	a := input.Acceleration{
		X: d.uniform(-0.5, 0.5),
		Y: d.uniform(-0.5, 0.5),
		Z: d.uniform(0.8, 1.2),
	}

	if d.rng.Float64() < d.GestureChance {
		spike := d.uniform(1.6, 2.0)
		if d.rng.IntN(2) == 0 {
			spike = -spike
		}
		if d.rng.IntN(2) == 0 {
			a.X = spike
		} else {
			a.Y = spike
		}
	}
	return a, nil
}

func (*Device) Close() error {
	return nil
}
