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

package simulated

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDevice() (*Device, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return New(clock, rand.New(rand.NewPCG(1, 2))), clock
}

func TestCalmSamplesStayInRange(t *testing.T) {
	t.Parallel()

	d, _ := newDevice()
	d.GestureChance = 0

	for range 1000 {
		a, err := d.Acceleration()
		require.NoError(t, err)
		assert.True(t, a.X >= -0.5 && a.X <= 0.5, "x %f", a.X)
		assert.True(t, a.Y >= -0.5 && a.Y <= 0.5, "y %f", a.Y)
		assert.True(t, a.Z >= 0.8 && a.Z <= 1.2, "z %f", a.Z)
	}
}

func TestGestureSpike(t *testing.T) {
	t.Parallel()

	d, _ := newDevice()
	d.GestureChance = 1

	for range 100 {
		a, err := d.Acceleration()
		require.NoError(t, err)
		peak := math.Max(math.Abs(a.X), math.Abs(a.Y))
		assert.GreaterOrEqual(t, peak, 1.6)
		assert.LessOrEqual(t, peak, 2.0)
	}
}

func TestTapIsHeld(t *testing.T) {
	t.Parallel()

	d, clock := newDevice()
	d.TapChance = 0

	pressed, err := d.Pressed()
	require.NoError(t, err)
	assert.False(t, pressed)

	d.TapChance = 1
	pressed, _ = d.Pressed()
	assert.True(t, pressed)

	d.TapChance = 0
	clock.Advance(TapLength - time.Millisecond)
	pressed, _ = d.Pressed()
	assert.True(t, pressed)

	clock.Advance(time.Millisecond)
	pressed, _ = d.Pressed()
	assert.False(t, pressed)
}

func TestDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a, _ := newDevice()
	b, _ := newDevice()
	for range 10 {
		x, _ := a.Acceleration()
		y, _ := b.Acceleration()
		assert.Equal(t, x, y)
	}
}
