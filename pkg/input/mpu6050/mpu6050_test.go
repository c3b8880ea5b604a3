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

package mpu6050

import (
	"testing"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

const addr = 0x68

var (
	whoAmI = i2ctest.IO{Addr: addr, W: []byte{0x75}, R: []byte{0x68}}
	wake   = i2ctest.IO{Addr: addr, W: []byte{0x6B, 0x00}}
)

func TestAcceleration(t *testing.T) {
	t.Parallel()

	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			whoAmI,
			wake,
			// x = 0.5 g, y = -0.5 g, z = 1 g at ±2 g full scale
			{Addr: addr, W: []byte{0x3B}, R: []byte{0x20, 0x00, 0xE0, 0x00, 0x40, 0x00}},
		},
	}

	a, err := New(bus, bus)
	require.NoError(t, err)

	got, err := a.Acceleration()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got.X, 1e-6)
	assert.InDelta(t, -0.5, got.Y, 1e-6)
	assert.InDelta(t, 1.0, got.Z, 1e-6)

	require.NoError(t, a.Close(), "every recorded transfer was used")
}

func TestReadErrorSurfaces(t *testing.T) {
	t.Parallel()

	bus := &i2ctest.Playback{Ops: []i2ctest.IO{whoAmI, wake}, DontPanic: true}

	a, err := New(bus, nil)
	require.NoError(t, err)

	_, err = a.Acceleration()
	require.Error(t, err)

	// a later good read is not poisoned by the old error
	bus.Ops = append(bus.Ops, i2ctest.IO{Addr: addr, W: []byte{0x3B}, R: make([]byte, 6)})
	got, err := a.Acceleration()
	require.NoError(t, err)
	assert.Equal(t, input.Acceleration{}, got)
}

func TestWrongDevice(t *testing.T) {
	t.Parallel()

	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{{Addr: addr, W: []byte{0x75}, R: []byte{0x71}}},
	}
	_, err := New(bus, nil)
	require.ErrorIs(t, err, input.ErrNotConnected)
}

func TestNoDevice(t *testing.T) {
	t.Parallel()

	bus := &i2ctest.Playback{DontPanic: true}
	_, err := New(bus, nil)
	require.ErrorIs(t, err, input.ErrNotConnected)
}

func TestBusName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1", BusName("/dev/i2c-1"))
	assert.Equal(t, "I2C1", BusName("I2C1"))
	assert.Empty(t, BusName(""))
}
