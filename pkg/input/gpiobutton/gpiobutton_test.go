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

package gpiobutton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestButtonPullUpIdle(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "GPIO4", Num: 4, L: gpio.Low}
	b, err := New(pin)
	require.NoError(t, err)

	assert.Equal(t, gpio.PullUp, pin.Pull())
	pressed, err := b.Pressed()
	require.NoError(t, err)
	assert.False(t, pressed, "pull-up reads high when open")
}

func TestButtonPressedIsLow(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "GPIO4", Num: 4}
	b, err := New(pin)
	require.NoError(t, err)

	require.NoError(t, pin.Out(gpio.Low))
	pressed, err := b.Pressed()
	require.NoError(t, err)
	assert.True(t, pressed)

	require.NoError(t, pin.Out(gpio.High))
	pressed, err = b.Pressed()
	require.NoError(t, err)
	assert.False(t, pressed)
}

func TestButtonMetadata(t *testing.T) {
	t.Parallel()

	b, err := New(&gpiotest.Pin{N: "GPIO17"})
	require.NoError(t, err)
	assert.Equal(t, DriverID, b.Metadata().ID)
	require.NoError(t, b.Close())
}
