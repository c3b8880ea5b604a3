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

// Package mpu6050 samples an InvenSense MPU6050 accelerometer on a Linux I²C
// bus. Register access is done by the TinyGo driver, which runs unchanged on
// top of a periph.io bus.
package mpu6050

import (
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	tinympu "tinygo.org/x/drivers/mpu6050"
)

const DriverID = "mpu6050"

// bus records the last transfer error, which the TinyGo read helpers drop.
type bus struct {
	i2c.Bus
	err error
}

func (b *bus) Tx(addr uint16, w, r []byte) error {
	err := b.Bus.Tx(addr, w, r)
	if err != nil {
		b.err = err
	}
	return err
}

func (b *bus) takeErr() error {
	err := b.err
	b.err = nil
	return err
}

type Accelerometer struct {
	bus    *bus
	closer io.Closer
	dev    tinympu.Device
	mu     syncutil.Mutex
}

// BusName maps a device path like /dev/i2c-1 to the periph bus name "1".
// Other names are passed through.
func BusName(path string) string {
	return strings.TrimPrefix(path, "/dev/i2c-")
}

// Open opens the I²C bus at path (empty for the first available) and
// configures the sensor on it.
func Open(path string) (*Accelerometer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host drivers: %w", err)
	}

	bc, err := i2creg.Open(BusName(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", path, err)
	}

	a, err := New(bc, bc)
	if err != nil {
		_ = bc.Close()
		return nil, err
	}
	return a, nil
}

// New wakes the sensor on b. closer, if set, is closed with the
// accelerometer.
func New(b i2c.Bus, closer io.Closer) (*Accelerometer, error) {
	eb := &bus{Bus: b}
	dev := tinympu.New(eb)

	if !dev.Connected() {
		if err := eb.takeErr(); err != nil {
			return nil, fmt.Errorf("%w: mpu6050 who-am-i: %w", input.ErrNotConnected, err)
		}
		return nil, fmt.Errorf("%w: no mpu6050 at address %#x", input.ErrNotConnected, dev.Address)
	}
	if err := dev.Configure(); err != nil {
		return nil, fmt.Errorf("failed to configure mpu6050: %w", err)
	}

	log.Info().Str("bus", b.String()).Msg("mpu6050 ready")
	return &Accelerometer{bus: eb, closer: closer, dev: dev}, nil
}

func (*Accelerometer) Metadata() input.DriverMetadata {
	return input.DriverMetadata{
		ID:          DriverID,
		Description: "MPU6050 accelerometer on I2C",
	}
}

func (a *Accelerometer) Acceleration() (input.Acceleration, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	x, y, z := a.dev.ReadAcceleration()
	if err := a.bus.takeErr(); err != nil {
		return input.Acceleration{}, fmt.Errorf("failed to read acceleration: %w", err)
	}

	// µg
	return input.Acceleration{
		X: float64(x) / 1e6,
		Y: float64(y) / 1e6,
		Z: float64(z) / 1e6,
	}, nil
}

func (a *Accelerometer) Close() error {
	if a.closer == nil {
		return nil
	}
	if err := a.closer.Close(); err != nil {
		return fmt.Errorf("failed to close i2c bus: %w", err)
	}
	return nil
}
