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

// Package drivers maps configured driver names to input implementations.
package drivers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/gpiobutton"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/mpu6050"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/mqtt"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/serial"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/simulated"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/shared/mqttclient"
	"github.com/rs/zerolog/log"
)

// Options carries shared resources into drivers that need them. Zero values
// pick the defaults.
type Options struct {
	Pool *link.Pool
	MQTT mqttclient.Factory
}

func (o Options) pool() *link.Pool {
	if o.Pool == nil {
		return link.DefaultPool
	}
	return o.Pool
}

type driver struct {
	button func(path string, opts Options) (input.Button, error)
	accel  func(path string, opts Options) (input.Accelerometer, error)
	meta   input.DriverMetadata
}

var registry = map[string]driver{
	gpiobutton.DriverID: {
		meta: (&gpiobutton.Button{}).Metadata(),
		button: func(path string, _ Options) (input.Button, error) {
			return gpiobutton.Open(path)
		},
	},
	mpu6050.DriverID: {
		meta: (&mpu6050.Accelerometer{}).Metadata(),
		accel: func(path string, _ Options) (input.Accelerometer, error) {
			return mpu6050.Open(path)
		},
	},
	serial.DriverID: {
		meta: (&serial.Panel{}).Metadata(),
		button: func(path string, opts Options) (input.Button, error) {
			return serial.Open(opts.pool(), path)
		},
		accel: func(path string, opts Options) (input.Accelerometer, error) {
			return serial.Open(opts.pool(), path)
		},
	},
	mqtt.DriverID: {
		meta: (&mqtt.Sensor{}).Metadata(),
		button: func(path string, opts Options) (input.Button, error) {
			return mqtt.Open(path, opts.MQTT)
		},
		accel: func(path string, opts Options) (input.Accelerometer, error) {
			return mqtt.Open(path, opts.MQTT)
		},
	},
	simulated.DriverID: {
		meta: (&simulated.Device{}).Metadata(),
		button: func(string, Options) (input.Button, error) {
			return simulated.Open(), nil
		},
		accel: func(string, Options) (input.Accelerometer, error) {
			return simulated.Open(), nil
		},
	},
}

func lookup(ic config.InputConnect) (driver, error) {
	d, ok := registry[strings.ToLower(ic.Driver)]
	if !ok {
		return driver{}, fmt.Errorf("%w: %q", input.ErrUnknownDriver, ic.Driver)
	}
	return d, nil
}

// OpenButton opens the button described by ic.
func OpenButton(ic config.InputConnect, opts Options) (input.Button, error) {
	d, err := lookup(ic)
	if err != nil {
		return nil, err
	}
	if d.button == nil {
		return nil, fmt.Errorf("%w: %s has no button", input.ErrUnknownDriver, ic.Driver)
	}

	b, err := d.button(ic.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open button %s: %w", ic.ConnectionString(), err)
	}
	log.Info().Str("device", ic.ConnectionString()).Msg("opened button")
	return b, nil
}

// OpenAccelerometer opens the accelerometer described by ic.
func OpenAccelerometer(ic config.InputConnect, opts Options) (input.Accelerometer, error) {
	d, err := lookup(ic)
	if err != nil {
		return nil, err
	}
	if d.accel == nil {
		return nil, fmt.Errorf("%w: %s has no accelerometer", input.ErrUnknownDriver, ic.Driver)
	}

	a, err := d.accel(ic.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open accelerometer %s: %w", ic.ConnectionString(), err)
	}
	log.Info().Str("device", ic.ConnectionString()).Msg("opened accelerometer")
	return a, nil
}

// Supported lists every registered driver sorted by ID.
func Supported() []input.DriverMetadata {
	out := make([]input.DriverMetadata, 0, len(registry))
	for _, d := range registry {
		out = append(out, d.meta)
	}
	slices.SortFunc(out, func(a, b input.DriverMetadata) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
