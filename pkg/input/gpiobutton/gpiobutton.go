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

// Package gpiobutton reads a momentary push button wired between a GPIO pin
// and ground. The internal pull-up holds the line high, so pressed reads low.
package gpiobutton

import (
	"fmt"
	"sync"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const (
	DriverID   = "gpio"
	DefaultPin = "GPIO4"
)

var hostInit = sync.OnceValue(func() error {
	_, err := host.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize periph host drivers: %w", err)
	}
	return nil
})

type Button struct {
	pin gpio.PinIO
}

// Open initializes the host drivers and configures the named pin, or
// DefaultPin when name is empty.
func Open(name string) (*Button, error) {
	if err := hostInit(); err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultPin
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: no gpio pin named %s", input.ErrNotConnected, name)
	}
	return New(pin)
}

// New configures pin as a pulled-up input.
func New(pin gpio.PinIO) (*Button, error) {
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure %s as input: %w", pin, err)
	}
	log.Info().Str("pin", pin.Name()).Msg("gpio button ready")
	return &Button{pin: pin}, nil
}

func (*Button) Metadata() input.DriverMetadata {
	return input.DriverMetadata{
		ID:          DriverID,
		Description: "Push button on a GPIO pin",
	}
}

func (b *Button) Pressed() (bool, error) {
	return b.pin.Read() == gpio.Low, nil
}

func (b *Button) Close() error {
	if err := b.pin.Halt(); err != nil {
		return fmt.Errorf("failed to halt gpio pin: %w", err)
	}
	return nil
}
