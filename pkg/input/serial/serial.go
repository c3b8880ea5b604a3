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

// Package serial reads the button and accelerometer streamed by the front
// panel firmware over USB serial.
package serial

import (
	"fmt"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link"
)

const DriverID = "serial"

// Panel is one handle on a shared front panel link. It serves as both a
// Button and an Accelerometer, and each handle must be closed.
type Panel struct {
	link *link.Link
}

// Open acquires the link at path from pool. An empty path auto-detects.
func Open(pool *link.Pool, path string) (*Panel, error) {
	l, err := pool.Acquire(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open front panel: %w", err)
	}
	return &Panel{link: l}, nil
}

func (*Panel) Metadata() input.DriverMetadata {
	return input.DriverMetadata{
		ID:          DriverID,
		Description: "Front panel firmware over USB serial",
	}
}

func (p *Panel) Pressed() (bool, error) {
	s, err := p.link.Latest()
	if err != nil {
		return false, fmt.Errorf("front panel %s: %w", p.link.Path(), err)
	}
	return s.Pressed, nil
}

func (p *Panel) Acceleration() (input.Acceleration, error) {
	s, err := p.link.Latest()
	if err != nil {
		return input.Acceleration{}, fmt.Errorf("front panel %s: %w", p.link.Path(), err)
	}
	return s.Accel, nil
}

func (p *Panel) Close() error {
	return p.link.Release()
}
