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

// Package input defines the kiosk's physical inputs: a push button and an
// optional 3-axis accelerometer. Drivers live in sub-packages and are picked
// by name through the drivers registry.
package input

import (
	"errors"
	"io"
)

var (
	ErrUnknownDriver = errors.New("unknown input driver")
	ErrNotConnected  = errors.New("input device not connected")
	// ErrNoSample is returned by remote drivers before the first reading has
	// arrived.
	ErrNoSample = errors.New("no sample received yet")
)

// Acceleration is one accelerometer sample in g.
type Acceleration struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type DriverMetadata struct {
	ID          string
	Description string
}

// Button is a momentary push button. Pressed returns the raw level, not a
// debounced one.
type Button interface {
	io.Closer
	Metadata() DriverMetadata
	Pressed() (bool, error)
}

// Accelerometer returns the latest 3-axis sample.
type Accelerometer interface {
	io.Closer
	Metadata() DriverMetadata
	Acceleration() (Acceleration, error)
}
