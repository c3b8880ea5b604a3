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

package mocks

import (
	"fmt"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/stretchr/testify/mock"
)

// MockButton is a testify mock of input.Button.
type MockButton struct {
	mock.Mock
}

func (m *MockButton) Metadata() input.DriverMetadata {
	args := m.Called()
	if md, ok := args.Get(0).(input.DriverMetadata); ok {
		return md
	}
	return input.DriverMetadata{}
}

func (m *MockButton) Pressed() (bool, error) {
	args := m.Called()
	if err := args.Error(1); err != nil {
		return false, fmt.Errorf("mock operation failed: %w", err)
	}
	return args.Bool(0), nil
}

func (m *MockButton) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

// MockAccelerometer is a testify mock of input.Accelerometer.
type MockAccelerometer struct {
	mock.Mock
}

func (m *MockAccelerometer) Metadata() input.DriverMetadata {
	args := m.Called()
	if md, ok := args.Get(0).(input.DriverMetadata); ok {
		return md
	}
	return input.DriverMetadata{}
}

func (m *MockAccelerometer) Acceleration() (input.Acceleration, error) {
	args := m.Called()
	if err := args.Error(1); err != nil {
		return input.Acceleration{}, fmt.Errorf("mock operation failed: %w", err)
	}
	a, _ := args.Get(0).(input.Acceleration)
	return a, nil
}

func (m *MockAccelerometer) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}
