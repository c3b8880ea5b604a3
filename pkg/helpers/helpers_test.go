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

package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBoardPort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		name string
		want bool
	}{
		{goos: "linux", name: "ttyUSB0", want: true},
		{goos: "linux", name: "ttyACM1", want: true},
		{goos: "linux", name: "ttyS0", want: false},
		{goos: "darwin", name: "/dev/tty.usbserial-0001", want: true},
		{goos: "darwin", name: "/dev/tty.Bluetooth-Incoming-Port", want: false},
		{goos: "windows", name: "COM6", want: true},
		{goos: "freebsd", name: "/dev/cuaU0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isBoardPort(tt.goos, tt.name))
		})
	}
}

func TestGetLinuxList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"ttyUSB1", "ttyACM0", "ttyS0", "null"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ttyUSBdir"), 0o750))

	got, err := getLinuxList(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "ttyACM0"),
		filepath.Join(dir, "ttyUSB1"),
	}, got)

	got, err = getLinuxList(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInitLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, InitLogging(dir, nil))
	assert.DirExists(t, dir)
}

func TestPathsUseAppName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.AppName, filepath.Base(ConfigDir()))
	assert.Equal(t, config.AppName, filepath.Base(DataDir()))
	assert.Equal(t, "logs", filepath.Base(LogDir()))
}
