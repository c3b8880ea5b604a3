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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.bug.st/serial"
)

// USB serial bridges found on common ESP32 and RP2040 boards.
var serialPrefixes = map[string][]string{
	"linux":   {"ttyUSB", "ttyACM"},
	"darwin":  {"/dev/tty.usbserial", "/dev/tty.usbmodem", "/dev/tty.SLAB_USBtoUART"},
	"windows": {"COM"},
}

func isBoardPort(goos, name string) bool {
	prefixes, ok := serialPrefixes[goos]
	if !ok {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func getLinuxList(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s directory: %w", dir, err)
	}

	devices := make([]string, 0, len(entries))
	for _, v := range entries {
		if v.IsDir() || !isBoardPort("linux", v.Name()) {
			continue
		}
		devices = append(devices, filepath.Join(dir, v.Name()))
	}

	sort.Strings(devices)
	return devices, nil
}

// GetSerialDeviceList returns serial ports that look like a USB attached
// microcontroller board.
func GetSerialDeviceList() ([]string, error) {
	if runtime.GOOS == "linux" {
		return getLinuxList("/dev")
	}

	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to get serial ports list: %w", err)
	}

	devices := make([]string, 0, len(ports))
	for _, v := range ports {
		if isBoardPort(runtime.GOOS, v) {
			devices = append(devices, v)
		}
	}
	return devices, nil
}
