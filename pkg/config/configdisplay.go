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

package config

const (
	DisplayConsole = "console"
	DisplayLog     = "log"
	DisplayTUI     = "tui"
	DisplaySerial  = "serial"
)

type Display struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path,omitempty"`
}

func (c *Instance) DisplayDriver() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Display.Driver == "" {
		return DisplayConsole
	}
	return c.vals.Display.Driver
}

// DisplayPath is the serial port used by the serial display driver.
func (c *Instance) DisplayPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.Path
}

func (c *Instance) SetDisplay(driver, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Display.Driver = driver
	c.vals.Display.Path = path
}
