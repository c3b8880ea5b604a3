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

import (
	"strings"
	"time"
)

const (
	DefaultServerURL = "http://localhost:5000"
	DefaultDevice    = "esp32"
	// DefaultTimeout bounds one interaction request, and so how long the
	// poll loop can be blocked by a slow server.
	DefaultTimeout = 30 * time.Second
)

type Server struct {
	Timeout *int   `toml:"timeout,omitempty"`
	URL     string `toml:"url"`
	Device  string `toml:"device" validate:"omitempty,max=64,devicename"`
}

// ServerURL returns the recommendation server base URL without a trailing
// slash.
func (c *Instance) ServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u := strings.TrimRight(c.vals.Server.URL, "/")
	if u == "" {
		return DefaultServerURL
	}
	return u
}

func (c *Instance) SetServerURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Server.URL = u
}

// Device returns the device name reported with every interaction.
func (c *Instance) Device() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Server.Device == "" {
		return DefaultDevice
	}
	return c.vals.Server.Device
}

// ServerTimeout returns the per-request timeout. The file value is in
// seconds.
func (c *Instance) ServerTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Server.Timeout == nil || *c.vals.Server.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(*c.vals.Server.Timeout) * time.Second
}
