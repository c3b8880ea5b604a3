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
	"fmt"
	"time"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultDebounce     = 50 * time.Millisecond
	DefaultTiltCooldown = 1000 * time.Millisecond
	DefaultTiltLevel    = 1.5
)

type Input struct {
	TiltEnabled   *bool        `toml:"tilt_enabled,omitempty"`
	PollInterval  int          `toml:"poll_interval_ms,omitempty"`
	Debounce      int          `toml:"debounce_ms,omitempty"`
	TiltCooldown  int          `toml:"tilt_cooldown_ms,omitempty"`
	TiltThreshold float64      `toml:"tilt_threshold,omitempty"`
	Button        InputConnect `toml:"button"`
	Accelerometer InputConnect `toml:"accelerometer"`
}

// InputConnect names the driver and device path for one input.
type InputConnect struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path,omitempty"`
}

func (ic InputConnect) ConnectionString() string {
	return fmt.Sprintf("%s:%s", ic.Driver, ic.Path)
}

func msOr(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Instance) PollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return msOr(c.vals.Input.PollInterval, DefaultPollInterval)
}

func (c *Instance) DebounceThreshold() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return msOr(c.vals.Input.Debounce, DefaultDebounce)
}

func (c *Instance) TiltCooldown() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return msOr(c.vals.Input.TiltCooldown, DefaultTiltCooldown)
}

func (c *Instance) TiltThreshold() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Input.TiltThreshold <= 0 {
		return DefaultTiltLevel
	}
	return c.vals.Input.TiltThreshold
}

// TiltEnabled reports whether the accelerometer should be opened at all.
// The sensor is optional, so it defaults to on and a missing device is only
// logged.
func (c *Instance) TiltEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Input.TiltEnabled == nil {
		return true
	}
	return *c.vals.Input.TiltEnabled
}

func (c *Instance) SetTiltEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Input.TiltEnabled = &enabled
}

func (c *Instance) ButtonConnect() InputConnect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Input.Button
}

func (c *Instance) AccelerometerConnect() InputConnect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Input.Accelerometer
}

func (c *Instance) SetButtonConnect(ic InputConnect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Input.Button = ic
}

func (c *Instance) SetAccelerometerConnect(ic InputConnect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Input.Accelerometer = ic
}
