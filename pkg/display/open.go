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

package display

import (
	"fmt"
	"os"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link"
)

// Open returns the display driver named in the config. onQuit is passed to
// drivers that own the terminal.
func Open(cfg *config.Instance, pool *link.Pool, onQuit func()) (Display, error) {
	switch driver := cfg.DisplayDriver(); driver {
	case config.DisplayConsole:
		return NewConsole(os.Stdout), nil
	case config.DisplayLog:
		return NewLog(), nil
	case config.DisplayTUI:
		return NewTUI(nil, onQuit)
	case config.DisplaySerial:
		return NewSerial(pool, cfg.DisplayPath())
	default:
		return nil, fmt.Errorf("unknown display driver: %s", driver)
	}
}
