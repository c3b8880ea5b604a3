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

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link"
)

// Serial sends rendered frames to the front panel firmware, which draws them
// on its OLED.
type Serial struct {
	link *link.Link
}

// NewSerial opens (or shares) the link at path. An empty path auto-detects
// the panel.
func NewSerial(pool *link.Pool, path string) (*Serial, error) {
	l, err := pool.Acquire(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial display: %w", err)
	}
	return &Serial{link: l}, nil
}

func (d *Serial) Show(s Screen) error {
	return d.link.WriteFrame(Render(s, Cols, Rows))
}

func (d *Serial) Close() error {
	return d.link.Release()
}
