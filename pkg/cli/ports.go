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

package cli

import (
	"fmt"
	"io"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link"
	"go.bug.st/serial"
)

// ListPorts prints every candidate serial port and whether it can be
// opened. A port that fails to open is reported, not returned as an error.
func ListPorts(w io.Writer, list func() ([]string, error), open link.PortFactory) error {
	ports, err := list()
	if err != nil {
		return fmt.Errorf("failed to list serial ports: %w", err)
	}
	if len(ports) == 0 {
		_, _ = fmt.Fprintln(w, "No serial ports found.")
		return nil
	}

	_, _ = fmt.Fprintln(w, "Available serial ports:")
	for _, p := range ports {
		_, _ = fmt.Fprintf(w, "  %s\n", p)
	}

	for _, p := range ports {
		port, err := open(p, &serial.Mode{BaudRate: link.BaudRate})
		if err != nil {
			_, _ = fmt.Fprintf(w, "could not open %s: %v\n", p, err)
			continue
		}
		if err := port.Close(); err != nil {
			_, _ = fmt.Fprintf(w, "opened %s but close failed: %v\n", p, err)
			continue
		}
		_, _ = fmt.Fprintf(w, "opened %s\n", p)
	}
	return nil
}
