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

import "github.com/rs/zerolog/log"

// Log writes screens to the log instead of a device. Useful for headless
// installs where the log is the only output.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (*Log) Show(s Screen) error {
	log.Info().
		Str("title", s.Title).
		Strs("lines", s.Lines).
		Msg("display")
	return nil
}

func (*Log) Close() error {
	return nil
}
