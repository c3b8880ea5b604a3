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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no username in path",
			input:    "/usr/local/bin/kiosk",
			expected: "/usr/local/bin/kiosk",
		},
		{
			name:     "linux home path",
			input:    "/home/pi/src/kiosk/pkg/config/config.go",
			expected: "/home/<user>/src/kiosk/pkg/config/config.go",
		},
		{
			name:     "linux home path uppercase",
			input:    "/Home/Pi/src/kiosk/pkg/config/config.go",
			expected: "/home/<user>/src/kiosk/pkg/config/config.go",
		},
		{
			name:     "macos users path",
			input:    "/Users/kiosk/Documents/kiosk/kiosk.toml",
			expected: "/Users/<user>/Documents/kiosk/kiosk.toml",
		},
		{
			name:     "macos users path lowercase",
			input:    "/users/kiosk/Documents/kiosk/kiosk.toml",
			expected: "/Users/<user>/Documents/kiosk/kiosk.toml",
		},
		{
			name:     "windows path",
			input:    "C:\\Users\\kiosk\\AppData\\Local\\kiosk\\kiosk.toml",
			expected: "C:\\Users\\<user>\\AppData\\Local\\kiosk\\kiosk.toml",
		},
		{
			name:     "windows path lowercase drive",
			input:    "c:\\Users\\JohnDoe\\Documents\\zaparoo",
			expected: "C:\\Users\\<user>\\Documents\\zaparoo",
		},
		{
			name:     "windows path different drive",
			input:    "D:\\Users\\admin\\zaparoo\\logs",
			expected: "C:\\Users\\<user>\\zaparoo\\logs",
		},
		{
			name:     "error message with path",
			input:    "failed to open file: /home/user123/config.toml: no such file",
			expected: "failed to open file: /home/<user>/config.toml: no such file",
		},
		{
			name:     "multiple paths in message",
			input:    "copying /home/alice/src to /home/bob/dst",
			expected: "copying /home/<user>/src to /home/<user>/dst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := sanitizePath(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "lobby-kiosk",
		Message:    "failed to read /home/pi/.config/zaparoo-kiosk/kiosk.toml",
		Extra:      map[string]any{"path": "/Users/dev/kiosk.log", "count": 3},
		Exception: []sentry.Exception{
			{Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{
				{AbsPath: "/home/pi/src/kiosk/main.go", Filename: "main.go"},
			}}},
			{},
		},
	}

	got := sanitizeEvent(event)
	require.NotNil(t, got)
	assert.Empty(t, got.ServerName)
	assert.Equal(t, "failed to read /home/<user>/.config/zaparoo-kiosk/kiosk.toml", got.Message)
	assert.Equal(t, "/Users/<user>/kiosk.log", got.Extra["path"])
	assert.Equal(t, 3, got.Extra["count"])
	assert.Equal(t, "/home/<user>/src/kiosk/main.go", got.Exception[0].Stacktrace.Frames[0].AbsPath)
}

func TestInitDisabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(Options{Enabled: false, DSN: "https://key@example.invalid/1"}))
	require.NoError(t, Init(Options{Enabled: true}), "no DSN is not an error")
	assert.False(t, Enabled())

	// no-op while disabled
	Close()
}
