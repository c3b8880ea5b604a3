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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestParseInteraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		input   string
		want    recommend.Interaction
	}{
		{name: "type only", input: "button", want: recommend.Interaction{Type: "button"}},
		{name: "type and data", input: "voice:funny films", want: recommend.Interaction{Type: "voice", Data: "funny films"}},
		{name: "data with colon", input: "tilt:x=1:y=2", want: recommend.Interaction{Type: "tilt", Data: "x=1:y=2"}},
		{name: "empty", input: "", wantErr: ErrBadInteraction},
		{name: "no type", input: ":refresh", wantErr: ErrBadInteraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseInteraction(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func testConfig(t *testing.T, h http.HandlerFunc) *config.Instance {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	defaults := config.BaseDefaults
	defaults.Server.URL = srv.URL
	defaults.Server.Device = "lobby"
	cfg, err := config.NewConfig(t.TempDir(), defaults)
	require.NoError(t, err)
	return cfg
}

func TestSendInteraction(t *testing.T) {
	t.Parallel()

	var got recommend.Interaction
	cfg := testConfig(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"status":"success","recommendations":[{"title":"Fargo","score":4.6}]}`))
	})

	var out bytes.Buffer
	require.NoError(t, SendInteraction(context.Background(), cfg, "voice:comedy", &out))
	assert.Equal(t, recommend.Interaction{Type: "voice", Data: "comedy", Device: "lobby"}, got)
	assert.Contains(t, out.String(), `"title": "Fargo"`)
}

func TestSendInteractionServerError(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := SendInteraction(context.Background(), cfg, "button", &bytes.Buffer{})
	require.ErrorIs(t, err, recommend.ErrStatus)
}

func TestPrintStatus(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"running","iot_interactions":4,"active_devices":2}`))
	})

	var out bytes.Buffer
	require.NoError(t, PrintStatus(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), `"iot_interactions": 4`)
}

func TestListPorts(t *testing.T) {
	t.Parallel()

	good := mocks.NewMockSerialPort()
	opened := make(map[string]int)
	open := func(path string, mode *serial.Mode) (link.Port, error) {
		opened[path] = mode.BaudRate
		if path == "/dev/ttyUSB1" {
			return nil, errors.New("permission denied")
		}
		return good, nil
	}
	list := func() ([]string, error) { return []string{"/dev/ttyUSB0", "/dev/ttyUSB1"}, nil }

	var out bytes.Buffer
	require.NoError(t, ListPorts(&out, list, open))

	assert.Contains(t, out.String(), "opened /dev/ttyUSB0")
	assert.Contains(t, out.String(), "could not open /dev/ttyUSB1: permission denied")
	assert.Equal(t, map[string]int{"/dev/ttyUSB0": link.BaudRate, "/dev/ttyUSB1": link.BaudRate}, opened)
	assert.True(t, good.IsClosed())
}

func TestListPortsNone(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := ListPorts(&out, func() ([]string, error) { return nil, nil }, nil)
	require.NoError(t, err)
	assert.Equal(t, "No serial ports found.\n", out.String())
}

func TestListPortsError(t *testing.T) {
	t.Parallel()

	err := ListPorts(&bytes.Buffer{}, func() ([]string, error) { return nil, errors.New("boom") }, nil)
	require.Error(t, err)
}
