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

package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/testing/mocks"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openWithMock(t *testing.T, client *mocks.MockMQTTClient, path string) (*Sensor, error) {
	t.Helper()
	return Open(path, func(opts *mqtt.ClientOptions) mqtt.Client {
		if opts.OnConnect != nil {
			go opts.OnConnect(client)
		}
		return client
	})
}

func TestParsePayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantBtn   *bool
		wantAccel *input.Acceleration
		name      string
		data      string
		wantErr   bool
	}{
		{
			name:    "button only",
			data:    `{"button":true}`,
			wantBtn: func() *bool { b := true; return &b }(),
		},
		{
			name:      "accel only",
			data:      `{"accel":{"x":0.5,"y":-0.25,"z":1}}`,
			wantAccel: &input.Acceleration{X: 0.5, Y: -0.25, Z: 1},
		},
		{
			name:      "both",
			data:      `{"button":false,"accel":{"x":0,"y":0,"z":1}}`,
			wantBtn:   func() *bool { b := false; return &b }(),
			wantAccel: &input.Acceleration{Z: 1},
		},
		{name: "empty object", data: `{}`, wantErr: true},
		{name: "not json", data: `pressed`, wantErr: true},
		{name: "wrong type", data: `{"button":"yes"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			btn, accel, err := ParsePayload([]byte(tt.data))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBtn, btn)
			assert.Equal(t, tt.wantAccel, accel)
		})
	}
}

func TestSensorLatestWins(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockMQTTClient()
	s, err := openWithMock(t, client, "localhost:1883/kiosk/sensor")
	require.NoError(t, err)
	assert.True(t, s.Connected())

	require.Eventually(t, func() bool {
		return client.Subscribed("kiosk/sensor")
	}, time.Second, 5*time.Millisecond)

	_, err = s.Pressed()
	require.ErrorIs(t, err, input.ErrNoSample)
	_, err = s.Acceleration()
	require.ErrorIs(t, err, input.ErrNoSample)

	client.Deliver("kiosk/sensor", []byte(`{"button":true,"accel":{"x":0.1,"y":0.2,"z":1}}`))
	client.Deliver("kiosk/sensor", []byte(`{"accel":{"x":1.9,"y":0.2,"z":1}}`))
	client.Deliver("kiosk/sensor", []byte(`garbage`))

	pressed, err := s.Pressed()
	require.NoError(t, err)
	assert.True(t, pressed, "accel-only message keeps the button state")

	a, err := s.Acceleration()
	require.NoError(t, err)
	assert.InDelta(t, 1.9, a.X, 1e-9)

	require.NoError(t, s.Close())
	assert.False(t, client.IsConnected())
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	_, err := Open("localhost:1883", nil)
	require.Error(t, err, "topic is required")

	client := mocks.NewMockMQTTClient()
	client.ConnectError = errors.New("connection refused")
	_, err = openWithMock(t, client, "localhost:1883/kiosk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
