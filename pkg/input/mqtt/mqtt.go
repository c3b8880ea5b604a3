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

// Package mqtt takes button and accelerometer readings from a remote sensor
// that publishes JSON to an MQTT topic:
//
//	{"button": true, "accel": {"x": 0.1, "y": -0.2, "z": 0.98}}
//
// Either field may be omitted. The newest value of each wins.
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/shared/mqttclient"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const DriverID = "mqtt"

var ErrBadPayload = errors.New("invalid sensor payload")

type payload struct {
	Button *bool               `json:"button"`
	Accel  *input.Acceleration `json:"accel"`
}

// ParsePayload decodes one sensor message. A message with neither field is
// an error.
func ParsePayload(data []byte) (button *bool, accel *input.Acceleration, err error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	if p.Button == nil && p.Accel == nil {
		return nil, nil, fmt.Errorf("%w: no button or accel field", ErrBadPayload)
	}
	return p.Button, p.Accel, nil
}

type Sensor struct {
	client    mqtt.Client
	accel     input.Acceleration
	broker    string
	topic     string
	pressed   bool
	haveBtn   bool
	haveAccel bool
	mu        syncutil.RWMutex
}

// Open connects to the broker in path ("broker:port/topic") and subscribes
// to the topic. A nil factory uses real paho clients.
func Open(path string, factory mqttclient.Factory) (*Sensor, error) {
	broker, topic, err := mqttclient.ParsePath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MQTT path: %w", err)
	}

	s := &Sensor{broker: broker, topic: topic}

	opts := mqttclient.NewOptions(mqttclient.BrokerURL(path, broker), "zaparoo-kiosk-sensor-")
	opts.OnConnect = func(client mqtt.Client) {
		log.Info().Msgf("mqtt sensor: connected to %s", broker)

		// re-subscribes on every reconnect
		token := client.Subscribe(topic, 1, s.handleMessage)
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Msgf("mqtt sensor: failed to subscribe to %s", topic)
			return
		}
		log.Info().Msgf("mqtt sensor: subscribed to topic %s", topic)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt sensor: connection lost")
	}

	client, err := mqttclient.Connect(factory, opts)
	if err != nil {
		return nil, err
	}
	s.client = client

	log.Info().Msgf("mqtt sensor: opened connection to %s (topic: %s)", broker, topic)
	return s, nil
}

func (s *Sensor) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	button, accel, err := ParsePayload(msg.Payload())
	if err != nil {
		log.Debug().Err(err).Msg("mqtt sensor: ignoring message")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if button != nil {
		s.pressed = *button
		s.haveBtn = true
	}
	if accel != nil {
		s.accel = *accel
		s.haveAccel = true
	}
}

func (*Sensor) Metadata() input.DriverMetadata {
	return input.DriverMetadata{
		ID:          DriverID,
		Description: "Remote sensor over MQTT",
	}
}

func (s *Sensor) Pressed() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveBtn {
		return false, input.ErrNoSample
	}
	return s.pressed, nil
}

func (s *Sensor) Acceleration() (input.Acceleration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveAccel {
		return input.Acceleration{}, input.ErrNoSample
	}
	return s.accel, nil
}

// Connected reports whether the broker connection is up.
func (s *Sensor) Connected() bool {
	return s.client != nil && s.client.IsConnected()
}

func (s *Sensor) Close() error {
	if s.client != nil && s.client.IsConnected() {
		log.Debug().Msg("mqtt sensor: disconnecting")
		s.client.Disconnect(mqttclient.DisconnectQuiesce)
	}
	return nil
}
