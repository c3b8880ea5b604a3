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

// Package publishers forwards kiosk notifications to external systems.
package publishers

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/notifications"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/shared/mqttclient"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 2 * time.Second

var (
	ErrNotStarted     = errors.New("publisher not started")
	ErrPublishTimeout = errors.New("publish timed out")
)

// MQTTPublisher publishes notification params as JSON to one topic.
type MQTTPublisher struct {
	client  mqtt.Client
	factory mqttclient.Factory
	broker  string
	topic   string
	filter  []string
}

// NewMQTTPublisher returns a publisher for broker and topic. An empty
// filter publishes every notification, otherwise only the listed methods.
func NewMQTTPublisher(broker, topic string, filter []string) *MQTTPublisher {
	return &MQTTPublisher{
		factory: mqttclient.DefaultFactory,
		broker:  broker,
		topic:   topic,
		filter:  filter,
	}
}

// Start connects to the broker.
func (p *MQTTPublisher) Start() error {
	opts := mqttclient.NewOptions(p.broker, "zaparoo-kiosk-publisher-")
	opts.OnConnect = func(_ mqtt.Client) {
		log.Info().Msgf("mqtt publisher: connected to %s", p.broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt publisher: connection lost")
	}

	client, err := mqttclient.Connect(p.factory, opts)
	if err != nil {
		return err
	}
	p.client = client

	log.Info().Msgf("mqtt publisher: publishing to %s (topic: %s)", p.broker, p.topic)
	return nil
}

// Publish sends n if it passes the filter. It waits at most publishTimeout
// for the broker.
func (p *MQTTPublisher) Publish(n notifications.Notification) error {
	if !p.matchesFilter(n.Method) {
		return nil
	}
	if p.client == nil {
		return ErrNotStarted
	}

	payload := []byte(n.Params)
	if payload == nil {
		payload = []byte("null")
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s", ErrPublishTimeout, n.Method)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", n.Method, err)
	}

	log.Debug().Msgf("mqtt publisher: published %s notification", n.Method)
	return nil
}

// Stop disconnects from the broker.
func (p *MQTTPublisher) Stop() {
	if p.client != nil && p.client.IsConnected() {
		log.Debug().Msg("mqtt publisher: disconnecting")
		p.client.Disconnect(mqttclient.DisconnectQuiesce)
	}
}

func (p *MQTTPublisher) matchesFilter(method string) bool {
	return len(p.filter) == 0 || slices.Contains(p.filter, method)
}
