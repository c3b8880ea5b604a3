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

// Package mqttclient holds the broker plumbing shared by the MQTT input
// driver and the notification publisher.
package mqttclient

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ConnectTimeout = 5 * time.Second
	// DisconnectQuiesce is how long, in ms, paho waits for in-flight work
	// when disconnecting.
	DisconnectQuiesce = 250
)

var (
	ErrEmptyPath     = errors.New("path cannot be empty")
	ErrNoBroker      = errors.New("broker address (host:port) is required")
	ErrNoTopic       = errors.New("topic is required")
	ErrConnectTimeout = errors.New("connection timeout")
)

// Factory builds a client from options. Tests swap it for a mock.
type Factory func(opts *mqtt.ClientOptions) mqtt.Client

// DefaultFactory creates real paho clients.
func DefaultFactory(opts *mqtt.ClientOptions) mqtt.Client {
	return mqtt.NewClient(opts)
}

// ParsePath splits a "broker:port/topic" path, optionally prefixed with an
// mqtt:// or mqtts:// scheme.
//
//   - "localhost:1883/kiosk/sensor" -> ("localhost:1883", "kiosk/sensor")
//   - "mqtts://broker.lan:8883/lobby" -> ("broker.lan:8883", "lobby")
func ParsePath(path string) (broker, topic string, err error) {
	if path == "" {
		return "", "", ErrEmptyPath
	}

	urlStr := path
	if !strings.HasPrefix(path, "mqtt://") && !strings.HasPrefix(path, "mqtts://") {
		urlStr = "mqtt://" + path
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse MQTT URL: %w", err)
	}
	if u.Host == "" {
		return "", "", ErrNoBroker
	}

	topic = strings.TrimLeft(u.Path, "/")
	if topic == "" {
		return "", "", ErrNoTopic
	}

	return u.Host, topic, nil
}

// Endpoint is a broker address split into the paho protocol and the rest.
type Endpoint struct {
	Protocol  string
	Scheme    string
	Remainder string
	UseTLS    bool
}

// ParseEndpoint maps mqtt/mqtts/ssl schemes to paho's tcp and ssl.
func ParseEndpoint(urlStr string) Endpoint {
	ep := Endpoint{
		Protocol:  "tcp",
		Remainder: urlStr,
	}

	if scheme, rest, ok := strings.Cut(urlStr, "://"); ok {
		ep.Scheme = scheme
		ep.Remainder = rest
		if scheme == "mqtts" || scheme == "ssl" {
			ep.Protocol = "ssl"
			ep.UseTLS = true
		}
	}

	return ep
}

// BrokerURL returns the address to look credentials up with, keeping the
// scheme from path when it had one.
func BrokerURL(path, broker string) string {
	if strings.Contains(path, "://") {
		scheme, _, _ := strings.Cut(path, "://")
		return scheme + "://" + broker
	}
	return broker
}

// NewOptions returns client options for brokerURL with a random client id
// under clientIDPrefix. Credentials come from auth.toml.
func NewOptions(brokerURL, clientIDPrefix string) *mqtt.ClientOptions {
	ep := ParseEndpoint(brokerURL)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s://%s", ep.Protocol, ep.Remainder))
	opts.SetClientID(clientIDPrefix + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	// the first connect is bounded by the caller
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetOrderMatters(false)

	creds := config.LookupAuth(config.GetAuthCfg(), brokerURL)
	if creds != nil && creds.Username != "" {
		opts.SetUsername(creds.Username)
		opts.SetPassword(creds.Password)
		log.Debug().Msgf("mqtt: using authentication for %s", ep.Remainder)
	}

	if ep.UseTLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
		log.Debug().Msgf("mqtt: using TLS for %s", ep.Remainder)
	}

	return opts
}

// Connect creates a client and waits up to ConnectTimeout for it to
// connect. The client is torn down on failure.
func Connect(factory Factory, opts *mqtt.ClientOptions) (mqtt.Client, error) {
	if factory == nil {
		factory = DefaultFactory
	}
	client := factory(opts)

	token := client.Connect()
	if !token.WaitTimeout(ConnectTimeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", ErrConnectTimeout)
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}
	return client, nil
}
