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

package mocks

import (
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Published is one message sent through MockMQTTClient.
type Published struct {
	Payload any
	Topic   string
	QoS     byte
}

// MockMQTTClient implements mqtt.Client in memory. Subscriptions are kept
// so tests can push messages with Deliver.
type MockMQTTClient struct {
	ConnectError   error
	SubscribeError error
	PublishError   error
	// ConnectHangs makes Connect return a token that never completes.
	ConnectHangs bool
	handlers     map[string]mqtt.MessageHandler
	published    []Published
	disconnects  int
	connected    bool
	mu           syncutil.Mutex
}

func NewMockMQTTClient() *MockMQTTClient {
	return &MockMQTTClient{handlers: make(map[string]mqtt.MessageHandler)}
}

func (m *MockMQTTClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockMQTTClient) IsConnectionOpen() bool {
	return m.IsConnected()
}

func (m *MockMQTTClient) Connect() mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConnectHangs {
		return &MockToken{}
	}
	if m.ConnectError != nil {
		return &MockToken{Err: m.ConnectError, Complete: true}
	}
	m.connected = true
	return &MockToken{Complete: true}
}

func (m *MockMQTTClient) Disconnect(_ uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	m.disconnects++
}

// Disconnects returns how many times Disconnect was called.
func (m *MockMQTTClient) Disconnects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disconnects
}

func (m *MockMQTTClient) Publish(topic string, qos byte, _ bool, payload any) mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return &MockToken{Err: m.PublishError, Complete: true}
	}
	m.published = append(m.published, Published{Topic: topic, QoS: qos, Payload: payload})
	return &MockToken{Complete: true}
}

// Published returns a copy of every successful publish.
func (m *MockMQTTClient) Published() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Published(nil), m.published...)
}

func (m *MockMQTTClient) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubscribeError != nil {
		return &MockToken{Err: m.SubscribeError, Complete: true}
	}
	m.handlers[topic] = callback
	return &MockToken{Complete: true}
}

func (m *MockMQTTClient) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	for topic := range filters {
		m.handlers[topic] = callback
	}
	return &MockToken{Complete: true}
}

func (m *MockMQTTClient) Unsubscribe(topics ...string) mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, topic := range topics {
		delete(m.handlers, topic)
	}
	return &MockToken{Complete: true}
}

func (m *MockMQTTClient) AddRoute(topic string, callback mqtt.MessageHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = callback
}

func (*MockMQTTClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

// Subscribed reports whether a handler is registered for topic.
func (m *MockMQTTClient) Subscribed(topic string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.handlers[topic]
	return ok
}

// Deliver calls the handler subscribed to topic, if any, and reports
// whether one was found.
func (m *MockMQTTClient) Deliver(topic string, payload []byte) bool {
	m.mu.Lock()
	h, ok := m.handlers[topic]
	m.mu.Unlock()
	if !ok {
		return false
	}
	h(m, &MockMessage{topic: topic, payload: payload})
	return true
}

// MockToken implements mqtt.Token. An incomplete token times out.
type MockToken struct {
	Err      error
	Complete bool
}

func (t *MockToken) Wait() bool {
	return t.Complete
}

func (t *MockToken) WaitTimeout(_ time.Duration) bool {
	return t.Complete
}

func (t *MockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.Complete {
		close(ch)
	}
	return ch
}

func (t *MockToken) Error() error {
	return t.Err
}

// MockMessage implements mqtt.Message.
type MockMessage struct {
	topic   string
	payload []byte
}

func (*MockMessage) Duplicate() bool { return false }
func (*MockMessage) Qos() byte { return 1 }
func (*MockMessage) Retained() bool { return false }
func (m *MockMessage) Topic() string { return m.topic }
func (*MockMessage) MessageID() uint16 { return 1 }
func (m *MockMessage) Payload() []byte { return m.payload }
func (*MockMessage) Ack() {}
