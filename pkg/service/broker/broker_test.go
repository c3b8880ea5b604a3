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

package broker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startBroker runs a broker that is stopped when the test ends.
func startBroker(t *testing.T, source <-chan notifications.Notification) *Broker {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	b := NewBroker(ctx, source)
	b.Start()
	t.Cleanup(func() {
		cancel()
		<-b.Done()
	})
	return b
}

func event(method string) notifications.Notification {
	return notifications.Notification{Method: method, Params: []byte(`{}`)}
}

func TestSubscribeIDs(t *testing.T) {
	t.Parallel()

	b := NewBroker(context.Background(), make(chan notifications.Notification))

	_, id := b.Subscribe(10)
	assert.Equal(t, 0, id)
	_, id = b.Subscribe(10)
	assert.Equal(t, 1, id)
	assert.Len(t, b.subscribers, 2)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	b := NewBroker(context.Background(), make(chan notifications.Notification))
	ch, id := b.Subscribe(10)

	b.Unsubscribe(id)
	_, ok := <-ch
	assert.False(t, ok)
	assert.Empty(t, b.subscribers)

	b.Unsubscribe(id)
}

func TestBroadcastReachesEverySubscriber(t *testing.T) {
	t.Parallel()

	source := make(chan notifications.Notification, 10)
	b := startBroker(t, source)

	subs := make([]<-chan notifications.Notification, 3)
	for i := range subs {
		subs[i], _ = b.Subscribe(10)
	}

	source <- event(notifications.MethodInteractionSent)
	for _, sub := range subs {
		assert.Equal(t, notifications.MethodInteractionSent, (<-sub).Method)
	}
}

func TestFullSubscriberDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	source := make(chan notifications.Notification, 100)
	b := startBroker(t, source)

	fast, _ := b.Subscribe(20)
	slow, _ := b.Subscribe(2)

	for range 20 {
		source <- event("kiosk.test")
	}

	for range 20 {
		select {
		case <-fast:
		case <-time.After(time.Second):
			t.Fatal("fast subscriber starved")
		}
	}
	assert.Len(t, slow, 2, "overflow is dropped")
}

func TestOrderIsPreserved(t *testing.T) {
	t.Parallel()

	source := make(chan notifications.Notification, 10)
	b := startBroker(t, source)
	sub, _ := b.Subscribe(10)

	methods := []string{
		notifications.MethodStarted,
		notifications.MethodInteractionSent,
		notifications.MethodRecommendationsShown,
	}
	for _, m := range methods {
		source <- event(m)
	}
	for _, m := range methods {
		assert.Equal(t, m, (<-sub).Method)
	}
}

func TestShutdownClosesSubscribers(t *testing.T) {
	t.Parallel()

	t.Run("context cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		b := NewBroker(ctx, make(chan notifications.Notification))
		sub, _ := b.Subscribe(1)
		b.Start()

		cancel()
		<-b.Done()
		_, ok := <-sub
		assert.False(t, ok)
	})

	t.Run("source closed", func(t *testing.T) {
		t.Parallel()

		source := make(chan notifications.Notification)
		b := NewBroker(context.Background(), source)
		sub, _ := b.Subscribe(1)
		b.Start()

		close(source)
		<-b.Done()
		_, ok := <-sub
		assert.False(t, ok)
	})
}

func TestConcurrentSubscribeUnsubscribe(t *testing.T) {
	t.Parallel()

	source := make(chan notifications.Notification, 100)
	ctx, cancel := context.WithCancel(context.Background())
	b := NewBroker(ctx, source)
	b.Start()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, id := b.Subscribe(5)
			time.Sleep(5 * time.Millisecond)
			b.Unsubscribe(id)
		}()
	}
	for range 20 {
		source <- event("kiosk.test")
	}
	wg.Wait()

	cancel()
	select {
	case <-b.Done():
	case <-time.After(time.Second):
		require.FailNow(t, "broker did not stop")
	}
}
