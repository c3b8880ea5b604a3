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

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/display"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/notifications"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDisplay struct {
	screens []display.Screen
	mu      sync.Mutex
}

func (d *fakeDisplay) Show(s display.Screen) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.screens = append(d.screens, s)
	return nil
}

func (*fakeDisplay) Close() error { return nil }

func (d *fakeDisplay) Screens() []display.Screen {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]display.Screen(nil), d.screens...)
}

type fakeRecommender struct {
	err   error
	resp  *recommend.Response
	calls []recommend.Interaction
	mu    sync.Mutex
}

func (r *fakeRecommender) Interact(_ context.Context, in recommend.Interaction) (*recommend.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, in)
	if r.err != nil {
		return nil, r.err
	}
	return r.resp, nil
}

func (r *fakeRecommender) Calls() []recommend.Interaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recommend.Interaction(nil), r.calls...)
}

var fourPicks = &recommend.Response{Recommendations: []recommend.Recommendation{
	{Title: "Fargo", Score: 4.6},
	{Title: "Apollo 13", Score: 4.5},
	{Title: "Toy Story", Score: 4.8},
	{Title: "Pulp Fiction", Score: 4.6},
}}

type kioskFixture struct {
	kiosk   *Kiosk
	clock   *clockwork.FakeClock
	display *fakeDisplay
	client  *fakeRecommender
	ns      chan notifications.Notification
}

func newKioskFixture(t *testing.T, button input.Button, accel input.Accelerometer) *kioskFixture {
	t.Helper()

	f := &kioskFixture{
		clock:   clockwork.NewFakeClock(),
		display: &fakeDisplay{},
		client:  &fakeRecommender{resp: fourPicks},
		ns:      make(chan notifications.Notification, 20),
	}
	f.kiosk = NewKiosk(KioskOptions{
		Button:        button,
		Accelerometer: accel,
		Display:       f.display,
		Client:        f.client,
		Clock:         f.clock,
		Notifications: f.ns,
		Device:        "esp32",
	})
	return f
}

func (f *kioskFixture) step(d time.Duration) {
	f.clock.Advance(d)
	f.kiosk.Step(context.Background())
}

func (f *kioskFixture) methods() []string {
	var out []string
	for {
		select {
		case n := <-f.ns:
			out = append(out, n.Method)
		default:
			return out
		}
	}
}

func TestStepButtonPress(t *testing.T) {
	t.Parallel()

	button := &mocks.MockButton{}
	button.On("Pressed").Return(true, nil)
	f := newKioskFixture(t, button, nil)

	f.step(0)
	assert.Empty(t, f.client.Calls(), "press must hold for the debounce threshold")

	f.step(50 * time.Millisecond)
	require.Len(t, f.client.Calls(), 1)
	assert.Equal(t, recommend.Interaction{
		Type:   recommend.TypeButton,
		Data:   ButtonData,
		Device: "esp32",
	}, f.client.Calls()[0])

	// held button does not repeat
	f.step(100 * time.Millisecond)
	f.step(100 * time.Millisecond)
	assert.Len(t, f.client.Calls(), 1)

	screens := f.display.Screens()
	require.Len(t, screens, 2)
	assert.Equal(t, display.Working(recommend.TypeButton), screens[0])
	assert.Equal(t, display.Recommendations(fourPicks.Recommendations[:3], false), screens[1])

	assert.Equal(t, []string{
		notifications.MethodInteractionSent,
		notifications.MethodRecommendationsShown,
	}, f.methods())

	st := f.kiosk.Stats().Status()
	assert.Equal(t, int64(1), st.ButtonPresses)
	assert.Equal(t, int64(1), st.Sent)
	assert.Equal(t, int64(1), st.Shown)
	assert.False(t, st.Fallback)
	assert.Len(t, st.Recommendations, 3)
}

func TestStepBounceIgnored(t *testing.T) {
	t.Parallel()

	button := &mocks.MockButton{}
	for _, level := range []bool{true, false, true, false, true} {
		button.On("Pressed").Return(level, nil).Once()
	}
	f := newKioskFixture(t, button, nil)

	for range 5 {
		f.step(10 * time.Millisecond)
	}
	assert.Empty(t, f.client.Calls())
	assert.Empty(t, f.display.Screens())
	button.AssertExpectations(t)
}

func TestStepServerFailureShowsFallback(t *testing.T) {
	t.Parallel()

	button := &mocks.MockButton{}
	button.On("Pressed").Return(true, nil)
	f := newKioskFixture(t, button, nil)
	f.client.err = recommend.ErrStatus

	f.step(0)
	f.step(50 * time.Millisecond)

	screens := f.display.Screens()
	require.Len(t, screens, 2)
	assert.Equal(t, display.Recommendations(recommend.Fallback(), true), screens[1])

	ns := make([]notifications.Notification, 0, 2)
	for range 2 {
		ns = append(ns, <-f.ns)
	}
	assert.Equal(t, notifications.MethodInteractionFailed, ns[0].Method)
	var failed notifications.InteractionFailedParams
	require.NoError(t, json.Unmarshal(ns[0].Params, &failed))
	assert.Equal(t, recommend.TypeButton, failed.Type)
	assert.Contains(t, failed.Error, "unexpected status code")

	var shown notifications.RecommendationsShownParams
	require.NoError(t, json.Unmarshal(ns[1].Params, &shown))
	assert.True(t, shown.Fallback)
	assert.Len(t, shown.Recommendations, recommend.MaxShown)

	st := f.kiosk.Stats().Status()
	assert.Equal(t, int64(1), st.Failed)
	assert.Zero(t, st.Sent)
	assert.True(t, st.Fallback)
}

func TestStepTilt(t *testing.T) {
	t.Parallel()

	button := &mocks.MockButton{}
	button.On("Pressed").Return(false, nil)
	accel := &mocks.MockAccelerometer{}
	accel.On("Acceleration").Return(input.Acceleration{Z: 1}, nil).Once()
	accel.On("Acceleration").Return(input.Acceleration{X: 1.6, Z: 0.2}, nil).Once()
	accel.On("Acceleration").Return(input.Acceleration{Z: 1}, nil).Once()
	accel.On("Acceleration").Return(input.Acceleration{X: 1.6, Z: 0.2}, nil).Once()
	f := newKioskFixture(t, button, accel)

	f.step(0)
	assert.Empty(t, f.client.Calls(), "first sample only primes the baseline")

	f.step(100 * time.Millisecond)
	require.Len(t, f.client.Calls(), 1)
	assert.Equal(t, recommend.TypeTilt, f.client.Calls()[0].Type)
	assert.Equal(t, "x=1.60,y=0.00", f.client.Calls()[0].Data)

	// swinging back inside the cooldown is ignored
	f.step(100 * time.Millisecond)
	f.step(100 * time.Millisecond)
	assert.Len(t, f.client.Calls(), 1)
	assert.Equal(t, int64(1), f.kiosk.Stats().Status().Tilts)
	accel.AssertExpectations(t)
}

func TestStepInputErrorReportedOnce(t *testing.T) {
	t.Parallel()

	button := &mocks.MockButton{}
	button.On("Pressed").Return(false, errors.New("pin gone")).Times(3)
	button.On("Pressed").Return(true, nil)
	f := newKioskFixture(t, button, nil)

	for range 3 {
		f.step(100 * time.Millisecond)
	}
	assert.Equal(t, []string{notifications.MethodInputError}, f.methods())

	// recovered input works again
	f.step(100 * time.Millisecond)
	f.step(100 * time.Millisecond)
	assert.Len(t, f.client.Calls(), 1)
}

func TestStepNoSampleNotReported(t *testing.T) {
	t.Parallel()

	button := &mocks.MockButton{}
	button.On("Pressed").Return(false, nil)
	accel := &mocks.MockAccelerometer{}
	accel.On("Acceleration").Return(input.Acceleration{}, input.ErrNoSample)
	f := newKioskFixture(t, button, accel)

	f.step(100 * time.Millisecond)
	f.step(100 * time.Millisecond)
	assert.Empty(t, f.methods())
	assert.Empty(t, f.client.Calls())
}

func TestRunShowsReadyAndStops(t *testing.T) {
	t.Parallel()

	button := &mocks.MockButton{}
	button.On("Pressed").Return(true, nil)
	f := newKioskFixture(t, button, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- f.kiosk.Run(ctx) }()

	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	// ticks the loop has not consumed yet are dropped, so keep ticking
	require.Eventually(t, func() bool {
		f.clock.Advance(100 * time.Millisecond)
		return len(f.client.Calls()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	screens := f.display.Screens()
	require.NotEmpty(t, screens)
	assert.Equal(t, display.Ready(), screens[0])
}

func TestNewKioskDefaults(t *testing.T) {
	t.Parallel()

	k := NewKiosk(KioskOptions{})
	assert.Equal(t, 100*time.Millisecond, k.poll)
	assert.NotNil(t, k.clock)
	assert.NotNil(t, k.Stats())
	assert.Equal(t, 50*time.Millisecond, k.debounce.Threshold())
	assert.InDelta(t, 1.5, k.tilt.Threshold(), 1e-9)
	assert.Equal(t, time.Second, k.tilt.Cooldown())
}
