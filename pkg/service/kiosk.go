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
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/display"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/debounce"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/tilt"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/notifications"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ButtonData is sent as the data field of every button interaction.
const ButtonData = "refresh"

// Recommender is the part of the recommendation client the kiosk uses.
type Recommender interface {
	Interact(ctx context.Context, in recommend.Interaction) (*recommend.Response, error)
}

// KioskOptions wires a Kiosk. Accelerometer may be nil when tilt is off.
// Zero durations and thresholds use the package defaults.
type KioskOptions struct {
	Button        input.Button
	Accelerometer input.Accelerometer
	Display       display.Display
	Client        Recommender
	Clock         clockwork.Clock
	Notifications chan<- notifications.Notification
	Stats         *Stats
	Device        string
	PollInterval  time.Duration
	Debounce      time.Duration
	TiltCooldown  time.Duration
	TiltThreshold float64
}

// Kiosk is the polling loop: it debounces the button, watches for tilt
// gestures and turns either into one request to the recommendation server.
type Kiosk struct {
	button    input.Button
	accel     input.Accelerometer
	display   display.Display
	client    Recommender
	clock     clockwork.Clock
	ns        chan<- notifications.Notification
	stats     *Stats
	debounce  *debounce.Filter
	tilt      *tilt.Detector
	inputErrs map[string]string
	device    string
	poll      time.Duration
}

func NewKiosk(opts KioskOptions) *Kiosk {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.Stats == nil {
		opts.Stats = NewStats()
	}

	return &Kiosk{
		button:    opts.Button,
		accel:     opts.Accelerometer,
		display:   opts.Display,
		client:    opts.Client,
		clock:     opts.Clock,
		ns:        opts.Notifications,
		stats:     opts.Stats,
		debounce:  debounce.New(opts.Debounce),
		tilt:      tilt.New(opts.TiltThreshold, opts.TiltCooldown),
		inputErrs: make(map[string]string),
		device:    opts.Device,
		poll:      opts.PollInterval,
	}
}

// Stats returns the live counters.
func (k *Kiosk) Stats() *Stats {
	return k.stats
}

// Run polls the inputs every poll interval until ctx is cancelled. Detector
// state starts fresh on every call.
func (k *Kiosk) Run(ctx context.Context) error {
	k.debounce.Reset()
	k.tilt.Reset()
	k.show(display.Ready())

	ticker := k.clock.NewTicker(k.poll)
	defer ticker.Stop()

	log.Info().Dur("poll", k.poll).Msg("kiosk loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("kiosk loop stopped")
			return nil
		case <-ticker.Chan():
			k.Step(ctx)
		}
	}
}

// Step runs one poll cycle. Requests are made inline, so a slow server
// delays the next cycle.
func (k *Kiosk) Step(ctx context.Context) {
	now := k.clock.Now()

	pressed, err := k.button.Pressed()
	if k.inputOK("button", err) && k.debounce.Update(pressed, now) {
		k.stats.buttonPressed()
		log.Info().Msg("button pressed")
		k.interact(ctx, recommend.TypeButton, ButtonData)
	}

	if k.accel == nil {
		return
	}

	a, err := k.accel.Acceleration()
	if !k.inputOK("accelerometer", err) {
		return
	}
	// a request above may have taken a while
	if ev, ok := k.tilt.Update(a, k.clock.Now()); ok {
		k.stats.tiltDetected()
		log.Info().
			Float64("dx", ev.DeltaX).
			Float64("dy", ev.DeltaY).
			Msg("tilt detected")
		k.interact(ctx, recommend.TypeTilt, ev.Data())
	}
}

// inputOK reports whether err is nil. Errors are logged and published once
// per distinct message so a missing device does not flood the log.
func (k *Kiosk) inputOK(name string, err error) bool {
	if err == nil {
		if _, failing := k.inputErrs[name]; failing {
			log.Info().Str("input", name).Msg("input recovered")
			delete(k.inputErrs, name)
		}
		return true
	}

	msg := err.Error()
	if k.inputErrs[name] == msg {
		return false
	}
	k.inputErrs[name] = msg

	if errors.Is(err, input.ErrNoSample) {
		log.Debug().Err(err).Str("input", name).Msg("waiting for input")
		return false
	}
	log.Warn().Err(err).Str("input", name).Msg("failed to read input")
	notifications.InputError(k.ns, notifications.InputErrorParams{Input: name, Error: msg})
	return false
}

func (k *Kiosk) interact(ctx context.Context, kind, data string) {
	k.show(display.Working(kind))

	in := recommend.Interaction{Type: kind, Data: data, Device: k.device}
	params := notifications.InteractionParams{
		Time:   k.clock.Now(),
		Type:   kind,
		Data:   data,
		Device: k.device,
	}

	recs, fallback := recommend.Fallback(), true
	resp, err := k.client.Interact(ctx, in)
	if err != nil {
		k.stats.interactionFailed()
		log.Error().Err(err).Str("type", kind).Msg("interaction failed, showing demo picks")
		notifications.InteractionFailed(k.ns, notifications.InteractionFailedParams{
			InteractionParams: params,
			Error:             err.Error(),
		})
	} else {
		k.stats.interactionSent()
		notifications.InteractionSent(k.ns, params)
		recs, fallback = resp.Recommendations, false
	}

	recs = recommend.Top(recs, recommend.MaxShown)
	k.show(display.Recommendations(recs, fallback))
	k.stats.shown(recs, fallback, k.clock.Now())

	shown := make([]notifications.ShownRecommendation, 0, len(recs))
	for _, r := range recs {
		shown = append(shown, notifications.ShownRecommendation{Title: r.Title, Score: r.Score})
	}
	notifications.RecommendationsShown(k.ns, notifications.RecommendationsShownParams{
		Type:            kind,
		Recommendations: shown,
		Fallback:        fallback,
	})
}

func (k *Kiosk) show(s display.Screen) {
	if err := k.display.Show(s); err != nil {
		log.Warn().Err(fmt.Errorf("show %q: %w", s.Title, err)).Msg("failed to update display")
	}
}
