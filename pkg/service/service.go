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

// Package service wires the kiosk together: inputs, display, the
// recommendation client and notification publishers around one poll loop.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/display"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/drivers"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/notifications"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/service/broker"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/service/publishers"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/shared/httpclient"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	notificationQueueSize = 100
	statusInterval        = 5 * time.Minute
)

// Publisher receives every notification the kiosk emits.
type Publisher interface {
	Start() error
	Publish(notifications.Notification) error
	Stop()
}

// newPublishers is replaced in tests.
var newPublishers = func(cfg *config.Instance) []Publisher {
	pubs := make([]Publisher, 0)
	for _, pc := range cfg.GetMQTTPublishers() {
		// nil means enabled
		if pc.Enabled != nil && !*pc.Enabled {
			continue
		}
		pubs = append(pubs, publishers.NewMQTTPublisher(pc.Broker, pc.Topic, pc.Filter))
	}
	return pubs
}

// Start opens everything the config names and runs the kiosk loop in the
// background. A missing or broken accelerometer only disables tilt; every
// other open failure is returned. stop blocks until cleanup has finished.
// done is closed when the kiosk stops for any reason, including the user
// quitting the terminal display.
func Start(cfg *config.Instance) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		if err != nil {
			cancel()
		}
	}()

	pool := link.DefaultPool
	opts := drivers.Options{Pool: pool}

	log.Info().Msg("opening display")
	disp, err := display.Open(cfg, pool, cancel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open display: %w", err)
	}
	closers := []func() error{disp.Close}
	defer func() {
		if err != nil {
			closeAll(closers)
		}
	}()
	if showErr := disp.Show(display.Boot()); showErr != nil {
		log.Warn().Err(showErr).Msg("failed to show boot screen")
	}

	log.Info().Msgf("opening button: %s", cfg.ButtonConnect().ConnectionString())
	button, err := drivers.OpenButton(cfg.ButtonConnect(), opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open button: %w", err)
	}
	closers = append(closers, button.Close)

	var accel input.Accelerometer
	tiltName := ""
	if cfg.TiltEnabled() {
		ac := cfg.AccelerometerConnect()
		log.Info().Msgf("opening accelerometer: %s", ac.ConnectionString())
		a, accelErr := drivers.OpenAccelerometer(ac, opts)
		if accelErr != nil {
			log.Error().Err(accelErr).Msg("failed to open accelerometer, tilt disabled")
		} else {
			accel = a
			tiltName = a.Metadata().ID
			closers = append(closers, a.Close)
		}
	}

	ns := make(chan notifications.Notification, notificationQueueSize)
	notifBroker := broker.NewBroker(ctx, ns)
	notifBroker.Start()

	log.Info().Msg("starting publishers")
	publisherNotifications, _ := notifBroker.Subscribe(notificationQueueSize)
	activePublishers := startPublishers(cfg, publisherNotifications)

	client := recommend.NewClient(cfg.ServerURL(), cfg.Device(), httpclient.NewClientFromConfig(cfg))
	clock := clockwork.NewRealClock()
	stats := NewStats()
	kiosk := NewKiosk(KioskOptions{
		Button:        button,
		Accelerometer: accel,
		Display:       disp,
		Client:        client,
		Clock:         clock,
		Notifications: ns,
		Stats:         stats,
		Device:        cfg.Device(),
		PollInterval:  cfg.PollInterval(),
		Debounce:      cfg.DebounceThreshold(),
		TiltCooldown:  cfg.TiltCooldown(),
		TiltThreshold: cfg.TiltThreshold(),
	})

	notifications.Started(ns, notifications.StartedParams{
		Version:  config.AppVersion,
		DeviceID: cfg.DeviceID(),
		Server:   client.BaseURL(),
		Button:   button.Metadata().ID,
		Tilt:     tiltName,
		Display:  cfg.DisplayDriver(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return kiosk.Run(gctx)
	})
	g.Go(func() error {
		logStatus(gctx, clock, stats, statusInterval, log.Logger)
		return nil
	})

	doneCh := make(chan struct{})
	var runErr error
	go func() {
		runErr = g.Wait()
		cancel()
		log.Info().Msg("kiosk stopped, running cleanup")

		<-notifBroker.Done()
		for _, p := range activePublishers {
			p.Stop()
		}
		if closeErr := closeAll(closers); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing devices")
		}

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		cancel()
		<-doneCh
		return runErr
	}
	return stop, doneCh, nil
}

// startPublishers starts every configured publisher and drains sub into
// them until it is closed. The drain runs even with no publishers so the
// broker subscription never fills.
func startPublishers(cfg *config.Instance, sub <-chan notifications.Notification) []Publisher {
	active := make([]Publisher, 0)
	for _, p := range newPublishers(cfg) {
		if err := p.Start(); err != nil {
			log.Error().Err(err).Msg("failed to start publisher")
			continue
		}
		active = append(active, p)
	}
	if len(active) > 0 {
		log.Info().Msgf("started %d publisher(s)", len(active))
	}

	go func() {
		for n := range sub {
			for _, p := range active {
				if err := p.Publish(n); err != nil {
					log.Warn().Err(err).Msgf("failed to publish %s notification", n.Method)
				}
			}
		}
		log.Debug().Msg("publisher fan-out: stopping")
	}()

	return active
}

// logStatus writes a stats summary to logger every interval until ctx ends.
func logStatus(ctx context.Context, clock clockwork.Clock, stats *Stats, every time.Duration, logger zerolog.Logger) {
	ticker := clock.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			st := stats.Status()
			logger.Info().
				Int64("buttonPresses", st.ButtonPresses).
				Int64("tilts", st.Tilts).
				Int64("sent", st.Sent).
				Int64("failed", st.Failed).
				Float64("memUsed", st.Host.MemoryUsed).
				Uint64("rss", st.Host.ProcessMemory).
				Msg("kiosk status")
		}
	}
}

// closeAll closes in reverse order of opening.
func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
