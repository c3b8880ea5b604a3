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
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"
)

// Stats counts what the kiosk has done since it started. Safe for
// concurrent use.
type Stats struct {
	started       time.Time
	lastUpdate    time.Time
	lastShown     []recommend.Recommendation
	buttonPresses atomic.Int64
	tilts         atomic.Int64
	sent          atomic.Int64
	failed        atomic.Int64
	shownCount    atomic.Int64
	mu            syncutil.RWMutex
	lastFallback  bool
}

func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) buttonPressed()     { s.buttonPresses.Add(1) }
func (s *Stats) tiltDetected()      { s.tilts.Add(1) }
func (s *Stats) interactionSent()   { s.sent.Add(1) }
func (s *Stats) interactionFailed() { s.failed.Add(1) }

func (s *Stats) shown(recs []recommend.Recommendation, fallback bool, at time.Time) {
	s.shownCount.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastShown = append(s.lastShown[:0], recs...)
	s.lastFallback = fallback
	s.lastUpdate = at
}

// Host is a best effort snapshot of the machine the kiosk runs on. Fields
// the platform cannot report are left zero.
type Host struct {
	Temperatures  map[string]float64 `json:"temperatures,omitempty"`
	MemoryUsed    float64            `json:"memoryUsedPercent"`
	ProcessMemory uint64             `json:"processMemoryBytes"`
}

// Status is a point in time copy of the counters plus host metrics.
type Status struct {
	Started         time.Time                  `json:"started"`
	LastUpdate      time.Time                  `json:"lastUpdate,omitzero"`
	Host            Host                       `json:"host"`
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty"`
	ButtonPresses   int64                      `json:"buttonPresses"`
	Tilts           int64                      `json:"tilts"`
	Sent            int64                      `json:"interactionsSent"`
	Failed          int64                      `json:"interactionsFailed"`
	Shown           int64                      `json:"recommendationsShown"`
	Fallback        bool                       `json:"fallback"`
}

// Host metric sources, replaced in tests.
var (
	virtualMemory = mem.VirtualMemory
	temperatures  = sensors.SensorsTemperatures
	processRSS    = func() (uint64, error) {
		p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pids fit in int32
		if err != nil {
			return 0, err
		}
		mi, err := p.MemoryInfo()
		if err != nil {
			return 0, err
		}
		return mi.RSS, nil
	}
)

// Status returns a snapshot. Host metric failures are logged at debug
// level and leave the matching fields empty.
func (s *Stats) Status() Status {
	st := Status{
		Started:       s.started,
		ButtonPresses: s.buttonPresses.Load(),
		Tilts:         s.tilts.Load(),
		Sent:          s.sent.Load(),
		Failed:        s.failed.Load(),
		Shown:         s.shownCount.Load(),
		Host:          hostStatus(),
	}

	s.mu.RLock()
	st.LastUpdate = s.lastUpdate
	st.Fallback = s.lastFallback
	st.Recommendations = append([]recommend.Recommendation(nil), s.lastShown...)
	s.mu.RUnlock()

	return st
}

func hostStatus() Host {
	var h Host

	if vm, err := virtualMemory(); err != nil {
		log.Debug().Err(err).Msg("failed to read memory usage")
	} else {
		h.MemoryUsed = vm.UsedPercent
	}

	if rss, err := processRSS(); err != nil {
		log.Debug().Err(err).Msg("failed to read process memory")
	} else {
		h.ProcessMemory = rss
	}

	// partial results come back alongside a warnings error
	temps, err := temperatures()
	if err != nil {
		log.Debug().Err(err).Msg("failed to read temperatures")
	}
	for _, t := range temps {
		if t.SensorKey == "" || t.Temperature <= 0 {
			continue
		}
		if h.Temperatures == nil {
			h.Temperatures = make(map[string]float64)
		}
		h.Temperatures[strings.ToLower(t.SensorKey)] = t.Temperature
	}

	return h
}
