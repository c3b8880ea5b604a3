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

// Package link talks to the microcontroller front panel over USB serial.
//
// The firmware streams one sample line per poll:
//
//	S\t<pressed 0|1>\t<ax>\t<ay>\t<az>
//
// with accelerations in milli-g, and accepts display frames made of a clear
// command, numbered text lines and a flush:
//
//	C
//	L\t<row>\t<text>
//	F
//
// A single port is shared by the serial button, accelerometer and display
// drivers, so links are reference counted per path.
package link

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link/wire"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	BaudRate    = 115200
	readTimeout = 100 * time.Millisecond
	// StaleAfter is how old the latest sample may be before readers treat
	// the panel as gone.
	StaleAfter = 2 * time.Second
	// maxLineLen caps a line buffered from the port; noise from a wrong baud
	// rate may never send a newline.
	maxLineLen = 256
)

var (
	ErrNoDevice  = errors.New("no serial device found")
	ErrClosed    = errors.New("link closed")
	ErrBadSample = errors.New("malformed sample line")
)

// Port is the part of a serial port the link uses.
type Port interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
	SetReadTimeout(t time.Duration) error
}

// PortFactory opens a serial port.
type PortFactory func(path string, mode *serial.Mode) (Port, error)

// DefaultPortFactory opens real serial ports.
func DefaultPortFactory(path string, mode *serial.Mode) (Port, error) {
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	return port, nil
}

// Sample is the most recent reading streamed by the firmware.
type Sample struct {
	Time    time.Time
	Accel   input.Acceleration
	Pressed bool
}

// ParseSample decodes one S line. Lines of any other kind return
// ErrBadSample.
func ParseSample(line string) (Sample, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, "\t")
	if len(fields) != 5 || fields[0] != "S" {
		return Sample{}, fmt.Errorf("%w: %q", ErrBadSample, line)
	}

	var s Sample
	switch fields[1] {
	case "1":
		s.Pressed = true
	case "0":
	default:
		return Sample{}, fmt.Errorf("%w: button field %q", ErrBadSample, fields[1])
	}

	axes := make([]float64, 3)
	for i, f := range fields[2:] {
		mg, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Sample{}, fmt.Errorf("%w: axis %d: %w", ErrBadSample, i, err)
		}
		axes[i] = float64(mg) / 1000
	}
	s.Accel = input.Acceleration{X: axes[0], Y: axes[1], Z: axes[2]}

	return s, nil
}

// FormatFrame encodes a full display frame.
func FormatFrame(lines []string) []byte {
	var b strings.Builder
	b.WriteString("C\n")
	for i, line := range lines {
		line = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(line)
		fmt.Fprintf(&b, "L\t%d\t%s\n", i, line)
	}
	b.WriteString("F\n")
	return []byte(b.String())
}

// Link is an open connection to one front panel.
type Link struct {
	port   Port
	clock  clockwork.Clock
	pool   *Pool
	done   chan struct{}
	latest Sample
	path   string
	refs   int
	have   bool
	closed bool
	mu     syncutil.Mutex
	wmu    syncutil.Mutex
}

// Path returns the serial device path.
func (l *Link) Path() string {
	return l.path
}

// Latest returns the newest sample, or an error when none has arrived or it
// is older than StaleAfter.
func (l *Link) Latest() (Sample, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return Sample{}, ErrClosed
	}
	if !l.have {
		return Sample{}, input.ErrNoSample
	}
	if l.clock.Since(l.latest.Time) > StaleAfter {
		return Sample{}, fmt.Errorf("%w: last sample %s ago", input.ErrNotConnected, l.clock.Since(l.latest.Time))
	}
	return l.latest, nil
}

// Connected reports whether the reader goroutine is still running.
func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed
}

// WriteFrame sends one display frame.
func (l *Link) WriteFrame(lines []string) error {
	if !l.Connected() {
		return ErrClosed
	}

	l.wmu.Lock()
	defer l.wmu.Unlock()

	frame := FormatFrame(lines)
	for len(frame) > 0 {
		n, err := l.port.Write(frame)
		if err != nil {
			return fmt.Errorf("failed to write display frame: %w", err)
		}
		frame = frame[n:]
	}
	return nil
}

// Release drops one reference and closes the port when none remain.
func (l *Link) Release() error {
	return l.pool.release(l)
}

func (l *Link) readLoop() {
	defer close(l.done)

	buf := make([]byte, 256)
	lines := wire.NewLineReader(maxLineLen)

	for {
		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return
		}

		n, err := l.port.Read(buf)
		if err != nil {
			log.Error().Err(err).Str("path", l.path).Msg("failed to read from front panel")
			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
			return
		}

		for i := range n {
			line, ok := lines.Feed(buf[i])
			if !ok {
				continue
			}

			s, err := ParseSample(line)
			if err != nil {
				// boot banners and debug prints share the port
				log.Debug().Str("line", line).Msg("ignoring front panel line")
				continue
			}

			s.Time = l.clock.Now()
			l.mu.Lock()
			l.latest = s
			l.have = true
			l.mu.Unlock()
		}
	}
}

// Pool hands out shared links keyed by device path.
type Pool struct {
	factory PortFactory
	clock   clockwork.Clock
	links   map[string]*Link
	detect  func() ([]string, error)
	mu      syncutil.Mutex
}

// NewPool returns a pool that opens ports with factory. A nil factory uses
// DefaultPortFactory and a nil clock the real clock.
func NewPool(factory PortFactory, clock clockwork.Clock) *Pool {
	if factory == nil {
		factory = DefaultPortFactory
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pool{
		factory: factory,
		clock:   clock,
		links:   make(map[string]*Link),
		detect:  helpers.GetSerialDeviceList,
	}
}

// DefaultPool is used by the serial drivers.
var DefaultPool = NewPool(nil, nil)

// Acquire returns the link for path, opening the port on first use. An empty
// path picks the first USB serial board found.
func (p *Pool) Acquire(path string) (*Link, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if path == "" {
		devices, err := p.detect()
		if err != nil {
			return nil, err
		}
		if len(devices) == 0 {
			return nil, ErrNoDevice
		}
		path = devices[0]
		log.Info().Str("path", path).Msg("auto-detected front panel")
	}

	if l, ok := p.links[path]; ok && l.Connected() {
		l.refs++
		return l, nil
	}

	port, err := p.factory(path, &serial.Mode{BaudRate: BaudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	err = port.SetReadTimeout(readTimeout)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on serial port: %w", err)
	}

	l := &Link{
		port:  port,
		clock: p.clock,
		pool:  p,
		done:  make(chan struct{}),
		path:  path,
		refs:  1,
	}
	p.links[path] = l

	go l.readLoop()

	log.Info().Str("path", path).Msg("opened front panel link")
	return l, nil
}

func (p *Pool) release(l *Link) error {
	p.mu.Lock()
	if l.refs == 0 {
		p.mu.Unlock()
		return nil
	}
	l.refs--
	if l.refs > 0 {
		p.mu.Unlock()
		return nil
	}
	if p.links[l.path] == l {
		delete(p.links, l.path)
	}
	p.mu.Unlock()

	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	err := l.port.Close()
	<-l.done
	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}
