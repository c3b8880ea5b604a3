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

// Package cli holds the flag handling and startup shared by the kiosk
// commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/zaparoo-kiosk/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/input/drivers"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/shared/httpclient"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrBadInteraction = errors.New("interaction must be type or type:data")

type Flags struct {
	Version   *bool
	ListPorts *bool
	Drivers   *bool
	Status    *bool
	Interact  *string
	Daemon    *bool
}

// SetupFlags defines the kiosk command's flags.
func SetupFlags() *Flags {
	return &Flags{
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
		ListPorts: flag.Bool(
			"list-ports",
			false,
			"list serial ports that look like a kiosk board and check they open",
		),
		Drivers: flag.Bool(
			"drivers",
			false,
			"list supported input drivers",
		),
		Status: flag.Bool(
			"status",
			false,
			"print the recommendation server status",
		),
		Interact: flag.String(
			"interact",
			"",
			"send one interaction (type or type:data) to the server and print the reply",
		),
		Daemon: flag.Bool(
			"daemon",
			false,
			"log to stderr as well as the log file",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre parses flags and handles the ones that need no config or logging.
// It returns true if the command should exit.
func (f *Flags) Pre(w io.Writer) (exit bool, err error) {
	flag.Parse()

	switch {
	case *f.Version:
		_, _ = fmt.Fprintf(w, "Zaparoo Kiosk v%s\n", config.AppVersion)
		return true, nil
	case *f.Drivers:
		for _, d := range drivers.Supported() {
			_, _ = fmt.Fprintf(w, "%-10s %s\n", d.ID, d.Description)
		}
		return true, nil
	case *f.ListPorts:
		return true, ListPorts(w, helpers.GetSerialDeviceList, link.DefaultPortFactory)
	}
	return false, nil
}

// Post handles flags that talk to the recommendation server. It returns
// true if the command should exit.
func (f *Flags) Post(ctx context.Context, cfg *config.Instance, w io.Writer) (exit bool, err error) {
	switch {
	case isFlagPassed("interact"):
		return true, SendInteraction(ctx, cfg, *f.Interact, w)
	case *f.Status:
		return true, PrintStatus(ctx, cfg, w)
	}
	return false, nil
}

// ParseInteraction splits "type:data" into an interaction.
func ParseInteraction(s string) (recommend.Interaction, error) {
	kind, data, _ := strings.Cut(s, ":")
	if kind == "" {
		return recommend.Interaction{}, ErrBadInteraction
	}
	return recommend.Interaction{Type: kind, Data: data}, nil
}

// SendInteraction posts one interaction as the configured device and
// prints the decoded reply.
func SendInteraction(ctx context.Context, cfg *config.Instance, value string, w io.Writer) error {
	in, err := ParseInteraction(value)
	if err != nil {
		return err
	}

	c := recommend.NewClient(cfg.ServerURL(), cfg.Device(), httpclient.NewClientFromConfig(cfg))
	resp, err := c.Interact(ctx, in)
	if err != nil {
		return fmt.Errorf("interaction failed: %w", err)
	}
	return printJSON(w, resp)
}

func PrintStatus(ctx context.Context, cfg *config.Instance, w io.Writer) error {
	c := recommend.NewClient(cfg.ServerURL(), cfg.Device(), httpclient.NewClientFromConfig(cfg))
	status, err := c.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get server status: %w", err)
	}
	return printJSON(w, status)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Setup initializes logging, the user config and error reporting.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer, role string) (*config.Instance, error) {
	if err := helpers.InitLogging(helpers.LogDir(), writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := telemetry.Init(telemetry.Options{
		Enabled:  cfg.ErrorReporting(),
		DSN:      cfg.ErrorReportingDSN(),
		DeviceID: cfg.DeviceID(),
		Version:  config.AppVersion,
		Role:     role,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}
