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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/ZaparooProject/zaparoo-kiosk/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/cli"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/server"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	host := flag.String("host", "0.0.0.0", "address to listen on")
	port := flag.Int("port", server.DefaultPort, "port to listen on")
	dbPath := flag.String(
		"db",
		"",
		"store interactions in this bbolt file instead of memory (\"default\" uses the data dir)",
	)
	quiet := flag.Bool("quiet", false, "only log to the log file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		_, _ = fmt.Printf("Zaparoo Kiosk server v%s\n", config.AppVersion)
		return nil
	}

	var logWriters []io.Writer
	if !*quiet {
		logWriters = []io.Writer{os.Stderr}
	}
	if _, err := cli.Setup(config.BaseDefaults, logWriters, "server"); err != nil {
		return err
	}
	defer telemetry.Close()

	var store server.Store = server.NewMemoryStore()
	if *dbPath != "" {
		path := *dbPath
		if path == "default" {
			if err := os.MkdirAll(helpers.DataDir(), 0o750); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			path = filepath.Join(helpers.DataDir(), "interactions.db")
		}
		bs, err := server.OpenBoltStore(path)
		if err != nil {
			return err
		}
		log.Info().Msgf("storing interactions in %s", path)
		store = bs
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing store")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if ip := helpers.GetLocalIP(); ip != "" {
		log.Info().Msgf("kiosks on this network can use http://%s:%d", ip, *port)
	}

	srv := server.New(server.Options{Store: store})
	return srv.ListenAndServe(ctx, net.JoinHostPort(*host, strconv.Itoa(*port)))
}
