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

// Package server is the recommendation server kiosks talk to. It logs every
// interaction, answers with picks from a small demo catalog and streams
// interactions to websocket clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
	kmw "github.com/ZaparooProject/zaparoo-kiosk/pkg/server/middleware"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPort = 5000

	// Picks per interaction type.
	voiceCount   = 5
	defaultCount = 3

	defaultRecent = 20
	maxRecent     = 100
	maxBodySize   = 1 << 16

	shutdownTimeout = 5 * time.Second
	requestTimeout  = 30 * time.Second

	EventInteraction = "interaction"
)

type Options struct {
	Store Store
	Clock clockwork.Clock
	// Rand drives catalog shuffling. Nil seeds from the runtime.
	Rand           *rand.Rand
	Catalog        []Movie
	AllowedOrigins []string
	// Rate limit per client IP. Zero uses the middleware defaults.
	RequestsPerMinute int
	Burst             int
}

type Server struct {
	store   Store
	clock   clockwork.Clock
	rng     *rand.Rand
	events  *melody.Melody
	limiter *kmw.IPRateLimiter
	catalog []Movie
	origins []string
	rngMu   syncutil.Mutex
}

func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // demo shuffling
	}
	if opts.Catalog == nil {
		opts.Catalog = Catalog
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"https://*", "http://*"}
	}

	events := melody.New()
	events.Upgrader.CheckOrigin = func(*http.Request) bool { return true }
	events.HandleConnect(func(s *melody.Session) {
		log.Debug().Str("remote", s.Request.RemoteAddr).Msg("event stream client connected")
	})
	events.HandleDisconnect(func(s *melody.Session) {
		log.Debug().Str("remote", s.Request.RemoteAddr).Msg("event stream client disconnected")
	})

	return &Server{
		store:   opts.Store,
		clock:   opts.Clock,
		rng:     opts.Rand,
		events:  events,
		limiter: kmw.NewIPRateLimiter(opts.RequestsPerMinute, opts.Burst, opts.Clock),
		catalog: opts.Catalog,
		origins: opts.AllowedOrigins,
	}
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/api/events", s.handleEvents)

	r.Group(func(r chi.Router) {
		r.Use(kmw.HTTPRateLimitMiddleware(s.limiter))
		r.Use(middleware.Timeout(requestTimeout))
		r.Post(recommend.InteractPath, s.handleInteract)
		r.Get("/api/recommend", s.handleRecommend)
		r.Get(recommend.StatusPath, s.handleStatus)
		r.Get("/api/interactions", s.handleInteractions)
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.limiter.StartCleanup(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("recommendation server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down recommendation server")
	if err := s.events.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing event stream")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Close releases the event stream.
func (s *Server) Close() error {
	if s.events.IsClosed() {
		return nil
	}
	return s.events.Close()
}

func (s *Server) pick(count int, source string) []recommend.Recommendation {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return Pick(s.rng, s.catalog, count, source)
}

type interactRequest struct {
	Type   string `json:"type" validate:"max=32"`
	Data   string `json:"data" validate:"max=256"`
	Device string `json:"device" validate:"max=64,devicename"`
}

type interactResponse struct {
	Status          string                     `json:"status"`
	Message         string                     `json:"message"`
	Interaction     string                     `json:"interaction"`
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty"`
}

type event struct {
	Event       string      `json:"event"`
	Interaction Interaction `json:"interaction"`
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}

	var req interactRequest
	if err := validation.ValidateAndUnmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Type == "" {
		req.Type = "unknown"
	}
	if req.Device == "" {
		req.Device = "unknown"
	}

	in := Interaction{
		Timestamp: s.clock.Now(),
		Type:      req.Type,
		Data:      req.Data,
		Device:    req.Device,
	}
	if err := s.store.Add(r.Context(), in); err != nil {
		log.Error().Err(err).Msg("failed to store interaction")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	log.Info().Str("type", in.Type).Str("device", in.Device).Str("data", in.Data).Msg("interaction received")
	s.broadcast(in)

	resp := interactResponse{Status: "success", Interaction: in.Type}
	switch in.Type {
	case recommend.TypeVoice:
		resp.Message = "Voice command processed"
		resp.Recommendations = s.pick(voiceCount, in.Type)
	case recommend.TypeTilt:
		resp.Message = "Tilt gesture recognized"
		resp.Recommendations = s.pick(defaultCount, in.Type)
	case recommend.TypeButton:
		resp.Message = "Button press registered"
		resp.Recommendations = s.pick(defaultCount, in.Type)
	default:
		resp.Message = "Interaction received"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) broadcast(in Interaction) {
	b, err := json.Marshal(event{Event: EventInteraction, Interaction: in})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event")
		return
	}
	if err := s.events.Broadcast(b); err != nil && !errors.Is(err, melody.ErrClosed) {
		log.Warn().Err(err).Msg("failed to broadcast event")
	}
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", defaultCount)
	userID := queryInt(r, "user_id", 1)

	recs := s.pick(count, "api")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"user_id":         userID,
		"count":           len(recs),
		"recommendations": recs,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	devices, err := s.store.Devices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, recommend.ServerStatus{
		Status:          "running",
		IoTInteractions: count,
		ServerTime:      s.clock.Now().Format(time.RFC3339),
		ActiveDevices:   devices,
	})
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	limit := min(max(queryInt(r, "limit", defaultRecent), 0), maxRecent)
	recent, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"interactions": recent,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Zaparoo Kiosk API Server",
		"status":  "running",
		"endpoints": map[string]string{
			recommend.InteractPath: "Handle IoT interactions",
			"/api/recommend":       "Get recommendations",
			recommend.StatusPath:   "Get system status",
			"/api/interactions":    "List recent interactions",
			"/api/events":          "Interaction event stream (websocket)",
		},
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if err := s.events.HandleRequest(w, r); err != nil {
		log.Error().Err(err).Msg("handling websocket request")
	}
}

// queryInt returns the named query parameter, or def when it is missing or
// not a number.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{
		"status":  "error",
		"message": err.Error(),
	})
}
