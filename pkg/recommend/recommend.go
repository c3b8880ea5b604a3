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

// Package recommend is the client side of the recommendation server
// contract: one POST to /api/interact per kiosk event, answered with a list
// of (title, score) pairs.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/config"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/shared/httpclient"
	"github.com/ZaparooProject/zaparoo-kiosk/pkg/validation"
	"github.com/rs/zerolog/log"
)

const (
	TypeButton = "button"
	TypeTilt   = "tilt"
	TypeVoice  = "voice"

	// MaxShown is how many recommendations fit on the display.
	MaxShown = 3

	InteractPath = "/api/interact"
	StatusPath   = "/api/status"

	maxBodySize = 1 << 16
)

var (
	ErrStatus            = errors.New("unexpected status code")
	ErrMalformed         = errors.New("malformed response")
	ErrNoRecommendations = errors.New("response has no recommendations")
)

// Interaction is the request body for /api/interact.
type Interaction struct {
	Type   string `json:"type" validate:"required,oneof=button tilt voice"`
	Data   string `json:"data" validate:"max=256"`
	Device string `json:"device" validate:"required,max=64,devicename"`
}

type Recommendation struct {
	Title  string  `json:"title"`
	Genres string  `json:"genres,omitempty"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score"`
	ID     int     `json:"id,omitempty"`
}

// Response is the decoded /api/interact reply.
type Response struct {
	Status          string           `json:"status,omitempty"`
	Message         string           `json:"message,omitempty"`
	Interaction     string           `json:"interaction,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ServerStatus is the decoded /api/status reply.
type ServerStatus struct {
	Status          string `json:"status"`
	ServerTime      string `json:"server_time"`
	IoTInteractions int    `json:"iot_interactions"`
	ActiveDevices   int    `json:"active_devices"`
}

var fallback = []Recommendation{
	{Title: "The Silence of the Lambs", Score: 4.9},
	{Title: "The Shawshank Redemption", Score: 4.8},
	{Title: "Toy Story", Score: 4.8},
}

// Fallback returns the built-in demo list shown when the server cannot be
// used. The slice is a fresh copy.
func Fallback() []Recommendation {
	return append([]Recommendation(nil), fallback...)
}

// Top returns at most n recommendations, preserving server order.
func Top(recs []Recommendation, n int) []Recommendation {
	if n < 0 {
		n = 0
	}
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}

type Client struct {
	hc      *httpclient.Client
	baseURL string
	device  string
}

// NewClient returns a client for the server at baseURL. The device name is
// used for interactions that do not set one.
func NewClient(baseURL, device string, hc *httpclient.Client) *Client {
	if hc == nil {
		hc = httpclient.NewClientWithTimeout(config.DefaultTimeout)
	}
	return &Client{
		hc:      hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		device:  device,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Interact posts one interaction and decodes the reply. Transport errors,
// non-2xx codes, undecodable bodies and a missing or empty recommendations
// field are all errors; callers fall back to the demo list.
func (c *Client) Interact(ctx context.Context, in Interaction) (*Response, error) {
	if in.Device == "" {
		in.Device = c.device
	}
	if err := validation.DefaultValidator.Validate(&in); err != nil {
		return nil, fmt.Errorf("invalid interaction: %w", err)
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+InteractPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Recommendations *[]Recommendation `json:"recommendations"`
		Status          string            `json:"status"`
		Message         string            `json:"message"`
		Interaction     string            `json:"interaction"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw.Recommendations == nil || len(*raw.Recommendations) == 0 {
		return nil, ErrNoRecommendations
	}

	resp := &Response{
		Status:          raw.Status,
		Message:         raw.Message,
		Interaction:     raw.Interaction,
		Recommendations: *raw.Recommendations,
	}
	log.Debug().
		Str("type", in.Type).
		Int("count", len(resp.Recommendations)).
		Msg("received recommendations")
	return resp, nil
}

// Status fetches the server's status endpoint.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+StatusPath, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var status ServerStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &status, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
