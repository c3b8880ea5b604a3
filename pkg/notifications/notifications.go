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

// Package notifications defines the events the kiosk emits as it runs.
// They are fanned out to publishers and the server's event stream.
package notifications

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	MethodStarted              = "kiosk.started"
	MethodInteractionSent      = "interaction.sent"
	MethodInteractionFailed    = "interaction.failed"
	MethodRecommendationsShown = "recommendations.shown"
	MethodInputError           = "input.error"
)

type Notification struct {
	Method string
	Params json.RawMessage
}

type StartedParams struct {
	Version  string `json:"version"`
	DeviceID string `json:"deviceId"`
	Server   string `json:"server"`
	Button   string `json:"button"`
	Tilt     string `json:"tilt,omitempty"`
	Display  string `json:"display"`
}

type InteractionParams struct {
	Time   time.Time `json:"time"`
	Type   string    `json:"type"`
	Data   string    `json:"data"`
	Device string    `json:"device"`
}

type InteractionFailedParams struct {
	InteractionParams
	Error string `json:"error"`
}

type ShownRecommendation struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type RecommendationsShownParams struct {
	Type            string                `json:"type"`
	Recommendations []ShownRecommendation `json:"recommendations"`
	Fallback        bool                  `json:"fallback"`
}

type InputErrorParams struct {
	Input string `json:"input"`
	Error string `json:"error"`
}

// send queues a notification without blocking. A full queue drops it.
func send(ns chan<- Notification, method string, payload any) {
	var params json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("method", method).Msg("failed to marshal notification")
			return
		}
		params = b
	}

	select {
	case ns <- Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification queue full, dropping notification")
	}
}

func Started(ns chan<- Notification, payload StartedParams) {
	send(ns, MethodStarted, payload)
}

func InteractionSent(ns chan<- Notification, payload InteractionParams) {
	send(ns, MethodInteractionSent, payload)
}

func InteractionFailed(ns chan<- Notification, payload InteractionFailedParams) {
	send(ns, MethodInteractionFailed, payload)
}

func RecommendationsShown(ns chan<- Notification, payload RecommendationsShownParams) {
	send(ns, MethodRecommendationsShown, payload)
}

func InputError(ns chan<- Notification, payload InputErrorParams) {
	send(ns, MethodInputError, payload)
}
