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

package server

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPickProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(-3, 12).Draw(t, "count")
		seed := rapid.Uint64().Draw(t, "seed")
		rng := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // test shuffle

		recs := Pick(rng, Catalog, count, "api")

		want := min(max(count, 0), len(Catalog))
		if len(recs) != want {
			t.Fatalf("got %d picks, want %d", len(recs), want)
		}
		seen := make(map[int]bool, len(recs))
		for _, r := range recs {
			if seen[r.ID] {
				t.Fatalf("movie %d picked twice", r.ID)
			}
			seen[r.ID] = true
			if r.Source != "api" {
				t.Fatalf("source = %q", r.Source)
			}
		}
	})
}

func TestPickUsesRatingAsScore(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 1)) //nolint:gosec // test shuffle
	recs := Pick(rng, Catalog[:1], 3, "button")
	assert.Len(t, recs, 1)
	assert.Equal(t, "Toy Story", recs[0].Title)
	assert.InDelta(t, 4.8, recs[0].Score, 1e-9)
	assert.Equal(t, "Animation|Children|Comedy", recs[0].Genres)
}

func TestPickDoesNotReorderCatalog(t *testing.T) {
	t.Parallel()

	before := append([]Movie(nil), Catalog...)
	Pick(rand.New(rand.NewPCG(3, 4)), Catalog, len(Catalog), "api") //nolint:gosec // test shuffle
	assert.Equal(t, before, Catalog)
}
