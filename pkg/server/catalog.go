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

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/recommend"
)

// Movie is one catalog entry. Rating is reported as the score.
type Movie struct {
	Title  string
	Genres string
	ID     int
	Rating float64
}

// Catalog is the demo movie list recommendations are drawn from.
var Catalog = []Movie{
	{ID: 1, Title: "Toy Story", Genres: "Animation|Children|Comedy", Rating: 4.8},
	{ID: 50, Title: "The Usual Suspects", Genres: "Crime|Mystery|Thriller", Rating: 4.7},
	{ID: 100, Title: "Fargo", Genres: "Comedy|Crime|Drama", Rating: 4.6},
	{ID: 150, Title: "Apollo 13", Genres: "Adventure|Drama", Rating: 4.5},
	{ID: 200, Title: "The Silence of the Lambs", Genres: "Crime|Horror", Rating: 4.9},
	{ID: 250, Title: "The Shawshank Redemption", Genres: "Drama", Rating: 4.8},
	{ID: 300, Title: "Forrest Gump", Genres: "Drama|Romance", Rating: 4.7},
	{ID: 350, Title: "Pulp Fiction", Genres: "Crime|Drama", Rating: 4.6},
}

// Pick returns count movies from movies in random order, tagged with
// source. count is clamped to the catalog size; a negative count picks
// nothing.
func Pick(rng *rand.Rand, movies []Movie, count int, source string) []recommend.Recommendation {
	count = min(max(count, 0), len(movies))

	shuffled := append([]Movie(nil), movies...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out := make([]recommend.Recommendation, 0, count)
	for _, m := range shuffled[:count] {
		out = append(out, recommend.Recommendation{
			ID:     m.ID,
			Title:  m.Title,
			Genres: m.Genres,
			Score:  m.Rating,
			Source: source,
		})
	}
	return out
}
