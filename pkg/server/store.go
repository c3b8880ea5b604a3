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
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

const (
	bucketInteractions = "interactions"
	bucketDevices      = "devices"
)

var ErrStoreClosed = errors.New("store is closed")

// Interaction is one logged device event.
type Interaction struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      string    `json:"data"`
	Device    string    `json:"device"`
}

// Store records interactions.
type Store interface {
	Add(ctx context.Context, in Interaction) error
	// Count returns the number of interactions recorded.
	Count(ctx context.Context) (int, error)
	// Devices returns the number of distinct devices seen.
	Devices(ctx context.Context) (int, error)
	// Recent returns up to n interactions, newest first.
	Recent(ctx context.Context, n int) ([]Interaction, error)
	Close() error
}

// MemoryStore keeps interactions for the life of the process.
type MemoryStore struct {
	devices      map[string]struct{}
	interactions []Interaction
	mu           syncutil.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{devices: make(map[string]struct{})}
}

func (s *MemoryStore) Add(ctx context.Context, in Interaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, in)
	s.devices[in.Device] = struct{}{}
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interactions), nil
}

func (s *MemoryStore) Devices(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices), nil
}

func (s *MemoryStore) Recent(ctx context.Context, n int) ([]Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Interaction, 0, min(max(n, 0), len(s.interactions)))
	for i := len(s.interactions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.interactions[i])
	}
	return out, nil
}

func (*MemoryStore) Close() error {
	return nil
}

// BoltStore persists interactions in a bbolt file so counts survive a
// restart. Interactions are keyed by a big-endian sequence number.
type BoltStore struct {
	db *bolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}

	db, err := bolt.Open(filepath.Clean(path), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketInteractions, bucketDevices} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Add(ctx context.Context, in Interaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketInteractions))
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		if err := b.Put(seqKey(seq), payload); err != nil {
			return fmt.Errorf("put interaction: %w", err)
		}
		last := make([]byte, 8)
		binary.BigEndian.PutUint64(last, uint64(in.Timestamp.Unix())) //nolint:gosec // timestamps are after 1970
		if err := tx.Bucket([]byte(bucketDevices)).Put([]byte(in.Device), last); err != nil {
			return fmt.Errorf("put device: %w", err)
		}
		return nil
	})
	if errors.Is(err, berrors.ErrDatabaseNotOpen) {
		return ErrStoreClosed
	}
	return err
}

func (s *BoltStore) Count(ctx context.Context) (int, error) {
	return s.keyCount(ctx, bucketInteractions)
}

func (s *BoltStore) Devices(ctx context.Context) (int, error) {
	return s.keyCount(ctx, bucketDevices)
}

func (s *BoltStore) keyCount(ctx context.Context, bucket string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucket)).Stats().KeyN
		return nil
	})
	if errors.Is(err, berrors.ErrDatabaseNotOpen) {
		return 0, ErrStoreClosed
	}
	return n, err
}

func (s *BoltStore) Recent(ctx context.Context, n int) ([]Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Interaction, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketInteractions)).Cursor()
		for k, v := c.Last(); k != nil && len(out) < n; k, v = c.Prev() {
			var in Interaction
			if err := json.Unmarshal(v, &in); err != nil {
				return fmt.Errorf("unmarshal interaction %d: %w", binary.BigEndian.Uint64(k), err)
			}
			out = append(out, in)
		}
		return nil
	})
	if errors.Is(err, berrors.ErrDatabaseNotOpen) {
		return nil, ErrStoreClosed
	}
	return out, err
}

func (s *BoltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
