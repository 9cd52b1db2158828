// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package persistence snapshots a Santiago node's hosting and consuming
// directories to disk as JSON, and reloads them at startup, so learned
// service locations survive a restart.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santiago-project/santiago/directory"
)

// snapshot is the on-disk JSON shape for one directory table.
type snapshot map[directory.Peer]map[directory.ServiceName][]directory.Location

// Store periodically and on-demand writes a Directory's hosting and
// consuming tables to two JSON files, and can reload them at startup.
type Store struct {
	hostingPath   string
	consumingPath string
	mu            sync.Mutex
}

// NewStore creates a Store writing to hostingPath and consumingPath.
func NewStore(hostingPath, consumingPath string) *Store {
	return &Store{hostingPath: hostingPath, consumingPath: consumingPath}
}

// Load populates dir's hosting and consuming tables from whatever
// snapshot files already exist on disk. Missing files are not an error -
// a fresh node simply starts with empty tables.
func (s *Store) Load(dir *directory.Directory) error {
	hosting, err := loadSnapshot(s.hostingPath)
	if err != nil {
		return fmt.Errorf("persistence: load hosting: %w", err)
	}
	if hosting != nil {
		dir.RestoreHosting(hosting)
	}

	consuming, err := loadSnapshot(s.consumingPath)
	if err != nil {
		return fmt.Errorf("persistence: load consuming: %w", err)
	}
	if consuming != nil {
		dir.RestoreConsuming(consuming)
	}
	return nil
}

// Save writes dir's current hosting and consuming tables to disk,
// replacing whatever snapshot files existed before.
func (s *Store) Save(dir *directory.Directory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeSnapshot(s.hostingPath, dir.HostingSnapshot()); err != nil {
		return fmt.Errorf("persistence: save hosting: %w", err)
	}
	if err := writeSnapshot(s.consumingPath, dir.ConsumingSnapshot()); err != nil {
		return fmt.Errorf("persistence: save consuming: %w", err)
	}
	return nil
}

func loadSnapshot(path string) (snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("malformed snapshot %s: %w", path, err)
	}
	return snap, nil
}

// writeSnapshot marshals snap and writes it atomically: to a temp file in
// the same directory, then renamed into place, so a crash mid-write never
// leaves a truncated snapshot on disk.
func writeSnapshot(path string, snap snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
