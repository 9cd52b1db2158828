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

package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santiago-project/santiago/directory"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "hosting.json"), filepath.Join(dir, "consuming.json"))

	d := directory.New()
	d.ProvideService("client-1", "chat", []directory.Location{"https://a", "https://b"})
	d.LearnService("host-1", "chat", []directory.Location{"https://c"})

	require.NoError(t, store.Save(d))

	reloaded := directory.New()
	require.NoError(t, store.Load(reloaded))

	assert.ElementsMatch(t, []directory.Location{"https://a", "https://b"}, reloaded.GetHostLocations("client-1", "chat"))
	assert.Equal(t, []directory.Location{"https://c"}, reloaded.GetClientLocations("host-1", "chat"))
}

func TestLoadMissingFilesIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "hosting.json"), filepath.Join(dir, "consuming.json"))

	d := directory.New()
	require.NoError(t, store.Load(d))
	assert.Empty(t, d.GetHostLocations("nobody", "chat"))
}

func TestLoadMalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	hostingPath := filepath.Join(dir, "hosting.json")
	require.NoError(t, writeSnapshot(hostingPath, nil))
	require.NoError(t, os.WriteFile(hostingPath, []byte("not json"), 0o644))

	store := NewStore(hostingPath, filepath.Join(dir, "consuming.json"))
	err := store.Load(directory.New())
	assert.Error(t, err)
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "nested", "dirs")
	store := NewStore(filepath.Join(nested, "hosting.json"), filepath.Join(nested, "consuming.json"))

	require.NoError(t, store.Save(directory.New()))
	assert.FileExists(t, filepath.Join(nested, "hosting.json"))
	assert.FileExists(t, filepath.Join(nested, "consuming.json"))
}
