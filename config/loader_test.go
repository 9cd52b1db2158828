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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackThroughFileChain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.yaml"), []byte(`
environment: fromdefault
identity:
  key_path: /default/id.pem
`), 0o644))

	cfg, err := Load(LoaderOptions{ConfigDir: dir, Environment: "production"})
	require.NoError(t, err)
	assert.Equal(t, "fromdefault", cfg.Environment)
	assert.Equal(t, "/default/id.pem", cfg.Identity.KeyPath)
}

func TestLoadPrefersEnvironmentSpecificFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "production.yaml"), []byte(`
identity:
  key_path: /prod/id.pem
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.yaml"), []byte(`
identity:
  key_path: /default/id.pem
`), 0o644))

	cfg, err := Load(LoaderOptions{ConfigDir: dir, Environment: "production"})
	require.NoError(t, err)
	assert.Equal(t, "/prod/id.pem", cfg.Identity.KeyPath)
}

func TestLoadWithNoFilesReturnsDefaults(t *testing.T) {
	cfg, err := Load(LoaderOptions{ConfigDir: t.TempDir(), Environment: "development"})
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ".santiago/identity.pem", cfg.Identity.KeyPath)
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("SANTIAGO_KEY_PATH", "/override/id.pem")
	t.Setenv("SANTIAGO_LOG_LEVEL", "debug")

	cfg, err := Load(LoaderOptions{ConfigDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "/override/id.pem", cfg.Identity.KeyPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFailsValidationOnDuplicateDirectoryPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.yaml"), []byte(`
directories:
  hosting_path: /same.json
  consuming_path: /same.json
`), 0o644))

	_, err := Load(LoaderOptions{ConfigDir: dir, Environment: "development"})
	assert.Error(t, err)
}

func TestLoadSkipValidationIgnoresErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.yaml"), []byte(`
directories:
  hosting_path: /same.json
  consuming_path: /same.json
`), 0o644))

	cfg, err := Load(LoaderOptions{ConfigDir: dir, Environment: "development", SkipValidation: true})
	require.NoError(t, err)
	assert.Equal(t, "/same.json", cfg.Directories.HostingPath)
}

func TestMustLoadPanicsOnInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.yaml"), []byte(`
transports:
  https:
    cert_file: /only/cert.pem
`), 0o644))

	assert.Panics(t, func() {
		MustLoad(LoaderOptions{ConfigDir: dir, Environment: "development"})
	})
}

func TestLoadForEnvironment(t *testing.T) {
	cfg, err := LoadForEnvironment("development")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
}
