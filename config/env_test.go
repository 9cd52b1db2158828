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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("SANTIAGO_TEST_VAR", "resolved")

	assert.Equal(t, "resolved", SubstituteEnvVars("${SANTIAGO_TEST_VAR}"))
	assert.Equal(t, "fallback", SubstituteEnvVars("${SANTIAGO_TEST_UNSET:fallback}"))
	assert.Equal(t, "", SubstituteEnvVars("${SANTIAGO_TEST_UNSET}"))
	assert.Equal(t, "plain text", SubstituteEnvVars("plain text"))
	assert.Equal(t, "prefix-resolved-suffix", SubstituteEnvVars("prefix-${SANTIAGO_TEST_VAR}-suffix"))
}

func TestSubstituteEnvVarsInConfig(t *testing.T) {
	t.Setenv("SANTIAGO_TEST_KEYPATH", "/resolved/id.pem")

	cfg := &Config{
		Identity:    IdentityConfig{KeyPath: "${SANTIAGO_TEST_KEYPATH}"},
		Transports:  map[string]TransportConfig{"https": {Addr: "${SANTIAGO_TEST_UNSET:0.0.0.0:8443}"}},
		Logging:     LoggingConfig{Level: "${SANTIAGO_TEST_UNSET:info}"},
	}

	SubstituteEnvVarsInConfig(cfg)

	assert.Equal(t, "/resolved/id.pem", cfg.Identity.KeyPath)
	assert.Equal(t, "0.0.0.0:8443", cfg.Transports["https"].Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSubstituteEnvVarsInConfigNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { SubstituteEnvVarsInConfig(nil) })
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("SANTIAGO_ENV", "")
	t.Setenv("ENVIRONMENT", "")
	assert.Equal(t, "development", GetEnvironment())

	t.Setenv("ENVIRONMENT", "Staging")
	assert.Equal(t, "staging", GetEnvironment())

	t.Setenv("SANTIAGO_ENV", "Production")
	assert.Equal(t, "production", GetEnvironment())
}

func TestIsProductionAndIsDevelopment(t *testing.T) {
	t.Setenv("SANTIAGO_ENV", "production")
	assert.True(t, IsProduction())
	assert.False(t, IsDevelopment())

	t.Setenv("SANTIAGO_ENV", "local")
	assert.False(t, IsProduction())
	assert.True(t, IsDevelopment())
}
