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

// Package config loads and validates a Santiago node's configuration:
// its identity key, the directory persistence paths, the transports it
// listens on and sends through, and the ambient logging/metrics/health
// settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a Santiago node.
type Config struct {
	Environment string                     `yaml:"environment" json:"environment"`
	Identity    IdentityConfig             `yaml:"identity" json:"identity"`
	Directories DirectoriesConfig          `yaml:"directories" json:"directories"`
	Transports  map[string]TransportConfig `yaml:"transports" json:"transports"`
	Logging     LoggingConfig              `yaml:"logging" json:"logging"`
	Metrics     MetricsConfig              `yaml:"metrics" json:"metrics"`
	Health      HealthConfig               `yaml:"health" json:"health"`
	Admin       AdminConfig                `yaml:"admin" json:"admin"`
}

// IdentityConfig locates the local peer's long-term Ed25519 key pair.
type IdentityConfig struct {
	KeyPath       string `yaml:"key_path" json:"key_path"`
	PassphraseEnv string `yaml:"passphrase_env" json:"passphrase_env"`
}

// DirectoriesConfig locates the on-disk snapshots of the hosting and
// consuming directories (spec.md §3's H and C), so a node's learned
// service locations survive a restart.
type DirectoriesConfig struct {
	HostingPath   string        `yaml:"hosting_path" json:"hosting_path"`
	ConsumingPath string        `yaml:"consuming_path" json:"consuming_path"`
	SaveInterval  time.Duration `yaml:"save_interval" json:"save_interval"`
}

// TransportConfig configures one scheme's Listener/Sender pair. Addr is
// the local bind address for the Listener; CertFile/KeyFile, when set,
// switch an HTTPS listener from plaintext to TLS.
type TransportConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	CertFile string `yaml:"cert_file,omitempty" json:"cert_file,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty" json:"key_file,omitempty"`
}

// AdminConfig configures the JSON admin HTTP API (list/add/remove over
// the hosting and consuming directories, plus triggering a query).
type AdminConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Port    int    `yaml:"port" json:"port"`
	Path    string `yaml:"path" json:"path"`
}

// HealthConfig represents health check configuration
type HealthConfig struct {
	Enabled bool     `yaml:"enabled" json:"enabled"`
	Port    int      `yaml:"port" json:"port"`
	Path    string   `yaml:"path" json:"path"`
	Checks  []string `yaml:"checks" json:"checks"`
}

// LoadFromFile loads configuration from a file, trying YAML then JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)
	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing the format from the
// file extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults fills in a Config's zero-valued fields with the teacher's
// development-friendly defaults.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Identity.KeyPath == "" {
		cfg.Identity.KeyPath = ".santiago/identity.pem"
	}
	if cfg.Identity.PassphraseEnv == "" {
		cfg.Identity.PassphraseEnv = "SANTIAGO_PASSPHRASE"
	}

	if cfg.Directories.HostingPath == "" {
		cfg.Directories.HostingPath = ".santiago/hosting.json"
	}
	if cfg.Directories.ConsumingPath == "" {
		cfg.Directories.ConsumingPath = ".santiago/consuming.json"
	}
	if cfg.Directories.SaveInterval == 0 {
		cfg.Directories.SaveInterval = 30 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}

	if cfg.Health.Path == "" {
		cfg.Health.Path = "/healthz"
	}
	if cfg.Health.Port == 0 {
		cfg.Health.Port = 9091
	}

	if cfg.Admin.Addr == "" {
		cfg.Admin.Addr = ":8090"
	}
}
