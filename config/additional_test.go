package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{
		Identity:    IdentityConfig{KeyPath: "/k.pem"},
		Directories: DirectoriesConfig{HostingPath: "/h.json", ConsumingPath: "/c.json"},
		Transports:  map[string]TransportConfig{"https": {Addr: ":8443"}},
		Logging:     LoggingConfig{Level: "info"},
	}
	return cfg
}

func TestValidateConfigurationAccepsValidConfig(t *testing.T) {
	assert.Empty(t, ValidateConfiguration(validConfig()))
}

func TestValidateConfigurationRejectsEmptyKeyPath(t *testing.T) {
	cfg := validConfig()
	cfg.Identity.KeyPath = ""

	errs := ValidateConfiguration(cfg)
	assert.Contains(t, fieldsOf(errs), "identity.key_path")
}

func TestValidateConfigurationRejectsMatchingDirectoryPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Directories.ConsumingPath = cfg.Directories.HostingPath

	errs := ValidateConfiguration(cfg)
	assert.Contains(t, fieldsOf(errs), "directories.consuming_path")
}

func TestValidateConfigurationRejectsEmptyTransportAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Transports["https"] = TransportConfig{Addr: ""}

	errs := ValidateConfiguration(cfg)
	assert.Contains(t, fieldsOf(errs), "transports[https].addr")
}

func TestValidateConfigurationRejectsHalfSetTLSFiles(t *testing.T) {
	cfg := validConfig()
	cfg.Transports["https"] = TransportConfig{Addr: ":8443", CertFile: "/cert.pem"}

	errs := ValidateConfiguration(cfg)
	assert.Contains(t, fieldsOf(errs), "transports[https]")
}

func TestValidateConfigurationWarnsOnUnknownLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	errs := ValidateConfiguration(cfg)
	require := fieldsOf(errs)
	assert.Contains(t, require, "logging.level")
	for _, e := range errs {
		if e.Field == "logging.level" {
			assert.Equal(t, "warn", e.Level)
		}
	}
}

func TestValidateConfigurationRejectsMetricsEnabledWithoutPort(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics = MetricsConfig{Enabled: true, Port: 0}

	errs := ValidateConfiguration(cfg)
	assert.Contains(t, fieldsOf(errs), "metrics.port")
}

func TestValidateConfigurationRejectsHealthEnabledWithoutPort(t *testing.T) {
	cfg := validConfig()
	cfg.Health = HealthConfig{Enabled: true, Port: 0}

	errs := ValidateConfiguration(cfg)
	assert.Contains(t, fieldsOf(errs), "health.port")
}

func TestValidateConfigurationRejectsAdminEnabledWithoutAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Admin = AdminConfig{Enabled: true, Addr: ""}

	errs := ValidateConfiguration(cfg)
	assert.Contains(t, fieldsOf(errs), "admin.addr")
}

func fieldsOf(errs []ValidationError) []string {
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	return fields
}
