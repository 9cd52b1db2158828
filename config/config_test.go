package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "santiago.yaml")

	configContent := `environment: staging
identity:
  key_path: /etc/santiago/identity.pem
  passphrase_env: STAGING_PASSPHRASE
directories:
  hosting_path: /var/lib/santiago/hosting.json
  consuming_path: /var/lib/santiago/consuming.json
transports:
  https:
    addr: ":8443"
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "/etc/santiago/identity.pem", cfg.Identity.KeyPath)
	assert.Equal(t, "STAGING_PASSPHRASE", cfg.Identity.PassphraseEnv)
	assert.Equal(t, "/var/lib/santiago/hosting.json", cfg.Directories.HostingPath)
	assert.Equal(t, "/var/lib/santiago/consuming.json", cfg.Directories.ConsumingPath)
	require.Contains(t, cfg.Transports, "https")
	assert.Equal(t, ":8443", cfg.Transports["https"].Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	// setDefaults fills in what the file left unset.
	assert.Equal(t, 30*time.Second, cfg.Directories.SaveInterval)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "/healthz", cfg.Health.Path)
}

func TestLoadFromFileJSONFallback(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "santiago.json")

	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"environment": "production",
		"identity": {"key_path": "/keys/id.pem"}
	}`), 0o644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "/keys/id.pem", cfg.Identity.KeyPath)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	original := &Config{
		Environment: "test",
		Identity:    IdentityConfig{KeyPath: "/k.pem", PassphraseEnv: "P"},
		Directories: DirectoriesConfig{HostingPath: "/h.json", ConsumingPath: "/c.json"},
		Transports:  map[string]TransportConfig{"mem": {Addr: "mem://node"}},
	}

	yamlPath := filepath.Join(tmpDir, "cfg.yaml")
	require.NoError(t, SaveToFile(original, yamlPath))
	reloaded, err := LoadFromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, original.Environment, reloaded.Environment)
	assert.Equal(t, original.Identity, reloaded.Identity)

	jsonPath := filepath.Join(tmpDir, "cfg.json")
	require.NoError(t, SaveToFile(original, jsonPath))
	reloadedJSON, err := LoadFromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, original.Directories, reloadedJSON.Directories)
}

func TestSetDefaultsLeavesExplicitValuesAlone(t *testing.T) {
	cfg := &Config{Environment: "production"}
	setDefaults(cfg)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ".santiago/identity.pem", cfg.Identity.KeyPath)
	assert.Equal(t, "SANTIAGO_PASSPHRASE", cfg.Identity.PassphraseEnv)
	assert.Equal(t, ".santiago/hosting.json", cfg.Directories.HostingPath)
	assert.Equal(t, ".santiago/consuming.json", cfg.Directories.ConsumingPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, 9091, cfg.Health.Port)
	assert.Equal(t, ":8090", cfg.Admin.Addr)
}
