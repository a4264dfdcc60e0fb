package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadRelayConfig(t *testing.T) {
	path := writeConfig(t, `
instance_id: inst-1
topics:
  lifecycle: custom.lifecycle
analytics:
  enabled: true
  endpoint: https://analytics.internal
  batch_size: 50
dedup:
  redis_url: redis://localhost:6379
  ttl_minutes: 30
`)

	config, err := LoadRelayConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "inst-1", config.InstanceID)
	assert.Equal(t, "custom.lifecycle", config.Topics.Lifecycle)
	assert.Equal(t, "n8n.audit", config.Topics.Audit)
	assert.Equal(t, 50, config.Analytics.BatchSize)
	assert.Equal(t, "0 */6 * * *", config.Analytics.PulseSchedule)
	assert.Equal(t, 30, config.Dedup.TTLMinutes)
}

func TestLoadRelayConfigMissingFile(t *testing.T) {
	_, err := LoadRelayConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRelayConfigOrDefault(t *testing.T) {
	config := LoadRelayConfigOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, "n8n.lifecycle", config.Topics.Lifecycle)
	assert.Equal(t, "n8n.audit", config.Topics.Audit)
	assert.Equal(t, 20, config.Analytics.BatchSize)
}

func TestValidateRelayConfig(t *testing.T) {
	valid := RelayConfigFile{}
	applyDefaults(&valid)
	assert.NoError(t, ValidateRelayConfig(valid))

	missingEndpoint := valid
	missingEndpoint.Analytics.Enabled = true
	assert.Error(t, ValidateRelayConfig(missingEndpoint))

	badSchedule := valid
	badSchedule.Analytics.PulseSchedule = "not a schedule"
	assert.Error(t, ValidateRelayConfig(badSchedule))
}
