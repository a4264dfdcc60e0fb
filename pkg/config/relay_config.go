// Package config provides configuration loading for the telemetry relay.
package config

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultLifecycleTopic = "n8n.lifecycle"
	defaultAuditTopic     = "n8n.audit"
	defaultPulseSchedule  = "0 */6 * * *"
	defaultBatchSize      = 20
)

// RelayConfigFile represents the structure of the relay.yaml file.
type RelayConfigFile struct {
	InstanceID string          `yaml:"instance_id"`
	Topics     TopicsConfig    `yaml:"topics"`
	Analytics  AnalyticsConfig `yaml:"analytics"`
	Dedup      DedupConfig     `yaml:"dedup"`
}

// TopicsConfig names the bus topics the relay consumes and produces.
type TopicsConfig struct {
	Lifecycle string `yaml:"lifecycle"`
	Audit     string `yaml:"audit"`
}

// AnalyticsConfig configures the outbound analytics sink.
type AnalyticsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Endpoint      string `yaml:"endpoint"`
	BatchSize     int    `yaml:"batch_size"`
	PulseSchedule string `yaml:"pulse_schedule"`
}

// DedupConfig configures the duplicate-completion guard.
type DedupConfig struct {
	RedisURL   string `yaml:"redis_url"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// LoadRelayConfig loads relay configuration from a YAML file and applies
// defaults for omitted fields.
func LoadRelayConfig(filepath string) (RelayConfigFile, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return RelayConfigFile{}, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var config RelayConfigFile

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return RelayConfigFile{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	applyDefaults(&config)

	return config, nil
}

// LoadRelayConfigOrDefault attempts to load relay config from file, falling
// back to the default configuration if the file cannot be read.
func LoadRelayConfigOrDefault(filepath string) RelayConfigFile {
	config, err := LoadRelayConfig(filepath)
	if err != nil {
		config = RelayConfigFile{}
		applyDefaults(&config)
	}

	return config
}

func applyDefaults(config *RelayConfigFile) {
	if config.Topics.Lifecycle == "" {
		config.Topics.Lifecycle = defaultLifecycleTopic
	}

	if config.Topics.Audit == "" {
		config.Topics.Audit = defaultAuditTopic
	}

	if config.Analytics.BatchSize <= 0 {
		config.Analytics.BatchSize = defaultBatchSize
	}

	if config.Analytics.PulseSchedule == "" {
		config.Analytics.PulseSchedule = defaultPulseSchedule
	}

	if config.Dedup.TTLMinutes <= 0 {
		config.Dedup.TTLMinutes = 60
	}
}

// ValidateRelayConfig validates the relay configuration.
func ValidateRelayConfig(config RelayConfigFile) error {
	if config.Topics.Lifecycle == "" {
		return fmt.Errorf("topics.lifecycle is required")
	}

	if config.Topics.Audit == "" {
		return fmt.Errorf("topics.audit is required")
	}

	if config.Analytics.Enabled && config.Analytics.Endpoint == "" {
		return fmt.Errorf("analytics.endpoint is required when analytics is enabled")
	}

	_, err := cron.ParseStandard(config.Analytics.PulseSchedule)
	if err != nil {
		return fmt.Errorf("analytics.pulse_schedule is not a valid cron expression: %w", err)
	}

	return nil
}
