package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTeradataPath   = "data/teradata_counts.csv"
	DefaultDatabricksPath = "data/databricks_counts.csv"
	DefaultThreshold      = 1.0
)

type Config struct {
	Teradata   SourceConfig  `yaml:"teradata"`
	Databricks SourceConfig  `yaml:"databricks"`
	Threshold  float64       `yaml:"threshold"`
	Output     OutputConfig  `yaml:"output"`
	Publish    PublishConfig `yaml:"publish"`
	Log        LogConfig     `yaml:"log"`
}

type SourceConfig struct {
	Path string `yaml:"path"`
}

type OutputConfig struct {
	Format  string `yaml:"format"`
	NoColor bool   `yaml:"noColor"`
}

type PublishConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Enabled reports whether a Kafka destination was configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Teradata:   SourceConfig{Path: DefaultTeradataPath},
		Databricks: SourceConfig{Path: DefaultDatabricksPath},
		Threshold:  DefaultThreshold,
		Output:     OutputConfig{Format: "text"},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Unset keys keep their defaults.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Teradata.Path == "" {
		return errors.New("teradata.path is required")
	}
	if c.Databricks.Path == "" {
		return errors.New("databricks.path is required")
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %v", c.Threshold)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	k := c.Publish.Kafka
	if len(k.Brokers) > 0 && k.Topic == "" {
		return errors.New("publish.kafka.topic is required when brokers are set")
	}
	if k.Topic != "" && len(k.Brokers) == 0 {
		return errors.New("publish.kafka.brokers is required when topic is set")
	}
	for _, b := range k.Brokers {
		if b == "" {
			return errors.New("publish.kafka.brokers must not contain empty entries")
		}
	}
	return nil
}
