// Package config loads the Lambda's configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the server-side runtime configuration.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	InputBucket  string `envconfig:"INPUT_BUCKET" required:"true"`
	OutputBucket string `envconfig:"OUTPUT_BUCKET" required:"true"`
	AWSRegion    string `envconfig:"AWS_REGION" default:""`

	Provider    string `envconfig:"TRANSLATION_PROVIDER" default:"translate"`
	OpenAIKey   string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:""`

	BreakerFailures uint32        `envconfig:"BREAKER_CONSECUTIVE_FAILURES" default:"5"`
	BreakerCooldown time.Duration `envconfig:"BREAKER_COOLDOWN" default:"30s"`
}

// Load reads and validates configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks invariants envconfig tags cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputBucket) == "" {
		return fmt.Errorf("INPUT_BUCKET is required")
	}
	if strings.TrimSpace(c.OutputBucket) == "" {
		return fmt.Errorf("OUTPUT_BUCKET is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case "translate", "openai":
	default:
		return fmt.Errorf("TRANSLATION_PROVIDER must be one of: translate, openai")
	}
	if strings.EqualFold(c.Provider, "openai") && strings.TrimSpace(c.OpenAIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when TRANSLATION_PROVIDER=openai")
	}
	if c.BreakerCooldown < 0 {
		return fmt.Errorf("BREAKER_COOLDOWN must not be negative")
	}
	return nil
}
