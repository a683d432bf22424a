package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataSource string   `yaml:"data_source"` // LIVE or MOCK
	Tickers    []string `yaml:"tickers"`

	Provider struct {
		TimeoutSeconds   int `yaml:"timeout_seconds"`
		CacheMinutes     int `yaml:"cache_minutes"`
		RateLimitSeconds int `yaml:"rate_limit_seconds"`
	} `yaml:"provider"`

	Analysis struct {
		OIRangeThreshold    float64 `yaml:"oi_range_threshold"`
		BoxDistanceFraction float64 `yaml:"box_distance_fraction"`
	} `yaml:"analysis"`

	Logging struct {
		Level          string `yaml:"level"`
		Format         string `yaml:"format"`
		TracingEnabled bool   `yaml:"tracing_enabled"`
	} `yaml:"logging"`
}

func (c *Config) Validate() error {
	if c.DataSource != "LIVE" && c.DataSource != "MOCK" {
		return fmt.Errorf("invalid data_source '%s': must be 'LIVE' or 'MOCK'", c.DataSource)
	}
	if len(c.Tickers) == 0 {
		return errors.New("tickers cannot be empty")
	}
	if c.Analysis.OIRangeThreshold <= 0 || c.Analysis.OIRangeThreshold > 1 {
		return fmt.Errorf("analysis.oi_range_threshold must be in (0, 1], got %.2f", c.Analysis.OIRangeThreshold)
	}
	if c.Analysis.BoxDistanceFraction <= 0 || c.Analysis.BoxDistanceFraction >= 1 {
		return fmt.Errorf("analysis.box_distance_fraction must be in (0, 1), got %.2f", c.Analysis.BoxDistanceFraction)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataSource == "" {
		c.DataSource = "LIVE"
	}
	if c.Provider.TimeoutSeconds == 0 {
		c.Provider.TimeoutSeconds = 30
	}
	if c.Provider.CacheMinutes == 0 {
		c.Provider.CacheMinutes = 10
	}
	if c.Provider.RateLimitSeconds == 0 {
		c.Provider.RateLimitSeconds = 2
	}
	if c.Analysis.OIRangeThreshold == 0 {
		c.Analysis.OIRangeThreshold = 0.85
	}
	if c.Analysis.BoxDistanceFraction == 0 {
		c.Analysis.BoxDistanceFraction = 0.3
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
