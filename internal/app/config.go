package app

import (
	"errors"
	"fmt"

	"github.com/pborges/almanac/internal/almanac"
	"github.com/pborges/almanac/internal/config"
)

// Config holds everything an App needs to run.
type Config struct {
	InputPath string
	Part      int // 1: seeds are values, 2: seeds are (start, length) ranges

	Workers   int
	BatchSize uint64

	LogFormat string
	LogLevel  string
	Dump      bool
}

// DefaultConfig returns the settings used when neither a config file nor a
// flag says otherwise.
func DefaultConfig() Config {
	return Config{
		Part:      1,
		BatchSize: almanac.DefaultBatchSize,
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// ApplyFile copies every setting present in f over c.
func (c *Config) ApplyFile(f *config.File) {
	if f == nil {
		return
	}
	if f.Part != nil {
		c.Part = *f.Part
	}
	if f.Workers != nil {
		c.Workers = *f.Workers
	}
	if f.BatchSize != nil {
		c.BatchSize = uint64(*f.BatchSize)
	}
	if f.Log != nil {
		if f.Log.Level != nil {
			c.LogLevel = *f.Log.Level
		}
		if f.Log.Format != nil {
			c.LogFormat = *f.Log.Format
		}
	}
}

// NewConfig validates cfg and returns a copy safe to hand to NewApp.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if cfg.Part != 1 && cfg.Part != 2 {
		return nil, fmt.Errorf("invalid part %d: must be 1 or 2", cfg.Part)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("invalid workers %d: must not be negative", cfg.Workers)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	return &cfg, nil
}
