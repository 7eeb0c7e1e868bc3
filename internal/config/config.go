// Package config holds the settings shared by the command line tools and the server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/baditaflorin/review_sentiment/internal/core/sentiment"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "REVIEW_SENTIMENT_"

// Config holds data locations and processing settings.
type Config struct {
	DataDir    string
	AmazonFile string
	IMDbFile   string
	SampleFile string
	SampleSize int
	DBPath     string
	Policy     sentiment.Policy
	Workers    int
	BatchSize  int
	Port       int
	LogFile    string
	LogJSON    bool
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:    "data",
		AmazonFile: "amazon_reviews.csv",
		IMDbFile:   "imdb_reviews.csv",
		SampleFile: "eda_sample.csv",
		SampleSize: 20,
		Policy:     sentiment.PolicyBinary,
		Workers:    0,
		BatchSize:  256,
		Port:       8080,
	}
}

// AmazonPath returns the full path of the Amazon dataset.
func (c Config) AmazonPath() string {
	return filepath.Join(c.DataDir, c.AmazonFile)
}

// IMDbPath returns the full path of the IMDb dataset.
func (c Config) IMDbPath() string {
	return filepath.Join(c.DataDir, c.IMDbFile)
}

// SamplePath returns the full path of the exported sample.
func (c Config) SamplePath() string {
	return filepath.Join(c.DataDir, c.SampleFile)
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data dir must not be empty")
	}
	if _, err := sentiment.ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	if c.SampleSize < 0 {
		return errors.New("sample size must not be negative")
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch size must be greater than 0")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// FromEnv overlays REVIEW_SENTIMENT_* variables found by getenv onto cfg.
// A nil getenv reads the process environment.
func FromEnv(cfg Config, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	get := func(name string) string { return getenv(EnvPrefix + name) }

	if v := get("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := get("AMAZON_FILE"); v != "" {
		cfg.AmazonFile = v
	}
	if v := get("IMDB_FILE"); v != "" {
		cfg.IMDbFile = v
	}
	if v := get("SAMPLE_FILE"); v != "" {
		cfg.SampleFile = v
	}
	if v := get("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := get("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := get("POLICY"); v != "" {
		policy, err := sentiment.ParsePolicy(v)
		if err != nil {
			return cfg, fmt.Errorf("%sPOLICY: %w", EnvPrefix, err)
		}
		cfg.Policy = policy
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"SAMPLE_SIZE", &cfg.SampleSize},
		{"WORKERS", &cfg.Workers},
		{"BATCH_SIZE", &cfg.BatchSize},
		{"PORT", &cfg.Port},
	}
	for _, field := range ints {
		v := get(field.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s%s: %w", EnvPrefix, field.name, err)
		}
		*field.dst = n
	}

	if v := get("LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%sLOG_JSON: %w", EnvPrefix, err)
		}
		cfg.LogJSON = b
	}

	return cfg, nil
}
