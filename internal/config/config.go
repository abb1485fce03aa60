// Package config loads ropchain runtime settings from a YAML or JSON file,
// an optional .env file and ROPCHAIN_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ib-77/ropchain/internal/logging"
)

const (
	EnvLogLevel   = "ROPCHAIN_LOG_LEVEL"
	EnvMaxWorkers = "ROPCHAIN_MAX_WORKERS"
)

type Loop struct {
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance" json:"tolerance"`
}

type Config struct {
	LogLevel string `yaml:"log_level" json:"log_level"`
	// MaxWorkers caps parallel chains that set no explicit limit; 0 means
	// one line per child.
	MaxWorkers int  `yaml:"max_workers" json:"max_workers"`
	Loop       Loop `yaml:"loop" json:"loop"`
	Metrics    bool `yaml:"metrics" json:"metrics"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Loop: Loop{
			MaxIterations: 50,
			Tolerance:     1e-9,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error. Values
// from .env (when present in the working directory) and the process
// environment override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvMaxWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxWorkers, err)
		}
		cfg.MaxWorkers = n
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxWorkers < 0 {
		errs = append(errs, fmt.Errorf("max_workers must not be negative, got %d", c.MaxWorkers))
	}
	if c.Loop.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("loop.max_iterations must be at least 1, got %d", c.Loop.MaxIterations))
	}
	if c.Loop.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("loop.tolerance must be positive, got %g", c.Loop.Tolerance))
	}
	return errors.Join(errs...)
}
