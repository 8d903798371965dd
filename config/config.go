package config

import (
	"errors"
	"fmt"
	"os"

	"deathroll/game"
	"deathroll/meta"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of an experiment run. Values come from the YAML
// file, then DEATHROLL_* environment variables, then command-line flags.
type Config struct {
	Min        int    `yaml:"min" env:"MIN"`
	Max        int    `yaml:"max" env:"MAX"`
	Trials     int    `yaml:"trials" env:"TRIALS"`
	Goroutines int    `yaml:"goroutines" env:"GOROUTINES"`
	Seed       uint64 `yaml:"seed" env:"SEED"` // 0 uses the process-wide generator
	TimeInfo   bool   `yaml:"time_info" env:"TIME_INFO"`
	OutDir     string `yaml:"out_dir" env:"OUT_DIR"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL"`
	LogPretty  bool   `yaml:"log_pretty" env:"LOG_PRETTY"`
}

func Default() Config {
	return Config{
		Min:        meta.MIN_BOUND,
		Max:        meta.MAX_BOUND,
		Trials:     meta.DEFAULT_TRIALS,
		Goroutines: meta.GO_ROUTINES,
		OutDir:     meta.OUT_DIR,
		LogLevel:   "info",
		LogPretty:  true,
	}
}

// Load reads path over the defaults, skipping a missing file when path is
// empty, and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DEATHROLL_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Min < 1 {
		errs = append(errs, fmt.Errorf("min %d is not positive", c.Min))
	}
	if c.Max < c.Min {
		errs = append(errs, fmt.Errorf("max %d is below min %d", c.Max, c.Min))
	}
	if c.Trials < 1 {
		errs = append(errs, fmt.Errorf("trials %d is not positive", c.Trials))
	}
	if c.Goroutines < 1 {
		errs = append(errs, fmt.Errorf("goroutines %d is not positive", c.Goroutines))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", game.ErrInvalidArgument, errors.Join(errs...))
	}
	return nil
}
