// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mchmarny/trustscore/pkg/metric"
	"github.com/mchmarny/trustscore/pkg/score"
	"gopkg.in/yaml.v3"
)

const (
	homeDirName    = ".trustscore"
	configFileName = "config.yaml"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents app config object.
type Config struct {
	Weights     map[string]float64 `yaml:"weights,omitempty"`
	Calibration Calibration        `yaml:"calibration"`
	Limits      metric.Limits      `yaml:"limits"`
	Remote      Remote             `yaml:"remote"`
}

// Calibration controls reference-artifact band overrides. Bands listed in
// the file are added to, or replace, the built-in bands.
type Calibration struct {
	Enabled bool        `yaml:"enabled"`
	Bands   score.Bands `yaml:"bands,omitempty"`
}

// Remote controls repository metadata lookups.
type Remote struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Weights: score.DefaultWeights().Map(),
		Calibration: Calibration{
			Enabled: true,
			Bands:   score.DefaultBands(),
		},
		Limits: metric.DefaultLimits(),
	}
}

// DefaultPath returns the config file location under the user home dir.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home dir: %w", err)
	}
	return filepath.Join(home, homeDirName, configFileName), nil
}

// Load reads the config at path. An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	c.Weights = nil
	c.Calibration.Bands = nil

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Weights == nil {
		c.Weights = score.DefaultWeights().Map()
	}
	bands := score.DefaultBands()
	for name, fields := range c.Calibration.Bands {
		if bands[name] == nil {
			bands[name] = make(map[string]score.Band, len(fields))
		}
		for f, b := range fields {
			bands[name][f] = b
		}
	}
	c.Calibration.Bands = bands

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks weights, bands and limits.
func (c *Config) Validate() error {
	for name := range c.Weights {
		if _, err := metric.Lookup(name); err != nil {
			return fmt.Errorf("%w: weight for %q: %w", ErrInvalidConfig, name, err)
		}
	}
	if _, err := score.NewWeights(c.Weights); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for name, fields := range c.Calibration.Bands {
		for f, b := range fields {
			if _, err := metric.Lookup(f); err != nil {
				return fmt.Errorf("%w: band %s/%s: %w", ErrInvalidConfig, name, f, err)
			}
			if err := b.Validate(); err != nil {
				return fmt.Errorf("%w: band %s/%s: %w", ErrInvalidConfig, name, f, err)
			}
		}
	}

	l := c.Limits
	if l.MaxFiles <= 0 || l.MaxSourceFiles <= 0 || l.MaxDataFiles <= 0 || l.MaxRows <= 0 || l.MaxReadBytes <= 0 {
		return fmt.Errorf("%w: limits must be positive: %+v", ErrInvalidConfig, l)
	}
	return nil
}

// CombinerWeights returns the weight table for the net score.
func (c *Config) CombinerWeights() (score.Weights, error) {
	w, err := score.NewWeights(c.Weights)
	if err != nil {
		return score.Weights{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return w, nil
}

// Calibrator returns the band calibrator, or nil when calibration is off.
func (c *Config) Calibrator() *score.Calibrator {
	if !c.Calibration.Enabled {
		return nil
	}
	return score.NewCalibrator(c.Calibration.Bands)
}
