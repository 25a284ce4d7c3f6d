// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/quadsparse/integral"
	"github.com/katalvlaran/quadsparse/matrix"
)

// ErrBadConfig indicates a configuration value outside its domain.
var ErrBadConfig = errors.New("cli: bad config")

// Config describes a 1-D P1 problem and how to assemble it.
type Config struct {
	// Elements is the number of line elements.
	Elements int `yaml:"elements"`

	// Interval is the domain [a, b].
	Interval [2]float64 `yaml:"interval"`

	// Gauss is the number of Gauss points per element.
	Gauss int `yaml:"gauss"`

	// Workers bounds assembly parallelism; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// ChunkBytes is the dedup working-set budget; 0 keeps the default.
	ChunkBytes int `yaml:"chunk_bytes,omitempty"`

	// Backend selects the matrix layout: dense, csr or gonum.
	Backend string `yaml:"backend"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig is used for every field a config file leaves out.
func DefaultConfig() Config {
	return Config{
		Elements: 4,
		Interval: [2]float64{0, math.Pi},
		Gauss:    2,
		Backend:  "csr",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config on top of DefaultConfig. Unknown fields
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	switch {
	case c.Elements <= 0:
		return fmt.Errorf("%w: elements must be positive, got %d", ErrBadConfig, c.Elements)
	case !(c.Interval[0] < c.Interval[1]):
		return fmt.Errorf("%w: interval %v is empty", ErrBadConfig, c.Interval)
	case c.Gauss <= 0:
		return fmt.Errorf("%w: gauss must be positive, got %d", ErrBadConfig, c.Gauss)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrBadConfig, c.Workers)
	case c.ChunkBytes < 0:
		return fmt.Errorf("%w: chunk_bytes must not be negative, got %d", ErrBadConfig, c.ChunkBytes)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := matrix.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	return nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrBadConfig, c.LogLevel)
	}

	return l, nil
}

// integralOptions translates the config into batch options.
func (c Config) integralOptions() []integral.Option {
	var opts []integral.Option
	if c.ChunkBytes > 0 {
		opts = append(opts, integral.WithChunkBytes(c.ChunkBytes))
	}

	return opts
}
