// Package models defines data structures for configuration and snapshots.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Weights are the per-signal weights of the similarity score.
// The defaults sum to 100.
type Weights struct {
	Tag        float64 `yaml:"tag" json:"tag"`
	Structure  float64 `yaml:"structure" json:"structure"`
	Classes    float64 `yaml:"classes" json:"classes"`
	Attributes float64 `yaml:"attributes" json:"attributes"`
}

// DefaultWeights returns the 30/40/20/10 weighting.
func DefaultWeights() Weights {
	return Weights{Tag: 30, Structure: 40, Classes: 20, Attributes: 10}
}

// Viewport is used to resolve viewport-relative units and media queries.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Config holds every recognized option of an extraction run.
// Zero values are replaced by defaults in LoadConfig; Validate is called
// once at the pipeline entry point.
type Config struct {
	Threshold      int           `yaml:"threshold" json:"threshold"`
	MinGroupSize   int           `yaml:"min_group_size" json:"min_group_size"`
	Weights        Weights       `yaml:"weights" json:"weights"`
	Mode           Mode          `yaml:"mode" json:"mode"`
	SignatureDepth int           `yaml:"signature_depth" json:"signature_depth"`
	ColorThreshold float64       `yaml:"color_threshold" json:"color_threshold"`
	OpacitySteps   []int         `yaml:"opacity_steps" json:"opacity_steps"`
	ZIndexSteps    []int         `yaml:"z_index_steps" json:"z_index_steps"`
	MaxDepth       int           `yaml:"max_depth" json:"max_depth"`
	MaxNodes       int           `yaml:"max_nodes" json:"max_nodes"`
	Viewport       Viewport      `yaml:"viewport" json:"viewport"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
	CacheTTL       time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
	CacheDir       string        `yaml:"cache_dir" json:"cache_dir"`
	OutputDir      string        `yaml:"output_dir" json:"output_dir"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:      70,
		MinGroupSize:   2,
		Weights:        DefaultWeights(),
		Mode:           ModeLoose,
		SignatureDepth: 3,
		ColorThreshold: 30,
		OpacitySteps:   []int{0, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 85, 90, 95, 100},
		ZIndexSteps:    []int{0, 10, 20, 30, 40, 50},
		MaxDepth:       64,
		MaxNodes:       5000,
		Viewport:       Viewport{Width: 1280, Height: 800},
		FetchTimeout:   15 * time.Second,
		CacheTTL:       time.Hour,
		CacheDir:       ".snatch-cache",
		OutputDir:      "snatch-results",
	}
}

// LoadConfig reads a YAML config file and fills unset fields with defaults.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Merge(fileCfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge copies every non-zero field of other into c.
func (c *Config) Merge(other Config) {
	if other.Threshold != 0 {
		c.Threshold = other.Threshold
	}
	if other.MinGroupSize != 0 {
		c.MinGroupSize = other.MinGroupSize
	}
	if other.Weights != (Weights{}) {
		c.Weights = other.Weights
	}
	if other.Mode != "" {
		c.Mode = other.Mode
	}
	if other.SignatureDepth != 0 {
		c.SignatureDepth = other.SignatureDepth
	}
	if other.ColorThreshold != 0 {
		c.ColorThreshold = other.ColorThreshold
	}
	if len(other.OpacitySteps) > 0 {
		c.OpacitySteps = other.OpacitySteps
	}
	if len(other.ZIndexSteps) > 0 {
		c.ZIndexSteps = other.ZIndexSteps
	}
	if other.MaxDepth != 0 {
		c.MaxDepth = other.MaxDepth
	}
	if other.MaxNodes != 0 {
		c.MaxNodes = other.MaxNodes
	}
	if other.Viewport.Width != 0 {
		c.Viewport.Width = other.Viewport.Width
	}
	if other.Viewport.Height != 0 {
		c.Viewport.Height = other.Viewport.Height
	}
	if other.FetchTimeout != 0 {
		c.FetchTimeout = other.FetchTimeout
	}
	if other.CacheTTL != 0 {
		c.CacheTTL = other.CacheTTL
	}
	if other.CacheDir != "" {
		c.CacheDir = other.CacheDir
	}
	if other.OutputDir != "" {
		c.OutputDir = other.OutputDir
	}
}

// Validate checks ranges. It reports the first invalid field.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("invalid threshold %d: must be within 0..100", c.Threshold)
	}
	if c.MinGroupSize < 2 {
		return fmt.Errorf("invalid min_group_size %d: must be at least 2", c.MinGroupSize)
	}
	w := c.Weights
	if w.Tag < 0 || w.Structure < 0 || w.Classes < 0 || w.Attributes < 0 {
		return fmt.Errorf("invalid weights %+v: must be non-negative", w)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.SignatureDepth < 0 {
		return fmt.Errorf("invalid signature_depth %d", c.SignatureDepth)
	}
	if c.ColorThreshold < 0 {
		return fmt.Errorf("invalid color_threshold %v", c.ColorThreshold)
	}
	if len(c.OpacitySteps) == 0 || len(c.ZIndexSteps) == 0 {
		return errors.New("opacity_steps and z_index_steps must not be empty")
	}
	if c.MaxDepth <= 0 || c.MaxNodes <= 0 {
		return fmt.Errorf("invalid budget max_depth=%d max_nodes=%d", c.MaxDepth, c.MaxNodes)
	}
	return nil
}
