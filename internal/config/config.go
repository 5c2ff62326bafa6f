// Package config loads ankigraph settings from defaults, a YAML file and
// the environment. Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/dump"
	"github.com/pbaille/ankigraph/internal/graph"
)

// Config holds every setting of a build-and-consume cycle
type Config struct {
	Source    string   `yaml:"source"`
	FirstAid  bool     `yaml:"firstaid"`
	ShowOther bool     `yaml:"show_other"`
	Exclude   []string `yaml:"exclude"`
	Weighting string   `yaml:"weighting"`
	Separator string   `yaml:"separator"`
	LogMode   string   `yaml:"log_mode"`
	Render    Render   `yaml:"render"`
}

// Render holds image settings
type Render struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Iterations int     `yaml:"iterations"`
	Labels     bool    `yaml:"labels"`
	FontPath   string  `yaml:"font_path"`
	FontSize   float64 `yaml:"font_size"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Source:    "dump.txt",
		Weighting: graph.WeightDiscovery.String(),
		Separator: dump.DefaultSeparator,
		LogMode:   "dev",
		Render: Render{
			Width:      1600,
			Height:     1600,
			Iterations: 200,
			FontSize:   8,
		},
	}
}

// Load applies the YAML file at path (if any) and then the environment
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("ANKIGRAPH_SOURCE")); v != "" {
		c.Source = v
	}
	if v := strings.TrimSpace(os.Getenv("ANKIGRAPH_FIRSTAID")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ANKIGRAPH_FIRSTAID: %w", err)
		}
		c.FirstAid = b
	}
	if v := strings.TrimSpace(os.Getenv("ANKIGRAPH_LOG_MODE")); v != "" {
		c.LogMode = v
	}
	return nil
}

// Validate checks that every named setting resolves
func (c Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("source is required")
	}
	if _, err := domain.ParseCategorySet(c.Exclude); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}
	if _, err := graph.ParseWeighting(c.Weighting); err != nil {
		return err
	}
	return nil
}

// Exclusions returns the categories hidden from views: other unless
// ShowOther is set, FirstAid unless it was asked for, and any extra names
// in Exclude.
func (c Config) Exclusions() (domain.CategorySet, error) {
	set, err := domain.ParseCategorySet(c.Exclude)
	if err != nil {
		return nil, err
	}
	if !c.ShowOther {
		set[domain.CategoryOther] = struct{}{}
	}
	if !c.FirstAid {
		set[domain.CategoryFirstAid] = struct{}{}
	}
	return set, nil
}

// GraphWeighting resolves the configured weighting
func (c Config) GraphWeighting() (graph.Weighting, error) {
	return graph.ParseWeighting(c.Weighting)
}
