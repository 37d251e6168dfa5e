package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/coinburst/internal/burst"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultTitle  = "coinburst"
	DefaultFPS    = 60
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Window WindowConfig `yaml:"window"`
	Burst  BurstConfig  `yaml:"burst"`
	Seed   int64        `yaml:"seed"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"`
}

type BurstConfig struct {
	Thickness  float64 `yaml:"thickness"`
	Color      string  `yaml:"color"`
	Metalness  float64 `yaml:"metalness"`
	Roughness  float64 `yaml:"roughness"`
	BurstPower float64 `yaml:"burst_power"`
	Gravity    float64 `yaml:"gravity"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			FPS:    DefaultFPS,
		},
		Burst: BurstConfig{
			Thickness:  burst.DefaultThickness,
			Color:      burst.Gold.Hex(),
			Metalness:  burst.DefaultMetalness,
			Roughness:  burst.DefaultRoughness,
			BurstPower: burst.DefaultBurstPower,
			Gravity:    burst.DefaultGravity,
		},
	}
}

// Load reads a YAML file over the defaults, so partial files are fine.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.Window.FPS)
	}
	b := c.Burst
	if b.Thickness <= 0 {
		return fmt.Errorf("%w: thickness %g", ErrInvalidConfig, b.Thickness)
	}
	if b.Metalness < 0 || b.Metalness > 1 {
		return fmt.Errorf("%w: metalness %g outside [0,1]", ErrInvalidConfig, b.Metalness)
	}
	if b.Roughness < 0 || b.Roughness > 1 {
		return fmt.Errorf("%w: roughness %g outside [0,1]", ErrInvalidConfig, b.Roughness)
	}
	if b.BurstPower < 0 {
		return fmt.Errorf("%w: burst_power %g", ErrInvalidConfig, b.BurstPower)
	}
	if _, err := burst.ParseHex(b.Color); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Params converts the burst section into simulation parameters.
func (c *Config) Params() (burst.Params, error) {
	color, err := burst.ParseHex(c.Burst.Color)
	if err != nil {
		return burst.Params{}, err
	}
	return burst.Params{
		Thickness:  c.Burst.Thickness,
		Color:      color,
		Metalness:  c.Burst.Metalness,
		Roughness:  c.Burst.Roughness,
		BurstPower: c.Burst.BurstPower,
		Gravity:    c.Burst.Gravity,
	}, nil
}
