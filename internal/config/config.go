package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/render"
	"github.com/san-kum/clothsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS   = 30
	DefaultTheme = "console"
	DefaultSeed  = 1

	MaxGridSize = 200
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Cloth       ClothConfig       `yaml:"cloth"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Interaction InteractionConfig `yaml:"interaction"`
	Layout      LayoutConfig      `yaml:"layout"`
	Render      RenderConfig      `yaml:"render"`
	Seed        int64             `yaml:"seed"`
}

type ClothConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
}

type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`
	WindAmplitude float64 `yaml:"wind_amplitude"`
	GustAmplitude float64 `yaml:"gust_amplitude"`
	GustFrequency float64 `yaml:"gust_frequency"`
	MaxDt         float64 `yaml:"max_dt"`
	Substep       float64 `yaml:"substep"`
}

type InteractionConfig struct {
	GrabRadius float64 `yaml:"grab_radius"`
}

type LayoutConfig struct {
	Jitter float64 `yaml:"jitter"`
}

type RenderConfig struct {
	FPS   int    `yaml:"fps"`
	Theme string `yaml:"theme"`
	Face  string `yaml:"face"`
	Edge  string `yaml:"edge"`
	Node  string `yaml:"node"`
}

func DefaultConfig() *Config {
	return &Config{
		Cloth: ClothConfig{
			Width:     cloth.DefaultWidth,
			Height:    cloth.DefaultHeight,
			Stiffness: cloth.DefaultStiffness,
			Damping:   cloth.DefaultDamping,
		},
		Physics: PhysicsConfig{
			Gravity:       sim.DefaultGravity,
			WindAmplitude: sim.DefaultWindAmplitude,
			GustFrequency: sim.DefaultGustFrequency,
			MaxDt:         sim.DefaultMaxDt,
			Substep:       sim.DefaultSubstep,
		},
		Interaction: InteractionConfig{GrabRadius: sim.DefaultGrabRadius},
		Layout:      LayoutConfig{Jitter: sim.DefaultJitter},
		Render: RenderConfig{
			FPS:   DefaultFPS,
			Theme: DefaultTheme,
			Face:  string(render.GlyphFace),
			Edge:  string(render.GlyphEdge),
			Node:  string(render.GlyphNode),
		},
		Seed: DefaultSeed,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the file at path on cfg. Keys missing from the file keep
// their current values. The result is not validated.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal returns the YAML form of cfg.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	switch {
	case c.Cloth.Width < 2 || c.Cloth.Width > MaxGridSize:
		return invalid("cloth.width", c.Cloth.Width)
	case c.Cloth.Height < 2 || c.Cloth.Height > MaxGridSize:
		return invalid("cloth.height", c.Cloth.Height)
	case c.Cloth.Stiffness < 0:
		return invalid("cloth.stiffness", c.Cloth.Stiffness)
	case c.Cloth.Damping < 0:
		return invalid("cloth.damping", c.Cloth.Damping)
	case c.Physics.GustFrequency < 0:
		return invalid("physics.gust_frequency", c.Physics.GustFrequency)
	case c.Physics.MaxDt < 0:
		return invalid("physics.max_dt", c.Physics.MaxDt)
	case c.Physics.Substep < 0:
		return invalid("physics.substep", c.Physics.Substep)
	case c.Interaction.GrabRadius <= 0:
		return invalid("interaction.grab_radius", c.Interaction.GrabRadius)
	case c.Layout.Jitter < 0:
		return invalid("layout.jitter", c.Layout.Jitter)
	case c.Render.FPS <= 0 || c.Render.FPS > 240:
		return invalid("render.fps", c.Render.FPS)
	}
	if !slices.Contains(render.ThemeNames(), c.Render.Theme) {
		return invalid("render.theme", c.Render.Theme)
	}
	glyphs := []struct{ field, g string }{
		{"render.face", c.Render.Face},
		{"render.edge", c.Render.Edge},
		{"render.node", c.Render.Node},
	}
	for _, g := range glyphs {
		if utf8.RuneCountInString(g.g) != 1 {
			return invalid(g.field, g.g)
		}
	}
	return nil
}

func invalid(field string, v any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, field, v)
}

// Params converts the config into simulation parameters.
func (c *Config) Params() sim.Params {
	return sim.Params{
		Cloth: cloth.Params{
			Width:     c.Cloth.Width,
			Height:    c.Cloth.Height,
			Stiffness: c.Cloth.Stiffness,
			Damping:   c.Cloth.Damping,
		},
		Gravity:       c.Physics.Gravity,
		WindAmplitude: c.Physics.WindAmplitude,
		GustAmplitude: c.Physics.GustAmplitude,
		GustFrequency: c.Physics.GustFrequency,
		MaxDt:         c.Physics.MaxDt,
		Substep:       c.Physics.Substep,
		GrabRadius:    c.Interaction.GrabRadius,
		Jitter:        c.Layout.Jitter,
		Seed:          c.Seed,
		Glyphs: sim.Glyphs{
			Face: glyph(c.Render.Face, render.GlyphFace),
			Edge: glyph(c.Render.Edge, render.GlyphEdge),
			Node: glyph(c.Render.Node, render.GlyphNode),
		},
	}
}

func glyph(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}
