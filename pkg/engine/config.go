package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/slideshow/pkg/deck"
	"github.com/germanamz/slideshow/pkg/transition"
	"github.com/germanamz/slideshow/pkg/window"
)

// Config is the top-level engine configuration: the carousels a page declares.
type Config struct {
	BaseDir   string           `yaml:"-"` // Directory slide files are resolved against. Set by LoadConfig.
	Carousels []CarouselConfig `yaml:"carousels"`
	Entry     string           `yaml:"entry,omitempty"`
}

// SlideConfig names one slide. Content and File are only read by hosts that
// render slides themselves; the engine only uses ID.
type SlideConfig struct {
	ID      string `yaml:"id"`
	Content string `yaml:"content,omitempty"`
	File    string `yaml:"file,omitempty"`
}

// CarouselConfig describes one carousel widget.
type CarouselConfig struct {
	Name          string        `yaml:"name"`
	Slides        []SlideConfig `yaml:"slides"`
	Animation     string        `yaml:"animation,omitempty"`      // slide, fade, zoom or 3d (default slide).
	Direction     string        `yaml:"direction,omitempty"`      // HORIZONTAL, VERTICAL, optionally _REVERSE.
	Speed         int           `yaml:"speed,omitempty"`          // Transition duration in milliseconds (0 = default).
	Infinite      bool          `yaml:"infinite,omitempty"`       // Wrap from the last slide to the first and back.
	Random        bool          `yaml:"random,omitempty"`         // Shuffle slides once outside editing mode.
	SlidesToLoad  int           `yaml:"slides_to_load,omitempty"` // Neighbours preloaded per side, clamped to [1,5] (0 = 1).
	Variant       string        `yaml:"variant,omitempty"`        // slider or basic (default slider).
	Gap           int           `yaml:"gap,omitempty"`            // Gap in pixels between slides of the 3d style.
	SelectedIndex int           `yaml:"selected_index,omitempty"` // Slide shown while editing.
	Editing       bool          `yaml:"editing,omitempty"`        // Start in editing mode.
}

// IDs returns the slide identifiers in configuration order.
func (c CarouselConfig) IDs() []string {
	ids := make([]string, len(c.Slides))
	for i, s := range c.Slides {
		ids[i] = s.ID
	}
	return ids
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing. BaseDir is set to the directory of path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}

	cfg.BaseDir = filepath.Dir(path)

	return cfg, nil
}

// ParseConfig parses YAML configuration data after expanding environment
// variables.
func ParseConfig(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent. Duplicate
// slide identifiers are allowed.
func (c Config) Validate() error {
	if len(c.Carousels) == 0 {
		return fmt.Errorf("engine: config: at least one carousel is required")
	}

	names := make(map[string]struct{}, len(c.Carousels))
	for _, cc := range c.Carousels {
		if cc.Name == "" {
			return fmt.Errorf("engine: config: carousel name is required")
		}
		if _, dup := names[cc.Name]; dup {
			return fmt.Errorf("engine: config: duplicate carousel name %q", cc.Name)
		}
		names[cc.Name] = struct{}{}

		if err := cc.Validate(); err != nil {
			return err
		}
	}

	if c.Entry != "" {
		if _, ok := names[c.Entry]; !ok {
			return fmt.Errorf("engine: config: entry %q not found in carousels", c.Entry)
		}
	}

	return nil
}

// Validate checks a single carousel. Out-of-range slides_to_load is not an
// error: it is clamped with a warning when the carousel is created.
func (c CarouselConfig) Validate() error {
	if _, err := transition.ParseStyle(c.Animation); err != nil {
		return fmt.Errorf("engine: config: carousel %q: %w", c.Name, err)
	}
	if _, _, err := deck.ParseDirection(c.Direction); err != nil {
		return fmt.Errorf("engine: config: carousel %q: %w", c.Name, err)
	}
	if _, err := window.ParseVariant(c.Variant); err != nil {
		return fmt.Errorf("engine: config: carousel %q: %w", c.Name, err)
	}
	if c.Speed < 0 {
		return fmt.Errorf("engine: config: carousel %q: speed must not be negative", c.Name)
	}

	for i, s := range c.Slides {
		if s.ID == "" {
			return fmt.Errorf("engine: config: carousel %q: slide %d: id is required", c.Name, i)
		}
		if s.Content != "" && s.File != "" {
			return fmt.Errorf("engine: config: carousel %q: slide %q: content and file are mutually exclusive", c.Name, s.ID)
		}
	}

	return nil
}

// Find returns the carousel configuration with the given name. An empty name
// selects Entry, or the first carousel when Entry is unset.
func (c Config) Find(name string) (CarouselConfig, bool) {
	if name == "" {
		name = c.Entry
	}
	if name == "" && len(c.Carousels) > 0 {
		return c.Carousels[0], true
	}
	for _, cc := range c.Carousels {
		if cc.Name == name {
			return cc, true
		}
	}
	return CarouselConfig{}, false
}

// SlideContent returns the content of every slide keyed by identifier, reading
// File entries relative to BaseDir. Later duplicates of an identifier win.
func (c Config) SlideContent(cc CarouselConfig) (map[string]string, error) {
	out := make(map[string]string, len(cc.Slides))
	for _, s := range cc.Slides {
		if s.File == "" {
			out[s.ID] = s.Content
			continue
		}

		path := s.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.BaseDir, path)
		}

		data, err := os.ReadFile(path) //nolint:gosec // slide files are named by the configuration
		if err != nil {
			return nil, fmt.Errorf("engine: slide %q: %w", s.ID, err)
		}
		out[s.ID] = string(data)
	}
	return out, nil
}
