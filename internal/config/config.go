// Package config loads plate-finder settings from an optional TOML file.
//
// Every key is optional; anything the file leaves out keeps its default.
// Unknown keys are rejected so that typos do not silently fall back.
//
// Example:
//
//	output_dir = "annotated"
//
//	[detection]
//	threshold = 150
//	dilate_rounds = 4
//
//	[detection.aspect]
//	min = 2.0
//	max = 6.0
//
//	[render]
//	box_color = "#FF00FF"
//	line_width = 2
//	scale = 2
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/plate-finder/internal/detection"
	"github.com/ironsheep/plate-finder/internal/imaging"
)

// DefaultOutputDir is where annotated images go when no output path is given.
const DefaultOutputDir = "output_images"

// Config is the complete set of plate-finder settings.
type Config struct {
	// OutputDir receives annotated images when no explicit path is given.
	OutputDir string `toml:"output_dir"`

	Detection detection.Config      `toml:"detection"`
	Render    imaging.RenderOptions `toml:"render"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		Detection: detection.DefaultConfig(),
		Render:    imaging.DefaultRenderOptions(),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if err := c.Detection.Validate(); err != nil {
		return fmt.Errorf("invalid [detection] section: %w", err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("invalid [render] section: %w", err)
	}
	return nil
}

// Load returns the defaults overlaid with the settings in path. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for an in-memory document.
func Parse(doc string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
}
