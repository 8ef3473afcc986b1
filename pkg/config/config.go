// Package config provides configuration loading for the render pipeline.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/epdimage/pkg/render"
)

// Config represents the render pipeline configuration.
type Config struct {
	// Screen
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`

	// Resource bounds
	MinFreeBytes int `yaml:"min_free_bytes"`
	MaxPixels    int `yaml:"max_pixels"`
	HeapBudget   int `yaml:"heap_budget"`

	// Rendering
	Dithering bool   `yaml:"dithering"`
	CacheDir  string `yaml:"cache_dir"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values for a 6-inch panel.
func Defaults() Config {
	return Config{
		ScreenWidth:  758,
		ScreenHeight: 1024,

		MinFreeBytes: render.MinFreeBytesDefault,
		MaxPixels:    render.MaxPixelsDefault,
		HeapBudget:   256 * 1024 * 1024,

		Dithering: true,

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file, starting from
// Defaults so missing keys keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// RenderOptions converts the resource bounds into render.Options.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		MinFreeBytes: c.MinFreeBytes,
		MaxPixels:    c.MaxPixels,
	}
}
