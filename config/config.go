// Package config aggregates the configuration of every pipeline stage and
// loads it from an optional YAML file.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/motion-strip/controller"
	"github.com/nvr-ai/motion-strip/images"
	"github.com/nvr-ai/motion-strip/motion"
	"github.com/nvr-ai/motion-strip/profiler"
)

const maxFileSize = 1 << 20

// Export enables strip persistence.
type Export struct {
	Enabled             bool `json:"enabled" yaml:"enabled"`
	images.ExportConfig `yaml:",inline"`
}

// Profiler enables periodic runtime reports.
type Profiler struct {
	Enabled                   bool `json:"enabled" yaml:"enabled"`
	profiler.ProfilingOptions `yaml:",inline"`
}

// Config is the root configuration.
type Config struct {
	Segmenter images.SegmenterConfig `json:"segmenter" yaml:"segmenter"`
	Motion    motion.Config          `json:"motion" yaml:"motion"`
	Loop      controller.Config      `json:"loop" yaml:"loop"`
	Export    Export                 `json:"export" yaml:"export"`
	Profiler  Profiler               `json:"profiler" yaml:"profiler"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Segmenter: images.DefaultSegmenterConfig(),
		Motion:    motion.DefaultConfig(),
		Loop:      controller.DefaultConfig(),
		Export:    Export{ExportConfig: images.DefaultExportConfig()},
		Profiler:  Profiler{Enabled: true},
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default values.
//
// Arguments:
//   - path: Path to a .yaml or .yml file.
//
// Returns:
//   - Config: The validated configuration.
//   - error: If the file cannot be read, parsed or validated.
func Load(path string) (Config, error) {
	cfg := Default()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return cfg, errors.Errorf("config file must have a .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "stat config file")
	}
	if info.Size() > maxFileSize {
		return cfg, errors.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", cleanPath)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate validates and normalizes every section.
func (c *Config) Validate() error {
	if err := c.Segmenter.Validate(); err != nil {
		return errors.Wrap(err, "segmenter")
	}
	c.Motion.Validate()
	if err := c.Loop.Validate(); err != nil {
		return errors.Wrap(err, "loop")
	}
	if c.Export.Enabled {
		if err := c.Export.Validate(); err != nil {
			return errors.Wrap(err, "export")
		}
	}
	return nil
}
