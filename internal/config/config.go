package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/image-augmentor/pkg/augment"
)

// AppName is used for the XDG config directory.
const AppName = "image-augmentor"

// DefaultConfigFile is the file name looked up under the XDG config directory.
const DefaultConfigFile = "config.yaml"

// Config holds the application configuration
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Augment AugmentConfig `yaml:"augment"`
	Dedup   DedupConfig   `yaml:"dedup"`
	Run     RunConfig     `yaml:"run"`
}

// InputConfig selects the source images
type InputConfig struct {
	Dir       string `yaml:"dir"`
	Recursive bool   `yaml:"recursive"`
	// Limit caps the number of randomly selected images; 0 selects all.
	Limit int `yaml:"limit"`
}

// OutputConfig holds configuration for the written variants
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Format    string `yaml:"format"`
	Quality   int    `yaml:"quality"`
	Lossless  bool   `yaml:"lossless"`
	Randomize bool   `yaml:"randomize"`
}

// AugmentConfig holds the crop and contrast parameters
type AugmentConfig struct {
	Crops        int     `yaml:"crops"`
	ScaleMin     float64 `yaml:"scale_min"`
	ScaleMax     float64 `yaml:"scale_max"`
	Autocontrast float64 `yaml:"autocontrast"`
	CutoffMin    float64 `yaml:"cutoff_min"`
	CutoffMax    float64 `yaml:"cutoff_max"`
	Filter       string  `yaml:"filter"`
}

// DedupConfig holds configuration for perceptual deduplication
type DedupConfig struct {
	Input     bool   `yaml:"input"`
	HashSize  int    `yaml:"hash_size"`
	Algorithm string `yaml:"algorithm"`
}

// RunConfig holds execution settings
type RunConfig struct {
	Threads int    `yaml:"threads"`
	Dry     bool   `yaml:"dry"`
	Seed    uint64 `yaml:"seed"`
}

// Default returns a configuration with default values
func Default() *Config {
	opts := augment.DefaultOptions()
	return &Config{
		Output: OutputConfig{
			Dir:       opts.OutputDir,
			Width:     opts.Width,
			Height:    opts.Height,
			Format:    opts.Format,
			Quality:   opts.Quality,
			Lossless:  opts.Lossless,
			Randomize: opts.Randomize,
		},
		Augment: AugmentConfig{
			Crops:        opts.Crops,
			ScaleMin:     opts.ScaleMin,
			ScaleMax:     opts.ScaleMax,
			Autocontrast: opts.Autocontrast,
			CutoffMin:    opts.CutoffMin,
			CutoffMax:    opts.CutoffMax,
			Filter:       opts.Filter,
		},
		Dedup: DedupConfig{
			Input:     opts.DedupeInput,
			HashSize:  opts.HashSize,
			Algorithm: opts.HashAlgorithm,
		},
		Run: RunConfig{
			Threads: opts.Workers,
		},
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename) //nolint:gosec // user-provided config path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid. The input directory is
// not required here since `init` writes configs without one; use
// RequireInput before a run.
func (c *Config) Validate() error {
	switch {
	case c.Input.Limit < 0:
		return ErrInvalidLimit
	case c.Output.Width <= 0 || c.Output.Height <= 0:
		return ErrInvalidSize
	case c.Augment.Crops < 1:
		return ErrInvalidCrops
	case c.Augment.ScaleMin < 0 || c.Augment.ScaleMin > c.Augment.ScaleMax || c.Augment.ScaleMax > 1:
		return ErrInvalidScale
	case c.Augment.Autocontrast < 0 || c.Augment.Autocontrast > 1:
		return ErrInvalidAutocontrast
	case c.Augment.CutoffMin < 0 || c.Augment.CutoffMin > c.Augment.CutoffMax || c.Augment.CutoffMax > 100:
		return ErrInvalidCutoff
	case c.Output.Quality < 1 || c.Output.Quality > 100:
		return ErrInvalidQuality
	case c.Run.Threads < 1:
		return ErrInvalidThreads
	}

	// format, filter and hash names
	return c.Options().Validate()
}

// RequireInput reports ErrNoInputDir when no input directory is set
func (c *Config) RequireInput() error {
	if c.Input.Dir == "" {
		return ErrNoInputDir
	}
	return nil
}

// Options converts the configuration into pipeline options
func (c *Config) Options() augment.Options {
	return augment.Options{
		OutputDir:     c.Output.Dir,
		Width:         c.Output.Width,
		Height:        c.Output.Height,
		Crops:         c.Augment.Crops,
		ScaleMin:      c.Augment.ScaleMin,
		ScaleMax:      c.Augment.ScaleMax,
		Autocontrast:  c.Augment.Autocontrast,
		CutoffMin:     c.Augment.CutoffMin,
		CutoffMax:     c.Augment.CutoffMax,
		Format:        c.Output.Format,
		Quality:       c.Output.Quality,
		Lossless:      c.Output.Lossless,
		Filter:        c.Augment.Filter,
		DedupeInput:   c.Dedup.Input,
		HashSize:      c.Dedup.HashSize,
		HashAlgorithm: c.Dedup.Algorithm,
		Workers:       c.Run.Threads,
		Randomize:     c.Output.Randomize,
		DryRun:        c.Run.Dry,
		Seed:          c.Run.Seed,
	}
}

// GetConfigPath returns the default configuration file path.
// On Linux: ~/.config/image-augmentor/config.yaml
func GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, DefaultConfigFile)
}
