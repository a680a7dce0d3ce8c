package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menta2k/image-augmentor/pkg/augment"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	if cfg.Output.Width != 1024 || cfg.Output.Height != 1024 {
		t.Errorf("expected 1024x1024 output, got %dx%d", cfg.Output.Width, cfg.Output.Height)
	}
	if cfg.Output.Format != "jpg" || cfg.Output.Quality != 100 {
		t.Errorf("expected jpg at quality 100, got %s at %d", cfg.Output.Format, cfg.Output.Quality)
	}
	if cfg.Augment.Crops != 1 || cfg.Augment.ScaleMin != 0.8 || cfg.Augment.ScaleMax != 1.0 {
		t.Errorf("unexpected augment defaults: %+v", cfg.Augment)
	}
	if cfg.Augment.CutoffMin != 0 || cfg.Augment.CutoffMax != 1 || cfg.Augment.Autocontrast != 0 {
		t.Errorf("unexpected contrast defaults: %+v", cfg.Augment)
	}
	if cfg.Run.Threads != 6 {
		t.Errorf("expected 6 threads, got %d", cfg.Run.Threads)
	}
	if cfg.Dedup.Input || cfg.Dedup.HashSize != 15 || cfg.Dedup.Algorithm != "average" {
		t.Errorf("unexpected dedup defaults: %+v", cfg.Dedup)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"negative limit", func(c *Config) { c.Input.Limit = -1 }, ErrInvalidLimit},
		{"zero width", func(c *Config) { c.Output.Width = 0 }, ErrInvalidSize},
		{"zero crops", func(c *Config) { c.Augment.Crops = 0 }, ErrInvalidCrops},
		{"scale inverted", func(c *Config) { c.Augment.ScaleMin = 1; c.Augment.ScaleMax = 0.5 }, ErrInvalidScale},
		{"scale above one", func(c *Config) { c.Augment.ScaleMax = 1.1 }, ErrInvalidScale},
		{"autocontrast above one", func(c *Config) { c.Augment.Autocontrast = 2 }, ErrInvalidAutocontrast},
		{"cutoff above 100", func(c *Config) { c.Augment.CutoffMax = 150 }, ErrInvalidCutoff},
		{"quality zero", func(c *Config) { c.Output.Quality = 0 }, ErrInvalidQuality},
		{"no threads", func(c *Config) { c.Run.Threads = 0 }, ErrInvalidThreads},
		{"unknown format", func(c *Config) { c.Output.Format = "gif" }, augment.ErrInvalidOptions},
		{"unknown hash", func(c *Config) { c.Dedup.Algorithm = "crc" }, augment.ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRequireInput(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.RequireInput(); !errors.Is(err, ErrNoInputDir) {
		t.Errorf("expected ErrNoInputDir, got %v", err)
	}
	cfg.Input.Dir = "photos"
	if err := cfg.RequireInput(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Input.Dir = "/data/photos"
	cfg.Input.Recursive = true
	cfg.Augment.Crops = 4
	cfg.Output.Format = "webp"
	cfg.Run.Seed = 99

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *loaded, *cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "input:\n  dir: ./in\naugment:\n  crops: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Input.Dir != "./in" || cfg.Augment.Crops != 5 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Output.Width != 1024 || cfg.Augment.ScaleMin != 0.8 || cfg.Run.Threads != 6 {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := LoadFromFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("augment: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Output.Dir = "out"
	cfg.Run.Threads = 3
	cfg.Run.Dry = true
	cfg.Dedup.Input = true

	opts := cfg.Options()
	if opts.OutputDir != "out" || opts.Workers != 3 || !opts.DryRun || !opts.DedupeInput {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts != func() augment.Options {
		o := augment.DefaultOptions()
		o.OutputDir, o.Workers, o.DryRun, o.DedupeInput = "out", 3, true, true
		return o
	}() {
		t.Errorf("options diverge from defaults: %+v", opts)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Parallel()

	path := GetConfigPath()
	if filepath.Base(path) != DefaultConfigFile {
		t.Errorf("expected %s, got %s", DefaultConfigFile, path)
	}
	if filepath.Base(filepath.Dir(path)) != AppName {
		t.Errorf("expected %s directory, got %s", AppName, path)
	}
}
