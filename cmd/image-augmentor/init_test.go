package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menta2k/image-augmentor/internal/config"
)

// TestNewInitCmd tests the init command creation.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	if cmd.Use != "init" {
		t.Errorf("expected use 'init', got %q", cmd.Use)
	}

	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("expected output flag")
	}
	if flag.Shorthand != "o" || flag.DefValue != config.GetConfigPath() {
		t.Errorf("unexpected output flag: -%s default %q", flag.Shorthand, flag.DefValue)
	}

	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected force flag")
	}
}

func executeInit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates loadable default config", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sub", "augment.yaml")

		out, err := executeInit(t, "-o", path)
		if err != nil {
			t.Fatalf("init failed: %v", err)
		}
		if !strings.Contains(out, path) {
			t.Errorf("expected output to name %s, got %q", path, out)
		}

		cfg, err := config.LoadFromFile(path)
		if err != nil {
			t.Fatalf("written config does not load: %v", err)
		}
		if *cfg != *config.Default() {
			t.Errorf("written config differs from defaults: %+v", cfg)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "augment.yaml")
		if err := os.WriteFile(path, []byte("keep"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := executeInit(t, "-o", path); err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected already exists error, got %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "keep" {
			t.Error("existing file was modified")
		}
	})

	t.Run("overwrites with force", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "augment.yaml")
		if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := executeInit(t, "-o", path, "-f"); err != nil {
			t.Fatalf("init -f failed: %v", err)
		}
		if _, err := config.LoadFromFile(path); err != nil {
			t.Errorf("overwritten config does not load: %v", err)
		}
	})
}
