package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "image-augmentor version "+getVersion()) {
		t.Errorf("unexpected version output %q", got)
	}
	if !strings.Contains(got, "commit:") {
		t.Errorf("expected commit line, got %q", got)
	}
}

func TestGetVersion(t *testing.T) {
	t.Parallel()

	if getVersion() == "" {
		t.Error("expected non-empty version")
	}
	if getCommit() == "" {
		t.Error("expected non-empty commit")
	}
}
