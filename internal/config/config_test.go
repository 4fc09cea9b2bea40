package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadOverrideWins(t *testing.T) {
	t.Setenv(EnvProjectsDir, "/from/env")

	cfg, err := Load("/explicit/root")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ProjectsDir != "/explicit/root" {
		t.Errorf("explicit override lost: %q", cfg.ProjectsDir)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvProjectsDir, "/from/env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ProjectsDir != "/from/env" {
		t.Errorf("environment not honored: %q", cfg.ProjectsDir)
	}
}

func TestLoadDefault(t *testing.T) {
	t.Setenv(EnvProjectsDir, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := filepath.Join(".claude", "projects")
	if !strings.HasSuffix(cfg.ProjectsDir, want) {
		t.Errorf("expected default under home, got %q", cfg.ProjectsDir)
	}
}
