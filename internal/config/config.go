// Package config resolves the transcript projects root used by every other
// component. The root is resolved once at construction and passed down; no
// component reads the environment after startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvProjectsDir overrides the default projects root when set.
const EnvProjectsDir = "SESSIONTAIL_PROJECTS_DIR"

// Config carries everything the engine needs at construction time.
type Config struct {
	// ProjectsDir is the directory holding one subdirectory per project,
	// each containing per-session JSONL transcripts.
	ProjectsDir string
}

// Load resolves the projects root: an explicit override wins, then the
// environment, then the Claude Code default ~/.claude/projects.
func Load(override string) (Config, error) {
	if override != "" {
		return Config{ProjectsDir: override}, nil
	}
	if dir := os.Getenv(EnvProjectsDir); dir != "" {
		return Config{ProjectsDir: dir}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home dir: %w", err)
	}
	return Config{ProjectsDir: filepath.Join(home, ".claude", "projects")}, nil
}
