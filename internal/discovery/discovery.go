// Package discovery lists transcript sessions on disk and resolves the
// current session for a working directory. It only ever reads: the
// filesystem, and the watch registry through a liveness probe. It holds no
// state of its own beyond the configured root.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"sessiontail/internal/paths"
	"sessiontail/internal/watch"
)

// activeWindow classifies a session as active when its transcript was
// modified this recently.
const activeWindow = 30 * time.Minute

// SessionInfo describes one transcript on disk at the moment of the call.
// It is recomputed per call and never persisted.
type SessionInfo struct {
	SessionID    string    `json:"sessionId"`
	ProjectPath  string    `json:"projectPath"`
	LastModified time.Time `json:"lastModified"`
	IsActive     bool      `json:"isActive"`
	IsWatched    bool      `json:"isWatched"`
}

// WatchProbe reports whether a live watch exists for a key. Implemented by
// watch.Registry; discovery never mutates it.
type WatchProbe interface {
	Has(key watch.Key) bool
}

// Discovery answers read-only session queries over one projects root.
type Discovery struct {
	root  string
	probe WatchProbe
}

// New creates a Discovery over the given root. probe may be nil when no
// registry is running (for example, the sessions CLI command).
func New(root string, probe WatchProbe) *Discovery {
	return &Discovery{root: root, probe: probe}
}

// FindActiveSessions enumerates transcripts under the root, one or all
// project directories depending on projectFilter, sorted by modification
// time descending. Sessions modified within the last 30 minutes are marked
// active; sessions with a live watch entry are marked watched.
func (d *Discovery) FindActiveSessions(projectFilter string) ([]SessionInfo, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects root: %w", err)
	}

	now := time.Now()
	var sessions []SessionInfo
	for _, projectEntry := range entries {
		if !projectEntry.IsDir() {
			continue
		}
		project := projectEntry.Name()
		if projectFilter != "" && project != projectFilter {
			continue
		}

		files, err := os.ReadDir(filepath.Join(d.root, project))
		if err != nil {
			continue
		}
		for _, file := range files {
			if file.IsDir() || !paths.IsTranscript(file.Name()) {
				continue
			}
			info, err := file.Info()
			if err != nil {
				continue
			}
			sessionID := paths.SessionID(file.Name())
			sessions = append(sessions, SessionInfo{
				SessionID:    sessionID,
				ProjectPath:  project,
				LastModified: info.ModTime(),
				IsActive:     now.Sub(info.ModTime()) <= activeWindow,
				IsWatched:    d.watched(project, sessionID),
			})
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastModified.After(sessions[j].LastModified)
	})
	return sessions, nil
}

// CurrentSession maps a working directory to its project directory via the
// path encoding and returns the most recently modified transcript there, or
// nil when the directory or its transcripts are absent. It is deterministic
// for unchanged filesystem state and has no side effects.
func (d *Discovery) CurrentSession(cwd string) (*SessionInfo, error) {
	project := paths.EncodeProjectPath(cwd)

	files, err := os.ReadDir(filepath.Join(d.root, project))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read project dir: %w", err)
	}

	var latest *SessionInfo
	now := time.Now()
	for _, file := range files {
		if file.IsDir() || !paths.IsTranscript(file.Name()) {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if latest != nil && !info.ModTime().After(latest.LastModified) {
			continue
		}
		sessionID := paths.SessionID(file.Name())
		latest = &SessionInfo{
			SessionID:    sessionID,
			ProjectPath:  project,
			LastModified: info.ModTime(),
			IsActive:     now.Sub(info.ModTime()) <= activeWindow,
			IsWatched:    d.watched(project, sessionID),
		}
	}
	return latest, nil
}

// SessionExists reports whether a transcript exists for the key.
func (d *Discovery) SessionExists(project, sessionID string) bool {
	info, err := os.Stat(paths.Transcript(d.root, project, sessionID))
	return err == nil && !info.IsDir()
}

func (d *Discovery) watched(project, sessionID string) bool {
	if d.probe == nil {
		return false
	}
	return d.probe.Has(watch.Key{Project: project, Session: sessionID})
}
