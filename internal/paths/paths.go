// Package paths holds the on-disk layout conventions for transcript files:
// one subdirectory per project under the configured root, named by a
// reversible encoding of the project's working directory, containing one
// JSONL transcript per session.
package paths

import (
	"path/filepath"
	"strings"
)

const (
	// TranscriptExt is the fixed transcript file extension.
	TranscriptExt = ".jsonl"

	// AgentFilePrefix marks internal subagent transcripts. Files with this
	// prefix are excluded from discovery and watching.
	AgentFilePrefix = "agent-"
)

// EncodeProjectPath maps a working directory to its project directory name
// by replacing path separators: /home/user/proj becomes -home-user-proj.
// The encoding is reversible and deterministic.
func EncodeProjectPath(cwd string) string {
	return strings.ReplaceAll(filepath.Clean(cwd), string(filepath.Separator), "-")
}

// Transcript builds the path to one session's transcript file.
func Transcript(root, project, sessionID string) string {
	return filepath.Join(root, project, sessionID+TranscriptExt)
}

// IsTranscript reports whether a directory entry name is a discoverable
// transcript: the fixed extension, and not an internal agent file.
func IsTranscript(name string) bool {
	return strings.HasSuffix(name, TranscriptExt) && !strings.HasPrefix(name, AgentFilePrefix)
}

// SessionID extracts the session id from a transcript file name.
func SessionID(name string) string {
	return strings.TrimSuffix(name, TranscriptExt)
}
