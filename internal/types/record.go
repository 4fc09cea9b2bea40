// Package types defines the transcript record model for Claude Code JSONL
// session files. Records are classified with the Discriminated Union
// pattern: the `type` field in each record is the tag that determines which
// concrete Go type is used for full parsing, with an explicit unknown
// fallback for tags this package does not recognize.
package types

import (
	"encoding/json"
	"fmt"
)

// Record type discriminators found in transcript files.
const (
	RecordTypeUser       = "user"
	RecordTypeAssistant  = "assistant"
	RecordTypeToolResult = "tool_result"
)

// =============================================================================
// RECORD CLASSIFIER
// =============================================================================

// RecordKind is the classified kind of a transcript record.
type RecordKind int

const (
	RecordUnknown RecordKind = iota
	RecordUser
	RecordAssistant
	RecordToolResult
)

// String returns a human-readable name for the record kind.
func (k RecordKind) String() string {
	switch k {
	case RecordUser:
		return RecordTypeUser
	case RecordAssistant:
		return RecordTypeAssistant
	case RecordToolResult:
		return RecordTypeToolResult
	default:
		return "unknown"
	}
}

// ClassifiedRecord holds one parsed transcript record with its classified
// kind. Only the pointer matching Kind is non-nil. Raw preserves the whole
// decoded record losslessly.
type ClassifiedRecord struct {
	Kind RecordKind
	Tag  string // original type tag, may be empty
	Raw  map[string]any

	User       *UserRecord
	Assistant  *AssistantRecord
	ToolResult *ToolResultRecord
}

// Classify parses one JSONL line using two passes: first the type
// discriminator, then the concrete record type. A tag this package does not
// recognize classifies as RecordUnknown rather than failing; only malformed
// JSON returns an error.
func Classify(line string) (*ClassifiedRecord, error) {
	if line == "" {
		return nil, fmt.Errorf("empty line")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	tag, _ := raw["type"].(string)
	result := &ClassifiedRecord{Tag: tag, Raw: raw}

	switch tag {
	case RecordTypeUser:
		result.Kind = RecordUser
		var rec UserRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("parse user record: %w", err)
		}
		result.User = &rec

	case RecordTypeAssistant:
		result.Kind = RecordAssistant
		var rec AssistantRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("parse assistant record: %w", err)
		}
		result.Assistant = &rec

	case RecordTypeToolResult:
		result.Kind = RecordToolResult
		var rec ToolResultRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("parse tool_result record: %w", err)
		}
		result.ToolResult = &rec

	default:
		result.Kind = RecordUnknown
	}

	return result, nil
}

// =============================================================================
// CONCRETE RECORD TYPES
// =============================================================================

// UserRecord represents a user input message in the transcript.
type UserRecord struct {
	Type      string        `json:"type"`
	UUID      string        `json:"uuid,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
	Message   RecordMessage `json:"message"`
}

// AssistantRecord represents a model response in the transcript.
type AssistantRecord struct {
	Type      string        `json:"type"`
	UUID      string        `json:"uuid,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
	Message   RecordMessage `json:"message"`
}

// RecordMessage is the nested message envelope shared by user and assistant
// records. Content is either a string or an array of content blocks; it is
// kept untyped here and interpreted during normalization.
type RecordMessage struct {
	Role    string `json:"role,omitempty"`
	Content any    `json:"content"`
}

// ToolResultRecord represents the outcome of a tool invocation.
type ToolResultRecord struct {
	Type      string `json:"type"`
	UUID      string `json:"uuid,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}
