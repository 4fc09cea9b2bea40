package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Normalize parses one JSONL line into a TranscriptMessage. A malformed
// line returns an error and is the caller's to skip; it never blocks
// processing of the lines around it.
func Normalize(line string) (*TranscriptMessage, error) {
	classified, err := Classify(line)
	if err != nil {
		return nil, err
	}

	msg := &TranscriptMessage{Raw: classified.Raw}

	switch classified.Kind {
	case RecordUser:
		msg.Type = RecordTypeUser
		msg.Role = "user"
		msg.Content = classified.User.Message.Content
		msg.ID = classified.User.UUID
		msg.Timestamp = classified.User.Timestamp

	case RecordAssistant:
		msg.Type = RecordTypeAssistant
		msg.Role = "assistant"
		msg.Content = extractText(classified.Assistant.Message.Content)
		msg.ToolUse = extractToolUses(classified.Assistant.Message.Content)
		msg.ID = classified.Assistant.UUID
		msg.Timestamp = classified.Assistant.Timestamp

	case RecordToolResult:
		msg.Type = RecordTypeToolResult
		msg.ToolID = classified.ToolResult.ToolUseID
		msg.Content = classified.ToolResult.Content
		msg.ID = classified.ToolResult.UUID
		msg.Timestamp = classified.ToolResult.Timestamp

	default:
		tag := classified.Tag
		if tag == "" {
			tag = "unknown"
		}
		msg.Type = tag
		msg.Content = serializeRecord(classified.Raw)
		msg.ID, _ = classified.Raw["uuid"].(string)
		msg.Timestamp, _ = classified.Raw["timestamp"].(string)
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return msg, nil
}

// extractText flattens assistant message content into display text: string
// content passes through unchanged, array content is filtered to text
// blocks joined with newlines, and any other shape falls back to its JSON
// serialization.
func extractText(content any) any {
	switch c := content.(type) {
	case string:
		return c
	case []any:
		var parts []string
		for _, block := range c {
			blockMap, ok := block.(map[string]any)
			if !ok {
				continue
			}
			if blockMap["type"] != "text" {
				continue
			}
			if text, ok := blockMap["text"].(string); ok {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return serializeRecord(content)
	}
}

// extractToolUses collects the tool_use entries from assistant content
// blocks. String or otherwise non-array content has none.
func extractToolUses(content any) []ToolUse {
	blocks, ok := content.([]any)
	if !ok {
		return nil
	}

	var uses []ToolUse
	for _, block := range blocks {
		blockMap, ok := block.(map[string]any)
		if !ok {
			continue
		}
		if blockMap["type"] != "tool_use" {
			continue
		}
		id, _ := blockMap["id"].(string)
		name, _ := blockMap["name"].(string)
		uses = append(uses, ToolUse{
			ID:    id,
			Name:  name,
			Input: blockMap["input"],
		})
	}
	return uses
}

// serializeRecord renders a decoded value back to its JSON text.
func serializeRecord(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
