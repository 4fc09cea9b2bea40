package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeUserStringContent(t *testing.T) {
	line := `{"type":"user","message":{"role":"user","content":"hello"},"uuid":"u1","timestamp":"2025-01-01T00:00:00Z"}`

	msg, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if msg.Type != "user" {
		t.Errorf("expected type user, got %q", msg.Type)
	}
	if msg.Role != "user" {
		t.Errorf("expected role user, got %q", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("expected content hello, got %v", msg.Content)
	}
	if msg.ID != "u1" {
		t.Errorf("expected id u1, got %q", msg.ID)
	}
	if msg.Timestamp != "2025-01-01T00:00:00Z" {
		t.Errorf("expected source timestamp, got %q", msg.Timestamp)
	}
	if msg.Raw["type"] != "user" {
		t.Errorf("raw record not preserved: %v", msg.Raw)
	}
}

func TestNormalizeUserBlockContent(t *testing.T) {
	// User content that is an array passes through verbatim.
	line := `{"type":"user","message":{"role":"user","content":[{"type":"text","text":"hi"}]},"uuid":"u2"}`

	msg, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	blocks, ok := msg.Content.([]any)
	if !ok {
		t.Fatalf("expected content to stay an array, got %T", msg.Content)
	}
	if len(blocks) != 1 {
		t.Errorf("expected 1 block, got %d", len(blocks))
	}
}

func TestNormalizeAssistantTextAndToolUse(t *testing.T) {
	line := `{"type":"assistant","message":{"role":"assistant","content":[` +
		`{"type":"text","text":"first"},` +
		`{"type":"tool_use","id":"toolu_1","name":"Bash","input":{"command":"ls"}},` +
		`{"type":"text","text":"second"}` +
		`]},"uuid":"a1","timestamp":"2025-01-01T00:00:01Z"}`

	msg, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if msg.Type != "assistant" || msg.Role != "assistant" {
		t.Errorf("expected assistant type and role, got %q/%q", msg.Type, msg.Role)
	}
	if msg.Content != "first\nsecond" {
		t.Errorf("expected text blocks joined with newline, got %v", msg.Content)
	}
	if len(msg.ToolUse) != 1 {
		t.Fatalf("expected 1 tool use, got %d", len(msg.ToolUse))
	}
	if msg.ToolUse[0].ID != "toolu_1" || msg.ToolUse[0].Name != "Bash" {
		t.Errorf("unexpected tool use: %+v", msg.ToolUse[0])
	}
	input, ok := msg.ToolUse[0].Input.(map[string]any)
	if !ok || input["command"] != "ls" {
		t.Errorf("tool input not preserved: %v", msg.ToolUse[0].Input)
	}
}

func TestNormalizeAssistantStringContent(t *testing.T) {
	line := `{"type":"assistant","message":{"role":"assistant","content":"plain"},"uuid":"a2"}`

	msg, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if msg.Content != "plain" {
		t.Errorf("expected string content to pass through, got %v", msg.Content)
	}
	if len(msg.ToolUse) != 0 {
		t.Errorf("expected no tool uses, got %d", len(msg.ToolUse))
	}
}

func TestNormalizeAssistantOddContentShape(t *testing.T) {
	line := `{"type":"assistant","message":{"role":"assistant","content":{"weird":true}},"uuid":"a3"}`

	msg, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	text, ok := msg.Content.(string)
	if !ok {
		t.Fatalf("expected JSON fallback string, got %T", msg.Content)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("fallback content is not JSON: %v", err)
	}
	if decoded["weird"] != true {
		t.Errorf("fallback content lost data: %v", decoded)
	}
}

func TestNormalizeToolResult(t *testing.T) {
	line := `{"type":"tool_result","tool_use_id":"toolu_1","content":"ok","uuid":"r1","timestamp":"2025-01-01T00:00:02Z"}`

	msg, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if msg.Type != "tool_result" {
		t.Errorf("expected type tool_result, got %q", msg.Type)
	}
	if msg.ToolID != "toolu_1" {
		t.Errorf("expected toolId toolu_1, got %q", msg.ToolID)
	}
	if msg.Content != "ok" {
		t.Errorf("expected content ok, got %v", msg.Content)
	}
	if msg.Role != "" {
		t.Errorf("tool_result should carry no role, got %q", msg.Role)
	}
}

func TestNormalizeUnknownType(t *testing.T) {
	line := `{"type":"summary","summary":"compacted","uuid":"s1","timestamp":"2025-01-01T00:00:03Z"}`

	msg, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if msg.Type != "summary" {
		t.Errorf("expected original tag to survive, got %q", msg.Type)
	}
	text, ok := msg.Content.(string)
	if !ok {
		t.Fatalf("expected serialized record, got %T", msg.Content)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("content is not the serialized record: %v", err)
	}
	if decoded["summary"] != "compacted" {
		t.Errorf("serialized record lost data: %v", decoded)
	}
	if msg.ID != "s1" {
		t.Errorf("expected id from record, got %q", msg.ID)
	}
}

func TestNormalizeMissingTypeTag(t *testing.T) {
	msg, err := Normalize(`{"summary":"no tag"}`)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if msg.Type != "unknown" {
		t.Errorf("expected type unknown, got %q", msg.Type)
	}
}

func TestNormalizeGeneratedIDAndTimestamp(t *testing.T) {
	line := `{"type":"user","message":{"role":"user","content":"no ids"}}`

	first, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	second, err := Normalize(line)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Fatal("expected generated ids")
	}
	if first.ID == second.ID {
		t.Errorf("generated ids must be unique, both were %q", first.ID)
	}
	if _, err := time.Parse(time.RFC3339, first.Timestamp); err != nil {
		t.Errorf("generated timestamp not RFC3339: %q", first.Timestamp)
	}
}

func TestNormalizeMalformedLine(t *testing.T) {
	if _, err := Normalize(`{not json`); err == nil {
		t.Fatal("expected error for malformed line")
	}
	if _, err := Normalize(""); err == nil {
		t.Fatal("expected error for empty line")
	}
}

func TestClassifyUnknownTagDoesNotError(t *testing.T) {
	rec, err := Classify(`{"type":"file-history-snapshot","messageId":"m1"}`)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if rec.Kind != RecordUnknown {
		t.Errorf("expected RecordUnknown, got %v", rec.Kind)
	}
	if rec.Tag != "file-history-snapshot" {
		t.Errorf("expected original tag preserved, got %q", rec.Tag)
	}
}
