package types

// TranscriptMessage is the stable wire shape every consumer receives,
// regardless of which record variant produced it. Messages are immutable
// once constructed; Raw always carries the original decoded record.
type TranscriptMessage struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	Type      string         `json:"type"`
	Content   any            `json:"content"`
	Raw       map[string]any `json:"raw"`
	Role      string         `json:"role,omitempty"`
	ToolUse   []ToolUse      `json:"toolUse,omitempty"`
	ToolID    string         `json:"toolId,omitempty"`
}

// ToolUse is one tool invocation extracted from assistant content blocks.
type ToolUse struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input any    `json:"input,omitempty"`
}
