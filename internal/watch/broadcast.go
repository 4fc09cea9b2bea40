package watch

import (
	"encoding/json"

	"sessiontail/internal/types"
)

// Outbound payload type tags.
const (
	payloadSessionState  = "session_state"
	payloadSessionUpdate = "session_update"
)

// statePayload is the full replay sent once per subscribe. Messages is
// never null on the wire, even for an empty or absent transcript.
type statePayload struct {
	Type     string                     `json:"type"`
	Messages []*types.TranscriptMessage `json:"messages"`
}

// updatePayload carries one newly appended message to every subscriber of a
// key.
type updatePayload struct {
	Type    string                   `json:"type"`
	Message *types.TranscriptMessage `json:"message"`
}

// broadcast serializes the payload once and hands it to every ready client.
// Clients that are not ready, or whose send fails, are skipped without
// buffering or eviction; a slow consumer never stalls the rest.
func (r *Registry) broadcast(clients map[Client]struct{}, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.log.Error("marshal payload", "error", err)
		return
	}
	text := string(data)
	for client := range clients {
		if !client.Ready() {
			continue
		}
		if err := client.Send(text); err != nil {
			r.log.Debug("send to client failed", "error", err)
		}
	}
}
