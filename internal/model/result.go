package model

import "encoding/json"

type SendState string

const (
	SendQueued SendState = "queued" // persisted for async pickup
	SendSent   SendState = "sent"   // accepted by a synchronous provider
)

func (s SendState) String() string { return string(s) }

// SendResult is the outcome of one provider invocation. Never persisted.
type SendResult struct {
	Provider  string          `json:"provider"`
	MessageID string          `json:"messageId"`
	Status    SendState       `json:"status"`
	Raw       json.RawMessage `json:"data,omitempty"` // raw provider payload, diagnostics only
}

// Health is a provider status snapshot. Probe failures are folded into the
// snapshot; taking one never returns an error.
type Health struct {
	OK       bool            `json:"ok"`
	Status   string          `json:"status"` // running|connected|disconnected|unknown|provider-specific
	Provider string          `json:"provider"`
	Error    string          `json:"error,omitempty"`
	Raw      json.RawMessage `json:"data,omitempty"`
}

type BroadcastError struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

// BroadcastResult aggregates per-recipient outcomes of one broadcast.
type BroadcastResult struct {
	Total  int              `json:"total"`
	Sent   int              `json:"sent"`
	Failed int              `json:"failed"`
	Errors []BroadcastError `json:"errors"`
}
