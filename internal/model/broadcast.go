package model

// BroadcastJob is the payload published to Kafka (via Debezium outbox SMT)
// and consumed by the broadcast worker.
type BroadcastJob struct {
	ID         string      `json:"id"` // broadcast ULID
	TenantID   int64       `json:"tenant_id"`
	Recipients []Recipient `json:"recipients"`
	Message    string      `json:"message"`
	MediaURL   string      `json:"media_url,omitempty"`
}
