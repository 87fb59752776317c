package model

import (
	"strings"
	"time"
)

type MessageStatus string

const (
	StatusPending MessageStatus = "pending"
	StatusSent    MessageStatus = "sent"
	StatusFailed  MessageStatus = "failed"
)

func (s MessageStatus) String() string {
	return string(s)
}

func (s MessageStatus) Valid() bool {
	return s == StatusPending || s == StatusSent || s == StatusFailed
}

// ParseAckStatus normalizes an agent acknowledgement; empty => sent.
// Returns (value, true) if valid; otherwise (sent, false).
func ParseAckStatus(s string) (MessageStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sent":
		return StatusSent, true
	case "failed":
		return StatusFailed, true
	default:
		return StatusSent, false
	}
}

// PendingMessage is a persisted queue row awaiting pickup by a tenant's
// desktop agent. Rows are created with status=pending by the delivery engine
// and moved to sent/failed by the agent ack endpoint, keyed by (id, tenant_id).
// Rows are never deleted here; cleanup is an external job.
type PendingMessage struct {
	ID             string        `db:"id" json:"id"`
	TenantID       int64         `db:"tenant_id" json:"tenant_id"`
	Phone          string        `db:"phone" json:"phone"` // addressed form, e.g. 1555...@c.us
	Name           *string       `db:"name" json:"name,omitempty"`
	Message        string        `db:"message" json:"message"`
	MediaURL       *string       `db:"media_url" json:"media_url,omitempty"`
	DeliveryMethod string        `db:"delivery_method" json:"delivery_method"`
	Status         MessageStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	SentAt         *time.Time    `db:"sent_at" json:"sent_at,omitempty"`
}

// MessageReport is a row of the ClickHouse reporting view (fed by CDC).
type MessageReport struct {
	ID        string        `db:"id" json:"id"`
	TenantID  int64         `db:"tenant_id" json:"tenant_id"`
	Phone     string        `db:"phone" json:"phone"`
	Message   string        `db:"message" json:"message"`
	Provider  string        `db:"provider" json:"provider"`
	Status    MessageStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
