package provider

import (
	"context"
	"strconv"
	"time"

	"github.com/jmehdipour/wa-gateway/internal/model"
)

// Tag identifies a delivery provider. The tenant override is carried verbatim,
// so a Tag may name a provider nobody implements; that case is handled as the
// Unrecognized variant, not silently defaulted.
type Tag string

const (
	TagDesktop Tag = "desktop-agent"
	TagCloud   Tag = "cloud-session"
	TagLegacy  Tag = "legacy"
)

func (t Tag) String() string { return string(t) }

const (
	sendTimeout   = 10 * time.Second
	healthTimeout = 5 * time.Second
)

type SendOptions struct {
	RecipientName string
}

// Provider sends one message to one recipient and reports its own health.
type Provider interface {
	Name() Tag
	Send(ctx context.Context, phone, message, mediaURL string, opts SendOptions) (model.SendResult, error)
	CheckStatus(ctx context.Context) model.Health
}

// Settings carries transport credentials for adapter construction. Every
// field is optional; adapters validate their required subset at send time.
type Settings struct {
	AgentBaseURL    string
	CloudBaseURL    string
	CloudAPIKey     string
	LegacyBaseURL   string
	LegacyProductID string
	LegacyPhoneID   string
	LegacyAPIKey    string
}

// LegacyConfigured reports whether the legacy gateway can be used at all,
// which also gates the engine's fallback path.
func (s Settings) LegacyConfigured() bool {
	return s.LegacyProductID != "" && s.LegacyPhoneID != "" && s.LegacyAPIKey != ""
}

// Select resolves the provider for a tenant. Pure function of tenant state:
// explicit override wins verbatim, then plan tier, then legacy.
func Select(t model.Tenant) Tag {
	if t.Provider != nil && *t.Provider != "" {
		return Tag(*t.Provider)
	}

	switch t.Plan {
	case model.PlanBasic:
		return TagDesktop
	case model.PlanPremium:
		return TagCloud
	}

	return TagLegacy
}

// syntheticID builds a fallback message id when the provider response
// carries none.
func syntheticID(tag Tag) string {
	return string(tag) + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
