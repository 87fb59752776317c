package provider

import (
	"context"

	"github.com/jmehdipour/wa-gateway/internal/model"
)

// Unrecognized is the explicit variant for an override tag nobody
// implements. It exists so "unknown provider" is a typed send-time error
// instead of a silent default.
type Unrecognized struct {
	tag Tag
}

func NewUnrecognized(tag Tag) *Unrecognized {
	return &Unrecognized{tag: tag}
}

func (p *Unrecognized) Name() Tag { return p.tag }

func (p *Unrecognized) Send(ctx context.Context, phone, message, mediaURL string, opts SendOptions) (model.SendResult, error) {
	return model.SendResult{}, &UnknownProviderError{Tag: p.tag}
}

func (p *Unrecognized) CheckStatus(ctx context.Context) model.Health {
	return model.Health{Status: "unknown", Provider: p.tag.String(), Error: "unknown provider"}
}
