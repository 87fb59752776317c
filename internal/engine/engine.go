package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/wa-gateway/internal/metrics"
	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/provider"
)

const defaultPacing = 2 * time.Second

// Engine routes sends for one tenant. The provider is resolved once at
// construction from tenant state, not re-resolved per call.
type Engine struct {
	tenant   model.Tenant
	tag      provider.Tag
	provider provider.Provider
	fallback provider.Provider // legacy, nil when not fully configured
	pacing   time.Duration
	log      *zap.Logger
}

type Option func(*Engine)

// WithPacing overrides the inter-message gap used by SendBroadcast.
// Zero disables pacing.
func WithPacing(d time.Duration) Option {
	return func(e *Engine) { e.pacing = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(tenant model.Tenant, queue provider.PendingQueue, settings provider.Settings, opts ...Option) *Engine {
	tag := provider.Select(tenant)

	var p provider.Provider
	switch tag {
	case provider.TagDesktop:
		p = provider.NewDesktop(tenant, queue, settings)
	case provider.TagCloud:
		p = provider.NewCloudSession(tenant, settings)
	case provider.TagLegacy:
		p = provider.NewLegacy(settings)
	default:
		p = provider.NewUnrecognized(tag)
	}

	e := &Engine{
		tenant:   tenant,
		tag:      tag,
		provider: p,
		pacing:   defaultPacing,
		log:      zap.NewNop(),
	}

	// Single-level safety net: at most one extra attempt, always legacy,
	// never chained further.
	if tag != provider.TagLegacy && settings.LegacyConfigured() {
		e.fallback = provider.NewLegacy(settings)
	}

	for _, o := range opts {
		o(e)
	}
	return e
}

// Provider returns the tag resolved for this tenant.
func (e *Engine) Provider() provider.Tag { return e.tag }

// SendMessage dispatches one message through the resolved provider,
// retrying exactly once via legacy when the primary fails and legacy is
// available. When the fallback path is taken and itself fails, the
// fallback's error propagates.
func (e *Engine) SendMessage(ctx context.Context, phone, message, mediaURL string, opts provider.SendOptions) (model.SendResult, error) {
	res, err := e.provider.Send(ctx, phone, message, mediaURL, opts)
	if err == nil {
		metrics.MessagesTotal.WithLabelValues(e.tag.String(), res.Status.String()).Inc()
		return res, nil
	}

	metrics.MessagesTotal.WithLabelValues(e.tag.String(), "failed").Inc()
	e.log.Warn("send failed",
		zap.Int64("tenant_id", e.tenant.ID),
		zap.String("provider", e.tag.String()),
		zap.Error(err))

	if e.fallback == nil {
		return model.SendResult{}, err
	}

	e.log.Info("falling back to legacy provider", zap.Int64("tenant_id", e.tenant.ID))

	res, ferr := e.fallback.Send(ctx, phone, message, mediaURL, opts)
	if ferr != nil {
		metrics.MessagesTotal.WithLabelValues(provider.TagLegacy.String(), "failed").Inc()
		return model.SendResult{}, ferr
	}

	metrics.MessagesTotal.WithLabelValues(provider.TagLegacy.String(), res.Status.String()).Inc()
	return res, nil
}

// SendBroadcast sends to each recipient in input order, sequentially, with a
// fixed pacing gap between sends. Per-recipient failures are collected and
// never abort the run. The trailing gap after the last recipient is skipped.
func (e *Engine) SendBroadcast(ctx context.Context, recipients []model.Recipient, message, mediaURL string) model.BroadcastResult {
	res := model.BroadcastResult{
		Total:  len(recipients),
		Errors: []model.BroadcastError{},
	}

	for i, r := range recipients {
		_, err := e.SendMessage(ctx, r.Phone, message, mediaURL, provider.SendOptions{RecipientName: r.Name})
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, model.BroadcastError{Recipient: r.Phone, Error: err.Error()})
		} else {
			res.Sent++
		}

		if e.pacing > 0 && i < len(recipients)-1 {
			time.Sleep(e.pacing)
		}
	}

	return res
}

// CheckStatus reports the resolved provider's health. Never fails; probe
// errors are folded into the snapshot.
func (e *Engine) CheckStatus(ctx context.Context) model.Health {
	return e.provider.CheckStatus(ctx)
}
