package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/wa-gateway/internal/engine"
	"github.com/jmehdipour/wa-gateway/internal/kafka"
	"github.com/jmehdipour/wa-gateway/internal/metrics"
	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/provider"
	"github.com/jmehdipour/wa-gateway/internal/repository"
)

// Broadcast consumes broadcast jobs from Kafka and executes them through the
// delivery engine. Jobs run one at a time; each broadcast is itself a
// sequential, paced recipient loop.
type Broadcast struct {
	Consumer *kafka.Consumer
	Tenants  repository.TenantsRepository
	Pending  repository.PendingRepository
	Settings provider.Settings
	Pacing   time.Duration
	Log      *zap.Logger
}

func NewBroadcast(
	consumer *kafka.Consumer,
	tenantsRepo repository.TenantsRepository,
	pendingRepo repository.PendingRepository,
	settings provider.Settings,
	pacing time.Duration,
	log *zap.Logger,
) *Broadcast {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcast{
		Consumer: consumer,
		Tenants:  tenantsRepo,
		Pending:  pendingRepo,
		Settings: settings,
		Pacing:   pacing,
		Log:      log,
	}
}

// Run blocks fetching and executing jobs until ctx is cancelled.
func (w *Broadcast) Run(ctx context.Context) error {
	for {
		m, err := w.Consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.Log.Error("kafka fetch failed", zap.Error(err))
			time.Sleep(200 * time.Millisecond)
			continue
		}

		w.processOne(ctx, m)
	}
}

func (w *Broadcast) processOne(ctx context.Context, m kafka.Message) {
	var job model.BroadcastJob
	if err := json.Unmarshal(m.Value, &job); err != nil || job.ID == "" {
		// poison message: commit and skip
		_ = w.Consumer.Commit(ctx, m)
		w.Log.Warn("bad broadcast envelope", zap.Error(err))
		return
	}

	tenant, err := w.Tenants.GetByID(ctx, job.TenantID)
	if err != nil {
		// transient DB failure: leave uncommitted for redelivery
		w.Log.Error("load tenant failed", zap.Int64("tenant_id", job.TenantID), zap.Error(err))
		return
	}
	if tenant == nil {
		_ = w.Consumer.Commit(ctx, m)
		w.Log.Warn("broadcast for unknown tenant", zap.Int64("tenant_id", job.TenantID), zap.String("broadcast_id", job.ID))
		return
	}

	eng := engine.New(*tenant, w.Pending, w.Settings,
		engine.WithPacing(w.Pacing),
		engine.WithLogger(w.Log),
	)

	started := time.Now()
	res := eng.SendBroadcast(ctx, job.Recipients, job.Message, job.MediaURL)

	outcome := "clean"
	if res.Failed > 0 {
		outcome = "partial"
	}
	metrics.BroadcastsTotal.WithLabelValues(outcome).Inc()

	w.Log.Info("broadcast finished",
		zap.String("broadcast_id", job.ID),
		zap.Int64("tenant_id", job.TenantID),
		zap.String("provider", eng.Provider().String()),
		zap.Int("total", res.Total),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
		zap.Duration("took", time.Since(started)))

	if err := w.Consumer.Commit(ctx, m); err != nil {
		w.Log.Error("kafka commit failed", zap.Error(err))
	}
}
