package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/repository"
	"github.com/jmehdipour/wa-gateway/internal/util"
)

const KafkaTopic = "wa.broadcast"

// Service persists broadcast jobs into the outbox; Debezium ships them to
// Kafka where the broadcast worker executes them.
type Service struct {
	db     *sqlx.DB
	outbox repository.OutboxRepository
	topic  string
}

func New(db *sqlx.DB, outboxRepo repository.OutboxRepository, topic string) *Service {
	if topic == "" {
		topic = KafkaTopic
	}
	return &Service{db: db, outbox: outboxRepo, topic: topic}
}

// Enqueue generates a broadcast ULID and writes the job envelope to the
// outbox within a single transaction. Returns the broadcast ID.
func (s *Service) Enqueue(ctx context.Context, tenantID int64, recipients []model.Recipient, message, mediaURL string) (string, error) {
	id := util.New()

	job := model.BroadcastJob{
		ID:         id,
		TenantID:   tenantID,
		Recipients: recipients,
		Message:    message,
		MediaURL:   mediaURL,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal broadcast job: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.outbox.Insert(ctx, tx, "broadcast", id, s.topic, payload); err != nil {
		return "", fmt.Errorf("insert outbox: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}
