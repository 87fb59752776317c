package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/util"
)

// PendingRepository persists the pending-work queue shared with desktop
// agents. Rows are inserted here and completed by the agent ack endpoint;
// nothing deletes them.
type PendingRepository interface {
	// Insert writes a new queue row and returns its generated ULID.
	Insert(ctx context.Context, m model.PendingMessage) (string, error)
	// ListPending returns up to limit pending rows for a tenant, oldest first.
	ListPending(ctx context.Context, tenantID int64, limit int) ([]model.PendingMessage, error)
	// UpdateStatus moves a row to sent/failed, scoped by (id, tenant) so one
	// tenant's agent can never touch another tenant's rows.
	UpdateStatus(ctx context.Context, id string, tenantID int64, status model.MessageStatus) error
}

type PendingRepositoryImpl struct {
	db *sqlx.DB
}

func NewPendingRepository(db *sqlx.DB) *PendingRepositoryImpl {
	return &PendingRepositoryImpl{db: db}
}

var _ PendingRepository = (*PendingRepositoryImpl)(nil)

func (r *PendingRepositoryImpl) Insert(ctx context.Context, m model.PendingMessage) (string, error) {
	id := util.New()
	const q = `
		INSERT INTO pending_messages
		    (id, tenant_id, phone, name, message, media_url, delivery_method, status, created_at)
		VALUES
		    (?,  ?,         ?,     ?,    ?,       ?,         ?,               'pending', NOW())
	`
	_, err := r.db.ExecContext(ctx, q,
		id, m.TenantID, m.Phone, m.Name, m.Message, m.MediaURL, m.DeliveryMethod,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PendingRepositoryImpl) ListPending(ctx context.Context, tenantID int64, limit int) ([]model.PendingMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var rows []model.PendingMessage
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, tenant_id, phone, name, message, media_url, delivery_method, status, created_at, sent_at
		  FROM pending_messages
		 WHERE tenant_id = ? AND status = 'pending'
		 ORDER BY created_at ASC
		 LIMIT ?
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PendingRepositoryImpl) UpdateStatus(ctx context.Context, id string, tenantID int64, status model.MessageStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pending_messages
		   SET status = ?,
		       sent_at = CASE WHEN ? = 'sent' THEN NOW() ELSE sent_at END
		 WHERE id = ? AND tenant_id = ?
	`, status.String(), status.String(), id, tenantID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
