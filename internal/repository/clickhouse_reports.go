package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/wa-gateway/internal/model"
)

// ReportsRepository lists delivered messages from ClickHouse (final view,
// fed externally by CDC).
type ReportsRepository interface {
	ListByTenant(ctx context.Context, tenantID int64, phone string, status model.MessageStatus, limit, offset int) ([]model.MessageReport, error)
}

type reportsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewReportsRepository(ch *sqlx.DB) ReportsRepository {
	return &reportsRepository{ch: ch}
}

func (r *reportsRepository) ListByTenant(ctx context.Context, tenantID int64, phone string, status model.MessageStatus, limit, offset int) ([]model.MessageReport, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, tenant_id, phone, message, provider, status, created_at, updated_at
		FROM wagw.messages_latest
		WHERE tenant_id = ?
	`
	args := []any{tenantID}

	if status != "" {
		q += " AND status = ?"
		args = append(args, status.String())
	}
	if phone != "" {
		q += " AND phone = ?"
		args = append(args, phone)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.MessageReport
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
