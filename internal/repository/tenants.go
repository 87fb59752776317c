package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/wa-gateway/internal/model"
)

type TenantsRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Tenant, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*model.Tenant, error)
	SetAgentConnected(ctx context.Context, id int64, phone string) error
	SetAgentDisconnected(ctx context.Context, id int64) error
}

type TenantsRepositoryImpl struct {
	db *sqlx.DB
}

func NewTenantsRepository(db *sqlx.DB) *TenantsRepositoryImpl {
	return &TenantsRepositoryImpl{db: db}
}

var _ TenantsRepository = (*TenantsRepositoryImpl)(nil)

const tenantColumns = `
	id, business_name, owner_phone, api_key, status, plan, provider,
	cloud_session, agent_connected, agent_phone, agent_last_seen,
	rate_limit_rps, created_at, updated_at
`

func (r *TenantsRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.GetContext(ctx, &t, `
		SELECT `+tenantColumns+`
		  FROM tenants
		 WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantsRepositoryImpl) GetByAPIKey(ctx context.Context, apiKey string) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.GetContext(ctx, &t, `
		SELECT `+tenantColumns+`
		  FROM tenants
		 WHERE api_key = ? LIMIT 1
	`, apiKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetAgentConnected records an agent registration: connected flag, agent
// phone and last-seen timestamp.
func (r *TenantsRepositoryImpl) SetAgentConnected(ctx context.Context, id int64, phone string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants
		   SET agent_connected = 1,
		       agent_phone = ?,
		       agent_last_seen = NOW(),
		       updated_at = NOW()
		 WHERE id = ?
	`, phone, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TenantsRepositoryImpl) SetAgentDisconnected(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants
		   SET agent_connected = 0,
		       updated_at = NOW()
		 WHERE id = ?
	`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ErrNotFound is returned when an update matched no row.
var ErrNotFound = errors.New("not found")

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
