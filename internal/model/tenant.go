package model

import "time"

type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

func (p Plan) String() string { return string(p) }

// Tenant is a platform account. Provider routing reads plan, the optional
// provider override and the cloud session; the agent_* columns are mutated
// only by the agent registration endpoints.
type Tenant struct {
	ID            int64      `db:"id" json:"id"`
	BusinessName  string     `db:"business_name" json:"business_name"`
	OwnerPhone    string     `db:"owner_phone" json:"owner_phone"`
	APIKey        string     `db:"api_key" json:"-"`
	Status        string     `db:"status" json:"status"` // active|suspended
	Plan          Plan       `db:"plan" json:"plan"`
	Provider      *string    `db:"provider" json:"provider,omitempty"` // explicit override, wins over plan
	CloudSession  *string    `db:"cloud_session" json:"cloud_session,omitempty"`
	AgentConnected bool      `db:"agent_connected" json:"agent_connected"`
	AgentPhone    *string    `db:"agent_phone" json:"agent_phone,omitempty"`
	AgentLastSeen *time.Time `db:"agent_last_seen" json:"agent_last_seen,omitempty"`
	RateLimitRPS  *int       `db:"rate_limit_rps" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
