package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/util"
)

// PendingQueue is the persistence contract the desktop adapter writes to.
// Insert returns the generated row id, which doubles as the message id
// reported back to the caller and later acked by the agent.
type PendingQueue interface {
	Insert(ctx context.Context, m model.PendingMessage) (string, error)
}

// Desktop queues messages for the tenant's local agent to pick up and send.
// It never contacts the agent directly; delivery is asynchronous.
type Desktop struct {
	tenant   model.Tenant
	queue    PendingQueue
	agentURL string
	client   *http.Client
}

func NewDesktop(tenant model.Tenant, queue PendingQueue, s Settings) *Desktop {
	return &Desktop{
		tenant:   tenant,
		queue:    queue,
		agentURL: strings.TrimRight(s.AgentBaseURL, "/"),
		client:   &http.Client{Timeout: healthTimeout},
	}
}

func (p *Desktop) Name() Tag { return TagDesktop }

func (p *Desktop) Send(ctx context.Context, phone, message, mediaURL string, opts SendOptions) (model.SendResult, error) {
	m := model.PendingMessage{
		TenantID:       p.tenant.ID,
		Phone:          util.ChatAddress(phone),
		Message:        message,
		DeliveryMethod: "desktop",
		Status:         model.StatusPending,
		CreatedAt:      time.Now(),
	}
	if opts.RecipientName != "" {
		name := opts.RecipientName
		m.Name = &name
	}
	if mediaURL != "" {
		media := mediaURL
		m.MediaURL = &media
	}

	id, err := p.queue.Insert(ctx, m)
	if err != nil {
		return model.SendResult{}, &PersistenceError{Err: err}
	}

	return model.SendResult{
		Provider:  TagDesktop.String(),
		MessageID: id,
		Status:    model.SendQueued,
	}, nil
}

// CheckStatus probes the agent's health endpoint. An unreachable agent is a
// "disconnected" snapshot, not an error.
func (p *Desktop) CheckStatus(ctx context.Context) model.Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.agentURL+"/health", nil)
	if err != nil {
		return model.Health{Status: "disconnected", Provider: TagDesktop.String(), Error: err.Error()}
	}

	res, err := p.client.Do(req)
	if err != nil {
		return model.Health{Status: "disconnected", Provider: TagDesktop.String(), Error: err.Error()}
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode/100 != 2 {
		return model.Health{Status: "disconnected", Provider: TagDesktop.String(), Error: res.Status, Raw: raw}
	}

	var body struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(raw, &body)
	status := body.Status
	if status == "" {
		status = "running"
	}

	return model.Health{OK: true, Status: status, Provider: TagDesktop.String(), Raw: raw}
}
