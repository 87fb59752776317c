package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/util"
)

// CloudSession sends synchronously through a hosted gateway using the
// tenant's persistent session.
type CloudSession struct {
	tenant       model.Tenant
	baseURL      string
	apiKey       string
	sendClient   *http.Client
	healthClient *http.Client
}

func NewCloudSession(tenant model.Tenant, s Settings) *CloudSession {
	return &CloudSession{
		tenant:       tenant,
		baseURL:      strings.TrimRight(s.CloudBaseURL, "/"),
		apiKey:       s.CloudAPIKey,
		sendClient:   &http.Client{Timeout: sendTimeout},
		healthClient: &http.Client{Timeout: healthTimeout},
	}
}

func (p *CloudSession) Name() Tag { return TagCloud }

func (p *CloudSession) session() string {
	if p.tenant.CloudSession == nil {
		return ""
	}
	return *p.tenant.CloudSession
}

func (p *CloudSession) Send(ctx context.Context, phone, message, mediaURL string, opts SendOptions) (model.SendResult, error) {
	if p.baseURL == "" || p.apiKey == "" {
		return model.SendResult{}, &ConfigError{Provider: TagCloud, Setting: "cloud api url/key"}
	}
	session := p.session()
	if session == "" {
		return model.SendResult{}, &ConfigError{Provider: TagCloud, Setting: "cloud session for tenant"}
	}

	chatID := util.ChatAddress(phone)

	raw, err := p.post(ctx, "/api/sendText", map[string]any{
		"session": session,
		"chatId":  chatID,
		"text":    message,
	})
	if err != nil {
		return model.SendResult{}, err
	}

	// Media rides a second, independent request. If it fails, the text
	// message stands as delivered and the media error surfaces.
	if mediaURL != "" {
		if _, err := p.post(ctx, "/api/sendImage", map[string]any{
			"session": session,
			"chatId":  chatID,
			"file":    map[string]string{"url": mediaURL},
		}); err != nil {
			return model.SendResult{}, err
		}
	}

	var body struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &body)
	id := body.ID
	if id == "" {
		id = syntheticID(TagCloud)
	}

	return model.SendResult{
		Provider:  TagCloud.String(),
		MessageID: id,
		Status:    model.SendSent,
		Raw:       raw,
	}, nil
}

func (p *CloudSession) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: TagCloud, Message: "marshal payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, &ProviderError{Provider: TagCloud, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", p.apiKey)

	res, err := p.sendClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: TagCloud, Message: path + " request failed", Err: err}
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode/100 != 2 {
		return nil, &ProviderError{
			Provider: TagCloud,
			Message:  fmt.Sprintf("%s status=%d", path, res.StatusCode),
			Payload:  raw,
		}
	}

	return raw, nil
}

// CheckStatus queries the gateway's session-status endpoint. Any failure,
// including missing config, reads as disconnected.
func (p *CloudSession) CheckStatus(ctx context.Context) model.Health {
	session := p.session()
	if p.baseURL == "" || session == "" {
		return model.Health{Status: "disconnected", Provider: TagCloud.String(), Error: "cloud session not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/sessions/"+session, nil)
	if err != nil {
		return model.Health{Status: "disconnected", Provider: TagCloud.String(), Error: err.Error()}
	}
	req.Header.Set("X-Api-Key", p.apiKey)

	res, err := p.healthClient.Do(req)
	if err != nil {
		return model.Health{Status: "disconnected", Provider: TagCloud.String(), Error: err.Error()}
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode/100 != 2 {
		return model.Health{Status: "disconnected", Provider: TagCloud.String(), Error: res.Status, Raw: raw}
	}

	var body struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(raw, &body)
	status := body.Status
	if status == "" {
		status = "unknown"
	}

	return model.Health{OK: true, Status: status, Provider: TagCloud.String(), Raw: raw}
}
