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

// Legacy is the costly synchronous third-party gateway kept as the
// universal fallback.
type Legacy struct {
	baseURL   string
	productID string
	phoneID   string
	apiKey    string
	client    *http.Client
}

func NewLegacy(s Settings) *Legacy {
	return &Legacy{
		baseURL:   strings.TrimRight(s.LegacyBaseURL, "/"),
		productID: s.LegacyProductID,
		phoneID:   s.LegacyPhoneID,
		apiKey:    s.LegacyAPIKey,
		client:    &http.Client{Timeout: sendTimeout},
	}
}

func (p *Legacy) Name() Tag { return TagLegacy }

func (p *Legacy) Send(ctx context.Context, phone, message, mediaURL string, opts SendOptions) (model.SendResult, error) {
	if p.productID == "" || p.phoneID == "" || p.apiKey == "" {
		return model.SendResult{}, &ConfigError{Provider: TagLegacy, Setting: "legacy credentials"}
	}

	// Legacy API wants bare numbers, not the chat-addressed form.
	payload := map[string]any{
		"to_number": util.BareNumber(phone),
		"message":   message,
		"type":      "text",
	}
	if mediaURL != "" {
		payload["type"] = "media"
		payload["media_url"] = mediaURL
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return model.SendResult{}, &ProviderError{Provider: TagLegacy, Message: "marshal payload", Err: err}
	}

	url := fmt.Sprintf("%s/%s/%s/sendMessage", p.baseURL, p.productID, p.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return model.SendResult{}, &ProviderError{Provider: TagLegacy, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", p.apiKey)

	res, err := p.client.Do(req)
	if err != nil {
		return model.SendResult{}, &ProviderError{Provider: TagLegacy, Message: "sendMessage request failed", Err: err}
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode/100 != 2 {
		return model.SendResult{}, &ProviderError{
			Provider: TagLegacy,
			Message:  fmt.Sprintf("sendMessage status=%d", res.StatusCode),
			Payload:  raw,
		}
	}

	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(raw, &body)
	id := body.Data.ID
	if id == "" {
		id = syntheticID(TagLegacy)
	}

	return model.SendResult{
		Provider:  TagLegacy.String(),
		MessageID: id,
		Status:    model.SendSent,
		Raw:       raw,
	}, nil
}

// CheckStatus always reports "unknown": the upstream exposes no health
// signal.
func (p *Legacy) CheckStatus(ctx context.Context) model.Health {
	return model.Health{OK: true, Status: "unknown", Provider: TagLegacy.String()}
}
