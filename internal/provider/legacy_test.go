package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/provider"
)

func legacySettings(baseURL string) provider.Settings {
	return provider.Settings{
		LegacyBaseURL:   baseURL,
		LegacyProductID: "prod1",
		LegacyPhoneID:   "phone1",
		LegacyAPIKey:    "key1",
	}
}

func TestLegacySendMissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		settings provider.Settings
	}{
		{"all missing", provider.Settings{LegacyBaseURL: "http://x"}},
		{"no api key", provider.Settings{LegacyBaseURL: "http://x", LegacyProductID: "p", LegacyPhoneID: "d"}},
		{"no product id", provider.Settings{LegacyBaseURL: "http://x", LegacyPhoneID: "d", LegacyAPIKey: "k"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := provider.NewLegacy(tc.settings)
			_, err := p.Send(context.Background(), "15551234567", "hi", "", provider.SendOptions{})
			var cfgErr *provider.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestLegacySendStripsSuffixAndClassifiesText(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prod1/phone1/sendMessage" {
			t.Errorf("path = %q, want /prod1/phone1/sendMessage", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "key1" {
			t.Errorf("X-Api-Key = %q, want key1", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "legacy-msg-1"}})
	}))
	t.Cleanup(srv.Close)

	p := provider.NewLegacy(legacySettings(srv.URL))
	res, err := p.Send(context.Background(), "15551234567@c.us", "hi there", "", provider.SendOptions{})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if body["to_number"] != "15551234567" {
		t.Errorf("to_number = %v, want bare number", body["to_number"])
	}
	if body["type"] != "text" {
		t.Errorf("type = %v, want text", body["type"])
	}
	if _, ok := body["media_url"]; ok {
		t.Error("media_url should be absent for text sends")
	}
	if res.Status != model.SendSent || res.MessageID != "legacy-msg-1" {
		t.Errorf("result = %+v, want sent/legacy-msg-1", res)
	}
}

func TestLegacySendClassifiesMedia(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	p := provider.NewLegacy(legacySettings(srv.URL))
	res, err := p.Send(context.Background(), "15551234567", "look", "https://cdn.example.com/pic.jpg", provider.SendOptions{})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if body["type"] != "media" {
		t.Errorf("type = %v, want media", body["type"])
	}
	if body["media_url"] != "https://cdn.example.com/pic.jpg" {
		t.Errorf("media_url = %v", body["media_url"])
	}
	if !strings.HasPrefix(res.MessageID, "legacy-") {
		t.Errorf("messageId = %q, want synthesized legacy-<ts>", res.MessageID)
	}
}

func TestLegacySendProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid number"}`, http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	p := provider.NewLegacy(legacySettings(srv.URL))
	_, err := p.Send(context.Background(), "nope", "hi", "", provider.SendOptions{})
	var provErr *provider.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Message == "" {
		t.Error("expected normalized error message")
	}
}

func TestLegacyCheckStatusAlwaysUnknown(t *testing.T) {
	// no upstream health signal exists, configured or not
	for _, s := range []provider.Settings{{}, legacySettings("http://127.0.0.1:1")} {
		h := provider.NewLegacy(s).CheckStatus(context.Background())
		if !h.OK || h.Status != "unknown" {
			t.Errorf("health = %+v, want ok/unknown", h)
		}
	}
}
