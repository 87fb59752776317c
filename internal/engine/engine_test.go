package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmehdipour/wa-gateway/internal/engine"
	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/provider"
)

type fakeQueue struct {
	calls   []model.PendingMessage
	failFor string // phone (addressed form) whose insert fails
}

func (q *fakeQueue) Insert(ctx context.Context, m model.PendingMessage) (string, error) {
	q.calls = append(q.calls, m)
	if q.failFor != "" && m.Phone == q.failFor {
		return "", errors.New("insert refused")
	}
	return fmt.Sprintf("row-%d", len(q.calls)), nil
}

func premiumTenant() model.Tenant {
	session := "main"
	return model.Tenant{ID: 1, Plan: model.PlanPremium, CloudSession: &session}
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"session stopped"}`, http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func countingLegacyServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "legacy-ok"}})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendMessageFallsBackToLegacyOnce(t *testing.T) {
	legacyCalls := 0
	cloud := failingServer(t)
	legacy := countingLegacyServer(t, &legacyCalls)

	settings := provider.Settings{
		CloudBaseURL:    cloud.URL,
		CloudAPIKey:     "key",
		LegacyBaseURL:   legacy.URL,
		LegacyProductID: "p",
		LegacyPhoneID:   "d",
		LegacyAPIKey:    "k",
	}

	e := engine.New(premiumTenant(), nil, settings)
	if e.Provider() != provider.TagCloud {
		t.Fatalf("resolved provider = %q, want cloud-session", e.Provider())
	}

	res, err := e.SendMessage(context.Background(), "15551234567", "hi", "", provider.SendOptions{})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if legacyCalls != 1 {
		t.Errorf("legacy calls = %d, want exactly 1", legacyCalls)
	}
	if res.Provider != "legacy" || res.MessageID != "legacy-ok" {
		t.Errorf("result = %+v, want legacy/legacy-ok", res)
	}
}

func TestSendMessageNoFallbackWithoutLegacyCredentials(t *testing.T) {
	cloud := failingServer(t)

	settings := provider.Settings{
		CloudBaseURL: cloud.URL,
		CloudAPIKey:  "key",
		// legacy credentials absent: primary failure must surface as-is
		LegacyBaseURL: "http://127.0.0.1:1",
	}

	e := engine.New(premiumTenant(), nil, settings)
	_, err := e.SendMessage(context.Background(), "15551234567", "hi", "", provider.SendOptions{})

	var provErr *provider.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError from primary, got %v", err)
	}
	if provErr.Provider != provider.TagCloud {
		t.Errorf("error provider = %q, want cloud-session", provErr.Provider)
	}
}

func TestSendMessageFallbackErrorPropagates(t *testing.T) {
	cloud := failingServer(t)
	legacy := failingServer(t)

	settings := provider.Settings{
		CloudBaseURL:    cloud.URL,
		CloudAPIKey:     "key",
		LegacyBaseURL:   legacy.URL,
		LegacyProductID: "p",
		LegacyPhoneID:   "d",
		LegacyAPIKey:    "k",
	}

	e := engine.New(premiumTenant(), nil, settings)
	_, err := e.SendMessage(context.Background(), "15551234567", "hi", "", provider.SendOptions{})

	var provErr *provider.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Provider != provider.TagLegacy {
		t.Errorf("error provider = %q, want legacy (fallback error wins)", provErr.Provider)
	}
}

func TestSendMessageLegacyTenantNeverChains(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"down"}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	settings := provider.Settings{
		LegacyBaseURL:   srv.URL,
		LegacyProductID: "p",
		LegacyPhoneID:   "d",
		LegacyAPIKey:    "k",
	}

	e := engine.New(model.Tenant{ID: 2}, nil, settings)
	if e.Provider() != provider.TagLegacy {
		t.Fatalf("resolved provider = %q, want legacy", e.Provider())
	}

	_, err := e.SendMessage(context.Background(), "15551234567", "hi", "", provider.SendOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("gateway calls = %d, want 1 (no retry against itself)", calls)
	}
}

func TestSendMessageUnknownOverride(t *testing.T) {
	override := "carrier-pigeon"
	tenant := model.Tenant{ID: 3, Plan: model.PlanPremium, Provider: &override}

	e := engine.New(tenant, nil, provider.Settings{})
	_, err := e.SendMessage(context.Background(), "15551234567", "hi", "", provider.SendOptions{})

	var unkErr *provider.UnknownProviderError
	if !errors.As(err, &unkErr) {
		t.Fatalf("expected UnknownProviderError, got %v", err)
	}
	if unkErr.Tag != provider.Tag("carrier-pigeon") {
		t.Errorf("tag = %q, want carrier-pigeon", unkErr.Tag)
	}
}

func TestSendBroadcastCollectsFailures(t *testing.T) {
	q := &fakeQueue{failFor: "2555@c.us"}
	tenant := model.Tenant{ID: 4, Plan: model.PlanBasic}

	e := engine.New(tenant, q, provider.Settings{}, engine.WithPacing(0))

	recipients := []model.Recipient{
		{Phone: "1555"},
		{Phone: "2555"},
		{Phone: "3555", Name: "Ada"},
	}

	res := e.SendBroadcast(context.Background(), recipients, "hello all", "")

	if res.Total != 3 || res.Sent != 2 || res.Failed != 1 {
		t.Errorf("result = %+v, want total 3, sent 2, failed 1", res)
	}
	if len(res.Errors) != 1 || res.Errors[0].Recipient != "2555" {
		t.Errorf("errors = %+v, want one entry for 2555", res.Errors)
	}

	// every recipient attempted, in input order
	if len(q.calls) != 3 {
		t.Fatalf("attempts = %d, want 3", len(q.calls))
	}
	for i, want := range []string{"1555@c.us", "2555@c.us", "3555@c.us"} {
		if q.calls[i].Phone != want {
			t.Errorf("attempt %d phone = %q, want %q", i, q.calls[i].Phone, want)
		}
	}
	if q.calls[2].Name == nil || *q.calls[2].Name != "Ada" {
		t.Errorf("recipient name not carried through: %v", q.calls[2].Name)
	}
}

func TestSendBroadcastEmptyList(t *testing.T) {
	e := engine.New(model.Tenant{ID: 5, Plan: model.PlanBasic}, &fakeQueue{}, provider.Settings{}, engine.WithPacing(0))

	res := e.SendBroadcast(context.Background(), nil, "hello", "")
	if res.Total != 0 || res.Sent != 0 || res.Failed != 0 || len(res.Errors) != 0 {
		t.Errorf("result = %+v, want all zero", res)
	}
}

func TestCheckStatusLegacyAlwaysOK(t *testing.T) {
	e := engine.New(model.Tenant{ID: 6}, nil, provider.Settings{})

	h := e.CheckStatus(context.Background())
	if !h.OK || h.Status != "unknown" {
		t.Errorf("health = %+v, want ok/unknown", h)
	}
}
