package provider_test

import (
	"testing"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/provider"
)

func strptr(s string) *string { return &s }

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		tenant model.Tenant
		want   provider.Tag
	}{
		{"basic plan", model.Tenant{Plan: model.PlanBasic}, provider.TagDesktop},
		{"premium plan", model.Tenant{Plan: model.PlanPremium}, provider.TagCloud},
		{"unmapped plan", model.Tenant{Plan: "enterprise"}, provider.TagLegacy},
		{"missing plan", model.Tenant{}, provider.TagLegacy},
		{"override beats basic", model.Tenant{Plan: model.PlanBasic, Provider: strptr("legacy")}, provider.TagLegacy},
		{"override beats premium", model.Tenant{Plan: model.PlanPremium, Provider: strptr("desktop-agent")}, provider.TagDesktop},
		{"override passes through verbatim", model.Tenant{Plan: model.PlanPremium, Provider: strptr("carrier-pigeon")}, provider.Tag("carrier-pigeon")},
		{"empty override falls through", model.Tenant{Plan: model.PlanPremium, Provider: strptr("")}, provider.TagCloud},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := provider.Select(tc.tenant); got != tc.want {
				t.Errorf("Select() = %q, want %q", got, tc.want)
			}
		})
	}
}
