package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/policy"
)

func dashboardFor(t *testing.T, roles ...domain.Role) dashboardResponse {
	t.Helper()
	sessions := &stubSessions{sessions: map[string]*domain.Session{
		"sid-1": {
			ID:        "sid-1",
			Token:     "token",
			User:      domain.User{ID: "u-1", Email: "ana@example.com", Roles: roles},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}
	h := NewDashboardHandler()

	rec, err := runHydrated(t, sessions, h.View, authedRequest(t, http.MethodGet, "/dashboard", "sid-1"))
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	var body dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func hasAction(actions []quickAction, want policy.Action) bool {
	for _, qa := range actions {
		if qa.Action == want {
			return true
		}
	}
	return false
}

func hasComponent(components []string, want string) bool {
	for _, c := range components {
		if c == want {
			return true
		}
	}
	return false
}

func TestDashboard_InvestorView(t *testing.T) {
	body := dashboardFor(t, domain.RoleInvestor)

	if body.Variant != policy.VariantInvestor {
		t.Fatalf("variant = %q", body.Variant)
	}
	if !hasComponent(body.Components, "portfolio") {
		t.Fatalf("investor dashboard missing portfolio: %v", body.Components)
	}
	if hasComponent(body.Components, "property-status") {
		t.Fatalf("investor dashboard should not mount landowner widgets")
	}
	if !hasAction(body.QuickActions, policy.ActionBrowseInvest) {
		t.Fatalf("investor should get the browse tile")
	}
	if hasAction(body.QuickActions, policy.ActionManageUsers) {
		t.Fatalf("investor must not get admin tiles")
	}
}

func TestDashboard_MultiRoleVariantPrecedence(t *testing.T) {
	// Investor wins over landowner regardless of role order, but the
	// components union both roles.
	body := dashboardFor(t, domain.RoleLandowner, domain.RoleInvestor)
	if body.Variant != policy.VariantInvestor {
		t.Fatalf("variant = %q, want investor", body.Variant)
	}
	if !hasComponent(body.Components, "portfolio") || !hasComponent(body.Components, "property-status") {
		t.Fatalf("multi-role dashboard should union widgets: %v", body.Components)
	}
}

func TestDashboard_AdminGetsEveryTile(t *testing.T) {
	body := dashboardFor(t, domain.RoleAdministrator)

	if body.Variant != policy.VariantAdministrator {
		t.Fatalf("variant = %q", body.Variant)
	}
	if len(body.QuickActions) != len(quickActionCatalog) {
		t.Fatalf("admin tiles = %d, want the full catalog (%d)",
			len(body.QuickActions), len(quickActionCatalog))
	}
}

func TestDashboard_UnknownRolesFallBackToDefault(t *testing.T) {
	body := dashboardFor(t, domain.Role("legacy_tag"))

	if body.Variant != policy.VariantDefault {
		t.Fatalf("variant = %q, want default", body.Variant)
	}
	// Fail-closed: baseline widgets only, no role tiles.
	if len(body.Components) != 3 {
		t.Fatalf("unexpected widgets for unknown role: %v", body.Components)
	}
	if len(body.QuickActions) != 0 {
		t.Fatalf("unknown role should get no tiles: %v", body.QuickActions)
	}
}

func TestNavigation_MatchesPolicyRoutes(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]*domain.Session{
		"sid-1": {
			ID:        "sid-1",
			Token:     "token",
			User:      domain.User{ID: "u-1", Roles: []domain.Role{domain.RoleGovernanceLead}},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}
	h := NewDashboardHandler()

	rec, err := runHydrated(t, sessions, h.Navigation, authedRequest(t, http.MethodGet, "/navigation", "sid-1"))
	if err != nil {
		t.Fatalf("Navigation: %v", err)
	}
	var body navigationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	want := policy.AccessibleRoutes([]domain.Role{domain.RoleGovernanceLead})
	if len(body.Routes) != len(want) {
		t.Fatalf("routes = %v, want %v", body.Routes, want)
	}
	for i := range want {
		if body.Routes[i] != want[i] {
			t.Fatalf("routes = %v, want %v", body.Routes, want)
		}
	}
}
