package domain

import (
	"testing"
	"time"
)

func sessionWith(roles ...Role) Session {
	return Session{
		ID:        "sid",
		Token:     "tok",
		User:      User{ID: "u1", Roles: roles},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSession_AdminSatisfiesEveryPredicate(t *testing.T) {
	s := sessionWith(RoleAdministrator)
	if !s.IsAdmin() {
		t.Fatalf("expected admin")
	}
	for _, r := range KnownRoles() {
		if !s.HasRole(r) {
			t.Fatalf("admin should satisfy role %s", r)
		}
	}
	if !s.IsOwner() || !s.IsReviewer() {
		t.Fatalf("admin should satisfy owner and reviewer predicates")
	}
}

func TestSession_HasAnyRole(t *testing.T) {
	s := sessionWith(RoleLandowner)

	if !s.HasAnyRole(RoleInvestor, RoleLandowner) {
		t.Fatalf("expected match on landowner")
	}
	if s.HasAnyRole(RoleInvestor, RoleAnalyst) {
		t.Fatalf("unexpected match")
	}
	// Empty required list means "any authenticated user".
	if !s.HasAnyRole() {
		t.Fatalf("empty role list should pass for an authenticated session")
	}
}

func TestSession_OwnerAndReviewerAliases(t *testing.T) {
	if !sessionWith(RoleLandowner).IsOwner() {
		t.Fatalf("landowner should be an owner")
	}
	if !sessionWith(RoleOwner).IsOwner() {
		t.Fatalf("owner tag should be an owner")
	}
	if sessionWith(RoleInvestor).IsOwner() {
		t.Fatalf("investor is not an owner")
	}
	if !sessionWith(RoleGovernanceLead).IsReviewer() {
		t.Fatalf("governance lead should be a reviewer")
	}
	if !sessionWith(RoleReviewer).IsReviewer() {
		t.Fatalf("reviewer tag should be a reviewer")
	}
}

func TestSession_Expired(t *testing.T) {
	s := sessionWith(RoleInvestor)
	if s.Expired() {
		t.Fatalf("future expiry should not read as expired")
	}
	s.ExpiresAt = time.Now().Add(-time.Minute)
	if !s.Expired() {
		t.Fatalf("past expiry should read as expired")
	}
}

func TestIsKnownRole(t *testing.T) {
	if !IsKnownRole(RoleAnalyst) {
		t.Fatalf("re_analyst should be known")
	}
	if IsKnownRole("superuser") {
		t.Fatalf("superuser should be unknown")
	}
}
